package modem

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/airgradienthq/cellmodem/at"
)

// regState is the seven-phase registration FSM, grounded directly on
// original_source's NetworkRegistrationState enum.
type regState int

const (
	stateCheckModuleReady regState = iota
	statePrepareRegistration
	stateCheckNetworkRegistration
	stateEnsureServiceReady
	stateConfigureNetwork
	stateConfigureService
	stateNetworkRegistered
)

const (
	registrationRetryDelay    = 1 * time.Second
	networkRegistrationWindow = 15 * time.Second
	serviceReadyWindow        = 10 * time.Second
	bandSettlePause           = 5 * time.Second

	// allBandsMask is the AT+CNBP argument that enables every supported
	// GSM/LTE band, taken verbatim from original_source's
	// _applyPreferedBands.
	allBandsMask = "0xFFFFFFFF7FFFFFFF,0x000007FF3FDF3FFF,0x000F"
)

// StartNetworkRegistration drives the module from power-up through to a
// registered, IP-addressed state, or gives up after overallTimeout. The
// state machine is re-entered from CHECK_MODULE_READY whenever a step
// times out against the modem (not merely fails), and NETWORK_REGISTERED
// must be reached twice in a row — once to report success, once more as
// the loop's own re-entry check — before the operation is considered done.
func (d *Driver) StartNetworkRegistration(ctx context.Context, ct RadioTech, apn string, overallTimeout time.Duration) Result[string] {
	if _, ok := cnmpMode(ct); !ok {
		return resultErr[string](Error)
	}

	deadline := time.Now().Add(overallTimeout)
	state := stateCheckModuleReady
	stateStart := time.Now()

	d.logger.Info("starting network registration", "radio", ct, "apn", apn)

	for time.Now().Before(deadline) {
		if ctxDone(ctx) {
			return resultErr[string](Timeout)
		}

		switch state {
		case stateCheckModuleReady:
			state = d.implCheckModuleReady(ctx)

		case statePrepareRegistration:
			state = d.implPrepareRegistration(ctx, ct)
			stateStart = time.Now()

		case stateCheckNetworkRegistration:
			if time.Since(stateStart) > networkRegistrationWindow {
				state = stateConfigureNetwork
				continue
			}
			next := d.implCheckNetworkRegistration(ctx, ct)
			if next == stateEnsureServiceReady {
				stateStart = time.Now()
			}
			state = next

		case stateEnsureServiceReady:
			if time.Since(stateStart) > serviceReadyWindow {
				state = stateConfigureService
				continue
			}
			state = d.implEnsureServiceReady(ctx)

		case stateConfigureNetwork:
			state = d.implConfigureNetwork(ctx, apn)
			stateStart = time.Now()

		case stateConfigureService:
			state = d.implConfigureService(ctx, apn)
			stateStart = time.Now()

		case stateNetworkRegistered:
			next := d.implNetworkRegistered(ctx)
			if next == stateNetworkRegistered {
				ip := d.RetrieveIPAddr(ctx)
				d.logger.Info("network registration complete", "ip", ip.Data)
				return resultOk(ip.Data)
			}
			stateStart = time.Now()
			state = next
		}

		sleepCtx(ctx, time.Millisecond)
	}

	d.logger.Warn("network registration timed out")
	return resultErr[string](Timeout)
}

func (d *Driver) implCheckModuleReady(ctx context.Context) regState {
	if !d.engine.TestAT(ctx, 9*time.Second) {
		sleepCtx(ctx, registrationRetryDelay)
		return stateCheckModuleReady
	}
	if d.IsSimReady(ctx) != Ok {
		sleepCtx(ctx, registrationRetryDelay)
		return stateCheckModuleReady
	}
	return statePrepareRegistration
}

func (d *Driver) implPrepareRegistration(ctx context.Context, ct RadioTech) regState {
	d.disableNetworkRegistrationURC(ctx, ct)
	d.applyCellularTechnology(ctx, ct)
	return stateCheckNetworkRegistration
}

func (d *Driver) implCheckNetworkRegistration(ctx context.Context, ct RadioTech) regState {
	var crs ModemReturn
	if ct == Auto {
		crs = d.checkAllRegistrationStatus(ctx)
	} else {
		crs = d.IsNetworkRegistered(ctx, ct)
	}

	switch crs {
	case Timeout:
		return stateCheckModuleReady
	case Failed, Error:
		sleepCtx(ctx, registrationRetryDelay)
		return stateCheckNetworkRegistration
	}

	signal := d.RetrieveSignal(ctx)
	if signal.Status == Timeout {
		return stateCheckModuleReady
	}
	if !ValidSignal(signal.Data) {
		sleepCtx(ctx, registrationRetryDelay)
		return stateCheckNetworkRegistration
	}
	return stateEnsureServiceReady
}

func (d *Driver) implEnsureServiceReady(ctx context.Context) regState {
	crs := d.isServiceAvailable(ctx)
	if crs == Timeout {
		return stateCheckModuleReady
	}
	if crs == Failed || crs == Error {
		sleepCtx(ctx, registrationRetryDelay)
		return stateEnsureServiceReady
	}

	crs = d.ensurePacketDomainAttached(ctx, false)
	if crs == Timeout {
		return stateCheckModuleReady
	}
	if crs == Failed || crs == Error {
		sleepCtx(ctx, registrationRetryDelay)
		return stateEnsureServiceReady
	}
	return stateNetworkRegistered
}

func (d *Driver) implConfigureNetwork(ctx context.Context, apn string) regState {
	signal := d.RetrieveSignal(ctx)
	if signal.Status == Timeout {
		return stateCheckModuleReady
	}
	d.logger.Debug("cellular signal", "csq", signal.Data)

	if d.applyAPN(ctx, apn) == Timeout {
		return stateCheckModuleReady
	}

	crs := d.checkOperatorSelection(ctx)
	if crs == Timeout {
		return stateCheckModuleReady
	}
	if crs == Ok {
		return stateCheckNetworkRegistration
	}

	d.diagnosticsSnapshot(ctx)

	if d.applyPreferedBands(ctx) == Timeout {
		return stateCheckModuleReady
	}
	sleepCtx(ctx, bandSettlePause)

	if d.applyOperatorSelection(ctx) == Timeout {
		return stateCheckModuleReady
	}

	return stateCheckNetworkRegistration
}

func (d *Driver) implConfigureService(ctx context.Context, apn string) regState {
	if d.activatePDPContext(ctx) == Timeout {
		return stateCheckModuleReady
	}
	if d.ensurePacketDomainAttached(ctx, true) == Timeout {
		return stateCheckModuleReady
	}
	return stateCheckNetworkRegistration
}

func (d *Driver) implNetworkRegistered(ctx context.Context) regState {
	signal := d.RetrieveSignal(ctx)
	if signal.Status == Timeout {
		return stateCheckModuleReady
	}
	if !ValidSignal(signal.Data) {
		sleepCtx(ctx, registrationRetryDelay)
		return stateEnsureServiceReady
	}

	ip := d.RetrieveIPAddr(ctx)
	if ip.Data == "" {
		return stateEnsureServiceReady
	}
	return stateNetworkRegistered
}

func (d *Driver) disableNetworkRegistrationURC(ctx context.Context, ct RadioTech) ModemReturn {
	if ct != Auto {
		cmd, ok := registrationCommand(ct)
		if !ok {
			return Error
		}
		return d.commandOK(ctx, fmt.Sprintf("+%s=0", cmd))
	}
	for _, cmd := range []string{"CREG", "CGREG", "CEREG"} {
		if status := d.commandOK(ctx, fmt.Sprintf("+%s=0", cmd)); status == Timeout {
			return Timeout
		}
	}
	return Ok
}

func (d *Driver) applyCellularTechnology(ctx context.Context, ct RadioTech) ModemReturn {
	mode, ok := cnmpMode(ct)
	if !ok {
		return Error
	}
	return d.commandOK(ctx, fmt.Sprintf("+CNMP=%d", mode))
}

func (d *Driver) checkAllRegistrationStatus(ctx context.Context) ModemReturn {
	for _, ct := range []RadioTech{TwoG, Lte} {
		if d.IsNetworkRegistered(ctx, ct) == Ok {
			return Ok
		}
	}
	return Failed
}

func (d *Driver) isServiceAvailable(ctx context.Context) ModemReturn {
	d.engine.SendAT("+CNSMOD?")
	ok, line := d.engine.WaitAndRecvLine(ctx, 32, d.atTimeout, true)
	if !ok {
		return Timeout
	}
	outcome, _ := d.engine.Wait(ctx)
	if outcome != at.Arg1 {
		return statusFromOutcome(outcome)
	}
	_, stat, ok := splitPair(line, ',')
	if !ok || stat == "0" {
		return Failed
	}
	return Ok
}

func (d *Driver) ensurePacketDomainAttached(ctx context.Context, activate bool) ModemReturn {
	if activate {
		if status := d.commandOK(ctx, "+CGATT=1"); status != Ok {
			return status
		}
	}
	d.engine.SendAT("+CGATT?")
	ok, line := d.engine.WaitAndRecvLine(ctx, 24, d.atTimeout, true)
	if !ok {
		return Timeout
	}
	outcome, _ := d.engine.Wait(ctx)
	if outcome != at.Arg1 {
		return statusFromOutcome(outcome)
	}
	_, attached, ok := splitPair(line, ':')
	if !ok || trimLeadingSpace(attached) != "1" {
		return Failed
	}
	return Ok
}

func (d *Driver) applyAPN(ctx context.Context, apn string) ModemReturn {
	return d.commandOK(ctx, fmt.Sprintf(`+CGDCONT=1,"IP","%s"`, apn))
}

// checkOperatorSelection reports Ok only when the module is already in
// automatic operator selection, format-2 mode (mode 0, format 2 — the
// "0,2,\"..."" tail _checkOperatorSelection matches in
// original_source), so that a module still on manual/format-0 selection
// falls through to diagnosticsSnapshot/applyPreferedBands/
// applyOperatorSelection rather than short-circuiting back to
// CHECK_NETWORK_REGISTRATION.
func (d *Driver) checkOperatorSelection(ctx context.Context) ModemReturn {
	d.engine.SendAT("+COPS?")
	ok, line := d.engine.WaitAndRecvLine(ctx, 48, d.atTimeout, true)
	if !ok {
		return Timeout
	}
	outcome, _ := d.engine.Wait(ctx)
	if outcome != at.Arg1 {
		return statusFromOutcome(outcome)
	}
	_, rest, ok := splitPair(line, ':')
	if !ok {
		return Failed
	}
	if strings.HasPrefix(trimLeadingSpace(rest), `0,2,"`) {
		return Ok
	}
	return Failed
}

func (d *Driver) applyPreferedBands(ctx context.Context) ModemReturn {
	return d.commandOK(ctx, "+CNBP="+allBandsMask)
}

func (d *Driver) applyOperatorSelection(ctx context.Context) ModemReturn {
	return d.commandOK(ctx, "+COPS=0")
}

func (d *Driver) activatePDPContext(ctx context.Context) ModemReturn {
	return d.commandOK(ctx, "+CGACT=1,1")
}

// diagnosticsSnapshot issues the four informational queries
// original_source's _implConfigureNetwork prints before applying bands.
// Their parsed values are never consumed; only the raw trailing line is
// logged at debug level.
func (d *Driver) diagnosticsSnapshot(ctx context.Context) {
	for _, cmd := range []string{"+CNBP?", "+COPS=?", "+CPSI?", "+CGDCONT?"} {
		d.engine.SendAT(cmd)
		ok, line := d.engine.WaitAndRecvLine(ctx, at.RecvBufferSize, d.atTimeout, true)
		d.engine.Wait(ctx)
		if ok {
			d.logger.Debug("registration diagnostics", "cmd", cmd, "line", line)
		}
	}
}

// commandOK sends an AT command and maps the terminal response onto
// ModemReturn, for commands whose only output is OK/ERROR.
func (d *Driver) commandOK(ctx context.Context, body string) ModemReturn {
	d.engine.SendAT(body)
	outcome, _ := d.engine.Wait(ctx)
	if outcome == at.Arg1 {
		return Ok
	}
	return statusFromOutcome(outcome)
}

func ctxDone(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
