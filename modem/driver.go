package modem

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/airgradienthq/cellmodem/at"
)

// Driver is the single entry point for talking to one cellular modem. It
// owns no lock and assumes a single goroutine drives it end to end,
// matching original_source's single-threaded assumption: context.Context
// is threaded through every blocking call purely for cooperative
// cancellation, not to make the driver safe for concurrent callers.
type Driver struct {
	engine atEngine
	power  PowerController
	logger *slog.Logger

	atTimeout                  time.Duration
	httpReadChunkSize          int
	defaultHTTPConnectTimeout  int
	defaultHTTPResponseTimeout int
}

// New builds and initializes a Driver: testAT, echo off, URC off, identity
// printed, mirroring original_source's init(). Initialization runs under
// cfg.InitTimeout (or ctx's own deadline, whichever is tighter).
func New(ctx context.Context, cfg Config) (*Driver, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	d := &Driver{
		engine:                     cfg.engine,
		power:                      cfg.power,
		logger:                     cfg.logger.With("component", "modem.Driver"),
		atTimeout:                  cfg.ATTimeout,
		httpReadChunkSize:          cfg.HTTPReadChunkSize,
		defaultHTTPConnectTimeout:  cfg.DefaultHTTPConnectTimeout,
		defaultHTTPResponseTimeout: cfg.DefaultHTTPResponseTimeout,
	}

	initCtx := ctx
	if cfg.InitTimeout > 0 {
		var cancel context.CancelFunc
		initCtx, cancel = context.WithTimeout(ctx, cfg.InitTimeout)
		defer cancel()
	}

	if status := d.init(initCtx); status != Ok {
		return nil, fmt.Errorf("modem: initialize: %s", status)
	}
	return d, nil
}

// init runs testAT, ATE0, AT+CGEREP=0 and ATI in sequence, with a 2s
// settle pause after ATE0 and after AT+CGEREP=0, as original_source's
// init()/reinitialize() do. The identity line from ATI is logged but not required for success.
func (d *Driver) init(ctx context.Context) ModemReturn {
	if !d.engine.TestAT(ctx, 9*time.Second) {
		return Timeout
	}

	d.engine.SendAT("E0")
	if outcome, _ := d.engine.Wait(ctx); outcome != at.Arg1 {
		d.logger.Warn("ATE0 not acknowledged", "outcome", outcome)
	}
	sleepCtx(ctx, 2*time.Second)

	d.engine.SendAT("+CGEREP=0")
	if outcome, _ := d.engine.Wait(ctx); outcome != at.Arg1 {
		d.logger.Warn("AT+CGEREP=0 not acknowledged", "outcome", outcome)
	}
	sleepCtx(ctx, 2*time.Second)

	info := d.RetrieveModuleInfo(ctx)
	if info.Status == Ok {
		d.logger.Debug("modem identity", "info", info.Data)
	}

	return Ok
}

// Reinitialize re-runs the init sequence without a fresh power pulse,
// for recovering from a wedged modem mid-session.
func (d *Driver) Reinitialize(ctx context.Context) ModemReturn {
	d.engine.ClearBuffer()
	return d.init(ctx)
}

// PowerOn pulses the power controller's on sequence, a no-op (logged) if
// none was configured.
func (d *Driver) PowerOn(ctx context.Context) {
	if d.power == nil {
		d.logger.Warn("PowerOn called with no PowerController configured")
		return
	}
	if err := d.power.PowerOn(ctx); err != nil {
		d.logger.Error("power on failed", "err", err)
	}
}

// PowerOff pulses the power controller's off sequence. force mirrors
// original_source's forced power-off (skips the graceful AT+CPOF
// negotiation and goes straight to the GPIO pulse); on the non-force path
// the pulse only fires if AT+CPOF was not acknowledged, matching
// original_source's powerOff().
func (d *Driver) PowerOff(ctx context.Context, force bool) {
	pulse := force
	if !force {
		d.engine.SendAT("+CPOF")
		outcome, _ := d.engine.Wait(ctx)
		if outcome != at.Arg1 {
			pulse = true
		}
	}
	if !pulse {
		return
	}
	if d.power == nil {
		d.logger.Warn("PowerOff called with no PowerController configured")
		return
	}
	if err := d.power.PowerOff(ctx); err != nil {
		d.logger.Error("power off failed", "err", err)
	}
}

// Reset issues AT+CRESET and reports whether the modem acknowledged it.
func (d *Driver) Reset(ctx context.Context) bool {
	d.engine.SendAT("+CRESET")
	outcome, _ := d.engine.Wait(ctx)
	return outcome == at.Arg1
}

// Sleep issues the modem's low-power-mode command. Best effort: no status
// is returned because the modem typically stops answering immediately
// after, matching original_source's fire-and-forget sleep().
func (d *Driver) Sleep(ctx context.Context) {
	d.engine.SendAT("+CSCLK=1")
	d.engine.Wait(ctx)
}

// RetrieveSimCCID issues AT+CICCID and returns the trailing ICCID digits.
func (d *Driver) RetrieveSimCCID(ctx context.Context) Result[string] {
	d.engine.SendAT("+CICCID")
	ok, line := d.engine.WaitAndRecvLine(ctx, 40, d.atTimeout, true)
	if !ok {
		return resultErr[string](Timeout)
	}
	outcome, _ := d.engine.Wait(ctx)
	if outcome != at.Arg1 {
		return resultErr[string](statusFromOutcome(outcome))
	}
	_, ccid, ok := splitPair(line, ':')
	if !ok {
		return resultOk(line)
	}
	return resultOk(trimLeadingSpace(ccid))
}

// IsSimReady issues AT+CPIN? and maps the result per spec's stated
// default: any value other than READY collapses to Failed rather than a
// richer SimStatus enum.
//
// TODO: discriminate SIM PIN / SIM PUK here if a caller ever needs to
// drive PIN entry automatically.
func (d *Driver) IsSimReady(ctx context.Context) ModemReturn {
	d.engine.SendAT("+CPIN?")
	ok, line := d.engine.WaitAndRecvLine(ctx, 32, d.atTimeout, true)
	if !ok {
		return Timeout
	}
	outcome, _ := d.engine.Wait(ctx)
	if outcome != at.Arg1 {
		return statusFromOutcome(outcome)
	}
	_, status, ok := splitPair(line, ':')
	if ok && trimLeadingSpace(status) == "READY" {
		return Ok
	}
	return Failed
}

// RetrieveSignal issues AT+CSQ and returns the raw RSSI value (0-31, or 99
// for unknown).
func (d *Driver) RetrieveSignal(ctx context.Context) Result[int] {
	d.engine.SendAT("+CSQ")
	ok, line := d.engine.WaitAndRecvLine(ctx, 32, d.atTimeout, true)
	if !ok {
		return resultErr[int](Timeout)
	}
	outcome, _ := d.engine.Wait(ctx)
	if outcome != at.Arg1 {
		return resultErr[int](statusFromOutcome(outcome))
	}
	// A line with no "+CSQ:" prefix leaves rest empty, which parseCSQ
	// reports as 99.
	_, rest, _ := splitPair(line, ':')
	return resultOk(parseCSQ(trimLeadingSpace(rest)))
}

// RetrieveIPAddr issues AT+CGPADDR=1 and returns the assigned IP address.
func (d *Driver) RetrieveIPAddr(ctx context.Context) Result[string] {
	d.engine.SendAT("+CGPADDR=1")
	ok, line := d.engine.WaitAndRecvLine(ctx, 64, d.atTimeout, true)
	if !ok {
		return resultErr[string](Timeout)
	}
	outcome, _ := d.engine.Wait(ctx)
	if outcome != at.Arg1 {
		return resultErr[string](statusFromOutcome(outcome))
	}
	_, ip, ok := splitPair(line, ',')
	if !ok || ip == "" {
		return resultErr[string](Failed)
	}
	return resultOk(ip)
}

// IsNetworkRegistered issues the registration-status query matching ct
// (AT+CREG?/AT+CGREG?/AT+CEREG?) and reports Ok when <stat> is 1 or 5.
func (d *Driver) IsNetworkRegistered(ctx context.Context, ct RadioTech) ModemReturn {
	cmd, ok := registrationCommand(ct)
	if !ok {
		return Error
	}
	d.engine.SendAT("+" + cmd + "?")
	lineOK, line := d.engine.WaitAndRecvLine(ctx, 48, d.atTimeout, true)
	if !lineOK {
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
	if registrationStatusOK(trimLeadingSpace(rest)) {
		return Ok
	}
	return Failed
}

// RetrieveModuleInfo issues ATI and returns the first line of its response
// verbatim; any further lines are consumed while waiting for OK.
// This fills in original_source's getModuleInfo(), left a dead stub in the
// distilled spec.
func (d *Driver) RetrieveModuleInfo(ctx context.Context) Result[string] {
	d.engine.SendRaw("ATI")
	ok, line := d.engine.WaitAndRecvLine(ctx, 64, d.atTimeout, false)
	if !ok || line == "" {
		return resultErr[string](Timeout)
	}
	outcome, _ := d.engine.Wait(ctx)
	if outcome != at.Arg1 {
		return resultErr[string](statusFromOutcome(outcome))
	}
	return resultOk(line)
}

// statusFromOutcome maps an at.Outcome that was not the expected terminal
// success (at.Arg1) onto the ModemReturn spine.
func statusFromOutcome(o at.Outcome) ModemReturn {
	switch o {
	case at.Timeout:
		return Timeout
	case at.ModemError, at.Arg2:
		return Error
	default:
		return Failed
	}
}

func trimLeadingSpace(s string) string {
	if len(s) > 0 && s[0] == ' ' {
		return s[1:]
	}
	return s
}

// sleepCtx blocks for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
