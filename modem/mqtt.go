package modem

import (
	"context"
	"fmt"
	"time"

	"github.com/airgradienthq/cellmodem/at"
)

const (
	cmqttStartTimeout   = 12 * time.Second
	cmqttConnectTimeout = 30 * time.Second
	cmqttDiscTimeout    = 60 * time.Second
	cmqttAccqSettle     = 3 * time.Second
	mqttKeepAliveS      = 120
	mqttCleanSession    = 1
)

// MQTTConnect starts the modem's MQTT context, acquires a client, and
// connects to host:port, optionally authenticating with username/password.
// A +CMQTTSTART ERROR is treated as "context already started" rather than
// a failure, per original_source's own comment to that effect.
func (d *Driver) MQTTConnect(ctx context.Context, clientID, host string, port int, username, password string) ModemReturn {
	d.engine.SendAT("+CMQTTSTART")
	outcome, _ := d.engine.WaitResponse(ctx, cmqttStartTimeout, "+CMQTTSTART:", at.ErrorToken, "")
	switch outcome {
	case at.Timeout, at.ModemError:
		return Timeout
	case at.Arg1:
		ok, line := d.engine.WaitAndRecvLine(ctx, 8, d.atTimeout, true)
		if !ok {
			return Timeout
		}
		if line != "0" {
			d.logger.Error("+CMQTTSTART failed", "value", line)
			return Error
		}
	case at.Arg2:
		d.logger.Info("+CMQTTSTART returned error, mqtt context already started")
	}

	d.engine.SendAT(fmt.Sprintf(`+CMQTTACCQ=0,"%s",0`, clientID))
	if outcome, _ := d.engine.Wait(ctx); outcome != at.Arg1 {
		return Error
	}
	sleepCtx(ctx, cmqttAccqSettle)

	var connectCmd string
	switch {
	case username != "" && password != "":
		connectCmd = fmt.Sprintf(`+CMQTTCONNECT=0,"tcp://%s:%d",%d,%d,"%s","%s"`, host, port, mqttKeepAliveS, mqttCleanSession, username, password)
	case username != "":
		connectCmd = fmt.Sprintf(`+CMQTTCONNECT=0,"tcp://%s:%d",%d,%d,"%s"`, host, port, mqttKeepAliveS, mqttCleanSession, username)
	default:
		connectCmd = fmt.Sprintf(`+CMQTTCONNECT=0,"tcp://%s:%d",%d,%d`, host, port, mqttKeepAliveS, mqttCleanSession)
	}
	d.engine.SendAT(connectCmd)
	if outcome, _ := d.engine.WaitResponse(ctx, cmqttConnectTimeout, "+CMQTTCONNECT: 0,", at.ErrorToken, ""); outcome != at.Arg1 {
		d.engine.ClearBuffer()
		return Error
	}

	ok, line := d.engine.WaitAndRecvLine(ctx, 8, d.atTimeout, true)
	if !ok {
		return Timeout
	}
	if line != "0" {
		d.logger.Error("+CMQTTCONNECT error", "value", line)
		return Error
	}
	d.engine.ClearBuffer()
	return Ok
}

// MQTTDisconnect runs the disconnect/release/stop teardown sequence. Any
// step's failure still runs the remaining steps, matching
// original_source's best-effort teardown.
func (d *Driver) MQTTDisconnect(ctx context.Context) ModemReturn {
	status := Ok

	d.engine.SendAT("+CMQTTDISC=0,60")
	if outcome, _ := d.engine.WaitResponse(ctx, cmqttDiscTimeout, "+CMQTTDISC: 0,", at.ErrorToken, ""); outcome != at.Arg1 {
		d.engine.ClearBuffer()
		status = Error
	} else {
		ok, line := d.engine.WaitAndRecvLine(ctx, 8, d.atTimeout, true)
		if !ok {
			status = Timeout
		} else if line != "0" {
			d.logger.Error("+CMQTTDISC error", "value", line)
			status = Error
		}
		d.engine.ClearBuffer()
	}

	d.engine.SendAT("+CMQTTREL=0")
	if outcome, _ := d.engine.Wait(ctx); outcome != at.Arg1 {
		status = Error
	}
	d.engine.ClearBuffer()

	d.engine.SendAT("+CMQTTSTOP")
	if outcome, _ := d.engine.Wait(ctx); outcome != at.Arg1 {
		status = Error
	}
	d.engine.ClearBuffer()

	return status
}

// MQTTPublish uploads topic and payload through the CMQTTTOPIC/CMQTTPAYLOAD
// prompt-mode writes, then issues CMQTTPUB.
func (d *Driver) MQTTPublish(ctx context.Context, topic string, payload []byte, qos, retain int, timeout time.Duration) ModemReturn {
	if status := d.mqttPromptUpload(ctx, fmt.Sprintf("+CMQTTTOPIC=0,%d", len(topic)), topic); status != Ok {
		return status
	}
	if status := d.mqttPromptUpload(ctx, fmt.Sprintf("+CMQTTPAYLOAD=0,%d", len(payload)), string(payload)); status != Ok {
		return status
	}

	timeoutS := int(timeout / time.Second)
	if timeoutS <= 0 {
		timeoutS = 15
	}
	d.engine.SendAT(fmt.Sprintf("+CMQTTPUB=0,%d,%d,%d", qos, timeoutS, retain))
	outcome, _ := d.engine.WaitResponse(ctx, time.Duration(timeoutS)*time.Second, "+CMQTTPUB: 0,", at.ErrorToken, "")
	if outcome != at.Arg1 {
		return Error
	}

	ok, line := d.engine.WaitAndRecvLine(ctx, 8, d.atTimeout, true)
	if !ok {
		return Timeout
	}
	if line != "0" {
		d.logger.Error("+CMQTTPUB failed", "value", line)
		return Error
	}
	d.engine.ClearBuffer()
	return Ok
}

// mqttPromptUpload sends a CMQTT length-announcing command, waits for the
// ">" sub-prompt, writes payload raw, then waits for the terminal OK.
func (d *Driver) mqttPromptUpload(ctx context.Context, announceCmd, payload string) ModemReturn {
	d.engine.SendAT(announceCmd)
	outcome, _ := d.engine.WaitResponse(ctx, d.atTimeout, at.Prompt, at.ErrorToken, "")
	if outcome != at.Arg1 {
		return Error
	}
	d.engine.SendRaw(payload)
	outcome, _ = d.engine.Wait(ctx)
	if outcome != at.Arg1 {
		return Error
	}
	return Ok
}
