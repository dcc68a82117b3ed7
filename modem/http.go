package modem

import (
	"context"
	"fmt"
	"time"

	"github.com/airgradienthq/cellmodem/at"
)

const (
	httpConnectTimeoutMin = 20
	httpConnectTimeoutMax = 120
	httpResponseTimeoutMin = 2
	httpResponseTimeoutMax = 120

	httpPostBodyAckTimeout = 10 * time.Second
)

// HTTPResponse is the outcome of a scoped HTTP session: the HTTP status
// code, and for GET, the fully reassembled response body. Module error
// codes (700-720) never reach it; they yield Failed instead.
type HTTPResponse struct {
	StatusCode int
	Body       []byte
}

// HTTPGet runs one self-contained HTTPINIT..HTTPTERM session: init,
// timeout params, URL, GET action, chunked +HTTPREAD retrieval, terminate.
// connTo/recvTo of -1 leave the modem's own defaults in place.
func (d *Driver) HTTPGet(ctx context.Context, url string, connTo, recvTo int) Result[HTTPResponse] {
	if status := d.httpInit(ctx); status != Ok {
		return resultErr[HTTPResponse](status)
	}
	defer d.httpTerminate(ctx)

	if status := d.httpSetParamTimeout(ctx, connTo, recvTo); status != Ok {
		return resultErr[HTTPResponse](status)
	}
	if status := d.httpSetURL(ctx, url); status != Ok {
		return resultErr[HTTPResponse](status)
	}

	code, bodyLen, status := d.httpAction(ctx, 0, connTo, recvTo)
	if status != Ok {
		return resultErr[HTTPResponse](status)
	}

	d.logger.Info("http response", "code", code, "bodyLen", bodyLen)

	body, ok := d.httpReadBody(ctx, bodyLen)
	if bodyLen > 0 && !ok {
		return resultErr[HTTPResponse](Timeout)
	}

	return resultOk(HTTPResponse{StatusCode: code, Body: body})
}

// HTTPPost runs one self-contained HTTPINIT..HTTPTERM session for a POST:
// init, timeout params, content type, URL, HTTPDATA/DOWNLOAD body upload,
// POST action. The response body is not retrieved, matching
// original_source's accepted limitation.
func (d *Driver) HTTPPost(ctx context.Context, url string, body []byte, contentType string, connTo, recvTo int) Result[HTTPResponse] {
	if status := d.httpInit(ctx); status != Ok {
		return resultErr[HTTPResponse](status)
	}
	defer d.httpTerminate(ctx)

	if status := d.httpSetParamTimeout(ctx, connTo, recvTo); status != Ok {
		return resultErr[HTTPResponse](status)
	}

	if contentType != "" {
		if status := d.commandOK(ctx, fmt.Sprintf(`+HTTPPARA="CONTENT","%s"`, contentType)); status != Ok {
			return resultErr[HTTPResponse](status)
		}
	}

	if status := d.httpSetURL(ctx, url); status != Ok {
		return resultErr[HTTPResponse](status)
	}

	d.engine.SendAT(fmt.Sprintf("+HTTPDATA=%d,10", len(body)))
	outcome, _ := d.engine.WaitResponse(ctx, httpPostBodyAckTimeout, at.DownloadTok, at.ErrorToken, "")
	if outcome != at.Arg1 {
		return resultErr[HTTPResponse](statusFromOutcome(outcome))
	}

	d.engine.SendRaw(string(body))
	outcome, _ = d.engine.WaitResponse(ctx, httpPostBodyAckTimeout, at.OK, at.ErrorToken, "")
	if outcome != at.Arg1 {
		return resultErr[HTTPResponse](statusFromOutcome(outcome))
	}

	code, _, status := d.httpAction(ctx, 1, connTo, recvTo)
	if status != Ok {
		return resultErr[HTTPResponse](status)
	}

	return resultOk(HTTPResponse{StatusCode: code})
}

func (d *Driver) httpInit(ctx context.Context) ModemReturn {
	return d.commandOK(ctx, "+HTTPINIT")
}

func (d *Driver) httpTerminate(ctx context.Context) {
	d.engine.SendAT("+HTTPTERM")
	d.engine.Wait(ctx)
}

// httpSetParamTimeout clamps connTo/recvTo into the module's documented
// ranges (20-120s / 2-120s) before issuing +HTTPPARA; -1 means "leave the
// modem default", matching original_source's connectionTimeout != -1 check.
func (d *Driver) httpSetParamTimeout(ctx context.Context, connTo, recvTo int) ModemReturn {
	if connTo != -1 {
		connTo = clamp(connTo, httpConnectTimeoutMin, httpConnectTimeoutMax)
		if status := d.commandOK(ctx, fmt.Sprintf(`+HTTPPARA="CONNECTTO",%d`, connTo)); status != Ok {
			return status
		}
	}
	if recvTo != -1 {
		recvTo = clamp(recvTo, httpResponseTimeoutMin, httpResponseTimeoutMax)
		if status := d.commandOK(ctx, fmt.Sprintf(`+HTTPPARA="RECVTO",%d`, recvTo)); status != Ok {
			return status
		}
	}
	return Ok
}

func (d *Driver) httpSetURL(ctx context.Context, url string) ModemReturn {
	return d.commandOK(ctx, fmt.Sprintf(`+HTTPPARA="URL", "%s"`, url))
}

// httpAction issues +HTTPACTION=<method> and waits for the +HTTPACTION:
// URC, whose wait window is the sum of connTo and recvTo (falling back to
// the driver's configured defaults when either is -1).
func (d *Driver) httpAction(ctx context.Context, method, connTo, recvTo int) (code, bodyLen int, status ModemReturn) {
	d.engine.SendAT(fmt.Sprintf("+HTTPACTION=%d", method))
	outcome, _ := d.engine.Wait(ctx)
	if outcome != at.Arg1 {
		return 0, 0, statusFromOutcome(outcome)
	}

	if connTo == -1 {
		connTo = d.defaultHTTPConnectTimeout
	}
	if recvTo == -1 {
		recvTo = d.defaultHTTPResponseTimeout
	}
	waitActionTimeout := time.Duration(connTo+recvTo) * time.Second

	outcome, _ = d.engine.WaitResponse(ctx, waitActionTimeout, "+HTTPACTION:", at.ErrorToken, "")
	if outcome != at.Arg1 {
		return 0, 0, statusFromOutcome(outcome)
	}

	ok, line := d.engine.WaitAndRecvLine(ctx, 32, d.atTimeout, true)
	if !ok || line == "" {
		return 0, 0, Failed
	}

	action := parseHTTPAction(line)
	if action.parseErr || isModemHTTPErrorCode(action.code) {
		d.logger.Warn("+HTTPACTION module error", "code", action.code)
		return 0, 0, Failed
	}

	return action.code, action.bodyLen, Ok
}

// httpReadBody retrieves the response body in driver-configured chunks of
// at most HTTPReadChunkSize bytes via repeated +HTTPREAD=<offset>,<len>.
func (d *Driver) httpReadBody(ctx context.Context, bodyLen int) ([]byte, bool) {
	if bodyLen <= 0 {
		return nil, true
	}
	body := make([]byte, 0, bodyLen)
	chunk := d.httpReadChunkSize

	for offset := 0; offset < bodyLen; offset += chunk {
		d.engine.SendAT(fmt.Sprintf("+HTTPREAD=%d,%d", offset, chunk))
		outcome, _ := d.engine.WaitResponse(ctx, d.atTimeout, "+HTTPREAD:", at.ErrorToken, "")
		if outcome != at.Arg1 {
			return nil, false
		}

		ok, lenLine := d.engine.WaitAndRecvLine(ctx, 16, d.atTimeout, true)
		if !ok {
			return nil, false
		}
		chunkLen := atoiOrZero(lenLine)
		if chunkLen <= 0 {
			return nil, false
		}

		ok, data := d.engine.RetrieveBuffer(ctx, chunkLen, d.atTimeout)
		if !ok {
			return nil, false
		}
		body = append(body, data...)

		d.engine.Wait(ctx)
		d.engine.ClearBuffer()
	}

	if len(body) != bodyLen {
		return nil, false
	}
	return body, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func atoiOrZero(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0
		}
		n = n*10 + int(s[i]-'0')
	}
	return n
}
