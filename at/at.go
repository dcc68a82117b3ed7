// Package at implements the framed, request/response AT-command engine
// (component B of the modem driver): it frames commands onto a serial line,
// waits for terminators, matches one of up to three expected tokens,
// recognizes CME/CMS errors, and extracts trailing data lines and raw
// binary slices.
//
// The modem interleaves terminators ("OK", "ERROR"), prefixed values
// ("+CMD: data"), sub-prompts (">", "DOWNLOAD"), unsolicited event lines
// and, for HTTPREAD, raw binary. Engine keeps each parsing regime local by
// exposing three distinct read primitives (WaitResponse,
// WaitAndRecvLine, RetrieveBuffer) instead of a single line-oriented
// scanner: a bufio.Scanner-style splitter would have to guess which regime
// it is in, and HTTPREAD's raw binary body can legitimately contain CRLF
// bytes that are not line terminators.
package at

import (
	"bytes"
	"context"
	"time"
)

const (
	// CRLF terminates every AT command frame.
	CRLF = "\r\n"

	// OK and ErrorToken are the two default terminators WaitResponse
	// matches against when the caller does not override them.
	OK          = "OK" + CRLF
	ErrorToken  = "ERROR" + CRLF
	cmeError    = "+CME ERROR:"
	cmsError    = "+CMS ERROR:"
	DownloadTok = "DOWNLOAD" + CRLF
	Prompt      = ">"

	// RecvBufferSize is the fixed size of Engine's internal receive
	// buffer, sufficient for every non-body response the modem emits.
	RecvBufferSize = 512

	// DefaultWaitTimeout is at_default_wait_response_timeout.
	DefaultWaitTimeout = 9 * time.Second
)

// Outcome is the discriminated result of WaitResponse: which of up to
// three expected tokens was matched at the tail of the growing receive
// buffer, or an absence thereof.
type Outcome int

const (
	// Arg1 indicates the first expected token was matched.
	Arg1 Outcome = iota
	// Arg2 indicates the second expected token was matched.
	Arg2
	// Arg3 indicates the third expected token was matched.
	Arg3
	// Timeout indicates no recognizable response arrived in time.
	Timeout
	// ModemError indicates +CME ERROR: or +CMS ERROR: was seen, or the
	// receive buffer filled up without a match. A plain ERROR is reported
	// as whichever Arg it was passed as (Arg2 with the default tokens).
	ModemError
)

func (o Outcome) String() string {
	switch o {
	case Arg1:
		return "Arg1"
	case Arg2:
		return "Arg2"
	case Arg3:
		return "Arg3"
	case Timeout:
		return "Timeout"
	case ModemError:
		return "ModemError"
	default:
		return "Unknown"
	}
}

// Line is the byte-level transport Engine drives. It is satisfied by
// *serial.Line. Engine keeps the Line it was built with and does not own
// it: it never opens or closes it (see DESIGN NOTES: cyclic ownership is a
// borrow, not shared ownership).
type Line interface {
	Available() bool
	ReadByte() (byte, error)
	Write(p []byte) (int, error)
	Flush() error
}

// Engine is the AT-command orchestrator. It owns a fixed 512-byte receive
// buffer for the lifetime of the modem driver; the buffer is never
// observable outside Engine.
type Engine struct {
	line Line
	buf  [RecvBufferSize]byte
}

// New wraps line with an Engine.
func New(line Line) *Engine {
	return &Engine{line: line}
}

// TestAT repeatedly sends a bare AT and waits up to 500ms for OK, pausing
// 100ms between attempts, until overallTimeout elapses.
func (e *Engine) TestAT(ctx context.Context, overallTimeout time.Duration) bool {
	deadline := time.Now().Add(overallTimeout)
	for time.Now().Before(deadline) {
		if ctxDone(ctx) {
			return false
		}
		e.SendRaw("AT")
		if outcome, _ := e.WaitResponse(ctx, 500*time.Millisecond, OK, ErrorToken, ""); outcome == Arg1 {
			return true
		}
		sleepCtx(ctx, 100*time.Millisecond)
	}
	return false
}

// SendAT writes "AT" + body + CRLF.
func (e *Engine) SendAT(body string) error {
	return e.write("AT" + body + CRLF)
}

// SendRaw writes body + CRLF verbatim, used when the caller already
// includes "AT" or is feeding a modem sub-prompt (DOWNLOAD, ">").
func (e *Engine) SendRaw(body string) error {
	return e.write(body + CRLF)
}

func (e *Engine) write(s string) error {
	_, err := e.line.Write([]byte(s))
	return err
}

// Wait is WaitResponse with the default timeout and default OK/ERROR
// tokens.
func (e *Engine) Wait(ctx context.Context) (Outcome, string) {
	return e.WaitResponse(ctx, DefaultWaitTimeout, OK, ErrorToken, "")
}

// WaitResponse accumulates incoming bytes into a rolling buffer. After
// every byte it checks whether the buffer's tail equals any of the three
// expected tokens (empty exp* values are not matched) or a CME/CMS error
// prefix. On a CME/CMS match it reads the trailing error text line and
// returns ModemError along with that text. If a CME/CMS error and an
// expected token race, the error wins because it is matched in the same
// inner loop as the expected tokens, checked after them.
func (e *Engine) WaitResponse(ctx context.Context, timeout time.Duration, exp1, exp2, exp3 string) (Outcome, string) {
	idx := 0
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		if ctxDone(ctx) {
			return Timeout, ""
		}
		for e.line.Available() {
			if idx >= RecvBufferSize {
				return ModemError, "receive buffer overflow"
			}
			b, err := e.line.ReadByte()
			if err != nil {
				break
			}
			e.buf[idx] = b
			idx++
			window := e.buf[:idx]

			switch {
			case exp1 != "" && bytes.HasSuffix(window, []byte(exp1)):
				return Arg1, ""
			case exp2 != "" && bytes.HasSuffix(window, []byte(exp2)):
				return Arg2, ""
			case exp3 != "" && bytes.HasSuffix(window, []byte(exp3)):
				return Arg3, ""
			case bytes.HasSuffix(window, []byte(cmeError)), bytes.HasSuffix(window, []byte(cmsError)):
				_, errLine := e.WaitAndRecvLine(ctx, 64, 3*time.Second, true)
				return ModemError, errLine
			}
		}
		sleepCtx(ctx, time.Millisecond)
	}

	return Timeout, ""
}

// WaitAndRecvLine reads until a CRLF terminator, optionally discarding one
// leading space (covers "+CPIN: READY" style responses). Buffer overflow
// is a defined failure: it returns ok=false once maxLen bytes have been
// accumulated without a terminator.
func (e *Engine) WaitAndRecvLine(ctx context.Context, maxLen int, timeout time.Duration, skipLeadingSpace bool) (bool, string) {
	buf := make([]byte, 0, maxLen)
	deadline := time.Now().Add(timeout)
	sawCR := false
	skippedSpace := false

	for time.Now().Before(deadline) {
		if ctxDone(ctx) {
			return false, ""
		}
		for e.line.Available() {
			b, err := e.line.ReadByte()
			if err != nil {
				break
			}

			if skipLeadingSpace && !skippedSpace && len(buf) == 0 && b == ' ' {
				skippedSpace = true
				continue
			}

			if sawCR {
				if b == '\n' {
					return true, string(buf)
				}
				sawCR = false
			}
			if b == '\r' {
				sawCR = true
				continue
			}

			if len(buf) >= maxLen {
				return false, ""
			}
			buf = append(buf, b)
		}
		sleepCtx(ctx, time.Millisecond)
	}

	return false, ""
}

// RetrieveBuffer reads exactly exactLen bytes with no delimiter logic; used
// to extract binary HTTP bodies.
func (e *Engine) RetrieveBuffer(ctx context.Context, exactLen int, timeout time.Duration) (bool, []byte) {
	out := make([]byte, 0, exactLen)
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) && len(out) < exactLen {
		if ctxDone(ctx) {
			return false, nil
		}
		for e.line.Available() && len(out) < exactLen {
			b, err := e.line.ReadByte()
			if err != nil {
				break
			}
			out = append(out, b)
		}
		sleepCtx(ctx, time.Millisecond)
	}

	if len(out) != exactLen {
		return false, nil
	}
	return true, out
}

// ClearBuffer drains all currently available bytes.
func (e *Engine) ClearBuffer() {
	for e.line.Available() {
		if _, err := e.line.ReadByte(); err != nil {
			return
		}
	}
}

func ctxDone(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	if ctx == nil {
		<-t.C
		return
	}
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
