// Package serial implements the byte-level transport (component A of the
// modem driver: open/close at a baud rate, non-blocking available/read/write,
// flush) over a real serial port via go.bug.st/serial.
//
// The physical bridge below the port (I2C-bridged UART or direct UART) and
// the power-pin GPIO are external collaborators; this package only owns the
// open/close lifecycle and the byte queue on top of whatever go.bug.st/serial
// hands back.
package serial

import (
	"context"
	"time"

	"github.com/pkg/errors"
	sio "go.bug.st/serial"
)

const (
	// DefaultOpenRetries is the number of times Open retries a failed port
	// open before giving up.
	DefaultOpenRetries = 3
	// DefaultOpenRetryPause is the pause between open attempts.
	DefaultOpenRetryPause = 500 * time.Millisecond
	// pollReadTimeout bounds how long a single underlying Read call may
	// block, so Available never stalls the caller for longer than this.
	pollReadTimeout = 5 * time.Millisecond
	// readChunk is the scratch buffer size used to drain the OS-level
	// serial buffer into our own byte queue.
	readChunk = 256
)

// ResetPin pulses a GPIO line to reset the modem before the serial port is
// opened. The physical pin is an external collaborator; Line only calls it
// at the right moment.
type ResetPin interface {
	Pulse(ctx context.Context) error
}

// Line is the concrete SerialLine: open/close a named serial device at a
// given baud rate, and offer byte-at-a-time, non-blocking-style access on
// top of it.
type Line struct {
	portName string
	resetPin ResetPin

	openRetries    int
	openRetryPause time.Duration

	port  sio.Port
	rxBuf []byte

	// openFunc is swapped out in tests to avoid touching a real device.
	openFunc func(portName string, mode *sio.Mode) (sio.Port, error)
}

// Option configures a Line at construction time.
type Option func(*Line)

// WithResetPin attaches a GPIO reset pulse to run on Init.
func WithResetPin(p ResetPin) Option {
	return func(l *Line) { l.resetPin = p }
}

// WithOpenRetries overrides the default open retry count/pause.
func WithOpenRetries(retries int, pause time.Duration) Option {
	return func(l *Line) {
		l.openRetries = retries
		l.openRetryPause = pause
	}
}

// New constructs a Line bound to portName. The port is not opened yet.
func New(portName string, opts ...Option) *Line {
	l := &Line{
		portName:       portName,
		openRetries:    DefaultOpenRetries,
		openRetryPause: DefaultOpenRetryPause,
		openFunc:       sio.Open,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Init pulses the reset pin, if one was configured. Re-entrant: calling it
// again with no pin configured is a no-op.
func (l *Line) Init(ctx context.Context) error {
	if l.resetPin == nil {
		return nil
	}
	return errors.Wrap(l.resetPin.Pulse(ctx), "pulse modem reset pin")
}

// Open opens the serial port at the given baud rate, making up to the
// configured number of attempts (DefaultOpenRetries unless WithOpenRetries
// overrides it) with the configured pause (DefaultOpenRetryPause by
// default) between them. On failure it reports false only; the last open
// error is not returned or logged.
// Re-entrant: calling Open while already open is a no-op that returns true.
func (l *Line) Open(baud int) bool {
	if l.port != nil {
		return true
	}

	mode := &sio.Mode{BaudRate: baud, Parity: sio.NoParity, DataBits: 8, StopBits: sio.OneStopBit}

	var lastErr error
	for attempt := 0; attempt < l.openRetries; attempt++ {
		port, err := l.openFunc(l.portName, mode)
		if err == nil {
			_ = port.SetReadTimeout(pollReadTimeout)
			l.port = port
			return true
		}
		lastErr = err
		if attempt < l.openRetries-1 {
			time.Sleep(l.openRetryPause)
		}
	}
	_ = errors.Wrapf(lastErr, "open serial port %q after %d attempts", l.portName, l.openRetries)
	return false
}

// Close closes the underlying port. Re-entrant: closing an already-closed
// (or never-opened) Line is a no-op.
func (l *Line) Close() error {
	if l.port == nil {
		return nil
	}
	err := l.port.Close()
	l.port = nil
	l.rxBuf = nil
	return err
}

// Available reports whether at least one byte can be read without blocking
// the caller for longer than pollReadTimeout.
func (l *Line) Available() bool {
	if len(l.rxBuf) > 0 {
		return true
	}
	if l.port == nil {
		return false
	}

	tmp := make([]byte, readChunk)
	n, err := l.port.Read(tmp)
	if err != nil || n == 0 {
		return false
	}
	l.rxBuf = append(l.rxBuf, tmp[:n]...)
	return true
}

// ReadByte returns the next buffered byte. Callers must check Available
// first; ReadByte on an empty, non-available line returns an error.
func (l *Line) ReadByte() (byte, error) {
	if len(l.rxBuf) == 0 {
		return 0, errors.New("serial: no byte available")
	}
	b := l.rxBuf[0]
	l.rxBuf = l.rxBuf[1:]
	return b, nil
}

// Write writes p to the port verbatim.
func (l *Line) Write(p []byte) (int, error) {
	if l.port == nil {
		return 0, errors.New("serial: port not open")
	}
	return l.port.Write(p)
}

// Flush drains any buffered input/output on both our queue and the OS level
// buffers.
func (l *Line) Flush() error {
	l.rxBuf = nil
	if l.port == nil {
		return nil
	}
	if err := l.port.ResetInputBuffer(); err != nil {
		return errors.Wrap(err, "reset serial input buffer")
	}
	return errors.Wrap(l.port.ResetOutputBuffer(), "reset serial output buffer")
}
