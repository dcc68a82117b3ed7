package modem

import "github.com/pkg/errors"

var (
	// ErrNilContext is returned when a nil context is passed to a function
	// that requires a valid context.
	ErrNilContext = errors.New("context is nil")

	// ErrNoLine is returned when a Config carries no Line/Engine to talk to
	// the modem over.
	ErrNoLine = errors.New("modem: no serial line or AT engine configured")

	// ErrNoPowerController describes a Driver built without a
	// PowerController. PowerOn and PowerOff do not return it: they return
	// nothing and log a warning when no controller is configured.
	ErrNoPowerController = errors.New("modem: no power controller configured")

	// ErrPortOpenFail describes a failure to open the underlying serial
	// port. Driver does not open the port itself, so nothing in this
	// package returns it.
	ErrPortOpenFail = errors.New("modem: failed to open serial port")
)
