// Package modem implements the cellular modem driver: ModemDriver
// primitives, the multi-phase network registration state machine, and
// scoped HTTP/MQTT sessions, all built on the at package's AT-command
// engine.
//
// Every domain operation returns a ModemReturn (or a generic Result[T]
// pairing one with a payload) instead of a Go error — Ok/Failed/Error/
// Timeout stay distinguishable all the way up to the caller, the same
// four-valued status original_source's CellReturnStatus models. Only
// constructors (New, ConfigBuilder.Build) return a plain error, for
// configuration mistakes that have nothing to do with the modem itself.
//
// Generate the atEngine mock with:
//
//	go tool mockgen -destination=mock_atengine_test.go -package=modem github.com/airgradienthq/cellmodem/modem atEngine
package modem
