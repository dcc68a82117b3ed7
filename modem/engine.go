package modem

import (
	"context"
	"time"

	"github.com/airgradienthq/cellmodem/at"
)

// atEngine is the seam between Driver and the AT-command engine. It is
// satisfied by *at.Engine; tests substitute a go.uber.org/mock-generated
// mock (see mock_atengine_test.go) so that registration/HTTP/MQTT logic can
// be verified call-by-call without a real or fake serial line underneath.
//
//go:generate mockgen -destination=mock_atengine_test.go -package=modem github.com/airgradienthq/cellmodem/modem atEngine
type atEngine interface {
	TestAT(ctx context.Context, overallTimeout time.Duration) bool
	SendAT(body string) error
	SendRaw(body string) error
	Wait(ctx context.Context) (at.Outcome, string)
	WaitResponse(ctx context.Context, timeout time.Duration, exp1, exp2, exp3 string) (at.Outcome, string)
	WaitAndRecvLine(ctx context.Context, maxLen int, timeout time.Duration, skipLeadingSpace bool) (bool, string)
	RetrieveBuffer(ctx context.Context, exactLen int, timeout time.Duration) (bool, []byte)
	ClearBuffer()
}

var _ atEngine = (*at.Engine)(nil)
