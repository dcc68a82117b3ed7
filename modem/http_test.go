package modem

import (
	"context"
	"testing"

	"github.com/airgradienthq/cellmodem/at"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

// TestHTTPGetScopedSessionAndChunkIntegrity covers P4 (the INIT..TERM
// session is self-contained) and P5 (chunked body reassembly is exact).
func TestHTTPGetScopedSessionAndChunkIntegrity(t *testing.T) {
	ctrl := gomock.NewController(t)
	eng := NewMockAtEngine(ctrl)
	d := newTestDriver(t, eng)
	d.httpReadChunkSize = 200

	gomock.InOrder(
		eng.EXPECT().SendAT("+HTTPINIT").Return(nil),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),

		eng.EXPECT().SendAT(`+HTTPPARA="URL", "http://example.com/api"`).Return(nil),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),

		eng.EXPECT().SendAT("+HTTPACTION=0").Return(nil),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
		eng.EXPECT().WaitResponse(gomock.Any(), gomock.Any(), "+HTTPACTION:", at.ErrorToken, "").Return(at.Arg1, ""),
		eng.EXPECT().WaitAndRecvLine(gomock.Any(), 32, gomock.Any(), true).Return(true, "0,200,10"),

		eng.EXPECT().SendAT("+HTTPREAD=0,200").Return(nil),
		eng.EXPECT().WaitResponse(gomock.Any(), gomock.Any(), "+HTTPREAD:", at.ErrorToken, "").Return(at.Arg1, ""),
		eng.EXPECT().WaitAndRecvLine(gomock.Any(), 16, gomock.Any(), true).Return(true, "10"),
		eng.EXPECT().RetrieveBuffer(gomock.Any(), 10, gomock.Any()).Return(true, []byte("HelloWorld")),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
		eng.EXPECT().ClearBuffer(),

		eng.EXPECT().SendAT("+HTTPTERM").Return(nil),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
	)

	result := d.HTTPGet(context.Background(), "http://example.com/api", -1, -1)
	require.Equal(t, Ok, result.Status)
	require.Equal(t, 200, result.Data.StatusCode)
	require.Equal(t, []byte("HelloWorld"), result.Data.Body)
}

// TestHTTPGetMultiChunkBody exercises a body larger than one HTTPREAD
// window, confirming chunk offsets advance correctly and bytes concatenate
// in order.
func TestHTTPGetMultiChunkBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	eng := NewMockAtEngine(ctrl)
	d := newTestDriver(t, eng)
	d.httpReadChunkSize = 4

	gomock.InOrder(
		eng.EXPECT().SendAT("+HTTPINIT").Return(nil),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
		eng.EXPECT().SendAT(`+HTTPPARA="URL", "http://x/y"`).Return(nil),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
		eng.EXPECT().SendAT("+HTTPACTION=0").Return(nil),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
		eng.EXPECT().WaitResponse(gomock.Any(), gomock.Any(), "+HTTPACTION:", at.ErrorToken, "").Return(at.Arg1, ""),
		eng.EXPECT().WaitAndRecvLine(gomock.Any(), 32, gomock.Any(), true).Return(true, "0,200,9"),

		eng.EXPECT().SendAT("+HTTPREAD=0,4").Return(nil),
		eng.EXPECT().WaitResponse(gomock.Any(), gomock.Any(), "+HTTPREAD:", at.ErrorToken, "").Return(at.Arg1, ""),
		eng.EXPECT().WaitAndRecvLine(gomock.Any(), 16, gomock.Any(), true).Return(true, "4"),
		eng.EXPECT().RetrieveBuffer(gomock.Any(), 4, gomock.Any()).Return(true, []byte("abcd")),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
		eng.EXPECT().ClearBuffer(),

		eng.EXPECT().SendAT("+HTTPREAD=4,4").Return(nil),
		eng.EXPECT().WaitResponse(gomock.Any(), gomock.Any(), "+HTTPREAD:", at.ErrorToken, "").Return(at.Arg1, ""),
		eng.EXPECT().WaitAndRecvLine(gomock.Any(), 16, gomock.Any(), true).Return(true, "4"),
		eng.EXPECT().RetrieveBuffer(gomock.Any(), 4, gomock.Any()).Return(true, []byte("efgh")),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
		eng.EXPECT().ClearBuffer(),

		eng.EXPECT().SendAT("+HTTPREAD=8,4").Return(nil),
		eng.EXPECT().WaitResponse(gomock.Any(), gomock.Any(), "+HTTPREAD:", at.ErrorToken, "").Return(at.Arg1, ""),
		eng.EXPECT().WaitAndRecvLine(gomock.Any(), 16, gomock.Any(), true).Return(true, "1"),
		eng.EXPECT().RetrieveBuffer(gomock.Any(), 1, gomock.Any()).Return(true, []byte("i")),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
		eng.EXPECT().ClearBuffer(),

		eng.EXPECT().SendAT("+HTTPTERM").Return(nil),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
	)

	result := d.HTTPGet(context.Background(), "http://x/y", -1, -1)
	require.Equal(t, Ok, result.Status)
	require.Equal(t, []byte("abcdefghi"), result.Data.Body)
}

// TestHTTPGetTimeoutParamsAreClamped (S6) confirms out-of-range
// connect/response timeouts get clamped into the module's documented
// 20-120s / 2-120s ranges before being sent.
func TestHTTPGetTimeoutParamsAreClamped(t *testing.T) {
	ctrl := gomock.NewController(t)
	eng := NewMockAtEngine(ctrl)
	d := newTestDriver(t, eng)

	gomock.InOrder(
		eng.EXPECT().SendAT("+HTTPINIT").Return(nil),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
		eng.EXPECT().SendAT(`+HTTPPARA="CONNECTTO",20`).Return(nil),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
		eng.EXPECT().SendAT(`+HTTPPARA="RECVTO",120`).Return(nil),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
		eng.EXPECT().SendAT(`+HTTPPARA="URL", "http://x"`).Return(nil),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
		eng.EXPECT().SendAT("+HTTPACTION=0").Return(nil),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
		eng.EXPECT().WaitResponse(gomock.Any(), gomock.Any(), "+HTTPACTION:", at.ErrorToken, "").Return(at.Arg1, ""),
		eng.EXPECT().WaitAndRecvLine(gomock.Any(), 32, gomock.Any(), true).Return(true, "0,200,0"),
		eng.EXPECT().SendAT("+HTTPTERM").Return(nil),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
	)

	result := d.HTTPGet(context.Background(), "http://x", 1, 9000)
	require.Equal(t, Ok, result.Status)
}

// TestHTTPGetModemErrorCodeIsFailed (S3) confirms the [700,720] module
// error range is treated as Failed, not surfaced as an HTTP status.
func TestHTTPGetModemErrorCodeIsFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	eng := NewMockAtEngine(ctrl)
	d := newTestDriver(t, eng)

	gomock.InOrder(
		eng.EXPECT().SendAT("+HTTPINIT").Return(nil),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
		eng.EXPECT().SendAT(`+HTTPPARA="URL", "http://x"`).Return(nil),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
		eng.EXPECT().SendAT("+HTTPACTION=0").Return(nil),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
		eng.EXPECT().WaitResponse(gomock.Any(), gomock.Any(), "+HTTPACTION:", at.ErrorToken, "").Return(at.Arg1, ""),
		eng.EXPECT().WaitAndRecvLine(gomock.Any(), 32, gomock.Any(), true).Return(true, "0,703,0"),
		eng.EXPECT().SendAT("+HTTPTERM").Return(nil),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
	)

	result := d.HTTPGet(context.Background(), "http://x", -1, -1)
	require.Equal(t, Failed, result.Status)
}

// TestHTTPPostUploadsBodyThroughDownloadPrompt (S2) covers the
// HTTPDATA/DOWNLOAD prompt upload and confirms no response body is
// retrieved (spec's accepted limitation).
func TestHTTPPostUploadsBodyThroughDownloadPrompt(t *testing.T) {
	ctrl := gomock.NewController(t)
	eng := NewMockAtEngine(ctrl)
	d := newTestDriver(t, eng)

	body := []byte(`{"ok":true}`)

	gomock.InOrder(
		eng.EXPECT().SendAT("+HTTPINIT").Return(nil),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
		eng.EXPECT().SendAT(`+HTTPPARA="CONTENT","application/json"`).Return(nil),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
		eng.EXPECT().SendAT(`+HTTPPARA="URL", "http://x/ingest"`).Return(nil),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
		eng.EXPECT().SendAT("+HTTPDATA=11,10").Return(nil),
		eng.EXPECT().WaitResponse(gomock.Any(), gomock.Any(), at.DownloadTok, at.ErrorToken, "").Return(at.Arg1, ""),
		eng.EXPECT().SendRaw(string(body)).Return(nil),
		eng.EXPECT().WaitResponse(gomock.Any(), gomock.Any(), at.OK, at.ErrorToken, "").Return(at.Arg1, ""),
		eng.EXPECT().SendAT("+HTTPACTION=1").Return(nil),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
		eng.EXPECT().WaitResponse(gomock.Any(), gomock.Any(), "+HTTPACTION:", at.ErrorToken, "").Return(at.Arg1, ""),
		eng.EXPECT().WaitAndRecvLine(gomock.Any(), 32, gomock.Any(), true).Return(true, "1,201,0"),
		eng.EXPECT().SendAT("+HTTPTERM").Return(nil),
		eng.EXPECT().Wait(gomock.Any()).Return(at.Arg1, ""),
	)

	result := d.HTTPPost(context.Background(), "http://x/ingest", body, "application/json", -1, -1)
	require.Equal(t, Ok, result.Status)
	require.Equal(t, 201, result.Data.StatusCode)
	require.Nil(t, result.Data.Body)
}
