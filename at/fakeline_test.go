package at

import "sync"

// fakeLine is a test double for Line that records every write and lets the
// test feed response bytes for Engine to read back one at a time. It plays
// the same role _examples/i4energy-sms-gateway/modem/test_transport.go's
// TestTransport plays for the teacher's line-oriented transport, adapted to
// this package's byte-at-a-time Available/ReadByte contract.
type fakeLine struct {
	mu      sync.Mutex
	written [][]byte
	rx      []byte
}

func newFakeLine() *fakeLine {
	return &fakeLine{}
}

func (f *fakeLine) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]byte, len(p))
	copy(cp, p)
	f.written = append(f.written, cp)
	return len(p), nil
}

func (f *fakeLine) Available() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rx) > 0
}

func (f *fakeLine) ReadByte() (byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.rx[0]
	f.rx = f.rx[1:]
	return b, nil
}

func (f *fakeLine) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rx = nil
	return nil
}

// feed queues bytes for subsequent Available/ReadByte calls to return.
func (f *fakeLine) feed(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rx = append(f.rx, []byte(s)...)
}

func (f *fakeLine) writtenString(i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return string(f.written[i])
}

func (f *fakeLine) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.written)
}
