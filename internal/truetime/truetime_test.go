package truetime

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNowMicrosTracksLocalClock(t *testing.T) {
	c := New(zap.NewNop())

	before := time.Now().UnixMicro()
	got := c.NowMicros()
	after := time.Now().UnixMicro()

	if got < before || got > after {
		t.Errorf("NowMicros = %d, want between %d and %d", got, before, after)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	c := New(zap.NewNop())
	c.Stop()
	c.Stop()
}
