package truetime

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Clock supplies the evaluation timestamps the read path stamps queries
// with. It serves the local clock corrected by a drift offset measured
// against an NTP reference; reads never block on the network.
type Clock struct {
	mu       sync.RWMutex
	offset   time.Duration
	logger   *zap.Logger
	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a clock. Until Run is called (or if it never is) the clock
// serves the uncorrected local time.
func New(logger *zap.Logger) *Clock {
	return &Clock{
		logger:   logger,
		interval: 30 * time.Second,
		stop:     make(chan struct{}),
	}
}

// NowMicros returns the current corrected time in microseconds, the unit
// cell timestamps and expiry checks use.
func (c *Clock) NowMicros() int64 {
	c.mu.RLock()
	offset := c.offset
	c.mu.RUnlock()
	return time.Now().Add(offset).UnixMicro()
}

// Run starts the background drift measurement loop. Each round queries the
// NTP reference and replaces the stored offset.
func (c *Clock) Run() {
	c.logger.Info("starting truetime drift correction")
	go func() {
		for {
			reference, latency, err := getTime()
			if err != nil {
				c.logger.Warn("ntp query failed, keeping previous offset", zap.Error(err))
			} else {
				offset := time.Until(reference.Add(latency / 2))
				c.mu.Lock()
				c.offset = offset
				c.mu.Unlock()
				if offset.Abs() > 10*time.Millisecond {
					c.logger.Warn("local clock drifting", zap.Duration("offset", offset))
				}
			}
			select {
			case <-c.stop:
				return
			case <-time.After(c.interval):
			}
		}
	}()
}

// Stop ends the drift loop. Safe to call more than once.
func (c *Clock) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}
