package truetime

import (
	"time"

	"github.com/beevik/ntp"
)

var ntpServer = "time.google.com"

// getTime queries the NTP reference and returns its time along with the
// round-trip latency of the query.
func getTime() (time.Time, time.Duration, error) {
	start := time.Now()
	reference, err := ntp.Time(ntpServer)
	if err != nil {
		return time.Time{}, 0, err
	}
	return reference, time.Since(start), nil
}
