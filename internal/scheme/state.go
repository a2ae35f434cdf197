package scheme

import (
	"time"

	"github.com/x402-solana/facilitator/pkg/x402"
)

// isExpired reports whether a payload timestamp (milliseconds since Unix
// epoch, per spec §6.3) falls outside PayloadFreshnessWindow of now, per
// spec §4.C.1 / §8 invariant 7. A timestamp more than
// PayloadFreshnessWindow ahead of the facilitator's clock is also rejected;
// a smaller forward skew is accepted.
func isExpired(unixMillis int64) bool {
	ts := time.UnixMilli(unixMillis)
	now := time.Now()
	age := now.Sub(ts)
	return age > x402.PayloadFreshnessWindow || age < -x402.PayloadFreshnessWindow
}
