package lockstep

import (
	"math"
	"time"
)

// Stamp is a totally ordered sequencing stamp. Stamps are opaque int64 ticks;
// when sourced from wall time they carry nanosecond resolution, but any
// monotonically increasing integer sequence works.
type Stamp int64

// Offset is the signed distance between two stamps. Offsets are closed under
// addition and may be negative.
type Offset int64

// Stamp sentinels. MaxStamp/MinStamp bracket every representable stamp and
// are used to mark an unpopulated capture range.
const (
	MinStamp Stamp = math.MinInt64
	MaxStamp Stamp = math.MaxInt64
)

// Sub returns the offset from other to s.
func (s Stamp) Sub(other Stamp) Offset {
	return Offset(s - other)
}

// Add returns the stamp shifted by off.
func (s Stamp) Add(off Offset) Stamp {
	return s + Stamp(off)
}

// Time converts the stamp to wall time, interpreting it as nanoseconds since
// the Unix epoch.
func (s Stamp) Time() time.Time {
	return time.Unix(0, int64(s))
}

// StampAt converts wall time to a stamp with nanosecond resolution.
func StampAt(t time.Time) Stamp {
	return Stamp(t.UnixNano())
}

// OffsetFor converts a duration to an offset with nanosecond resolution.
func OffsetFor(d time.Duration) Offset {
	return Offset(d)
}

// Duration converts the offset to a time.Duration.
func (o Offset) Duration() time.Duration {
	return time.Duration(o)
}
