package choices

import "strconv"

// Total is an option count that may still be unknown.
type Total int

// TotalUnknown marks a count the remote source has not resolved yet.
const TotalUnknown Total = -1

// Known reports whether the count is resolved.
func (t Total) Known() bool { return t >= 0 }

// Plus adds n to a known count. Unknown stays unknown.
func (t Total) Plus(n int) Total {
	if !t.Known() {
		return TotalUnknown
	}
	return t + Total(n)
}

// Add sums two counts. Unknown wins.
func (t Total) Add(other Total) Total {
	if !t.Known() || !other.Known() {
		return TotalUnknown
	}
	return t + other
}

// CoveredBy reports whether n held entries cover the count.
func (t Total) CoveredBy(n int) bool {
	return t.Known() && n >= int(t)
}

// Exceeds reports whether the count is strictly larger than n. Unknown
// counts exceed everything.
func (t Total) Exceeds(n int) bool {
	return !t.Known() || int(t) > n
}

func (t Total) String() string {
	if !t.Known() {
		return "unknown"
	}
	return strconv.Itoa(int(t))
}
