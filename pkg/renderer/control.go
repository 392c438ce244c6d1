package renderer

import "sync/atomic"

// PassControl hands out render work units through a single shared
// counter. A unit is one bucket of one sub-pass; workers claim units
// until the counter runs past the total.
type PassControl struct {
	total int64
	next  atomic.Int64
}

// NewPassControl creates a control that will hand out totalUnits units
func NewPassControl(totalUnits int) *PassControl {
	return &PassControl{total: int64(totalUnits)}
}

// ClaimNext atomically claims the next work unit. The second return is
// false once all units have been handed out.
func (pc *PassControl) ClaimNext() (int, bool) {
	unit := pc.next.Add(1) - 1
	return int(unit), unit < pc.total
}

// Total returns the number of work units this control hands out
func (pc *PassControl) Total() int {
	return int(pc.total)
}
