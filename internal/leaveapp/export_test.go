package leaveapp

import "time"

// SetNow pins the clock used for "today" decisions and returns a
// restore func.
func SetNow(fn func() time.Time) func() {
	prev := nowFn
	nowFn = fn
	return func() { nowFn = prev }
}
