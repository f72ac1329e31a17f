package common

import (
	"sync"
	"time"

	"github.com/Qthai16/ringdeque/utils"
)

// waitTimers backs the bounded waits of a full connection pool: a Get that
// finds no idle connection and no free slot borrows one timer for its whole
// WaitTimeout and returns it on the way out, whichever case woke it.
var waitTimers sync.Pool

// BorrowTimer returns a timer set to fire after d. The caller owns it until
// ReturnTimer.
func BorrowTimer(d time.Duration) *time.Timer {
	x := waitTimers.Get()
	if x == nil {
		return time.NewTimer(d)
	}
	t := x.(*time.Timer)
	if t.Reset(d) {
		utils.LogFatal("[timer_pool] borrowed timer %p was still active", t)
	}
	return t
}

// ReturnTimer stops t and puts it back. A waiter that left through another
// case may not have read the fire, so it is drained here.
func ReturnTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	waitTimers.Put(t)
}
