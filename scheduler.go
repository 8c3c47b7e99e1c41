package authclient

import "time"

// timerScheduler schedules callbacks on real timers.
type timerScheduler struct{}

// NewTimerScheduler returns the production Scheduler backed by
// time.AfterFunc.
func NewTimerScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) Schedule(d time.Duration, fn func()) ScheduleHandle {
	return timerHandle{timer: time.AfterFunc(d, fn)}
}

type timerHandle struct {
	timer *time.Timer
}

// Cancel stops the pending callback. It reports false once the timer
// already fired; cancellation after firing has no effect.
func (h timerHandle) Cancel() bool {
	return h.timer.Stop()
}
