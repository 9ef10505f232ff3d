package ratelimit

import "time"

func (w *SlidingWindow) SetClock(now func() time.Time) { w.now = now }
func (w *RedisWindow) SetClock(now func() time.Time)   { w.now = now }
