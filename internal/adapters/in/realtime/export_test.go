package realtime

import "time"

func (g *Gateway) SetClock(now func() time.Time) { g.now = now }
