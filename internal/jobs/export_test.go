package jobs

func (j *DriverDispatchJob) Run() { j.run() }

func (j *RateLimitSweepJob) Run() { j.run() }
