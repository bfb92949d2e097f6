// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheduler

import (
	"time"

	"github.com/cronlib/jcron/cron"
)

// CronSchedule adapts a compiled cron.Pattern to the Schedule interface, so
// a pattern produced by cron.Parse can be posted directly to a Scheduler or
// composed with Union/Intersect/Minus alongside any other Schedule.
type CronSchedule struct {
	pattern *cron.Pattern
}

// NewCronSchedule wraps a compiled pattern as a Schedule.
func NewCronSchedule(p *cron.Pattern) *CronSchedule {
	return &CronSchedule{pattern: p}
}

// Next returns the next activation time strictly after t, or the zero Time
// if the pattern can never match again.
func (c *CronSchedule) Next(t time.Time) time.Time {
	// cron.Next works at minute precision and may return its own input, so
	// the search starts at the first whole minute after t.
	r, err := cron.Next(t.Truncate(time.Minute).Add(time.Minute).Unix(), c.pattern)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(r.NextTime, 0).In(t.Location())
}
