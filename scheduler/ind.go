// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheduler

import (
	"context"
	"time"

	"github.com/cronlib/jcron/cron"
	"go.uber.org/zap"
)

// IndPeriod runs f the first time at initialDelay, then on a fixed period,
// independently of any Scheduler. If a run of f outlives the period,
// multiple instances of f may run concurrently.
func IndPeriod(initialDelay, period time.Duration, f func(), panicHandler func(r interface{})) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())

	safeRun := safeWrap(f, panicHandler)

	go func() {
		if initialDelay < 0 {
			initialDelay = 0
		}

		{
			timer := time.NewTimer(initialDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				go safeRun()
			}
		}

		timer := time.NewTicker(period)
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
				go safeRun()
			}
		}
	}()

	return cancel
}

// IndDelay runs f the first time at initialDelay, then delay after each
// run completes. Unlike IndPeriod, it never has multiple instances of f
// running at the same time.
func IndDelay(initialDelay, delay time.Duration, f func(), panicHandler func(r interface{})) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	safeRun := safeWrap(f, panicHandler)

	go func() {
		d := initialDelay

		for {
			if d < 0 {
				d = 0
			}

			timer := time.NewTimer(d)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				safeRun()
				d = delay
			}
		}
	}()

	return cancel
}

// IndCron runs f according to a cron expression, independently of any
// Scheduler.
func IndCron(expression string, f func(), panicHandler func(r interface{})) (context.CancelFunc, error) {
	pattern, err := cron.Parse(expression)
	if err != nil {
		return nil, err
	}
	return IndSchedule(NewCronSchedule(pattern), f, panicHandler), nil
}

// IndSchedule runs f according to schedule, independently of any Scheduler.
func IndSchedule(schedule Schedule, f func(), panicHandler func(r interface{})) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	safeRun := safeWrap(f, panicHandler)

	go func() {
		next := time.Now()

		for !next.IsZero() {
			next = schedule.Next(next)
			if next.IsZero() {
				return
			}
			d := next.Sub(time.Now())

			if d < 0 {
				go safeRun()
				continue
			}

			timer := time.NewTimer(d)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				go safeRun()
			}
		}
	}()

	return cancel
}

func safeWrap(f func(), panicHandler func(r interface{})) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				if panicHandler != nil {
					panicHandler(r)
				} else {
					logger.Error("independent job panicked", zap.Any("recover", r))
				}
			}
		}()
		f()
	}
}
