// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheduler

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

var defaultSchd = New() // location = time.Local

func init() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go handleSignal(c)
}

func handleSignal(c <-chan os.Signal) {
	for sig := range c {
		switch sig {
		case syscall.SIGTERM, syscall.SIGINT:
			logger.Info("default scheduler received signal, exiting", zap.Stringer("signal", sig))
			defaultSchd.ShutdownAndWait()
			os.Exit(0)
		}
	}
}

// AfterFunc posts the function f to the default Scheduler. f executes
// after the specified delay, once, then is removed from the Scheduler.
func AfterFunc(delay time.Duration, f func(), tag interface{}) (*ManagedJob, error) {
	return defaultSchd.AfterFunc(delay, f, tag)
}

// After posts job to the default Scheduler to execute once, after delay.
func After(delay time.Duration, job Job, tag interface{}) (*ManagedJob, error) {
	return defaultSchd.After(delay, job, tag)
}

// PeriodFunc posts the function f to the default Scheduler: f executes the
// first time after initialDelay, then on a fixed period.
func PeriodFunc(initialDelay, period time.Duration, f func(), tag interface{}) (*ManagedJob, error) {
	return defaultSchd.PeriodFunc(initialDelay, period, f, tag)
}

// Period posts job to the default Scheduler, executing the first time
// after initialDelay, then on a fixed period.
func Period(initialDelay, period time.Duration, job Job, tag interface{}) (*ManagedJob, error) {
	return defaultSchd.Period(initialDelay, period, job, tag)
}

// CronFunc posts the function f to the default Scheduler, associating the
// given cron expression with it.
func CronFunc(cronExpr string, f func(), tag interface{}) (*ManagedJob, error) {
	return defaultSchd.CronFunc(cronExpr, f, tag)
}

// Cron posts job to the default Scheduler, associating the given cron
// expression with it.
func Cron(cronExpr string, job Job, tag interface{}) (*ManagedJob, error) {
	return defaultSchd.Cron(cronExpr, job, tag)
}

// PostFunc posts the function f to the default Scheduler, associating the
// given schedule with it.
func PostFunc(schedule Schedule, f func(), tag interface{}) (*ManagedJob, error) {
	return defaultSchd.PostFunc(schedule, f, tag)
}

// Post posts job to the default Scheduler, associating the given schedule
// with it.
func Post(schedule Schedule, job Job, tag interface{}) (*ManagedJob, error) {
	return defaultSchd.Post(schedule, job, tag)
}

// Jobs returns a snapshot of the default Scheduler's jobs.
func Jobs() []*ManagedJob {
	return defaultSchd.Jobs()
}

// Count returns the job count of the default Scheduler.
func Count() int {
	return defaultSchd.Count()
}

// Location returns the time zone of the default Scheduler.
func Location() *time.Location {
	return defaultSchd.Location()
}

// SetPanicHandler sets the panic handler of the default Scheduler.
func SetPanicHandler(panicHandler PanicHandler) {
	defaultSchd.SetPanicHandler(panicHandler)
}
