// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheduler

import (
	"container/heap"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cronlib/jcron/cron"
	"go.uber.org/zap"
)

// PanicHandler handles a panic caused by a job.
type PanicHandler func(job *ManagedJob, r interface{})

func defaultPanicHandler(job *ManagedJob, r interface{}) {
	logger.Error("job panicked", zap.Any("tag", job.tag), zap.Any("recover", r))
}

// A Scheduler maintains a registry of Jobs. Once posted, the Scheduler is
// responsible for running Jobs when their schedule's next activation
// arrives.
type Scheduler struct {
	wg           *sync.WaitGroup
	add          chan *ManagedJob
	remove       chan *ManagedJob
	listJobs     chan chan []*ManagedJob
	panicHandler atomic.Value // PanicHandler
	loc          *time.Location
	ctx          context.Context
	cancel       context.CancelFunc
	terminated   int32
	count        int64
}

// New returns a new Scheduler instance, started in the background.
func New(options ...Option) *Scheduler {
	s := &Scheduler{
		wg:       &sync.WaitGroup{},
		add:      make(chan *ManagedJob),
		remove:   make(chan *ManagedJob),
		listJobs: make(chan chan []*ManagedJob),
		loc:      time.Local,
	}
	s.panicHandler.Store(PanicHandler(defaultPanicHandler))

	for _, option := range options {
		option.apply(s)
	}

	if s.ctx == nil {
		s.ctx, s.cancel = context.WithCancel(context.Background())
	}

	s.wg.Add(1)
	go s.run()
	return s
}

// AfterFunc executes the function f after the specified delay, once, then
// removes the job from the Scheduler.
func (s *Scheduler) AfterFunc(delay time.Duration, f func(), tag interface{}) (*ManagedJob, error) {
	return s.After(delay, JobFunc(f), tag)
}

// After posts job to execute once, after the specified delay.
func (s *Scheduler) After(delay time.Duration, job Job, tag interface{}) (*ManagedJob, error) {
	return s.Post(&afterSchedule{delay: delay}, job, tag)
}

// PeriodFunc executes f the first time after initialDelay, then on a fixed
// period. If a run of f outlives the period, overlapping runs may occur.
func (s *Scheduler) PeriodFunc(initialDelay, period time.Duration, f func(), tag interface{}) (*ManagedJob, error) {
	return s.Period(initialDelay, period, JobFunc(f), tag)
}

// Period posts job to execute the first time after initialDelay, then on a
// fixed period.
func (s *Scheduler) Period(initialDelay, period time.Duration, job Job, tag interface{}) (*ManagedJob, error) {
	return s.Post(&periodSchedule{initialDelay: initialDelay, period: period}, job, tag)
}

// CronFunc executes f according to a cron expression (parsed per
// cron.Parse's grammar).
func (s *Scheduler) CronFunc(cronExpr string, f func(), tag interface{}) (*ManagedJob, error) {
	return s.Cron(cronExpr, JobFunc(f), tag)
}

// Cron posts job to execute according to a cron expression.
func (s *Scheduler) Cron(cronExpr string, job Job, tag interface{}) (*ManagedJob, error) {
	pattern, err := cron.Parse(cronExpr)
	if err != nil {
		return nil, err
	}
	return s.Post(NewCronSchedule(pattern), job, tag)
}

// PostFunc posts f to execute according to schedule.
func (s *Scheduler) PostFunc(schedule Schedule, f func(), tag interface{}) (*ManagedJob, error) {
	return s.Post(schedule, JobFunc(f), tag)
}

// Post posts job to execute according to schedule.
func (s *Scheduler) Post(schedule Schedule, job Job, tag interface{}) (mjob *ManagedJob, err error) {
	defer func() { // after Shutdown, s.add is closed and sending panics
		if r := recover(); r != nil {
			err = errors.New("scheduler is terminated")
		}
	}()

	now := s.now()
	j := &ManagedJob{
		tag:      tag,
		schedule: schedule,
		job:      job,
		remove:   s.remove,
		postTime: now,
	}

	next := j.schedule.Next(now)
	if next.IsZero() {
		return nil, errors.New("schedule is empty, never a scheduled time to arrive")
	}
	j.setNext(next)

	s.add <- j
	logger.Debug("job posted", zap.Any("tag", tag), zap.Time("next", j.next))
	return j, nil
}

// Shutdown shuts down the scheduler without waiting for running jobs.
func (s *Scheduler) Shutdown() {
	s.cancel()
}

// ShutdownAndWait shuts down the scheduler and waits for all running jobs
// to complete.
func (s *Scheduler) ShutdownAndWait() {
	s.cancel()
	s.wg.Wait()
}

// Terminated reports whether the scheduler has finished shutting down.
func (s *Scheduler) Terminated() bool {
	return atomic.LoadInt32(&s.terminated) != 0
}

// Count returns the number of currently scheduled jobs.
func (s *Scheduler) Count() int {
	return int(atomic.LoadInt64(&s.count))
}

// Location returns the scheduler's time zone.
func (s *Scheduler) Location() *time.Location {
	return s.loc
}

// SetPanicHandler replaces the handler invoked when a job panics.
func (s *Scheduler) SetPanicHandler(panicHandler PanicHandler) {
	if panicHandler == nil {
		return
	}
	s.panicHandler.Store(panicHandler)
}

// Jobs returns a snapshot of the currently scheduled jobs.
func (s *Scheduler) Jobs() []*ManagedJob {
	reply := make(chan []*ManagedJob, 1)
	select {
	case s.listJobs <- reply:
		return <-reply
	case <-s.ctx.Done():
		return nil
	}
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	jobs := make(jobQueue, 0, 16)
	for {
		atomic.StoreInt64(&s.count, int64(len(jobs)))

		d := time.Duration(100000 * time.Hour) // no jobs pending
		if len(jobs) > 0 {
			d = jobs[0].next.Sub(s.now())
			if d < 0 {
				d = 0
			}
		}
		timer := time.NewTimer(d)

		select {
		case <-s.ctx.Done():
			timer.Stop()
			s.internalClose()
			return

		case now := <-timer.C:
			now = now.In(s.loc)
			s.runExpiredJobs(now, &jobs)

		case newJ := <-s.add:
			timer.Stop()
			heap.Push(&jobs, newJ)

		case removeJ := <-s.remove:
			timer.Stop()
			s.removeJob(removeJ, &jobs)

		case reply := <-s.listJobs:
			timer.Stop()
			snapshot := make([]*ManagedJob, len(jobs))
			copy(snapshot, jobs)
			reply <- snapshot
		}
	}
}

func (s *Scheduler) runExpiredJobs(now time.Time, jobs *jobQueue) {
	for len(*jobs) > 0 {
		j := (*jobs)[0]
		if j.next.After(now) {
			break
		}

		s.wg.Add(1)
		go s.safeRun(j)

		next := j.schedule.Next(j.next)
		if next.IsZero() {
			heap.Pop(jobs)
		} else {
			j.setNext(next)
			jobs.updateNext(j, next)
		}
	}
}

func (s *Scheduler) safeRun(j *ManagedJob) {
	defer func() {
		s.wg.Done()
		if r := recover(); r != nil {
			s.panicHandler.Load().(PanicHandler)(j, r)
		}
	}()
	j.job.Run()
}

func (s *Scheduler) removeJob(removeJ *ManagedJob, jobs *jobQueue) {
	if removeJ.index < 0 || removeJ.index >= len(*jobs) {
		return
	}

	if removeJ == (*jobs)[removeJ.index] {
		heap.Remove(jobs, removeJ.index)
		logger.Debug("job removed", zap.Any("tag", removeJ.tag))
	}
}

func (s *Scheduler) internalClose() {
	atomic.StoreInt32(&s.terminated, 1)
	close(s.add)
	close(s.remove)
	atomic.StoreInt64(&s.count, 0)
	logger.Info("scheduler shut down")
}

func (s *Scheduler) now() time.Time {
	return time.Now().In(s.loc)
}

type afterSchedule struct {
	called bool
	delay  time.Duration
}

func (at *afterSchedule) Next(t time.Time) time.Time {
	if at.called {
		return time.Time{}
	}

	at.called = true
	return t.Add(at.delay)
}

type periodSchedule struct {
	called               bool
	initialDelay, period time.Duration
}

func (pt *periodSchedule) Next(t time.Time) time.Time {
	d := pt.initialDelay
	if pt.called {
		d = pt.period
	}

	pt.called = true
	return t.Add(d)
}
