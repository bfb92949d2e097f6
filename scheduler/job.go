// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheduler

import (
	"sync/atomic"
	"time"
	"unsafe"
)

// Job represents a 'job' to be performed.
type Job interface {
	// Run is called by the Scheduler when the Schedule associated with the Job is triggered.
	Run()
}

// JobFunc is an adapter to allow the use of ordinary functions as the Job interface.
type JobFunc func()

// Run calls jf.
func (jf JobFunc) Run() {
	jf()
}

// ManagedJob represents a job managed by a Scheduler.
type ManagedJob struct {
	// heap fields
	index int // index of the job in the heap

	// immutable fields of the job
	tag      interface{} // job tag, application-provided
	schedule Schedule
	job      Job
	remove   chan *ManagedJob
	postTime time.Time

	// runtime fields
	next     time.Time // next trigger time
	prevTime lockedTime
	nextTime lockedTime
}

// Cancel cancels the scheduled job.
func (mjob *ManagedJob) Cancel() {
	defer func() {
		if r := recover(); r != nil {
			// remove channel already closed: scheduler has shut down
		}
	}()

	mjob.remove <- mjob
}

// Tag returns the tag of the job.
func (mjob *ManagedJob) Tag() interface{} {
	return mjob.tag
}

// Schedule returns the schedule of the job.
func (mjob *ManagedJob) Schedule() Schedule {
	return mjob.schedule
}

// Job returns the executive job of the job.
func (mjob *ManagedJob) Job() Job {
	return mjob.job
}

// PostTime returns the time the job was posted to the scheduler.
func (mjob *ManagedJob) PostTime() time.Time {
	return mjob.postTime
}

// PrevTime returns the previous execution time of the job.
func (mjob *ManagedJob) PrevTime() time.Time {
	return mjob.prevTime.get().In(mjob.postTime.Location())
}

// NextTime returns the next execution time of the job.
func (mjob *ManagedJob) NextTime() time.Time {
	return mjob.nextTime.get().In(mjob.postTime.Location())
}

func (mjob *ManagedJob) setNext(next time.Time) {
	mjob.prevTime.set(mjob.next)
	mjob.next = next
	mjob.nextTime.set(next)
}

// lockedTime stores a time.Time so it can be read/written atomically
// without a mutex, matching time.Time's internal wall/ext layout.
type lockedTime struct {
	wall uint64
	ext  int64
}

func (lt *lockedTime) set(t time.Time) {
	temp := (*lockedTime)(unsafe.Pointer(&t))
	atomic.StoreUint64(&lt.wall, temp.wall)
	atomic.StoreInt64(&lt.ext, temp.ext)
}

func (lt *lockedTime) get() (t time.Time) {
	temp := (*lockedTime)(unsafe.Pointer(&t))
	temp.wall = atomic.LoadUint64(&lt.wall)
	temp.ext = atomic.LoadInt64(&lt.ext)
	return
}
