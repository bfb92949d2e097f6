// Copyright (c) 2018,TianJin Tomatox  Technology Ltd. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAfterFunc(t *testing.T) {
	assert.NotPanics(t, func() {
		out := make(chan bool, 1)
		mj, _ := AfterFunc(time.Millisecond*10, func() {
			out <- true
		}, nil)
		v := <-out
		assert.True(t, v)
		mj.Cancel()
	})
}

func TestPeriodFunc(t *testing.T) {
	assert.NotPanics(t, func() {
		out := make(chan bool, 1)
		mjob, _ := PeriodFunc(0, time.Millisecond, func() {
			out <- true
		}, nil)

		<-out
		v := <-out
		assert.True(t, v)
		mjob.Cancel()
	})
}

func TestCronFunc(t *testing.T) {
	assert.NotPanics(t, func() {
		// The cron engine resolves to the minute (spec.md §1), so this
		// checks that CronFunc wires the pattern into a running job rather
		// than waiting on an actual fire up to a minute away.
		mjob, err := CronFunc("* * * * * *", func() {}, nil)
		assert.NoError(t, err)
		defer mjob.Cancel()
		assert.False(t, mjob.NextTime().IsZero())
		assert.True(t, mjob.NextTime().After(time.Now()))
	})
}
