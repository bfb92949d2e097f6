// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cron

import (
	"testing"

	"github.com/cronlib/jcron/calendar"
	"github.com/stretchr/testify/assert"
)

func TestAnchorsMatchLastDayOfMonth(t *testing.T) {
	p := newPattern("test")
	p.hasLast = true

	assert.True(t, anchorsMatch(p, calendar.Date{Year: 2025, Month: 10, Day: 31}))
	assert.False(t, anchorsMatch(p, calendar.Date{Year: 2025, Month: 10, Day: 30}))
	assert.True(t, anchorsMatch(p, calendar.Date{Year: 2028, Month: 2, Day: 29}))
}

func TestAnchorsMatchNthWeekday(t *testing.T) {
	p := newPattern("test")
	p.hasNthWeekday = true
	p.nthWeekdayDow = 1 // Monday
	p.nthWeekdayN = 2

	// 2025-10-13 is the second Monday of October 2025.
	d := calendar.Date{Year: 2025, Month: 10, Day: 13, Weekday: 1}
	assert.True(t, anchorsMatch(p, d))

	d2 := calendar.Date{Year: 2025, Month: 10, Day: 6, Weekday: 1}
	assert.False(t, anchorsMatch(p, d2))
}

func TestNearestWeekdayClampsAcrossMonthBoundary(t *testing.T) {
	// 2025-11-01 is a Saturday; nearest weekday should roll forward to the 3rd
	// (never crossing back into October).
	assert.Equal(t, calendar.Weekday(2025, 11, 1), 6)
	assert.Equal(t, 3, nearestWeekday(2025, 11, 1))
}

func TestNearestWeekdayOnWeekdayIsUnchanged(t *testing.T) {
	// 2025-10-23 is a Thursday.
	assert.Equal(t, 23, nearestWeekday(2025, 10, 23))
}

func TestParseDomAnchorRejectsInvalidNearestWeekday(t *testing.T) {
	p := newPattern("test")
	handled, err := parseDomAnchor(p, "40W")
	assert.True(t, handled)
	assert.Error(t, err)
}

func TestParseDowAnchorRejectsInvalidN(t *testing.T) {
	p := newPattern("test")
	handled, err := parseDowAnchor(p, "1#9")
	assert.True(t, handled)
	assert.Error(t, err)
}
