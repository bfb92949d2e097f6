// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cron

import (
	"github.com/cronlib/jcron/bitset"
	"github.com/cronlib/jcron/calendar"
)

// maxIterations bounds the top-down advancer's loop. Spec.md §4.5/§4.7/§5
// require at least 10000; it is an internal safety cap that turns an
// otherwise-nonterminating input (e.g. a Feb-30-only pattern) into a
// NoMatch error rather than an infinite loop.
const maxIterations = 10000

// Next returns the smallest instant >= t0 (minute precision) whose
// calendar fields satisfy every mask of p, post-processed by the
// pattern's SOD/EOD modifiers (spec.md §4.5, §4.6).
func Next(t0 int64, p *Pattern) (Result, error) {
	if p == nil {
		return Result{}, newError(ErrNullPointer, "nil pattern")
	}
	if !p.hasCron {
		return Result{}, newError(InvalidPattern, "pattern has no cron body")
	}

	d := calendar.UnixToDate(t0)
	d.Second = 0

	for iter := 0; iter < maxIterations; iter++ {
		if !bitset.Test16(p.months, uint(d.Month)) {
			advanceMonth(p, &d)
			continue
		}
		if !bitset.Test32(p.daysOfMonth, uint(d.Day)) || !bitset.Test8(p.daysOfWeek, uint(d.Weekday)) {
			if !advanceDay(p, &d) {
				return Result{}, newError(NoMatch, "no admissible day")
			}
			continue
		}
		if !bitset.Test32(p.hours, uint(d.Hour)) {
			if !advanceHour(p, &d) {
				return Result{}, newError(NoMatch, "no admissible hour")
			}
			continue
		}
		if !bitset.Test64(p.minutes, uint(d.Minute)) {
			if !advanceMinute(p, &d) {
				return Result{}, newError(NoMatch, "no admissible minute")
			}
			continue
		}

		ts := applyModifiers(d.ToUnix(), p)
		return Result{NextTime: ts, Date: d}, nil
	}

	return Result{}, newError(NoMatch, "safety iteration limit exceeded")
}

// advanceMonth jumps to the next admissible month, wrapping to the
// following year when none remains in the current one, and resets every
// lower field to its minimum.
func advanceMonth(p *Pattern, d *calendar.Date) {
	next := bitset.NextSetFrom16(p.months, d.Month+1)
	if next == bitset.None {
		next = bitset.FirstSet16(p.months)
		d.Year++
	}
	d.Month = next
	d.Day, d.Hour, d.Minute, d.Second = 1, 0, 0, 0
	d.RecomputeWeekday()
}

// advanceDay steps the day forward by one, cascading into the next
// month/year on overflow, and resets hour/minute to zero. It reports
// false only when the current month has no days at all (never true for
// a valid calendar), mirroring the "impossible pattern" case of §4.5.
func advanceDay(p *Pattern, d *calendar.Date) bool {
	dim := calendar.DaysInMonth(d.Year, d.Month)
	if dim == 0 {
		return false
	}
	d.Day++
	d.Hour, d.Minute, d.Second = 0, 0, 0
	if d.Day > dim {
		d.Day = 1
		d.Month++
		if d.Month > 12 {
			d.Month = 1
			d.Year++
		}
	}
	d.RecomputeWeekday()
	return true
}

func advanceHour(p *Pattern, d *calendar.Date) bool {
	next := bitset.NextSetFrom32(p.hours, d.Hour+1)
	if next == bitset.None {
		next = bitset.FirstSet32(p.hours)
		if next == bitset.None {
			return false
		}
		if !advanceDay(p, d) {
			return false
		}
		d.Hour = next
		d.Minute = 0
		return true
	}
	d.Hour = next
	d.Minute = 0
	return true
}

func advanceMinute(p *Pattern, d *calendar.Date) bool {
	next := bitset.NextSetFrom64(p.minutes, d.Minute+1)
	if next == bitset.None {
		next = bitset.FirstSet64(p.minutes)
		if next == bitset.None {
			return false
		}
		d.Hour++
		if d.Hour > 23 {
			d.Hour = 0
			if !advanceDay(p, d) {
				return false
			}
		}
		d.Minute = next
		return true
	}
	d.Minute = next
	return true
}

// Prev returns the largest instant < t0 (minute precision) whose
// calendar fields satisfy every mask of p, post-processed by the
// pattern's SOD/EOD modifiers. It implements the tick-by-tick backward
// scan original_source/jcron_time.c uses (spec.md §4.7); PrevFast below
// is the top-down equivalent spec.md §9 says is admissible as a
// substitute. The scan covers at most maxIterations minutes (about 6.9
// days) before t0 and returns NoMatch when no match lies in that window.
func Prev(t0 int64, p *Pattern) (Result, error) {
	if p == nil {
		return Result{}, newError(ErrNullPointer, "nil pattern")
	}
	if !p.hasCron {
		return Result{}, newError(InvalidPattern, "pattern has no cron body")
	}

	d := calendar.UnixToDate(t0)
	d.Second = 0

	for iter := 0; iter < maxIterations; iter++ {
		if !stepMinuteBack(&d) {
			return Result{}, newError(NoMatch, "no admissible time before epoch start")
		}
		if bitset.Test16(p.months, uint(d.Month)) &&
			bitset.Test32(p.daysOfMonth, uint(d.Day)) &&
			bitset.Test8(p.daysOfWeek, uint(d.Weekday)) &&
			bitset.Test32(p.hours, uint(d.Hour)) &&
			bitset.Test64(p.minutes, uint(d.Minute)) {
			ts := applyModifiers(d.ToUnix(), p)
			return Result{PrevTime: ts, Date: d}, nil
		}
	}

	return Result{}, newError(NoMatch, "safety iteration limit exceeded")
}

// stepMinuteBack decrements d by one minute, borrowing across
// hour/day/month/year as needed.
func stepMinuteBack(d *calendar.Date) bool {
	d.Minute--
	if d.Minute < 0 {
		d.Minute = 59
		d.Hour--
		if d.Hour < 0 {
			d.Hour = 23
			d.Day--
			if d.Day < 1 {
				d.Month--
				if d.Month < 1 {
					d.Month = 12
					d.Year--
				}
				d.Day = calendar.DaysInMonth(d.Year, d.Month)
			}
			d.RecomputeWeekday()
		}
	}
	return true
}

// PrevFast is a top-down, field-wise backward solver: symmetric to Next,
// it repeatedly identifies the highest-order non-matching field and jumps
// it to its previous admissible value, resetting lower fields to their
// maximum, rather than ticking minute-by-minute. Spec.md §4.7/§9 permit
// this as a drop-in replacement for Prev as long as each step moves
// strictly earlier; it is offered here for callers who need O(fields)
// instead of O(elapsed minutes) on a backward search far from a match.
// It returns the same instant as Prev whenever a match lies within Prev's
// maxIterations-minute window; for an earlier match Prev returns NoMatch
// while PrevFast still finds it.
func PrevFast(t0 int64, p *Pattern) (Result, error) {
	if p == nil {
		return Result{}, newError(ErrNullPointer, "nil pattern")
	}
	if !p.hasCron {
		return Result{}, newError(InvalidPattern, "pattern has no cron body")
	}

	d := calendar.UnixToDate(t0)
	d.Second = 0
	if !stepMinuteBack(&d) {
		return Result{}, newError(NoMatch, "no admissible time before epoch start")
	}

	for iter := 0; iter < maxIterations; iter++ {
		if !bitset.Test16(p.months, uint(d.Month)) {
			if !retreatMonth(p, &d) {
				return Result{}, newError(NoMatch, "no admissible month")
			}
			continue
		}
		if !bitset.Test32(p.daysOfMonth, uint(d.Day)) || !bitset.Test8(p.daysOfWeek, uint(d.Weekday)) {
			if !retreatDay(p, &d) {
				return Result{}, newError(NoMatch, "no admissible day")
			}
			continue
		}
		if !bitset.Test32(p.hours, uint(d.Hour)) {
			if !retreatHour(p, &d) {
				return Result{}, newError(NoMatch, "no admissible hour")
			}
			continue
		}
		if !bitset.Test64(p.minutes, uint(d.Minute)) {
			if !retreatMinute(p, &d) {
				return Result{}, newError(NoMatch, "no admissible minute")
			}
			continue
		}

		ts := applyModifiers(d.ToUnix(), p)
		return Result{PrevTime: ts, Date: d}, nil
	}

	return Result{}, newError(NoMatch, "safety iteration limit exceeded")
}

func retreatMonth(p *Pattern, d *calendar.Date) bool {
	prev := bitset.PrevSetBefore64(uint64(p.months), d.Month)
	if prev == bitset.None {
		last := bitset.LastSet64(uint64(p.months))
		if last == bitset.None {
			return false
		}
		prev = last
		d.Year--
	}
	d.Month = prev
	d.Day = calendar.DaysInMonth(d.Year, d.Month)
	d.Hour, d.Minute, d.Second = 23, 59, 0
	d.RecomputeWeekday()
	return true
}

func retreatDay(p *Pattern, d *calendar.Date) bool {
	d.Day--
	d.Hour, d.Minute, d.Second = 23, 59, 0
	if d.Day < 1 {
		d.Month--
		if d.Month < 1 {
			d.Month = 12
			d.Year--
		}
		d.Day = calendar.DaysInMonth(d.Year, d.Month)
	}
	d.RecomputeWeekday()
	return true
}

func retreatHour(p *Pattern, d *calendar.Date) bool {
	prev := bitset.PrevSetBefore32(p.hours, d.Hour)
	if prev == bitset.None {
		last := bitset.LastSet32(p.hours)
		if last == bitset.None {
			return false
		}
		prev = last
		if !retreatDay(p, d) {
			return false
		}
	}
	d.Hour = prev
	d.Minute, d.Second = 59, 0
	return true
}

func retreatMinute(p *Pattern, d *calendar.Date) bool {
	prev := bitset.PrevSetBefore64(p.minutes, d.Minute)
	if prev == bitset.None {
		last := bitset.LastSet64(p.minutes)
		if last == bitset.None {
			return false
		}
		prev = last
		d.Hour--
		if d.Hour < 0 {
			d.Hour = 23
			if !retreatDay(p, d) {
				return false
			}
		}
	}
	d.Minute = prev
	d.Second = 0
	return true
}
