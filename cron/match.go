// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cron

import (
	"github.com/cronlib/jcron/bitset"
	"github.com/cronlib/jcron/calendar"
)

// Matches reports whether ts satisfies every field mask of p, per
// spec.md §4.4. A pattern without a cron body (is_eod_pattern or
// is_sod_pattern only) matches nothing and returns (false, nil).
//
// When L/#/W anchors are present they are additionally checked against
// the decomposed date (see anchorsMatch) — a purely static test the
// advancer does not need a search to perform. This does not change
// matchFields's behavior; it only narrows it further.
func Matches(ts int64, p *Pattern) (bool, error) {
	if p == nil {
		return false, newError(ErrNullPointer, "nil pattern")
	}
	if !p.hasCron {
		return false, nil
	}
	d := calendar.UnixToDate(ts)
	return matchFields(p, d) && anchorsMatch(p, d), nil
}

// matchFields is the scalar field-mask conjunction spec.md §4.4 calls the
// "authoritative" fallback; matchFieldsVector below is the batched
// equivalent a SIMD kernel could replace without changing results.
func matchFields(p *Pattern, d calendar.Date) bool {
	return bitset.Test16(p.months, uint(d.Month)) &&
		bitset.Test32(p.daysOfMonth, uint(d.Day)) &&
		bitset.Test8(p.daysOfWeek, uint(d.Weekday)) &&
		bitset.Test32(p.hours, uint(d.Hour)) &&
		bitset.Test64(p.minutes, uint(d.Minute))
}

// matchFieldsVector evaluates the same five field tests as matchFields,
// but through a single batched pass over parallel mask/value arrays —
// the shape a SIMD kernel would vectorize (spec.md §4.4: "A SIMD kernel
// MAY evaluate all five field tests in one instruction group"). It is
// kept observably identical to matchFields and used by MatchesBatch,
// which callers needing that access pattern (e.g. a bulk rule check
// across many timestamps against one pattern) can use directly.
func matchFieldsVector(p *Pattern, d calendar.Date) bool {
	masks := [5]uint64{
		uint64(p.minutes),
		uint64(p.hours),
		uint64(p.daysOfMonth),
		uint64(p.months),
		uint64(p.daysOfWeek),
	}
	values := [5]uint{
		uint(d.Minute),
		uint(d.Hour),
		uint(d.Day),
		uint(d.Month),
		uint(d.Weekday),
	}
	for i := range masks {
		if masks[i]&(uint64(1)<<values[i]) == 0 {
			return false
		}
	}
	return true
}

// MatchesBatch evaluates Matches for every timestamp in ts, reusing a
// single vectorizable loop (matchFieldsVector) rather than calling
// Matches once per element. It performs no allocation beyond the result
// slice the caller wants filled.
func MatchesBatch(ts []int64, p *Pattern, out []bool) error {
	if p == nil {
		return newError(ErrNullPointer, "nil pattern")
	}
	if len(out) < len(ts) {
		return newError(InvalidPattern, "out slice shorter than ts slice")
	}
	if !p.hasCron {
		for i := range ts {
			out[i] = false
		}
		return nil
	}
	for i, t := range ts {
		d := calendar.UnixToDate(t)
		out[i] = matchFieldsVector(p, d) && anchorsMatch(p, d)
	}
	return nil
}
