// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cron

import (
	"strconv"
	"strings"

	"github.com/cronlib/jcron/calendar"
)

// parseModifierBody parses the shared "S<d><U>" / "E<d><U>" modifier
// grammar (spec.md §4.3): a single decimal digit followed by an optional
// unit in {H,D,W,M}, defaulting to D when the unit is omitted.
func parseModifierBody(body string) (typ int8, modifier int8, unit Unit, err error) {
	if len(body) == 0 || body[0] < '0' || body[0] > '9' {
		return 0, 0, 0, newError(InvalidPattern, "invalid modifier: '"+body+"'")
	}
	digit := int8(body[0] - '0')
	if len(body) == 1 {
		return digit, digit, UnitDay, nil
	}
	u := Unit(body[1])
	switch u {
	case UnitHour, UnitDay, UnitWeek, UnitMonth:
	default:
		return 0, 0, 0, newError(InvalidPattern, "invalid modifier unit in '"+body+"'")
	}
	if len(body) > 2 {
		return 0, 0, 0, newError(InvalidPattern, "invalid modifier: '"+body+"'")
	}
	return digit, digit, u, nil
}

// parseEOD parses the "<d><U>" body of an "E<d><U>" modifier token (the
// token without its leading 'E' and without any "EOD:" prefix).
func parseEOD(p *Pattern, body string) error {
	typ, mod, unit, err := parseModifierBody(body)
	if err != nil {
		return err
	}
	p.eodType, p.eodModifier, p.eodUnit = typ, mod, unit
	return nil
}

// parseSOD parses the "<d><U>" body of an "S<d><U>" modifier token (the
// token without its leading 'S' and without any "SOD:" prefix).
func parseSOD(p *Pattern, body string) error {
	typ, mod, unit, err := parseModifierBody(body)
	if err != nil {
		return err
	}
	p.sodType, p.sodModifier, p.sodUnit = typ, mod, unit
	return nil
}

// parseWOY parses a "WOY:1,2,3" week-of-year restriction, up to the four
// week numbers the compiled record has room for (spec.md §3.1).
func parseWOY(p *Pattern, body string) error {
	parts := strings.Split(body, ",")
	if len(parts) == 0 || len(parts) > len(p.woyWeeks) {
		return newError(InvalidPattern, "WOY accepts at most "+strconv.Itoa(len(p.woyWeeks))+" week numbers")
	}
	weeks := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 || n > 53 {
			return newError(InvalidPattern, "invalid WOY week number: '"+part+"'")
		}
		weeks = append(weeks, n)
	}
	p.woyModifier = true
	p.woyCount = copy(p.woyWeeks[:], weeks)
	return nil
}

// applyModifiers post-processes a candidate instant with the pattern's SOD
// and EOD modifiers, in that order, per spec.md §4.6. It never re-validates
// the result against the cron masks (§4.6's documented open question).
func applyModifiers(ts int64, p *Pattern) int64 {
	if p.sodType != absentModifier {
		ts = applySOD(ts, p.sodModifier, p.sodUnit)
	}
	if p.eodType != absentModifier {
		ts = applyEOD(ts, p.eodModifier, p.eodUnit)
	}
	return ts
}

func applySOD(ts int64, modifier int8, unit Unit) int64 {
	switch unit {
	case UnitHour:
		return ts + int64(modifier)*3600
	case UnitDay:
		return ts + int64(modifier)*86400
	case UnitWeek:
		return ts + int64(modifier)*604800
	case UnitMonth:
		d := calendar.UnixToDate(ts)
		d.Month += int(modifier)
		normalizeMonth(&d)
		d.Day, d.Hour, d.Minute, d.Second = 1, 0, 0, 0
		return d.ToUnix()
	default:
		return ts
	}
}

func applyEOD(ts int64, modifier int8, unit Unit) int64 {
	d := calendar.UnixToDate(ts)
	switch unit {
	case UnitHour, UnitDay:
		d.Hour, d.Minute, d.Second = 23, 59, 59
		if unit == UnitHour {
			d2 := d
			d2.Hour -= int(modifier)
			return normalizeAndConvert(d2)
		}
		d.Day -= int(modifier)
		return normalizeAndConvert(d)
	case UnitWeek:
		d.Day += (6 - d.Weekday)
		d.Hour, d.Minute, d.Second = 23, 59, 59
		d.Day -= int(modifier) * 7
		return normalizeAndConvert(d)
	case UnitMonth:
		d.Day = calendar.DaysInMonth(d.Year, d.Month)
		d.Hour, d.Minute, d.Second = 23, 59, 59
		d.Month -= int(modifier)
		normalizeMonth(&d)
		d.Day = calendar.DaysInMonth(d.Year, d.Month)
		return d.ToUnix()
	default:
		return ts
	}
}

// normalizeMonth folds d.Month back into 1..12, carrying into d.Year.
func normalizeMonth(d *calendar.Date) {
	for d.Month < 1 {
		d.Month += 12
		d.Year--
	}
	for d.Month > 12 {
		d.Month -= 12
		d.Year++
	}
}

// normalizeAndConvert folds an out-of-range Day (positive or negative)
// back into a valid calendar date before converting to Unix seconds.
// An out-of-range Hour (the UnitHour case) is first folded into Day, and
// Day is then folded across month and year boundaries.
func normalizeAndConvert(d calendar.Date) int64 {
	for d.Hour < 0 {
		d.Hour += 24
		d.Day--
	}
	for d.Hour > 23 {
		d.Hour -= 24
		d.Day++
	}
	for {
		if d.Day < 1 {
			d.Month--
			normalizeMonth(&d)
			d.Day += calendar.DaysInMonth(d.Year, d.Month)
			continue
		}
		dim := calendar.DaysInMonth(d.Year, d.Month)
		if d.Day > dim {
			d.Day -= dim
			d.Month++
			normalizeMonth(&d)
			continue
		}
		break
	}
	return d.ToUnix()
}
