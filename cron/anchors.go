// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cron

import (
	"strconv"
	"strings"

	"github.com/cronlib/jcron/calendar"
)

// parseDomAnchor recognizes the day-of-month anchor syntax "L" (last day of
// month) and "<N>W" (nearest weekday to day N). It reports handled=true
// when entry was anchor syntax (consuming it, whether or not it was valid),
// so the caller never falls through to the numeric range grammar for it.
func parseDomAnchor(p *Pattern, entry string) (bool, error) {
	if entry == "L" {
		p.hasLast = true
		return true, nil
	}
	if strings.HasSuffix(entry, "W") && entry != "W" {
		digits := entry[:len(entry)-1]
		n, err := strconv.Atoi(digits)
		if err != nil || n < 1 || n > 31 {
			return true, newError(InvalidPattern, "invalid nearest-weekday anchor: '"+entry+"'")
		}
		p.hasNearestWeekday = true
		p.nearestWeekdayDay = n
		return true, nil
	}
	return false, nil
}

// parseDowAnchor recognizes the day-of-week anchor syntax "<dow>#<n>"
// (nth weekday of month, spec.md's "#" anchor).
func parseDowAnchor(p *Pattern, entry string) (bool, error) {
	idx := strings.IndexByte(entry, '#')
	if idx < 0 {
		return false, nil
	}
	dowTok, nTok := entry[:idx], entry[idx+1:]
	// The weekday is resolved here rather than through dowField, whose
	// initializer refers to this function.
	dow, convErr := strconv.Atoi(dowTok)
	if convErr != nil {
		alias, ok := weekdayAliases[strings.ToLower(dowTok)]
		if !ok {
			return true, newError(InvalidPattern, "invalid nth-weekday anchor: '"+entry+"'")
		}
		dow = alias
	}
	if dow < 0 || dow > 6 {
		return true, newError(InvalidPattern, "invalid nth-weekday anchor: '"+entry+"'")
	}
	n, err := strconv.Atoi(nTok)
	if err != nil || n < 1 || n > 5 {
		return true, newError(InvalidPattern, "invalid nth-weekday anchor: '"+entry+"'")
	}
	p.hasNthWeekday = true
	p.nthWeekdayDow = dow
	p.nthWeekdayN = n
	return true, nil
}

// anchorsMatch evaluates the L/#/W anchors against a decomposed calendar
// date, purely from the date itself (no advancer pass needed). It returns
// true when no anchor is set at all, so it composes as an extra conjunct
// alongside the bitmask tests in Matches.
func anchorsMatch(p *Pattern, d calendar.Date) bool {
	if p.hasLast {
		if d.Day != calendar.DaysInMonth(d.Year, d.Month) {
			return false
		}
	}
	if p.hasNthWeekday {
		if d.Weekday != p.nthWeekdayDow {
			return false
		}
		if (d.Day-1)/7+1 != p.nthWeekdayN {
			return false
		}
	}
	if p.hasNearestWeekday {
		if d.Day != nearestWeekday(d.Year, d.Month, p.nearestWeekdayDay) {
			return false
		}
	}
	return true
}

// nearestWeekday returns the weekday closest to day (clamped into the
// month) in (year, month): day itself if it already falls on a weekday,
// otherwise the adjacent Friday or Monday.
func nearestWeekday(year, month, day int) int {
	dim := calendar.DaysInMonth(year, month)
	if day < 1 {
		day = 1
	}
	if day > dim {
		day = dim
	}
	wd := calendar.Weekday(year, month, day)
	switch wd {
	case 0: // Sunday
		if day == dim {
			return day - 2
		}
		return day + 1
	case 6: // Saturday
		if day == 1 {
			return day + 2
		}
		return day - 1
	default:
		return day
	}
}
