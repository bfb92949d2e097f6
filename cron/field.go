// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cron

import (
	"strconv"
	"strings"
)

// fieldSpec describes one of the five cron bit-field columns (seconds are
// accepted and ignored, per spec.md §4.3) and how to fold a parsed value
// into the Pattern being built.
type fieldSpec struct {
	name     string
	min, max int
	set      func(p *Pattern, v int)
	alias    func(token string) (int, bool) // optional named-value lookup (months, weekdays)
	anchor   func(p *Pattern, entry string) (bool, error) // optional L/#/W anchor syntax
}

var monthAliases = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

var weekdayAliases = map[string]int{
	"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6,
}

var minuteField = fieldSpec{
	name: "minute", min: 0, max: 59,
	set: func(p *Pattern, v int) { p.minutes = bitSet64(p.minutes, v) },
}

var hourField = fieldSpec{
	name: "hour", min: 0, max: 23,
	set: func(p *Pattern, v int) { p.hours = bitSet32(p.hours, v) },
}

var domField = fieldSpec{
	name: "day of month", min: 1, max: 31,
	set:    func(p *Pattern, v int) { p.daysOfMonth = bitSet32(p.daysOfMonth, v) },
	anchor: parseDomAnchor,
}

var monthField = fieldSpec{
	name: "month", min: 1, max: 12,
	set:   func(p *Pattern, v int) { p.months = bitSet16(p.months, v) },
	alias: func(tok string) (int, bool) { v, ok := monthAliases[strings.ToLower(tok)]; return v, ok },
}

var dowField = fieldSpec{
	name: "day of week", min: 0, max: 6,
	set:    func(p *Pattern, v int) { p.daysOfWeek = bitSet8(p.daysOfWeek, v) },
	alias:  func(tok string) (int, bool) { v, ok := weekdayAliases[strings.ToLower(tok)]; return v, ok },
	anchor: parseDowAnchor,
}

func bitSet64(mask uint64, b int) uint64 { return mask | (uint64(1) << uint(b)) }
func bitSet32(mask uint32, b int) uint32 { return mask | (uint32(1) << uint(b)) }
func bitSet16(mask uint16, b int) uint16 { return mask | (uint16(1) << uint(b)) }
func bitSet8(mask uint8, b int) uint8    { return mask | (uint8(1) << uint(b)) }

// atoiOrAlias parses tok either as a plain integer or, if f.alias is set,
// as a named value (e.g. "mon", "jan").
func (f *fieldSpec) atoiOrAlias(tok string) (int, bool) {
	if n, err := strconv.Atoi(tok); err == nil {
		return n, true
	}
	if f.alias != nil {
		return f.alias(tok)
	}
	return 0, false
}

// parse populates the field's bits in p from a single cron field token,
// per spec.md §4.3's field grammar:
//
//	*         all admissible values
//	*/S       every S-th value starting at the field minimum, S >= 1
//	N         single value
//	N-M       inclusive range
//	N-M/S     stepped range
//	N/S       stepped open range (N..max)
//	a,b,c,... a list of any of the above
func (f *fieldSpec) parse(p *Pattern, field string) error {
	for _, entry := range strings.Split(field, ",") {
		if entry == "" {
			return newError(InvalidPattern, "empty entry in "+f.name+" field")
		}
		if f.anchor != nil {
			if handled, err := f.anchor(p, entry); handled || err != nil {
				if err != nil {
					return err
				}
				continue
			}
		}
		if err := f.parseEntry(p, entry); err != nil {
			return err
		}
	}
	return nil
}

func (f *fieldSpec) parseEntry(p *Pattern, entry string) error {
	body, step, hasStep, err := f.splitStep(entry)
	if err != nil {
		return err
	}

	var start, end int
	switch {
	case body == "*" || body == "?":
		start, end = f.min, f.max
	default:
		if i := strings.IndexByte(body, '-'); i >= 0 {
			start, err = f.atoiChecked(body[:i])
			if err != nil {
				return err
			}
			end, err = f.atoiChecked(body[i+1:])
			if err != nil {
				return err
			}
			if end < start {
				return f.invalid(entry)
			}
		} else {
			start, err = f.atoiChecked(body)
			if err != nil {
				return err
			}
			if hasStep {
				end = f.max
			} else {
				end = start
			}
		}
	}

	for v := start; v <= end; v += step {
		f.set(p, v)
	}
	return nil
}

// splitStep splits "BODY/STEP" into BODY and STEP, defaulting STEP to 1
// when absent. Step must be a positive integer.
func (f *fieldSpec) splitStep(entry string) (body string, step int, hasStep bool, err error) {
	i := strings.IndexByte(entry, '/')
	if i < 0 {
		return entry, 1, false, nil
	}
	body = entry[:i]
	n, convErr := strconv.Atoi(entry[i+1:])
	if convErr != nil || n < 1 {
		return "", 0, false, f.invalid(entry)
	}
	return body, n, true, nil
}

func (f *fieldSpec) atoiChecked(tok string) (int, error) {
	n, ok := f.atoiOrAlias(tok)
	if !ok || n < f.min || n > f.max {
		return 0, f.invalid(tok)
	}
	return n, nil
}

func (f *fieldSpec) invalid(entry string) error {
	return newError(InvalidPattern, "syntax error in "+f.name+" field: '"+entry+"'")
}
