// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package calendar implements the leap-year, days-in-month, weekday and
// UTC calendar<->Unix-timestamp conversions the cron engine's advancer
// relies on. All arithmetic is UTC-only; spec.md §1 places timezone-aware
// local time out of scope for the core.
package calendar

// daysInMonthTable holds the non-leap day counts for months 1..12 (index 0 unused).
var daysInMonthTable = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// sakamotoTable is Sakamoto's per-month offset table.
var sakamotoTable = [12]int{0, 3, 2, 5, 0, 3, 5, 1, 4, 6, 2, 4}

// cumulativeDays holds days since 1970-01-01 at the start of each year,
// for years 1970..2099, used as an accelerator by Date.ToUnix.
var cumulativeDays [130]int32

// monthDaysCumulative[leap][month] is days elapsed before the 1st of month
// (1-based month) within a year, for non-leap (0) and leap (1) years.
var monthDaysCumulative = [2][13]int32{
	{0, 0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334},
	{0, 0, 31, 60, 91, 121, 152, 182, 213, 244, 274, 305, 335},
}

func init() {
	days := int32(0)
	for y := 1970; y < 1970+len(cumulativeDays); y++ {
		cumulativeDays[y-1970] = days
		if IsLeapYear(y) {
			days += 366
		} else {
			days += 365
		}
	}
}

// IsLeapYear reports whether year is a leap year in the proleptic Gregorian calendar.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInMonth returns the number of days in the given (year, month), month in 1..12.
// Returns 0 for an out-of-range month.
func DaysInMonth(year, month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return daysInMonthTable[month]
}

// Weekday returns the day of week for (year, month, day) via Sakamoto's
// algorithm: 0=Sunday .. 6=Saturday. The result is always non-negative.
func Weekday(year, month, day int) int {
	y := year
	if month < 3 {
		y--
	}
	w := (y + y/4 - y/100 + y/400 + sakamotoTable[month-1] + day) % 7
	if w < 0 {
		w += 7
	}
	return w
}

// Date is a broken-down UTC calendar record, as described in spec.md §3.2.
type Date struct {
	Year    int
	Month   int // 1..12
	Day     int // 1..31
	Hour    int // 0..23
	Minute  int // 0..59
	Second  int // 0..59
	Weekday int // 0..6, Sunday=0
}

// RecomputeWeekday sets d.Weekday from (d.Year, d.Month, d.Day).
func (d *Date) RecomputeWeekday() {
	d.Weekday = Weekday(d.Year, d.Month, d.Day)
}

// ToUnix converts the broken-down date to signed Unix seconds (UTC).
// It uses the precomputed table for years within [1970, 2099] and falls
// back to a generic closed-form computation outside that band, per
// spec.md §4.2.
func (d Date) ToUnix() int64 {
	var days int64
	if d.Year >= 1970 && d.Year < 1970+len(cumulativeDays) {
		leap := 0
		if IsLeapYear(d.Year) {
			leap = 1
		}
		days = int64(cumulativeDays[d.Year-1970]) + int64(monthDaysCumulative[leap][d.Month]) + int64(d.Day-1)
	} else {
		days = daysSince1970Generic(d.Year, d.Month, d.Day)
	}
	return days*86400 + int64(d.Hour)*3600 + int64(d.Minute)*60 + int64(d.Second)
}

// daysSince1970Generic computes days-since-epoch for any signed year,
// using a closed form equivalent to the table-driven path above:
// base-year offset plus leap corrections plus cumulative month days.
func daysSince1970Generic(year, month, day int) int64 {
	y := int64(year)
	days := (y-1970)*365 + floorDiv(y-1969, 4) - floorDiv(y-1901, 100) + floorDiv(y-1601, 400)
	days += int64(monthDaysCumulative[0][month]) + int64(day-1)
	if month > 2 && IsLeapYear(year) {
		days++
	}
	return days
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// UnixToDate converts signed Unix seconds (UTC) to a broken-down Date,
// including its weekday.
func UnixToDate(ts int64) Date {
	secOfDay := ts % 86400
	days := ts / 86400
	if secOfDay < 0 {
		secOfDay += 86400
		days--
	}

	year, month, day := civilFromDays(days)
	return Date{
		Year:    year,
		Month:   month,
		Day:     day,
		Hour:    int(secOfDay / 3600),
		Minute:  int((secOfDay % 3600) / 60),
		Second:  int(secOfDay % 60),
		Weekday: Weekday(year, month, day),
	}
}

// civilFromDays inverts daysSince1970Generic by an explicit year/month walk.
// It is the "generic path" spec.md §4.2 requires for years outside the
// precomputed band, and is also correct (if unnecessarily general) inside it.
func civilFromDays(days int64) (year, month, day int) {
	year = 1970
	if days >= 0 {
		for {
			yd := int64(365)
			if IsLeapYear(year) {
				yd = 366
			}
			if days < yd {
				break
			}
			days -= yd
			year++
		}
	} else {
		for days < 0 {
			year--
			yd := int64(365)
			if IsLeapYear(year) {
				yd = 366
			}
			days += yd
		}
	}

	leap := 0
	if IsLeapYear(year) {
		leap = 1
	}
	month = 1
	for m := 12; m >= 1; m-- {
		if days >= int64(monthDaysCumulative[leap][m]) {
			month = m
			break
		}
	}
	day = int(days-int64(monthDaysCumulative[leap][month])) + 1
	return year, month, day
}
