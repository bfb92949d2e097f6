// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsLeapYear(t *testing.T) {
	cases := map[int]bool{
		2000: true,
		1900: false,
		2024: true,
		2023: false,
		2028: true,
	}
	for year, want := range cases {
		assert.Equalf(t, want, IsLeapYear(year), "year %d", year)
	}
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 29, DaysInMonth(2024, 2))
	assert.Equal(t, 28, DaysInMonth(2023, 2))
	assert.Equal(t, 31, DaysInMonth(2025, 1))
	assert.Equal(t, 30, DaysInMonth(2025, 4))
	assert.Equal(t, 0, DaysInMonth(2025, 13))
}

func refWeekday(year, month, day int) int {
	return int(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Weekday())
}

func TestWeekdayMatchesStdlib(t *testing.T) {
	dates := [][3]int{
		{2025, 10, 23}, {2025, 1, 1}, {2000, 2, 29}, {1970, 1, 1}, {2099, 12, 31},
	}
	for _, d := range dates {
		assert.Equal(t, refWeekday(d[0], d[1], d[2]), Weekday(d[0], d[1], d[2]))
	}
}

func TestDateToUnixRoundTrip(t *testing.T) {
	cases := []Date{
		{Year: 2025, Month: 10, Day: 23, Hour: 10, Minute: 0, Second: 0},
		{Year: 1970, Month: 1, Day: 1},
		{Year: 2028, Month: 2, Day: 29, Hour: 12},
		{Year: 2099, Month: 12, Day: 31, Hour: 23, Minute: 59, Second: 59},
		{Year: 1969, Month: 12, Day: 31, Hour: 23, Minute: 59, Second: 59},
		{Year: 1800, Month: 6, Day: 15},
	}
	for _, d := range cases {
		ts := d.ToUnix()
		got := UnixToDate(ts)
		assert.Equal(t, d.Year, got.Year)
		assert.Equal(t, d.Month, got.Month)
		assert.Equal(t, d.Day, got.Day)
		assert.Equal(t, d.Hour, got.Hour)
		assert.Equal(t, d.Minute, got.Minute)
		assert.Equal(t, d.Second, got.Second)
	}
}

func TestDateToUnixMatchesStdlib(t *testing.T) {
	ref := time.Date(2025, 10, 23, 10, 0, 0, 0, time.UTC)
	d := Date{Year: 2025, Month: 10, Day: 23, Hour: 10}
	assert.Equal(t, ref.Unix(), d.ToUnix())
}

func TestUnixToDateWeekday(t *testing.T) {
	d := UnixToDate(1761213600) // 2025-10-23T10:00:00Z, a Thursday
	assert.Equal(t, 4, d.Weekday)
}
