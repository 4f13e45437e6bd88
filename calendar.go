// Copyright 2024 Axel Wagner.
// All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package astrotime

import "time"

// A Calendar names a set of calendar rules. Both calendars are proleptic:
// they extend indefinitely in both directions and the 1582 calendar reform is
// not modeled.
type Calendar uint8

const (
	// Gregorian is the proleptic Gregorian calendar. Years divisible by 4
	// are leap years, except centuries not divisible by 400.
	Gregorian Calendar = iota
	// Julian is the proleptic Julian calendar. Every year divisible by 4 is
	// a leap year.
	Julian
)

// String returns the name of the calendar.
func (c Calendar) String() string {
	if c == Julian {
		return "Julian"
	}
	return "Gregorian"
}

// Day number bounds for the full int32 year range. Day numbers outside these
// bounds do not correspond to a representable date.
const (
	minGregorianDay = -784_352_296_671
	maxGregorianDay = 784_352_295_938
	minJulianDay    = -784_368_402_798
	maxJulianDay    = 784_368_402_065
)

// daysBefore[m] counts the number of days in a non-leap year before month m
// begins. There is an entry for m=12, counting the number of days before
// January of next year (365).
var daysBefore = [...]int{
	0,
	31,
	31 + 28,
	31 + 28 + 31,
	31 + 28 + 31 + 30,
	31 + 28 + 31 + 30 + 31,
	31 + 28 + 31 + 30 + 31 + 30,
	31 + 28 + 31 + 30 + 31 + 30 + 31,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31 + 30,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31 + 30 + 31,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31 + 30 + 31 + 30,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31 + 30 + 31 + 30 + 31,
}

// IsLeapYear reports whether the given year has a February 29 under c.
func (c Calendar) IsLeapYear(year int) bool {
	if c == Julian {
		return year%4 == 0
	}
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days of the given month under c, or 0 if
// the month is not January through December.
func (c Calendar) DaysInMonth(month time.Month, year int) int {
	if month < time.January || month > time.December {
		return 0
	}
	if month == time.February && c.IsLeapYear(year) {
		return 29
	}
	return daysBefore[month] - daysBefore[month-1]
}

// DayNumber returns the day number of the given date under c. Day 0 is
// January 1 of year 1 of the respective calendar. The month and day must be
// in their normal ranges, and the year must fit an int32.
func (c Calendar) DayNumber(year int, month time.Month, day int) (int64, error) {
	if year != int(int32(year)) {
		return 0, ErrOverflow
	}
	if month < time.January || month > time.December {
		return 0, ErrInvalidDate
	}
	if day < 1 || day > c.DaysInMonth(month, year) {
		return 0, ErrInvalidDate
	}
	m0 := (int64(month) + 9) % 12
	return c.dayNumber(int64(year), m0, int64(day)-1), nil
}

// DateOfDayNumber is the inverse of DayNumber. Day numbers outside the
// representable range return ErrOverflow.
func (c Calendar) DateOfDayNumber(n int64) (year int, month time.Month, day int, err error) {
	y, m, d, err := c.dateOfDayNumber(n)
	return int(y), time.Month(m), int(d), err
}

// The day number codec counts in March-based years: month 0 is March and the
// leap day, when there is one, is the last day of the year. That makes the
// day offset of a month within the year a simple linear function, and leap
// day handling falls out of the year arithmetic. Inputs are not bounds
// checked; callers of dayNumber pass m0 in [0, 11] but may pass day offsets
// far outside a month, which simply shift the result.
func (c Calendar) dayNumber(year, m0, d0 int64) int64 {
	y := year - m0/10
	n := 365*y + floorDiv(y, 4) + (m0*306+5)/10 + d0
	if c == Gregorian {
		n += floorDiv(y, 400) - floorDiv(y, 100)
	}
	return n - 306
}

func (c Calendar) dateOfDayNumber(n int64) (year, month, day int64, err error) {
	if c == Gregorian && (n < minGregorianDay || n > maxGregorianDay) ||
		c == Julian && (n < minJulianDay || n > maxJulianDay) {
		return 0, 0, 0, ErrOverflow
	}
	n += 306

	// Estimate the March-based year, then correct. The estimate can be off
	// by one in either direction near year boundaries.
	perMyriad := int64(3_652_500)
	if c == Gregorian {
		perMyriad = 3_652_425
	}
	y := floorDiv(10_000*n+14_780, perMyriad)
	rd := c.remDays(n, y)
	for rd < 0 {
		y--
		rd = c.remDays(n, y)
	}
	for l := c.marchYearDays(y); rd >= l; l = c.marchYearDays(y) {
		rd -= l
		y++
	}

	m0 := (100*rd + 52) / 3060
	year = y + (m0+2)/12
	month = (m0+2)%12 + 1
	day = rd - (m0*306+5)/10 + 1
	return year, month, day, nil
}

// remDays returns the day offset of day number n within March-based year y.
func (c Calendar) remDays(n, y int64) int64 {
	r := n - (365*y + floorDiv(y, 4))
	if c == Gregorian {
		r += floorDiv(y, 100) - floorDiv(y, 400)
	}
	return r
}

// marchYearDays returns the length of March-based year y, whose potential
// leap day is the February 29 of calendar year y+1.
func (c Calendar) marchYearDays(y int64) int64 {
	if c.isLeapYear64(y + 1) {
		return 366
	}
	return 365
}

func (c Calendar) isLeapYear64(year int64) bool {
	if c == Julian {
		return year%4 == 0
	}
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// absoluteDay converts a day number under c into a calendar-independent
// absolute day count. The two calendar epochs are exactly two days apart.
func (c Calendar) absoluteDay(n int64) int64 {
	if c == Julian {
		return n - 2
	}
	return n
}

// dayNumberOfAbsolute is the inverse of absoluteDay.
func (c Calendar) dayNumberOfAbsolute(abs int64) int64 {
	if c == Julian {
		return abs + 2
	}
	return abs
}

// floorDiv returns the quotient of a/b rounded toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// floorMod returns a-floorDiv(a,b)*b, which lies in [0, b) for positive b.
func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
