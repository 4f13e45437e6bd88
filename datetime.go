// Copyright 2024 Axel Wagner.
// All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package astrotime

import (
	"fmt"
	"time"
)

// A DateTime is a clock reading: a calendar date and a time of day, tagged
// with the [Calendar] the date is expressed in and the [Standard] the clock
// runs on. The same [Instant] has many readings; a reading names exactly one
// instant (except that invalid UTC leap seconds name none).
//
// DateTime is a comparable value type. The zero value reads
// 0000-00-00 00:00:00 TT Gregorian, which is not a valid date; use
// [NewDateTime] to construct one.
type DateTime struct {
	year   int32
	month  time.Month
	day    uint8
	hour   uint8
	minute uint8
	second uint8
	attos  int64
	cal    Calendar
	std    Standard
}

// NewDateTime returns the reading of the given calendar date and time of day.
// The fields must be in their normal ranges. A second of 60 is accepted only
// under UTC; whether it names a real leap second is checked on conversion to
// an [Instant]. Years before 1 follow astronomical numbering: year 0 is 1 BC.
func NewDateTime(cal Calendar, std Standard, year int, month time.Month, day, hour, minute, second int, attosecond int64) (DateTime, error) {
	if year != int(int32(year)) {
		return DateTime{}, ErrOverflow
	}
	if month < time.January || month > time.December {
		return DateTime{}, ErrInvalidDate
	}
	if day < 1 || day > cal.DaysInMonth(month, year) {
		return DateTime{}, ErrInvalidDate
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return DateTime{}, ErrInvalidDate
	}
	if second < 0 || second > 60 || (second == 60 && std != UTC) {
		return DateTime{}, ErrInvalidDate
	}
	if attosecond < 0 || attosecond >= attosPerSec {
		return DateTime{}, ErrInvalidDate
	}
	return DateTime{
		year:   int32(year),
		month:  month,
		day:    uint8(day),
		hour:   uint8(hour),
		minute: uint8(minute),
		second: uint8(second),
		attos:  attosecond,
		cal:    cal,
		std:    std,
	}, nil
}

// NewDateTimeBC is NewDateTime with the year counted backwards from 1 BC, as
// historians do: 1 BC is astronomical year 0, 2 BC is -1, and so on.
func NewDateTimeBC(cal Calendar, std Standard, yearBC int, month time.Month, day, hour, minute, second int, attosecond int64) (DateTime, error) {
	return NewDateTime(cal, std, 1-yearBC, month, day, hour, minute, second, attosecond)
}

// Year returns the astronomical year of the reading.
func (dt DateTime) Year() int { return int(dt.year) }

// YearBC returns the year counted backwards from 1 BC. It is only meaningful
// for readings in year 0 and before.
func (dt DateTime) YearBC() int { return 1 - int(dt.year) }

// Month returns the month of the reading.
func (dt DateTime) Month() time.Month { return dt.month }

// Day returns the day of the month.
func (dt DateTime) Day() int { return int(dt.day) }

// Hour returns the hour of the day.
func (dt DateTime) Hour() int { return int(dt.hour) }

// Minute returns the minute of the hour.
func (dt DateTime) Minute() int { return int(dt.minute) }

// Second returns the second of the minute, which is 60 during an inserted
// leap second.
func (dt DateTime) Second() int { return int(dt.second) }

// Attosecond returns the sub-second part of the reading, in attoseconds.
func (dt DateTime) Attosecond() int64 { return dt.attos }

// Date returns the calendar date of the reading.
func (dt DateTime) Date() (year int, month time.Month, day int) {
	return int(dt.year), dt.month, int(dt.day)
}

// Clock returns the time of day of the reading.
func (dt DateTime) Clock() (hour, minute, second int) {
	return int(dt.hour), int(dt.minute), int(dt.second)
}

// Calendar returns the calendar the date is expressed in.
func (dt DateTime) Calendar() Calendar { return dt.cal }

// Standard returns the standard the clock runs on.
func (dt DateTime) Standard() Standard { return dt.std }

// Weekday returns the day of the week of the reading's date. The week cycle
// is continuous across both calendars: Gregorian 0001-01-01 and Julian
// 0001-01-03 are both a Monday.
func (dt DateTime) Weekday() time.Weekday {
	n := dt.DayNumber()
	off := int64(0)
	if dt.cal == Julian {
		off = 5
	}
	iso := floorMod(n+off, 7) + 1
	return time.Weekday(iso % 7)
}

// DayNumber returns the day number of the reading's date under its calendar.
// Day 0 is January 1 of year 1.
func (dt DateTime) DayNumber() int64 {
	n, err := dt.cal.DayNumber(int(dt.year), dt.month, int(dt.day))
	if err != nil {
		// A constructed DateTime always holds a valid date.
		panic(err)
	}
	return n
}

// dayFractionFactor subdivides the day into units of 10^-14 of a second,
// the finest grid on which a full day count still fits an int64.
const dayFractionFactor = 100_000_000_000_000

// DayFraction returns the time of day as a fraction of a day, normally in
// [0, 1). A leap second reading lies past the end of its nominal day, so it
// yields a fraction of 1 or slightly above. The fraction is computed on a
// 10^-14 s grid, close to the limit of what a float64 resolves over a day.
func (dt DateTime) DayFraction() float64 {
	parts := dt.secondOfDay()*dayFractionFactor + dt.attos/10_000
	return float64(parts) / float64(secsPerDay*dayFractionFactor)
}

func (dt DateTime) secondOfDay() int64 {
	return int64(dt.hour)*3600 + int64(dt.minute)*60 + int64(dt.second)
}

// DateTimeOfDayNumber returns the reading of midnight of the given day
// number under the given calendar.
func DateTimeOfDayNumber(cal Calendar, std Standard, n int64) (DateTime, error) {
	return DateTimeOfDayNumberAndFraction(cal, std, n, 0)
}

// DateTimeOfDayNumberAndFraction returns the reading of the given day number
// and day fraction in [0, 1). The fraction is resolved on a 10^-14 s grid.
func DateTimeOfDayNumberAndFraction(cal Calendar, std Standard, n int64, frac float64) (DateTime, error) {
	if frac < 0 || frac >= 1 {
		return DateTime{}, ErrInvalidDate
	}
	parts := int64(frac * float64(secsPerDay*dayFractionFactor))
	sod := parts / dayFractionFactor
	attos := parts % dayFractionFactor * 10_000
	return ofAbnormal(cal, std, 1, 1, n+1, 0, 0, sod, attos)
}

// ofAbnormal builds a reading from components that may lie outside their
// normal ranges, rolling each excess into the next larger unit with floor
// semantics. Fields passed by callers are small enough that the rollups
// cannot overflow.
func ofAbnormal(cal Calendar, std Standard, year, month, day, hour, minute, second, attos int64) (DateTime, error) {
	second += floorDiv(attos, attosPerSec)
	attos = floorMod(attos, attosPerSec)
	minute += floorDiv(second, 60)
	second = floorMod(second, 60)
	hour += floorDiv(minute, 60)
	minute = floorMod(minute, 60)
	day += floorDiv(hour, 24)
	hour = floorMod(hour, 24)

	m0 := month - 1
	year += floorDiv(m0, 12)
	m0 = floorMod(m0, 12)

	n := cal.dayNumber(year, (m0+10)%12, day-1)
	y, m, d, err := cal.dateOfDayNumber(n)
	if err != nil {
		return DateTime{}, err
	}
	return DateTime{
		year:   int32(y),
		month:  time.Month(m),
		day:    uint8(d),
		hour:   uint8(hour),
		minute: uint8(minute),
		second: uint8(second),
		attos:  attos,
		cal:    cal,
		std:    std,
	}, nil
}

// Add returns the reading d later than dt on dt's own clock. The arithmetic
// is purely calendrical: under UTC it does not skip over leap seconds. A
// leap second reading rolls over to the following minute first.
func (dt DateTime) Add(d Duration) (DateTime, error) {
	days := d.secs / secsPerDay
	secs := d.secs % secsPerDay
	return ofAbnormal(dt.cal, dt.std,
		int64(dt.year), int64(dt.month), int64(dt.day)+days,
		int64(dt.hour), int64(dt.minute), int64(dt.second)+secs,
		dt.attos+d.attos)
}

// Sub returns the reading d earlier than dt on dt's own clock.
func (dt DateTime) Sub(d Duration) (DateTime, error) {
	nd, err := d.Neg()
	if err != nil {
		return DateTime{}, err
	}
	return dt.Add(nd)
}

// Diff returns the elapsed time from o to dt. Both readings are resolved to
// instants first, so leap seconds between two UTC readings are counted. The
// readings need not share a calendar or standard.
func (dt DateTime) Diff(o DateTime) (Duration, error) {
	return dt.DiffIn(DefaultLeapSecondTable(), o)
}

// DiffIn is Diff with an explicit leap second table.
func (dt DateTime) DiffIn(t *LeapSecondTable, o DateTime) (Duration, error) {
	a, err := dt.InstantIn(t)
	if err != nil {
		return Duration{}, err
	}
	b, err := o.InstantIn(t)
	if err != nil {
		return Duration{}, err
	}
	return a.Diff(b)
}

// Instant returns the instant the reading names, consulting the default leap
// second table for UTC readings. A UTC reading with second 60 that is not a
// tabulated leap second returns ErrNotLeapSecond; UTC readings before
// 1900-01-01 return ErrBeforeLeapSecondEpoch.
func (dt DateTime) Instant() (Instant, error) {
	return dt.InstantIn(DefaultLeapSecondTable())
}

// InstantIn is Instant with an explicit leap second table. The table is only
// consulted for UTC readings.
func (dt DateTime) InstantIn(t *LeapSecondTable) (Instant, error) {
	abs := dt.cal.absoluteDay(dt.DayNumber())
	label := (abs-absDay1900)*secsPerDay + dt.secondOfDay()

	switch dt.std {
	case TT, TCG, TCB:
		d, err := NewDuration(label-taiLabelSync, dt.attos)
		if err != nil {
			return Instant{}, err
		}
		d, err = d.Sub(ttMinusTAI)
		if err != nil {
			return Instant{}, err
		}
		if r := dt.std.rate(); r != nil {
			d = scaleToTT(d, r)
		}
		return Instant{d: d}, nil
	case UTC:
		var tai int64
		if dt.second == 60 {
			// label already names the boundary after the inserted second.
			during, ok := t.insertionAt(label)
			if !ok {
				return Instant{}, ErrNotLeapSecond
			}
			tai = label + during
		} else {
			off, err := t.OffsetAt(label)
			if err != nil {
				return Instant{}, err
			}
			tai = label + off
		}
		d, err := NewDuration(tai-taiLabelSync, dt.attos)
		if err != nil {
			return Instant{}, err
		}
		return Instant{d: d}, nil
	default: // TAI
		d, err := NewDuration(label-taiLabelSync, dt.attos)
		if err != nil {
			return Instant{}, err
		}
		return Instant{d: d}, nil
	}
}

// DateTimeOfInstant returns the reading of instant i under the given
// calendar and standard, consulting the default leap second table for UTC.
func DateTimeOfInstant(i Instant, cal Calendar, std Standard) (DateTime, error) {
	return DateTimeOfInstantIn(i, DefaultLeapSecondTable(), cal, std)
}

// DateTimeOfInstantIn is DateTimeOfInstant with an explicit leap second
// table. A moment inside an inserted leap second reads as second 60 of the
// preceding minute.
func DateTimeOfInstantIn(i Instant, t *LeapSecondTable, cal Calendar, std Standard) (DateTime, error) {
	d := i.d
	var err error
	switch std {
	case TCG, TCB:
		d, err = scaleFromTT(i.d, std.rate())
		if err != nil {
			return DateTime{}, err
		}
		fallthrough
	case TT:
		d, err = d.Add(ttMinusTAI)
		if err != nil {
			return DateTime{}, err
		}
	}

	secs, attos := d.secs, d.attos
	if attos < 0 {
		secs--
		attos += attosPerSec
	}
	label, ok := add64(secs, taiLabelSync)
	if !ok {
		return DateTime{}, ErrOverflow
	}

	sec60 := false
	if std == UTC {
		u, leap, err := t.fromTAI(label)
		if err != nil {
			return DateTime{}, err
		}
		if leap {
			u--
			sec60 = true
		}
		label = u
	}

	days := floorDiv(label, secsPerDay)
	sod := label - days*secsPerDay
	y, m, dd, err := cal.dateOfDayNumber(cal.dayNumberOfAbsolute(days + absDay1900))
	if err != nil {
		return DateTime{}, err
	}
	sec := sod % 60
	if sec60 {
		sec = 60
	}
	return DateTime{
		year:   int32(y),
		month:  time.Month(m),
		day:    uint8(dd),
		hour:   uint8(sod / 3600),
		minute: uint8(sod % 3600 / 60),
		second: uint8(sec),
		attos:  attos,
		cal:    cal,
		std:    std,
	}, nil
}

// Convert re-expresses the reading under another calendar and standard. The
// moment named stays the same; the default leap second table is used where
// UTC is involved on either side.
func (dt DateTime) Convert(cal Calendar, std Standard) (DateTime, error) {
	return dt.ConvertIn(DefaultLeapSecondTable(), cal, std)
}

// ConvertIn is Convert with an explicit leap second table.
func (dt DateTime) ConvertIn(t *LeapSecondTable, cal Calendar, std Standard) (DateTime, error) {
	i, err := dt.InstantIn(t)
	if err != nil {
		return DateTime{}, err
	}
	return DateTimeOfInstantIn(i, t, cal, std)
}

// Compare orders two readings by their displayed fields, date before time.
// The result is only meaningful when both readings share a calendar and a
// standard.
func (dt DateTime) Compare(o DateTime) int {
	cmp := func(a, b int64) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
	if c := cmp(int64(dt.year), int64(o.year)); c != 0 {
		return c
	}
	if c := cmp(int64(dt.month), int64(o.month)); c != 0 {
		return c
	}
	if c := cmp(int64(dt.day), int64(o.day)); c != 0 {
		return c
	}
	if c := cmp(dt.secondOfDay(), o.secondOfDay()); c != 0 {
		return c
	}
	return cmp(dt.attos, o.attos)
}

// String formats the reading canonically, like
// "2000-01-01 12:00:00.000000000000000000 Gregorian TT". [DateTime.Format]
// offers layout-based formatting.
func (dt DateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d.%018d %s %s",
		dt.year, int(dt.month), dt.day, dt.hour, dt.minute, dt.second,
		dt.attos, dt.cal, dt.std)
}
