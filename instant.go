// Copyright 2024 Axel Wagner.
// All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package astrotime

import (
	"math/big"
	"strconv"
	"strings"
	"time"
)

// Label second bookkeeping shared by the instant and date-time conversions.
// Label seconds count from 1900-01-01 00:00:00 of the standard's own reading
// on the Gregorian calendar.
const (
	// Absolute day of 1900-01-01 Gregorian.
	absDay1900 = 693_595
	// TAI label second at which TT, TCG and TCB read alike:
	// 1977-01-01 00:00:00 TAI. Instants count from there.
	taiLabelSync = 2_429_913_600
	// UTC label second of the Unix epoch, 1970-01-01 00:00:00 UTC.
	unixLabel = 2_208_988_800
	secsPerDay = 86_400
)

// ttMinusTAI is the constant reading difference TT-TAI.
var ttMinusTAI = Duration{secs: 32, attos: 184_000_000_000_000_000}

// An Instant is an absolute moment on a continuous timeline, stored with
// attosecond resolution as an offset from 1977-01-01 00:00:32.184 TT, the
// moment at which TT, TCG and TCB read alike. The zero value is that moment.
//
// Instants order totally and carry no calendar or standard; use [DateTime]
// to render one.
type Instant struct {
	d Duration
}

// InstantOfDuration returns the instant lying d away from the zero instant.
func InstantOfDuration(d Duration) Instant { return Instant{d: d} }

// AsDuration returns the offset of i from the zero instant.
func (i Instant) AsDuration() Duration { return i.d }

// Add returns the instant d later than i.
func (i Instant) Add(d Duration) (Instant, error) {
	r, err := i.d.Add(d)
	if err != nil {
		return Instant{}, err
	}
	return Instant{d: r}, nil
}

// Sub returns the instant d earlier than i.
func (i Instant) Sub(d Duration) (Instant, error) {
	r, err := i.d.Sub(d)
	if err != nil {
		return Instant{}, err
	}
	return Instant{d: r}, nil
}

// Diff returns the duration from o to i, so that o.Add(d) == i.
func (i Instant) Diff(o Instant) (Duration, error) {
	return i.d.Sub(o.d)
}

// Cmp compares i and o, returning -1 if i is earlier, 0 if they are equal
// and +1 if i is later.
func (i Instant) Cmp(o Instant) int { return i.d.Cmp(o.d) }

// Before reports whether i is earlier than o.
func (i Instant) Before(o Instant) bool { return i.Cmp(o) < 0 }

// After reports whether i is later than o.
func (i Instant) After(o Instant) bool { return i.Cmp(o) > 0 }

// Equal reports whether i and o are the same moment.
func (i Instant) Equal(o Instant) bool { return i == o }

// julianPeriodOffset is the offset of the zero instant from JD 0, the start
// of the Julian Period (-4712-01-01 12:00:00 TT, Julian calendar).
var julianPeriodOffset = Duration{secs: -211_087_684_832, attos: -184_000_000_000_000_000}

// InstantOfJulianDay returns the instant of a Julian Day given as a float.
// A float64 cannot carry a modern Julian Day to better than microseconds;
// use InstantOfJulianDayPrecise when that matters.
func InstantOfJulianDay(jd float64) (Instant, error) {
	fsecs := jd * secsPerDay
	secs := int64(fsecs)
	attos := int64((fsecs - float64(secs)) * attosPerSec)
	d, err := NewDuration(secs, attos)
	if err != nil {
		return Instant{}, err
	}
	d, err = d.Add(julianPeriodOffset)
	if err != nil {
		return Instant{}, err
	}
	return Instant{d: d}, nil
}

// InstantOfJulianDayParts returns the instant of the Julian Day split into a
// whole day number and a day fraction in [0, 1).
func InstantOfJulianDayParts(day int64, frac float64) (Instant, error) {
	if frac < 0 || frac >= 1 {
		return Instant{}, ErrOverflow
	}
	fsecs := frac * secsPerDay
	secs := int64(fsecs)
	attos := int64((fsecs - float64(secs)) * attosPerSec)
	if day > (1<<63-1)/secsPerDay || day < -(1<<63-1)/secsPerDay {
		return Instant{}, ErrOverflow
	}
	ds, ok := add64(day*secsPerDay, secs)
	if !ok {
		return Instant{}, ErrOverflow
	}
	d, err := NewDuration(ds, attos)
	if err != nil {
		return Instant{}, err
	}
	d, err = d.Add(julianPeriodOffset)
	if err != nil {
		return Instant{}, err
	}
	return Instant{d: d}, nil
}

// InstantOfJulianDayPrecise returns the instant of the Julian Day split into
// a whole day number, a second of day in [0, 86400) and an attosecond in
// [0, 10^18).
func InstantOfJulianDayPrecise(day, second, attosecond int64) (Instant, error) {
	if second < 0 || second >= secsPerDay {
		return Instant{}, ErrOverflow
	}
	if attosecond < 0 || attosecond >= attosPerSec {
		return Instant{}, ErrOverflow
	}
	if day > (1<<63-1)/secsPerDay || day < -(1<<63-1)/secsPerDay {
		return Instant{}, ErrOverflow
	}
	ds, ok := add64(day*secsPerDay, second)
	if !ok {
		return Instant{}, ErrOverflow
	}
	d, err := NewDuration(ds, attosecond)
	if err != nil {
		return Instant{}, err
	}
	d, err = d.Add(julianPeriodOffset)
	if err != nil {
		return Instant{}, err
	}
	return Instant{d: d}, nil
}

var bigAttosPerDay = new(big.Int).Mul(big.NewInt(secsPerDay), bigAttosPerSec)

// JulianDayPrecise returns the Julian Day of i as a whole day number, a
// second of day and an attosecond. The components are truncated toward
// JD 0, so they are all non-negative for moments after it. The split uses
// big arithmetic to stay exact at the extreme ends of the instant range.
func (i Instant) JulianDayPrecise() (day, second, attosecond int64) {
	a := bigAttos(i.d)
	a.Sub(a, bigAttos(julianPeriodOffset))
	var daysec, rem big.Int
	daysec.QuoRem(a, bigAttosPerDay, &rem)
	var secs, attos big.Int
	secs.QuoRem(&rem, bigAttosPerSec, &attos)
	return daysec.Int64(), secs.Int64(), attos.Int64()
}

// JulianDayParts returns the Julian Day of i as a whole day number and a day
// fraction.
func (i Instant) JulianDayParts() (day int64, frac float64) {
	d, s, a := i.JulianDayPrecise()
	return d, (float64(s) + float64(a)/attosPerSec) / secsPerDay
}

// JulianDay returns the Julian Day of i as a float, with the precision loss
// that implies.
func (i Instant) JulianDay() float64 {
	d, f := i.JulianDayParts()
	return float64(d) + f
}

// JulianDayString formats i as a Julian Day, like "JD 2451545" or
// "JD 1721425.5". The fraction is shown at float64 precision.
func (i Instant) JulianDayString() string {
	day, frac := i.JulianDayParts()
	s := strconv.FormatInt(day, 10)
	if day == 0 && frac < 0 {
		// The day is 0 and carries no sign of its own.
		s = "-" + s
	}
	s = "JD " + s
	if frac != 0 {
		f := strconv.FormatFloat(frac, 'f', -1, 64)
		// The truncated split gives day and fraction matching signs; the
		// day carries the sign for both.
		f = strings.TrimPrefix(f, "-")
		s += strings.TrimPrefix(f, "0")
	}
	return s
}

// FromTime converts a time.Time to an Instant, adding back the leap seconds
// that the Unix timeline pretends never happened. The default leap second
// table is consulted. Moments before 1900-01-01 UTC return
// ErrBeforeLeapSecondEpoch.
func FromTime(t time.Time) (Instant, error) {
	label, ok := add64(t.Unix(), unixLabel)
	if !ok {
		return Instant{}, ErrOverflow
	}
	off, err := DefaultLeapSecondTable().OffsetAt(label)
	if err != nil {
		return Instant{}, err
	}
	d, err := NewDuration(label+off-taiLabelSync, int64(t.Nanosecond())*1e9)
	if err != nil {
		return Instant{}, err
	}
	return Instant{d: d}, nil
}

// Time converts i to a time.Time, truncating below nanosecond resolution.
// A moment inside an inserted leap second folds onto the repeated Unix
// second 23:59:59, the way Unix clocks replay it.
func (i Instant) Time() (time.Time, error) {
	secs, attos := i.d.secs, i.d.attos
	if attos < 0 {
		secs--
		attos += attosPerSec
	}
	tai, ok := add64(secs, taiLabelSync)
	if !ok {
		return time.Time{}, ErrOverflow
	}
	label, leap, err := DefaultLeapSecondTable().fromTAI(tai)
	if err != nil {
		return time.Time{}, err
	}
	if leap {
		label--
	}
	return time.Unix(label-unixLabel, attos/1e9).UTC(), nil
}
