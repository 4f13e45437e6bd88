// Copyright 2024 Axel Wagner.
// All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package astrotime provides time handling at attosecond resolution across
// the time standards used in astronomy.
//
// The standard library time package serves civil timekeeping well, but it has
// shortcomings once sub-nanosecond precision or non-UTC time standards enter
// the picture:
//
//   - A time.Time resolves to nanoseconds. Precision timing work (pulsar
//     timing, satellite clocks, relativistic corrections) needs finer grain.
//   - time.Time silently paves over leap seconds, so durations measured
//     across one are wrong by a second.
//   - There is no notion of TAI, TT, TCG or TCB, the continuous standards
//     that precision work is actually carried out in.
//
// This package provides a [Duration] with attosecond (10^-18 s) resolution,
// an opaque [Instant] on a continuous timeline, and a [DateTime] tagged with
// a [Calendar] and a time [Standard]. Conversions between standards are
// exact: UTC conversions consult a leap second table, and the TCG/TCB rate
// factors are applied with exact rational arithmetic rather than floating
// point.
//
// The types are plain immutable values and safe for concurrent use.
package astrotime

import (
	"math"
	"math/big"
	"time"
)

// attosPerSec is the number of attoseconds in one second.
const attosPerSec = 1_000_000_000_000_000_000

// A Duration represents a span of time as a count of seconds and attoseconds.
// It covers about ±292 billion years at attosecond resolution.
//
// The two components always carry the same sign: -1.5 seconds is stored as
// -1 second and -5*10^17 attoseconds. The zero value is a zero-length span.
type Duration struct {
	secs  int64
	attos int64
}

// NewDuration returns the Duration of secs seconds plus attos attoseconds.
// The two arguments may have different signs and attos may exceed a second's
// worth; the result is normalized.
func NewDuration(secs, attos int64) (Duration, error) {
	d := Duration{secs: secs, attos: attos}
	if !d.normalize() {
		return Duration{}, ErrOverflow
	}
	return d, nil
}

// FromStd converts a time.Duration. The conversion is exact.
func FromStd(d time.Duration) Duration {
	ns := int64(d)
	return Duration{secs: ns / 1e9, attos: ns % 1e9 * 1e9}
}

// normalize carries whole seconds out of the attosecond component and makes
// the signs of both components agree. It reports whether the seconds
// component stayed in range.
func (d *Duration) normalize() bool {
	carry := d.attos / attosPerSec
	d.attos -= carry * attosPerSec
	var ok bool
	d.secs, ok = add64(d.secs, carry)
	if d.secs > 0 && d.attos < 0 {
		d.secs--
		d.attos += attosPerSec
	} else if d.secs < 0 && d.attos > 0 {
		d.secs++
		d.attos -= attosPerSec
	}
	return ok
}

// add64 returns a+b, reporting whether the sum stayed in range.
func add64(a, b int64) (int64, bool) {
	s := a + b
	if (a > 0 && b > 0 && s < 0) || (a < 0 && b < 0 && s >= 0) {
		return s, false
	}
	return s, true
}

// Seconds returns the whole seconds component of d.
func (d Duration) Seconds() int64 { return d.secs }

// Attoseconds returns the sub-second component of d, in attoseconds. Its
// sign matches the sign of the whole duration.
func (d Duration) Attoseconds() int64 { return d.attos }

// AsAttoseconds returns the entire duration as a count of attoseconds.
// Durations longer than about ±9.2 seconds do not fit and return
// ErrOverflow.
func (d Duration) AsAttoseconds() (int64, error) {
	a := bigAttos(d)
	if !a.IsInt64() {
		return 0, ErrOverflow
	}
	return a.Int64(), nil
}

// Std converts d to a time.Duration, truncating toward zero below nanosecond
// resolution. Durations beyond the ±292 year range of time.Duration return
// ErrOverflow.
func (d Duration) Std() (time.Duration, error) {
	if d.secs > math.MaxInt64/int64(1e9) || d.secs < math.MinInt64/int64(1e9) {
		return 0, ErrOverflow
	}
	ns, ok := add64(d.secs*1e9, d.attos/1e9)
	if !ok {
		return 0, ErrOverflow
	}
	return time.Duration(ns), nil
}

// Add returns the duration d+o.
func (d Duration) Add(o Duration) (Duration, error) {
	s, ok := add64(d.secs, o.secs)
	if !ok {
		return Duration{}, ErrOverflow
	}
	r := Duration{secs: s, attos: d.attos + o.attos}
	if !r.normalize() {
		return Duration{}, ErrOverflow
	}
	return r, nil
}

// Sub returns the duration d-o.
func (d Duration) Sub(o Duration) (Duration, error) {
	s := d.secs - o.secs
	if (d.secs >= 0 && o.secs < 0 && s < 0) || (d.secs < 0 && o.secs > 0 && s >= 0) {
		return Duration{}, ErrOverflow
	}
	r := Duration{secs: s, attos: d.attos - o.attos}
	if !r.normalize() {
		return Duration{}, ErrOverflow
	}
	return r, nil
}

// Neg returns the duration -d.
func (d Duration) Neg() (Duration, error) {
	if d.secs == math.MinInt64 {
		return Duration{}, ErrOverflow
	}
	return Duration{secs: -d.secs, attos: -d.attos}, nil
}

// MulInt returns the duration d*n.
func (d Duration) MulInt(n int64) (Duration, error) {
	a := bigAttos(d)
	a.Mul(a, big.NewInt(n))
	return durationOfBigAttos(a)
}

// Cmp compares d and o, returning -1 if d is shorter, 0 if they are equal
// and +1 if d is longer.
func (d Duration) Cmp(o Duration) int {
	switch {
	case d.secs < o.secs:
		return -1
	case d.secs > o.secs:
		return 1
	case d.attos < o.attos:
		return -1
	case d.attos > o.attos:
		return 1
	}
	return 0
}

// Sign returns -1, 0 or +1 depending on whether d is negative, zero or
// positive.
func (d Duration) Sign() int {
	switch {
	case d.secs < 0 || d.attos < 0:
		return -1
	case d.secs > 0 || d.attos > 0:
		return 1
	}
	return 0
}

// IsZero reports whether d is the zero-length duration.
func (d Duration) IsZero() bool { return d.secs == 0 && d.attos == 0 }

// bigAttos returns the entire duration as attoseconds in a big.Int.
func bigAttos(d Duration) *big.Int {
	a := big.NewInt(d.secs)
	a.Mul(a, bigAttosPerSec)
	return a.Add(a, big.NewInt(d.attos))
}

// durationOfBigAttos converts a count of attoseconds back into a Duration.
func durationOfBigAttos(a *big.Int) (Duration, error) {
	var q, r big.Int
	q.QuoRem(a, bigAttosPerSec, &r)
	if !q.IsInt64() {
		return Duration{}, ErrOverflow
	}
	return Duration{secs: q.Int64(), attos: r.Int64()}, nil
}

var bigAttosPerSec = big.NewInt(attosPerSec)
