// Copyright 2024 Axel Wagner.
// All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package astrotime

import (
	"testing"
	"time"
)

func TestJulianDayParts(t *testing.T) {
	t.Parallel()
	tcs := []struct {
		epoch Epoch
		day   int64
		frac  float64
	}{
		{GregorianCalendar, 1721425, 0.5},
		{JulianCalendar, 1721423, 0.5},
		{JulianPeriod, 0, 0},
		{J1900, 2415020, 0},
		{J1991_25, 2448349, 0.0625},
		{J2000, 2451545, 0},
		{J2100, 2488070, 0},
		{J2200, 2524595, 0},
	}
	for _, tc := range tcs {
		i, err := InstantOfJulianDayParts(tc.day, tc.frac)
		if err != nil {
			t.Errorf("InstantOfJulianDayParts(%d, %v) failed: %v", tc.day, tc.frac, err)
			continue
		}
		if want := tc.epoch.Instant(); i != want {
			t.Errorf("InstantOfJulianDayParts(%d, %v) = %v, want %v epoch %v", tc.day, tc.frac, i.AsDuration(), want.AsDuration(), tc.epoch)
		}
		day, frac := i.JulianDayParts()
		if day != tc.day || frac != tc.frac {
			t.Errorf("%v.JulianDayParts() = (%d, %v), want (%d, %v)", tc.epoch, day, frac, tc.day, tc.frac)
		}
	}
}

func TestJulianDayPrecise(t *testing.T) {
	t.Parallel()
	tcs := []struct {
		epoch             Epoch
		day, second, atto int64
	}{
		{Unix, 2440587, 43200 + 41, 184_000_000_000_000_000},
		{Y2K, 2451544, 43200 + 64, 184_000_000_000_000_000},
		{TimeStandard, 2443144, 43200 + 32, 184_000_000_000_000_000},
		{J2000, 2451545, 0, 0},
		{GregorianCalendar, 1721425, 43200, 0},
		{JulianCalendar, 1721423, 43200, 0},
		{J1991_25, 2448349, 5400, 0},
		{J1900, 2415020, 0, 0},
	}
	for _, tc := range tcs {
		i, err := InstantOfJulianDayPrecise(tc.day, tc.second, tc.atto)
		if err != nil {
			t.Errorf("InstantOfJulianDayPrecise(%d, %d, %d) failed: %v", tc.day, tc.second, tc.atto, err)
			continue
		}
		if want := tc.epoch.Instant(); i != want {
			t.Errorf("InstantOfJulianDayPrecise(%d, %d, %d) = %v, want %v epoch %v", tc.day, tc.second, tc.atto, i.AsDuration(), want.AsDuration(), tc.epoch)
		}
		day, second, atto := i.JulianDayPrecise()
		if day != tc.day || second != tc.second || atto != tc.atto {
			t.Errorf("%v.JulianDayPrecise() = (%d, %d, %d), want (%d, %d, %d)", tc.epoch, day, second, atto, tc.day, tc.second, tc.atto)
		}
	}
}

func TestJulianDayPreciseErrors(t *testing.T) {
	t.Parallel()
	tcs := []struct {
		day, second, atto int64
	}{
		{0, -1, 0},
		{0, 86400, 0},
		{0, 0, -1},
		{0, 0, attosPerSec},
		{1 << 62, 0, 0},
	}
	for _, tc := range tcs {
		if _, err := InstantOfJulianDayPrecise(tc.day, tc.second, tc.atto); err == nil {
			t.Errorf("InstantOfJulianDayPrecise(%d, %d, %d) did not fail", tc.day, tc.second, tc.atto)
		}
	}
	if _, err := InstantOfJulianDayParts(0, 1.5); err == nil {
		t.Errorf("InstantOfJulianDayParts with fraction 1.5 did not fail")
	}
}

func TestJulianDayString(t *testing.T) {
	t.Parallel()
	tcs := []struct {
		epoch Epoch
		want  string
	}{
		{GregorianCalendar, "JD 1721425.5"},
		{JulianCalendar, "JD 1721423.5"},
		{JulianPeriod, "JD 0"},
		{J1900, "JD 2415020"},
		{J1991_25, "JD 2448349.0625"},
		{J2000, "JD 2451545"},
		{J2100, "JD 2488070"},
		{J2200, "JD 2524595"},
	}
	for _, tc := range tcs {
		if got := tc.epoch.Instant().JulianDayString(); got != tc.want {
			t.Errorf("%v.JulianDayString() = %q, want %q", tc.epoch, got, tc.want)
		}
	}

	// Negative fractional days: the day component of JDs in (-1, 0) is zero
	// and the minus sign has to come from the fraction.
	neg := []struct {
		back Duration
		want string
	}{
		{Duration{secs: 43200}, "JD -0.5"},
		{Duration{secs: 86400 + 43200}, "JD -1.5"},
	}
	for _, tc := range neg {
		i, err := JulianPeriod.Instant().Sub(tc.back)
		if err != nil {
			t.Fatalf("Sub failed: %v", err)
		}
		if got := i.JulianDayString(); got != tc.want {
			t.Errorf("JulianDayString() %v before JD 0 = %q, want %q", tc.back, got, tc.want)
		}
	}
}

func TestInstantMath(t *testing.T) {
	t.Parallel()
	a := J2000.Instant()
	d := Duration{86400, 500}
	b, err := a.Add(d)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if !b.After(a) || a.After(b) || !a.Before(b) {
		t.Errorf("ordering of %v and %v is inconsistent", a.AsDuration(), b.AsDuration())
	}
	diff, err := b.Diff(a)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if diff != d {
		t.Errorf("Diff = %v, want %v", diff, d)
	}
	back, err := b.Sub(d)
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	if !back.Equal(a) || back.Cmp(a) != 0 {
		t.Errorf("Sub did not undo Add: %v != %v", back.AsDuration(), a.AsDuration())
	}
}

func TestFromTime(t *testing.T) {
	t.Parallel()
	tcs := []struct {
		t    time.Time
		want Instant
	}{
		{time.Unix(0, 0), Unix.Instant()},
		{time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), Y2K.Instant()},
	}
	for _, tc := range tcs {
		got, err := FromTime(tc.t)
		if err != nil {
			t.Errorf("FromTime(%v) failed: %v", tc.t, err)
			continue
		}
		if got != tc.want {
			t.Errorf("FromTime(%v) = %v, want %v", tc.t, got.AsDuration(), tc.want.AsDuration())
		}
	}

	if _, err := FromTime(time.Date(1899, 12, 31, 23, 59, 59, 0, time.UTC)); err != ErrBeforeLeapSecondEpoch {
		t.Errorf("FromTime before 1900 error = %v, want ErrBeforeLeapSecondEpoch", err)
	}
}

func TestTimeRoundTrip(t *testing.T) {
	t.Parallel()
	tcs := []time.Time{
		time.Unix(0, 0).UTC(),
		time.Date(1972, 6, 30, 23, 59, 59, 0, time.UTC),
		time.Date(1993, 6, 30, 12, 34, 56, 789_000_000, time.UTC),
		time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 6, 0, 0, 1, time.UTC),
	}
	for _, tc := range tcs {
		i, err := FromTime(tc)
		if err != nil {
			t.Errorf("FromTime(%v) failed: %v", tc, err)
			continue
		}
		back, err := i.Time()
		if err != nil {
			t.Errorf("Time() of %v failed: %v", tc, err)
			continue
		}
		if !back.Equal(tc) {
			t.Errorf("Time(FromTime(%v)) = %v", tc, back)
		}
	}
}

// TestTimeLeapSecondFold checks that a moment inside an inserted leap second
// folds onto the repeated Unix second.
func TestTimeLeapSecondFold(t *testing.T) {
	t.Parallel()
	// 1993-06-30 23:59:60.25 UTC
	dt, err := NewDateTime(Gregorian, UTC, 1993, time.June, 30, 23, 59, 60, 250_000_000_000_000_000)
	if err != nil {
		t.Fatalf("NewDateTime failed: %v", err)
	}
	i, err := dt.Instant()
	if err != nil {
		t.Fatalf("Instant failed: %v", err)
	}
	got, err := i.Time()
	if err != nil {
		t.Fatalf("Time failed: %v", err)
	}
	want := time.Date(1993, 6, 30, 23, 59, 59, 250_000_000, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Time() = %v, want %v", got, want)
	}
}
