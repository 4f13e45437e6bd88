// Copyright 2024 Axel Wagner.
// All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package astrotime

import (
	"strings"
	"testing"
	"time"

	"gonih.org/set"
)

var layouts = []string{
	Layout,
	RFC3339,
	DateOnly,
	TimeOnly,
}

// mustDateTime builds a reading for tests, failing the test on invalid input.
func mustDateTime(t testing.TB, year int, month time.Month, day, hour, minute, second int, attos int64) DateTime {
	t.Helper()
	dt, err := NewDateTime(Gregorian, TT, year, month, day, hour, minute, second, attos)
	if err != nil {
		t.Fatalf("NewDateTime(%d, %v, %d, %d, %d, %d, %d) failed: %v", year, month, day, hour, minute, second, attos, err)
	}
	return dt
}

// FuzzParseLayout generates layouts to check that [parseLayout] does not
// panic.
func FuzzParseLayout(f *testing.F) {
	f.Add(time.Layout)
	f.Add(time.ANSIC)
	f.Add(time.UnixDate)
	f.Add(time.RubyDate)
	f.Add(time.RFC822)
	f.Add(time.RFC850)
	f.Add(time.RFC1123)
	f.Add(time.RFC3339)
	f.Add(time.RFC3339Nano)
	f.Add(time.Kitchen)
	f.Add(time.Stamp)
	f.Add(time.StampMilli)
	f.Add(time.StampMicro)
	f.Add(time.StampNano)
	f.Add(time.DateTime)
	f.Add(time.DateOnly)
	f.Add(time.TimeOnly)
	for _, l := range layouts {
		f.Add(l)
	}
	f.Fuzz(func(t *testing.T, s string) {
		parseLayout(s)
	})
}

// FuzzFormat generates layouts and readings to check that [DateTime.Format]
// does not panic.
func FuzzFormat(f *testing.F) {
	for _, l := range layouts {
		f.Add(l, int64(730119), int64(0))
	}
	f.Add(time.RFC3339Nano, int64(-307), int64(86399))
	f.Add(time.StampNano, int64(0), int64(43200))
	f.Fuzz(func(t *testing.T, layout string, days, sod int64) {
		if days < minGregorianDay || days > maxGregorianDay || sod < 0 || sod >= secsPerDay {
			return
		}
		y, m, d, err := Gregorian.DateOfDayNumber(days)
		if err != nil {
			t.Fatalf("DateOfDayNumber(%d) failed: %v", days, err)
		}
		dt, err := NewDateTime(Gregorian, TT, y, m, d, int(sod/3600), int(sod%3600/60), int(sod%60), 0)
		if err != nil {
			t.Fatalf("NewDateTime failed: %v", err)
		}
		dt.Format(layout)
	})
}

// FuzzFormatCompat generates layouts and values to compare the formatting of
// [time] to our implementation.
//
// As [time] supports more format specifiers, which would create expected
// deviations in behavior, the fuzzing target uses a binary representation for
// layouts which can more easily be filtered for such layout strings.
func FuzzFormatCompat(f *testing.F) {
	f.Fuzz(func(t *testing.T, progBytes []byte, days, sod int64) {
		layout, ok := decodeProg(progBytes)
		if !ok {
			return
		}
		// Stay within four-digit years, where the year formats agree.
		if days < 0 || days >= 3_000_000 || sod < 0 || sod >= secsPerDay {
			return
		}
		y, m, d, err := Gregorian.DateOfDayNumber(days)
		if err != nil {
			t.Fatalf("DateOfDayNumber(%d) failed: %v", days, err)
		}
		hour, minute, second := int(sod/3600), int(sod%3600/60), int(sod%60)
		dt, err := NewDateTime(Gregorian, TT, y, m, d, hour, minute, second, 0)
		if err != nil {
			t.Fatalf("NewDateTime failed: %v", err)
		}
		got := dt.Format(layout)
		want := time.Date(y, m, d, hour, minute, second, 0, time.UTC).Format(layout)
		if got != want {
			t.Fatalf("%v.Format(%q) returned different string from (time.Time).Format: got %q, want %q", dt, layout, got, want)
		}
	})
}

// TestFormat checks that formatting works as expected.
func TestFormat(t *testing.T) {
	t.Parallel()
	ref := mustDateTime(t, 2006, time.January, 2, 15, 4, 5, 0)
	tcs := []struct {
		dt     DateTime
		layout string
		want   string
	}{
		{ref, Layout, Layout},
		{ref, RFC3339, RFC3339},
		{ref, DateOnly, DateOnly},
		{ref, TimeOnly, TimeOnly},
		{mustDateTime(t, 2023, time.October, 25, 0, 0, 0, 0), DateOnly, "2023-10-25"},
		{mustDateTime(t, 2023, time.October, 25, 0, 0, 0, 0), "_2006-01-02", "_2023-10-25"},
		{mustDateTime(t, -2023, time.October, 25, 0, 0, 0, 0), DateOnly, "-2023-10-25"},
		{mustDateTime(t, -2003, time.October, 25, 0, 0, 0, 0), "06", "03"},
		{mustDateTime(t, 2023, time.October, 25, 0, 0, 0, 0), "January 2", "October 25"},
		{mustDateTime(t, 2023, time.October, 25, 0, 0, 0, 0), "Monday", "Wednesday"},
		{mustDateTime(t, 2023, time.October, 25, 0, 0, 0, 0), "__2", "298"},
		{mustDateTime(t, 2023, time.March, 2, 0, 0, 0, 0), "__2", " 61"},
		{mustDateTime(t, 2023, time.January, 9, 0, 0, 0, 0), "__2", "  9"},
		{mustDateTime(t, 2023, time.October, 25, 0, 0, 0, 0), "002", "298"},
		{mustDateTime(t, 2023, time.March, 2, 0, 0, 0, 0), "002", "061"},
		{mustDateTime(t, 2023, time.January, 9, 0, 0, 0, 0), "002", "009"},
		{mustDateTime(t, 2, time.January, 1, 0, 0, 0, 0), "2006", "0002"},
		{mustDateTime(t, 23, time.January, 1, 0, 0, 0, 0), "2006", "0023"},
		{mustDateTime(t, 420, time.January, 1, 0, 0, 0, 0), "2006", "0420"},
		{mustDateTime(t, 2023, time.October, 25, 9, 5, 7, 0), "15:4:5", "09:5:7"},
		{mustDateTime(t, 2023, time.October, 25, 9, 5, 7, 0), TimeOnly, "09:05:07"},
		{mustDateTime(t, 2023, time.October, 25, 0, 0, 7, 123_456_789_000_000_000), "05.000", "07.123"},
		{mustDateTime(t, 2023, time.October, 25, 0, 0, 7, 123_456_789_000_000_000), "05.000000000000000000", "07.123456789000000000"},
		{mustDateTime(t, 2023, time.October, 25, 0, 0, 7, 123_456_789_000_000_000), "05.999999999999999999", "07.123456789"},
		{mustDateTime(t, 2023, time.October, 25, 0, 0, 7, 0), "05.9", "07"},
		{mustDateTime(t, 2023, time.October, 25, 0, 0, 7, 500_000_000_000_000_000), "05,9", "07,5"},
	}
	for _, tc := range tcs {
		if got := tc.dt.Format(tc.layout); got != tc.want {
			t.Errorf("(%v).Format(%q) = %q, want %q", tc.dt, tc.layout, got, tc.want)
		}
	}
}

// FuzzParse generates layouts and values to check that Parse does not panic.
func FuzzParse(f *testing.F) {
	f.Add(DateOnly, "2023-10-25")
	f.Add(Layout, Layout)
	f.Fuzz(func(t *testing.T, layout, value string) {
		Parse(layout, value, Gregorian, UTC)
	})
}

// FuzzParseCompat generates layouts and values to compare the parsing of
// [time] to our implementation.
//
// As [time] supports more format specifiers, which would create expected
// deviations in behavior, the fuzzing target uses a binary representation for
// layouts which can more easily be filtered for such layout strings.
func FuzzParseCompat(f *testing.F) {
	f.Fuzz(func(t *testing.T, progBytes []byte, value string) {
		layout, ok := decodeProg(progBytes)
		if !ok {
			return
		}
		dt, errD := Parse(layout, value, Gregorian, TT)
		T, errT := time.Parse(layout, value)
		if (errD == nil) != (errT == nil) {
			t.Fatalf("Parse(%q, %q) returned different error from time.Parse: got %v, want %v", layout, value, errD, errT)
		}
		if errD != nil {
			return
		}
		y, m, d := T.Date()
		hour, minute, second := T.Clock()
		want, err := NewDateTime(Gregorian, TT, y, m, d, hour, minute, second, 0)
		if err != nil {
			t.Fatalf("NewDateTime of time.Parse result failed: %v", err)
		}
		if dt != want {
			t.Fatalf("Parse(%q, %q) returned different reading than time.Parse: got %v, want %v", layout, value, dt, want)
		}
	})
}

func TestParse(t *testing.T) {
	t.Parallel()
	of := func(year int, month time.Month, day int) DateTime {
		return mustDateTime(t, year, month, day, 0, 0, 0, 0)
	}
	bad := DateTime{}
	tcs := []struct {
		layout string
		value  string
		want   DateTime
	}{
		{RFC3339, RFC3339, mustDateTime(t, 2006, time.January, 2, 15, 4, 5, 0)},
		{DateOnly, "2023-10-31", of(2023, time.October, 31)},
		{DateOnly, "2023 10 31", bad},
		{"", "", of(0, time.January, 1)},
		{"06", "1", bad},
		{"06", "foo", bad},
		{"06", "69", of(1969, time.January, 1)},
		{"06", "23", of(2023, time.January, 1)},
		{"2006", "1", bad},
		{"2006", "foobar", bad},
		{"Jan", "F", bad},
		{"Jan", "foo", bad},
		{"Jan", "Feb", of(0, time.February, 1)},
		{"Jan", "fEb", of(0, time.February, 1)},
		{"January", "Feb", bad},
		{"January", "Aviary", bad},
		{"January", "February", of(0, time.February, 1)},
		{"January", "FeBrUaRy", of(0, time.February, 1)},
		{"1", "", bad},
		{"1", "x", bad},
		{"1", "2", of(0, time.February, 1)},
		{"1", "12", of(0, time.December, 1)},
		{"1", "02", of(0, time.February, 1)},
		{"1", "13", bad},
		{"1", "0", bad},
		{"01", "x", bad},
		{"01", "xx", bad},
		{"01", "2", bad},
		{"01", "12", of(0, time.December, 1)},
		{"01", "02", of(0, time.February, 1)},
		{"Mon", "T", bad},
		{"Mon", "foo", bad},
		{"Mon", "Tue", of(0, time.January, 1)}, // Weekday names are ignored except for parsing
		{"Mon", "TuE", of(0, time.January, 1)},
		{"Monday", "T", bad},
		{"Monday", "foobar", bad},
		{"Monday", "Tuesday", of(0, time.January, 1)},
		{"Monday", "TuEsDaY", of(0, time.January, 1)},
		{"2", "", bad},
		{"2", "x", bad},
		{"2", "3", of(0, time.January, 3)},
		{"2", "03", of(0, time.January, 3)},
		{"2", "31", of(0, time.January, 31)},
		{"2", "32", bad},
		{"2", "0", bad},
		{"02", "x", bad},
		{"02", "xx", bad},
		{"02", "3", bad},
		{"02", "03", of(0, time.January, 3)},
		{"02", "31", of(0, time.January, 31)},
		{"02", "32", bad},
		{"_2", "x", bad},
		{"_2", "xx", bad},
		{"_2", "3", of(0, time.January, 3)},
		{"_2", " 3", of(0, time.January, 3)},
		{"_2", "  3", bad},
		{"_2", "03", of(0, time.January, 3)},
		{"_2", "31", of(0, time.January, 31)},
		{"_2", "32", bad},
		{"002", "x", bad},
		{"002", "xx", bad},
		{"002", "3", bad},
		{"002", "03", bad},
		{"002", "003", of(0, time.January, 3)},
		{"002", "050", of(0, time.February, 19)},
		{"002", "298", of(0, time.October, 24)},
		{"__2", "x", bad},
		{"__2", "xx", bad},
		{"__2", "3", of(0, time.January, 3)},
		{"__2", " 3", of(0, time.January, 3)},
		{"__2", "  3", of(0, time.January, 3)},
		{"__2", "   3", bad},
		{"__2", "03", of(0, time.January, 3)},
		{"__2", " 03", of(0, time.January, 3)},
		{"__2", "  03", of(0, time.January, 3)},  // consistent with time.Parse
		{"__2", "  003", of(0, time.January, 3)}, // consistent with time.Parse
		{"__2", "   03", bad},
		{"__2", "003", of(0, time.January, 3)},
		{"__2", "050", of(0, time.February, 19)},
		{"__2", "298", of(0, time.October, 24)},
		{DateOnly, DateOnly + "foo", bad},
		{"2006-01-02 002", "2023-10-25 100", bad},
		{"2006-01-02 002", "2023-10-25 300", bad},
		{"2006-01-02 002", "2023-10-25 298", of(2023, time.October, 25)},
		{"2006-01-02 002", "2024-10-25 299", of(2024, time.October, 25)},
		{"002", "0", bad},
		{"2006 __2", "2023 366", bad},
		{"2006 __2", "2024 366", of(2024, time.December, 31)},
		{"2006 __2", "2023 60", of(2023, time.March, 1)},
		{"2006 __2", "2024 60", of(2024, time.February, 29)},
		{"   2006", " 2023", of(2023, time.January, 1)},
		{"15:04:05", "12:34:56", mustDateTime(t, 0, time.January, 1, 12, 34, 56, 0)},
		{"15:04:05", "24:00:00", bad},
		{"15:04:05", "12:60:00", bad},
		{"15:04:05", "12:00:61", bad},
		{"15:04:05", "12:00:60", bad}, // second 60 needs UTC
	}
	for _, tc := range tcs {
		got, err := Parse(tc.layout, tc.value, Gregorian, TT)
		gotT, errT := time.Parse(tc.layout, tc.value)
		if (err == nil) != (errT == nil) {
			t.Errorf("Parse(%q, %q) returned different error from time.Parse: got %v, want %v", tc.layout, tc.value, err, errT)
		}
		if err != nil {
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q, %q) = %v, want %v", tc.layout, tc.value, got, tc.want)
		}
		ty, tm, td := gotT.Date()
		th, tmin, ts := gotT.Clock()
		if want := mustDateTime(t, ty, tm, td, th, tmin, ts, 0); got != want {
			t.Errorf("Parse(%q, %q) returned different reading than time.Parse: got %v, want %v", tc.layout, tc.value, got, want)
		}
	}
}

// TestParseFrac checks fraction-of-second parsing, which goes beyond the
// nine digits package time supports.
func TestParseFrac(t *testing.T) {
	t.Parallel()
	tcs := []struct {
		layout  string
		value   string
		want    int64
		wantErr bool
	}{
		{"05.000", "07.123", 123_000_000_000_000_000, false},
		{"05.000", "07.1", 0, true},
		{"05.000", "07", 0, true},
		{"05.9", "07", 0, false},
		{"05.9", "07.5", 500_000_000_000_000_000, false},
		{"05.9", "07.123456789123456789", 123_456_789_123_456_789, false},
		{"05.999999999999999999", "07.123456789123456789", 123_456_789_123_456_789, false},
		{"05,9", "07,5", 500_000_000_000_000_000, false},
		{"05,9", "07.5", 0, true},
		{"05.000000000000000000", "07.123456789123456789", 123_456_789_123_456_789, false},
	}
	for _, tc := range tcs {
		got, err := Parse(tc.layout, tc.value, Gregorian, TT)
		if (err != nil) != tc.wantErr {
			t.Errorf("Parse(%q, %q) error = %v, wantErr %v", tc.layout, tc.value, err, tc.wantErr)
			continue
		}
		if err == nil && got.Attosecond() != tc.want {
			t.Errorf("Parse(%q, %q).Attosecond() = %d, want %d", tc.layout, tc.value, got.Attosecond(), tc.want)
		}
	}
}

// TestParseLeapSecond checks that a second of 60 parses only under UTC.
func TestParseLeapSecond(t *testing.T) {
	t.Parallel()
	got, err := Parse("2006-01-02 15:04:05", "1998-12-31 23:59:60", Gregorian, UTC)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got.Second() != 60 {
		t.Errorf("Second() = %d, want 60", got.Second())
	}
	if _, err := Parse("2006-01-02 15:04:05", "1998-12-31 23:59:60", Gregorian, TAI); err == nil {
		t.Errorf("second 60 under TAI did not fail")
	}
}

// TestParseZeroAllocs checks that calling Parse does not escape its argument
// and does not allocate, in the happy path.
func TestParseZeroAllocs(t *testing.T) {
	const want = 0.0

	got := testing.AllocsPerRun(10000, parseHappy)
	if got != want {
		t.Fatalf("Parse allocates %v times, want %v", got, want)
	}
}

// BenchmarkParseHappy benchmarks (and counts allocations) of Parse in the
// happy path.
func BenchmarkParseHappy(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		parseHappy()
	}
}

func parseHappy() {
	// The value must stay within the runtime's 32-byte stack buffer for the
	// []byte to string conversion, or the conversion itself allocates.
	const layout = "2006-01-02 002 15:04:05.000"
	const value = "2023-11-02 306 12:30:45.500"
	b := make([]byte, len(value))
	copy(b, value)
	_, _ = Parse(layout, string(b), Gregorian, TT)
}

// decodeProg tries to parse b into a slice of inst for use in fuzzing, with a
// simple format. It validates that no literal instructions contain any format
// specifiers supported by package time but not by this package, and excludes
// the fraction operators, whose digit limits differ between the packages.
//
// The format consists of a sequence of encoded inst. The first byte is the
// fmtOp value (and must be in range). If the fmtOp is fmtLiteral, it must be
// followed by the literal, prefixed with a one-byte length.
func decodeProg(b []byte) (string, bool) {
	layout := new(strings.Builder)
	for len(b) > 0 {
		var (
			op  fmtOp
			n   int
			lit string
		)
		op, b = fmtOp(b[0]), b[1:]
		if op < 0 || op >= opFracZero {
			return "", false
		}
		if op != opLiteral {
			layout.WriteString(op.String())
			continue
		}
		if len(b) == 0 {
			return "", false
		}
		n, b = int(b[0]), b[1:]
		if n > len(b) {
			return "", false
		}
		lit, b = string(b[:n]), b[n:]
		for s := range timeSpecs {
			if strings.Contains(lit, s) {
				return "", false
			}
		}
		layout.WriteString(lit)
	}
	return layout.String(), true
}

// timeSpecs are format specifiers supported by package time that are not
// used by astrotime.
var timeSpecs = set.Make("3", "03", "PM", "pm", "MST", "-0700", "-07:00", "-07", "-070000", "-07:00:00", "Z0700", "Z07:00", "Z07", "Z070000", "Z07:00:00", ".0", ",0", ".9", ",9")
