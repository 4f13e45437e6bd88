// Copyright 2024 Axel Wagner.
// All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package astrotime

import (
	"errors"
	"sort"
	"sync"
)

// A LeapSecond records one entry of a leap second table: from the UTC moment
// named by UTC onward, TAI is ahead of UTC by TAIMinusUTC seconds. The
// inserted second itself is the second immediately before that moment,
// displayed as second 60.
//
// UTC counts label seconds since 1900-01-01 00:00:00 UTC, ignoring leap
// seconds, which is the convention of the IANA leap-seconds.list file.
type LeapSecond struct {
	UTC         int64
	TAIMinusUTC int64
}

// preTableOffset is the constant TAI-UTC before the first tabulated entry.
// It makes the 1972 step land on 10 s.
const preTableOffset = 9

// A LeapSecondTable answers how far TAI is ahead of UTC at any covered
// moment. Coverage starts at 1900-01-01 00:00:00 UTC; conversions before
// that fail with ErrBeforeLeapSecondEpoch. Between 1900 and the first entry
// the offset is a constant 9 s.
//
// A table is immutable after construction and safe for concurrent use.
type LeapSecondTable struct {
	entries []LeapSecond
}

// NewLeapSecondTable builds a table from the given entries. The entries must
// be sorted with strictly increasing UTC labels, each label on a UTC day
// boundary, and each cumulative offset exactly one above its predecessor:
// a leap second is a single second inserted at the end of a UTC day, which
// is the only shape the IANA list schedules. Other shapes are rejected, so
// every reading decoded from an instant converts back.
func NewLeapSecondTable(entries []LeapSecond) (*LeapSecondTable, error) {
	prev := LeapSecond{UTC: 0, TAIMinusUTC: preTableOffset}
	for _, e := range entries {
		if e.UTC <= prev.UTC {
			return nil, errors.New("astrotime: leap second labels not strictly increasing")
		}
		if e.UTC%secsPerDay != 0 {
			return nil, errors.New("astrotime: leap second label not on a day boundary")
		}
		if e.TAIMinusUTC != prev.TAIMinusUTC+1 {
			return nil, errors.New("astrotime: leap second step is not one second")
		}
		prev = e
	}
	t := &LeapSecondTable{entries: make([]LeapSecond, len(entries))}
	copy(t.entries, entries)
	return t, nil
}

// DefaultLeapSecondTable returns the process-wide table holding the IANA
// leap second list. The table is built once and shared; callers must not
// rely on it being updated within a process lifetime and should construct
// their own table when a newer list is available.
func DefaultLeapSecondTable() *LeapSecondTable {
	return defaultTable()
}

var defaultTable = sync.OnceValue(func() *LeapSecondTable {
	t, err := NewLeapSecondTable(ianaLeapSeconds)
	if err != nil {
		panic(err)
	}
	return t
})

// https://data.iana.org/time-zones/data/leap-seconds.list
var ianaLeapSeconds = []LeapSecond{
	{2272060800, 10}, // 1 Jan 1972
	{2287785600, 11}, // 1 Jul 1972
	{2303683200, 12}, // 1 Jan 1973
	{2335219200, 13}, // 1 Jan 1974
	{2366755200, 14}, // 1 Jan 1975
	{2398291200, 15}, // 1 Jan 1976
	{2429913600, 16}, // 1 Jan 1977
	{2461449600, 17}, // 1 Jan 1978
	{2492985600, 18}, // 1 Jan 1979
	{2524521600, 19}, // 1 Jan 1980
	{2571782400, 20}, // 1 Jul 1981
	{2603318400, 21}, // 1 Jul 1982
	{2634854400, 22}, // 1 Jul 1983
	{2698012800, 23}, // 1 Jul 1985
	{2776982400, 24}, // 1 Jan 1988
	{2840140800, 25}, // 1 Jan 1990
	{2871676800, 26}, // 1 Jan 1991
	{2918937600, 27}, // 1 Jul 1992
	{2950473600, 28}, // 1 Jul 1993
	{2982009600, 29}, // 1 Jul 1994
	{3029443200, 30}, // 1 Jan 1996
	{3076704000, 31}, // 1 Jul 1997
	{3124137600, 32}, // 1 Jan 1999
	{3345062400, 33}, // 1 Jan 2006
	{3439756800, 34}, // 1 Jan 2009
	{3550089600, 35}, // 1 Jul 2012
	{3644697600, 36}, // 1 Jul 2015
	{3692217600, 37}, // 1 Jan 2017
}

// Entries returns a copy of the table's entries.
func (t *LeapSecondTable) Entries() []LeapSecond {
	e := make([]LeapSecond, len(t.entries))
	copy(e, t.entries)
	return e
}

// OffsetAt returns TAI-UTC at the given UTC label second.
func (t *LeapSecondTable) OffsetAt(utcLabel int64) (int64, error) {
	if utcLabel < 0 {
		return 0, ErrBeforeLeapSecondEpoch
	}
	// Index of the first entry past the label.
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].UTC > utcLabel
	})
	if i == 0 {
		return preTableOffset, nil
	}
	return t.entries[i-1].TAIMinusUTC, nil
}

// insertionAt reports whether a leap second is inserted immediately before
// the given UTC label, returning the offset in effect during the inserted
// second. Construction guarantees single-second steps, so that offset is one
// below the entry's.
func (t *LeapSecondTable) insertionAt(utcLabel int64) (during int64, ok bool) {
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].UTC >= utcLabel
	})
	if i == len(t.entries) || t.entries[i].UTC != utcLabel {
		return 0, false
	}
	return t.entries[i].TAIMinusUTC - 1, true
}

// fromTAI converts a TAI label second (seconds since 1900-01-01 00:00:00
// TAI) to a UTC label second. When the moment falls inside an inserted leap
// second, leap is true and the returned label is the boundary label: the
// moment belongs to the previous day's second 60.
func (t *LeapSecondTable) fromTAI(tai int64) (utcLabel int64, leap bool, err error) {
	// Index of the first entry whose effect begins after tai.
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].UTC+t.entries[i].TAIMinusUTC > tai
	})
	before := int64(preTableOffset)
	if i > 0 {
		before = t.entries[i-1].TAIMinusUTC
	}
	if i < len(t.entries) && tai >= t.entries[i].UTC+before {
		// Inside the insertion window preceding entry i.
		return t.entries[i].UTC, true, nil
	}
	utcLabel = tai - before
	if utcLabel < 0 {
		return 0, false, ErrBeforeLeapSecondEpoch
	}
	return utcLabel, false, nil
}
