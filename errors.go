// Copyright 2024 Axel Wagner.
// All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package astrotime

import "errors"

var (
	// ErrOverflow is returned when a result does not fit the value range of
	// its type.
	ErrOverflow = errors.New("astrotime: value out of range")

	// ErrInvalidDate is returned when calendar date fields do not name a day
	// that exists in the calendar.
	ErrInvalidDate = errors.New("astrotime: invalid calendar date")

	// ErrBeforeLeapSecondEpoch is returned when a UTC conversion refers to a
	// moment before the leap second table's coverage begins
	// (1900-01-01 00:00:00 UTC).
	ErrBeforeLeapSecondEpoch = errors.New("astrotime: before leap second table coverage")

	// ErrNotLeapSecond is returned when a UTC date-time carries second 60 but
	// the leap second table records no insertion at that moment.
	ErrNotLeapSecond = errors.New("astrotime: second 60 does not match a recorded leap second")
)
