// Copyright 2024 Axel Wagner.
// All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package astrotime

import (
	"github.com/vektra/tai64n"
)

// TAI64 labels count seconds of TAI from 1970-01-01 00:00:00 TAI, offset by
// 2^62 to stay unsigned.
const (
	// taiUnixSecs is the zero-instant offset of 1970-01-01 00:00:00 TAI.
	taiUnixSecs = -220_924_800
	tai64Base   = 1 << 62
)

// FromTAI64N converts an external TAI64N label to an Instant. Labels with a
// nanosecond field of a full second or more are rejected.
func FromTAI64N(t *tai64n.TAI64N) (Instant, error) {
	if t.Nanoseconds >= 1e9 {
		return Instant{}, ErrOverflow
	}
	diff := int64(t.Seconds - tai64Base)
	secs, ok := add64(diff, taiUnixSecs)
	if !ok {
		return Instant{}, ErrOverflow
	}
	d, err := NewDuration(secs, int64(t.Nanoseconds)*1e9)
	if err != nil {
		return Instant{}, err
	}
	return Instant{d: d}, nil
}

// TAI64N converts i to an external TAI64N label, truncating below
// nanosecond resolution. Instants more than 2^62 seconds from 1970 do not
// fit a TAI64 label and return ErrOverflow.
func (i Instant) TAI64N() (*tai64n.TAI64N, error) {
	secs, attos := i.d.secs, i.d.attos
	if attos < 0 {
		secs--
		attos += attosPerSec
	}
	diff, ok := add64(secs, -taiUnixSecs)
	if !ok || diff < -tai64Base || diff >= tai64Base {
		return nil, ErrOverflow
	}
	return &tai64n.TAI64N{
		Seconds:     uint64(diff + tai64Base),
		Nanoseconds: uint32(attos / 1e9),
	}, nil
}
