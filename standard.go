// Copyright 2024 Axel Wagner.
// All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package astrotime

import "math/big"

// A Standard names a standard of time.
type Standard uint8

const (
	// TT is Terrestrial Time, the continuous standard for Earth's geoid that
	// the other standards are defined against here.
	TT Standard = iota
	// TAI is International Atomic Time. TT reads exactly 32.184 s ahead of
	// TAI.
	TAI
	// UTC is Coordinated Universal Time. It follows TAI but is held near
	// Earth rotation by inserted leap seconds, so it is not continuous.
	UTC
	// TCG is Geocentric Coordinate Time. It ticks faster than TT by the
	// defined rate L_G = 6.969290134e-10.
	TCG
	// TCB is Barycentric Coordinate Time. It ticks faster than TT by the
	// rate L_B = 1.550505e-8.
	TCB
)

// String returns the conventional abbreviation of the standard.
func (s Standard) String() string {
	switch s {
	case TAI:
		return "TAI"
	case UTC:
		return "UTC"
	case TCG:
		return "TCG"
	case TCB:
		return "TCB"
	}
	return "TT"
}

// valid reports whether s is one of the defined standards.
func (s Standard) valid() bool { return s <= TCB }

// The defined rate differences are exact decimal fractions: L_G and L_B have
// 19 decimal places. Scaling is done on attosecond counts with a common
// denominator of 10^19, rounding half away from zero, so that converting to
// TT and back is the identity on the attosecond grid.
var (
	rateDenom = new(big.Int).SetUint64(10_000_000_000_000_000_000)
	// 10^19 - L_G*10^19 and 10^19 - L_B*10^19.
	tcgRate = new(big.Int).Sub(rateDenom, big.NewInt(6_969_290_134))
	tcbRate = new(big.Int).Sub(rateDenom, big.NewInt(155_050_500_000))
)

// rate returns the scale numerator for s over rateDenom, or nil if s runs at
// TT rate.
func (s Standard) rate() *big.Int {
	switch s {
	case TCG:
		return tcgRate
	case TCB:
		return tcbRate
	}
	return nil
}

// scaleToTT compresses an elapsed span of the faster standard into TT.
// The result is never longer than the input, so it cannot overflow.
func scaleToTT(d Duration, rate *big.Int) Duration {
	a := bigAttos(d)
	a.Mul(a, rate)
	roundQuo(a, rateDenom)
	r, err := durationOfBigAttos(a)
	if err != nil {
		panic(err)
	}
	return r
}

// scaleFromTT expands an elapsed TT span into the faster standard.
func scaleFromTT(d Duration, rate *big.Int) (Duration, error) {
	a := bigAttos(d)
	a.Mul(a, rateDenom)
	roundQuo(a, rate)
	return durationOfBigAttos(a)
}

// roundQuo sets a to a/den rounded to nearest, half away from zero. den must
// be positive.
func roundQuo(a, den *big.Int) {
	var r big.Int
	a.QuoRem(a, den, &r)
	neg := r.Sign() < 0
	r.Abs(&r).Lsh(&r, 1)
	if r.Cmp(den) >= 0 {
		if neg {
			a.Sub(a, bigOne)
		} else {
			a.Add(a, bigOne)
		}
	}
}

var bigOne = big.NewInt(1)
