// Copyright 2024 Axel Wagner.
// All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package astrotime

// An Epoch is a well known reference moment that events are offset from.
type Epoch uint8

const (
	// JulianPeriod is the start of the Julian Period: -4712-01-01 12:00:00 TT
	// on the Julian calendar (4713 BC), which is JD 0 by definition.
	JulianPeriod Epoch = iota
	// JulianCalendar is 0001-01-01 00:00:00 TT on the Julian calendar,
	// exactly two days before GregorianCalendar.
	JulianCalendar
	// GregorianCalendar is 0001-01-01 00:00:00 TT on the Gregorian calendar.
	GregorianCalendar
	// J1900 is the J1900.0 astronomical epoch, 1899-12-31 12:00:00 TT
	// (JD 2415020).
	J1900
	// E1900 is the 1900.0 epoch, 1900-01-01 00:00:00 TT.
	E1900
	// Unix is the Unix epoch, 1970-01-01 00:00:00 UTC.
	Unix
	// TimeStandard is 1977-01-01 00:00:32.184 TT, the moment at which TT,
	// TCG and TCB all read alike. It is the zero [Instant].
	TimeStandard
	// J1991_25 is the J1991.25 astronomical epoch, 1991-04-02 13:30:00 TT
	// (JD 2448349.0625), the catalogue epoch of Hipparcos.
	J1991_25
	// Y2K is 2000-01-01 00:00:00 UTC.
	Y2K
	// J2000 is the J2000.0 astronomical epoch, 2000-01-01 12:00:00 TT
	// (JD 2451545).
	J2000
	// J2100 is the J2100.0 astronomical epoch, 2100-01-01 12:00:00 TT.
	J2100
	// J2200 is the J2200.0 astronomical epoch, 2200-01-02 12:00:00 TT.
	J2200
)

// epochOffsets[e] is the offset of epoch e from the zero instant.
var epochOffsets = [...]Duration{
	JulianPeriod:      {secs: -211_087_684_832, attos: -184_000_000_000_000_000},
	JulianCalendar:    {secs: -62_356_694_432, attos: -184_000_000_000_000_000},
	GregorianCalendar: {secs: -62_356_521_632, attos: -184_000_000_000_000_000},
	J1900:             {secs: -2_429_956_832, attos: -184_000_000_000_000_000},
	E1900:             {secs: -2_429_913_632, attos: -184_000_000_000_000_000},
	Unix:              {secs: -220_924_791, attos: 0},
	TimeStandard:      {secs: 0, attos: 0},
	J1991_25:          {secs: 449_674_167, attos: 816_000_000_000_000_000},
	Y2K:               {secs: 725_760_032, attos: 0},
	J2000:             {secs: 725_803_167, attos: 816_000_000_000_000_000},
	J2100:             {secs: 3_881_563_167, attos: 816_000_000_000_000_000},
	J2200:             {secs: 7_037_323_167, attos: 816_000_000_000_000_000},
}

// Instant returns the instant the epoch refers to.
func (e Epoch) Instant() Instant {
	return Instant{d: epochOffsets[e]}
}

// String returns the conventional name of the epoch.
func (e Epoch) String() string {
	switch e {
	case JulianPeriod:
		return "Julian Period"
	case JulianCalendar:
		return "Julian Calendar"
	case GregorianCalendar:
		return "Gregorian Calendar"
	case J1900:
		return "J1900.0"
	case E1900:
		return "1900.0"
	case Unix:
		return "Unix"
	case TimeStandard:
		return "Time Standard"
	case J1991_25:
		return "J1991.25"
	case Y2K:
		return "Y2K"
	case J2000:
		return "J2000.0"
	case J2100:
		return "J2100.0"
	case J2200:
		return "J2200.0"
	}
	return "Epoch(?)"
}
