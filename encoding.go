// Copyright 2024 Axel Wagner.
// All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package astrotime

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
)

// String formats d as an ISO 8601 style period, like "P2DT3H4M5.5S". Days
// are the largest unit shown; hours, minutes and zero components are
// omitted. A negative duration carries a single leading minus. The zero
// duration is "P".
func (d Duration) String() string {
	var b strings.Builder
	if d.Sign() < 0 {
		b.WriteByte('-')
	}
	b.WriteByte('P')

	s := d.secs
	a := d.attos
	if s < 0 {
		s = -s
	}
	if a < 0 {
		a = -a
	}

	days := s / secsPerDay
	s %= secsPerDay
	if days != 0 {
		b.WriteString(strconv.FormatInt(days, 10))
		b.WriteByte('D')
	}
	if s == 0 && a == 0 {
		return b.String()
	}
	b.WriteByte('T')
	if h := s / 3600; h != 0 {
		b.WriteString(strconv.FormatInt(h, 10))
		b.WriteByte('H')
	}
	s %= 3600
	if m := s / 60; m != 0 {
		b.WriteString(strconv.FormatInt(m, 10))
		b.WriteByte('M')
	}
	s %= 60
	if s != 0 || a != 0 {
		b.WriteString(strconv.FormatInt(s, 10))
		if a != 0 {
			fmt.Fprintf(&b, ".%018d", a)
		}
		b.WriteByte('S')
	}
	return b.String()
}

// ParseDuration parses the period form produced by [Duration.String]: an
// optional minus, "P", an optional day component and an optional "T" part
// with hour, minute and second components, the second carrying an optional
// fraction of up to 18 digits.
func ParseDuration(s string) (Duration, error) {
	orig := s
	neg := false
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		neg = true
		s = rest
	}
	s, ok := strings.CutPrefix(s, "P")
	if !ok {
		return Duration{}, fmt.Errorf("astrotime: parsing duration %q: missing period designator", orig)
	}

	var secs, attos int64
	date, clock, hasT := strings.Cut(s, "T")
	if date != "" {
		v, rest, err := cutUnit(date, 'D')
		if err != nil || rest != "" {
			return Duration{}, fmt.Errorf("astrotime: parsing duration %q: bad day component", orig)
		}
		secs = v * secsPerDay
	}
	if hasT {
		if clock == "" {
			return Duration{}, fmt.Errorf("astrotime: parsing duration %q: empty time part", orig)
		}
		rest := clock
		var v int64
		var err error
		if strings.ContainsRune(rest, 'H') {
			v, rest, err = cutUnit(rest, 'H')
			if err != nil {
				return Duration{}, fmt.Errorf("astrotime: parsing duration %q: bad hour component", orig)
			}
			secs += v * 3600
		}
		if strings.ContainsRune(rest, 'M') {
			v, rest, err = cutUnit(rest, 'M')
			if err != nil {
				return Duration{}, fmt.Errorf("astrotime: parsing duration %q: bad minute component", orig)
			}
			secs += v * 60
		}
		if rest != "" {
			sec, ok := strings.CutSuffix(rest, "S")
			if !ok {
				return Duration{}, fmt.Errorf("astrotime: parsing duration %q: trailing %q", orig, rest)
			}
			whole, frac, hasFrac := strings.Cut(sec, ".")
			v, err = strconv.ParseInt(whole, 10, 64)
			if err != nil || v < 0 {
				return Duration{}, fmt.Errorf("astrotime: parsing duration %q: bad second component", orig)
			}
			secs += v
			if hasFrac {
				if frac == "" || len(frac) > 18 {
					return Duration{}, fmt.Errorf("astrotime: parsing duration %q: bad second fraction", orig)
				}
				attos, err = strconv.ParseInt(frac, 10, 64)
				if err != nil {
					return Duration{}, fmt.Errorf("astrotime: parsing duration %q: bad second fraction", orig)
				}
				for i := len(frac); i < 18; i++ {
					attos *= 10
				}
			}
		}
	}
	if neg {
		secs, attos = -secs, -attos
	}
	return NewDuration(secs, attos)
}

// cutUnit splits a leading unsigned integer terminated by unit off s.
func cutUnit(s string, unit byte) (v int64, rest string, err error) {
	i := strings.IndexByte(s, unit)
	if i < 0 {
		return 0, s, errors.New("missing unit")
	}
	v, err = strconv.ParseInt(s[:i], 10, 64)
	if err != nil || v < 0 {
		return 0, s, errors.New("bad number")
	}
	return v, s[i+1:], nil
}

// MarshalText implements encoding.TextMarshaler using the period form.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(data []byte) error {
	v, err := ParseDuration(string(data))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler. The form is 16 bytes:
// the seconds and attoseconds as big-endian two's complement.
func (d Duration) MarshalBinary() ([]byte, error) {
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], uint64(d.secs))
	binary.BigEndian.PutUint64(b[8:], uint64(d.attos))
	return b[:], nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (d *Duration) UnmarshalBinary(data []byte) error {
	if len(data) != 16 {
		return errors.New("astrotime: invalid duration encoding length")
	}
	v, err := NewDuration(
		int64(binary.BigEndian.Uint64(data[:8])),
		int64(binary.BigEndian.Uint64(data[8:])),
	)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalJSON implements json.Marshaler using the period form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// EncodeMsgpack implements msgpack.CustomEncoder as a two-element array of
// the seconds and attoseconds.
func (d Duration) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}
	if err := enc.EncodeInt(d.secs); err != nil {
		return err
	}
	return enc.EncodeInt(d.attos)
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (d *Duration) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n != 2 {
		return errors.New("astrotime: invalid duration encoding length")
	}
	secs, err := dec.DecodeInt64()
	if err != nil {
		return err
	}
	attos, err := dec.DecodeInt64()
	if err != nil {
		return err
	}
	v, err := NewDuration(secs, attos)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalText implements encoding.TextMarshaler. An instant is encoded as
// its offset from the zero instant, in the period form of [Duration.String].
func (i Instant) MarshalText() ([]byte, error) {
	return i.d.MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Instant) UnmarshalText(data []byte) error {
	return i.d.UnmarshalText(data)
}

// MarshalBinary implements encoding.BinaryMarshaler with the same 16-byte
// form as [Duration.MarshalBinary].
func (i Instant) MarshalBinary() ([]byte, error) {
	return i.d.MarshalBinary()
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (i *Instant) UnmarshalBinary(data []byte) error {
	return i.d.UnmarshalBinary(data)
}

// MarshalJSON implements json.Marshaler using the offset period form.
func (i Instant) MarshalJSON() ([]byte, error) {
	return i.d.MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *Instant) UnmarshalJSON(data []byte) error {
	return i.d.UnmarshalJSON(data)
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (i Instant) EncodeMsgpack(enc *msgpack.Encoder) error {
	return i.d.EncodeMsgpack(enc)
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (i *Instant) DecodeMsgpack(dec *msgpack.Decoder) error {
	return i.d.DecodeMsgpack(dec)
}

// MarshalText implements encoding.TextMarshaler for a Calendar.
func (c Calendar) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Calendar) UnmarshalText(data []byte) error {
	v, err := parseCalendar(string(data))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func parseCalendar(s string) (Calendar, error) {
	switch s {
	case "Gregorian":
		return Gregorian, nil
	case "Julian":
		return Julian, nil
	}
	return 0, fmt.Errorf("astrotime: unknown calendar %q", s)
}

// MarshalText implements encoding.TextMarshaler for a Standard.
func (s Standard) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Standard) UnmarshalText(data []byte) error {
	v, err := parseStandard(string(data))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func parseStandard(s string) (Standard, error) {
	switch s {
	case "TT":
		return TT, nil
	case "TAI":
		return TAI, nil
	case "UTC":
		return UTC, nil
	case "TCG":
		return TCG, nil
	case "TCB":
		return TCB, nil
	}
	return 0, fmt.Errorf("astrotime: unknown standard %q", s)
}

// MarshalText implements encoding.TextMarshaler using the canonical form of
// [DateTime.String].
func (dt DateTime) MarshalText() ([]byte, error) {
	return []byte(dt.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for the canonical form.
func (dt *DateTime) UnmarshalText(data []byte) error {
	s := string(data)
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return fmt.Errorf("astrotime: parsing date-time %q: want date, time, calendar and standard", s)
	}
	cal, err := parseCalendar(fields[2])
	if err != nil {
		return err
	}
	std, err := parseStandard(fields[3])
	if err != nil {
		return err
	}

	date := fields[0]
	ysign := 1
	if rest, ok := strings.CutPrefix(date, "-"); ok {
		ysign = -1
		date = rest
	}
	dp := strings.Split(date, "-")
	if len(dp) != 3 {
		return fmt.Errorf("astrotime: parsing date-time %q: bad date", s)
	}
	year, err1 := strconv.Atoi(dp[0])
	month, err2 := strconv.Atoi(dp[1])
	day, err3 := strconv.Atoi(dp[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return fmt.Errorf("astrotime: parsing date-time %q: bad date", s)
	}

	clock, frac, hasFrac := strings.Cut(fields[1], ".")
	cp := strings.Split(clock, ":")
	if len(cp) != 3 {
		return fmt.Errorf("astrotime: parsing date-time %q: bad time", s)
	}
	hour, err1 := strconv.Atoi(cp[0])
	minute, err2 := strconv.Atoi(cp[1])
	second, err3 := strconv.Atoi(cp[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return fmt.Errorf("astrotime: parsing date-time %q: bad time", s)
	}
	var attos int64
	if hasFrac {
		if len(frac) > 18 {
			return fmt.Errorf("astrotime: parsing date-time %q: bad second fraction", s)
		}
		attos, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return fmt.Errorf("astrotime: parsing date-time %q: bad second fraction", s)
		}
		for i := len(frac); i < 18; i++ {
			attos *= 10
		}
	}

	v, err := NewDateTime(cal, std, ysign*year, time.Month(month), day, hour, minute, second, attos)
	if err != nil {
		return fmt.Errorf("astrotime: parsing date-time %q: %w", s, err)
	}
	*dt = v
	return nil
}

// dateTimeJSON is the JSON object form of a DateTime.
type dateTimeJSON struct {
	Year        int      `json:"year"`
	Month       int      `json:"month"`
	Day         int      `json:"day"`
	Hour        int      `json:"hour"`
	Minute      int      `json:"minute"`
	Second      int      `json:"second"`
	Attoseconds int64    `json:"attoseconds"`
	Calendar    Calendar `json:"calendar"`
	Standard    Standard `json:"standard"`
}

// MarshalJSON implements json.Marshaler as an object with one field per
// component, the calendar and standard by name.
func (dt DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(dateTimeJSON{
		Year:        int(dt.year),
		Month:       int(dt.month),
		Day:         int(dt.day),
		Hour:        int(dt.hour),
		Minute:      int(dt.minute),
		Second:      int(dt.second),
		Attoseconds: dt.attos,
		Calendar:    dt.cal,
		Standard:    dt.std,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (dt *DateTime) UnmarshalJSON(data []byte) error {
	var v dateTimeJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := NewDateTime(v.Calendar, v.Standard, v.Year, time.Month(v.Month), v.Day, v.Hour, v.Minute, v.Second, v.Attoseconds)
	if err != nil {
		return err
	}
	*dt = parsed
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder as a nine-element array:
// year, month, day, hour, minute, second, attoseconds, calendar, standard.
func (dt DateTime) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(9); err != nil {
		return err
	}
	for _, v := range []int64{
		int64(dt.year), int64(dt.month), int64(dt.day),
		int64(dt.hour), int64(dt.minute), int64(dt.second),
		dt.attos, int64(dt.cal), int64(dt.std),
	} {
		if err := enc.EncodeInt(v); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (dt *DateTime) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n != 9 {
		return errors.New("astrotime: invalid date-time encoding length")
	}
	var f [9]int64
	for i := range f {
		f[i], err = dec.DecodeInt64()
		if err != nil {
			return err
		}
	}
	if f[7] < 0 || f[7] > int64(Julian) || f[8] < 0 || f[8] > int64(TCB) {
		return errors.New("astrotime: invalid date-time encoding")
	}
	v, err := NewDateTime(Calendar(f[7]), Standard(f[8]), int(f[0]), time.Month(f[1]), int(f[2]), int(f[3]), int(f[4]), int(f[5]), f[6])
	if err != nil {
		return err
	}
	*dt = v
	return nil
}
