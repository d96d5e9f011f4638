// Package zodiac maps calendar dates to the twelve zodiac signs.
//
// Each sign owns an inclusive (month, day) range. The twelve ranges
// partition the full year; Capricorn's range wraps the year boundary
// (Dec 22 - Jan 20).
package zodiac

import (
	"errors"
	"fmt"
	"strings"
)

// Sign identifies one of the twelve zodiac signs.
type Sign int

const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

var (
	// ErrInvalidDate indicates a month outside [1,12] or a day outside [1,31].
	ErrInvalidDate = errors.New("zodiac: invalid date")

	// ErrNoMatchingSign indicates a date that no sign range covers. The
	// ranges partition the year, so this only fires if the table is broken.
	ErrNoMatchingSign = errors.New("zodiac: no matching sign")

	// ErrUnknownSign indicates a name that matches no sign.
	ErrUnknownSign = errors.New("zodiac: unknown sign")
)

// MonthDay is a calendar date without a year.
type MonthDay struct {
	Month int
	Day   int
}

// NewMonthDay validates the month and day bounds. Day-in-month is not
// checked, so synthetic dates like Feb 30 are accepted.
func NewMonthDay(month, day int) (MonthDay, error) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return MonthDay{}, fmt.Errorf("%w: %d/%d", ErrInvalidDate, month, day)
	}
	return MonthDay{Month: month, Day: day}, nil
}

func (md MonthDay) ordinal() int {
	return md.Month*100 + md.Day
}

// Before reports whether md falls before other in the same calendar year.
func (md MonthDay) Before(other MonthDay) bool {
	return md.ordinal() < other.ordinal()
}

func (md MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", md.Month, md.Day)
}

// Range is the inclusive start/end interval during which a sign is active.
type Range struct {
	Start MonthDay
	End   MonthDay
}

// Contains reports whether the range covers md. A range whose end precedes
// its start wraps the year boundary and matches either side of it.
func (r Range) Contains(md MonthDay) bool {
	if r.Start.Before(r.End) {
		return !md.Before(r.Start) && !r.End.Before(md)
	}
	return !md.Before(r.Start) || !r.End.Before(md)
}

// signRanges is indexed by Sign, in canonical Aries-to-Pisces order.
var signRanges = [...]Range{
	Aries:       {Start: MonthDay{3, 21}, End: MonthDay{4, 20}},
	Taurus:      {Start: MonthDay{4, 21}, End: MonthDay{5, 20}},
	Gemini:      {Start: MonthDay{5, 21}, End: MonthDay{6, 21}},
	Cancer:      {Start: MonthDay{6, 22}, End: MonthDay{7, 22}},
	Leo:         {Start: MonthDay{7, 23}, End: MonthDay{8, 23}},
	Virgo:       {Start: MonthDay{8, 24}, End: MonthDay{9, 23}},
	Libra:       {Start: MonthDay{9, 24}, End: MonthDay{10, 23}},
	Scorpio:     {Start: MonthDay{10, 24}, End: MonthDay{11, 22}},
	Sagittarius: {Start: MonthDay{11, 23}, End: MonthDay{12, 21}},
	Capricorn:   {Start: MonthDay{12, 22}, End: MonthDay{1, 20}},
	Aquarius:    {Start: MonthDay{1, 21}, End: MonthDay{2, 19}},
	Pisces:      {Start: MonthDay{2, 20}, End: MonthDay{3, 20}},
}

var signNames = [...]string{
	Aries:       "Aries",
	Taurus:      "Taurus",
	Gemini:      "Gemini",
	Cancer:      "Cancer",
	Leo:         "Leo",
	Virgo:       "Virgo",
	Libra:       "Libra",
	Scorpio:     "Scorpio",
	Sagittarius: "Sagittarius",
	Capricorn:   "Capricorn",
	Aquarius:    "Aquarius",
	Pisces:      "Pisces",
}

// Signs returns all signs in canonical order.
func Signs() []Sign {
	signs := make([]Sign, len(signRanges))
	for i := range signs {
		signs[i] = Sign(i)
	}
	return signs
}

func (s Sign) String() string {
	if s < 0 || int(s) >= len(signNames) {
		return fmt.Sprintf("Sign(%d)", int(s))
	}
	return signNames[s]
}

// Slug returns the lowercase identifier used in API query parameters.
func (s Sign) Slug() string {
	return strings.ToLower(s.String())
}

// Range returns the inclusive date interval during which the sign is active.
func (s Sign) Range() Range {
	return signRanges[s]
}

// SignFor resolves a (month, day) pair to its zodiac sign.
func SignFor(month, day int) (Sign, error) {
	md, err := NewMonthDay(month, day)
	if err != nil {
		return 0, err
	}
	return SignForMonthDay(md)
}

// SignForMonthDay resolves a MonthDay to its zodiac sign. Iteration is
// first-match in canonical order; boundary dates belong to the sign whose
// range starts or ends on them.
func SignForMonthDay(md MonthDay) (Sign, error) {
	if _, err := NewMonthDay(md.Month, md.Day); err != nil {
		return 0, err
	}
	for i, r := range signRanges {
		if r.Contains(md) {
			return Sign(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrNoMatchingSign, md)
}

// FromName resolves a sign by its name, case-insensitively.
func FromName(name string) (Sign, error) {
	for i, n := range signNames {
		if strings.EqualFold(name, n) {
			return Sign(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSign, name)
}
