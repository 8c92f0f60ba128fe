// Package units holds the closed registry of measurement units understood by
// the calculator and converts values between units of the same category.
//
// Units are named CATEGORY::VARIANT, e.g. "MASS::KILOGRAM" or
// "LENGTH::NAUTICAL_MILE". Names are matched case-insensitively.
package units

import (
	"math"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is a group of mutually convertible units.
type Category uint8

const (
	categoryNone Category = iota
	Temperature
	Acceleration
	Angle
	Length
	Mass
	Time
	Area
	Speed
	DigitalInformation

	categoryCount
)

var categoryNames = [categoryCount]string{
	Temperature:        "TEMPERATURE",
	Acceleration:       "ACCELERATION",
	Angle:              "ANGLE",
	Length:             "LENGTH",
	Mass:               "MASS",
	Time:               "TIME",
	Area:               "AREA",
	Speed:              "SPEED",
	DigitalInformation: "DIGITALINFORMATION",
}

func (c Category) String() string {
	if c == categoryNone || c >= categoryCount {
		return "Category(" + strconv.Itoa(int(c)) + ")"
	}
	return categoryNames[c]
}

// Units returns the units belonging to c in declaration order.
func (c Category) Units() []Unit {
	var r []Unit
	for u := unitNone + 1; u < unitCount; u++ {
		if table[u].cat == c {
			r = append(r, u)
		}
	}
	return r
}

// Categories returns every category in declaration order.
func Categories() []Category {
	r := make([]Category, 0, categoryCount-1)
	for c := categoryNone + 1; c < categoryCount; c++ {
		r = append(r, c)
	}
	return r
}

// Unit identifies one variant of one category. The zero Unit is invalid.
type Unit uint8

const (
	unitNone Unit = iota

	Kelvin
	Celsius
	Fahrenheit

	MetrePerSecondSquared

	Turn
	Radian
	Degree
	Gradian

	Millimetre
	Centimetre
	Metre
	Kilometre
	Inch
	Foot
	Yard
	Mile
	NauticalMile

	Microgram
	Milligram
	Gram
	Kilogram
	MetricTon
	Ounce
	Pound
	Stone
	ShortTon
	LongTon

	Nanosecond
	Microsecond
	Millisecond
	Second
	Minute
	Hour
	Day
	Week
	Month
	Year
	Decade
	Century
	Millenium

	SquareMetre
	Hectare
	SquareKilometre
	SquareInch
	SquareFeet
	SquareYard
	Acre
	SquareMile

	MetrePerSecond
	KilometresPerHour
	FeetPerSecond
	MilesPerHour
	Knot

	Bit
	Byte
	Kilobit
	Kilobyte
	Megabit
	Megabyte
	Gigabit
	Gigabyte
	Terabit
	Terabyte
	Petabit
	Petabyte

	unitCount
)

// unitInfo describes a unit. factor is the multiplier to the category's
// reference unit; it is zero for temperatures, which convert affinely.
type unitInfo struct {
	cat    Category
	name   string
	factor float64
}

// The digital information factors are relative to the kilobyte and mix
// binary and decimal approximations. They are kept as they are so that
// results stay stable.
var table = [unitCount]unitInfo{
	Kelvin:     {Temperature, "KELVIN", 0},
	Celsius:    {Temperature, "CELSIUS", 0},
	Fahrenheit: {Temperature, "FAHRENHEIT", 0},

	MetrePerSecondSquared: {Acceleration, "METRE_PER_SECOND_SQUARED", 1},

	Turn:    {Angle, "TURN", 2 * math.Pi},
	Radian:  {Angle, "RADIAN", 1},
	Degree:  {Angle, "DEGREE", 0.0174532925},
	Gradian: {Angle, "GRADIAN", 0.015707963267949},

	Millimetre:   {Length, "MILLIMETRE", 0.001},
	Centimetre:   {Length, "CENTIMETRE", 0.01},
	Metre:        {Length, "METRE", 1},
	Kilometre:    {Length, "KILOMETRE", 1000},
	Inch:         {Length, "INCH", 0.0254},
	Foot:         {Length, "FOOT", 0.3048},
	Yard:         {Length, "YARD", 0.9144},
	Mile:         {Length, "MILE", 1609.34},
	NauticalMile: {Length, "NAUTICAL_MILE", 1852},

	Microgram: {Mass, "MICROGRAM", 1e-7},
	Milligram: {Mass, "MILLIGRAM", 1e-6},
	Gram:      {Mass, "GRAM", 0.001},
	Kilogram:  {Mass, "KILOGRAM", 1},
	MetricTon: {Mass, "METRIC_TON", 1000},
	Ounce:     {Mass, "OUNCE", 0.0283495},
	Pound:     {Mass, "POUND", 0.453592},
	Stone:     {Mass, "STONE", 6.35029},
	ShortTon:  {Mass, "SHORT_TON", 907.185},
	LongTon:   {Mass, "LONG_TON", 1016.0469088},

	Nanosecond:  {Time, "NANOSECOND", 1e-9},
	Microsecond: {Time, "MICROSECOND", 1e-6},
	Millisecond: {Time, "MILLISECOND", 0.001},
	Second:      {Time, "SECOND", 1},
	Minute:      {Time, "MINUTE", 60},
	Hour:        {Time, "HOUR", 3600},
	Day:         {Time, "DAY", 86400},
	Week:        {Time, "WEEK", 604800},
	Month:       {Time, "MONTH", 2.62974e6},
	Year:        {Time, "YEAR", 3.15569e7},
	Decade:      {Time, "DECADE", 3.15569e8},
	Century:     {Time, "CENTURY", 3.15569e9},
	Millenium:   {Time, "MILLENIUM", 3.1556926e10},

	SquareMetre:     {Area, "SQUARE_METRE", 1},
	Hectare:         {Area, "HECTARE", 10000},
	SquareKilometre: {Area, "SQUARE_KILOMETRE", 1000000},
	SquareInch:      {Area, "SQUARE_INCH", 0.00064516},
	SquareFeet:      {Area, "SQUARE_FEET", 0.09290304},
	SquareYard:      {Area, "SQUARE_YARD", 0.83612736},
	Acre:            {Area, "ACRE", 4046.8564224},
	SquareMile:      {Area, "SQUARE_MILE", 2589988.110336},

	MetrePerSecond:    {Speed, "METRE_PER_SECOND", 1},
	KilometresPerHour: {Speed, "KILOMETRES_PER_HOUR", 0.277778},
	FeetPerSecond:     {Speed, "FEET_PER_SECOND", 0.3048},
	MilesPerHour:      {Speed, "MILES_PER_HOUR", 0.44704},
	Knot:              {Speed, "KNOT", 0.514444},

	Bit:      {DigitalInformation, "BIT", 0.00012207},
	Byte:     {DigitalInformation, "BYTE", 0.000976563},
	Kilobit:  {DigitalInformation, "KILOBIT", 0.125},
	Kilobyte: {DigitalInformation, "KILOBYTE", 1},
	Megabit:  {DigitalInformation, "MEGABIT", 128},
	Megabyte: {DigitalInformation, "MEGABYTE", 1024},
	Gigabit:  {DigitalInformation, "GIGABIT", 131072},
	Gigabyte: {DigitalInformation, "GIGABYTE", 1.049e+6},
	Terabit:  {DigitalInformation, "TERABIT", 1.342e+8},
	Terabyte: {DigitalInformation, "TERABYTE", 1.074e+9},
	Petabit:  {DigitalInformation, "PETABIT", 1.374e+11},
	Petabyte: {DigitalInformation, "PETABYTE", 1.1e+12},
}

func (u Unit) valid() bool {
	return u > unitNone && u < unitCount
}

// Category returns the category of u. Invalid units have no category.
func (u Unit) Category() Category {
	if !u.valid() {
		return categoryNone
	}
	return table[u].cat
}

// Variant returns the variant part of u's canonical name, e.g. "KILOGRAM".
func (u Unit) Variant() string {
	if !u.valid() {
		return ""
	}
	return table[u].name
}

// String returns the canonical CATEGORY::VARIANT name of u.
func (u Unit) String() string {
	if !u.valid() {
		return "Unit(" + strconv.Itoa(int(u)) + ")"
	}
	return table[u].cat.String() + Sep + table[u].name
}

// Sep separates the category and variant in unit names.
const Sep = "::"

// All returns every unit in declaration order.
func All() []Unit {
	r := make([]Unit, 0, unitCount-1)
	for u := unitNone + 1; u < unitCount; u++ {
		r = append(r, u)
	}
	return r
}

var registry = sync.OnceValue(func() map[string]Unit {
	m := make(map[string]Unit, unitCount-1)
	for _, u := range All() {
		s := u.String()
		if _, ok := m[s]; ok {
			panic("units: duplicate unit name " + s)
		}
		m[s] = u
	}
	return m
})

// normalize folds a unit name to the canonical upper-case spelling. Names
// are ASCII, so anything else cannot fold to one.
func normalize(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return "", false
		}
	}
	return cases.Upper(language.Und).String(s), true
}

// Parse resolves a unit name, ignoring ASCII case. The result is the unit
// named by s, or an error of type *ParseError if no unit has that name.
func Parse(s string) (Unit, error) {
	if n, ok := normalize(s); ok {
		if u, ok := registry()[n]; ok {
			return u, nil
		}
	}
	return unitNone, &ParseError{Text: s}
}

// MustParse is like Parse but panics if s does not name a unit.
func MustParse(s string) Unit {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

// ParseError is an error resolving a unit name.
type ParseError struct {
	// Text is the name that did not resolve.
	Text string
}

func (err *ParseError) Error() string {
	return "unknown unit " + strconv.Quote(err.Text)
}
