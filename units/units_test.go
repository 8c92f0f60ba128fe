package units

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		src  string
		u    Unit
	}{
		{"upper", "MASS::KILOGRAM", Kilogram},
		{"lower", "mass::kilogram", Kilogram},
		{"mixed", "Mass::KiloGram", Kilogram},
		{"spaces", "  LENGTH::NAUTICAL_MILE ", NauticalMile},
		{"temp", "temperature::fahrenheit", Fahrenheit},
		{"accel", "ACCELERATION::METRE_PER_SECOND_SQUARED", MetrePerSecondSquared},
		{"digital", "DigitalInformation::Petabyte", Petabyte},
		{"millenium", "TIME::MILLENIUM", Millenium},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			u, err := Parse(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if u != c.u {
				t.Errorf("%q parsed to %v, want %v", c.src, u, c.u)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	cases := []string{
		"",
		"KILOGRAM",
		"MASS::",
		"::KILOGRAM",
		"MASS:KILOGRAM",
		"LENGTH::KILOGRAM",
		"MASS::KILOGRAMS",
		"ACCELERATION::METREPERSECONDSQUARED",
		"TEMPERATURE::RANKINE",
		"maſs::kilogram",
		"MASS::\u212aILOGRAM",
		"ＭASS::KILOGRAM",
	}
	for _, src := range cases {
		u, err := Parse(src)
		if err == nil {
			t.Errorf("%q parsed to %v", src, u)
			continue
		}
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("%q gave %#v, not *ParseError", src, err)
			continue
		}
		if perr.Text != src {
			t.Errorf("%q gave error text %q", src, perr.Text)
		}
		if !strings.Contains(err.Error(), "unknown unit") {
			t.Errorf("%q: error %q doesn't mention unknown unit", src, err)
		}
	}
}

func TestNamesRoundTrip(t *testing.T) {
	seen := make(map[string]Unit)
	for _, u := range All() {
		s := u.String()
		if v, ok := seen[s]; ok {
			t.Errorf("%v and %v share name %q", u, v, s)
		}
		seen[s] = u
		if !strings.HasPrefix(s, u.Category().String()+Sep) {
			t.Errorf("%q doesn't start with its category %v", s, u.Category())
		}
		v, err := Parse(s)
		if err != nil {
			t.Errorf("%q doesn't parse: %v", s, err)
			continue
		}
		if v != u {
			t.Errorf("%q parsed to %v, want %v", s, v, u)
		}
		if w, err := Parse(strings.ToLower(s)); err != nil || w != u {
			t.Errorf("lower-case %q gave %v, %v", s, w, err)
		}
	}
}

func TestCategories(t *testing.T) {
	want := map[Category]int{
		Temperature:        3,
		Acceleration:       1,
		Angle:              4,
		Length:             9,
		Mass:               10,
		Time:               13,
		Area:               8,
		Speed:              5,
		DigitalInformation: 12,
	}
	cats := Categories()
	if len(cats) != len(want) {
		t.Fatalf("have %d categories, want %d", len(cats), len(want))
	}
	n := 0
	for _, c := range cats {
		us := c.Units()
		if len(us) != want[c] {
			t.Errorf("%v has %d units, want %d", c, len(us), want[c])
		}
		for _, u := range us {
			if u.Category() != c {
				t.Errorf("%v listed under %v", u, c)
			}
		}
		n += len(us)
	}
	if n != len(All()) {
		t.Errorf("categories list %d units, All lists %d", n, len(All()))
	}
}

func TestInvalidUnit(t *testing.T) {
	var u Unit
	if c := u.Category(); c != categoryNone {
		t.Errorf("zero unit has category %v", c)
	}
	if s := u.String(); s != "Unit(0)" {
		t.Errorf("zero unit has name %q", s)
	}
	if v := Convert(1, u, u); !math.IsNaN(v) {
		t.Errorf("converting zero units gave %g", v)
	}
	if v := Convert(1, Unit(200), Metre); !math.IsNaN(v) {
		t.Errorf("converting out-of-range unit gave %g", v)
	}
	if _, ok := Factor(u); ok {
		t.Error("zero unit has a factor")
	}
}
