package qubit

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Format controls how results are rendered as text. The zero value formats
// the same as DefaultFormat.
type Format struct {
	// Precision is the number of significant digits for non-integral values.
	// Zero means 10.
	Precision int
	// NaN is the text for failed results. Empty means "-".
	NaN string
	// GroupDigits inserts thousands separators into the integer part.
	GroupDigits bool
}

// DefaultFormat is the format used by EvalText.
var DefaultFormat = Format{Precision: 10, NaN: "-"}

// Number formats a value. Integral values have no fraction and no exponent.
func (f Format) Number(v float64) string {
	switch {
	case math.IsNaN(v):
		if f.NaN == "" {
			return "-"
		}
		return f.NaN
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	var s string
	if v == math.Trunc(v) {
		s = strconv.FormatFloat(v, 'f', -1, 64)
	} else {
		prec := f.Precision
		if prec <= 0 {
			prec = 10
		}
		s = strconv.FormatFloat(v, 'g', prec, 64)
	}
	if f.GroupDigits {
		s = group(s)
	}
	return s
}

var printer = sync.OnceValue(func() *message.Printer {
	return message.NewPrinter(language.English)
})

// group inserts thousands separators into the integer part of a formatted
// number. Numbers in exponent form or outside the range of int64 are
// returned unchanged.
func group(s string) string {
	if strings.ContainsAny(s, "eE") {
		return s
	}
	ip, frac, _ := strings.Cut(s, ".")
	i, err := strconv.ParseInt(ip, 10, 64)
	if err != nil {
		return s
	}
	g := printer().Sprint(number.Decimal(i))
	if ip == "-0" {
		g = "-0"
	}
	if frac == "" {
		return g
	}
	return g + "." + frac
}
