package catalog

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	currencySymbols = regexp.MustCompile(`[$€£¥]`)
	priceWhitespace = regexp.MustCompile(`\s`)
	commaDecimal    = regexp.MustCompile(`\.\d{3},\d{2}$`) // 1.234,56
	commaThousands  = regexp.MustCompile(`,\d{3}\.`)       // 1,234.56
)

// ParsePrice converts a scraped price string into minor currency units
// ("$1,299.00" -> 129900). Both European (1.234,56) and US (1,234.56)
// separator conventions are handled; a lone comma is taken as the decimal
// separator. Unparseable, non-finite and negative input all yield 0, as does
// an explicit zero price — the data gives no way to tell "free" from
// "missing".
func ParsePrice(raw string) int {
	s := currencySymbols.ReplaceAllString(raw, "")
	s = priceWhitespace.ReplaceAllString(s, "")
	if s == "" {
		return 0
	}

	switch {
	case commaDecimal.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case commaThousands.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	default:
		s = strings.ReplaceAll(s, ",", ".")
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) || value < 0 {
		return 0
	}
	return int(math.Round(value * 100))
}
