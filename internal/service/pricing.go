package service

import (
	"math"
	"strconv"
	"strings"
)

// FormatPrice renders a value as Brazilian currency, e.g. 1234.5 ->
// "R$ 1.234,50". Negative values keep their sign.
func FormatPrice(value float64) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}

	formatted := strconv.FormatFloat(value, 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(formatted, ".")

	// Insert thousands separators right to left
	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}

	return "R$ " + sign + b.String() + "," + fracPart
}

// CalculateDiscount returns the rounded discount percentage between an
// original and a current price. Non-positive originals yield 0 instead of
// a division blowup.
func CalculateDiscount(original, current float64) int {
	if original <= 0 {
		return 0
	}
	return int(math.Round(100 * (original - current) / original))
}

// round2 rounds a monetary amount to cents.
func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// slugReplacements folds the accented characters common in Portuguese
// category names.
var slugReplacements = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"í", "i", "ì", "i", "î", "i", "ï", "i",
	"ó", "o", "ò", "o", "ô", "o", "õ", "o", "ö", "o",
	"ú", "u", "ù", "u", "û", "u", "ü", "u",
	"ç", "c", "ñ", "n",
)

// Slugify turns a display name into a URL-safe slug.
func Slugify(name string) string {
	s := slugReplacements.Replace(strings.ToLower(strings.TrimSpace(name)))

	var b strings.Builder
	lastHyphen := true // suppress leading hyphens
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
