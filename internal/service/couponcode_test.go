package service

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var couponCodePattern = regexp.MustCompile(`^NAMIDIA-[A-HJ-KM-NP-Z2-9]{4}[0-9a-z]+$`)

func TestGenerateCouponCodeFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := GenerateCouponCode()
		assert.Regexp(t, couponCodePattern, code)
	}
}

func TestGenerateCouponCodeExcludesAmbiguousChars(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := GenerateCouponCode()
		random := strings.TrimPrefix(code, "NAMIDIA-")[:4]
		assert.NotContains(t, random, "0")
		assert.NotContains(t, random, "O")
		assert.NotContains(t, random, "1")
		assert.NotContains(t, random, "I")
		assert.NotContains(t, random, "L")
	}
}

func TestGenerateCouponCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[GenerateCouponCode()] = true
	}
	// Random part plus timestamp should essentially never collide in a
	// tight loop of 50
	assert.Greater(t, len(seen), 1)
}
