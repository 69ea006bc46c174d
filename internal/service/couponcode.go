package service

import (
	"math/rand"
	"strconv"
	"time"
)

const couponPrefix = "NAMIDIA"

// 0, O, 1, I and L are excluded so codes survive being read out loud.
const couponAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateCouponCode produces a presentable code: fixed prefix, four
// random alphabet characters and a base-36 millisecond timestamp suffix.
// Uniqueness is not guaranteed here; issuance checks the generated code
// against existing coupons before using it.
func GenerateCouponCode() string {
	random := make([]byte, 4)
	for i := range random {
		random[i] = couponAlphabet[rand.Intn(len(couponAlphabet))]
	}

	suffix := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return couponPrefix + "-" + string(random) + suffix
}
