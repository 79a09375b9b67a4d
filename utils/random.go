package utils

import (
	"math/rand"

	"stockgrow/models"
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomCode returns an uppercase alphanumeric code of the given length,
// used for referral codes and transaction id suffixes.
func RandomCode(length int) string {
	result := make([]byte, length)
	for i := range result {
		result[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return string(result)
}

// RandomOutcomes draws n independent outcomes with the operator skew:
// 45% DRAGON, 45% TIGER, 10% TIE. Combined with 2x/2x/9x payouts this
// gives the house a structural edge before any manual override.
func RandomOutcomes(n int) []models.Outcome {
	results := make([]models.Outcome, 0, n)
	for i := 0; i < n; i++ {
		r := rand.Float64()
		switch {
		case r < 0.45:
			results = append(results, models.OutcomeDragon)
		case r < 0.90:
			results = append(results, models.OutcomeTiger)
		default:
			results = append(results, models.OutcomeTie)
		}
	}
	return results
}

// RandomOTP returns a 6-digit numeric code as a string.
func RandomOTP() string {
	digits := make([]byte, 6)
	for i := range digits {
		digits[i] = byte('0' + rand.Intn(10))
	}
	return string(digits)
}
