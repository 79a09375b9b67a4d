package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "hello", ToString("hello"))
	assert.Equal(t, "42", ToString(float64(42)))
	assert.Equal(t, "4.5", ToString(4.5))
	assert.Equal(t, "true", ToString(true))
}

func TestToInt64(t *testing.T) {
	assert.Equal(t, int64(0), ToInt64(nil))
	assert.Equal(t, int64(42), ToInt64(float64(42)))
	assert.Equal(t, int64(42), ToInt64("42"))
	assert.Equal(t, int64(42), ToInt64(" 42.9 "))
	assert.Equal(t, int64(0), ToInt64("not a number"))
	assert.Equal(t, int64(1), ToInt64(true))
}

func TestNormalizeMobile(t *testing.T) {
	assert.Equal(t, "03001234567", NormalizeMobile("0300-1234567"))
	assert.Equal(t, "03001234567", NormalizeMobile("0300 123 4567"))
	assert.Equal(t, "923001234567", NormalizeMobile("+92 300 1234567"))
	assert.Equal(t, "", NormalizeMobile("abc"))
}

func TestRandomCode(t *testing.T) {
	code := RandomCode(6)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'), string(r))
	}
}

func TestRandomOutcomesValid(t *testing.T) {
	for _, o := range RandomOutcomes(500) {
		assert.Contains(t, []string{"DRAGON", "TIGER", "TIE"}, string(o))
	}
}

func TestRandomOTP(t *testing.T) {
	otp := RandomOTP()
	assert.Len(t, otp, 6)
	for _, r := range otp {
		assert.True(t, r >= '0' && r <= '9')
	}
}
