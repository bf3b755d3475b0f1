//go:build unit

package reservation_test

import (
	"strings"
	"testing"

	"ponabri-api/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
)

func TestNewCode(t *testing.T) {
	t.Run("matches the published format", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			code := reservation.NewCode()
			assert.True(t, strings.HasPrefix(code, reservation.CodePrefix))
			assert.Len(t, code, len(reservation.CodePrefix)+8)
			assert.True(t, reservation.IsValidCode(code), "generated code %q failed validation", code)
		}
	})

	t.Run("codes differ across calls", func(t *testing.T) {
		seen := make(map[string]struct{})
		for i := 0; i < 1000; i++ {
			seen[reservation.NewCode()] = struct{}{}
		}
		assert.Len(t, seen, 1000)
	})
}

func TestIsValidCode(t *testing.T) {
	cases := []struct {
		name  string
		code  string
		valid bool
	}{
		{name: "valid", code: "PONABRI-A1B2C3D4", valid: true},
		{name: "all digits", code: "PONABRI-01234567", valid: true},
		{name: "missing prefix", code: "A1B2C3D4", valid: false},
		{name: "lowercase suffix", code: "PONABRI-a1b2c3d4", valid: false},
		{name: "too short", code: "PONABRI-A1B2C3D", valid: false},
		{name: "too long", code: "PONABRI-A1B2C3D45", valid: false},
		{name: "symbol in suffix", code: "PONABRI-A1B2C3D!", valid: false},
		{name: "empty", code: "", valid: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, reservation.IsValidCode(tc.code))
		})
	}
}
