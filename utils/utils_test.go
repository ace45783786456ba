package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		otp, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, otp, 6)
		for _, c := range otp {
			assert.True(t, c >= '0' && c <= '9', "OTP must be numeric, got %q", otp)
		}
		seen[otp] = true
	}
	// 20 draws from a million values colliding down to one would mean a
	// broken generator
	assert.Greater(t, len(seen), 1)
}

func TestOTPHashRoundTrip(t *testing.T) {
	otp := "482913"
	hash, err := HashOTP(otp)
	require.NoError(t, err)
	assert.NotEqual(t, otp, hash)

	assert.True(t, CheckOTPHash(otp, hash))
	assert.False(t, CheckOTPHash("000001", hash))
	assert.False(t, CheckOTPHash(otp, "not-a-hash"))
}

func TestParseJSON(t *testing.T) {
	var payload struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"R1"}`))
	require.NoError(t, ParseJSON(req, &payload))
	assert.Equal(t, "R1", payload.Name)

	empty := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.Error(t, ParseJSON(empty, &payload))
}
