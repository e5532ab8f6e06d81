package otp_test

import (
	"testing"

	"github.com/martinmanurung/cinevault/pkg/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNumeric(t *testing.T) {
	code, err := otp.GenerateNumeric(6)
	require.NoError(t, err)
	assert.Regexp(t, `^\d{6}$`, code)

	// non-positive lengths fall back to six digits
	code, err = otp.GenerateNumeric(0)
	require.NoError(t, err)
	assert.Len(t, code, 6)
}

func TestGenerateResetToken(t *testing.T) {
	first, err := otp.GenerateResetToken()
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{64}$`, first)

	second, err := otp.GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
