package utils

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/seaguard-dev/shift-coordinator/backend/internal/domain"
)

func TestGenerateRandomOTP(t *testing.T) {
	otp := GenerateRandomOTP()
	require.Len(t, otp, 6)
	for _, r := range otp {
		assert.True(t, unicode.IsDigit(r))
	}
}

func TestUsernameFromEmail(t *testing.T) {
	username := UsernameFromEmail("Noa.Levi@example.org")

	assert.True(t, strings.HasPrefix(username, "noalevi"))
	suffix := strings.TrimPrefix(username, "noalevi")
	require.NotEmpty(t, suffix)
	for _, r := range suffix {
		assert.True(t, unicode.IsDigit(r))
	}
}

func TestGenerateRandomVolunteer(t *testing.T) {
	user, err := GenerateRandomVolunteer("changeme", "example.org")
	require.NoError(t, err)

	assert.Equal(t, domain.RoleVolunteer, user.Role)
	assert.True(t, strings.HasSuffix(user.Email, "@example.org"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("changeme")))
}
