package auth

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jwtCheck = regexp.MustCompile(`^[A-Za-z0-9-_]*\.[A-Za-z0-9-_]*\.[A-Za-z0-9-_]*$`)

func TestCreateToken(t *testing.T) {
	tokens, err := NewTokens("secret", time.Hour)
	require.NoError(t, err)

	token, err := tokens.CreateToken("5f1d7f3e8b1c2a0012345678", "root")
	require.NoError(t, err)
	assert.Regexp(t, jwtCheck, token)

	claims, err := tokens.CheckToken(token)
	require.NoError(t, err)
	assert.Equal(t, "5f1d7f3e8b1c2a0012345678", claims.Id)
	assert.Equal(t, "root", claims.Username)
}

func TestCheckTokenRejects(t *testing.T) {
	tokens, err := NewTokens("secret", time.Hour)
	require.NoError(t, err)
	other, err := NewTokens("another secret", time.Hour)
	require.NoError(t, err)

	foreign, err := other.CreateToken("id", "root")
	require.NoError(t, err)
	noId, err := tokens.CreateToken("", "root")
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":       "not.a.token",
		"empty":         "",
		"wrong secret":  foreign,
		"no account id": noId,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.CheckToken(token)
			assert.True(t, errors.Is(err, ErrTokenInvalid), err)
		})
	}
}

func TestCheckTokenExpired(t *testing.T) {
	tokens, err := NewTokens("secret", time.Minute)
	require.NoError(t, err)
	tokens.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := tokens.CreateToken("id", "root")
	require.NoError(t, err)

	tokens.now = time.Now
	_, err = tokens.CheckToken(token)
	assert.True(t, errors.Is(err, ErrTokenInvalid))
}

func TestNewTokensRequiresSecret(t *testing.T) {
	_, err := NewTokens("", time.Hour)
	assert.Error(t, err)
}

func TestTokenFromHeader(t *testing.T) {
	token, err := TokenFromHeader("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	for _, header := range []string{"", "Bearer ", "Basic abc", "abc.def.ghi"} {
		_, err := TokenFromHeader(header)
		assert.True(t, errors.Is(err, ErrTokenMissing), header)
	}
}

func TestPasswords(t *testing.T) {
	passwords := NewPasswords(4)
	hash, err := passwords.Hash("sekret")
	require.NoError(t, err)
	assert.NotEqual(t, "sekret", hash)

	assert.NoError(t, passwords.Compare(hash, "sekret"))
	assert.True(t, errors.Is(passwords.Compare(hash, "wrong"), ErrPasswordMismatch))
}
