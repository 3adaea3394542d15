package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"holidaze/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store down")

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	chatID := int64(42)

	authAPI := new(mockAuthAPI)
	authAPI.On("Login", mock.Anything, models.LoginInput{Email: "alice@stud.noroff.no", Password: "hunter22"}).
		Return(&models.AuthUser{Name: "alice", AccessToken: "tok", VenueManager: true}, nil)

	sessions := newMemSessions()
	s := NewAuthService(authAPI, sessions, nil, testLogger())

	t.Run("anonymous before login", func(t *testing.T) {
		assert.False(t, s.Session(ctx, chatID).IsAuthenticated())
	})

	t.Run("login persists token name and manager flag", func(t *testing.T) {
		user, err := s.Login(ctx, chatID, "alice@stud.noroff.no", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Name)

		session := s.Session(ctx, chatID)
		require.True(t, session.IsAuthenticated())
		assert.Equal(t, "tok", session.Token)
		assert.True(t, session.VenueManager)
	})

	t.Run("manager flag toggles in place", func(t *testing.T) {
		require.NoError(t, s.SetVenueManager(ctx, chatID, false))
		assert.False(t, s.Session(ctx, chatID).VenueManager)
	})

	t.Run("logout clears everything at once", func(t *testing.T) {
		require.NoError(t, s.Logout(ctx, chatID))
		session := s.Session(ctx, chatID)
		assert.False(t, session.IsAuthenticated())
	})
}

func TestLoginFailureLeavesNoSession(t *testing.T) {
	ctx := context.Background()

	authAPI := new(mockAuthAPI)
	authAPI.On("Login", mock.Anything, mock.Anything).Return(nil, errors.New("Invalid email or password"))

	sessions := newMemSessions()
	s := NewAuthService(authAPI, sessions, nil, testLogger())

	_, err := s.Login(ctx, 1, "alice@stud.noroff.no", "wrong")
	assert.Error(t, err)
	assert.False(t, s.Session(ctx, 1).IsAuthenticated())
}

func TestSessionStoreErrorDegradesToAnonymous(t *testing.T) {
	sessions := newMemSessions()
	sessions.failAll = true

	s := NewAuthService(new(mockAuthAPI), sessions, nil, testLogger())
	assert.False(t, s.Session(context.Background(), 1).IsAuthenticated())
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	input := models.RegisterInput{Name: "bob", Email: "bob@stud.noroff.no", Password: "password1"}

	t.Run("token in response logs in immediately", func(t *testing.T) {
		authAPI := new(mockAuthAPI)
		authAPI.On("Register", mock.Anything, input).
			Return(&models.AuthUser{Name: "bob", AccessToken: "tok"}, nil)

		sessions := newMemSessions()
		s := NewAuthService(authAPI, sessions, nil, testLogger())

		user, loggedIn, err := s.Register(ctx, 7, input)
		require.NoError(t, err)
		assert.True(t, loggedIn)
		assert.Equal(t, "bob", user.Name)
		assert.True(t, s.Session(ctx, 7).IsAuthenticated())
	})

	t.Run("no token means explicit login required", func(t *testing.T) {
		authAPI := new(mockAuthAPI)
		authAPI.On("Register", mock.Anything, input).
			Return(&models.AuthUser{Name: "bob"}, nil)

		sessions := newMemSessions()
		s := NewAuthService(authAPI, sessions, nil, testLogger())

		_, loggedIn, err := s.Register(ctx, 7, input)
		require.NoError(t, err)
		assert.False(t, loggedIn)
		assert.False(t, s.Session(ctx, 7).IsAuthenticated())
	})
}

func unsignedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return token
}

func TestTokenExpiry(t *testing.T) {
	t.Run("garbage token", func(t *testing.T) {
		_, ok := TokenExpiry("not-a-jwt")
		assert.False(t, ok)
	})

	t.Run("empty token", func(t *testing.T) {
		_, ok := TokenExpiry("")
		assert.False(t, ok)
	})

	t.Run("exp claim read without verification", func(t *testing.T) {
		wantExp := time.Now().Add(time.Hour).Truncate(time.Second)
		exp, ok := TokenExpiry(unsignedToken(t, jwt.MapClaims{"exp": wantExp.Unix()}))
		require.True(t, ok)
		assert.True(t, exp.Equal(wantExp))
	})
}

func TestExpired(t *testing.T) {
	s := NewAuthService(new(mockAuthAPI), newMemSessions(), nil, testLogger())

	t.Run("past exp claim is expired", func(t *testing.T) {
		token := unsignedToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Minute).Unix()})
		assert.True(t, s.Expired(&models.Session{Token: token, Name: "alice"}))
	})

	t.Run("future exp claim is live", func(t *testing.T) {
		token := unsignedToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
		assert.False(t, s.Expired(&models.Session{Token: token, Name: "alice"}))
	})

	t.Run("opaque token counts as live", func(t *testing.T) {
		assert.False(t, s.Expired(&models.Session{Token: "not-a-jwt", Name: "alice"}))
	})

	t.Run("anonymous session is not expired", func(t *testing.T) {
		assert.False(t, s.Expired(nil))
	})
}
