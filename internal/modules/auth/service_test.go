package auth

import (
	"testing"
	"time"

	"github.com/Decaded/MSGA-server/internal/models"
	"github.com/Decaded/MSGA-server/internal/pkg/apperr"
	jwtpkg "github.com/Decaded/MSGA-server/internal/pkg/jwt"
	"github.com/Decaded/MSGA-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileURL = "https://www.scribblehub.com/profile/12345/decaded/"

func newTestService() (*Service, *store.Memory) {
	st := store.NewMemory()
	return NewService(st, time.Hour), st
}

func register(t *testing.T, svc *Service, username, url string) *models.User {
	t.Helper()
	u, err := svc.Register(&RegisterDTO{Username: username, SHProfileURL: url, Password: "hunter22"})
	require.NoError(t, err)
	return u
}

func approve(t *testing.T, st *store.Memory, id int) {
	t.Helper()
	var users map[string]models.User
	require.NoError(t, st.Get(store.Users, &users))
	u := users[store.Key(id)]
	u.Approved = true
	users[store.Key(id)] = u
	require.NoError(t, st.Set(store.Users, users))
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService()

	u := register(t, svc, "decaded", profileURL)
	assert.Equal(t, 1, u.ID)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.False(t, u.Approved, "new accounts await admin approval")
	assert.NotEqual(t, "hunter22", u.PasswordHash)

	u2 := register(t, svc, "other", "https://www.scribblehub.com/profile/999/other")
	assert.Equal(t, 2, u2.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(&RegisterDTO{Username: "", SHProfileURL: profileURL, Password: "pw"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Register(&RegisterDTO{Username: "x", SHProfileURL: "https://example.com/profile/1/x", Password: "pw"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestRegisterConflicts(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc, "decaded", profileURL)

	_, err := svc.Register(&RegisterDTO{Username: "DECADED", SHProfileURL: "https://www.scribblehub.com/profile/2/d", Password: "pw"})
	assert.True(t, apperr.Is(err, apperr.KindConflict), "username match is case-insensitive")

	_, err = svc.Register(&RegisterDTO{Username: "fresh", SHProfileURL: profileURL, Password: "pw"})
	assert.True(t, apperr.Is(err, apperr.KindConflict), "profile URL already registered")
}

func TestLogin(t *testing.T) {
	svc, st := newTestService()
	u := register(t, svc, "decaded", profileURL)

	_, err := svc.Login("nobody", "hunter22")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.Login("decaded", "wrong")
	assert.True(t, apperr.Is(err, apperr.KindAuth))

	_, err = svc.Login("decaded", "hunter22")
	assert.True(t, apperr.Is(err, apperr.KindForbidden), "unapproved accounts cannot log in")

	approve(t, st, u.ID)
	token, err := svc.Login("decaded", "hunter22")
	require.NoError(t, err)

	claims, err := jwtpkg.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "decaded", claims.Username)
	assert.Equal(t, string(models.RoleUser), claims.Role)
}

func TestRevokeIsIdempotent(t *testing.T) {
	svc, st := newTestService()
	expires := time.Now().Add(time.Hour)

	require.NoError(t, svc.Revoke("jti-1", expires))
	require.NoError(t, svc.Revoke("jti-1", expires))
	require.NoError(t, svc.Revoke("", expires), "empty jti is a no-op")

	var blocked map[string]models.BlockedToken
	require.NoError(t, st.Get(store.BlockedTokens, &blocked))
	assert.Len(t, blocked, 1)
	assert.Equal(t, "jti-1", blocked["jti-1"].JTI)
}
