package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Decaded/MSGA-server/internal/config"
	"github.com/Decaded/MSGA-server/internal/models"
	"github.com/Decaded/MSGA-server/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.Parse([]byte("jwt_secret: test-secret\n"), "test.yml")
	require.NoError(t, err)

	st := store.NewMemory()
	return buildRouter(zap.NewNop(), cfg, st, nil), st
}

func seedAdmin(t *testing.T, st store.Backend) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-pw"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, st.Set(store.Users, map[string]models.User{
		"1": {
			ID:           1,
			Username:     "admin",
			PasswordHash: string(hash),
			SHProfileURL: "https://www.scribblehub.com/profile/1/admin",
			Role:         models.RoleAdmin,
			Approved:     true,
		},
	}))
}

func do(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func login(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	w := do(r, http.MethodPost, "/login", "", `{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestVersionEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/version", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "msga-server", body["name"])
	assert.NotEmpty(t, body["version"])
}

func TestUnknownRouteAndMethod(t *testing.T) {
	r, _ := newTestRouter(t)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/nope", "", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(r, http.MethodDelete, "/version", "", "").Code)
}

// Full lifecycle: register → blocked login → admin approval → login →
// report submission → logout revokes the token.
func TestAccountAndReportLifecycle(t *testing.T) {
	r, st := newTestRouter(t)
	seedAdmin(t, st)

	w := do(r, http.MethodPost, "/register", "",
		`{"username":"decaded","shProfileUrl":"https://www.scribblehub.com/profile/42/decaded","password":"hunter22"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	registered := decode(t, w)
	assert.Equal(t, float64(2), registered["id"])
	assert.NotContains(t, w.Body.String(), "passwordHash")

	w = do(r, http.MethodPost, "/login", "", `{"username":"decaded","password":"hunter22"}`)
	assert.Equal(t, http.StatusForbidden, w.Code, "unapproved account cannot log in")

	adminToken := login(t, r, "admin", "admin-pw")
	w = do(r, http.MethodPatch, "/users/2/approve", adminToken, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	userToken := login(t, r, "decaded", "hunter22")

	w = do(r, http.MethodPost, "/works", userToken,
		`{"url":"https://www.scribblehub.com/series/123456/stolen-story/","title":"Stolen Story","reason":"repost"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, "decaded", created["reporter"], "authenticated reports carry the username")
	assert.Equal(t, string(models.StatusPendingReview), created["status"])

	w = do(r, http.MethodGet, "/works", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Stolen Story")

	w = do(r, http.MethodPost, "/logout", userToken, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/user/profile", userToken, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code, "logout revokes the token")
}

func TestAnonymousReportSubmission(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/profiles", "",
		`{"url":"https://www.scribblehub.com/profile/777/pirate","reason":"reposts stolen works"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, models.AnonymousReporter, decode(t, w)["reporter"])
}

func TestAdminOnlySurface(t *testing.T) {
	r, st := newTestRouter(t)
	seedAdmin(t, st)
	adminToken := login(t, r, "admin", "admin-pw")

	w := do(r, http.MethodPost, "/register", "",
		`{"username":"pleb","shProfileUrl":"https://www.scribblehub.com/profile/9/pleb","password":"pw"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = do(r, http.MethodPatch, "/users/2/approve", adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	userToken := login(t, r, "pleb", "pw")

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/users", userToken, "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/webhooks", userToken, "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/user/deletion-requests", userToken, "").Code)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/users", adminToken, "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/webhooks", adminToken, "").Code)
}

func TestBackupWithoutConfiguration(t *testing.T) {
	r, st := newTestRouter(t)
	seedAdmin(t, st)
	adminToken := login(t, r, "admin", "admin-pw")

	w := do(r, http.MethodPost, "/backup", adminToken, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not configured")
}

func TestWebhookAdminCRUD(t *testing.T) {
	r, st := newTestRouter(t)
	seedAdmin(t, st)
	adminToken := login(t, r, "admin", "admin-pw")

	w := do(r, http.MethodPost, "/webhooks", adminToken,
		`{"url":"https://discord.com/api/webhooks/123/abc","name":"mods"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodPost, "/webhooks", adminToken,
		`{"url":"https://discord.com/api/webhooks/123/abc","name":"dup"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodDelete, "/webhooks/1", adminToken, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}
