package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thunderbolt-trucking/dispatch-api/internal/constants"
	"github.com/thunderbolt-trucking/dispatch-api/internal/logger"
	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
	"github.com/thunderbolt-trucking/dispatch-api/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeUsers is an in-memory UserLoader.
type fakeUsers map[uint64]*models.User

func (f fakeUsers) GetUser(id uint64) (*models.User, error) {
	user, ok := f[id]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	return user, nil
}

type failingUsers struct{}

func (failingUsers) GetUser(uint64) (*models.User, error) {
	return nil, errors.New("connection refused")
}

func newUsers() fakeUsers {
	return fakeUsers{
		5: {ID: 5, Username: "driver", Role: models.RoleDriver},
		6: {ID: 6, Username: "dispatcher", Role: models.RoleDispatcher},
		9: {ID: 9, Username: "admin", Role: models.RoleAdmin},
	}
}

func newAuthRouter(tokens *services.TokenService, users UserLoader) *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))

	r.POST("/login-as/:id", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		session := sessions.Default(c)
		session.Set(constants.ContextKeyUserID, id)
		if err := session.Save(); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})

	protected := r.Group("/", RequireAuth(tokens, users))
	protected.GET("/me", func(c *gin.Context) {
		id, _ := GetUserID(c)
		role, _ := GetRole(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	protected.GET("/admin", RequireRole(models.RoleAdmin, models.RoleDispatcher), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return r
}

func bearerGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_Bearer(t *testing.T) {
	tokens := services.NewTokenService("secret", time.Hour)
	r := newAuthRouter(tokens, newUsers())

	token, err := tokens.Issue(&models.User{ID: 9, Username: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)

	w := bearerGet(r, "/me", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id": 9, "role": "admin"}`, w.Body.String())
}

func TestRequireAuth_UsesStoredRole(t *testing.T) {
	tokens := services.NewTokenService("secret", time.Hour)
	users := newUsers()
	r := newAuthRouter(tokens, users)

	token, err := tokens.Issue(users[9])
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, bearerGet(r, "/admin", token).Code)

	// demoted after the token was issued
	users[9] = &models.User{ID: 9, Username: "admin", Role: models.RoleDriver}
	w := bearerGet(r, "/me", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id": 9, "role": "driver"}`, w.Body.String())
	assert.Equal(t, http.StatusForbidden, bearerGet(r, "/admin", token).Code)

	delete(users, 9)
	w = bearerGet(r, "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRequireAuth_LookupFailure(t *testing.T) {
	tokens := services.NewTokenService("secret", time.Hour)
	r := newAuthRouter(tokens, failingUsers{})

	token, err := tokens.Issue(&models.User{ID: 9, Username: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, bearerGet(r, "/me", token).Code)
}

func TestRequireAuth_RejectsBadHeaders(t *testing.T) {
	r := newAuthRouter(services.NewTokenService("secret", time.Hour), newUsers())

	for _, header := range []string{"Bearer", "Basic abc", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRequireAuth_SessionFallbackAndRoleGuard(t *testing.T) {
	users := newUsers()
	r := newAuthRouter(services.NewTokenService("secret", time.Hour), users)

	login := func(id string) []*http.Cookie {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login-as/"+id, nil))
		require.Equal(t, http.StatusNoContent, w.Code)
		return w.Result().Cookies()
	}

	get := func(path string, cookies []*http.Cookie) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	driver := login("5")
	assert.Equal(t, http.StatusOK, get("/me", driver))
	assert.Equal(t, http.StatusForbidden, get("/admin", driver))

	dispatcher := login("6")
	assert.Equal(t, http.StatusOK, get("/admin", dispatcher))

	delete(users, 6)
	assert.Equal(t, http.StatusUnauthorized, get("/admin", dispatcher))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(logger.Discard()))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get(constants.HeaderRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(constants.HeaderRequestID, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(constants.HeaderRequestID))
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2, logger.Discard())

	r := gin.New()
	r.POST("/login", limiter.Handler(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// a different client has its own bucket
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
