package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/telco-sightings-go/internal/logging"
)

func TestRateLimiterSlidingWindow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	now := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("1.1.1.1"))
	assert.False(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("2.2.2.2"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("1.1.1.1"))
	rl.Stop() // idempotent
}

func TestJWTAuthRejectsExpiredAndUnsigned(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuth("secret"))
	r.GET("/", func(c *gin.Context) {
		claims := c.MustGet(ClaimsKey).(*jwt.RegisteredClaims)
		c.String(http.StatusOK, claims.Subject)
	})

	do := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	valid, err := IssueToken("secret", "alice", time.Hour)
	require.NoError(t, err)
	w := do(valid)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())

	expired, err := IssueToken("secret", "alice", -time.Minute)
	require.NoError(t, err)
	w = do(expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token expired")

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(none).Code)

	assert.Equal(t, http.StatusUnauthorized, do("").Code)

	_, err = IssueToken("", "alice", time.Hour)
	assert.Error(t, err)
}

func TestLoggerWritesRequestFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	r := gin.New()
	r.Use(Logger(logging.NewLogger("info", "json", &buf)))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing?x=1", nil))

	out := buf.String()
	assert.Contains(t, out, `"path":"/missing?x=1"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"level":"warning"`)
}
