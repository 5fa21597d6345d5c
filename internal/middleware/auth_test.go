package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oggyb/linkup/internal/db"
	"github.com/oggyb/linkup/internal/middleware"
	"github.com/oggyb/linkup/internal/repository"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, subject, email string, expiry time.Duration) string {
	t.Helper()

	claims := middleware.Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))

	r := gin.New()
	r.Use(middleware.Authenticate(testSecret))
	r.Use(middleware.ResolveUser(repository.NewUserRepository(gdb)))
	r.GET("/whoami", func(c *gin.Context) {
		claims := middleware.TokenClaims(c)
		c.JSON(http.StatusOK, gin.H{
			"subject": claims.Subject,
			"userId":  middleware.UserID(c),
		})
	})
	return r, gdb
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	r, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsBadSignature(t *testing.T) {
	r, _ := setupRouter(t)

	claims := jwt.RegisteredClaims{
		Subject:   "someone",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	r, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "someone", "a@test.com", -time.Minute))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateAcceptsValidToken(t *testing.T) {
	r, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "new-subject", "a@test.com", time.Hour))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// Unprovisioned subject resolves to no internal id, not a rejection.
	assert.Contains(t, w.Body.String(), `"userId":0`)
}

func TestResolveUserMapsProvisionedSubject(t *testing.T) {
	r, gdb := setupRouter(t)

	user := db.User{ExternalUID: "known-subject", Email: "known@test.com"}
	require.NoError(t, gdb.Create(&user).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "known-subject", "known@test.com", time.Hour))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"userId":%d`, user.ID))
	assert.Contains(t, w.Body.String(), `"subject":"known-subject"`)
}
