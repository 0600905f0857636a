package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-dash-api/internal/models"
)

func signToken(t *testing.T, secret string, claims *models.JWTClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func freshClaims(role models.UserRole) *models.JWTClaims {
	return &models.JWTClaims{
		UserID:   "user-1",
		Role:     role,
		Username: "guru.budi",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestTokenValidator_AcceptsValidToken(t *testing.T) {
	validator := NewTokenValidator("secret")
	signed := signToken(t, "secret", freshClaims(models.RoleTeacher))

	claims, err := validator.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleTeacher, claims.Role)
}

func TestTokenValidator_RejectsWrongSecret(t *testing.T) {
	validator := NewTokenValidator("secret")
	signed := signToken(t, "other-secret", freshClaims(models.RoleTeacher))

	_, err := validator.Validate(signed)
	assert.Error(t, err)
}

func TestTokenValidator_RejectsExpiredToken(t *testing.T) {
	validator := NewTokenValidator("secret")
	claims := freshClaims(models.RoleTeacher)
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	signed := signToken(t, "secret", claims)

	_, err := validator.Validate(signed)
	assert.Error(t, err)
}

func protectedRouter(secret string, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWT(NewTokenValidator(secret))}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	r := protectedRouter("secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddleware_MalformedHeader(t *testing.T) {
	r := protectedRouter("secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	r := protectedRouter("secret")
	signed := signToken(t, "secret", freshClaims(models.RoleTeacher))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoles_ForbidsOtherRole(t *testing.T) {
	r := protectedRouter("secret", RequireRoles(models.RoleAdmin))
	signed := signToken(t, "secret", freshClaims(models.RoleTeacher))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoles_AllowsMatchingRole(t *testing.T) {
	r := protectedRouter("secret", RequireRoles(models.RoleAdmin))
	signed := signToken(t, "secret", freshClaims(models.RoleAdmin))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
