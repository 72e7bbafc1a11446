package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)
	return token
}

func validClaims(userID uuid.UUID, role string) Claims {
	return Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

// ========================================
// PARSE TOKEN TESTS
// ========================================

func TestParseToken_Valid(t *testing.T) {
	userID := uuid.New()
	raw := signToken(t, validClaims(userID, "STUDENT"), testSecret)

	claims, err := ParseToken(raw, testSecret)

	assert.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "STUDENT", claims.Role)
}

func TestParseToken_WrongSecret(t *testing.T) {
	raw := signToken(t, validClaims(uuid.New(), "STUDENT"), "other-secret")

	claims, err := ParseToken(raw, testSecret)

	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestParseToken_Expired(t *testing.T) {
	claims := validClaims(uuid.New(), "STUDENT")
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	raw := signToken(t, claims, testSecret)

	got, err := ParseToken(raw, testSecret)

	assert.Error(t, err)
	assert.Nil(t, got)
}

// ========================================
// REQUIRE ROLE TESTS
// ========================================

func serveWithRole(t *testing.T, actorRole, requiredRole string) *httptest.ResponseRecorder {
	t.Helper()

	router := gin.New()
	router.GET("/staff-only",
		func(c *gin.Context) { c.Set(UserRoleKey, actorRole) },
		RequireRole(requiredRole),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/staff-only", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRequireRole_Allows(t *testing.T) {
	w := serveWithRole(t, "STAFF", "STAFF")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_Forbids(t *testing.T) {
	w := serveWithRole(t, "STUDENT", "STAFF")

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_NoRoleInContext(t *testing.T) {
	router := gin.New()
	router.GET("/staff-only", RequireRole("STAFF"), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/staff-only", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
