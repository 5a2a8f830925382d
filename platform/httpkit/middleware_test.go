package httpkit

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"presupuestos_backend/platform/apperr"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

type jwtConfigStub struct{}

func (jwtConfigStub) GetJWTAccessSecret() string { return testSecret }

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func baseClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   uuid.NewString(),
		"email": "ana@example.com",
		"role":  string(RoleSales),
		"type":  TokenTypeAccess,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
}

func newProtectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthRequired(jwtConfigStub{}), func(c *gin.Context) {
		id, ok := MustGetIdentity(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": id.Email, "role": id.Role})
	})
	r.GET("/admin", AuthRequired(jwtConfigStub{}), RequireRole(RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doGet(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequiredAcceptsValidAccessToken(t *testing.T) {
	rec := doGet(newProtectedRouter(), "/me", signToken(t, baseClaims()))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthRequiredRejectsTokenWithoutRole(t *testing.T) {
	claims := baseClaims()
	delete(claims, "role")
	rec := doGet(newProtectedRouter(), "/me", signToken(t, claims))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for token without role, got %d", rec.Code)
	}
}

func TestAuthRequiredRejectsUnknownRole(t *testing.T) {
	claims := baseClaims()
	claims["role"] = "SUPERUSER"
	rec := doGet(newProtectedRouter(), "/me", signToken(t, claims))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown role, got %d", rec.Code)
	}
}

func TestAuthRequiredRejectsNonAccessToken(t *testing.T) {
	claims := baseClaims()
	claims["type"] = "refresh"
	rec := doGet(newProtectedRouter(), "/me", signToken(t, claims))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	rec := doGet(newProtectedRouter(), "/me", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRoleForbidsSales(t *testing.T) {
	rec := doGet(newProtectedRouter(), "/admin", signToken(t, baseClaims()))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	claims := baseClaims()
	claims["role"] = string(RoleAdmin)
	rec = doGet(newProtectedRouter(), "/admin", signToken(t, claims))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
}

func TestHandleErrorMapsKinds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err  error
		want int
	}{
		{apperr.NotFound("quote not found"), http.StatusNotFound},
		{apperr.ReferenceNotFound("client", "c1"), http.StatusBadRequest},
		{errors.New("driver exploded"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		if !HandleError(c, tc.err) {
			t.Fatal("expected error to be handled")
		}
		if rec.Code != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, rec.Code)
		}
	}
}
