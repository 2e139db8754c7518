package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSigningKey = "test-signing-key"

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	return NewAuthenticator(testSigningKey, "admin", hash, time.Hour)
}

func TestLogin(t *testing.T) {
	a := newTestAuthenticator(t)

	res, err := a.Login(&LoginRequest{Username: "admin", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	claims, err := a.verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "admin", claims.Subject)
}

func TestLogin_Rejected(t *testing.T) {
	a := newTestAuthenticator(t)

	tests := []struct {
		name string
		in   LoginRequest
	}{
		{"wrong password", LoginRequest{Username: "admin", Password: "battery staple"}},
		{"wrong user", LoginRequest{Username: "root", Password: "correct horse"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Login(&tt.in)
			assert.ErrorIs(t, err, errInvalidCredentials)
		})
	}

	_, err := a.Login(&LoginRequest{Username: "admin"})
	var valErrs myValidatorErrs
	assert.ErrorAs(t, err, &valErrs)
}

func signToken(t *testing.T, key string, claims *AdminClaims) string {
	t.Helper()
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return ss
}

func TestRequireAdmin(t *testing.T) {
	a := newTestAuthenticator(t)

	router := gin.New()
	router.GET("/admin/ping", a.RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("admin"))
	})

	valid := signToken(t, testSigningKey, &AdminClaims{
		Role:             RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "admin", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	expired := signToken(t, testSigningKey, &AdminClaims{
		Role:             RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
	})
	visitor := signToken(t, testSigningKey, &AdminClaims{Role: "visitor"})
	forged := signToken(t, "other-key", &AdminClaims{Role: RoleAdmin})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + valid, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"malformed", valid, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong key", "Bearer " + forged, http.StatusUnauthorized},
		{"not admin", "Bearer " + visitor, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
