package internal

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const RoleAdmin = "admin"

type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator signs in the single site admin.
type Authenticator struct {
	signingKey   []byte
	username     string
	passwordHash []byte
	ttl          time.Duration
	now          func() time.Time
}

func NewAuthenticator(signingKey, username, passwordHash string, ttl time.Duration) *Authenticator {
	return &Authenticator{
		signingKey:   []byte(signingKey),
		username:     username,
		passwordHash: []byte(passwordHash),
		ttl:          ttl,
		now:          time.Now,
	}
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (a *Authenticator) Login(in *LoginRequest) (*LoginResponse, error) {

	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if in.Username != a.username {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(in.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	now := a.now()
	exp := now.Add(a.ttl)

	claims := &AdminClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   in.Username,
			Issuer:    "cms service",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.signingKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errGenerateToken, err)
	}
	return &LoginResponse{Token: ss, ExpiresAt: exp.Unix()}, nil
}

func (a *Authenticator) verify(tokenStr string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, new(AdminClaims), func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.signingKey, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, errInvalidToken
	}
	return claims, nil
}

// RequireAdmin rejects requests without a valid admin bearer token.
func (a *Authenticator) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {

		tokenStr, err := extractToken(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := a.verify(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidToken.Error()})
			return
		}

		if claims.Role != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errNotAdmin.Error()})
			return
		}

		c.Set("admin", claims.Subject)
		c.Next()
	}
}

// extractToken returns the token part of a "Bearer <token>" header.
func extractToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", errNoToken
	}

	v := strings.Fields(h)
	if len(v) != 2 || !strings.EqualFold(v[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}
	return v[1], nil
}
