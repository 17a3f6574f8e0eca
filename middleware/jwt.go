package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Claims extends jwt.RegisteredClaims with application-specific fields.
type Claims struct {
	Username string `json:"username"`
	UserHash string `json:"user_hash"`
	jwt.RegisteredClaims
}

// UserHashFromUsername returns a deterministic HMAC hash for the given username and key.
func UserHashFromUsername(username string, key []byte) string {
	normalized := strings.ToLower(strings.TrimSpace(username))
	mac := hmac.New(sha256.New, key)
	_, _ = mac.Write([]byte(normalized))
	return hex.EncodeToString(mac.Sum(nil))
}

// JWT returns an Echo middleware that validates the Authorization header
// token (bare or with a "Bearer " prefix) using the provided signing key.
func JWT(key []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
			if token == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "missing authorization header")
			}

			claims := &Claims{}
			tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
				return key, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil {
				if errors.Is(err, jwt.ErrSignatureInvalid) || errors.Is(err, jwt.ErrTokenSignatureInvalid) ||
					errors.Is(err, jwt.ErrTokenExpired) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
			if !tkn.Valid || !hmac.Equal([]byte(claims.UserHash), []byte(UserHashFromUsername(claims.Username, key))) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("username", claims.Username)
			c.Set("user_hash", claims.UserHash)
			return next(c)
		}
	}
}
