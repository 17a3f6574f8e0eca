package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	mw "github.com/padraicbc/swimtimes/middleware"
	"github.com/padraicbc/swimtimes/models"
)

// tokenTTL is how long a signed-in coach stays signed in.
const tokenTTL = 30 * 24 * time.Hour

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HashPasswordForUser validates username/password input and returns a bcrypt hash for storage.
func HashPasswordForUser(username, password string) (string, error) {
	if strings.TrimSpace(username) == "" {
		return "", errors.New("username is required")
	}
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashedPassword), nil
}

// IssueToken signs a token for username with key.
func IssueToken(username string, key []byte, now time.Time) (string, error) {
	claims := &mw.Claims{
		Username: username,
		UserHash: mw.UserHashFromUsername(username, key),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// Signin validates credentials and returns a JWT token valid for 30 days.
func (h *Handler) Signin(c echo.Context) error {
	var creds credentials
	if err := c.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	creds.Username = strings.TrimSpace(creds.Username)

	user := &models.User{}
	err := h.db.NewSelect().Model(user).
		Where("username = ?", creds.Username).
		Scan(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "incorrect username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	now := time.Now()
	tokenString, err := IssueToken(creds.Username, h.JWTKey, now)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	user.LastSigninAt = now
	if _, err := h.db.NewUpdate().Model(user).Column("last_signin_at").WherePK().
		Exec(c.Request().Context()); err != nil {
		c.Logger().Warnf("record signin for %s: %v", user.Username, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"token": tokenString})
}
