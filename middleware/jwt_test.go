package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	mw "github.com/padraicbc/swimtimes/middleware"
)

var key = []byte("k")

func sign(t *testing.T, c *mw.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(key)
	require.NoError(t, err)
	return s
}

func serve(header string) *httptest.ResponseRecorder {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("username").(string))
	}, mw.JWT(key))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func claims(user, hash string) *mw.Claims {
	return &mw.Claims{
		Username: user,
		UserHash: hash,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestJWT(t *testing.T) {
	good := sign(t, claims("coach", mw.UserHashFromUsername("coach", key)))

	rec := serve("Bearer " + good)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "coach", rec.Body.String())

	require.Equal(t, http.StatusOK, serve(good).Code)
	require.Equal(t, http.StatusBadRequest, serve("").Code)
	require.Equal(t, http.StatusBadRequest, serve("Bearer garbage").Code)

	forged := sign(t, claims("admin", mw.UserHashFromUsername("coach", key)))
	require.Equal(t, http.StatusUnauthorized, serve(forged).Code)
}

func TestUserHashNormalizes(t *testing.T) {
	require.Equal(t, mw.UserHashFromUsername("Coach ", key), mw.UserHashFromUsername("coach", key))
	require.NotEqual(t, mw.UserHashFromUsername("coach", key), mw.UserHashFromUsername("coach", []byte("other")))
}
