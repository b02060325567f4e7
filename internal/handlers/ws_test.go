// internal/handlers/ws_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/majakthesecond-sys/USA-TANK-V4-5/internal/auth"
)

func TestEnsurePlayerIDMintsAndKeepsIdentity(t *testing.T) {
	auth.Init()
	logger := logrus.New()

	req := httptest.NewRequest("GET", "/ws", nil)
	w := httptest.NewRecorder()
	first := ensurePlayerID(w, req, logger)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, playerCookieName, cookies[0].Name)

	// A returning client presenting the cookie keeps the same id.
	req2 := httptest.NewRequest("GET", "/ws", nil)
	req2.AddCookie(cookies[0])
	w2 := httptest.NewRecorder()
	second := ensurePlayerID(w2, req2, logger)

	assert.Equal(t, first, second)
	assert.Empty(t, w2.Result().Cookies(), "no new cookie for a valid token")
}

func TestEnsurePlayerIDRejectsBadCookie(t *testing.T) {
	auth.Init()
	logger := logrus.New()

	req := httptest.NewRequest("GET", "/ws", nil)
	req.AddCookie(&http.Cookie{Name: playerCookieName, Value: "garbage"})
	w := httptest.NewRecorder()
	id := ensurePlayerID(w, req, logger)

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", id.String())
	require.Len(t, w.Result().Cookies(), 1, "a fresh cookie replaces the bad one")
}

func TestAsInt(t *testing.T) {
	assert.Equal(t, 3, asInt(float64(3)))
	assert.Equal(t, 7, asInt("7"))
	assert.Equal(t, 0, asInt("seven"))
	assert.Equal(t, 0, asInt(nil))
	assert.Equal(t, 0, asInt(true))
}

func TestAsString(t *testing.T) {
	assert.Equal(t, "abrams", asString("abrams"))
	assert.Equal(t, "", asString(nil))
	assert.Equal(t, "5", asString(float64(5)))
}
