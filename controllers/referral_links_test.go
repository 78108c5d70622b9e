package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"boostbot-backend/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLinksRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := NewReferralLinksController(&config.Config{
		ServerBaseURL:          "https://bot.example.com",
		WhatsAppBusinessNumber: "923000000000",
	})
	r := gin.New()
	r.GET("/ref/*path", ctrl.Redirect)
	return r
}

func TestJoinRedirect(t *testing.T) {
	r := newLinksRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ref/AGSP-GOBCKX", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	location := w.Header().Get("Location")
	target, err := url.Parse(location)
	require.NoError(t, err)

	assert.Equal(t, "api.whatsapp.com", target.Host)
	assert.Equal(t, "923000000000", target.Query().Get("phone"))
	text := target.Query().Get("text")
	assert.Contains(t, text, "(Referral code: _AGSP-GOBCKX_)")
}

func TestShareRedirect(t *testing.T) {
	r := newLinksRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ref/share/AGSP-GOBCKX", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	target, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)

	assert.Equal(t, "api.whatsapp.com", target.Host)
	// The share dialog carries no destination number.
	assert.Empty(t, target.Query().Get("phone"))
	assert.Contains(t, target.Query().Get("text"), "https://bot.example.com/ref/AGSP-GOBCKX")
}

func TestReferralLinkFormatRejected(t *testing.T) {
	r := newLinksRouter()

	for _, info := range []string{"agsp-gobckx", "AGSP-GOBCK", "AGSPGOBCKX", "AGSP-GOBCKX1"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ref/"+info, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "info %q should be rejected", info)
	}
}
