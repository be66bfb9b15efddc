package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardkit/guardkit/pkg/cookie"
)

func TestHTTPJarGet(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "remember_web", Value: "abc"})
	w := httptest.NewRecorder()

	jar := cookie.NewHTTPJar(w, r)

	v, ok := jar.Get("remember_web")
	require.True(t, ok)
	assert.Equal(t, "abc", v)

	_, ok = jar.Get("missing")
	assert.False(t, ok)
}

func TestHTTPJarQueue(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	jar := cookie.NewHTTPJar(w, r, cookie.WithSecure(true), cookie.WithDomain("example.com"))
	jar.Queue(cookie.Cookie{Name: "remember_web", Value: "abc", MaxAge: 3600})

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	c := cookies[0]
	assert.Equal(t, "remember_web", c.Name)
	assert.Equal(t, "abc", c.Value)
	assert.Equal(t, 3600, c.MaxAge)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, "example.com", c.Domain)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestHTTPJarForget(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	jar := cookie.NewHTTPJar(w, r)
	jar.Forget("remember_web")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "remember_web", cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestMemoryJarRoundTrip(t *testing.T) {
	t.Parallel()

	jar := cookie.NewMemoryJar()

	_, ok := jar.Get("remember_web")
	assert.False(t, ok)

	jar.Queue(cookie.Cookie{Name: "remember_web", Value: "abc", MaxAge: 3600})
	v, ok := jar.Get("remember_web")
	require.True(t, ok)
	assert.Equal(t, "abc", v)

	jar.Forget("remember_web")
	_, ok = jar.Get("remember_web")
	assert.False(t, ok)

	queued, ok := jar.Queued("remember_web")
	require.True(t, ok)
	assert.Negative(t, queued.MaxAge)
}
