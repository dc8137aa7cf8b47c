package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smcd-ma/portal/core/cookie"
)

const testSecret = "test-secret-key-32-characters!!!"
const testSecret2 = "another-secret-key-32-chars!!!!!"

// replay builds a request carrying every cookie set on w.
func replay(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge >= 0 {
			r.AddCookie(c)
		}
	}
	return r
}

func TestManager_BasicOperations(t *testing.T) {
	t.Run("set and get cookie", func(t *testing.T) {
		m, err := cookie.New([]string{testSecret})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, m.Set(w, "test", "value123"))

		value, err := m.Get(replay(w), "test")
		require.NoError(t, err)
		assert.Equal(t, "value123", value)
	})

	t.Run("cookie not found", func(t *testing.T) {
		m, err := cookie.New([]string{testSecret})
		require.NoError(t, err)

		_, err = m.Get(httptest.NewRequest(http.MethodGet, "/", nil), "nonexistent")
		assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
	})

	t.Run("delete cookie", func(t *testing.T) {
		m, err := cookie.New([]string{testSecret})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		m.Delete(w, "test")

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "test", cookies[0].Name)
		assert.Equal(t, -1, cookies[0].MaxAge)
		assert.Empty(t, cookies[0].Value)
	})
}

func TestManager_SignedCookies(t *testing.T) {
	t.Run("set and get signed cookie", func(t *testing.T) {
		m, err := cookie.New([]string{testSecret})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "signed", "opaque-token"))

		raw := w.Result().Cookies()[0].Value
		assert.Contains(t, raw, "|")

		value, err := m.GetSigned(replay(w), "signed")
		require.NoError(t, err)
		assert.Equal(t, "opaque-token", value)
	})

	t.Run("detect tampering", func(t *testing.T) {
		m, err := cookie.New([]string{testSecret})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "signed", "opaque-token"))

		raw := w.Result().Cookies()[0].Value
		encoded, sig, _ := strings.Cut(raw, "|")
		tampered := encoded + "x|" + sig

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "signed", Value: tampered})

		_, err = m.GetSigned(r, "signed")
		assert.Error(t, err)
	})

	t.Run("missing separator", func(t *testing.T) {
		m, err := cookie.New([]string{testSecret})
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "signed", Value: "plain"})

		_, err = m.GetSigned(r, "signed")
		assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
	})
}

func TestManager_EncryptedCookies(t *testing.T) {
	t.Run("set and get encrypted cookie", func(t *testing.T) {
		m, err := cookie.New([]string{testSecret})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, m.SetEncrypted(w, "secret", `{"email":"admin@smcd.ma"}`))

		assert.NotContains(t, w.Result().Cookies()[0].Value, "admin")

		value, err := m.GetEncrypted(replay(w), "secret")
		require.NoError(t, err)
		assert.Equal(t, `{"email":"admin@smcd.ma"}`, value)
	})

	t.Run("cannot decrypt with wrong key", func(t *testing.T) {
		m1, err := cookie.New([]string{testSecret})
		require.NoError(t, err)
		m2, err := cookie.New([]string{testSecret2})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, m1.SetEncrypted(w, "secret", "data"))

		_, err = m2.GetEncrypted(replay(w), "secret")
		assert.ErrorIs(t, err, cookie.ErrDecryptionFailed)
	})

	t.Run("garbage value", func(t *testing.T) {
		m, err := cookie.New([]string{testSecret})
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "secret", Value: "not-base64!!"})

		_, err = m.GetEncrypted(r, "secret")
		assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
	})
}

func TestManager_KeyRotation(t *testing.T) {
	old, err := cookie.New([]string{testSecret})
	require.NoError(t, err)
	rotated, err := cookie.New([]string{testSecret2, testSecret})
	require.NoError(t, err)

	t.Run("decrypt with old key", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, old.SetEncrypted(w, "enc", "value"))

		value, err := rotated.GetEncrypted(replay(w), "enc")
		require.NoError(t, err)
		assert.Equal(t, "value", value)
	})

	t.Run("verify signature with old key", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, old.SetSigned(w, "sig", "value"))

		value, err := rotated.GetSigned(replay(w), "sig")
		require.NoError(t, err)
		assert.Equal(t, "value", value)
	})
}

func TestManager_FlashMessages(t *testing.T) {
	type toast struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	}

	m, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, m.SetFlash(w, "toast", toast{Kind: "success", Message: "Déconnexion réussie"}))

	r := replay(w)
	w2 := httptest.NewRecorder()

	var got toast
	require.NoError(t, m.GetFlash(w2, r, "toast", &got))
	assert.Equal(t, "Déconnexion réussie", got.Message)

	deleted := w2.Result().Cookies()
	require.Len(t, deleted, 1)
	assert.Equal(t, -1, deleted[0].MaxAge)
}

func TestManager_SizeLimit(t *testing.T) {
	m, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	t.Run("enforce size limit", func(t *testing.T) {
		err := m.Set(httptest.NewRecorder(), "big", strings.Repeat("a", 5000))

		var tooLarge cookie.ErrCookieTooLarge
		require.ErrorAs(t, err, &tooLarge)
		assert.Equal(t, "big", tooLarge.Name)
	})

	t.Run("allow within limit", func(t *testing.T) {
		assert.NoError(t, m.Set(httptest.NewRecorder(), "small", strings.Repeat("a", 100)))
	})
}

func TestManager_Options(t *testing.T) {
	m, err := cookie.New([]string{testSecret},
		cookie.WithPath("/admin"),
		cookie.WithSecure(true),
		cookie.WithSameSite(http.SameSiteLaxMode),
	)
	require.NoError(t, err)

	t.Run("apply defaults", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, m.Set(w, "c", "v"))

		c := w.Result().Cookies()[0]
		assert.Equal(t, "/admin", c.Path)
		assert.True(t, c.Secure)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	})

	t.Run("override defaults per cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, m.Set(w, "c", "v", cookie.WithPath("/"), cookie.WithMaxAge(3600)))

		c := w.Result().Cookies()[0]
		assert.Equal(t, "/", c.Path)
		assert.Equal(t, 3600, c.MaxAge)
		assert.False(t, c.Expires.IsZero())
	})
}

func TestManager_Validation(t *testing.T) {
	t.Run("require secret", func(t *testing.T) {
		_, err := cookie.New(nil)
		assert.ErrorIs(t, err, cookie.ErrNoSecret)

		_, err = cookie.New([]string{""})
		assert.ErrorIs(t, err, cookie.ErrNoSecret)
	})

	t.Run("validate secret length", func(t *testing.T) {
		_, err := cookie.New([]string{"short"})
		assert.ErrorIs(t, err, cookie.ErrSecretTooShort)
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Run("parse comma-separated secrets", func(t *testing.T) {
		m, err := cookie.NewFromConfig(cookie.Config{
			Secrets: " " + testSecret + " , ," + testSecret2,
			Path:    "/",
			Secure:  true,
		})
		require.NoError(t, err)
		assert.True(t, m.Defaults().Secure)
	})

	t.Run("empty secrets", func(t *testing.T) {
		_, err := cookie.NewFromConfig(cookie.Config{})
		assert.ErrorIs(t, err, cookie.ErrNoSecret)
	})

	t.Run("max size applies", func(t *testing.T) {
		m, err := cookie.NewFromConfig(cookie.Config{Secrets: testSecret, MaxSize: 64})
		require.NoError(t, err)

		err = m.Set(httptest.NewRecorder(), "c", strings.Repeat("x", 100))
		assert.Error(t, err)
	})
}
