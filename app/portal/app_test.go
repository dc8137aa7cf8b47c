package portal_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smcd-ma/portal/app/portal"
	"github.com/smcd-ma/portal/core/apiclient"
	"github.com/smcd-ma/portal/core/cookie"
	"github.com/smcd-ma/portal/core/session"
)

const (
	adminEmail    = "admin@smcd.ma"
	adminPassword = "Admin123!"
	adminToken    = "tok-admin"
)

// fakeAPI plays the remote congress service.
type fakeAPI struct {
	mu              sync.Mutex
	role            session.Role
	active          bool
	rejectAbstracts bool
	meCalls         int
	uploads         []string
}

func (f *fakeAPI) set(fn func(*fakeAPI)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	authed := r.Header.Get("Authorization") == "Bearer "+adminToken
	reply := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	unauthorized := func() {
		reply(http.StatusUnauthorized, map[string]string{"message": "Token invalide"})
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/auth/login":
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Email != adminEmail || creds.Password != adminPassword {
			reply(http.StatusUnauthorized, map[string]string{"message": "Email ou mot de passe incorrect."})
			return
		}
		reply(http.StatusOK, map[string]any{
			"token": adminToken, "id": 1, "email": adminEmail,
			"nom": "alaoui", "prenom": "karim", "role": f.role,
		})

	case r.Method == http.MethodGet && r.URL.Path == "/api/auth/me":
		f.meCalls++
		if !authed {
			unauthorized()
			return
		}
		reply(http.StatusOK, session.Profile{
			ID: 1, Email: adminEmail, Nom: "alaoui", Prenom: "karim", Role: f.role, Active: f.active,
		})

	case r.Method == http.MethodGet && r.URL.Path == "/api/abstracts":
		if !authed || f.rejectAbstracts {
			unauthorized()
			return
		}
		reply(http.StatusOK, []map[string]any{
			{"id": 7, "title": "Cholécystectomie ambulatoire", "author": "Dr Bennani", "status": "SUBMITTED"},
		})

	case r.Method == http.MethodGet && r.URL.Path == "/api/registrations":
		if !authed {
			unauthorized()
			return
		}
		reply(http.StatusOK, []map[string]any{{"id": 1}, {"id": 2}, {"id": 3}})

	case r.Method == http.MethodGet && r.URL.Path == "/api/users":
		if !authed {
			unauthorized()
			return
		}
		reply(http.StatusOK, []session.Profile{
			{ID: 1, Email: adminEmail, Nom: "Alaoui", Prenom: "Karim", Role: session.RoleSuperAdmin, Active: true},
			{ID: 2, Email: "mod@smcd.ma", Nom: "Idrissi", Prenom: "Salma", Role: session.RoleModerator, Active: true},
		})

	case r.Method == http.MethodPost && r.URL.Path == "/api/abstracts/7/file":
		if !authed {
			unauthorized()
			return
		}
		_, fh, err := r.FormFile("file")
		if err != nil {
			reply(http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		f.uploads = append(f.uploads, fh.Filename)
		w.WriteHeader(http.StatusNoContent)

	default:
		reply(http.StatusNotFound, map[string]string{"message": "not found"})
	}
}

type harness struct {
	api    *fakeAPI
	srv    *httptest.Server
	client *http.Client
}

func setup(t *testing.T, opts ...func(*portal.Config)) *harness {
	t.Helper()

	api := &fakeAPI{role: session.RoleSuperAdmin, active: true}
	apiSrv := httptest.NewServer(api)
	t.Cleanup(apiSrv.Close)

	cfg := portal.Config{
		Env: "test",
		Cookie: cookie.Config{
			Secrets:  strings.Repeat("s", 32),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
		Session: session.Config{
			TokenCookie:   "smcd_token",
			ProfileCookie: "smcd_user",
			TTLDays:       7,
			Backend:       session.BackendCookie,
		},
		API: apiclient.Config{
			BaseURL:       apiSrv.URL + "/api",
			Timeout:       5 * time.Second,
			UploadTimeout: 10 * time.Second,
		},
		GateVerifyTimeout: 5 * time.Second,
		UploadMaxBytes:    64 << 10,
		HealthTimeout:     time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	app, err := portal.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &harness{
		api: api,
		srv: srv,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (h *harness) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := h.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (h *harness) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, h.srv.URL+path, nil)
	require.NoError(t, err)
	return h.do(t, req)
}

func (h *harness) post(t *testing.T, path string, values url.Values) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, h.srv.URL+path, strings.NewReader(values.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(t, req)
}

func (h *harness) upload(t *testing.T, name string, content []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, h.srv.URL+"/admin/abstracts/7/file", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, _ := h.do(t, req)
	return resp
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	resp, _ := h.post(t, "/admin/login", url.Values{"email": {adminEmail}, "password": {adminPassword}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.True(t, h.hasToken(t))
}

func (h *harness) hasToken(t *testing.T) bool {
	t.Helper()
	u, err := url.Parse(h.srv.URL)
	require.NoError(t, err)
	for _, c := range h.client.Jar.Cookies(u) {
		if c.Name == "smcd_token" && c.Value != "" {
			return true
		}
	}
	return false
}

func TestLoginFlow(t *testing.T) {
	t.Parallel()
	h := setup(t)

	resp, _ := h.get(t, "/admin/dashboard")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/login?redirect=/admin/dashboard", resp.Header.Get("Location"))

	resp, body := h.get(t, "/admin/login?redirect=/admin/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `name="redirect" value="/admin/dashboard"`)

	resp, _ = h.post(t, "/admin/login", url.Values{
		"email":    {"  ADMIN@smcd.ma "},
		"password": {adminPassword},
		"redirect": {"/admin/abstracts"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/abstracts", resp.Header.Get("Location"))
	assert.True(t, h.hasToken(t))

	resp, body = h.get(t, "/admin/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Tableau de bord")
	assert.Contains(t, body, "Karim ALAOUI")
	assert.Contains(t, body, "Bienvenue, Karim ALAOUI.")
	assert.Contains(t, body, `<span class="value">3</span>`)
	assert.Contains(t, body, `<span class="value">2</span>`)
}

func TestLogin_Failures(t *testing.T) {
	t.Parallel()
	h := setup(t)

	resp, body := h.post(t, "/admin/login", url.Values{"email": {adminEmail}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Email ou mot de passe incorrect.")
	assert.Contains(t, body, `value="admin@smcd.ma"`)
	assert.False(t, h.hasToken(t))

	resp, body = h.post(t, "/admin/login", url.Values{"email": {"not-an-email"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Adresse email invalide.")
	assert.Contains(t, body, "Ce champ est obligatoire.")
}

func TestLogin_ForeignRedirectIgnored(t *testing.T) {
	t.Parallel()
	h := setup(t)

	resp, _ := h.post(t, "/admin/login", url.Values{
		"email":    {adminEmail},
		"password": {adminPassword},
		"redirect": {"https://evil.example/admin"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/dashboard", resp.Header.Get("Location"))
}

func TestAnonymousProtectedPage(t *testing.T) {
	t.Parallel()
	h := setup(t)

	resp, _ := h.get(t, "/admin/abstracts")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/login?redirect=/admin/abstracts", resp.Header.Get("Location"))

	h.api.mu.Lock()
	defer h.api.mu.Unlock()
	assert.Zero(t, h.api.meCalls)
}

func TestUnknownAdminPaths(t *testing.T) {
	t.Parallel()
	h := setup(t)

	for _, path := range []string{"/admin/registrations", "/admin/settings/x"} {
		resp, _ := h.get(t, path)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/admin/login?redirect="+path, resp.Header.Get("Location"))
	}

	req, err := http.NewRequest(http.MethodDelete, h.srv.URL+"/admin/dashboard", nil)
	require.NoError(t, err)
	resp, _ := h.do(t, req)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/login?redirect=/admin/dashboard", resp.Header.Get("Location"))

	h.login(t)

	resp, body := h.get(t, "/admin/registrations")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Page introuvable.")

	req, err = http.NewRequest(http.MethodDelete, h.srv.URL+"/admin/dashboard", nil)
	require.NoError(t, err)
	resp, _ = h.do(t, req)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestLoginPageWithToken(t *testing.T) {
	t.Parallel()
	h := setup(t)
	h.login(t)

	resp, _ := h.get(t, "/admin/login")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/dashboard", resp.Header.Get("Location"))

	resp, _ = h.get(t, "/admin")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/dashboard", resp.Header.Get("Location"))
}

func TestRejectedMidPage(t *testing.T) {
	t.Parallel()
	h := setup(t)
	h.login(t)

	resp, body := h.get(t, "/admin/abstracts")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Cholécystectomie ambulatoire")

	h.api.set(func(f *fakeAPI) { f.rejectAbstracts = true })

	resp, _ = h.get(t, "/admin/abstracts")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get("Location"))
	assert.False(t, h.hasToken(t))

	resp, _ = h.get(t, "/admin/dashboard")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/login?redirect=/admin/dashboard", resp.Header.Get("Location"))
}

func TestRoleChangePickedUpByVerification(t *testing.T) {
	t.Parallel()
	h := setup(t)
	h.login(t)

	resp, body := h.get(t, "/admin/users")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "mod@smcd.ma")

	h.api.set(func(f *fakeAPI) { f.role = session.RoleModerator })

	resp, body = h.get(t, "/admin/users")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.NotContains(t, body, "mod@smcd.ma")

	resp, body = h.get(t, "/admin/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, `href="/admin/users"`)
}

func TestInactiveAccountDenied(t *testing.T) {
	t.Parallel()
	h := setup(t)
	h.login(t)

	h.api.set(func(f *fakeAPI) { f.active = false })

	resp, _ := h.get(t, "/admin/dashboard")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get("Location"))
	assert.False(t, h.hasToken(t))
}

func TestLogout(t *testing.T) {
	t.Parallel()
	h := setup(t)
	h.login(t)

	resp, _ := h.post(t, "/admin/logout", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get("Location"))
	assert.False(t, h.hasToken(t))

	resp, body := h.get(t, "/admin/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Vous avez été déconnecté.")

	// idempotent without a session
	resp, _ = h.post(t, "/admin/logout", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestUploadAbstractFile(t *testing.T) {
	t.Parallel()
	h := setup(t)
	h.login(t)

	resp := h.upload(t, "resume.pdf", []byte("%PDF-1.4\n%test\n"))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/abstracts", resp.Header.Get("Location"))

	_, body := h.get(t, "/admin/abstracts")
	assert.Contains(t, body, "Fichier téléversé.")

	resp = h.upload(t, "fake.pdf", []byte("plain text, not a pdf"))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_, body = h.get(t, "/admin/abstracts")
	assert.Contains(t, body, "Le fichier doit être un PDF.")

	resp = h.upload(t, "notes.docx", []byte("doc"))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_, body = h.get(t, "/admin/abstracts")
	assert.Contains(t, body, "Type de fichier non autorisé (pdf).")

	resp = h.upload(t, "huge.pdf", bytes.Repeat([]byte("x"), 96<<10))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	h.api.mu.Lock()
	defer h.api.mu.Unlock()
	assert.Equal(t, []string{"resume.pdf"}, h.api.uploads)
}

func TestUploadAbstractFile_RemovesTempFiles(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	h := setup(t, func(cfg *portal.Config) {
		cfg.UploadMaxBytes = 20 << 20
	})
	h.login(t)

	content := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), 12<<20)...)
	resp := h.upload(t, "large.pdf", content)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body := h.get(t, "/admin/abstracts")
	assert.Contains(t, body, "Fichier téléversé.")

	leftover, err := filepath.Glob(filepath.Join(tmp, "multipart-*"))
	require.NoError(t, err)
	assert.Empty(t, leftover)
}

func TestPublicRoutes(t *testing.T) {
	t.Parallel()
	h := setup(t)

	resp, body := h.get(t, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Espace administration")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, body = h.get(t, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	resp, _ = h.get(t, "/assets/app.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = h.get(t, "/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Page introuvable.")
}
