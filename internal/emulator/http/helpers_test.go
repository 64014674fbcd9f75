package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/idtoolkit/internal/emulator/service"
	"github.com/aussiebroadwan/idtoolkit/internal/emulator/store/drivers/sqlite"
	"github.com/aussiebroadwan/idtoolkit/pkg/cryptox"
	"github.com/aussiebroadwan/idtoolkit/pkg/httpx"
	"github.com/aussiebroadwan/idtoolkit/pkg/identity"
	"github.com/aussiebroadwan/idtoolkit/pkg/jwtx"
	"github.com/aussiebroadwan/idtoolkit/pkg/slogx"
)

const (
	testProjectID = "demo-test"
	testAPIKey    = "test-key"
	testPassword  = "secret1"
)

var testCustomSecret = []byte("custom-token-secret")

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "emulator-http-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// testServer runs the full router over a fresh in-memory database.
type testServer struct {
	*httptest.Server
	store    *sqlite.Store
	keys     *jwtx.KeyManager
	registry *prometheus.Registry
}

func newTestServer(t *testing.T, apiKeys ...string) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{ProjectID: testProjectID, NumKeys: 1})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics := service.NewMetrics(reg)
	tokens := &service.TokenService{
		KeyManager: km,
		Store:      st,
		ProjectID:  testProjectID,
		IDTokenTTL: jwtx.DefaultIDTokenTTL,
		RefreshTTL: jwtx.DefaultRefreshTokenTTL,
		Metrics:    metrics,
	}

	router := NewRouter(km.KeySet, "test", st, reg, slogx.Discard())
	router.APIKeys = apiKeys
	router.TokenService = tokens
	router.AccountService = &service.AccountService{
		Store:             st,
		Tokens:            tokens,
		CustomTokenSecret: testCustomSecret,
	}
	router.OobService = &service.OobService{Store: st, Tokens: tokens, Metrics: metrics}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, store: st, keys: km, registry: reg}
}

// identityURL returns the URL of an accounts:* method with the test key.
func (s *testServer) identityURL(method string) string {
	return s.URL + identityPrefix + "/accounts:" + method + "?key=" + testAPIKey
}

// postJSON sends body to target and returns the status and raw response.
func (s *testServer) postJSON(t *testing.T, target string, body any) (int, []byte) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	return s.do(t, http.MethodPost, target, "application/json", bytes.NewReader(b))
}

// postForm sends a form-encoded body to target.
func (s *testServer) postForm(t *testing.T, target string, form url.Values) (int, []byte) {
	t.Helper()
	return s.do(t, http.MethodPost, target, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
}

func (s *testServer) get(t *testing.T, path string) (int, []byte) {
	t.Helper()
	return s.do(t, http.MethodGet, s.URL+path, "", nil)
}

func (s *testServer) do(t *testing.T, method, target, contentType string, body io.Reader) (int, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, target, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, b
}

// signUp creates a password account over the wire.
func (s *testServer) signUp(t *testing.T, email string) identity.TokenResponse {
	t.Helper()
	status, body := s.postJSON(t, s.identityURL("signUp"), identity.NewPasswordSignUp(email, testPassword))
	require.Equal(t, http.StatusOK, status, string(body))
	return decode[identity.TokenResponse](t, body)
}

// oobCodes returns the emulator's outstanding codes.
func (s *testServer) oobCodes(t *testing.T) []OobCodeListing {
	t.Helper()
	status, body := s.get(t, "/emulator/v1/oobCodes")
	require.Equal(t, http.StatusOK, status, string(body))
	return decode[OobCodesResponse](t, body).OobCodes
}

// client returns an SDK client pointed at the server.
func (s *testServer) client() *identity.Client {
	tr := identity.NewRESTTransport(testAPIKey)
	tr.UseEmulator(s.URL)
	return identity.NewClientWithTransport(tr)
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

// requireBackendError checks the error envelope of a failed request.
func requireBackendError(t *testing.T, status int, body []byte, wantStatus int, wantCode string) {
	t.Helper()
	require.Equal(t, wantStatus, status, string(body))

	env := decode[httpx.ErrorEnvelope](t, body)
	require.Equal(t, wantStatus, env.Error.Code)
	code, _, _ := strings.Cut(env.Error.Message, " : ")
	require.Equal(t, wantCode, code)
	require.Len(t, env.Error.Errors, 1)
	require.Equal(t, env.Error.Message, env.Error.Errors[0].Message)
}

// idpPostBody carries a provider ID token the emulator decodes unverified.
func idpPostBody(t *testing.T, providerID, sub, email string) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": sub, "iat": time.Now().Unix()}
	if email != "" {
		claims["email"] = email
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("provider-key"))
	require.NoError(t, err)
	return identity.IdpPostBody(providerID, tok, "")
}
