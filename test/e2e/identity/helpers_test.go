package identity_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aussiebroadwan/idtoolkit/pkg/identity"
)

/*
 * Common constants and helper functions for the emulator end-to-end tests.
 * The suite builds the emulator image once and runs the SDK against it.
 */

const (
	testImageName = "idtoolkit-emulator-test:latest"

	projectID = "demo-e2e"
	apiKey    = "e2e-api-key"
	password  = "secret123"
)

// TestMain builds the Docker image once before all tests and removes it
// after they complete.
func TestMain(m *testing.M) {
	if _, err := exec.LookPath("docker"); err != nil {
		fmt.Fprintln(os.Stdout, "docker not found, skipping emulator e2e tests")
		os.Exit(0)
	}

	fmt.Fprintf(os.Stdout, "Building emulator Docker image...")
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up emulator Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/emulator/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}

func cleanupDockerImage() {
	cmd := exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might not exist
}

// relaxedLimits raises the rate limits so rapid test traffic is not throttled.
var relaxedLimits = map[string]string{
	"RATELIMIT_STRICT_REQUESTS":   "1000",
	"RATELIMIT_STRICT_WINDOW_SEC": "60",
	"RATELIMIT_STRICT_BURST":      "1000",
	"RATELIMIT_MODERATE_REQUESTS": "1000",
	"RATELIMIT_MODERATE_BURST":    "1000",
}

// setupEmulator starts the emulator in a container and returns its base
// URL. extraEnv overrides the defaults.
func setupEmulator(t *testing.T, extraEnv map[string]string) string {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"EMULATOR_PROJECT_ID":          projectID,
		"EMULATOR_API_KEYS":            apiKey,
		"EMULATOR_NUM_KEYS":            "1",
		"EMULATOR_CUSTOM_TOKEN_SECRET": "e2e-custom-secret",
		"ENV":                          "test",
		"LOG_LEVEL":                    "info",
		"LOG_FORMAT":                   "json",
	}
	maps.Copy(env, extraEnv)

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"9099/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("9099/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "9099")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// newClient returns an SDK client pointed at the emulator.
func newClient(baseURL string) *identity.Client {
	tr := identity.NewRESTTransport(apiKey)
	tr.UseEmulator(baseURL)
	return identity.NewClientWithTransport(tr)
}

type oobCode struct {
	Email       string `json:"email"`
	RequestType string `json:"requestType"`
	OobCode     string `json:"oobCode"`
	OobLink     string `json:"oobLink"`
	Locale      string `json:"locale"`
}

// listOobCodes reads the codes the emulator would have emailed.
func listOobCodes(t *testing.T, baseURL string) []oobCode {
	t.Helper()

	resp, err := http.Get(baseURL + "/emulator/v1/oobCodes")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		OobCodes []oobCode `json:"oobCodes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.OobCodes
}

// getJSON fetches path and decodes the body into v, returning the status.
func getJSON(t *testing.T, baseURL, path string, v any) int {
	t.Helper()

	resp, err := http.Get(baseURL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if v != nil {
		require.NoError(t, json.Unmarshal(b, v), string(b))
	}
	return resp.StatusCode
}
