package host

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	goruntime "runtime"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/dtvem/node-plugin/src/internal/ui"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests
const DefaultHTTPTimeout = 30 * time.Second

// OSHost implements Host on top of the current process
type OSHost struct {
	home       string
	httpClient *http.Client
}

// NewOSHost creates a Host for the running process
func NewOSHost(home string) *OSHost {
	return &OSHost{
		home: home,
		httpClient: &http.Client{
			Timeout: DefaultHTTPTimeout,
		},
	}
}

// NewOSHostWithClient creates an OSHost with a custom HTTP client.
// This is useful for testing or custom timeout/transport configuration.
func NewOSHostWithClient(home string, client *http.Client) *OSHost {
	return &OSHost{
		home:       home,
		httpClient: client,
	}
}

// Env returns a process environment variable
func (h *OSHost) Env(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Exec runs a command, either capturing or inheriting stdio
func (h *OSHost) Exec(command Command) (*ExecResult, error) {
	ui.Debug("Executing %s", shellquote.Join(append([]string{command.Name}, command.Args...)...))

	cmd := exec.Command(command.Name, command.Args...)
	cmd.Env = os.Environ()
	for key, value := range command.Env {
		cmd.Env = append(cmd.Env, key+"="+value)
	}

	var stdout, stderr bytes.Buffer
	if command.Inherit {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stderr // stdout is reserved for plugin output
		cmd.Stderr = os.Stderr
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	result := &ExecResult{}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to execute %s: %w", command.Name, err)
		}
		result.ExitCode = exitErr.ExitCode()
	}

	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	ui.Debug("%s exited with code %d", command.Name, result.ExitCode)

	return result, nil
}

// Fetch performs an HTTP GET and returns the body
func (h *OSHost) Fetch(url string) ([]byte, error) {
	ui.Debug("Fetching %s", url)

	resp, err := h.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: HTTP %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}

	return data, nil
}

// Environment describes the running platform
func (h *OSHost) Environment() Environment {
	return Environment{
		OS:   goruntime.GOOS,
		Arch: goruntime.GOARCH,
		Home: h.home,
	}
}
