// Package testutil provides shared test doubles
package testutil

import (
	"fmt"
	"sync"

	"github.com/dtvem/node-plugin/src/internal/host"
)

// FakeHost is an in-memory host.Host for tests
type FakeHost struct {
	EnvVars   map[string]string
	Responses map[string]string           // URL -> body
	Results   map[string]*host.ExecResult // Command.String() -> result
	Platform  host.Environment

	mu       sync.Mutex
	fetched  []string
	executed []host.Command
}

// NewFakeHost returns a linux/amd64 host with no env, responses or commands
func NewFakeHost() *FakeHost {
	return &FakeHost{
		EnvVars:   map[string]string{},
		Responses: map[string]string{},
		Results:   map[string]*host.ExecResult{},
		Platform:  host.Environment{OS: "linux", Arch: "amd64", Home: "/home/user/.proto"},
	}
}

// Env implements host.Host
func (f *FakeHost) Env(key string) (string, bool) {
	value, ok := f.EnvVars[key]
	return value, ok
}

// Exec implements host.Host. Unknown commands fail like a missing binary.
func (f *FakeHost) Exec(cmd host.Command) (*host.ExecResult, error) {
	f.mu.Lock()
	f.executed = append(f.executed, cmd)
	f.mu.Unlock()

	result, ok := f.Results[cmd.String()]
	if !ok {
		return nil, fmt.Errorf("failed to execute %s: executable file not found", cmd.Name)
	}
	return result, nil
}

// Fetch implements host.Host. Unknown URLs return an HTTP 404 error.
func (f *FakeHost) Fetch(url string) ([]byte, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, url)
	f.mu.Unlock()

	body, ok := f.Responses[url]
	if !ok {
		return nil, fmt.Errorf("failed to fetch %s: HTTP 404", url)
	}
	return []byte(body), nil
}

// Environment implements host.Host
func (f *FakeHost) Environment() host.Environment {
	return f.Platform
}

// Fetched returns the URLs requested so far
func (f *FakeHost) Fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.fetched...)
}

// Executed returns the commands run so far
func (f *FakeHost) Executed() []host.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]host.Command(nil), f.executed...)
}
