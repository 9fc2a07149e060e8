package plugin

import (
	"fmt"
	"strings"

	"github.com/dtvem/node-plugin/src/internal/host"
)

// ExecGlobal runs a global install command and reports its outcome
func ExecGlobal(h host.Host, cmd host.Command) (*GlobalResult, error) {
	result, err := h.Exec(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to run %s: %w", cmd.Name, err)
	}

	if !result.Success() {
		message := strings.TrimSpace(result.Stderr)
		if message == "" {
			message = fmt.Sprintf("%s exited with code %d", cmd.Name, result.ExitCode)
		}
		return &GlobalResult{Success: false, Error: message}, nil
	}

	return &GlobalResult{Success: true}, nil
}
