package adapters

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"ros-specgen/internal/ports"
	"ros-specgen/internal/types"
)

// WstoolInventoryAdapter asks wstool what the workspace contains.
// Provided names are listed once per workspace and reused.
type WstoolInventoryAdapter struct {
	cmd toolCommand

	mu       sync.Mutex
	provided map[string][]string
}

func NewWstoolInventoryAdapter(command string, timeout time.Duration) (*WstoolInventoryAdapter, error) {
	cmd, err := newToolCommand(command, timeout)
	if err != nil {
		return nil, err
	}
	return &WstoolInventoryAdapter{cmd: cmd, provided: map[string][]string{}}, nil
}

func (a *WstoolInventoryAdapter) ProvidedNames(ctx context.Context, root string) ([]string, error) {
	a.mu.Lock()
	if names, ok := a.provided[root]; ok {
		a.mu.Unlock()
		return names, nil
	}
	a.mu.Unlock()

	output, err := a.cmd.run(ctx, "", "info", "-t", SourceSpace(root), "--only", "localname")
	if err != nil {
		return nil, err
	}
	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			names = append(names, name)
		}
	}

	a.mu.Lock()
	a.provided[root] = names
	a.mu.Unlock()
	log.Ctx(ctx).Debug().Int("provided", len(names)).Str("workspace", root).Msg("workspace inventory listed")
	return names, nil
}

// SourceLocation returns an empty location when wstool does not know
// name; only a missing or hanging wstool is an error.
func (a *WstoolInventoryAdapter) SourceLocation(ctx context.Context, root string, name string) (types.SourceLocation, error) {
	output, err := a.cmd.run(ctx, "", "info", "-t", SourceSpace(root), "--only", "cur_uri,version,scmtype", name)
	if err != nil {
		if isExitError(err) {
			log.Ctx(ctx).Debug().Err(err).Str("component", name).Msg("no inventory entry")
			return types.SourceLocation{}, nil
		}
		return types.SourceLocation{}, err
	}
	return parseSourceLine(firstLine(output)), nil
}

func parseSourceLine(line string) types.SourceLocation {
	fields := strings.Split(strings.TrimSpace(line), ",")
	location := types.SourceLocation{URI: strings.TrimSpace(fields[0])}
	if len(fields) > 1 {
		location.Revision = strings.TrimSpace(fields[1])
	}
	if len(fields) > 2 {
		location.SCM = strings.TrimSpace(fields[2])
	}
	return location
}

func firstLine(output []byte) string {
	line, _, _ := strings.Cut(string(output), "\n")
	return strings.TrimSpace(line)
}

var _ ports.InventoryPort = (*WstoolInventoryAdapter)(nil)
