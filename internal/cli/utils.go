package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aryy8/yatriguard/internal/scenario"
)

// loadScenarios loads scenarios from ./scenarios when present, falling back
// to the set compiled into the binary.
func loadScenarios() (*scenario.Registry, error) {
	registry := scenario.NewRegistry()
	if err := registry.LoadBuiltin(); err != nil {
		return nil, err
	}

	if dir := findScenarioDir(); dir != "" {
		if err := registry.LoadFromDir(dir); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func findScenarioDir() string {
	if _, err := os.Stat("scenarios"); err == nil {
		return "scenarios"
	}
	exe, err := os.Executable()
	if err == nil {
		dir := filepath.Join(filepath.Dir(exe), "scenarios")
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
	}
	return ""
}

// httpBase converts the websocket base URL to its HTTP counterpart, for the
// peer's plain HTTP endpoints like /health.
func httpBase(serverURL string) string {
	switch {
	case strings.HasPrefix(serverURL, "wss://"):
		return "https://" + strings.TrimPrefix(serverURL, "wss://")
	case strings.HasPrefix(serverURL, "ws://"):
		return "http://" + strings.TrimPrefix(serverURL, "ws://")
	default:
		return serverURL
	}
}
