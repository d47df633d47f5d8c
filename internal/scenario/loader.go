package scenario

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtin embed.FS

// Registry holds all available scenarios by name.
type Registry struct {
	scenarios map[string]*Scenario
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		scenarios: make(map[string]*Scenario),
	}
}

// LoadBuiltin loads the scenarios compiled into the binary.
func (r *Registry) LoadBuiltin() error {
	entries, err := builtin.ReadDir("builtin")
	if err != nil {
		return fmt.Errorf("failed to read builtin scenarios: %w", err)
	}

	for _, entry := range entries {
		data, err := builtin.ReadFile(filepath.Join("builtin", entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read builtin scenario %s: %w", entry.Name(), err)
		}
		if err := r.add(data); err != nil {
			return fmt.Errorf("failed to parse builtin scenario %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// LoadFromFile loads one scenario from a YAML file.
func (r *Registry) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read scenario file: %w", err)
	}
	if err := r.add(data); err != nil {
		return fmt.Errorf("failed to parse scenario YAML from %s: %w", path, err)
	}
	return nil
}

// LoadFromDir loads every .yaml/.yml scenario in a directory.
func (r *Registry) LoadFromDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read scenarios directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(entry.Name(), ".yaml") && !strings.HasSuffix(entry.Name(), ".yml") {
			continue
		}
		if err := r.LoadFromFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) add(data []byte) error {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return err
	}
	if scenario.Name == "" {
		return fmt.Errorf("scenario has no name")
	}
	r.scenarios[scenario.Name] = &scenario
	return nil
}

// Get retrieves a scenario by name.
func (r *Registry) Get(name string) (*Scenario, error) {
	scenario, ok := r.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("scenario '%s' not found", name)
	}
	return scenario, nil
}

// List returns all scenario names.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	return names
}

// ListWithDescriptions returns all scenarios with their descriptions.
func (r *Registry) ListWithDescriptions() map[string]string {
	result := make(map[string]string)
	for name, scenario := range r.scenarios {
		result[name] = scenario.Description
	}
	return result
}
