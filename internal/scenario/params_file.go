package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"trade-scenario-lab/internal/domain"
	"trade-scenario-lab/internal/validate"
)

// ParamsFile is the YAML shape the evaluate CLI consumes: a scenario name
// plus its parameter bundle.
type ParamsFile struct {
	Name   string                `yaml:"name"`
	Params domain.ScenarioParams `yaml:"params"`
}

// LoadParamsFile reads, defaults and validates a scenario parameter file.
func LoadParamsFile(path string) (*ParamsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var pf ParamsFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse scenario file: %w", err)
	}
	if pf.Name == "" {
		pf.Name = "unnamed scenario"
	}
	if err := pf.Params.ApplyDefaults(); err != nil {
		return nil, fmt.Errorf("apply scenario defaults: %w", err)
	}
	if err := validate.Params(&pf.Params); err != nil {
		return nil, err
	}
	return &pf, nil
}
