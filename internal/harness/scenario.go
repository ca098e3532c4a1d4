package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/assetcare/internal/model"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Now is the evaluation instant, RFC 3339 or YYYY-MM-DD.
	Now string `yaml:"now"`

	// RunID is an optional fixed run ID. If empty, defaults to
	// "test-run-default" for deterministic golden file comparison.
	RunID string `yaml:"run_id,omitempty"`

	// Fleet is an optional CUE fleet directory. Resolved relative to the
	// scenario file by LoadScenario.
	Fleet string `yaml:"fleet,omitempty"`

	// Assets and Sensors are inline records, added after the CUE fleet.
	Assets  []model.AssetRecord `yaml:"assets,omitempty"`
	Sensors []model.Sensor      `yaml:"sensors,omitempty"`

	// Assertions validate the evaluation.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one conclusion of the evaluation. Unset optional
// fields are not checked.
type Assertion struct {
	// Type selects the assertion; see the Assert* constants.
	Type string `yaml:"type"`

	Asset  string `yaml:"asset,omitempty"`
	Sensor string `yaml:"sensor,omitempty"`

	// health
	Composite *float64 `yaml:"composite,omitempty"`
	Grade     string   `yaml:"grade,omitempty"`

	// schedule
	Status             string `yaml:"status,omitempty"`
	NextDueDate        string `yaml:"next_due_date,omitempty"`
	DaysRemaining      *int   `yaml:"days_remaining,omitempty"`
	StoredNextMismatch *bool  `yaml:"stored_next_mismatch,omitempty"`

	// lifespan
	RemainingYears   *int `yaml:"remaining_years,omitempty"`
	RemainingPercent *int `yaml:"remaining_percent,omitempty"`
	Absent           bool `yaml:"absent,omitempty"`

	// liveness
	Liveness string `yaml:"liveness,omitempty"`

	// projection
	Horizon  string   `yaml:"horizon,omitempty"`
	Dates    []string `yaml:"dates,omitempty"`
	Statuses []string `yaml:"statuses,omitempty"`

	// error
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertHealth     = "health"
	AssertSchedule   = "schedule"
	AssertLifespan   = "lifespan"
	AssertLiveness   = "liveness"
	AssertProjection = "projection"
	AssertError      = "error"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
//
// A relative fleet path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Fleet != "" && !filepath.IsAbs(scenario.Fleet) {
		scenario.Fleet = filepath.Join(filepath.Dir(path), scenario.Fleet)
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return scenario, nil
}

// ParseScenario decodes scenario YAML without validating it.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Now == "" {
		return fmt.Errorf("now is required")
	}
	if _, err := model.ParseTime(s.Now); err != nil {
		return fmt.Errorf("now: %w", err)
	}

	if s.Fleet == "" && len(s.Assets) == 0 && len(s.Sensors) == 0 {
		return fmt.Errorf("fleet, assets or sensors is required")
	}

	if s.Fleet != "" {
		if _, err := os.Stat(s.Fleet); os.IsNotExist(err) {
			return fmt.Errorf("fleet directory not found: %s", s.Fleet)
		}
	}

	for i, rec := range s.Assets {
		if rec.Asset.ID == "" {
			return fmt.Errorf("assets[%d]: asset.id is required", i)
		}
	}
	for i, sensor := range s.Sensors {
		if sensor.ID == "" {
			return fmt.Errorf("sensors[%d]: id is required", i)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertHealth:
		if a.Asset == "" {
			return fmt.Errorf("assertions[%d]: asset is required for health", index)
		}
		if a.Composite == nil && a.Grade == "" {
			return fmt.Errorf("assertions[%d]: composite or grade is required for health", index)
		}
	case AssertSchedule, AssertLifespan:
		if a.Asset == "" {
			return fmt.Errorf("assertions[%d]: asset is required for %s", index, a.Type)
		}
	case AssertLiveness:
		if a.Sensor == "" || a.Liveness == "" {
			return fmt.Errorf("assertions[%d]: sensor and liveness are required for liveness", index)
		}
	case AssertProjection:
		if a.Asset == "" || a.Horizon == "" {
			return fmt.Errorf("assertions[%d]: asset and horizon are required for projection", index)
		}
		if _, err := model.ParseTime(a.Horizon); err != nil {
			return fmt.Errorf("assertions[%d]: horizon: %w", index, err)
		}
		if len(a.Statuses) > 0 && len(a.Statuses) != len(a.Dates) {
			return fmt.Errorf("assertions[%d]: statuses must match dates one to one", index)
		}
	case AssertError:
		if a.Asset == "" || a.Code == "" {
			return fmt.Errorf("assertions[%d]: asset and code are required for error", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
