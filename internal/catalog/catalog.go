package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OptionsPerScenario is the fixed number of choices every scenario offers.
const OptionsPerScenario = 3

//go:embed scenarios.yaml
var embedded []byte

// Effects holds the signed metric deltas an option applies. A zero field
// leaves that metric untouched.
type Effects struct {
	Economy     int `yaml:"economy,omitempty" json:"economy,omitempty"`
	Social      int `yaml:"social,omitempty" json:"social,omitempty"`
	Environment int `yaml:"environment,omitempty" json:"environment,omitempty"`
	Popularity  int `yaml:"popularity,omitempty" json:"popularity,omitempty"`
	Budget      int `yaml:"budget,omitempty" json:"budget,omitempty"`
}

// Option is one of the three choices a scenario offers.
type Option struct {
	Text    string  `yaml:"text" json:"text"`
	Effects Effects `yaml:"effects" json:"effects"`
}

// Scenario is an immutable situation prompt with exactly three options.
type Scenario struct {
	ID          int      `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Options     []Option `yaml:"options" json:"options"`
}

// Catalog is the static scenario set, loaded once per process.
type Catalog struct {
	scenarios []Scenario
	byID      map[int]Scenario
}

type document struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Load decodes the embedded scenario set.
func Load() (*Catalog, error) {
	return parse(embedded)
}

// LoadFile decodes a scenario set from an external YAML file with the same
// schema as the embedded one.
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return parse(b)
}

func parse(b []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(doc.Scenarios)
}

// New builds a validated catalog from a scenario list.
func New(scenarios []Scenario) (*Catalog, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	c := &Catalog{
		scenarios: scenarios,
		byID:      make(map[int]Scenario, len(scenarios)),
	}
	for _, s := range scenarios {
		if err := validate(s); err != nil {
			return nil, err
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("scenario %d: duplicate id", s.ID)
		}
		c.byID[s.ID] = s
	}
	return c, nil
}

func validate(s Scenario) error {
	if s.ID <= 0 {
		return fmt.Errorf("scenario %q: id must be positive", s.Title)
	}
	if s.Title == "" {
		return fmt.Errorf("scenario %d: title is required", s.ID)
	}
	if len(s.Options) != OptionsPerScenario {
		return fmt.Errorf("scenario %d: expected %d options, got %d", s.ID, OptionsPerScenario, len(s.Options))
	}
	for i, o := range s.Options {
		if o.Text == "" {
			return fmt.Errorf("scenario %d: option %d has no text", s.ID, i)
		}
	}
	return nil
}

// All returns every scenario in catalog order.
func (c *Catalog) All() []Scenario {
	return c.scenarios
}

// Len returns the number of scenarios in the catalog.
func (c *Catalog) Len() int {
	return len(c.scenarios)
}

// ByID retrieves a scenario by its id.
func (c *Catalog) ByID(id int) (Scenario, bool) {
	s, ok := c.byID[id]
	return s, ok
}
