package screening

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Section ids are fixed; the YAML file supplies prompts and expected answers
// so the questionnaire can be revised without a rebuild.
const (
	SectionOrientation  = "orientation"
	SectionRegistration = "memory_register"
	SectionAttention    = "attention"
	SectionRecall       = "memory_recall"
	SectionLanguage     = "language"
	SectionVisuospatial = "visuospatial"
)

// Question is one prompt with its expected answer.
type Question struct {
	ID       string   `yaml:"id"`
	Prompt   string   `yaml:"prompt"`
	Expected string   `yaml:"expected"`
	Options  []string `yaml:"options,omitempty"`
}

// Section is one screen of the screening flow.
type Section struct {
	ID        string     `yaml:"id"`
	Title     string     `yaml:"title"`
	Questions []Question `yaml:"questions,omitempty"`
	// Registration/recall word list and serial-subtraction chain.
	Words   []string `yaml:"words,omitempty"`
	Serial7 []string `yaml:"serial7,omitempty"`
}

// Definition holds the full screening questionnaire.
type Definition struct {
	Sections []Section `yaml:"sections"`
}

// Load reads and parses the screening definition file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read screening file: %w", err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal screening YAML: %w", err)
	}

	if err := def.validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// validate checks the six fixed sections are present in order.
func (d *Definition) validate() error {
	want := []string{
		SectionOrientation,
		SectionRegistration,
		SectionAttention,
		SectionRecall,
		SectionLanguage,
		SectionVisuospatial,
	}
	if len(d.Sections) != len(want) {
		return fmt.Errorf("screening definition has %d sections, want %d", len(d.Sections), len(want))
	}
	for i, id := range want {
		if d.Sections[i].ID != id {
			return fmt.Errorf("section %d is %q, want %q", i, d.Sections[i].ID, id)
		}
	}
	return nil
}

// Section returns a section by id.
func (d *Definition) Section(id string) *Section {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return &d.Sections[i]
		}
	}
	return nil
}

// DefaultDefinition is the built-in questionnaire used when no YAML file is
// present (and by tests).
func DefaultDefinition() *Definition {
	return &Definition{Sections: []Section{
		{
			ID:    SectionOrientation,
			Title: "Orientation",
			Questions: []Question{
				{ID: "year", Prompt: "What year is it?", Expected: "2026"},
				{ID: "season", Prompt: "What season is it?", Expected: "summer"},
				{ID: "month", Prompt: "What month is it?", Expected: "august"},
				{ID: "day", Prompt: "What day of the week is it?", Expected: "friday"},
				{ID: "place", Prompt: "Where are you right now?", Expected: "home"},
			},
		},
		{
			ID:    SectionRegistration,
			Title: "Memory Registration",
			Words: []string{"apple", "table", "penny"},
		},
		{
			ID:      SectionAttention,
			Title:   "Attention",
			Serial7: []string{"93", "86", "79", "72", "65"},
		},
		{
			ID:    SectionRecall,
			Title: "Memory Recall",
			Words: []string{"apple", "table", "penny"},
		},
		{
			ID:    SectionLanguage,
			Title: "Language",
			Questions: []Question{
				{ID: "pencil", Prompt: "What is this object called?", Expected: "pencil"},
				{ID: "watch", Prompt: "What is this object called?", Expected: "watch"},
				{ID: "repeat", Prompt: "Repeat: no ifs, ands, or buts", Expected: "no ifs, ands, or buts"},
			},
		},
		{
			ID:    SectionVisuospatial,
			Title: "Visuospatial",
		},
	}}
}
