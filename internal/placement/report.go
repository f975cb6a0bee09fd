package placement

import (
	"gopkg.in/yaml.v3"
)

// Counts summarizes a Report.
type Counts struct {
	Created   int `yaml:"created"`
	Clear     int `yaml:"clear"`
	Adjusted  int `yaml:"adjusted"`
	Skipped   int `yaml:"skipped"`
	Warned    int `yaml:"warned"`
	Failed    int `yaml:"failed"`
	Remaining int `yaml:"remaining"`
}

// Report is the outcome of one Place call. Light ids of the surviving
// lights are in IDs; every other list names lights.
type Report struct {
	Template     string        `yaml:"template"`
	Strategy     string        `yaml:"strategy"`
	BaseDistance float32       `yaml:"base_distance"`
	Counts       Counts        `yaml:"counts"`
	IDs          []string      `yaml:"ids,omitempty"`
	Created      []string      `yaml:"created,omitempty"`
	Clear        []string      `yaml:"clear,omitempty"`
	Adjusted     []Adjustment  `yaml:"adjusted,omitempty"`
	Skipped      []Skip        `yaml:"skipped,omitempty"`
	Warned       []string      `yaml:"warned,omitempty"`
	Obstructions []Obstruction `yaml:"obstructions,omitempty"`
	Warnings     []string      `yaml:"warnings,omitempty"`
	Failures     []Failure     `yaml:"failures,omitempty"`
}

func (r *Report) count() {
	r.Counts = Counts{
		Created:   len(r.Created),
		Clear:     len(r.Clear),
		Adjusted:  len(r.Adjusted),
		Skipped:   len(r.Skipped),
		Warned:    len(r.Warned),
		Failed:    len(r.Failures),
		Remaining: len(r.IDs),
	}
}

// YAML renders the report.
func (r *Report) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}
