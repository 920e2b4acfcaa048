// Package importer parses delimited bank exports into import rows.
package importer

import (
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

const isoDate = "2006-01-02"

// Columns lists the accepted header names for each field. Matching ignores
// case and surrounding whitespace.
type Columns struct {
	Date        []string `yaml:"date"`
	Description []string `yaml:"description"`
	Amount      []string `yaml:"amount"`
	Account     []string `yaml:"account"`
	Budget      []string `yaml:"budget"`
}

// Profile describes one export layout.
type Profile struct {
	Name        string   `yaml:"name"`
	Delimiter   string   `yaml:"delimiter"`
	DateLayouts []string `yaml:"date_layouts"`
	Columns     Columns  `yaml:"columns"`
}

// DefaultProfile reads comma separated files with ISO dates and the headers
// date, description, amount, account and budget.
func DefaultProfile() Profile {
	return Profile{
		Name:        "default",
		Delimiter:   ",",
		DateLayouts: []string{isoDate},
		Columns: Columns{
			Date:        []string{"date"},
			Description: []string{"description"},
			Amount:      []string{"amount"},
			Account:     []string{"account"},
			Budget:      []string{"budget"},
		},
	}
}

// LoadProfile reads a YAML profile. Fields left out fall back to the default
// profile.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read import profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse import profile: %w", err)
	}
	p = p.withDefaults()
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (p Profile) withDefaults() Profile {
	def := DefaultProfile()
	if p.Name == "" {
		p.Name = def.Name
	}
	if p.Delimiter == "" {
		p.Delimiter = def.Delimiter
	}
	if len(p.DateLayouts) == 0 {
		p.DateLayouts = def.DateLayouts
	}
	if len(p.Columns.Date) == 0 {
		p.Columns.Date = def.Columns.Date
	}
	if len(p.Columns.Description) == 0 {
		p.Columns.Description = def.Columns.Description
	}
	if len(p.Columns.Amount) == 0 {
		p.Columns.Amount = def.Columns.Amount
	}
	if len(p.Columns.Account) == 0 {
		p.Columns.Account = def.Columns.Account
	}
	if len(p.Columns.Budget) == 0 {
		p.Columns.Budget = def.Columns.Budget
	}
	return p
}

func (p Profile) Validate() error {
	if utf8.RuneCountInString(p.Delimiter) != 1 {
		return fmt.Errorf("import profile %q: delimiter must be a single character", p.Name)
	}
	r, _ := utf8.DecodeRuneInString(p.Delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return fmt.Errorf("import profile %q: invalid delimiter %q", p.Name, p.Delimiter)
	}
	return nil
}

func (p Profile) delimiter() rune {
	r, _ := utf8.DecodeRuneInString(p.Delimiter)
	return r
}
