package prompts

import (
	"encoding/json"
	"slices"
)

// Section is a tunable part of the sequencing prompt.
type Section string

const (
	SectionInstructions Section = "instructions"
	SectionDomain       Section = "domain"
)

var sections = []Section{
	SectionInstructions,
	SectionDomain,
}

func Sections() []Section {
	return sections
}

// UnmarshalJSON rejects unknown sections.
func (s *Section) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseSection(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSection validates s as a known section.
func ParseSection(s string) (Section, error) {
	v := Section(s)
	if !slices.Contains(sections, v) {
		return "", ErrInvalidSection
	}
	return v, nil
}
