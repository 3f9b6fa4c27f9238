package prompts

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/stapler/pkg/query"
	"github.com/JaimeStill/stapler/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "prompts", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("section", "Section").
	Project("content", "Content").
	Project("description", "Description").
	Project("active", "Active")

var defaultSort = query.SortField{
	Field: "name",
}

// Filters narrows prompt queries. Nil fields are ignored.
type Filters struct {
	Section *Section `json:"section,omitempty"`
	Name    *string  `json:"name,omitempty"`
	Active  *bool    `json:"active,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Section", f.Section).
		WhereContains("Name", f.Name).
		WhereEquals("Active", f.Active)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("section"); s != "" {
		section := Section(s)
		f.Section = &section
	}

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if a := values.Get("active"); a != "" {
		if v, err := strconv.ParseBool(a); err == nil {
			f.Active = &v
		}
	}

	return f
}

func scanPrompt(s repository.Scanner) (Prompt, error) {
	var p Prompt
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Section,
		&p.Content,
		&p.Description,
		&p.Active,
	)
	return p, err
}
