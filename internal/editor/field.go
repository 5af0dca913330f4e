package editor

import (
	"log/slog"
	"strings"

	"github.com/myoungji/website/internal/errors"
	"github.com/myoungji/website/internal/models"
)

// Field addresses one editable part of a case draft.
type Field int

const (
	FieldTitle Field = iota
	FieldCategory
	FieldOverviewType
	FieldOverviewIndustry
	FieldOverviewPurpose
	FieldOverviewLocation
	FieldOverviewDuration
	FieldSolutionDesign
	FieldSolutionWiring
	FieldSolutionSafety
	FieldSolutionTest
	FieldResultsEfficiency
	FieldResultsStability
	FieldResultsMaintenance
	FieldRequirements
	FieldTechnologies
)

var ErrUnknownField = errors.NewSentinel("unknown field")

type fieldDef struct {
	name string
	// text points at the scalar behind the field. Nil for the line-delimited list fields.
	text func(c *models.Case) *string
	list func(c *models.Case) *[]string
}

var fieldDefs = map[Field]fieldDef{ //nolint:gochecknoglobals // static lookup table
	FieldTitle:    {name: "title", text: func(c *models.Case) *string { return &c.Title }},
	FieldCategory: {name: "category", text: func(c *models.Case) *string { return &c.Category }},

	FieldOverviewType:     {name: "overview.type", text: func(c *models.Case) *string { return &c.Overview.Type }},
	FieldOverviewIndustry: {name: "overview.industry", text: func(c *models.Case) *string { return &c.Overview.Industry }},
	FieldOverviewPurpose:  {name: "overview.purpose", text: func(c *models.Case) *string { return &c.Overview.Purpose }},
	FieldOverviewLocation: {name: "overview.location", text: func(c *models.Case) *string { return &c.Overview.Location }},
	FieldOverviewDuration: {name: "overview.duration", text: func(c *models.Case) *string { return &c.Overview.Duration }},

	FieldSolutionDesign: {name: "solution.design", text: func(c *models.Case) *string { return &c.Solution.Design }},
	FieldSolutionWiring: {name: "solution.wiring", text: func(c *models.Case) *string { return &c.Solution.Wiring }},
	FieldSolutionSafety: {name: "solution.safety", text: func(c *models.Case) *string { return &c.Solution.Safety }},
	FieldSolutionTest:   {name: "solution.test", text: func(c *models.Case) *string { return &c.Solution.Test }},

	FieldResultsEfficiency:  {name: "results.efficiency", text: func(c *models.Case) *string { return &c.Results.Efficiency }},
	FieldResultsStability:   {name: "results.stability", text: func(c *models.Case) *string { return &c.Results.Stability }},
	FieldResultsMaintenance: {name: "results.maintenance", text: func(c *models.Case) *string { return &c.Results.Maintenance }},

	FieldRequirements: {name: "requirements", list: func(c *models.Case) *[]string { return &c.Requirements }},
	FieldTechnologies: {name: "technologies", list: func(c *models.Case) *[]string { return &c.Technologies }},
}

// Fields lists every field in form order.
func Fields() []Field {
	fields := make([]Field, 0, len(fieldDefs))
	for f := FieldTitle; f <= FieldTechnologies; f++ {
		fields = append(fields, f)
	}
	return fields
}

// String returns the dotted path used as form field name, e.g. "overview.type".
func (f Field) String() string {
	if def, ok := fieldDefs[f]; ok {
		return def.name
	}
	return "unknown"
}

// ParseField is the inverse of [Field.String].
func ParseField(name string) (Field, error) {
	for f, def := range fieldDefs {
		if def.name == name {
			return f, nil
		}
	}
	return 0, errors.Wrap(ErrUnknownField, "parse field", slog.String("name", name))
}

// Value renders the field of c as form text. List fields are joined with newlines.
func (f Field) Value(c models.Case) string {
	def, ok := fieldDefs[f]
	switch {
	case !ok:
		return ""
	case def.list != nil:
		return strings.Join(*def.list(&c), "\n")
	default:
		return *def.text(&c)
	}
}

// splitLines splits textarea input into list entries. CRLF from browsers is normalized to LF and the text is split
// literally, so blank lines and surrounding whitespace are kept.
func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
