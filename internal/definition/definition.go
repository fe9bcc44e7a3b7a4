// Package definition reads timeboard definitions from YAML documents and
// builds timeboards from them.
//
// A definition names the base unit, the time range and the layout, and
// optionally amendments, extra schedules and named remembering patterns:
//
//	base_unit_freq: D
//	start: 2017-01-01
//	end: 2017-12-31
//	patterns:
//	  shifts: [A, B, C]
//	layout:
//	  marker: {each: W}
//	  structure:
//	    - [1, 1, 1, 1, 1, 0, 0]
//	amendments:
//	  - {at: 2017-01-02, label: 0}
//	schedules:
//	  - {name: weekends, on: [0]}
//
// A structure element is a scalar label, a sequence (a plain pattern), a
// mapping {remember: name} referring to a named remembering pattern, or a
// mapping describing a nested organizer. Organizers referring to the same
// named pattern share its cursor.
package definition

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/timeboard/pkg/calendar"
	"github.com/mesh-intelligence/timeboard/pkg/timeboard"
	"github.com/mesh-intelligence/timeboard/pkg/types"
)

// Definition errors.
var (
	ErrInvalidDefinition = errors.New("invalid timeboard definition")
	ErrUnknownPattern    = fmt.Errorf("%w: unknown remembering pattern", ErrInvalidDefinition)
)

// Definition is a parsed timeboard definition.
type Definition struct {
	Config    types.Config
	Schedules []ScheduleDef
}

// ScheduleDef is an additional schedule registered after the timeboard is
// built. Labels listed in On are on duty; with no labels the default
// selector is used.
type ScheduleDef struct {
	Name string        `yaml:"name"`
	On   []types.Label `yaml:"on"`
}

type document struct {
	BaseUnitFreq     string                   `yaml:"base_unit_freq"`
	Start            timeValue                `yaml:"start"`
	End              timeValue                `yaml:"end"`
	Layout           yaml.Node                `yaml:"layout"`
	Patterns         map[string][]types.Label `yaml:"patterns"`
	Amendments       []amendment              `yaml:"amendments"`
	StrictAmendments bool                     `yaml:"strict_amendments"`
	WorkshiftRef     types.Ref                `yaml:"workshift_ref"`
	DefaultName      string                   `yaml:"default_name"`
	DefaultLabel     types.Label              `yaml:"default_label"`
	DefaultOn        []types.Label            `yaml:"default_on"`
	WorktimeSource   types.WorktimeSource     `yaml:"worktime_source"`
	Schedules        []ScheduleDef            `yaml:"schedules"`
}

type amendment struct {
	At    timeValue   `yaml:"at"`
	Label types.Label `yaml:"label"`
}

// timeValue decodes any timestamp calendar.ParseTime accepts.
type timeValue struct {
	time.Time
}

func (t *timeValue) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a timestamp", value.Line)
	}
	parsed, err := calendar.ParseTime(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	t.Time = parsed
	return nil
}

// Load reads and parses the definition file at path.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse parses a YAML definition.
func Parse(data []byte) (*Definition, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}

	patterns := make(map[string]*types.RememberingPattern, len(doc.Patterns))
	for name, labels := range doc.Patterns {
		patterns[name] = types.NewRememberingPattern(labels...)
	}
	layout, err := (&layoutDecoder{patterns: patterns}).layout(&doc.Layout)
	if err != nil {
		return nil, err
	}

	cfg := types.Config{
		BaseUnitFreq:     doc.BaseUnitFreq,
		Start:            doc.Start.Time,
		End:              doc.End.Time,
		Layout:           layout,
		StrictAmendments: doc.StrictAmendments,
		WorkshiftRef:     doc.WorkshiftRef,
		DefaultName:      doc.DefaultName,
		DefaultLabel:     doc.DefaultLabel,
		WorktimeSource:   doc.WorktimeSource,
	}
	if len(doc.DefaultOn) > 0 {
		cfg.DefaultSelector = types.OneOf(doc.DefaultOn...)
	}
	for _, a := range doc.Amendments {
		cfg.Amendments = append(cfg.Amendments, types.Amendment{At: a.At.Time, Label: a.Label})
	}
	for _, s := range doc.Schedules {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: schedule without a name", ErrInvalidDefinition)
		}
	}
	return &Definition{Config: cfg, Schedules: doc.Schedules}, nil
}

// Build builds the timeboard and registers the extra schedules. logger
// may be nil.
func (d *Definition) Build(logger *slog.Logger) (*timeboard.Timeboard, error) {
	cfg := d.Config
	cfg.Logger = logger
	tb, err := timeboard.New(cfg)
	if err != nil {
		return nil, err
	}
	for _, s := range d.Schedules {
		var sel types.Selector
		if len(s.On) > 0 {
			sel = types.OneOf(s.On...)
		}
		if _, err := tb.AddSchedule(s.Name, sel); err != nil {
			return nil, err
		}
	}
	return tb, nil
}

type layoutDecoder struct {
	patterns map[string]*types.RememberingPattern
}

func (ld *layoutDecoder) layout(n *yaml.Node) (*types.Organizer, error) {
	switch n.Kind {
	case 0:
		return nil, fmt.Errorf("%w: layout is missing", ErrInvalidDefinition)
	case yaml.SequenceNode:
		p, err := labels(n)
		if err != nil {
			return nil, err
		}
		return types.PatternLayout(p...), nil
	case yaml.MappingNode:
		if name, ok := rememberRef(n); ok {
			p, err := ld.pattern(name, n)
			if err != nil {
				return nil, err
			}
			return types.RememberingLayout(p), nil
		}
		return ld.organizer(n)
	}
	return nil, fmt.Errorf("%w: line %d: layout must be a sequence or a mapping", ErrInvalidDefinition, n.Line)
}

type rawOrganizer struct {
	Marker        *types.Marker `yaml:"marker"`
	Marks         []timeValue   `yaml:"marks"`
	Structure     []yaml.Node   `yaml:"structure"`
	StructureFrom string        `yaml:"structure_from"`
}

func (ld *layoutDecoder) organizer(n *yaml.Node) (*types.Organizer, error) {
	var raw rawOrganizer
	if err := n.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}
	org := &types.Organizer{Marker: raw.Marker}
	for _, m := range raw.Marks {
		org.Marks = append(org.Marks, m.Time)
	}
	if raw.StructureFrom != "" {
		p, err := ld.pattern(raw.StructureFrom, n)
		if err != nil {
			return nil, err
		}
		org.StructureFrom = p
	}
	for i := range raw.Structure {
		el, err := ld.element(&raw.Structure[i])
		if err != nil {
			return nil, err
		}
		org.Structure = append(org.Structure, el)
	}
	return org, nil
}

func (ld *layoutDecoder) element(n *yaml.Node) (types.Element, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		var l types.Label
		if err := n.Decode(&l); err != nil {
			return types.Element{}, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
		}
		return types.Scalar(l), nil
	case yaml.SequenceNode:
		p, err := labels(n)
		if err != nil {
			return types.Element{}, err
		}
		return types.Labels(p...), nil
	case yaml.MappingNode:
		if name, ok := rememberRef(n); ok {
			p, err := ld.pattern(name, n)
			if err != nil {
				return types.Element{}, err
			}
			return types.Remember(p), nil
		}
		org, err := ld.organizer(n)
		if err != nil {
			return types.Element{}, err
		}
		return types.Nested(org), nil
	}
	return types.Element{}, fmt.Errorf("%w: line %d: unsupported structure element", ErrInvalidDefinition, n.Line)
}

func (ld *layoutDecoder) pattern(name string, n *yaml.Node) (*types.RememberingPattern, error) {
	p, ok := ld.patterns[name]
	if !ok {
		return nil, fmt.Errorf("%w: line %d: %q", ErrUnknownPattern, n.Line, name)
	}
	return p, nil
}

// rememberRef returns the pattern name of a {remember: name} mapping.
func rememberRef(n *yaml.Node) (string, bool) {
	if len(n.Content) != 2 || n.Content[0].Value != "remember" {
		return "", false
	}
	return n.Content[1].Value, true
}

func labels(n *yaml.Node) ([]types.Label, error) {
	var out []types.Label
	if err := n.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidDefinition, n.Line, err)
	}
	return out, nil
}
