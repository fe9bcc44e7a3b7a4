package types

import (
	"fmt"
	"time"
)

// ElementKind tells which variant an Element holds.
type ElementKind int

// Element kinds.
const (
	ElementScalar ElementKind = iota
	ElementPattern
	ElementRemembering
	ElementOrganizer
)

// Element is one entry of an organizer structure: a nested organizer, a
// plain pattern, a remembering pattern, or a scalar label that turns the
// whole span into a single workshift.
type Element struct {
	Kind        ElementKind
	Label       Label
	Pattern     Pattern
	Remembering *RememberingPattern
	Organizer   *Organizer
}

// Scalar returns an element assigning label to a whole span as one
// compound workshift.
func Scalar(label Label) Element {
	return Element{Kind: ElementScalar, Label: label}
}

// Labels returns a plain pattern element.
func Labels(labels ...Label) Element {
	return Element{Kind: ElementPattern, Pattern: Pattern(labels)}
}

// Remember returns a remembering pattern element.
func Remember(p *RememberingPattern) Element {
	return Element{Kind: ElementRemembering, Remembering: p}
}

// Nested returns an element applying org recursively to the span.
func Nested(org *Organizer) Element {
	return Element{Kind: ElementOrganizer, Organizer: org}
}

// Organizer partitions a span into sub-spans, either by a Marker or at
// explicit Marks, and lays the Structure over the sub-spans cyclically.
// StructureFrom, when set instead of Structure, gives each sub-span the
// next label of a remembering pattern as a compound workshift.
type Organizer struct {
	Marker        *Marker
	Marks         []time.Time
	Structure     []Element
	StructureFrom *RememberingPattern
}

// PatternLayout returns the organizer applying labels to the whole frame
// as a plain pattern.
func PatternLayout(labels ...Label) *Organizer {
	return &Organizer{Structure: []Element{Labels(labels...)}}
}

// RememberingLayout returns the organizer applying p to the whole frame.
func RememberingLayout(p *RememberingPattern) *Organizer {
	return &Organizer{Structure: []Element{Remember(p)}}
}

// Validate checks the organizer tree rooted at o. It rejects an organizer
// with both a marker and marks, with both a structure and StructureFrom,
// an invalid marker, and an organizer nested within itself.
func (o *Organizer) Validate() error {
	return o.validate(map[*Organizer]bool{})
}

func (o *Organizer) validate(ancestors map[*Organizer]bool) error {
	if o == nil {
		return fmt.Errorf("%w: nil organizer", ErrInvalidLayout)
	}
	if ancestors[o] {
		return fmt.Errorf("%w: organizer is nested within itself", ErrInvalidLayout)
	}
	if o.Marker != nil && len(o.Marks) > 0 {
		return fmt.Errorf("%w: organizer has both a marker and marks", ErrInvalidLayout)
	}
	if o.StructureFrom != nil && len(o.Structure) > 0 {
		return fmt.Errorf("%w: organizer has both a structure and a structure source", ErrInvalidLayout)
	}
	if o.Marker != nil {
		if err := o.Marker.Validate(); err != nil {
			return err
		}
	}
	ancestors[o] = true
	defer delete(ancestors, o)
	for i, el := range o.Structure {
		switch el.Kind {
		case ElementScalar, ElementPattern:
		case ElementRemembering:
			if el.Remembering == nil {
				return fmt.Errorf("%w: element %d: nil remembering pattern", ErrInvalidLayout, i)
			}
		case ElementOrganizer:
			if err := el.Organizer.validate(ancestors); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		default:
			return fmt.Errorf("%w: element %d: unknown kind %d", ErrInvalidLayout, i, el.Kind)
		}
	}
	return nil
}

// RememberingPatterns returns every remembering pattern reachable from o,
// each once.
func (o *Organizer) RememberingPatterns() []*RememberingPattern {
	seen := map[*RememberingPattern]bool{}
	visited := map[*Organizer]bool{}
	var out []*RememberingPattern
	add := func(p *RememberingPattern) {
		if p != nil && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	var walk func(*Organizer)
	walk = func(org *Organizer) {
		if org == nil || visited[org] {
			return
		}
		visited[org] = true
		add(org.StructureFrom)
		for _, el := range org.Structure {
			switch el.Kind {
			case ElementRemembering:
				add(el.Remembering)
			case ElementOrganizer:
				walk(el.Organizer)
			}
		}
	}
	walk(o)
	return out
}
