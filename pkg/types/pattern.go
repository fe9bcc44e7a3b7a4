package types

// Pattern is a cyclic sequence of labels. A plain pattern restarts at its
// first label, shifted by the left dangle, in every span it is applied to.
type Pattern []Label

// RememberingPattern is a pattern with a persistent cursor. Each use
// continues where the previous one left off, across spans and across
// timeboards sharing the same instance. Share it by pointer; it is not safe
// for concurrent use.
type RememberingPattern struct {
	labels []Label
	cursor int
}

// NewRememberingPattern returns a remembering pattern positioned at its
// first label.
func NewRememberingPattern(labels ...Label) *RememberingPattern {
	return &RememberingPattern{labels: append([]Label(nil), labels...)}
}

// Len returns the number of labels in one cycle.
func (p *RememberingPattern) Len() int { return len(p.labels) }

// Labels returns a copy of the labels of one cycle.
func (p *RememberingPattern) Labels() []Label { return append([]Label(nil), p.labels...) }

// Cursor returns the index of the label Next returns.
func (p *RememberingPattern) Cursor() int { return p.cursor }

// Next returns the label under the cursor and advances the cursor.
// An empty pattern returns nil.
func (p *RememberingPattern) Next() Label {
	if len(p.labels) == 0 {
		return nil
	}
	l := p.labels[p.cursor]
	p.cursor = (p.cursor + 1) % len(p.labels)
	return l
}

// Skip advances the cursor by n labels.
func (p *RememberingPattern) Skip(n int) {
	if len(p.labels) == 0 || n <= 0 {
		return
	}
	p.cursor = (p.cursor + n) % len(p.labels)
}

// Restore moves the cursor back to a value returned by Cursor.
func (p *RememberingPattern) Restore(cursor int) {
	if len(p.labels) == 0 {
		return
	}
	p.cursor = ((cursor % len(p.labels)) + len(p.labels)) % len(p.labels)
}
