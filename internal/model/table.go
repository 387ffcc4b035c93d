package model

import "strings"

// FragmentTable is the hierarchical test-case -> step -> segment -> code
// mapping loaded from a stubs document. Key order follows the document.
// TC and STEP keys are stored upper-cased; segment keys are stored exactly
// as authored. The table is read-only during scanning and safe for
// concurrent lookups.
type FragmentTable struct {
	order []string
	cases map[string]*tableCase
}

type tableCase struct {
	order []string
	steps map[string]*tableStep
}

type tableStep struct {
	order    []string
	segments map[string]string
}

// NewFragmentTable creates an empty fragment table.
func NewFragmentTable() *FragmentTable {
	return &FragmentTable{cases: make(map[string]*tableCase)}
}

// Add stores a code fragment under the given key triple, creating the
// intermediate levels as needed. Later adds for the same triple overwrite.
func (t *FragmentTable) Add(tc, step, segment, code string) {
	tc = strings.ToUpper(tc)
	step = strings.ToUpper(step)

	c, ok := t.cases[tc]
	if !ok {
		c = &tableCase{steps: make(map[string]*tableStep)}
		t.cases[tc] = c
		t.order = append(t.order, tc)
	}

	s, ok := c.steps[step]
	if !ok {
		s = &tableStep{segments: make(map[string]string)}
		c.steps[step] = s
		c.order = append(c.order, step)
	}

	if _, ok := s.segments[segment]; !ok {
		s.order = append(s.order, segment)
	}

	s.segments[segment] = code
}

// Lookup returns the code fragment for a key triple. Each missing level
// reports not-found; a nil table never panics.
func (t *FragmentTable) Lookup(tc, step, segment string) (string, bool) {
	if t == nil {
		return "", false
	}

	c, ok := t.cases[strings.ToUpper(tc)]
	if !ok {
		return "", false
	}

	s, ok := c.steps[strings.ToUpper(step)]
	if !ok {
		return "", false
	}

	code, ok := s.segments[segment]

	return code, ok
}

// TestCases lists test-case identifiers in document order.
func (t *FragmentTable) TestCases() []string {
	if t == nil {
		return nil
	}

	return t.order
}

// Steps lists step identifiers for a test case in document order.
func (t *FragmentTable) Steps(tc string) []string {
	if t == nil {
		return nil
	}

	c, ok := t.cases[strings.ToUpper(tc)]
	if !ok {
		return nil
	}

	return c.order
}

// Segments lists segment identifiers for a step in document order.
func (t *FragmentTable) Segments(tc, step string) []string {
	if t == nil {
		return nil
	}

	c, ok := t.cases[strings.ToUpper(tc)]
	if !ok {
		return nil
	}

	s, ok := c.steps[strings.ToUpper(step)]
	if !ok {
		return nil
	}

	return s.order
}

// Len returns the number of leaf fragments in the table.
func (t *FragmentTable) Len() int {
	if t == nil {
		return 0
	}

	n := 0
	for _, c := range t.cases {
		for _, s := range c.steps {
			n += len(s.segments)
		}
	}

	return n
}

// Empty reports whether the table holds no fragments. A nil table is empty,
// which limits scanning to traditional-format resolution.
func (t *FragmentTable) Empty() bool {
	return t.Len() == 0
}
