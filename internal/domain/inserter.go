package domain

import (
	"sort"
	"strings"

	m "github.com/mouse-blink/stubweave/internal/model"
)

// InsertStubs rewrites lines with the given stub points applied and returns
// the new line sequence plus the number of points inserted. Points without
// resolved code are dropped. The input slice is not mutated.
//
// Points are applied in descending target-line order so earlier insertions
// never shift the line numbers of later ones; points sharing a target line
// keep their detection order.
func InsertStubs(lines []string, points []m.StubPoint) ([]string, int) {
	resolved := make([]m.StubPoint, 0, len(points))

	for _, p := range points {
		if p.Code != "" {
			resolved = append(resolved, p)
		}
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].TargetLine < resolved[j].TargetLine
	})

	out := make([]string, len(lines))
	copy(out, lines)

	// Applied back to front: later lines first, so earlier insertions never
	// shift a pending target; within a shared target the reverse walk of the
	// ascending order keeps detection order in the output.
	for k := len(resolved) - 1; k >= 0; k-- {
		p := resolved[k]
		target := p.TargetLine
		if target < 0 {
			target = 0
		}

		if target > len(out) {
			target = len(out) // append at end of file
		}

		indent := ""
		if target > 0 {
			indent = leadingWhitespace(out[target-1])
		}

		block := formatFragment(p.Code, indent)

		out = append(out[:target], append(block, out[target:]...)...)
	}

	return out, len(resolved)
}

// formatFragment splits fragment code into lines, indents each non-blank
// line and appends the traceability suffix. Blank lines go in verbatim.
func formatFragment(code, indent string) []string {
	codeLines := strings.Split(code, "\n")

	// A trailing newline in a literal block scalar is part of the YAML
	// representation, not of the fragment.
	if n := len(codeLines); n > 1 && codeLines[n-1] == "" {
		codeLines = codeLines[:n-1]
	}

	formatted := make([]string, 0, len(codeLines))

	for _, line := range codeLines {
		if strings.TrimSpace(line) == "" {
			formatted = append(formatted, line)
			continue
		}

		formatted = append(formatted, indent+line+"  "+m.TraceMarker)
	}

	return formatted
}

func leadingWhitespace(line string) string {
	for i, r := range line {
		if r != ' ' && r != '\t' {
			return line[:i]
		}
	}

	return line
}
