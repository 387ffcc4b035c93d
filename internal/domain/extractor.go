package domain

import (
	"strings"

	m "github.com/mouse-blink/stubweave/internal/model"
)

// traceSuffix is the exact text appended to inserted lines, including the
// separating spaces.
const traceSuffix = "  " + m.TraceMarker

// ExtractStubs scans the lines of an already-stubbed file and reconstitutes
// the fragments that were inserted under new-format anchors. Each run of
// trace-marked lines following an anchor becomes that anchor's fragment,
// with the suffix and the anchor-derived indentation stripped, so the result
// round-trips to the originally authored fragment text.
func ExtractStubs(lines []string, table *m.FragmentTable) {
	for i := 0; i < len(lines); i++ {
		match := anchorPattern.FindStringSubmatch(lines[i])
		if match == nil {
			continue
		}

		tokens := strings.Fields(strings.TrimSpace(match[1]))
		if len(tokens) < 3 {
			continue
		}

		indent := leadingWhitespace(lines[i])

		fragment, consumed := collectFragment(lines[i+1:], indent)
		if len(fragment) == 0 {
			continue
		}

		table.Add(tokens[0], tokens[1], tokens[2], strings.Join(fragment, "\n"))
		i += consumed
	}
}

// collectFragment gathers the consecutive trace-marked lines (blank lines
// between marked lines included) directly after an anchor.
func collectFragment(lines []string, indent string) (fragment []string, consumed int) {
	var pendingBlanks []string

	for _, line := range lines {
		switch {
		case strings.HasSuffix(line, traceSuffix):
			// Blank lines only belong to the fragment when more marked
			// lines follow them.
			fragment = append(fragment, pendingBlanks...)
			pendingBlanks = pendingBlanks[:0]

			code := strings.TrimSuffix(line, traceSuffix)
			code = strings.TrimPrefix(code, indent)
			fragment = append(fragment, code)
			consumed++

		case strings.TrimSpace(line) == "" && len(fragment) > 0:
			pendingBlanks = append(pendingBlanks, line)
			consumed++

		default:
			return fragment, consumed - len(pendingBlanks)
		}
	}

	return fragment, consumed - len(pendingBlanks)
}
