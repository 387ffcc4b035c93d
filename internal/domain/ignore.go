package domain

import (
	"strings"
)

// ignoreDirective is the comment body that excludes a file (or specific
// test cases) from stubbing: "// stubweave:ignore" skips the whole file,
// "// stubweave:ignore TC001, TC002" skips anchors of the named test cases.
const ignoreDirective = "stubweave:ignore"

type ignoreRule struct {
	all   bool
	names map[string]struct{}
}

func (r ignoreRule) ignores(tc string) bool {
	if r.all {
		return true
	}

	if len(r.names) == 0 {
		return false
	}

	_, ok := r.names[strings.ToUpper(tc)]

	return ok
}

func mergeIgnoreRule(dst *ignoreRule, src ignoreRule) {
	if src.all {
		dst.all = true
		dst.names = nil

		return
	}

	if dst.all || len(src.names) == 0 {
		return
	}

	if dst.names == nil {
		dst.names = make(map[string]struct{}, len(src.names))
	}

	for name := range src.names {
		dst.names[name] = struct{}{}
	}
}

func parseIgnoreDirective(commentText string) (ignoreRule, bool) {
	s := strings.TrimSpace(commentText)
	if strings.HasPrefix(s, "//") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "//"))
	} else if strings.HasPrefix(s, "/*") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "/*"))
		s = strings.TrimSpace(strings.TrimSuffix(s, "*/"))
	}

	if !strings.HasPrefix(s, ignoreDirective) {
		return ignoreRule{}, false
	}

	rest := strings.TrimSpace(strings.TrimPrefix(s, ignoreDirective))
	if rest == "" {
		return ignoreRule{all: true}, true
	}

	parts := strings.Split(rest, ",")
	rule := ignoreRule{names: make(map[string]struct{}, len(parts))}

	for _, part := range parts {
		name := strings.ToUpper(strings.TrimSpace(part))
		if name == "" {
			continue
		}

		rule.names[name] = struct{}{}
	}

	if len(rule.names) == 0 {
		rule.all = true
		rule.names = nil
	}

	return rule, true
}

// fileIgnoreRule merges every ignore directive found in the file.
func fileIgnoreRule(lines []string) ignoreRule {
	var rule ignoreRule

	for _, line := range lines {
		idx := strings.Index(line, "//")
		if idx < 0 {
			idx = strings.Index(line, "/*")
		}

		if idx < 0 {
			continue
		}

		if r, ok := parseIgnoreDirective(line[idx:]); ok {
			mergeIgnoreRule(&rule, r)
		}
	}

	return rule
}
