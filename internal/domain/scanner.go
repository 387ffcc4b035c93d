// Package domain implements the anchor-resolution and code-insertion engine.
package domain

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	m "github.com/mouse-blink/stubweave/internal/model"
)

var (
	// anchorPattern matches new-format anchors: a line comment whose body
	// starts with a TC/STEP/segment triple. Trailing free text after the
	// triple is ignored.
	anchorPattern = regexp.MustCompile(`(?i)//\s*(TC\d+\s+STEP\d+\s+\S+)`)

	// testCasePattern matches traditional-format markers, where a colon
	// terminates the identifier pair.
	testCasePattern = regexp.MustCompile(`(?i)//\s*(TC\d+\s+STEP\d+):`)

	// singleLineCodePattern captures the code text of an inline directive.
	singleLineCodePattern = regexp.MustCompile(`//\s*code:\s*(.*)`)
)

const (
	multiLineStart = "/* code:"
	multiLineEnd   = "*/"
)

// ScanResult is the outcome of scanning one file's lines.
type ScanResult struct {
	Points  []m.StubPoint
	Missing []m.MissingAnchor
}

// Scanner detects anchor markers in source lines and resolves them into
// stub points. New-format anchors resolve against the fragment table;
// traditional-format markers carry their code inline and are only consulted
// when new-format scanning yields no insertion requests. The scanner never
// mutates its input.
type Scanner struct {
	table   *m.FragmentTable
	blanket bool
	logger  *zap.Logger
}

// NewScanner constructs a Scanner over the given fragment table. The table
// may be nil or empty, restricting resolution to traditional markers.
// blanket enables the legacy whole-table insertion for anchor-less files.
func NewScanner(table *m.FragmentTable, blanket bool, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scanner{table: table, blanket: blanket, logger: logger}
}

// Scan extracts stub points from lines. The two grammars are mutually
// exclusive per file, new format taking priority.
func (s *Scanner) Scan(file m.Path, lines []string) ScanResult {
	rule := fileIgnoreRule(lines)
	if rule.all {
		s.logger.Debug("file excluded by ignore directive", zap.String("file", string(file)))

		return ScanResult{}
	}

	result := s.scanNewFormat(file, lines, rule)

	if len(result.Points) == 0 {
		result.Points = s.scanTraditionalFormat(file, lines, rule)
	}

	return result
}

// scanNewFormat finds three-token anchors and resolves their code through
// the fragment table. Well-formed anchors with no matching fragment become
// missing-anchor records; malformed anchors are logged and skipped.
func (s *Scanner) scanNewFormat(file m.Path, lines []string, rule ignoreRule) ScanResult {
	var result ScanResult

	anchorsFound := false

	for i, line := range lines {
		match := anchorPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		anchorsFound = true
		anchorText := strings.TrimSpace(match[1])

		tokens := strings.Fields(anchorText)
		if len(tokens) < 3 {
			s.logger.Warn("malformed anchor skipped",
				zap.String("file", string(file)),
				zap.Int("line", i+1),
				zap.String("anchor", anchorText))

			continue
		}

		if rule.ignores(tokens[0]) {
			continue
		}

		// TC and STEP tokens are matched case-insensitively; the segment
		// token is looked up exactly as authored.
		code, ok := s.table.Lookup(tokens[0], tokens[1], tokens[2])
		if !ok {
			result.Missing = append(result.Missing, m.MissingAnchor{
				File:   file,
				Line:   i + 1,
				Anchor: anchorText,
			})

			continue
		}

		result.Points = append(result.Points, m.StubPoint{
			ID:         anchorText,
			Code:       code,
			TargetLine: i + 1,
			AnchorLine: i + 1,
			File:       file,
			Format:     m.FormatNew,
		})
	}

	if !anchorsFound && s.blanket {
		result.Points = s.blanketPoints(file)
	}

	return result
}

// blanketPoints enumerates the whole fragment table as document-start
// insertions, reproducing the legacy anchor-less behavior.
func (s *Scanner) blanketPoints(file m.Path) []m.StubPoint {
	var points []m.StubPoint

	for _, tc := range s.table.TestCases() {
		for _, step := range s.table.Steps(tc) {
			for _, segment := range s.table.Segments(tc, step) {
				code, ok := s.table.Lookup(tc, step, segment)
				if !ok {
					continue
				}

				points = append(points, m.StubPoint{
					ID:         tc + " " + step + " " + segment,
					Code:       code,
					TargetLine: 0,
					AnchorLine: 0,
					File:       file,
					Format:     m.FormatNew,
				})
			}
		}
	}

	return points
}

// scanTraditionalFormat finds identifier-pair markers whose code is embedded
// on the following line, either inline ("// code: ...") or as a block
// comment ("/* code:" ... "*/"). Markers without a directive on the very
// next line are skipped without error. The scan always runs in full.
func (s *Scanner) scanTraditionalFormat(file m.Path, lines []string, rule ignoreRule) []m.StubPoint {
	var points []m.StubPoint

	for i := 0; i < len(lines); i++ {
		match := testCasePattern.FindStringSubmatch(lines[i])
		if match == nil {
			continue
		}

		id := match[1]
		if rule.ignores(strings.Fields(id)[0]) {
			continue
		}

		if i+1 >= len(lines) {
			continue
		}

		next := lines[i+1]

		if codeMatch := singleLineCodePattern.FindStringSubmatch(next); codeMatch != nil {
			points = append(points, m.StubPoint{
				ID:         id,
				Code:       codeMatch[1],
				TargetLine: i + 2, // one line after the code directive
				AnchorLine: i + 1,
				File:       file,
				Format:     m.FormatTraditional,
			})

			continue
		}

		if strings.Contains(next, multiLineStart) {
			var codeLines []string

			j := i + 2
			for j < len(lines) && !strings.Contains(lines[j], multiLineEnd) {
				codeLines = append(codeLines, lines[j])
				j++
			}

			if len(codeLines) == 0 {
				continue
			}

			target := j + 1 // at the block closer
			if j >= len(lines) {
				target = i + 2
			}

			points = append(points, m.StubPoint{
				ID:         id,
				Code:       strings.Join(codeLines, "\n"),
				TargetLine: target,
				AnchorLine: i + 1,
				File:       file,
				Format:     m.FormatTraditional,
			})
		}
	}

	return points
}
