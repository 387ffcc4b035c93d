package adapter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	m "github.com/mouse-blink/stubweave/internal/model"
)

// TableStore loads and persists fragment tables.
type TableStore interface {
	// Load parses a stubs document into a fragment table. Key order
	// follows the document; literal block scalars keep their exact
	// whitespace. A missing or unreadable file is an error, a present but
	// empty document is an empty table.
	Load(path m.Path) (*m.FragmentTable, error)

	// Save writes a fragment table as YAML, rendering every code fragment
	// as a literal block scalar so inserted formatting survives the
	// round trip.
	Save(path m.Path, table *m.FragmentTable) error
}

// YAMLTableStore is the yaml.v3-backed TableStore. Reads go through the
// encoding-tolerant FileIO so stub documents saved in legacy encodings
// still load.
type YAMLTableStore struct {
	io FileIO
}

// NewYAMLTableStore constructs a YAMLTableStore reading through io.
func NewYAMLTableStore(io FileIO) *YAMLTableStore {
	return &YAMLTableStore{io: io}
}

// Load reads and parses the stubs document at path.
func (s *YAMLTableStore) Load(path m.Path) (*m.FragmentTable, error) {
	content, _, err := s.io.Read(path)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("parse stubs document %s: %w", path, err)
	}

	table := m.NewFragmentTable()

	if len(doc.Content) == 0 {
		return table, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("stubs document %s: top level must be a mapping of test cases", path)
	}

	for tc, steps := range mappingPairs(root) {
		if steps.Kind != yaml.MappingNode {
			continue
		}

		for step, segments := range mappingPairs(steps) {
			if segments.Kind != yaml.MappingNode {
				continue
			}

			for segment, code := range mappingPairs(segments) {
				if code.Kind != yaml.ScalarNode {
					continue
				}

				table.Add(tc, step, segment, code.Value)
			}
		}
	}

	return table, nil
}

// Save marshals the table with literal block scalars and plain UTF-8 output.
func (s *YAMLTableStore) Save(path m.Path, table *m.FragmentTable) error {
	root := &yaml.Node{Kind: yaml.MappingNode}

	for _, tc := range table.TestCases() {
		caseNode := &yaml.Node{Kind: yaml.MappingNode}

		for _, step := range table.Steps(tc) {
			stepNode := &yaml.Node{Kind: yaml.MappingNode}

			for _, segment := range table.Segments(tc, step) {
				code, _ := table.Lookup(tc, step, segment)
				stepNode.Content = append(stepNode.Content,
					scalarNode(segment, 0),
					scalarNode(code, yaml.LiteralStyle),
				)
			}

			caseNode.Content = append(caseNode.Content, scalarNode(step, 0), stepNode)
		}

		root.Content = append(root.Content, scalarNode(tc, 0), caseNode)
	}

	data, err := yaml.Marshal(root)
	if err != nil {
		return fmt.Errorf("marshal stubs document: %w", err)
	}

	if err := os.WriteFile(string(path), data, 0o644); err != nil {
		return fmt.Errorf("write stubs document %s: %w", path, err)
	}

	return nil
}

// mappingPairs iterates the key/value pairs of a YAML mapping node.
func mappingPairs(node *yaml.Node) func(yield func(string, *yaml.Node) bool) {
	return func(yield func(string, *yaml.Node) bool) {
		for i := 0; i+1 < len(node.Content); i += 2 {
			if !yield(node.Content[i].Value, node.Content[i+1]) {
				return
			}
		}
	}
}

func scalarNode(value string, style yaml.Style) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value, Style: style}
}
