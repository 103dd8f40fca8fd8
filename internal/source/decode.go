package source

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"treekit/internal/tree"
)

// envelope is the object form of a document: {"nodes": [...]}.
type envelope struct {
	Nodes []map[string]any `json:"nodes" yaml:"nodes"`
}

// decodeJSON accepts a top-level array of records or an object with a nodes
// array. Numbers keep their literal form so numeric ids stay exact.
func decodeJSON(data []byte, fields tree.FieldMapper) ([]tree.RawNode, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if data[0] == '{' {
		var env envelope
		if err := dec.Decode(&env); err != nil {
			return nil, err
		}
		return flatten(env.Nodes, fields), nil
	}
	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, err
	}
	return flatten(records, fields), nil
}

// decodeYAML accepts the same two shapes as decodeJSON.
func decodeYAML(data []byte, fields tree.FieldMapper) ([]tree.RawNode, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]

	switch root.Kind {
	case yaml.SequenceNode:
		var records []map[string]any
		if err := root.Decode(&records); err != nil {
			return nil, err
		}
		return flatten(records, fields), nil
	case yaml.MappingNode:
		var env envelope
		if err := root.Decode(&env); err != nil {
			return nil, err
		}
		return flatten(env.Nodes, fields), nil
	default:
		return nil, fmt.Errorf("expected a list of records or a nodes mapping, line %d", root.Line)
	}
}
