package loader

import (
	"gopkg.in/yaml.v3"
)

// decodeYAML parses a YAML document whose top level must be a mapping. An
// empty document decodes to an empty map.
func decodeYAML(source string, data []byte) (map[string]any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}

	out := map[string]any{}
	if doc.Kind == 0 {
		return out, nil
	}
	if err := doc.Decode(&out); err != nil {
		return nil, &ParseError{
			Path:    source,
			Line:    doc.Line,
			Column:  doc.Column,
			Message: "top level must be a mapping",
			Err:     err,
		}
	}
	return out, nil
}
