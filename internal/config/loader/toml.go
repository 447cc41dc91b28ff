package loader

import (
	"errors"

	"github.com/pelletier/go-toml/v2"
)

// decodeTOML parses a TOML document. Decode errors carry their position.
func decodeTOML(source string, data []byte) (map[string]any, error) {
	var out map[string]any
	err := toml.Unmarshal(data, &out)
	if err == nil {
		if out == nil {
			out = map[string]any{}
		}
		return out, nil
	}

	pe := &ParseError{Path: source, Message: err.Error(), Err: err}
	var de *toml.DecodeError
	if errors.As(err, &de) {
		pe.Line, pe.Column = de.Position()
	}
	return nil, pe
}
