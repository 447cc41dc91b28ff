// Package loader reads glyphgrid configuration sources into generic maps.
//
// Files (TOML or YAML, chosen by extension) and environment variables each
// produce a map[string]any; the config package merges them with DeepMerge
// and decodes the result into its typed Config.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned by ForPath for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// FileSystem is the file access loaders need. Tests substitute an
// in-memory implementation.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS reads from the operating system.
type OSFS struct{}

func (OSFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (OSFS) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }

// DefaultFS returns OSFS.
func DefaultFS() FileSystem {
	return OSFS{}
}

// Format is a configuration file syntax.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from path's extension: .toml, or .yaml and
// .yml. Case is ignored.
func FormatFor(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Decode parses data into a map. source names the data in errors.
func (f Format) Decode(source string, data []byte) (map[string]any, error) {
	switch f {
	case FormatTOML:
		return decodeTOML(source, data)
	case FormatYAML:
		return decodeYAML(source, data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
}

// File loads one configuration file. A missing file loads as nil, nil so
// callers can treat it as an empty layer.
type File struct {
	fsys   FileSystem
	path   string
	format Format
}

// NewFile returns a loader for path in the given format. A nil fsys reads
// from the operating system.
func NewFile(fsys FileSystem, path string, format Format) *File {
	if fsys == nil {
		fsys = DefaultFS()
	}
	return &File{fsys: fsys, path: path, format: format}
}

// ForPath returns a File whose format matches path's extension.
func ForPath(fsys FileSystem, path string) (*File, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	return NewFile(fsys, path, format), nil
}

// Path returns the file the loader reads.
func (f *File) Path() string { return f.path }

// Format returns the file's syntax.
func (f *File) Format() Format { return f.format }

// Load reads and decodes the file.
func (f *File) Load() (map[string]any, error) {
	data, err := readFile(f.fsys, f.path)
	if err != nil || data == nil {
		return nil, err
	}
	return f.format.Decode(f.path, data)
}

// LoadFromReader decodes r in the file's format instead of reading the
// file.
func (f *File) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return f.format.Decode("<reader>", data)
}

// ParseError reports a syntax or type error in a configuration source.
// Line and Column are 1-based and zero when the decoder gives no position.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	where := e.Path
	switch {
	case e.Line > 0 && e.Column > 0:
		where = fmt.Sprintf("%s:%d:%d", e.Path, e.Line, e.Column)
	case e.Line > 0:
		where = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	return fmt.Sprintf("parse error in %s: %s", where, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DeepMerge merges src into dst and returns dst. Nested maps merge key by
// key; any other src value replaces the dst value.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		sub, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		if cur, ok := dst[k].(map[string]any); ok {
			dst[k] = DeepMerge(cur, sub)
		} else {
			dst[k] = DeepMerge(nil, sub)
		}
	}
	return dst
}

// readFile reads path, mapping a missing file to (nil, nil).
func readFile(fsys FileSystem, path string) ([]byte, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return data, nil
}
