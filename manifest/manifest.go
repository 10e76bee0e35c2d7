package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nulifyer/pkgpilot/logger"
)

// FileName is the manifest file looked up in the project root.
const FileName = "package.json"

var (
	ErrManifestNotFound = errors.New("package.json file not found in this directory")
	ErrManifestParse    = errors.New("error while reading the package.json file")
)

// ParseError wraps the decode failure for a manifest on disk.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrManifestParse, e.Path, e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrManifestParse, e.Err} }

// Dependency is one declared dependency and its version range as written.
type Dependency struct {
	Name  string
	Range string
	Dev   bool
}

// Dependencies keeps manifest key order.
type Dependencies []Dependency

// Get returns the declared range for name.
func (d Dependencies) Get(name string) (string, bool) {
	for _, dep := range d {
		if dep.Name == name {
			return dep.Range, true
		}
	}
	return "", false
}

func (d Dependencies) Names() []string {
	out := make([]string, len(d))
	for i, dep := range d {
		out[i] = dep.Name
	}
	return out
}

type Manifest struct {
	Path         string
	Name         string
	Version      string
	Dependencies Dependencies
}

type options struct {
	includeDev bool
}

type Option func(*options)

// WithDevDependencies appends devDependencies after dependencies.
func WithDevDependencies() Option {
	return func(o *options) { o.includeDev = true }
}

// Load reads <projectRoot>/package.json. On any failure the returned
// manifest is non-nil with no dependencies, so callers can render it as-is.
func Load(projectRoot string, opts ...Option) (*Manifest, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	path := filepath.Join(projectRoot, FileName)
	m := &Manifest{Path: path, Dependencies: Dependencies{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("No %s in %s", FileName, projectRoot)
			return m, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return m, &ParseError{Path: path, Err: err}
	}

	parsed, err := Parse(data, o.includeDev)
	if err != nil {
		logger.Error("Failed to parse %s: %v", path, err)
		return m, &ParseError{Path: path, Err: err}
	}
	parsed.Path = path
	logger.Info("Loaded %d dependencies from %s", len(parsed.Dependencies), path)
	return parsed, nil
}

// Parse decodes manifest bytes, preserving the key order of the
// dependency objects.
func Parse(data []byte, includeDev bool) (*Manifest, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		// Valid JSON that is not an object has no dependency fields.
		if !json.Valid(data) {
			return nil, errors.New("invalid JSON in manifest")
		}
		return &Manifest{Dependencies: Dependencies{}}, nil
	}

	m := &Manifest{Dependencies: Dependencies{}}
	var dev Dependencies
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch key {
		case "name":
			if err := decodeOptionalString(dec, &m.Name); err != nil {
				return nil, fmt.Errorf("name: %w", err)
			}
		case "version":
			if err := decodeOptionalString(dec, &m.Version); err != nil {
				return nil, fmt.Errorf("version: %w", err)
			}
		case "dependencies":
			deps, err := decodeOrderedMap(dec, false)
			if err != nil {
				return nil, fmt.Errorf("dependencies: %w", err)
			}
			m.Dependencies = deps
		case "devDependencies":
			deps, err := decodeOrderedMap(dec, true)
			if err != nil {
				return nil, fmt.Errorf("devDependencies: %w", err)
			}
			dev = deps
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after manifest object")
	}

	if includeDev {
		for _, d := range dev {
			if _, dup := m.Dependencies.Get(d.Name); dup {
				continue
			}
			m.Dependencies = append(m.Dependencies, d)
		}
	}
	return m, nil
}

func decodeOptionalString(dec *json.Decoder, dst *string) error {
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// decodeOrderedMap reads an object of string values. A null value
// yields an empty list, matching a missing field.
func decodeOrderedMap(dec *json.Decoder, dev bool) (Dependencies, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return Dependencies{}, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected an object, got %v", tok)
	}

	out := Dependencies{}
	seen := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name := keyTok.(string)
		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		rng, ok := valTok.(string)
		if !ok {
			return nil, fmt.Errorf("%s: version range must be a string, got %v", name, valTok)
		}
		// last duplicate wins, as with a plain object decode
		if i, dup := seen[name]; dup {
			out[i].Range = rng
			continue
		}
		seen[name] = len(out)
		out = append(out, Dependency{Name: name, Range: rng, Dev: dev})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}
