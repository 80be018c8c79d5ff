package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrSchemaNotFound is returned when a Source has no schema with the requested name.
var ErrSchemaNotFound = errors.New("schema not found")

// Source resolves a schema name to its raw definition.
type Source interface {
	Read(name string) ([]byte, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(name string) ([]byte, error)

// Read calls f(name).
func (f SourceFunc) Read(name string) ([]byte, error) {
	return f(name)
}

// FSSource reads "<name>.json", "<name>.yaml" or "<name>.yml" from a file
// system, trying each extension in that order.
type FSSource struct {
	FS  fs.FS
	Dir string
}

// Read implements Source.
func (s FSSource) Read(name string) ([]byte, error) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		data, err := fs.ReadFile(s.FS, path.Join(s.Dir, name+ext))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, name)
}

// ErrNoSchemaKeywords is returned by Parse for a document that decodes but
// constrains nothing, such as a clobbered file that happens to be valid YAML.
var ErrNoSchemaKeywords = errors.New("document declares no schema keywords")

// Parse decodes a schema definition. JSON is tried first; anything else is
// read as YAML, which is a superset. The document must declare at least one
// of type, $ref, enum, properties or items.
func Parse(data []byte) (JSON, error) {
	s, err := decode(data)
	if err != nil {
		return JSON{}, err
	}
	if s.IsZero() {
		return JSON{}, fmt.Errorf("failed to parse schema: %w", ErrNoSchemaKeywords)
	}
	return s, nil
}

func decode(data []byte) (JSON, error) {
	var s JSON
	if err := json.Unmarshal(data, &s); err == nil {
		return s, nil
	}

	// yaml.v3 decodes into map[string]any; re-encode so the json tags apply.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return JSON{}, fmt.Errorf("failed to parse schema: %w", err)
	}
	if raw == nil {
		return JSON{}, errors.New("failed to parse schema: empty document")
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return JSON{}, fmt.Errorf("failed to parse schema: %w", err)
	}
	if err := json.Unmarshal(buf, &s); err != nil {
		return JSON{}, fmt.Errorf("failed to parse schema: %w", err)
	}
	return s, nil
}

// Loader caches parsed schemas by name. It is safe for concurrent use.
type Loader struct {
	source Source

	mu    sync.RWMutex
	cache map[string]JSON
}

// NewLoader creates a Loader that reads from source.
func NewLoader(source Source) *Loader {
	return &Loader{
		source: source,
		cache:  make(map[string]JSON),
	}
}

// Load returns the named schema. fresh reports whether it was read from the
// source on this call rather than served from the cache.
func (l *Loader) Load(name string) (s JSON, fresh bool, err error) {
	l.mu.RLock()
	s, ok := l.cache[name]
	l.mu.RUnlock()
	if ok {
		return s, false, nil
	}

	data, err := l.source.Read(name)
	if err != nil {
		return JSON{}, false, err
	}
	s, err = Parse(data)
	if err != nil {
		return JSON{}, false, fmt.Errorf("schema %s: %w", name, err)
	}

	l.mu.Lock()
	l.cache[name] = s
	l.mu.Unlock()
	return s, true, nil
}

// Cached reports whether name is currently cached.
func (l *Loader) Cached(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.cache[name]
	return ok
}

// Clear drops every cached schema. The next Load of each name reads the source again.
func (l *Loader) Clear() {
	l.mu.Lock()
	l.cache = make(map[string]JSON)
	l.mu.Unlock()
}
