package question

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yml
var defaultCatalogYAML []byte

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() (*Catalog, error) {
	spec, err := parseYAMLSpec(defaultCatalogYAML)
	if err != nil {
		return nil, fmt.Errorf("parse built-in catalog: %w", err)
	}
	return NewCatalog(spec)
}

// LoadCatalog reads a catalog file, or the built-in catalog when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultCatalog()
	}
	spec, err := LoadSpec(path)
	if err != nil {
		return nil, err
	}
	return newCatalog(spec), nil
}

// LoadSpec reads, parses, and validates a catalog file.
func LoadSpec(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("read question catalog: %w", err)
	}
	spec, err := parseSpec(data, path)
	if err != nil {
		return Spec{}, err
	}
	return NormalizeSpec(spec)
}

func parseSpec(data []byte, path string) (Spec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		return parseJSONSpec(data)
	}
	return parseYAMLSpec(data)
}

// catalogJSON mirrors Spec with the solution exposed, since Question hides it from API JSON.
type catalogJSON struct {
	Version   int `json:"version"`
	Questions []struct {
		Question
		Solution string `json:"solution"`
	} `json:"questions"`
}

func parseJSONSpec(data []byte) (Spec, error) {
	var doc catalogJSON
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return Spec{}, fmt.Errorf("parse json: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Spec{}, fmt.Errorf("parse json: multiple documents are not supported")
		}
		return Spec{}, fmt.Errorf("parse json: %w", err)
	}
	spec := Spec{Version: doc.Version, Questions: make([]Question, 0, len(doc.Questions))}
	for _, entry := range doc.Questions {
		q := entry.Question
		q.Solution = entry.Solution
		spec.Questions = append(spec.Questions, q)
	}
	return spec, nil
}

func parseYAMLSpec(data []byte) (Spec, error) {
	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return Spec{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Spec{}, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return Spec{}, fmt.Errorf("parse yaml: %w", err)
	}
	return spec, nil
}
