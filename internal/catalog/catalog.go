// Package catalog holds the static list of model identifiers accepted by the
// Perplexity chat completions API. The list ships with the binary and is never
// fetched from the API.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var defaultDocument []byte

// Default returns the catalog parsed from the embedded models.yaml. It is
// parsed once per process.
var Default = sync.OnceValues(func() (Catalog, error) {
	return Parse(defaultDocument)
})

// Catalog is an ordered, duplicate free set of model identifiers.
type Catalog struct {
	models []string
	index  map[string]struct{}
}

type document struct {
	Models []string `yaml:"models"`
}

// Parse a yaml document with a top level 'models' sequence.
func Parse(b []byte) (Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return Catalog{}, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	return New(doc.Models)
}

// New catalog from ids. Order is kept, ids are matched case sensitively.
func New(ids []string) (Catalog, error) {
	if len(ids) == 0 {
		return Catalog{}, errors.New("catalog must contain at least one model")
	}
	c := Catalog{
		models: make([]string, 0, len(ids)),
		index:  make(map[string]struct{}, len(ids)),
	}
	for i, id := range ids {
		if strings.TrimSpace(id) == "" {
			return Catalog{}, fmt.Errorf("model at index %v is blank", i)
		}
		if _, exists := c.index[id]; exists {
			return Catalog{}, fmt.Errorf("duplicate model: '%v'", id)
		}
		c.index[id] = struct{}{}
		c.models = append(c.models, id)
	}
	return c, nil
}

// Models returns a copy of the identifiers, in catalog order.
func (c Catalog) Models() []string {
	return slices.Clone(c.models)
}

func (c Catalog) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

func (c Catalog) Len() int {
	return len(c.models)
}
