// Package validate checks request payloads against embedded JSON Schemas
// before they reach the handlers.
package validate

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/garnizeh/uzman/pkg/models"
	"github.com/qri-io/jsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Validator holds the compiled schemas, keyed by file name without extension.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

func New() (*Validator, error) {
	entries, err := fs.ReadDir(schemaFS, "schemas")
	if err != nil {
		return nil, fmt.Errorf("read schemas dir: %w", err)
	}

	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(entries))}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		raw, err := schemaFS.ReadFile(path.Join("schemas", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}

		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(raw, rs); err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}

		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		v.schemas[name] = rs
	}

	return v, nil
}

// Validate checks payload against the named schema. Failures come back
// wrapped in models.ErrValidation with the failing paths in the message.
func (v *Validator) Validate(ctx context.Context, name string, payload []byte) error {
	rs, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	keyErrs, err := rs.ValidateBytes(ctx, payload)
	if err != nil {
		return fmt.Errorf("invalid JSON body: %w", models.ErrValidation)
	}
	if len(keyErrs) > 0 {
		msgs := make([]string, 0, len(keyErrs))
		for _, ke := range keyErrs {
			msgs = append(msgs, ke.Error())
		}
		return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), models.ErrValidation)
	}

	return nil
}
