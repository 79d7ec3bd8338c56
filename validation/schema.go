// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package validation

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// schemaPrinter renders schema error kinds in English.
var schemaPrinter = message.NewPrinter(language.English)

// Schema is a decoded JSON Schema document.
// Build it with [ParseSchema]; the zero value is not usable.
type Schema struct {
	// ID is used as the resource URL and, together with a digest of the
	// document, as the compiled-schema cache key. Schemas without an ID are
	// compiled on every use.
	ID string

	document any
	digest   string
}

// cacheKey identifies the compiled form of s. Documents that differ get
// different keys even when they share an ID.
func (s Schema) cacheKey() string {
	return s.ID + "#" + s.digest
}

// ParseSchema decodes a JSON Schema document given as JSON or YAML.
//
// Example:
//
//	schema, err := validation.ParseSchema("user", []byte(`
//	type: object
//	properties:
//	  email: {type: string, format: email}
//	required: [email]
//	`))
func ParseSchema(id string, data []byte) (Schema, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Schema{}, ErrEmptySchema
	}

	if !json.Valid(data) {
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return Schema{}, fmt.Errorf("parse schema %q: %w", id, err)
		}
		data = converted
	}

	doc, err := decodeJSON(data)
	if err != nil {
		return Schema{}, fmt.Errorf("parse schema %q: %w", id, err)
	}

	sum := sha256.Sum256(data)

	return Schema{ID: id, document: doc, digest: hex.EncodeToString(sum[:])}, nil
}

// MustParseSchema is like [ParseSchema] but panics on error.
func MustParseSchema(id string, data []byte) Schema {
	s, err := ParseSchema(id, data)
	if err != nil {
		panic(fmt.Sprintf("validation.MustParseSchema: %v", err))
	}

	return s
}

// Compile compiles the schema with format and content assertions enabled.
func (s Schema) Compile() (*jsonschema.Schema, error) {
	if s.document == nil {
		return nil, ErrEmptySchema
	}

	url := s.ID
	if url == "" {
		url = "schema.json"
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat()
	compiler.AssertContent()

	if err := compiler.AddResource(url, s.document); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return compiled, nil
}

// decodeJSON decodes data keeping numbers exact, as jsonschema expects.
func decodeJSON(data []byte) (any, error) {
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

// FromSchemaError flattens a jsonschema validation error tree into an
// [*Error]. Every leaf becomes one [FieldError] with code
// "schema.<keyword>", the instance location as dotted path, and, for type
// mismatches, "expected" and "received" entries in Meta.
//
// Example:
//
//	if err := compiled.Validate(doc); err != nil {
//	    var verr *jsonschema.ValidationError
//	    if errors.As(err, &verr) {
//	        return validation.FromSchemaError(verr)
//	    }
//	}
func FromSchemaError(verr *jsonschema.ValidationError, opts ...Option) *Error {
	if verr == nil {
		return nil
	}

	return fromSchemaError(verr, newConfig(opts...))
}

func fromSchemaError(verr *jsonschema.ValidationError, cfg *config) *Error {
	var result Error
	collectSchemaErrors(verr, &result, cfg)
	result.Sort()

	return &result
}

// collectSchemaErrors walks the cause tree depth-first and adds the leaves.
func collectSchemaErrors(verr *jsonschema.ValidationError, result *Error, cfg *config) {
	if verr == nil {
		return
	}

	if cfg.full(result) {
		result.Truncated = true
		return
	}

	if len(verr.Causes) == 0 {
		path := cfg.mapField(strings.Join(verr.InstanceLocation, "."))
		code, meta := schemaErrorCode(verr)
		result.Add(path, code, schemaErrorMessage(verr), meta)

		return
	}

	for _, cause := range verr.Causes {
		collectSchemaErrors(cause, result, cfg)
	}
}

// schemaErrorCode derives the stable code and metadata for a leaf error.
func schemaErrorCode(verr *jsonschema.ValidationError) (string, map[string]any) {
	meta := map[string]any{
		"schema_url": verr.SchemaURL,
	}

	code := "schema"
	if verr.ErrorKind != nil {
		if kw := verr.ErrorKind.KeywordPath(); len(kw) > 0 {
			keyword := strings.Join(kw, ".")
			code += "." + keyword
			meta["keyword"] = keyword
		}
	}

	if typ, ok := verr.ErrorKind.(*kind.Type); ok {
		meta["expected"] = strings.Join(typ.Want, " or ")
		meta["received"] = typ.Got
	}

	return code, meta
}

func schemaErrorMessage(verr *jsonschema.ValidationError) string {
	if verr.ErrorKind == nil {
		return verr.Error()
	}

	return verr.ErrorKind.LocalizedString(schemaPrinter)
}
