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
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator validates Go structs with go-playground/validator tags and JSON
// documents with JSON Schema. Both report failures as [*Error].
//
// Validator is safe for concurrent use by multiple goroutines.
//
// Example:
//
//	v := validation.MustNew(validation.WithMaxErrors(10))
//
//	if err := v.ValidateStruct(ctx, &user); err != nil {
//	    // err is a *validation.Error
//	}
type Validator struct {
	cfg *config

	tagValidator *validator.Validate

	schemaCache   map[string]*schemaCacheEntry
	schemaCacheMu sync.RWMutex
}

// schemaCacheEntry holds a compiled schema and its last access time for LRU eviction.
type schemaCacheEntry struct {
	schema     *jsonschema.Schema
	lastAccess atomic.Int64 // Unix nanoseconds
}

// New creates a [Validator] with the given options.
// New returns an error if configuration is invalid (e.g., negative maxErrors)
// or a custom tag or translation cannot be registered.
func New(opts ...Option) (*Validator, error) {
	cfg := newConfig(opts...)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	v := &Validator{
		cfg:          cfg,
		tagValidator: validator.New(validator.WithRequiredStructEnabled()),
		schemaCache:  make(map[string]*schemaCacheEntry),
	}

	// Report JSON names so paths match what clients sent.
	v.tagValidator.RegisterTagNameFunc(jsonFieldName)

	for _, ct := range cfg.customTags {
		if err := v.tagValidator.RegisterValidation(ct.name, ct.fn); err != nil {
			return nil, fmt.Errorf("register custom tag %q: %w", ct.name, err)
		}
	}

	if cfg.translator != nil {
		if err := en_translations.RegisterDefaultTranslations(v.tagValidator, cfg.translator); err != nil {
			return nil, fmt.Errorf("register translations: %w", err)
		}
	}

	return v, nil
}

// MustNew creates a [Validator] with the given options.
// Panics if configuration is invalid.
func MustNew(opts ...Option) *Validator {
	v, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("validation.MustNew: %v", err))
	}

	return v
}

// ValidateStruct validates val, a struct or pointer to struct, against its
// `validate` tags. It returns nil when val is valid, [*Error] when fields
// fail, and ctx.Err() when ctx is already done.
func (v *Validator) ValidateStruct(ctx context.Context, val any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rv := reflect.ValueOf(val)
	if !rv.IsValid() || (rv.Kind() == reflect.Ptr && rv.IsNil()) {
		return ErrCannotValidateNilValue
	}

	err := v.tagValidator.StructCtx(ctx, val)
	if err == nil {
		return nil
	}

	if verrs, ok := err.(validator.ValidationErrors); ok { //nolint:errorlint // validator returns the slice type directly
		return fromTagErrors(verrs, v.cfg)
	}

	// InvalidValidationError: not a struct.
	return err
}

// ValidateJSON validates a JSON document against schema.
// Schemas with an ID are compiled once per distinct document and cached.
func (v *Validator) ValidateJSON(ctx context.Context, schema Schema, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	compiled, err := v.compiled(schema)
	if err != nil {
		return err
	}

	doc, err := decodeJSON(data)
	if err != nil {
		return &Error{Fields: []FieldError{{Code: "json.syntax", Message: err.Error()}}}
	}

	if err := compiled.Validate(doc); err != nil {
		if verr, ok := err.(*jsonschema.ValidationError); ok { //nolint:errorlint // Validate returns the concrete type
			return fromSchemaError(verr, v.cfg)
		}

		return err
	}

	return nil
}

// compiled returns the cached compiled schema or compiles and caches it.
func (v *Validator) compiled(schema Schema) (*jsonschema.Schema, error) {
	now := time.Now().UnixNano()
	key := schema.cacheKey()

	if schema.ID != "" {
		v.schemaCacheMu.RLock()
		entry, ok := v.schemaCache[key]
		v.schemaCacheMu.RUnlock()
		if ok {
			entry.lastAccess.Store(now)
			return entry.schema, nil
		}
	}

	compiled, err := schema.Compile()
	if err != nil {
		return nil, err
	}

	if schema.ID == "" {
		return compiled, nil
	}

	v.schemaCacheMu.Lock()
	defer v.schemaCacheMu.Unlock()

	maxCache := v.cfg.maxCachedSchemas
	if maxCache == 0 {
		maxCache = defaultMaxCachedSchemas
	}

	if len(v.schemaCache) >= maxCache {
		var oldestKey string
		var oldestNano int64
		found := false
		for k, entry := range v.schemaCache {
			if nano := entry.lastAccess.Load(); !found || nano < oldestNano {
				oldestKey, oldestNano, found = k, nano, true
			}
		}
		if found {
			delete(v.schemaCache, oldestKey)
		}
	}

	entry := &schemaCacheEntry{schema: compiled}
	entry.lastAccess.Store(now)
	v.schemaCache[key] = entry

	return compiled, nil
}

// cachedSchemas returns the number of cached compiled schemas.
func (v *Validator) cachedSchemas() int {
	v.schemaCacheMu.RLock()
	defer v.schemaCacheMu.RUnlock()

	return len(v.schemaCache)
}

// jsonFieldName returns the JSON name of a struct field, or the Go name when
// there is no json tag. Fields tagged `json:"-"` are reported as "".
func jsonFieldName(fld reflect.StructField) string {
	name := fld.Tag.Get("json")
	if name == "-" {
		return ""
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	if name == "" {
		return fld.Name
	}

	return name
}
