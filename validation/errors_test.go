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

//go:build !integration

package validation

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldError_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "email: is required", FieldError{Path: "email", Message: "is required"}.Error())
	assert.Equal(t, "is required", FieldError{Message: "is required"}.Error())
	assert.ErrorIs(t, FieldError{}, ErrValidation)
}

func TestError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  Error
		want string
	}{
		{
			name: "no fields",
			err:  Error{},
			want: "validation failed",
		},
		{
			name: "single field",
			err:  Error{Fields: []FieldError{{Path: "email", Message: "is required"}}},
			want: "email: is required",
		},
		{
			name: "multiple fields",
			err: Error{Fields: []FieldError{
				{Path: "email", Message: "is required"},
				{Path: "age", Message: "must be at least 18"},
			}},
			want: "validation failed: email: is required; age: must be at least 18",
		},
		{
			name: "truncated",
			err: Error{Truncated: true, Fields: []FieldError{
				{Path: "a", Message: "x"},
				{Path: "b", Message: "y"},
			}},
			want: "validation failed: a: x; b: y (truncated)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Interfaces(t *testing.T) {
	t.Parallel()

	err := &Error{Fields: []FieldError{{Path: "email", Code: "tag.required"}}}

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "validation_error", err.Code())
	assert.Equal(t, err.Fields, err.Details())

	wrapped := fmt.Errorf("bind body: %w", err)
	var verr *Error
	require.ErrorAs(t, wrapped, &verr)
	assert.Same(t, err, verr)
}

func TestError_AddError(t *testing.T) {
	t.Parallel()

	var e Error
	e.AddError(nil)
	e.AddError(FieldError{Path: "a", Code: "tag.required"})
	e.AddError(Error{Fields: []FieldError{{Path: "b"}}, Truncated: true})
	e.AddError(&Error{Fields: []FieldError{{Path: "c"}}})
	e.AddError(fmt.Errorf("wrapped: %w", &Error{Fields: []FieldError{{Path: "d"}}}))
	e.AddError(errors.New("free-form"))

	require.Len(t, e.Fields, 5)
	assert.True(t, e.Truncated)
	assert.True(t, e.Has("a"))
	assert.True(t, e.Has("d"))
	assert.True(t, e.HasCode("validation_error"))
	assert.Equal(t, "free-form", e.Fields[4].Message)
}

func TestError_Lookup(t *testing.T) {
	t.Parallel()

	e := Error{Fields: []FieldError{
		{Path: "email", Code: "tag.required", Message: "is required"},
		{Path: "email", Code: "tag.email", Message: "must be a valid email address"},
	}}

	assert.True(t, e.HasErrors())
	assert.False(t, Error{}.HasErrors())
	assert.True(t, e.HasCode("tag.email"))
	assert.False(t, e.HasCode("tag.min"))
	assert.False(t, e.Has("age"))

	field := e.GetField("email")
	require.NotNil(t, field)
	assert.Equal(t, "tag.required", field.Code)

	// GetField returns a copy.
	field.Code = "changed"
	assert.Equal(t, "tag.required", e.Fields[0].Code)

	assert.Nil(t, e.GetField("age"))
}

func TestError_Sort(t *testing.T) {
	t.Parallel()

	e := Error{Fields: []FieldError{
		{Path: "name", Code: "tag.required"},
		{Path: "email", Code: "tag.required"},
		{Path: "email", Code: "tag.email"},
	}}
	e.Sort()

	got := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		got = append(got, f.Path+"/"+f.Code)
	}
	assert.Equal(t, "email/tag.email,email/tag.required,name/tag.required", strings.Join(got, ","))
}
