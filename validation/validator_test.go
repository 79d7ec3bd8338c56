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
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineItem struct {
	SKU   string `json:"sku" validate:"required"`
	Price int    `json:"price" validate:"gt=0"`
}

type order struct {
	Email    string     `json:"email" validate:"required,email"`
	Quantity int        `json:"quantity" validate:"min=1"`
	Note     string     `json:"note,omitempty" validate:"max=5"`
	Items    []lineItem `json:"items" validate:"dive"`
	Internal string     `json:"-"`
}

func validOrder() order {
	return order{
		Email:    "a@example.com",
		Quantity: 1,
		Items:    []lineItem{{SKU: "x", Price: 10}},
	}
}

func TestValidator_ValidateStruct(t *testing.T) {
	t.Parallel()

	v := MustNew()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		o := validOrder()
		require.NoError(t, v.ValidateStruct(context.Background(), &o))
	})

	t.Run("field errors use JSON paths", func(t *testing.T) {
		t.Parallel()
		o := order{Quantity: 0, Note: "too long", Items: []lineItem{{SKU: "x", Price: 0}}}

		err := v.ValidateStruct(context.Background(), o)
		require.Error(t, err)

		var verr *Error
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Fields, 4)

		assert.Equal(t, "email", verr.Fields[0].Path)
		assert.Equal(t, "tag.required", verr.Fields[0].Code)
		assert.Equal(t, "is required", verr.Fields[0].Message)

		assert.Equal(t, "items.0.price", verr.Fields[1].Path)
		assert.Equal(t, "tag.gt", verr.Fields[1].Code)
		assert.Equal(t, "must be greater than 0", verr.Fields[1].Message)

		assert.Equal(t, "note", verr.Fields[2].Path)
		assert.Equal(t, "must be at most 5 characters", verr.Fields[2].Message)

		assert.Equal(t, "quantity", verr.Fields[3].Path)
		assert.Equal(t, "must be at least 1", verr.Fields[3].Message)
		assert.Equal(t, map[string]any{"tag": "min", "param": "1", "value": "0"}, verr.Fields[3].Meta)
	})

	t.Run("nil values", func(t *testing.T) {
		t.Parallel()
		require.ErrorIs(t, v.ValidateStruct(context.Background(), nil), ErrCannotValidateNilValue)
		require.ErrorIs(t, v.ValidateStruct(context.Background(), (*order)(nil)), ErrCannotValidateNilValue)
	})

	t.Run("non-struct", func(t *testing.T) {
		t.Parallel()
		err := v.ValidateStruct(context.Background(), 42)
		require.Error(t, err)

		var verr *Error
		assert.NotErrorAs(t, err, &verr)
		var invalid *validator.InvalidValidationError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		o := validOrder()
		require.ErrorIs(t, v.ValidateStruct(ctx, &o), context.Canceled)
	})
}

func TestValidator_MaxErrors(t *testing.T) {
	t.Parallel()

	v := MustNew(WithMaxErrors(1))
	err := v.ValidateStruct(context.Background(), order{})

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 1)
	assert.True(t, verr.Truncated)
}

func TestValidator_FieldNameMapper(t *testing.T) {
	t.Parallel()

	v := MustNew(WithFieldNameMapper(func(path string) string { return "body." + path }))
	o := validOrder()
	o.Email = ""

	var verr *Error
	require.ErrorAs(t, v.ValidateStruct(context.Background(), o), &verr)
	assert.True(t, verr.Has("body.email"))
}

func TestValidator_CustomTag(t *testing.T) {
	t.Parallel()

	type counter struct {
		N int `json:"n" validate:"even"`
	}

	v := MustNew(WithCustomTag("even", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%2 == 0
	}))

	require.NoError(t, v.ValidateStruct(context.Background(), counter{N: 2}))

	var verr *Error
	require.ErrorAs(t, v.ValidateStruct(context.Background(), counter{N: 3}), &verr)
	assert.Equal(t, "tag.even", verr.Fields[0].Code)
	assert.Equal(t, "failed validation (even)", verr.Fields[0].Message)
}

func TestValidator_Translator(t *testing.T) {
	t.Parallel()

	v := MustNew(WithTranslator(NewEnglishTranslator()))
	o := validOrder()
	o.Email = ""

	var verr *Error
	require.ErrorAs(t, v.ValidateStruct(context.Background(), o), &verr)
	assert.Equal(t, "email is a required field", verr.Fields[0].Message)
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := New(WithMaxErrors(-1))
	require.Error(t, err)

	_, err = New(WithMaxCachedSchemas(-1))
	require.Error(t, err)

	_, err = New(WithCustomTag("", func(validator.FieldLevel) bool { return true }))
	require.Error(t, err)

	assert.Panics(t, func() { MustNew(WithMaxErrors(-1)) })
}

func TestFromTagErrors(t *testing.T) {
	t.Parallel()

	// A plain validator without JSON tag names, as third-party code would use.
	raw := validator.New()
	err := raw.Struct(order{Quantity: 1, Email: "a@example.com", Items: []lineItem{{Price: 1}}})

	verrs, ok := err.(validator.ValidationErrors) //nolint:errorlint // validator returns the slice type directly
	require.True(t, ok)

	converted := FromTagErrors(verrs)
	require.NotNil(t, converted)
	require.Len(t, converted.Fields, 1)
	assert.Equal(t, "Items.0.SKU", converted.Fields[0].Path)
	assert.Equal(t, "tag.required", converted.Fields[0].Code)

	assert.Nil(t, FromTagErrors(nil))
}

func TestNamespacePath(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"order.email":           "email",
		"order.items[0].price":  "items.0.price",
		"order.meta[key].value": "meta.key.value",
		"order.matrix[1][2]":    "matrix.1.2",
		"standalone":            "standalone",
	}

	for ns, want := range tests {
		assert.Equal(t, want, namespacePath(ns), ns)
	}
}
