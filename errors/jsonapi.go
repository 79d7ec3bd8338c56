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

package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// JSONAPI formats errors per the JSON:API specification with Content-Type
// "application/vnd.api+json". Field-level details become one error object
// per field. See https://jsonapi.org/format/#errors
type JSONAPI struct {
	// StatusResolver determines HTTP status from error.
	// If nil, uses [ErrorType] or defaults to 500.
	StatusResolver func(err error) int
}

type jsonAPIError struct {
	ID     string         `json:"id,omitempty"`
	Status string         `json:"status,omitempty"`
	Code   string         `json:"code,omitempty"`
	Title  string         `json:"title,omitempty"`
	Detail string         `json:"detail,omitempty"`
	Source *jsonAPISource `json:"source,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

type jsonAPISource struct {
	Pointer string `json:"pointer,omitempty"`
}

type jsonAPIErrorResponse struct {
	Errors []jsonAPIError `json:"errors"`
}

// Format converts an error into a JSON:API error response.
//
// Details that encode as a JSON array of objects with "path", "code",
// "message" and "meta" members (the shape of validation field errors) are
// expanded into one error object each. Any other details end up in the meta
// of a single error object.
func (f *JSONAPI) Format(_ *http.Request, err error) Response {
	status := resolveStatus(err, f.StatusResolver)
	base := jsonAPIError{
		Status: strconv.Itoa(status),
		Title:  http.StatusText(status),
		Detail: messageOf(err),
	}

	var coded ErrorCode
	if errors.As(err, &coded) {
		base.Code = coded.Code()
	}

	var apiErrors []jsonAPIError

	var detailed ErrorDetails
	if errors.As(err, &detailed) && detailed.Details() != nil {
		details := detailed.Details()
		for _, entry := range fieldEntries(details) {
			apiErr := base
			apiErr.ID = generateErrorID()
			if path, ok := entry["path"].(string); ok && path != "" {
				apiErr.Source = &jsonAPISource{Pointer: pathToPointer(path)}
			}
			if code, ok := entry["code"].(string); ok && code != "" {
				apiErr.Code = code
			}
			if message, ok := entry["message"].(string); ok && message != "" {
				apiErr.Detail = message
			}
			if meta, ok := entry["meta"].(map[string]any); ok && len(meta) > 0 {
				apiErr.Meta = meta
			}
			apiErrors = append(apiErrors, apiErr)
		}

		if len(apiErrors) == 0 {
			apiErr := base
			apiErr.ID = generateErrorID()
			apiErr.Meta = map[string]any{"details": details}
			apiErrors = append(apiErrors, apiErr)
		}
	}

	if len(apiErrors) == 0 {
		apiErr := base
		apiErr.ID = generateErrorID()
		apiErrors = []jsonAPIError{apiErr}
	}

	return Response{
		Status:      status,
		ContentType: "application/vnd.api+json; charset=utf-8",
		Body:        jsonAPIErrorResponse{Errors: apiErrors},
	}
}

// fieldEntries round-trips details through JSON and returns the object
// elements when the result is an array. It returns nil for any other shape.
func fieldEntries(details any) []map[string]any {
	raw, err := json.Marshal(details)
	if err != nil {
		return nil
	}

	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	entries := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			entries = append(entries, m)
		}
	}

	return entries
}

// pathToPointer converts a dotted field path to a JSON Pointer under
// /data/attributes, e.g. "items.0.price" -> "/data/attributes/items/0/price".
func pathToPointer(path string) string {
	return "/data/attributes/" + strings.ReplaceAll(path, ".", "/")
}
