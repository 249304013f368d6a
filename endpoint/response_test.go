// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package endpoint_test

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengeos/go-ee-catalog-server/endpoint"
)

func parseBody(t *testing.T, raw string) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &body))
	return body
}

func TestParseTileURLPrecedence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "tile_url first",
			body: `{"tile_url": "https://a/{z}/{x}/{y}", "tileUrl": "https://b/{z}/{x}/{y}"}`,
			want: "https://a/{z}/{x}/{y}",
		},
		{
			name: "tileUrl beats nested data",
			body: `{"tileUrl": "https://a/{z}/{x}/{y}", "data": {"urlFormat": "https://b/{z}/{x}/{y}"}}`,
			want: "https://a/{z}/{x}/{y}",
		},
		{
			name: "urlFormat",
			body: `{"urlFormat": "https://a/{z}/{x}/{y}"}`,
			want: "https://a/{z}/{x}/{y}",
		},
		{
			name: "tiles array first element",
			body: `{"tiles": ["https://a"]}`,
			want: "https://a",
		},
		{
			name: "data.tileUrl",
			body: `{"data": {"tileUrl": "https://a"}}`,
			want: "https://a",
		},
		{
			name: "data.urlFormat",
			body: `{"data": {"urlFormat": "https://a"}}`,
			want: "https://a",
		},
		{
			name: "non-string tile_url falls through",
			body: `{"tile_url": 7, "urlFormat": "https://a"}`,
			want: "https://a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := endpoint.ParseTileURL(parseBody(t, tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTileURLMissing(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"empty tiles array", `{"tiles": []}`},
		{"non-string tiles element", `{"tiles": [42]}`},
		{"unrelated fields", `{"status": "ok", "data": {"message": "hi"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := endpoint.ParseTileURL(parseBody(t, tt.body))
			assert.ErrorIs(t, err, endpoint.ErrNoTileURL)
		})
	}
}
