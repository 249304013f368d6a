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

	"github.com/stretchr/testify/assert"

	"github.com/opengeos/go-ee-catalog-server/endpoint"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "hugging face space",
			in:   "https://huggingface.co/spaces/giswqs/ee-tile-request",
			want: "https://giswqs-ee-tile-request.hf.space/tile",
		},
		{
			name: "hugging face space trailing slash",
			in:   "https://huggingface.co/spaces/giswqs/ee-tile-request/",
			want: "https://giswqs-ee-tile-request.hf.space/tile",
		},
		{
			name: "unrelated URL unchanged",
			in:   "https://example.com/my-endpoint",
			want: "https://example.com/my-endpoint",
		},
		{
			name: "whitespace trimmed",
			in:   "  https://example.com/tile \n",
			want: "https://example.com/tile",
		},
		{
			name: "space sub-path not rewritten",
			in:   "https://huggingface.co/spaces/giswqs/ee-tile-request/blob/main/app.py",
			want: "https://huggingface.co/spaces/giswqs/ee-tile-request/blob/main/app.py",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := endpoint.NormalizeURL(tt.in)
			assert.Equal(t, tt.want, got)

			// normalization is idempotent
			assert.Equal(t, got, endpoint.NormalizeURL(got))
		})
	}
}
