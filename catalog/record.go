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

package catalog

import (
	"strings"
)

// Source identifies which feed a record was normalized from.
type Source string

const (
	SourceOfficial  Source = "official"
	SourceCommunity Source = "community"
)

// snippet length cap applied during normalization
const snippetMaxLen = 240

// Record is one unified dataset descriptor merged from the official or
// community catalog feed.
type Record struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Provider string   `json:"provider,omitempty"`
	Type     string   `json:"type,omitempty"`
	Source   Source   `json:"source"`
	Tags     []string `json:"tags"`
	Snippet  string   `json:"snippet,omitempty"`
	Category string   `json:"category"`
}

// DeriveCategory returns the first '/'-delimited segment of a dataset id,
// or "Other" when the id carries no path separator.
func DeriveCategory(id string) string {
	idx := strings.Index(id, "/")
	if idx <= 0 {
		return "Other"
	}
	return id[:idx]
}

type Message struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

var ParameterError string = "ParameterError"
var ServerError string = "ServerError"
var UpstreamError string = "UpstreamError"
var EndpointError string = "EndpointError"
var EndpointNotConfigured string = "EndpointNotConfigured"
var UnsupportedFeature string = "UnsupportedFeature"
