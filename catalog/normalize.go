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
	"fmt"
	"strings"
)

// per-feed id key aliases; checked in order
var officialIDKeys = []string{"id", "asset_id"}
var communityIDKeys = []string{"id", "asset_id", "dataset_id"}

// NormalizeFeed converts one loosely-typed feed document into unified records.
// Records whose id is empty after trimming are dropped silently; per-feed order
// is preserved for everything that survives.
func NormalizeFeed(raw []map[string]any, source Source) []Record {
	idKeys := officialIDKeys
	if source == SourceCommunity {
		idKeys = communityIDKeys
	}

	records := make([]Record, 0, len(raw))
	for _, entry := range raw {
		id := firstString(entry, idKeys...)
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}

		title := firstString(entry, "title", "name")
		if strings.TrimSpace(title) == "" {
			title = id
		}

		provider := stringField(entry, "provider")
		if provider == "" && source == SourceCommunity {
			provider = "community"
		}

		records = append(records, Record{
			ID:       id,
			Title:    title,
			Provider: provider,
			Type:     stringField(entry, "type"),
			Source:   source,
			Tags:     coerceTags(entry["tags"]),
			Snippet:  truncate(stringField(entry, "description"), snippetMaxLen),
			Category: DeriveCategory(id),
		})
	}

	return records
}

// MergeFeeds concatenates normalized feeds with official records first. Order
// within each half is the feed's own order; duplicate ids across the two feeds
// are both retained.
func MergeFeeds(official, community []Record) []Record {
	merged := make([]Record, 0, len(official)+len(community))
	merged = append(merged, official...)
	merged = append(merged, community...)
	return merged
}

func firstString(entry map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := stringField(entry, key); s != "" {
			return s
		}
	}
	return ""
}

func stringField(entry map[string]any, key string) string {
	if s, ok := entry[key].(string); ok {
		return s
	}
	return ""
}

// coerceTags accepts any array-like value. String elements pass through,
// scalar elements are stringified, nulls are skipped. Anything that is not an
// array yields an empty sequence.
func coerceTags(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return []string{}
	}
	tags := make([]string, 0, len(arr))
	for _, elem := range arr {
		switch t := elem.(type) {
		case nil:
			continue
		case string:
			tags = append(tags, t)
		default:
			tags = append(tags, fmt.Sprint(t))
		}
	}
	return tags
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
