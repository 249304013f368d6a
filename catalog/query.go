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
	"sort"
	"strings"
)

const (
	SortByTitle = "title"
	SortByID    = "id"

	SortAsc  = "asc"
	SortDesc = "desc"

	// filter value matching every source or type
	FilterAll = "all"

	DefaultLimit = 25
)

// Query selects, orders, and windows the merged record list.
type Query struct {
	Keyword string `json:"keyword,omitempty"`
	Source  string `json:"source,omitempty"`
	Type    string `json:"type,omitempty"`
	SortBy  string `json:"sortBy,omitempty"`
	SortDir string `json:"sortDir,omitempty"`
	Limit   int    `json:"limit"`
	Page    int    `json:"page"`
}

type Result struct {
	Records  []Record `json:"records"`
	Total    int      `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"pageSize"`
}

// Filter keeps records whose id, title, provider, type, snippet, or any tag
// contains the keyword, case-insensitively. A blank keyword is a no-op and
// returns the input unchanged.
func Filter(records []Record, keyword string) []Record {
	keyword = strings.TrimSpace(strings.ToLower(keyword))
	if keyword == "" {
		return records
	}

	matched := make([]Record, 0, len(records))
	for _, rec := range records {
		if recordMatches(rec, keyword) {
			matched = append(matched, rec)
		}
	}
	return matched
}

func recordMatches(rec Record, keyword string) bool {
	for _, field := range []string{rec.ID, rec.Title, rec.Provider, rec.Type, rec.Snippet} {
		if strings.Contains(strings.ToLower(field), keyword) {
			return true
		}
	}
	for _, tag := range rec.Tags {
		if strings.Contains(strings.ToLower(tag), keyword) {
			return true
		}
	}
	return false
}

// Search applies keyword, source and type filters, sorts the survivors, and
// returns one page. Total counts the filtered set before the page window is
// cut; an out-of-range page yields an empty slice rather than an error.
func Search(records []Record, query Query) Result {
	filtered := Filter(records, query.Keyword)

	if query.Source != "" && query.Source != FilterAll {
		kept := make([]Record, 0, len(filtered))
		for _, rec := range filtered {
			if string(rec.Source) == query.Source {
				kept = append(kept, rec)
			}
		}
		filtered = kept
	}

	if query.Type != "" && query.Type != FilterAll {
		want := strings.ToLower(query.Type)
		kept := make([]Record, 0, len(filtered))
		for _, rec := range filtered {
			if strings.ToLower(rec.Type) == want {
				kept = append(kept, rec)
			}
		}
		filtered = kept
	}

	sorted := make([]Record, len(filtered))
	copy(sorted, filtered)
	sortKey := func(rec Record) string {
		if query.SortBy == SortByID {
			return strings.ToLower(rec.ID)
		}
		return strings.ToLower(rec.Title)
	}
	descending := query.SortDir == SortDesc
	sort.SliceStable(sorted, func(i, j int) bool {
		if descending {
			return sortKey(sorted[i]) > sortKey(sorted[j])
		}
		return sortKey(sorted[i]) < sortKey(sorted[j])
	})

	// zero means unset and takes the default; anything below one clamps to one
	limit := query.Limit
	if limit == 0 {
		limit = DefaultLimit
	} else if limit < 1 {
		limit = 1
	}
	page := query.Page
	if page < 1 {
		page = 1
	}

	start := (page - 1) * limit
	end := start + limit
	if start > len(sorted) {
		start = len(sorted)
	}
	if end > len(sorted) {
		end = len(sorted)
	}

	return Result{
		Records:  sorted[start:end],
		Total:    len(sorted),
		Page:     page,
		PageSize: limit,
	}
}

// GroupByCategory partitions records by category, preserving each record's
// relative order within its group.
func GroupByCategory(records []Record) map[string][]Record {
	groups := make(map[string][]Record)
	for _, rec := range records {
		category := rec.Category
		if category == "" {
			category = DeriveCategory(rec.ID)
		}
		groups[category] = append(groups[category], rec)
	}
	return groups
}
