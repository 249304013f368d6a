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

package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/opengeos/go-ee-catalog-server/catalog"
	"github.com/opengeos/go-ee-catalog-server/store"
)

// Datasets searches the merged dataset catalog.
// GET /api/v1/datasets
func Datasets(c *fiber.Ctx) error {
	query := catalog.Query{
		Keyword: c.Query("q", ""),
	}

	var err error
	if query.Source, err = parseChoice(c, "source", c.Query("source", catalog.FilterAll),
		catalog.FilterAll, string(catalog.SourceOfficial), string(catalog.SourceCommunity)); err != nil {
		return err
	}
	if query.SortBy, err = parseChoice(c, "sort", c.Query("sort", catalog.SortByTitle),
		catalog.SortByTitle, catalog.SortByID); err != nil {
		return err
	}
	if query.SortDir, err = parseChoice(c, "dir", c.Query("dir", catalog.SortAsc),
		catalog.SortAsc, catalog.SortDesc); err != nil {
		return err
	}
	query.Type = c.Query("type", catalog.FilterAll)

	if limitStr := c.Query("limit", ""); limitStr != "" {
		if query.Limit, err = parsePositiveInt(c, "limit", limitStr); err != nil {
			return err
		}
	}
	if pageStr := c.Query("page", ""); pageStr != "" {
		if query.Page, err = parsePositiveInt(c, "page", pageStr); err != nil {
			return err
		}
	}

	catalogStore := store.GetInstance()
	if c.Query("refresh") == "true" {
		if err := catalogStore.Load(c.Context()); err != nil {
			log.Error().Err(err).Msg("catalog reload failed")
			c.Status(fiber.ErrBadGateway.Code)
			return c.JSON(catalog.Message{
				Code:        catalog.UpstreamError,
				Description: "failed to reload dataset catalog feeds",
			})
		}
	}

	return c.JSON(catalog.Search(catalogStore.Records(), query))
}

// Categories groups the catalog by top-level dataset category.
// GET /api/v1/datasets/categories
func Categories(c *fiber.Ctx) error {
	groups := catalog.GroupByCategory(store.GetInstance().Records())
	return c.JSON(groups)
}
