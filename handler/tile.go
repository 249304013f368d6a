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
	"errors"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/opengeos/go-ee-catalog-server/catalog"
	"github.com/opengeos/go-ee-catalog-server/endpoint"
	"github.com/opengeos/go-ee-catalog-server/jsonutil"
)

// TileURL requests a templated tile URL from the configured endpoint.
// POST /api/v1/tiles
func TileURL(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		body = []byte("{}")
	}

	// overlay the request onto configured default tile parameters; the two
	// sides fail differently, a broken config is not the caller's fault
	if defaults := viper.GetString("endpoint.tile_defaults"); defaults != "" {
		var defaultsMap map[string]json.RawMessage
		if err := json.Unmarshal([]byte(defaults), &defaultsMap); err != nil {
			log.Error().Err(err).Msg("endpoint.tile_defaults is not a JSON object")
			c.Status(fiber.ErrInternalServerError.Code)
			return c.JSON(catalog.Message{
				Code:        catalog.ServerError,
				Description: "configured default tile parameters are not a JSON object",
			})
		}

		var err error
		if body, err = jsonutil.Merge(body, []byte(defaults)); err != nil {
			c.Status(fiber.ErrUnprocessableEntity.Code)
			return c.JSON(catalog.Message{
				Code:        catalog.ParameterError,
				Description: "tile request body is not a JSON object",
			})
		}
	}

	var req endpoint.TileRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.Error().Err(err).Msg("could not parse tile request body")
		c.Status(fiber.ErrUnprocessableEntity.Code)
		return c.JSON(catalog.Message{
			Code:        catalog.ParameterError,
			Description: "tile request body is not valid JSON",
		})
	}

	client, err := sharedClient(c)
	if err != nil {
		return err
	}

	tileURL, err := client.GetTileURL(c.Context(), req)
	if err != nil {
		return endpointFailure(c, err)
	}

	flags, _ := client.Capabilities()
	return c.JSON(struct {
		TileURL      string                `json:"tile_url"`
		Capabilities endpoint.Capabilities `json:"capabilities"`
	}{
		TileURL:      tileURL,
		Capabilities: flags,
	})
}

func sharedClient(c *fiber.Ctx) (*endpoint.Client, error) {
	client, err := endpoint.Shared()
	if err == nil {
		return client, nil
	}

	if errors.Is(err, endpoint.ErrNotConfigured) {
		c.Status(fiber.ErrServiceUnavailable.Code)
		_ = c.JSON(catalog.Message{
			Code:        catalog.EndpointNotConfigured,
			Description: "no analysis endpoint is configured",
		})
		return nil, err
	}

	log.Error().Err(err).Msg("endpoint client unavailable")
	c.Status(fiber.ErrInternalServerError.Code)
	_ = c.JSON(catalog.Message{
		Code:        catalog.ServerError,
		Description: "endpoint client could not be constructed",
	})
	return nil, err
}

func endpointFailure(c *fiber.Ctx, err error) error {
	var unsupported *endpoint.UnsupportedError
	if errors.As(err, &unsupported) {
		c.Status(fiber.ErrNotImplemented.Code)
		return c.JSON(catalog.Message{
			Code:        catalog.UnsupportedFeature,
			Description: unsupported.Error(),
		})
	}

	log.Error().Err(err).Msg("endpoint operation failed")
	c.Status(fiber.ErrBadGateway.Code)
	return c.JSON(catalog.Message{
		Code:        catalog.EndpointError,
		Description: err.Error(),
	})
}
