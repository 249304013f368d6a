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

	"github.com/opengeos/go-ee-catalog-server/catalog"
	"github.com/opengeos/go-ee-catalog-server/endpoint"
)

// Inspect queries pixel values at a point through the configured endpoint.
// POST /api/v1/inspect
func Inspect(c *fiber.Ctx) error {
	client, err := sharedClient(c)
	if err != nil {
		return err
	}

	var req endpoint.InspectRequest
	if err := parseAnalysisBody(c, &req, &req.AssetID); err != nil {
		// note http response and logging handled by parseAnalysisBody
		return err
	}

	raw, err := client.InspectPixel(c.Context(), req)
	if err != nil {
		return endpointFailure(c, err)
	}
	return c.JSON(raw)
}

// Export starts a server-side export task through the configured endpoint.
// POST /api/v1/export
func Export(c *fiber.Ctx) error {
	client, err := sharedClient(c)
	if err != nil {
		return err
	}

	var req endpoint.ExportRequest
	if err := parseAnalysisBody(c, &req, &req.AssetID); err != nil {
		return err
	}

	raw, err := client.RequestExport(c.Context(), req)
	if err != nil {
		return endpointFailure(c, err)
	}
	return c.JSON(raw)
}

// TimeSeries extracts a reduced time series through the configured endpoint.
// POST /api/v1/timeseries
func TimeSeries(c *fiber.Ctx) error {
	client, err := sharedClient(c)
	if err != nil {
		return err
	}

	var req endpoint.TimeSeriesRequest
	if err := parseAnalysisBody(c, &req, &req.AssetID); err != nil {
		return err
	}

	raw, err := client.RequestTimeSeries(c.Context(), req)
	if err != nil {
		return endpointFailure(c, err)
	}
	return c.JSON(raw)
}

// parseAnalysisBody decodes a request body and enforces the assetId field
// every analysis operation requires.
func parseAnalysisBody(c *fiber.Ctx, out any, assetID *string) error {
	if err := json.Unmarshal(c.Body(), out); err != nil {
		log.Error().Err(err).Msg("could not parse analysis request body")
		c.Status(fiber.ErrUnprocessableEntity.Code)
		_ = c.JSON(catalog.Message{
			Code:        catalog.ParameterError,
			Description: "request body is not valid JSON",
		})
		return err
	}

	if *assetID == "" {
		err := errors.New("assetId is required")
		log.Error().Msg("analysis request missing assetId")
		c.Status(fiber.ErrUnprocessableEntity.Code)
		_ = c.JSON(catalog.Message{
			Code:        catalog.ParameterError,
			Description: "assetId is required",
		})
		return err
	}

	return nil
}
