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

package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengeos/go-ee-catalog-server/catalog"
	"github.com/opengeos/go-ee-catalog-server/router"
	"github.com/opengeos/go-ee-catalog-server/store"
)

var setupOnce sync.Once

// testApp seeds the catalog store from local feed fixtures and builds a fiber
// app with the real route table. The store and endpoint client are
// process-wide singletons, so the feeds are wired exactly once.
func testApp(t *testing.T) *fiber.App {
	t.Helper()

	setupOnce.Do(func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/official.json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[
				{"id": "COPERNICUS/S2_SR", "title": "Sentinel-2 SR", "type": "image_collection", "tags": ["optical"]},
				{"id": "LANDSAT/LC08/C02/T1_L2", "title": "Landsat 8 L2", "type": "image_collection"}
			]`))
		})
		mux.HandleFunc("/community.json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[
				{"dataset_id": "projects/sat-io/open-datasets/DEMO", "title": "Community Demo"}
			]`))
		})
		server := httptest.NewServer(mux)

		viper.Set("catalog.official_url", server.URL+"/official.json")
		viper.Set("catalog.community_url", server.URL+"/community.json")
		// endpoint.url deliberately left unset

		if err := store.GetInstance().Load(context.Background()); err != nil {
			panic(err)
		}
	})

	app := fiber.New(fiber.Config{
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if len(c.Response().Body()) > 0 {
				return nil
			}
			c.Status(fiber.StatusInternalServerError)
			return c.JSON(catalog.Message{
				Code:        catalog.ServerError,
				Description: err.Error(),
			})
		},
	})
	router.SetupRoutes(app)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestDatasetsSearch(t *testing.T) {
	app := testApp(t)

	resp, raw := doRequest(t, app, http.MethodGet,
		"/api/v1/datasets?q=s&source=official&type=image_collection&sort=title", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result catalog.Result
	require.NoError(t, json.Unmarshal(raw, &result))
	require.Equal(t, 2, result.Total)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "Landsat 8 L2", result.Records[0].Title)
	assert.Equal(t, "Sentinel-2 SR", result.Records[1].Title)
}

func TestDatasetsPagination(t *testing.T) {
	app := testApp(t)

	resp, raw := doRequest(t, app, http.MethodGet, "/api/v1/datasets?sort=id&limit=1&page=2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result catalog.Result
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.Equal(t, 3, result.Total)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "LANDSAT/LC08/C02/T1_L2", result.Records[0].ID)
}

func TestDatasetsRejectsBadParams(t *testing.T) {
	app := testApp(t)

	tests := []struct {
		name   string
		target string
	}{
		{"bad source", "/api/v1/datasets?source=sideways"},
		{"bad sort", "/api/v1/datasets?sort=provider"},
		{"bad dir", "/api/v1/datasets?dir=down"},
		{"non-numeric limit", "/api/v1/datasets?limit=many"},
		{"zero page", "/api/v1/datasets?page=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := doRequest(t, app, http.MethodGet, tt.target, "")
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

			var msg catalog.Message
			require.NoError(t, json.Unmarshal(raw, &msg))
			assert.Equal(t, catalog.ParameterError, msg.Code)
		})
	}
}

func TestCategories(t *testing.T) {
	app := testApp(t)

	resp, raw := doRequest(t, app, http.MethodGet, "/api/v1/datasets/categories", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var groups map[string][]catalog.Record
	require.NoError(t, json.Unmarshal(raw, &groups))
	assert.Len(t, groups["COPERNICUS"], 1)
	assert.Len(t, groups["LANDSAT"], 1)
	assert.Len(t, groups["projects"], 1)
}

func TestTilesWithoutEndpoint(t *testing.T) {
	app := testApp(t)

	resp, raw := doRequest(t, app, http.MethodPost, "/api/v1/tiles", `{"assetId": "COPERNICUS/S2_SR"}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var msg catalog.Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, catalog.EndpointNotConfigured, msg.Code)
}

func TestTileDefaultsFailuresAreDistinguished(t *testing.T) {
	app := testApp(t)
	t.Cleanup(func() { viper.Set("endpoint.tile_defaults", "") })

	// a malformed config value is a server error, not the caller's fault
	viper.Set("endpoint.tile_defaults", `["not", "an", "object"]`)
	resp, raw := doRequest(t, app, http.MethodPost, "/api/v1/tiles", `{"assetId": "COPERNICUS/S2_SR"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var msg catalog.Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, catalog.ServerError, msg.Code)
	assert.Contains(t, msg.Description, "default tile parameters")

	// with a valid config, a non-object body is the caller's fault
	viper.Set("endpoint.tile_defaults", `{"visParams": {"min": 0}}`)
	resp, raw = doRequest(t, app, http.MethodPost, "/api/v1/tiles", `[1, 2]`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, catalog.ParameterError, msg.Code)
	assert.Contains(t, msg.Description, "request body")
}

func TestHealthz(t *testing.T) {
	app := testApp(t)

	resp, raw := doRequest(t, app, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]string
	require.NoError(t, json.Unmarshal(raw, &health))
	assert.Equal(t, "OK", health["catalog"])
	assert.Equal(t, "NOT_CONFIGURED", health["endpoint"])
}
