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

package endpoint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Feature names used for capability gating and error messages.
const (
	FeatureInspect    = "inspect"
	FeatureExport     = "export"
	FeatureTimeSeries = "timeSeries"
)

// Capabilities is the endpoint's advertised feature set beyond basic tile
// serving. It rides along on tile responses.
type Capabilities struct {
	Inspect    bool `json:"inspect"`
	Export     bool `json:"export"`
	TimeSeries bool `json:"timeSeries"`
}

// capabilityState is a two-phase state machine: unknown until the first
// successful tile request, then a known snapshot that each later successful
// tile request overwrites. The explicit known flag keeps "unknown" distinct
// from "known all-false".
type capabilityState struct {
	known bool
	flags Capabilities
}

// cap on response body read for error reporting
const maxErrorBodySize = 64 * 1024

// Client talks to a single configured analysis endpoint. One instance owns
// one normalized base URL, one token, and the capability cache; no other
// component reads or writes capability state.
//
// Safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	client  *http.Client

	mu   sync.RWMutex
	caps capabilityState
}

// NewClient builds a client for the given endpoint URL. The URL is normalized
// first; an empty URL refuses construction.
func NewClient(rawURL, token string) (*Client, error) {
	baseURL := NormalizeURL(rawURL)
	if baseURL == "" {
		return nil, errors.New("endpoint URL is empty")
	}

	return &Client{
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Capabilities returns the cached capability snapshot and whether one is
// known yet.
func (c *Client) Capabilities() (Capabilities, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.caps.flags, c.caps.known
}

// ensureSupported gates a feature call on the capability cache. Before the
// first successful tile request the cache is unknown and every call proceeds
// optimistically; once a snapshot exists, a feature the endpoint did not
// advertise fails here without a network round-trip.
func (c *Client) ensureSupported(feature string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.caps.known {
		return nil
	}

	supported := false
	switch feature {
	case FeatureInspect:
		supported = c.caps.flags.Inspect
	case FeatureExport:
		supported = c.caps.flags.Export
	case FeatureTimeSeries:
		supported = c.caps.flags.TimeSeries
	}
	if !supported {
		return &UnsupportedError{Feature: feature}
	}
	return nil
}

// UnsupportedError reports a feature call blocked by the capability cache.
// No network round-trip is made when this is returned.
type UnsupportedError struct {
	Feature string
}

func (e *UnsupportedError) Error() string {
	return "endpoint does not support " + e.Feature
}

// GetTileURL posts a tile request to the endpoint base URL, refreshes the
// capability cache from the response, and returns the templated tile URL.
// A response without a capabilities object still produces a known snapshot
// with every flag false.
func (c *Client) GetTileURL(ctx context.Context, req TileRequest) (string, error) {
	body, err := c.post(ctx, "", req.wire())
	if err != nil {
		return "", err
	}

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse tile response: %w", err)
	}

	c.refreshCapabilities(parsed)

	tileURL, err := ParseTileURL(parsed)
	if err != nil {
		return "", err
	}
	return tileURL, nil
}

// InspectPixel queries pixel values at a point. The response payload is
// opaque to this client and handed back as raw JSON.
func (c *Client) InspectPixel(ctx context.Context, req InspectRequest) (json.RawMessage, error) {
	if err := c.ensureSupported(FeatureInspect); err != nil {
		return nil, err
	}
	return c.postRaw(ctx, "/inspect", req)
}

// RequestExport starts an export task on the endpoint.
func (c *Client) RequestExport(ctx context.Context, req ExportRequest) (json.RawMessage, error) {
	if err := c.ensureSupported(FeatureExport); err != nil {
		return nil, err
	}
	return c.postRaw(ctx, "/export", req)
}

// RequestTimeSeries extracts a reduced time series from the endpoint.
func (c *Client) RequestTimeSeries(ctx context.Context, req TimeSeriesRequest) (json.RawMessage, error) {
	if err := c.ensureSupported(FeatureTimeSeries); err != nil {
		return nil, err
	}
	return c.postRaw(ctx, "/timeseries", req)
}

func (c *Client) refreshCapabilities(parsed map[string]any) {
	flags := Capabilities{}
	if caps, ok := parsed["capabilities"].(map[string]any); ok {
		flags.Inspect, _ = caps["inspect"].(bool)
		flags.Export, _ = caps["export"].(bool)
		flags.TimeSeries, _ = caps["timeSeries"].(bool)
	}

	c.mu.Lock()
	// overwrite, never merge; last successful tile response wins
	c.caps = capabilityState{known: true, flags: flags}
	c.mu.Unlock()

	log.Debug().
		Bool("inspect", flags.Inspect).
		Bool("export", flags.Export).
		Bool("timeSeries", flags.TimeSeries).
		Msg("refreshed endpoint capabilities")
}

func (c *Client) postRaw(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	body, err := c.post(ctx, path, payload)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("endpoint returned invalid JSON from %s", path)
	}
	return json.RawMessage(body), nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("endpoint request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := strings.TrimSpace(string(readBodyForError(resp.Body)))
		if detail == "" {
			detail = "(empty response body)"
		}
		return nil, fmt.Errorf("endpoint returned HTTP %d: %s", resp.StatusCode, detail)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read endpoint response: %w", err)
	}
	return body, nil
}

// readBodyForError reads at most maxErrorBodySize bytes of a response body
// for inclusion in an error message.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("... (truncated)")...)
	}
	return body
}
