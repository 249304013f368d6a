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
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/opengeos/go-ee-catalog-server/jsonutil"
)

// Fetcher retrieves and normalizes the official and community dataset feeds.
type Fetcher struct {
	OfficialURL  string
	CommunityURL string
	client       *http.Client
}

func NewFetcher(officialURL, communityURL string) *Fetcher {
	return &Fetcher{
		OfficialURL:  officialURL,
		CommunityURL: communityURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchAll loads both feeds concurrently and returns the merged record list,
// official records first. A failure on either feed fails the whole load.
func (f *Fetcher) FetchAll(ctx context.Context) ([]Record, error) {
	var official, community []Record

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		records, err := f.fetchFeed(ctx, f.OfficialURL, SourceOfficial)
		if err != nil {
			return err
		}
		official = records
		return nil
	})
	group.Go(func() error {
		records, err := f.fetchFeed(ctx, f.CommunityURL, SourceCommunity)
		if err != nil {
			return err
		}
		community = records
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	log.Info().
		Int("official", len(official)).
		Int("community", len(community)).
		Msg("loaded dataset catalog feeds")
	return MergeFeeds(official, community), nil
}

func (f *Fetcher) fetchFeed(ctx context.Context, feedURL string, source Source) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s feed request: %w", source, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s feed request failed: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s feed returned HTTP %d", source, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s feed body: %w", source, err)
	}

	var raw []map[string]any
	if err := jsonutil.DecodeLenient(body, &raw); err != nil {
		log.Error().Err(err).Str("url", feedURL).Msg("feed did not parse as a JSON array")
		return nil, fmt.Errorf("failed to parse %s feed: %w", source, err)
	}

	return NormalizeFeed(raw, source), nil
}
