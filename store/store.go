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

package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/opengeos/go-ee-catalog-server/catalog"
)

var (
	once     sync.Once
	instance *Store
)

// Store holds the process-wide snapshot of the merged dataset catalog. The
// snapshot is replaced wholesale on each load; readers get the slice that was
// current when they asked.
type Store struct {
	fetcher *catalog.Fetcher

	mu       sync.RWMutex
	records  []catalog.Record
	loadedAt time.Time
}

// GetInstance returns the singleton store configured from
// catalog.official_url and catalog.community_url.
func GetInstance() *Store {
	once.Do(func() {
		log.Debug().
			Str("official", viper.GetString("catalog.official_url")).
			Str("community", viper.GetString("catalog.community_url")).
			Msg("initializing catalog store")
		instance = &Store{
			fetcher: catalog.NewFetcher(
				viper.GetString("catalog.official_url"),
				viper.GetString("catalog.community_url"),
			),
		}
	})
	return instance
}

// Load fetches both feeds and swaps in the merged snapshot. A failed load
// leaves the previous snapshot in place.
func (s *Store) Load(ctx context.Context) error {
	records, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.records = records
	s.loadedAt = time.Now()
	s.mu.Unlock()

	log.Info().Int("records", len(records)).Msg("catalog snapshot updated")
	return nil
}

// Records returns the current snapshot.
func (s *Store) Records() []catalog.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Loaded reports whether any snapshot has been taken yet.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.loadedAt.IsZero()
}

// LoadedAt returns the time of the last successful load.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
