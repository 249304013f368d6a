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
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	once        sync.Once
	instance    *Client
	instanceErr error
)

// ErrNotConfigured reports that no analysis endpoint URL is set; tile,
// inspect, export, and time-series operations are unavailable without one.
var ErrNotConfigured = errors.New("no analysis endpoint is configured")

// Shared returns the process-wide client built from the endpoint.url and
// endpoint.token configuration. One client per configured endpoint+token
// pair; the capability cache lives on it.
func Shared() (*Client, error) {
	once.Do(func() {
		rawURL := viper.GetString("endpoint.url")
		if strings.TrimSpace(rawURL) == "" {
			instanceErr = ErrNotConfigured
			return
		}

		instance, instanceErr = NewClient(rawURL, viper.GetString("endpoint.token"))
		if instanceErr != nil {
			log.Error().Err(instanceErr).Msg("failed to build endpoint client")
			return
		}
		log.Info().Str("baseURL", instance.BaseURL()).Msg("initialized endpoint client")
	})
	return instance, instanceErr
}
