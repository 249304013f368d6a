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

package jsonutil

import (
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

func isObject(fragment []byte) bool {
	return len(fragment) > 0 && fragment[0] == '{'
}

// Merge recursively overlays the JSON object overlay onto base. Keys present
// in overlay win; nested objects merge key by key. Used to apply request tile
// parameters on top of configured defaults.
func Merge(overlay, base []byte) (json.RawMessage, error) {
	overlayMap := make(map[string]*json.RawMessage)
	baseMap := make(map[string]*json.RawMessage)

	if err := json.Unmarshal(overlay, &overlayMap); err != nil {
		log.Error().Err(err).Str("overlay", string(overlay)).Msg("cannot unmarshal overlay JSON")
		return []byte{}, err
	}

	if err := json.Unmarshal(base, &baseMap); err != nil {
		log.Error().Err(err).Str("base", string(base)).Msg("cannot unmarshal base JSON")
		return []byte{}, err
	}

	for key, overlayFragment := range overlayMap {
		if baseFragment, ok := baseMap[key]; ok && isObject(*overlayFragment) && isObject(*baseFragment) {
			merged, err := Merge(*overlayFragment, *baseFragment)
			if err != nil {
				log.Error().Err(err).Str("key", key).Msg("cannot merge JSON fragment")
				return []byte{}, err
			}
			baseMap[key] = &merged
			continue
		}
		baseMap[key] = overlayFragment
	}

	return json.Marshal(baseMap)
}
