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
	"fmt"
	"regexp"
	"strings"
)

// Hugging Face space page URLs are rewritten to the per-space API host. The
// rewritten form no longer matches this pattern, which keeps NormalizeURL
// idempotent.
var hfSpaceURL = regexp.MustCompile(`^https://huggingface\.co/spaces/([^/\s]+)/([^/\s]+)/?$`)

// NormalizeURL canonicalizes a user-supplied endpoint URL. Known
// hosting-service space URLs become their direct tile API address; anything
// else is returned trimmed and otherwise untouched.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if m := hfSpaceURL.FindStringSubmatch(trimmed); m != nil {
		return fmt.Sprintf("https://%s-%s.hf.space/tile", m[1], m[2])
	}
	return trimmed
}
