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

// DateRange bounds a tile or analysis request in time.
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// TileRequest carries the logical fields of a tile request. The endpoint
// expects snake_case wire names, so the client transcodes this to tileWire
// before serialization; absent fields are omitted entirely.
type TileRequest struct {
	AssetID     string         `json:"assetId,omitempty"`
	Script      string         `json:"script,omitempty"`
	VisParams   map[string]any `json:"visParams,omitempty"`
	DateRange   *DateRange     `json:"dateRange,omitempty"`
	CloudFilter *float64       `json:"cloudFilter,omitempty"`
	Reducer     string         `json:"reducer,omitempty"`
}

type tileWire struct {
	AssetID     string         `json:"asset_id,omitempty"`
	Script      string         `json:"script,omitempty"`
	VisParams   map[string]any `json:"vis_params,omitempty"`
	DateRange   *DateRange     `json:"date_range,omitempty"`
	CloudFilter *float64       `json:"cloud_filter,omitempty"`
	Reducer     string         `json:"reducer,omitempty"`
}

func (r TileRequest) wire() tileWire {
	return tileWire{
		AssetID:     r.AssetID,
		Script:      r.Script,
		VisParams:   r.VisParams,
		DateRange:   r.DateRange,
		CloudFilter: r.CloudFilter,
		Reducer:     r.Reducer,
	}
}

// InspectRequest asks the endpoint for pixel values at a point.
type InspectRequest struct {
	AssetID   string         `json:"assetId"`
	Lon       float64        `json:"lon"`
	Lat       float64        `json:"lat"`
	VisParams map[string]any `json:"visParams,omitempty"`
}

// ExportRequest starts a server-side export task.
type ExportRequest struct {
	AssetID     string         `json:"assetId"`
	Description string         `json:"description"`
	Region      map[string]any `json:"region,omitempty"`
	Scale       *float64       `json:"scale,omitempty"`
	CRS         string         `json:"crs,omitempty"`
	MaxPixels   *float64       `json:"maxPixels,omitempty"`
	Destination string         `json:"destination,omitempty"`
}

// TimeSeriesRequest extracts a reduced time series over an asset.
type TimeSeriesRequest struct {
	AssetID   string         `json:"assetId"`
	StartDate string         `json:"startDate"`
	EndDate   string         `json:"endDate"`
	Frequency string         `json:"frequency"`
	Reducer   string         `json:"reducer"`
	VisParams map[string]any `json:"visParams,omitempty"`
}
