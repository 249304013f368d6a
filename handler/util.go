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
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/opengeos/go-ee-catalog-server/catalog"
)

func parsePositiveInt(c *fiber.Ctx, name, value string) (int, error) {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Error().Err(err).Str(name, value).Msg("could not convert query parameter to int")
		c.Status(fiber.ErrUnprocessableEntity.Code)
		_ = c.JSON(catalog.Message{
			Code:        catalog.ParameterError,
			Description: fmt.Sprintf("%s '%s' could not be converted to int", name, value),
		})
		return 0, err
	}
	if parsed < 1 {
		err := fmt.Errorf("%s '%s' must be 1 or greater", name, value)
		log.Error().Int(name, parsed).Msg("query parameter out of bounds")
		c.Status(fiber.ErrUnprocessableEntity.Code)
		_ = c.JSON(catalog.Message{
			Code:        catalog.ParameterError,
			Description: err.Error(),
		})
		return 0, err
	}

	return parsed, nil
}

func parseChoice(c *fiber.Ctx, name, value string, allowed ...string) (string, error) {
	for _, candidate := range allowed {
		if value == candidate {
			return value, nil
		}
	}

	err := fmt.Errorf("%s must be one of %v", name, allowed)
	log.Error().Str(name, value).Msg("query parameter is not an allowed value")
	c.Status(fiber.ErrUnprocessableEntity.Code)
	_ = c.JSON(catalog.Message{
		Code:        catalog.ParameterError,
		Description: err.Error(),
	})
	return "", err
}
