/*
Copyright 2025 The nagare media authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package http

import (
	"github.com/gofiber/fiber/v2"
)

const (
	RequestIDKey = "play.nagare.media/request-id"
)

var (
	ErrMissingSourceURL = fiber.NewError(fiber.StatusBadRequest, "Missing Source URL")
	ErrUnknownResolver  = fiber.NewError(fiber.StatusInternalServerError, "Unknown Resolver")
)

var (
	NextHandler = func(c *fiber.Ctx) error {
		return c.Next()
	}

	NoContentHandler = func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	}
)
