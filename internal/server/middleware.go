package server

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/topsis/pkg/api"
)

const requestIDKey = "requestID"

// RequestIDMiddleware echoes the caller's request id, or a fresh one, in the
// response and keeps it in Locals for logging.
func RequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(api.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(api.RequestIDHeader, id)
		c.Locals(requestIDKey, id)
		return c.Next()
	}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}

// ZstdMiddleware decompresses zstd request bodies and compresses responses
// for clients that accept zstd. Whitelisted paths pass through untouched.
func ZstdMiddleware(whitelistedRoutes []string) fiber.Handler {
	if whitelistedRoutes == nil {
		whitelistedRoutes = []string{"/health"}
		log.Debug().
			Any("default", whitelistedRoutes).
			Msg("Whitelisted routes not specified, using default whitelist")
	}

	// neither constructor fails without options that can be invalid
	decoder, _ := zstd.NewReader(nil)
	encoder, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))

	return func(c *fiber.Ctx) error {
		if slices.Contains(whitelistedRoutes, c.Path()) {
			return c.Next()
		}

		// Handle request decompression
		if strings.EqualFold(c.Get(fiber.HeaderContentEncoding), "zstd") {
			body := c.Request().Body()
			if len(body) > 0 {
				decompressed, err := decoder.DecodeAll(body, nil)
				if err != nil {
					log.Err(err).Msg("Failed to decompress request")
					return c.Status(fiber.StatusBadRequest).JSON(
						createResponse(
							map[string]any{},
							fmt.Errorf("failed to decompress zstd data: %w", err),
						))
				}

				c.Request().SetBody(decompressed)
				log.Debug().
					Int("compressed_size", len(body)).
					Int("original_size", len(decompressed)).
					Msg("Request body decompressed")
			}
			c.Request().Header.Del(fiber.HeaderContentEncoding)
		}

		if err := c.Next(); err != nil {
			return err
		}

		// Handle response compression
		if strings.Contains(strings.ToLower(c.Get(fiber.HeaderAcceptEncoding)), "zstd") {
			responseBody := c.Response().Body()
			if len(responseBody) > 0 {
				compressed := encoder.EncodeAll(responseBody, nil)
				c.Response().SetBodyRaw(compressed)
				c.Set(fiber.HeaderContentEncoding, "zstd")

				log.Debug().
					Int("original_size", len(responseBody)).
					Int("compressed_size", len(compressed)).
					Msg("Response body compressed")
			}
		}

		return nil
	}
}
