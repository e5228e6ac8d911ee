package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tensorplex-labs/topsis/internal/metrics"
	"github.com/tensorplex-labs/topsis/internal/topsis"
	"github.com/tensorplex-labs/topsis/pkg/api"
)

// createResponse creates a StdResponse with the given body and error
func createResponse[T any](body T, err error) api.StdResponse[T] {
	if err != nil {
		errMsg := err.Error()
		return api.StdResponse[T]{
			Body:  body,
			Error: &errMsg,
		}
	}
	return api.StdResponse[T]{
		Body:  body,
		Error: nil,
	}
}

// statusFor maps caller mistakes to 400 and everything else to 500, unless
// err already carries a fiber status.
func statusFor(err error) int {
	var e *fiber.Error
	switch {
	case errors.As(err, &e):
		return e.Code
	case topsis.IsInputError(err):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case statusFor(err) < fiber.StatusInternalServerError:
		return metrics.OutcomeInvalidInput
	}
	return metrics.OutcomeError
}
