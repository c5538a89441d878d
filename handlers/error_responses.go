package handlers

import (
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// errorResponse is the JSON envelope every API error is wrapped in.
type errorResponse struct {
	Message   string `json:"message"`
	Status    int    `json:"status"`
	Timestamp string `json:"timestamp"`
}

func sendErrorStatus(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorResponse{
		Message:   message,
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// sendBadRequestError sends a 400 response
func sendBadRequestError(c *fiber.Ctx, message string) error {
	return sendErrorStatus(c, fiber.StatusBadRequest, message)
}

// sendUnauthorizedError sends a 401 response
func sendUnauthorizedError(c *fiber.Ctx, message string) error {
	return sendErrorStatus(c, fiber.StatusUnauthorized, message)
}

// sendForbiddenError sends a 403 response
func sendForbiddenError(c *fiber.Ctx, message string) error {
	return sendErrorStatus(c, fiber.StatusForbidden, message)
}

// sendNotFoundError sends a 404 response
func sendNotFoundError(c *fiber.Ctx, message string) error {
	return sendErrorStatus(c, fiber.StatusNotFound, message)
}

// sendTimeoutError sends a 408 response
func sendTimeoutError(c *fiber.Ctx, message string) error {
	return sendErrorStatus(c, fiber.StatusRequestTimeout, message)
}

// sendServiceUnavailableError sends a 503 response
func sendServiceUnavailableError(c *fiber.Ctx, message string) error {
	return sendErrorStatus(c, fiber.StatusServiceUnavailable, message)
}

// sendInternalServerError logs the underlying error and sends a 500 response
func sendInternalServerError(c *fiber.Ctx, message string, err error) error {
	log.Errorf("Internal server error: %v", err)
	return sendErrorStatus(c, fiber.StatusInternalServerError, message)
}

// ErrorHandler is the fiber application error handler. Errors that escape a
// handler are wrapped in the same JSON envelope as explicit API errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	var fiberErr *fiber.Error
	if e, ok := err.(*fiber.Error); ok {
		fiberErr = e
		status = fiberErr.Code
		message = fiberErr.Message
	}

	if status >= fiber.StatusInternalServerError {
		log.Errorf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}

	return sendErrorStatus(c, status, message)
}
