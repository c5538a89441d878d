package handlers

import (
	"errors"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/lllkojlhuk/sushikub/frontpad"
)

// HandleSendOrder relays an order to the restaurant through the Frontpad API.
func HandleSendOrder(c *fiber.Ctx) error {
	var order frontpad.Order
	if err := c.BodyParser(&order); err != nil {
		return sendBadRequestError(c, "Invalid request body")
	}

	if len(order.Items) == 0 {
		return sendBadRequestError(c, "Order has no items")
	}

	result, err := fpClient.SendOrder(c.Context(), order)
	if err != nil {
		return sendOrderError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":             true,
		"message":             "Заказ успешно отправлен в ресторан",
		"frontpadOrderId":     result.OrderID,
		"frontpadOrderNumber": result.OrderNumber,
		"warnings":            result.Warnings,
	})
}

// HandleGetFrontpadProducts returns the Frontpad product catalog.
func HandleGetFrontpadProducts(c *fiber.Ctx) error {
	products, err := fpClient.GetProducts(c.Context())
	if err != nil {
		return sendOrderError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"products": products,
	})
}

// HandleGetFrontpadStops returns the products currently on the stop list.
func HandleGetFrontpadStops(c *fiber.Ctx) error {
	stops, err := fpClient.GetStops(c.Context())
	if err != nil {
		return sendOrderError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"stops":   stops,
	})
}

// sendOrderError maps Frontpad client failures onto API responses.
func sendOrderError(c *fiber.Ctx, err error) error {
	var apiErr *frontpad.APIError

	switch {
	case errors.Is(err, frontpad.ErrSecretMissing):
		return sendServiceUnavailableError(c, "Система заказов временно недоступна. Обратитесь к администратору.")
	case errors.Is(err, frontpad.ErrTimeout):
		return sendTimeoutError(c, "Превышено время ожидания ответа от ресторана. Попробуйте позже.")
	case errors.As(err, &apiErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": apiErr.Message(),
			"error":   apiErr.Code,
		})
	default:
		return sendInternalServerError(c, "Внутренняя ошибка сервера при отправке заказа", err)
	}
}
