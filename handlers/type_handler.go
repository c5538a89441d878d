package handlers

import (
	"errors"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/lllkojlhuk/sushikub/models"
	"github.com/lllkojlhuk/sushikub/utils"
)

type typeRequest struct {
	Name        string  `json:"name"`
	CategoryIDs []int64 `json:"categoryIds"`
}

// HandleGetTypes lists all product types. A categoryId query filters to the
// types linked to that category.
func HandleGetTypes(c *fiber.Ctx) error {
	var (
		types []models.Type
		err   error
	)

	if raw := c.Query("categoryId"); raw != "" {
		id, parseErr := parseQueryID(raw)
		if parseErr != nil {
			return sendBadRequestError(c, "Invalid category ID")
		}
		types, err = models.GetTypesForCategory(id)
	} else {
		types, err = models.GetTypes()
	}

	if err != nil {
		return sendInternalServerError(c, "Failed to load types", err)
	}
	if types == nil {
		types = []models.Type{}
	}
	return c.JSON(types)
}

// HandleGetType returns a single type.
func HandleGetType(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return sendBadRequestError(c, "Invalid type ID")
	}

	t, err := models.GetType(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return sendNotFoundError(c, "Type not found")
		}
		return sendInternalServerError(c, "Failed to load type", err)
	}
	return c.JSON(t)
}

// HandleCreateType creates a type, optionally linking it to categories.
func HandleCreateType(c *fiber.Ctx) error {
	var req typeRequest
	if err := c.BodyParser(&req); err != nil {
		return sendBadRequestError(c, "Invalid request body")
	}

	name := utils.SanitizeString(req.Name)
	if name == "" {
		return sendBadRequestError(c, "Type name is required")
	}

	t := models.Type{Name: name}
	if err := models.CreateType(&t); err != nil {
		return sendInternalServerError(c, "Failed to create type", err)
	}

	for _, categoryID := range req.CategoryIDs {
		if err := models.LinkTypeToCategory(t.ID, categoryID); err != nil {
			return sendInternalServerError(c, "Failed to link type to category", err)
		}
	}

	return c.JSON(t)
}

// HandleUpdateType renames a type.
func HandleUpdateType(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return sendBadRequestError(c, "Invalid type ID")
	}

	var req typeRequest
	if err := c.BodyParser(&req); err != nil {
		return sendBadRequestError(c, "Invalid request body")
	}

	name := utils.SanitizeString(req.Name)
	if name == "" {
		return sendBadRequestError(c, "Type name is required")
	}

	if err := models.UpdateType(id, name); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return sendNotFoundError(c, "Type not found")
		}
		return sendInternalServerError(c, "Failed to update type", err)
	}

	t, err := models.GetType(id)
	if err != nil {
		return sendInternalServerError(c, "Failed to load type", err)
	}
	return c.JSON(t)
}

// HandleDeleteType removes a type.
func HandleDeleteType(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return sendBadRequestError(c, "Invalid type ID")
	}

	if err := models.DeleteType(id); err != nil {
		return sendInternalServerError(c, "Failed to delete type", err)
	}
	return c.JSON(fiber.Map{"message": "Type deleted"})
}
