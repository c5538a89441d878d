package handlers

import (
	"encoding/json"
	"errors"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/lllkojlhuk/sushikub/models"
	"github.com/lllkojlhuk/sushikub/utils"
)

type settingRequest struct {
	Key         string          `json:"key"`
	Value       json.RawMessage `json:"value"`
	Type        string          `json:"type"`
	Description *string         `json:"description"`
	Order       int64           `json:"order"`
}

// rawValueText converts a JSON value field to its stored text form. Quoted
// strings are unquoted; everything else keeps its JSON encoding.
func rawValueText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// HandleGetSettings lists all settings with coerced values.
func HandleGetSettings(c *fiber.Ctx) error {
	settings, err := models.GetSettings()
	if err != nil {
		return sendInternalServerError(c, "Failed to load settings", err)
	}
	if settings == nil {
		settings = []models.Setting{}
	}
	return c.JSON(settings)
}

// HandleGetSettingsObject returns all settings as a key to value map.
func HandleGetSettingsObject(c *fiber.Ctx) error {
	object, err := models.GetSettingsObject()
	if err != nil {
		return sendInternalServerError(c, "Failed to load settings", err)
	}
	return c.JSON(object)
}

// HandleGetSettingByKey returns a single setting looked up by its key.
func HandleGetSettingByKey(c *fiber.Ctx) error {
	key := c.Params("key")
	setting, err := models.GetSettingByKey(key)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return sendNotFoundError(c, "Setting not found")
		}
		return sendInternalServerError(c, "Failed to load setting", err)
	}
	return c.JSON(setting)
}

// HandleCreateSetting creates a setting, validating the value against its
// declared type.
func HandleCreateSetting(c *fiber.Ctx) error {
	var req settingRequest
	if err := c.BodyParser(&req); err != nil {
		return sendBadRequestError(c, "Invalid request body")
	}

	key := utils.SanitizeString(req.Key)
	if key == "" {
		return sendBadRequestError(c, "Setting key is required")
	}

	setting := models.Setting{
		Key:         key,
		Value:       rawValueText(req.Value),
		Type:        req.Type,
		Description: req.Description,
		SortOrder:   req.Order,
	}

	if err := models.CreateSetting(&setting); err != nil {
		if errors.Is(err, models.ErrInvalidSettingValue) {
			return sendBadRequestError(c, "Setting value does not match its type")
		}
		return sendInternalServerError(c, "Failed to create setting", err)
	}
	return c.JSON(setting)
}

// HandleUpdateSetting replaces a setting by id.
func HandleUpdateSetting(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return sendBadRequestError(c, "Invalid setting ID")
	}

	var req settingRequest
	if err := c.BodyParser(&req); err != nil {
		return sendBadRequestError(c, "Invalid request body")
	}

	key := utils.SanitizeString(req.Key)
	if key == "" {
		return sendBadRequestError(c, "Setting key is required")
	}

	setting := models.Setting{
		ID:          id,
		Key:         key,
		Value:       rawValueText(req.Value),
		Type:        req.Type,
		Description: req.Description,
		SortOrder:   req.Order,
	}

	if err := models.UpdateSetting(&setting); err != nil {
		if errors.Is(err, models.ErrInvalidSettingValue) {
			return sendBadRequestError(c, "Setting value does not match its type")
		}
		return sendInternalServerError(c, "Failed to update setting", err)
	}
	return c.JSON(setting)
}

// HandleDeleteSetting removes a setting.
func HandleDeleteSetting(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return sendBadRequestError(c, "Invalid setting ID")
	}

	if err := models.DeleteSetting(id); err != nil {
		return sendInternalServerError(c, "Failed to delete setting", err)
	}
	return c.JSON(fiber.Map{"message": "Setting deleted"})
}
