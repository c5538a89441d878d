package handlers

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/lllkojlhuk/sushikub/models"
	"github.com/lllkojlhuk/sushikub/utils"
)

// previewFileName derives the stored name for a category preview image from
// the category name and the upload's original extension.
func previewFileName(categoryName, uploadName string) string {
	ext := strings.TrimPrefix(path.Ext(uploadName), ".")
	if ext == "" {
		ext = "jpg"
	}
	slug := utils.Transliterate(categoryName)
	if slug == "" {
		slug = "category"
	}
	return fmt.Sprintf("%s_%d.%s", slug, time.Now().UnixMilli(), ext)
}

// HandleGetCategories lists all categories.
func HandleGetCategories(c *fiber.Ctx) error {
	categories, err := models.GetCategories()
	if err != nil {
		return sendInternalServerError(c, "Failed to load categories", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return c.JSON(categories)
}

// HandleGetCategory returns a single category.
func HandleGetCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return sendBadRequestError(c, "Invalid category ID")
	}

	category, err := models.GetCategory(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return sendNotFoundError(c, "Category not found")
		}
		return sendInternalServerError(c, "Failed to load category", err)
	}
	return c.JSON(category)
}

// HandleCreateCategory creates a category with a required preview image.
func HandleCreateCategory(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return sendBadRequestError(c, "Multipart form is required")
	}

	name, _ := formValue(form, "name")
	name = utils.SanitizeString(name)
	if name == "" {
		return sendBadRequestError(c, "Category name is required")
	}

	img := formFile(form, "img")
	if img == nil {
		return sendBadRequestError(c, "Preview image is required")
	}
	if !strings.HasPrefix(img.Header.Get(fiber.HeaderContentType), "image/") {
		return sendBadRequestError(c, "Uploaded file is not an image")
	}

	fileName := previewFileName(name, img.Filename)
	if err := saveUpload(img, fileName); err != nil {
		return sendInternalServerError(c, "Failed to store preview image", err)
	}

	category := models.Category{Name: name, Preview: fileName}
	if orderRaw, ok := formValue(form, "order"); ok && orderRaw != "" {
		order, err := strconv.ParseInt(orderRaw, 10, 64)
		if err != nil {
			return sendBadRequestError(c, "Invalid order value")
		}
		category.SortOrder = &order
	}

	if err := models.CreateCategory(&category); err != nil {
		removeImageArtifacts(fileName)
		return sendInternalServerError(c, "Failed to create category", err)
	}
	return c.JSON(category)
}

// HandleUpdateCategory updates a category, replacing the preview image when a
// new one is uploaded.
func HandleUpdateCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return sendBadRequestError(c, "Invalid category ID")
	}

	existing, err := models.GetCategory(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return sendNotFoundError(c, "Category not found")
		}
		return sendInternalServerError(c, "Failed to load category", err)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return sendBadRequestError(c, "Multipart form is required")
	}

	name, ok := formValue(form, "name")
	if !ok || utils.SanitizeString(name) == "" {
		name = existing.Name
	} else {
		name = utils.SanitizeString(name)
	}

	sortOrder := existing.SortOrder
	if orderRaw, ok := formValue(form, "order"); ok {
		if orderRaw == "" {
			sortOrder = nil
		} else {
			order, err := strconv.ParseInt(orderRaw, 10, 64)
			if err != nil {
				return sendBadRequestError(c, "Invalid order value")
			}
			sortOrder = &order
		}
	}

	var newFileName string
	if img := formFile(form, "img"); img != nil {
		if !strings.HasPrefix(img.Header.Get(fiber.HeaderContentType), "image/") {
			return sendBadRequestError(c, "Uploaded file is not an image")
		}
		newFileName = previewFileName(name, img.Filename)
		if err := saveUpload(img, newFileName); err != nil {
			return sendInternalServerError(c, "Failed to store preview image", err)
		}
	}

	if err := models.UpdateCategory(id, name, sortOrder, newFileName); err != nil {
		if newFileName != "" {
			removeImageArtifacts(newFileName)
		}
		return sendInternalServerError(c, "Failed to update category", err)
	}

	if newFileName != "" && existing.Preview != newFileName {
		removeImageArtifacts(existing.Preview)
	}

	updated, err := models.GetCategory(id)
	if err != nil {
		return sendInternalServerError(c, "Failed to load category", err)
	}
	return c.JSON(updated)
}

// HandleDeleteCategory removes a category and its preview image.
func HandleDeleteCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return sendBadRequestError(c, "Invalid category ID")
	}

	category, err := models.GetCategory(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return sendNotFoundError(c, "Category not found")
		}
		return sendInternalServerError(c, "Failed to load category", err)
	}

	if err := models.DeleteCategory(id); err != nil {
		return sendInternalServerError(c, "Failed to delete category", err)
	}

	removeImageArtifacts(category.Preview)

	return c.JSON(fiber.Map{"message": "Category deleted"})
}
