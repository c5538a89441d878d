package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strconv"
	"strings"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const (
	minUploadSize = 100
	maxUploadSize = 50 * 1024 * 1024
)

// parseID extracts a positive integer id from the route parameters.
func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", c.Params("id"))
	}
	return id, nil
}

// parseQueryID parses a positive integer id from a query parameter value.
func parseQueryID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// extensionForMIME maps an upload's MIME type to a file extension.
func extensionForMIME(mimeType string) string {
	switch mimeType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

// validateImageUpload checks the MIME type, size bounds and extension of an
// uploaded file.
func validateImageUpload(file *multipart.FileHeader) error {
	mimeType := file.Header.Get(fiber.HeaderContentType)
	switch mimeType {
	case "image/jpeg", "image/jpg", "image/png", "image/webp":
	default:
		return fmt.Errorf("unsupported image type %q", mimeType)
	}

	if file.Size < minUploadSize || file.Size > maxUploadSize {
		return fmt.Errorf("image size %d out of bounds", file.Size)
	}

	if ext := strings.ToLower(path.Ext(file.Filename)); ext != "" {
		switch ext {
		case ".jpg", ".jpeg", ".png", ".webp":
		default:
			return fmt.Errorf("unsupported image extension %q", ext)
		}
	}

	return nil
}

// uploadFileName builds a collision-resistant name for a product image.
func uploadFileName(file *multipart.FileHeader) string {
	return uuid.NewString() + extensionForMIME(file.Header.Get(fiber.HeaderContentType))
}

// saveUpload streams an uploaded file into the filestore under fileName.
func saveUpload(file *multipart.FileHeader, fileName string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	return fileStore.Save(fileName, data)
}

// removeImageArtifacts deletes a stored image and every cached derivative of
// it. Failures are logged; callers proceed regardless so a missing file never
// blocks a CRUD operation.
func removeImageArtifacts(fileName string) {
	if fileName == "" {
		return
	}

	if err := fileStore.Delete(fileName); err != nil {
		log.Warnf("Failed to delete image %s: %v", fileName, err)
	}

	dir := path.Dir(fileName)
	if dir == "." {
		dir = ""
	}
	base := strings.TrimSuffix(path.Base(fileName), path.Ext(fileName))
	if _, err := imageCache.Purge(dir, base); err != nil {
		log.Warnf("Failed to purge cache derivatives for %s: %v", fileName, err)
	}
}
