package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/lllkojlhuk/sushikub/models"
	"github.com/lllkojlhuk/sushikub/utils"
)

// bannerFileName names an uploaded banner image with a millisecond timestamp
// and the variant (desktop/mobile) it is for.
func bannerFileName(variant string, file *multipart.FileHeader) string {
	return fmt.Sprintf("%d_%s_%s", time.Now().UnixMilli(), variant, utils.SanitizeString(file.Filename))
}

// HandleGetBanners lists banners in display order.
func HandleGetBanners(c *fiber.Ctx) error {
	banners, err := models.GetBanners()
	if err != nil {
		return sendInternalServerError(c, "Failed to load banners", err)
	}
	if banners == nil {
		banners = []models.Banner{}
	}
	return c.JSON(banners)
}

// HandleGetBanner returns a single banner.
func HandleGetBanner(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return sendBadRequestError(c, "Invalid banner ID")
	}

	banner, err := models.GetBanner(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return sendNotFoundError(c, "Banner not found")
		}
		return sendInternalServerError(c, "Failed to load banner", err)
	}
	return c.JSON(banner)
}

// HandleCreateBanner creates a banner from desktop and mobile image uploads.
func HandleCreateBanner(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return sendBadRequestError(c, "Multipart form is required")
	}

	imgDesktop := formFile(form, "imgDesktop")
	imgMobile := formFile(form, "imgMobile")
	if imgDesktop == nil || imgMobile == nil {
		return sendBadRequestError(c, "Desktop and mobile images are required")
	}
	if err := validateImageUpload(imgDesktop); err != nil {
		return sendBadRequestError(c, "Invalid desktop image file")
	}
	if err := validateImageUpload(imgMobile); err != nil {
		return sendBadRequestError(c, "Invalid mobile image file")
	}

	desktopName := bannerFileName("desktop", imgDesktop)
	mobileName := bannerFileName("mobile", imgMobile)

	if err := saveUpload(imgDesktop, desktopName); err != nil {
		return sendInternalServerError(c, "Failed to store banner image", err)
	}
	if err := saveUpload(imgMobile, mobileName); err != nil {
		removeImageArtifacts(desktopName)
		return sendInternalServerError(c, "Failed to store banner image", err)
	}

	banner := models.Banner{
		ImgDesktop: desktopName,
		ImgMobile:  mobileName,
	}
	if link, ok := formValue(form, "link"); ok {
		banner.Link = utils.SanitizeString(link)
	}
	if orderRaw, ok := formValue(form, "order"); ok && orderRaw != "" {
		if order, err := strconv.ParseInt(orderRaw, 10, 64); err == nil {
			banner.SortOrder = order
		}
	}

	if err := models.CreateBanner(&banner); err != nil {
		removeImageArtifacts(desktopName)
		removeImageArtifacts(mobileName)
		return sendInternalServerError(c, "Failed to create banner", err)
	}
	return c.JSON(banner)
}

// HandleUpdateBanner updates a banner, replacing whichever images were
// re-uploaded and deleting the old files.
func HandleUpdateBanner(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return sendBadRequestError(c, "Invalid banner ID")
	}

	existing, err := models.GetBanner(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return sendNotFoundError(c, "Banner not found")
		}
		return sendInternalServerError(c, "Failed to load banner", err)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return sendBadRequestError(c, "Multipart form is required")
	}

	updated := *existing

	if link, ok := formValue(form, "link"); ok && link != "" {
		updated.Link = utils.SanitizeString(link)
	}
	if orderRaw, ok := formValue(form, "order"); ok && orderRaw != "" {
		if order, err := strconv.ParseInt(orderRaw, 10, 64); err == nil {
			updated.SortOrder = order
		}
	}

	var replaced []string

	if imgDesktop := formFile(form, "imgDesktop"); imgDesktop != nil {
		if err := validateImageUpload(imgDesktop); err != nil {
			return sendBadRequestError(c, "Invalid desktop image file")
		}
		name := bannerFileName("desktop", imgDesktop)
		if err := saveUpload(imgDesktop, name); err != nil {
			return sendInternalServerError(c, "Failed to store banner image", err)
		}
		replaced = append(replaced, existing.ImgDesktop)
		updated.ImgDesktop = name
	}

	if imgMobile := formFile(form, "imgMobile"); imgMobile != nil {
		if err := validateImageUpload(imgMobile); err != nil {
			return sendBadRequestError(c, "Invalid mobile image file")
		}
		name := bannerFileName("mobile", imgMobile)
		if err := saveUpload(imgMobile, name); err != nil {
			return sendInternalServerError(c, "Failed to store banner image", err)
		}
		replaced = append(replaced, existing.ImgMobile)
		updated.ImgMobile = name
	}

	if err := models.UpdateBanner(&updated); err != nil {
		return sendInternalServerError(c, "Failed to update banner", err)
	}

	for _, old := range replaced {
		removeImageArtifacts(old)
	}

	return c.JSON(updated)
}

// HandleDeleteBanner removes a banner and both of its image files.
func HandleDeleteBanner(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return sendBadRequestError(c, "Invalid banner ID")
	}

	banner, err := models.GetBanner(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return sendNotFoundError(c, "Banner not found")
		}
		return sendInternalServerError(c, "Failed to load banner", err)
	}

	if err := models.DeleteBanner(id); err != nil {
		return sendInternalServerError(c, "Failed to delete banner", err)
	}

	removeImageArtifacts(banner.ImgDesktop)
	removeImageArtifacts(banner.ImgMobile)

	return c.JSON(fiber.Map{"message": "Banner deleted"})
}
