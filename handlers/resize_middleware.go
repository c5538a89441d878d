package handlers

import (
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/lllkojlhuk/sushikub/utils"
)

const (
	defaultQuality = 85
	minQuality     = 10
	maxQuality     = 100

	// Defaults applied to product images requested without explicit
	// resize parameters.
	productDefaultWidth  = 800
	productDefaultHeight = 600

	immutableCacheControl = "public, max-age=31536000, immutable"
)

// Product image filenames carry a millisecond timestamp or similar long
// digit run; such images get default optimization even without parameters.
var productImagePattern = regexp.MustCompile(`\d{10,}`)

var resizableExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// resolveResizeSpec decides whether a request should be transcoded and with
// what parameters. ok is false when the request must pass through untouched.
func resolveResizeSpec(requestPath string, query func(string) string) (utils.ResizeSpec, bool) {
	width := parseDimension(query("w"))
	height := parseDimension(query("h"))

	hasResizeParams := width > 0 || height > 0
	isProductImage := productImagePattern.MatchString(requestPath)

	if !hasResizeParams && !isProductImage {
		return utils.ResizeSpec{}, false
	}

	spec := utils.ResizeSpec{
		Width:   width,
		Height:  height,
		Quality: parseQuality(query("q")),
		Format:  utils.NormalizeImageFormat(query("f")),
	}

	if !hasResizeParams {
		spec.Width = productDefaultWidth
		spec.Height = productDefaultHeight
		spec.Quality = defaultQuality
		spec.Format = "webp"
	}

	return spec, true
}

// parseDimension parses a width/height parameter. Non-numeric or
// non-positive values count as absent.
func parseDimension(raw string) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0
	}
	return value
}

// parseQuality parses the q parameter, defaulting to 85 and clamping to
// [10, 100].
func parseQuality(raw string) int {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultQuality
	}
	if value < minQuality {
		return minQuality
	}
	if value > maxQuality {
		return maxQuality
	}
	return value
}

// ImageResizeMiddleware serves resized renditions of static images. It sits
// in front of the static file handler: requests it does not recognize fall
// through with c.Next().
func ImageResizeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet {
			return c.Next()
		}

		requestPath := c.Path()
		ext := strings.ToLower(path.Ext(requestPath))
		if !resizableExtensions[ext] {
			return c.Next()
		}

		spec, ok := resolveResizeSpec(requestPath, func(key string) string { return c.Query(key) })
		if !ok {
			return c.Next()
		}

		sourcePath := strings.TrimPrefix(path.Clean(requestPath), "/")
		if sourcePath == "" || strings.HasPrefix(sourcePath, "..") {
			return c.Next()
		}

		exists, err := fileStore.Exists(sourcePath)
		if err != nil {
			return sendInternalServerError(c, "Failed to read image", err)
		}
		if !exists {
			return sendNotFoundError(c, "Image not found")
		}

		sourceDir := path.Dir(sourcePath)
		if sourceDir == "." {
			sourceDir = ""
		}
		baseName := strings.TrimSuffix(path.Base(sourcePath), ext)
		cacheName := spec.CacheFileName(baseName)

		if data, hit, err := imageCache.Get(sourceDir, cacheName); err == nil && hit {
			imageCacheHits.Inc()
			c.Set(fiber.HeaderContentType, spec.ContentType())
			c.Set(fiber.HeaderCacheControl, immutableCacheControl)
			return c.Send(data)
		} else if err != nil {
			log.Warnf("Cache read failed for %s: %v", cacheName, err)
		}

		imageCacheMisses.Inc()

		source, err := fileStore.Load(sourcePath)
		if err != nil {
			return sendInternalServerError(c, "Failed to read image", err)
		}

		start := time.Now()
		result, err := utils.TranscodeImage(source, spec)
		if err != nil {
			// Serve the untouched original rather than failing the request.
			log.Errorf("Failed to transcode %s: %v", sourcePath, err)
			c.Set(fiber.HeaderContentType, utils.ContentTypeForExt(ext))
			return c.Send(source)
		}
		imageTranscodeDuration.Observe(time.Since(start).Seconds())

		if err := imageCache.Put(sourceDir, cacheName, result.Data); err != nil {
			log.Errorf("Cache write error for %s: %v", cacheName, err)
		}

		c.Set(fiber.HeaderContentType, spec.ContentType())
		c.Set(fiber.HeaderCacheControl, immutableCacheControl)
		c.Set(fiber.HeaderContentLength, strconv.Itoa(len(result.Data)))
		c.Set("X-Image-Width", strconv.Itoa(result.Width))
		c.Set("X-Image-Height", strconv.Itoa(result.Height))
		c.Set("X-Original-Size", strconv.Itoa(result.SourceWidth)+"x"+strconv.Itoa(result.SourceHeight))
		c.Set("X-Processed-Size", strconv.Itoa(result.Width)+"x"+strconv.Itoa(result.Height))
		return c.Send(result.Data)
	}
}
