package handlers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllkojlhuk/sushikub/filestore"
	"github.com/lllkojlhuk/sushikub/utils"
)

// newImageApp builds a fiber app with the resize middleware over a temp-dir
// file store, mirroring the production wiring.
func newImageApp(t *testing.T) (*fiber.App, string) {
	t.Helper()

	staticDir := t.TempDir()
	fileStore = filestore.NewLocalFileSystemAdapter(staticDir)
	imageCache = filestore.NewImageCache(fileStore)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(ImageResizeMiddleware())
	app.Static("/", staticDir)
	return app, staticDir
}

func writePNG(t *testing.T, dir, name string, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0644))
	return buf.Bytes()
}

func doRequest(t *testing.T, app *fiber.App, url string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, url, nil), -1)
	require.NoError(t, err)
	return resp
}

func TestResizeMiddlewareExplicitParams(t *testing.T) {
	app, staticDir := newImageApp(t)
	writePNG(t, staticDir, "1234567890123_desktop.png", 1920, 1080)

	resp := doRequest(t, app, "/1234567890123_desktop.png?w=120&h=70&q=80&f=webp")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "image/webp", resp.Header.Get("Content-Type"))
	assert.Equal(t, "public, max-age=31536000, immutable", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "120", resp.Header.Get("X-Image-Width"))
	assert.Equal(t, "70", resp.Header.Get("X-Image-Height"))
	assert.Equal(t, "1920x1080", resp.Header.Get("X-Original-Size"))
	assert.Equal(t, "120x70", resp.Header.Get("X-Processed-Size"))

	cachePath := filepath.Join(staticDir, "cache", "1234567890123_desktop_120x70_q80.webp")
	assert.FileExists(t, cachePath)
}

func TestResizeMiddlewareServesFromCache(t *testing.T) {
	app, staticDir := newImageApp(t)
	writePNG(t, staticDir, "1234567890123_roll.png", 400, 300)

	resp := doRequest(t, app, "/1234567890123_roll.png?w=100&h=100")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Replace the cached derivative with a sentinel; a second request must
	// serve it verbatim without re-transcoding.
	cachePath := filepath.Join(staticDir, "cache", "1234567890123_roll_100x100_q85.webp")
	require.NoError(t, os.WriteFile(cachePath, []byte("sentinel"), 0644))

	resp = doRequest(t, app, "/1234567890123_roll.png?w=100&h=100")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("sentinel"), body)
	assert.Equal(t, "image/webp", resp.Header.Get("Content-Type"))
	assert.Equal(t, "public, max-age=31536000, immutable", resp.Header.Get("Cache-Control"))
}

func TestResizeMiddlewareMissingSource(t *testing.T) {
	app, staticDir := newImageApp(t)

	resp := doRequest(t, app, "/nope.jpg?w=100")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	assert.NoDirExists(t, filepath.Join(staticDir, "cache"))
}

func TestResizeMiddlewarePassThroughWithoutParams(t *testing.T) {
	app, staticDir := newImageApp(t)
	original := writePNG(t, staticDir, "logo.png", 64, 64)

	resp := doRequest(t, app, "/logo.png")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, original, body)

	assert.NoDirExists(t, filepath.Join(staticDir, "cache"))
}

func TestResizeMiddlewareProductImageDefaults(t *testing.T) {
	app, staticDir := newImageApp(t)
	writePNG(t, staticDir, "9876543210999.png", 400, 300)

	resp := doRequest(t, app, "/9876543210999.png")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Defaults of 800x600 are clamped to the 400x300 source.
	assert.Equal(t, "image/webp", resp.Header.Get("Content-Type"))
	assert.Equal(t, "400", resp.Header.Get("X-Image-Width"))
	assert.Equal(t, "300", resp.Header.Get("X-Image-Height"))

	cachePath := filepath.Join(staticDir, "cache", "9876543210999_800x600_q85.webp")
	assert.FileExists(t, cachePath)
}

func TestResizeMiddlewareQualityClamp(t *testing.T) {
	app, staticDir := newImageApp(t)
	writePNG(t, staticDir, "1234567890123.png", 200, 200)

	resp := doRequest(t, app, "/1234567890123.png?w=50&q=5")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.FileExists(t, filepath.Join(staticDir, "cache", "1234567890123_50xauto_q10.webp"))
}

func TestResizeMiddlewareCorruptSourceFailsSoft(t *testing.T) {
	app, staticDir := newImageApp(t)
	corrupt := []byte("definitely not a png")
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "broken.png"), corrupt, 0644))

	resp := doRequest(t, app, "/broken.png?w=100")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, corrupt, body)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	assert.NoDirExists(t, filepath.Join(staticDir, "cache"))
}

func TestResolveResizeSpec(t *testing.T) {
	query := func(values map[string]string) func(string) string {
		return func(key string) string { return values[key] }
	}

	t.Run("no params plain asset passes through", func(t *testing.T) {
		_, ok := resolveResizeSpec("/logo.png", query(nil))
		assert.False(t, ok)
	})

	t.Run("product image gets defaults", func(t *testing.T) {
		spec, ok := resolveResizeSpec("/1234567890123.jpg", query(nil))
		require.True(t, ok)
		assert.Equal(t, utils.ResizeSpec{Width: 800, Height: 600, Quality: 85, Format: "webp"}, spec)
	})

	t.Run("explicit params override product defaults", func(t *testing.T) {
		spec, ok := resolveResizeSpec("/1234567890123.jpg", query(map[string]string{"w": "120", "h": "70", "q": "80", "f": "webp"}))
		require.True(t, ok)
		assert.Equal(t, utils.ResizeSpec{Width: 120, Height: 70, Quality: 80, Format: "webp"}, spec)
	})

	t.Run("non-numeric dimensions count as absent", func(t *testing.T) {
		_, ok := resolveResizeSpec("/logo.png", query(map[string]string{"w": "abc", "h": "-3"}))
		assert.False(t, ok)
	})

	t.Run("unknown format falls back to webp", func(t *testing.T) {
		spec, ok := resolveResizeSpec("/logo.png", query(map[string]string{"w": "10", "f": "tiff"}))
		require.True(t, ok)
		assert.Equal(t, "webp", spec.Format)
	})
}
