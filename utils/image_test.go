package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngBytes encodes a solid-color test image of the given size.
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestTranscodeImageCoverFit(t *testing.T) {
	src := pngBytes(t, 1920, 1080)

	result, err := TranscodeImage(src, ResizeSpec{Width: 120, Height: 70, Quality: 80, Format: "webp"})
	require.NoError(t, err)

	assert.Equal(t, 120, result.Width)
	assert.Equal(t, 70, result.Height)
	assert.Equal(t, 1920, result.SourceWidth)
	assert.Equal(t, 1080, result.SourceHeight)
	assert.NotEmpty(t, result.Data)
}

func TestTranscodeImageInsideFitWidthOnly(t *testing.T) {
	src := pngBytes(t, 800, 400)

	result, err := TranscodeImage(src, ResizeSpec{Width: 200, Quality: 85, Format: "jpeg"})
	require.NoError(t, err)

	assert.Equal(t, 200, result.Width)
	assert.Equal(t, 100, result.Height) // aspect ratio preserved
}

func TestTranscodeImageInsideFitHeightOnly(t *testing.T) {
	src := pngBytes(t, 800, 400)

	result, err := TranscodeImage(src, ResizeSpec{Height: 100, Quality: 85, Format: "png"})
	require.NoError(t, err)

	assert.Equal(t, 200, result.Width)
	assert.Equal(t, 100, result.Height)
}

func TestTranscodeImageNeverEnlarges(t *testing.T) {
	src := pngBytes(t, 100, 50)

	tests := []struct {
		name string
		spec ResizeSpec
	}{
		{"both larger", ResizeSpec{Width: 400, Height: 300, Quality: 85, Format: "webp"}},
		{"width larger", ResizeSpec{Width: 1000, Quality: 85, Format: "webp"}},
		{"height larger", ResizeSpec{Height: 900, Quality: 85, Format: "webp"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := TranscodeImage(src, tt.spec)
			require.NoError(t, err)
			assert.LessOrEqual(t, result.Width, 100)
			assert.LessOrEqual(t, result.Height, 50)
		})
	}
}

func TestTranscodeImageCorruptSource(t *testing.T) {
	_, err := TranscodeImage([]byte("not an image"), ResizeSpec{Width: 100, Quality: 85, Format: "webp"})
	assert.Error(t, err)
}

func TestCacheFileName(t *testing.T) {
	tests := []struct {
		spec     ResizeSpec
		expected string
	}{
		{ResizeSpec{Width: 120, Height: 70, Quality: 80, Format: "webp"}, "1234567890123_desktop_120x70_q80.webp"},
		{ResizeSpec{Width: 800, Quality: 85, Format: "jpeg"}, "1234567890123_desktop_800xauto_q85.jpeg"},
		{ResizeSpec{Height: 600, Quality: 10, Format: "png"}, "1234567890123_desktop_autox600_q10.png"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.spec.CacheFileName("1234567890123_desktop"))
		})
	}
}

// Cache filenames must decode back into the exact spec that produced them.
func TestCacheFileNameRoundTrip(t *testing.T) {
	pattern := regexp.MustCompile(`^(.+)_(\d+|auto)x(\d+|auto)_q(\d+)\.(\w+)$`)

	specs := []ResizeSpec{
		{Width: 120, Height: 70, Quality: 80, Format: "webp"},
		{Width: 800, Height: 600, Quality: 85, Format: "webp"},
		{Width: 33, Quality: 100, Format: "png"},
		{Height: 7, Quality: 10, Format: "jpeg"},
	}

	for _, spec := range specs {
		name := spec.CacheFileName("asset")
		m := pattern.FindStringSubmatch(name)
		require.NotNil(t, m, "filename %q must match key pattern", name)
		assert.Equal(t, "asset", m[1])

		decoded := ResizeSpec{Format: m[5]}
		if m[2] != "auto" {
			decoded.Width, _ = strconv.Atoi(m[2])
		}
		if m[3] != "auto" {
			decoded.Height, _ = strconv.Atoi(m[3])
		}
		decoded.Quality, _ = strconv.Atoi(m[4])
		assert.Equal(t, spec, decoded)
	}
}

func TestNormalizeImageFormat(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"webp", "webp"},
		{"jpeg", "jpeg"},
		{"jpg", "jpeg"},
		{"png", "png"},
		{"", "webp"},
		{"bmp", "webp"},
		{"TIFF", "webp"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.in), func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeImageFormat(tt.in))
		})
	}
}

func TestContentTypeForExt(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentTypeForExt(".jpg"))
	assert.Equal(t, "image/jpeg", ContentTypeForExt("jpeg"))
	assert.Equal(t, "image/webp", ContentTypeForExt(".webp"))
	assert.Equal(t, "image/gif", ContentTypeForExt(".gif"))
	assert.Equal(t, "application/octet-stream", ContentTypeForExt(".pdf"))
}
