package utils

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"

	"github.com/lllkojlhuk/sushikub/utils/files"
)

// ResizeSpec is the resolved target for an image request. Zero Width or
// Height means that dimension is unconstrained.
type ResizeSpec struct {
	Width   int
	Height  int
	Quality int
	Format  string
}

// CacheFileName derives the derived-image cache filename for a source base
// name: {base}_{w|auto}x{h|auto}_q{q}.{format}.
func (s ResizeSpec) CacheFileName(baseName string) string {
	width := "auto"
	if s.Width > 0 {
		width = fmt.Sprintf("%d", s.Width)
	}
	height := "auto"
	if s.Height > 0 {
		height = fmt.Sprintf("%d", s.Height)
	}
	return fmt.Sprintf("%s_%sx%s_q%d.%s", baseName, width, height, s.Quality, s.Format)
}

// ContentType returns the MIME type of the spec's output format.
func (s ResizeSpec) ContentType() string {
	return "image/" + s.Format
}

// TranscodeResult holds an encoded output image plus its dimensions and the
// source's native dimensions.
type TranscodeResult struct {
	Data         []byte
	Width        int
	Height       int
	SourceWidth  int
	SourceHeight int
}

// TranscodeImage decodes src, resizes it according to spec and re-encodes it.
// Both dimensions given means cover fit (centered crop to the exact target);
// a single dimension means inside fit (aspect ratio preserved). The source's
// native resolution is the upper bound: targets larger than the source are
// clamped, never enlarged.
func TranscodeImage(src []byte, spec ResizeSpec) (*TranscodeResult, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	sourceWidth, sourceHeight := bounds.Dx(), bounds.Dy()

	targetWidth, targetHeight := spec.Width, spec.Height
	if targetWidth > sourceWidth {
		targetWidth = sourceWidth
	}
	if targetHeight > sourceHeight {
		targetHeight = sourceHeight
	}

	switch {
	case targetWidth > 0 && targetHeight > 0:
		img = resizeAndCrop(img, targetWidth, targetHeight)
	case targetWidth > 0:
		img = resize.Thumbnail(uint(targetWidth), uint(sourceHeight), img, resize.Lanczos3)
	case targetHeight > 0:
		img = resize.Thumbnail(uint(sourceWidth), uint(targetHeight), img, resize.Lanczos3)
	}

	data, err := files.EncodeImageToBytes(img, spec.Format, spec.Quality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", spec.Format, err)
	}

	out := img.Bounds()
	return &TranscodeResult{
		Data:         data,
		Width:        out.Dx(),
		Height:       out.Dy(),
		SourceWidth:  sourceWidth,
		SourceHeight: sourceHeight,
	}, nil
}

// resizeAndCrop resizes and crops an image to the target dimensions.
func resizeAndCrop(img image.Image, width, height int) image.Image {
	resizedImg := resize.Resize(uint(width), 0, img, resize.Lanczos3)
	if resizedImg.Bounds().Dy() < height {
		resizedImg = resize.Resize(0, uint(height), img, resize.Lanczos3)
	}

	cropX, cropY := calculateCropOffset(resizedImg, width, height)
	return cropImage(resizedImg, cropX, cropY, width, height)
}

// calculateCropOffset calculates the offset for cropping an image.
func calculateCropOffset(img image.Image, targetWidth, targetHeight int) (int, int) {
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	cropX, cropY := (width-targetWidth)/2, (height-targetHeight)/2
	return cropX, cropY
}

// cropImage crops the image to the specified dimensions.
func cropImage(img image.Image, x, y, width, height int) image.Image {
	rect := image.Rect(x, y, x+width, y+height)
	return img.(interface {
		SubImage(r image.Rectangle) image.Image
	}).SubImage(rect)
}

// NormalizeImageFormat maps a requested output format onto a supported
// encoder. Unrecognized values fall back to webp.
func NormalizeImageFormat(format string) string {
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		return "jpeg"
	case "png":
		return "png"
	case "webp", "":
		return "webp"
	default:
		return "webp"
	}
}

// ContentTypeForExt maps a file extension (with or without leading dot) to
// an image MIME type.
func ContentTypeForExt(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
