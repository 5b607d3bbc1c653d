// Package codec provides the built-in reader/writer handles, registered as
// static modules through the same capability descriptors dynamically loaded
// plugins use.
package codec

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"io"

	"github.com/Skryldev/imageio/core"
	apperrors "github.com/Skryldev/imageio/errors"
)

// JPEGInput decodes JPEG images using the standard library.
type JPEGInput struct{}

// NewJPEGInput returns an initialised JPEG reader handle.
func NewJPEGInput() *JPEGInput { return &JPEGInput{} }

func (j *JPEGInput) FormatName() core.Format { return core.FormatJPEG }

func (j *JPEGInput) Decode(ctx context.Context, r io.Reader) (*core.ImageData, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "jpeg.decode", err)
	}

	img, err := jpeg.Decode(r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "jpeg.decode", err)
	}

	bounds := img.Bounds()
	meta := core.Metadata{
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Format:     core.FormatJPEG,
		ColorSpace: colorSpace(img),
		HasAlpha:   hasAlpha(img),
	}

	return &core.ImageData{
		Image:  img,
		Format: core.FormatJPEG,
		Meta:   meta,
	}, nil
}

// JPEGOutput encodes JPEG images using the standard library.
type JPEGOutput struct {
	DefaultQuality int
}

// NewJPEGOutput returns a JPEG writer handle with the given default quality.
func NewJPEGOutput(defaultQuality int) *JPEGOutput {
	if defaultQuality <= 0 {
		defaultQuality = 85
	}
	return &JPEGOutput{DefaultQuality: defaultQuality}
}

func (j *JPEGOutput) FormatName() core.Format { return core.FormatJPEG }

func (j *JPEGOutput) Encode(ctx context.Context, img *core.ImageData, opts core.EncodeOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "jpeg.encode", err)
	}

	src, ok := img.Image.(image.Image)
	if !ok || src == nil {
		return nil, apperrors.New(apperrors.CategoryEncode, "jpeg.encode", apperrors.ErrEmptyInput)
	}

	quality := opts.Quality
	if quality <= 0 {
		quality = j.DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: quality}); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "jpeg.encode", err)
	}
	return buf.Bytes(), nil
}

// colorSpace returns the colour space of an image.Image.
func colorSpace(img image.Image) core.ColorSpace {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return core.ColorSpaceGray
	case *image.RGBA, *image.NRGBA, *image.RGBA64:
		return core.ColorSpaceRGBA
	case *image.CMYK:
		return core.ColorSpaceCMYK
	}
	return core.ColorSpaceRGB
}

func hasAlpha(img image.Image) bool {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		return true
	}
	return false
}

var _ core.ImageInput = (*JPEGInput)(nil)
var _ core.ImageOutput = (*JPEGOutput)(nil)
