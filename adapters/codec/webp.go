package codec

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"io"

	"golang.org/x/image/webp"

	"github.com/Skryldev/imageio/core"
	apperrors "github.com/Skryldev/imageio/errors"
	"github.com/Skryldev/imageio/utils"
)

// WebPInput decodes WebP images using golang.org/x/image/webp.
// NOTE: golang.org/x/image/webp only supports lossy WebP decoding.
// For lossless or animated WebP, register the vips backend instead.
type WebPInput struct{}

// NewWebPInput returns an initialised WebP reader handle.
func NewWebPInput() *WebPInput { return &WebPInput{} }

func (w *WebPInput) FormatName() core.Format { return core.FormatWebP }

func (w *WebPInput) Decode(ctx context.Context, r io.Reader) (*core.ImageData, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "webp.decode", err)
	}

	// Buffer the reader so we can both decode and retain the original bytes.
	buf, err := utils.DrainReader(ctx, r, 32*1024)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "webp.drain", err)
	}
	defer utils.ReleaseBuffer(buf)

	img, err := webp.Decode(utils.BytesReader(buf.Bytes()))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "webp.decode", err)
	}

	bounds := img.Bounds()
	meta := core.Metadata{
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Format:     core.FormatWebP,
		ColorSpace: colorSpace(img),
		HasAlpha:   hasAlpha(img),
	}

	return &core.ImageData{
		Image:  img,
		Format: core.FormatWebP,
		Meta:   meta,
	}, nil
}

// WebPOutput encodes images for the webp token.  No pure-Go WebP encoder
// exists in the standard library or x/image, so this handle emits JPEG
// bytes; builds that need real WebP output register the vips backend, which
// then owns the format.
type WebPOutput struct {
	DefaultQuality int
}

// NewWebPOutput returns a WebP writer handle with the given default quality.
func NewWebPOutput(defaultQuality int) *WebPOutput {
	if defaultQuality <= 0 {
		defaultQuality = 85
	}
	return &WebPOutput{DefaultQuality: defaultQuality}
}

func (w *WebPOutput) FormatName() core.Format { return core.FormatWebP }

func (w *WebPOutput) Encode(ctx context.Context, img *core.ImageData, opts core.EncodeOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "webp.encode", err)
	}

	src, ok := img.Image.(image.Image)
	if !ok || src == nil {
		return nil, apperrors.New(apperrors.CategoryEncode, "webp.encode", apperrors.ErrEmptyInput)
	}

	quality := opts.Quality
	if quality <= 0 {
		quality = w.DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: quality}); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "webp.encode.shim", err)
	}
	return buf.Bytes(), nil
}

var _ core.ImageInput = (*WebPInput)(nil)
var _ core.ImageOutput = (*WebPOutput)(nil)
