package codec

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"

	"github.com/Skryldev/imageio/core"
	apperrors "github.com/Skryldev/imageio/errors"
)

// PNGInput decodes PNG images using the standard library.
type PNGInput struct{}

// NewPNGInput returns an initialised PNG reader handle.
func NewPNGInput() *PNGInput { return &PNGInput{} }

func (p *PNGInput) FormatName() core.Format { return core.FormatPNG }

func (p *PNGInput) Decode(ctx context.Context, r io.Reader) (*core.ImageData, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "png.decode", err)
	}

	img, err := png.Decode(r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "png.decode", err)
	}

	bounds := img.Bounds()
	meta := core.Metadata{
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Format:     core.FormatPNG,
		ColorSpace: colorSpace(img),
		HasAlpha:   hasAlpha(img),
	}

	return &core.ImageData{
		Image:  img,
		Format: core.FormatPNG,
		Meta:   meta,
	}, nil
}

// PNGOutput encodes PNG images using the standard library.
type PNGOutput struct{}

// NewPNGOutput returns a PNG writer handle.
func NewPNGOutput() *PNGOutput { return &PNGOutput{} }

func (p *PNGOutput) FormatName() core.Format { return core.FormatPNG }

func (p *PNGOutput) Encode(ctx context.Context, img *core.ImageData, opts core.EncodeOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "png.encode", err)
	}

	src, ok := img.Image.(image.Image)
	if !ok || src == nil {
		return nil, apperrors.New(apperrors.CategoryEncode, "png.encode", apperrors.ErrEmptyInput)
	}

	enc := &png.Encoder{}
	if opts.Lossless {
		enc.CompressionLevel = png.BestCompression
	} else {
		enc.CompressionLevel = png.DefaultCompression
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, src); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "png.encode", err)
	}
	return buf.Bytes(), nil
}

var _ core.ImageInput = (*PNGInput)(nil)
var _ core.ImageOutput = (*PNGOutput)(nil)
