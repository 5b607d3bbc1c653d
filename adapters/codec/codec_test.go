package codec_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/Skryldev/imageio/adapters/codec"
	"github.com/Skryldev/imageio/core"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 120, G: 180, B: 60, A: 255})
		}
	}
	return img
}

func TestJPEG_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, testImage(40, 30), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	in := codec.NewJPEGInput()
	img, err := in.Decode(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Meta.Width != 40 || img.Meta.Height != 30 {
		t.Errorf("dimensions: got %dx%d, want 40x30", img.Meta.Width, img.Meta.Height)
	}

	out := codec.NewJPEGOutput(85)
	data, err := out.Encode(context.Background(), img, core.EncodeOptions{Quality: 80})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("output is not valid jpeg: %v", err)
	}
}

func TestPNG_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(20, 20)); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	in := codec.NewPNGInput()
	img, err := in.Decode(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	out := codec.NewPNGOutput()
	data, err := out.Encode(context.Background(), img, core.EncodeOptions{Lossless: true})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("output is not valid png: %v", err)
	}
}

func TestEncode_WithoutDecodedImage(t *testing.T) {
	out := codec.NewJPEGOutput(85)
	if _, err := out.Encode(context.Background(), &core.ImageData{}, core.EncodeOptions{}); err == nil {
		t.Fatal("expected an error for missing pixel data")
	}
}

func TestDecode_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := codec.NewPNGInput()
	if _, err := in.Decode(ctx, bytes.NewReader(nil)); err == nil {
		t.Fatal("expected a context error")
	}
}

func TestDescriptors(t *testing.T) {
	descs := codec.Descriptors(85)
	if len(descs) != 3 {
		t.Fatalf("descriptors: got %d, want 3", len(descs))
	}
	for _, d := range descs {
		if d.InputFactory == nil || d.OutputFactory == nil {
			t.Errorf("%s: builtin codecs must support both directions", d.FormatName)
		}
		if in := d.InputFactory(); in.FormatName() != d.FormatName {
			t.Errorf("%s: input handle reports %s", d.FormatName, in.FormatName())
		}
	}
}
