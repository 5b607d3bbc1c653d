package utils_test

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/Skryldev/imageio/utils"
)

func TestDetectFormat(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	var jbuf bytes.Buffer
	if err := jpeg.Encode(&jbuf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	if got := utils.DetectFormat(jbuf.Bytes()); got != "jpeg" {
		t.Errorf("jpeg: got %q", got)
	}

	var pbuf bytes.Buffer
	if err := png.Encode(&pbuf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if got := utils.DetectFormat(pbuf.Bytes()); got != "png" {
		t.Errorf("png: got %q", got)
	}

	if got := utils.DetectFormat([]byte("RIFFxxxxWEBPVP8 ")); got != "webp" {
		t.Errorf("webp: got %q", got)
	}
	if got := utils.DetectFormat([]byte{0x00}); got != "unknown" {
		t.Errorf("short input: got %q", got)
	}
}

func TestDrainReader(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 100*1024)
	buf, err := utils.DrainReader(context.Background(), bytes.NewReader(payload), 4096)
	if err != nil {
		t.Fatalf("DrainReader: %v", err)
	}
	defer utils.ReleaseBuffer(buf)
	if !bytes.Equal(buf.Bytes(), payload) {
		t.Error("drained bytes differ from input")
	}
}

func TestDrainReaderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := utils.DrainReader(ctx, bytes.NewReader([]byte("abc")), 8); err == nil {
		t.Fatal("expected context error")
	}
}
