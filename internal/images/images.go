// Package images copies post assets into the output tree, shrinking raster
// images that exceed the configured width, and generates manifest icons and
// the bio avatar.
package images

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// Result describes one processed asset.
type Result struct {
	Source  string
	Dest    string
	Width   int
	Height  int
	Resized bool
}

// Processor shrinks raster images wider than MaxWidth and copies everything else.
type Processor struct {
	MaxWidth int
	Quality  int
}

// NewProcessor creates a processor. maxWidth <= 0 disables resizing.
func NewProcessor(maxWidth, quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	return &Processor{MaxWidth: maxWidth, Quality: quality}
}

// Process writes src to dst, resizing when src is a raster image wider than MaxWidth.
// The source format is preserved.
func (p *Processor) Process(src, dst string) (Result, error) {
	res := Result{Source: src, Dest: dst}

	format := rasterFormat(src)
	if format == "" || p.MaxWidth <= 0 {
		return res, CopyFile(src, dst)
	}

	data, err := os.ReadFile(filepath.Clean(src))
	if err != nil {
		return res, errors.FileSystemError("failed to read image").WithCause(err).WithContext("path", src).Build()
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		// Not decodable as its extension claims; publish it unchanged.
		return res, writeFile(dst, data)
	}
	res.Width, res.Height = cfg.Width, cfg.Height
	if cfg.Width <= p.MaxWidth || format == "gif" {
		return res, writeFile(dst, data)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return res, errors.RenderError("failed to decode image").WithCause(err).WithContext("path", src).Build()
	}

	newH := cfg.Height * p.MaxWidth / cfg.Width
	scaled := Resize(img, p.MaxWidth, newH)

	var buf bytes.Buffer
	if err := encode(&buf, scaled, format, p.Quality); err != nil {
		return res, errors.RenderError("failed to encode image").WithCause(err).WithContext("path", src).Build()
	}
	res.Width, res.Height, res.Resized = p.MaxWidth, newH, true
	return res, writeFile(dst, buf.Bytes())
}

// Resize scales img to exactly w x h using Catmull-Rom resampling.
func Resize(img image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// IsImage reports whether name has a raster image extension.
func IsImage(name string) bool {
	return rasterFormat(name) != ""
}

func rasterFormat(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".gif":
		return "gif"
	}
	return ""
}

func encode(w io.Writer, img image.Image, format string, quality int) error {
	switch format {
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case "gif":
		return gif.Encode(w, img, nil)
	default:
		return png.Encode(w, img)
	}
}

// CopyFile copies src to dst, creating parent directories.
func CopyFile(src, dst string) error {
	data, err := os.ReadFile(filepath.Clean(src))
	if err != nil {
		return errors.FileSystemError("failed to read asset").WithCause(err).WithContext("path", src).Build()
	}
	return writeFile(dst, data)
}

func writeFile(dst string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.FileSystemError("failed to create asset directory").WithCause(err).WithContext("path", dst).Build()
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return errors.FileSystemError("failed to write asset").WithCause(err).WithContext("path", dst).Build()
	}
	return nil
}
