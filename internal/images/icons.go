package images

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// Icon is a web app manifest icon entry.
type Icon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

// IconPath is the output path of the square icon of the given size, relative to the site root.
func IconPath(size int) string {
	return fmt.Sprintf("icons/icon-%dx%d.png", size, size)
}

// GenerateIcons writes one square PNG per size under outDir/icons. Icon sources
// are relative to the site root and prefixed with pathPrefix.
func GenerateIcons(src, outDir, pathPrefix string, sizes []int) ([]Icon, error) {
	img, err := decodeFile(src)
	if err != nil {
		return nil, err
	}
	square := cropSquare(img)

	icons := make([]Icon, 0, len(sizes))
	for _, size := range sizes {
		rel := IconPath(size)
		if err := writePNG(filepath.Join(outDir, filepath.FromSlash(rel)), Resize(square, size, size)); err != nil {
			return nil, err
		}
		icons = append(icons, Icon{
			Src:   pathPrefix + "/" + rel,
			Sizes: fmt.Sprintf("%dx%d", size, size),
			Type:  "image/png",
		})
	}
	return icons, nil
}

// Avatar center-crops src to a square and writes it to dst as a size x size PNG.
func Avatar(src, dst string, size int) error {
	img, err := decodeFile(src)
	if err != nil {
		return err
	}
	return writePNG(dst, Resize(cropSquare(img), size, size))
}

func decodeFile(src string) (image.Image, error) {
	data, err := os.ReadFile(filepath.Clean(src))
	if err != nil {
		return nil, errors.FileSystemError("failed to read image").WithCause(err).WithContext("path", src).Build()
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.RenderError("failed to decode image").WithCause(err).WithContext("path", src).Build()
	}
	return img, nil
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func cropSquare(img image.Image) image.Image {
	b := img.Bounds()
	side := min(b.Dx(), b.Dy())
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	r := image.Rect(x0, y0, x0+side, y0+side)
	if si, ok := img.(subImager); ok {
		return si.SubImage(r)
	}
	return img
}

func writePNG(dst string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return errors.RenderError("failed to encode png").WithCause(err).WithContext("path", dst).Build()
	}
	return writeFile(dst, buf.Bytes())
}
