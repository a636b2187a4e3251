// Package mapimage loads raster map images from disk.
package mapimage

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/philipparndt/gomap/pkg/geometry"
)

// Map is a decoded map image
type Map struct {
	Path   string
	Format string
	Image  image.Image
	Size   geometry.Size
}

// Info describes a map file without decoding its pixels
type Info struct {
	Path      string
	Format    string
	Width     int
	Height    int
	FileBytes int64
}

// Size returns the image dimensions as a geometry size
func (i Info) Size() geometry.Size {
	return geometry.NewSize(float64(i.Width), float64(i.Height))
}

// SupportedExtensions lists the file extensions the loader can decode
var SupportedExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// IsSupported reports whether the file extension names a decodable format
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load reads and decodes a map image
func Load(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open map: %w", err)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode map %s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Decode decodes a map image from a reader
func Decode(r io.Reader) (*Map, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, errors.New("image has no pixels")
	}
	return &Map{
		Format: format,
		Image:  img,
		Size:   geometry.NewSize(float64(b.Dx()), float64(b.Dy())),
	}, nil
}

// ReadInfo reads the format and dimensions of a map file from its header
func ReadInfo(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to open map: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Info{}, fmt.Errorf("failed to read map header %s: %w", path, err)
	}

	info := Info{Path: path, Format: format, Width: cfg.Width, Height: cfg.Height}
	if st, err := f.Stat(); err == nil {
		info.FileBytes = st.Size()
	}
	return info, nil
}
