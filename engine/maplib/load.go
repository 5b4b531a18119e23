package maplib

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	"gopkg.in/yaml.v3"
)

// heightFile is the on-disk YAML layout of a height grid
type heightFile struct {
	Name    string  `yaml:"name"`
	Heights [][]int `yaml:"heights"`
}

// LoadFile loads a height grid, choosing the decoder by file extension.
// .yaml/.yml files hold a "heights" matrix; anything else is decoded as a
// grayscale image where luminance is elevation.
func LoadFile(path string) (*HeightGrid, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	default:
		return LoadImage(path)
	}
}

// LoadYAML loads a height grid from a YAML file
func LoadYAML(path string) (*HeightGrid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseYAML(data)
}

// ParseYAML decodes a height grid document
func ParseYAML(data []byte) (*HeightGrid, error) {
	var hf heightFile
	if err := yaml.Unmarshal(data, &hf); err != nil {
		return nil, fmt.Errorf("maplib: decode heights: %w", err)
	}
	return FromRows(hf.Heights)
}

// LoadImage loads a heightmap image (PNG, BMP or TIFF). Each pixel becomes
// one cell; image Y is the row and image X the column.
func LoadImage(path string) (*HeightGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("maplib: decode %s: %w", path, err)
	}
	return FromImage(img)
}

// FromImage converts an image to a height grid by gray level
func FromImage(img image.Image) (*HeightGrid, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrBadShape
	}
	g := &HeightGrid{
		rows:    b.Dy(),
		cols:    b.Dx(),
		heights: make([]Height, b.Dx()*b.Dy()),
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			g.heights[(y-b.Min.Y)*g.cols+(x-b.Min.X)] = Height(gray.Y)
		}
	}
	return g, nil
}

// SaveYAML writes the grid in the format LoadYAML reads
func (g *HeightGrid) SaveYAML(path, name string) error {
	hf := heightFile{Name: name, Heights: make([][]int, g.rows)}
	for r := 0; r < g.rows; r++ {
		row := make([]int, g.cols)
		for c := 0; c < g.cols; c++ {
			row[c] = int(g.heights[r*g.cols+c])
		}
		hf.Heights[r] = row
	}
	data, err := yaml.Marshal(&hf)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
