// Package textfit sizes node labels so they fit inside a node.
//
// A label is word-wrapped and given the largest font size between MinSize
// and MaxSize whose wrapped block fits a square of Ratio times the node
// diameter. Labels that cannot fit even at MinSize are wrapped at MinSize
// and allowed to overflow.
package textfit

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	MinSize = 10.0
	MaxSize = 15.0
	Ratio   = 0.75

	lineSpacing = 1.2
)

// Result is a fitted label.
type Result struct {
	Size  float64
	Lines []string
}

// Measurer reports the advance width of s at the given font size.
type Measurer interface {
	Measure(s string, size float64) float64
}

// Fitter fits labels using a Measurer.
type Fitter struct {
	m Measurer
}

// New returns a Fitter backed by m.
func New(m Measurer) *Fitter {
	return &Fitter{m: m}
}

// Fit sizes text for a node of the given diameter.
func (f *Fitter) Fit(text string, diameter float64) Result {
	box := diameter * Ratio
	for size := MaxSize; size >= MinSize; size-- {
		lines := f.wrap(text, size, box)
		height := float64(len(lines)) * size * lineSpacing
		if height > box {
			continue
		}
		fits := true
		for _, l := range lines {
			if f.m.Measure(l, size) > box {
				fits = false
				break
			}
		}
		if fits {
			return Result{Size: size, Lines: lines}
		}
	}
	return Result{Size: MinSize, Lines: f.wrap(text, MinSize, box)}
}

// wrap breaks text on spaces so no line exceeds width unless it is a single word.
func (f *Fitter) wrap(text string, size, width float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		candidate := cur + " " + w
		if f.m.Measure(candidate, size) <= width {
			cur = candidate
			continue
		}
		lines = append(lines, cur)
		cur = w
	}
	return append(lines, cur)
}

// FontMeasurer measures strings with the Go Regular typeface.
type FontMeasurer struct {
	faces map[float64]font.Face
}

// NewFontMeasurer parses the embedded Go Regular font and prepares one face
// per integral size in [MinSize, MaxSize].
func NewFontMeasurer() (*FontMeasurer, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	m := &FontMeasurer{faces: make(map[float64]font.Face)}
	for size := MinSize; size <= MaxSize; size++ {
		face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingNone,
		})
		if err != nil {
			return nil, fmt.Errorf("font face %.0f: %w", size, err)
		}
		m.faces[size] = face
	}
	return m, nil
}

// Measure implements Measurer. Sizes without a prepared face are scaled
// from the MaxSize face.
func (m *FontMeasurer) Measure(s string, size float64) float64 {
	if face, ok := m.faces[size]; ok {
		return toFloat(font.MeasureString(face, s))
	}
	return toFloat(font.MeasureString(m.faces[MaxSize], s)) * size / MaxSize
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// CellMeasurer measures strings in terminal cells, one cell being
// CellWidth diagram units wide at every font size.
type CellMeasurer struct {
	CellWidth float64
}

// Measure implements Measurer.
func (m CellMeasurer) Measure(s string, _ float64) float64 {
	return float64(runewidth.StringWidth(s)) * m.CellWidth
}

// Default returns a Fitter using Go Regular metrics.
func Default() (*Fitter, error) {
	m, err := NewFontMeasurer()
	if err != nil {
		return nil, err
	}
	return New(m), nil
}
