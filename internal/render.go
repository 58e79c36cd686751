// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package internal

import (
	"fmt"
	"image"
	"image/png"
	"io"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Display palettes
const (
	PaletteMono="mono" // grayscale, intensity replicated across R, G and B
	PaletteHeat="heat" // false color, faint blue to bright red
)

// Parameters for rendering reduced images into display buffers
type RenderParams struct {
	Palette string
	Legacy  LegacyParams
}

// Print parameters for rendering
func (p *RenderParams) String() string {
	return fmt.Sprintf("palette %s %s", p.Palette, &p.Legacy)
}

// Validate rendering parameters
func (p *RenderParams) Valid() error {
	if p.Palette!=PaletteMono && p.Palette!=PaletteHeat {
		return fmt.Errorf("unknown palette %q", p.Palette)
	}
	return nil
}

// An 8-bit RGB buffer ready for the display layer. Pix holds
// Width*Height*3 bytes row-major with stride Width*3 and no padding.
type DisplayBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// Render rescales a reduced image into a displayable RGB buffer using a
// linear stretch: displayed = round(sample/max*255), clamped to 0..255.
// Min is reported alongside the image but takes no part in the stretch.
// A zero maximum yields an all-black buffer instead of dividing by zero.
func Render(img *ReducedImage, p *RenderParams) *DisplayBuffer {
	buf:=&DisplayBuffer{
		Width:  img.Width,
		Height: img.Height,
		Pix:    make([]uint8, img.Width*img.Height*3),
	}
	if img.Max==0 {
		LogPrintf("%s: Warning: zero maximum intensity, rendering black\n", img.FileName)
		return buf
	}

	scale:=1.0/img.Max
	for y:=0; y<img.Height; y++ {
		for x:=0; x<img.Width; x++ {
			v:=img.Samples[y*img.Width+x]*scale
			r,g,b:=pixelColor(v, p.Palette)

			// legacy output offsets are transposed just like input ones;
			// out of range offsets on non-square images are dropped
			idx:=y*img.Width+x
			if p.Legacy.TransposedIndex { idx=y*img.Height+x }
			idx*=3
			if idx+2>=len(buf.Pix) { continue }
			buf.Pix[idx  ]=r
			buf.Pix[idx+1]=g
			buf.Pix[idx+2]=b
		}
	}
	return buf
}

// Map a normalized intensity in [0,1] to an RGB color under the given
// palette. Values outside the range are clamped.
func pixelColor(v float32, palette string) (r,g,b uint8) {
	if v<0 { v=0 }
	if v>1 { v=1 }
	if palette==PaletteHeat {
		c:=colorful.Hsv(240.0*(1.0-float64(v)), 1.0, float64(v)).Clamped()
		return c.RGB255()
	}
	c:=uint8(v*255.0+0.5)
	return c,c,c
}

// ToImage copies the buffer into a stdlib RGBA image for PNG encoding
func (b *DisplayBuffer) ToImage() *image.RGBA {
	img:=image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for i:=0; i<b.Width*b.Height; i++ {
		img.Pix[i*4  ]=b.Pix[i*3]
		img.Pix[i*4+1]=b.Pix[i*3+1]
		img.Pix[i*4+2]=b.Pix[i*3+2]
		img.Pix[i*4+3]=0xff
	}
	return img
}

// WritePNG encodes the buffer as PNG into the given writer
func (b *DisplayBuffer) WritePNG(w io.Writer) error {
	return png.Encode(w, b.ToImage())
}
