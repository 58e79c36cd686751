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
	"bytes"
	"image/png"
	"testing"
)

func monoParams() *RenderParams {
	return &RenderParams{Palette:PaletteMono}
}

// Divide-by-max stretch with byte replication across all three channels
func TestRenderMono(t *testing.T) {
	img:=&ReducedImage{Width:2, Height:2, Samples:[]float32{0,100,200,300}, Min:0, Max:300}
	buf:=Render(img, monoParams())

	expected:=[]uint8{0,85,170,255}
	if len(buf.Pix)!=12 {
		t.Fatalf("Expected 12 bytes, got %d", len(buf.Pix))
	}
	for i,e:=range expected {
		for c:=0; c<3; c++ {
			if buf.Pix[i*3+c]!=e {
				t.Errorf("Expected pixel %d channel %d = %d, got %d", i, c, e, buf.Pix[i*3+c])
			}
		}
	}
}

// A zero maximum must yield an all-black buffer, not NaN garbage
func TestRenderZeroMax(t *testing.T) {
	img:=&ReducedImage{Width:2, Height:2, Samples:[]float32{0,0,0,0}, Min:0, Max:0}
	buf:=Render(img, monoParams())
	for i,v:=range buf.Pix {
		if v!=0 {
			t.Errorf("Expected all-zero buffer, got %d at %d", v, i)
		}
	}
}

// A uniform image at its own maximum maps every pixel to 255
func TestRenderUniformMax(t *testing.T) {
	img:=&ReducedImage{Width:3, Height:1, Samples:[]float32{510,510,510}, Min:510, Max:510}
	buf:=Render(img, monoParams())
	for i,v:=range buf.Pix {
		if v!=255 {
			t.Errorf("Expected 255 everywhere, got %d at %d", v, i)
		}
	}
}

// Samples below zero clamp to 0 rather than wrapping
func TestRenderClampsNegative(t *testing.T) {
	img:=&ReducedImage{Width:2, Height:1, Samples:[]float32{-50,100}, Min:-50, Max:100}
	buf:=Render(img, monoParams())
	if buf.Pix[0]!=0 {
		t.Errorf("Expected negative sample to clamp to 0, got %d", buf.Pix[0])
	}
	if buf.Pix[3]!=255 {
		t.Errorf("Expected maximum sample to map to 255, got %d", buf.Pix[3])
	}
}

// Transposed output indexing on a non-square image pins the exact byte
// layout: destination offsets are row*height+col, colliding offsets are
// overwritten and trailing bytes stay zero
func TestRenderTransposedIndex(t *testing.T) {
	img:=&ReducedImage{Width:3, Height:2, Samples:[]float32{0,51,102,153,204,255}, Min:0, Max:255}
	p:=&RenderParams{Palette:PaletteMono, Legacy:LegacyParams{TransposedIndex:true}}
	buf:=Render(img, p)

	expected:=[]uint8{0,51,153,204,255,0}
	for i,e:=range expected {
		if buf.Pix[i*3]!=e {
			t.Errorf("Expected pixel %d = %d, got %d", i, e, buf.Pix[i*3])
		}
	}
}

// The heat palette maps intensity to color: black at zero, non-gray in
// between, red at full intensity
func TestRenderHeatPalette(t *testing.T) {
	r,g,b:=pixelColor(0, PaletteHeat)
	if r!=0 || g!=0 || b!=0 {
		t.Errorf("Expected black at zero intensity, got %d %d %d", r, g, b)
	}
	r,g,b=pixelColor(0.5, PaletteHeat)
	if r==g && g==b {
		t.Errorf("Expected colored midtone, got gray %d %d %d", r, g, b)
	}
	r,g,b=pixelColor(1, PaletteHeat)
	if r!=255 || g!=0 || b!=0 {
		t.Errorf("Expected pure red at full intensity, got %d %d %d", r, g, b)
	}
}

func TestRenderParamsValid(t *testing.T) {
	if err:=monoParams().Valid(); err!=nil {
		t.Errorf("Expected mono palette to validate, got %s", err)
	}
	p:=&RenderParams{Palette:"sepia"}
	if err:=p.Valid(); err==nil {
		t.Errorf("Expected unknown palette to fail validation")
	}
}

// PNG round trip preserves dimensions and grayscale pixel values
func TestWritePNG(t *testing.T) {
	img:=&ReducedImage{Width:2, Height:2, Samples:[]float32{0,100,200,300}, Min:0, Max:300}
	buf:=Render(img, monoParams())

	b:=bytes.Buffer{}
	if err:=buf.WritePNG(&b); err!=nil {
		t.Fatalf("WritePNG failed: %s", err)
	}
	decoded,err:=png.Decode(&b)
	if err!=nil { t.Fatalf("Decoding PNG failed: %s", err) }
	bounds:=decoded.Bounds()
	if bounds.Dx()!=2 || bounds.Dy()!=2 {
		t.Errorf("Expected 2x2 PNG, got %dx%d", bounds.Dx(), bounds.Dy())
	}
	r,g,b2,_:=decoded.At(1, 1).RGBA()
	if r>>8!=255 || g>>8!=255 || b2>>8!=255 {
		t.Errorf("Expected white pixel at (1,1), got %d %d %d", r>>8, g>>8, b2>>8)
	}
}
