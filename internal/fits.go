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
	"os"

	"github.com/astrogo/fitsio"
)

// Decode a FITS file into a single-frame stack. Pixel data comes from
// HDU 0; when the primary HDU is header-only, the first HDU carrying a
// 2D image is used instead. Only BITPIX -32 (32-bit floating point) data
// is accepted.
func decodeFITS(path string, legacy *LegacyParams) (*ImageStack, error) {
	r,err:=os.Open(path)
	if err!=nil { return nil, fmt.Errorf("opening %s: %w", path, err) }
	defer r.Close()

	f,err:=fitsio.Open(r)
	if err!=nil { return nil, fmt.Errorf("reading %s: %w", path, err) }
	defer f.Close()

	// report the data units present in the file
	for i,hdu:=range f.HDUs() {
		if card:=hdu.Header().Get("EXTNAME"); card!=nil {
			LogPrintf("%s: HDU %d EXTNAME %v\n", path, i, card.Value)
		}
	}

	hdu:=f.HDU(0)
	if len(hdu.Header().Axes())<2 {
		for i:=1; i<len(f.HDUs()); i++ {
			if len(f.HDU(i).Header().Axes())>=2 {
				LogPrintf("%s: primary HDU carries no image, using HDU %d\n", path, i)
				hdu=f.HDU(i)
				break
			}
		}
	}

	img,ok:=hdu.(fitsio.Image)
	if !ok {
		return nil, fmt.Errorf("%s: no image data unit: %w", path, ErrUnexpectedPixelFormat)
	}
	hdr:=img.Header()
	axes:=hdr.Axes()
	if len(axes)<2 {
		return nil, fmt.Errorf("%s: %d-dimensional data unit: %w", path, len(axes), ErrUnexpectedPixelFormat)
	}
	if hdr.Bitpix()!=-32 {
		return nil, fmt.Errorf("%s: BITPIX %d: %w", path, hdr.Bitpix(), ErrUnexpectedPixelFormat)
	}
	width,height:=axes[0],axes[1]
	if width<=0 || height<=0 {
		return nil, fmt.Errorf("%s: invalid dimensions %dx%d", path, width, height)
	}

	numPixels:=1
	for _,n:=range axes {
		numPixels*=n
	}
	if numPixels<width*height {
		return nil, fmt.Errorf("%s: data unit holds %d samples, expected %dx%d", path, numPixels, width, height)
	}
	data:=make([]float32, numPixels)
	if err:=img.Read(&data); err!=nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	frame:=remapFrame(data[:width*height], width, height, legacy)
	return &ImageStack{
		FileName: path,
		Width:    width,
		Height:   height,
		Frames:   [][]float32{frame},
	}, nil
}
