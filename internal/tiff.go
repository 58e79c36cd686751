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
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"os"

	"golang.org/x/image/tiff"
)

// TIFF tag IDs consulted by the page walker
const (
	tImageWidth      =256
	tImageLength     =257
	tBitsPerSample   =258
	tCompression     =259
	tPhotometric     =262
	tStripOffsets    =273
	tSamplesPerPixel =277
	tStripByteCounts =279
)

// Decode a TIFF file into a stack with one frame per page. The first page
// must be 16-bit grayscale; its samples become frame 0, converted to
// float32. Further pages from the IFD chain are appended when they match
// the first page's dimensions. Pages that cannot be decoded are skipped
// with a log message; a dimension mismatch is a hard error.
func decodeTIFF(path string, legacy *LegacyParams) (*ImageStack, error) {
	buf,err:=os.ReadFile(path)
	if err!=nil { return nil, fmt.Errorf("opening %s: %w", path, err) }

	img,err:=tiff.Decode(bytes.NewReader(buf))
	if err!=nil { return nil, fmt.Errorf("decoding %s: %w", path, err) }
	gray,ok:=img.(*image.Gray16)
	if !ok {
		return nil, fmt.Errorf("%s: %T is not 16-bit grayscale: %w", path, img, ErrUnexpectedPixelFormat)
	}
	width,height:=gray.Rect.Dx(),gray.Rect.Dy()

	stack:=&ImageStack{
		FileName: path,
		Width:    width,
		Height:   height,
		Frames:   [][]float32{remapFrame(gray16ToFloats(gray), width, height, legacy)},
	}

	pages,err:=tiffPages(buf)
	if err!=nil { return nil, fmt.Errorf("%s: %w", path, err) }
	for i,page:=range pages {
		if i==0 { continue } // already decoded above
		raw,w,h,err:=page.readGray16(buf)
		if err!=nil {
			LogPrintf("%s: skipping page %d: %s\n", path, i, err.Error())
			continue
		}
		if w!=width || h!=height {
			return nil, fmt.Errorf("%s: page %d is %dx%d, first page is %dx%d", path, i, w, h, width, height)
		}
		stack.Frames=append(stack.Frames, remapFrame(raw, width, height, legacy))
	}
	LogPrintf("Successfully read %s which has %d levels.\n", path, len(stack.Frames))
	return stack, nil
}

// Convert decoded 16-bit grayscale pixels to a row-major float32 array
func gray16ToFloats(gray *image.Gray16) []float32 {
	width,height:=gray.Rect.Dx(),gray.Rect.Dy()
	raw:=make([]float32, width*height)
	for y:=0; y<height; y++ {
		row:=gray.Pix[y*gray.Stride:]
		for x:=0; x<width; x++ {
			// Gray16 pixels are stored big-endian
			raw[y*width+x]=float32(uint16(row[x*2])<<8 | uint16(row[x*2+1]))
		}
	}
	return raw
}

// One IFD of a TIFF file, with the tag values the page walker needs
type tiffPage struct {
	order binary.ByteOrder
	tags  map[uint16][]uint
}

// Walk the IFD chain of a TIFF file and collect per-page tag values.
// The page payloads are not touched here.
func tiffPages(buf []byte) ([]tiffPage, error) {
	if len(buf)<8 { return nil, errors.New("truncated TIFF header") }
	var order binary.ByteOrder
	switch string(buf[0:2]) {
	case "II":
		order=binary.LittleEndian
	case "MM":
		order=binary.BigEndian
	default:
		return nil, errors.New("invalid TIFF byte order mark")
	}
	if order.Uint16(buf[2:4])!=42 { return nil, errors.New("invalid TIFF magic number") }

	pages:=[]tiffPage{}
	offset:=int(order.Uint32(buf[4:8]))
	for offset!=0 {
		if offset+2>len(buf) { return nil, errors.New("IFD offset out of range") }
		numEntries:=int(order.Uint16(buf[offset:offset+2]))
		end:=offset+2+numEntries*12
		if end+4>len(buf) { return nil, errors.New("IFD runs past end of file") }

		page:=tiffPage{order:order, tags:map[uint16][]uint{}}
		for i:=0; i<numEntries; i++ {
			entry:=buf[offset+2+i*12 : offset+2+i*12+12]
			tag:=order.Uint16(entry[0:2])
			typ:=order.Uint16(entry[2:4])
			count:=order.Uint32(entry[4:8])
			if vals,ok:=entryValues(buf, order, typ, count, entry[8:12]); ok {
				page.tags[tag]=vals
			}
		}
		pages=append(pages, page)
		if len(pages)>65535 { return nil, errors.New("unreasonable number of TIFF pages") }
		offset=int(order.Uint32(buf[end:end+4]))
	}
	return pages, nil
}

// Decode the values of one IFD entry. Only SHORT (3) and LONG (4) types
// are relevant for the tags the walker consults; values larger than four
// bytes live at an offset elsewhere in the file.
func entryValues(buf []byte, order binary.ByteOrder, typ uint16, count uint32, inline []byte) ([]uint, bool) {
	var size int
	switch typ {
	case 3:
		size=2
	case 4:
		size=4
	default:
		return nil, false
	}
	total:=size*int(count)
	data:=inline
	if total>4 {
		off:=int(order.Uint32(inline))
		if off<0 || off+total>len(buf) { return nil, false }
		data=buf[off:off+total]
	}
	vals:=make([]uint, count)
	for i:=range vals {
		if size==2 {
			vals[i]=uint(order.Uint16(data[i*2:]))
		} else {
			vals[i]=uint(order.Uint32(data[i*4:]))
		}
	}
	return vals, true
}

// First value of a tag, or the given default when the tag is absent
func (p *tiffPage) first(tag uint16, def uint) uint {
	if v,ok:=p.tags[tag]; ok && len(v)>0 { return v[0] }
	return def
}

// Read one uncompressed 16-bit grayscale page into a row-major float32
// array. Pages with other layouts report an error and are skipped by the
// caller.
func (p *tiffPage) readGray16(buf []byte) ([]float32, int, int, error) {
	width:=int(p.first(tImageWidth, 0))
	height:=int(p.first(tImageLength, 0))
	if width<=0 || height<=0 {
		return nil,0,0, errors.New("missing image dimensions")
	}
	if p.first(tBitsPerSample, 1)!=16 || p.first(tSamplesPerPixel, 1)!=1 || p.first(tPhotometric, 0)>1 {
		return nil,0,0, ErrUnexpectedPixelFormat
	}
	if p.first(tCompression, 1)!=1 {
		return nil,0,0, errors.New("compressed page")
	}
	offsets:=p.tags[tStripOffsets]
	counts:=p.tags[tStripByteCounts]
	if len(offsets)==0 || len(offsets)!=len(counts) {
		return nil,0,0, errors.New("missing strip layout")
	}

	raw:=make([]float32, 0, width*height)
	for i,off:=range offsets {
		end:=int(off)+int(counts[i])
		if end>len(buf) {
			return nil,0,0, errors.New("strip runs past end of file")
		}
		strip:=buf[off:end]
		for j:=0; j+1<len(strip) && len(raw)<width*height; j+=2 {
			raw=append(raw, float32(p.order.Uint16(strip[j:])))
		}
	}
	if len(raw)<width*height {
		return nil,0,0, errors.New("short pixel data")
	}
	return raw, width, height, nil
}
