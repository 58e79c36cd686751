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
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// The file extension matches no known image format
	ErrUnsupportedFormat=errors.New("unsupported file format")

	// The file decoded to a sample type other than 16-bit unsigned
	// grayscale (TIFF) or 32-bit floating point (FITS)
	ErrUnexpectedPixelFormat=errors.New("unexpected pixel format")
)

// Decode reads the file at the given path into a stack of float32 frames,
// dispatching on the file extension. I/O problems, unknown extensions and
// unknown pixel encodings surface as errors rather than terminating, so
// callers can skip a bad file and move on to the next one.
func Decode(path string, legacy *LegacyParams) (*ImageStack, error) {
	ext:=strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "fits":
		return decodeFITS(path, legacy)
	case "tif", "tiff":
		return decodeTIFF(path, legacy)
	}
	return nil, fmt.Errorf("%s: extension %q: %w", path, ext, ErrUnsupportedFormat)
}

// Apply the configured indexing policy to a row-major sample array.
// With TransposedIndex set, source offsets are computed as row*height+col;
// offsets running past the buffer on non-square images are dropped.
func remapFrame(raw []float32, width, height int, legacy *LegacyParams) []float32 {
	if legacy==nil || !legacy.TransposedIndex { return raw }
	frame:=make([]float32, width*height)
	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			off:=y*height+x
			if off>=len(raw) { continue }
			frame[y*width+x]=raw[off]
		}
	}
	return frame
}
