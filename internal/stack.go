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
)

// A stack of equally sized float32 sample frames decoded from one file.
// Multi-page TIFFs contribute one frame per page, FITS files exactly one.
type ImageStack struct {
	FileName string
	Width    int
	Height   int
	Frames   [][]float32 // each frame holds Width*Height samples
}

// Compatibility switches preserving quirks of the original fex viewer.
// All default to off, which selects the corrected behavior.
type LegacyParams struct {
	TransposedIndex bool // compute intra-frame offsets as row*height+col instead of row*width+col
	TailAveraging   bool // divide frame sums by the number of frames after the first, not the total
	SentinelRange   bool // seed the min/max scan with min=1e12 max=0, mishandling all-negative data
}

// Print legacy compatibility parameters
func (p *LegacyParams) String() string {
	return fmt.Sprintf("transposedIndex %d tailAveraging %d sentinelRange %d",
		btoi(p.TransposedIndex), btoi(p.TailAveraging), btoi(p.SentinelRange))
}

// Helper: convert bool to int
func btoi(b bool) int {
	if b { return 1 }
	return 0
}

// The per-pixel mean of all frames of one stack, with its value range.
type ReducedImage struct {
	FileName string
	Width    int
	Height   int
	Levels   int       // number of frames consumed
	Samples  []float32 // Width*Height samples
	Min      float32
	Max      float32
}

// Reduce collapses a stack into the per-pixel mean of its frames and scans
// the result for its global value range. A single-frame stack passes
// through unchanged. The first frame is used as the accumulator, so the
// stack must not be reused afterwards.
func Reduce(stack *ImageStack, legacy *LegacyParams) (*ReducedImage, error) {
	if stack==nil || len(stack.Frames)==0 {
		return nil, errors.New("empty image stack")
	}
	numPixels:=stack.Width*stack.Height
	samples:=stack.Frames[0]
	if len(samples)!=numPixels {
		return nil, fmt.Errorf("frame holds %d samples, expected %dx%d", len(samples), stack.Width, stack.Height)
	}

	if len(stack.Frames)>1 {
		for i,frame:=range stack.Frames[1:] {
			if len(frame)!=numPixels {
				return nil, fmt.Errorf("frame %d holds %d samples, expected %d", i+1, len(frame), numPixels)
			}
			for j,v:=range frame {
				samples[j]+=v
			}
		}
		divisor:=float32(len(stack.Frames))
		if legacy!=nil && legacy.TailAveraging {
			divisor=float32(len(stack.Frames)-1)
		}
		scale:=1.0/divisor
		for j:=range samples {
			samples[j]*=scale
		}
	}

	min,max:=scanRange(samples, legacy)
	return &ReducedImage{
		FileName: stack.FileName,
		Width:    stack.Width,
		Height:   stack.Height,
		Levels:   len(stack.Frames),
		Samples:  samples,
		Min:      min,
		Max:      max,
	}, nil
}
