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
	"testing"
)

func uniformStack(numFrames, width, height int, value float32) *ImageStack {
	frames:=make([][]float32, numFrames)
	for i:=range frames {
		frame:=make([]float32, width*height)
		for j:=range frame { frame[j]=value }
		frames[i]=frame
	}
	return &ImageStack{FileName:"test", Width:width, Height:height, Frames:frames}
}

// A single-frame stack must reduce to exactly that frame
func TestReduceSingleFrame(t *testing.T) {
	stack:=&ImageStack{Width:2, Height:2, Frames:[][]float32{{0,100,200,300}}}
	img,err:=Reduce(stack, &LegacyParams{})
	if err!=nil { t.Fatalf("Reduce failed: %s", err) }

	expected:=[]float32{0,100,200,300}
	for i,v:=range img.Samples {
		if v!=expected[i] {
			t.Errorf("Expected sample[%d]=%g, got %g", i, expected[i], v)
		}
	}
	if img.Min!=0 || img.Max!=300 {
		t.Errorf("Expected range [0,300], got [%g,%g]", img.Min, img.Max)
	}
	if img.Levels!=1 {
		t.Errorf("Expected 1 level, got %d", img.Levels)
	}
}

// Averaging identical frames must preserve the value under the corrected
// accounting rule
func TestReduceUniformFrames(t *testing.T) {
	img,err:=Reduce(uniformStack(3, 4, 4, 7), &LegacyParams{})
	if err!=nil { t.Fatalf("Reduce failed: %s", err) }
	for i,v:=range img.Samples {
		if v!=7 {
			t.Errorf("Expected sample[%d]=7, got %g", i, v)
		}
	}
	if img.Min!=7 || img.Max!=7 {
		t.Errorf("Expected range [7,7], got [%g,%g]", img.Min, img.Max)
	}
}

// Tail averaging divides by the number of frames after the first, so two
// identical frames of value v reduce to 2v
func TestReduceTailAveraging(t *testing.T) {
	img,err:=Reduce(uniformStack(2, 2, 2, 7), &LegacyParams{TailAveraging:true})
	if err!=nil { t.Fatalf("Reduce failed: %s", err) }
	for i,v:=range img.Samples {
		if v!=14 {
			t.Errorf("Expected sample[%d]=14, got %g", i, v)
		}
	}
}

// Every reduced sample must lie within the reported range
func TestReduceRangeInvariant(t *testing.T) {
	stack:=&ImageStack{Width:3, Height:2, Frames:[][]float32{
		{5,-3,12,0,7,2},
		{1,9,-6,4,8,3},
	}}
	img,err:=Reduce(stack, &LegacyParams{})
	if err!=nil { t.Fatalf("Reduce failed: %s", err) }
	for i,v:=range img.Samples {
		if v<img.Min || v>img.Max {
			t.Errorf("Sample[%d]=%g outside range [%g,%g]", i, v, img.Min, img.Max)
		}
	}
}

func TestReduceEmptyStack(t *testing.T) {
	if _,err:=Reduce(&ImageStack{Width:2, Height:2}, &LegacyParams{}); err==nil {
		t.Errorf("Expected error for empty stack")
	}
	if _,err:=Reduce(nil, &LegacyParams{}); err==nil {
		t.Errorf("Expected error for nil stack")
	}
}

func TestReduceMismatchedFrames(t *testing.T) {
	stack:=&ImageStack{Width:2, Height:2, Frames:[][]float32{
		{1,2,3,4},
		{1,2,3},
	}}
	if _,err:=Reduce(stack, &LegacyParams{}); err==nil {
		t.Errorf("Expected error for mismatched frame sizes")
	}
}

// Transposed indexing remaps row-major offsets as row*height+col, dropping
// offsets past the buffer on non-square images
func TestRemapFrameTransposed(t *testing.T) {
	raw:=[]float32{1,2,3,4,5,6}
	frame:=remapFrame(raw, 3, 2, &LegacyParams{TransposedIndex:true})
	expected:=[]float32{1,2,3,3,4,5}
	for i,v:=range frame {
		if v!=expected[i] {
			t.Errorf("Expected frame[%d]=%g, got %g", i, expected[i], v)
		}
	}
}

// Without the policy the frame passes through untouched
func TestRemapFrameRowMajor(t *testing.T) {
	raw:=[]float32{1,2,3,4,5,6}
	frame:=remapFrame(raw, 3, 2, &LegacyParams{})
	for i,v:=range frame {
		if v!=raw[i] {
			t.Errorf("Expected frame[%d]=%g, got %g", i, raw[i], v)
		}
	}
}
