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
	"math"
	"sort"

	"github.com/valyala/fastrand"
	"gonum.org/v1/gonum/stat"
)

// Scan for the global minimum and maximum sample value in a single pass.
// With SentinelRange set, the running minimum is seeded with 1e12 and the
// running maximum with 0, so all-negative data reports a maximum of 0.
// Otherwise both are seeded from the first sample.
func scanRange(data []float32, legacy *LegacyParams) (min,max float32) {
	if len(data)==0 { return 0,0 }
	if legacy!=nil && legacy.SentinelRange {
		min,max=1e12,0
	} else {
		min,max=data[0],data[0]
	}
	for _,v:=range data {
		if v>max { max=v }
		if v<min { min=v }
	}
	return min,max
}

// Extended statistics of a sample array, for the stats command and the
// viewer info panel
type ExtendedStats struct {
	Min    float32
	Max    float32
	Mean   float32
	Median float32
	StdDev float32
}

// Print extended statistics
func (s *ExtendedStats) String() string {
	return fmt.Sprintf("Min %.4g Max %.4g Mean %.4g Median %.4g StdDev %.4g",
		s.Min, s.Max, s.Mean, s.Median, s.StdDev)
}

// Calculate extended statistics over the given samples
func CalcExtendedStats(data []float32) *ExtendedStats {
	if len(data)==0 { return &ExtendedStats{} }
	d:=make([]float64, len(data))
	for i,v:=range data {
		d[i]=float64(v)
	}
	mean:=stat.Mean(d, nil)
	stdDev:=stat.StdDev(d, nil)
	if len(d)<2 { stdDev=0 }
	sort.Float64s(d)
	median:=stat.Quantile(0.5, stat.Empirical, d, nil)
	return &ExtendedStats{
		Min:    float32(d[0]),
		Max:    float32(d[len(d)-1]),
		Mean:   float32(mean),
		Median: float32(median),
		StdDev: float32(stdDev),
	}
}

// Estimate gaussian noise from the median absolute difference of randomly
// sampled horizontal neighbor pairs. Caps the sample count so large images
// stay cheap to scan.
func EstimateNoise(data []float32, width int) float32 {
	const maxSamples=16*1024
	if len(data)<2 || width<1 { return 0 }

	numSamples:=len(data)-1
	if numSamples>maxSamples { numSamples=maxSamples }
	diffs:=make([]float64, 0, numSamples)
	for i:=0; i<numSamples; i++ {
		idx:=int(fastrand.Uint32n(uint32(len(data)-1)))
		if (idx+1)%width==0 { continue } // don't pair across row boundaries
		d:=float64(data[idx+1]-data[idx])
		if d<0 { d=-d }
		diffs=append(diffs, d)
	}
	if len(diffs)==0 { return 0 }
	sort.Float64s(diffs)
	median:=stat.Quantile(0.5, stat.Empirical, diffs, nil)
	return float32(median*1.4826/math.Sqrt2)
}
