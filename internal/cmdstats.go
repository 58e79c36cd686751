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
	"runtime"

	"github.com/klauspost/cpuid"
)

// Decode and reduce all given files and report their statistics, limiting
// concurrency to the number of physical CPU cores. Per-file errors are
// reported and the batch continues.
func CmdStats(fileNames []string, legacy *LegacyParams) {
	imageLevelParallelism:=cpuid.CPU.PhysicalCores
	if imageLevelParallelism<1 { imageLevelParallelism=runtime.NumCPU() }
	LogPrintf("\nScanning %d files with %d workers and settings %s:\n", len(fileNames), imageLevelParallelism, legacy)

	sem   :=make(chan bool, imageLevelParallelism)
	for id, fileName := range(fileNames) {
		sem <- true
		go func(id int, fileName string) {
			defer func() { <-sem }()
			stack,err:=Decode(fileName, legacy)
			if err!=nil {
				LogPrintf("%d: Error: %s\n", id, err.Error())
				return
			}
			img,err:=Reduce(stack, legacy)
			if err!=nil {
				LogPrintf("%d: Error: %s\n", id, err.Error())
				return
			}
			stats:=CalcExtendedStats(img.Samples)
			noise:=EstimateNoise(img.Samples, img.Width)
			LogPrintf("%d: %s %dx%d levels %d %v noise %.4g\n",
				id, fileName, img.Width, img.Height, img.Levels, stats, noise)
		}(id, fileName)
	}
	for i:=0; i<cap(sem); i++ {  // wait for goroutines to finish
		sem <- true
	}
}
