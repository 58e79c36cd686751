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

// fex is a viewer for directories of scientific images: multi-page 16-bit
// grayscale TIFF stacks and 32-bit floating point FITS files. Each file is
// decoded into float32 frames, multi-frame stacks are averaged into one
// image, and the result is stretched into displayable 8-bit grayscale,
// served to the browser one image at a time with a Next button.
package main

import (
	"flag"
	"fmt"
	"os"

	nl "github.com/mlnoga/fex/internal"
)

const version = "0.1.0"

var (
	port    = flag.Int("port", 8080, "port for the viewer web server")
	stats   = flag.Bool("stats", false, "print per-file statistics instead of serving the viewer")
	palette = flag.String("palette", nl.PaletteMono, "display palette (mono|heat)")
	webDir  = flag.String("web", "", "directory with a custom web frontend")
	cacheMB = flag.Int("cacheMB", 0, "render cache size in MB (0 = autosize from system memory)")
	logFile = flag.String("log", "", "tee log output into this file")

	legacyIndex = flag.Bool("legacyIndex", false, "compute sample offsets as row*height+col, like early fex builds")
	legacyAvg   = flag.Bool("legacyAvg", false, "divide frame sums by the number of frames after the first, like early fex builds")
	legacyRange = flag.Bool("legacyRange", false, "seed the min/max scan with min=1e12 max=0, like early fex builds")
)

func main() {
	flag.Usage=func() {
		fmt.Fprintf(os.Stderr, "fex %s: explore a directory of tiff / fits files\n", version)
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <directory> [<output directory>]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	args:=flag.Args()
	if len(args)<1 {
		flag.Usage()
		os.Exit(1)
	}
	dir:=args[0]
	outDir:=""
	if len(args)>1 { outDir=args[1] }

	if *logFile!="" {
		if err:=nl.LogToFile(*logFile); err!=nil { nl.LogFatal(err) }
	}

	fileNames,err:=nl.ScanDir(dir)
	if err!=nil { nl.LogFatal(err) }
	if len(fileNames)==0 {
		fmt.Printf("No image files found in %s.\n", dir)
		return
	}

	legacy:=&nl.LegacyParams{
		TransposedIndex: *legacyIndex,
		TailAveraging:   *legacyAvg,
		SentinelRange:   *legacyRange,
	}

	if *stats {
		nl.CmdStats(fileNames, legacy)
		return
	}

	render:=&nl.RenderParams{Palette:*palette, Legacy:*legacy}
	if err:=render.Valid(); err!=nil { nl.LogFatal(err) }

	session:=nl.NewSession(fileNames, render, outDir, *cacheMB)
	nl.CmdServe(session, *webDir, *port)
}
