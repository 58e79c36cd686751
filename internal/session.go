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
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pbnjay/memory"
)

// One fully rendered image, ready for the display layer
type Rendered struct {
	Path   string
	Width  int
	Height int
	Levels int
	Min    float32
	Max    float32
	Buffer *DisplayBuffer
}

// Cached outcome of rendering one path. Failures are kept as well, so a
// bad file reports the same error on every visit without re-decoding.
type sessionEntry struct {
	rendered *Rendered
	err      error
}

// Session owns the viewer state: the scanned image paths, the cursor of
// the currently shown image, and a memory-bounded cache of render
// results. The decode/reduce/render pipeline stays pure; the session is
// the only mutable state, and it is guarded for concurrent HTTP handlers.
type Session struct {
	mu         sync.Mutex
	paths      []string
	index      int
	render     *RenderParams
	outDir     string
	cache      map[string]*sessionEntry
	cacheOrder []string // insertion order, oldest evicted first
	cacheBytes int64
	cacheLimit int64
}

// NewSession creates a viewer session over the given paths. A cacheMB of
// zero sizes the render cache at an eighth of total system memory.
func NewSession(paths []string, render *RenderParams, outDir string, cacheMB int) *Session {
	cacheLimit:=int64(cacheMB)*1024*1024
	if cacheLimit<=0 {
		cacheLimit=int64(memory.TotalMemory()/8)
	}
	LogPrintf("Session over %d images, render cache %d MB, settings %s\n",
		len(paths), cacheLimit/(1024*1024), render)
	return &Session{
		paths:      paths,
		render:     render,
		outDir:     outDir,
		cache:      map[string]*sessionEntry{},
		cacheLimit: cacheLimit,
	}
}

// Count returns the number of images in the session
func (s *Session) Count() int {
	return len(s.paths)
}

// Current returns the cursor position and the path it points at
func (s *Session) Current() (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index, s.paths[s.index]
}

// Advance moves the cursor to the next image, wrapping back to the first
// one after the last, and returns the new position and path.
func (s *Session) Advance() (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index+1>=len(s.paths) {
		LogPrintln("All images checked! Starting again.")
		s.index=0
	} else {
		s.index++
	}
	return s.index, s.paths[s.index]
}

// Render runs the pipeline for one path: decode into a stack, reduce to
// the frame average, stretch into a display buffer. Results and failures
// are cached; a failure never blocks navigation to other images.
func (s *Session) Render(path string) (*Rendered, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry,ok:=s.cache[path]; ok {
		return entry.rendered, entry.err
	}

	rendered,err:=renderFile(path, s.render)
	if err!=nil { LogPrintf("Error: %s\n", err.Error()) }
	s.store(path, &sessionEntry{rendered:rendered, err:err})
	return rendered, err
}

// The pure pipeline for one file
func renderFile(path string, p *RenderParams) (*Rendered, error) {
	stack,err:=Decode(path, &p.Legacy)
	if err!=nil { return nil, err }
	img,err:=Reduce(stack, &p.Legacy)
	if err!=nil { return nil, fmt.Errorf("%s: %w", path, err) }
	return &Rendered{
		Path:   path,
		Width:  img.Width,
		Height: img.Height,
		Levels: img.Levels,
		Min:    img.Min,
		Max:    img.Max,
		Buffer: Render(img, p),
	}, nil
}

// Insert a cache entry, evicting oldest entries until within budget.
// Callers must hold the session lock.
func (s *Session) store(path string, entry *sessionEntry) {
	size:=entrySize(entry)
	for len(s.cacheOrder)>0 && s.cacheBytes+size>s.cacheLimit {
		oldest:=s.cacheOrder[0]
		s.cacheOrder=s.cacheOrder[1:]
		s.cacheBytes-=entrySize(s.cache[oldest])
		delete(s.cache, oldest)
	}
	s.cache[path]=entry
	s.cacheOrder=append(s.cacheOrder, path)
	s.cacheBytes+=size
}

func entrySize(entry *sessionEntry) int64 {
	if entry.rendered==nil { return 0 }
	return int64(len(entry.rendered.Buffer.Pix))
}

// Info describes the currently shown image for the frontend
type Info struct {
	Path   string  `json:"path"`
	Index  int     `json:"index"`
	Count  int     `json:"count"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Levels int     `json:"levels"`
	Min    float32 `json:"min"`
	Max    float32 `json:"max"`
	Error  string  `json:"error,omitempty"`
}

// Info renders the current image and reports its metadata. On failure the
// error is carried in the info, in place of the picture.
func (s *Session) Info() Info {
	index,path:=s.Current()
	info:=Info{Path:path, Index:index, Count:len(s.paths)}
	rendered,err:=s.Render(path)
	if err!=nil {
		info.Error=err.Error()
		return info
	}
	info.Width, info.Height=rendered.Width, rendered.Height
	info.Levels=rendered.Levels
	info.Min, info.Max=rendered.Min, rendered.Max
	return info
}

// SaveCurrent writes the current rendering as a PNG file into the output
// directory, returning the file name written.
func (s *Session) SaveCurrent() (string, error) {
	if s.outDir=="" {
		return "", errors.New("no output directory given")
	}
	_,path:=s.Current()
	rendered,err:=s.Render(path)
	if err!=nil { return "", err }

	base:=strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outName:=filepath.Join(s.outDir, base+".png")
	f,err:=os.Create(outName)
	if err!=nil { return "", fmt.Errorf("writing %s: %w", outName, err) }
	defer f.Close()
	if err:=rendered.Buffer.WritePNG(f); err!=nil {
		return "", fmt.Errorf("writing %s: %w", outName, err)
	}
	return outName, nil
}
