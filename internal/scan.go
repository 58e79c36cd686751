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
	"path/filepath"
	"sort"
	"strings"
)

// Scan a directory (non-recursively) for viewable image files.
// Files whose names contain "tif" or "fits" are taken, everything else
// is ignored. Matches are returned sorted lexicographically.
func ScanDir(dir string) ([]string, error) {
	entries,err:=os.ReadDir(dir)
	if err!=nil { return nil, fmt.Errorf("scanning %s: %w", dir, err) }

	fileNames:=[]string{}
	for _,entry:=range entries {
		if entry.IsDir() { continue }
		name:=entry.Name()
		if strings.Contains(name, "tif") || strings.Contains(name, "fits") {
			LogPrintf("Found tiff / fits: %s\n", name)
			fileNames=append(fileNames, filepath.Join(dir, name))
		}
	}
	sort.Strings(fileNames)
	return fileNames, nil
}
