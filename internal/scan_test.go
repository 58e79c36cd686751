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
	"os"
	"path/filepath"
	"testing"
)

func TestScanDir(t *testing.T) {
	dir:=t.TempDir()
	for _,name:=range []string{"b.fits", "a.tif", "c.tiff", "notes.txt", "readme.md"} {
		if err:=os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err!=nil {
			t.Fatalf("Writing %s failed: %s", name, err)
		}
	}
	// subdirectories are not descended into, even with matching names
	if err:=os.Mkdir(filepath.Join(dir, "more.tif"), 0755); err!=nil {
		t.Fatalf("Creating subdirectory failed: %s", err)
	}

	fileNames,err:=ScanDir(dir)
	if err!=nil { t.Fatalf("ScanDir failed: %s", err) }

	expected:=[]string{
		filepath.Join(dir, "a.tif"),
		filepath.Join(dir, "b.fits"),
		filepath.Join(dir, "c.tiff"),
	}
	if len(fileNames)!=len(expected) {
		t.Fatalf("Expected %d files, got %d: %v", len(expected), len(fileNames), fileNames)
	}
	for i,e:=range expected {
		if fileNames[i]!=e {
			t.Errorf("Expected fileNames[%d]=%s, got %s", i, e, fileNames[i])
		}
	}
}

func TestScanDirEmpty(t *testing.T) {
	fileNames,err:=ScanDir(t.TempDir())
	if err!=nil { t.Fatalf("ScanDir failed: %s", err) }
	if len(fileNames)!=0 {
		t.Errorf("Expected no files, got %v", fileNames)
	}
}

func TestScanDirMissing(t *testing.T) {
	if _,err:=ScanDir(filepath.Join(t.TempDir(), "does-not-exist")); err==nil {
		t.Errorf("Expected error for missing directory")
	}
}
