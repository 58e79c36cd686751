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
	"io"
	"os"
)

var logWriter io.Writer=os.Stdout

// Tee all log output into the given file, in addition to stdout
func LogToFile(fileName string) error {
	f,err:=os.Create(fileName)
	if err!=nil { return err }
	logWriter=io.MultiWriter(os.Stdout, f)
	return nil
}

func LogPrintf(format string, a ...interface{}) {
	fmt.Fprintf(logWriter, format, a...)
}

func LogPrintln(a ...interface{}) {
	fmt.Fprintln(logWriter, a...)
}

func LogFatal(a ...interface{}) {
	fmt.Fprintln(logWriter, a...)
	os.Exit(1)
}

func LogFatalf(format string, a ...interface{}) {
	fmt.Fprintf(logWriter, format, a...)
	os.Exit(1)
}
