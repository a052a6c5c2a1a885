// Package term queries the controlling terminal.
package term

import (
	"errors"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
)

// ErrNotTerminal is returned when the file is not a terminal.
var ErrNotTerminal = errors.New("not a terminal")

// IsTerminal reports whether f is a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Size returns the size of the terminal attached to f in cells. When it cannot
// be queried the COLUMNS and LINES environment variables are used.
func Size(f *os.File) (cols, rows int, err error) {
	cols, rows, err = size(f)
	if err == nil && cols > 0 && rows > 0 {
		return cols, rows, nil
	}
	c, cerr := strconv.Atoi(os.Getenv("COLUMNS"))
	r, rerr := strconv.Atoi(os.Getenv("LINES"))
	if cerr == nil && rerr == nil && c > 0 && r > 0 {
		return c, r, nil
	}
	if err == nil {
		err = ErrNotTerminal
	}
	return 0, 0, err
}
