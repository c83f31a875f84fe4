package utils

import (
	"bufio"
	"io"
)

// ReadFullLine reads one newline-terminated line, however long, without
// the line terminator. A final line without a terminator is returned with
// a nil error; io.EOF is only returned when nothing was read.
func ReadFullLine(r *bufio.Reader) (string, error) {
	var buf []byte

	for {
		line, isPrefix, err := r.ReadLine()
		buf = append(buf, line...)

		if err != nil {
			if err == io.EOF && len(buf) > 0 {
				return string(buf), nil
			}

			return "", err
		}

		if !isPrefix {
			return string(buf), nil
		}
	}
}
