package wire

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// FrameRecord frames payload as a single recordio record: its length in
// ASCII decimal, a newline, then the payload bytes themselves. Consecutive
// calls concatenate into a valid recordio stream.
func FrameRecord(payload []byte) []byte {
	length := strconv.Itoa(len(payload))
	out := make([]byte, 0, len(length)+1+len(payload))
	out = append(out, length...)
	out = append(out, '\n')
	out = append(out, payload...)
	return out
}

// ReadRecord reads one recordio record from r: an ASCII decimal length line
// followed by exactly that many payload bytes. It returns io.EOF only when
// the stream ends cleanly before any bytes of a new record are read.
func ReadRecord(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if err == io.EOF && len(line) > 0 {
			return nil, fmt.Errorf("recordio: truncated length line %q: %w", line, io.ErrUnexpectedEOF)
		}
		return nil, err
	}
	line = line[:len(line)-1]
	length, err := strconv.Atoi(line)
	if err != nil {
		return nil, fmt.Errorf("recordio: invalid length line %q: %w", line, err)
	}
	if length < 0 {
		return nil, fmt.Errorf("recordio: negative length %d", length)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("recordio: short record: %w", err)
	}
	return payload, nil
}
