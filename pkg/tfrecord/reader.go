package tfrecord

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrTruncated reports a stream that ends in the middle of a record frame.
// Records read before it are intact.
var ErrTruncated = errors.New("tfrecord: truncated record")

// ErrChecksum reports a record whose frame checksum does not match its
// content.
var ErrChecksum = errors.New("tfrecord: checksum mismatch")

// Reader reads framed records back from a stream.
type Reader struct {
	r *bufio.Reader
}

// NewReader returns a Reader consuming records from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the payload of the next record. It returns io.EOF at a
// clean end of stream, ErrTruncated when the stream stops mid-frame, and
// ErrChecksum when a frame fails CRC validation.
func (r *Reader) Next() ([]byte, error) {
	var header [12]byte
	if _, err := io.ReadFull(r.r, header[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, ErrTruncated
	}
	length := binary.LittleEndian.Uint64(header[:8])
	if got, want := maskedCRC(header[:8]), binary.LittleEndian.Uint32(header[8:]); got != want {
		return nil, fmt.Errorf("%w: length header", ErrChecksum)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r.r, payload); err != nil {
		return nil, ErrTruncated
	}
	var footer [4]byte
	if _, err := io.ReadFull(r.r, footer[:]); err != nil {
		return nil, ErrTruncated
	}
	if got, want := maskedCRC(payload), binary.LittleEndian.Uint32(footer[:]); got != want {
		return nil, fmt.Errorf("%w: record payload", ErrChecksum)
	}
	return payload, nil
}
