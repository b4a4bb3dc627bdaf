// Package tfrecord reads and writes TFRecord streams and builds
// tf.train.Example payloads.
//
// A TFRecord stream is a concatenation of independently framed records.
// Each record is laid out as:
//
//	uint64  little-endian payload length
//	uint32  masked CRC32-C of the 8 length bytes
//	bytes   payload
//	uint32  masked CRC32-C of the payload
//
// The length prefix makes the framing self-delimiting, so records can be
// appended to a file and streamed back one at a time. A stream cut off
// mid-record is detectable (the trailing frame is incomplete) without
// affecting the records before it.
package tfrecord

import (
	"bufio"
	"encoding/binary"
	"hash/crc32"
	"io"
)

const crcMaskDelta = 0xa282ead8

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// maskedCRC computes the masked CRC32-C TensorFlow uses for record framing.
func maskedCRC(data []byte) uint32 {
	c := crc32.Checksum(data, castagnoli)
	return ((c >> 15) | (c << 17)) + crcMaskDelta
}

// Writer appends framed records to an underlying stream.
// It buffers writes; call Flush (or Close) before the stream is read.
type Writer struct {
	w   *bufio.Writer
	dst io.Writer
}

// NewWriter returns a Writer appending records to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w), dst: w}
}

// WriteRecord frames payload and appends it to the stream.
func (w *Writer) WriteRecord(payload []byte) error {
	var header [12]byte
	binary.LittleEndian.PutUint64(header[:8], uint64(len(payload)))
	binary.LittleEndian.PutUint32(header[8:], maskedCRC(header[:8]))
	if _, err := w.w.Write(header[:]); err != nil {
		return err
	}
	if _, err := w.w.Write(payload); err != nil {
		return err
	}
	var footer [4]byte
	binary.LittleEndian.PutUint32(footer[:], maskedCRC(payload))
	_, err := w.w.Write(footer[:])
	return err
}

// Flush writes any buffered data to the underlying stream.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Close flushes the Writer and closes the underlying stream when it
// implements io.Closer.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		return err
	}
	if c, ok := w.dst.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
