package x_tree

import (
	"encoding/binary"
	"fmt"
)

// All fixed-width fields are little-endian.
var byteOrder = binary.LittleEndian

//---------------------
// Writer
//---------------------

// bufWriter accumulates an encoded trie in memory.
type bufWriter struct {
	buf []byte
}

func (w *bufWriter) u8(v uint8)   { w.buf = append(w.buf, v) }
func (w *bufWriter) u16(v uint16) { w.buf = byteOrder.AppendUint16(w.buf, v) }
func (w *bufWriter) u32(v uint32) { w.buf = byteOrder.AppendUint32(w.buf, v) }
func (w *bufWriter) u64(v uint64) { w.buf = byteOrder.AppendUint64(w.buf, v) }

func (w *bufWriter) bool(v bool) {
	if v {
		w.u8(1)
		return
	}
	w.u8(0)
}

//---------------------
// Reader
//---------------------

// bufReader reads fixed-width fields with explicit bounds checks.
type bufReader struct {
	data []byte
	pos  int
}

func newBufReader(data []byte) *bufReader {
	return &bufReader{data: data}
}

// remaining returns the number of unread bytes.
func (r *bufReader) remaining() int { return len(r.data) - r.pos }

func (r *bufReader) eof() bool { return r.pos >= len(r.data) }

func (r *bufReader) take(n int, field string) ([]byte, error) {
	if r.remaining() < n {
		return nil, fmt.Errorf("%w: %s at offset %d needs %d bytes, %d left",
			ErrTruncated, field, r.pos, n, r.remaining())
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *bufReader) u16(field string) (uint16, error) {
	b, err := r.take(2, field)
	if err != nil {
		return 0, err
	}
	return byteOrder.Uint16(b), nil
}

func (r *bufReader) u32(field string) (uint32, error) {
	b, err := r.take(4, field)
	if err != nil {
		return 0, err
	}
	return byteOrder.Uint32(b), nil
}

func (r *bufReader) u64(field string) (uint64, error) {
	b, err := r.take(8, field)
	if err != nil {
		return 0, err
	}
	return byteOrder.Uint64(b), nil
}

// bool accepts only 0 and 1.
func (r *bufReader) bool(field string) (bool, error) {
	b, err := r.take(1, field)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: %s at offset %d has value %d", ErrCorrupt, field, r.pos-1, b[0])
	}
}
