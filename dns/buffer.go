// Package dns implements the DNS wire-format codec: a bounds-checked,
// position-tracked byte buffer and the encoders/decoders for headers,
// questions, and resource records, including the label-compression
// pointer scheme of RFC 1035 section 4.1.4.
package dns

import (
	"errors"
	"fmt"
)

// MaxPacketSize is the largest DNS message this codec will read or write.
// Larger messages require TCP or EDNS(0), neither of which this resolver
// speaks.
const MaxPacketSize = 512

var (
	// ErrBufferBounds is returned by any PacketBuffer operation that would
	// read, write, or address past the end of the 512-byte region.
	ErrBufferBounds = errors.New("dns: buffer bounds exceeded")

	// ErrJumpLimitExceeded is returned by ReadQName when a name's
	// compression-pointer chain exceeds the jump limit, which guards
	// against crafted cyclic pointers.
	ErrJumpLimitExceeded = errors.New("dns: compression pointer jump limit exceeded")

	// ErrLabelTooLong is returned by WriteQName when a label exceeds 63
	// bytes, the maximum representable in a DNS length-prefixed label.
	ErrLabelTooLong = errors.New("dns: label exceeds 63 bytes")
)

// maxCompressionJumps bounds the number of pointer jumps ReadQName will
// follow while decoding a single name.
const maxCompressionJumps = 5

// PacketBuffer is a fixed 512-byte scratch region with a cursor. It is the
// single owner of both the bytes and the read/write position for one
// in-flight DNS message; callers allocate one per request and discard it
// when done.
type PacketBuffer struct {
	buf [MaxPacketSize]byte
	pos int
}

// NewPacketBuffer returns an empty PacketBuffer positioned at offset 0.
func NewPacketBuffer() *PacketBuffer {
	return &PacketBuffer{}
}

// NewPacketBufferFrom copies data (which must be no longer than
// MaxPacketSize) into a fresh PacketBuffer positioned at offset 0.
func NewPacketBufferFrom(data []byte) (*PacketBuffer, error) {
	if len(data) > MaxPacketSize {
		return nil, fmt.Errorf("dns: packet of %d bytes exceeds %d byte limit", len(data), MaxPacketSize)
	}
	pb := &PacketBuffer{}
	copy(pb.buf[:], data)
	return pb, nil
}

// Pos returns the current cursor position.
func (pb *PacketBuffer) Pos() int {
	return pb.pos
}

// Bytes returns the bytes written so far, i.e. buf[0:pos].
func (pb *PacketBuffer) Bytes() []byte {
	return pb.buf[:pb.pos]
}

// Step advances the cursor by n unconditionally, without bounds checking;
// it is used to skip an opaque RDATA region whose length the caller has
// read from the record's RDLENGTH field.
func (pb *PacketBuffer) Step(n int) {
	pb.pos += n
}

// Seek sets the cursor to an absolute position.
func (pb *PacketBuffer) Seek(pos int) {
	pb.pos = pos
}

// Read returns the byte at the cursor and advances it by one.
func (pb *PacketBuffer) Read() (byte, error) {
	if pb.pos >= MaxPacketSize {
		return 0, ErrBufferBounds
	}
	b := pb.buf[pb.pos]
	pb.pos++
	return b, nil
}

// Get returns the byte at an absolute position without moving the cursor.
func (pb *PacketBuffer) Get(pos int) (byte, error) {
	if pos >= MaxPacketSize || pos < 0 {
		return 0, ErrBufferBounds
	}
	return pb.buf[pos], nil
}

// GetRange returns a view of len bytes starting at start, without moving
// the cursor.
func (pb *PacketBuffer) GetRange(start, length int) ([]byte, error) {
	if start < 0 || length < 0 || start+length > MaxPacketSize {
		return nil, ErrBufferBounds
	}
	return pb.buf[start : start+length], nil
}

// ReadUint16 reads two sequential bytes as a big-endian uint16.
func (pb *PacketBuffer) ReadUint16() (uint16, error) {
	hi, err := pb.Read()
	if err != nil {
		return 0, err
	}
	lo, err := pb.Read()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// ReadUint32 reads four sequential bytes as a big-endian uint32.
func (pb *PacketBuffer) ReadUint32() (uint32, error) {
	hi, err := pb.ReadUint16()
	if err != nil {
		return 0, err
	}
	lo, err := pb.ReadUint16()
	if err != nil {
		return 0, err
	}
	return uint32(hi)<<16 | uint32(lo), nil
}

// Write stores b at the cursor and advances it by one.
func (pb *PacketBuffer) Write(b byte) error {
	if pb.pos >= MaxPacketSize {
		return ErrBufferBounds
	}
	pb.buf[pb.pos] = b
	pb.pos++
	return nil
}

// WriteUint8 writes a single byte.
func (pb *PacketBuffer) WriteUint8(b byte) error {
	return pb.Write(b)
}

// WriteUint16 writes v as two big-endian bytes.
func (pb *PacketBuffer) WriteUint16(v uint16) error {
	if err := pb.Write(byte(v >> 8)); err != nil {
		return err
	}
	return pb.Write(byte(v))
}

// WriteUint32 writes v as four big-endian bytes.
func (pb *PacketBuffer) WriteUint32(v uint32) error {
	if err := pb.WriteUint16(uint16(v >> 16)); err != nil {
		return err
	}
	return pb.WriteUint16(uint16(v))
}

// Set writes val at an absolute position without moving the cursor.
func (pb *PacketBuffer) Set(pos int, val byte) error {
	if pos < 0 || pos >= MaxPacketSize {
		return ErrBufferBounds
	}
	pb.buf[pos] = val
	return nil
}

// SetUint16 writes val as two big-endian bytes at an absolute position,
// without moving the cursor. It exists for the rdlength patch-back used
// when encoding variable-length RDATA that contains a name.
func (pb *PacketBuffer) SetUint16(pos int, val uint16) error {
	if err := pb.Set(pos, byte(val>>8)); err != nil {
		return err
	}
	return pb.Set(pos+1, byte(val))
}
