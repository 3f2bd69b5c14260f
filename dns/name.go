package dns

import (
	"strings"
	"unicode/utf8"
)

// pointerFlag is the top two bits that mark a length byte as a
// compression pointer rather than a label length.
const pointerFlag = 0xC0

// maxLabelLength is the largest length a single dot-separated label may
// declare in its length-prefix byte.
const maxLabelLength = 63

// ReadQName decodes a (possibly compressed) domain name starting at the
// buffer's current cursor and returns it in canonical dotted form, e.g.
// "www.example.com". Every label is lossily decoded as UTF-8 (invalid
// byte sequences become the replacement character) and lowercased, so
// names are always stored in the canonical form ReadQName(WriteQName(n))
// == lowercase(n) expects. Compression pointers are followed up to
// maxCompressionJumps times; exceeding that returns ErrJumpLimitExceeded,
// guarding against a cyclic pointer chain.
//
// The first jump taken advances the buffer's own (shared) cursor past the
// two-byte pointer and no further; every subsequent label or jump is
// tracked on a local cursor so sibling records parsed after this one see
// the buffer positioned immediately after the pointer, not wherever the
// jump chain eventually bottomed out.
func (pb *PacketBuffer) ReadQName() (string, error) {
	localPos := pb.pos
	jumped := false
	jumpsPerformed := 0

	var labels []string

	for {
		if jumpsPerformed > maxCompressionJumps {
			return "", ErrJumpLimitExceeded
		}

		lenByte, err := pb.Get(localPos)
		if err != nil {
			return "", err
		}

		if lenByte&pointerFlag == pointerFlag {
			if !jumped {
				pb.Seek(localPos + 2)
			}

			b2, err := pb.Get(localPos + 1)
			if err != nil {
				return "", err
			}
			offset := (uint16(lenByte)^pointerFlag)<<8 | uint16(b2)
			localPos = int(offset)
			jumped = true
			jumpsPerformed++
			continue
		}

		localPos++
		if lenByte == 0 {
			break
		}

		label, err := pb.GetRange(localPos, int(lenByte))
		if err != nil {
			return "", err
		}
		labels = append(labels, lossyLowerLabel(label))
		localPos += int(lenByte)
	}

	if !jumped {
		pb.Seek(localPos)
	}

	return strings.Join(labels, "."), nil
}

// lossyLowerLabel decodes b as UTF-8, replacing any invalid byte sequence
// with the Unicode replacement character, and lowercases the result.
func lossyLowerLabel(b []byte) string {
	var sb strings.Builder
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			sb.WriteRune(utf8.RuneError)
			b = b[1:]
			continue
		}
		sb.WriteRune(r)
		b = b[size:]
	}
	return strings.ToLower(sb.String())
}

// WriteQName encodes name as length-prefixed labels terminated by a zero
// length byte. It never emits a compression pointer: encode-side name
// compression is an explicit Non-goal, so every name costs its full
// uncompressed length on the wire.
func (pb *PacketBuffer) WriteQName(name string) error {
	if name != "" {
		for _, label := range strings.Split(name, ".") {
			if len(label) > maxLabelLength {
				return ErrLabelTooLong
			}
			if err := pb.WriteUint8(byte(len(label))); err != nil {
				return err
			}
			for i := 0; i < len(label); i++ {
				if err := pb.WriteUint8(label[i]); err != nil {
					return err
				}
			}
		}
	}
	return pb.WriteUint8(0)
}
