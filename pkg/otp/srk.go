package otp

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"k8s.io/klog/v2"
)

// SRKWords is the number of fuse words holding the SRK hash.
const SRKWords = 8

// SRKHashSize is the size of the SRK hash in bytes.
const SRKHashSize = SRKWords * WordSize

// SRKHash is the Super Root Key hash as programmed in the SRK fuses. An
// all-zero hash means the fuses are unprogrammed.
type SRKHash [SRKWords]uint32

// srkWordIDs lists the SRK fuse words in hash order. The words are read one
// by one as they are not guaranteed to be contiguous on every SoC.
var srkWordIDs = [SRKWords]WordID{
	WordSRK0, WordSRK1, WordSRK2, WordSRK3,
	WordSRK4, WordSRK5, WordSRK6, WordSRK7,
}

// SRKHashFromBytes decodes a 32 byte hash made of little-endian words, the
// layout of the SRK_1_2_3_4_fuse.bin file produced by the NXP CST tool.
func SRKHashFromBytes(b []byte) (SRKHash, error) {
	var h SRKHash
	if len(b) != SRKHashSize {
		return h, fmt.Errorf("%w: SRK hash is %d bytes, want %d", ErrInvalidArgument, len(b), SRKHashSize)
	}
	for i := range h {
		h[i] = binary.LittleEndian.Uint32(b[i*WordSize:])
	}
	return h, nil
}

// Bytes returns the hash as 32 bytes of little-endian words.
func (h SRKHash) Bytes() []byte {
	b := make([]byte, SRKHashSize)
	for i, w := range h {
		binary.LittleEndian.PutUint32(b[i*WordSize:], w)
	}
	return b
}

// IsZero reports whether no SRK word is programmed.
func (h SRKHash) IsZero() bool {
	return h == SRKHash{}
}

func (h SRKHash) String() string {
	return hex.EncodeToString(h.Bytes())
}

// ReadSRK reads the programmed SRK hash.
func ReadSRK(c *Context) (SRKHash, error) {
	var h SRKHash
	for i, id := range srkWordIDs {
		v, err := c.Read(id)
		if err != nil {
			return SRKHash{}, err
		}
		h[i] = v
	}
	return h, nil
}

// WriteSRK programs the SRK fuses with desired.
//
// Every currently programmed (non-zero) word must already equal the desired
// word, otherwise ErrConflict is returned and nothing is written. Words that
// already match are skipped, so a run interrupted after writing some of the
// words can be resumed.
func WriteSRK(c *Context, desired SRKHash) error {
	cur, err := ReadSRK(c)
	if err != nil {
		return err
	}

	for i, id := range srkWordIDs {
		if cur[i] != 0 && cur[i] != desired[i] {
			klog.Warningf("otp: %s holds 0x%08x, refusing to program 0x%08x", id, cur[i], desired[i])
			return fmt.Errorf("%w: %s is 0x%08x, want 0x%08x", ErrConflict, id, cur[i], desired[i])
		}
	}

	for i, id := range srkWordIDs {
		if cur[i] == desired[i] {
			continue
		}
		if err := c.Write(id, desired[i]); err != nil {
			return err
		}
	}
	return nil
}
