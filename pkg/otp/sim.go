package otp

import (
	"encoding/binary"
	"fmt"
	"io"
)

// simSize covers every offset in the fuse word table.
const simSize = 0x100

// WriteHook lets tests fail or observe individual word writes on a SimDevice.
type WriteHook func(id WordID, value uint32) error

// WriteOp captures one write request for inspection within tests.
type WriteOp struct {
	Word  WordID
	Value uint32
}

// SimDevice is an in-memory fuse device useful for unit tests and dry runs.
// Writes behave like fuse programming: bits are ORed into the stored word and
// can never be cleared.
type SimDevice struct {
	OnWrite WriteHook

	mem    [simSize]byte
	writes []WriteOp
	closed bool
}

var _ Device = (*SimDevice)(nil)

// NewSimDevice returns a blank (all-zero) simulated fuse device.
func NewSimDevice() *SimDevice {
	return &SimDevice{}
}

// Set seeds a fuse word without recording a write.
func (s *SimDevice) Set(id WordID, value uint32) {
	off, err := id.Offset()
	if err != nil {
		panic(err)
	}
	binary.LittleEndian.PutUint32(s.mem[off:], value)
}

// Get returns the stored value of a fuse word.
func (s *SimDevice) Get(id WordID) uint32 {
	off, err := id.Offset()
	if err != nil {
		panic(err)
	}
	return binary.LittleEndian.Uint32(s.mem[off:])
}

// Writes returns a copy of every recorded write, oldest first.
func (s *SimDevice) Writes() []WriteOp {
	return append([]WriteOp(nil), s.writes...)
}

// ResetWrites forgets the recorded writes.
func (s *SimDevice) ResetWrites() {
	s.writes = nil
}

// Closed reports whether Close has been called.
func (s *SimDevice) Closed() bool { return s.closed }

func (s *SimDevice) ReadAt(p []byte, off int64) (int, error) {
	if s.closed {
		return 0, fmt.Errorf("sim: device closed")
	}
	if off < 0 || off >= simSize {
		return 0, io.EOF
	}
	n := copy(p, s.mem[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (s *SimDevice) WriteAt(p []byte, off int64) (int, error) {
	if s.closed {
		return 0, fmt.Errorf("sim: device closed")
	}
	if len(p) != WordSize || off%WordSize != 0 {
		return 0, fmt.Errorf("sim: unaligned write of %d bytes at 0x%x", len(p), off)
	}
	if off < 0 || off+WordSize > simSize {
		return 0, fmt.Errorf("sim: write at 0x%x out of range", off)
	}

	id := wordAt(off)
	value := binary.LittleEndian.Uint32(p)
	if s.OnWrite != nil {
		if err := s.OnWrite(id, value); err != nil {
			return 0, err
		}
	}

	s.writes = append(s.writes, WriteOp{Word: id, Value: value})
	cur := binary.LittleEndian.Uint32(s.mem[off:])
	binary.LittleEndian.PutUint32(s.mem[off:], cur|value)
	return len(p), nil
}

func (s *SimDevice) Close() error {
	s.closed = true
	return nil
}

// wordAt maps an offset back to its word, or -1 for a gap in the table.
func wordAt(off int64) WordID {
	for id := WordID(0); int(id) < WordCount; id++ {
		if wordTable[id].offset == off {
			return id
		}
	}
	return WordID(-1)
}
