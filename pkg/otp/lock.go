package otp

import (
	"fmt"
	"strings"
)

// LockID identifies a field in the LOCK fuse word.
type LockID int

const (
	LockTester LockID = iota
	LockBootCfg
	LockUSBID
	LockMACAddr
	LockGP1
	LockGP2
	LockGP5
	LockSRK
	LockSJCResp
	LockManufactureKey

	// LockCount is the number of lock fields.
	LockCount int = iota
)

type lockField struct {
	name   string
	offset uint
	width  uint
}

var lockTable = [LockCount]lockField{
	LockTester:         {"TESTER", 0, 2},
	LockBootCfg:        {"BOOT_CFG", 2, 2},
	LockUSBID:          {"USB_ID", 12, 2},
	LockMACAddr:        {"MAC_ADDR", 14, 2},
	LockGP1:            {"GP1", 20, 2},
	LockGP2:            {"GP2", 22, 2},
	LockGP5:            {"GP5", 24, 2},
	LockSRK:            {"SRK", 9, 1},
	LockSJCResp:        {"SJC_RESP", 10, 1},
	LockManufactureKey: {"MANUFACTURE_KEY", 16, 1},
}

func (id LockID) valid() bool {
	return id >= 0 && int(id) < LockCount
}

func (id LockID) String() string {
	if !id.valid() {
		return fmt.Sprintf("LockID(%d)", int(id))
	}
	return lockTable[id].name
}

// Width returns the field width in bits (1 or 2), or 0 for an unknown id.
func (id LockID) Width() uint {
	if !id.valid() {
		return 0
	}
	return lockTable[id].width
}

// ParseLockID looks a lock field up by name, ignoring case.
func ParseLockID(name string) (LockID, error) {
	for id := LockID(0); int(id) < LockCount; id++ {
		if strings.EqualFold(lockTable[id].name, name) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown lock %q", ErrInvalidArgument, name)
}

// LockState is the decoded state of a lock field.
type LockState int

const (
	// LockUnlocked is valid for both 1-bit and 2-bit fields.
	LockUnlocked LockState = iota
	// LockLocked is valid for 1-bit fields only.
	LockLocked
	// LockWriteProtect blocks further fuse programming (2-bit fields, value 1).
	LockWriteProtect
	// LockOverrideProtect blocks shadow register overrides (2-bit fields, value 2).
	LockOverrideProtect
	// LockOverrideWriteProtect combines both protections (2-bit fields, value 3).
	LockOverrideWriteProtect
)

var lockStateNames = map[LockState]string{
	LockUnlocked:             "unlocked",
	LockLocked:               "locked",
	LockWriteProtect:         "write-protect",
	LockOverrideProtect:      "override-protect",
	LockOverrideWriteProtect: "override-write-protect",
}

func (s LockState) String() string {
	if name, ok := lockStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("LockState(%d)", int(s))
}

// ParseLockState parses the names produced by LockState.String.
func ParseLockState(name string) (LockState, error) {
	for s, n := range lockStateNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown lock state %q", ErrInvalidArgument, name)
}

// twoBitStates decodes a 2-bit lock field value.
var twoBitStates = [4]LockState{
	LockUnlocked,
	LockWriteProtect,
	LockOverrideProtect,
	LockOverrideWriteProtect,
}

// twoBitMasks holds the bits to clear and set, before shifting, for each
// state of a 2-bit field.
var twoBitMasks = map[LockState]struct{ off, on uint32 }{
	LockUnlocked:             {off: 3, on: 0},
	LockWriteProtect:         {off: 2, on: 1},
	LockOverrideProtect:      {off: 1, on: 2},
	LockOverrideWriteProtect: {off: 0, on: 3},
}

// LockWord is an in-memory copy of the LOCK fuse word. Changing it never
// touches the hardware; use CommitLocks to persist it.
type LockWord uint32

// ReadLocks reads the LOCK fuse word.
func ReadLocks(c *Context) (LockWord, error) {
	v, err := c.Read(WordLock)
	return LockWord(v), err
}

// CommitLocks writes w to the LOCK fuse word if it differs from the
// programmed value.
func CommitLocks(c *Context, w LockWord) error {
	return c.Update(WordLock, uint32(w))
}

// State decodes the state of a lock field.
func (w LockWord) State(id LockID) (LockState, error) {
	if !id.valid() {
		return 0, fmt.Errorf("%w: lock id %d out of range", ErrInvalidArgument, int(id))
	}
	f := lockTable[id]
	if f.width == 1 {
		if (uint32(w)>>f.offset)&1 != 0 {
			return LockLocked, nil
		}
		return LockUnlocked, nil
	}
	return twoBitStates[(uint32(w)>>f.offset)&3], nil
}

// SetState encodes state into the lock field. 1-bit fields accept only
// LockUnlocked and LockLocked; 2-bit fields accept every state except
// LockLocked.
//
// Fuses cannot be cleared: moving a programmed field back towards unlocked
// only changes the in-memory copy.
func (w *LockWord) SetState(id LockID, state LockState) error {
	if !id.valid() {
		return fmt.Errorf("%w: lock id %d out of range", ErrInvalidArgument, int(id))
	}
	f := lockTable[id]

	if f.width == 1 {
		mask := uint32(1) << f.offset
		switch state {
		case LockUnlocked:
			*w &^= LockWord(mask)
		case LockLocked:
			*w |= LockWord(mask)
		default:
			return fmt.Errorf("%w: lock %s cannot be set to %s", ErrInvalidArgument, id, state)
		}
		return nil
	}

	m, ok := twoBitMasks[state]
	if !ok {
		return fmt.Errorf("%w: lock %s cannot be set to %s", ErrInvalidArgument, id, state)
	}
	*w &^= LockWord(m.off << f.offset)
	*w |= LockWord(m.on << f.offset)
	return nil
}
