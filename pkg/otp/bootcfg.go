package otp

import (
	"fmt"
	"strings"
)

// BootCfgWords is the number of BOOT_CFG fuse words.
const BootCfgWords = 5

// BootCfg is an in-memory copy of the BOOT_CFG0..4 fuse words.
type BootCfg [BootCfgWords]uint32

var bootCfgWordIDs = [BootCfgWords]WordID{
	WordBootCfg0, WordBootCfg1, WordBootCfg2, WordBootCfg3, WordBootCfg4,
}

// BootCfgID identifies a field in the BOOT_CFG words. Only the fields involved
// in closing the device for secure boot are described.
type BootCfgID int

const (
	BootCfgDirBtDis BootCfgID = iota
	BootCfgBtFuseSel
	BootCfgSJCDisable
	BootCfgSecConfig
	BootCfgWdogEnable
	BootCfgTZASCEnable
	BootCfgWdogTimeout

	// BootCfgCount is the number of boot configuration fields.
	BootCfgCount int = iota
)

type bootCfgField struct {
	name   string
	label  string
	word   int
	offset uint
	width  uint
}

var bootCfgTable = [BootCfgCount]bootCfgField{
	BootCfgDirBtDis:    {"DIR_BT_DIS", "NXP reserved modes disabled", 0, 27, 1},
	BootCfgBtFuseSel:   {"BT_FUSE_SEL", "Boot from fuses enabled", 0, 28, 1},
	BootCfgSJCDisable:  {"SJC_DISABLE", "JTAG disabled", 0, 21, 1},
	BootCfgSecConfig:   {"SEC_CONFIG", "Secure config closed", 0, 25, 1},
	BootCfgWdogEnable:  {"WDOG_ENABLE", "Watchdog enabled", 1, 10, 1},
	BootCfgTZASCEnable: {"TZASC_ENABLE", "TZASC enabled", 1, 11, 1},
	BootCfgWdogTimeout: {"WDOG_TIMEOUT", "Watchdog timeout", 1, 16, 2},
}

// watchdogTimeouts maps the WDOG_TIMEOUT field value to seconds. The last
// entry cannot be reached through the 2-bit field.
var watchdogTimeouts = [...]uint{64, 32, 16, 8, 4}

func (id BootCfgID) valid() bool {
	return id >= 0 && int(id) < BootCfgCount
}

func (id BootCfgID) String() string {
	if !id.valid() {
		return fmt.Sprintf("BootCfgID(%d)", int(id))
	}
	return bootCfgTable[id].name
}

// Label returns a human readable description of the field.
func (id BootCfgID) Label() string {
	if !id.valid() {
		return id.String()
	}
	return bootCfgTable[id].label
}

// ParseBootCfgID looks a boot configuration field up by name, ignoring case.
func ParseBootCfgID(name string) (BootCfgID, error) {
	for id := BootCfgID(0); int(id) < BootCfgCount; id++ {
		if strings.EqualFold(bootCfgTable[id].name, name) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown boot config field %q", ErrInvalidArgument, name)
}

// BoolFields lists the 1-bit boot configuration fields in display order.
var BoolFields = []BootCfgID{
	BootCfgSJCDisable,
	BootCfgSecConfig,
	BootCfgDirBtDis,
	BootCfgBtFuseSel,
	BootCfgWdogEnable,
	BootCfgTZASCEnable,
}

// ReadBootCfg reads the BOOT_CFG fuse words.
func ReadBootCfg(c *Context) (BootCfg, error) {
	var b BootCfg
	for i, id := range bootCfgWordIDs {
		v, err := c.Read(id)
		if err != nil {
			return BootCfg{}, err
		}
		b[i] = v
	}
	return b, nil
}

// CommitBootCfg writes the words of b that differ from the programmed ones.
// All words are read before the first write.
func CommitBootCfg(c *Context, b BootCfg) error {
	cur, err := ReadBootCfg(c)
	if err != nil {
		return err
	}
	for i, id := range bootCfgWordIDs {
		if cur[i] == b[i] {
			continue
		}
		if err := c.Write(id, b[i]); err != nil {
			return err
		}
	}
	return nil
}

func boolField(id BootCfgID) (bootCfgField, error) {
	if !id.valid() {
		return bootCfgField{}, fmt.Errorf("%w: boot config id %d out of range", ErrInvalidArgument, int(id))
	}
	f := bootCfgTable[id]
	if f.width != 1 {
		return bootCfgField{}, fmt.Errorf("%w: %s is not a boolean field", ErrInvalidArgument, id)
	}
	return f, nil
}

// Bool returns the value of a 1-bit field.
func (b BootCfg) Bool(id BootCfgID) (bool, error) {
	f, err := boolField(id)
	if err != nil {
		return false, err
	}
	return b[f.word]&(1<<f.offset) != 0, nil
}

// SetBool sets or clears a 1-bit field in memory.
func (b *BootCfg) SetBool(id BootCfgID, value bool) error {
	f, err := boolField(id)
	if err != nil {
		return err
	}
	if value {
		b[f.word] |= 1 << f.offset
	} else {
		b[f.word] &^= 1 << f.offset
	}
	return nil
}

// Watchdog returns whether the boot watchdog is enabled and its timeout in
// seconds. A field value outside the timeout table decodes to 0 seconds.
func (b BootCfg) Watchdog() (enabled bool, timeoutSeconds uint, err error) {
	if enabled, err = b.Bool(BootCfgWdogEnable); err != nil {
		return false, 0, err
	}
	f := bootCfgTable[BootCfgWdogTimeout]
	idx := (b[f.word] >> f.offset) & (1<<f.width - 1)
	if int(idx) < len(watchdogTimeouts) {
		timeoutSeconds = watchdogTimeouts[idx]
	}
	return enabled, timeoutSeconds, nil
}

// SetWatchdog enables or disables the boot watchdog. A zero timeout leaves
// the timeout field unchanged; any other value must be one of 64, 32, 16 or
// 8 seconds. On error b is left unchanged.
func (b *BootCfg) SetWatchdog(enabled bool, timeoutSeconds uint) error {
	f := bootCfgTable[BootCfgWdogTimeout]
	idx := -1
	if timeoutSeconds != 0 {
		for i, t := range watchdogTimeouts {
			if t == timeoutSeconds {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: unsupported watchdog timeout %ds", ErrInvalidArgument, timeoutSeconds)
		}
		// The 4s entry sits at index 4, which the 2-bit field cannot hold.
		// Refuse it rather than spill into the bit above the field.
		if idx >= 1<<f.width {
			return fmt.Errorf("%w: watchdog timeout %ds does not fit the %d-bit %s field",
				ErrInvalidArgument, timeoutSeconds, f.width, BootCfgWdogTimeout)
		}
	}

	if err := b.SetBool(BootCfgWdogEnable, enabled); err != nil {
		return err
	}
	if idx >= 0 {
		mask := uint32(1<<f.width-1) << f.offset
		b[f.word] = b[f.word]&^mask | uint32(idx)<<f.offset
	}
	return nil
}
