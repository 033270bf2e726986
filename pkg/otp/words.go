package otp

import "fmt"

// WordSize is the size in bytes of a single fuse word.
const WordSize = 4

// WordID identifies a fuse word in the OCOTP shadow space.
type WordID int

const (
	WordLock WordID = iota
	WordTester0
	WordTester1
	WordTester3
	WordTester4
	WordTester5
	WordBootCfg0
	WordBootCfg1
	WordBootCfg2
	WordBootCfg3
	WordBootCfg4
	WordSRK0
	WordSRK1
	WordSRK2
	WordSRK3
	WordSRK4
	WordSRK5
	WordSRK6
	WordSRK7
	WordSJCResp0
	WordSJCResp1
	WordUSBID
	WordFieldReturn
	WordMACAddr0
	WordMACAddr1
	WordMACAddr2
	WordSRKRevoke
	WordGP10
	WordGP11
	WordGP20
	WordGP21

	// WordCount is the number of known fuse words.
	WordCount int = iota
)

type wordInfo struct {
	name   string
	offset int64
}

// wordTable holds the nvmem byte offset of every fuse word on the i.MX8MM.
var wordTable = [WordCount]wordInfo{
	WordLock:        {"LOCK", 0x0},
	WordTester0:     {"TESTER0", 0x4},
	WordTester1:     {"TESTER1", 0x8},
	WordTester3:     {"TESTER3", 0x10},
	WordTester4:     {"TESTER4", 0x14},
	WordTester5:     {"TESTER5", 0x18},
	WordBootCfg0:    {"BOOT_CFG0", 0x1c},
	WordBootCfg1:    {"BOOT_CFG1", 0x20},
	WordBootCfg2:    {"BOOT_CFG2", 0x24},
	WordBootCfg3:    {"BOOT_CFG3", 0x28},
	WordBootCfg4:    {"BOOT_CFG4", 0x2c},
	WordSRK0:        {"SRK0", 0x60},
	WordSRK1:        {"SRK1", 0x64},
	WordSRK2:        {"SRK2", 0x68},
	WordSRK3:        {"SRK3", 0x6c},
	WordSRK4:        {"SRK4", 0x70},
	WordSRK5:        {"SRK5", 0x74},
	WordSRK6:        {"SRK6", 0x78},
	WordSRK7:        {"SRK7", 0x7c},
	WordSJCResp0:    {"SJC_RESP0", 0x80},
	WordSJCResp1:    {"SJC_RESP1", 0x84},
	WordUSBID:       {"USB_ID", 0x88},
	WordFieldReturn: {"FIELD_RETURN", 0x8c},
	WordMACAddr0:    {"MAC_ADDR0", 0x90},
	WordMACAddr1:    {"MAC_ADDR1", 0x94},
	WordMACAddr2:    {"MAC_ADDR2", 0x98},
	WordSRKRevoke:   {"SRK_REVOKE", 0x9c},
	WordGP10:        {"GP10", 0xe0},
	WordGP11:        {"GP11", 0xe4},
	WordGP20:        {"GP20", 0xe8},
	WordGP21:        {"GP21", 0xec},
}

// Valid reports whether id names a known fuse word.
func (id WordID) Valid() bool {
	return id >= 0 && int(id) < WordCount
}

func (id WordID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("WordID(%d)", int(id))
	}
	return wordTable[id].name
}

// Offset returns the byte offset of the word in the nvmem device.
func (id WordID) Offset() (int64, error) {
	if !id.Valid() {
		return 0, fmt.Errorf("%w: fuse word %d out of range", ErrInvalidArgument, int(id))
	}
	return wordTable[id].offset, nil
}
