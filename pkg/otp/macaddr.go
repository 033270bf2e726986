package otp

import (
	"fmt"
	"net"
)

// MACAddress is the Ethernet address stored in the MAC_ADDR0/1 fuses.
type MACAddress [6]byte

// ParseMAC parses a 6 byte hardware address in any form accepted by
// net.ParseMAC.
func ParseMAC(s string) (MACAddress, error) {
	var m MACAddress
	hw, err := net.ParseMAC(s)
	if err != nil {
		return m, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if len(hw) != len(m) {
		return m, fmt.Errorf("%w: %q is not a 6 byte MAC address", ErrInvalidArgument, s)
	}
	copy(m[:], hw)
	return m, nil
}

func (m MACAddress) String() string {
	return net.HardwareAddr(m[:]).String()
}

// IsZero reports whether the address is unprogrammed.
func (m MACAddress) IsZero() bool {
	return m == MACAddress{}
}

// Words packs m the way the boot ROM expects it: the first two bytes in
// the low half of MAC_ADDR1, the last four in MAC_ADDR0, most significant
// byte first.
func (m MACAddress) Words() (mac0, mac1 uint32) {
	mac1 = uint32(m[0])<<8 | uint32(m[1])
	mac0 = uint32(m[2])<<24 | uint32(m[3])<<16 | uint32(m[4])<<8 | uint32(m[5])
	return mac0, mac1
}

func macFromWords(mac0, mac1 uint32) MACAddress {
	return MACAddress{
		byte(mac1 >> 8),
		byte(mac1),
		byte(mac0 >> 24),
		byte(mac0 >> 16),
		byte(mac0 >> 8),
		byte(mac0),
	}
}

// ReadMAC reads the programmed MAC address.
func ReadMAC(c *Context) (MACAddress, error) {
	mac0, err := c.Read(WordMACAddr0)
	if err != nil {
		return MACAddress{}, err
	}
	mac1, err := c.Read(WordMACAddr1)
	if err != nil {
		return MACAddress{}, err
	}
	return macFromWords(mac0, mac1), nil
}

// WriteMAC programs the MAC address fuses. It succeeds without writing if
// addr is already programmed and fails with ErrConflict if any other address
// is. MAC_ADDR0 is written before MAC_ADDR1; the pair is not written
// atomically.
func WriteMAC(c *Context, addr MACAddress) error {
	cur, err := ReadMAC(c)
	if err != nil {
		return err
	}
	if cur == addr {
		return nil
	}
	if !cur.IsZero() {
		return fmt.Errorf("%w: MAC address already programmed as %s", ErrConflict, cur)
	}

	mac0, mac1 := addr.Words()
	if err := c.Write(WordMACAddr0, mac0); err != nil {
		return err
	}
	return c.Write(WordMACAddr1, mac1)
}
