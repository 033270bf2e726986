package otp

import (
	"fmt"
	"os"
	"strings"
)

const (
	// CompatibleSoC is the only soc_id the fuse word table is valid for.
	CompatibleSoC = "i.MX8MM"

	// DefaultSoCIDPath is where the kernel exposes the SoC identity.
	DefaultSoCIDPath = "/sys/devices/soc0/soc_id"

	// maxSoCIDLen bounds the identity string; anything this long or longer
	// is not a soc_id we know.
	maxSoCIDLen = 32
)

// PlatformProbe returns the identity string of the running SoC.
type PlatformProbe func() (string, error)

// SoCIDFile returns a probe reading the SoC identity from a sysfs file.
func SoCIDFile(path string) PlatformProbe {
	return func() (string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		if len(data) == 0 || len(data) >= maxSoCIDLen {
			return "", fmt.Errorf("unexpected soc_id length %d", len(data))
		}
		return strings.TrimRight(string(data), "\n"), nil
	}
}

// StaticPlatform returns a probe that always reports id.
func StaticPlatform(id string) PlatformProbe {
	return func() (string, error) { return id, nil }
}

// checkPlatform fails with ErrIncompatiblePlatform unless probe reports
// CompatibleSoC.
func checkPlatform(probe PlatformProbe) error {
	id, err := probe()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIncompatiblePlatform, err)
	}
	if id != CompatibleSoC {
		return fmt.Errorf("%w: soc_id %q, want %q", ErrIncompatiblePlatform, id, CompatibleSoC)
	}
	return nil
}
