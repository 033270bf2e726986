package provision

import (
	"fmt"
	"io"

	"github.com/OpenTraceLab/OpenTraceOTP/pkg/otp"
)

// Report is a read-only snapshot of the security fuses.
type Report struct {
	SRK      SRKReport      `json:"srk"`
	Flags    []FlagReport   `json:"flags"`
	Watchdog WatchdogReport `json:"watchdog"`
	Locks    []LockReport   `json:"locks"`
	MAC      string         `json:"mac_address"`
}

// SRKReport describes the programmed SRK hash.
type SRKReport struct {
	Words      otp.SRKHash `json:"words"`
	Hash       string      `json:"hash"`
	Programmed bool        `json:"programmed"`
	// Match is nil when no desired hash was supplied or nothing is programmed.
	Match *bool `json:"match,omitempty"`
}

// FlagReport is one boolean boot configuration field.
type FlagReport struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value bool   `json:"value"`
}

// WatchdogReport is the decoded boot watchdog configuration.
type WatchdogReport struct {
	Enabled        bool `json:"enabled"`
	TimeoutSeconds uint `json:"timeout_seconds"`
}

// LockReport is the decoded state of one lock field.
type LockReport struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

// Inspect reads the SRK, boot configuration, lock and MAC fuses. When
// desired is not nil the report says whether the programmed SRK hash
// matches it.
func Inspect(c *otp.Context, desired *otp.SRKHash) (*Report, error) {
	srk, err := otp.ReadSRK(c)
	if err != nil {
		return nil, fmt.Errorf("read SRK: %w", err)
	}
	cfg, err := otp.ReadBootCfg(c)
	if err != nil {
		return nil, fmt.Errorf("read boot config: %w", err)
	}
	locks, err := otp.ReadLocks(c)
	if err != nil {
		return nil, fmt.Errorf("read locks: %w", err)
	}
	mac, err := otp.ReadMAC(c)
	if err != nil {
		return nil, fmt.Errorf("read MAC address: %w", err)
	}

	r := &Report{
		SRK: SRKReport{
			Words:      srk,
			Hash:       srk.String(),
			Programmed: !srk.IsZero(),
		},
		MAC: mac.String(),
	}
	if r.SRK.Programmed && desired != nil {
		match := srk == *desired
		r.SRK.Match = &match
	}

	for _, id := range otp.BoolFields {
		v, err := cfg.Bool(id)
		if err != nil {
			return nil, err
		}
		r.Flags = append(r.Flags, FlagReport{Name: id.String(), Label: id.Label(), Value: v})
	}

	enabled, timeout, err := cfg.Watchdog()
	if err != nil {
		return nil, err
	}
	r.Watchdog = WatchdogReport{Enabled: enabled, TimeoutSeconds: timeout}

	for id := otp.LockID(0); int(id) < otp.LockCount; id++ {
		s, err := locks.State(id)
		if err != nil {
			return nil, err
		}
		r.Locks = append(r.Locks, LockReport{Name: id.String(), State: s.String()})
	}
	return r, nil
}

// IsSecured reports whether SEC_CONFIG is set.
func IsSecured(c *otp.Context) (bool, error) {
	cfg, err := otp.ReadBootCfg(c)
	if err != nil {
		return false, err
	}
	return cfg.Bool(otp.BootCfgSecConfig)
}

func yesNo(v bool) string {
	if v {
		return "YES"
	}
	return "NO"
}

// WriteText writes the report in the tool's plain text layout.
func (r *Report) WriteText(w io.Writer) error {
	ew := &errWriter{w: w}

	for i, v := range r.SRK.Words {
		ew.printf("SRK_HASH[%d]: %08x\n", i, v)
	}
	ew.printf("\n")
	switch {
	case !r.SRK.Programmed:
		ew.printf("No SRK hashes programmed.\n")
	case r.SRK.Match == nil:
	case *r.SRK.Match:
		ew.printf("SRK fuses match desired programming.\n")
	default:
		ew.printf("SRK fuses DO NOT MATCH desired programming.\n")
	}

	for _, f := range r.Flags {
		ew.printf("%-32.32s %s\n", f.Label+":", yesNo(f.Value))
	}
	ew.printf("%-32.32s %ds\n", "Watchdog timeout:", r.Watchdog.TimeoutSeconds)
	ew.printf("%-32.32s %s\n", "MAC address:", r.MAC)

	ew.printf("\nLocks:\n")
	for _, l := range r.Locks {
		ew.printf("  %-16s %s\n", l.Name, l.State)
	}
	return ew.err
}

// errWriter keeps the first write error so formatting code can stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
