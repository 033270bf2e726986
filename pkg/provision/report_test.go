package provision

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceOTP/pkg/otp"
)

func TestInspect(t *testing.T) {
	c, sim := newSim(t)
	sim.Set(otp.WordSRK0, testHash[0])
	sim.Set(otp.WordLock, 1<<9|3<<14)
	sim.Set(otp.WordBootCfg0, 1<<21|1<<25)
	sim.Set(otp.WordBootCfg1, 1<<10|1<<16)
	sim.Set(otp.WordMACAddr0, 0x22334455)
	sim.Set(otp.WordMACAddr1, 0x0011)

	r, err := Inspect(c, &testHash)
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}

	if !r.SRK.Programmed || r.SRK.Match == nil || *r.SRK.Match {
		t.Fatalf("SRK report = %+v, want programmed mismatch", r.SRK)
	}
	flags := map[string]bool{}
	for _, f := range r.Flags {
		flags[f.Name] = f.Value
	}
	if !flags["SJC_DISABLE"] || !flags["SEC_CONFIG"] || flags["TZASC_ENABLE"] {
		t.Fatalf("flags = %v", flags)
	}
	if r.Watchdog != (WatchdogReport{Enabled: true, TimeoutSeconds: 32}) {
		t.Fatalf("watchdog = %+v, want enabled 32s", r.Watchdog)
	}
	if r.MAC != "00:11:22:33:44:55" {
		t.Fatalf("MAC = %q", r.MAC)
	}
	states := map[string]string{}
	for _, l := range r.Locks {
		states[l.Name] = l.State
	}
	if states["SRK"] != "locked" || states["MAC_ADDR"] != "override-write-protect" || states["GP1"] != "unlocked" {
		t.Fatalf("locks = %v", states)
	}
	if n := len(sim.Writes()); n != 0 {
		t.Fatalf("Inspect wrote %d words", n)
	}
}

func TestReportText(t *testing.T) {
	c, sim := newSim(t)

	r, err := Inspect(c, nil)
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	var buf bytes.Buffer
	if err := r.WriteText(&buf); err != nil {
		t.Fatalf("WriteText returned error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"SRK_HASH[0]: 00000000",
		"SRK_HASH[7]: 00000000",
		"No SRK hashes programmed.",
		"JTAG disabled:",
		fmt.Sprintf("%-32s NO", "Secure config closed:"),
		"Watchdog timeout:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	for i, v := range testHash {
		sim.Set([]otp.WordID{
			otp.WordSRK0, otp.WordSRK1, otp.WordSRK2, otp.WordSRK3,
			otp.WordSRK4, otp.WordSRK5, otp.WordSRK6, otp.WordSRK7,
		}[i], v)
	}
	r, err = Inspect(c, &testHash)
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	buf.Reset()
	if err := r.WriteText(&buf); err != nil {
		t.Fatalf("WriteText returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "SRK fuses match desired programming.") {
		t.Fatalf("output missing match verdict:\n%s", buf.String())
	}
}

func TestReportJSON(t *testing.T) {
	c, _ := newSim(t)
	r, err := Inspect(c, nil)
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if bytes.Contains(data, []byte(`"match"`)) {
		t.Fatalf("unprogrammed report carries a match verdict: %s", data)
	}
	if !bytes.Contains(data, []byte(`"programmed":false`)) {
		t.Fatalf("report JSON = %s", data)
	}
}

func TestIsSecured(t *testing.T) {
	c, sim := newSim(t)
	if secured, err := IsSecured(c); err != nil || secured {
		t.Fatalf("IsSecured on blank device = %v, %v", secured, err)
	}
	sim.Set(otp.WordBootCfg0, 1<<25)
	if secured, err := IsSecured(c); err != nil || !secured {
		t.Fatalf("IsSecured with SEC_CONFIG = %v, %v", secured, err)
	}
}
