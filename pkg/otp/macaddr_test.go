package otp

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMACLayout(t *testing.T) {
	mac, err := ParseMAC("00:11:22:33:44:55")
	if err != nil {
		t.Fatalf("ParseMAC returned error: %v", err)
	}
	mac0, mac1 := mac.Words()
	if mac0 != 0x22334455 || mac1 != 0x0011 {
		t.Fatalf("Words() = 0x%08x, 0x%08x; want 0x22334455, 0x00000011", mac0, mac1)
	}
	if got := macFromWords(mac0, mac1); got != mac {
		t.Fatalf("macFromWords = %s, want %s", got, mac)
	}
	if got := mac.String(); got != "00:11:22:33:44:55" {
		t.Fatalf("String() = %q", got)
	}
}

func TestParseMACRejects(t *testing.T) {
	for _, s := range []string{"", "00:11:22", "00:00:5e:00:53:01:02:03", "zz:11:22:33:44:55"} {
		if _, err := ParseMAC(s); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("ParseMAC(%q) error = %v, want ErrInvalidArgument", s, err)
		}
	}
}

func TestWriteMAC(t *testing.T) {
	addr := MACAddress{0x02, 0x00, 0x5e, 0x10, 0x20, 0x30}
	other := MACAddress{0x02, 0x00, 0x5e, 0x10, 0x20, 0x31}

	tests := []struct {
		name       string
		current    MACAddress
		wantErr    error
		wantWrites []WriteOp
	}{
		{
			name: "blank",
			wantWrites: []WriteOp{
				{Word: WordMACAddr0, Value: 0x5e102030},
				{Word: WordMACAddr1, Value: 0x0200},
			},
		},
		{name: "same address", current: addr},
		{name: "different address", current: other, wantErr: ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, sim := newSimContext(t)
			mac0, mac1 := tt.current.Words()
			sim.Set(WordMACAddr0, mac0)
			sim.Set(WordMACAddr1, mac1)

			if err := WriteMAC(c, addr); !errors.Is(err, tt.wantErr) {
				t.Fatalf("WriteMAC error = %v, want %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.wantWrites, sim.Writes()); diff != "" {
				t.Fatalf("writes mismatch (-want +got):\n%s", diff)
			}
			if tt.wantErr == nil {
				got, err := ReadMAC(c)
				if err != nil {
					t.Fatalf("ReadMAC returned error: %v", err)
				}
				if got != addr {
					t.Fatalf("ReadMAC = %s, want %s", got, addr)
				}
			}
		})
	}
}
