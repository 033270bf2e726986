package recipe

import (
	"fmt"
	"strings"

	"k8s.io/klog/v2"

	"github.com/OpenTraceLab/OpenTraceOTP/pkg/otp"
)

// fuseState is the part of the fuse map a recipe can change.
type fuseState struct {
	cfg   otp.BootCfg
	locks otp.LockWord
	mac   otp.MACAddress

	// srkSet is read only; recipes cannot program the SRK hash.
	srkSet bool
}

func readState(c *otp.Context) (fuseState, error) {
	var s fuseState
	var err error
	if s.cfg, err = otp.ReadBootCfg(c); err != nil {
		return s, err
	}
	if s.locks, err = otp.ReadLocks(c); err != nil {
		return s, err
	}
	if s.mac, err = otp.ReadMAC(c); err != nil {
		return s, err
	}
	srk, err := otp.ReadSRK(c)
	if err != nil {
		return s, err
	}
	s.srkSet = !srk.IsZero()
	return s, nil
}

// words flattens the state into fuse words in commit order.
func (s fuseState) words() []wordValue {
	var out []wordValue
	ids := []otp.WordID{otp.WordBootCfg0, otp.WordBootCfg1, otp.WordBootCfg2, otp.WordBootCfg3, otp.WordBootCfg4}
	for i, id := range ids {
		out = append(out, wordValue{id, s.cfg[i]})
	}
	mac0, mac1 := s.mac.Words()
	out = append(out, wordValue{otp.WordMACAddr0, mac0}, wordValue{otp.WordMACAddr1, mac1})
	return append(out, wordValue{otp.WordLock, uint32(s.locks)})
}

type wordValue struct {
	id    otp.WordID
	value uint32
}

// Change is a pending update of one fuse word.
type Change struct {
	Word otp.WordID
	From uint32
	To   uint32
}

func (ch Change) String() string {
	return fmt.Sprintf("%-12s 0x%08x -> 0x%08x", ch.Word, ch.From, ch.To)
}

// Plan is a recipe resolved against the current fuse state. It is only valid
// for the fuse state it was computed from.
type Plan struct {
	cur  fuseState
	next fuseState
}

// Plan reads the current fuses, applies the recipe in memory and checks that
// the result can be programmed. It fails with otp.ErrConflict when the recipe
// needs a fuse bit cleared, changes BOOT_CFG or MAC_ADDR fuses that are write
// protected, or asks for a MAC address other than the programmed one. Closing
// the secure configuration or locking the SRK fuses is refused until the SRK
// hash has been programmed.
func (f *File) Plan(c *otp.Context) (*Plan, error) {
	cur, err := readState(c)
	if err != nil {
		return nil, err
	}

	next := cur
	for _, st := range f.Statements {
		if err := st.apply(&next); err != nil {
			return nil, fmt.Errorf("%s: %w", st.Pos, err)
		}
	}

	p := &Plan{cur: cur, next: next}
	if err := p.check(); err != nil {
		return nil, err
	}
	return p, nil
}

func (st *Statement) apply(s *fuseState) error {
	switch {
	case st.BootCfg != nil:
		id, err := otp.ParseBootCfgID(st.BootCfg.Field)
		if err != nil {
			return err
		}
		return s.cfg.SetBool(id, strings.EqualFold(st.BootCfg.Value, "true"))

	case st.Watchdog != nil:
		var timeout uint
		if st.Watchdog.Timeout != nil {
			if *st.Watchdog.Timeout <= 0 {
				return fmt.Errorf("%w: watchdog timeout must be positive", otp.ErrInvalidArgument)
			}
			timeout = uint(*st.Watchdog.Timeout)
		}
		return s.cfg.SetWatchdog(strings.EqualFold(st.Watchdog.State, "on"), timeout)

	case st.MAC != nil:
		addr, err := otp.ParseMAC(st.MAC.Address)
		if err != nil {
			return err
		}
		if !s.mac.IsZero() && s.mac != addr {
			return fmt.Errorf("%w: MAC address already set to %s", otp.ErrConflict, s.mac)
		}
		s.mac = addr
		return nil

	case st.Lock != nil:
		id, err := otp.ParseLockID(st.Lock.Name)
		if err != nil {
			return err
		}
		state := otp.LockWriteProtect
		if id.Width() == 1 {
			state = otp.LockLocked
		}
		if st.Lock.State != "" {
			if state, err = otp.ParseLockState(st.Lock.State); err != nil {
				return err
			}
		}
		return s.locks.SetState(id, state)
	}
	return fmt.Errorf("%w: empty statement", otp.ErrInvalidArgument)
}

func writeProtected(w otp.LockWord, id otp.LockID) bool {
	s, err := w.State(id)
	if err != nil {
		return false
	}
	return s == otp.LockWriteProtect || s == otp.LockOverrideWriteProtect
}

func (p *Plan) check() error {
	cur, next := p.cur.words(), p.next.words()
	for i := range cur {
		if cleared := cur[i].value &^ next[i].value; cleared != 0 {
			return fmt.Errorf("%w: %s would need bits 0x%08x cleared", otp.ErrConflict, cur[i].id, cleared)
		}
	}

	if p.cur.cfg != p.next.cfg && writeProtected(p.cur.locks, otp.LockBootCfg) {
		return fmt.Errorf("%w: BOOT_CFG fuses are write protected", otp.ErrConflict)
	}
	if p.cur.mac != p.next.mac && writeProtected(p.cur.locks, otp.LockMACAddr) {
		return fmt.Errorf("%w: MAC_ADDR fuses are write protected", otp.ErrConflict)
	}

	if !p.cur.srkSet {
		if !secConfig(p.cur.cfg) && secConfig(p.next.cfg) {
			return fmt.Errorf("%w: SEC_CONFIG cannot be closed before the SRK hash is programmed", otp.ErrConflict)
		}
		if !srkLocked(p.cur.locks) && srkLocked(p.next.locks) {
			return fmt.Errorf("%w: SRK fuses cannot be locked before the SRK hash is programmed", otp.ErrConflict)
		}
	}
	return nil
}

func secConfig(cfg otp.BootCfg) bool {
	v, err := cfg.Bool(otp.BootCfgSecConfig)
	return err == nil && v
}

func srkLocked(w otp.LockWord) bool {
	s, err := w.State(otp.LockSRK)
	return err == nil && s == otp.LockLocked
}

// Changes lists the fuse words the plan would write, in write order.
func (p *Plan) Changes() []Change {
	var out []Change
	cur, next := p.cur.words(), p.next.words()
	for i := range cur {
		if cur[i].value != next[i].value {
			out = append(out, Change{Word: cur[i].id, From: cur[i].value, To: next[i].value})
		}
	}
	return out
}

// Empty reports whether the plan writes nothing.
func (p *Plan) Empty() bool {
	return p.cur == p.next
}

// Apply programs the plan: boot configuration first, then the MAC address,
// then the lock word so new locks seal what was just written. The fuses must
// still be in the state the plan was computed from.
func (p *Plan) Apply(c *otp.Context) error {
	now, err := readState(c)
	if err != nil {
		return err
	}
	if now != p.cur {
		return fmt.Errorf("%w: fuses changed since the plan was made", otp.ErrConflict)
	}
	if p.Empty() {
		klog.V(1).Info("recipe: nothing to program")
		return nil
	}

	if p.next.cfg != p.cur.cfg {
		if err := otp.CommitBootCfg(c, p.next.cfg); err != nil {
			return fmt.Errorf("boot config: %w", err)
		}
	}
	if p.next.mac != p.cur.mac {
		if err := otp.WriteMAC(c, p.next.mac); err != nil {
			return fmt.Errorf("MAC address: %w", err)
		}
	}
	if p.next.locks != p.cur.locks {
		if err := otp.CommitLocks(c, p.next.locks); err != nil {
			return fmt.Errorf("locks: %w", err)
		}
	}
	return nil
}
