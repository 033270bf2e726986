package provision

import (
	"errors"
	"fmt"

	"k8s.io/klog/v2"

	"github.com/OpenTraceLab/OpenTraceOTP/pkg/otp"
)

// ErrNoFuseFile is returned by Secure when no desired SRK hash was supplied.
var ErrNoFuseFile = errors.New("secure operation requires fuse file")

// Step identifies one stage of the secure workflow.
type Step int

const (
	// StepSRK programs the SRK hash fuses.
	StepSRK Step = iota
	// StepSRKLock locks the SRK fuses against further programming.
	StepSRKLock
	// StepSecConfig closes the device by setting SEC_CONFIG.
	StepSecConfig
)

var stepNames = map[Step]string{
	StepSRK:       "srk",
	StepSRKLock:   "srk-lock",
	StepSecConfig: "sec-config",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// StepResult records what a workflow step did.
type StepResult struct {
	Step    Step `json:"step"`
	Changed bool `json:"changed"`
}

var stepMessages = map[Step][2]string{
	StepSRK:       {"SRK hash already programmed", "SRK hash programmed"},
	StepSRKLock:   {"SRK fuses already locked", "SRK fuses locked"},
	StepSecConfig: {"Secure config already closed", "Secure config closed"},
}

// Message returns a one line, human readable summary of the result.
func (r StepResult) Message() string {
	m, ok := stepMessages[r.Step]
	if !ok {
		return r.Step.String()
	}
	if r.Changed {
		return m[1]
	}
	return m[0]
}

// Secure brings the device to a secure-boot closed state in three steps:
// program the SRK hash, lock the SRK fuses, set SEC_CONFIG.
//
// Every step checks the current fuse state first and does nothing when it is
// already satisfied, so Secure can be re-run after an interruption and picks up
// from the first unmet step. The results of the steps that ran are returned
// even when a later step fails.
func Secure(c *otp.Context, desired *otp.SRKHash) ([]StepResult, error) {
	if desired == nil {
		return nil, ErrNoFuseFile
	}

	steps := []struct {
		step Step
		run  func() (bool, error)
	}{
		{StepSRK, func() (bool, error) { return secureSRK(c, *desired) }},
		{StepSRKLock, func() (bool, error) { return secureSRKLock(c) }},
		{StepSecConfig, func() (bool, error) { return secureSecConfig(c) }},
	}

	results := make([]StepResult, 0, len(steps))
	for _, s := range steps {
		changed, err := s.run()
		if err != nil {
			return results, fmt.Errorf("%s: %w", s.step, err)
		}
		klog.V(1).Infof("provision: step %s done (changed=%v)", s.step, changed)
		results = append(results, StepResult{Step: s.step, Changed: changed})
	}
	return results, nil
}

func secureSRK(c *otp.Context, desired otp.SRKHash) (bool, error) {
	cur, err := otp.ReadSRK(c)
	if err != nil {
		return false, err
	}
	if cur == desired {
		return false, nil
	}
	if err := otp.WriteSRK(c, desired); err != nil {
		return false, err
	}
	return true, nil
}

func secureSRKLock(c *otp.Context) (bool, error) {
	locks, err := otp.ReadLocks(c)
	if err != nil {
		return false, err
	}
	state, err := locks.State(otp.LockSRK)
	if err != nil {
		return false, err
	}

	switch state {
	case otp.LockLocked:
		return false, nil
	case otp.LockUnlocked:
	default:
		return false, fmt.Errorf("%w: SRK lock is %s", otp.ErrUnexpectedState, state)
	}

	if err := locks.SetState(otp.LockSRK, otp.LockLocked); err != nil {
		return false, err
	}
	if err := otp.CommitLocks(c, locks); err != nil {
		return false, err
	}
	return true, nil
}

func secureSecConfig(c *otp.Context) (bool, error) {
	cfg, err := otp.ReadBootCfg(c)
	if err != nil {
		return false, err
	}
	closed, err := cfg.Bool(otp.BootCfgSecConfig)
	if err != nil {
		return false, err
	}
	if closed {
		return false, nil
	}
	if err := cfg.SetBool(otp.BootCfgSecConfig, true); err != nil {
		return false, err
	}
	if err := otp.CommitBootCfg(c, cfg); err != nil {
		return false, err
	}
	return true, nil
}
