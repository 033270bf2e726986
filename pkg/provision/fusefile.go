package provision

import (
	"errors"
	"fmt"
	"io"
	"os"

	"k8s.io/klog/v2"

	"github.com/OpenTraceLab/OpenTraceOTP/pkg/otp"
)

// LoadFuseFile reads the desired SRK hash from a fuse file, typically the
// SRK_1_2_3_4_fuse.bin written by the NXP code signing tool. Only the first
// 32 bytes are used.
//
// A file of all zero bytes is not a usable hash: LoadFuseFile logs a warning
// and returns nil, as if no file had been given.
func LoadFuseFile(path string) (*otp.SRKHash, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h, err := ReadFuseFile(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if h == nil {
		klog.Warningf("%s: fuse file is all zeros, ignoring it", path)
	}
	return h, nil
}

// ReadFuseFile decodes a desired SRK hash from r. See LoadFuseFile.
func ReadFuseFile(r io.Reader) (*otp.SRKHash, error) {
	buf := make([]byte, otp.SRKHashSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.New("file too short")
		}
		return nil, err
	}
	h, err := otp.SRKHashFromBytes(buf)
	if err != nil {
		return nil, err
	}
	if h.IsZero() {
		return nil, nil
	}
	return &h, nil
}
