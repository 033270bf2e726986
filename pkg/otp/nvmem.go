package otp

import (
	"os"

	"golang.org/x/sys/unix"
)

// DefaultDevicePath is the nvmem device exported by the imx-ocotp driver.
const DefaultDevicePath = "/sys/bus/nvmem/devices/imx-ocotp0/nvmem"

// Device is byte-addressable fuse storage.
type Device interface {
	ReadAt(p []byte, off int64) (n int, err error)
	WriteAt(p []byte, off int64) (n int, err error)
	Close() error
}

// NVMEM is a Device backed by an nvmem file descriptor. Each ReadAt and
// WriteAt is a single positioned system call so a word is never split across
// two driver requests.
type NVMEM struct {
	fd   int
	path string
}

var _ Device = (*NVMEM)(nil)

// OpenNVMEM opens the nvmem device at path for reading, or for reading and
// writing when readonly is false.
func OpenNVMEM(path string, readonly bool) (*NVMEM, error) {
	flags := unix.O_RDWR
	if readonly {
		flags = unix.O_RDONLY
	}
	fd, err := unix.Open(path, flags|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &IOError{Op: "open", Err: &os.PathError{Op: "open", Path: path, Err: err}}
	}
	return &NVMEM{fd: fd, path: path}, nil
}

// ReadAt implements Device.
func (d *NVMEM) ReadAt(p []byte, off int64) (int, error) {
	n, err := unix.Pread(d.fd, p, off)
	if n < 0 {
		n = 0
	}
	return n, err
}

// WriteAt implements Device.
func (d *NVMEM) WriteAt(p []byte, off int64) (int, error) {
	n, err := unix.Pwrite(d.fd, p, off)
	if n < 0 {
		n = 0
	}
	return n, err
}

// Close releases the file descriptor.
func (d *NVMEM) Close() error {
	if d.fd < 0 {
		return nil
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}

// Path returns the device path the descriptor was opened from.
func (d *NVMEM) Path() string { return d.path }
