package otp

import (
	"encoding/binary"
	"fmt"
	"io"

	"k8s.io/klog/v2"
)

// Context owns an open fuse device. It is not safe for concurrent use; the
// device is assumed to be accessed by a single process at a time.
type Context struct {
	dev      Device
	readonly bool
}

type openConfig struct {
	probe  PlatformProbe
	device Device
}

// Option configures Open.
type Option func(*openConfig)

// WithSoCIDPath reads the SoC identity from path instead of DefaultSoCIDPath.
func WithSoCIDPath(path string) Option {
	return func(c *openConfig) {
		c.probe = SoCIDFile(path)
	}
}

// WithPlatformProbe replaces the SoC identity probe.
func WithPlatformProbe(probe PlatformProbe) Option {
	return func(c *openConfig) {
		c.probe = probe
	}
}

// WithDevice uses dev instead of opening the nvmem device at the given path.
// The Context takes ownership of dev and closes it in Close.
func WithDevice(dev Device) Option {
	return func(c *openConfig) {
		c.device = dev
	}
}

// Open checks that the running SoC matches the fuse word table and opens the
// fuse device at path (DefaultDevicePath when empty).
func Open(path string, readonly bool, opts ...Option) (*Context, error) {
	cfg := openConfig{probe: SoCIDFile(DefaultSoCIDPath)}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := checkPlatform(cfg.probe); err != nil {
		return nil, err
	}

	dev := cfg.device
	if dev == nil {
		if path == "" {
			path = DefaultDevicePath
		}
		nv, err := OpenNVMEM(path, readonly)
		if err != nil {
			return nil, err
		}
		dev = nv
	}

	return &Context{dev: dev, readonly: readonly}, nil
}

// Close releases the fuse device. Calling Close more than once is a no-op.
func (c *Context) Close() error {
	if c == nil || c.dev == nil {
		return nil
	}
	err := c.dev.Close()
	c.dev = nil
	return err
}

// ReadOnly reports whether the context was opened without write access.
func (c *Context) ReadOnly() bool { return c.readonly }

// Read returns the current value of a fuse word.
func (c *Context) Read(id WordID) (uint32, error) {
	off, err := c.check(id)
	if err != nil {
		return 0, err
	}

	var buf [WordSize]byte
	n, err := c.dev.ReadAt(buf[:], off)
	if n != WordSize {
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, &IOError{Op: "read", Word: id, Err: err}
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// Write programs a fuse word unconditionally. Fuse writes are permanent;
// callers must only use Write when they know the write is necessary. Update
// is the conditional form.
func (c *Context) Write(id WordID, value uint32) error {
	off, err := c.check(id)
	if err != nil {
		return err
	}

	klog.V(2).Infof("otp: writing %s = 0x%08x", id, value)

	var buf [WordSize]byte
	binary.LittleEndian.PutUint32(buf[:], value)
	n, err := c.dev.WriteAt(buf[:], off)
	if n != WordSize {
		if err == nil {
			err = io.ErrShortWrite
		}
		return &IOError{Op: "write", Word: id, Err: err}
	}
	return nil
}

// Update writes value to a fuse word only if it differs from the current one.
func (c *Context) Update(id WordID, value uint32) error {
	cur, err := c.Read(id)
	if err != nil {
		return err
	}
	if cur == value {
		klog.V(1).Infof("otp: %s already 0x%08x, skipping write", id, value)
		return nil
	}
	return c.Write(id, value)
}

func (c *Context) check(id WordID) (int64, error) {
	off, err := id.Offset()
	if err != nil {
		return 0, err
	}
	if c == nil || c.dev == nil {
		return 0, fmt.Errorf("%w: fuse context is closed", ErrInvalidArgument)
	}
	return off, nil
}
