package keystore

import (
	"bytes"
	"fmt"

	"golang.org/x/sys/unix"
	"k8s.io/klog/v2"
)

// Kernel key names and types used for the wrapped secrets.
const (
	secureKeyName  = "sskey"
	passphraseName = "dmcryptpp"
)

// keyPerm grants the possessor and owner full access and lets everyone else
// view and search the key.
const keyPerm = 0x3f000000 | 0x003f0000 | 0x00000100 | 0x00000800 | 0x00000001 | 0x00000008

// keyctl is the subset of the kernel key management calls used by Keyring.
type keyctl interface {
	Search(ringid int, keyType, desc string) (int, error)
	Add(keyType, desc string, payload []byte, ringid int) (int, error)
	Setperm(id int, perm uint32) error
	Link(id, ringid int) error
	Read(id int) ([]byte, error)
}

// Keyring is a KeyWrapper backed by the kernel keyring. The secure storage
// key is a CAAM "secure" key and the passphrase an "encrypted" key sealed with
// it. Both are linked into the user keyring so other processes can use them.
type Keyring struct {
	ctl keyctl
}

var _ KeyWrapper = (*Keyring)(nil)

// NewKeyring returns a Keyring using the kernel key management system calls.
func NewKeyring() *Keyring {
	return &Keyring{ctl: sysKeyctl{}}
}

func keySpec(kind BlobKind) (keyType, name, newPayload string, err error) {
	switch kind {
	case BlobSecureKey:
		return "secure", secureKeyName, "new 32", nil
	case BlobPassphrase:
		return "encrypted", passphraseName, "new default secure:" + secureKeyName + " 32", nil
	}
	return "", "", "", fmt.Errorf("unknown blob kind %s", kind)
}

// CreateBlob creates a new key of the given kind, or reuses the one already
// in the user keyring, and returns its wrapped blob.
func (k *Keyring) CreateBlob(kind BlobKind) (string, error) {
	keyType, name, payload, err := keySpec(kind)
	if err != nil {
		return "", err
	}
	id, err := k.install(keyType, name, payload)
	if err != nil {
		return "", err
	}
	blob, err := k.ctl.Read(id)
	if err != nil {
		return "", fmt.Errorf("read %s key: %w", name, err)
	}
	return string(blob), nil
}

// ImportBlob loads a wrapped blob into the keyring. A key already present
// must hold the same blob.
func (k *Keyring) ImportBlob(kind BlobKind, blob string) ([]byte, error) {
	keyType, name, _, err := keySpec(kind)
	if err != nil {
		return nil, err
	}
	id, err := k.install(keyType, name, "load "+blob)
	if err != nil {
		return nil, err
	}
	got, err := k.ctl.Read(id)
	if err != nil {
		return nil, fmt.Errorf("read %s key: %w", name, err)
	}
	if string(got) != blob {
		return nil, fmt.Errorf("%s key does not match the stored blob: %w", name, unix.EIO)
	}
	return got, nil
}

// install finds a key in the user keyring, or adds it with payload. New keys
// are created in the session keyring, opened up and then linked into the
// user keyring since only the possessor may change a fresh key.
func (k *Keyring) install(keyType, name, payload string) (int, error) {
	id, err := k.ctl.Search(unix.KEY_SPEC_USER_KEYRING, keyType, name)
	if err == nil {
		klog.V(1).Infof("keystore: using %s key %q (%d) from user keyring", keyType, name, id)
		if err := k.ctl.Link(id, unix.KEY_SPEC_SESSION_KEYRING); err != nil {
			klog.Warningf("keystore: link %s into session keyring: %v", name, err)
		}
		return id, nil
	}

	id, err = k.ctl.Add(keyType, name, []byte(payload), unix.KEY_SPEC_SESSION_KEYRING)
	if err != nil {
		return 0, fmt.Errorf("add %s key %q: %w", keyType, name, err)
	}
	if err := k.ctl.Setperm(id, keyPerm); err != nil {
		return 0, fmt.Errorf("set permissions on %s: %w", name, err)
	}
	if err := k.ctl.Link(id, unix.KEY_SPEC_USER_KEYRING); err != nil {
		return 0, fmt.Errorf("link %s into user keyring: %w", name, err)
	}
	klog.V(1).Infof("keystore: added %s key %q (%d)", keyType, name, id)
	return id, nil
}

type sysKeyctl struct{}

func (sysKeyctl) Search(ringid int, keyType, desc string) (int, error) {
	return unix.KeyctlSearch(ringid, keyType, desc, 0)
}

func (sysKeyctl) Add(keyType, desc string, payload []byte, ringid int) (int, error) {
	return unix.AddKey(keyType, desc, payload, ringid)
}

func (sysKeyctl) Setperm(id int, perm uint32) error {
	return unix.KeyctlSetperm(id, perm)
}

func (sysKeyctl) Link(id, ringid int) error {
	_, err := unix.KeyctlInt(unix.KEYCTL_LINK, id, ringid, 0, 0)
	return err
}

// Read returns the payload of a key. The size can change between calls, so
// it retries until the buffer is large enough.
func (sysKeyctl) Read(id int) ([]byte, error) {
	var buf []byte
	for {
		n, err := unix.KeyctlBuffer(unix.KEYCTL_READ, id, buf, 0)
		if err != nil {
			return nil, err
		}
		if n <= len(buf) {
			return bytes.TrimRight(buf[:n], "\x00"), nil
		}
		buf = make([]byte, n)
	}
}
