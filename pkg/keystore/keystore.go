// Package keystore installs the disk encryption secrets of a provisioned
// board. The secrets live as wrapped blobs in a redundant boot variable store
// and are unwrapped by a hardware-bound key wrapping facility; both are
// reached through the VarStore and KeyWrapper interfaces.
package keystore

import (
	"fmt"

	"k8s.io/klog/v2"
)

// Variable names in the boot variable store.
const (
	SecureKeyVar  = "_ss_key"
	PassphraseVar = "_dmc_passphrase"
)

// VarStore is an open boot variable store.
type VarStore interface {
	// Get returns the value of a variable, or an error if it is not set.
	Get(name string) (string, error)
	Set(name, value string) error
	Close() error
}

// Opener opens the variable store.
type Opener func(flags int) (VarStore, error)

// BlobKind selects which secret a blob holds.
type BlobKind int

const (
	// BlobSecureKey is the hardware-wrapped secure storage key.
	BlobSecureKey BlobKind = iota
	// BlobPassphrase is the dm-crypt passphrase, encrypted with the secure
	// storage key.
	BlobPassphrase
)

var blobKindNames = map[BlobKind]string{
	BlobSecureKey:  "secure-key",
	BlobPassphrase: "passphrase",
}

func (k BlobKind) String() string {
	if name, ok := blobKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("BlobKind(%d)", int(k))
}

// KeyWrapper creates and loads wrapped secrets.
type KeyWrapper interface {
	// CreateBlob generates a new secret and returns it in wrapped, printable
	// form. The secure key must be created before the passphrase.
	CreateBlob(kind BlobKind) (string, error)
	// ImportBlob loads a wrapped secret and returns the unwrapped value.
	ImportBlob(kind BlobKind, blob string) ([]byte, error)
}

// Setup makes the secure storage key and passphrase available.
//
// Unless forceGenerate is set, both blobs are read from the variable store
// and imported. If either is missing, or generation is forced, new blobs are
// created and saved: the passphrase first, then the key, so that a store
// holding a key always holds the matching passphrase. The store is always
// closed.
func Setup(open Opener, wrap KeyWrapper, forceGenerate bool) (err error) {
	store, err := open(0)
	if err != nil {
		return fmt.Errorf("open variable store: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close variable store: %w", cerr)
		}
	}()

	var key, pass string
	generate := forceGenerate
	if !generate {
		var kerr, perr error
		key, kerr = store.Get(SecureKeyVar)
		if kerr == nil {
			pass, perr = store.Get(PassphraseVar)
		}
		generate = kerr != nil || perr != nil
		if generate {
			klog.Infof("keystore: stored secrets incomplete, generating new ones")
		}
	}

	if generate {
		return generateSecrets(store, wrap)
	}
	return importSecrets(wrap, key, pass)
}

func generateSecrets(store VarStore, wrap KeyWrapper) error {
	key, err := wrap.CreateBlob(BlobSecureKey)
	if err != nil {
		return fmt.Errorf("create %s: %w", BlobSecureKey, err)
	}
	pass, err := wrap.CreateBlob(BlobPassphrase)
	if err != nil {
		return fmt.Errorf("create %s: %w", BlobPassphrase, err)
	}

	if err := store.Set(PassphraseVar, pass); err != nil {
		return fmt.Errorf("store %s: %w", PassphraseVar, err)
	}
	if err := store.Set(SecureKeyVar, key); err != nil {
		return fmt.Errorf("store %s: %w", SecureKeyVar, err)
	}
	return nil
}

func importSecrets(wrap KeyWrapper, key, pass string) error {
	if _, err := wrap.ImportBlob(BlobSecureKey, key); err != nil {
		return fmt.Errorf("import %s: %w", BlobSecureKey, err)
	}
	if _, err := wrap.ImportBlob(BlobPassphrase, pass); err != nil {
		return fmt.Errorf("import %s: %w", BlobPassphrase, err)
	}
	return nil
}
