package keystore_test

//go:generate mockgen -write_package_comment=false -self_package github.com/OpenTraceLab/OpenTraceOTP/pkg/keystore_test -package keystore_test -destination mock_keystore_test.go github.com/OpenTraceLab/OpenTraceOTP/pkg/keystore VarStore,KeyWrapper

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/OpenTraceLab/OpenTraceOTP/pkg/keystore"
)

var errNotFound = errors.New("variable not found")

func opener(store keystore.VarStore, err error) keystore.Opener {
	return func(flags int) (keystore.VarStore, error) {
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}

func TestSetupImportsStoredSecrets(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := NewMockVarStore(ctrl)
	wrap := NewMockKeyWrapper(ctrl)

	gomock.InOrder(
		store.EXPECT().Get(keystore.SecureKeyVar).Return("keyblob", nil),
		store.EXPECT().Get(keystore.PassphraseVar).Return("passblob", nil),
		wrap.EXPECT().ImportBlob(keystore.BlobSecureKey, "keyblob").Return([]byte("k"), nil),
		wrap.EXPECT().ImportBlob(keystore.BlobPassphrase, "passblob").Return([]byte("p"), nil),
		store.EXPECT().Close().Return(nil),
	)

	if err := keystore.Setup(opener(store, nil), wrap, false); err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
}

func TestSetupGeneratesMissingSecrets(t *testing.T) {
	testCases := []struct {
		desc  string
		setup func(store *MockVarStore)
		force bool
	}{
		{
			desc: "key missing",
			setup: func(store *MockVarStore) {
				store.EXPECT().Get(keystore.SecureKeyVar).Return("", errNotFound)
			},
		},
		{
			desc: "passphrase missing",
			setup: func(store *MockVarStore) {
				store.EXPECT().Get(keystore.SecureKeyVar).Return("keyblob", nil)
				store.EXPECT().Get(keystore.PassphraseVar).Return("", errNotFound)
			},
		},
		{
			desc:  "forced",
			setup: func(*MockVarStore) {},
			force: true,
		},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := NewMockVarStore(ctrl)
			wrap := NewMockKeyWrapper(ctrl)
			tC.setup(store)

			gomock.InOrder(
				wrap.EXPECT().CreateBlob(keystore.BlobSecureKey).Return("newkey", nil),
				wrap.EXPECT().CreateBlob(keystore.BlobPassphrase).Return("newpass", nil),
				store.EXPECT().Set(keystore.PassphraseVar, "newpass").Return(nil),
				store.EXPECT().Set(keystore.SecureKeyVar, "newkey").Return(nil),
				store.EXPECT().Close().Return(nil),
			)

			if err := keystore.Setup(opener(store, nil), wrap, tC.force); err != nil {
				t.Fatalf("Setup returned error: %v", err)
			}
		})
	}
}

func TestSetupFailures(t *testing.T) {
	errBoom := errors.New("boom")

	t.Run("open fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		wrap := NewMockKeyWrapper(ctrl)

		if err := keystore.Setup(opener(nil, errBoom), wrap, false); !errors.Is(err, errBoom) {
			t.Fatalf("Setup error = %v, want %v", err, errBoom)
		}
	})

	t.Run("passphrase store fails before key is saved", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		store := NewMockVarStore(ctrl)
		wrap := NewMockKeyWrapper(ctrl)

		wrap.EXPECT().CreateBlob(keystore.BlobSecureKey).Return("newkey", nil)
		wrap.EXPECT().CreateBlob(keystore.BlobPassphrase).Return("newpass", nil)
		store.EXPECT().Set(keystore.PassphraseVar, "newpass").Return(errBoom)
		store.EXPECT().Close().Return(nil)

		if err := keystore.Setup(opener(store, nil), wrap, true); !errors.Is(err, errBoom) {
			t.Fatalf("Setup error = %v, want %v", err, errBoom)
		}
	})

	t.Run("import fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		store := NewMockVarStore(ctrl)
		wrap := NewMockKeyWrapper(ctrl)

		store.EXPECT().Get(keystore.SecureKeyVar).Return("keyblob", nil)
		store.EXPECT().Get(keystore.PassphraseVar).Return("passblob", nil)
		wrap.EXPECT().ImportBlob(keystore.BlobSecureKey, "keyblob").Return(nil, errBoom)
		store.EXPECT().Close().Return(nil)

		if err := keystore.Setup(opener(store, nil), wrap, false); !errors.Is(err, errBoom) {
			t.Fatalf("Setup error = %v, want %v", err, errBoom)
		}
	})

	t.Run("close error is reported", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		store := NewMockVarStore(ctrl)
		wrap := NewMockKeyWrapper(ctrl)

		store.EXPECT().Get(gomock.Any()).Return("blob", nil).Times(2)
		wrap.EXPECT().ImportBlob(gomock.Any(), "blob").Return([]byte("x"), nil).Times(2)
		store.EXPECT().Close().Return(errBoom)

		if err := keystore.Setup(opener(store, nil), wrap, false); !errors.Is(err, errBoom) {
			t.Fatalf("Setup error = %v, want %v", err, errBoom)
		}
	})
}
