package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceOTP/pkg/keystore"
)

// DefaultKeyStorePath holds the wrapped disk encryption secrets.
const DefaultKeyStorePath = "/var/lib/imx-otp-tool/keystore.yaml"

var (
	keyStorePath string
	forceKeys    bool

	// newKeyWrapper is replaced in tests, which cannot reach the CAAM.
	newKeyWrapper = func() keystore.KeyWrapper { return keystore.NewKeyring() }
)

var keystoreCmd = &cobra.Command{
	Use:   "keystore",
	Short: "Install the disk encryption passphrase into the kernel keyring",
	Long: `Load the secure storage key and the dm-crypt passphrase into the user
keyring from their wrapped blobs in the key store file. When either blob is
missing, or --generate is given, new secrets are created and saved.

Only a secured board protects the blobs: they are wrapped with a key that
the CAAM derives from the fused master key.`,
	Args: cobra.NoArgs,
	RunE: runKeystore,
}

func init() {
	rootCmd.AddCommand(keystoreCmd)
	keystoreCmd.Flags().StringVar(&keyStorePath, "store", DefaultKeyStorePath, "key store file")
	keystoreCmd.Flags().BoolVarP(&forceKeys, "generate", "g", false, "generate new secrets even if stored ones exist")
}

func runKeystore(cmd *cobra.Command, args []string) error {
	open := func(flags int) (keystore.VarStore, error) {
		return keystore.OpenFileStore(keyStorePath)(flags | os.O_CREATE)
	}
	if err := keystore.Setup(open, newKeyWrapper(), forceKeys); err != nil {
		return err
	}
	infof(cmd, "Keystore ready.\n")
	return nil
}
