package cmd

import (
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceOTP/pkg/provision"
)

var secureCmd = &cobra.Command{
	Use:   "secure",
	Short: "Program the SRK hash and close the device",
	Long: `Run the provisioning workflow:

  1. program the SRK hash from the fuse file
  2. lock the SRK fuses
  3. set SEC_CONFIG so that only signed images boot

Each step is skipped when its fuses are already in the wanted state, so the
command can be re-run after an interruption. A fuse file is required.

WARNING: fuse programming is permanent.`,
	Args: cobra.NoArgs,
	RunE: runSecure,
}

func init() {
	rootCmd.AddCommand(secureCmd)
}

func runSecure(cmd *cobra.Command, args []string) error {
	if desired == nil {
		return provision.ErrNoFuseFile
	}

	c, err := openFuses(false)
	if err != nil {
		return err
	}
	defer c.Close()

	results, err := provision.Secure(c, desired)
	for _, r := range results {
		infof(cmd, "%s.\n", r.Message())
	}
	return err
}
