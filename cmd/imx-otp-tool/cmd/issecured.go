package cmd

import (
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceOTP/pkg/provision"
)

var isSecuredCmd = &cobra.Command{
	Use:   "is-secured",
	Short: "Exit with status 0 if the device is secured",
	Long: `Check the SEC_CONFIG fuse. The exit status is 0 when the device is closed
for secure boot and 1 when it is open, so the command can be used as a shell
predicate:

  if imx-otp-tool -q is-secured; then ...`,
	Args: cobra.NoArgs,
	RunE: runIsSecured,
}

func init() {
	rootCmd.AddCommand(isSecuredCmd)
}

func runIsSecured(cmd *cobra.Command, args []string) error {
	c, err := openFuses(true)
	if err != nil {
		return err
	}
	defer c.Close()

	secured, err := provision.IsSecured(c)
	if err != nil {
		return err
	}
	if !secured {
		infof(cmd, "Secure config open.\n")
		return &exitError{code: 1}
	}
	infof(cmd, "Secure config closed.\n")
	return nil
}
