package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceOTP/pkg/provision"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Report the security fuses",
	Long: `Print the programmed SRK hash, the secure boot configuration flags, the
watchdog setting, the MAC address and the state of every lock field.

When a fuse file is given, the programmed SRK hash is compared against it.
The device is opened read-only.`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolVar(&showJSON, "json", false, "print the report as JSON")
}

func runShow(cmd *cobra.Command, args []string) error {
	c, err := openFuses(true)
	if err != nil {
		return err
	}
	defer c.Close()

	report, err := provision.Inspect(c, desired)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		_, err = fmt.Fprintf(out, "%s\n", data)
		return err
	}
	return report.WriteText(out)
}
