package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceOTP/pkg/recipe"
)

var programDryRun bool

var programCmd = &cobra.Command{
	Use:   "program <recipe>",
	Short: "Program fuses from a recipe file",
	Long: `Program boot configuration, MAC address and lock fuses described by a recipe.

A recipe is a list of statements, one per line:

  # comments start with '#'
  bootcfg SJC_DISABLE = true;
  watchdog on timeout 32;
  mac 00:04:9f:01:02:03;
  lock BOOT_CFG write-protect;
  lock SRK;

The recipe is checked against the current fuses first. It is refused if it
would need a fuse bit cleared or touches write protected fuses. Use --dry-run
to print the words that would be written.`,
	Args: cobra.ExactArgs(1),
	RunE: runProgram,
}

func init() {
	rootCmd.AddCommand(programCmd)

	programCmd.Flags().BoolVarP(&programDryRun, "dry-run", "n", false,
		"print the planned writes without programming")
}

func runProgram(cmd *cobra.Command, args []string) error {
	parser, err := recipe.NewParser()
	if err != nil {
		return err
	}
	file, err := parser.ParseFile(args[0])
	if err != nil {
		return err
	}

	c, err := openFuses(programDryRun)
	if err != nil {
		return err
	}
	defer c.Close()

	plan, err := file.Plan(c)
	if err != nil {
		return err
	}

	changes := plan.Changes()
	if len(changes) == 0 {
		infof(cmd, "Fuses already match %s.\n", args[0])
		return nil
	}
	if programDryRun {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Would write %d fuse word(s):\n", len(changes))
		for _, ch := range changes {
			fmt.Fprintf(out, "  %s\n", ch)
		}
		return nil
	}

	for _, ch := range changes {
		infof(cmd, "Writing %s\n", ch)
	}
	if err := plan.Apply(c); err != nil {
		return err
	}
	infof(cmd, "Programmed %d fuse word(s).\n", len(changes))
	return nil
}
