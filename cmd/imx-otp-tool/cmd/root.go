package cmd

import (
	"errors"
	"flag"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
	"k8s.io/klog/v2"

	"github.com/OpenTraceLab/OpenTraceOTP/internal/config"
	"github.com/OpenTraceLab/OpenTraceOTP/pkg/otp"
	"github.com/OpenTraceLab/OpenTraceOTP/pkg/provision"
)

var (
	// Global flags
	configPath string
	devicePath string
	socIDFile  string
	fuseFile   string
	quiet      bool

	// settings is the merged configuration, set before every command runs.
	settings *config.Config
	// desired is the SRK hash loaded from the fuse file, nil without one.
	desired *otp.SRKHash
)

var rootCmd = &cobra.Command{
	Use:   "imx-otp-tool",
	Short: "Inspect and program i.MX8M Mini security fuses",
	Long: `A tool for establishing a hardware root of trust on i.MX8M Mini boards by
programming and inspecting the on-chip OTP fuses: the SRK hash, the secure boot
configuration and the lock bits.

Fuse programming is irreversible. Every command reads the current fuse state
first and only writes what is missing, so an interrupted run can be repeated.

Examples:
  imx-otp-tool show -f SRK_1_2_3_4_fuse.bin     # Report fuses, compare SRK hash
  imx-otp-tool is-secured && echo closed        # Exit status 0 when secured
  imx-otp-tool secure -f SRK_1_2_3_4_fuse.bin   # Program SRK, lock it, close device
  imx-otp-tool program --dry-run board.otp      # Preview a fuse recipe`,
	Version:           "0.1.0",
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

// exitError carries a process exit status. A nil err exits silently.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// Execute runs the root command and returns the process exit status.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", ee.err)
		}
		return ee.code
	}

	fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	var errno unix.Errno
	if errors.As(err, &errno) && errno != 0 {
		return int(errno)
	}
	return 1
}

func init() {
	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	rootCmd.PersistentFlags().AddGoFlagSet(klogFlags)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"YAML configuration file")
	rootCmd.PersistentFlags().StringVarP(&devicePath, "device", "d", otp.DefaultDevicePath,
		"path to the OTP nvmem device")
	rootCmd.PersistentFlags().StringVar(&socIDFile, "soc-id-file", otp.DefaultSoCIDPath,
		"file holding the SoC identity")
	rootCmd.PersistentFlags().StringVarP(&fuseFile, "fuse-file", "f", "",
		"file holding the desired SRK hash (32 bytes)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress progress messages")
}

// loadSettings merges the configuration file with the flags given on the
// command line.
func loadSettings(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("device") {
		cfg.Device = devicePath
	}
	if flags.Changed("soc-id-file") {
		cfg.SoCIDFile = socIDFile
	}
	if flags.Changed("fuse-file") {
		cfg.FuseFile = fuseFile
	}
	if flags.Changed("quiet") {
		cfg.Quiet = quiet
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The fuse file is checked before any command touches the fuses.
	hash, err := loadDesired(cfg.FuseFile)
	if err != nil {
		return err
	}

	settings = cfg
	desired = hash
	klog.V(1).Infof("using device %s", settings.Device)
	return nil
}

// openFuses checks the platform and opens the fuse device.
func openFuses(readonly bool) (*otp.Context, error) {
	c, err := otp.Open(settings.Device, readonly, otp.WithSoCIDPath(settings.SoCIDFile))
	if err != nil {
		return nil, fmt.Errorf("open fuses: %w", err)
	}
	return c, nil
}

// loadDesired loads the SRK hash from the fuse file, or returns nil when
// none is configured.
func loadDesired(path string) (*otp.SRKHash, error) {
	if path == "" {
		return nil, nil
	}
	return provision.LoadFuseFile(path)
}

// infof prints a progress message unless --quiet is set.
func infof(cmd *cobra.Command, format string, args ...any) {
	if settings != nil && settings.Quiet {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
