package commands

import (
	"fmt"

	"github.com/celer/vkcompute/compute"
	"github.com/celer/vkcompute/internal/config"
	"github.com/celer/vkcompute/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "vkcompute",
	Short: "Run one-shot copy and compute jobs on a Vulkan GPU",
	Long: `vkcompute drives a Vulkan device directly: it allocates host visible
buffers, records a single command buffer, submits it with a fence and checks
the results once the fence has signaled.

The copy command moves a payload between two buffers on the GPU, the multiply
command runs a compute shader scaling every element, and info lists what the
driver exposes.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command. A failure is logged, and also printed when
// console logging is off so the terminal still shows why it exited.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		logging.Get().WithError(err).Error("command failed")
		if cfg != nil && !cfg.Logging.Console {
			rootCmd.PrintErrln("Error:", err)
		}
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.vkcompute/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().Int("device", 0, "physical device index")
	rootCmd.PersistentFlags().Bool("validation", false, "enable the Khronos validation layer")
	rootCmd.PersistentFlags().Int("show", 0, "number of elements to print, -1 for all")
}

// setup loads the configuration, applies global flag overrides and starts logging
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("device") {
		c.Device.Index, _ = flags.GetInt("device")
	}
	if flags.Changed("validation") {
		c.Device.Validation, _ = flags.GetBool("validation")
	}
	if flags.Changed("show") {
		c.Output.Show, _ = flags.GetInt("show")
	}
	if verbose {
		c.Logging.Level = "debug"
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validating flags: %w", err)
	}

	if err := logging.Init(c.Logging.Level, c.Logging.File, c.Logging.Console); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	if used := c.Logging.File; used != "" {
		logging.Debugf("logging to %s", used)
	}

	cfg = c
	return nil
}

func openSession(c compute.Capability) (*compute.Session, error) {
	return compute.Open(compute.Options{
		AppName:     cfg.App.Name,
		DeviceIndex: cfg.Device.Index,
		Capability:  c,
		Validation:  cfg.Device.Validation,
		Logger:      logging.Get(),
	})
}
