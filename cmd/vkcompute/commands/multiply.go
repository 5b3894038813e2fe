package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/celer/vkcompute/compute"
	"github.com/celer/vkcompute/internal/logging"
	"github.com/celer/vkcompute/vkg"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var multiplyCmd = &cobra.Command{
	Use:   "multiply",
	Short: "Multiply 0..n-1 by a constant in a compute shader",
	Long: `Upload the values 0..elements-1 to a storage buffer, dispatch the
multiply kernel over it and check that every element was scaled exactly once.

With --delay the submission is recorded and submitted explicitly and the host
sleeps before waiting on the fence, exercising the pending read guard.`,
	RunE: runMultiply,
}

func init() {
	multiplyCmd.Flags().Int("elements", 0, "number of 32 bit values")
	multiplyCmd.Flags().Uint32("factor", 0, "constant each value is multiplied by")
	multiplyCmd.Flags().Duration("delay", 0, "sleep between submit and wait")
	rootCmd.AddCommand(multiplyCmd)
}

func runMultiply(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if flags.Changed("elements") {
		cfg.Multiply.Elements, _ = flags.GetInt("elements")
	}
	if flags.Changed("factor") {
		cfg.Multiply.Factor, _ = flags.GetUint32("factor")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	delay, _ := flags.GetDuration("delay")

	s, err := openSession(compute.CapabilityCompute)
	if err != nil {
		return err
	}
	defer s.Close()

	in := vkg.Uint32Range(cfg.Multiply.Elements)
	factor := cfg.Multiply.Factor

	start := time.Now()
	var out []uint32
	if delay > 0 {
		out, err = multiplyDelayed(s, in, factor, delay)
	} else {
		out, err = s.Multiply(in, factor)
	}
	if err != nil {
		return err
	}
	if err := compute.VerifyMultiplied(in, out, factor); err != nil {
		return fmt.Errorf("multiply mismatch: %w", err)
	}

	logging.Get().WithFields(logrus.Fields{
		"elements":   len(out),
		"factor":     factor,
		"workgroups": compute.WorkgroupCount(len(out), compute.MultiplyWorkgroupSize),
		"elapsed":    time.Since(start),
	}).Info("multiply verified")

	printProducts(cmd.OutOrStdout(), in, out, factor, cfg.Output.Show)
	return nil
}

// multiplyDelayed drives each stage by hand, sleeping between submit and wait
func multiplyDelayed(s *compute.Session, in []uint32, factor uint32, delay time.Duration) ([]uint32, error) {
	log := logging.Get()

	k, err := s.NewMultiplyKernel(factor)
	if err != nil {
		return nil, err
	}
	defer k.Destroy()

	data, err := s.AllocateBufferFrom(compute.UsageStorage, vkg.Uint32Slice(in))
	if err != nil {
		return nil, err
	}
	defer data.Destroy()

	r, err := s.Record(compute.DispatchOp{Kernel: k, Data: data})
	if err != nil {
		return nil, err
	}
	sub, err := s.Submit(r)
	if err != nil {
		return nil, err
	}

	if _, err := data.Uint32s(); errors.Is(err, compute.ErrBufferPending) {
		log.Debug("read refused while submission pending")
	}

	time.Sleep(delay)
	log.WithFields(logrus.Fields{
		"delay":    delay,
		"signaled": sub.Signaled(),
		"pending":  data.Pending(),
		"state":    s.State().String(),
	}).Debug("waiting on fence")

	if err := sub.Wait(); err != nil {
		return nil, err
	}
	return data.Uint32s()
}
