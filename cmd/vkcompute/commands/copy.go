package commands

import (
	"fmt"
	"time"

	"github.com/celer/vkcompute/compute"
	"github.com/celer/vkcompute/internal/config"
	"github.com/celer/vkcompute/internal/logging"
	"github.com/celer/vkcompute/vkg"
	"github.com/docker/go-units"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy a payload between two GPU buffers",
	Long: `Fill a transfer source buffer with a payload, copy it into a zeroed
destination buffer on the GPU and compare the destination with the source.

Payloads:
  sequence  the 32 bit values 0..elements-1
  identity  elements 4x4 identity matrices`,
	RunE: runCopy,
}

func init() {
	copyCmd.Flags().Int("elements", 0, "number of values or matrices to copy")
	copyCmd.Flags().String("payload", "", "payload to copy (sequence, identity)")
	copyCmd.Flags().String("queue", "", "queue capability to submit on (transfer, compute, graphics)")
	rootCmd.AddCommand(copyCmd)
}

func runCopy(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if flags.Changed("elements") {
		cfg.Copy.Elements, _ = flags.GetInt("elements")
	}
	if flags.Changed("payload") {
		cfg.Copy.Payload, _ = flags.GetString("payload")
	}
	if flags.Changed("queue") {
		cfg.Copy.Queue, _ = flags.GetString("queue")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	capability, err := compute.ParseCapability(cfg.Copy.Queue)
	if err != nil {
		return err
	}
	src, err := copyPayload(cfg.Copy.Payload, cfg.Copy.Elements)
	if err != nil {
		return err
	}

	s, err := openSession(capability)
	if err != nil {
		return err
	}
	defer s.Close()

	start := time.Now()
	out, err := s.Copy(src)
	if err != nil {
		return err
	}
	if err := compute.VerifyCopy(src.Bytes(), out); err != nil {
		return fmt.Errorf("copy mismatch: %w", err)
	}

	logging.Get().WithFields(logrus.Fields{
		"payload": cfg.Copy.Payload,
		"bytes":   units.BytesSize(float64(len(out))),
		"elapsed": time.Since(start),
	}).Info("copy verified")

	words := vkg.BytesToUint32s(out)
	if cfg.Copy.Payload == config.PayloadIdentity {
		printMatrices(cmd.OutOrStdout(), words, cfg.Output.Show)
	} else {
		printValues(cmd.OutOrStdout(), "dst", words, cfg.Output.Show)
	}
	return nil
}

func copyPayload(payload string, n int) (vkg.ByteSourcer, error) {
	switch payload {
	case config.PayloadSequence:
		return vkg.Uint32Range(n), nil
	case config.PayloadIdentity:
		ms := make(vkg.Matrix4x4Slice, n)
		for i := range ms {
			ms[i] = vkg.Identity()
		}
		return ms, nil
	default:
		return nil, fmt.Errorf("unknown payload %q", payload)
	}
}
