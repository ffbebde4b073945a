package main

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"DigitBoard/internal/config"
	"DigitBoard/internal/export"
	"DigitBoard/internal/net"
	"DigitBoard/internal/predict"
	"DigitBoard/internal/raster"
	"DigitBoard/internal/render"
	"DigitBoard/internal/state"
)

type options struct {
	endpoint string
	timeout  time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "digitctl",
		Short:        "Classify handwritten digits with a prediction service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.endpoint, "endpoint", "e", "",
		`service root URL, or "auto" to discover it (default from config)`)
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "request timeout, 0 waits indefinitely")

	root.AddCommand(newPredictCmd(opts), newHealthCmd(opts))
	return root
}

// client resolves the endpoint from flags, then config, then mDNS.
func (o *options) client(ctx context.Context) (*predict.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	endpoint := cfg.Endpoint
	if o.endpoint != "" {
		endpoint = o.endpoint
	}
	timeout := cfg.RequestTimeout
	if o.timeout > 0 {
		timeout = o.timeout
	}
	if endpoint == config.EndpointAuto {
		if endpoint, err = net.Discover(ctx, cfg.DiscoveryTimeout); err != nil {
			return nil, err
		}
	}
	return predict.NewClient(endpoint, nil, timeout)
}

func newPredictCmd(opts *options) *cobra.Command {
	var report string
	cmd := &cobra.Command{
		Use:   "predict <image>",
		Short: "Classify the digit in an image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadImage(args[0])
			if err != nil {
				return err
			}
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}

			res, err := c.Predict(cmd.Context(), snap.DataURL())
			panel := state.Succeeded(res)
			if err != nil {
				panel = state.Failed{Message: state.FailureMessage}
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Terminal(render.Describe(panel)))

			if report != "" {
				if rerr := writeReport(report, snap, panel); rerr != nil {
					return rerr
				}
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&report, "report", "r", "", "also write a PDF report to this path")
	return cmd
}

func newHealthCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show whether the service is up and which model it serves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			h, err := c.Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "endpoint:     %s\n", c.Endpoint())
			fmt.Fprintf(out, "status:       %s\n", h.Status)
			fmt.Fprintf(out, "model loaded: %t\n", h.ModelLoaded)
			if !h.Ready() {
				return errors.New("service is not ready")
			}

			info, err := c.ModelInfo(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "input shape:  %s\n", info.InputShape)
			fmt.Fprintf(out, "output shape: %s\n", info.OutputShape)
			fmt.Fprintf(out, "parameters:   %d\n", info.TotalParams)
			return nil
		},
	}
}

// loadImage reads a PNG or JPEG and re-encodes it as the PNG snapshot the
// service expects.
func loadImage(path string) (raster.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return raster.Snapshot{}, errors.Wrap(err, "open image")
	}
	defer f.Close()

	im, _, err := image.Decode(f)
	if err != nil {
		return raster.Snapshot{}, errors.Wrapf(err, "decode %s", path)
	}
	return raster.SnapshotFromImage(im)
}

func writeReport(path string, snap raster.Snapshot, panel state.Panel) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create report")
	}
	if err := export.Report(f, snap, panel, time.Now()); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close report")
}
