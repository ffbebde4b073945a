// Command predictstub is a stand-in prediction service for developing the
// drawing app without a trained model. It answers every request from
// fixtures.
package main

import (
	"net"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"DigitBoard/internal/config"
	dnet "DigitBoard/internal/net"
)

func main() {
	if err := config.SetupLogging("info"); err != nil {
		log.Fatal().Err(err).Msg("set up logging")
	}
	if err := newCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	var (
		addr      string
		fixture   string
		fail      bool
		advertise bool
	)
	cmd := &cobra.Command{
		Use:          "predictstub",
		Short:        "Serve canned digit predictions",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fx, err := loadFixtures(fixture)
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return errors.Wrap(err, "listen")
			}
			port := ln.Addr().(*net.TCPAddr).Port

			if advertise {
				server, err := dnet.Advertise(port, []string{"path=/api"})
				if err != nil {
					log.Warn().Err(err).Msg("mDNS advertising disabled")
				} else {
					defer server.Shutdown()
				}
			}
			log.Info().
				Str("url", "http://"+net.JoinHostPort(dnet.GetOutgoingIP(), strconv.Itoa(port))).
				Bool("fail", fail).
				Msg("prediction stub listening")

			gin.SetMode(gin.ReleaseMode)
			return newRouter(&stub{fx: fx, fail: fail}).RunListener(ln)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	cmd.Flags().StringVar(&fixture, "fixtures", "", "YAML fixtures file")
	cmd.Flags().BoolVar(&fail, "fail", false, "answer every prediction with HTTP 500")
	cmd.Flags().BoolVar(&advertise, "advertise", true, "announce the service over mDNS")
	return cmd
}
