package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/RapidPrime/ReferenceClient/internal/config"
	"github.com/RapidPrime/ReferenceClient/internal/tcp/defs"
)

type rootOptions struct {
	env     string
	license bool
	version bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "rapidprime --payment-address=ADDRESS",
		Short:         "RapidPrime pool mining client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadEnvFile(opts.env)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			printVersionInfo(out)
			if opts.version {
				return nil
			}
			if opts.license {
				printLicense(out)
				return nil
			}

			cfg, warnings, err := buildConfig(cmd)
			if err != nil {
				if errors.Is(err, config.ErrAddressRequired) {
					_ = cmd.Usage()
				}
				return err
			}
			return run(cmd.Context(), cfg, warnings, out)
		},
	}

	flags := cmd.Flags()
	flags.String("payment-address", "", "payout address credited by the pool (required)")
	flags.Int("threads", 0, "number of compute threads (default: number of CPUs, max 64)")
	flags.String("label", "", "label to track the worker on the pool stats page")
	flags.Bool("label-is-hostname", false, "use the hostname of this machine as the label")
	flags.Uint32("primorial", 0, "pin the primorial multiplier and disable tuning")
	flags.Uint32("miningprotocol", 1, "header mining protocol (1 legacy, 2 prime hash)")
	flags.Uint32("sievetargetlength", 0, "chain length the search aims for (default: target length)")
	flags.String("status-addr", "", "listen address of the local status API (disabled when empty)")
	flags.BoolVar(&opts.license, "license", false, "view license information")
	flags.BoolVar(&opts.version, "version", false, "print version information")
	cmd.PersistentFlags().StringVar(&opts.env, "env", "", "load settings from <env>.env before reading the environment")

	cmd.AddCommand(newTokenCmd())
	return cmd
}

// buildConfig layers the changed flags over the environment and validates
// the result
func buildConfig(cmd *cobra.Command) (*config.AppConfig, []string, error) {
	cfg := config.NewSystemConfig()
	flags := cmd.Flags()
	mc := cfg.MinerConfig
	var err error
	set := func(name string, apply func() error) {
		if err == nil && flags.Changed(name) {
			err = apply()
		}
	}
	set("payment-address", func() (e error) { mc.PaymentAddress, e = flags.GetString("payment-address"); return })
	set("threads", func() (e error) { mc.Threads, e = flags.GetInt("threads"); return })
	set("label", func() (e error) { mc.Label, e = flags.GetString("label"); return })
	set("label-is-hostname", func() (e error) { mc.LabelIsHostname, e = flags.GetBool("label-is-hostname"); return })
	set("primorial", func() (e error) { mc.FixedPrimorial, e = flags.GetUint32("primorial"); return })
	set("miningprotocol", func() (e error) { mc.MiningProtocol, e = flags.GetUint32("miningprotocol"); return })
	set("sievetargetlength", func() (e error) { mc.SieveTargetLength, e = flags.GetUint32("sievetargetlength"); return })
	set("status-addr", func() (e error) { cfg.StatusConfig.Address, e = flags.GetString("status-addr"); return })
	if err != nil {
		return nil, nil, err
	}

	warnings, err := cfg.Validate()
	if err != nil {
		return nil, nil, err
	}
	return cfg, warnings, nil
}

func printVersionInfo(w io.Writer) {
	fmt.Fprintln(w, "********************************************************************************")
	fmt.Fprintf(w, "\tRapidPrime miner Version: %04d.%04d, Protocol Version: %d\n",
		defs.ClientVersion, defs.ClientBuild, defs.ProtocolVersion)
	fmt.Fprintln(w, "\tCopyright (C) 2014 - The RapidPrime developers")
	fmt.Fprintln(w, "\tCopyright (C) 2014 - The Primecoin and Bitcoin developers.")
	fmt.Fprintln(w, "********************************************************************************")
	fmt.Fprintln(w)
}

func printLicense(w io.Writer) {
	fmt.Fprint(w, `Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
`)
}
