// Command orderflow runs the restaurant pipeline: a waiter takes orders, a
// kitchen prepares them, and a courier delivers whatever is ready every
// interval until the target number of deliveries has been made.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	v          *viper.Viper
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "orderflow",
		Short: "Run the order -> kitchen -> courier pipeline",
		Long: `orderflow runs three concurrent actors connected by two queues. Orders
are placed and prepared one at a time; the courier takes everything that is
ready as one delivery. The run ends after the target number of deliveries.

Configuration is read from --config (YAML), ORDERFLOW_* environment
variables, and flags, in increasing order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to a YAML configuration file")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")

	_ = opts.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = opts.v.BindPFlag("metrics.addr", flags.Lookup("metrics-addr"))

	cmd.AddCommand(newConfigCmd(opts))
	return cmd
}
