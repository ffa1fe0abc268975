package cmd

import (
	"os"

	"github.com/rskv-p/minitrie/cmd/cmd_db"
	"github.com/rskv-p/minitrie/cmd/cmd_dict"
	"github.com/rskv-p/minitrie/cmd/cmd_serv"
	"github.com/rskv-p/minitrie/pkg/x_log"

	"github.com/spf13/cobra"
)

var rootCmd = NewRootCmd()

// NewRootCmd assembles the minitrie command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "minitrie",
		Short:        "UTF-16 prefix dictionaries",
		SilenceUsage: true,

		// serve replaces this with the service config
		PersistentPreRun: func(*cobra.Command, []string) {
			x_log.Init()
		},
	}
	root.AddCommand(
		cmd_dict.NewCmd(),
		cmd_db.NewCmd(),
		cmd_serv.NewServeCmd(),
		cmd_serv.NewQueryCmd(),
		cmd_serv.NewLogsCmd(),
	)
	return root
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
