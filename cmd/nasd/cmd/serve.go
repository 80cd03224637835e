package cmd

import (
	"fmt"
	"os"

	"github.com/drivenas/nasd/config"
	"github.com/drivenas/nasd/daemon"
	"github.com/spf13/cobra"
)

var flagConfigFile string

// serveCmd starts the daemon in the foreground.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the server",
	Run:   serve,
}

func init() {
	serveCmd.Flags().StringVarP(&flagConfigFile, "conf", "c", "",
		fmt.Sprintf("configuration file (default %q in the working directory)", daemon.DefaultConfigFileName))
	RootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, args []string) {
	conf := config.New(daemon.GetConfigSources(flagConfigFile))
	if err := conf.LoadDirectives(); err != nil {
		fmt.Println(err)
		fmt.Println("cannot load configuration")
		os.Exit(1)
	}

	d := daemon.New(conf)
	if err := d.Start(); err != nil {
		fmt.Println(err)
		fmt.Println("cannot start daemon")
		os.Exit(1)
	}

	stopChan := d.TrapSignals()
	if err := <-stopChan; err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
