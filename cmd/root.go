///////////////////////////////////////////////////////////////////////////////
// Copyright © 2020 xx network SEZC                                          //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

// Package cmd initializes the CLI and config parsers as well as the logger.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"
)

var cfgFile string
var verbose bool
var batchSize uint64
var validConfig bool
var showVer bool

// rootCmd represents the base command when called without any sub-commands
var rootCmd = &cobra.Command{
	Use:   "prism",
	Short: "Runs a STEM simulation over a pool of CPU threads and GPU streams",
	Long: `prism splits the probe positions (or plane-wave tilts) of a STEM
simulation into chunks and hands them out to CPU and GPU workers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVer {
			printVersion()
			return nil
		}
		if !validConfig {
			jww.FATAL.Panic("Invalid Config File")
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		stopSignals := ReceiveExitSignal(ctx, cancel)
		defer stopSignals()

		summary, err := StartSimulation(ctx, viper.GetViper())
		if summary != nil {
			jww.INFO.Printf("Run %s %s: %d/%d positions in %s",
				summary.RunID, summary.Status, summary.Completed,
				summary.Total, summary.Wall)
		}
		return err
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.  This is called by main.main(). It only needs to
// happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		jww.ERROR.Printf("Simulation exiting with error: %s", err.Error())
		os.Exit(1)
	}
	jww.INFO.Printf("Simulation exiting without error...")
}

// init is the initialization function for Cobra which defines commands
// and flags.
func init() {
	// NOTE: The point of init() is to be declarative.  There
	// is one init in each sub command. Do not put variable
	// declarations here, and ensure all the Flags are of the *P
	// variety, unless there's a very good reason not to have them
	// as local params to sub command."
	cobra.OnInitialize(initConfig, initLog)

	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default is $HOME/.prism/prism.yaml)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Verbose mode for debugging")
	rootCmd.Flags().Uint64VarP(&batchSize, "batch", "b", 1,
		"Number of positions handed to a worker per claim")
	rootCmd.Flags().BoolVarP(&showVer, "version", "V", false,
		"Show the prism version information.")
	rootCmd.Flags().Uint64("probesX", 0, "Number of probe positions along x")
	rootCmd.Flags().Uint64("probesY", 0, "Number of probe positions along y")
	rootCmd.Flags().Uint32P("threads", "j", 0,
		"Number of CPU worker threads (default is the number of cores)")
	rootCmd.Flags().Uint32P("gpus", "g", 0, "Number of GPUs to use")
	rootCmd.Flags().Uint32P("streams", "s", 0,
		"Number of streams per GPU")
	rootCmd.Flags().String("earlyStop", "",
		"CPU early stop policy: none, tailReserve or throughput")
	rootCmd.Flags().String("runID", "", "Identifier of the run")
	rootCmd.Flags().Bool("devMode", false,
		"Run without a database, keeping the ledger in memory")

	bindFlag("simulation.batchSize", "batch")
	bindFlag("simulation.probesX", "probesX")
	bindFlag("simulation.probesY", "probesY")
	bindFlag("devices.numThreads", "threads")
	bindFlag("devices.numGPUs", "gpus")
	bindFlag("devices.numStreamsPerGPU", "streams")
	bindFlag("devices.earlyStop.policy", "earlyStop")
	bindFlag("runID", "runID")
	bindFlag("devMode", "devMode")
	bindFlag("verbose", "verbose")
}

func bindFlag(key, flag string) {
	err := viper.BindPFlag(key, rootCmd.Flags().Lookup(flag))
	handleBindingError(err, key)
}

func handleBindingError(err error, flag string) {
	if err != nil {
		jww.FATAL.Panicf("Error on binding flag \"%s\":%+v", flag, err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	//Use default config location if none is passed
	if cfgFile == "" {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			jww.ERROR.Println(err)
			os.Exit(1)
		}

		cfgFile = home + "/.prism/prism.yaml"

	}

	validConfig = true

	f, err := os.Open(cfgFile)
	if err != nil {
		jww.ERROR.Printf("Invalid config file (%s): %s", cfgFile,
			err.Error())
		validConfig = false
		return
	}

	err = f.Close()
	if err != nil {
		jww.ERROR.Printf("Could not close config file: %+v", err)
	}

	viper.SetConfigFile(cfgFile)

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err = viper.ReadInConfig(); err != nil {
		jww.ERROR.Printf("Unable to read config file (%s): %s", cfgFile,
			err.Error())
		validConfig = false
	}

}

// initLog initializes logging thresholds and the log path.
func initLog() {
	// If verbose flag set then log more info for debugging
	if viper.GetBool("verbose") {
		jww.SetLogThreshold(jww.LevelDebug)
		jww.SetStdoutThreshold(jww.LevelDebug)
	} else {
		jww.SetLogThreshold(jww.LevelInfo)
		jww.SetStdoutThreshold(jww.LevelInfo)
	}

	if viper.Get("log") != nil {
		// Create log file, overwrites if existing
		logPath, err := homedir.Expand(viper.GetString("log"))
		if err != nil {
			fmt.Printf("Invalid log path %s, default path used.\n", logPath)
			return
		}
		logFile, err := os.Create(logPath)
		if err != nil {
			fmt.Printf("Invalid or missing log path %s, "+
				"default path used.\n", logPath)
		} else {
			jww.SetLogOutput(logFile)
		}
	}
}
