///////////////////////////////////////////////////////////////////////////////
// Copyright © 2020 xx network SEZC                                          //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

// Handles command-line version functionality

package cmd

import (
	"fmt"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

func printVersion() {
	fmt.Printf("prism v%s -- %s\n\n", SEMVER, GITVERSION)
	fmt.Printf("Dependencies:\n\n%s\n", DEPENDENCIES)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and dependency information for prism",
	Long: `Print the version and dependency information for prism. This
also prints the go.mod requirements the binary was built with.`,
	Run: func(cmd *cobra.Command, args []string) {
		printVersion()
	},
}
