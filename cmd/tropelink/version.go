package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/tropelink"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tropelink",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tropelink version %s\n", strings.TrimSpace(tropelink.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
