package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tropelink/internal/cli"
	"github.com/aretw0/tropelink/pkg/adapters/redis"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the shared Redis neighbor cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the works whose neighbors are cached",
	Run: func(cmd *cobra.Command, args []string) {
		withRedis(cmd, func(store *redis.NeighborStore) error {
			entities, err := store.Entities(cmd.Context())
			if err != nil {
				return err
			}
			for _, e := range entities {
				fmt.Fprintln(cmd.OutOrStdout(), e)
			}
			return nil
		})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached neighbor set",
	Run: func(cmd *cobra.Command, args []string) {
		withRedis(cmd, func(store *redis.NeighborStore) error {
			n, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached works.\n", n)
			return nil
		})
	},
}

func withRedis(cmd *cobra.Command, fn func(*redis.NeighborStore) error) {
	opts, err := optionsFromFlags(cmd)
	if err == nil {
		err = cli.WithRedisCache(cmd.Context(), opts, fn)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cacheCmd.AddCommand(cacheListCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
