package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tropelink/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "tropelink [initial-work-url] [final-work-url]",
	Short: "tropelink finds the tropes connecting two works",
	Long: `tropelink searches TV Tropes for the shortest chain of shared tropes linking two works.
Without arguments it asks for both work URLs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := optionsFromFlags(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		err = cli.RunFind(ctx, opts, args, cli.IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
		os.Exit(cli.Exit(os.Stderr, err))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// optionsFromFlags reads the shared flags. Only flags set on the command line override the configuration.
func optionsFromFlags(cmd *cobra.Command) (cli.Options, error) {
	flags := cmd.Flags()
	var opts cli.Options
	var err error

	if opts.ConfigPath, err = flags.GetString("config"); err != nil {
		return opts, err
	}
	if opts.Debug, err = flags.GetBool("debug"); err != nil {
		return opts, err
	}
	if opts.Policy, err = flags.GetString("policy"); err != nil {
		return opts, err
	}
	if opts.Graph, err = flags.GetString("graph"); err != nil {
		return opts, err
	}
	if opts.CacheBackend, err = flags.GetString("cache"); err != nil {
		return opts, err
	}
	if flags.Changed("max-expansions") {
		n, err := flags.GetInt("max-expansions")
		if err != nil {
			return opts, err
		}
		opts.MaxExpansions = &n
	}
	if flags.Changed("delay") {
		d, err := flags.GetDuration("delay")
		if err != nil {
			return opts, err
		}
		opts.Delay = &d
	}
	if f := flags.Lookup("format"); f != nil {
		opts.Format = f.Value.String()
	}
	return opts, nil
}

func init() {
	// Persistent flags (available to all commands)
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Configuration file (default ./tropelink.yaml when present)")
	pf.Bool("debug", false, "Log every expansion to stderr")
	pf.String("policy", "", "Frontier policy: bfs (shortest chain) or dfs")
	pf.Int("max-expansions", 0, "Stop after expanding this many works (0 = unlimited)")
	pf.Duration("delay", 0, "Minimum spacing between requests to the wiki")
	pf.String("graph", "", "Search an offline YAML graph instead of the wiki")
	pf.String("cache", "", "Neighbor cache backend: memory, redis or none")

	rootCmd.Flags().StringP("format", "f", "text", "Output format: text, markdown, json or mermaid")
}
