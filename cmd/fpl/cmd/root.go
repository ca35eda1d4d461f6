package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	configFile string
	pcbFile    string

	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fpl [geometry]",
	Short: "fpl - flypanel arena layout tools",
	Long: `fpl generates flypanel arena layout geometry and places the matching
components on a .kicad_pcb file.

Examples:
  fpl ring -c arena.toml                      # Print resolved layout
  fpl ring -c arena.toml --plot arena.svg     # Render the layout to SVG
  fpl ring -c arena.toml -p board.kicad_pcb   # Place components on the board
  fpl ledarray -c panel.toml -p board.kicad_pcb`,
	Version: "0.3.0",
	Args:    cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// Unknown geometry kinds report and exit clean, like the help
		// text promises; known kinds are real subcommands.
		if len(args) == 0 {
			cmd.Help()
			return
		}
		fmt.Println()
		fmt.Printf("flypanel arena geometry = '%s' not supported yet.\n", args[0])
		fmt.Println()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "arena configuration file (.toml)")
	rootCmd.PersistentFlags().StringVarP(&pcbFile, "pcb", "p", "", "kicad pcb file to place components on")
}
