package cmd

import (
	"github.com/apex/log"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "clauselens",
	Short: "AI-powered legal document analysis frontend",
	Long: `ClauseLens is the web frontend for AI-driven contract analysis.
It uploads documents to the analysis backend, renders risk assessments,
key clauses, and action items, tracks contract timelines, and answers
questions about a document through the Clause Oracle.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		} else {
			log.SetLevel(log.InfoLevel)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".clauselens.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
