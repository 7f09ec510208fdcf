package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "jnigen",
	Short: "JNI binding header generator",
	Long: "jnigen parses Java source or javap output for native declarations " +
		"and @CalledByNative annotations and emits the C++ inline header that " +
		"binds the two sides.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

func Execute() error {
	return rootCmd.Execute()
}
