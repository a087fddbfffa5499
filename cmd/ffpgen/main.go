// Command ffpgen generates, compiles and inspects fixed-function pipeline
// programs.
//
// Usage:
//
//	ffpgen defaults > pipeline.toml
//	ffpgen generate pipeline.toml --stage fragment
//	ffpgen compile program.arb
//	ffpgen stats pipeline.toml other.toml
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/ffp"
	"github.com/gogpu/ffp/settings"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options shared by every command.
type options struct {
	verbose  bool
	bankSize int
}

func newRootCommand() *cobra.Command {
	var o options
	root := &cobra.Command{
		Use:           "ffpgen",
		Short:         "Generate and compile fixed-function pipeline programs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if o.verbose {
				ffp.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
		},
	}
	root.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "log session activity to stderr")
	root.PersistentFlags().IntVar(&o.bankSize, "bank-size", 0, "parameter registers per program (0 for the default)")

	root.AddCommand(
		newDefaultsCommand(),
		newGenerateCommand(&o),
		newCompileCommand(&o),
		newStatsCommand(&o),
	)
	return root
}

func (o *options) session(extra ...ffp.SessionOption) *ffp.Session {
	opts := []ffp.SessionOption{ffp.WithBankSize(o.bankSize)}
	return ffp.NewSession(append(opts, extra...)...)
}

// loadSettings reads a settings document, or returns the defaults for "-"
// and an empty path.
func loadSettings(path string) (settings.PipelineSettings, error) {
	switch path {
	case "":
		return settings.Defaults(), nil
	case "-":
		return settings.Load(os.Stdin)
	}
	return settings.LoadFile(path)
}

func printer() *message.Printer {
	return message.NewPrinter(language.English)
}
