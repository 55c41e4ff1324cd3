package main

import (
	"errors"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	gospec "github.com/reoring/gospec"
	"github.com/reoring/gospec/i18n"
)

// errHasErrors signals a processed result that carries field errors. The
// result itself has already been printed.
var errHasErrors = errors.New("result has errors")

type rootOptions struct {
	verbose bool
	lang    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "gospec",
		Short:         "Coerce, validate, conform and present entities against named schemas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if opts.lang != "" {
				i18n.SetLanguage(opts.lang)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log loading details to stderr")
	root.PersistentFlags().StringVar(&opts.lang, "lang", "", "Message language (en, ja)")

	for _, m := range []gospec.Mode{gospec.ModeCoerce, gospec.ModeValidate, gospec.ModeConform, gospec.ModePresent} {
		root.AddCommand(newProcessCmd(m, opts))
	}
	root.AddCommand(newTypesCmd())
	return root
}

func (o *rootOptions) logger() zerolog.Logger {
	if !o.verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.DebugLevel)
}
