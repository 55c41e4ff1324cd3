package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	gospec "github.com/reoring/gospec"
	"github.com/reoring/gospec/schemadoc"
	"github.com/reoring/gospec/source"
)

type processOptions struct {
	schemas  string
	schema   string
	messages bool
	strict   bool
}

func newProcessCmd(m gospec.Mode, root *rootOptions) *cobra.Command {
	opts := &processOptions{}
	cmd := &cobra.Command{
		Use:   m.String() + " ENTITY_FILE",
		Short: strings.ToUpper(m.String()[:1]) + m.String()[1:] + " an entity against a named schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, m, root, opts, args[0])
		},
	}
	cmd.Flags().StringVar(&opts.schemas, "schemas", "", "Schema document (YAML or JSON)")
	cmd.Flags().StringVar(&opts.schema, "schema", "", "Name of the schema to apply")
	cmd.Flags().BoolVar(&opts.messages, "messages", false, "Print error messages instead of the result")
	cmd.Flags().BoolVar(&opts.strict, "strict-keys", false, "Reject JSON entities with duplicate object keys")
	_ = cmd.MarkFlagRequired("schemas")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func runProcess(cmd *cobra.Command, m gospec.Mode, root *rootOptions, opts *processOptions, entityFile string) error {
	log := root.logger()
	set, err := schemadoc.New(schemadoc.WithLogger(log)).LoadFile(opts.schemas)
	if err != nil {
		return err
	}
	sch, err := set.Schema(opts.schema)
	if err != nil {
		return err
	}
	e, err := readEntity(entityFile, opts.strict)
	if err != nil {
		return err
	}

	out := gospec.Process(m, sch, e)
	failed := gospec.HasError(out)
	log.Debug().Str("mode", m.String()).Str("schema", opts.schema).Bool("errors", failed).Msg("processed entity")

	w := cmd.OutOrStdout()
	if opts.messages {
		for _, line := range gospec.MessageSeq(out) {
			fmt.Fprintln(w, line)
		}
	} else {
		b, err := source.EncodeJSON(out)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(b))
	}
	if failed {
		return errHasErrors
	}
	return nil
}

func readEntity(path string, strict bool) (gospec.Entity, error) {
	if !strict || source.FormatOf(path) != source.FormatJSON {
		return source.File(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return source.JSONStrict(data)
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List registered scalar types",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, t := range gospec.RegisteredTags() {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
		},
	}
}
