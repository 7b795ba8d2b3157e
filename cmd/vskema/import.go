package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/jsonschema"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a JSON Schema or Kubernetes CRD as a vskema schema",
		Long: `Reads a JSON Schema, an OpenAPI v3 object schema or a CRD (optionally
inside a multi-document YAML bundle, selected with --kind) and prints the
equivalent vskema schema. Keywords without a vskema counterpart are reported
on stderr.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
	cmd.Flags().String("kind", "", "CRD spec.names.kind to select from a YAML bundle")
	cmd.Flags().String("to", vskema.FormatYAML, "output format: json or yaml")
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("kind")
	to, _ := cmd.Flags().GetString("to")

	b, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var (
		s    vskema.SchemaDefinition
		diag *jsonschema.Diag
	)
	if vskema.FormatOf(args[0]) == vskema.FormatYAML {
		s, diag, err = jsonschema.ImportYAML(b, kind)
	} else {
		s, diag, err = jsonschema.Import(b)
	}
	if err != nil {
		return err
	}
	for _, w := range diag.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}

	out, err := vskema.Marshal(s, to)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
