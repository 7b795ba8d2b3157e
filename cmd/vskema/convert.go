package main

import (
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/jsonschema"
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert SCHEMA",
		Short: "Convert a schema between JSON and YAML, or export it as JSON Schema",
		Long: `Reads a schema and writes it in the other interchange format, or in the
format named by --to (json, yaml or jsonschema). Output goes to stdout unless
-o is given.`,
		Args: cobra.ExactArgs(1),
		RunE: runConvert,
	}
	cmd.Flags().StringP("output", "o", "", "output file")
	cmd.Flags().String("to", "", "target format: json, yaml or jsonschema")
	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("output")
	to, _ := cmd.Flags().GetString("to")

	s, err := loadSchema(args[0])
	if err != nil {
		return err
	}

	from := vskema.FormatOf(args[0])
	switch {
	case to != "":
		to = strings.ToLower(to)
	case out != "":
		to = vskema.FormatOf(out)
	case from == vskema.FormatJSON:
		to = vskema.FormatYAML
	default:
		to = vskema.FormatJSON
	}

	var b []byte
	if to == "jsonschema" {
		js, err := jsonschema.FromSchema(s)
		if err != nil {
			return err
		}
		if b, err = json.MarshalIndent(js, "", "  "); err != nil {
			return err
		}
	} else if b, err = vskema.Marshal(s, to); err != nil {
		return err
	}
	if out == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), string(b))
		if err == nil && len(b) > 0 && b[len(b)-1] != '\n' {
			_, err = fmt.Fprintln(cmd.OutOrStdout())
		}
		return err
	}
	return os.WriteFile(out, b, 0o644)
}
