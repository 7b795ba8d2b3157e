package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/engine"
	"github.com/reoring/vskema/source"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [data-file|-]",
		Short: "Validate a document against a schema",
		Long: `Validates a JSON or YAML document (stdin when omitted or "-") and prints
the response envelope. Exits with status 1 when the document is invalid.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runValidate,
	}
	f := cmd.Flags()
	f.StringP("schema", "s", "", "schema file (.json, .yaml or .yml)")
	f.String("data-format", "", "format of the document: json or yaml (default from the file extension)")
	f.Bool("async", false, "run async rules")
	f.Bool("abort-early", false, "stop at the first hard error")
	f.Bool("by-field", false, "group errors by field (implies --result)")
	f.Bool("result", false, "print the raw validation result instead of the envelope")
	f.Duration("timeout", 0, "timeout for async rules without timeoutMs (default from VSKEMA_ASYNC_TIMEOUT)")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	schemaPath, _ := f.GetString("schema")
	async, _ := f.GetBool("async")
	abortEarly, _ := f.GetBool("abort-early")
	byField, _ := f.GetBool("by-field")
	raw, _ := f.GetBool("result")
	timeout, _ := f.GetDuration("timeout")

	s, err := loadSchema(schemaPath)
	if err != nil {
		return err
	}
	data, err := readData(cmd, args)
	if err != nil {
		return err
	}

	var extra []engine.Option
	if timeout > 0 {
		extra = append(extra, engine.WithTimeout(timeout))
	}
	rt, err := newRuntime(cmd, extra...)
	if err != nil {
		return err
	}
	defer rt.Close()

	var opts []vskema.Option
	if abortEarly {
		opts = append(opts, vskema.WithAbortEarly())
	}
	if byField {
		opts = append(opts, vskema.WithAggregateByField())
		raw = true
	}

	var res vskema.ValidationResult
	if async {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		res, err = rt.eng.ValidateContext(ctx, s, data, opts...)
		if err != nil {
			return fmt.Errorf("validate: %w", err)
		}
	} else {
		res = rt.eng.Validate(s, data, opts...)
	}

	var out any = res
	if !raw {
		var echo any
		if res.Valid {
			echo = res.Value
		}
		out = vskema.ToEnvelope(res, echo)
	}
	if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
		return err
	}
	if !res.Valid {
		return errInvalid
	}
	return nil
}

func readData(cmd *cobra.Command, args []string) (any, error) {
	format, _ := cmd.Flags().GetString("data-format")
	opts := []source.Option{source.RejectDuplicateKeys()}

	if len(args) == 0 || args[0] == "-" {
		if format == "" {
			format = vskema.FormatJSON
		}
		return source.Decode(cmd.InOrStdin(), format, opts...)
	}
	if format != "" {
		fh, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer fh.Close()
		return source.Decode(fh, format, opts...)
	}
	return source.DecodeFile(args[0], opts...)
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
