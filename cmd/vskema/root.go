package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/config"
	"github.com/reoring/vskema/engine"
	"github.com/reoring/vskema/remote"
	"github.com/reoring/vskema/rules"

	backend "github.com/redis/go-redis/v9"
)

// errInvalid marks a completed run whose input failed validation.
var errInvalid = errors.New("validation failed")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vskema",
		Short:         "Validate data against declarative schemas",
		Long:          `vskema checks JSON and YAML documents against schemas written in the vskema interchange format.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("redis-url", "", "Redis URL backing redisUnique rules, e.g. redis://localhost:6379/0")

	root.AddCommand(
		newValidateCmd(),
		newConvertCmd(),
		newCheckCmd(),
		newImportCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return root
}

// runtime is the engine and its collaborators for one command.
type runtime struct {
	cfg    config.Config
	log    *slog.Logger
	reg    *rules.Registry
	eng    *engine.Engine
	closer func() error
}

func newRuntime(cmd *cobra.Command, extra ...engine.Option) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.ApplyLanguage()

	rt := &runtime{cfg: cfg, log: cfg.Logger(), reg: rules.NewRegistry(), closer: func() error { return nil }}

	if url, _ := cmd.Flags().GetString("redis-url"); url != "" {
		opt, err := backend.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := backend.NewClient(opt)
		remote.Register(rt.reg, client)
		rt.closer = client.Close
		rt.log.Debug("redis rules enabled", slog.String("addr", opt.Addr))
	}

	opts := append(cfg.EngineOptions(), engine.WithRegistry(rt.reg), engine.WithLogger(rt.log))
	rt.eng = engine.New(append(opts, extra...)...)
	return rt, nil
}

func (rt *runtime) Close() error { return rt.closer() }

func loadSchema(path string) (vskema.SchemaDefinition, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return vskema.SchemaDefinition{}, err
	}
	s, err := vskema.Unmarshal(b, vskema.FormatOf(path))
	if err != nil {
		return vskema.SchemaDefinition{}, fmt.Errorf("load schema %s: %w", path, err)
	}
	return s, nil
}
