package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/imamik/gearpump-broker/internal/util/async"
	"github.com/imamik/gearpump-broker/internal/util/prerequisites"
)

var checkTools = prerequisites.Check

// Doctor handles the doctor command.
//
// It validates the configuration, looks for the scheduler command and java,
// and probes the store, identity provider and catalog concurrently. Every
// check is reported; the returned error joins all failures.
func Doctor(ctx context.Context, opts Options, out io.Writer) error {
	log, flush, err := newLogger(opts)
	if err != nil {
		return err
	}
	defer flush()

	cfg, err := loadConfig(opts.ConfigPath)
	report(out, "config", err)
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	var errs []error

	tools := checkTools(prerequisites.BrokerTools(cfg.Scheduler.Command, cfg.Scheduler.WorkDir))
	for _, r := range tools.Results {
		if r.Found {
			fmt.Fprintf(out, "[ok]   tool %s: %s\n", r.Tool.Name, r.Path)
		} else {
			fmt.Fprintf(out, "[fail] tool %s: not found\n", r.Tool.Name)
		}
	}
	if err := tools.Error(); err != nil {
		errs = append(errs, err)
	}

	app, err := newApp(ctx, cfg, log)
	if err != nil {
		report(out, "backends", err)
		return errors.Join(append(errs, err)...)
	}

	results := make([]error, len(app.Probes))
	probes := make([]async.Task, len(app.Probes))
	for i, p := range app.Probes {
		probes[i] = async.Task{Name: p.Name, Func: func(ctx context.Context) error {
			results[i] = p.Func(ctx)
			return results[i]
		}}
	}
	if err := async.Run(ctx, probes); err != nil {
		errs = append(errs, err)
	}
	for i, p := range app.Probes {
		report(out, p.Name, results[i])
	}

	return errors.Join(errs...)
}

func report(out io.Writer, name string, err error) {
	if err != nil {
		fmt.Fprintf(out, "[fail] %s: %v\n", name, err)
		return
	}
	fmt.Fprintf(out, "[ok]   %s\n", name)
}
