package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/laurencehw/fiscal-policy-calculator/internal/config"
	"github.com/laurencehw/fiscal-policy-calculator/internal/data"
	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/laurencehw/fiscal-policy-calculator/internal/logging"
	"github.com/laurencehw/fiscal-policy-calculator/internal/scoring"
	"github.com/laurencehw/fiscal-policy-calculator/internal/store/sqlite"
	"github.com/laurencehw/fiscal-policy-calculator/internal/transform"
	"github.com/spf13/cobra"
)

// app bundles what every command needs: merged settings, a logger, the
// input parser and a scorer configured from both.
type app struct {
	settings config.Settings
	logger   *slog.Logger
	parser   *config.InputParser
	scorer   *scoring.Scorer
	horizon  int
}

// newApp reads FISCAL_* settings and lets explicitly set flags override them.
func newApp(cmd *cobra.Command) (*app, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("data-year") {
		settings.DataYear, _ = flags.GetInt("data-year")
	}
	if flags.Changed("log-level") {
		settings.LogLevel, _ = flags.GetString("log-level")
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		settings.LogLevel = "debug"
	}
	if flags.Lookup("db") != nil && flags.Changed("db") {
		settings.DBPath, _ = flags.GetString("db")
	}
	if flags.Lookup("addr") != nil && flags.Changed("addr") {
		settings.HTTPAddr, _ = flags.GetString("addr")
	}

	format, _ := flags.GetString("log-format")
	logger := logging.New(settings.SlogLevel(), format, cmd.ErrOrStderr())

	scorer := scoring.NewScorer(data.DefaultSOITable(), settings.ScorerConfig())
	scorer.SetLogger(logging.NewPrintf(logger, "scoring"))

	horizon, _ := flags.GetInt("horizon")
	if horizon <= 0 {
		horizon = 10
	}

	return &app{
		settings: settings,
		logger:   logger,
		parser:   config.NewInputParser(),
		scorer:   scorer,
		horizon:  horizon,
	}, nil
}

// baseline returns the projection window starting at start. An explicit
// --baseline file wins over a baseline embedded in doc, which wins over the
// built-in CBO projection.
func (a *app) baseline(cmd *cobra.Command, doc *config.Document, start int) (domain.Baseline, error) {
	var provider data.BaselineProvider = data.NewCBOBaseline()

	path := ""
	if cmd.Flags().Lookup("baseline") != nil {
		path, _ = cmd.Flags().GetString("baseline")
	}
	switch {
	case path != "":
		b, err := a.parser.LoadBaseline(path)
		if err != nil {
			return domain.Baseline{}, err
		}
		if provider, err = data.NewStaticBaseline(b); err != nil {
			return domain.Baseline{}, err
		}
	case doc != nil && doc.Baseline != nil:
		var err error
		if provider, err = data.NewStaticBaseline(*doc.Baseline); err != nil {
			return domain.Baseline{}, err
		}
	}

	b, err := provider.Baseline(start, a.horizon)
	if err != nil {
		return domain.Baseline{}, err
	}
	a.logger.Debug("baseline loaded", "source", b.Source, "start", start, "years", len(b.Years))
	return b, nil
}

// loadPolicy reads the first policy in filename and applies --transform
// specs when the command has that flag.
func (a *app) loadPolicy(cmd *cobra.Command, filename string) (domain.Policy, *config.Document, error) {
	doc, err := a.parser.LoadFromFile(filename)
	if err != nil {
		return domain.Policy{}, nil, err
	}
	policies, err := a.parser.Policies(doc)
	if err != nil {
		return domain.Policy{}, nil, err
	}
	if len(policies) == 0 {
		return domain.Policy{}, nil, fmt.Errorf("%s defines no standalone policy", filename)
	}
	p, err := a.applyTransforms(cmd, policies[0])
	return p, doc, err
}

func (a *app) applyTransforms(cmd *cobra.Command, p domain.Policy) (domain.Policy, error) {
	if cmd.Flags().Lookup("transform") == nil {
		return p, nil
	}
	specs, _ := cmd.Flags().GetStringSlice("transform")
	if len(specs) == 0 {
		return p, nil
	}
	ts, err := transform.NewTransformRegistry().ParseTransformSpecs(specs)
	if err != nil {
		return p, err
	}
	out, err := transform.ApplyTransforms(p, ts)
	if err != nil {
		return p, err
	}
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.Description()
	}
	a.logger.Info("applied transforms", "policy", p.Name, "transforms", strings.Join(names, "; "))
	return out, nil
}

// openStore opens the run history database from settings.
func (a *app) openStore() (*sqlite.Store, error) {
	store, err := sqlite.New(a.settings.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open run history %s: %w", a.settings.DBPath, err)
	}
	return store, nil
}
