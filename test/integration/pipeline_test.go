package integration

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/laurencehw/fiscal-policy-calculator/internal/config"
	"github.com/laurencehw/fiscal-policy-calculator/internal/data"
	"github.com/laurencehw/fiscal-policy-calculator/internal/distribution"
	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/laurencehw/fiscal-policy-calculator/internal/output"
	"github.com/laurencehw/fiscal-policy-calculator/internal/scoring"
	"github.com/laurencehw/fiscal-policy-calculator/internal/store/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const examplesDir = "../../examples"

var decimalEq = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

type pipeline struct {
	parser    *config.InputParser
	scorer    *scoring.Scorer
	baselines data.BaselineProvider
	engine    *distribution.Engine
}

func newPipeline() *pipeline {
	return &pipeline{
		parser:    config.NewInputParser(),
		scorer:    scoring.NewScorer(data.DefaultSOITable(), scoring.DefaultConfig()),
		baselines: data.NewCBOBaseline(),
		engine:    distribution.NewEngine(data.NewSOIGroups(data.DefaultSOITable(), data.DefaultSOIYear)),
	}
}

func (p *pipeline) load(t *testing.T, name string) (domain.Policy, domain.Baseline) {
	t.Helper()
	policy, err := p.parser.LoadPolicy(filepath.Join(examplesDir, name))
	require.NoError(t, err)
	baseline, err := p.baselines.Baseline(policy.StartYear, 10)
	require.NoError(t, err)
	return policy, baseline
}

func (p *pipeline) score(t *testing.T, name string, opts scoring.Options) (domain.Policy, *domain.ScoringResult) {
	t.Helper()
	policy, baseline := p.load(t, name)
	result, err := p.scorer.Score(context.Background(), policy, baseline, opts)
	require.NoError(t, err)
	return policy, result
}

// TestIntegrationSuite runs YAML through scoring, distribution and every
// output format.
func TestIntegrationSuite(t *testing.T) {
	t.Run("Score_Examples", testScoreExamples)
	t.Run("Distribution", testDistribution)
	t.Run("Package", testPackage)
	t.Run("Output_Formats", testOutputFormats)
	t.Run("Data_Consistency", testDataConsistency)
	t.Run("Run_History", testRunHistory)
	t.Run("Error_Handling", testErrorHandling)
}

func testScoreExamples(t *testing.T) {
	p := newPipeline()

	tests := []struct {
		file string
		kind domain.Kind
		// sign of the ten-year final deficit effect; 0 skips the check
		sign int
	}{
		{"top_rate.yaml", domain.KindIncomeTax, -1},
		{"cap_gains.yaml", domain.KindCapitalGains, 0},
		{"infrastructure.yaml", domain.KindSpending, 1},
		{"ctc_expansion.yaml", domain.KindCredit, 1},
		{"tcja_extension.yaml", domain.KindTCJAExtension, 1},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			for _, dynamic := range []bool{false, true} {
				_, r := p.score(t, tt.file, scoring.Options{Dynamic: dynamic, Uncertainty: true})
				assert.Equal(t, tt.kind, r.Kind)
				require.Len(t, r.Years, 10)
				assert.Equal(t, dynamic, r.IsDynamic())
				assert.False(t, r.TotalFinal().IsZero())
				if tt.sign != 0 && !dynamic {
					assert.Equal(t, tt.sign, r.TotalFinal().Sign(), "ten-year total %s", r.TotalFinal())
				}
				for i := range r.Years {
					assert.True(t, r.Low[i].LessThanOrEqual(r.High[i]), "year %d band", r.Years[i])
				}
			}
		})
	}
}

func testDistribution(t *testing.T) {
	p := newPipeline()

	for _, file := range []string{"top_rate.yaml", "cap_gains.yaml", "ctc_expansion.yaml", "tcja_extension.yaml"} {
		t.Run(file, func(t *testing.T) {
			policy, r := p.score(t, file, scoring.Options{})
			for _, scheme := range []domain.GroupScheme{domain.SchemeQuintile, domain.SchemeDecile, domain.SchemeJCTDollar, domain.SchemeTopIncome} {
				a, err := p.engine.Analyze(policy, r, scheme, distribution.Options{})
				require.NoError(t, err, "scheme %s", scheme)
				require.NotEmpty(t, a.Results)

				// Groups carry the whole first-year revenue effect.
				want := r.Final[0].Neg()
				assert.InDelta(t, want.InexactFloat64(), a.TotalTaxChange.InexactFloat64(), 0.01, "scheme %s", scheme)
			}
		})
	}

	t.Run("spending has no incidence rule", func(t *testing.T) {
		policy, r := p.score(t, "infrastructure.yaml", scoring.Options{})
		_, err := p.engine.Analyze(policy, r, domain.SchemeQuintile, distribution.Options{})
		assert.True(t, domain.IsClientError(err))
	})
}

func testPackage(t *testing.T) {
	p := newPipeline()
	doc, err := p.parser.LoadFromFile(filepath.Join(examplesDir, "package.yaml"))
	require.NoError(t, err)
	require.NotNil(t, doc.Package)

	pkg, err := p.parser.ToPackage(*doc.Package)
	require.NoError(t, err)
	require.Len(t, pkg.Policies, 3)

	start, _ := pkg.YearRange()
	baseline, err := p.baselines.Baseline(start, 10)
	require.NoError(t, err)

	combined, members, err := p.scorer.ScorePackage(context.Background(), pkg, baseline, scoring.Options{})
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, pkg.Name, combined.PolicyName)

	sum := decimal.Zero
	for _, m := range members {
		sum = sum.Add(m.TotalStatic())
	}
	// The interaction factor scales static effects.
	assert.InDelta(t, sum.Mul(decimal.NewFromFloat(0.95)).InexactFloat64(), combined.TotalStatic().InexactFloat64(), 0.05)
}

func testOutputFormats(t *testing.T) {
	p := newPipeline()
	policy, r := p.score(t, "top_rate.yaml", scoring.Options{Dynamic: true, Uncertainty: true})
	a, err := p.engine.Analyze(policy, r, domain.SchemeQuintile, distribution.Options{})
	require.NoError(t, err)

	for _, name := range output.AvailableFormatterNames() {
		t.Run(name, func(t *testing.T) {
			f, err := output.NewFormatter(name)
			require.NoError(t, err)

			score, err := f.FormatScore(r)
			require.NoError(t, err)
			assert.NotEmpty(t, score)

			dist, err := f.FormatDistribution(a)
			require.NoError(t, err)
			assert.NotEmpty(t, dist)
		})
	}

	t.Run("json round trip", func(t *testing.T) {
		raw, err := output.JSONFormatter{}.FormatScore(r)
		require.NoError(t, err)
		var back domain.ScoringResult
		require.NoError(t, json.Unmarshal(raw, &back))
		if diff := cmp.Diff(r, &back, decimalEq); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
}

func testDataConsistency(t *testing.T) {
	p := newPipeline()
	_, first := p.score(t, "cap_gains.yaml", scoring.Options{Dynamic: true, Uncertainty: true})
	_, second := p.score(t, "cap_gains.yaml", scoring.Options{Dynamic: true, Uncertainty: true})
	if diff := cmp.Diff(first, second, decimalEq); diff != "" {
		t.Errorf("scoring is not deterministic (-first +second):\n%s", diff)
	}
}

func testRunHistory(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	p := newPipeline()
	ctx := context.Background()
	for _, file := range []string{"top_rate.yaml", "ctc_expansion.yaml"} {
		_, r := p.score(t, file, scoring.Options{})
		_, err := store.SaveRun(ctx, r, "integration")
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "CTC expansion", runs[0].PolicyName)

	got, err := store.GetRun(ctx, runs[1].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.KindIncomeTax, got.Kind)
	assert.True(t, got.Result.TotalFinal().Equal(got.TotalFinal))
}

func testErrorHandling(t *testing.T) {
	p := newPipeline()

	_, err := p.parser.LoadFromFile(filepath.Join(examplesDir, "missing.yaml"))
	assert.Error(t, err)

	_, err = p.parser.LoadPolicy(filepath.Join(examplesDir, "package.yaml"))
	assert.ErrorContains(t, err, "no standalone policy")

	policy, baseline := p.load(t, "top_rate.yaml")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.scorer.Score(ctx, policy, baseline, scoring.Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
