package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/roic-sim/internal/roic"
	"github.com/xtding233/roic-sim/internal/scenario"
)

func newService(t *testing.T, opts Options) *Service {
	t.Helper()
	return New(scenario.NewLoader(t.TempDir()), opts)
}

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func TestRequestJSON(t *testing.T) {
	var req Request
	body := `{"profile":"saas","no_noise":true,"inputs":{"revenue":5},"simulation":{"seed":9},"scenarios":{"removal":[0.5]}}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	assert.Equal(t, "saas", req.Profile)
	assert.True(t, req.NoNoise)
	assert.Equal(t, 5.0, *req.Inputs.Revenue)
	assert.Equal(t, uint64(9), *req.Simulation.Seed)
	assert.Equal(t, []float64{0.5}, req.Scenarios.Removal)
}

func TestSingleYear(t *testing.T) {
	svc := newService(t, Options{})
	res, err := svc.SingleYear(context.Background(), Request{})
	require.NoError(t, err)

	_, err = uuid.Parse(res.RunID)
	require.NoError(t, err)
	assert.Equal(t, "default", res.Profile)
	require.Len(t, res.Result.Improvement.Scenarios, 3)
	half, ok := res.Result.Improvement.ByEffectiveness(0.5)
	require.True(t, ok)
	assert.InDelta(t, 7.5/70, half.Y[0], 1e-12)
	assert.Len(t, res.Charts.Improvement.Series, 3)
	assert.Equal(t, "True Tax Rate", res.Charts.TaxRate.Series[0].Name)
}

func TestProjectMatchesEngine(t *testing.T) {
	svc := newService(t, Options{Workers: 2})
	req := Request{NoNoise: true}
	req.Simulation.Simulations = intp(1)

	res, err := svc.Project(context.Background(), req)
	require.NoError(t, err)

	want, err := roic.NewProjector(roic.WithSources(roic.NoiseFree())).Project(context.Background(),
		res.Settings.Inputs, res.Settings.Growth, res.Settings.Projection)
	require.NoError(t, err)
	assert.Equal(t, want, res.Result)
	assert.Len(t, res.Chart.Series, 4)
}

func TestAnalyzeSeeded(t *testing.T) {
	svc := newService(t, Options{Workers: 4})
	seed := uint64(77)
	req := Request{}
	req.Simulation.Seed = &seed
	req.Simulation.Simulations = intp(100)

	a, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	b, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, a.Projection, b.Projection)
	assert.Equal(t, a.SingleYear, b.SingleYear)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestResolveErrors(t *testing.T) {
	svc := newService(t, Options{MaxSimulations: 10})

	req := Request{}
	req.Simulation.Simulations = intp(11)
	_, err := svc.Project(context.Background(), req)
	require.ErrorIs(t, err, ErrTooManySimulations)
	assert.Equal(t, KindInvalid, Classify(err))

	req = Request{}
	req.Inputs.TaxRate = floatp(2)
	_, err = svc.SingleYear(context.Background(), req)
	assert.Equal(t, KindInvalid, Classify(err))

	_, err = svc.SingleYear(context.Background(), Request{Profile: "missing"})
	assert.Equal(t, KindNotFound, Classify(err))
}

func TestResolveSizeLimits(t *testing.T) {
	svc := newService(t, Options{MaxSimulations: 1000, MaxYears: 50, MaxPoints: 500})

	req := Request{}
	req.Simulation.Years = intp(2_000_000_000)
	req.Scenarios.Points = intp(2_000_000_000)
	_, err := svc.Resolve(req)
	require.ErrorIs(t, err, ErrTooManyYears)
	require.ErrorIs(t, err, ErrTooManyPoints)
	assert.ErrorIs(t, err, ErrOverLimit)
	assert.Equal(t, KindInvalid, Classify(err))

	req = Request{}
	req.Simulation.Years = intp(50)
	req.Scenarios.Points = intp(500)
	_, err = svc.Resolve(req)
	require.NoError(t, err)
}

func TestDefaultSizeLimits(t *testing.T) {
	svc := newService(t, Options{})
	req := Request{}
	req.Simulation.Years = intp(DefaultMaxYears + 1)
	_, err := svc.Project(context.Background(), req)
	require.ErrorIs(t, err, ErrTooManyYears)

	req = Request{}
	req.Scenarios.Points = intp(DefaultMaxPoints + 1)
	_, err = svc.SingleYear(context.Background(), req)
	require.ErrorIs(t, err, ErrTooManyPoints)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindInvalid, Classify(fmt.Errorf("wrap: %w", roic.ErrInvalidParams)))
	assert.Equal(t, KindCanceled, Classify(context.Canceled))
	assert.Equal(t, KindInternal, Classify(errors.New("boom")))
	assert.Equal(t, "not_found", KindNotFound.String())
}

func TestExport(t *testing.T) {
	svc := newService(t, Options{})
	req := Request{}
	req.Simulation.Simulations = intp(20)

	var buf bytes.Buffer
	meta, err := svc.Export(context.Background(), req, &buf)
	require.NoError(t, err)
	assert.NotEmpty(t, meta.RunID)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")), "xlsx is a zip archive")
}

func TestProfiles(t *testing.T) {
	names, err := newService(t, Options{}).Profiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"default"}, names)
}
