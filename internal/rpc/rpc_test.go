package rpc

import (
	"context"
	"net"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/roic-sim/internal/metrics"
	"github.com/xtding233/roic-sim/internal/scenario"
	"github.com/xtding233/roic-sim/internal/simulator"
)

func setup(t *testing.T) (*Client, *simulator.Service, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(nil)
	svc := simulator.New(scenario.NewLoader(t.TempDir()), simulator.Options{Observer: m, Workers: 2, MaxSimulations: 1000})

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(MetricsInterceptor(m)))
	Register(srv, NewServer(svc))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewClient(conn), svc, m
}

func intp(v int) *int { return &v }

func TestSingleYearMatchesService(t *testing.T) {
	c, svc, m := setup(t)
	ctx := context.Background()
	req := simulator.Request{}
	req.Scenarios.Points = intp(7)

	got, err := c.SingleYear(ctx, req)
	require.NoError(t, err)
	want, err := svc.SingleYear(ctx, req)
	require.NoError(t, err)

	assert.NotEmpty(t, got.RunID)
	assert.Equal(t, want.Result, got.Result)
	assert.Equal(t, want.Settings, got.Settings)
	assert.Equal(t, want.Charts, got.Charts)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("grpc", "single_year", "ok")))
}

func TestProjectNoiseFree(t *testing.T) {
	c, _, _ := setup(t)
	req := simulator.Request{NoNoise: true}
	req.Simulation.Simulations = intp(1)

	got, err := c.Project(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, got.Result.Scenarios, 4)
	s, ok := got.Result.ByRemoval(0.33)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, s.Years)
	assert.InDeltaSlice(t, []float64{0.160179, 0.214441, 0.293504, 0.428592, 0.696321}, s.Mean, 1e-6)
}

func TestAnalyzeSeededMatchesService(t *testing.T) {
	c, svc, _ := setup(t)
	seed := uint64(12)
	req := simulator.Request{}
	req.Simulation.Seed = &seed
	req.Simulation.Simulations = intp(40)

	got, err := c.Analyze(context.Background(), req)
	require.NoError(t, err)
	want, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, want.Projection, got.Projection)
	assert.Equal(t, want.SingleYear, got.SingleYear)
}

func TestProfiles(t *testing.T) {
	c, _, _ := setup(t)
	names, err := c.Profiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"default"}, names)
}

func TestErrorCodes(t *testing.T) {
	c, _, m := setup(t)
	ctx := context.Background()

	req := simulator.Request{}
	req.Simulation.Simulations = intp(1001)
	_, err := c.Project(ctx, req)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	bad := -1.0
	req = simulator.Request{}
	req.Inputs.Revenue = &bad
	_, err = c.SingleYear(ctx, req)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "inputs.revenue")

	_, err = c.SingleYear(ctx, simulator.Request{Profile: "ghost"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("grpc", "projection", "invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("grpc", "single_year", "not_found")))
}

func TestUnknownRequestKeys(t *testing.T) {
	_, svc, _ := setup(t)
	srv := NewServer(svc)

	in, err := structpb.NewStruct(map[string]any{"bogus": 1})
	require.NoError(t, err)
	_, err = srv.SingleYear(context.Background(), in)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "bogus")

	in, err = structpb.NewStruct(map[string]any{"inputs": map[string]any{"revnue": 5.0}})
	require.NoError(t, err)
	_, err = srv.Project(context.Background(), in)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "projection", kindOf(ProjectMethod))
	assert.Equal(t, "Other", kindOf("/x.Y/Other"))
}
