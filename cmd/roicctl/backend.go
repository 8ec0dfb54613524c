package main

import (
	"context"

	"github.com/xtding233/roic-sim/internal/rpc"
	"github.com/xtding233/roic-sim/internal/simulator"
)

// backend runs analyses in-process or against a running server.
type backend interface {
	SingleYear(context.Context, simulator.Request) (simulator.SingleYearResult, error)
	Project(context.Context, simulator.Request) (simulator.ProjectionResult, error)
	Analyze(context.Context, simulator.Request) (simulator.AnalysisResult, error)
	Profiles(context.Context) ([]string, error)
}

type localBackend struct {
	svc *simulator.Service
}

func (b localBackend) SingleYear(ctx context.Context, req simulator.Request) (simulator.SingleYearResult, error) {
	return b.svc.SingleYear(ctx, req)
}

func (b localBackend) Project(ctx context.Context, req simulator.Request) (simulator.ProjectionResult, error) {
	return b.svc.Project(ctx, req)
}

func (b localBackend) Analyze(ctx context.Context, req simulator.Request) (simulator.AnalysisResult, error) {
	return b.svc.Analyze(ctx, req)
}

func (b localBackend) Profiles(context.Context) ([]string, error) {
	return b.svc.Profiles()
}

type remoteBackend struct {
	client *rpc.Client
}

func (b remoteBackend) SingleYear(ctx context.Context, req simulator.Request) (simulator.SingleYearResult, error) {
	return b.client.SingleYear(ctx, req)
}

func (b remoteBackend) Project(ctx context.Context, req simulator.Request) (simulator.ProjectionResult, error) {
	return b.client.Project(ctx, req)
}

func (b remoteBackend) Analyze(ctx context.Context, req simulator.Request) (simulator.AnalysisResult, error) {
	return b.client.Analyze(ctx, req)
}

func (b remoteBackend) Profiles(ctx context.Context) ([]string, error) {
	return b.client.Profiles(ctx)
}
