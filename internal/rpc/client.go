package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/roic-sim/internal/simulator"
)

// Client calls roic.v1.SimulatorService with typed requests and results.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) SingleYear(ctx context.Context, req simulator.Request, opts ...grpc.CallOption) (simulator.SingleYearResult, error) {
	var out simulator.SingleYearResult
	err := c.call(ctx, SingleYearMethod, req, &out, opts...)
	return out, err
}

func (c *Client) Project(ctx context.Context, req simulator.Request, opts ...grpc.CallOption) (simulator.ProjectionResult, error) {
	var out simulator.ProjectionResult
	err := c.call(ctx, ProjectMethod, req, &out, opts...)
	return out, err
}

func (c *Client) Analyze(ctx context.Context, req simulator.Request, opts ...grpc.CallOption) (simulator.AnalysisResult, error) {
	var out simulator.AnalysisResult
	err := c.call(ctx, AnalyzeMethod, req, &out, opts...)
	return out, err
}

func (c *Client) Profiles(ctx context.Context, opts ...grpc.CallOption) ([]string, error) {
	var out struct {
		Profiles []string `json:"profiles"`
	}
	err := c.call(ctx, ProfilesMethod, struct{}{}, &out, opts...)
	return out.Profiles, err
}

func (c *Client) call(ctx context.Context, method string, req, out any, opts ...grpc.CallOption) error {
	in, err := encode(req)
	if err != nil {
		return err
	}
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, resp, opts...); err != nil {
		return err
	}
	return decode(resp, out, false)
}
