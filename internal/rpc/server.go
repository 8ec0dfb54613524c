package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/roic-sim/internal/metrics"
	"github.com/xtding233/roic-sim/internal/simulator"
)

const surface = "grpc"

// Server implements SimulatorServer on top of simulator.Service.
type Server struct {
	svc *simulator.Service
}

var _ SimulatorServer = (*Server)(nil)

func NewServer(svc *simulator.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) SingleYear(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decodeRequest(in)
	if err != nil {
		return nil, err
	}
	res, err := s.svc.SingleYear(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(res)
}

func (s *Server) Project(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decodeRequest(in)
	if err != nil {
		return nil, err
	}
	res, err := s.svc.Project(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(res)
}

func (s *Server) Analyze(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decodeRequest(in)
	if err != nil {
		return nil, err
	}
	res, err := s.svc.Analyze(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(res)
}

func (s *Server) Profiles(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	names, err := s.svc.Profiles()
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(map[string][]string{"profiles": names})
}

func decodeRequest(in *structpb.Struct) (simulator.Request, error) {
	var req simulator.Request
	if err := decode(in, &req, true); err != nil {
		return req, status.Error(codes.InvalidArgument, err.Error())
	}
	return req, nil
}

// decode moves a Struct into v through its JSON form. Strict decoding
// rejects keys that v has no field for.
func decode(in *structpb.Struct, v any, strict bool) error {
	b, err := json.Marshal(in.AsMap())
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	if strict {
		dec.DisallowUnknownFields()
	}
	return dec.Decode(v)
}

// encode moves v into a Struct through its JSON form.
func encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	return out, nil
}

func toStatus(err error) error {
	switch simulator.Classify(err) {
	case simulator.KindInvalid:
		return status.Error(codes.InvalidArgument, err.Error())
	case simulator.KindNotFound:
		return status.Error(codes.NotFound, err.Error())
	case simulator.KindCanceled:
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// MetricsInterceptor records every SimulatorService call.
func MetricsInterceptor(m *metrics.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if m != nil {
			m.Observe(surface, kindOf(info.FullMethod), statusOf(err), time.Since(start))
		}
		return resp, err
	}
}

func kindOf(fullMethod string) string {
	switch path.Base(fullMethod) {
	case "SingleYear":
		return "single_year"
	case "Project":
		return "projection"
	case "Analyze":
		return "analyze"
	case "Profiles":
		return "profiles"
	default:
		return path.Base(fullMethod)
	}
}

func statusOf(err error) string {
	switch status.Code(err) {
	case codes.OK:
		return "ok"
	case codes.InvalidArgument:
		return "invalid"
	case codes.NotFound:
		return "not_found"
	case codes.Canceled, codes.DeadlineExceeded:
		return "canceled"
	default:
		return "error"
	}
}
