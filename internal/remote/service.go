// Package remote runs chunks on worker processes over gRPC.
//
// The chunk service has a single unary method whose request and response
// are google.protobuf.Struct messages, so no generated stubs are needed.
// Workers open the requested path themselves; inputs must live on storage
// shared by the coordinator and every worker.
package remote

import (
	"context"
	"errors"
	"io/fs"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/nemanja-m/chunkstat/internal/shared/config"
	"github.com/nemanja-m/chunkstat/internal/shared/logging"
	"github.com/nemanja-m/chunkstat/pkg/chunk"
	"github.com/nemanja-m/chunkstat/pkg/local"
	"github.com/nemanja-m/chunkstat/pkg/syslog"
	"github.com/nemanja-m/chunkstat/pkg/tasks"
)

const (
	ServiceName        = "chunkstat.v1.ChunkService"
	processChunkMethod = "/" + ServiceName + "/ProcessChunk"
)

type chunkServiceServer interface {
	ProcessChunk(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var chunkServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*chunkServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ProcessChunk", Handler: processChunkHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "chunkstat/v1/chunk.proto",
}

func processChunkHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(chunkServiceServer).ProcessChunk(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: processChunkMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(chunkServiceServer).ProcessChunk(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// ChunkService runs requested chunks on a local Runner. Year and buffer size
// come from the request; the runner's own settings apply only when a request
// leaves them unset.
type ChunkService struct {
	runner local.Runner
	logger logging.Logger
}

func NewChunkService(runner local.Runner, logger logging.Logger) *ChunkService {
	return &ChunkService{runner: runner, logger: logger}
}

func (s *ChunkService) ProcessChunk(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decodeRequest(in)
	if err != nil {
		s.logger.Error("Invalid chunk request", "error", err)
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	s.logger.Debug("Processing chunk", "path", req.Path, "range", req.Range.String(), "tasks", req.Kinds, "year", req.Year)

	state, err := s.runner.Run(ctx, local.Request{
		Source:     chunk.NewFileSource(req.Path),
		Range:      req.Range,
		Kinds:      req.Kinds,
		Year:       req.Year,
		BufferSize: req.BufferSize,
	})
	if err != nil {
		s.logger.Error("Chunk failed", "path", req.Path, "range", req.Range.String(), "error", err)
		return nil, toStatus(err)
	}

	out, err := encodeState(state)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, syslog.ErrMalformedRecord):
		return status.Error(codes.DataLoss, err.Error())
	case errors.Is(err, fs.ErrNotExist):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, chunk.ErrSourceUnreadable):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, tasks.ErrUnknownTask):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

type Server struct {
	addr       string
	grpcServer *grpc.Server
	health     *health.Server
	logger     logging.Logger
}

func NewServer(cfg config.ServerConfig, runner local.Runner, logger logging.Logger) *Server {
	grpcServer := grpc.NewServer(
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             cfg.KeepaliveMinTime,
			PermitWithoutStream: true,
		}),
		grpc.ChainUnaryInterceptor(
			loggingInterceptor(logger),
			recoveryInterceptor(logger),
		),
	)
	grpcServer.RegisterService(&chunkServiceDesc, NewChunkService(runner, logger))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return &Server{
		addr:       cfg.Addr,
		grpcServer: grpcServer,
		health:     healthServer,
		logger:     logger,
	}
}

func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("Chunk worker listening", "addr", lis.Addr().String())
	return s.grpcServer.Serve(lis)
}

func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
