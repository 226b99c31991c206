// Package grpc exposes the account service over gRPC using the stubs
// generated from internal/proto/identity.proto.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/questlog/internal/logging"
	pb "github.com/dmitrijs2005/questlog/internal/proto"
	"github.com/dmitrijs2005/questlog/internal/server/auth"
	"github.com/dmitrijs2005/questlog/internal/server/models"
	"github.com/dmitrijs2005/questlog/internal/server/services"
	"google.golang.org/grpc"
)

// AccountService is what the transport needs from services.AccountService.
type AccountService interface {
	SignUp(ctx context.Context, email, password, displayName string) (*models.User, error)
	VerifyEmail(ctx context.Context, token string) error
	SignIn(ctx context.Context, email, password string) (*services.TokenPair, *models.User, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	SignOut(ctx context.Context, claims *auth.Claims) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	Call(ctx context.Context, claims *auth.Claims, name string) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type GRPCServer struct {
	pb.UnimplementedIdentityServiceServer
	address   string
	accounts  AccountService
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(address string, l logging.Logger, accounts AccountService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   address,
		logger:    l.With("module", "grpc_server"),
		accounts:  accounts,
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	pb.RegisterIdentityServiceServer(srv, s)
	return srv
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	<-stopped
	return nil
}

func (s *GRPCServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}
