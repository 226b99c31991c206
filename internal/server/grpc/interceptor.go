package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/questlog/internal/common"
	pb "github.com/dmitrijs2005/questlog/internal/proto"
	"github.com/dmitrijs2005/questlog/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const claimsKey ctxKey = "claims"

func claimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok && c != nil
}

// protectedMethods require a valid, unrevoked access token.
var protectedMethods = map[string]bool{
	pb.IdentityService_SignOut_FullMethodName:    true,
	pb.IdentityService_GetUser_FullMethodName:    true,
	pb.IdentityService_GetProfile_FullMethodName: true,
	pb.IdentityService_Call_FullMethodName:       true,
}

// accessTokenInterceptor guards protectedMethods. Expired tokens are reported
// as "token expired" so the client knows a refresh may help.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if !protectedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			accessToken = values[0]
		}
	}
	if accessToken == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	claims, err := auth.ParseToken(accessToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}

	revoked, err := s.accounts.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Error(ctx, "revocation check failed", "error", err)
		return nil, status.Error(codes.Internal, common.ErrorInternal.Error())
	}
	if revoked {
		return nil, status.Error(codes.Unauthenticated, common.ErrTokenRevoked.Error())
	}

	return handler(context.WithValue(ctx, claimsKey, claims), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug(ctx, "handled request",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start))
	return resp, err
}
