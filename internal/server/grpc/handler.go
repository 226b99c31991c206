package grpc

import (
	"context"

	pb "github.com/dmitrijs2005/questlog/internal/proto"
	"github.com/dmitrijs2005/questlog/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toPBUser(u *models.User) *pb.User {
	return &pb.User{Id: u.ID, Email: u.Email}
}

func (s *GRPCServer) SignUp(ctx context.Context, req *pb.SignUpRequest) (*pb.SignUpResponse, error) {
	u, err := s.accounts.SignUp(ctx, req.GetEmail(), req.GetPassword(), req.GetDisplayName())
	if err != nil {
		return nil, s.toStatus(ctx, "SignUp", err)
	}

	return &pb.SignUpResponse{User: toPBUser(u)}, nil
}

func (s *GRPCServer) SignIn(ctx context.Context, req *pb.SignInRequest) (*pb.SignInResponse, error) {
	pair, u, err := s.accounts.SignIn(ctx, req.GetEmail(), req.GetPassword())
	if err != nil {
		return nil, s.toStatus(ctx, "SignIn", err)
	}

	s.logger.Info(ctx, "signed in", "user_id", u.ID)
	return &pb.SignInResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         toPBUser(u),
	}, nil
}

func (s *GRPCServer) SignOut(ctx context.Context, req *pb.SignOutRequest) (*pb.SignOutResponse, error) {
	claims, ok := claimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	if err := s.accounts.SignOut(ctx, claims); err != nil {
		return nil, s.toStatus(ctx, "SignOut", err)
	}
	return &pb.SignOutResponse{}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *pb.RefreshTokenRequest) (*pb.RefreshTokenResponse, error) {
	pair, err := s.accounts.RefreshToken(ctx, req.GetRefreshToken())
	if err != nil {
		return nil, s.toStatus(ctx, "RefreshToken", err)
	}
	return &pb.RefreshTokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (s *GRPCServer) GetUser(ctx context.Context, req *pb.GetUserRequest) (*pb.GetUserResponse, error) {
	claims, ok := claimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	u, err := s.accounts.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, s.toStatus(ctx, "GetUser", err)
	}
	return &pb.GetUserResponse{User: toPBUser(u)}, nil
}

// GetProfile looks up any profile by id; an empty id means the caller's own.
func (s *GRPCServer) GetProfile(ctx context.Context, req *pb.GetProfileRequest) (*pb.GetProfileResponse, error) {
	claims, ok := claimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	id := req.GetId()
	if id == "" {
		id = claims.UserID
	}

	p, err := s.accounts.GetProfile(ctx, id)
	if err != nil {
		return nil, s.toStatus(ctx, "GetProfile", err)
	}
	if p == nil {
		return &pb.GetProfileResponse{}, nil
	}
	return &pb.GetProfileResponse{Profile: &pb.Profile{Id: p.ID, DisplayName: p.DisplayName}}, nil
}

func (s *GRPCServer) Call(ctx context.Context, req *pb.CallRequest) (*pb.CallResponse, error) {
	claims, ok := claimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	if err := s.accounts.Call(ctx, claims, req.GetName()); err != nil {
		return nil, s.toStatus(ctx, "Call", err)
	}
	return &pb.CallResponse{}, nil
}

func (s *GRPCServer) VerifyEmail(ctx context.Context, req *pb.VerifyEmailRequest) (*pb.VerifyEmailResponse, error) {
	if err := s.accounts.VerifyEmail(ctx, req.GetToken()); err != nil {
		return nil, s.toStatus(ctx, "VerifyEmail", err)
	}
	return &pb.VerifyEmailResponse{}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingResponse, error) {
	return &pb.PingResponse{Status: "OK"}, nil
}
