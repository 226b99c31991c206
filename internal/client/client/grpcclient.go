package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/questlog/internal/common"
	pb "github.com/dmitrijs2005/questlog/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const defaultRequestTimeout = 12 * time.Second

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      pb.IdentityServiceClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	s.accessToken, s.refreshToken = access, refresh
	s.mu.Unlock()
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	access, refresh := s.tokens()

	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil || method == pb.IdentityService_RefreshToken_FullMethodName {
		return err
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refresh == "" {
		return err
	}

	resp, rerr := s.client.RefreshToken(ctx, &pb.RefreshTokenRequest{RefreshToken: refresh})
	if rerr != nil {
		return err
	}
	s.setTokens(resp.GetAccessToken(), resp.GetRefreshToken())

	return invoker(withAccessToken(ctx, resp.GetAccessToken()), method, req, reply, cc, opts...)
}

// NewIdentityClient dials the Identity & Data Service at endpointURL.
// A zero timeout selects the default per-request timeout.
func NewIdentityClient(endpointURL string, timeout time.Duration) (*GRPCClient, error) {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewIdentityServiceClient(conn)
	return nil
}

func (s *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *GRPCClient) SignUp(ctx context.Context, email, password, displayName string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req := &pb.SignUpRequest{Email: email, Password: password, DisplayName: displayName}
	_, err := s.client.SignUp(ctx, req)
	return s.mapError(err)
}

func (s *GRPCClient) SignInWithPassword(ctx context.Context, email, password string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.SignIn(ctx, &pb.SignInRequest{Email: email, Password: password})
	if err != nil {
		return s.mapError(err)
	}
	s.setTokens(resp.GetAccessToken(), resp.GetRefreshToken())
	return nil
}

// SignOut ends the session on the service and always forgets the local
// tokens, even when the service call fails.
func (s *GRPCClient) SignOut(ctx context.Context) error {
	access, _ := s.tokens()
	if access == "" {
		return nil
	}
	defer s.setTokens("", "")

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.client.SignOut(ctx, &pb.SignOutRequest{})
	return s.mapError(err)
}

// GetUser returns the signed-in principal, or nil when there is no session
// or the service no longer accepts it.
func (s *GRPCClient) GetUser(ctx context.Context) (*Principal, error) {
	access, _ := s.tokens()
	if access == "" {
		return nil, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.GetUser(ctx, &pb.GetUserRequest{})
	if err != nil {
		err = s.mapError(err)
		if errors.Is(err, ErrUnauthorized) {
			return nil, nil
		}
		return nil, err
	}
	u := resp.GetUser()
	if u == nil {
		return nil, nil
	}
	return &Principal{ID: u.GetId(), Email: u.GetEmail()}, nil
}

// GetProfile returns nil without error when the user has no profile.
func (s *GRPCClient) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.GetProfile(ctx, &pb.GetProfileRequest{Id: userID})
	if err != nil {
		return nil, s.mapError(err)
	}
	p := resp.GetProfile()
	if p == nil {
		return nil, nil
	}
	return &Profile{ID: p.GetId(), DisplayName: p.GetDisplayName()}, nil
}

func (s *GRPCClient) RPC(ctx context.Context, name string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.client.Call(ctx, &pb.CallRequest{Name: name})
	return s.mapError(err)
}

func (s *GRPCClient) VerifyEmail(ctx context.Context, token string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.client.VerifyEmail(ctx, &pb.VerifyEmailRequest{Token: token})
	return s.mapError(err)
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Ping(ctx, &pb.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.GetStatus() != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return &ServiceError{Code: codes.Unknown, Message: err.Error()}
	}
	return &ServiceError{Code: st.Code(), Message: st.Message()}
}
