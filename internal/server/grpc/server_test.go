package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/questlog/internal/common"
	"github.com/dmitrijs2005/questlog/internal/logging"
	pb "github.com/dmitrijs2005/questlog/internal/proto"
	"github.com/dmitrijs2005/questlog/internal/server/auth"
	"github.com/dmitrijs2005/questlog/internal/server/models"
	"github.com/dmitrijs2005/questlog/internal/server/services"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const testSecret = "secret"

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type fakeAccounts struct {
	Err        error
	RevokedErr error
	revoked    map[string]bool
	profile    *models.Profile

	LastSignUp    [3]string
	LastClaims    *auth.Claims
	LastCall      string
	LastProfileID string
	LastRefresh   string
	LastVerify    string
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{revoked: map[string]bool{}}
}

func (f *fakeAccounts) SignUp(ctx context.Context, email, password, displayName string) (*models.User, error) {
	f.LastSignUp = [3]string{email, password, displayName}
	if f.Err != nil {
		return nil, f.Err
	}
	return &models.User{ID: "u-1", Email: email}, nil
}

func (f *fakeAccounts) VerifyEmail(ctx context.Context, token string) error {
	f.LastVerify = token
	return f.Err
}

func (f *fakeAccounts) SignIn(ctx context.Context, email, password string) (*services.TokenPair, *models.User, error) {
	if f.Err != nil {
		return nil, nil, f.Err
	}
	return &services.TokenPair{AccessToken: "A", RefreshToken: "R"}, &models.User{ID: "u-1", Email: email}, nil
}

func (f *fakeAccounts) RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	f.LastRefresh = refreshToken
	if f.Err != nil {
		return nil, f.Err
	}
	return &services.TokenPair{AccessToken: "A2", RefreshToken: "R2"}, nil
}

func (f *fakeAccounts) SignOut(ctx context.Context, claims *auth.Claims) error {
	f.LastClaims = claims
	return f.Err
}

func (f *fakeAccounts) GetUser(ctx context.Context, userID string) (*models.User, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return &models.User{ID: userID, Email: "rae@gmail.com"}, nil
}

func (f *fakeAccounts) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	f.LastProfileID = id
	return f.profile, f.Err
}

func (f *fakeAccounts) Call(ctx context.Context, claims *auth.Claims, name string) error {
	f.LastClaims = claims
	f.LastCall = name
	return f.Err
}

func (f *fakeAccounts) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if f.RevokedErr != nil {
		return false, f.RevokedErr
	}
	return f.revoked[jti], nil
}

// startServer serves s over an in-memory listener and returns a client.
func startServer(t *testing.T, accounts AccountService) pb.IdentityServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := NewGRPCServer("bufnet", nopLogger{}, accounts, testSecret)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		cancel()
		require.NoError(t, <-done)
	})
	return pb.NewIdentityServiceClient(conn)
}

func withToken(token string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, token)
}

func validToken(t *testing.T, userID string) (string, *auth.Claims) {
	t.Helper()
	tok, err := auth.GenerateToken(userID, "rae@gmail.com", []byte(testSecret), time.Hour)
	require.NoError(t, err)
	claims, err := auth.ParseToken(tok, []byte(testSecret))
	require.NoError(t, err)
	return tok, claims
}

/*************
 * Public methods
 *************/

func TestPing(t *testing.T) {
	c := startServer(t, newFakeAccounts())

	out, err := c.Ping(context.Background(), &pb.PingRequest{})
	require.NoError(t, err)
	require.Equal(t, "OK", out.GetStatus())
}

func TestSignUp(t *testing.T) {
	f := newFakeAccounts()
	c := startServer(t, f)

	out, err := c.SignUp(context.Background(), &pb.SignUpRequest{Email: "rae@gmail.com", Password: "secret1", DisplayName: "Rae"})
	require.NoError(t, err)
	require.Equal(t, [3]string{"rae@gmail.com", "secret1", "Rae"}, f.LastSignUp)
	require.Equal(t, "u-1", out.GetUser().GetId())
	require.Equal(t, "rae@gmail.com", out.GetUser().GetEmail())
}

func TestSignIn(t *testing.T) {
	f := newFakeAccounts()
	c := startServer(t, f)

	out, err := c.SignIn(context.Background(), &pb.SignInRequest{Email: "rae@gmail.com", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, "A", out.GetAccessToken())
	require.Equal(t, "R", out.GetRefreshToken())
	require.Equal(t, "u-1", out.GetUser().GetId())
}

func TestRefreshAndVerify(t *testing.T) {
	f := newFakeAccounts()
	c := startServer(t, f)

	out, err := c.RefreshToken(context.Background(), &pb.RefreshTokenRequest{RefreshToken: "R1"})
	require.NoError(t, err)
	require.Equal(t, "R1", f.LastRefresh)
	require.Equal(t, "A2", out.GetAccessToken())
	require.Equal(t, "R2", out.GetRefreshToken())

	_, err = c.VerifyEmail(context.Background(), &pb.VerifyEmailRequest{Token: "tok"})
	require.NoError(t, err)
	require.Equal(t, "tok", f.LastVerify)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code codes.Code
		msg  string
	}{
		{common.ErrorInvalidCredentials, codes.Unauthenticated, "Invalid login credentials"},
		{common.ErrorEmailNotConfirmed, codes.FailedPrecondition, "Email not confirmed"},
		{common.ErrorAlreadyExists, codes.AlreadyExists, "User already registered"},
		{common.ErrorWeakPassword, codes.InvalidArgument, "Password should be at least 6 characters"},
		{fmt.Errorf("wrapped: %w", common.ErrorInvalidEmail), codes.InvalidArgument, common.ErrorInvalidEmail.Error()},
		{common.ErrRefreshTokenExpired, codes.Unauthenticated, common.ErrRefreshTokenExpired.Error()},
		{errors.New("pq: connection reset"), codes.Internal, "internal error"},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			f := newFakeAccounts()
			f.Err = tc.err
			c := startServer(t, f)

			_, err := c.SignIn(context.Background(), &pb.SignInRequest{Email: "rae@gmail.com", Password: "x"})
			st := status.Convert(err)
			require.Equal(t, tc.code, st.Code())
			require.Equal(t, tc.msg, st.Message())
		})
	}
}

/*************
 * Protected methods
 *************/

func TestProtected_MissingToken(t *testing.T) {
	c := startServer(t, newFakeAccounts())
	ctx := context.Background()

	calls := map[string]func() error{
		"SignOut":    func() error { _, err := c.SignOut(ctx, &pb.SignOutRequest{}); return err },
		"GetUser":    func() error { _, err := c.GetUser(ctx, &pb.GetUserRequest{}); return err },
		"GetProfile": func() error { _, err := c.GetProfile(ctx, &pb.GetProfileRequest{}); return err },
		"Call":       func() error { _, err := c.Call(ctx, &pb.CallRequest{}); return err },
	}
	for name, call := range calls {
		err := call()
		require.Equal(t, codes.Unauthenticated, status.Code(err), name)
		require.Equal(t, "missing token", status.Convert(err).Message(), name)
	}
}

func TestProtected_InvalidToken(t *testing.T) {
	c := startServer(t, newFakeAccounts())

	_, err := c.GetUser(withToken("not-a-jwt"), &pb.GetUserRequest{})
	require.Equal(t, codes.Unauthenticated, status.Code(err))
	require.Equal(t, common.ErrInvalidToken.Error(), status.Convert(err).Message())
}

func TestProtected_ExpiredTokenAsksForRefresh(t *testing.T) {
	c := startServer(t, newFakeAccounts())

	tok, err := auth.GenerateToken("u-1", "", []byte(testSecret), -time.Minute)
	require.NoError(t, err)

	_, err = c.GetUser(withToken(tok), &pb.GetUserRequest{})
	require.Equal(t, codes.Unauthenticated, status.Code(err))
	require.Equal(t, "token expired", status.Convert(err).Message())
}

func TestProtected_RevokedToken(t *testing.T) {
	f := newFakeAccounts()
	c := startServer(t, f)
	tok, claims := validToken(t, "u-1")
	f.revoked[claims.ID] = true

	_, err := c.Call(withToken(tok), &pb.CallRequest{Name: common.DeleteAccountProcedure})
	require.Equal(t, codes.Unauthenticated, status.Code(err))
	require.Equal(t, common.ErrTokenRevoked.Error(), status.Convert(err).Message())
	require.Empty(t, f.LastCall)
}

func TestProtected_RevocationStoreDown(t *testing.T) {
	f := newFakeAccounts()
	f.RevokedErr = errors.New("redis down")
	c := startServer(t, f)
	tok, _ := validToken(t, "u-1")

	_, err := c.GetUser(withToken(tok), &pb.GetUserRequest{})
	require.Equal(t, codes.Internal, status.Code(err))
}

func TestGetUser(t *testing.T) {
	f := newFakeAccounts()
	c := startServer(t, f)
	tok, _ := validToken(t, "u-7")

	out, err := c.GetUser(withToken(tok), &pb.GetUserRequest{})
	require.NoError(t, err)
	require.Equal(t, "u-7", out.GetUser().GetId())
	require.Equal(t, "rae@gmail.com", out.GetUser().GetEmail())
}

func TestGetProfile(t *testing.T) {
	f := newFakeAccounts()
	c := startServer(t, f)
	tok, _ := validToken(t, "u-7")

	out, err := c.GetProfile(withToken(tok), &pb.GetProfileRequest{})
	require.NoError(t, err)
	require.Equal(t, "u-7", f.LastProfileID)
	require.Nil(t, out.GetProfile())

	f.profile = &models.Profile{ID: "u-8", DisplayName: "Rae"}
	out, err = c.GetProfile(withToken(tok), &pb.GetProfileRequest{Id: "u-8"})
	require.NoError(t, err)
	require.Equal(t, "u-8", f.LastProfileID)
	require.Equal(t, "u-8", out.GetProfile().GetId())
	require.Equal(t, "Rae", out.GetProfile().GetDisplayName())
}

func TestCall_PassesCallerAndProcedure(t *testing.T) {
	f := newFakeAccounts()
	c := startServer(t, f)
	tok, claims := validToken(t, "u-7")

	_, err := c.Call(withToken(tok), &pb.CallRequest{Name: common.DeleteAccountProcedure})
	require.NoError(t, err)
	require.Equal(t, common.DeleteAccountProcedure, f.LastCall)
	require.Equal(t, claims.ID, f.LastClaims.ID)
	require.Equal(t, "u-7", f.LastClaims.UserID)

	f.Err = common.ErrorUnknownProcedure
	_, err = c.Call(withToken(tok), &pb.CallRequest{Name: "nope"})
	require.Equal(t, codes.NotFound, status.Code(err))
}

func TestSignOut(t *testing.T) {
	f := newFakeAccounts()
	c := startServer(t, f)
	tok, claims := validToken(t, "u-7")

	_, err := c.SignOut(withToken(tok), &pb.SignOutRequest{})
	require.NoError(t, err)
	require.Equal(t, claims.ID, f.LastClaims.ID)
}

/*************
 * Lifecycle
 *************/

func TestRun_StopsOnContextCancel(t *testing.T) {
	srv := NewGRPCServer("127.0.0.1:0", nopLogger{}, newFakeAccounts(), testSecret)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	srv := NewGRPCServer("127.0.0.1:99999", nopLogger{}, newFakeAccounts(), testSecret)

	require.Error(t, srv.Run(context.Background()))
}
