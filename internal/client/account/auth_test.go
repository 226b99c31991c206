package account

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/questlog/internal/client/client"
	"github.com/dmitrijs2005/questlog/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func newOrchestrator(fc *fakeClient, nav *fakeNav) *AuthOrchestrator {
	return NewAuthOrchestrator(fc, nav, DefaultDomains, logging.Discard())
}

func TestCredentials_Validate(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		want  error
	}{
		{"ok", Credentials{Email: "a@gmail.com", DisplayName: "Rae"}, nil},
		{"no display name", Credentials{Email: "a@gmail.com"}, ErrDisplayNameRequired},
		{"blank display name", Credentials{Email: "a@gmail.com", DisplayName: "   "}, ErrDisplayNameRequired},
		{"short display name", Credentials{Email: "a@gmail.com", DisplayName: "Al"}, ErrDisplayNameTooShort},
		{"runes not bytes", Credentials{Email: "a@gmail.com", DisplayName: "Зоя"}, nil},
		{"no at", Credentials{Email: "gmail.com"}, ErrMalformedEmail},
		{"two ats", Credentials{Email: "a@b@gmail.com"}, ErrMalformedEmail},
		{"empty local", Credentials{Email: "@gmail.com"}, ErrMalformedEmail},
		{"empty domain", Credentials{Email: "a@"}, ErrMalformedEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.creds.Validate())
		})
	}
}

func TestSignUp_RejectedDomainNeverCallsService(t *testing.T) {
	fc := &fakeClient{}
	a := newOrchestrator(fc, &fakeNav{})

	out := a.SignUp(context.Background(), Credentials{Email: "bob@tempmail.xyz", Password: "secret1", DisplayName: "Bob"})

	assert.Equal(t, Failed, out.Kind())
	assert.Equal(t, MsgDomainRejected, out.Message())
	assert.Zero(t, fc.count("SignUp"))
	assert.False(t, a.Busy())
}

func TestSignUp_MalformedCredentialsNeverCallService(t *testing.T) {
	fc := &fakeClient{}
	a := newOrchestrator(fc, &fakeNav{})

	out := a.SignUp(context.Background(), Credentials{Email: "bob@gmail.com", Password: "secret1", DisplayName: "Bo"})

	assert.Equal(t, FailedOutcome(MsgDisplayNameTooShort), out)
	assert.Empty(t, fc.Calls())
	assert.False(t, a.Busy())
}

func TestSignUp_MissingDisplayNameNeverCallsService(t *testing.T) {
	fc := &fakeClient{}
	a := newOrchestrator(fc, &fakeNav{})

	out := a.SignUp(context.Background(), Credentials{Email: "rae@gmail.com", Password: "secret1"})

	assert.Equal(t, FailedOutcome(MsgDisplayNameRequired), out)
	assert.Zero(t, fc.count("SignUp"))
	assert.False(t, a.Busy())
}

func TestSignUp_MalformedEmailMessage(t *testing.T) {
	fc := &fakeClient{}
	a := newOrchestrator(fc, &fakeNav{})

	out := a.SignUp(context.Background(), Credentials{Email: "@gmail.com", Password: "secret1", DisplayName: "Rae"})

	assert.Equal(t, FailedOutcome(MsgMalformedEmail), out)
	assert.Empty(t, fc.Calls())
}

func TestSignUp_Success(t *testing.T) {
	fc := &fakeClient{}
	nav := &fakeNav{}
	a := newOrchestrator(fc, nav)

	var busyDuringCall bool
	fc.during = func(string) { busyDuringCall = a.Busy() }

	out := a.SignUp(context.Background(), Credentials{Email: "rae@gmail.com", Password: "secret1", DisplayName: "Rae"})

	assert.Equal(t, SucceededOutcome(MsgSignUpSuccess), out)
	assert.True(t, busyDuringCall)
	assert.False(t, a.Busy())
	assert.Equal(t, "rae@gmail.com", fc.LastSignUpEmail)
	assert.Equal(t, "secret1", fc.LastSignUpPassword)
	assert.Equal(t, "Rae", fc.LastSignUpDisplayName)
	assert.Empty(t, nav.events, "sign-up must not navigate")
}

func TestSignUp_ServiceErrorIsPrefixedVerbatim(t *testing.T) {
	fc := &fakeClient{SignUpErr: &client.ServiceError{Code: codes.AlreadyExists, Message: "User already registered"}}
	a := newOrchestrator(fc, &fakeNav{})

	out := a.SignUp(context.Background(), Credentials{Email: "rae@gmail.com", Password: "secret1", DisplayName: "Rae"})

	assert.Equal(t, FailedOutcome("Error: User already registered"), out)
	assert.False(t, a.Busy())
}

func TestSignUp_NewSubmissionDiscardsOldOutcome(t *testing.T) {
	fc := &fakeClient{}
	a := newOrchestrator(fc, &fakeNav{})

	a.SignUp(context.Background(), Credentials{Email: "bob@tempmail.xyz"})
	require.Equal(t, Failed, a.Outcome().Kind())

	var seen Outcome
	fc.during = func(string) { seen = a.Outcome() }
	a.SignUp(context.Background(), Credentials{Email: "bob@gmail.com", Password: "secret1", DisplayName: "Bob"})

	assert.Equal(t, PendingOutcome(), seen)
	assert.Equal(t, Succeeded, a.Outcome().Kind())
}

func TestSignIn_SuccessNavigatesAndRefreshes(t *testing.T) {
	fc := &fakeClient{}
	nav := &fakeNav{}
	a := newOrchestrator(fc, nav)

	var busyDuringCall bool
	fc.during = func(string) { busyDuringCall = a.Busy() }

	out := a.SignIn(context.Background(), Credentials{Email: "rae@gmail.com", Password: "secret1"})

	assert.Equal(t, IdleOutcome(), out)
	assert.Empty(t, out.Message())
	assert.True(t, busyDuringCall)
	assert.False(t, a.Busy())
	assert.Equal(t, []string{"push /dashboard", "refresh"}, nav.events)
	assert.Equal(t, "rae@gmail.com", fc.LastSignInEmail)
}

func TestSignIn_ErrorStaysOnForm(t *testing.T) {
	fc := &fakeClient{SignInErr: &client.ServiceError{Code: codes.Unauthenticated, Message: "Invalid login credentials"}}
	nav := &fakeNav{}
	a := newOrchestrator(fc, nav)

	out := a.SignIn(context.Background(), Credentials{Email: "rae@gmail.com", Password: "nope"})

	assert.Equal(t, FailedOutcome("Error: Invalid login credentials"), out)
	assert.Empty(t, nav.events)
	assert.False(t, a.Busy())
}

func TestSignIn_TransportErrorUsesItsText(t *testing.T) {
	fc := &fakeClient{SignInErr: errors.New("server unavailable")}
	a := newOrchestrator(fc, &fakeNav{})

	out := a.SignIn(context.Background(), Credentials{Email: "rae@gmail.com", Password: "x"})
	assert.Equal(t, "Error: server unavailable", out.Message())
}

func TestSignIn_DoesNotApplyDomainAllowList(t *testing.T) {
	fc := &fakeClient{}
	a := newOrchestrator(fc, &fakeNav{})

	a.SignIn(context.Background(), Credentials{Email: "old@tempmail.xyz", Password: "x"})
	assert.Equal(t, 1, fc.count("SignIn"))
}
