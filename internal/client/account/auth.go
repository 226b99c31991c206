package account

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/questlog/internal/client/client"
	"github.com/dmitrijs2005/questlog/internal/logging"
)

// Messages shown on the sign-up and sign-in forms.
const (
	MsgDomainRejected      = "Please use a valid email provider (Gmail, Outlook, Yahoo, etc)."
	MsgSignUpSuccess       = "Success! Check your email to confirm your account."
	MsgMalformedEmail      = "Please enter a valid email address."
	MsgDisplayNameRequired = "Please choose a display name."
	MsgDisplayNameTooShort = "Display name must be at least 3 characters."

	serviceErrorPrefix = "Error: "
	minDisplayNameLen  = 3
)

var (
	ErrMalformedEmail      = errors.New("malformed email address")
	ErrDisplayNameRequired = errors.New("display name is required")
	ErrDisplayNameTooShort = errors.New("display name is too short")
)

var validationMessages = map[error]string{
	ErrMalformedEmail:      MsgMalformedEmail,
	ErrDisplayNameRequired: MsgDisplayNameRequired,
	ErrDisplayNameTooShort: MsgDisplayNameTooShort,
}

// Credentials are what the user submits on the sign-up and sign-in forms.
// DisplayName is only used by sign-up.
type Credentials struct {
	Email       string
	Password    string
	DisplayName string
}

// Validate checks sign-up credentials: the email has exactly one '@' with
// text on both sides, and the display name is present with at least three
// characters.
func (c Credentials) Validate() error {
	local, domain, found := strings.Cut(c.Email, "@")
	if !found || local == "" || domain == "" || strings.Contains(domain, "@") {
		return ErrMalformedEmail
	}
	name := strings.TrimSpace(c.DisplayName)
	if name == "" {
		return ErrDisplayNameRequired
	}
	if utf8.RuneCountInString(name) < minDisplayNameLen {
		return ErrDisplayNameTooShort
	}
	return nil
}

// AuthOrchestrator drives the sign-up and sign-in forms. It assumes the
// caller does not submit while Busy.
type AuthOrchestrator struct {
	svc     client.Client
	nav     Navigator
	domains DomainSet
	log     logging.Logger

	form Form
}

// NewAuthOrchestrator returns an orchestrator whose sign-up only accepts
// addresses from domains.
func NewAuthOrchestrator(svc client.Client, nav Navigator, domains DomainSet, log logging.Logger) *AuthOrchestrator {
	return &AuthOrchestrator{
		svc:     svc,
		nav:     nav,
		domains: domains,
		log:     log.With("module", "auth"),
	}
}

// Outcome is the result of the last submission.
func (a *AuthOrchestrator) Outcome() Outcome { return a.form.Outcome() }

// Busy reports whether a submission is in flight.
func (a *AuthOrchestrator) Busy() bool { return a.form.Busy() }

// SignUp creates an account. The domain allow-list runs before anything
// else, and neither a rejected address nor malformed credentials ever reach
// the service. On success the
// user is told to confirm by email and stays on the current view.
func (a *AuthOrchestrator) SignUp(ctx context.Context, creds Credentials) Outcome {
	a.form.begin()

	if !a.domains.Validate(creds.Email) {
		a.log.Debug(ctx, "sign-up rejected by domain allow-list")
		return a.form.finish(FailedOutcome(MsgDomainRejected))
	}
	if err := creds.Validate(); err != nil {
		return a.form.finish(FailedOutcome(validationMessages[err]))
	}

	if err := a.svc.SignUp(ctx, creds.Email, creds.Password, creds.DisplayName); err != nil {
		a.log.Info(ctx, "sign-up failed", "error", err)
		return a.form.finish(FailedOutcome(serviceErrorPrefix + client.ErrorMessage(err)))
	}

	a.log.Info(ctx, "sign-up accepted")
	return a.form.finish(SucceededOutcome(MsgSignUpSuccess))
}

// SignIn authenticates with a password. Success shows no message: the user
// is taken to the dashboard and the view is refreshed.
func (a *AuthOrchestrator) SignIn(ctx context.Context, creds Credentials) Outcome {
	a.form.begin()

	if err := a.svc.SignInWithPassword(ctx, creds.Email, creds.Password); err != nil {
		a.log.Info(ctx, "sign-in failed", "error", err)
		return a.form.finish(FailedOutcome(serviceErrorPrefix + client.ErrorMessage(err)))
	}

	a.nav.Push(ViewDashboard)
	a.nav.Refresh()
	return a.form.finish(IdleOutcome())
}
