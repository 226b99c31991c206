package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/questlog/internal/client/account"
	"github.com/dmitrijs2005/questlog/internal/client/client"
	"github.com/dmitrijs2005/questlog/internal/common"
)

// Input indirections, swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	confirm       = Confirm
)

func (a *App) readCredentials(withDisplayName bool) (account.Credentials, error) {
	var creds account.Credentials

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return creds, err
	}
	creds.Email = email

	if withDisplayName {
		name, err := getSimpleText(a.reader, "Choose a display name", a.out)
		if err != nil {
			return creds, err
		}
		creds.DisplayName = name
	}

	password, err := getPassword(a.out)
	if err != nil {
		return creds, err
	}
	creds.Password = string(password)
	common.WipeByteArray(password)
	return creds, nil
}

func (a *App) printOutcome(o account.Outcome) {
	if o.Message() != "" {
		a.println(o.Message())
	}
}

func (a *App) SignUp(ctx context.Context) error {
	if a.auth.Busy() {
		return nil
	}
	creds, err := a.readCredentials(true)
	if err != nil {
		return err
	}
	a.printOutcome(a.auth.SignUp(ctx, creds))
	return nil
}

func (a *App) SignIn(ctx context.Context) error {
	if a.auth.Busy() {
		return nil
	}
	creds, err := a.readCredentials(false)
	if err != nil {
		return err
	}
	out := a.auth.SignIn(ctx, creds)
	if out.Kind() == account.Failed {
		a.printOutcome(out)
		return nil
	}
	a.signedIn = true
	a.lifecycle = a.newLifecycle()
	return nil
}

// Verify redeems the confirmation token from the sign-up email.
func (a *App) Verify(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Enter the confirmation code from your email", a.out)
	if err != nil {
		return err
	}
	if err := a.svc.VerifyEmail(ctx, token); err != nil {
		a.println("Error: " + client.ErrorMessage(err))
		return nil
	}
	a.println("Email confirmed. You can sign in now.")
	return nil
}

func (a *App) SignOut(ctx context.Context) error {
	if err := a.svc.SignOut(ctx); err != nil {
		a.log.Warn(ctx, "sign-out", "error", err)
	}
	a.signedIn = false
	a.nav.Push(account.ViewLanding)
	return nil
}

func (a *App) Settings(ctx context.Context) error {
	a.nav.Push(account.ViewSettings)
	return nil
}

func (a *App) Docs(ctx context.Context) error {
	a.nav.Push(account.ViewDocs)
	return nil
}

func (a *App) FAQ(ctx context.Context) error {
	a.println("Frequently Asked Questions")
	for i, item := range faq {
		a.println(fmt.Sprintf("%d. %s", i+1, item.question))
		a.println("   " + item.answer)
	}
	return nil
}

// ResetHonor clears the honor-code acknowledgement and offers to reload
// the dashboard so it is shown again.
func (a *App) ResetHonor(ctx context.Context) error {
	tok := a.lifecycle.RequestOnboardingReset()
	ok, err := confirm(a.reader, tok.Prompt(), a.out)
	if err != nil || !ok {
		a.lifecycle.Cancel(tok)
		return err
	}

	next, err := a.lifecycle.ConfirmOnboardingReset(ctx, tok)
	if err != nil {
		return err
	}

	ok, err = confirm(a.reader, next.Prompt(), a.out)
	if err != nil || !ok {
		a.lifecycle.Cancel(next)
		return err
	}
	return a.lifecycle.ConfirmReload(next)
}

func (a *App) DeleteAccount(ctx context.Context) error {
	if a.lifecycle.Busy() {
		a.println("Deleting...")
		return nil
	}

	tok := a.lifecycle.RequestDeletion()
	ok, err := confirm(a.reader, "WARNING: "+tok.Prompt(), a.out)
	if err != nil || !ok {
		a.lifecycle.Cancel(tok)
		return err
	}

	a.println("Deleting...")
	out := a.lifecycle.ConfirmDeletion(ctx, tok)
	a.printOutcome(out)
	if out.Kind() == account.Succeeded {
		a.signedIn = false
	}
	return nil
}
