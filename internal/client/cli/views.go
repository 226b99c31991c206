package cli

import (
	"context"

	"github.com/dmitrijs2005/questlog/internal/client/account"
	"github.com/dmitrijs2005/questlog/internal/common"
)

// render draws the view the navigator points at, if a navigation is pending.
func (a *App) render(ctx context.Context) {
	v, ok, reload := a.nav.take()
	if reload {
		a.honorAcked = false
	}
	if !ok {
		return
	}

	switch v {
	case account.ViewLanding:
		a.println(landingText)
	case account.ViewDashboard:
		a.renderDashboard(ctx)
	case account.ViewSettings:
		a.renderSettings(ctx)
	case account.ViewDocs:
		a.println(docsText)
	default:
		a.log.Warn(ctx, "unknown view", "view", string(v))
	}
}

func (a *App) renderDashboard(ctx context.Context) {
	a.println("== Dashboard ==")
	if !a.honorAcked {
		a.showHonorCode(ctx)
	}
	a.println("Type 'help' for commands.")
}

// showHonorCode displays the honor code unless this device already has an
// acknowledgement on record, and records one when the user accepts.
func (a *App) showHonorCode(ctx context.Context) {
	_, seen, err := a.store.Get(ctx, common.OnboardingFlagKey)
	if err != nil {
		a.log.Warn(ctx, "read onboarding flag", "error", err)
	}
	if seen {
		a.honorAcked = true
		return
	}

	a.println(honorCodeText)
	ok, err := confirm(a.reader, "Do you accept the Honor Code?", a.out)
	if err != nil || !ok {
		return
	}
	if err := a.store.Set(ctx, common.OnboardingFlagKey, "true"); err != nil {
		a.log.Warn(ctx, "write onboarding flag", "error", err)
	}
	a.honorAcked = true
}

func (a *App) renderSettings(ctx context.Context) {
	a.println("== Settings & Support ==")
	a.println("Logged in as " + a.identity.Resolve(ctx) + ".")
	a.println("Need help? Contact " + supportContact + " or type 'docs' to read the documentation.")
	a.println("Account: 'reset-honor' to see the Honor Code again, 'delete-account' to delete your account.")
}
