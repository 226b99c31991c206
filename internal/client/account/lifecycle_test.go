package account

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/questlog/internal/client/client"
	"github.com/dmitrijs2005/questlog/internal/common"
	"github.com/dmitrijs2005/questlog/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

type lifecycleFixture struct {
	fc    *fakeClient
	store *fakeStorage
	nav   *fakeNav
	log   recLogger
	c     *LifecycleController
}

func newLifecycle() *lifecycleFixture {
	f := &lifecycleFixture{
		fc:    &fakeClient{},
		store: newFakeStorage(),
		nav:   &fakeNav{},
		log:   newRecLogger(),
	}
	f.c = NewLifecycleController(f.fc, f.store, f.nav, f.log)
	return f
}

/*************
 * Onboarding reset
 *************/

func TestOnboardingReset_ClearsFlagAndOffersReload(t *testing.T) {
	f := newLifecycle()
	f.store.data[common.OnboardingFlagKey] = "true"
	ctx := context.Background()

	tok := f.c.RequestOnboardingReset()
	assert.Equal(t, PromptOnboardingReset, tok.Prompt())
	assert.Equal(t, 0, f.store.deletes, "nothing happens before confirmation")

	next, err := f.c.ConfirmOnboardingReset(ctx, tok)
	require.NoError(t, err)
	_, ok := f.store.data[common.OnboardingFlagKey]
	assert.False(t, ok)
	assert.Equal(t, PromptReloadDashboard, next.Prompt())
	assert.Empty(t, f.nav.events, "reload only after the second confirmation")

	require.NoError(t, f.c.ConfirmReload(next))
	assert.Equal(t, []string{"reload /dashboard"}, f.nav.events)
}

func TestOnboardingReset_DecliningReloadDoesNotNavigate(t *testing.T) {
	f := newLifecycle()
	next, err := f.c.ConfirmOnboardingReset(context.Background(), f.c.RequestOnboardingReset())
	require.NoError(t, err)

	f.c.Cancel(next)
	assert.ErrorIs(t, f.c.ConfirmReload(next), ErrInvalidConfirmation)
	assert.Empty(t, f.nav.events)
}

func TestOnboardingReset_IsIdempotent(t *testing.T) {
	f := newLifecycle()
	ctx := context.Background()

	_, err := f.c.ConfirmOnboardingReset(ctx, f.c.RequestOnboardingReset())
	require.NoError(t, err)
	_, err = f.c.ConfirmOnboardingReset(ctx, f.c.RequestOnboardingReset())
	require.NoError(t, err)

	assert.Equal(t, 2, f.store.deletes)
	assert.Empty(t, f.store.data)
}

func TestOnboardingReset_StorageErrorIsLoggedNoop(t *testing.T) {
	f := newLifecycle()
	f.store.DeleteErr = errors.New("database is locked")

	next, err := f.c.ConfirmOnboardingReset(context.Background(), f.c.RequestOnboardingReset())
	require.NoError(t, err)
	assert.Equal(t, PromptReloadDashboard, next.Prompt())
	assert.True(t, f.log.has("warn"))
}

func TestOnboardingReset_NeverCallsService(t *testing.T) {
	f := newLifecycle()
	next, err := f.c.ConfirmOnboardingReset(context.Background(), f.c.RequestOnboardingReset())
	require.NoError(t, err)
	require.NoError(t, f.c.ConfirmReload(next))
	assert.Empty(t, f.fc.Calls())
}

/*************
 * Confirmation tokens
 *************/

func TestConfirmation_IsSingleUse(t *testing.T) {
	f := newLifecycle()
	tok := f.c.RequestOnboardingReset()

	_, err := f.c.ConfirmOnboardingReset(context.Background(), tok)
	require.NoError(t, err)
	_, err = f.c.ConfirmOnboardingReset(context.Background(), tok)
	assert.ErrorIs(t, err, ErrInvalidConfirmation)
	assert.Equal(t, 1, f.store.deletes)
}

func TestConfirmation_WrongActionRejected(t *testing.T) {
	f := newLifecycle()
	resetTok := f.c.RequestOnboardingReset()

	out := f.c.ConfirmDeletion(context.Background(), resetTok)
	assert.Equal(t, FailedOutcome(MsgInvalidConfirmation), out)
	assert.Empty(t, f.fc.Calls())

	_, err := f.c.ConfirmOnboardingReset(context.Background(), resetTok)
	assert.NoError(t, err, "a mismatched redeem must not consume the token")
}

func TestConfirmation_ForeignAndZeroTokensRejected(t *testing.T) {
	f := newLifecycle()
	other := NewLifecycleController(&fakeClient{}, newFakeStorage(), &fakeNav{}, logging.Discard())

	_, err := f.c.ConfirmOnboardingReset(context.Background(), other.RequestOnboardingReset())
	assert.ErrorIs(t, err, ErrInvalidConfirmation)
	assert.ErrorIs(t, f.c.ConfirmReload(Confirmation{}), ErrInvalidConfirmation)
}

func TestCancel_DiscardsDeletionToken(t *testing.T) {
	f := newLifecycle()
	tok := f.c.RequestDeletion()
	f.c.Cancel(tok)

	out := f.c.ConfirmDeletion(context.Background(), tok)
	assert.Equal(t, Failed, out.Kind())
	assert.Empty(t, f.fc.Calls())
	assert.Equal(t, DeletionNotStarted, f.c.DeletionState())
}

/*************
 * Account deletion
 *************/

func TestDeletion_PromptDescribesLoss(t *testing.T) {
	p := newLifecycle().c.RequestDeletion().Prompt()
	for _, word := range []string{"account", "XP", "quests", "leaderboard", "cannot be undone"} {
		assert.Contains(t, p, word)
	}
}

func TestDeletion_SuccessSignsOutAfterRPCAndGoesToLanding(t *testing.T) {
	f := newLifecycle()
	var busyDuringRPC bool
	var stateDuringRPC DeletionState
	f.fc.during = func(m string) {
		if m == "RPC" {
			busyDuringRPC = f.c.Busy()
			stateDuringRPC = f.c.DeletionState()
		}
	}

	out := f.c.ConfirmDeletion(context.Background(), f.c.RequestDeletion())

	assert.Equal(t, SucceededOutcome(MsgAccountDeleted), out)
	assert.Equal(t, []string{"RPC", "SignOut"}, f.fc.Calls())
	assert.Equal(t, common.DeleteAccountProcedure, f.fc.LastRPCName)
	assert.Equal(t, []string{"push /"}, f.nav.events)
	assert.True(t, busyDuringRPC)
	assert.Equal(t, DeletionInFlight, stateDuringRPC)
	assert.Equal(t, DeletionCompleted, f.c.DeletionState())
	assert.False(t, f.c.Busy())
}

func TestDeletion_FailureKeepsSessionAndAllowsRetry(t *testing.T) {
	f := newLifecycle()
	f.fc.RPCErr = &client.ServiceError{Code: codes.ResourceExhausted, Message: "quota exceeded"}

	out := f.c.ConfirmDeletion(context.Background(), f.c.RequestDeletion())

	assert.Equal(t, Failed, out.Kind())
	assert.Contains(t, out.Message(), "quota exceeded")
	assert.Equal(t, "Error deleting account: quota exceeded", out.Message())
	assert.Zero(t, f.fc.count("SignOut"))
	assert.Empty(t, f.nav.events)
	assert.False(t, f.c.Busy())
	assert.Equal(t, DeletionNotStarted, f.c.DeletionState())

	f.fc.RPCErr = nil
	out = f.c.ConfirmDeletion(context.Background(), f.c.RequestDeletion())
	assert.Equal(t, Succeeded, out.Kind())
	assert.Equal(t, 2, f.fc.count("RPC"))
}

func TestDeletion_SignOutErrorIsBestEffort(t *testing.T) {
	f := newLifecycle()
	f.fc.SignOutErr = errors.New("server unavailable")

	out := f.c.ConfirmDeletion(context.Background(), f.c.RequestDeletion())

	assert.Equal(t, SucceededOutcome(MsgAccountDeleted), out)
	assert.Equal(t, []string{"push /"}, f.nav.events)
	assert.True(t, f.log.has("warn"))
}

func TestDeletion_SecondConfirmWhileInFlightMakesNoCall(t *testing.T) {
	f := newLifecycle()
	second := f.c.RequestDeletion()

	var reentrant Outcome
	f.fc.during = func(m string) {
		if m == "RPC" {
			reentrant = f.c.ConfirmDeletion(context.Background(), second)
		}
	}

	out := f.c.ConfirmDeletion(context.Background(), f.c.RequestDeletion())

	assert.Equal(t, Succeeded, out.Kind())
	assert.Equal(t, FailedOutcome(MsgDeletionInFlight), reentrant)
	assert.Equal(t, 1, f.fc.count("RPC"))
}

func TestDeletion_CompletedIsFinal(t *testing.T) {
	f := newLifecycle()

	first := f.c.ConfirmDeletion(context.Background(), f.c.RequestDeletion())
	require.Equal(t, Succeeded, first.Kind())

	again := f.c.ConfirmDeletion(context.Background(), f.c.RequestDeletion())

	assert.Equal(t, FailedOutcome(MsgAlreadyDeleted), again)
	assert.Equal(t, 1, f.fc.count("RPC"))
	assert.Equal(t, 1, f.fc.count("SignOut"))
	assert.Equal(t, []string{"push /"}, f.nav.events)
	assert.Equal(t, DeletionCompleted, f.c.DeletionState())
}
