package account

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/questlog/internal/client/client"
	"github.com/dmitrijs2005/questlog/internal/common"
	"github.com/dmitrijs2005/questlog/internal/logging"
	"github.com/google/uuid"
)

// Prompts and messages of the settings actions.
const (
	PromptOnboardingReset = "Reset your Honor Code acknowledgement? You will be shown the Honor Code again."
	PromptReloadDashboard = "Honor Code reset. Go to Dashboard to see it?"
	PromptDeleteAccount   = "Are you sure you want to delete your account? " +
		"This will permanently delete your account, all your XP, quests, and leaderboard history. " +
		"This action cannot be undone."

	MsgAccountDeleted      = "Account deleted. Goodbye, Adventurer."
	MsgInvalidConfirmation = "This confirmation has expired. Please try again."
	MsgDeletionInFlight    = "Your account is already being deleted."
	MsgAlreadyDeleted      = "This account has already been deleted."
	deletionErrorPrefix    = "Error deleting account: "
)

// ErrInvalidConfirmation is returned for a confirmation that was never
// issued, was already redeemed or belongs to another action.
var ErrInvalidConfirmation = errors.New("confirmation is no longer valid")

type actionKind int

const (
	actionOnboardingReset actionKind = iota + 1
	actionReloadDashboard
	actionDeleteAccount
)

// Confirmation is a one-shot token handed out by a Request* call. It must
// be passed back to the matching Confirm* call, or to Cancel.
type Confirmation struct {
	id     uuid.UUID
	action actionKind
	prompt string
}

// Prompt is the question to put to the user.
func (c Confirmation) Prompt() string { return c.prompt }

// DeletionState tracks account deletion. It only moves forward, except that
// a failed remote call returns it to DeletionNotStarted. DeletionCompleted
// is final.
type DeletionState int

const (
	DeletionNotStarted DeletionState = iota
	DeletionConfirmed
	DeletionInFlight
	DeletionCompleted
)

func (s DeletionState) String() string {
	switch s {
	case DeletionNotStarted:
		return "not-started"
	case DeletionConfirmed:
		return "confirmed"
	case DeletionInFlight:
		return "in-flight"
	case DeletionCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// LifecycleController runs the destructive settings actions. Each action
// takes effect only after its Confirmation is redeemed.
type LifecycleController struct {
	svc     client.Client
	storage Storage
	nav     Navigator
	log     logging.Logger

	mu       sync.Mutex
	pending  map[uuid.UUID]actionKind
	deletion DeletionState
	form     Form
}

// NewLifecycleController returns a controller with no outstanding
// confirmations and deletion not started.
func NewLifecycleController(svc client.Client, storage Storage, nav Navigator, log logging.Logger) *LifecycleController {
	return &LifecycleController{
		svc:     svc,
		storage: storage,
		nav:     nav,
		log:     log.With("module", "lifecycle"),
		pending: make(map[uuid.UUID]actionKind),
	}
}

func (c *LifecycleController) issue(action actionKind, prompt string) Confirmation {
	tok := Confirmation{id: uuid.New(), action: action, prompt: prompt}
	c.mu.Lock()
	c.pending[tok.id] = action
	c.mu.Unlock()
	return tok
}

// redeem consumes tok if it is outstanding and was issued for want.
// Caller must hold c.mu.
func (c *LifecycleController) redeem(tok Confirmation, want actionKind) error {
	action, ok := c.pending[tok.id]
	if !ok || action != want || tok.action != want {
		return ErrInvalidConfirmation
	}
	delete(c.pending, tok.id)
	return nil
}

// Cancel discards tok. Declining a prompt needs nothing else.
func (c *LifecycleController) Cancel(tok Confirmation) {
	c.mu.Lock()
	delete(c.pending, tok.id)
	c.mu.Unlock()
}

// RequestOnboardingReset issues the confirmation for ConfirmOnboardingReset.
func (c *LifecycleController) RequestOnboardingReset() Confirmation {
	return c.issue(actionOnboardingReset, PromptOnboardingReset)
}

// ConfirmOnboardingReset clears the honor-code acknowledgement from local
// storage and returns the follow-up offer to reload the dashboard. Storage
// failures are logged and otherwise ignored, and clearing an absent flag is
// not an error.
func (c *LifecycleController) ConfirmOnboardingReset(ctx context.Context, tok Confirmation) (Confirmation, error) {
	c.mu.Lock()
	err := c.redeem(tok, actionOnboardingReset)
	c.mu.Unlock()
	if err != nil {
		return Confirmation{}, err
	}

	if err := c.storage.Delete(ctx, common.OnboardingFlagKey); err != nil {
		c.log.Warn(ctx, "clear onboarding flag", "key", common.OnboardingFlagKey, "error", err)
	}
	return c.issue(actionReloadDashboard, PromptReloadDashboard), nil
}

// ConfirmReload does a full navigation to the dashboard so the honor code
// is shown again.
func (c *LifecycleController) ConfirmReload(tok Confirmation) error {
	c.mu.Lock()
	err := c.redeem(tok, actionReloadDashboard)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.nav.Reload(ViewDashboard)
	return nil
}

// RequestDeletion issues the confirmation for ConfirmDeletion.
func (c *LifecycleController) RequestDeletion() Confirmation {
	return c.issue(actionDeleteAccount, PromptDeleteAccount)
}

// DeletionState reports how far account deletion has progressed.
func (c *LifecycleController) DeletionState() DeletionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deletion
}

// Outcome is the result of the last deletion attempt.
func (c *LifecycleController) Outcome() Outcome { return c.form.Outcome() }

// Busy reports whether a deletion is in flight.
func (c *LifecycleController) Busy() bool { return c.form.Busy() }

// ConfirmDeletion deletes the account with a single remote call. Only after
// that call succeeds is the session signed out and the user sent to the
// landing view. On failure the user stays signed in and may retry. Once
// the account is deleted every further confirmation is refused.
func (c *LifecycleController) ConfirmDeletion(ctx context.Context, tok Confirmation) Outcome {
	c.mu.Lock()
	switch c.deletion {
	case DeletionConfirmed, DeletionInFlight:
		c.mu.Unlock()
		return FailedOutcome(MsgDeletionInFlight)
	case DeletionCompleted:
		c.mu.Unlock()
		return FailedOutcome(MsgAlreadyDeleted)
	}
	if err := c.redeem(tok, actionDeleteAccount); err != nil {
		c.mu.Unlock()
		return FailedOutcome(MsgInvalidConfirmation)
	}
	c.deletion = DeletionConfirmed
	c.mu.Unlock()

	c.log.Info(ctx, "account deletion confirmed")
	c.form.begin()
	c.setDeletion(DeletionInFlight)

	if err := c.svc.RPC(ctx, common.DeleteAccountProcedure); err != nil {
		c.log.Error(ctx, "account deletion failed", "error", err)
		c.setDeletion(DeletionNotStarted)
		return c.form.finish(FailedOutcome(deletionErrorPrefix + client.ErrorMessage(err)))
	}

	c.setDeletion(DeletionCompleted)
	if err := c.svc.SignOut(ctx); err != nil {
		c.log.Warn(ctx, "sign-out after account deletion", "error", err)
	}
	c.log.Info(ctx, "account deleted")

	out := c.form.finish(SucceededOutcome(MsgAccountDeleted))
	c.nav.Push(ViewLanding)
	return out
}

func (c *LifecycleController) setDeletion(s DeletionState) {
	c.mu.Lock()
	c.deletion = s
	c.mu.Unlock()
}
