package account

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/questlog/internal/client/client"
	"github.com/dmitrijs2005/questlog/internal/common"
	. "github.com/smartystreets/goconvey/convey"
	"google.golang.org/grpc/codes"
)

func TestAccountDeletionScenario(t *testing.T) {
	Convey("Given a signed-in adventurer on the settings view", t, func() {
		f := newLifecycle()
		ctx := context.Background()

		Convey("When they are asked to confirm deletion", func() {
			tok := f.c.RequestDeletion()

			Convey("Nothing is deleted until they confirm", func() {
				So(f.fc.Calls(), ShouldBeEmpty)
				So(f.c.DeletionState(), ShouldEqual, DeletionNotStarted)
			})

			Convey("And they decline", func() {
				f.c.Cancel(tok)

				Convey("The account and session are untouched", func() {
					So(f.fc.Calls(), ShouldBeEmpty)
					So(f.nav.events, ShouldBeEmpty)
				})
			})

			Convey("And the service rejects the deletion with quota exceeded", func() {
				f.fc.RPCErr = &client.ServiceError{Code: codes.ResourceExhausted, Message: "quota exceeded"}
				out := f.c.ConfirmDeletion(ctx, tok)

				Convey("The error is shown and they stay signed in", func() {
					So(out.Kind(), ShouldEqual, Failed)
					So(out.Message(), ShouldContainSubstring, "quota exceeded")
					So(f.fc.count("SignOut"), ShouldEqual, 0)
					So(f.c.Busy(), ShouldBeFalse)
					So(f.c.DeletionState(), ShouldEqual, DeletionNotStarted)
				})
			})

			Convey("And the service deletes the account", func() {
				out := f.c.ConfirmDeletion(ctx, tok)

				Convey("Exactly one deletion call is made, then sign-out", func() {
					So(f.fc.Calls(), ShouldResemble, []string{"RPC", "SignOut"})
					So(f.fc.LastRPCName, ShouldEqual, common.DeleteAccountProcedure)
				})

				Convey("They are said goodbye and sent to the landing view", func() {
					So(out.Message(), ShouldEqual, MsgAccountDeleted)
					So(f.nav.events, ShouldResemble, []string{"push /"})
					So(f.c.DeletionState(), ShouldEqual, DeletionCompleted)
				})
			})
		})
	})
}
