package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL chrome (prompt, help, unknown command).
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it.
type execIface interface {
	isLoggedIn() bool
	render(ctx context.Context)

	SignUp(ctx context.Context) error
	SignIn(ctx context.Context) error
	Verify(ctx context.Context) error
	SignOut(ctx context.Context) error
	Settings(ctx context.Context) error
	ResetHonor(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	Docs(ctx context.Context) error
	FAQ(ctx context.Context) error
}

var signedInOnly = map[string]bool{
	"settings":       true,
	"reset-honor":    true,
	"delete-account": true,
	"signout":        true,
}

// runREPL reads commands from reader and dispatches them to a until EOF or
// "exit". Handlers prompt through the same reader. Pending navigation is
// rendered before every prompt. Handler errors are not fatal to the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		a.render(ctx)
		printlnFn(fmt.Sprintf("questlog %s> ", statusFn()))
		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		if signedInOnly[cmd] && !a.isLoggedIn() {
			printlnFn("Please sign in first.")
			continue
		}

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: settings, reset-honor, delete-account, docs, faq, signout, exit")
			} else {
				printlnFn("Available commands: signup, signin, verify, docs, faq, exit")
			}
		case "signup":
			err = a.SignUp(ctx)
		case "signin":
			err = a.SignIn(ctx)
		case "verify":
			err = a.Verify(ctx)
		case "signout":
			err = a.SignOut(ctx)
		case "settings":
			err = a.Settings(ctx)
		case "reset-honor":
			err = a.ResetHonor(ctx)
		case "delete-account":
			err = a.DeleteAccount(ctx)
		case "docs":
			err = a.Docs(ctx)
		case "faq":
			err = a.FAQ(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("error:", err)
		}
	}
}
