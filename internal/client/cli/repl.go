package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/adminconsole/internal/client/client"
	"github.com/dmitrijs2005/adminconsole/internal/client/models"
	"github.com/dmitrijs2005/adminconsole/internal/client/mutation"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context) error
	DeleteMe(ctx context.Context) error

	Use(ctx context.Context, kind models.Kind) error
	Search(ctx context.Context, term string) error
	Filter(ctx context.Context, label string) error
	Reference(ctx context.Context, code string) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Page(ctx context.Context, n int) error
	List(ctx context.Context) error
	Show(ctx context.Context, id int64) error

	Act(ctx context.Context, action mutation.Action, id int64) error
	SetItemStatus(ctx context.Context, id int64, label string) error
	Delete(ctx context.Context, id int64) error

	Stats(ctx context.Context) error
	SysInfo(ctx context.Context) error
	Reset(ctx context.Context) error
	Purge(ctx context.Context) error
	ClearCache(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = `Available commands:
  session:     whoami, profile, deleteme, logout
  collections: accounts, reports, tickets, (l)ist, show <id>
  filters:     search [term], status <label|todos>, ref <type|todos>
  paging:      next, prev, page <n>
  actions:     activate <id>, deactivate <id>, ban <id>,
               setstatus <id> <label>, resolve <id>, delete <id>
  admin:       stats, sysinfo, reset, purge, clearcache
  exit`
)

// runREPL starts a read–eval–print loop for the admin console.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Errors returned by handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("admin %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		if err := dispatch(ctx, a, cmd, args); err != nil {
			printlnFn("Error:", client.UserMessage(err))
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpLoggedIn)
		} else {
			printlnFn(helpLoggedOut)
		}
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	}

	if !a.isLoggedIn() {
		printlnFn("Please log in first (type 'login').")
		return nil
	}

	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "whoami":
		return a.WhoAmI(ctx)
	case "profile":
		return a.Profile(ctx)
	case "deleteme":
		return a.DeleteMe(ctx)

	case "accounts", "reports", "tickets":
		return a.Use(ctx, models.Kind(cmd))
	case "search":
		return a.Search(ctx, strings.Join(args, " "))
	case "status":
		if len(args) == 0 {
			return usage("status <label|todos>")
		}
		return a.Filter(ctx, strings.Join(args, " "))
	case "ref":
		if len(args) != 1 {
			return usage("ref <empresa|candidato|vaga|mensagem|outro|todos>")
		}
		return a.Reference(ctx, args[0])
	case "next":
		return a.Next(ctx)
	case "prev":
		return a.Prev(ctx)
	case "page":
		n, err := intArg(args, "page <n>")
		if err != nil {
			return err
		}
		return a.Page(ctx, n)
	case "l", "list":
		return a.List(ctx)
	case "show":
		id, err := idArg(args, "show <id>")
		if err != nil {
			return err
		}
		return a.Show(ctx, id)

	case "activate", "deactivate", "ban", "resolve":
		id, err := idArg(args, cmd+" <id>")
		if err != nil {
			return err
		}
		return a.Act(ctx, mutation.Action(cmd), id)
	case "setstatus":
		if len(args) < 2 {
			return usage("setstatus <id> <label>")
		}
		id, err := idArg(args[:1], "setstatus <id> <label>")
		if err != nil {
			return err
		}
		return a.SetItemStatus(ctx, id, strings.Join(args[1:], " "))
	case "delete":
		id, err := idArg(args, "delete <id>")
		if err != nil {
			return err
		}
		return a.Delete(ctx, id)

	case "stats":
		return a.Stats(ctx)
	case "sysinfo":
		return a.SysInfo(ctx)
	case "reset":
		return a.Reset(ctx)
	case "purge":
		return a.Purge(ctx)
	case "clearcache":
		return a.ClearCache(ctx)
	}

	printlnFn("Unknown command:", cmd)
	return nil
}

func usage(s string) error {
	return &client.ValidationError{Field: "usage", Message: s}
}

func intArg(args []string, use string) (int, error) {
	if len(args) != 1 {
		return 0, usage(use)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, usage(use)
	}
	return n, nil
}

func idArg(args []string, use string) (int64, error) {
	if len(args) != 1 {
		return 0, usage(use)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 1 {
		return 0, usage(use)
	}
	return id, nil
}
