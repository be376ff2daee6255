package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/adminconsole/internal/client/client"
	"github.com/dmitrijs2005/adminconsole/internal/client/models"
	"github.com/dmitrijs2005/adminconsole/internal/client/mutation"
	"github.com/dmitrijs2005/adminconsole/internal/common"
)

func (a *App) view() collection {
	return a.views[a.active]
}

// showAfterFetch waits for the fetch the last command issued and prints the
// page. Fetch failures are already reported through notices.
func (a *App) showAfterFetch() error {
	v := a.view()
	v.Wait()
	v.render(a.out)
	return nil
}

// Use switches the active collection.
func (a *App) Use(ctx context.Context, kind models.Kind) error {
	if _, ok := a.views[kind]; !ok {
		return fmt.Errorf("unknown collection %q", kind)
	}
	a.active = kind
	return a.showAfterFetch()
}

func (a *App) Search(ctx context.Context, term string) error {
	a.view().SetSearch(term)
	return a.showAfterFetch()
}

func (a *App) Filter(ctx context.Context, label string) error {
	if err := a.view().SetStatus(label); err != nil {
		return err
	}
	return a.showAfterFetch()
}

// Reference filters reports by referenced entity type; "todos" clears it.
func (a *App) Reference(ctx context.Context, code string) error {
	if err := a.view().SetReference(code); err != nil {
		return err
	}
	return a.showAfterFetch()
}

func (a *App) Next(ctx context.Context) error {
	if !a.view().NextPage() {
		fmt.Fprintln(a.out, "Already on the last page.")
		return nil
	}
	return a.showAfterFetch()
}

func (a *App) Prev(ctx context.Context) error {
	if !a.view().PrevPage() {
		fmt.Fprintln(a.out, "Already on the first page.")
		return nil
	}
	return a.showAfterFetch()
}

func (a *App) Page(ctx context.Context, n int) error {
	a.view().SetPage(n)
	return a.showAfterFetch()
}

// List refetches the current page and prints it.
func (a *App) List(ctx context.Context) error {
	a.view().Refresh()
	return a.showAfterFetch()
}

func (a *App) Show(ctx context.Context, id int64) error {
	if !a.view().describe(a.out, id) {
		return fmt.Errorf("%s %d: %w", a.active, id, mutation.ErrItemNotFound)
	}
	return nil
}

// Act applies a fixed-status action to an item of the active collection.
func (a *App) Act(ctx context.Context, action mutation.Action, id int64) error {
	return quiet(a.view().apply(ctx, action, id))
}

func (a *App) SetItemStatus(ctx context.Context, id int64, label string) error {
	return quiet(a.view().setItemStatus(ctx, id, label))
}

// Delete asks for confirmation before deleting. Declining discards the
// pending delete without side effects.
func (a *App) Delete(ctx context.Context, id int64) error {
	v := a.view()
	token, err := v.requestDelete(id)
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf("Delete %s %d (%s)?", a.active, id, v.title(id))
	if p, ok := v.policy(mutation.ActionDelete); ok && p == mutation.LocalOnly {
		prompt += " (hidden locally until the next refresh)"
	}
	if !getConfirmation(a.reader, prompt, a.out) {
		v.cancelDelete()
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	return quiet(v.confirmDelete(ctx, token))
}

// quiet drops API errors the reconciler has already reported as notices.
func quiet(err error) error {
	var re *client.RequestError
	if errors.As(err, &re) {
		return nil
	}
	return err
}

func (a *App) Stats(ctx context.Context) error {
	st, err := a.admin.Overview(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Accounts:\t%d\t(active %d, companies %d)\n", st.Accounts.Total, st.Accounts.Active, st.Accounts.Companies)
	fmt.Fprintf(tw, "Reports:\t%d\t(pending %d, resolved %d)\n", st.Reports.Total, st.Reports.Pending, st.Reports.Resolved)
	_ = tw.Flush()

	if len(st.Activity) > 0 {
		fmt.Fprintln(a.out, "Recent activity:")
		for _, ev := range st.Activity {
			fmt.Fprintf(a.out, "  %s  [%s] %s\n", ev.Date, ev.Type, ev.Description)
		}
	}
	return nil
}

func (a *App) SysInfo(ctx context.Context) error {
	info, err := a.admin.SystemInfo(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "version: %s\nenvironment: %s\nserver time: %s\n",
		info.Version, info.NodeEnv, info.ServerTime.Local().Format(time.RFC1123))
	return nil
}

// Reset wipes the backend after the operator types the confirmation phrase.
func (a *App) Reset(ctx context.Context) error {
	phrase, err := getSimpleText(a.reader, "Type "+common.ResetConfirmationPhrase+" to wipe all data", a.out)
	if err != nil {
		return err
	}
	res, err := a.admin.ResetDatabase(ctx, phrase)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Database reset. New admin credential: %s / %s\n", res.Admin.Email, res.Admin.Password)
	return nil
}

func (a *App) Purge(ctx context.Context) error {
	if !getConfirmation(a.reader, "Remove all expired accounts?", a.out) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	n, err := a.admin.PurgeExpiredAccounts(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d account(s) removed.\n", n)
	return nil
}

// ClearCache drops the stored credentials, which also logs out.
func (a *App) ClearCache(ctx context.Context) error {
	if !getConfirmation(a.reader, "Clear local data and log out?", a.out) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	a.admin.ClearLocalCache(ctx)
	fmt.Fprintln(a.out, "Local data cleared.")
	return nil
}
