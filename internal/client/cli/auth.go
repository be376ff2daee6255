package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/adminconsole/internal/client/models"
	"github.com/dmitrijs2005/adminconsole/internal/common"
)

// getSimpleText, getPassword and getConfirmation are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText   = GetSimpleText
	getPassword     = GetPassword
	getConfirmation = GetConfirmation
)

// Register prompts for name, email, account type and password, creates the
// account and logs in with it. The password is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	kind, err := getSimpleText(a.reader, "Account type (usuario|empresa, empty for usuario)", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.session.Register(ctx, name, email, string(password), kind)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", user.Name)
	return nil
}

// Login prompts for credentials and authenticates. The password is wiped
// before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.session.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	a.setMode(ModeOnline)
	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", user.Email, user.Role)
	return nil
}

// Logout clears the session and the stored credentials.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// WhoAmI prints the current user and the token expiry.
func (a *App) WhoAmI(ctx context.Context) error {
	s := a.session.Current()
	if !s.Authenticated() {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	u := s.User
	fmt.Fprintf(a.out, "%s <%s>\nid: %d\nrole: %s\n", u.Name, u.Email, u.ID, u.Role)
	if u.Type != "" {
		fmt.Fprintf(a.out, "type: %s\n", u.Type)
	}
	if exp, ok := a.session.TokenExpiry(); ok {
		state := "valid"
		if time.Now().After(exp) {
			state = "expired"
		}
		fmt.Fprintf(a.out, "token expires: %s (%s)\n", exp.Local().Format(time.RFC1123), state)
	}
	return nil
}

// Profile edits the current user's name, email and password. Empty answers
// keep the current value.
func (a *App) Profile(ctx context.Context) error {
	cur := a.session.Current().User
	if cur == nil {
		return nil
	}

	var upd models.UserUpdate

	name, err := getSimpleText(a.reader, fmt.Sprintf("Name [%s]", cur.Name), a.out)
	if err != nil {
		return err
	}
	if name != "" && name != cur.Name {
		upd.Name = &name
	}

	email, err := getSimpleText(a.reader, fmt.Sprintf("Email [%s]", cur.Email), a.out)
	if err != nil {
		return err
	}
	if email != "" && email != cur.Email {
		upd.Email = &email
	}

	if getConfirmation(a.reader, "Change password?", a.out) {
		pw, err := getPassword(a.out)
		if err != nil {
			return err
		}
		s := string(pw)
		common.WipeByteArray(pw)
		upd.Password = &s
	}

	if upd.Empty() {
		fmt.Fprintln(a.out, "Nothing to update.")
		return nil
	}

	user, err := a.session.UpdateProfile(ctx, upd)
	if err != nil || user == nil {
		return err
	}
	fmt.Fprintf(a.out, "Profile updated: %s <%s>\n", user.Name, user.Email)
	return nil
}

// DeleteMe deletes the operator's own account after confirmation.
func (a *App) DeleteMe(ctx context.Context) error {
	if !getConfirmation(a.reader, "Delete your own account? This cannot be undone.", a.out) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	if err := a.session.DeleteAccount(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Account deleted.")
	return nil
}
