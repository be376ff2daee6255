package services

import (
	"context"

	"github.com/dmitrijs2005/adminconsole/internal/client/client"
	"github.com/dmitrijs2005/adminconsole/internal/client/models"
	"github.com/dmitrijs2005/adminconsole/internal/common"
	"github.com/dmitrijs2005/adminconsole/internal/logging"
)

// AdminService wraps the dashboard, system and maintenance calls.
type AdminService struct {
	client  client.Client
	session *SessionManager
	log     logging.Logger
}

func NewAdminService(c client.Client, session *SessionManager, log logging.Logger) *AdminService {
	return &AdminService{client: c, session: session, log: log}
}

func (a *AdminService) Overview(ctx context.Context) (*models.Stats, error) {
	return a.client.Stats(ctx)
}

func (a *AdminService) SystemInfo(ctx context.Context) (*models.SystemInfo, error) {
	return a.client.SystemInfo(ctx)
}

// Ping reaches the backend through the system info route.
func (a *AdminService) Ping(ctx context.Context) error {
	_, err := a.client.SystemInfo(ctx)
	return err
}

// ResetDatabase wipes the backend data. confirm must be the literal
// confirmation phrase.
func (a *AdminService) ResetDatabase(ctx context.Context, confirm string) (*models.ResetResult, error) {
	if confirm != common.ResetConfirmationPhrase {
		return nil, &client.ValidationError{Field: "confirm", Message: "type " + common.ResetConfirmationPhrase + " to confirm"}
	}
	res, err := a.client.ResetDatabase(ctx, confirm)
	if err != nil {
		return nil, err
	}
	a.log.Warn(ctx, "database reset", "admin_email", res.Admin.Email)
	return res, nil
}

// PurgeExpiredAccounts removes accounts the backend considers expired.
func (a *AdminService) PurgeExpiredAccounts(ctx context.Context) (int, error) {
	res, err := a.client.PurgeUsers(ctx)
	if err != nil {
		return 0, err
	}
	a.log.Info(ctx, "expired accounts purged", "removed", res.Removed)
	return res.Removed, nil
}

// ClearLocalCache drops every locally stored credential and logs out.
func (a *AdminService) ClearLocalCache(ctx context.Context) {
	a.session.Logout(ctx)
	a.log.Info(ctx, "local cache cleared")
}
