package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/adminconsole/internal/client/client"
	"github.com/dmitrijs2005/adminconsole/internal/client/clienttest"
	"github.com/dmitrijs2005/adminconsole/internal/client/models"
	"github.com/dmitrijs2005/adminconsole/internal/client/mutation"
	"github.com/dmitrijs2005/adminconsole/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReports() []models.Report {
	return []models.Report{
		{ID: 1, ReferenceType: "empresa", Reason: "spam", ReporterName: "Ana", ReporterEmail: "ana@email.com",
			Status: models.ReportPending, Date: "2024-03-01"},
		{ID: 2, ReferenceType: "vaga", Reason: "fraude", ReporterName: "Bruno", ReporterEmail: "bruno@email.com",
			Status: models.ReportReviewing, Date: "2024-03-02"},
	}
}

// queryLog captures the account queries the fake receives.
type queryLog struct {
	mu sync.Mutex
	qs []client.ListQuery
}

func (l *queryLog) last() client.ListQuery {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.qs[len(l.qs)-1]
}

func (l *queryLog) accounts(_ context.Context, q client.ListQuery) (models.Page[models.Account], error) {
	l.mu.Lock()
	l.qs = append(l.qs, q)
	l.mu.Unlock()
	return models.Page[models.Account]{Items: sampleAccounts(), Total: 5}, nil
}

func TestList_RendersAccounts(t *testing.T) {
	app, out := newTestApp(t, &clienttest.Fake{}, "", true)

	require.NoError(t, app.List(context.Background()))

	s := out.String()
	assert.Contains(t, s, "accounts: page 1, 5 total (status=Todos)")
	assert.Contains(t, s, "João Silva")
	assert.Contains(t, s, "rh@techcorp.com")
	assert.Contains(t, s, "more: next")
}

func TestUse(t *testing.T) {
	fake := &clienttest.Fake{
		ListReportsFn: func(context.Context, client.ListQuery) (models.Page[models.Report], error) {
			return models.Page[models.Report]{Items: sampleReports(), Total: 2}, nil
		},
	}
	app, out := newTestApp(t, fake, "", true)

	require.NoError(t, app.Use(context.Background(), models.KindReports))
	assert.Equal(t, models.KindReports, app.active)
	assert.Contains(t, out.String(), "reports: page 1, 2 total")
	assert.Contains(t, out.String(), "Bruno")

	assert.Error(t, app.Use(context.Background(), models.Kind("jobs")))
	assert.Equal(t, models.KindReports, app.active)
}

func TestSearchFilterAndPaging(t *testing.T) {
	ql := &queryLog{}
	fake := &clienttest.Fake{ListAccountsFn: ql.accounts}
	app, out := newTestApp(t, fake, "", true)
	ctx := context.Background()

	require.NoError(t, app.Next(ctx))
	assert.Equal(t, 2, ql.last().Page)

	require.NoError(t, app.Search(ctx, "tech"))
	q := ql.last()
	assert.Equal(t, "tech", q.Search)
	assert.Equal(t, 1, q.Page, "search goes back to page 1")

	require.NoError(t, app.Filter(ctx, "inativo"))
	assert.NotEmpty(t, ql.last().Status)
	assert.Contains(t, out.String(), "status=Inativo")

	require.NoError(t, app.Page(ctx, 3))
	assert.Equal(t, 3, ql.last().Page)

	out.Reset()
	require.NoError(t, app.Next(ctx))
	assert.Contains(t, out.String(), "Already on the last page.")

	require.NoError(t, app.Prev(ctx))
	assert.Equal(t, 2, ql.last().Page)

	var ve *client.ValidationError
	require.ErrorAs(t, app.Filter(ctx, "Resolvida"), &ve)
	assert.Equal(t, "status", ve.Field)
}

func TestPrev_OnFirstPage(t *testing.T) {
	app, out := newTestApp(t, &clienttest.Fake{}, "", true)
	require.NoError(t, app.Prev(context.Background()))
	assert.Contains(t, out.String(), "Already on the first page.")
}

func TestReference(t *testing.T) {
	var mu sync.Mutex
	var got client.ListQuery
	fake := &clienttest.Fake{
		ListReportsFn: func(_ context.Context, q client.ListQuery) (models.Page[models.Report], error) {
			mu.Lock()
			got = q
			mu.Unlock()
			return models.Page[models.Report]{Items: sampleReports(), Total: 2}, nil
		},
	}
	app, _ := newTestApp(t, fake, "", true)
	ctx := context.Background()

	var ve *client.ValidationError
	require.ErrorAs(t, app.Reference(ctx, "empresa"), &ve, "accounts have no reference filter")

	require.NoError(t, app.Use(ctx, models.KindReports))
	require.NoError(t, app.Reference(ctx, "Empresa"))
	mu.Lock()
	assert.Equal(t, "empresa", got.Reference)
	mu.Unlock()

	require.NoError(t, app.Reference(ctx, "todos"))
	mu.Lock()
	assert.Equal(t, "", got.Reference)
	mu.Unlock()

	assert.Error(t, app.Reference(ctx, "planeta"))
}

func TestShow(t *testing.T) {
	app, out := newTestApp(t, &clienttest.Fake{}, "", true)

	require.NoError(t, app.Show(context.Background(), 1))
	assert.Contains(t, out.String(), "joao@email.com")
	assert.Contains(t, out.String(), "cidade:")

	err := app.Show(context.Background(), 99)
	assert.ErrorIs(t, err, mutation.ErrItemNotFound)
}

func TestAct_ServerConfirmed(t *testing.T) {
	fake := &clienttest.Fake{}
	app, out := newTestApp(t, fake, "", true)

	require.NoError(t, app.Act(context.Background(), mutation.ActionActivate, 2))
	assert.Contains(t, fake.Calls(), "activate 2")
	assert.Contains(t, out.String(), "[success] Success: Account activated.")

	out.Reset()
	require.NoError(t, app.Show(context.Background(), 2))
	assert.Contains(t, out.String(), models.AccountActive)
}

func TestAct_ServerFailureReportedOnce(t *testing.T) {
	fake := &clienttest.Fake{
		DeactivateFn: func(context.Context, int64) error {
			return &client.RequestError{Op: "deactivate", Status: 500, Message: "falha interna"}
		},
	}
	app, out := newTestApp(t, fake, "", true)

	err := app.Act(context.Background(), mutation.ActionDeactivate, 1)
	assert.NoError(t, err, "already reported as a notice")
	assert.Contains(t, out.String(), "[error] Error: deactivate accounts 1 failed: falha interna")

	out.Reset()
	require.NoError(t, app.Show(context.Background(), 1))
	assert.Contains(t, out.String(), models.AccountActive, "page unchanged on failure")
}

func TestAct_Unsupported(t *testing.T) {
	app, _ := newTestApp(t, &clienttest.Fake{}, "", true)
	err := app.Act(context.Background(), mutation.ActionResolve, 1)
	assert.ErrorIs(t, err, mutation.ErrUnsupported)
}

func TestSetItemStatus_LocalOnly(t *testing.T) {
	fake := &clienttest.Fake{
		ListReportsFn: func(context.Context, client.ListQuery) (models.Page[models.Report], error) {
			return models.Page[models.Report]{Items: sampleReports(), Total: 2}, nil
		},
	}
	app, out := newTestApp(t, fake, "", true)
	ctx := context.Background()
	require.NoError(t, app.Use(ctx, models.KindReports))
	before := len(fake.Calls())

	require.NoError(t, app.SetItemStatus(ctx, 1, "resolvida"))
	assert.Len(t, fake.Calls(), before, "no API call")

	out.Reset()
	require.NoError(t, app.Show(ctx, 1))
	assert.Contains(t, out.String(), models.ReportResolved)
}

func TestDelete(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		fake := &clienttest.Fake{}
		app, out := newTestApp(t, fake, "", true)
		stubConfirm(t, false)

		require.NoError(t, app.Delete(context.Background(), 2))
		assert.NotContains(t, fake.Calls(), "delete account 2")
		assert.Contains(t, out.String(), "Cancelled.")
		_, pending := app.views[models.KindAccounts].(*view[models.Account]).rec.PendingDelete()
		assert.False(t, pending)
	})

	t.Run("confirmed", func(t *testing.T) {
		fake := &clienttest.Fake{}
		app, out := newTestApp(t, fake, "", true)
		stubConfirm(t, true)

		require.NoError(t, app.Delete(context.Background(), 2))
		assert.Contains(t, fake.Calls(), "delete account 2")
		assert.Contains(t, out.String(), "Account deleted.")
		assert.ErrorIs(t, app.Show(context.Background(), 2), mutation.ErrItemNotFound)
	})

	t.Run("local only prompt", func(t *testing.T) {
		fake := &clienttest.Fake{
			ListTicketsFn: func(context.Context, client.ListQuery) (models.Page[models.Ticket], error) {
				return models.Page[models.Ticket]{Items: []models.Ticket{{ID: 4, Name: "Carla", Status: models.TicketPending}}, Total: 1}, nil
			},
		}
		app, _ := newTestApp(t, fake, "", true)
		require.NoError(t, app.Use(context.Background(), models.KindTickets))

		var prompt string
		orig := getConfirmation
		t.Cleanup(func() { getConfirmation = orig })
		getConfirmation = func(_ *bufio.Reader, p string, _ io.Writer) bool {
			prompt = p
			return true
		}

		require.NoError(t, app.Delete(context.Background(), 4))
		assert.Contains(t, prompt, "Delete tickets 4 (Carla)?")
		assert.Contains(t, prompt, "hidden locally")
	})

	t.Run("unknown id", func(t *testing.T) {
		app, _ := newTestApp(t, &clienttest.Fake{}, "", true)
		assert.ErrorIs(t, app.Delete(context.Background(), 77), mutation.ErrItemNotFound)
	})
}

func TestStats(t *testing.T) {
	fake := &clienttest.Fake{
		StatsFn: func(context.Context) (*models.Stats, error) {
			return &models.Stats{
				Accounts: models.AccountStats{Total: 5, Active: 3, Companies: 2},
				Reports:  models.ReportStats{Total: 4, Pending: 2, Resolved: 1},
				Activity: []models.Activity{{Type: "usuario", Description: "Novo usuário cadastrado", Date: "2024-03-01"}},
			}, nil
		},
	}
	app, out := newTestApp(t, fake, "", true)

	require.NoError(t, app.Stats(context.Background()))
	s := out.String()
	assert.Contains(t, s, "(active 3, companies 2)")
	assert.Contains(t, s, "(pending 2, resolved 1)")
	assert.Contains(t, s, "Novo usuário cadastrado")
}

func TestSysInfo(t *testing.T) {
	fake := &clienttest.Fake{
		SystemInfoFn: func(context.Context) (*models.SystemInfo, error) {
			return &models.SystemInfo{Version: "1.0.0", NodeEnv: "development", ServerTime: time.Now()}, nil
		},
	}
	app, out := newTestApp(t, fake, "", true)

	require.NoError(t, app.SysInfo(context.Background()))
	assert.Contains(t, out.String(), "version: 1.0.0")
	assert.Contains(t, out.String(), "environment: development")
}

func TestReset(t *testing.T) {
	t.Run("wrong phrase", func(t *testing.T) {
		fake := &clienttest.Fake{}
		app, _ := newTestApp(t, fake, "", true)
		stubInputs(t, []string{"reset"}, "")

		var ve *client.ValidationError
		require.ErrorAs(t, app.Reset(context.Background()), &ve)
		assert.NotContains(t, fake.Calls(), "reset reset")
	})

	t.Run("confirmed", func(t *testing.T) {
		fake := &clienttest.Fake{
			ResetFn: func(context.Context, string) (*models.ResetResult, error) {
				res := &models.ResetResult{}
				res.Admin.Email = "admin@admin.com"
				res.Admin.Password = "0a1b2c3d4e5f"
				return res, nil
			},
		}
		app, out := newTestApp(t, fake, "", true)
		stubInputs(t, []string{common.ResetConfirmationPhrase}, "")

		require.NoError(t, app.Reset(context.Background()))
		assert.Contains(t, fake.Calls(), "reset "+common.ResetConfirmationPhrase)
		assert.Contains(t, out.String(), "admin@admin.com / 0a1b2c3d4e5f")
	})
}

func TestPurge(t *testing.T) {
	fake := &clienttest.Fake{
		PurgeFn: func(context.Context) (*models.PurgeResult, error) {
			return &models.PurgeResult{Removed: 2}, nil
		},
	}
	app, out := newTestApp(t, fake, "", true)
	stubConfirm(t, true)

	require.NoError(t, app.Purge(context.Background()))
	assert.Contains(t, out.String(), "2 account(s) removed.")
}

func TestPurge_Error(t *testing.T) {
	boom := errors.New("boom")
	fake := &clienttest.Fake{
		PurgeFn: func(context.Context) (*models.PurgeResult, error) { return nil, boom },
	}
	app, _ := newTestApp(t, fake, "", true)
	stubConfirm(t, true)

	assert.ErrorIs(t, app.Purge(context.Background()), boom)
}

func TestClearCache(t *testing.T) {
	app, out := newTestApp(t, &clienttest.Fake{}, "", true)
	stubConfirm(t, true)

	require.NoError(t, app.ClearCache(context.Background()))
	assert.False(t, app.isLoggedIn())
	assert.Contains(t, out.String(), "Local data cleared.")

	v, err := app.store.Get(context.Background(), common.CredentialTokenKey)
	require.NoError(t, err)
	assert.Nil(t, v)
}
