package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/adminconsole/internal/client/client"
	"github.com/dmitrijs2005/adminconsole/internal/client/models"
	"github.com/dmitrijs2005/adminconsole/internal/client/mutation"
	"github.com/dmitrijs2005/adminconsole/internal/client/notice"
	"github.com/dmitrijs2005/adminconsole/internal/client/query"
	"github.com/dmitrijs2005/adminconsole/internal/logging"
)

// collection is the kind-independent surface the REPL drives.
type collection interface {
	Kind() models.Kind
	Attach(ctx context.Context)
	Detach()
	Wait()
	Err() error
	SetSearch(term string)
	SetStatus(label string) error
	SetReference(code string) error
	SetPage(n int)
	NextPage() bool
	PrevPage() bool
	Refresh()

	render(w io.Writer)
	describe(w io.Writer, id int64) bool
	title(id int64) string
	apply(ctx context.Context, action mutation.Action, id int64) error
	setItemStatus(ctx context.Context, id int64, status string) error
	requestDelete(id int64) (string, error)
	confirmDelete(ctx context.Context, token string) error
	cancelDelete()
	policy(action mutation.Action) (mutation.Policy, bool)
}

// view binds a controller and its reconciler to a table layout.
type view[T models.Mutable[T]] struct {
	*query.Controller[T]
	rec    *mutation.Reconciler[T]
	header []string
	row    func(T) []string
	detail func(T) [][2]string
}

func (v *view[T]) apply(ctx context.Context, action mutation.Action, id int64) error {
	return v.rec.Apply(ctx, action, id)
}

func (v *view[T]) setItemStatus(ctx context.Context, id int64, status string) error {
	return v.rec.SetStatus(ctx, id, status)
}

func (v *view[T]) requestDelete(id int64) (string, error) { return v.rec.RequestDelete(id) }

func (v *view[T]) confirmDelete(ctx context.Context, token string) error {
	return v.rec.ConfirmDelete(ctx, token)
}

func (v *view[T]) cancelDelete() { v.rec.CancelDelete() }

func (v *view[T]) policy(action mutation.Action) (mutation.Policy, bool) {
	return v.rec.Policy(action)
}

func (v *view[T]) render(w io.Writer) {
	st := v.State()

	filters := []string{"status=" + st.Status}
	if st.Search != "" {
		filters = append(filters, fmt.Sprintf("search=%q", st.Search))
	}
	if st.Reference != "" {
		filters = append(filters, "ref="+st.Reference)
	}
	fmt.Fprintf(w, "%s: page %d, %d total (%s)\n", st.Kind, st.Page, st.Total, strings.Join(filters, ", "))

	if st.Loading && len(st.Items) == 0 {
		fmt.Fprintln(w, "loading...")
		return
	}
	if len(st.Items) == 0 {
		fmt.Fprintln(w, "no entries")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(v.header, "\t"))
	for _, it := range st.Items {
		fmt.Fprintln(tw, strings.Join(v.row(it), "\t"))
	}
	_ = tw.Flush()

	var nav []string
	if v.HasPrev() {
		nav = append(nav, "prev")
	}
	if v.HasNext() {
		nav = append(nav, "next")
	}
	if len(nav) > 0 {
		fmt.Fprintf(w, "more: %s\n", strings.Join(nav, ", "))
	}
}

func (v *view[T]) describe(w io.Writer, id int64) bool {
	it, ok := v.Find(id)
	if !ok {
		return false
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, kv := range v.detail(it) {
		if kv[1] == "" {
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", kv[0], kv[1])
	}
	_ = tw.Flush()
	return true
}

func (v *view[T]) title(id int64) string {
	it, ok := v.Find(id)
	if !ok {
		return ""
	}
	return it.Title()
}

func idStr(n int64) string { return strconv.FormatInt(n, 10) }

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func newViews(api client.Client, session query.SessionSource, sink notice.Sink, log logging.Logger, limit int) map[models.Kind]collection {
	opts := query.Options{Limit: limit, Sink: sink, Log: log.With("component", "query")}
	mlog := log.With("component", "mutation")

	accounts := query.NewAccounts(api, session, opts)
	reports := query.NewReports(api, session, opts)
	tickets := query.NewTickets(api, session, opts)

	return map[models.Kind]collection{
		models.KindAccounts: &view[models.Account]{
			Controller: accounts,
			rec:        mutation.ForAccounts(accounts, api, sink, mlog),
			header:     []string{"ID", "NAME", "EMAIL", "TYPE", "STATUS", "SINCE"},
			row: func(a models.Account) []string {
				return []string{idStr(a.ID), a.Name, a.Email, a.TypeLabel(), a.Status, a.CreatedAt}
			},
			detail: accountDetail,
		},
		models.KindReports: &view[models.Report]{
			Controller: reports,
			rec:        mutation.ForReports(reports, sink, mlog),
			header:     []string{"ID", "REFERENCE", "REASON", "REPORTER", "STATUS", "DATE"},
			row: func(r models.Report) []string {
				return []string{idStr(r.ID), models.ReferenceLabel(r.ReferenceType), models.ReasonLabel(r.Reason), r.ReporterName, r.Status, r.Date}
			},
			detail: func(r models.Report) [][2]string {
				return [][2]string{
					{"ID", idStr(r.ID)},
					{"Reference", models.ReferenceLabel(r.ReferenceType)},
					{"Reason", models.ReasonLabel(r.Reason)},
					{"Description", r.Description},
					{"Reporter", fmt.Sprintf("%s <%s>", r.ReporterName, r.ReporterEmail)},
					{"Attachment", r.Attachment},
					{"Status", r.Status},
					{"Date", r.Date},
				}
			},
		},
		models.KindTickets: &view[models.Ticket]{
			Controller: tickets,
			rec:        mutation.ForTickets(tickets, sink, mlog),
			header:     []string{"ID", "NAME", "EMAIL", "MESSAGE", "STATUS", "DATE"},
			row: func(t models.Ticket) []string {
				return []string{idStr(t.ID), t.Name, t.Email, truncate(t.Message, 40), t.Status, t.Date}
			},
			detail: func(t models.Ticket) [][2]string {
				return [][2]string{
					{"ID", idStr(t.ID)},
					{"From", fmt.Sprintf("%s <%s>", t.Name, t.Email)},
					{"Message", t.Message},
					{"Status", t.Status},
					{"Date", t.Date},
				}
			},
		},
	}
}

func accountDetail(a models.Account) [][2]string {
	out := [][2]string{
		{"ID", idStr(a.ID)},
		{"Name", a.Name},
		{"Email", a.Email},
		{"Type", a.TypeLabel()},
		{"Status", a.Status},
		{"Since", a.CreatedAt},
	}
	for _, k := range slices.Sorted(maps.Keys(a.Profile)) {
		out = append(out, [2]string{k, a.Profile[k]})
	}
	return out
}
