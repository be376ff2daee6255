package models

import (
	"encoding/json"
	"fmt"
)

// Kind selects one of the administered collections.
type Kind string

const (
	KindAccounts Kind = "accounts"
	KindReports  Kind = "reports"
	KindTickets  Kind = "tickets"
)

// Kinds lists every collection in display order.
var Kinds = []Kind{KindAccounts, KindReports, KindTickets}

// Item is the projection shared by every collection entry: an immutable id
// and a mutable status. The concrete type carries the variant payload.
type Item interface {
	ItemID() int64
	ItemStatus() string
	Kind() Kind
	Title() string
}

// Mutable is an Item able to produce a copy of itself with another status.
type Mutable[T any] interface {
	Item
	WithStatus(status string) T
}

// Account is a registered platform user as seen by the administrator.
type Account struct {
	ID        int64             `json:"id"`
	Name      string            `json:"nome"`
	Email     string            `json:"email"`
	Type      string            `json:"tipo"`
	Status    string            `json:"status"`
	CreatedAt string            `json:"dataCadastro"`
	Profile   map[string]string `json:"perfil,omitempty"`
}

func (a Account) ItemID() int64      { return a.ID }
func (a Account) ItemStatus() string { return a.Status }
func (a Account) Kind() Kind         { return KindAccounts }
func (a Account) Title() string      { return a.Name }

func (a Account) WithStatus(status string) Account {
	a.Status = status
	return a
}

// TypeLabel renders the account type the way the console shows it.
func (a Account) TypeLabel() string {
	if a.Type == UserTypeCandidate {
		return "Candidato"
	}
	return "Empresa"
}

// Report is an abuse report filed against a company, candidate, job posting
// or message.
type Report struct {
	ID            int64  `json:"id"`
	ReferenceType string `json:"referenciaTipo"`
	Reason        string `json:"motivo"`
	Description   string `json:"descricao"`
	ReporterID    int64  `json:"usuarioId"`
	ReporterName  string `json:"usuarioNome"`
	ReporterEmail string `json:"usuarioEmail"`
	Attachment    string `json:"anexo,omitempty"`
	Status        string `json:"status"`
	Date          string `json:"data"`
}

func (r Report) ItemID() int64      { return r.ID }
func (r Report) ItemStatus() string { return r.Status }
func (r Report) Kind() Kind         { return KindReports }
func (r Report) Title() string      { return ReasonLabel(r.Reason) }

func (r Report) WithStatus(status string) Report {
	r.Status = status
	return r
}

// Ticket is a support message sent through the contact form.
type Ticket struct {
	ID      int64  `json:"id"`
	Name    string `json:"nome"`
	Email   string `json:"email"`
	Message string `json:"mensagem"`
	Status  string `json:"status"`
	Date    string `json:"data"`
}

func (t Ticket) ItemID() int64      { return t.ID }
func (t Ticket) ItemStatus() string { return t.Status }
func (t Ticket) Kind() Kind         { return KindTickets }
func (t Ticket) Title() string      { return t.Name }

func (t Ticket) WithStatus(status string) Ticket {
	t.Status = status
	return t
}

// Page is one page of a server-side filtered collection. Total counts the
// matches for the filters, not the whole collection.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// Envelope carries an item of any kind together with its tag.
type Envelope struct {
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Wrap tags v with its kind.
func Wrap(v Item) (Envelope, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Kind: v.Kind(), Data: b}, nil
}

// Unwrap decodes the payload into the variant selected by Kind.
func (e Envelope) Unwrap() (Item, error) {
	switch e.Kind {
	case KindAccounts:
		var v Account
		return v, json.Unmarshal(e.Data, &v)
	case KindReports:
		var v Report
		return v, json.Unmarshal(e.Data, &v)
	case KindTickets:
		var v Ticket
		return v, json.Unmarshal(e.Data, &v)
	default:
		return nil, fmt.Errorf("unknown item kind %q", e.Kind)
	}
}
