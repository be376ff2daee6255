package models

import (
	"fmt"
	"strings"
)

// StatusAll is the filter label that disables status filtering.
const StatusAll = "Todos"

// Account statuses.
const (
	AccountActive   = "Ativo"
	AccountInactive = "Inativo"
	AccountBanned   = "Banido"
)

// Report statuses.
const (
	ReportPending   = "Pendente"
	ReportReviewing = "Em Análise"
	ReportResolved  = "Resolvida"
)

// Ticket statuses.
const (
	TicketPending    = "Pendente"
	TicketInProgress = "Em Atendimento"
	TicketResolved   = "Resolvido"
)

type statusEntry struct {
	label string
	code  string
}

var statusVocabulary = map[Kind][]statusEntry{
	KindAccounts: {
		{AccountActive, "ativo"},
		{AccountInactive, "inativo"},
		{AccountBanned, "banido"},
	},
	KindReports: {
		{ReportPending, "pendente"},
		{ReportReviewing, "em_analise"},
		{ReportResolved, "resolvida"},
	},
	KindTickets: {
		{TicketPending, "pendente"},
		{TicketInProgress, "em_atendimento"},
		{TicketResolved, "resolvido"},
	},
}

// Statuses returns the status labels of kind, excluding StatusAll.
func Statuses(kind Kind) []string {
	entries := statusVocabulary[kind]
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.label)
	}
	return out
}

// StatusFilter is a client-side filter label for one collection.
type StatusFilter struct {
	Kind  Kind
	Label string
}

// IsAll reports whether the filter is the default one.
func (f StatusFilter) IsAll() bool {
	return f.Label == "" || f.Label == StatusAll
}

// ServerCode translates the label to the server vocabulary. The second
// result is false for StatusAll, in which case no parameter is sent.
func (f StatusFilter) ServerCode() (string, bool) {
	if f.IsAll() {
		return "", false
	}
	for _, e := range statusVocabulary[f.Kind] {
		if e.label == f.Label {
			return e.code, true
		}
	}
	return "", false
}

// LabelForCode is the inverse of ServerCode.
func LabelForCode(kind Kind, code string) (string, bool) {
	for _, e := range statusVocabulary[kind] {
		if e.code == code {
			return e.label, true
		}
	}
	return "", false
}

// ParseStatus resolves user input against the labels and server codes of
// kind, ignoring case. "todos" and the empty string yield StatusAll.
func ParseStatus(kind Kind, input string) (string, error) {
	in := strings.TrimSpace(input)
	if in == "" || strings.EqualFold(in, StatusAll) {
		return StatusAll, nil
	}
	for _, e := range statusVocabulary[kind] {
		if strings.EqualFold(in, e.label) || strings.EqualFold(in, e.code) {
			return e.label, nil
		}
	}
	return "", fmt.Errorf("unknown %s status %q", kind, input)
}

// Report reference types as sent in the tipo filter.
var ReferenceTypes = map[string]string{
	"empresa":   "Empresa",
	"candidato": "Candidato",
	"vaga":      "Vaga",
	"mensagem":  "Mensagem",
	"outro":     "Outro",
}

// ReferenceLabel renders a report reference type.
func ReferenceLabel(code string) string {
	if l, ok := ReferenceTypes[code]; ok {
		return l
	}
	return code
}

var reasonLabels = map[string]string{
	"fraude":              "Fraude",
	"spam":                "Spam",
	"assedio":             "Assédio",
	"conteudo_inadequado": "Conteúdo Inadequado",
	"outro":               "Outro",
}

// ReasonLabel renders a report reason code.
func ReasonLabel(code string) string {
	if l, ok := reasonLabels[code]; ok {
		return l
	}
	return code
}
