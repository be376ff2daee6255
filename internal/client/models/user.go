// Package models defines the console's data model: the authenticated user
// and session, the three administered collections and admin payloads.
package models

// User is the record of the logged-in operator. It is replaced wholesale on
// profile update.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Type  string `json:"tipo,omitempty"`
}

// UserUpdate is a partial profile update; nil fields are not sent.
type UserUpdate struct {
	Name     *string `json:"nome,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"senha,omitempty"`
}

// Empty reports whether the update carries no fields.
func (u UserUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Password == nil
}

// Account types accepted at registration.
const (
	UserTypeCandidate = "usuario"
	UserTypeCompany   = "empresa"
	UserTypeAdmin     = "admin"
)

// Session is the authentication state of the console. The zero value is the
// unauthenticated session.
type Session struct {
	User  *User
	Token string
}

// Authenticated reports whether both a user and a token are present.
func (s Session) Authenticated() bool {
	return s.User != nil && s.Token != ""
}

// Clone returns a copy whose User pointer is not shared with s.
func (s Session) Clone() Session {
	if s.User == nil {
		return Session{Token: s.Token}
	}
	u := *s.User
	return Session{User: &u, Token: s.Token}
}
