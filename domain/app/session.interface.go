package app

import (
	"context"

	"github.com/init-pkg/trade-disclosure/domain/errs"
)

type SessionUser struct {
	ID       uint64 `json:"id" validate:"required"`
	Username string `json:"username" validate:"required"`
	FullName string `json:"fullName,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Session is the caller's credential context. The zero value is the empty session.
type Session struct {
	Token string       `json:"token"`
	User  *SessionUser `json:"user,omitempty"`
}

func (s Session) IsEmpty() bool { return s.Token == "" || s.User == nil }

func (s Session) Credentials() Credentials {
	c := Credentials{Token: s.Token}
	if s.User != nil {
		c.Username = s.User.Username
	}
	return c
}

type SessionStore interface {
	// Load returns the empty session when the token is unknown.
	Load(ctx context.Context, token string) (Session, errs.Error)
	Save(ctx context.Context, s Session) errs.Error
	Clear(ctx context.Context, token string) errs.Error
}
