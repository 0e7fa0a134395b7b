package dtos

import "github.com/init-pkg/trade-disclosure/domain/app"

type SessionOpenRequest struct {
	Token string          `json:"token" validate:"required,min=8"`
	User  app.SessionUser `json:"user" validate:"required"`
}

type UploadHistoryQuery struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}
