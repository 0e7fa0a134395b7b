package session_http_handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/dtos"
	"github.com/init-pkg/trade-disclosure/internal/server"
	"github.com/init-pkg/trade-disclosure/internal/validation"
)

type SessionHttpHandler struct {
	store     app.SessionStore
	validator *validation.Validator
}

func New(store app.SessionStore, validator *validation.Validator) *SessionHttpHandler {
	return &SessionHttpHandler{store, validator}
}

// BearerToken extracts the token of an Authorization: Bearer header.
func BearerToken(c fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Handler attaches the caller's session to every request. Unknown tokens give
// an empty session that still forwards the token.
func (this *SessionHttpHandler) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		token := BearerToken(c)
		if token == "" {
			return c.Next()
		}

		s, err := this.store.Load(c.Context(), token)
		if err != nil {
			return err
		}
		s.Token = token
		server.WithSession(c, s)
		return c.Next()
	}
}

func (this *SessionHttpHandler) Register(mainApp *fiber.App) {
	var app = mainApp.Group("/api/v1/session")

	app.Post("/", this.open)
	app.Get("/", this.current)
	app.Delete("/", this.clear)
}

// @Summary Register the caller's session
// @Tags session
// @Param body body dtos.SessionOpenRequest true "token and user"
// @Success 200 {object} server.Response[app.SessionUser]
// @Router /session [post]
func (this *SessionHttpHandler) open(c fiber.Ctx) error {
	var req dtos.SessionOpenRequest
	if err := c.Bind().Body(&req); err != nil {
		return server.BindError(err)
	}
	if err := this.validator.Struct(req); err != nil {
		return err
	}

	user := req.User
	if err := this.store.Save(c.Context(), app.Session{Token: req.Token, User: &user}); err != nil {
		return err
	}
	return server.OK(c, &user)
}

func (this *SessionHttpHandler) current(c fiber.Ctx) error {
	s := server.SessionFrom(c)
	if s.IsEmpty() {
		return fiber.NewError(fiber.StatusUnauthorized, "未登录")
	}
	return server.OK(c, s.User)
}

func (this *SessionHttpHandler) clear(c fiber.Ctx) error {
	if err := this.store.Clear(c.Context(), BearerToken(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
