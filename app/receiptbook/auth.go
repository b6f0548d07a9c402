package receiptbook

import (
	"errors"

	"github.com/dmitrymomot/receiptbook/app/receiptbook/account"
	"github.com/dmitrymomot/receiptbook/core/binder"
	"github.com/dmitrymomot/receiptbook/core/handler"
	"github.com/dmitrymomot/receiptbook/core/logger"
	"github.com/dmitrymomot/receiptbook/core/response"
	"github.com/dmitrymomot/receiptbook/pkg/jwt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *App) login(ctx *Context) handler.Response {
	var req loginRequest
	if err := binder.JSON()(ctx.Request(), &req); err != nil {
		return fail(err)
	}
	if req.Email == "" || req.Password == "" {
		return response.Error(response.ErrBadRequest.WithMessage("email and password are required"))
	}

	session, err := a.accounts.Login(ctx, req.Email, req.Password)
	switch {
	case err == nil:
		a.metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	case errors.Is(err, account.ErrInvalidCredentials):
		a.metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		a.logger.InfoContext(ctx, "login failed",
			logger.Event("invalid_credentials"),
			logger.RemoteAddr(ctx.Request().RemoteAddr),
		)
		return fail(err)
	default:
		a.metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return fail(err)
	}

	return response.NoStore(response.JSON(session))
}

type sessionResponse struct {
	Authenticated bool        `json:"authenticated"`
	Principal     *jwt.Claims `json:"principal,omitempty"`
}

func (a *App) session(ctx *Context) handler.Response {
	principal := ctx.Principal()
	return response.JSON(sessionResponse{
		Authenticated: principal != nil,
		Principal:     principal,
	})
}

type meResponse struct {
	Principal *jwt.Claims   `json:"principal"`
	User      *account.User `json:"user"`
}

func (a *App) me(ctx *Context) handler.Response {
	principal := ctx.Principal()

	user, err := a.accounts.Get(ctx, principal.Subject)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			// The token outlived its account.
			return response.Error(response.ErrUnauthorized)
		}
		return fail(err)
	}

	return response.JSON(meResponse{Principal: principal, User: user})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (a *App) changePassword(ctx *Context) handler.Response {
	var req changePasswordRequest
	if err := binder.JSON()(ctx.Request(), &req); err != nil {
		return fail(err)
	}

	if err := a.accounts.ChangePassword(ctx, ctx.Principal().Subject, req.CurrentPassword, req.NewPassword); err != nil {
		return fail(err)
	}
	return response.NoContent()
}

type createUserRequest struct {
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Role      jwt.Role `json:"role"`
	CompanyID *string  `json:"company_id"`
}

func (a *App) createUser(ctx *Context) handler.Response {
	var req createUserRequest
	if err := binder.JSON()(ctx.Request(), &req); err != nil {
		return fail(err)
	}

	user, err := a.accounts.CreateUser(ctx, account.CreateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		CompanyID: req.CompanyID,
	})
	if err != nil {
		return fail(err)
	}
	return response.Created(user)
}
