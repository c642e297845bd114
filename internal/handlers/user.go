// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"
	"net/url"

	"codeberg.org/oliverandrich/account-service/internal/services/account"
	"codeberg.org/oliverandrich/account-service/internal/templates"
	"github.com/labstack/echo/v4"
)

// VerifiedPath is where verification links redirect to.
const VerifiedPath = "/user/verified"

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetRequest struct {
	Email       string `json:"email"`
	RedirectURL string `json:"redirectUrl"`
}

type resetPasswordRequest struct {
	UserID      string `json:"userId"`
	ResetString string `json:"resetString"`
	NewPassword string `json:"newPassword"`
}

// Signup handles POST /user/signup.
func (h *Handlers) Signup(c echo.Context) error {
	var req account.SignupParams
	if err := c.Bind(&req); err != nil {
		return invalidRequest(c)
	}
	return c.JSON(http.StatusOK, h.accounts.Signup(c.Request().Context(), req))
}

// Verify handles GET /user/verify/:userId/:uniqueString and redirects to
// the verified page.
func (h *Handlers) Verify(c echo.Context) error {
	res := h.accounts.Verify(c.Request().Context(), c.Param("userId"), c.Param("uniqueString"))
	if res.OK() {
		return c.Redirect(http.StatusSeeOther, VerifiedPath)
	}

	query := url.Values{}
	query.Set("error", "true")
	query.Set("message", res.Message)
	return c.Redirect(http.StatusSeeOther, VerifiedPath+"?"+query.Encode())
}

// Verified renders the page at the end of the verification redirect.
func (h *Handlers) Verified(c echo.Context) error {
	if c.QueryParam("error") != "true" {
		return Render(c, http.StatusOK, templates.Verified(""))
	}

	message := c.QueryParam("message")
	if message == "" {
		message = templates.T(c.Request().Context(), account.CodeInternal)
	}
	return Render(c, http.StatusOK, templates.Verified(message))
}

// SignIn handles POST /user/signin.
func (h *Handlers) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return invalidRequest(c)
	}
	return c.JSON(http.StatusOK, h.accounts.SignIn(c.Request().Context(), req.Email, req.Password))
}

// RequestPasswordReset handles POST /user/requestPasswordReset.
func (h *Handlers) RequestPasswordReset(c echo.Context) error {
	var req resetRequest
	if err := c.Bind(&req); err != nil {
		return invalidRequest(c)
	}
	return c.JSON(http.StatusOK, h.accounts.RequestPasswordReset(c.Request().Context(), req.Email, req.RedirectURL))
}

// ResetPassword handles POST /user/resetPassword.
func (h *Handlers) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return invalidRequest(c)
	}
	return c.JSON(http.StatusOK, h.accounts.ResetPassword(c.Request().Context(), req.UserID, req.ResetString, req.NewPassword))
}

func invalidRequest(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, account.Failed(c.Request().Context(), account.CodeInvalidRequest))
}
