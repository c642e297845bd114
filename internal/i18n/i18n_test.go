// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package i18n_test

import (
	"context"
	"testing"

	"codeberg.org/oliverandrich/account-service/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestInit(t *testing.T) {
	err := i18n.Init()
	require.NoError(t, err)
}

func TestT(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.English)

	assert.Equal(t, "Invalid password entered", i18n.T(ctx, "signin_invalid_password"))
}

func TestT_Spanish(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.Spanish)

	assert.Equal(t, "Contraseña introducida inválida", i18n.T(ctx, "signin_invalid_password"))
}

func TestT_NoLocaleDefaultsToEnglish(t *testing.T) {
	require.NoError(t, i18n.Init())

	assert.Equal(t, "Password reset request not found", i18n.T(context.Background(), "reset_not_found"))
}

func TestT_UnknownKey(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.English)

	// Should return the key itself for unknown messages
	result := i18n.T(ctx, "unknown_key_that_does_not_exist")
	assert.Equal(t, "unknown_key_that_does_not_exist", result)
}

func TestTData(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.English)

	body := i18n.TData(ctx, "email_verification_body", map[string]any{
		"Link":  "http://localhost:5000/user/verify/1/abc",
		"Hours": 6,
	})

	assert.Contains(t, body, `href="http://localhost:5000/user/verify/1/abc"`)
	assert.Contains(t, body, "expires in 6 hours")
}

func TestGetLocale(t *testing.T) {
	require.NoError(t, i18n.Init())

	assert.Equal(t, "en", i18n.GetLocale(context.Background()))

	ctx := i18n.WithLocale(context.Background(), language.Spanish)
	assert.Equal(t, "es", i18n.GetLocale(ctx))
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		header   string
		expected language.Tag
	}{
		{"", language.English},
		{"en-US,en;q=0.9", language.English},
		{"es-MX,es;q=0.9,en;q=0.5", language.Spanish},
		{"es", language.Spanish},
		{"fr-FR", language.English},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.expected, i18n.MatchLanguage(tt.header))
		})
	}
}

func TestLanguages(t *testing.T) {
	langs := i18n.Languages()

	require.Len(t, langs, 2)
	assert.Equal(t, language.English, langs[0])
	assert.Equal(t, language.Spanish, langs[1])

	// Callers get a copy
	langs[0] = language.German
	assert.Equal(t, language.English, i18n.Languages()[0])
}

func TestTranslationsComplete(t *testing.T) {
	require.NoError(t, i18n.Init())

	ids := []string{
		"invalid_request", "internal_error", "mail_failed", "password_too_short", "password_too_long",
		"signup_fields_empty", "signup_invalid_first_name", "signup_invalid_last_name",
		"signup_invalid_birth_date", "signup_invalid_email", "signup_email_taken", "signup_pending",
		"verification_not_found", "verification_expired", "verification_mismatch", "verification_success",
		"signin_empty", "signin_incorrect", "signin_not_verified", "signin_invalid_password", "signin_success",
		"reset_invalid_redirect_url", "reset_user_not_found", "reset_not_verified", "reset_pending", "reset_not_found",
		"reset_expired", "reset_mismatch", "reset_success",
		"email_verification_subject", "email_reset_subject",
		"verified_title", "verified_success", "verified_error_title", "app_name",
	}

	for _, lang := range i18n.Languages() {
		ctx := i18n.WithLocale(context.Background(), lang)
		for _, id := range ids {
			assert.NotEqual(t, id, i18n.T(ctx, id), "%s missing in %s", id, lang)
		}
	}
}
