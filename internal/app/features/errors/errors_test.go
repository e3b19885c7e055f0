package errors_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/patrohub/internal/app/features/errors"
	"github.com/dalemusser/patrohub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/patrohub/internal/app/system/authz"
	"github.com/dalemusser/patrohub/internal/app/system/inputval"
	"github.com/dalemusser/patrohub/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogServerError_LogsAnd500(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	el := uierrors.NewErrorLogger(zap.New(core))

	rec := testutil.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/children", nil)
	el.LogServerError(rec, req, "list children failed", errors.New("boom"), "")

	rec.AssertStatus(t, http.StatusInternalServerError)
	var body httpjson.ErrorBody
	rec.DecodeJSON(t, &body)
	if body.Error == "" {
		t.Error("empty error message")
	}
	if logs.FilterMessage("list children failed").Len() != 1 {
		t.Error("server error not logged")
	}
}

func TestInvalid_ReturnsFieldErrors(t *testing.T) {
	el := uierrors.NewErrorLogger(zap.NewNop())
	res := &inputval.Result{Errors: []inputval.FieldError{
		{Field: "FirstName", Message: "Prénom est obligatoire."},
		{Field: "Phone", Message: "Téléphone invalide."},
	}}

	rec := testutil.NewRecorder()
	el.Invalid(rec, httptest.NewRequest(http.MethodPost, "/api/inscriptions", nil), res)

	rec.AssertStatus(t, http.StatusBadRequest)
	var body httpjson.ErrorBody
	rec.DecodeJSON(t, &body)
	if body.Error != "Prénom est obligatoire." || len(body.Fields) != 2 {
		t.Errorf("body = %+v", body)
	}
}

func TestPolicy(t *testing.T) {
	el := uierrors.NewErrorLogger(zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	tests := []struct {
		name   string
		err    error
		denied bool
		status int
	}{
		{"allowed", nil, false, http.StatusOK},
		{"forbidden", authz.ErrForbidden, true, http.StatusForbidden},
		{"other", errors.New("db down"), true, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			if got := el.Policy(rec, req, tt.err); got != tt.denied {
				t.Errorf("Policy = %v, want %v", got, tt.denied)
			}
			rec.AssertStatus(t, tt.status)
		})
	}
}
