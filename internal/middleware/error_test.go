package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"buildledger/internal/amortization"
	apperrors "buildledger/internal/errors"
	"buildledger/internal/repository"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"app_error", apperrors.ErrPhaseNotFound, http.StatusNotFound, "PHASE_NOT_FOUND"},
		{"wrapped_app_error", apperrors.Wrap(apperrors.ErrPersistence, errors.New("disk full")), http.StatusInternalServerError, "PERSISTENCE_ERROR"},
		{"unexpected_error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"invalid_terms", invalidTermsErr(), http.StatusUnprocessableEntity, "INVALID_TERMS"},
		{"record_not_found", fmt.Errorf("loading phase: %w", repository.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			r.GET("/fail", func(c *gin.Context) {
				_ = c.Error(tt.err)
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", http.NoBody))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			errObj, ok := parseBody(t, rec)["error"].(map[string]interface{})
			if !ok || errObj["code"] != tt.wantCode {
				t.Errorf("expected code %s, got %v", tt.wantCode, errObj)
			}
		})
	}

	t.Run("leaves_written_responses_alone", func(t *testing.T) {
		r := gin.New()
		r.Use(ErrorHandler())
		r.GET("/handled", func(c *gin.Context) {
			_ = c.Error(errors.New("already handled"))
			c.JSON(http.StatusConflict, gin.H{"status": "conflict"})
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/handled", http.NoBody))

		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
		}
	})
}

func invalidTermsErr() error {
	_, err := amortization.PeriodicPayment(amortization.Terms{Principal: 0})
	return err
}

func TestErrorHandler_InvalidTermsCarriesReason(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/quote", func(c *gin.Context) {
		_ = c.Error(invalidTermsErr())
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quote", http.NoBody))

	errObj, _ := parseBody(t, rec)["error"].(map[string]interface{})
	if errObj["message"] != "principal must be greater than zero" {
		t.Errorf("expected the terms reason as message, got %v", errObj["message"])
	}
}

func TestRequestLogging_RequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging(), Metrics())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated X-Request-ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
	req.Header.Set("X-Request-ID", "upstream-42")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "upstream-42" {
		t.Errorf("expected incoming request ID to be kept, got %q", got)
	}
}
