package preference

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"

	"github.com/laseropolis/marketplace-api/internal/paymentprovider/mercadopago"
)

func TestPreferenceHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	handler := New(logger, mercadopago.NewClient())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/preference", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-id"))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotImplemented, w.Code)
	assert.JSONEq(t, `{"status":"Error","error":"mercado pago checkout is not implemented"}`, w.Body.String())
}
