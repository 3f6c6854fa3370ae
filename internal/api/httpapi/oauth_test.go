package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func chiWithProvider(h *OAuth) http.Handler {
	r := chi.NewRouter()
	r.With(withProvider).Get("/auth/{provider}/callback", h.Callback)
	return r
}
