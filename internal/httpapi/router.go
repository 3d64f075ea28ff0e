package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the chi router for the resource provider call
// endpoint. The wire protocol names one path for every call type; SUBSCRIBE
// vs. everything else is distinguished by the parsed call body, not the
// route.
func (s *Server) NewRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		MethodNotAllowed(w)
	})
	r.Post("/api/v1/resource_provider", s.HandleCall)

	return r
}
