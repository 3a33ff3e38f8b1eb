package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vasiliy-maslov/user-microservices/internal/greeting"
)

// GreetingHandler serves the test service endpoint.
type GreetingHandler struct {
	greeter greeting.Greeter
}

func NewGreetingHandler(greeter greeting.Greeter) *GreetingHandler {
	return &GreetingHandler{greeter: greeter}
}

func (h *GreetingHandler) RegisterRoutes(router chi.Router) {
	router.Get(greeting.HelloPath, h.handleHello)
}

func (h *GreetingHandler) handleHello(w http.ResponseWriter, r *http.Request) {
	respondWithText(w, http.StatusOK, h.greeter.Greet())
}
