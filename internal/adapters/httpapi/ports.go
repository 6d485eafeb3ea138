package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	portQueries "github.com/andrescamacho/searoutes-go/internal/application/port/queries"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

func (s *Server) handleListPorts(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, http.StatusOK, "", &portQueries.ListPortsQuery{})
}

func (s *Server) handleGetPort(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, http.StatusOK, "port", &portQueries.GetPortQuery{PortID: chi.URLParam(r, "portID")})
}

func (s *Server) handleGenerationRules(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, http.StatusOK, "", &portQueries.GenerationRulesQuery{})
}

func (s *Server) handlePortDistance(w http.ResponseWriter, r *http.Request) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from == "" || to == "" {
		s.writeError(w, r, shared.NewValidationError("from", "from and to port names are required"))
		return
	}
	s.send(w, r, http.StatusOK, "", &portQueries.PortDistanceQuery{From: from, To: to})
}
