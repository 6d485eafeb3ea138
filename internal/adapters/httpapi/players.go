package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	ledgerQueries "github.com/andrescamacho/searoutes-go/internal/application/ledger/queries"
	playerCommands "github.com/andrescamacho/searoutes-go/internal/application/player/commands"
	playerQueries "github.com/andrescamacho/searoutes-go/internal/application/player/queries"
	vesselQueries "github.com/andrescamacho/searoutes-go/internal/application/vessel/queries"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

type registerPlayerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
}

func (s *Server) handleRegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var req registerPlayerRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.send(w, r, http.StatusCreated, "player", &playerCommands.RegisterPlayerCommand{Username: req.Username})
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, http.StatusOK, "player", &playerQueries.GetPlayerQuery{PlayerID: chi.URLParam(r, "playerID")})
}

func (s *Server) handleListVessels(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, http.StatusOK, "", &vesselQueries.ListVesselsQuery{PlayerID: chi.URLParam(r, "playerID")})
}

func (s *Server) handleGetEarnings(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, http.StatusOK, "earnings", &playerQueries.GetEarningsQuery{PlayerID: chi.URLParam(r, "playerID")})
}

func (s *Server) handleGetTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := &ledgerQueries.GetTransactionsQuery{PlayerID: chi.URLParam(r, "playerID")}

	var err error
	if query.Limit, err = intParam(q.Get("limit"), "limit", 50); err != nil {
		s.writeError(w, r, err)
		return
	}
	if query.Offset, err = intParam(q.Get("offset"), "offset", 0); err != nil {
		s.writeError(w, r, err)
		return
	}
	if query.StartDate, err = timeParam(q.Get("from"), "from"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if query.EndDate, err = timeParam(q.Get("to"), "to"); err != nil {
		s.writeError(w, r, err)
		return
	}
	query.Category = optionalParam(q.Get("category"))
	query.TransactionType = optionalParam(q.Get("type"))
	query.VesselID = optionalParam(q.Get("vesselId"))

	s.send(w, r, http.StatusOK, "", query)
}

func (s *Server) handleGetRating(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query().Get("limit"), "limit", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.send(w, r, http.StatusOK, "", &playerQueries.GetRatingQuery{Type: r.URL.Query().Get("type"), Limit: limit})
}

func intParam(raw, name string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, shared.NewValidationError(name, name+" must be an integer")
	}
	return v, nil
}

func optionalIntParam(raw, name string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := intParam(raw, name, 0)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func timeParam(raw, name string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, shared.NewValidationError(name, name+" must be an RFC3339 timestamp")
	}
	return &t, nil
}

func optionalParam(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}
