package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	appVessel "github.com/andrescamacho/searoutes-go/internal/application/vessel"
	vesselCommands "github.com/andrescamacho/searoutes-go/internal/application/vessel/commands"
	vesselQueries "github.com/andrescamacho/searoutes-go/internal/application/vessel/queries"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

type buyVesselRequest struct {
	PlayerID string `json:"playerId" validate:"required,uuid"`
	Type     string `json:"type" validate:"required,vessel_type"`
	Name     string `json:"name" validate:"omitempty,max=64"`
}

type travelRequest struct {
	DestinationPortID string `json:"destinationPortId" validate:"required"`
}

type loadRequest struct {
	Commodity string `json:"commodity" validate:"required"`
	Amount    int    `json:"amount"`
}

type amountRequest struct {
	Amount *int `json:"amount"`
}

func vesselID(r *http.Request) string {
	return chi.URLParam(r, "vesselID")
}

func (s *Server) handleVesselPrice(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.send(w, r, http.StatusOK, "", &vesselQueries.VesselPriceQuery{PlayerID: q.Get("playerId"), VesselType: q.Get("type")})
}

func (s *Server) handleBuyVessel(w http.ResponseWriter, r *http.Request) {
	var req buyVesselRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.send(w, r, http.StatusCreated, "", &vesselCommands.PurchaseVesselCommand{
		PlayerID:   req.PlayerID,
		VesselType: req.Type,
		Name:       req.Name,
	})
}

func (s *Server) handleCheckTravels(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, http.StatusOK, "", &vesselCommands.SweepDueTravelsCommand{})
}

func (s *Server) handleGetVessel(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, http.StatusOK, "vessel", &vesselQueries.GetVesselQuery{VesselID: vesselID(r)})
}

func (s *Server) handleCheckTravel(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, http.StatusOK, "", &vesselCommands.CompleteTravelCommand{VesselID: vesselID(r)})
}

func (s *Server) handleTripPreview(w http.ResponseWriter, r *http.Request) {
	dest := r.URL.Query().Get("destinationPortId")
	if dest == "" {
		s.writeError(w, r, shared.NewValidationError("destinationPortId", "destinationPortId is required"))
		return
	}
	s.send(w, r, http.StatusOK, "", &vesselQueries.TripPreviewQuery{VesselID: vesselID(r), DestinationPortID: dest})
}

func (s *Server) handleRefuelInfo(w http.ResponseWriter, r *http.Request) {
	amount, err := intParam(r.URL.Query().Get("amount"), "amount", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.send(w, r, http.StatusOK, "", &vesselQueries.RefuelInfoQuery{VesselID: vesselID(r), Amount: amount})
}

func (s *Server) handleRepairInfo(w http.ResponseWriter, r *http.Request) {
	amount, err := optionalIntParam(r.URL.Query().Get("amount"), "amount")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.send(w, r, http.StatusOK, "", &vesselQueries.RepairInfoQuery{VesselID: vesselID(r), Amount: amount})
}

func (s *Server) handleTowInfo(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, http.StatusOK, "", &vesselQueries.TowInfoQuery{VesselID: vesselID(r)})
}

func (s *Server) handleTowMaterialsInfo(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, http.StatusOK, "", &vesselQueries.TowInfoQuery{VesselID: vesselID(r), Target: appVessel.TowToMaterials})
}

func (s *Server) handleTravel(w http.ResponseWriter, r *http.Request) {
	var req travelRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.send(w, r, http.StatusOK, "", &vesselCommands.SendVesselCommand{VesselID: vesselID(r), DestinationPortID: req.DestinationPortID})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.send(w, r, http.StatusOK, "", &vesselCommands.LoadCargoCommand{VesselID: vesselID(r), Commodity: req.Commodity, Amount: req.Amount})
}

func (s *Server) handleUnload(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, http.StatusOK, "", &vesselCommands.UnloadCargoCommand{VesselID: vesselID(r)})
}

func (s *Server) handleRepair(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.send(w, r, http.StatusOK, "", &vesselCommands.RepairVesselCommand{VesselID: vesselID(r), Amount: req.Amount})
}

func (s *Server) handleRefuel(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	amount := 0
	if req.Amount != nil {
		amount = *req.Amount
	}
	s.send(w, r, http.StatusOK, "", &vesselCommands.RefuelVesselCommand{VesselID: vesselID(r), Amount: amount})
}

func (s *Server) handleTow(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, http.StatusOK, "", &vesselCommands.TowVesselCommand{VesselID: vesselID(r)})
}

func (s *Server) handleTowMaterials(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, http.StatusOK, "", &vesselCommands.TowVesselCommand{VesselID: vesselID(r), Target: appVessel.TowToMaterials})
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, http.StatusOK, "", &vesselCommands.UpgradeVesselCommand{VesselID: vesselID(r)})
}
