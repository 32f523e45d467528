package http

import (
	"encoding/json"
	"errors"
	"net/http"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
)

const maxRequestBody = 1 << 20 // 1 MiB

type errorResponse struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

type createBeachRequest struct {
	Name     string             `json:"name"`
	Lat      float64            `json:"lat"`
	Lng      float64            `json:"lng"`
	Position domain.GeoPosition `json:"position"`
}

func (s *Server) handleGetForecast(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r.Context())

	beaches, err := s.beaches.ListByUser(r.Context(), userID)
	if err != nil {
		s.logger.Error("list beaches failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	forecasts, err := s.forecasts.BuildForecast(r.Context(), beaches)
	if err != nil {
		var perr *domain.ProcessingError
		if errors.As(err, &perr) {
			s.logger.Error("forecast processing failed", "user_id", userID, "error", perr.Err)
		} else {
			s.logger.Error("forecast failed", "user_id", userID, "error", err)
		}
		writeError(w, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	sharedobs.WriteJSON(w, http.StatusOK, forecasts)
}

func (s *Server) handleListBeaches(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r.Context())

	beaches, err := s.beaches.ListByUser(r.Context(), userID)
	if err != nil {
		s.logger.Error("list beaches failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, beaches)
}

func (s *Server) handleCreateBeach(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req createBeachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, verr.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	beach, err := s.beaches.Create(r.Context(), domain.Beach{
		Name:     req.Name,
		UserID:   userFrom(r.Context()),
		Lat:      req.Lat,
		Lng:      req.Lng,
		Position: req.Position,
	})
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, verr.Error())
			return
		}
		s.logger.Error("create beach failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	sharedobs.WriteJSON(w, http.StatusCreated, beach)
}

func writeError(w http.ResponseWriter, status int, message string) {
	sharedobs.WriteJSON(w, status, errorResponse{Code: status, Error: message})
}
