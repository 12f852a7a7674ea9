package handler

import (
	"net/http"

	"circulation/internal/circulation/service"
	"circulation/internal/circulation/validator"
	apperrors "circulation/pkg/errors"
	httputil "circulation/pkg/http"
	"circulation/pkg/logger"
	"circulation/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type CirculationHandler struct {
	service   service.CirculationService
	validator *validator.CardValidator
	log       *logger.Logger
}

func NewCirculationHandler(service service.CirculationService, validator *validator.CardValidator, log *logger.Logger) *CirculationHandler {
	return &CirculationHandler{
		service:   service,
		validator: validator,
		log:       log,
	}
}

func (h *CirculationHandler) decodeCardRequest(r *http.Request) (*model.CardRequest, error) {
	var req model.CardRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		return nil, err
	}
	if err := h.validator.Validate(&req); err != nil {
		return nil, apperrors.Validation("Invalid card request", map[string]any{"error": err.Error()})
	}
	return &req, nil
}

func (h *CirculationHandler) CheckOut(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	assetID := ps.ByName("id")

	req, err := h.decodeCardRequest(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CheckOut", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := h.service.CheckOutItem(r.Context(), assetID, req.CardID); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CheckOut", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CirculationHandler) CheckIn(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.CheckInItem(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CheckIn", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CirculationHandler) PlaceHold(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	assetID := ps.ByName("id")

	req, err := h.decodeCardRequest(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "PlaceHold", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	hold, err := h.service.PlaceHold(r.Context(), assetID, req.CardID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "PlaceHold", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, hold); err != nil {
		h.log.Error("failed to write created response", "handler", "PlaceHold", "operation", "WriteCreated", "error", err)
	}
}

func (h *CirculationHandler) CancelHold(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.CancelHold(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CancelHold", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CirculationHandler) MarkLost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.MarkLost(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "MarkLost", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CirculationHandler) MarkFound(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.MarkFound(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "MarkFound", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CirculationHandler) GetAssetDetail(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	detail, err := h.service.GetAssetDetail(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAssetDetail", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, detail); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAssetDetail", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CirculationHandler) GetCurrentHolds(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	holds, err := h.service.GetCurrentHolds(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetCurrentHolds", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, holds); err != nil {
		h.log.Error("failed to write success response", "handler", "GetCurrentHolds", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CirculationHandler) GetCheckoutHistory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	history, err := h.service.GetCheckoutHistory(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetCheckoutHistory", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, history); err != nil {
		h.log.Error("failed to write success response", "handler", "GetCheckoutHistory", "operation", "WriteSuccess", "error", err)
	}
}

// GetLatestCheckout answers 404 when the asset has no active checkout.
func (h *CirculationHandler) GetLatestCheckout(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	assetID := ps.ByName("id")

	checkout, err := h.service.GetLatestCheckout(r.Context(), assetID)
	if err == nil && checkout == nil {
		err = apperrors.NotFound("Checkout for asset " + assetID)
	}
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetLatestCheckout", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, checkout); err != nil {
		h.log.Error("failed to write success response", "handler", "GetLatestCheckout", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CirculationHandler) GetStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	status, err := h.service.GetStatus(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, status); err != nil {
		h.log.Error("failed to write success response", "handler", "GetStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CirculationHandler) GetHold(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hold, err := h.service.GetHold(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetHold", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, hold); err != nil {
		h.log.Error("failed to write success response", "handler", "GetHold", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CirculationHandler) GetAllCheckouts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAllCheckouts", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	checkouts, total, err := h.service.GetAllCheckouts(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAllCheckouts", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, checkouts, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAllCheckouts", "operation", "WritePaginated", "error", err)
	}
}

func (h *CirculationHandler) GetCheckoutByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	checkout, err := h.service.GetCheckoutByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetCheckoutByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, checkout); err != nil {
		h.log.Error("failed to write success response", "handler", "GetCheckoutByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CirculationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/assets/id/:id", h.GetAssetDetail)
	router.POST("/api/v1/assets/id/:id/checkout", h.CheckOut)
	router.GET("/api/v1/assets/id/:id/checkout", h.GetLatestCheckout)
	router.POST("/api/v1/assets/id/:id/checkin", h.CheckIn)
	router.POST("/api/v1/assets/id/:id/holds", h.PlaceHold)
	router.GET("/api/v1/assets/id/:id/holds", h.GetCurrentHolds)
	router.GET("/api/v1/assets/id/:id/history", h.GetCheckoutHistory)
	router.GET("/api/v1/assets/id/:id/status", h.GetStatus)
	router.POST("/api/v1/assets/id/:id/lost", h.MarkLost)
	router.POST("/api/v1/assets/id/:id/found", h.MarkFound)

	router.GET("/api/v1/holds/id/:id", h.GetHold)
	router.DELETE("/api/v1/holds/id/:id", h.CancelHold)

	router.GET("/api/v1/checkouts", h.GetAllCheckouts)
	router.GET("/api/v1/checkouts/id/:id", h.GetCheckoutByID)
}
