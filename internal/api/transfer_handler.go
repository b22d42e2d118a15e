package api

import (
	"net/http"

	"github.com/Pr0gger1/bank-api/internal/api/shared"
	"github.com/Pr0gger1/bank-api/internal/service"
)

// TransferHandler handles funds transfer API requests.
type TransferHandler struct {
	transferService *service.TransferService
}

// NewTransferHandler creates a new TransferHandler with the given
// dependencies.
func NewTransferHandler(transferService *service.TransferService) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
	}
}

// Transfer handles POST /transactions. The caller must own the sender
// card; both balance mutations commit together or not at all.
func (h *TransferHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(w, r)
	if !ok {
		return
	}

	var req TransferRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.transferService.Transfer(
		r.Context(), caller, req.SenderCardID, req.RecipientCardID, req.Amount)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"status": "completed",
	})
}
