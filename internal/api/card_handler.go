package api

import (
	"net/http"

	"github.com/Pr0gger1/bank-api/internal/api/shared"
	"github.com/Pr0gger1/bank-api/internal/domain"
	"github.com/Pr0gger1/bank-api/internal/service"
)

// CardHandler handles card lifecycle and search API requests.
type CardHandler struct {
	cardService *service.CardService
}

// NewCardHandler creates a new CardHandler with the given dependencies.
func NewCardHandler(cardService *service.CardService) *CardHandler {
	return &CardHandler{
		cardService: cardService,
	}
}

// CreateCard handles POST /cards. Admin only.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req CreateCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.cardService.CreateCard(r.Context(), req.OwnerID, req.ValidityYears)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewCardResponse(card))
}

// GetCard handles GET /cards/{id}. Non-admin callers can only access
// their own cards.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(w, r)
	if !ok {
		return
	}
	cardID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(r.Context(), caller, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewCardResponse(card))
}

// GetBalance handles GET /cards/{id}/balance.
func (h *CardHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(w, r)
	if !ok {
		return
	}
	cardID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	card, err := h.cardService.GetBalance(r.Context(), caller, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BalanceResponse{
		CardID:  card.ID,
		Number:  domain.MaskNumber(card.Number),
		Balance: card.Balance,
	})
}

// BlockCard handles POST /cards/{id}/block. Admin only. Blocking an
// already blocked card succeeds without change.
func (h *CardHandler) BlockCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.cardService.BlockCard(r.Context(), cardID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ActivateCard handles POST /cards/{id}/activate. Admin only.
func (h *CardHandler) ActivateCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.cardService.ActivateCard(r.Context(), cardID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteCard handles DELETE /cards/{id}. Admin only.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), cardID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SearchCards handles GET /cards with optional search query. Without a
// query, regular users see their own cards and admins see all cards.
func (h *CardHandler) SearchCards(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(w, r)
	if !ok {
		return
	}

	page, size := getPageParams(r)
	query := r.URL.Query().Get("search")

	result, err := h.cardService.SearchCards(r.Context(), caller, query, page, size)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewPageResponse(result, NewCardResponse))
}
