package http

import (
	"net/http"

	"github.com/aussiebroadwan/mindcare/internal/mindcare/domain"
	"github.com/aussiebroadwan/mindcare/internal/mindcare/service"
	"github.com/aussiebroadwan/mindcare/pkg/httpx"
	"github.com/aussiebroadwan/mindcare/pkg/mindsdk"
)

// JournalHandler serves the caller's own journal.
type JournalHandler struct {
	JournalService *service.JournalService
}

// HandleCreate handles POST /api/journal
//
//	@Summary		Create journal entry
//	@Description	Stores an entry owned by the caller. Without a label the entry is scored by the classifier when one is configured.
//	@Tags			Journal
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		mindsdk.JournalEntryRequest	true	"content, label, suicidalScore"
//	@Success		201		{object}	mindsdk.JournalEntry
//	@Failure		400		{object}	mindsdk.ErrorResponse	"validation_error"
//	@Failure		401		{object}	mindsdk.ErrorResponse	"unauthorized"
//	@Router			/api/journal [post].
func (h *JournalHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}

	var req mindsdk.JournalEntryRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	entry, err := h.JournalService.CreateEntry(r.Context(), who, service.JournalInput{
		Content:       req.Content,
		Label:         req.Label,
		SuicidalScore: req.SuicidalScore,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toJournalEntry(entry))
}

// HandleList handles GET /api/journal
//
//	@Summary		List journal entries
//	@Description	Returns the caller's entries, newest first.
//	@Tags			Journal
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		mindsdk.JournalEntry
//	@Failure		401	{object}	mindsdk.ErrorResponse	"unauthorized"
//	@Router			/api/journal [get].
func (h *JournalHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}

	entries, err := h.JournalService.ListEntries(r.Context(), who)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]mindsdk.JournalEntry, len(entries))
	for i, e := range entries {
		out[i] = toJournalEntry(e)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /api/journal/{id}
//
//	@Summary		Get journal entry
//	@Tags			Journal
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Entry ID"
//	@Success		200	{object}	mindsdk.JournalEntry
//	@Failure		401	{object}	mindsdk.ErrorResponse	"unauthorized"
//	@Failure		404	{object}	mindsdk.ErrorResponse	"not_found, also for entries owned by someone else"
//	@Router			/api/journal/{id} [get].
func (h *JournalHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}

	entry, err := h.JournalService.GetEntry(r.Context(), who, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toJournalEntry(entry))
}

// HandleDelete handles DELETE /api/journal/{id}
//
//	@Summary		Delete journal entry
//	@Tags			Journal
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Entry ID"
//	@Success		204
//	@Failure		401	{object}	mindsdk.ErrorResponse	"unauthorized"
//	@Failure		404	{object}	mindsdk.ErrorResponse	"not_found, also for entries owned by someone else"
//	@Router			/api/journal/{id} [delete].
func (h *JournalHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.JournalService.DeleteEntry(r.Context(), who, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toJournalEntry(e domain.JournalEntry) mindsdk.JournalEntry {
	return mindsdk.JournalEntry{
		ID:            e.ID,
		UserID:        e.UserID,
		Content:       e.Content,
		Label:         e.Label,
		SuicidalScore: e.SuicidalScore,
		CreatedAt:     e.CreatedAt,
	}
}
