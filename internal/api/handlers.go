package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/notepad/internal/models"
	"github.com/starford/notepad/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListNotes handles GET /notes.
//
//	@Summary		List notes of a parent record or an owner
//	@Tags			notes
//	@Produce		json
//	@Param			parent_id			query		string	false	"Parent record ID"
//	@Param			parent_type			query		string	false	"Parent record type"
//	@Param			owner_id			query		string	false	"Owner ID (dashboard)"
//	@Param			include_completed	query		bool	false	"Include completed notes"
//	@Param			max_records			query		int		false	"Maximum number of notes"
//	@Success		200					{object}	NoteListResponse
//	@Failure		400					{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := models.ListQuery{
		ParentID:   q.Get("parent_id"),
		ParentType: q.Get("parent_type"),
		OwnerID:    q.Get("owner_id"),
	}
	query.IncludeCompleted, _ = strconv.ParseBool(q.Get("include_completed"))
	if raw := q.Get("max_records"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("max_records must be an integer"))
			return
		}
		query.MaxRecords = n
	}

	notes, err := h.svc.ListNotes(r.Context(), query)
	if err != nil {
		writeError(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes})
}

// CreateNote handles POST /notes.
//
//	@Summary		Create a note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNoteRequest	true	"Note to create"
//	@Success		201		{object}	models.Note
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	note, err := h.svc.CreateNote(r.Context(), req.toModel())
	if err != nil {
		writeError(w, "create note", err, slog.String("parent_id", req.ParentID))
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// UpdateNoteText handles PUT /notes/{id}/text.
//
//	@Summary		Replace the text of a note
//	@Tags			notes
//	@Accept			json
//	@Param			id		path	string				true	"Note ID"
//	@Param			body	body	UpdateTextRequest	true	"New text"
//	@Success		204		"Text updated"
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/text [put]
func (h *Handler) UpdateNoteText(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdateTextRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.UpdateNoteText(r.Context(), id, req.Text); err != nil {
		writeError(w, "update note text", err, slog.String("id", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetCompletion handles PUT /notes/{id}/completion.
//
//	@Summary		Mark a note completed or not completed
//	@Tags			notes
//	@Accept			json
//	@Param			id		path	string				true	"Note ID"
//	@Param			body	body	CompletionRequest	true	"Completion flag"
//	@Success		204		"Completion updated"
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/completion [put]
func (h *Handler) SetCompletion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req CompletionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.SetCompletion(r.Context(), id, *req.Completed); err != nil {
		writeError(w, "set completion", err, slog.String("id", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteNote handles DELETE /notes/{id}.
//
//	@Summary		Delete a note
//	@Tags			notes
//	@Param			id	path	string	true	"Note ID"
//	@Success		204	"Note deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteNote(r.Context(), id); err != nil {
		writeError(w, "delete note", err, slog.String("id", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReminderExists handles GET /reminders/{userID}/{noteID}.
//
//	@Summary		Check whether a user has a reminder on a note
//	@Tags			reminders
//	@Produce		json
//	@Param			userID	path		string	true	"User ID"
//	@Param			noteID	path		string	true	"Note ID"
//	@Success		200		{object}	ReminderResponse
//	@Security		BearerAuth
//	@Router			/reminders/{userID}/{noteID} [get]
func (h *Handler) ReminderExists(w http.ResponseWriter, r *http.Request) {
	userID, noteID := chi.URLParam(r, "userID"), chi.URLParam(r, "noteID")
	ok, err := h.svc.ReminderExists(r.Context(), userID, noteID)
	if err != nil {
		writeError(w, "reminder exists", err, slog.String("note_id", noteID))
		return
	}
	writeJSON(w, http.StatusOK, ReminderResponse{Exists: ok})
}

// CreateReminder handles PUT /reminders/{userID}/{noteID}.
//
//	@Summary		Subscribe a user to a note
//	@Tags			reminders
//	@Param			userID	path	string	true	"User ID"
//	@Param			noteID	path	string	true	"Note ID"
//	@Success		204		"Reminder created"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/reminders/{userID}/{noteID} [put]
func (h *Handler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	userID, noteID := chi.URLParam(r, "userID"), chi.URLParam(r, "noteID")
	if err := h.svc.CreateReminder(r.Context(), userID, noteID); err != nil {
		writeError(w, "create reminder", err, slog.String("note_id", noteID))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveReminder handles DELETE /reminders/{userID}/{noteID}.
//
//	@Summary		Unsubscribe a user from a note
//	@Tags			reminders
//	@Param			userID	path	string	true	"User ID"
//	@Param			noteID	path	string	true	"Note ID"
//	@Success		204		"Reminder removed"
//	@Security		BearerAuth
//	@Router			/reminders/{userID}/{noteID} [delete]
func (h *Handler) RemoveReminder(w http.ResponseWriter, r *http.Request) {
	userID, noteID := chi.URLParam(r, "userID"), chi.URLParam(r, "noteID")
	if err := h.svc.RemoveReminder(r.Context(), userID, noteID); err != nil {
		writeError(w, "remove reminder", err, slog.String("note_id", noteID))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LookupCompanies handles POST /companies/lookup.
//
//	@Summary		Resolve company names to record IDs
//	@Tags			companies
//	@Accept			json
//	@Produce		json
//	@Param			body	body		LookupRequest	true	"Names to resolve"
//	@Success		200		{object}	LookupResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/companies/lookup [post]
func (h *Handler) LookupCompanies(w http.ResponseWriter, r *http.Request) {
	var req LookupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ids, err := h.svc.LookupRecordIDsByNames(r.Context(), req.Names)
	if err != nil {
		writeError(w, "lookup companies", err)
		return
	}
	writeJSON(w, http.StatusOK, LookupResponse{IDs: ids})
}

// CreateCompany handles POST /companies.
//
//	@Summary		Register a company
//	@Tags			companies
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateCompanyRequest	true	"Company"
//	@Success		201		{object}	models.Company
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/companies [post]
func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req CreateCompanyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := h.svc.CreateCompany(r.Context(), req.Name)
	if err != nil {
		writeError(w, "create company", err, slog.String("name", req.Name))
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
