package http

import (
	"errors"
	"net/http"
	"strings"

	"finproject/internal/aggregate"
	"finproject/internal/core"
	"finproject/internal/form"
	"finproject/internal/log"
	"finproject/internal/services"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.svc == nil {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("type"))
	if raw == "" {
		NewJSONResponse().JSON(map[core.Type][]string{
			core.Income:  s.svc.Categories(core.Income),
			core.Expense: s.svc.Categories(core.Expense),
		}).Write(w)
		return
	}

	t, err := core.ParseType(raw)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	NewJSONResponse().JSON(map[string]any{
		"type":       t,
		"categories": s.svc.Categories(t),
	}).Write(w)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	opts, err := ParseHistoryOptions(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	res := s.svc.History(r.Context(), opts)
	NewJSONResponse().JSON(toHistoryDTO(res, opts)).Write(w)
}

type validationResponse struct {
	Errors map[string]string `json:"errors"`
	Draft  form.Draft        `json:"draft"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		if errors.Is(err, errBodyTooLarge) {
			ErrorResponse(http.StatusRequestEntityTooLarge, err.Error()).Write(w)
			return
		}
		logger.WarnContext(ctx, "Parse request body error", log.FieldError, err, log.FieldOperation, log.OpParse)
		BadRequestError("malformed request body").Write(w)
		return
	}

	draft := DraftFromBody(p, s.svc.NewDraft())
	tx, err := s.svc.Submit(ctx, draft)
	if err != nil {
		if verr, ok := form.AsValidationError(err); ok {
			// The draft goes back so the client can keep what was typed.
			NewJSONResponse().
				Status(http.StatusUnprocessableEntity).
				JSON(validationResponse{Errors: verr.Messages(), Draft: draft}).
				Write(w)
			return
		}
		log.NewStructuredLogger(logger).LogError(ctx, "Failed to add transaction", err, log.OpCreate, nil)
		InternalServerError("could not save transaction").Write(w)
		return
	}

	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/transactions/"+tx.ID).
		JSON(toTransactionDTO(tx)).
		Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	confirmed := ConfirmRequested(r)

	var pending *core.Transaction
	err := s.svc.Delete(ctx, id, func(tx core.Transaction) bool {
		pending = &tx
		return confirmed
	})
	switch {
	case errors.Is(err, services.ErrNotConfirmed):
		var detail any
		if pending != nil {
			detail = toTransactionDTO(*pending)
		}
		PreconditionRequiredError("deletion must be confirmed with "+HeaderConfirm+": true", detail).Write(w)
	case err != nil:
		log.NewStructuredLogger(log.FromContext(ctx)).LogError(ctx, "Failed to delete transaction", err, log.OpDelete,
			log.LogFields{log.FieldTransactionID: id})
		InternalServerError("could not delete transaction").Write(w)
	default:
		// Unknown ids land here too; deleting is idempotent.
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	top, err := ParseTop(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	summary := s.svc.Summary(r.Context(), aggregate.Options{TopN: top})
	NewJSONResponse().JSON(toSummaryDTO(summary)).Write(w)
}
