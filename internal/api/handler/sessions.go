package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/vfg2006/sales-insights-api/internal/domain"
	"github.com/vfg2006/sales-insights-api/internal/usecases/dashboard"
	"github.com/vfg2006/sales-insights-api/pkg/apiErrors"
	"github.com/vfg2006/sales-insights-api/pkg/log"
)

type CreateSessionRequest struct {
	Store     string `json:"store"`
	Range     string `json:"range"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type SelectStoreRequest struct {
	Store string `json:"store"`
}

type SelectRangeRequest struct {
	Range     string `json:"range"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// CreateSession abre uma sessão de dashboard e dispara a primeira consulta
func CreateSession(manager dashboard.Manager, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSessionRequest
		if !decodeBody(w, r, &req) {
			return
		}

		kind, filters, err := parseRange(req.Range, req.StartDate, req.EndDate, loc)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		selection := dashboard.Selection{Store: req.Store, Range: kind}
		if filters != nil {
			selection.StartDate = filters.StartDate
			selection.EndDate = filters.EndDate
		}

		session, err := manager.Create(r.Context(), selection)
		if err != nil {
			writeInsightError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, session.Snapshot())
	}
}

// GetSession retorna o snapshot mais recente da sessão
func GetSession(manager dashboard.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := lookupSession(w, r, manager)
		if !ok {
			return
		}

		writeJSON(w, r, http.StatusOK, session.Snapshot())
	}
}

// SelectSessionStore troca a loja da sessão; o resultado chega pelo snapshot ou pelo stream
func SelectSessionStore(manager dashboard.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := lookupSession(w, r, manager)
		if !ok {
			return
		}

		var req SelectStoreRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if err := session.SelectStore(r.Context(), req.Store); err != nil {
			writeSessionError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusAccepted, session.Snapshot())
	}
}

// SelectSessionRange troca o período da sessão
func SelectSessionRange(manager dashboard.Manager, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := lookupSession(w, r, manager)
		if !ok {
			return
		}

		var req SelectRangeRequest
		if !decodeBody(w, r, &req) {
			return
		}

		kind, filters, err := parseRange(req.Range, req.StartDate, req.EndDate, loc)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		var start, end *time.Time
		if filters != nil {
			start, end = filters.StartDate, filters.EndDate
		}

		if err := session.SelectRange(r.Context(), kind, start, end); err != nil {
			writeSessionError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusAccepted, session.Snapshot())
	}
}

// DeleteSession encerra a sessão e cancela a consulta pendente
func DeleteSession(manager dashboard.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		if err := manager.Close(id); err != nil {
			writeSessionError(w, r, err)
			return
		}

		log.ForContext(r.Context()).WithField("session_id", id).Info("dashboard: sessão encerrada")
		w.WriteHeader(http.StatusNoContent)
	}
}

func lookupSession(w http.ResponseWriter, r *http.Request, manager dashboard.Manager) (*dashboard.Session, bool) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")
	if id == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da sessão não fornecido", nil)
		return nil, false
	}

	session, err := manager.Get(id)
	if err != nil {
		writeSessionError(w, r, err)
		return nil, false
	}

	return session, true
}

func writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, dashboard.ErrSessionNotFound), errors.Is(err, dashboard.ErrSessionClosed):
		apiErrors.WriteError(w, apiErrors.ErrNotFound, "Sessão não encontrada", nil)
	default:
		writeInsightError(w, r, err)
	}
}

type sessionSignals struct {
	Dashboard domain.SessionSnapshot `json:"dashboard"`
}
