package handler

import (
	"errors"
	"net/http"

	"github.com/vfg2006/sales-insights-api/internal/domain"
	"github.com/vfg2006/sales-insights-api/internal/scheduler"
	"github.com/vfg2006/sales-insights-api/pkg/apiErrors"
	"github.com/vfg2006/sales-insights-api/pkg/log"
)

// FeedRefresher dispara e acompanha a atualização do feed de vendas
type FeedRefresher interface {
	TriggerManualSync() error
	GetStatus() domain.FeedStatus
}

// RunFeedRefresh dispara manualmente a atualização do feed
func RunFeedRefresh(service FeedRefresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		if claims, ok := userClaims(r); ok {
			logger = logger.WithField("user_name", claims.Username)
		}

		if err := service.TriggerManualSync(); err != nil {
			if errors.Is(err, scheduler.ErrSyncAlreadyRunning) {
				apiErrors.WriteError(w, apiErrors.ErrAlreadyRunning, "Atualização do feed já em andamento", nil)
				return
			}

			logger.WithError(err).Error("feed: erro ao disparar atualização")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao disparar atualização do feed", nil)
			return
		}

		logger.Info("feed: atualização manual iniciada")
		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"message": "Atualização do feed iniciada com sucesso",
		})
	}
}

// GetFeedStatus retorna o status do agendador de atualização do feed
func GetFeedStatus(service FeedRefresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, service.GetStatus())
	}
}
