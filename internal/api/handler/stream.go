package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/vfg2006/sales-insights-api/internal/domain"
	"github.com/vfg2006/sales-insights-api/internal/usecases/dashboard"
	"github.com/vfg2006/sales-insights-api/pkg/log"
)

// StreamSession envia cada novo snapshot da sessão como signals do datastar
func StreamSession(manager dashboard.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := lookupSession(w, r, manager)
		if !ok {
			return
		}

		detach := session.Attach()
		defer detach()

		logger := log.ForContext(r.Context()).WithField("session_id", session.ID())
		logger.Debug("stream: cliente conectado")

		sse := datastar.NewSSE(w, r)

		snapshot := session.Snapshot()
		if err := patchSnapshot(sse, snapshot); err != nil {
			logger.WithError(err).Warn("stream: erro ao enviar snapshot inicial")
			return
		}

		for {
			next, err := session.WaitForChange(r.Context(), snapshot.Version)
			if err != nil {
				if errors.Is(err, dashboard.ErrSessionClosed) {
					next.Status = domain.SessionClosed
					_ = patchSnapshot(sse, next)
				} else if !errors.Is(err, context.Canceled) {
					logger.WithError(err).Warn("stream: encerrando stream")
				}
				logger.Debug("stream: cliente desconectado")
				return
			}

			if err := patchSnapshot(sse, next); err != nil {
				logger.WithError(err).Debug("stream: erro ao enviar snapshot")
				return
			}
			snapshot = next
		}
	}
}

func patchSnapshot(sse *datastar.ServerSentEventGenerator, snapshot domain.SessionSnapshot) error {
	payload, err := json.Marshal(sessionSignals{Dashboard: snapshot})
	if err != nil {
		return err
	}
	return sse.PatchSignals(payload)
}
