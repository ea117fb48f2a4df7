package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/sales-insights-api/internal/api/handler"
	"github.com/vfg2006/sales-insights-api/internal/api/handler/router"
	"github.com/vfg2006/sales-insights-api/internal/config"
	"github.com/vfg2006/sales-insights-api/internal/domain"
	"github.com/vfg2006/sales-insights-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-insights-api/internal/usecases/dashboard"
	"github.com/vfg2006/sales-insights-api/internal/usecases/insighting"
	"github.com/vfg2006/sales-insights-api/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
	sessions   dashboard.Manager
}

func New(
	config *config.Config,
	insightService insighting.Insighter,
	sessions dashboard.Manager,
	authenticator authenticating.Authenticator,
	feedRefresher handler.FeedRefresher,
) (*Server, error) {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Authentication(authenticator)...),
		router.WithRoutes(handler.Insights(insightService, config.Location)...),
		router.WithRoutes(handler.Sessions(sessions, config.Location)...),
		router.WithRoutes(handler.Feed(feedRefresher)...),
	)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           alice.New(Middlewares(config, authenticator)...).Then(rt),
			ReadHeaderTimeout: 2 * time.Second,
		},
		sessions: sessions,
	}

	return srv, nil
}

// Middlewares monta a cadeia global aplicada antes do roteamento
func Middlewares(config *config.Config, authenticator authenticating.Authenticator) []alice.Constructor {
	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Cors.AllowedOrigins),
	}

	if config.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(config.RateLimit.RPS, config.RateLimit.Burst, config.RateLimit.TrustedProxies...)
		middlewares = append(middlewares, limiter.Middleware())
	}

	if authenticator.Enabled() {
		middlewares = append(middlewares, middleware.AuthMiddleware(authenticator))
	} else {
		logrus.Warn("Autenticação desabilitada, todas as rotas estão abertas")
		middlewares = append(middlewares, middleware.AnonymousMiddleware(domain.RoleAdmin))
	}

	return middlewares
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	logrus.Info("Executando operações de limpeza antes do desligamento")

	// Encerrar as sessões libera os streams SSE presos em WaitForChange
	s.sessions.CloseAll()

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
