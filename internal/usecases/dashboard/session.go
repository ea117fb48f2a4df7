package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vfg2006/sales-insights-api/internal/domain"
	"github.com/vfg2006/sales-insights-api/internal/usecases/datasets"
	"github.com/vfg2006/sales-insights-api/internal/usecases/insighting"
	"github.com/vfg2006/sales-insights-api/pkg/log"
)

var (
	ErrSessionNotFound = errors.New("sessão não encontrada")
	ErrSessionClosed   = errors.New("sessão encerrada")
)

// Session guarda a seleção de um dashboard aberto e recalcula os gráficos a cada mudança.
// Apenas o resultado da consulta mais recente é publicado.
type Session struct {
	id        string
	insighter insighting.Insighter
	now       func() time.Time

	ctx    context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool

	store   string
	kind    domain.RangeKind
	filters *domain.InsigthFilters

	generation uint64
	cancel     context.CancelFunc

	snapshot domain.SessionSnapshot
	changed  chan struct{}

	lastAccess time.Time
	streams    int
}

func newSession(id string, insighter insighting.Insighter, now func() time.Time) *Session {
	ctx, stop := context.WithCancel(context.Background())

	s := &Session{
		id:         id,
		insighter:  insighter,
		now:        now,
		ctx:        ctx,
		stop:       stop,
		kind:       domain.RangeLastMonth,
		changed:    make(chan struct{}),
		lastAccess: now(),
	}
	s.snapshot = domain.SessionSnapshot{
		ID:        id,
		Range:     s.kind,
		Status:    domain.SessionIdle,
		UpdatedAt: now(),
	}

	return s
}

func (s *Session) ID() string {
	return s.id
}

// SelectStore troca a loja e dispara uma nova consulta
func (s *Session) SelectStore(ctx context.Context, storeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	s.store = storeID
	s.lastAccess = s.now()
	s.trigger(ctx)
	return nil
}

// SelectRange troca o período e dispara uma nova consulta.
// Limites ausentes no período customizado resultam em dashboard vazio.
func (s *Session) SelectRange(ctx context.Context, kind domain.RangeKind, start, end *time.Time) error {
	if !kind.Valid() {
		return insighting.ErrInvalidRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	s.kind = kind
	s.lastAccess = s.now()
	s.filters = nil
	if kind == domain.RangeCustom {
		s.filters = &domain.InsigthFilters{StartDate: start, EndDate: end}
	}

	s.trigger(ctx)
	return nil
}

// Snapshot retorna o estado publicado mais recente
func (s *Session) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot
}

// WaitForChange bloqueia até existir um snapshot com versão maior que version
func (s *Session) WaitForChange(ctx context.Context, version uint64) (domain.SessionSnapshot, error) {
	for {
		s.mu.Lock()
		snapshot, changed, closed := s.snapshot, s.changed, s.closed
		s.lastAccess = s.now()
		s.mu.Unlock()

		if closed {
			return snapshot, ErrSessionClosed
		}
		if snapshot.Version > version {
			return snapshot, nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return snapshot, ctx.Err()
		}
	}
}

// Attach registra um consumidor de stream. A sessão não expira enquanto houver
// consumidores conectados; detach marca o fim do consumo como último acesso.
func (s *Session) Attach() (detach func()) {
	s.mu.Lock()
	s.streams++
	s.lastAccess = s.now()
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.streams--
			s.lastAccess = s.now()
			s.mu.Unlock()
		})
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastAccess = s.now()
	s.mu.Unlock()
}

// idleFor indica se a sessão está sem streams e sem acesso há pelo menos ttl
func (s *Session) idleFor(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.streams == 0 && now.Sub(s.lastAccess) >= ttl
}

// Close cancela a consulta em andamento e descarta resultados tardios
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.stop()
	close(s.changed)
	s.mu.Unlock()

	s.wg.Wait()
}

// trigger deve ser chamado com s.mu travado
func (s *Session) trigger(ctx context.Context) {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	s.generation++

	if s.store == "" {
		s.publish(domain.SessionIdle, nil, "")
		return
	}

	queryCtx := context.WithValue(s.ctx, log.CorrelationIDKey, log.GetCorrelationID(ctx))
	queryCtx, cancel := context.WithCancel(queryCtx)
	s.cancel = cancel

	generation := s.generation
	store, kind, filters := s.store, s.kind, s.filters

	s.publish(domain.SessionLoading, nil, "")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		charts, err := s.insighter.GetDashboard(queryCtx, store, kind, filters)
		s.complete(queryCtx, generation, charts, err)
	}()
}

func (s *Session) complete(ctx context.Context, generation uint64, charts *domain.DashboardCharts, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := log.ForContext(ctx).WithField("session_id", s.id)

	// Última escrita vence: resultados de consultas substituídas são descartados
	if s.closed || generation != s.generation {
		logger.Debugf("dashboard: descartando resultado da geração %d (atual %d)", generation, s.generation)
		return
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}

		logger.WithError(err).Warn("dashboard: falha ao montar os gráficos")
		s.publish(domain.SessionError, nil, userMessage(err))
		return
	}

	s.publish(domain.SessionReady, charts, "")
}

// publish deve ser chamado com s.mu travado
func (s *Session) publish(status domain.SessionStatus, charts *domain.DashboardCharts, errMsg string) {
	s.snapshot = domain.SessionSnapshot{
		ID:        s.id,
		Store:     s.store,
		Range:     s.kind,
		Filters:   s.filters,
		Status:    status,
		Version:   s.snapshot.Version + 1,
		Error:     errMsg,
		Charts:    charts,
		UpdatedAt: s.now(),
	}

	close(s.changed)
	s.changed = make(chan struct{})
}

func userMessage(err error) string {
	if errors.Is(err, datasets.ErrFeedUnavailable) {
		return datasets.ErrFeedUnavailable.Error()
	}
	return err.Error()
}
