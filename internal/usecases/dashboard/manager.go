package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/vfg2006/sales-insights-api/internal/domain"
	"github.com/vfg2006/sales-insights-api/internal/usecases/insighting"
	"github.com/vfg2006/sales-insights-api/pkg/log"
	"github.com/vfg2006/sales-insights-api/pkg/utils"
)

// Selection é a seleção inicial de uma sessão
type Selection struct {
	Store     string
	Range     domain.RangeKind
	StartDate *time.Time
	EndDate   *time.Time
}

type Manager interface {
	Create(ctx context.Context, selection Selection) (*Session, error)
	Get(id string) (*Session, error)
	Close(id string) error
	CloseAll()
	Count() int

	// CloseIdle encerra as sessões ociosas há mais que o TTL e retorna quantas foram removidas
	CloseIdle() int

	// Start agenda a limpeza periódica das sessões ociosas até ctx ser cancelado
	Start(ctx context.Context) error
}

const (
	DefaultIdleTTL      = 15 * time.Minute
	DefaultReapInterval = time.Minute
)

type manager struct {
	insighter    insighting.Insighter
	now          func() time.Time
	newID        func() (string, error)
	idleTTL      time.Duration
	reapInterval time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

type Option func(*manager)

// WithClock substitui o relógio usado nos snapshots e na expiração
func WithClock(now func() time.Time) Option {
	return func(m *manager) {
		m.now = now
	}
}

// WithIdleTTL define o tempo máximo sem uso de uma sessão e o intervalo da limpeza.
// ttl igual a zero desliga a expiração.
func WithIdleTTL(ttl, reapInterval time.Duration) Option {
	return func(m *manager) {
		m.idleTTL = ttl
		if reapInterval > 0 {
			m.reapInterval = reapInterval
		}
	}
}

func NewManager(insighter insighting.Insighter, opts ...Option) Manager {
	m := &manager{
		insighter:    insighter,
		now:          time.Now,
		newID:        utils.GenerateID,
		idleTTL:      DefaultIdleTTL,
		reapInterval: DefaultReapInterval,
		sessions:     make(map[string]*Session),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Create abre uma sessão e dispara a primeira consulta quando há loja selecionada
func (m *manager) Create(ctx context.Context, selection Selection) (*Session, error) {
	kind := selection.Range
	if kind == "" {
		kind = domain.RangeLastMonth
	}
	if !kind.Valid() {
		return nil, insighting.ErrInvalidRange
	}

	id, err := m.newID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar id da sessão: %w", err)
	}

	session := newSession(id, m.insighter, m.now)

	session.mu.Lock()
	session.store = selection.Store
	session.kind = kind
	if kind == domain.RangeCustom {
		session.filters = &domain.InsigthFilters{StartDate: selection.StartDate, EndDate: selection.EndDate}
	}
	session.trigger(ctx)
	session.mu.Unlock()

	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()

	log.ForContext(ctx).WithField("session_id", id).Info("dashboard: sessão criada")
	return session, nil
}

func (m *manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	session.touch()
	return session, nil
}

func (m *manager) Close(id string) error {
	m.mu.Lock()
	session, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	session.Close()
	return nil
}

// CloseAll encerra todas as sessões (usado no desligamento do servidor)
func (m *manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}

	if len(sessions) > 0 {
		log.L.Infof("dashboard: %d sessões encerradas", len(sessions))
	}
}

func (m *manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

func (m *manager) CloseIdle() int {
	if m.idleTTL <= 0 {
		return 0
	}

	now := m.now()

	m.mu.Lock()
	idle := make([]*Session, 0)
	for id, session := range m.sessions {
		if session.idleFor(now, m.idleTTL) {
			idle = append(idle, session)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, session := range idle {
		session.Close()
	}

	if len(idle) > 0 {
		log.L.WithField("idle_ttl", m.idleTTL.String()).Infof("dashboard: %d sessões ociosas encerradas", len(idle))
	}

	return len(idle)
}

func (m *manager) Start(ctx context.Context) error {
	if m.idleTTL <= 0 {
		log.L.Info("dashboard: expiração de sessões desabilitada por configuração")
		return nil
	}

	scheduler := gocron.NewScheduler(time.UTC)
	_, err := scheduler.Every(m.reapInterval).SingletonMode().Do(func() {
		m.CloseIdle()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar limpeza de sessões: %w", err)
	}

	scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		scheduler.Stop()
	}()

	return nil
}
