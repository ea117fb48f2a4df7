package dashboard

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-insights-api/internal/domain"
	"github.com/vfg2006/sales-insights-api/internal/usecases/datasets"
	"github.com/vfg2006/sales-insights-api/internal/usecases/insighting"
	"github.com/vfg2006/sales-insights-api/internal/usecases/insighting/mocks"
	"go.uber.org/mock/gomock"
)

// waitForStatus aguarda até a sessão publicar o status desejado
func waitForStatus(t *testing.T, s *Session, status domain.SessionStatus) domain.SessionSnapshot {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	snapshot := s.Snapshot()
	for snapshot.Status != status {
		var err error
		snapshot, err = s.WaitForChange(ctx, snapshot.Version)
		require.NoError(t, err, "status %s não publicado", status)
	}
	return snapshot
}

func TestSession_LastWriteWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	insighter := mocks.NewMockInsighter(ctrl)

	firstStarted := make(chan context.Context, 1)
	releaseFirst := make(chan struct{})

	gomock.InOrder(
		insighter.EXPECT().GetDashboard(gomock.Any(), domain.PizzaStore, domain.RangeLastMonth, gomock.Nil()).
			DoAndReturn(func(ctx context.Context, store string, _ domain.RangeKind, _ *domain.InsigthFilters) (*domain.DashboardCharts, error) {
				firstStarted <- ctx
				<-releaseFirst
				// Resposta tardia ignorando o cancelamento
				return &domain.DashboardCharts{Store: store}, nil
			}),
		insighter.EXPECT().GetDashboard(gomock.Any(), domain.Decathlon, domain.RangeLastMonth, gomock.Nil()).
			Return(&domain.DashboardCharts{Store: domain.Decathlon}, nil),
	)

	m := NewManager(insighter)
	session, err := m.Create(context.Background(), Selection{Store: domain.PizzaStore})
	require.NoError(t, err)

	firstCtx := <-firstStarted

	require.NoError(t, session.SelectStore(context.Background(), domain.Decathlon))
	assert.ErrorIs(t, firstCtx.Err(), context.Canceled, "consulta anterior deve ser cancelada")

	ready := waitForStatus(t, session, domain.SessionReady)
	assert.Equal(t, domain.Decathlon, ready.Store)
	assert.Equal(t, domain.Decathlon, ready.Charts.Store)

	close(releaseFirst)
	require.NoError(t, m.Close(session.ID()))

	final := session.Snapshot()
	assert.Equal(t, ready.Version, final.Version, "resultado tardio não pode ser publicado")
	assert.Equal(t, domain.Decathlon, final.Charts.Store)
}

func TestSession_CloseCancelsPendingQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	insighter := mocks.NewMockInsighter(ctrl)
	started := make(chan struct{})
	insighter.EXPECT().GetDashboard(gomock.Any(), domain.PizzaStore, domain.RangeLastYear, gomock.Nil()).
		DoAndReturn(func(ctx context.Context, _ string, _ domain.RangeKind, _ *domain.InsigthFilters) (*domain.DashboardCharts, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		})

	session := newSession("abc", insighter, time.Now)
	require.NoError(t, session.SelectRange(context.Background(), domain.RangeLastYear, nil, nil))
	require.NoError(t, session.SelectStore(context.Background(), ""))
	require.NoError(t, session.SelectStore(context.Background(), domain.PizzaStore))
	<-started

	loading := session.Snapshot()
	assert.Equal(t, domain.SessionLoading, loading.Status)

	session.Close()

	assert.Equal(t, loading, session.Snapshot())
	_, err := session.WaitForChange(context.Background(), loading.Version)
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, session.SelectStore(context.Background(), domain.Decathlon), ErrSessionClosed)
	assert.ErrorIs(t, session.SelectRange(context.Background(), domain.RangeLastMonth, nil, nil), ErrSessionClosed)

	// Close é idempotente
	session.Close()
}

func TestSession_FeedErrorPublishesFixedMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	insighter := mocks.NewMockInsighter(ctrl)
	insighter.EXPECT().GetDashboard(gomock.Any(), domain.PizzaStore, domain.RangeLastMonth, gomock.Nil()).
		Return(nil, fmt.Errorf("%w: connection refused", datasets.ErrFeedUnavailable))

	session, err := NewManager(insighter).Create(context.Background(), Selection{Store: domain.PizzaStore})
	require.NoError(t, err)
	defer session.Close()

	snapshot := waitForStatus(t, session, domain.SessionError)
	assert.Equal(t, "Error loading data! Please try again.", snapshot.Error)
	assert.Nil(t, snapshot.Charts)
}

func TestSession_SelectRangeCustom(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	start := time.Date(2023, time.June, 8, 0, 0, 0, 0, time.UTC)
	filters := &domain.InsigthFilters{StartDate: &start}

	insighter := mocks.NewMockInsighter(ctrl)
	gomock.InOrder(
		insighter.EXPECT().GetDashboard(gomock.Any(), domain.CanadaGoose, domain.RangeLastQuarter, gomock.Nil()).
			Return(&domain.DashboardCharts{}, nil),
		insighter.EXPECT().GetDashboard(gomock.Any(), domain.CanadaGoose, domain.RangeCustom, filters).
			Return(&domain.DashboardCharts{Range: domain.RangeCustom}, nil),
	)

	session, err := NewManager(insighter).Create(context.Background(), Selection{Store: domain.CanadaGoose, Range: domain.RangeLastQuarter})
	require.NoError(t, err)
	defer session.Close()

	first := waitForStatus(t, session, domain.SessionReady)

	assert.ErrorIs(t, session.SelectRange(context.Background(), domain.RangeKind("yesterday"), nil, nil), insighting.ErrInvalidRange)
	require.NoError(t, session.SelectRange(context.Background(), domain.RangeCustom, &start, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	snapshot := first
	for snapshot.Status != domain.SessionReady || snapshot.Range != domain.RangeCustom {
		snapshot, err = session.WaitForChange(ctx, snapshot.Version)
		require.NoError(t, err)
	}
	assert.Equal(t, filters, snapshot.Filters)
	assert.Greater(t, snapshot.Version, first.Version)
}

func TestManager(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Sem loja selecionada nenhuma consulta é feita
	insighter := mocks.NewMockInsighter(ctrl)
	m := NewManager(insighter)

	_, err := m.Create(context.Background(), Selection{Range: domain.RangeKind("nope")})
	assert.ErrorIs(t, err, insighting.ErrInvalidRange)

	session, err := m.Create(context.Background(), Selection{})
	require.NoError(t, err)
	assert.Len(t, session.ID(), 12)
	assert.Equal(t, domain.SessionIdle, session.Snapshot().Status)
	assert.Equal(t, domain.RangeLastMonth, session.Snapshot().Range)

	other, err := m.Create(context.Background(), Selection{})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Count())

	found, err := m.Get(session.ID())
	require.NoError(t, err)
	assert.Same(t, session, found)

	require.NoError(t, m.Close(session.ID()))
	_, err = m.Get(session.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Close(session.ID()), ErrSessionNotFound)

	m.CloseAll()
	assert.Zero(t, m.Count())
	assert.ErrorIs(t, other.SelectStore(context.Background(), domain.PizzaStore), ErrSessionClosed)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestManager_CloseIdle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	clock := &testClock{now: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)}
	m := NewManager(mocks.NewMockInsighter(ctrl), WithClock(clock.Now), WithIdleTTL(10*time.Minute, time.Minute))

	idle, err := m.Create(ctx, Selection{})
	require.NoError(t, err)
	touched, err := m.Create(ctx, Selection{})
	require.NoError(t, err)
	streamed, err := m.Create(ctx, Selection{})
	require.NoError(t, err)

	detach := streamed.Attach()

	clock.Advance(9 * time.Minute)
	_, err = m.Get(touched.ID())
	require.NoError(t, err)
	clock.Advance(time.Minute)

	assert.Equal(t, 1, m.CloseIdle())
	assert.Equal(t, 2, m.Count())
	_, err = m.Get(idle.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, idle.SelectStore(ctx, domain.PizzaStore), ErrSessionClosed)

	// Stream conectado mantém a sessão viva
	clock.Advance(time.Hour)
	assert.Equal(t, 1, m.CloseIdle())
	assert.Equal(t, 1, m.Count())

	detach()
	detach()
	assert.Zero(t, m.CloseIdle(), "o fim do stream conta como último acesso")

	clock.Advance(10 * time.Minute)
	assert.Equal(t, 1, m.CloseIdle())
	assert.Zero(t, m.Count())
}

func TestManager_CloseIdleDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clock := &testClock{now: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)}
	m := NewManager(mocks.NewMockInsighter(ctrl), WithClock(clock.Now), WithIdleTTL(0, 0))

	_, err := m.Create(context.Background(), Selection{})
	require.NoError(t, err)

	clock.Advance(24 * time.Hour)
	assert.Zero(t, m.CloseIdle())
	assert.Equal(t, 1, m.Count())
	assert.NoError(t, m.Start(context.Background()))
}

func TestManager_StartReapsIdleSessions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := NewManager(mocks.NewMockInsighter(ctrl), WithIdleTTL(time.Millisecond, 50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := m.Create(ctx, Selection{})
	require.NoError(t, err)
	require.NoError(t, m.Start(ctx))

	assert.Eventually(t, func() bool { return m.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}
