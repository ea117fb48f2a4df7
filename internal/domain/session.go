package domain

import "time"

// SessionStatus é o estado da última consulta de uma sessão do dashboard
type SessionStatus string

const (
	SessionIdle    SessionStatus = "idle"
	SessionLoading SessionStatus = "loading"
	SessionReady   SessionStatus = "ready"
	SessionError   SessionStatus = "error"
	SessionClosed  SessionStatus = "closed"
)

// SessionSnapshot é a visão imutável do estado de uma sessão
type SessionSnapshot struct {
	ID        string           `json:"id"`
	Store     string           `json:"store"`
	Range     RangeKind        `json:"range"`
	Filters   *InsigthFilters  `json:"filters,omitempty"`
	Status    SessionStatus    `json:"status"`
	Version   uint64           `json:"version"`
	Error     string           `json:"error,omitempty"`
	Charts    *DashboardCharts `json:"charts,omitempty"`
	UpdatedAt time.Time        `json:"updated_at"`
}
