package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/sales-insights-api/internal/domain"
	"github.com/vfg2006/sales-insights-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-insights-api/internal/usecases/authenticating/mocks"
	"github.com/vfg2006/sales-insights-api/pkg/apiErrors"
)

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(*mocks.MockAuthenticator)
		wantStatus int
		wantCode   string
	}{
		{
			name: "Login com sucesso",
			body: `{"username":"admin","password":"s3cret"}`,
			setup: func(m *mocks.MockAuthenticator) {
				m.EXPECT().LoginUser("admin", "s3cret").Return("token-123", nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "Credenciais inválidas",
			body: `{"username":"admin","password":"wrong"}`,
			setup: func(m *mocks.MockAuthenticator) {
				m.EXPECT().LoginUser("admin", "wrong").Return("", authenticating.NewAuthError(
					authenticating.ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, "Usuário ou senha incorretos"))
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.ErrInvalidCredentials,
		},
		{
			name: "Erro inesperado",
			body: `{"username":"admin","password":"s3cret"}`,
			setup: func(m *mocks.MockAuthenticator) {
				m.EXPECT().LoginUser("admin", "s3cret").Return("", errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   apiErrors.ErrInternalServer,
		},
		{
			name:       "Corpo inválido",
			body:       `username=admin`,
			setup:      func(m *mocks.MockAuthenticator) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			authenticator := mocks.NewMockAuthenticator(ctrl)
			tt.setup(authenticator)

			h := newTestRouter(domain.RoleViewer, Authentication(authenticator))
			rec := doRequest(t, h, http.MethodPost, "/v1/login", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
				return
			}

			var resp LoginResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "token-123", resp.Token)
		})
	}
}

func TestGetMe(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newTestRouter(domain.RoleAdmin, Authentication(mocks.NewMockAuthenticator(ctrl)))

	rec := doRequest(t, h, http.MethodGet, "/v1/me", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"username":"anonymous","role":"admin"}`, rec.Body.String())
}
