package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/vfg2006/sales-insights-api/internal/domain"
	"github.com/vfg2006/sales-insights-api/internal/usecases/datasets"
	"github.com/vfg2006/sales-insights-api/internal/usecases/insighting"
	"github.com/vfg2006/sales-insights-api/pkg/apiErrors"
	"github.com/vfg2006/sales-insights-api/pkg/log"
	"github.com/vfg2006/sales-insights-api/pkg/utils"
)

// ListStores retorna o catálogo de lojas com a disponibilidade no feed atual
func ListStores(service insighting.Insighter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := service.ListStores(r.Context())
		if err != nil {
			writeInsightError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, stores)
	}
}

// ListRanges retorna os períodos disponíveis no seletor
func ListRanges(service insighting.Insighter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, service.Ranges())
	}
}

// GetStoreInsights executa uma consulta avulsa (sem sessão) para a loja e o período informados
func GetStoreInsights(service insighting.Insighter, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := httprouter.ParamsFromContext(r.Context()).ByName("store")
		if storeID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Loja não informada", nil)
			return
		}

		query := r.URL.Query()
		kind, filters, err := parseRange(query.Get("range"), query.Get("start_date"), query.Get("end_date"), loc)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		charts, err := service.GetDashboard(r.Context(), storeID, kind, filters)
		if err != nil {
			writeInsightError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, charts)
	}
}

// parseRange interpreta o período e as datas no formato YYYY-MM-DD.
// Período vazio vale lastMonth; as datas só são consideradas no período customizado.
func parseRange(rawKind, rawStart, rawEnd string, loc *time.Location) (domain.RangeKind, *domain.InsigthFilters, error) {
	kind := domain.RangeKind(rawKind)
	if kind == "" {
		kind = domain.RangeLastMonth
	}

	if kind != domain.RangeCustom {
		return kind, nil, nil
	}

	start, err := utils.ParseDate(rawStart, loc)
	if err != nil {
		return kind, nil, errors.New("start_date inválida, use o formato YYYY-MM-DD")
	}

	end, err := utils.ParseDate(rawEnd, loc)
	if err != nil {
		return kind, nil, errors.New("end_date inválida, use o formato YYYY-MM-DD")
	}

	return kind, &domain.InsigthFilters{StartDate: start, EndDate: end}, nil
}

// writeInsightError traduz os erros do pipeline para os códigos da API
func writeInsightError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.ForContext(r.Context())

	switch {
	case errors.Is(err, insighting.ErrInvalidRange):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRange, "Período inválido", map[string]any{
			"accepted": domain.RangeKinds,
		})
	case errors.Is(err, datasets.ErrStoreNotFound):
		apiErrors.WriteError(w, apiErrors.ErrNotFound, "Loja não encontrada no feed", nil)
	case errors.Is(err, datasets.ErrFeedUnavailable):
		logger.WithError(err).Warn("insights: feed de vendas indisponível")
		apiErrors.WriteError(w, apiErrors.ErrExternalService, datasets.ErrFeedUnavailable.Error(), nil)
	default:
		logger.WithError(err).Error("insights: erro ao montar o dashboard")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao montar o dashboard", nil)
	}
}
