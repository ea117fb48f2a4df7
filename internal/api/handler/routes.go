package handler

import (
	"net/http"
	"time"

	"github.com/vfg2006/sales-insights-api/internal/api/handler/router"
	"github.com/vfg2006/sales-insights-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-insights-api/internal/usecases/dashboard"
	"github.com/vfg2006/sales-insights-api/internal/usecases/insighting"
	"github.com/vfg2006/sales-insights-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Insights(service insighting.Insighter, loc *time.Location) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/stores",
			Method:      http.MethodGet,
			Handler:     ListStores(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/ranges",
			Method:      http.MethodGet,
			Handler:     ListRanges(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/stores/:store/insights",
			Method:      http.MethodGet,
			Handler:     GetStoreInsights(service, loc),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Sessions(manager dashboard.Manager, loc *time.Location) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/sessions",
			Method:      http.MethodPost,
			Handler:     CreateSession(manager, loc),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/sessions/:id",
			Method:      http.MethodGet,
			Handler:     GetSession(manager),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/sessions/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteSession(manager),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/sessions/:id/store",
			Method:      http.MethodPut,
			Handler:     SelectSessionStore(manager),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/sessions/:id/range",
			Method:      http.MethodPut,
			Handler:     SelectSessionRange(manager, loc),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/sessions/:id/stream",
			Method:      http.MethodGet,
			Handler:     StreamSession(manager),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Feed(service FeedRefresher) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/feed/refresh",
			Method:      http.MethodPost,
			Handler:     RunFeedRefresh(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/feed/status",
			Method:      http.MethodGet,
			Handler:     GetFeedStatus(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
