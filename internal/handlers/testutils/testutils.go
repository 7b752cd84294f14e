package testutils

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"procurement/internal/access"
)

// WithChiURLParams подставляет параметры пути в контекст chi, когда контроллер вызывается без роутера
func WithChiURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.RouteContext(req.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AsActor кладёт в запрос участника так, как это делает access.Authenticate
func AsActor(req *http.Request, actor access.Actor) *http.Request {
	return req.WithContext(access.WithActor(req.Context(), actor))
}
