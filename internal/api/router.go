package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter composes the public chat surface and the bearer-authed
// management surface on a single router. Both surfaces share one port;
// mounting them separately on "/" would make chi refuse the second mount,
// so the route sets are registered side by side and the management group
// carries its own auth middleware.
func NewRouter(chat ChatDeps, mgmt MgmtDeps) http.Handler {
	r := chi.NewRouter()
	registerChatRoutes(r, chat)
	registerMgmtRoutes(r, mgmt)
	return r
}
