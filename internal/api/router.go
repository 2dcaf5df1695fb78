package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	"issue-sync/internal/api/handler"
	"issue-sync/pkg/router"
)

func RegisterRoutes(r *router.Router, h *handler.SyncHandler) {
	r.POST("/api/v1/syncs", h.CreateSync)
	r.GET("/api/v1/syncs", h.ListSyncs)
	// More specific routes first
	r.GET("/api/v1/syncs/*/errors", h.GetSyncErrors)
	r.GET("/api/v1/syncs/*/logs", h.GetSyncLogs)
	// Generic run route last
	r.GET("/api/v1/syncs/*", h.GetSync)

	r.GET("/api/v1/pipelines", h.ListPipelines)

	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.WrapHandler))
}
