package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"compliancedocs/internal/auth"
	"compliancedocs/internal/http/middleware"
	"compliancedocs/internal/service"
)

// Deps are the collaborators the routes are served by.
type Deps struct {
	DB            *sql.DB
	Storage       ReadinessChecker
	Tokens        middleware.TokenValidator
	Metrics       prometheus.Gatherer
	Catalog       service.CatalogService
	Documents     service.DocumentService
	Notifications service.NotificationService
	References    service.ReferenceService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Probes and /metrics are public; everything else needs a bearer token.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB, d.Storage))
	app.Get("/healthz", LivenessProbe())
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{})))
	}

	requireAuth := middleware.RequireAuth(d.Tokens)
	adminOnly := middleware.RequireRole(auth.RoleAdmin)

	app.Get("/document-types", requireAuth, ListDocumentTypes(d.Catalog))

	docs := app.Group("/documents")
	docs.Post("/upload", requireAuth, UploadDocument(d.Documents))
	docs.Get("/:subjectId", requireAuth, ListDocuments(d.Documents))
	docs.Put("/:id/verify", requireAuth, adminOnly, VerifyDocument(d.Documents))
	docs.Get("/:id/download", requireAuth, DownloadDocument(d.Documents))
	docs.Delete("/:id", requireAuth, DeleteDocument(d.Documents))

	subjects := app.Group("/subjects/:subjectId")
	subjects.Get("/overview", requireAuth, GetOverview(d.Documents))
	subjects.Get("/notifications", requireAuth, ListNotifications(d.Notifications))
	subjects.Get("/notifications/summary", requireAuth, NotificationSummary(d.Notifications))
	subjects.Put("/notifications/read-all", requireAuth, MarkAllNotificationsRead(d.Notifications))
	subjects.Put("/notifications/:id/read", requireAuth, MarkNotificationRead(d.Notifications))
	subjects.Get("/references", requireAuth, ListReferences(d.References))
	subjects.Post("/references", requireAuth, AddReference(d.References))
	subjects.Delete("/references/:id", requireAuth, DeleteReference(d.References))

	admin := app.Group("/admin/notifications")
	admin.Get("/", requireAuth, adminOnly, AdminNotifications(d.Notifications))
	admin.Get("/summary", requireAuth, adminOnly, AdminNotificationSummary(d.Notifications))
	admin.Put("/read-all", requireAuth, adminOnly, AdminMarkAllNotificationsRead(d.Notifications))
	admin.Put("/:id/read", requireAuth, adminOnly, AdminMarkNotificationRead(d.Notifications))
}
