package handler

import (
	"github.com/gofiber/fiber/v2"

	"compliancedocs/internal/model"
	"compliancedocs/internal/service"
)

type summaryResponse struct {
	Summary model.NotificationSummary `json:"summary"`
	Stale   bool                      `json:"stale"`
}

func writeFeed(c *fiber.Ctx, feed *model.NotificationFeed, err error) error {
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(feed)
}

func writeSummary(c *fiber.Ctx, feed *model.NotificationFeed, err error) error {
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(summaryResponse{Summary: feed.Summary, Stale: feed.Stale})
}

// ListNotifications returns the subject's ranked notification feed for the caller.
//
// @Summary  Subject notifications
// @Tags     notifications
// @Produce  json
// @Param    subjectId path  string true  "Subject id"
// @Param    kind      query string false "doctor or business (admins only)"
// @Success  200 {object} model.NotificationFeed
// @Router   /subjects/{subjectId}/notifications [get]
// @Security BearerAuth
func ListNotifications(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, subjectID, kind, err := subjectScope(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		feed, err := svc.Feed(c.UserContext(), claims.UserID, subjectID, kind)
		return writeFeed(c, feed, err)
	}
}

// NotificationSummary returns only the badge counts of the subject's feed.
//
// @Summary  Subject notification summary
// @Tags     notifications
// @Produce  json
// @Param    subjectId path string true "Subject id"
// @Success  200 {object} summaryResponse
// @Router   /subjects/{subjectId}/notifications/summary [get]
// @Security BearerAuth
func NotificationSummary(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, subjectID, kind, err := subjectScope(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		feed, err := svc.Feed(c.UserContext(), claims.UserID, subjectID, kind)
		return writeSummary(c, feed, err)
	}
}

// MarkNotificationRead marks one notification read and returns the updated feed.
//
// @Summary  Mark notification read
// @Tags     notifications
// @Produce  json
// @Param    subjectId path string true "Subject id"
// @Param    id        path string true "Notification id"
// @Success  200 {object} model.NotificationFeed
// @Failure  404 {object} errorPayload
// @Router   /subjects/{subjectId}/notifications/{id}/read [put]
// @Security BearerAuth
func MarkNotificationRead(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, subjectID, kind, err := subjectScope(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		feed, err := svc.MarkRead(c.UserContext(), claims.UserID, subjectID, kind, idParam(c))
		return writeFeed(c, feed, err)
	}
}

// MarkAllNotificationsRead marks the subject's whole feed read.
//
// @Summary  Mark all notifications read
// @Tags     notifications
// @Produce  json
// @Param    subjectId path string true "Subject id"
// @Success  200 {object} model.NotificationFeed
// @Router   /subjects/{subjectId}/notifications/read-all [put]
// @Security BearerAuth
func MarkAllNotificationsRead(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, subjectID, kind, err := subjectScope(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		feed, err := svc.MarkAllRead(c.UserContext(), claims.UserID, subjectID, kind)
		return writeFeed(c, feed, err)
	}
}

// AdminNotifications returns the review queue.
//
// @Summary  Admin review queue
// @Tags     admin
// @Produce  json
// @Success  200 {object} model.NotificationFeed
// @Router   /admin/notifications [get]
// @Security BearerAuth
func AdminNotifications(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := viewer(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		feed, err := svc.AdminFeed(c.UserContext(), claims.UserID)
		return writeFeed(c, feed, err)
	}
}

func AdminNotificationSummary(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := viewer(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		feed, err := svc.AdminFeed(c.UserContext(), claims.UserID)
		return writeSummary(c, feed, err)
	}
}

func AdminMarkNotificationRead(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := viewer(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		feed, err := svc.AdminMarkRead(c.UserContext(), claims.UserID, idParam(c))
		return writeFeed(c, feed, err)
	}
}

func AdminMarkAllNotificationsRead(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := viewer(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		feed, err := svc.AdminMarkAllRead(c.UserContext(), claims.UserID)
		return writeFeed(c, feed, err)
	}
}
