package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) DashboardStats(c *fiber.Ctx) error {
	stats, err := handler.dashboardService.Stats(userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

func (handler *Handler) DashboardTimeline(c *fiber.Ctx) error {
	buckets, err := handler.dashboardService.Timeline(userID(c), c.Query("period"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(buckets)
}

func (handler *Handler) DashboardRecent(c *fiber.Ctx) error {
	recent, err := handler.dashboardService.Recent(userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recent)
}

func (handler *Handler) DashboardDeadlineAlerts(c *fiber.Ctx) error {
	alerts, err := handler.dashboardService.DeadlineAlerts(userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(alerts)
}

func (handler *Handler) DashboardFunnel(c *fiber.Ctx) error {
	funnel, err := handler.dashboardService.Funnel(userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(funnel)
}

func (handler *Handler) DashboardFollowUps(c *fiber.Ctx) error {
	suggestions, err := handler.dashboardService.FollowUpSuggestions(userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(suggestions)
}
