package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"batch-scorer-server/models"
	"batch-scorer-server/services"
)

type ScheduleHandler struct {
	service *services.ScheduleService
}

func NewScheduleHandler(service *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// CreateSchedule godoc
// @Summary Create a scheduled scoring run for a service
// @Tags schedules
// @Accept json
// @Produce json
// @Param id path int true "Service ID"
// @Param schedule body models.CreateScheduleRequest true "Schedule request"
// @Success 200 {object} models.ScheduledRun
// @Router /services/{id}/schedules [post]
func (h *ScheduleHandler) CreateSchedule(c *fiber.Ctx) error {
	serviceID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid service ID"})
	}

	var req models.CreateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	sched, err := h.service.CreateSchedule(c.Context(), serviceID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(sched)
}

// ListSchedules godoc
// @Summary List scheduled runs for a service
// @Tags schedules
// @Produce json
// @Param id path int true "Service ID"
// @Success 200 {array} models.ScheduledRun
// @Router /services/{id}/schedules [get]
func (h *ScheduleHandler) ListSchedules(c *fiber.Ctx) error {
	serviceID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid service ID"})
	}

	schedules, err := h.service.ListSchedules(c.Context(), serviceID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(schedules)
}

// DeleteSchedule godoc
// @Summary Delete a scheduled run
// @Tags schedules
// @Param id path int true "Service ID"
// @Param scheduleId path int true "Schedule ID"
// @Success 204
// @Router /services/{id}/schedules/{scheduleId} [delete]
func (h *ScheduleHandler) DeleteSchedule(c *fiber.Ctx) error {
	serviceID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid service ID"})
	}
	scheduleID, err := strconv.ParseInt(c.Params("scheduleId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid schedule ID"})
	}

	if err := h.service.DeleteSchedule(c.Context(), serviceID, scheduleID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
