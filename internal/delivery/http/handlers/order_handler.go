package handlers

import (
	"github.com/gofiber/fiber/v2"

	"course-media/internal/delivery/http/middleware"
	"course-media/internal/domain/dto"
	"course-media/internal/usecases"
	apperrors "course-media/pkg/errors"
)

type OrderHandler struct {
	orderService usecases.OrderService
}

func NewOrderHandler(orderService usecases.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrder
//
// @Summary      Record a completed order
// @Description  Enrolls the authenticated user in a course
// @Tags         Orders
// @Accept       json
// @Produce      json
// @Param        request  body      dto.CreateOrderRequest true "Order request"
// @Success      201      {object}  dto.OrderResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /orders [post]
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.HandleError(c, apperrors.ErrValidation("invalid request body"))
	}

	response, err := h.orderService.CreateOrder(c.Context(), middleware.UserID(c), &req)
	if err != nil {
		return apperrors.HandleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}
