package controllers

import (
	"go-checkout-flow/src/controllers/models"
	"go-checkout-flow/src/services/order/domain"

	"github.com/gofiber/fiber/v2"
)

type OrderController struct {
	orderService domain.OrderService
}

func NewOrderController(orderService domain.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

func (c *OrderController) Route(app *fiber.App) {
	api := app.Group("/api/v1/orders")
	api.Post("/", c.CreateOrder)
	api.Get("/:id", c.GetOrder)
}

// CreateOrder godoc
// @Summary      Create a new order
// @Description  Validates the items against the catalog, prices them and persists the order in pending status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        order  body  models.OrderRequest  true  "Order payload"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      422  {object}  map[string]interface{}
// @Router       /api/v1/orders [post]
func (c *OrderController) CreateOrder(ctx *fiber.Ctx) error {
	var request models.OrderRequest
	if err := ctx.BodyParser(&request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	draft := domain.OrderDraft{
		ShippingAddress: request.ShippingAddress,
		PhoneNumber:     request.PhoneNumber,
	}
	for _, item := range request.Items {
		draft.Items = append(draft.Items, domain.DraftItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	orderID, err := c.orderService.CreateOrder(ctx.Context(), draft)
	if err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"order_id": orderID})
}

// GetOrder godoc
// @Summary      Get order by ID
// @Description  Returns the order snapshot including its current status
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/v1/orders/{id} [get]
func (c *OrderController) GetOrder(ctx *fiber.Ctx) error {
	order, err := c.orderService.GetOrder(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.JSON(orderResponse(order))
}

func orderResponse(order *domain.Order) fiber.Map {
	items := make([]fiber.Map, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, fiber.Map{
			"product_id": item.ProductID,
			"name":       item.Name,
			"quantity":   item.Quantity,
			"unit_price": item.UnitPrice,
		})
	}
	return fiber.Map{
		"id":               order.ID,
		"status":           string(order.Status),
		"total_amount":     order.TotalAmount,
		"shipping_address": order.ShippingAddress,
		"phone_number":     order.PhoneNumber,
		"items":            items,
		"created_at":       order.CreatedAt,
		"updated_at":       order.UpdatedAt,
	}
}
