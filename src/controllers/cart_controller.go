package controllers

import (
	"fmt"

	"go-checkout-flow/src/controllers/models"
	"go-checkout-flow/src/services/cart"
	"go-checkout-flow/src/services/errs"
	"go-checkout-flow/src/services/order/domain"

	"github.com/gofiber/fiber/v2"
)

type CartController struct {
	cartStore    cart.SelectionStore
	orderService domain.OrderService
}

func NewCartController(cartStore cart.SelectionStore, orderService domain.OrderService) *CartController {
	return &CartController{
		cartStore:    cartStore,
		orderService: orderService,
	}
}

func (c *CartController) Route(app *fiber.App) {
	api := app.Group("/api/v1/carts")
	api.Put("/:session", c.SaveCart)
	api.Post("/:session/checkout", c.CheckoutCart)
}

// SaveCart godoc
// @Summary      Save cart selections
// @Description  Overwrites the session's pre-checkout selections
// @Tags         carts
// @Accept       json
// @Produce      json
// @Param        session  path  string             true  "Session ID"
// @Param        cart     body  models.CartRequest  true  "Cart payload"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /api/v1/carts/{session} [put]
func (c *CartController) SaveCart(ctx *fiber.Ctx) error {
	var request models.CartRequest
	if err := ctx.BodyParser(&request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	selections := make([]cart.Selection, 0, len(request.Selections))
	for _, selection := range request.Selections {
		selections = append(selections, cart.Selection{
			ProductID: selection.ProductID,
			Quantity:  selection.Quantity,
		})
	}

	if err := c.cartStore.Save(ctx.Context(), ctx.Params("session"), selections); err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.JSON(fiber.Map{"status": "Cart saved"})
}

// CheckoutCart godoc
// @Summary      Checkout a saved cart
// @Description  Consumes the session's selections (read-once) and creates a pending order from them
// @Tags         carts
// @Accept       json
// @Produce      json
// @Param        session   path  string                      true  "Session ID"
// @Param        checkout  body  models.CartCheckoutRequest  true  "Checkout payload"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      422  {object}  map[string]interface{}
// @Router       /api/v1/carts/{session}/checkout [post]
func (c *CartController) CheckoutCart(ctx *fiber.Ctx) error {
	var request models.CartCheckoutRequest
	if err := ctx.BodyParser(&request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	// Reject correctable input before touching the cart; Take clears the
	// selections, and a re-prompted user must still find them.
	if request.ShippingAddress == "" {
		return errorJSON(ctx, fmt.Errorf("shipping address is required: %w", errs.ErrValidation))
	}
	if request.PhoneNumber == "" {
		return errorJSON(ctx, fmt.Errorf("phone number is required: %w", errs.ErrValidation))
	}

	sessionID := ctx.Params("session")
	selections, err := c.cartStore.Take(ctx.Context(), sessionID)
	if err != nil {
		return errorJSON(ctx, err)
	}

	draft := domain.OrderDraft{
		ShippingAddress: request.ShippingAddress,
		PhoneNumber:     request.PhoneNumber,
	}
	for _, selection := range selections {
		draft.Items = append(draft.Items, domain.DraftItem{
			ProductID: selection.ProductID,
			Quantity:  selection.Quantity,
		})
	}

	orderID, err := c.orderService.CreateOrder(ctx.Context(), draft)
	if err != nil {
		// Put the selections back so the user can correct the input and
		// retry. Only a successful order creation consumes the cart.
		_ = c.cartStore.Save(ctx.Context(), sessionID, selections)
		return errorJSON(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"order_id": orderID})
}
