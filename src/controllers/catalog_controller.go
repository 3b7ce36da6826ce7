package controllers

import (
	"strconv"

	"go-checkout-flow/src/services/catalog"

	"github.com/gofiber/fiber/v2"
)

type CatalogController struct {
	catalogService catalog.CatalogService
}

func NewCatalogController(catalogService catalog.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

func (c *CatalogController) Route(app *fiber.App) {
	api := app.Group("/api/v1/catalog")
	api.Get("/products", c.GetAllProducts)
	api.Get("/products/low-stock/:threshold", c.GetLowStockProducts)
	api.Get("/products/:id", c.GetProduct)
	api.Put("/products/:id/quantity/:quantity", c.UpdateQuantity)
}

// GetAllProducts godoc
// @Summary      Get all products
// @Description  Retrieves the whole hardware catalog
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  catalog.Product
// @Failure      500  {object}  map[string]interface{}
// @Router       /api/v1/catalog/products [get]
func (c *CatalogController) GetAllProducts(ctx *fiber.Ctx) error {
	products, err := c.catalogService.GetAllProducts(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(products)
}

// GetProduct godoc
// @Summary      Get product by ID
// @Description  Retrieves a specific product with price and stock
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  catalog.Product
// @Failure      404  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]interface{}
// @Router       /api/v1/catalog/products/{id} [get]
func (c *CatalogController) GetProduct(ctx *fiber.Ctx) error {
	product, err := c.catalogService.GetProduct(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if product == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}
	return ctx.JSON(product)
}

// GetLowStockProducts godoc
// @Summary      Get low stock products
// @Description  Retrieves products with stock below threshold
// @Tags         catalog
// @Produce      json
// @Param        threshold   path      int  true  "Stock threshold"
// @Success      200  {array}  catalog.Product
// @Failure      400  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]interface{}
// @Router       /api/v1/catalog/products/low-stock/{threshold} [get]
func (c *CatalogController) GetLowStockProducts(ctx *fiber.Ctx) error {
	threshold, err := strconv.Atoi(ctx.Params("threshold"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid threshold"})
	}

	products, err := c.catalogService.GetLowStockProducts(ctx.Context(), threshold)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(products)
}

// UpdateQuantity godoc
// @Summary      Update product quantity
// @Description  Updates the available quantity of a product (back-office operation)
// @Tags         catalog
// @Produce      json
// @Param        id        path      string  true  "Product ID"
// @Param        quantity  path      int     true  "New quantity"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]interface{}
// @Router       /api/v1/catalog/products/{id}/quantity/{quantity} [put]
func (c *CatalogController) UpdateQuantity(ctx *fiber.Ctx) error {
	quantity, err := strconv.Atoi(ctx.Params("quantity"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quantity"})
	}

	if err := c.catalogService.UpdateProductQuantity(ctx.Context(), ctx.Params("id"), quantity); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Product quantity updated successfully"})
}
