package stock

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stefanologica/firebear-importexport/api"
	"github.com/stefanologica/firebear-importexport/app"
	productService "github.com/stefanologica/firebear-importexport/service/product"
)

func init() {
	api.RegisterModule(RegisterStockRoutes)
}

type sourceItemsRequest struct {
	Items map[string]productService.StockRow `json:"items" validate:"required,min=1,dive,keys,required,max=64,endkeys"`
}

func RegisterStockRoutes(apiGroup *echo.Group, a *app.App) {
	g := apiGroup.Group("/stock")

	// POST /api/stock/source-items – mirror imported stock into the default source
	g.POST("/source-items", func(c echo.Context) error {
		start := time.Now()

		var body sourceItemsRequest
		if err := api.BindAndValidate(c, &body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}

		saved, err := a.SourceItems.AfterImport(c.Request().Context(), body.Items)
		duration := time.Since(start).Milliseconds()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error(), "request_duration_ms": duration})
		}

		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
		return c.JSON(http.StatusOK, echo.Map{
			"saved":               saved,
			"source_code":         productService.DefaultSourceCode,
			"request_duration_ms": duration,
		})
	})

	// GET /api/stock/source-items/:sku – source items and total quantity of a SKU
	g.GET("/source-items/:sku", func(c echo.Context) error {
		if a.Inventory == nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "inventory is not available"})
		}
		ctx := c.Request().Context()
		sku := c.Param("sku")

		items, err := a.Inventory.GetAllBySKU(ctx, sku)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		if len(items) == 0 {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no source items for " + sku})
		}
		total, err := a.Inventory.GetTotalQuantityBySKU(ctx, sku)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"sku": sku, "items": items, "total_quantity": total})
	})
}
