package http

import (
	"errors"
	"net/http"
	"time"

	"order-analytics/internal/analytics"
	"order-analytics/internal/domain"
	"order-analytics/internal/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *services.OrderService
	clock   domain.Clock
}

func NewHandler(u *services.OrderService, clock domain.Clock) *Handler {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Handler{service: u, clock: clock}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	r.GET("/orders", h.ListOrders)
	r.GET("/orders/at-risk", h.GetAtRiskOrders)
	r.GET("/orders/:id", h.GetOrder)
	r.GET("/orders/:id/history", h.GetStatusHistory)
	r.PATCH("/orders/:id/status", h.UpdateOrderStatus)

	r.GET("/regions/:region/orders", h.GetOrdersByRegion)
	r.GET("/statuses/:status/orders", h.GetOrdersByStatus)

	r.GET("/metrics", h.GetSummaryMetrics)
	r.GET("/metrics/filtered", h.GetFilteredMetrics)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ListOrders(c *gin.Context) {
	filters, window, ok := h.bindFilters(c)
	if !ok {
		return
	}

	orders, err := h.service.FilterOrders(c.Request.Context(), filters, window)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) GetStatusHistory(c *gin.Context) {
	history, err := h.service.StatusHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.service.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) GetAtRiskOrders(c *gin.Context) {
	var now *time.Time
	if raw := c.Query("now"); raw != "" {
		t, err := parseTimestamp(raw)
		if err != nil {
			h.fail(c, err)
			return
		}
		now = &t
	}

	orders, err := h.service.GetAtRiskOrders(c.Request.Context(), now)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrdersByRegion(c *gin.Context) {
	orders, err := h.service.GetOrdersByRegion(c.Request.Context(), domain.Region(c.Param("region")))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrdersByStatus(c *gin.Context) {
	orders, err := h.service.GetOrdersByStatus(c.Request.Context(), domain.OrderStatus(c.Param("status")))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetSummaryMetrics(c *gin.Context) {
	metrics, err := h.service.GetSummaryMetrics(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func (h *Handler) GetFilteredMetrics(c *gin.Context) {
	filters, window, ok := h.bindFilters(c)
	if !ok {
		return
	}

	summary, err := h.service.SummarizeFiltered(c.Request.Context(), filters, window)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) bindFilters(c *gin.Context) (analytics.FilterState, *analytics.DateWindow, bool) {
	var q OrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return analytics.FilterState{}, nil, false
	}

	window, err := q.Window(h.clock.Now())
	if err != nil {
		h.fail(c, err)
		return analytics.FilterState{}, nil, false
	}
	return q.FilterState, window, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, analytics.ErrMalformedFilter),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, errInvalidTimestamp):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrJournalNotConfigured):
		status = http.StatusServiceUnavailable
	}

	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}
