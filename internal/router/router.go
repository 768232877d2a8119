package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vistaro/checkout-gateway/internal/handler"
	"github.com/vistaro/checkout-gateway/internal/middleware"
)

// RegisterOps registers the operational endpoints: the liveness probe and
// the Prometheus scrape target. Neither requires authentication.
func RegisterOps(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// Deps bundles the handlers and middleware configuration the API routes
// need. Redis-backed middleware degrades to a pass-through when the
// client is nil.
type Deps struct {
	Checkout  *handler.CheckoutHandler
	Catalog   *handler.CatalogHandler
	Bookings  *handler.BookingHandler
	JWTSecret string
	Cache     echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
}

// RegisterAPI registers the versioned API. Everything lives behind JWT
// authentication: checkout flows are personal, and the catalog proxy is
// only reachable from the booking screens anyway. The rate limiter wraps
// the whole group; the response cache wraps only the catalog reads.
func RegisterAPI(e *echo.Echo, d Deps) {
	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(d.JWTSecret))
	if d.RateLimit != nil {
		v1.Use(d.RateLimit)
	}

	// Checkout flow lifecycle.
	v1.POST("/checkout", d.Checkout.Start)
	v1.GET("/checkout/:id", d.Checkout.Get)
	v1.POST("/checkout/:id/confirm", d.Checkout.Confirm)
	v1.DELETE("/checkout/:id", d.Checkout.Cancel)

	// Booking history.
	v1.GET("/bookings", d.Bookings.List)
	v1.DELETE("/bookings/:id", d.Bookings.Delete)

	// Catalog proxy, cached when Redis is available.
	var cached []echo.MiddlewareFunc
	if d.Cache != nil {
		cached = append(cached, d.Cache)
	}
	v1.GET("/events/:id", d.Catalog.GetEvent, cached...)
	v1.GET("/events/:id/slots", d.Catalog.GetSlots, cached...)
	v1.GET("/slots/:id/seats", d.Catalog.GetSeats, cached...)
	v1.GET("/slots/:id/foods", d.Catalog.GetFoods, cached...)
}
