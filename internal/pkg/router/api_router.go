package router

import (
	"github.com/castboard/castboard/app/controllers"
	"github.com/castboard/castboard/internal/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")

	// Public: signup funnel
	v1.Get("/pricing", controllers.HandlePricingQuote)
	v1.Post("/checkout", controllers.HandleCheckoutCreate)
	v1.Get("/checkout/verify/:session_id", controllers.HandleCheckoutVerify)

	// Public: session login
	v1.Post("/auth/login", controllers.HandleLogin)
	v1.Post("/auth/logout", controllers.HandleLogout)

	// Everything below requires a logged-in session
	auth := v1.Group("/", middleware.RequireAPISessionAuth)

	auth.Post("/auth/password", controllers.HandleChangePassword)
	auth.Get("/me", controllers.HandleMe)

	auth.Get("/profile", controllers.HandleProfileGet)
	auth.Put("/profile", controllers.HandleProfileUpdate)

	auth.Get("/galleries", controllers.HandleGalleryList)
	auth.Post("/galleries", controllers.HandleGalleryCreate)
	auth.Get("/galleries/:id", controllers.HandleGalleryGet)
	auth.Put("/galleries/:id", controllers.HandleGalleryUpdate)
	auth.Delete("/galleries/:id", controllers.HandleGalleryDelete)
	auth.Post("/galleries/:id/images", controllers.HandleGalleryAddImage)
	auth.Delete("/galleries/:id/images/:image_id", controllers.HandleGalleryRemoveImage)

	auth.Get("/bookings", controllers.HandleBookingList)
	auth.Post("/bookings", controllers.HandleBookingCreate)
	auth.Put("/bookings/:id", controllers.HandleBookingUpdate)
	auth.Delete("/bookings/:id", controllers.HandleBookingDelete)

	auth.Get("/notifications", controllers.HandleNotificationList)
	auth.Post("/notifications/:id/read", controllers.HandleNotificationMarkRead)

	auth.Get("/website", controllers.HandleWebsiteGet)
	auth.Put("/website", controllers.HandleWebsiteSave)

	auth.Get("/billing", controllers.HandleBillingOverview)
	auth.Post("/billing/cancel", controllers.HandleBillingCancel)
	auth.Post("/billing/reactivate", controllers.HandleBillingReactivate)

	auth.Get("/stats", middleware.RequireAdmin, controllers.HandleStats)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
