package main

import (
	"marketplace-platform/internal/httpapi"
	"marketplace-platform/internal/rbac"

	"github.com/gin-gonic/gin"
)

// publicPaths are exempt from token validation. Everything else goes
// through the bearer decode, and protected groups below enforce the
// actual access rules.
var publicPaths = []string{
	"/healthz",
	"/auth/login",
	"/auth/register",
	"/products",
}

// registerRoutes wires HTTP routes to handlers. Keep this file free of
// business logic; handlers delegate to internal services.
func registerRoutes(r *gin.Engine, h httpapi.Handlers) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public: token issuance and the storefront listing.
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
	r.GET("/products", h.ListPublicProducts)

	// Protected API. The authenticate middleware populated (or
	// withheld) the principal; these gates turn its absence into 401.
	v1 := r.Group("/v1")
	v1.Use(rbac.RequireAuthenticated())
	{
		v1.GET("/me", h.Me)

		products := v1.Group("/products")
		{
			products.GET("", h.ListProducts)
			products.GET("/search", h.SearchProducts)
			products.GET("/:product_id", h.GetProduct)

			// Seller surface; ADMIN passes every gate.
			products.GET("/mine", rbac.RequireAnyRole(rbac.RoleSeller), h.ListMyProducts)
			products.POST("", rbac.RequireAnyRole(rbac.RoleSeller), h.CreateProduct)
			products.PUT("/:product_id", rbac.RequireAnyRole(rbac.RoleSeller), h.UpdateProduct)
			products.PATCH("/:product_id/image", rbac.RequireAnyRole(rbac.RoleSeller), h.UpdateProductImage)
			products.DELETE("/:product_id", rbac.RequireAnyRole(rbac.RoleSeller), h.DeleteProduct)
		}
	}
}
