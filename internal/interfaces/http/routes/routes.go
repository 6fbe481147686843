// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/mobilestore-api/internal/interfaces/http/handlers"
	"github.com/your-org/mobilestore-api/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the API mounts
type Handlers struct {
	Auth         *handlers.AuthHandler
	Product      *handlers.ProductHandler
	Category     *handlers.CategoryHandler
	Brand        *handlers.BrandHandler
	Review       *handlers.ReviewHandler
	Cart         *handlers.CartHandler
	Order        *handlers.OrderHandler
	Invoice      *handlers.InvoiceHandler
	AdminProduct *handlers.AdminProductHandler
	AdminOrder   *handlers.AdminOrderHandler
	AdminUser    *handlers.AdminUserHandler
}

// SetupRoutes mounts the whole API on rg. requireAuth rejects requests
// without a valid bearer token.
func SetupRoutes(rg *gin.RouterGroup, h *Handlers, requireAuth gin.HandlerFunc) {
	SetupAuthRoutes(rg, h, requireAuth)
	SetupCatalogRoutes(rg, h)
	SetupCartRoutes(rg, h, requireAuth)
	SetupOrderRoutes(rg, h, requireAuth)
	SetupAdminRoutes(rg, h, requireAuth)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, h *Handlers, requireAuth gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)

		protected := auth.Group("")
		protected.Use(requireAuth)
		{
			protected.POST("/logout", h.Auth.Logout)
			protected.GET("/me", h.Auth.Me)
		}
	}
}

// SetupCatalogRoutes sets up the public product, category and brand routes
func SetupCatalogRoutes(rg *gin.RouterGroup, h *Handlers) {
	products := rg.Group("/products")
	{
		products.GET("", h.Product.GetProducts)
		products.GET("/featured", h.Product.GetFeatured)
		products.GET("/ios", h.Product.GetIOS)
		products.GET("/android", h.Product.GetAndroid)
		products.GET("/search", h.Product.Search)
		products.GET("/:id", h.Product.GetProduct)
		products.GET("/:id/reviews", h.Review.GetReviews)
		products.POST("/:id/reviews", h.Review.CreateReview)
	}

	rg.GET("/categories", h.Category.GetCategories)
	rg.GET("/categories/:id", h.Category.GetCategory)

	rg.GET("/brands", h.Brand.GetBrands)
	rg.GET("/brands/:id", h.Brand.GetBrand)
}

// SetupCartRoutes sets up shopping cart routes
func SetupCartRoutes(rg *gin.RouterGroup, h *Handlers, requireAuth gin.HandlerFunc) {
	cart := rg.Group("/cart")
	cart.Use(requireAuth)
	{
		cart.GET("", h.Cart.GetCart)
		cart.POST("/add", h.Cart.AddItem)
		cart.PUT("/update", h.Cart.UpdateItem)
		cart.DELETE("/remove/:itemId", h.Cart.RemoveItem)
		cart.POST("/clear", h.Cart.ClearCart)
	}
}

// SetupOrderRoutes sets up order routes
func SetupOrderRoutes(rg *gin.RouterGroup, h *Handlers, requireAuth gin.HandlerFunc) {
	orders := rg.Group("/orders")
	orders.Use(requireAuth)
	{
		orders.POST("", h.Order.PlaceOrder)
		orders.GET("", h.Order.GetOrders)
		orders.GET("/:id", h.Order.GetOrder)
		orders.GET("/:id/invoice", h.Invoice.GenerateInvoice)
	}
}

// SetupAdminRoutes sets up admin routes
func SetupAdminRoutes(rg *gin.RouterGroup, h *Handlers, requireAuth gin.HandlerFunc) {
	admin := rg.Group("/admin")
	admin.Use(requireAuth, middleware.AdminMiddleware())
	{
		products := admin.Group("/products")
		{
			products.GET("", h.AdminProduct.GetProducts)
			products.GET("/export", h.AdminProduct.ExportProducts)
			products.POST("", h.AdminProduct.CreateProduct)
			products.PUT("/:id", h.AdminProduct.UpdateProduct)
			products.DELETE("/:id", h.AdminProduct.DeleteProduct)
		}

		categories := admin.Group("/categories")
		{
			categories.GET("", h.Category.GetCategories)
			categories.GET("/:id", h.Category.GetCategory)
			categories.POST("", h.Category.CreateCategory)
			categories.PUT("/:id", h.Category.UpdateCategory)
			categories.DELETE("/:id", h.Category.DeleteCategory)
		}

		brands := admin.Group("/brands")
		{
			brands.GET("", h.Brand.GetBrands)
			brands.GET("/:id", h.Brand.GetBrand)
			brands.POST("", h.Brand.CreateBrand)
			brands.PUT("/:id", h.Brand.UpdateBrand)
			brands.DELETE("/:id", h.Brand.DeleteBrand)
		}

		orders := admin.Group("/orders")
		{
			orders.GET("", h.AdminOrder.GetOrders)
			orders.GET("/:id", h.AdminOrder.GetOrder)
			orders.PUT("/:id", h.AdminOrder.UpdateOrder)
			orders.DELETE("/:id", h.AdminOrder.DeleteOrder)
		}

		users := admin.Group("/users")
		{
			users.GET("", h.AdminUser.GetUsers)
			users.GET("/:id", h.AdminUser.GetUser)
			users.PUT("/:id", h.AdminUser.UpdateUser)
			users.DELETE("/:id", h.AdminUser.DeleteUser)
		}
	}
}
