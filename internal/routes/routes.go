package routes

import (
	"github.com/gin-gonic/gin"

	"petstore/internal/handlers"
	"petstore/internal/metrics"
	"petstore/internal/middleware"
)

// Tokens is the token surface shared by the auth middleware and the session
// handlers.
type Tokens interface {
	middleware.AccessTokenParser
	handlers.TokenIssuer
}

// Deps is everything the HTTP surface needs.
type Deps struct {
	Users         handlers.UserStore
	Carts         handlers.CartStore
	Addresses     handlers.AddressStore
	Orders        handlers.OrderStore
	Categories    handlers.CategoryStore
	SubCategories handlers.SubCategoryStore
	Products      handlers.ProductStore
	DB            handlers.Pinger

	Tokens   Tokens
	Notifier handlers.Notifier
	Payments handlers.PaymentGateway
	Invoices handlers.InvoiceRenderer
	Uploads  *handlers.UploadStorage

	Cookies     handlers.CookieOptions
	FrontendURL string
}

func Register(r *gin.Engine, d Deps) {
	auth := middleware.Auth(d.Tokens)
	admin := middleware.RequireAdmin(d.Users)

	r.GET("/health", handlers.Health(d.DB))
	r.GET("/metrics", metrics.Handler())
	if d.Uploads != nil {
		r.Static("/uploads", d.Uploads.Dir())
	}

	api := r.Group("/api")

	user := api.Group("/user")
	{
		user.POST("/register", handlers.Register(d.Users, d.Notifier, d.FrontendURL))
		user.POST("/verify-email", handlers.VerifyEmail(d.Users))
		user.POST("/login", handlers.Login(d.Users, d.Tokens, d.Cookies))
		user.GET("/logout", auth, handlers.Logout(d.Users, d.Cookies))
		user.PUT("/update-user", auth, handlers.UpdateUser(d.Users))
		user.PUT("/forgot-password", handlers.ForgotPassword(d.Users, d.Notifier))
		user.PUT("/verify-forgot-password-otp", handlers.VerifyForgotPasswordOTP(d.Users))
		user.PUT("/reset-password", handlers.ResetPassword(d.Users))
		user.POST("/refresh-token", handlers.RefreshToken(d.Users, d.Tokens, d.Cookies))
		user.GET("/user-details", auth, handlers.UserDetails(d.Users))
	}

	category := api.Group("/category")
	{
		category.POST("/add-category", auth, admin, handlers.CreateCategory(d.Categories))
		category.GET("/get", handlers.GetCategories(d.Categories))
		category.PUT("/update", auth, admin, handlers.UpdateCategory(d.Categories))
		category.DELETE("/delete", auth, admin, handlers.DeleteCategory(d.Categories, d.SubCategories, d.Products))
	}

	subCategory := api.Group("/subcategory")
	{
		subCategory.POST("/create", auth, admin, handlers.CreateSubCategory(d.SubCategories))
		subCategory.POST("/get", handlers.GetSubCategories(d.SubCategories))
		subCategory.PUT("/update", auth, admin, handlers.UpdateSubCategory(d.SubCategories))
		subCategory.DELETE("/delete", auth, admin, handlers.DeleteSubCategory(d.SubCategories))
	}

	product := api.Group("/product")
	{
		product.POST("/create", auth, admin, handlers.CreateProduct(d.Products))
		product.POST("/get", handlers.GetProducts(d.Products))
		product.POST("/get-product-by-category", handlers.GetProductsByCategory(d.Products))
		product.POST("/get-product-by-category-and-subcategory", handlers.GetProductsByCategoryAndSubCategory(d.Products))
		product.POST("/get-product-details", handlers.GetProductDetails(d.Products))
		product.PUT("/update-product-details", auth, admin, handlers.UpdateProduct(d.Products))
		product.DELETE("/delete-product", auth, admin, handlers.DeleteProduct(d.Products, d.Uploads))
		product.POST("/search-product", handlers.SearchProducts(d.Products))
	}

	api.POST("/file/upload", auth, admin, handlers.UploadImage(d.Uploads))

	cart := api.Group("/cart", auth)
	{
		cart.POST("/create", handlers.AddToCart(d.Carts, d.Users))
		cart.GET("/get", handlers.GetCart(d.Carts))
		cart.PUT("/update-qty", handlers.UpdateCartQty(d.Carts))
		cart.DELETE("/delete-cart-item", handlers.DeleteCartItem(d.Carts, d.Users))
	}

	address := api.Group("/address", auth)
	{
		address.POST("/create", handlers.CreateAddress(d.Addresses, d.Users))
		address.GET("/get", handlers.GetAddresses(d.Addresses))
		address.PUT("/update", handlers.UpdateAddress(d.Addresses))
		address.DELETE("/disable", handlers.DisableAddress(d.Addresses))
	}

	order := api.Group("/order")
	{
		// Stripe calls the webhook directly; the signature is the only auth.
		order.POST("/webhook", handlers.PaymentWebhook(d.Payments, d.Orders, d.Carts, d.Users))

		order.POST("/cash-on-delivery", auth, handlers.CashOnDeliveryOrder(d.Orders, d.Carts, d.Users))
		order.POST("/checkout", auth, handlers.Checkout(d.Payments, d.Users))
		order.GET("/order-list", auth, handlers.GetOrders(d.Orders, d.Addresses, d.Users))
		order.PUT("/status", auth, admin, handlers.UpdateOrderStatus(d.Orders))
		order.GET("/invoice/:orderId", auth, handlers.OrderInvoice(d.Orders, d.Addresses, d.Users, d.Invoices))
	}
}
