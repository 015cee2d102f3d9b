package productRoutes

import (
	productController "learnly/controllers/product"
	productValidator "learnly/validators/product"

	"github.com/gofiber/fiber/v2"
)

// SetupProductRoutes sets up the public storefront routes
func SetupProductRoutes(app fiber.Router) {
	products := app.Group("/products")
	products.Get("/", productController.ListProducts)
	products.Get("/:slug", productController.GetProduct)
}

// SetupAdminProductRoutes sets up product management on the admin group
func SetupAdminProductRoutes(admin fiber.Router) {
	products := admin.Group("/products")
	products.Get("/", productController.AdminListProducts)
	products.Post("/", productValidator.CreateProduct(), productController.AdminCreateProduct)
	products.Put("/:product_id", productValidator.ProductID(), productValidator.UpdateProduct(), productController.AdminUpdateProduct)
	products.Delete("/:product_id", productValidator.ProductID(), productController.AdminDeleteProduct)
}
