package productController

import (
	"strings"
	"time"

	"learnly/apperrors"
	"learnly/config"
	"learnly/database"
	"learnly/logger"
	"learnly/middleware"
	"learnly/models"
	"learnly/models/training"
	"learnly/utils"
	"learnly/validators"
	productValidator "learnly/validators/product"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ListProducts lists active products for the storefront
func ListProducts(c *fiber.Ctx) error {
	return listProducts(c, true)
}

// AdminListProducts lists every non-deleted product
func AdminListProducts(c *fiber.Ctx) error {
	return listProducts(c, false)
}

func listProducts(c *fiber.Ctx, onlyActive bool) error {
	paging := middleware.ResolvePaging(c)
	q := models.Active(database.Database.Db.WithContext(c.UserContext()).Model(&models.Product{}))
	if onlyActive {
		q = q.Where("active = ?", true)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	var products []models.Product
	if err := q.Order("created_at desc").Offset(paging.Offset).Limit(paging.PerPage).Find(&products).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.PagedResponse(c, "Products fetched successfully!", products, total, paging)
}

// GetProduct returns an active product by slug
func GetProduct(c *fiber.Ctx) error {
	var product models.Product
	err := models.Active(database.Database.Db.WithContext(c.UserContext())).
		Where("slug = ? AND active = ?", c.Params("slug"), true).
		First(&product).Error
	if database.IsNotFound(err) {
		return middleware.ErrorResponse(c, apperrors.NotFound("Product not found!"))
	}
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Product fetched successfully!", product)
}

// AdminCreateProduct creates a product, optionally linked to a training
func AdminCreateProduct(c *fiber.Ctx) error {
	req, ok := c.Locals(productValidator.KeyProduct).(*productValidator.CreateProductRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	product := models.Product{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		TrainingID:  req.TrainingID,
		Active:      req.Active == nil || *req.Active,
	}
	if product.Slug == "" {
		product.Slug = utils.Slugify(product.Name)
	}
	if product.Currency == "" {
		product.Currency = config.AppConfig.MPCurrency
	}

	err := database.Transact(c.UserContext(), database.Database.Db, func(tx *gorm.DB) error {
		if err := checkProduct(tx, &product); err != nil {
			return err
		}
		return tx.Create(&product).Error
	})
	if database.IsDuplicateKey(err) {
		err = apperrors.Conflict("A product with this name or slug already exists!")
	}
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	logger.Log.Info("product created", "product_id", product.ID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Product created successfully!", product)
}

// AdminUpdateProduct applies the provided fields
func AdminUpdateProduct(c *fiber.Ctx) error {
	req, ok := c.Locals(productValidator.KeyProductUpdate).(*productValidator.UpdateProductRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var product models.Product
	err := database.Transact(c.UserContext(), database.Database.Db, func(tx *gorm.DB) error {
		err := models.Active(tx).First(&product, validators.ID(c, "product_id")).Error
		if database.IsNotFound(err) {
			return apperrors.NotFound("Product not found!")
		}
		if err != nil {
			return err
		}

		if req.Name != nil {
			product.Name = *req.Name
		}
		if req.Slug != nil {
			product.Slug = *req.Slug
		}
		if req.Description != nil {
			product.Description = *req.Description
		}
		if req.Price != nil {
			product.Price = *req.Price
		}
		if req.Currency != nil {
			product.Currency = *req.Currency
		}
		if req.TrainingID != nil {
			// 0 unlinks the training
			if *req.TrainingID == 0 {
				product.TrainingID = nil
			} else {
				product.TrainingID = req.TrainingID
			}
		}
		if req.Active != nil {
			product.Active = *req.Active
		}

		if err := checkProduct(tx, &product); err != nil {
			return err
		}
		return tx.Save(&product).Error
	})
	if database.IsDuplicateKey(err) {
		err = apperrors.Conflict("A product with this name or slug already exists!")
	}
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Product updated successfully!", product)
}

// AdminDeleteProduct soft deletes a product
func AdminDeleteProduct(c *fiber.Ctx) error {
	res := models.Active(database.Database.Db.WithContext(c.UserContext()).Model(&models.Product{})).
		Where("id = ?", validators.ID(c, "product_id")).
		Updates(models.Tombstone(time.Now()))
	if res.Error != nil {
		return middleware.ErrorResponse(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return middleware.ErrorResponse(c, apperrors.NotFound("Product not found!"))
	}
	return middleware.NoContent(c)
}

// checkProduct enforces unique name and slug among live products and that a
// linked training exists.
func checkProduct(tx *gorm.DB, p *models.Product) error {
	var count int64
	if err := models.Active(tx.Model(&models.Product{})).
		Where("(LOWER(name) = LOWER(?) OR slug = ?) AND id <> ?", p.Name, p.Slug, p.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperrors.Conflict("A product with this name or slug already exists!")
	}

	if p.TrainingID != nil {
		var n int64
		if err := models.Active(tx.Model(&training.Training{})).Where("id = ?", *p.TrainingID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return apperrors.Field("training_id", "Training not found!")
		}
	}
	return nil
}
