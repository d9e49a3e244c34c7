package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"petstore/internal/models"
)

type createProductRequest struct {
	Name        string            `json:"name" binding:"required"`
	Image       models.StringList `json:"image" binding:"required,min=1"`
	Category    []string          `json:"category" binding:"required,min=1"`
	SubCategory []string          `json:"subCategory" binding:"required,min=1"`
	Unit        string            `json:"unit" binding:"required"`
	Stock       int               `json:"stock" binding:"gte=0"`
	Price       float64           `json:"price" binding:"required,gt=0"`
	Description string            `json:"description" binding:"required"`
}

type updateProductRequest struct {
	ID          string            `json:"_id"`
	Name        *string           `json:"name"`
	Image       models.StringList `json:"image"`
	Category    []string          `json:"category"`
	SubCategory []string          `json:"subCategory"`
	Unit        *string           `json:"unit"`
	Stock       *int              `json:"stock" binding:"omitempty,gte=0"`
	Price       *float64          `json:"price" binding:"omitempty,gt=0"`
	Description *string           `json:"description"`
	Status      *bool             `json:"status"`
}

type productIDRequest struct {
	ID string `json:"_id"`
}

/*
POST /api/product/create
*/
func CreateProduct(products ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/product/create"
		defer handlePanic(c, route)

		var req createProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, "Ingrese los campos requeridos", err)
			return
		}

		categoryIDs, okCat := parseObjectIDs(req.Category)
		subCategoryIDs, okSub := parseObjectIDs(req.SubCategory)
		if !okCat || !okSub {
			respondWithError(c, http.StatusBadRequest, route, "Ingrese los campos requeridos")
			return
		}

		product := &models.Product{
			Name:        strings.TrimSpace(req.Name),
			Image:       req.Image,
			Category:    categoryIDs,
			SubCategory: subCategoryIDs,
			Unit:        strings.TrimSpace(req.Unit),
			Stock:       req.Stock,
			Price:       req.Price,
			Description: strings.TrimSpace(req.Description),
			Status:      true,
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		if err := products.Insert(ctx, product); err != nil {
			respondInternal(c, route, err)
			return
		}
		product.InStock = product.Stock > 0

		log.Info().Str("route", route).Str("productId", product.ID.Hex()).Msg("product created")
		respondOK(c, "Producto registrado exitosamente", product)
	}
}

/*
PUT /api/product/update-product-details
- only the fields present in the body are written
*/
func UpdateProduct(products ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/product/update-product-details"
		defer handlePanic(c, route)

		var req updateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, "Datos de producto invalidos", err)
			return
		}

		id, ok := parseObjectID(req.ID)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "Provea el _id del producto")
			return
		}

		fields := models.ProductFields{
			Name:        trimmedPtr(req.Name),
			Image:       req.Image,
			Unit:        trimmedPtr(req.Unit),
			Stock:       req.Stock,
			Price:       req.Price,
			Description: trimmedPtr(req.Description),
			Status:      req.Status,
		}
		if req.Category != nil {
			if fields.Category, ok = parseObjectIDs(req.Category); !ok {
				respondWithError(c, http.StatusBadRequest, route, "Datos de producto invalidos")
				return
			}
		}
		if req.SubCategory != nil {
			if fields.SubCategory, ok = parseObjectIDs(req.SubCategory); !ok {
				respondWithError(c, http.StatusBadRequest, route, "Datos de producto invalidos")
				return
			}
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		res, err := products.Update(ctx, id, fields)
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		respondOK(c, "Producto actualizado exitosamente", res)
	}
}

/*
DELETE /api/product/delete-product
- removes locally stored images referenced by the product
*/
func DeleteProduct(products ProductStore, storage *UploadStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/product/delete-product"
		defer handlePanic(c, route)

		var req productIDRequest
		_ = c.ShouldBindJSON(&req)

		id, ok := parseObjectID(req.ID)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "Provea el _id del producto")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		product, err := products.FindByID(ctx, id)
		if isNotFound(err) {
			respondOK(c, "Producto eliminado exitosamente", gin.H{"deletedCount": 0})
			return
		}
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		deleted, err := products.Delete(ctx, id)
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		if storage != nil {
			for _, url := range product.Image {
				if err := storage.Delete(url); err != nil {
					log.Warn().Err(err).Str("route", route).Str("url", url).Msg("image cleanup failed")
				}
			}
		}

		respondOK(c, "Producto eliminado exitosamente", gin.H{"deletedCount": deleted})
	}
}

func trimmedPtr(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	return &s
}
