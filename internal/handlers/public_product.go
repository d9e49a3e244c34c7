package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"petstore/internal/models"
)

const productsByCategoryLimit = 15

type productListRequest struct {
	Page   int64  `json:"page"`
	Limit  int64  `json:"limit"`
	Search string `json:"search"`
}

type productsByCategoryRequest struct {
	ID string `json:"id"`
}

type productsBySubCategoryRequest struct {
	CategoryID    string `json:"categoryId"`
	SubCategoryID string `json:"subCategoryId"`
	Page          int64  `json:"page"`
	Limit         int64  `json:"limit"`
}

type productDetailsRequest struct {
	ProductID string `json:"productId"`
}

func markStock(list []models.Product) []models.Product {
	if list == nil {
		return []models.Product{}
	}
	for i := range list {
		list[i].InStock = list[i].Stock > 0
	}
	return list
}

func respondProductPage(c *gin.Context, message string, list []models.Product, total, limit int64) {
	c.JSON(http.StatusOK, gin.H{
		"message":     message,
		"error":       false,
		"success":     true,
		"totalCount":  total,
		"totalNoPage": totalPages(total, limit),
		"data":        markStock(list),
	})
}

/*
POST /api/product/get
- page, limit and an optional text search
*/
func GetProducts(products ProductStore) gin.HandlerFunc {
	return listProducts(products, "POST /api/product/get", "Listado de productos")
}

/*
POST /api/product/search-product
*/
func SearchProducts(products ProductStore) gin.HandlerFunc {
	return listProducts(products, "POST /api/product/search-product", "Resultado de búsqueda")
}

func listProducts(products ProductStore, route, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, route)

		var req productListRequest
		_ = c.ShouldBindJSON(&req)

		page, limit := normalizePagination(req.Page, req.Limit)

		ctx, cancel := storeContext(c)
		defer cancel()

		list, total, err := products.List(ctx, models.ProductQuery{
			Search: strings.TrimSpace(req.Search),
			Page:   page,
			Limit:  limit,
		})
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		respondProductPage(c, message, list, total, limit)
	}
}

/*
POST /api/product/get-product-by-category
*/
func GetProductsByCategory(products ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/product/get-product-by-category"
		defer handlePanic(c, route)

		var req productsByCategoryRequest
		_ = c.ShouldBindJSON(&req)

		id, ok := parseObjectID(req.ID)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "Provea el id de la categoría")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		list, err := products.ListByCategory(ctx, id, productsByCategoryLimit)
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		respondOK(c, "Lista de productos por categoría", markStock(list))
	}
}

/*
POST /api/product/get-product-by-category-and-subcategory
*/
func GetProductsByCategoryAndSubCategory(products ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/product/get-product-by-category-and-subcategory"
		defer handlePanic(c, route)

		var req productsBySubCategoryRequest
		_ = c.ShouldBindJSON(&req)

		categoryID, okCat := parseObjectID(req.CategoryID)
		subCategoryID, okSub := parseObjectID(req.SubCategoryID)
		if !okCat || !okSub {
			respondWithError(c, http.StatusBadRequest, route, "Brinde una categoría y subcategoría")
			return
		}

		page, limit := normalizePagination(req.Page, req.Limit)

		ctx, cancel := storeContext(c)
		defer cancel()

		list, total, err := products.List(ctx, models.ProductQuery{
			CategoryID:    &categoryID,
			SubCategoryID: &subCategoryID,
			Page:          page,
			Limit:         limit,
		})
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		respondProductPage(c, "Lista de productos", list, total, limit)
	}
}

/*
POST /api/product/get-product-details
*/
func GetProductDetails(products ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/product/get-product-details"
		defer handlePanic(c, route)

		var req productDetailsRequest
		_ = c.ShouldBindJSON(&req)

		id, ok := parseObjectID(req.ProductID)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "Provea el id del producto")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		product, err := products.FindByID(ctx, id)
		if isNotFound(err) {
			respondWithError(c, http.StatusNotFound, route, "Producto no encontrado")
			return
		}
		if err != nil {
			respondInternal(c, route, err)
			return
		}
		product.InStock = product.Stock > 0

		respondOK(c, "product details", product)
	}
}
