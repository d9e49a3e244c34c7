package handlers

import (
	"github.com/gin-gonic/gin"
)

/*
GET /api/category/get
*/
func GetCategories(categories CategoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/category/get"
		defer handlePanic(c, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		list, err := categories.List(ctx)
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		respondOK(c, "Lista de categorías", list)
	}
}

/*
POST /api/subcategory/get
- categories are expanded
*/
func GetSubCategories(subCategories SubCategoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/subcategory/get"
		defer handlePanic(c, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		list, err := subCategories.List(ctx)
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		respondOK(c, "Información de subcategorías", list)
	}
}
