package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"petstore/internal/models"
)

type categoryRequest struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type subCategoryRequest struct {
	ID       string   `json:"_id"`
	Name     string   `json:"name"`
	Image    string   `json:"image"`
	Category []string `json:"category"`
}

/*
POST /api/category/add-category
- name and image are required
*/
func CreateCategory(categories CategoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/category/add-category"
		defer handlePanic(c, route)

		var req categoryRequest
		_ = c.ShouldBindJSON(&req)

		name := strings.TrimSpace(req.Name)
		image := strings.TrimSpace(req.Image)
		if name == "" || image == "" {
			respondWithError(c, http.StatusBadRequest, route, "Ingrese los parametros requeridos.")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		category := &models.Category{Name: name, Image: image}
		if err := categories.Insert(ctx, category); err != nil {
			respondInternal(c, route, err)
			return
		}

		respondOK(c, "Categoría registrada exitosamente", category)
	}
}

/*
PUT /api/category/update
- empty name or image keeps the stored value
*/
func UpdateCategory(categories CategoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/category/update"
		defer handlePanic(c, route)

		var req categoryRequest
		_ = c.ShouldBindJSON(&req)

		id, ok := parseObjectID(req.ID)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "Provea el _id de la categoría")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		res, err := categories.Update(ctx, id, strings.TrimSpace(req.Name), strings.TrimSpace(req.Image))
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		respondOK(c, "Categoría actualizada exitosamente", res)
	}
}

/*
DELETE /api/category/delete
- refused while a subcategory or product still points at the category
*/
func DeleteCategory(categories CategoryStore, subCategories SubCategoryStore, products ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/category/delete"
		defer handlePanic(c, route)

		var req categoryRequest
		_ = c.ShouldBindJSON(&req)

		id, ok := parseObjectID(req.ID)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "Provea el _id de la categoría")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		subCount, err := subCategories.CountByCategory(ctx, id)
		if err != nil {
			respondInternal(c, route, err)
			return
		}
		productCount, err := products.CountByCategory(ctx, id)
		if err != nil {
			respondInternal(c, route, err)
			return
		}
		if subCount > 0 || productCount > 0 {
			respondWithError(c, http.StatusBadRequest, route, "La categoría esta siendo utilizada, no se puede eliminar")
			return
		}

		deleted, err := categories.Delete(ctx, id)
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		respondOK(c, "Categoría eliminada correctamente", gin.H{"deletedCount": deleted})
	}
}

/*
POST /api/subcategory/create
- name, image and at least one category are required
*/
func CreateSubCategory(subCategories SubCategoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/subcategory/create"
		defer handlePanic(c, route)

		var req subCategoryRequest
		_ = c.ShouldBindJSON(&req)

		name := strings.TrimSpace(req.Name)
		image := strings.TrimSpace(req.Image)
		categoryIDs, ok := parseObjectIDs(req.Category)
		if name == "" || image == "" || !ok || len(categoryIDs) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "Ingrese nombre, imagen y categorias")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		sub := &models.SubCategory{Name: name, Image: image, Category: categoryIDs}
		if err := subCategories.Insert(ctx, sub); err != nil {
			respondInternal(c, route, err)
			return
		}

		respondOK(c, "Subcategoría regitrada exitosamente", sub)
	}
}

/*
PUT /api/subcategory/update
*/
func UpdateSubCategory(subCategories SubCategoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/subcategory/update"
		defer handlePanic(c, route)

		var req subCategoryRequest
		_ = c.ShouldBindJSON(&req)

		id, ok := parseObjectID(req.ID)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "Revisa tu _id")
			return
		}

		name := strings.TrimSpace(req.Name)
		image := strings.TrimSpace(req.Image)
		categoryIDs, ok := parseObjectIDs(req.Category)
		if name == "" || image == "" || !ok || len(categoryIDs) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "Ingrese nombre, imagen y categoria")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		if _, err := subCategories.FindByID(ctx, id); isNotFound(err) {
			respondWithError(c, http.StatusBadRequest, route, "Revisa tu _id")
			return
		} else if err != nil {
			respondInternal(c, route, err)
			return
		}

		res, err := subCategories.Update(ctx, id, name, image, categoryIDs)
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		respondOK(c, "Subcategoría actualizada exitosamente", res)
	}
}

/*
DELETE /api/subcategory/delete
- hard delete
*/
func DeleteSubCategory(subCategories SubCategoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/subcategory/delete"
		defer handlePanic(c, route)

		var req subCategoryRequest
		_ = c.ShouldBindJSON(&req)

		id, ok := parseObjectID(req.ID)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "Revisa tu _id")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		deleted, err := subCategories.Delete(ctx, id)
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		respondOK(c, "Subcategoría eliminada exitosamente", gin.H{"deletedCount": deleted})
	}
}
