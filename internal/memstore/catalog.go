package memstore

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"petstore/internal/models"
)

type categoryRow struct{ models.Category }

type subCategoryRow struct{ models.SubCategory }

type productRow struct{ models.Product }

type Categories struct{ db *DB }

func (s *Categories) Insert(_ context.Context, category *models.Category) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := s.db.now()
	category.ID = newID(category.ID)
	category.CreatedAt = now
	category.UpdatedAt = now
	s.db.categories = append(s.db.categories, &categoryRow{Category: *category})
	return nil
}

func (s *Categories) List(_ context.Context) ([]models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	out := []models.Category{}
	for i := len(s.db.categories) - 1; i >= 0; i-- {
		out = append(out, s.db.categories[i].Category)
	}
	return out, nil
}

func (s *Categories) Update(_ context.Context, id primitive.ObjectID, name, image string) (models.UpdateResult, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, row := range s.db.categories {
		if row.ID != id {
			continue
		}
		if name != "" {
			row.Name = name
		}
		if image != "" {
			row.Image = image
		}
		row.UpdatedAt = s.db.now()
		return result(true), nil
	}
	return result(false), nil
}

func (s *Categories) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for i, row := range s.db.categories {
		if row.ID == id {
			s.db.categories = append(s.db.categories[:i], s.db.categories[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type SubCategories struct{ db *DB }

func (s *SubCategories) Insert(_ context.Context, sub *models.SubCategory) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := s.db.now()
	sub.ID = newID(sub.ID)
	sub.CreatedAt = now
	sub.UpdatedAt = now
	row := *sub
	row.Category = cloneIDs(sub.Category)
	s.db.subCategories = append(s.db.subCategories, &subCategoryRow{SubCategory: row})
	return nil
}

// List expands category ids; ids with no matching category are dropped.
func (s *SubCategories) List(_ context.Context) ([]models.SubCategoryView, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	out := []models.SubCategoryView{}
	for i := len(s.db.subCategories) - 1; i >= 0; i-- {
		row := s.db.subCategories[i]
		view := models.SubCategoryView{
			ID:        row.ID,
			Name:      row.Name,
			Image:     row.Image,
			Category:  []models.Category{},
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		}
		for _, c := range s.db.categories {
			if containsID(row.Category, c.ID) {
				view.Category = append(view.Category, c.Category)
			}
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *SubCategories) FindByID(_ context.Context, id primitive.ObjectID) (*models.SubCategory, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, row := range s.db.subCategories {
		if row.ID == id {
			sub := row.SubCategory
			sub.Category = cloneIDs(row.Category)
			return &sub, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *SubCategories) Update(_ context.Context, id primitive.ObjectID, name, image string, categories []primitive.ObjectID) (models.UpdateResult, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, row := range s.db.subCategories {
		if row.ID != id {
			continue
		}
		if name != "" {
			row.Name = name
		}
		if image != "" {
			row.Image = image
		}
		if categories != nil {
			row.Category = cloneIDs(categories)
		}
		row.UpdatedAt = s.db.now()
		return result(true), nil
	}
	return result(false), nil
}

func (s *SubCategories) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for i, row := range s.db.subCategories {
		if row.ID == id {
			s.db.subCategories = append(s.db.subCategories[:i], s.db.subCategories[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *SubCategories) CountByCategory(_ context.Context, categoryID primitive.ObjectID) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var n int64
	for _, row := range s.db.subCategories {
		if containsID(row.Category, categoryID) {
			n++
		}
	}
	return n, nil
}

type Products struct{ db *DB }

func (s *Products) Insert(_ context.Context, product *models.Product) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := s.db.now()
	product.ID = newID(product.ID)
	if product.Category == nil {
		product.Category = []primitive.ObjectID{}
	}
	if product.SubCategory == nil {
		product.SubCategory = []primitive.ObjectID{}
	}
	product.CreatedAt = now
	product.UpdatedAt = now
	s.db.products = append(s.db.products, &productRow{Product: cloneProduct(*product)})
	return nil
}

// List matches Search as a case-insensitive substring of name or description,
// standing in for the text index.
func (s *Products) List(_ context.Context, query models.ProductQuery) ([]models.Product, int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(query.Search))
	matched := []models.Product{}
	for i := len(s.db.products) - 1; i >= 0; i-- {
		p := s.db.products[i].Product
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if query.CategoryID != nil && !containsID(p.Category, *query.CategoryID) {
			continue
		}
		if query.SubCategoryID != nil && !containsID(p.SubCategory, *query.SubCategoryID) {
			continue
		}
		matched = append(matched, cloneProduct(p))
	}

	total := int64(len(matched))
	page, limit := query.Page, query.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		return matched, total, nil
	}
	start := (page - 1) * limit
	if start >= total {
		return []models.Product{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *Products) ListByCategory(_ context.Context, categoryID primitive.ObjectID, limit int64) ([]models.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	out := []models.Product{}
	for i := len(s.db.products) - 1; i >= 0 && (limit <= 0 || int64(len(out)) < limit); i-- {
		p := s.db.products[i].Product
		if containsID(p.Category, categoryID) {
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}

func (s *Products) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	row := s.byID(id)
	if row == nil {
		return nil, mongo.ErrNoDocuments
	}
	p := cloneProduct(row.Product)
	return &p, nil
}

func (s *Products) Update(_ context.Context, id primitive.ObjectID, fields models.ProductFields) (models.UpdateResult, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	row := s.byID(id)
	if row == nil {
		return result(false), nil
	}
	p := &row.Product
	if fields.Name != nil {
		p.Name = *fields.Name
	}
	if fields.Image != nil {
		p.Image = cloneStrings(fields.Image)
	}
	if fields.Category != nil {
		p.Category = cloneIDs(fields.Category)
	}
	if fields.SubCategory != nil {
		p.SubCategory = cloneIDs(fields.SubCategory)
	}
	if fields.Unit != nil {
		p.Unit = *fields.Unit
	}
	if fields.Stock != nil {
		p.Stock = *fields.Stock
	}
	if fields.Price != nil {
		p.Price = *fields.Price
	}
	if fields.Description != nil {
		p.Description = *fields.Description
	}
	if fields.Status != nil {
		p.Status = *fields.Status
	}
	p.UpdatedAt = s.db.now()
	return result(true), nil
}

func (s *Products) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for i, row := range s.db.products {
		if row.ID == id {
			s.db.products = append(s.db.products[:i], s.db.products[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *Products) CountByCategory(_ context.Context, categoryID primitive.ObjectID) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var n int64
	for _, row := range s.db.products {
		if containsID(row.Category, categoryID) {
			n++
		}
	}
	return n, nil
}

// byID expects the caller to hold db.mu.
func (s *Products) byID(id primitive.ObjectID) *productRow {
	for _, row := range s.db.products {
		if row.ID == id {
			return row
		}
	}
	return nil
}

func cloneProduct(p models.Product) models.Product {
	p.Image = cloneStrings(p.Image)
	p.Category = cloneIDs(p.Category)
	p.SubCategory = cloneIDs(p.SubCategory)
	return p
}
