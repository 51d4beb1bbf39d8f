package service

import (
	"context"
	"strings"
	"testing"

	"dokan-backend/internal/apperr"
	"dokan-backend/internal/db/repository"
	"dokan-backend/internal/models"
	"dokan-backend/internal/service/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupCatalog(t *testing.T) (*mocks.ProductRepository, *CatalogService) {
	products := mocks.NewProductRepository(t)
	svc := NewCatalogService(products, testLogger())
	return products, svc
}

// The public listing never shows inactive products.
func TestCatalogService_List_ActiveOnly(t *testing.T) {
	products, svc := setupCatalog(t)

	products.On("List", mock.Anything, mock.MatchedBy(func(f repository.ProductFilter) bool {
		return f.ActiveOnly && f.Category == "groceries" && f.Sort == "price_asc" && f.Page == 1 && f.Limit == 10
	})).Return([]models.Product{}, 0, nil)

	_, _, err := svc.List(context.Background(), "groceries", "price_asc", 0, 0)

	assert.NoError(t, err)
	products.AssertExpectations(t)
}

func TestCatalogService_Get_ByID(t *testing.T) {
	products, svc := setupCatalog(t)
	p := catalogProduct(productRiceID, "Miniket Rice 5kg", "550.00", 10)

	products.On("GetByID", mock.Anything, productRiceID).Return(p, nil)

	got, err := svc.Get(context.Background(), productRiceID)

	assert.NoError(t, err)
	assert.Equal(t, productRiceID, got.ID)
	products.AssertNotCalled(t, "GetBySlug", mock.Anything, mock.Anything)
}

func TestCatalogService_Get_BySlug(t *testing.T) {
	products, svc := setupCatalog(t)
	p := catalogProduct(productRiceID, "Miniket Rice 5kg", "550.00", 10)

	products.On("GetBySlug", mock.Anything, "miniket-rice-5kg").Return(p, nil)

	got, err := svc.Get(context.Background(), "miniket-rice-5kg")

	assert.NoError(t, err)
	assert.Equal(t, "miniket-rice-5kg", got.Slug)
	products.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCatalogService_Get_NotFound(t *testing.T) {
	products, svc := setupCatalog(t)

	products.On("GetBySlug", mock.Anything, "gone").Return(models.Product{}, repository.ErrNotFound)

	_, err := svc.Get(context.Background(), "gone")

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCatalogService_Create_Slugifies(t *testing.T) {
	products, svc := setupCatalog(t)

	products.On("Create", mock.Anything, mock.MatchedBy(func(p models.Product) bool {
		return p.Slug == "miniket-rice-5kg-premium" && p.IsActive
	})).Return(nil)

	created, err := svc.Create(context.Background(), CreateProductInput{
		Title:    "Miniket Rice 5kg (Premium)",
		Category: "groceries",
		Price:    decimal.RequireFromString("550.00"),
		Stock:    25,
	})

	assert.NoError(t, err)
	assert.Equal(t, "miniket-rice-5kg-premium", created.Slug)
	products.AssertExpectations(t)
}

// A slug collision gets one retry with a random suffix.
func TestCatalogService_Create_RetriesDuplicateSlug(t *testing.T) {
	products, svc := setupCatalog(t)

	products.On("Create", mock.Anything, mock.MatchedBy(func(p models.Product) bool {
		return p.Slug == "soybean-oil-1l"
	})).Return(repository.ErrDuplicateSlug).Once()
	products.On("Create", mock.Anything, mock.MatchedBy(func(p models.Product) bool {
		return strings.HasPrefix(p.Slug, "soybean-oil-1l-") && len(p.Slug) == len("soybean-oil-1l-")+4
	})).Return(nil).Once()

	created, err := svc.Create(context.Background(), CreateProductInput{
		Title:    "Soybean Oil 1L",
		Category: "groceries",
		Price:    decimal.RequireFromString("120.50"),
		Stock:    40,
	})

	assert.NoError(t, err)
	assert.NotEqual(t, "soybean-oil-1l", created.Slug)
	products.AssertExpectations(t)
}

func TestCatalogService_Create_RejectsNonPositivePrice(t *testing.T) {
	products, svc := setupCatalog(t)

	_, err := svc.Create(context.Background(), CreateProductInput{
		Title:    "Free Sample",
		Category: "groceries",
		Price:    decimal.Zero,
		Stock:    10,
	})

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		title, want string
	}{
		{"Miniket Rice 5kg", "miniket-rice-5kg"},
		{"Soybean Oil (1L)", "soybean-oil-1l"},
		{"  Handloom Saree --  ", "handloom-saree"},
		{"100% Cotton Panjabi", "100-cotton-panjabi"},
		{"Chá & Churro", "ch-churro"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, slugify(c.title), "slugify(%q)", c.title)
	}
}
