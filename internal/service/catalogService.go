package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dokan-backend/internal/apperr"
	"dokan-backend/internal/db/repository"
	"dokan-backend/internal/metric"
	"dokan-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// ProductRepository is the catalog storage surface. It is shared with
// the order and review services, which read products to snapshot and
// to re-aggregate ratings.
//
//go:generate mockery --name=ProductRepository --output=./mocks --case=underscore
type ProductRepository interface {
	Create(ctx context.Context, product models.Product) error
	GetByID(ctx context.Context, id string) (models.Product, error)
	GetBySlug(ctx context.Context, slug string) (models.Product, error)
	List(ctx context.Context, filter repository.ProductFilter) ([]models.Product, int, error)
	UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error
}

type CreateProductInput struct {
	Title       string          `json:"title" validate:"required,min=2,max=200"`
	Description string          `json:"description" validate:"omitempty,max=5000"`
	Category    string          `json:"category" validate:"required,max=100"`
	Images      []string        `json:"images" validate:"omitempty,max=10,dive,max=500"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

// CatalogService is thin plumbing over the product repository: public
// listing and lookup, plus the admin create used to stock the shop.
type CatalogService struct {
	products ProductRepository
	validate *validator.Validate
	log      *slog.Logger
}

func NewCatalogService(products ProductRepository, log *slog.Logger) *CatalogService {
	return &CatalogService{products: products, validate: newValidator(), log: log}
}

// List returns one page of active products.
func (s *CatalogService) List(ctx context.Context, category, sort string, page, limit int) ([]models.Product, int, error) {
	page, limit = ClampPage(page, limit)
	filter := repository.ProductFilter{
		Category:   category,
		Sort:       sort,
		ActiveOnly: true,
		Page:       page,
		Limit:      limit,
	}

	start := time.Now()
	products, total, err := s.products.List(ctx, filter)
	metric.ObserveDb("product_list", start, err)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return products, total, nil
}

// Get resolves a product by UUID or by slug, whichever the path segment
// parses as.
func (s *CatalogService) Get(ctx context.Context, idOrSlug string) (models.Product, error) {
	start := time.Now()
	var (
		product models.Product
		err     error
	)
	if _, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		product, err = s.products.GetByID(ctx, idOrSlug)
	} else {
		product, err = s.products.GetBySlug(ctx, idOrSlug)
	}
	metric.ObserveDb("product_get", start, err)

	if errors.Is(err, repository.ErrNotFound) {
		return models.Product{}, apperr.NotFound("product")
	}
	if err != nil {
		return models.Product{}, apperr.Internal(err)
	}
	return product, nil
}

// Create adds a catalog entry. The slug is derived from the title; on a
// collision one retry appends a random suffix before giving up.
func (s *CatalogService) Create(ctx context.Context, in CreateProductInput) (models.Product, error) {
	tr := otel.Tracer("catalogService")
	ctx, span := tr.Start(ctx, "Create")
	defer span.End()

	if err := s.validate.Struct(in); err != nil {
		return models.Product{}, invalidInput(err)
	}
	if !in.Price.IsPositive() {
		return models.Product{}, apperr.Validation("price", "must be a positive amount")
	}

	now := time.Now()
	product := models.Product{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Slug:        slugify(in.Title),
		Description: in.Description,
		Category:    in.Category,
		Images:      pq.StringArray(in.Images),
		Price:       in.Price,
		Stock:       in.Stock,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	span.SetAttributes(attribute.String("slug", product.Slug))

	start := time.Now()
	err := s.products.Create(ctx, product)
	if errors.Is(err, repository.ErrDuplicateSlug) {
		suffix, serr := randomSlugSuffix()
		if serr != nil {
			return models.Product{}, apperr.Internal(serr)
		}
		product.Slug = product.Slug + "-" + suffix
		err = s.products.Create(ctx, product)
	}
	metric.ObserveDb("product_create", start, err)

	if errors.Is(err, repository.ErrDuplicateSlug) {
		return models.Product{}, apperr.Conflict("slug_exists", "a product with a similar title already exists")
	}
	if err != nil {
		span.RecordError(err)
		return models.Product{}, apperr.Internal(err)
	}

	s.log.Info("product created", slog.String("slug", product.Slug), slog.String("category", product.Category))
	return product, nil
}

// slugify lowercases the title and replaces every non-alphanumeric run
// with a single hyphen.
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

const slugSuffixAlphabet = "abcdefghjkmnpqrstvwxyz0123456789"

func randomSlugSuffix() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating slug suffix: %w", err)
	}
	for i, b := range buf {
		buf[i] = slugSuffixAlphabet[int(b)%len(slugSuffixAlphabet)]
	}
	return string(buf), nil
}
