// Command seed loads a demo catalog and an admin account into the
// database, so a fresh checkout has something to browse and someone to
// moderate it.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"dokan-backend/internal/config"
	"dokan-backend/internal/db"
	"dokan-backend/internal/db/conn"
	"dokan-backend/internal/db/repository"
	"dokan-backend/internal/logger/sl"
	"dokan-backend/internal/models"

	"github.com/brianvoe/gofakeit"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	_ = godotenv.Load()
	cfg := config.LoadConfig()
	logger := sl.Setup(cfg.Env)

	dbConn, err := conn.Connection(&cfg.DB)
	if err != nil {
		log.Fatalf("connecting to postgres: %v", err)
	}
	defer dbConn.Close()

	if err = db.EnsureSchema(ctx, dbConn); err != nil {
		log.Fatalf("ensuring schema: %v", err)
	}

	gofakeit.Seed(0)

	if err = seedAdmin(ctx, repository.NewUserRepository(dbConn), logger); err != nil {
		log.Fatalf("seeding admin: %v", err)
	}
	if err = seedCatalog(ctx, repository.NewProductRepository(dbConn), logger); err != nil {
		log.Fatalf("seeding catalog: %v", err)
	}

	logger.Info("seed complete")
}

func seedAdmin(ctx context.Context, users *repository.UserRepository, logger *slog.Logger) error {
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "admin12345"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	now := time.Now()
	admin := models.User{
		ID:            uuid.NewString(),
		Name:          "Dokan Admin",
		Email:         "admin@dokan.local",
		Phone:         "01700000001",
		PasswordHash:  string(hash),
		Role:          models.RoleAdmin,
		PhoneVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = users.Create(ctx, admin)
	if errors.Is(err, repository.ErrDuplicateEmail) || errors.Is(err, repository.ErrDuplicatePhone) {
		logger.Info("admin account already present")
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("admin account created",
		slog.String("phone", admin.Phone),
		slog.String("email", admin.Email),
	)
	return nil
}

// Slugs are fixed so a re-run skips existing rows instead of minting
// suffixed copies.
var demoCatalog = []struct {
	title    string
	slug     string
	category string
	price    string
}{
	{"Miniket Rice 5kg", "miniket-rice-5kg", "groceries", "550"},
	{"Mustard Oil 1L", "mustard-oil-1l", "groceries", "320"},
	{"Masoor Dal 1kg", "masoor-dal-1kg", "groceries", "140"},
	{"Jamdani Saree", "jamdani-saree", "clothing", "4500"},
	{"Cotton Panjabi", "cotton-panjabi", "clothing", "1250"},
	{"Leather Sandals", "leather-sandals", "footwear", "850"},
	{"Ceramic Dinner Set", "ceramic-dinner-set", "home", "2200"},
	{"Electric Kettle 1.8L", "electric-kettle-1-8l", "appliances", "1450"},
	{"LED Table Lamp", "led-table-lamp", "home", "680"},
	{"Bluetooth Earbuds", "bluetooth-earbuds", "electronics", "1890"},
	{"Power Bank 10000mAh", "power-bank-10000mah", "electronics", "1350"},
	{"Herbal Face Wash", "herbal-face-wash", "beauty", "240"},
}

func seedCatalog(ctx context.Context, products *repository.ProductRepository, logger *slog.Logger) error {
	created := 0
	for _, p := range demoCatalog {
		now := time.Now()
		err := products.Create(ctx, models.Product{
			ID:          uuid.NewString(),
			Title:       p.title,
			Slug:        p.slug,
			Description: gofakeit.Paragraph(1, 3, 12, " "),
			Category:    p.category,
			Images:      pq.StringArray{gofakeit.ImageURL(640, 480)},
			Price:       decimal.RequireFromString(p.price),
			Stock:       gofakeit.Number(10, 120),
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if errors.Is(err, repository.ErrDuplicateSlug) {
			continue
		}
		if err != nil {
			return fmt.Errorf("creating %q: %w", p.title, err)
		}
		created++
	}

	logger.Info("demo catalog seeded", slog.Int("created", created))
	return nil
}
