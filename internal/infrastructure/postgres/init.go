package postgres

import (
	"log"

	"github.com/craftplace/settlement-service/internal/config"
	"github.com/craftplace/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.SettlementConfig) *gorm.DB {
	dsn := cfg.SettlementDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	if err := AutoMigrate(db); err != nil {
		log.Fatalf("failed to migrate db: %v\n", err.Error())
	}

	return db
}

// AutoMigrate is shared with the sqlite-backed tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.OrderModel{},
		&models.OrderItemModel{},
		&models.DiscountModel{},
		&models.OrderDiscountModel{},
		&models.ProductModel{},
		&models.PriceModel{},
		&models.WebhookModel{},
		&models.WebhookLogModel{},
	)
}
