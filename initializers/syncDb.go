package initializers

import (
	"log"

	"github.com/fnd-app/fnd-api/models"
)

func SyncDatabase() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.LoyaltyPoints{},
		&models.LoyaltyTransaction{},
		&models.PromoCode{},
		&models.Review{},
		&models.Favorite{},
		&models.Message{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}
	log.Println("Database synced successfully.")
}
