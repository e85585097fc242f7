package migrations

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"restaurant_analytics/internal/models"
)

func allModels() []interface{} {
	return []interface{}{
		&models.Category{},
		&models.MenuItem{},
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
		&models.Supplier{},
		&models.PurchaseOrder{},
	}
}

// RunMigrations creates or updates every table the reports read from.
func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Println("Database migrations completed successfully!")
	return nil
}

// ResetSchema drops every table and migrates from scratch.
func ResetSchema(db *gorm.DB) error {
	log.Println("Dropping existing tables...")
	tables := allModels()
	// drop dependents first
	for i, j := 0, len(tables)-1; i < j; i, j = i+1, j-1 {
		tables[i], tables[j] = tables[j], tables[i]
	}
	if err := db.Migrator().DropTable(tables...); err != nil {
		log.Printf("Warning: Error dropping tables: %v", err)
	}
	return RunMigrations(db)
}

var demoMenu = []struct {
	category string
	name     string
	price    float64
}{
	{"Mains", "Margherita Pizza", 11.5},
	{"Mains", "Spaghetti Carbonara", 13},
	{"Mains", "Grilled Salmon", 18.75},
	{"Starters", "Tomato Soup", 6},
	{"Starters", "Caesar Salad", 8.5},
	{"Desserts", "Tiramisu", 7},
	{"Desserts", "Panna Cotta", 6.5},
	{"Drinks", "Lemonade", 3.5},
}

var demoStatuses = []models.OrderStatus{
	models.OrderServed, models.OrderServed, models.OrderServed, models.OrderServed,
	models.OrderReady, models.OrderPreparing, models.OrderConfirmed, models.OrderPending,
	models.OrderCancelled,
}

// SeedDemoData fills an empty store with ninety days of orders, reviews and
// purchase orders ending at now. It does nothing when menu data exists.
func SeedDemoData(db *gorm.DB, now time.Time) error {
	var existing int64
	if err := db.Model(&models.MenuItem{}).Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to check existing data: %w", err)
	}
	if existing > 0 {
		log.Println("Demo data already present")
		return nil
	}

	log.Println("Creating demo data...")
	rng := rand.New(rand.NewSource(42))

	return db.Transaction(func(tx *gorm.DB) error {
		categories := make(map[string]uuid.UUID)
		var items []models.MenuItem
		for _, m := range demoMenu {
			categoryID, ok := categories[m.category]
			if !ok {
				categoryID = uuid.New()
				categories[m.category] = categoryID
				if err := tx.Create(&models.Category{ID: categoryID, Name: m.category}).Error; err != nil {
					return fmt.Errorf("failed to create category: %w", err)
				}
			}
			items = append(items, models.MenuItem{ID: uuid.New(), Name: m.name, Price: m.price, CategoryID: categoryID})
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create menu items: %w", err)
		}

		users := make([]models.User, 12)
		for i := range users {
			users[i] = models.User{
				ID:       uuid.New(),
				Username: fmt.Sprintf("guest%02d", i+1),
				Email:    fmt.Sprintf("guest%02d@example.com", i+1),
			}
		}
		if err := tx.Create(&users).Error; err != nil {
			return fmt.Errorf("failed to create users: %w", err)
		}

		var orders []models.Order
		for day := 90; day >= 0; day-- {
			for n := rng.Intn(6); n > 0; n-- {
				order := models.Order{
					ID:        uuid.New(),
					OrderDate: now.AddDate(0, 0, -day).Add(-time.Duration(rng.Intn(600)) * time.Minute),
					Status:    demoStatuses[rng.Intn(len(demoStatuses))],
				}
				lines := 1 + rng.Intn(3)
				for line := 1; line <= lines; line++ {
					item := items[rng.Intn(len(items))]
					oi := models.OrderItem{
						ID:         uuid.New(),
						OrderID:    order.ID,
						MenuItemID: item.ID,
						LineNo:     line,
						Quantity:   1 + rng.Intn(3),
						UnitPrice:  item.Price,
					}
					order.TotalAmount += oi.LineTotal()
					order.Items = append(order.Items, oi)
				}
				orders = append(orders, order)
			}
		}
		if len(orders) > 0 {
			if err := tx.Create(&orders).Error; err != nil {
				return fmt.Errorf("failed to create orders: %w", err)
			}
		}

		var reviews []models.Review
		for _, user := range users {
			for _, item := range items {
				if rng.Intn(3) != 0 {
					continue
				}
				reviews = append(reviews, models.Review{
					ID:         uuid.New(),
					UserID:     user.ID,
					MenuItemID: item.ID,
					Rating:     models.MinRating + rng.Intn(models.MaxRating),
					CreatedAt:  now.AddDate(0, 0, -rng.Intn(60)),
				})
			}
		}
		if len(reviews) > 0 {
			if err := tx.Create(&reviews).Error; err != nil {
				return fmt.Errorf("failed to create reviews: %w", err)
			}
		}

		for _, name := range []string{"Fresh Farms", "Harbor Seafood"} {
			supplier := models.Supplier{ID: uuid.New(), Name: name}
			if err := tx.Create(&supplier).Error; err != nil {
				return fmt.Errorf("failed to create supplier: %w", err)
			}
			var pos []models.PurchaseOrder
			for i := 0; i < 10; i++ {
				expected := now.AddDate(0, 0, -7*(i+1))
				po := models.PurchaseOrder{
					ID:               uuid.New(),
					SupplierID:       supplier.ID,
					Status:           models.PurchaseDelivered,
					TotalAmount:      float64(200 + rng.Intn(800)),
					ExpectedDelivery: expected,
				}
				actual := expected.AddDate(0, 0, rng.Intn(5)-2)
				po.ActualDelivery = &actual
				pos = append(pos, po)
			}
			if err := tx.Create(&pos).Error; err != nil {
				return fmt.Errorf("failed to create purchase orders: %w", err)
			}
		}

		log.Printf("Demo data created: %d menu items, %d orders, %d reviews", len(items), len(orders), len(reviews))
		return nil
	})
}
