package main

import (
	"log"
	"net/http"

	"github.com/greenbasket/storefront/app/admin"
	"github.com/greenbasket/storefront/app/auth"
	"github.com/greenbasket/storefront/app/storefront"
	"github.com/greenbasket/storefront/config"
	"github.com/greenbasket/storefront/models"
	"github.com/greenbasket/storefront/session"
	"github.com/greenbasket/storefront/storage"
)

func main() {
	cfg := config.Load()

	db, err := storage.Open(cfg.Database)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	if err := storage.Seed(db); err != nil {
		log.Fatalf("seed store: %v", err)
	}

	var sessions session.Store
	if cfg.Session.RedisAddr != "" {
		client, err := session.DialRedis(cfg.Session.RedisAddr)
		if err != nil {
			log.Fatalf("dial redis: %v", err)
		}
		sessions = session.NewRedisStore(client, cfg.Session.TTL)
		log.Printf("sessions in Redis at %s", cfg.Session.RedisAddr)
	} else {
		sessions = session.NewMemoryStore()
		log.Println("sessions in memory; set REDIS_ADDR to persist across restarts")
	}

	users := models.NewUsersRepository(db)
	categories := models.NewCategoriesRepository(db)
	products := models.NewProductsRepository(db)

	authHandler := auth.NewAuthHandler(users)
	shop := storefront.NewStorefrontHandler(products, categories)
	manage := admin.NewAdminHandler(categories, products)

	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /{$}", shop.HandleHome)
	mux.HandleFunc("/login", authHandler.HandleLogin)
	mux.HandleFunc("GET /logout", authHandler.HandleLogout)
	mux.HandleFunc("/admin/login", authHandler.HandleAdminLogin)
	mux.HandleFunc("GET /admin/logout", authHandler.HandleAdminLogout)

	// Customer
	mux.HandleFunc("/search", auth.RequireCustomer(shop.HandleSearch))
	mux.HandleFunc("/category/{id}", auth.RequireCustomer(shop.HandleCategory))
	mux.HandleFunc("GET /cart", auth.RequireCustomer(shop.HandleCart))
	mux.HandleFunc("POST /add_to_cart/{id}", auth.RequireCustomer(shop.HandleAddToCart))
	mux.HandleFunc("GET /purchase_summary", auth.RequireCustomer(shop.HandlePurchaseSummary))

	// Admin
	mux.HandleFunc("GET /admin/categories", auth.RequireAdmin(manage.HandleCategories))
	mux.HandleFunc("/admin/categories/add", auth.RequireAdmin(manage.HandleAddCategory))
	mux.HandleFunc("/admin/categories/edit/{id}", auth.RequireAdmin(manage.HandleEditCategory))
	mux.HandleFunc("/admin/categories/remove/{id}", auth.RequireAdmin(manage.HandleRemoveCategory))
	mux.HandleFunc("GET /admin/products", auth.RequireAdmin(manage.HandleProducts))
	mux.HandleFunc("POST /admin/products/add", auth.RequireAdmin(manage.HandleAddProduct))
	mux.HandleFunc("/admin/products/edit/{id}", auth.RequireAdmin(manage.HandleEditProduct))
	mux.HandleFunc("GET /admin/products/remove/{id}", auth.RequireAdmin(manage.HandleRemoveProduct))

	handler := session.NewManager(sessions).Middleware(mux)

	log.Printf("storefront listening on %s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, handler))
}
