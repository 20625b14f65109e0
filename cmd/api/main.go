package main

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"

	"github.com/rliyanage/distro-backend/internal/config"
	"github.com/rliyanage/distro-backend/internal/database"
	"github.com/rliyanage/distro-backend/internal/middleware"
	"github.com/rliyanage/distro-backend/internal/modules/allocation"
	"github.com/rliyanage/distro-backend/internal/modules/auth"
	"github.com/rliyanage/distro-backend/internal/modules/catalog"
	"github.com/rliyanage/distro-backend/internal/modules/cheque"
	"github.com/rliyanage/distro-backend/internal/modules/collection"
	"github.com/rliyanage/distro-backend/internal/modules/customer"
	"github.com/rliyanage/distro-backend/internal/modules/order"
	"github.com/rliyanage/distro-backend/internal/modules/report"
	"github.com/rliyanage/distro-backend/internal/modules/supplier"
	"github.com/rliyanage/distro-backend/internal/modules/target"
	"github.com/rliyanage/distro-backend/internal/modules/user"
)

const lowStockThreshold = 10

func main() {
	logger := config.GetLogger()

	cfg := config.Load()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.WithError(err).Fatal("failed to reach database")
	}
	if err := database.CreateSchema(db); err != nil {
		logger.WithError(err).Fatal("failed to create schema")
	}
	if err := database.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.WithError(err).Fatal("failed to seed admin account")
	}
	logger.Info("connected to database")

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)

	a := middleware.NewAuth(cfg.JWTSecret)

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)

	authService := auth.NewService(userRepo, cfg.JWTSecret, cfg.JWTExpirationHours)
	auth.NewHandler(authService).RegisterRoutes(router)

	router.Group(func(r chi.Router) {
		r.Use(a.RequireRole(string(user.RoleAdmin)))
		user.NewHandler(userService).RegisterRoutes(r)
	})

	// ── Catalog & parties ───────────────────────────────────
	router.Group(func(r chi.Router) {
		r.Use(a.RequireRole(string(user.RoleAdmin), string(user.RoleManager),
			string(user.RoleSecretary), string(user.RoleSales)))

		catalogService := catalog.NewService(catalog.NewPostgresRepository(db))
		catalog.NewHandler(catalogService).RegisterRoutes(r)

		customerService := customer.NewService(customer.NewPostgresRepository(db))
		customer.NewHandler(customerService).RegisterRoutes(r)

		orderService := order.NewService(order.NewPostgresRepository(db))
		order.NewHandler(orderService).RegisterRoutes(r)
	})

	router.Group(func(r chi.Router) {
		r.Use(a.RequireRole(string(user.RoleAdmin), string(user.RoleManager),
			string(user.RoleSecretary)))

		supplierService := supplier.NewService(supplier.NewPostgresRepository(db))
		supplier.NewHandler(supplierService).RegisterRoutes(r)

		chequeService := cheque.NewService(cheque.NewPostgresRepository(db),
			cfg.ChequeDeletePassword, cfg.UpcomingChequeDays)
		cheque.NewHandler(chequeService).RegisterRoutes(r)

		collectionService := collection.NewService(collection.NewPostgresRepository(db))
		collection.NewHandler(collectionService).RegisterRoutes(r)
	})

	// ── Field operations ────────────────────────────────────
	router.Group(func(r chi.Router) {
		r.Use(a.RequireRole(string(user.RoleAdmin), string(user.RoleManager),
			string(user.RoleDriver)))

		allocationService := allocation.NewService(allocation.NewPostgresRepository(db))
		allocation.NewHandler(allocationService).RegisterRoutes(r)
	})

	// ── Management views ────────────────────────────────────
	router.Group(func(r chi.Router) {
		r.Use(a.RequireRole(string(user.RoleAdmin), string(user.RoleManager)))

		targetService := target.NewService(target.NewPostgresRepository(db))
		target.NewHandler(targetService).RegisterRoutes(r)

		reportService := report.NewService(report.NewPostgresRepository(db),
			lowStockThreshold, cfg.UpcomingChequeDays)
		report.NewHandler(reportService).RegisterRoutes(r)
	})

	logger.WithField("port", cfg.Port).Info("server listening")
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
