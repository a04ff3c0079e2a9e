package main

import (
	"log"
	"net/http"
	"os"

	"fleetops-backend/internal/database"
	"fleetops-backend/internal/handlers"
	"fleetops-backend/internal/metrics"
	"fleetops-backend/internal/middleware"
	"fleetops-backend/internal/services"
	"fleetops-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 FLEETOPS BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Load .env file
	log.Println("📂 Loading environment variables...")
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// Get database URL
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("❌ FATAL ERROR: DATABASE_URL environment variable is required")
	}
	log.Println("✅ DATABASE_URL found")

	// Connect to database
	log.Println("🔌 Connecting to database...")
	db, err := database.Connect(dbURL)
	if err != nil {
		log.Println("❌ FATAL ERROR: Database connection failed")
		log.Fatal(err)
	}
	defer db.Close()
	log.Println("✅ Database connection established")

	// Run migrations
	log.Println("🔄 Running database migrations...")
	if err := database.Migrate(db); err != nil {
		log.Println("❌ FATAL ERROR: Database migrations failed")
		log.Fatal(err)
	}
	log.Println("✅ Database migrations completed")

	// Seed database
	log.Println("🌱 Seeding database with initial data...")
	if err := database.SeedUsers(db); err != nil {
		log.Fatalf("❌ FATAL ERROR: User seeding failed: %v", err)
	}
	log.Println("✅ Users seeded successfully")

	if err := database.SeedVendors(db); err != nil {
		log.Fatalf("❌ FATAL ERROR: Vendor seeding failed: %v", err)
	}
	log.Println("✅ Vendors seeded successfully")

	if err := database.SeedVehicles(db); err != nil {
		log.Fatalf("❌ FATAL ERROR: Vehicle seeding failed: %v", err)
	}
	log.Println("✅ Vehicles seeded successfully")

	if err := database.SeedRoutes(db); err != nil {
		log.Fatalf("❌ FATAL ERROR: Route seeding failed: %v", err)
	}
	log.Println("✅ Routes seeded successfully")

	// Initialize Firebase Cloud Messaging
	// Supports both file path and base64-encoded credentials (for Railway/cloud deployments)
	var fcmService *services.FCMService
	fcmCredsBase64 := os.Getenv("FIREBASE_CREDENTIALS_BASE64")

	if fcmCredsBase64 != "" {
		// Use base64-encoded credentials (Railway-friendly)
		fcmService, err = services.NewFCMServiceFromBase64(fcmCredsBase64)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from base64: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from base64 credentials")
		}
	} else {
		// Fall back to file path (local development)
		fcmCredentialsFile := os.Getenv("FIREBASE_CREDENTIALS_FILE")
		if fcmCredentialsFile == "" {
			fcmCredentialsFile = "./firebase-service-account.json"
		}

		fcmService, err = services.NewFCMService(fcmCredentialsFile)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from file: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from file")
		}
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	// Prometheus collectors
	metrics.RegisterDefault()

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Metrics)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// Authentication routes (no auth required)
	r.Post("/api/auth/login", handlers.Login(db))

	// WebSocket endpoint (authentication handled in handler via query param)
	r.Get("/ws", websocket.HandleWebSocket(wsHub, db))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Authenticated routes for both drivers and managers
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)

			// Auth status endpoint
			r.Get("/auth/status", handlers.GetAuthStatus(db))

			// Fleet browsing
			r.Get("/vehicles", handlers.GetVehicles(db))
			r.Get("/vehicles/{id}", handlers.GetVehicle(db))
			r.Get("/vehicles/{id}/assignments", handlers.GetVehicleAssignments(db))
			r.Get("/vehicles/{id}/compatible-spares", handlers.GetCompatibleSpares(db))

			// Route blueprints
			r.Get("/routes", handlers.GetRoutes(db))
			r.Get("/routes/{id}", handlers.GetRoute(db))

			// Vendors
			r.Get("/vendors", handlers.GetVendors(db))
			r.Get("/vendors/{id}", handlers.GetVendor(db))

			// FCM token registration
			r.Post("/driver/fcm-token", handlers.RegisterFCMToken(db))
		})

		// Manager endpoints (require authentication + admin role)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)
			r.Use(middleware.RequireRole("admin"))

			// Fleet management
			r.Post("/vehicles", handlers.CreateVehicle(db))
			r.Patch("/vehicles/{id}", handlers.UpdateVehicle(db))
			r.Delete("/vehicles/{id}", handlers.DeleteVehicle(db))

			// Breakdown and spare substitution
			r.Post("/manager/vehicles/{id}/breakdown", handlers.ReportBreakdown(db, wsHub, fcmService))
			r.Post("/manager/assign-spare", handlers.AssignSpare(db, wsHub, fcmService))
			r.Post("/manager/release-spare/{id}", handlers.ReleaseSpare(db, wsHub))

			// Route assembly
			r.Post("/routes", handlers.CreateRoute(db))
			r.Patch("/routes/{id}", handlers.UpdateRoute(db))
			r.Delete("/routes/{id}", handlers.DeleteRoute(db))
			r.Post("/routes/{id}/points", handlers.AddRoutePoint(db))
			r.Delete("/routes/{id}/points/{pointId}", handlers.RemoveRoutePoint(db))
			r.Post("/routes/{id}/points/move", handlers.MoveRoutePoint(db))
			r.Post("/routes/{id}/save", handlers.SaveRoute(db))
			r.Post("/routes/{id}/optimize-preview", handlers.OptimizeRoutePreview(db))

			// Vendor management and compliance
			r.Post("/manager/vendors", handlers.CreateVendor(db))
			r.Patch("/manager/vendors/{id}", handlers.UpdateVendor(db))
			r.Delete("/manager/vendors/{id}", handlers.DeleteVendor(db))
			r.Get("/manager/vendors/compliance", handlers.GetVendorCompliance(db))

			// Spare policy
			r.Get("/manager/settings/spare-percentage", handlers.GetSparePolicy(db))
			r.Put("/manager/settings/spare-percentage", handlers.UpdateSparePolicy(db))

			// Reports
			r.Get("/reports/assignments", handlers.GetAssignmentReport(db))
			r.Get("/reports/fleet-status", handlers.GetFleetStatusReport(db))

			// User management
			r.Get("/users", handlers.GetUsers(db))
			r.Post("/users", handlers.CreateUser(db))
		})
	})

	// Get port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		log.Printf("⚠️  PORT not set, using default: %s", port)
	}

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost:%s", port)
	log.Println("🔌 Ready to accept requests!")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Start server
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("❌ FATAL ERROR: Server failed to start: %v", err)
	}
}
