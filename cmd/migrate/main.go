package main

import (
	"fmt"
	"log"
	"os"

	"fleetops-backend/internal/database"

	"github.com/joho/godotenv"
)

// Standalone migration runner. Applies the schema and seed data without
// starting the HTTP server, then prints a fleet summary.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database successfully")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migration completed successfully!")

	if err := database.SeedUsers(db); err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	if err := database.SeedVendors(db); err != nil {
		log.Fatalf("Vendor seeding failed: %v", err)
	}
	if err := database.SeedVehicles(db); err != nil {
		log.Fatalf("Vehicle seeding failed: %v", err)
	}
	if err := database.SeedRoutes(db); err != nil {
		log.Fatalf("Route seeding failed: %v", err)
	}

	// Query and display summary
	var result struct {
		TotalVehicles   int `db:"total_vehicles"`
		Spares          int `db:"spares"`
		DeployedSpares  int `db:"deployed_spares"`
		BreakdownTrucks int `db:"breakdown_trucks"`
	}

	query := `
		SELECT
			COUNT(*) AS total_vehicles,
			COUNT(CASE WHEN is_spare THEN 1 END) AS spares,
			COUNT(CASE WHEN is_spare AND replacing_truck_id IS NOT NULL THEN 1 END) AS deployed_spares,
			COUNT(CASE WHEN status = 'breakdown' THEN 1 END) AS breakdown_trucks
		FROM vehicles
	`

	if err := db.Get(&result, query); err != nil {
		log.Fatalf("Failed to query summary: %v", err)
	}

	fmt.Println("\n============================================================")
	fmt.Println("FLEET SUMMARY")
	fmt.Println("============================================================")
	fmt.Printf("Total vehicles:          %d\n", result.TotalVehicles)
	fmt.Printf("Spare trucks:            %d\n", result.Spares)
	fmt.Printf("Deployed spares:         %d\n", result.DeployedSpares)
	fmt.Printf("Broken down trucks:      %d\n", result.BreakdownTrucks)
	fmt.Println("============================================================")
}
