package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Println("🔌 DATABASE CONNECTION ATTEMPT")
	log.Printf("   📍 Database URL length: %d characters", len(dbURL))
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Println("❌ DATABASE CONNECTION FAILED AT sqlx.Connect()")
		log.Printf("   Error: %v", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		log.Println("❌ DATABASE CONNECTION FAILED AT Ping()")
		log.Printf("   Error: %v", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ DATABASE CONNECTION SUCCESSFUL")
	return db, nil
}

func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Create users table
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('driver', 'admin')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create vendors table
		`CREATE TABLE IF NOT EXISTS vendors (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			contact_name TEXT,
			phone TEXT,
			email TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create vehicles table
		`CREATE TABLE IF NOT EXISTS vehicles (
			id TEXT PRIMARY KEY,
			registration_no TEXT NOT NULL UNIQUE,
			vehicle_class TEXT NOT NULL CHECK(vehicle_class IN ('mini_truck', 'compactor', 'dumper', 'open_truck')),
			route_affinity TEXT NOT NULL CHECK(route_affinity IN ('primary', 'secondary')),
			status TEXT NOT NULL CHECK(status IN ('active', 'moving', 'idle', 'dumping', 'breakdown', 'offline', 'maintenance', 'inactive')),
			is_spare BOOLEAN NOT NULL DEFAULT FALSE,
			replaced_by_spare_id TEXT,
			replacing_truck_id TEXT,
			current_route_name TEXT NOT NULL DEFAULT 'Unassigned',
			current_route_id TEXT,
			assigned_gcp TEXT,
			assigned_dump_site TEXT,
			vendor_id TEXT NOT NULL,
			breakdown_time BIGINT,
			breakdown_reason TEXT,
			driver_id TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (vendor_id) REFERENCES vendors(id) ON DELETE RESTRICT,
			FOREIGN KEY (driver_id) REFERENCES users(id) ON DELETE SET NULL,
			CHECK (NOT (replaced_by_spare_id IS NOT NULL AND replacing_truck_id IS NOT NULL))
		)`,

		// Create routes table
		`CREATE TABLE IF NOT EXISTS routes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			route_type TEXT NOT NULL CHECK(route_type IN ('primary', 'secondary')),
			status TEXT NOT NULL DEFAULT 'draft' CHECK(status IN ('draft', 'active')),
			distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
			estimated_time TEXT NOT NULL DEFAULT '0m',
			assigned_vehicle_id TEXT,
			created_by_user_id TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (assigned_vehicle_id) REFERENCES vehicles(id) ON DELETE SET NULL,
			FOREIGN KEY (created_by_user_id) REFERENCES users(id) ON DELETE SET NULL
		)`,

		// Create route_points table
		`CREATE TABLE IF NOT EXISTS route_points (
			id TEXT PRIMARY KEY,
			route_id TEXT NOT NULL,
			point_type TEXT NOT NULL CHECK(point_type IN ('pickup', 'collection_point', 'dumping_site')),
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			sequence_order INT NOT NULL,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (route_id) REFERENCES routes(id) ON DELETE CASCADE,
			UNIQUE (route_id, sequence_order)
		)`,

		// Create assignment_records table (append-only deployment log)
		`CREATE TABLE IF NOT EXISTS assignment_records (
			id TEXT PRIMARY KEY,
			breakdown_vehicle_id TEXT NOT NULL,
			spare_vehicle_id TEXT NOT NULL,
			route_id TEXT,
			reason TEXT NOT NULL,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (breakdown_vehicle_id) REFERENCES vehicles(id) ON DELETE CASCADE,
			FOREIGN KEY (spare_vehicle_id) REFERENCES vehicles(id) ON DELETE CASCADE
		)`,

		// Create fleet_settings table (single row holding the spare policy)
		`CREATE TABLE IF NOT EXISTS fleet_settings (
			id INT PRIMARY KEY CHECK(id = 1),
			spare_percentage DOUBLE PRECISION NOT NULL DEFAULT 10,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create FCM tokens table
		`CREATE TABLE IF NOT EXISTS fcm_tokens (
			id SERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			token TEXT NOT NULL UNIQUE,
			device_type TEXT NOT NULL CHECK(device_type IN ('ios', 'android')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Create vehicle_current_location table (stores only latest position per vehicle)
		// Primary tracking is via WebSocket broadcasts - DB is fallback for disconnections
		`CREATE TABLE IF NOT EXISTS vehicle_current_location (
			vehicle_id TEXT PRIMARY KEY,
			driver_id TEXT,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			heading DOUBLE PRECISION,
			speed DOUBLE PRECISION,
			timestamp BIGINT NOT NULL,
			is_connected BOOLEAN NOT NULL DEFAULT TRUE,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (vehicle_id) REFERENCES vehicles(id) ON DELETE CASCADE,
			FOREIGN KEY (driver_id) REFERENCES users(id) ON DELETE SET NULL
		)`,

		// Create indexes
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_vehicles_vendor_id ON vehicles(vendor_id)`,
		`CREATE INDEX IF NOT EXISTS idx_vehicles_status ON vehicles(status)`,
		`CREATE INDEX IF NOT EXISTS idx_vehicles_is_spare ON vehicles(is_spare)`,
		`CREATE INDEX IF NOT EXISTS idx_route_points_route_id ON route_points(route_id)`,
		`CREATE INDEX IF NOT EXISTS idx_route_points_route_seq ON route_points(route_id, sequence_order)`,
		`CREATE INDEX IF NOT EXISTS idx_assignment_records_breakdown ON assignment_records(breakdown_vehicle_id)`,
		`CREATE INDEX IF NOT EXISTS idx_assignment_records_spare ON assignment_records(spare_vehicle_id)`,
		`CREATE INDEX IF NOT EXISTS idx_assignment_records_created_at ON assignment_records(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_fcm_tokens_user_id ON fcm_tokens(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_vehicle_current_location_is_connected ON vehicle_current_location(is_connected)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	// Ensure the settings row exists
	if _, err := db.Exec(`INSERT INTO fleet_settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING`); err != nil {
		return fmt.Errorf("failed to ensure settings row: %w", err)
	}

	return nil
}
