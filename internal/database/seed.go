package database

import (
	"log"
	"time"

	"fleetops-backend/internal/models"
	"fleetops-backend/internal/services"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

func SeedUsers(db *sqlx.DB) error {
	// Check if users already exist
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding users...")

	users := []map[string]string{
		{"email": "manager@fleetops.city", "password": "manager123", "name": "Operations Manager", "role": "admin"},
		{"email": "ravi.driver@fleetops.city", "password": "driver123", "name": "Ravi Kumar", "role": "driver"},
		{"email": "sita.driver@fleetops.city", "password": "driver123", "name": "Sita Devi", "role": "driver"},
		{"email": "mohan.driver@fleetops.city", "password": "driver123", "name": "Mohan Lal", "role": "driver"},
	}

	for _, u := range users {
		hashed, err := bcrypt.GenerateFromPassword([]byte(u["password"]), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		_, err = db.Exec(`
			INSERT INTO users (id, email, password, name, role)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.New().String(), u["email"], string(hashed), u["name"], u["role"])
		if err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d users", len(users))
	return nil
}

func SeedVendors(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM vendors"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Vendors already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding vendors...")

	vendors := []map[string]string{
		{"name": "Green City Haulers", "contact_name": "A. Fernandes", "phone": "+91-98450-11111", "email": "ops@greencityhaulers.in"},
		{"name": "Metro Waste Logistics", "contact_name": "P. Shetty", "phone": "+91-98450-22222", "email": "dispatch@metrowaste.in"},
		{"name": "Suraksha Transport Co", "contact_name": "K. Iyer", "phone": "+91-98450-33333", "email": "fleet@surakshatransport.in"},
	}

	for _, v := range vendors {
		_, err := db.Exec(`
			INSERT INTO vendors (id, name, contact_name, phone, email)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.New().String(), v["name"], v["contact_name"], v["phone"], v["email"])
		if err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d vendors", len(vendors))
	return nil
}

func SeedVehicles(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM vehicles"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Vehicles already seeded, skipping...")
		return nil
	}

	// Vehicles reference vendors by name so the seed stays readable
	var vendorIDs []struct {
		ID   string `db:"id"`
		Name string `db:"name"`
	}
	if err := db.Select(&vendorIDs, "SELECT id, name FROM vendors"); err != nil {
		return err
	}
	vendorByName := make(map[string]string, len(vendorIDs))
	for _, v := range vendorIDs {
		vendorByName[v.Name] = v.ID
	}

	log.Println("🌱 Seeding fleet...")

	vehicles := []map[string]interface{}{
		{"reg": "KA-01-GC-1001", "class": "compactor", "affinity": "primary", "status": "active", "spare": false, "vendor": "Green City Haulers", "route": "Ward 4 Morning", "gcp": "GCP-7 Market Yard"},
		{"reg": "KA-01-GC-1002", "class": "compactor", "affinity": "primary", "status": "active", "spare": false, "vendor": "Green City Haulers", "route": "Ward 5 Morning", "gcp": "GCP-7 Market Yard"},
		{"reg": "KA-01-GC-1003", "class": "mini_truck", "affinity": "primary", "status": "idle", "spare": false, "vendor": "Green City Haulers", "route": "Ward 6 Lanes", "gcp": "GCP-3 Old Bus Stand"},
		{"reg": "KA-01-GC-1004", "class": "compactor", "affinity": "primary", "status": "idle", "spare": true, "vendor": "Green City Haulers"},
		{"reg": "KA-01-GC-1005", "class": "mini_truck", "affinity": "primary", "status": "idle", "spare": true, "vendor": "Green City Haulers"},
		{"reg": "KA-01-MW-2001", "class": "dumper", "affinity": "secondary", "status": "active", "spare": false, "vendor": "Metro Waste Logistics", "route": "Transfer Leg North", "gcp": "GCP-7 Market Yard", "dump": "North Transfer Station"},
		{"reg": "KA-01-MW-2002", "class": "dumper", "affinity": "secondary", "status": "dumping", "spare": false, "vendor": "Metro Waste Logistics", "route": "Transfer Leg South", "gcp": "GCP-3 Old Bus Stand", "dump": "South Landfill"},
		{"reg": "KA-01-MW-2003", "class": "dumper", "affinity": "secondary", "status": "idle", "spare": true, "vendor": "Metro Waste Logistics", "dump": "North Transfer Station"},
		{"reg": "KA-01-ST-3001", "class": "open_truck", "affinity": "primary", "status": "active", "spare": false, "vendor": "Suraksha Transport Co", "route": "Ward 9 Commercial", "gcp": "GCP-5 Rail Colony"},
		{"reg": "KA-01-ST-3002", "class": "open_truck", "affinity": "primary", "status": "maintenance", "spare": false, "vendor": "Suraksha Transport Co"},
		{"reg": "KA-01-ST-3003", "class": "open_truck", "affinity": "primary", "status": "idle", "spare": true, "vendor": "Suraksha Transport Co"},
	}

	for _, v := range vehicles {
		routeName := models.UnassignedRoute
		if r, ok := v["route"].(string); ok {
			routeName = r
		}

		var gcp, dump interface{}
		if g, ok := v["gcp"].(string); ok {
			gcp = g
		}
		if d, ok := v["dump"].(string); ok {
			dump = d
		}

		_, err := db.Exec(`
			INSERT INTO vehicles (id, registration_no, vehicle_class, route_affinity, status, is_spare,
			                      current_route_name, assigned_gcp, assigned_dump_site, vendor_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, uuid.New().String(), v["reg"], v["class"], v["affinity"], v["status"], v["spare"],
			routeName, gcp, dump, vendorByName[v["vendor"].(string)])
		if err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d vehicles", len(vehicles))
	return nil
}

func SeedRoutes(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM routes"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Routes already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding demo routes...")

	type seedPoint struct {
		PointType models.PointType
		Lat       float64
		Lng       float64
	}

	routes := []struct {
		Name      string
		RouteType models.RouteType
		Points    []seedPoint
	}{
		{
			Name:      "Ward 4 Morning",
			RouteType: models.RoutePrimary,
			Points: []seedPoint{
				{models.PointPickup, 12.9716, 77.5946},
				{models.PointPickup, 12.9752, 77.5990},
				{models.PointPickup, 12.9789, 77.6031},
				{models.PointCollectionPoint, 12.9823, 77.6077},
			},
		},
		{
			Name:      "Transfer Leg North",
			RouteType: models.RouteSecondary,
			Points: []seedPoint{
				{models.PointCollectionPoint, 12.9823, 77.6077},
				{models.PointDumpingSite, 13.0359, 77.6190},
			},
		},
	}

	now := time.Now().Unix()

	for _, r := range routes {
		points := make([]models.RoutePoint, 0, len(r.Points))
		for _, p := range r.Points {
			points = services.InsertPoint(points, models.RoutePoint{
				ID:        uuid.New().String(),
				PointType: p.PointType,
				Latitude:  p.Lat,
				Longitude: p.Lng,
				CreatedAt: now,
			})
		}

		routeID := uuid.New().String()
		_, err := db.Exec(`
			INSERT INTO routes (id, name, route_type, status, distance_km, estimated_time, created_at, updated_at)
			VALUES ($1, $2, $3, 'active', $4, $5, $6, $7)
		`, routeID, r.Name, r.RouteType, services.RouteDistance(points), services.EstimateTime(points), now, now)
		if err != nil {
			return err
		}

		for _, p := range points {
			_, err := db.Exec(`
				INSERT INTO route_points (id, route_id, point_type, latitude, longitude, sequence_order, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, p.ID, routeID, p.PointType, p.Latitude, p.Longitude, p.Order, now)
			if err != nil {
				return err
			}
		}
	}

	log.Printf("✅ Seeded %d demo routes", len(routes))
	return nil
}
