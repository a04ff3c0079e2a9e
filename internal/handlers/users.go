package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"fleetops-backend/internal/middleware"
	"fleetops-backend/internal/models"
	"fleetops-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// GetUsers returns all users without password hashes
func GetUsers(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var users []models.User
		if err := db.Select(&users, "SELECT * FROM users ORDER BY name ASC"); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch users")
			return
		}

		responses := make([]models.UserResponse, len(users))
		for i := range users {
			responses[i] = users[i].ToUserResponse()
		}

		utils.Success(w, responses)
	}
}

// CreateUser registers a new user account
func CreateUser(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Email == "" || req.Password == "" || req.Name == "" {
			utils.RespondError(w, http.StatusBadRequest, "Missing required fields: email, password and name")
			return
		}
		if req.Role != "driver" && req.Role != "admin" {
			utils.RespondError(w, http.StatusBadRequest, "Role must be driver or admin")
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}

		id := uuid.New().String()
		now := time.Now().Unix()

		_, err = db.Exec(`
			INSERT INTO users (id, email, password, name, role, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, id, req.Email, string(hashedPassword), req.Name, req.Role, now, now)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}

		log.Printf("👤 User created: %s (%s)", req.Email, req.Role)

		var user models.User
		if err := db.Get(&user, "SELECT * FROM users WHERE id = $1", id); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch created user")
			return
		}

		utils.RespondJSON(w, http.StatusCreated, user.ToUserResponse())
	}
}

// RegisterFCMToken stores or refreshes a device push token for the
// authenticated user
func RegisterFCMToken(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req models.RegisterFCMTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Token == "" {
			utils.RespondError(w, http.StatusBadRequest, "Token is required")
			return
		}
		if req.DeviceType != "ios" && req.DeviceType != "android" {
			utils.RespondError(w, http.StatusBadRequest, "device_type must be ios or android")
			return
		}

		now := time.Now().Unix()
		_, err := db.Exec(`
			INSERT INTO fcm_tokens (user_id, token, device_type, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (token) DO UPDATE SET user_id = $1, device_type = $3, updated_at = $5
		`, claims.UserID, req.Token, req.DeviceType, now, now)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to register token")
			return
		}

		log.Printf("📱 FCM token registered for user %s (%s)", claims.UserID, req.DeviceType)

		utils.Success(w, map[string]bool{"ok": true})
	}
}
