package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"boutique/internal/checkout"
	"boutique/internal/models"
	"boutique/internal/storage"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Register(users *storage.UserStore, profiles *storage.ProfileStore, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/register"
		defer handlePanic(c, route)

		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		username := strings.TrimSpace(req.Username)
		email := strings.ToLower(strings.TrimSpace(req.Email))
		ctx := c.Request.Context()

		taken, err := users.Exists(ctx, username, email)
		if err != nil {
			log.Println("[AUTH] [ERROR] register lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "could not create user")
			return
		}
		if taken {
			respondWithError(c, http.StatusConflict, route, "username or email already in use")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Println("[AUTH] [ERROR] password hash failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "could not create user")
			return
		}

		now := time.Now()
		user := &models.User{
			Username:     username,
			Email:        email,
			PasswordHash: string(hash),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := users.Create(ctx, user); err != nil {
			log.Println("[AUTH] [ERROR] user insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "could not create user")
			return
		}

		// Every account gets a profile row up front so checkout and the
		// webhook engine can attach orders to it immediately.
		profile := &models.UserProfile{Username: username, UpdatedAt: now}
		if err := profiles.Save(ctx, profile); err != nil {
			log.Println("[AUTH] [ERROR] profile bootstrap failed:", err)
		}

		token, err := issueUserToken(user.ID, username, jwtSecret, accessTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] token generation failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "could not create user")
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "user registered",
			"user": gin.H{
				"id":       user.ID.Hex(),
				"username": user.Username,
				"email":    user.Email,
			},
			"accessToken": token,
			"expiresIn":   int64(accessTTL.Seconds()),
		})
	}
}

func Login(users *storage.UserStore, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/login"
		defer handlePanic(c, route)

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx := c.Request.Context()
		user, err := users.FindByUsername(ctx, strings.TrimSpace(req.Username))
		if errors.Is(err, checkout.ErrNotFound) {
			respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
			return
		}
		if err != nil {
			log.Println("[AUTH] [ERROR] login lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "could not log in")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
			return
		}

		token, err := issueUserToken(user.ID, user.Username, jwtSecret, accessTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] token generation failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "could not log in")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"user": gin.H{
				"id":       user.ID.Hex(),
				"username": user.Username,
				"email":    user.Email,
			},
			"accessToken": token,
			"expiresIn":   int64(accessTTL.Seconds()),
		})
	}
}

func issueUserToken(userID primitive.ObjectID, username, secret string, accessTTL time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId":   userID.Hex(),
		"username": username,
		"exp":      time.Now().Add(accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
