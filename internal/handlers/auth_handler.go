package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/NarendraPapasani/Dental-care-app/internal/database"
	"github.com/NarendraPapasani/Dental-care-app/internal/models"
	"github.com/NarendraPapasani/Dental-care-app/internal/response"
	"github.com/NarendraPapasani/Dental-care-app/internal/utils"
)

type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Please provide username, email and password")
		return
	}

	role := models.RoleCustomer
	if req.Role != "" {
		parsed, ok := models.ParseRole(req.Role)
		if !ok {
			response.Error(c, http.StatusBadRequest, "Invalid role. Must be 'customer' or 'doctor'")
			return
		}
		role = parsed
	}

	ctx := c.Request.Context()
	users := h.DB.Collection(database.Users)

	// Pre-check before hashing; the unique indexes are the real guard.
	count, err := users.CountDocuments(ctx, bson.M{
		"$or": bson.A{bson.M{"email": req.Email}, bson.M{"username": req.Username}},
	})
	if err != nil {
		h.Log.Error().Err(err).Msg("signup: duplicate check failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred during signup")
		return
	}
	if count > 0 {
		response.Error(c, http.StatusBadRequest, "Email or username already exists")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		h.Log.Error().Err(err).Msg("signup: hash failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred during signup")
		return
	}

	now := time.Now().UTC()
	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashed,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := users.InsertOne(ctx, &user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			response.Error(c, http.StatusBadRequest, "Email or username already exists")
			return
		}
		h.Log.Error().Err(err).Msg("signup: insert failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred during signup")
		return
	}
	user.ID = res.InsertedID.(primitive.ObjectID)

	token, err := utils.GenerateToken([]byte(h.Cfg.JWTSecret), user.ID.Hex(), user.Role, user.Email, h.Cfg.JWTExpiry)
	if err != nil {
		h.Log.Error().Err(err).Msg("signup: token generation failed")
		response.Error(c, http.StatusInternalServerError, "Could not generate token")
		return
	}

	response.Auth(c, http.StatusOK, "User registered successfully", token, &user)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Please provide email and password")
		return
	}

	var user models.User
	err := h.DB.Collection(database.Users).FindOne(c.Request.Context(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		// Same message as a bad password so accounts can't be enumerated.
		response.Error(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		response.Error(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken([]byte(h.Cfg.JWTSecret), user.ID.Hex(), user.Role, user.Email, h.Cfg.JWTExpiry)
	if err != nil {
		h.Log.Error().Err(err).Msg("login: token generation failed")
		response.Error(c, http.StatusInternalServerError, "Could not generate token")
		return
	}

	response.Auth(c, http.StatusOK, "Login successful", token, &user)
}
