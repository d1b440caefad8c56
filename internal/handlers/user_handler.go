package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NarendraPapasani/Dental-care-app/internal/database"
	"github.com/NarendraPapasani/Dental-care-app/internal/middleware"
	"github.com/NarendraPapasani/Dental-care-app/internal/models"
	"github.com/NarendraPapasani/Dental-care-app/internal/response"
)

// Me returns the authenticated caller's own profile.
func (h *Handler) Me(c *gin.Context) {
	userID, _ := middleware.Identity(c)
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Invalid user ID in token")
		return
	}

	user, err := h.findUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusNotFound, "User not found")
		return
	}

	response.OK(c, http.StatusOK, "", user)
}

func (h *Handler) GetUserProfile(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.findUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusNotFound, "User not found")
		return
	}

	response.OK(c, http.StatusOK, "", user)
}

// UpdateProfileRequest lists the fields a profile update may touch.
// Password and role have no seat here on purpose.
type UpdateProfileRequest struct {
	Username       *string    `json:"username,omitempty"`
	Email          *string    `json:"email,omitempty"`
	Phone          *string    `json:"phone,omitempty"`
	ProfilePicture *string    `json:"profilePicture,omitempty"`
	Specialization *string    `json:"specialization,omitempty"`
	Experience     *string    `json:"experience,omitempty"`
	MedicalHistory *string    `json:"medicalHistory,omitempty"`
	Allergies      *string    `json:"allergies,omitempty"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
}

func (h *Handler) UpdateUserProfile(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	set := bson.M{}
	if req.Username != nil {
		set["username"] = *req.Username
	}
	if req.Email != nil {
		set["email"] = *req.Email
	}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}
	if req.ProfilePicture != nil {
		set["profilePicture"] = *req.ProfilePicture
	}
	if req.Specialization != nil {
		set["specialization"] = *req.Specialization
	}
	if req.Experience != nil {
		set["experience"] = *req.Experience
	}
	if req.MedicalHistory != nil {
		set["medicalHistory"] = *req.MedicalHistory
	}
	if req.Allergies != nil {
		set["allergies"] = *req.Allergies
	}
	if req.DateOfBirth != nil {
		set["dateOfBirth"] = *req.DateOfBirth
	}

	if len(set) == 0 {
		response.Error(c, http.StatusBadRequest, "No update fields provided")
		return
	}
	set["updatedAt"] = time.Now().UTC()

	var updated models.User
	err = h.DB.Collection(database.Users).FindOneAndUpdate(
		c.Request.Context(),
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.Error(c, http.StatusNotFound, "User not found")
			return
		}
		if mongo.IsDuplicateKeyError(err) {
			response.Error(c, http.StatusBadRequest, "Email or username already exists")
			return
		}
		h.Log.Error().Err(err).Msg("update profile failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred while updating profile")
		return
	}

	response.OK(c, http.StatusOK, "Profile updated successfully", &updated)
}

func (h *Handler) GetUsersByRole(c *gin.Context) {
	role, ok := models.ParseRole(c.Param("role"))
	if !ok {
		response.Error(c, http.StatusBadRequest, "Invalid role parameter. Must be 'doctor' or 'customer'")
		return
	}

	ctx := c.Request.Context()
	cursor, err := h.DB.Collection(database.Users).Find(
		ctx,
		bson.M{"role": role},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		h.Log.Error().Err(err).Msg("list users by role failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred while fetching users")
		return
	}
	defer cursor.Close(ctx)

	users := make([]models.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		h.Log.Error().Err(err).Msg("decode users failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred while fetching users")
		return
	}

	response.List(c, http.StatusOK, len(users), users)
}
