package handlers

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/NarendraPapasani/Dental-care-app/internal/config"
	"github.com/NarendraPapasani/Dental-care-app/internal/database"
	"github.com/NarendraPapasani/Dental-care-app/internal/models"
	"github.com/NarendraPapasani/Dental-care-app/internal/storage"
)

// Handler holds everything the controllers need. One instance serves
// all routes.
type Handler struct {
	DB    *mongo.Database
	Store *storage.Local
	Log   zerolog.Logger
	Cfg   *config.Config
}

func NewHandler(db *mongo.Database, store *storage.Local, log zerolog.Logger, cfg *config.Config) *Handler {
	return &Handler{
		DB:    db,
		Store: store,
		Log:   log,
		Cfg:   cfg,
	}
}

// findUser loads a single user document by id.
func (h *Handler) findUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := h.DB.Collection(database.Users).FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// usersByID fetches the users behind a set of ids in one query, for
// joining public profiles into listings.
func (h *Handler) usersByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	users := make(map[primitive.ObjectID]*models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	cursor, err := h.DB.Collection(database.Users).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var u models.User
		if err := cursor.Decode(&u); err != nil {
			return nil, err
		}
		users[u.ID] = &u
	}
	return users, cursor.Err()
}
