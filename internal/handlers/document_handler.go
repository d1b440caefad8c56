package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NarendraPapasani/Dental-care-app/internal/database"
	"github.com/NarendraPapasani/Dental-care-app/internal/middleware"
	"github.com/NarendraPapasani/Dental-care-app/internal/models"
	"github.com/NarendraPapasani/Dental-care-app/internal/response"
	"github.com/NarendraPapasani/Dental-care-app/internal/storage"
)

// UploadDocument stores a dentist's file on disk first, then the record.
// If the insert fails the stored file is removed again, so a record
// never points at bytes that were never written.
func (h *Handler) UploadDocument(c *gin.Context) {
	file, err := c.FormFile("document")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "No file uploaded")
		return
	}

	if file.Size > h.Cfg.MaxUploadBytes {
		response.Error(c, http.StatusBadRequest, "File too large. Maximum size is 10MB")
		return
	}
	mime := file.Header.Get("Content-Type")
	if !storage.AllowedType(mime) {
		response.Error(c, http.StatusBadRequest, "Only images (JPEG, PNG, GIF) and PDF files are allowed")
		return
	}

	patientID, err := primitive.ObjectIDFromHex(c.PostForm("patientId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid or missing patientId")
		return
	}

	var appointmentID *primitive.ObjectID
	if raw := c.PostForm("appointmentId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid appointmentId")
			return
		}
		appointmentID = &id
	}

	category, ok := models.ParseCategory(c.PostForm("category"))
	if !ok {
		response.Error(c, http.StatusBadRequest, "Invalid category. Must be 'xray', 'report', 'prescription' or 'other'")
		return
	}

	userID, _ := middleware.Identity(c)
	dentistID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Invalid user ID in token")
		return
	}

	src, err := file.Open()
	if err != nil {
		h.Log.Error().Err(err).Msg("open uploaded file failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred while uploading document")
		return
	}
	defer src.Close()

	fileURL, err := h.Store.Save(file.Filename, src)
	if err != nil {
		h.Log.Error().Err(err).Msg("store uploaded file failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred while uploading document")
		return
	}

	name := c.PostForm("name")
	if name == "" {
		name = file.Filename
	}

	now := time.Now().UTC()
	doc := models.Document{
		Name:         name,
		OriginalName: file.Filename,
		FileURL:      fileURL,
		FileType:     mime,
		FileSize:     file.Size,
		Patient:      patientID,
		Dentist:      dentistID,
		Appointment:  appointmentID,
		Description:  c.PostForm("description"),
		Category:     category,
		IsShared:     true,
		UploadDate:   now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	res, err := h.DB.Collection(database.Documents).InsertOne(c.Request.Context(), &doc)
	if err != nil {
		// Roll the file back so no orphaned bytes survive a failed insert.
		if rmErr := h.Store.Remove(fileURL); rmErr != nil {
			h.Log.Error().Err(rmErr).Str("fileUrl", fileURL).Msg("rollback of stored file failed")
		}
		h.Log.Error().Err(err).Msg("insert document failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred while uploading document")
		return
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)

	response.OK(c, http.StatusCreated, "Document uploaded successfully", &doc)
}

func (h *Handler) GetPatientDocuments(c *gin.Context) {
	userID, _ := middleware.Identity(c)
	patientID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Invalid user ID in token")
		return
	}

	ctx := c.Request.Context()
	docs, err := h.listDocuments(ctx, bson.M{"patient": patientID})
	if err != nil {
		h.Log.Error().Err(err).Msg("list patient documents failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred while fetching documents")
		return
	}

	dentists := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		dentists = append(dentists, d.Dentist)
	}
	users, err := h.usersByID(ctx, dentists)
	if err != nil {
		h.Log.Error().Err(err).Msg("join dentists failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred while fetching documents")
		return
	}

	out := make([]models.PatientDocument, 0, len(docs))
	for _, d := range docs {
		pd := models.PatientDocument{Document: d}
		if u, ok := users[d.Dentist]; ok {
			v := u.Dentist()
			pd.DentistInfo = &v
		}
		out = append(out, pd)
	}

	response.List(c, http.StatusOK, len(out), out)
}

func (h *Handler) GetDentistDocuments(c *gin.Context) {
	userID, _ := middleware.Identity(c)
	dentistID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Invalid user ID in token")
		return
	}

	ctx := c.Request.Context()
	docs, err := h.listDocuments(ctx, bson.M{"dentist": dentistID})
	if err != nil {
		h.Log.Error().Err(err).Msg("list dentist documents failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred while fetching documents")
		return
	}

	patients := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		patients = append(patients, d.Patient)
	}
	users, err := h.usersByID(ctx, patients)
	if err != nil {
		h.Log.Error().Err(err).Msg("join patients failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred while fetching documents")
		return
	}

	out := make([]models.DentistDocument, 0, len(docs))
	for _, d := range docs {
		dd := models.DentistDocument{Document: d}
		if u, ok := users[d.Patient]; ok {
			v := u.Patient()
			dd.PatientInfo = &v
		}
		out = append(out, dd)
	}

	response.List(c, http.StatusOK, len(out), out)
}

func (h *Handler) GetAppointmentDocuments(c *gin.Context) {
	aptID, err := primitive.ObjectIDFromHex(c.Param("appointmentId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid appointment ID")
		return
	}

	ctx := c.Request.Context()
	docs, err := h.listDocuments(ctx, bson.M{"appointment": aptID})
	if err != nil {
		h.Log.Error().Err(err).Msg("list appointment documents failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred while fetching documents")
		return
	}

	ids := make([]primitive.ObjectID, 0, len(docs)*2)
	for _, d := range docs {
		ids = append(ids, d.Patient, d.Dentist)
	}
	users, err := h.usersByID(ctx, ids)
	if err != nil {
		h.Log.Error().Err(err).Msg("join document parties failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred while fetching documents")
		return
	}

	out := make([]models.AppointmentDocument, 0, len(docs))
	for _, d := range docs {
		ad := models.AppointmentDocument{Document: d}
		if u, ok := users[d.Patient]; ok {
			v := u.Patient()
			ad.PatientInfo = &v
		}
		if u, ok := users[d.Dentist]; ok {
			v := u.Dentist()
			ad.DentistInfo = &v
		}
		out = append(out, ad)
	}

	response.List(c, http.StatusOK, len(out), out)
}

func (h *Handler) DownloadDocument(c *gin.Context) {
	docID, err := primitive.ObjectIDFromHex(c.Param("documentId"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "Document not found")
		return
	}

	var doc models.Document
	if err := h.DB.Collection(database.Documents).FindOne(c.Request.Context(), bson.M{"_id": docID}).Decode(&doc); err != nil {
		response.Error(c, http.StatusNotFound, "Document not found")
		return
	}

	userID, _ := middleware.Identity(c)
	callerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil || (callerID != doc.Patient && callerID != doc.Dentist) {
		response.Error(c, http.StatusForbidden, "You are not authorized to download this document")
		return
	}

	path, ok := h.Store.Path(doc.FileURL)
	if !ok || !h.Store.Exists(doc.FileURL) {
		response.Error(c, http.StatusNotFound, "File not found on server")
		return
	}

	c.FileAttachment(path, doc.OriginalName)
}

// DeleteDocument removes the disk file first, then the record. A file
// already missing on disk is tolerated, mirroring download's existence
// check for the opposite crash window.
func (h *Handler) DeleteDocument(c *gin.Context) {
	docID, err := primitive.ObjectIDFromHex(c.Param("documentId"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "Document not found")
		return
	}

	ctx := c.Request.Context()
	collection := h.DB.Collection(database.Documents)

	var doc models.Document
	if err := collection.FindOne(ctx, bson.M{"_id": docID}).Decode(&doc); err != nil {
		response.Error(c, http.StatusNotFound, "Document not found")
		return
	}

	userID, _ := middleware.Identity(c)
	callerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil || callerID != doc.Dentist {
		response.Error(c, http.StatusForbidden, "You are not authorized to delete this document")
		return
	}

	if err := h.Store.Remove(doc.FileURL); err != nil {
		h.Log.Error().Err(err).Str("fileUrl", doc.FileURL).Msg("remove stored file failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred while deleting document")
		return
	}

	if _, err := collection.DeleteOne(ctx, bson.M{"_id": docID}); err != nil {
		h.Log.Error().Err(err).Msg("delete document record failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred while deleting document")
		return
	}

	response.OK(c, http.StatusOK, "Document deleted successfully", nil)
}

func (h *Handler) listDocuments(ctx context.Context, filter bson.M) ([]models.Document, error) {
	cursor, err := h.DB.Collection(database.Documents).Find(
		ctx,
		filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make([]models.Document, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
