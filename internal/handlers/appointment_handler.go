package handlers

import (
	"context"
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

type CreateAppointmentRequest struct {
	DentistID          string     `json:"dentistId" binding:"required"`
	AppointmentDate    time.Time  `json:"appointmentDate" binding:"required"`
	TimeSlot           string     `json:"timeSlot" binding:"required"`
	DentalIssue        string     `json:"dentalIssue" binding:"required"`
	PainLevel          int        `json:"painLevel" binding:"required,min=1,max=10"`
	Symptoms           string     `json:"symptoms" binding:"required"`
	IssueStartDate     *time.Time `json:"issueStartDate,omitempty"`
	PreviousTreatments string     `json:"previousTreatments,omitempty"`
	Notes              string     `json:"notes,omitempty"`
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	userID, _ := middleware.Identity(c)
	patientID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Invalid user ID in token")
		return
	}

	dentistID, err := primitive.ObjectIDFromHex(req.DentistID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "Dentist not found")
		return
	}

	ctx := c.Request.Context()

	// The referenced dentist must exist and actually be a doctor.
	count, err := h.DB.Collection(database.Users).CountDocuments(ctx, bson.M{
		"_id":  dentistID,
		"role": models.RoleDoctor,
	})
	if err != nil {
		h.Log.Error().Err(err).Msg("dentist lookup failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred while creating appointment")
		return
	}
	if count == 0 {
		response.Error(c, http.StatusNotFound, "Dentist not found")
		return
	}

	now := time.Now().UTC()
	apt := models.Appointment{
		Patient:            patientID,
		Dentist:            dentistID,
		AppointmentDate:    req.AppointmentDate,
		TimeSlot:           req.TimeSlot,
		Status:             models.StatusPending,
		DentalIssue:        req.DentalIssue,
		PainLevel:          req.PainLevel,
		Symptoms:           req.Symptoms,
		IssueStartDate:     req.IssueStartDate,
		PreviousTreatments: req.PreviousTreatments,
		Notes:              req.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	res, err := h.DB.Collection(database.Appointments).InsertOne(ctx, &apt)
	if err != nil {
		h.Log.Error().Err(err).Msg("create appointment failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred while creating appointment")
		return
	}
	apt.ID = res.InsertedID.(primitive.ObjectID)

	response.OK(c, http.StatusCreated, "Appointment created successfully", &apt)
}

// GetPatientAppointments lists the caller's own bookings, dentist
// profile joined in, soonest first.
func (h *Handler) GetPatientAppointments(c *gin.Context) {
	userID, _ := middleware.Identity(c)
	patientID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Invalid user ID in token")
		return
	}

	ctx := c.Request.Context()
	appointments, err := h.listAppointments(ctx, bson.M{"patient": patientID})
	if err != nil {
		h.Log.Error().Err(err).Msg("list patient appointments failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred while fetching appointments")
		return
	}

	dentists := make([]primitive.ObjectID, 0, len(appointments))
	for _, a := range appointments {
		dentists = append(dentists, a.Dentist)
	}
	users, err := h.usersByID(ctx, dentists)
	if err != nil {
		h.Log.Error().Err(err).Msg("join dentists failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred while fetching appointments")
		return
	}

	out := make([]models.PatientAppointment, 0, len(appointments))
	for _, a := range appointments {
		pa := models.PatientAppointment{Appointment: a}
		if u, ok := users[a.Dentist]; ok {
			v := u.Dentist()
			pa.DentistInfo = &v
		}
		out = append(out, pa)
	}

	response.List(c, http.StatusOK, len(out), out)
}

// GetDentistAppointments lists bookings assigned to the calling dentist,
// patient profile joined in, soonest first.
func (h *Handler) GetDentistAppointments(c *gin.Context) {
	userID, _ := middleware.Identity(c)
	dentistID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Invalid user ID in token")
		return
	}

	ctx := c.Request.Context()
	appointments, err := h.listAppointments(ctx, bson.M{"dentist": dentistID})
	if err != nil {
		h.Log.Error().Err(err).Msg("list dentist appointments failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred while fetching appointments")
		return
	}

	patients := make([]primitive.ObjectID, 0, len(appointments))
	for _, a := range appointments {
		patients = append(patients, a.Patient)
	}
	users, err := h.usersByID(ctx, patients)
	if err != nil {
		h.Log.Error().Err(err).Msg("join patients failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred while fetching appointments")
		return
	}

	out := make([]models.DentistAppointment, 0, len(appointments))
	for _, a := range appointments {
		da := models.DentistAppointment{Appointment: a}
		if u, ok := users[a.Patient]; ok {
			v := u.Patient()
			da.PatientInfo = &v
		}
		out = append(out, da)
	}

	response.List(c, http.StatusOK, len(out), out)
}

func (h *Handler) listAppointments(ctx context.Context, filter bson.M) ([]models.Appointment, error) {
	cursor, err := h.DB.Collection(database.Appointments).Find(
		ctx,
		filter,
		options.Find().SetSort(bson.D{{Key: "appointmentDate", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	appointments := make([]models.Appointment, 0)
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	aptID, err := primitive.ObjectIDFromHex(c.Param("appointmentId"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "Appointment not found")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	status, ok := models.ParseStatus(req.Status)
	if !ok {
		response.Error(c, http.StatusBadRequest, "Invalid status. Must be 'pending', 'confirmed', 'completed', or 'cancelled'")
		return
	}

	ctx := c.Request.Context()
	collection := h.DB.Collection(database.Appointments)

	var apt models.Appointment
	if err := collection.FindOne(ctx, bson.M{"_id": aptID}).Decode(&apt); err != nil {
		response.Error(c, http.StatusNotFound, "Appointment not found")
		return
	}

	userID, role := middleware.Identity(c)
	callerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Invalid user ID in token")
		return
	}

	// Only the parties to the appointment may touch its status, and a
	// patient may do nothing but cancel a pending booking.
	switch callerID {
	case apt.Dentist:
	case apt.Patient:
		if role == models.RoleCustomer && (status != models.StatusCancelled || apt.Status != models.StatusPending) {
			response.Error(c, http.StatusForbidden, "Patients may only cancel appointments that are still pending")
			return
		}
	default:
		response.Error(c, http.StatusForbidden, "You are not authorized to update this appointment")
		return
	}

	if !apt.Status.CanTransition(status) {
		response.Error(c, http.StatusBadRequest, "Cannot change appointment from '"+string(apt.Status)+"' to '"+string(status)+"'")
		return
	}

	var updated models.Appointment
	err = collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": aptID},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.Error(c, http.StatusNotFound, "Appointment not found")
			return
		}
		h.Log.Error().Err(err).Msg("update appointment status failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred while updating appointment status")
		return
	}

	response.OK(c, http.StatusOK, "Appointment status updated successfully", &updated)
}

func (h *Handler) GetAppointmentByID(c *gin.Context) {
	aptID, err := primitive.ObjectIDFromHex(c.Param("appointmentId"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "Appointment not found")
		return
	}

	ctx := c.Request.Context()

	var apt models.Appointment
	if err := h.DB.Collection(database.Appointments).FindOne(ctx, bson.M{"_id": aptID}).Decode(&apt); err != nil {
		response.Error(c, http.StatusNotFound, "Appointment not found")
		return
	}

	userID, _ := middleware.Identity(c)
	callerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil || (callerID != apt.Patient && callerID != apt.Dentist) {
		response.Error(c, http.StatusForbidden, "You are not authorized to view this appointment")
		return
	}

	users, err := h.usersByID(ctx, []primitive.ObjectID{apt.Patient, apt.Dentist})
	if err != nil {
		h.Log.Error().Err(err).Msg("join appointment parties failed")
		response.Error(c, http.StatusInternalServerError, "An error occurred while fetching appointment")
		return
	}

	detail := models.AppointmentDetail{Appointment: apt}
	if u, ok := users[apt.Patient]; ok {
		v := u.Patient()
		detail.PatientInfo = &v
	}
	if u, ok := users[apt.Dentist]; ok {
		v := u.Dentist()
		detail.DentistInfo = &v
	}

	response.OK(c, http.StatusOK, "", &detail)
}
