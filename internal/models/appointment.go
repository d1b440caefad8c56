package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// ParseStatus validates a client-supplied status string.
func ParseStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return AppointmentStatus(s), true
	}
	return "", false
}

// CanTransition reports whether an appointment may move from one status
// to another. Completed and cancelled are terminal.
func (from AppointmentStatus) CanTransition(to AppointmentStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusCancelled
	}
	return false
}

type Appointment struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Patient            primitive.ObjectID `bson:"patient" json:"patient"`
	Dentist            primitive.ObjectID `bson:"dentist" json:"dentist"`
	AppointmentDate    time.Time          `bson:"appointmentDate" json:"appointmentDate"`
	TimeSlot           string             `bson:"timeSlot" json:"timeSlot"`
	Status             AppointmentStatus  `bson:"status" json:"status"`
	DentalIssue        string             `bson:"dentalIssue" json:"dentalIssue"`
	PainLevel          int                `bson:"painLevel" json:"painLevel"`
	Symptoms           string             `bson:"symptoms" json:"symptoms"`
	IssueStartDate     *time.Time         `bson:"issueStartDate,omitempty" json:"issueStartDate,omitempty"`
	PreviousTreatments string             `bson:"previousTreatments,omitempty" json:"previousTreatments,omitempty"`
	Notes              string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PatientAppointment is an appointment as returned to the patient, with
// the dentist's public profile joined in.
type PatientAppointment struct {
	Appointment `bson:",inline"`
	DentistInfo *DentistView `bson:"dentistInfo,omitempty" json:"dentistInfo,omitempty"`
}

// DentistAppointment is an appointment as returned to the dentist, with
// the patient's public profile joined in.
type DentistAppointment struct {
	Appointment `bson:",inline"`
	PatientInfo *PatientView `bson:"patientInfo,omitempty" json:"patientInfo,omitempty"`
}

// AppointmentDetail carries both joins for the single-record endpoint.
type AppointmentDetail struct {
	Appointment `bson:",inline"`
	PatientInfo *PatientView `bson:"patientInfo,omitempty" json:"patientInfo,omitempty"`
	DentistInfo *DentistView `bson:"dentistInfo,omitempty" json:"dentistInfo,omitempty"`
}
