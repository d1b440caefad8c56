package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DocumentCategory string

const (
	CategoryXray         DocumentCategory = "xray"
	CategoryReport       DocumentCategory = "report"
	CategoryPrescription DocumentCategory = "prescription"
	CategoryOther        DocumentCategory = "other"
)

// ParseCategory validates a client-supplied category, falling back to
// "other" when none is given.
func ParseCategory(s string) (DocumentCategory, bool) {
	if s == "" {
		return CategoryOther, true
	}
	switch DocumentCategory(s) {
	case CategoryXray, CategoryReport, CategoryPrescription, CategoryOther:
		return DocumentCategory(s), true
	}
	return "", false
}

type Document struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name         string              `bson:"name" json:"name"`
	OriginalName string              `bson:"originalName" json:"originalName"`
	FileURL      string              `bson:"fileUrl" json:"fileUrl"`
	FileType     string              `bson:"fileType" json:"fileType"`
	FileSize     int64               `bson:"fileSize" json:"fileSize"`
	Patient      primitive.ObjectID  `bson:"patient" json:"patient"`
	Dentist      primitive.ObjectID  `bson:"dentist" json:"dentist"`
	Appointment  *primitive.ObjectID `bson:"appointment,omitempty" json:"appointment,omitempty"`
	Description  string              `bson:"description,omitempty" json:"description,omitempty"`
	Category     DocumentCategory    `bson:"category" json:"category"`
	IsShared     bool                `bson:"isShared" json:"isShared"`
	UploadDate   time.Time           `bson:"uploadDate" json:"uploadDate"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// PatientDocument joins the uploading dentist's name for patient listings.
type PatientDocument struct {
	Document    `bson:",inline"`
	DentistInfo *DentistView `bson:"dentistInfo,omitempty" json:"dentistInfo,omitempty"`
}

// DentistDocument joins the patient's name for dentist listings.
type DentistDocument struct {
	Document    `bson:",inline"`
	PatientInfo *PatientView `bson:"patientInfo,omitempty" json:"patientInfo,omitempty"`
}

// AppointmentDocument carries both joins for per-appointment listings.
type AppointmentDocument struct {
	Document    `bson:",inline"`
	PatientInfo *PatientView `bson:"patientInfo,omitempty" json:"patientInfo,omitempty"`
	DentistInfo *DentistView `bson:"dentistInfo,omitempty" json:"dentistInfo,omitempty"`
}
