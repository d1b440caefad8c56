package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Prescription is stored alongside the other collections but no routes
// are wired to it yet.
type Prescription struct {
	ID           primitive.ObjectID       `bson:"_id,omitempty" json:"id"`
	Appointment  primitive.ObjectID       `bson:"appointment" json:"appointment"`
	Patient      primitive.ObjectID       `bson:"patient" json:"patient"`
	Dentist      primitive.ObjectID       `bson:"dentist" json:"dentist"`
	Diagnosis    string                   `bson:"diagnosis" json:"diagnosis"`
	Treatment    string                   `bson:"treatment" json:"treatment"`
	Medications  []Medication             `bson:"medications,omitempty" json:"medications,omitempty"`
	Instructions string                   `bson:"instructions" json:"instructions"`
	FollowUpDate *time.Time               `bson:"followUpDate,omitempty" json:"followUpDate,omitempty"`
	Attachments  []PrescriptionAttachment `bson:"attachments,omitempty" json:"attachments,omitempty"`
	CreatedAt    time.Time                `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time                `bson:"updatedAt" json:"updatedAt"`
}

type Medication struct {
	Name         string `bson:"name" json:"name"`
	Dosage       string `bson:"dosage" json:"dosage"`
	Frequency    string `bson:"frequency" json:"frequency"`
	Duration     string `bson:"duration" json:"duration"`
	Instructions string `bson:"instructions,omitempty" json:"instructions,omitempty"`
}

type PrescriptionAttachment struct {
	Name       string    `bson:"name" json:"name"`
	FileURL    string    `bson:"fileUrl" json:"fileUrl"`
	FileType   string    `bson:"fileType" json:"fileType"`
	UploadDate time.Time `bson:"uploadDate" json:"uploadDate"`
}
