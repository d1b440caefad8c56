package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of account types. Nothing else is ever stored;
// client-supplied roles are validated at signup.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleDoctor   Role = "doctor"
)

// ParseRole validates a client-supplied role string.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCustomer, RoleDoctor:
		return Role(s), true
	}
	return "", false
}

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username       string             `bson:"username" json:"username"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password" json:"-"` // Hide from JSON responses
	Role           Role               `bson:"role" json:"role"`
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`
	ProfilePicture string             `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	Specialization string             `bson:"specialization,omitempty" json:"specialization,omitempty"`
	Experience     string             `bson:"experience,omitempty" json:"experience,omitempty"`
	MedicalHistory string             `bson:"medicalHistory,omitempty" json:"medicalHistory,omitempty"`
	Allergies      string             `bson:"allergies,omitempty" json:"allergies,omitempty"`
	DateOfBirth    *time.Time         `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DentistView is the public projection joined into a patient's
// appointments and documents.
type DentistView struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	Username       string             `bson:"username" json:"username"`
	ProfilePicture string             `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	Specialization string             `bson:"specialization,omitempty" json:"specialization,omitempty"`
	Experience     string             `bson:"experience,omitempty" json:"experience,omitempty"`
}

// PatientView is the public projection joined into a dentist's
// appointments and documents.
type PatientView struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	Username       string             `bson:"username" json:"username"`
	ProfilePicture string             `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	DateOfBirth    *time.Time         `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	MedicalHistory string             `bson:"medicalHistory,omitempty" json:"medicalHistory,omitempty"`
	Allergies      string             `bson:"allergies,omitempty" json:"allergies,omitempty"`
}

func (u *User) Dentist() DentistView {
	return DentistView{
		ID:             u.ID,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
		Specialization: u.Specialization,
		Experience:     u.Experience,
	}
}

func (u *User) Patient() PatientView {
	return PatientView{
		ID:             u.ID,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
		DateOfBirth:    u.DateOfBirth,
		MedicalHistory: u.MedicalHistory,
		Allergies:      u.Allergies,
	}
}
