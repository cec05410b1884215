package model

import (
	"strings"

	"gorm.io/datatypes"
)

// Patient represents a patient of the practice
// @Description Patient information
type Patient struct {
	Document
	FirstName     string                      `json:"first_name" gorm:"column:first_name;type:varchar(191);not null;index" example:"Jane"`
	LastName      string                      `json:"last_name" gorm:"column:last_name;type:varchar(191);not null;index" example:"Doe"`
	DateOfBirth   CalendarDate                `json:"date_of_birth" gorm:"column:date_of_birth;not null;index" example:"2015-02-20"`
	Email         *string                     `json:"email" gorm:"column:email" example:"parent@example.com"`
	Phone         *string                     `json:"phone" gorm:"column:phone" example:"0612345678"`
	ParentContact *string                     `json:"parent_contact" gorm:"column:parent_contact" example:"John Doe 0698765432"`
	Address       *string                     `json:"address" gorm:"column:address" example:"12 rue des Lilas"`
	Notes         *string                     `json:"notes" gorm:"column:notes;type:text"`
	Tags          datatypes.JSONSlice[string] `json:"tags" gorm:"column:tags"`
}

// FullName joins first and last name for display.
func (p Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// CreatePatientRequest is the payload for registering a patient.
// DateOfBirth accepts DD/MM/YYYY or YYYY-MM-DD.
type CreatePatientRequest struct {
	FirstName     string   `json:"first_name" binding:"required" example:"Jane"`
	LastName      string   `json:"last_name" binding:"required" example:"Doe"`
	DateOfBirth   string   `json:"date_of_birth" binding:"required" example:"20/02/2015"`
	Email         *string  `json:"email,omitempty" example:"parent@example.com"`
	Phone         *string  `json:"phone,omitempty" example:"0612345678"`
	ParentContact *string  `json:"parent_contact,omitempty"`
	Address       *string  `json:"address,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
	Tags          []string `json:"tags,omitempty" example:"motricity,graphism"`
}

// UpdatePatientRequest carries only the fields a caller wants to change.
// A nil field is left untouched.
type UpdatePatientRequest struct {
	FirstName     *string   `json:"first_name,omitempty"`
	LastName      *string   `json:"last_name,omitempty"`
	DateOfBirth   *string   `json:"date_of_birth,omitempty" example:"2015-02-20"`
	Email         *string   `json:"email,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	ParentContact *string   `json:"parent_contact,omitempty"`
	Address       *string   `json:"address,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	Tags          *[]string `json:"tags,omitempty"`
}

// IsEmpty reports whether the request changes nothing.
func (r UpdatePatientRequest) IsEmpty() bool {
	return r.FirstName == nil && r.LastName == nil && r.DateOfBirth == nil &&
		r.Email == nil && r.Phone == nil && r.ParentContact == nil &&
		r.Address == nil && r.Notes == nil && r.Tags == nil
}

// CreatePatientResponse is returned after a patient has been registered.
type CreatePatientResponse struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	AccountCreated bool   `json:"account_created"`
}
