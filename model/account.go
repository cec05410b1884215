package model

// Account is a login identity for a patient or the practitioner.
// PasswordHash never leaves the server.
type Account struct {
	Document
	Username     string  `json:"username" gorm:"column:username;type:varchar(191);not null;uniqueIndex" example:"j.doe"`
	PasswordHash string  `json:"-" gorm:"column:password_hash;type:varchar(64);not null"`
	Role         Role    `json:"role" gorm:"column:role;type:varchar(16);not null;default:patient" example:"patient"`
	PatientID    *string `json:"patient_id" gorm:"column:patient_id;type:varchar(36);index"`
	Name         *string `json:"name" gorm:"column:name" example:"Jane Doe"`
	Email        *string `json:"email" gorm:"column:email" example:"parent@example.com"`
}

// AccountPublic is the outward representation of an Account.
type AccountPublic struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Role      Role    `json:"role"`
	PatientID *string `json:"patient_id,omitempty"`
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// Public strips the credential fields.
func (a Account) Public() AccountPublic {
	return AccountPublic{
		ID:        a.ID,
		Username:  a.Username,
		Role:      a.Role,
		PatientID: a.PatientID,
		Name:      a.Name,
		Email:     a.Email,
	}
}

// ResetPasswordRequest asks for the default password to be re-derived.
type ResetPasswordRequest struct {
	LastName    string `json:"last_name" binding:"required" example:"Doe"`
	DateOfBirth string `json:"date_of_birth" binding:"required" example:"20/02/2015"`
}

// AllModels lists every model the schema migration must create.
func AllModels() []interface{} {
	return []interface{}{&Patient{}, &Session{}, &Account{}}
}
