package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestPatientModel_CreateAssignsID(t *testing.T) {
	db := setupTestDB(t, "patient_create", &Patient{})

	patient := Patient{
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: CalendarDate{Year: 2015, Month: time.February, Day: 20},
	}

	err := db.Create(&patient).Error
	require.NoError(t, err)
	assert.Len(t, patient.ID, 36)
}

func TestPatientModel_KeepsCallerID(t *testing.T) {
	db := setupTestDB(t, "patient_keep_id", &Patient{})

	patient := Patient{
		Document:    Document{ID: "fixed-id"},
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: CalendarDate{Year: 2015, Month: time.February, Day: 20},
	}
	require.NoError(t, db.Create(&patient).Error)
	assert.Equal(t, "fixed-id", patient.ID)
}

func TestPatientModel_ReadAllFields(t *testing.T) {
	db := setupTestDB(t, "patient_read", &Patient{})

	patient := Patient{
		FirstName:     "Complete",
		LastName:      "Patient",
		DateOfBirth:   CalendarDate{Year: 2012, Month: time.December, Day: 1},
		Email:         strPtr("complete@test.com"),
		Phone:         strPtr("0612345678"),
		ParentContact: strPtr("Mother 0698765432"),
		Address:       strPtr("12 rue des Lilas"),
		Notes:         strPtr("Handwriting difficulties"),
		Tags:          []string{"graphism", "balance"},
	}
	require.NoError(t, db.Create(&patient).Error)

	var found Patient
	require.NoError(t, db.First(&found, "id = ?", patient.ID).Error)
	assert.Equal(t, "Complete", found.FirstName)
	assert.Equal(t, "Patient", found.LastName)
	assert.Equal(t, "2012-12-01", found.DateOfBirth.String())
	assert.Equal(t, "0612345678", *found.Phone)
	assert.Equal(t, []string{"graphism", "balance"}, []string(found.Tags))
	require.NotNil(t, found.Email)
	assert.Equal(t, "complete@test.com", *found.Email)
}

func TestPatientModel_FindByDateOfBirth(t *testing.T) {
	db := setupTestDB(t, "patient_dob", &Patient{})

	dob := CalendarDate{Year: 2015, Month: time.February, Day: 20}
	require.NoError(t, db.Create(&Patient{FirstName: "A", LastName: "One", DateOfBirth: dob}).Error)
	require.NoError(t, db.Create(&Patient{FirstName: "B", LastName: "Two", DateOfBirth: CalendarDate{Year: 2016, Month: time.March, Day: 1}}).Error)

	var matches []Patient
	require.NoError(t, db.Where("date_of_birth = ?", dob).Find(&matches).Error)
	require.Len(t, matches, 1)
	assert.Equal(t, "One", matches[0].LastName)
}

func TestPatientModel_Delete(t *testing.T) {
	db := setupTestDB(t, "patient_delete", &Patient{})

	patient := Patient{FirstName: "Delete", LastName: "Test", DateOfBirth: CalendarDate{Year: 2010, Month: time.January, Day: 1}}
	require.NoError(t, db.Create(&patient).Error)

	require.NoError(t, db.Delete(&patient).Error)

	var found Patient
	err := db.First(&found, "id = ?", patient.ID).Error
	assert.Error(t, err)
}

func TestPatient_FullName(t *testing.T) {
	assert.Equal(t, "Jane Doe", Patient{FirstName: "Jane", LastName: "Doe"}.FullName())
	assert.Equal(t, "Doe", Patient{LastName: "Doe"}.FullName())
}

func TestUpdatePatientRequest_IsEmpty(t *testing.T) {
	assert.True(t, UpdatePatientRequest{}.IsEmpty())
	assert.False(t, UpdatePatientRequest{Notes: strPtr("")}.IsEmpty())
	tags := []string{}
	assert.False(t, UpdatePatientRequest{Tags: &tags}.IsEmpty())
}
