package endpoint

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ariebrainware/practice-records/middleware"
	"github.com/ariebrainware/practice-records/model"
	"github.com/ariebrainware/practice-records/store"
	"github.com/ariebrainware/practice-records/util"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// nameFilter matches q against first or last name, ignoring case.
func nameFilter(q string) store.Filter {
	q = strings.TrimSpace(q)
	if q == "" {
		return store.All()
	}
	return store.AnyOf(
		store.CaseInsensitiveMatch("first_name", q),
		store.CaseInsensitiveMatch("last_name", q),
	)
}

// ListPatients godoc
// @Summary      List all patients
// @Description  List patients sorted by last name, optionally filtered by name
// @Tags         Patient
// @Produce      json
// @Param        q query string false "Case-insensitive match on first or last name"
// @Success      200 {object} util.APIResponse{data=object} "Patients retrieved"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/patients [get]
func ListPatients(c *gin.Context) {
	repos, ok := openRepositories(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	patients, err := repos.patients.FindMany(ctx, nameFilter(c.Query("q")), store.SortBy("last_name", store.Ascending))
	if err != nil {
		respondError(c, "Failed to retrieve patients", err)
		return
	}
	total, err := repos.patients.Count(ctx, store.All())
	if err != nil {
		respondError(c, "Failed to count patients", err)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Patients retrieved",
		Data: map[string]interface{}{
			"total":         total,
			"total_fetched": len(patients),
			"patients":      patients,
		},
	})
}

// GetPatientInfo godoc
// @Summary      Get patient information
// @Tags         Patient
// @Produce      json
// @Param        id path string true "Patient ID"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient retrieved"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/patients/{id} [get]
func GetPatientInfo(c *gin.Context) {
	repos, ok := openRepositories(c)
	if !ok {
		return
	}
	patient, err := repos.patients.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Patient not found", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Patient retrieved",
		Data: patient,
	})
}

func buildPatientModel(req model.CreatePatientRequest, dob model.CalendarDate) (model.Patient, error) {
	firstName := util.NormalizeName(req.FirstName)
	lastName := util.NormalizeName(req.LastName)
	if firstName == "" || lastName == "" {
		return model.Patient{}, errBlankName
	}
	return model.Patient{
		FirstName:     firstName,
		LastName:      lastName,
		DateOfBirth:   dob,
		Email:         optionalText(req.Email),
		Phone:         optionalText(req.Phone),
		ParentContact: optionalText(req.ParentContact),
		Address:       optionalText(req.Address),
		Notes:         optionalText(req.Notes),
		Tags:          datatypes.JSONSlice[string](util.NormalizeTags(req.Tags)),
	}, nil
}

// provisionAccount gives the patient a login with the default password. A
// patient account left unlinked by a deleted patient is reclaimed; any other
// account holding the derived username makes this a no-op. It reports whether
// the patient ended up with a login.
func provisionAccount(ctx context.Context, accounts *store.Collection[model.Account], patient model.Patient, username, compactDOB string) (bool, error) {
	patientID := patient.ID
	name := patient.FullName()
	hash := util.HashPassword(util.DeriveDefaultPassword(patient.LastName, compactDOB))

	existing, err := accounts.FindOne(ctx, store.Equals("username", username))
	if err == nil {
		if existing.Role != model.RolePatient || existing.PatientID != nil {
			return false, nil
		}
		matched, err := accounts.UpdateOne(ctx, store.Equals("id", existing.ID), map[string]interface{}{
			"patient_id":    patientID,
			"password_hash": hash,
			"name":          name,
			"email":         patient.Email,
		})
		if err != nil {
			return false, fmt.Errorf("relink account %q: %w", username, err)
		}
		return matched == 1, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, fmt.Errorf("lookup account %q: %w", username, err)
	}

	account := model.Account{
		Username:     username,
		PasswordHash: hash,
		Role:         model.RolePatient,
		PatientID:    &patientID,
		Name:         &name,
		Email:        patient.Email,
	}
	if _, err := accounts.InsertOne(ctx, &account); err != nil {
		// Lost the race against a concurrent insert of the same username.
		if errors.Is(err, store.ErrDuplicate) {
			return false, nil
		}
		return false, fmt.Errorf("create account %q: %w", username, err)
	}
	return true, nil
}

// CreatePatient godoc
// @Summary      Create a new patient
// @Description  Register a patient and provision a default login when the derived username is free
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Param        request body model.CreatePatientRequest true "Patient information"
// @Success      200 {object} util.APIResponse{data=model.CreatePatientResponse} "Patient created"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/patients [post]
func CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	dob, compactDOB, err := util.NormalizeDate(req.DateOfBirth)
	if err != nil {
		respondError(c, "date_of_birth must be DD/MM/YYYY or YYYY-MM-DD", err)
		return
	}
	patient, err := buildPatientModel(req, dob)
	if err != nil {
		respondError(c, "Invalid patient name", err)
		return
	}

	repos, ok := openRepositories(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	rec := middleware.GetRecorder(c)

	id, err := repos.patients.InsertOne(ctx, &patient)
	if err != nil {
		respondError(c, "Failed to create patient", err)
		return
	}
	rec.RecordPatientCreated()

	username := util.DeriveUsername(patient.FirstName, patient.LastName)
	created, err := provisionAccount(ctx, repos.accounts, patient, username, compactDOB)
	if err != nil {
		// The patient is already stored at this point.
		respondError(c, fmt.Sprintf("Patient %s created but account provisioning failed", id), err)
		return
	}
	rec.RecordAccountProvisioned(created)

	details := map[string]interface{}{"patient_id": id, "username": username}
	if created {
		util.LogEvent(requestEvent(c, util.EventAccountCreated, "Default account created", details))
	} else {
		util.LogEvent(requestEvent(c, util.EventAccountSkipped, "Account provisioning skipped: username already taken", details))
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Patient created",
		Data: model.CreatePatientResponse{
			ID:             id,
			Username:       username,
			AccountCreated: created,
		},
	})
}

// buildPatientChanges turns an update request into a column map holding only
// the fields the caller sent.
func buildPatientChanges(req model.UpdatePatientRequest) (map[string]interface{}, error) {
	changes := make(map[string]interface{})

	if req.FirstName != nil {
		name := util.NormalizeName(*req.FirstName)
		if name == "" {
			return nil, errBlankName
		}
		changes["first_name"] = name
	}
	if req.LastName != nil {
		name := util.NormalizeName(*req.LastName)
		if name == "" {
			return nil, errBlankName
		}
		changes["last_name"] = name
	}
	if req.DateOfBirth != nil {
		dob, _, err := util.NormalizeDate(*req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		changes["date_of_birth"] = dob
	}

	optional := map[string]*string{
		"email":          req.Email,
		"phone":          req.Phone,
		"parent_contact": req.ParentContact,
		"address":        req.Address,
		"notes":          req.Notes,
	}
	for column, value := range optional {
		if value != nil {
			changes[column] = columnValue(*value)
		}
	}

	if req.Tags != nil {
		changes["tags"] = datatypes.JSONSlice[string](util.NormalizeTags(*req.Tags))
	}
	return changes, nil
}

// UpdatePatient godoc
// @Summary      Update patient information
// @Description  Partially update an existing patient. Omitted fields are left unchanged.
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Param        id path string true "Patient ID"
// @Param        request body model.UpdatePatientRequest true "Fields to change"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient updated"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/patients/{id} [put]
func UpdatePatient(c *gin.Context) {
	id := c.Param("id")
	if !store.ValidID(id) {
		respondError(c, "Patient not found", store.ErrNotFound)
		return
	}

	var req model.UpdatePatientRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.IsEmpty() {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "No fields to update",
			Err: fmt.Errorf("empty update request"),
		})
		return
	}

	changes, err := buildPatientChanges(req)
	if err != nil {
		respondError(c, "Invalid patient update", err)
		return
	}

	repos, ok := openRepositories(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	matched, err := repos.patients.UpdateOne(ctx, store.Equals("id", id), changes)
	if err != nil {
		respondError(c, "Failed to update patient", err)
		return
	}
	if matched == 0 {
		respondError(c, "Patient not found", store.ErrNotFound)
		return
	}

	patient, err := repos.patients.FindByID(ctx, id)
	if err != nil {
		respondError(c, "Failed to reload patient", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Patient updated",
		Data: patient,
	})
}

// DeletePatient godoc
// @Summary      Delete a patient
// @Description  Delete a patient and every session recorded for them
// @Tags         Patient
// @Produce      json
// @Param        id path string true "Patient ID"
// @Success      200 {object} util.APIResponse{data=object} "Patient deleted"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/patients/{id} [delete]
func DeletePatient(c *gin.Context) {
	id := c.Param("id")
	if !store.ValidID(id) {
		respondError(c, "Patient not found", store.ErrNotFound)
		return
	}

	repos, ok := openRepositories(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	deleted, err := repos.patients.DeleteOne(ctx, store.Equals("id", id))
	if err != nil {
		respondError(c, "Failed to delete patient", err)
		return
	}
	if deleted == 0 {
		respondError(c, "Patient not found", store.ErrNotFound)
		return
	}

	cascaded, err := repos.sessions.DeleteMany(ctx, store.Equals("patient_id", id))
	if err != nil {
		respondError(c, fmt.Sprintf("Patient %s deleted but removing sessions failed", id), err)
		return
	}
	// The account outlives its patient but must not point at it.
	if _, err := repos.accounts.UpdateOne(ctx, store.Equals("patient_id", id), map[string]interface{}{"patient_id": nil}); err != nil {
		respondError(c, fmt.Sprintf("Patient %s deleted but unlinking its account failed", id), err)
		return
	}
	middleware.GetRecorder(c).RecordPatientDeleted(cascaded)
	util.LogEvent(requestEvent(c, util.EventPatientDeleted, "Patient deleted", map[string]interface{}{
		"patient_id":       id,
		"sessions_deleted": cascaded,
	}))

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Patient deleted",
		Data: map[string]interface{}{
			"id":               id,
			"sessions_deleted": cascaded,
		},
	})
}

// SearchPatient godoc
// @Summary      Find a patient by last name and birth date
// @Description  Exact, case-insensitive last name match combined with the date of birth
// @Tags         Patient
// @Produce      json
// @Param        last_name query string true "Last name"
// @Param        date_of_birth query string true "DD/MM/YYYY or YYYY-MM-DD"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient found"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Router       /api/patients/search [post]
func SearchPatient(c *gin.Context) {
	lastName := util.NormalizeName(c.Query("last_name"))
	rawDOB := c.Query("date_of_birth")
	if lastName == "" || strings.TrimSpace(rawDOB) == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "last_name and date_of_birth are required",
			Err: fmt.Errorf("missing search parameters"),
		})
		return
	}

	dob, err := util.ParseDate(rawDOB)
	if err != nil {
		respondError(c, "date_of_birth must be DD/MM/YYYY or YYYY-MM-DD", err)
		return
	}

	repos, ok := openRepositories(c)
	if !ok {
		return
	}
	patient, err := repos.patients.FindOne(c.Request.Context(), store.AllOf(
		store.CaseInsensitiveEquals("last_name", lastName),
		store.Equals("date_of_birth", dob),
	))
	if err != nil {
		respondError(c, "Patient not found", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Patient found",
		Data: patient,
	})
}
