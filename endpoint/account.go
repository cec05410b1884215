package endpoint

import (
	"github.com/ariebrainware/practice-records/middleware"
	"github.com/ariebrainware/practice-records/model"
	"github.com/ariebrainware/practice-records/store"
	"github.com/ariebrainware/practice-records/util"
	"github.com/gin-gonic/gin"
)

// GetAccountByPatient godoc
// @Summary      Get the account linked to a patient
// @Description  The password hash is never returned
// @Tags         Account
// @Produce      json
// @Param        id path string true "Patient ID"
// @Success      200 {object} util.APIResponse{data=model.AccountPublic} "Account retrieved"
// @Failure      404 {object} util.APIResponse "Account not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/accounts/by-patient/{id} [get]
func GetAccountByPatient(c *gin.Context) {
	repos, ok := openRepositories(c)
	if !ok {
		return
	}
	account, err := repos.accounts.FindOne(c.Request.Context(), store.Equals("patient_id", c.Param("id")))
	if err != nil {
		respondError(c, "Account not found", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Account retrieved",
		Data: account.Public(),
	})
}

// ResetDefaultPassword godoc
// @Summary      Reset an account to its default password
// @Description  Re-derives the default password from last name and birth date and stores its hash
// @Tags         Account
// @Accept       json
// @Produce      json
// @Param        id path string true "Patient ID"
// @Param        request body model.ResetPasswordRequest true "Last name and date of birth"
// @Success      200 {object} util.APIResponse "Password reset"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      404 {object} util.APIResponse "Account not found"
// @Failure      429 {object} util.APIResponse "Too many requests"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/accounts/reset-default/{id} [post]
func ResetDefaultPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	_, compactDOB, err := util.NormalizeDate(req.DateOfBirth)
	if err != nil {
		respondError(c, "date_of_birth must be DD/MM/YYYY or YYYY-MM-DD", err)
		return
	}
	hash := util.HashPassword(util.DeriveDefaultPassword(req.LastName, compactDOB))

	repos, ok := openRepositories(c)
	if !ok {
		return
	}
	patientID := c.Param("id")
	matched, err := repos.accounts.UpdateOne(c.Request.Context(),
		store.AllOf(store.Equals("patient_id", patientID), store.Equals("role", model.RolePatient)),
		map[string]interface{}{"password_hash": hash},
	)
	if err != nil {
		respondError(c, "Failed to reset password", err)
		return
	}
	if matched == 0 {
		respondError(c, "Account not found", store.ErrNotFound)
		return
	}

	middleware.GetRecorder(c).RecordPasswordReset()
	util.LogEvent(requestEvent(c, util.EventPasswordReset, "Default password restored", map[string]interface{}{
		"patient_id": patientID,
	}))
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Password reset",
		Data: map[string]interface{}{"status": "ok"},
	})
}
