package endpoint

import (
	"github.com/ariebrainware/practice-records/middleware"
	"github.com/ariebrainware/practice-records/model"
	"github.com/ariebrainware/practice-records/store"
	"github.com/ariebrainware/practice-records/util"
	"github.com/gin-gonic/gin"
)

// ListPatientSessions godoc
// @Summary      List sessions of a patient
// @Description  Sessions are returned most recent first
// @Tags         Session
// @Produce      json
// @Param        id path string true "Patient ID"
// @Success      200 {object} util.APIResponse{data=[]model.Session} "Sessions retrieved"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/patients/{id}/sessions [get]
func ListPatientSessions(c *gin.Context) {
	repos, ok := openRepositories(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := repos.patients.FindByID(ctx, id); err != nil {
		respondError(c, "Patient not found", err)
		return
	}

	sessions, err := repos.sessions.FindMany(ctx, store.Equals("patient_id", id), store.SortBy("date", store.Descending))
	if err != nil {
		respondError(c, "Failed to retrieve sessions", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Sessions retrieved",
		Data: sessions,
	})
}

// CreateSession godoc
// @Summary      Log a therapy session
// @Tags         Session
// @Accept       json
// @Produce      json
// @Param        request body model.CreateSessionRequest true "Session information"
// @Success      200 {object} util.APIResponse{data=object} "Session created"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/sessions [post]
func CreateSession(c *gin.Context) {
	var req model.CreateSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := util.ParseDate(req.Date)
	if err != nil {
		respondError(c, "date must be DD/MM/YYYY or YYYY-MM-DD", err)
		return
	}

	status := model.PaymentStatus(req.PaymentStatus)
	if status == "" {
		status = model.PaymentPending
	}

	repos, ok := openRepositories(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := repos.patients.FindByID(ctx, req.PatientID); err != nil {
		respondError(c, "Patient not found", err)
		return
	}

	session := model.Session{
		PatientID:     req.PatientID,
		Date:          date,
		DurationMin:   req.DurationMin,
		Focus:         optionalText(req.Focus),
		Notes:         optionalText(req.Notes),
		PaymentStatus: status,
		Amount:        req.Amount,
	}
	id, err := repos.sessions.InsertOne(ctx, &session)
	if err != nil {
		respondError(c, "Failed to create session", err)
		return
	}
	middleware.GetRecorder(c).RecordSessionCreated()

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Session created",
		Data: map[string]interface{}{"id": id},
	})
}
