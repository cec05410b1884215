package endpoint

import (
	"errors"
	"strings"

	"github.com/ariebrainware/practice-records/middleware"
	"github.com/ariebrainware/practice-records/model"
	"github.com/ariebrainware/practice-records/store"
	"github.com/ariebrainware/practice-records/util"
	"github.com/gin-gonic/gin"
)

var errBlankName = errors.New("first_name and last_name must not be blank")

// repositories bundles the collections handlers work with.
type repositories struct {
	patients *store.Collection[model.Patient]
	sessions *store.Collection[model.Session]
	accounts *store.Collection[model.Account]
}

// openRepositories resolves the store injected by DatabaseMiddleware.
// It writes a 500 response and returns false when no store is available.
func openRepositories(c *gin.Context) (*repositories, bool) {
	st := middleware.GetStore(c)
	if st == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: store.ErrStoreUnavailable,
		})
		return nil, false
	}

	patients, err := store.NewCollection[model.Patient](st)
	if err != nil {
		respondError(c, "Database connection not available", err)
		return nil, false
	}
	sessions, err := store.NewCollection[model.Session](st)
	if err != nil {
		respondError(c, "Database connection not available", err)
		return nil, false
	}
	accounts, err := store.NewCollection[model.Account](st)
	if err != nil {
		respondError(c, "Database connection not available", err)
		return nil, false
	}
	return &repositories{patients: patients, sessions: sessions, accounts: accounts}, true
}

// respondError maps domain errors onto the response envelope.
func respondError(c *gin.Context, msg string, err error) {
	params := util.APIErrorParams{Msg: msg, Err: err}
	switch {
	case errors.Is(err, store.ErrNotFound):
		util.CallErrorNotFound(c, params)
	case errors.Is(err, util.ErrInvalidDateFormat),
		errors.Is(err, util.ErrInvalidDate),
		errors.Is(err, store.ErrInvalidField),
		errors.Is(err, errBlankName):
		util.CallUserError(c, params)
	default:
		util.CallServerError(c, params)
	}
}

// bindJSON binds the request body and answers 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid request body",
			Err: err,
		})
		return false
	}
	return true
}

// optionalText trims s and maps blanks to nil.
func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// columnValue is optionalText for update maps, where NULL must be an untyped nil.
func columnValue(s string) interface{} {
	if v := optionalText(&s); v != nil {
		return *v
	}
	return nil
}

func requestEvent(c *gin.Context, eventType util.EventType, msg string, details map[string]interface{}) util.Event {
	return util.Event{
		Type:      eventType,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Message:   msg,
		Details:   details,
	}
}
