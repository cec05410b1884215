package endpoint

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/ariebrainware/practice-records/middleware"
	"github.com/ariebrainware/practice-records/model"
	"github.com/ariebrainware/practice-records/store"
	"github.com/ariebrainware/practice-records/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAccountByPatient_NoHash(t *testing.T) {
	r, _ := setupEndpointTest(t)
	id, _ := createPatient(t, r, map[string]interface{}{
		"first_name": "Jean", "last_name": "Dupont", "date_of_birth": "2015-03-05", "email": "parent@example.com",
	})

	w, response, err := performRequest(r, requestSpec{method: http.MethodGet, requestPath: "/api/accounts/by-patient/" + id})
	require.NoError(t, err)
	assertSuccessResponse(t, w, response)
	assert.NotContains(t, w.Body.String(), "password_hash")
	assert.NotContains(t, w.Body.String(), util.HashPassword("dupont05032015"))

	data := responseData(t, response)
	assert.Equal(t, "j.dupont", data["username"])
	assert.Equal(t, "patient", data["role"])
	assert.Equal(t, id, data["patient_id"])
	assert.Equal(t, "Jean Dupont", data["name"])
	assert.Equal(t, "parent@example.com", data["email"])

	w, _, err = performRequest(r, requestSpec{method: http.MethodGet, requestPath: "/api/accounts/by-patient/unknown"})
	require.NoError(t, err)
	assertStatus(t, w, http.StatusNotFound)
}

func TestResetDefaultPassword(t *testing.T) {
	r, st := setupEndpointTest(t)
	id, _ := createPatient(t, r, map[string]interface{}{
		"first_name": "Jean", "last_name": "Dupont", "date_of_birth": "2015-03-05",
	})

	accounts, err := store.NewCollection[model.Account](st)
	require.NoError(t, err)
	ctx := context.Background()
	_, err = accounts.UpdateOne(ctx, store.Equals("patient_id", id), map[string]interface{}{"password_hash": util.HashPassword("changed")})
	require.NoError(t, err)

	w, response, err := performRequest(r, requestSpec{
		method:      http.MethodPost,
		requestPath: "/api/accounts/reset-default/" + id,
		body:        map[string]interface{}{"last_name": "Dupont", "date_of_birth": "2015-03-05"},
	})
	require.NoError(t, err)
	assertSuccessResponse(t, w, response)

	acc, err := accounts.FindOne(ctx, store.Equals("patient_id", id))
	require.NoError(t, err)
	assert.Equal(t, util.HashPassword(util.DeriveDefaultPassword("Dupont", "05032015")), acc.PasswordHash)
}

func TestResetDefaultPassword_Errors(t *testing.T) {
	r, _ := setupEndpointTest(t)

	tests := []struct {
		name   string
		body   interface{}
		status int
	}{
		{"missing fields", map[string]interface{}{"last_name": "Dupont"}, http.StatusBadRequest},
		{"bad date", map[string]interface{}{"last_name": "Dupont", "date_of_birth": "March 5"}, http.StatusBadRequest},
		{"no account", map[string]interface{}{"last_name": "Dupont", "date_of_birth": "05/03/2015"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _, err := performRequest(r, requestSpec{
				method:      http.MethodPost,
				requestPath: "/api/accounts/reset-default/3f1c7f0e-8a4e-4d4b-9a59-1f1f3c1c2b7d",
				body:        tt.body,
			})
			require.NoError(t, err)
			assertStatus(t, w, tt.status)
		})
	}
}

func TestResetDefaultPassword_RateLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)
	st := setupEndpointStore(t)
	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(st))
	RegisterRoutes(r, middleware.RateLimiter(middleware.RateLimitConfig{Limit: 2, Window: time.Hour}))

	body := map[string]interface{}{"last_name": "Dupont", "date_of_birth": "05/03/2015"}
	path := "/api/accounts/reset-default/3f1c7f0e-8a4e-4d4b-9a59-1f1f3c1c2b7d"
	for i := 0; i < 2; i++ {
		w, _, err := performRequest(r, requestSpec{method: http.MethodPost, requestPath: path, body: body})
		require.NoError(t, err)
		assertStatus(t, w, http.StatusNotFound)
	}
	w, response, err := performRequest(r, requestSpec{method: http.MethodPost, requestPath: path, body: body})
	require.NoError(t, err)
	assertStatus(t, w, http.StatusTooManyRequests)
	assert.True(t, strings.Contains(response["msg"].(string), "Too many requests"))

	// Another client still has its own allowance.
	w, _, err = performRequest(r, requestSpec{method: http.MethodPost, requestPath: path, body: body, clientIP: "198.51.100.7"})
	require.NoError(t, err)
	assertStatus(t, w, http.StatusNotFound)
}

func TestResetDefaultPassword_MatchesCreationForSpacedNames(t *testing.T) {
	r, st := setupEndpointTest(t)
	body := map[string]interface{}{
		"first_name": "Anne", "last_name": "De  La   Tour", "date_of_birth": "05/03/2015",
	}
	id, _ := createPatient(t, r, body)

	accounts, err := store.NewCollection[model.Account](st)
	require.NoError(t, err)
	ctx := context.Background()
	created, err := accounts.FindOne(ctx, store.Equals("patient_id", id))
	require.NoError(t, err)
	assert.Equal(t, util.HashPassword("de la tour05032015"), created.PasswordHash)

	w, response, err := performRequest(r, requestSpec{
		method:      http.MethodPost,
		requestPath: "/api/accounts/reset-default/" + id,
		body:        map[string]interface{}{"last_name": body["last_name"], "date_of_birth": body["date_of_birth"]},
	})
	require.NoError(t, err)
	assertSuccessResponse(t, w, response)

	reset, err := accounts.FindOne(ctx, store.Equals("patient_id", id))
	require.NoError(t, err)
	assert.Equal(t, created.PasswordHash, reset.PasswordHash)
}
