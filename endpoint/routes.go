package endpoint

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the API. resetGuard runs in front of the password
// reset route and is normally a rate limiter.
func RegisterRoutes(r gin.IRouter, resetGuard gin.HandlerFunc) {
	r.GET("/test", HealthCheck)

	api := r.Group("/api")
	{
		patients := api.Group("/patients")
		patients.GET("", ListPatients)
		patients.POST("", CreatePatient)
		patients.POST("/search", SearchPatient)
		patients.GET("/:id", GetPatientInfo)
		patients.PUT("/:id", UpdatePatient)
		patients.DELETE("/:id", DeletePatient)
		patients.GET("/:id/sessions", ListPatientSessions)

		api.POST("/sessions", CreateSession)

		accounts := api.Group("/accounts")
		accounts.GET("/by-patient/:id", GetAccountByPatient)
		if resetGuard != nil {
			accounts.POST("/reset-default/:id", resetGuard, ResetDefaultPassword)
		} else {
			accounts.POST("/reset-default/:id", ResetDefaultPassword)
		}
	}
}
