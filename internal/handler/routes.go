package handler

import "github.com/gin-gonic/gin"

// Handlers groups the ledger handlers mounted under the API prefix.
type Handlers struct {
	Sites           *SiteHandler
	Workers         *WorkerHandler
	Attendance      *AttendanceHandler
	DailyActivities *DailyActivityHandler
	Costs           *CostHandler
}

// RegisterRoutes mounts the ledger endpoints on api.
func RegisterRoutes(api *gin.RouterGroup, h Handlers) {
	sites := api.Group("/sites")
	sites.GET("", h.Sites.List)
	sites.POST("", h.Sites.Create)
	sites.GET("/:id", h.Sites.Get)
	sites.PUT("/:id", h.Sites.Update)
	sites.DELETE("/:id", h.Sites.Delete)
	sites.GET("/:id/summary", h.Sites.Summary)

	workers := api.Group("/workers")
	workers.GET("", h.Workers.List)
	workers.POST("", h.Workers.Create)
	workers.GET("/:id", h.Workers.Get)
	workers.PUT("/:id", h.Workers.Update)
	workers.DELETE("/:id", h.Workers.Delete)
	workers.GET("/:id/summary", h.Workers.Summary)

	attendance := api.Group("/attendance")
	attendance.GET("", h.Attendance.List)
	attendance.POST("", h.Attendance.Create)
	attendance.GET("/:id", h.Attendance.Get)
	attendance.PUT("/:id", h.Attendance.Update)
	attendance.DELETE("/:id", h.Attendance.Delete)

	activities := api.Group("/daily-activities")
	activities.GET("", h.DailyActivities.List)
	activities.POST("", h.DailyActivities.Create)
	activities.GET("/:id", h.DailyActivities.Get)
	activities.PUT("/:id", h.DailyActivities.Update)
	activities.DELETE("/:id", h.DailyActivities.Delete)

	costs := api.Group("/costs")
	costs.GET("", h.Costs.List)
	costs.POST("", h.Costs.Create)
	costs.GET("/summary", h.Costs.Summary)
	costs.GET("/export", h.Costs.Export)
	costs.GET("/:id", h.Costs.Get)
	costs.PUT("/:id", h.Costs.Update)
	costs.DELETE("/:id", h.Costs.Delete)
}
