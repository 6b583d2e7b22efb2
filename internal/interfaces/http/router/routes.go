package router

import (
	"github.com/gin-gonic/gin"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/infrastructure/i18n"
	"github.com/teashop/backend/internal/interfaces/http/handler"
	"github.com/teashop/backend/internal/interfaces/http/middleware"
)

// ItemImportPath is the route of the CSV item import. Uploads get their own
// body size cap.
const ItemImportPath = APIBasePath + "/inventory/items/import"

// Handlers are the HTTP handlers mounted by RegisterAll
type Handlers struct {
	System       *handler.SystemHandler
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Schedule     *handler.ScheduleHandler
	Inventory    *handler.InventoryHandler
	Task         *handler.TaskHandler
	Training     *handler.TrainingHandler
	Situation    *handler.SituationHandler
	Announcement *handler.AnnouncementHandler
	Statistics   *handler.StatisticsHandler
}

// Guards are the middleware placed in front of the routes
type Guards struct {
	// Authenticate runs before every /api route
	Authenticate gin.HandlerFunc
	// LoginLimit, when set, runs before POST /auth/login
	LoginLimit gin.HandlerFunc
	Translator *i18n.Translator
}

// RegisterAll mounts the public endpoints and the authenticated /api tree
func RegisterAll(engine *gin.Engine, h Handlers, g Guards) *API {
	engine.GET("/health", h.System.Health)

	login := []gin.HandlerFunc{h.Auth.Login}
	if g.LoginLimit != nil {
		login = append([]gin.HandlerFunc{g.LoginLimit}, login...)
	}
	engine.POST("/auth/login", login...)

	var apiGuards []gin.HandlerFunc
	if g.Authenticate != nil {
		apiGuards = append(apiGuards, g.Authenticate)
	}
	can := func(caps ...identity.Capability) gin.HandlerFunc {
		return middleware.RequireCapability(g.Translator, caps...)
	}

	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/logout", h.Auth.Logout)
	authRoutes.GET("/me", h.Auth.GetCurrentUser)

	permissionRoutes := NewDomainGroup("permissions", "/permissions")
	permissionRoutes.GET("", h.Auth.GetPermissions)

	userRoutes := NewDomainGroup("users", "/users").Use(can(identity.CapManageUsers))
	userRoutes.GET("", h.User.List)
	userRoutes.POST("", h.User.Create)
	userRoutes.GET("/:id", h.User.Get)
	userRoutes.PATCH("/:id", h.User.Update)
	userRoutes.DELETE("/:id", h.User.Delete)

	return NewAPI(engine, APIBasePath, apiGuards...).Mount(
		authRoutes,
		permissionRoutes,
		userRoutes,
		scheduleRoutes(h.Schedule, can),
		inventoryRoutes(h.Inventory, can),
		taskRoutes(h.Task, can),
		trainingRoutes(h.Training, can),
		situationRoutes(h.Situation, can),
		announcementRoutes(h.Announcement, can),
		statisticsRoutes(h.Statistics, can),
	)
}

type capabilityGuard func(caps ...identity.Capability) gin.HandlerFunc

func scheduleRoutes(h *handler.ScheduleHandler, can capabilityGuard) *DomainGroup {
	view, edit := can(identity.CapViewSchedule), can(identity.CapEditSchedule)
	g := NewDomainGroup("schedule", "/schedule")

	slots := g.Group("time-slots", "/time-slots")
	slots.GET("", view, h.ListTimeSlots)
	slots.POST("", edit, h.CreateTimeSlot)
	slots.PATCH("/:id", edit, h.UpdateTimeSlot)
	slots.DELETE("/:id", edit, h.DeleteTimeSlot)

	weeks := g.Group("weeks", "/weeks")
	weeks.GET("", view, h.GetWeek)
	weeks.POST("", edit, h.CreateWeek)
	weeks.GET("/grid", view, h.GetGrid)
	weeks.POST("/:id/assignments", edit, h.AddAssignment)
	weeks.PATCH("/:id/assignments/:aid", edit, h.UpdateAssignment)
	weeks.DELETE("/:id/assignments/:aid", edit, h.DeleteAssignment)
	weeks.POST("/:id/assignments/:aid/tasks", edit, h.AddTask)
	weeks.DELETE("/:id/assignments/:aid/tasks/:tid", edit, h.RemoveTask)
	// owners complete their own shifts; the service checks the rest
	weeks.POST("/:id/assignments/:aid/complete", h.CompleteAssignment)

	g.GET("/employees/:employeeId", view, h.GetEmployeeSchedule)
	return g
}

func inventoryRoutes(h *handler.InventoryHandler, can capabilityGuard) *DomainGroup {
	view, manage := can(identity.CapViewInventory), can(identity.CapManageInventory)
	g := NewDomainGroup("inventory", "/inventory")

	suppliers := g.Group("suppliers", "/suppliers")
	suppliers.GET("", view, h.ListSuppliers)
	suppliers.POST("", manage, h.CreateSupplier)
	suppliers.GET("/:id", view, h.GetSupplier)
	suppliers.PATCH("/:id", manage, h.UpdateSupplier)
	suppliers.DELETE("/:id", manage, h.DeleteSupplier)
	suppliers.GET("/:id/items", view, h.GetSupplierItems)

	items := g.Group("items", "/items")
	items.GET("", view, h.ListItems)
	items.POST("", manage, h.CreateItem)
	items.POST("/import", manage, h.ImportItems)
	items.GET("/low-stock", view, h.GetLowStockItems)
	items.GET("/:id", view, h.GetItem)
	items.PATCH("/:id", manage, h.UpdateItem)
	items.DELETE("/:id", manage, h.DeleteItem)
	items.GET("/:id/records", view, h.GetItemRecords)
	items.POST("/:id/check", view, h.CheckStock)
	items.POST("/:id/adjust", view, h.AdjustStock)
	return g
}

func taskRoutes(h *handler.TaskHandler, can capabilityGuard) *DomainGroup {
	manage := can(identity.CapManageContent)
	g := NewDomainGroup("tasks", "/tasks")
	g.GET("", h.List)
	g.POST("", manage, h.Create)
	g.GET("/scheduled", h.GetScheduled)
	g.GET("/daily", h.GetDaily)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", manage, h.Update)
	g.DELETE("/:id", manage, h.Delete)
	g.POST("/:id/progress", h.UpdateProgress)
	g.POST("/:id/complete", h.Complete)
	return g
}

func trainingRoutes(h *handler.TrainingHandler, can capabilityGuard) *DomainGroup {
	view, manage := can(identity.CapViewTraining), can(identity.CapManageTraining)
	g := NewDomainGroup("training", "/training")

	modules := g.Group("modules", "/modules")
	modules.GET("", view, h.List)
	modules.POST("", manage, h.Create)
	modules.GET("/category/:category", view, h.GetByCategory)
	modules.GET("/:id", view, h.Get)
	modules.PATCH("/:id", manage, h.Update)
	modules.DELETE("/:id", manage, h.Delete)
	modules.POST("/:id/contents", manage, h.AddContent)
	modules.PUT("/:id/contents/reorder", manage, h.ReorderContent)
	modules.PATCH("/:id/contents/:cid", manage, h.UpdateContent)
	modules.DELETE("/:id/contents/:cid", manage, h.RemoveContent)
	modules.POST("/:id/complete", view, h.Complete)
	modules.POST("/:id/schedules", manage, h.AddSchedule)
	modules.PATCH("/:id/schedules/:sid", manage, h.UpdateSchedule)
	modules.DELETE("/:id/schedules/:sid", manage, h.RemoveSchedule)

	g.GET("/schedules", view, h.ListSchedules)
	return g
}

func situationRoutes(h *handler.SituationHandler, can capabilityGuard) *DomainGroup {
	view, manage := can(identity.CapViewSituations), can(identity.CapManageContent)
	g := NewDomainGroup("situations", "/situations")
	g.GET("", view, h.List)
	g.POST("", manage, h.Create)
	g.GET("/high-priority", view, h.GetHighPriority)
	g.GET("/category/:category", view, h.GetByCategory)
	g.GET("/:id", view, h.Get)
	g.PATCH("/:id", manage, h.Update)
	g.DELETE("/:id", manage, h.Delete)
	g.POST("/:id/responses", manage, h.AddResponse)
	g.PATCH("/:id/responses/:rid", manage, h.UpdateResponse)
	g.DELETE("/:id/responses/:rid", manage, h.RemoveResponse)
	return g
}

func announcementRoutes(h *handler.AnnouncementHandler, can capabilityGuard) *DomainGroup {
	view, manage := can(identity.CapViewAnnouncements), can(identity.CapManageContent)
	g := NewDomainGroup("announcements", "/announcements")
	g.GET("", view, h.List)
	g.POST("", manage, h.Create)
	g.GET("/visible", view, h.GetVisible)
	g.GET("/unread", view, h.GetUnread)
	g.GET("/:id", view, h.Get)
	g.PATCH("/:id", manage, h.Update)
	g.DELETE("/:id", manage, h.Delete)
	g.POST("/:id/read", view, h.MarkAsRead)
	g.POST("/:id/questions", view, h.AddQuestion)
	g.POST("/:id/questions/:qid/answer", manage, h.AnswerQuestion)
	return g
}

func statisticsRoutes(h *handler.StatisticsHandler, can capabilityGuard) *DomainGroup {
	g := NewDomainGroup("statistics", "/statistics").Use(can(identity.CapViewStatistics))
	g.GET("/users/:id", h.GetUserStatistics)
	g.GET("/activities", h.ListActivities)
	return g
}
