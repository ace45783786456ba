package routes

import (
	"github.com/gorilla/mux"

	"github.com/YugalRajVimal/dairy-management-server-sub000/handlers"
	"github.com/YugalRajVimal/dairy-management-server-sub000/middleware"
	"github.com/YugalRajVimal/dairy-management-server-sub000/models"
	"github.com/YugalRajVimal/dairy-management-server-sub000/websocket"
)

// HTTP method constants for better maintainability
var (
	MethodsGetOnly    = []string{"GET", "OPTIONS"}
	MethodsPostOnly   = []string{"POST", "OPTIONS"}
	MethodsPutOnly    = []string{"PUT", "OPTIONS"}
	MethodsDeleteOnly = []string{"DELETE", "OPTIONS"}
)

const (
	PathAPI    = "/api"
	PathHealth = "/health"
)

func RegisterRoutes(r *mux.Router) {
	// ====================
	// HEALTH CHECK (Public)
	// ====================
	r.HandleFunc(PathHealth, handlers.HealthCheck).Methods(MethodsGetOnly...)

	// ====================
	// AUTHENTICATION (Public - OTP sign-in)
	// ====================
	r.HandleFunc("/api/auth/send-otp", handlers.SendOTP).Methods(MethodsPostOnly...)
	r.HandleFunc("/api/auth/verify-otp", handlers.VerifyOTP).Methods(MethodsPostOnly...)
	r.HandleFunc("/api/auth/check", handlers.CheckAuth).Methods(MethodsGetOnly...)

	// ====================
	// PROTECTED API ROUTES
	// ====================
	apiRouter := r.PathPrefix(PathAPI).Subrouter()
	apiRouter.Use(middleware.AuthMiddleware)

	// ====================
	// USER MANAGEMENT
	// ====================
	apiRouter.HandleFunc("/users", middleware.RequireRole(handlers.OnboardUser, models.RoleAdmin)).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/users", middleware.RequireRole(handlers.ListUsers, models.RoleAdmin, models.RoleSubAdmin)).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/users/{id}", middleware.RequireRole(handlers.GetUser, models.RoleAdmin, models.RoleSubAdmin)).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/users/{id}", middleware.RequireRole(handlers.DeleteUser, models.RoleAdmin)).Methods(MethodsDeleteOnly...)
	apiRouter.HandleFunc("/user/me", handlers.GetCurrentUser).Methods(MethodsGetOnly...)

	// ====================
	// VLC ASSETS (reconciliation workflow)
	// ====================
	apiRouter.HandleFunc("/vlc-assets", handlers.CreateVLCAsset).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/vlc-assets", handlers.ListVLCAssets).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/vlc-assets/{vlcCode}", handlers.GetVLCAsset).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/vlc-assets/{vlcCode}", handlers.UpdateVLCAsset).Methods(MethodsPutOnly...)

	// ====================
	// ISSUED / USED ASSETS
	// ====================
	apiRouter.HandleFunc("/issued-assets/{subAdminId}", middleware.RequireRole(handlers.UpsertIssuedAssets, models.RoleAdmin)).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/issued-assets/{subAdminId}", middleware.RequireRole(handlers.GetIssuedAssets, models.RoleAdmin, models.RoleSubAdmin)).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/used-assets/{subAdminId}", middleware.RequireRole(handlers.GetUsedAssets, models.RoleAdmin, models.RoleSubAdmin)).Methods(MethodsGetOnly...)

	// ====================
	// MILK / SALES DATA
	// ====================
	apiRouter.HandleFunc("/milk-sales", middleware.RequireRole(handlers.IngestMilkSale, models.RoleAdmin, models.RoleSubAdmin, models.RoleVendor)).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/milk-sales/bulk", middleware.RequireRole(handlers.IngestMilkSalesBulk, models.RoleAdmin, models.RoleSubAdmin)).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/milk-sales", handlers.ListMilkSales).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/milk-sales/report", middleware.RequireRole(handlers.MilkSalesReport, models.RoleAdmin, models.RoleSupervisor)).Methods(MethodsGetOnly...)

	// ====================
	// ROUTE ASSIGNMENTS
	// ====================
	apiRouter.HandleFunc("/routes", middleware.RequireRole(handlers.CreateRouteAssignment, models.RoleAdmin)).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/routes", handlers.ListRouteAssignments).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/routes/{routeCode}", middleware.RequireRole(handlers.UpdateRouteAssignment, models.RoleAdmin)).Methods(MethodsPutOnly...)

	// ====================
	// AUDIT LOGS
	// ====================
	apiRouter.HandleFunc("/audit", middleware.RequireRole(handlers.ListAuditLogs, models.RoleAdmin)).Methods(MethodsGetOnly...)

	// ====================
	// LIVE UPDATES
	// ====================
	r.HandleFunc("/ws", websocket.ServeWS)
}
