package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/bellavista/bellavista-backend/internal/app/service"
	"github.com/bellavista/bellavista-backend/internal/errors"
	"github.com/bellavista/bellavista-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AdminController struct {
	adminService  service.AdminService
	reportService service.ReportService
}

func NewAdminController(adminService service.AdminService, reportService service.ReportService) *AdminController {
	return &AdminController{
		adminService:  adminService,
		reportService: reportService,
	}
}

// Dashboard returns the back-office summary.
// GET /api/v1/admin/dashboard
func (ctrl *AdminController) Dashboard(c *gin.Context) {
	stats, err := ctrl.reportService.DashboardStats(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to build dashboard", err)
		errors.InternalError(c, "Failed to build the dashboard")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListUsers returns registered users.
// GET /api/v1/admin/users
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, total, err := ctrl.adminService.ListUsers(limit, offset)
	if err != nil {
		errors.InternalError(c, "Failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users":  users,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// ListCarts returns every live cart grouped by owner.
// GET /api/v1/admin/carts
func (ctrl *AdminController) ListCarts(c *gin.Context) {
	carts, err := ctrl.adminService.ListAllCarts()
	if err != nil {
		errors.InternalError(c, "Failed to fetch carts")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"carts": carts,
		"count": len(carts),
	})
}

// ExportOrders streams an XLSX of orders placed in the requested window.
// Defaults to the last 30 days.
// GET /api/v1/admin/orders/export?from=2026-08-01&to=2026-08-29
func (ctrl *AdminController) ExportOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	const layout = "2006-01-02"
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			errors.BadRequest(c, errors.ValidationInvalidInput, "from must be YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			errors.BadRequest(c, errors.ValidationInvalidInput, "to must be YYYY-MM-DD")
			return
		}
		// Make the upper bound inclusive of the whole day.
		to = parsed.AddDate(0, 0, 1)
	}
	if !from.Before(to) {
		errors.BadRequest(c, errors.ValidationInvalidRange, "from must be before to")
		return
	}

	payload, err := ctrl.reportService.ExportOrdersXLSX(from, to)
	if err != nil {
		log.Error("Failed to export orders", err)
		errors.InternalError(c, "Failed to export orders")
		return
	}

	filename := fmt.Sprintf("orders_%s.xlsx", now.Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", payload)
}
