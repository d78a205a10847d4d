package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	historydomain "github.com/lotkeeper/lotkeeper/internal/history/domain"
	vehicledomain "github.com/lotkeeper/lotkeeper/internal/vehicle/domain"
)

// AutoPopulateHistory fetches the best available provider report and folds its
// summary fields onto the vehicle. No report available is a success with an
// empty result, not a failure.
func (s *Server) AutoPopulateHistory(c *gin.Context) {
	vehicle, err := s.vehicleSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if strings.TrimSpace(vehicle.VIN) == "" {
		AbortWithError(c, newValidationError("vin", "missing_vin", "vehicle has no vin on record"))
		return
	}

	report, err := s.historySvc.GetBestReport(c.Request.Context(), vehicle.VIN)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if report == nil {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{
			"populated": false,
			"vehicle":   vehicle,
		}})
		return
	}

	updated, err := s.vehicleSvc.ApplyHistory(c.Request.Context(), strings.TrimSpace(c.Param("id")), vehicledomain.HistorySummary{
		Provider:       report.Provider,
		Score:          report.Confidence,
		AccidentCount:  report.AccidentCount,
		OwnerCount:     report.OwnerCount,
		ServiceRecords: report.ServiceRecords,
		TitleStatus:    report.TitleStatus,
		ReportURL:      report.ReportURL,
		CheckedAt:      report.CheckedAt,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"populated": true,
		"provider":  report.Provider,
		"vehicle":   updated,
	}})
}

// GetVehicleHistory returns a fresh full report for display, preferring the
// provider that produced the stored summary.
func (s *Server) GetVehicleHistory(c *gin.Context) {
	vehicle, err := s.vehicleSvc.GetBySlug(c.Request.Context(), strings.TrimSpace(c.Param("slug")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if strings.TrimSpace(vehicle.VIN) == "" {
		AbortWithError(c, historydomain.ErrInvalidVIN)
		return
	}

	report, err := s.historySvc.GetReport(c.Request.Context(), vehicle.VIN, vehicle.HistoryProvider)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if report == nil {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"available": false}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"available": true,
		"report":    report,
	}})
}
