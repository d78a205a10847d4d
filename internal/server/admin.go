package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lotkeeper/lotkeeper/internal/images"
	"github.com/lotkeeper/lotkeeper/internal/providers/drive"
)

func (s *Server) TriggerSync(c *gin.Context) {
	summary, err := s.inventorySvc.SyncIncremental(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

type bulkReplaceRequest struct {
	SheetData string `json:"sheetData"`
}

func (s *Server) BulkReplaceInventory(c *gin.Context) {
	var req bulkReplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	summary, err := s.inventorySvc.ReplaceFromText(c.Request.Context(), req.SheetData)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

type scanDriveFolderRequest struct {
	FolderURL string `json:"folderUrl"`
}

type driveMatch struct {
	VehicleID int64    `json:"vehicle_id,string"`
	Slug      string   `json:"slug"`
	Images    []string `json:"images"`
}

// ScanDriveFolder lists every image in a shared folder and assigns files to
// vehicles by fuzzy filename match against year, make and model.
func (s *Server) ScanDriveFolder(c *gin.Context) {
	if s.drive == nil {
		AbortWithError(c, drive.ErrNotConfigured)
		return
	}

	var req scanDriveFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	folderID, err := drive.FolderID(strings.TrimSpace(req.FolderURL))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	files, err := s.drive.ListImages(c.Request.Context(), folderID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	vehicles, err := s.vehicleSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	matchesByID := map[int64]*driveMatch{}
	matched := 0
	for _, f := range files {
		name := normalizeFileName(f.Name)
		for i := range vehicles {
			v := &vehicles[i]
			if !fileMatchesVehicle(name, v.Year, v.Make, v.Model) {
				continue
			}
			m := matchesByID[v.ID]
			if m == nil {
				m = &driveMatch{VehicleID: v.ID, Slug: v.Slug}
				matchesByID[v.ID] = m
			}
			m.Images = append(m.Images,
				images.Resolve(fmt.Sprintf("https://drive.google.com/file/d/%s/view", f.ID), s.cfg.Sync.ImageWidth))
			matched++
			break
		}
	}

	matches := make([]driveMatch, 0, len(matchesByID))
	for _, m := range matchesByID {
		matches = append(matches, *m)
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"files_scanned":    len(files),
		"files_matched":    matched,
		"vehicles_matched": len(matches),
		"matches":          matches,
	}})
}

func normalizeFileName(name string) string {
	if dot := strings.LastIndex(name, "."); dot > 0 {
		name = name[:dot]
	}
	name = strings.ToLower(name)
	replacer := strings.NewReplacer("_", " ", "-", " ", ".", " ")
	return replacer.Replace(name)
}

// fileMatchesVehicle requires make and model in the filename; the year, when
// present in the name, must agree.
func fileMatchesVehicle(name string, year int, make, model string) bool {
	if make == "" || model == "" {
		return false
	}
	if !strings.Contains(name, strings.ToLower(make)) {
		return false
	}
	if !strings.Contains(name, strings.ToLower(model)) {
		return false
	}
	yearToken := strconv.Itoa(year)
	for _, token := range strings.Fields(name) {
		if len(token) != 4 || (token[0] != '1' && token[0] != '2') {
			continue
		}
		if _, err := strconv.Atoi(token); err == nil && token != yearToken {
			return false
		}
	}
	return true
}
