package server

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	vehicledomain "github.com/lotkeeper/lotkeeper/internal/vehicle/domain"
)

func (s *Server) ListVehicles(c *gin.Context) {
	resp, err := s.vehicleSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SearchVehicles(c *gin.Context) {
	var query struct {
		Make     string `form:"make"`
		Model    string `form:"model"`
		Year     string `form:"year"`
		MaxPrice string `form:"max_price"`
		Status   string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var maxPrice int64
	if trimmed := strings.TrimSpace(query.MaxPrice); trimmed != "" {
		parsed, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil || parsed < 0 {
			AbortWithError(c, newValidationError("max_price", "invalid_max_price", "invalid max_price"))
			return
		}
		maxPrice = parsed
	}

	resp, err := s.vehicleSvc.Search(c.Request.Context(), vehicledomain.SearchRequest{
		Make:     strings.TrimSpace(query.Make),
		Model:    strings.TrimSpace(query.Model),
		Year:     strings.TrimSpace(query.Year),
		MaxPrice: maxPrice,
		Status:   strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetVehicleBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	resp, err := s.vehicleSvc.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateVehicle(c *gin.Context) {
	var req vehicledomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.vehicleSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateVehicle(c *gin.Context) {
	var req vehicledomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.vehicleSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteVehicle(c *gin.Context) {
	if err := s.vehicleSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type setImagesRequest struct {
	Images []string `json:"images"`
}

func (s *Server) SetVehicleImages(c *gin.Context) {
	var req setImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.vehicleSvc.SetImages(c.Request.Context(), strings.TrimSpace(c.Param("id")), req.Images)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

const maxPhotoBytes = 20 << 20

func (s *Server) UploadVehiclePhoto(c *gin.Context) {
	if s.media == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	vehicle, err := s.vehicleSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		AbortWithError(c, newValidationError("photo", "missing_photo", "photo file is required"))
		return
	}
	if fileHeader.Size > maxPhotoBytes {
		AbortWithError(c, newValidationError("photo", "photo_too_large", "photo exceeds size limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	title := strconv.Itoa(vehicle.Year) + " " + vehicle.Make + " " + vehicle.Model
	stored, err := s.media.UploadVehiclePhoto(c.Request.Context(), title, vehicle.ID, fileHeader.Filename, data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.vehicleSvc.AddImage(c.Request.Context(), strconv.FormatInt(vehicle.ID, 10), stored.URL)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"vehicle": resp,
		"photo":   stored,
	}})
}
