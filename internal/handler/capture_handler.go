// internal/handler/capture_handler.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"escpos-service/internal/discovery"
	"escpos-service/internal/model"
	"escpos-service/internal/service"
	"escpos-service/internal/utils"
)

// CaptureHandler handles capture source and port discovery requests
type CaptureHandler struct {
	captureService   *service.CaptureService
	discoveryService *service.DiscoveryService
	logger           *utils.ServiceLogger
}

// NewCaptureHandler creates a new capture handler. captureService is nil
// when capture is disabled
func NewCaptureHandler(
	captureService *service.CaptureService,
	discoveryService *service.DiscoveryService,
	logger *zap.Logger,
) *CaptureHandler {
	return &CaptureHandler{
		captureService:   captureService,
		discoveryService: discoveryService,
		logger:           utils.NewServiceLogger(logger, "capture-handler"),
	}
}

// ListSources lists configured capture sources
// @Summary List capture sources
// @Description Get configured capture sources with their counters
// @Tags Capture
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]model.CaptureSourceInfo} "Sources retrieved successfully"
// @Router /capture/sources [get]
func (h *CaptureHandler) ListSources(c *gin.Context) {
	sources := []model.CaptureSourceInfo{}
	if h.captureService != nil {
		sources = h.captureService.Sources()
	}

	utils.SuccessResponse(c, http.StatusOK, "Sources retrieved successfully", sources)
}

// ScanPorts scans for ports a printer stream can be captured from
// @Summary Scan ports
// @Description Scan serial, USB and TCP ports for printer traffic sources
// @Tags Capture
// @Produce json
// @Param type query string false "Scan type" Enums(all, serial, usb, tcp) default(all)
// @Success 200 {object} utils.APIResponse{data=object{ports_found=int,ports=[]discovery.DiscoveredPort,scanners=[]string}} "Port scan completed"
// @Failure 400 {object} utils.APIResponse "Invalid scan type"
// @Router /capture/ports [get]
func (h *CaptureHandler) ScanPorts(c *gin.Context) {
	scanType := c.DefaultQuery("type", "all")

	ports, err := h.discoveryService.ScanPorts(c.Request.Context(), scanType)
	if err != nil {
		h.logger.Error("Failed to scan ports", zap.Error(err), zap.String("type", scanType))
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to scan ports", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Port scan completed", gin.H{
		"ports_found": len(ports),
		"ports":       ports,
		"scanners":    h.discoveryService.AvailableScanners(),
	})
}

// SuggestSource proposes a capture source configuration for a port
// @Summary Suggest capture source
// @Description Build a capture source configuration block for a discovered port
// @Tags Capture
// @Accept json
// @Produce json
// @Param request body discovery.DiscoveredPort true "Discovered port"
// @Success 200 {object} utils.APIResponse{data=config.CaptureSource} "Source suggested"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /capture/ports/suggest [post]
func (h *CaptureHandler) SuggestSource(c *gin.Context) {
	var port discovery.DiscoveredPort
	if err := c.ShouldBindJSON(&port); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	source, err := service.SuggestSource(&port)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to suggest source", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Source suggested", source)
}
