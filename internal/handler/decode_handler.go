// internal/handler/decode_handler.go
package handler

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"escpos-service/internal/service"
	"escpos-service/internal/thermal"
	"escpos-service/internal/utils"
)

const (
	contentTypeOctetStream = "application/octet-stream"
	contentTypeThermal     = "text/x-thermal"
)

// DecodeHandler handles decode requests
type DecodeHandler struct {
	decodeService *service.DecodeService
	logger        *utils.ServiceLogger
}

// NewDecodeHandler creates a new decode handler
func NewDecodeHandler(decodeService *service.DecodeService, logger *zap.Logger) *DecodeHandler {
	return &DecodeHandler{
		decodeService: decodeService,
		logger:        utils.NewServiceLogger(logger, "decode-handler"),
	}
}

// DecodeJSONRequest is the JSON form of a decode request. Exactly one of
// DataBase64 and Thermal must be set
type DecodeJSONRequest struct {
	DataBase64 string `json:"data_base64,omitempty"`
	Thermal    string `json:"thermal,omitempty"`
	Table      string `json:"table,omitempty"`
	Source     string `json:"source,omitempty"`
	Persist    *bool  `json:"persist,omitempty"`
}

// Decode decodes a printer byte stream
// @Summary Decode a print job
// @Description Tokenize and interpret an ESC/POS byte stream. The body is raw bytes (application/octet-stream), thermal source (text/x-thermal) or a JSON DecodeJSONRequest.
// @Tags Decode
// @Accept octet-stream,json,plain
// @Produce json
// @Param table query string false "Command table" default(escpos)
// @Param persist query bool false "Store the job" default(true)
// @Param source query string false "Source label" default(api)
// @Param request body DecodeJSONRequest false "JSON decode request"
// @Success 200 {object} utils.APIResponse{data=model.DecodeResult} "Job decoded"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 413 {object} utils.APIResponse "Payload too large"
// @Failure 415 {object} utils.APIResponse "Unsupported media type"
// @Failure 422 {object} utils.APIResponse "Thermal source does not compile"
// @Router /decode [post]
func (h *DecodeHandler) Decode(c *gin.Context) {
	req := &service.DecodeRequest{
		Table:   c.Query("table"),
		Source:  c.Query("source"),
		Persist: true,
	}
	if persist := c.Query("persist"); persist != "" {
		if p, err := strconv.ParseBool(persist); err == nil {
			req.Persist = p
		}
	}

	var err error
	switch contentType := c.ContentType(); {
	case contentType == contentTypeOctetStream || contentType == "":
		req.Data, err = io.ReadAll(c.Request.Body)
		if err != nil {
			h.bodyError(c, err)
			return
		}

	case contentType == contentTypeThermal || contentType == "text/plain":
		src, err := io.ReadAll(c.Request.Body)
		if err != nil {
			h.bodyError(c, err)
			return
		}
		if req.Data, err = thermal.Compile(string(src)); err != nil {
			utils.ErrorResponse(c, http.StatusUnprocessableEntity, "Failed to compile thermal source", err)
			return
		}

	case contentType == "application/json":
		var body DecodeJSONRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			h.bodyError(c, err)
			return
		}
		if !h.applyJSON(c, req, &body) {
			return
		}

	default:
		utils.ErrorResponse(c, http.StatusUnsupportedMediaType, "Unsupported content type: "+contentType, nil)
		return
	}

	result, err := h.decodeService.Decode(c.Request.Context(), req)
	if err != nil {
		h.decodeError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Job decoded successfully", result)
}

// applyJSON copies a JSON body into req and reports whether it was valid
func (h *DecodeHandler) applyJSON(c *gin.Context, req *service.DecodeRequest, body *DecodeJSONRequest) bool {
	switch {
	case body.DataBase64 != "" && body.Thermal != "":
		utils.ValidationErrorResponse(c, map[string]string{
			"data_base64": "only one of data_base64 and thermal may be set",
		})
		return false

	case body.DataBase64 != "":
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(body.DataBase64))
		if err != nil {
			utils.ValidationErrorResponse(c, map[string]string{"data_base64": "invalid base64: " + err.Error()})
			return false
		}
		req.Data = data

	case body.Thermal != "":
		data, err := thermal.Compile(body.Thermal)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnprocessableEntity, "Failed to compile thermal source", err)
			return false
		}
		req.Data = data
	}

	if body.Table != "" {
		req.Table = body.Table
	}
	if body.Source != "" {
		req.Source = body.Source
	}
	if body.Persist != nil {
		req.Persist = *body.Persist
	}
	return true
}

func (h *DecodeHandler) bodyError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "Request body too large", err)
		return
	}
	utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
}

func (h *DecodeHandler) decodeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyPayload):
		utils.ErrorResponse(c, http.StatusBadRequest, "Payload is empty", err)
	case errors.Is(err, service.ErrUnknownTable):
		utils.ErrorResponse(c, http.StatusBadRequest, "Unknown command table", err)
	case errors.Is(err, service.ErrPayloadTooLarge):
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "Payload too large", err)
	default:
		h.logger.Error("Failed to decode job", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to decode job", err)
	}
}
