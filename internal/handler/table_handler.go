// internal/handler/table_handler.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"escpos-service/internal/service"
	"escpos-service/internal/utils"
)

// TableHandler exposes the registered command tables
type TableHandler struct{}

// NewTableHandler creates a new table handler
func NewTableHandler() *TableHandler {
	return &TableHandler{}
}

// ListTables lists command tables
// @Summary List command tables
// @Description Get every registered command table with its opcode count
// @Tags Tables
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]service.TableInfo} "Tables retrieved successfully"
// @Router /tables [get]
func (h *TableHandler) ListTables(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Tables retrieved successfully", service.ListTables())
}

// GetTable describes one command table
// @Summary Describe command table
// @Description Get all opcodes of a command table, including the GS ( k and GS ( L function tables
// @Tags Tables
// @Produce json
// @Param name path string true "Table name"
// @Success 200 {object} utils.APIResponse{data=service.TableInfo} "Table retrieved successfully"
// @Failure 404 {object} utils.APIResponse "Table not found"
// @Router /tables/{name} [get]
func (h *TableHandler) GetTable(c *gin.Context) {
	table, err := service.DescribeTable(c.Param("name"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Table not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Table retrieved successfully", table)
}
