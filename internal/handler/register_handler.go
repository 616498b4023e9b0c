package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-register/pkg/response"
)

// RegisterHandler exposes the read-only register projections.
type RegisterHandler struct {
	register registerService
}

// NewRegisterHandler constructs RegisterHandler.
func NewRegisterHandler(register registerService) *RegisterHandler {
	return &RegisterHandler{register: register}
}

// ClassOptions godoc
// @Summary Class filter options
// @Tags Register
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classes/options [get]
func (h *RegisterHandler) ClassOptions(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.register.ClassOptions())
}

// Stats godoc
// @Summary Today's attendance counters
// @Tags Register
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stats [get]
func (h *RegisterHandler) Stats(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.register.Stats())
}

// CurrentMessage godoc
// @Summary Current transient message
// @Description Returns 204 when no message is live.
// @Tags Register
// @Produce json
// @Success 200 {object} response.Envelope
// @Success 204
// @Router /messages/current [get]
func (h *RegisterHandler) CurrentMessage(c *gin.Context) {
	msg := h.register.Message()
	if msg == nil {
		response.NoContent(c)
		return
	}
	response.JSON(c, http.StatusOK, msg)
}
