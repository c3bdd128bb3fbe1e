package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	ucSchedule "github.com/BruksfildServices01/booking-engine/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type ScheduleHandler struct {
	create       *ucSchedule.CreateScheduleBlock
	lunch        *ucSchedule.CreateRecurringLunchBlock
	extend       *ucSchedule.ExtendRecurrence
	deleteBlock  *ucSchedule.DeleteScheduleBlock
	deleteSeries *ucSchedule.DeleteRecurrence
	list         *ucSchedule.ListScheduleBlocks
}

func NewScheduleHandler(
	create *ucSchedule.CreateScheduleBlock,
	lunch *ucSchedule.CreateRecurringLunchBlock,
	extend *ucSchedule.ExtendRecurrence,
	deleteBlock *ucSchedule.DeleteScheduleBlock,
	deleteSeries *ucSchedule.DeleteRecurrence,
	list *ucSchedule.ListScheduleBlocks,
) *ScheduleHandler {
	return &ScheduleHandler{
		create:       create,
		lunch:        lunch,
		extend:       extend,
		deleteBlock:  deleteBlock,
		deleteSeries: deleteSeries,
		list:         list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBlockRequest struct {
	Start  string `json:"start" binding:"required"` // YYYY-MM-DD HH:MM
	End    string `json:"end" binding:"required"`
	Reason string `json:"reason"`
}

type CreateLunchRequest struct {
	DailyStart string `json:"daily_start" binding:"required"` // HH:MM
	DailyEnd   string `json:"daily_end" binding:"required"`
	Reason     string `json:"reason"`
}

// ======================================================
// BLOCKS
// ======================================================

func (h *ScheduleHandler) List(c *gin.Context) {
	employeeID, ok := paramID(c, "id")
	if !ok {
		return
	}
	from, ok := queryDay(c, "from")
	if !ok {
		return
	}
	to, ok := queryDay(c, "to")
	if !ok {
		return
	}

	blocks, err := h.list.Execute(c.Request.Context(), middleware.TenantID(c), employeeID, from, to)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, blocks)
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	employeeID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	block, err := h.create.Execute(c.Request.Context(), ucSchedule.CreateScheduleBlockInput{
		TenantID:   middleware.TenantID(c),
		EmployeeID: employeeID,
		Start:      req.Start,
		End:        req.End,
		Reason:     req.Reason,
		UserID:     middleware.UserID(c),
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, block)
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	blockID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.deleteBlock.Execute(c.Request.Context(), middleware.TenantID(c), blockID, middleware.UserID(c)); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// RECURRENCES
// ======================================================

// CreateLunch answers 201 with the written count. A partial write answers
// 500 but still reports what was stored so the caller can extend or delete.
func (h *ScheduleHandler) CreateLunch(c *gin.Context) {
	employeeID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CreateLunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	res, err := h.lunch.Execute(c.Request.Context(), ucSchedule.CreateRecurringLunchInput{
		TenantID:   middleware.TenantID(c),
		EmployeeID: employeeID,
		DailyStart: req.DailyStart,
		DailyEnd:   req.DailyEnd,
		Reason:     req.Reason,
		UserID:     middleware.UserID(c),
	})
	if err != nil {
		if res.Created > 0 {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error_code":    "partial_materialization",
				"message":       "Only part of the series was stored.",
				"recurrence_id": res.RecurrenceID,
				"created":       res.Created,
			})
			return
		}
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *ScheduleHandler) Extend(c *gin.Context) {
	res, err := h.extend.Execute(c.Request.Context(), middleware.TenantID(c), c.Param("rid"), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ScheduleHandler) DeleteRecurrence(c *gin.Context) {
	n, err := h.deleteSeries.Execute(c.Request.Context(), middleware.TenantID(c), c.Param("rid"), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
