package reports

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"KINDER-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	// POST /reports (create draft or merge into draft)
	r.POST("/reports", auth.RequireCapability(auth.CapReportsEdit), h.SaveReport)
	// POST /reports/:report_id/lock (one-way Draft→Final)
	r.POST("/reports/:report_id/lock", auth.RequireCapability(auth.CapReportsLock), h.LockReport)
	// GET /reports (一覧・検索)
	r.GET("/reports", h.List)
	// GET /reports/:report_id
	r.GET("/reports/:report_id", h.GetReport)
}

func (h *Handler) SaveReport(c *gin.Context) {
	var req SaveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	res, created, err := h.svc.SaveReport(c.Request.Context(), req, auth.ActorID(c))
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		c.Header("Location", "/reports/"+res.ReportID)
	}
	c.JSON(status, res)
}

func (h *Handler) LockReport(c *gin.Context) {
	id := c.Param("report_id")

	res, err := h.svc.LockReport(c.Request.Context(), id, auth.ActorID(c))
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetReport(c *gin.Context) {
	id := c.Param("report_id")

	res, err := h.svc.GetReport(c.Request.Context(), id)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) List(c *gin.Context) {
	q := ListQuery{
		Limit:  parseIntDefault(c.Query("limit"), DefaultPageLimit),
		Offset: parseIntDefault(c.Query("offset"), 0),
	}
	if v := c.Query("child_id"); v != "" {
		q.ChildID = &v
	}
	if v := c.Query("on"); v != "" {
		q.On = &v
	}
	if v := c.Query("from"); v != "" {
		q.From = &v
	}
	if v := c.Query("to"); v != "" {
		q.To = &v
	}
	if v := c.Query("status"); v != "" {
		q.Status = &v
	}

	items, total, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// ---------- helpers ----------

func parseIntDefault(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

type errorDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func errorBody(code Code, msg string) errorDTO {
	var e errorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func errorFromErr(err error) errorDTO {
	var msg string
	var code Code = CodeInternal
	if api, ok := err.(*APIError); ok {
		code, msg = api.Code, api.Message
	} else {
		msg = err.Error()
	}
	return errorBody(code, msg)
}
