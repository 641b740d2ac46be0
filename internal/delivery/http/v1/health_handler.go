package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"candidate-tracking-backend/internal/delivery/http/response"
	"candidate-tracking-backend/internal/usecase"
)

type HealthHandler struct {
	healthUC usecase.HealthUsecase
}

func NewHealthHandler(r *gin.RouterGroup, healthUC usecase.HealthUsecase) {
	handler := &HealthHandler{healthUC: healthUC}
	r.GET("/health", handler.Health)
}

// Health godoc
// @Summary      Health check
// @Description  Probes the table store and redis. Returns 503 when a critical dependency is down.
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Response{data=usecase.HealthReport}
// @Failure      503  {object}  response.Response{data=usecase.HealthReport}
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	report := h.healthUC.Check(c.Request.Context())

	if report.Status == usecase.StatusDown {
		c.JSON(http.StatusServiceUnavailable, response.Response{
			Success:   false,
			Message:   "System unavailable",
			Data:      report,
			RequestID: c.GetString(response.RequestIDKey),
		})
		return
	}
	response.Success(c, http.StatusOK, "System operational", report)
}
