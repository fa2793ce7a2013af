package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripcanvas/internal/models/request_models"
	"tripcanvas/internal/services"
	"tripcanvas/pkg/utils"
)

type PlanController struct {
	planService services.PlanServiceInterface
	logger      *zap.Logger
}

func NewPlanController(planService services.PlanServiceInterface, logger *zap.Logger) *PlanController {
	return &PlanController{
		planService: planService,
		logger:      logger,
	}
}

// GeneratePlanHandler godoc
// @Summary Generate a geocoded itinerary
// @Tags Plans
// @Accept json
// @Produce json
// @Param request body request_models.ItineraryRequest true "Trip request"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /plans/generate [post]
func (p *PlanController) GeneratePlanHandler(c *gin.Context) {
	var req request_models.ItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	result, err := p.planService.GeneratePlan(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, p.logger, err)
		return
	}

	message := "Travel plan created successfully"
	if len(result.Itinerary.Days) == 0 {
		message = "no days survived validation"
	}
	utils.RespondSuccess(c, result, message)
}
