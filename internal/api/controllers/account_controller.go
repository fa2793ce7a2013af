package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripcanvas/internal/models/request_models"
	"tripcanvas/internal/models/response_models"
	"tripcanvas/internal/services"
	"tripcanvas/pkg/middleware"
	"tripcanvas/pkg/utils"
)

type AccountController struct {
	accountService services.AccountServiceInterface
	cookieName     string
	secureCookie   bool
	logger         *zap.Logger
}

func NewAccountController(accountService services.AccountServiceInterface, cookieName string, secureCookie bool, logger *zap.Logger) *AccountController {
	return &AccountController{
		accountService: accountService,
		cookieName:     cookieName,
		secureCookie:   secureCookie,
		logger:         logger,
	}
}

// SignUp godoc
// @Summary Register a new account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.SignUpRequest true "Account registration payload"
// @Success 201 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /auth/signup [post]
func (a *AccountController) SignUp(c *gin.Context) {
	var req request_models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	session, err := a.accountService.SignUp(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, a.logger, err)
		return
	}

	a.setSessionCookie(c, session)
	utils.RespondWithStatus(c, http.StatusCreated, response_models.AccountLoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.Unix(),
	}, "Account created successfully")
}

// Login godoc
// @Summary Login to an account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /auth/login [post]
func (a *AccountController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	session, err := a.accountService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, a.logger, err)
		return
	}

	a.setSessionCookie(c, session)
	utils.RespondSuccess(c, response_models.AccountLoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.Unix(),
	}, "Login successful")
}

// Logout godoc
// @Summary Revoke the current token
// @Tags Accounts
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /auth/logout [post]
func (a *AccountController) Logout(c *gin.Context) {
	expiresAt, _ := c.Get(middleware.ContextTokenExpires)
	expiry, _ := expiresAt.(time.Time)

	if err := a.accountService.Logout(c.Request.Context(), c.GetString(middleware.ContextTokenID), expiry); err != nil {
		utils.HandleServiceError(c, a.logger, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(a.cookieName, "", -1, "/", "", a.secureCookie, true)
	utils.RespondSuccess(c, nil, "Logged out")
}

// Profile godoc
// @Summary Current account
// @Tags Accounts
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /users/profile [get]
func (a *AccountController) Profile(c *gin.Context) {
	profile, err := a.accountService.Profile(c.Request.Context(), c.GetString(middleware.ContextAccountID))
	if err != nil {
		utils.HandleServiceError(c, a.logger, err)
		return
	}
	utils.RespondSuccess(c, profile, "")
}

func (a *AccountController) setSessionCookie(c *gin.Context, session *services.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(a.cookieName, session.Token, maxAge, "/", "", a.secureCookie, true)
}
