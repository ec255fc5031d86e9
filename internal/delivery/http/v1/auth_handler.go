package v1

import (
	"net/http"

	"applicant-tracker/internal/delivery/http/response"
	"applicant-tracker/internal/domain"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{}

// Identity is the verified caller as read from the ID token.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

func NewAuthHandler(public *gin.RouterGroup, protected *gin.RouterGroup) {
	handler := &AuthHandler{}

	public.GET("/auth/test", handler.Test)
	protected.GET("/auth/protected", handler.Protected)
}

// Test godoc
// @Summary      Auth smoke test
// @Description  Public endpoint confirming the auth routes are mounted.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/test [get]
func (h *AuthHandler) Test(c *gin.Context) {
	response.Success(c, http.StatusOK, "Auth routes are working", nil)
}

// Protected godoc
// @Summary      Echo the caller
// @Description  Returns the uid and email carried by the bearer token.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=Identity}
// @Failure      401  {object}  response.Response
// @Router       /auth/protected [get]
// @Security     BearerAuth
func (h *AuthHandler) Protected(c *gin.Context) {
	response.Success(c, http.StatusOK, "You have access to this protected route", Identity{
		UID:   c.GetString(string(domain.KeyUserID)),
		Email: callerEmail(c),
	})
}
