package handler

import (
	"net/http"

	"cardapio/internal/model"
	"cardapio/internal/service"

	"github.com/gin-gonic/gin"
)

// statusFor maps a failed service result to an HTTP status.
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindAccessDenied:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindInvalidCredentials, service.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respond writes body with okStatus when res succeeded, or the error envelope
// otherwise.
func respond(c *gin.Context, okStatus int, res service.Result, body any) {
	if !res.Success {
		c.JSON(statusFor(res.Kind), gin.H{"success": false, "error": res.Error})
		return
	}
	c.JSON(okStatus, body)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request: " + err.Error()})
}

// publicUser strips the password before a user leaves the process.
func publicUser(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	p := u.Public()
	return &p
}
