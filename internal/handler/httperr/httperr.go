package httperr

import (
	"github.com/gin-gonic/gin"
)

// Response is the one error body the ledger API speaks: a user-facing
// message under "error". The internal cause travels on gin's error
// stack for the logging middleware and never reaches the client.
type Response struct {
	Status int    `json:"-"`
	Error  string `json:"error"`
}

// Abort writes the error body and stops the handler chain. err is the
// wrapped cause (usually a command sentinel such as
// ErrInsufficientCredits); msg is what the member sees.
func Abort(c *gin.Context, status int, err error, msg string) {
	if err == nil {
		panic("httperr.Abort: err cannot be nil")
	}

	resp := Response{Status: status, Error: msg}

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
