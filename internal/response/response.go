// Package response implements the uniform envelope every endpoint returns.
package response

import "github.com/gin-gonic/gin"

type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Token   string      `json:"token,omitempty"`
	User    interface{} `json:"user,omitempty"`
}

func OK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// List wraps a slice response with its length, matching the count field
// the clients expect on listing endpoints.
func List(c *gin.Context, status int, count int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data, Count: &count})
}

// Auth carries the token and user at the top level, the shape the login
// and signup clients were built against.
func Auth(c *gin.Context, status int, message, token string, user interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Token: token, User: user})
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Message: message})
}

// AbortError is Error for middleware, stopping the handler chain.
func AbortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message})
}
