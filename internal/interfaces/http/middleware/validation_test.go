package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/colony/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type phoneForm struct {
	Name  string `json:"full_name" binding:"required,max=10"`
	Phone string `json:"phone_number" binding:"required,phone"`
	Count *int   `json:"count" binding:"omitempty,min=1"`
}

func newValidationRouter() *gin.Engine {
	SetupValidator()

	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var req phoneForm
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req.Phone))
	})
	return router
}

func postJSON(router *gin.Engine, body string) (*httptest.ResponseRecorder, dto.Response) {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := serve(router, req)

	var resp dto.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestValidation_Phone(t *testing.T) {
	router := newValidationRouter()

	for _, phone := range []string{"+91 98480-22338", "(040) 2345 6789", "9848022338"} {
		w, _ := postJSON(router, `{"full_name":"Asha","phone_number":"`+phone+`"}`)
		assert.Equal(t, http.StatusOK, w.Code, phone)
	}

	for _, phone := range []string{"call me", "98+480", "+ - ()", "98480x"} {
		w, resp := postJSON(router, `{"full_name":"Asha","phone_number":"`+phone+`"}`)
		require.Equal(t, http.StatusBadRequest, w.Code, phone)
		require.NotNil(t, resp.Error)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "phone_number", resp.Error.Details[0].Field)
		assert.Equal(t, "Invalid phone number", resp.Error.Details[0].Message)
	}
}

func TestValidation_Details(t *testing.T) {
	router := newValidationRouter()

	w, resp := postJSON(router, `{"full_name":"A very long name indeed","count":0}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, w.Header().Get(HeaderRequestID), resp.Error.RequestID)

	messages := map[string]string{}
	for _, d := range resp.Error.Details {
		messages[d.Field] = d.Message
	}
	assert.Equal(t, map[string]string{
		"full_name":    "Must be at most 10 characters",
		"phone_number": "This field is required",
		"count":        "Must be at least 1",
	}, messages)
}
