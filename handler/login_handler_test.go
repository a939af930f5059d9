package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/pdf-rag-be/types"
	"github.com/tieubaoca/pdf-rag-be/utils"
)

func newLoginRouter(username, password string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/login", NewLoginHandler(username, password).HandleLogin)
	return router
}

func postLogin(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestHandleLogin(t *testing.T) {
	router := newLoginRouter("admin", "s3cret")

	w := postLogin(router, `{"username":"admin","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.DataResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	token, ok := data["token"].(string)
	require.True(t, ok)

	claims, err := utils.ParseAdminToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestHandleLoginRejections(t *testing.T) {
	cases := []struct {
		name     string
		username string
		password string
		body     string
		want     int
	}{
		{"wrong password", "admin", "s3cret", `{"username":"admin","password":"nope"}`, http.StatusUnauthorized},
		{"wrong username", "admin", "s3cret", `{"username":"root","password":"s3cret"}`, http.StatusUnauthorized},
		{"unset password never matches", "admin", "", `{"username":"admin","password":""}`, http.StatusUnauthorized},
		{"invalid body", "admin", "s3cret", `not json`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postLogin(newLoginRouter(tc.username, tc.password), tc.body)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
