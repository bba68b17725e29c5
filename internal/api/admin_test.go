package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"alto_bot/internal/model"
	"alto_bot/internal/service"
	"alto_bot/internal/service/mocks"
	"alto_bot/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const adminID = "6289999"

func authHeader(userID string) string {
	values := url.Values{}
	values.Set("auth_date", "1760860800")
	values.Set("user", `{"id":`+userID+`,"username":"operator"}`)
	return "Telegram " + values.Encode()
}

func newTestRouter(as *mocks.MockAdminService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewAdminRoutes(router.Group("/api/v1"), as, auth.NewTelegramAuth("123:token", true), NewFeed())
	return router
}

func doRequest(router *gin.Engine, method, path, caller string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set("Authorization", authHeader(caller))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdminRoutes_Authorization(t *testing.T) {
	tests := []struct {
		name           string
		caller         string
		mockSetup      func(*mocks.MockAdminService)
		expectedStatus int
	}{
		{
			name:           "No init data",
			mockSetup:      func(m *mocks.MockAdminService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "Unknown caller",
			caller: "1",
			mockSetup: func(m *mocks.MockAdminService) {
				m.On("GetUser", "1").Return(nil, service.ErrUserNotFound)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "Regular user",
			caller: "2",
			mockSetup: func(m *mocks.MockAdminService) {
				m.On("GetUser", "2").Return(&model.User{ID: "2"}, nil)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:   "Admin",
			caller: adminID,
			mockSetup: func(m *mocks.MockAdminService) {
				m.On("GetUser", adminID).Return(&model.User{ID: adminID, IsAdmin: true}, nil)
				m.On("Bonus").Return(model.BonusRange{Min: 100, Max: 500})
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			as := &mocks.MockAdminService{}
			tt.mockSetup(as)

			w := doRequest(newTestRouter(as), http.MethodGet, "/api/v1/admin/bonus", tt.caller, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			as.AssertExpectations(t)
		})
	}
}

func adminMock() *mocks.MockAdminService {
	as := &mocks.MockAdminService{}
	as.On("GetUser", adminID).Return(&model.User{ID: adminID, IsAdmin: true}, nil)
	return as
}

func TestAdminRoutes_Users(t *testing.T) {
	as := adminMock()
	as.On("ListUsers").Return([]*model.User{
		{ID: "1", Balance: 250, Session: model.Session{Mode: model.ModePlaying}},
		{ID: "2", IsBlocked: true, Session: model.Session{Mode: model.ModeMain, ActiveTask: &model.ActiveTask{TaskID: 3}}},
	})
	as.On("SetBlocked", mock.Anything, "1", true).Return(nil)
	as.On("SetBlocked", mock.Anything, "404", false).Return(service.ErrUserNotFound)
	as.On("DeleteUser", mock.Anything, "2").Return(nil)
	router := newTestRouter(as)

	w := doRequest(router, http.MethodGet, "/api/v1/admin/users", adminID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 2)
	assert.Equal(t, model.ModePlaying, users[0].Mode)
	assert.Nil(t, users[0].ActiveTaskID)
	require.NotNil(t, users[1].ActiveTaskID)
	assert.Equal(t, int64(3), *users[1].ActiveTaskID)

	w = doRequest(router, http.MethodPatch, "/api/v1/admin/users/1/block", adminID, gin.H{"blocked": true})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPatch, "/api/v1/admin/users/404/block", adminID, gin.H{"blocked": false})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodPatch, "/api/v1/admin/users/1/block", adminID, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodDelete, "/api/v1/admin/users/2", adminID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	as.AssertExpectations(t)
}

func TestAdminRoutes_Tasks(t *testing.T) {
	as := adminMock()
	task := model.Task{Name: "Follow", Description: "Ikuti akun", Link: "https://x.example", Reward: 150, Duration: 5}
	created := task
	created.ID = 4
	as.On("AddTask", mock.Anything, task).Return(created, nil)
	as.On("DeleteTask", mock.Anything, int64(4)).Return(nil)
	as.On("DeleteTask", mock.Anything, int64(9)).Return(service.ErrTaskNotFound)
	router := newTestRouter(as)

	w := doRequest(router, http.MethodPost, "/api/v1/admin/tasks", adminID, gin.H{
		"name": "Follow", "description": "Ikuti akun", "link": "https://x.example", "reward": 150, "duration": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var got model.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, created, got)

	w = doRequest(router, http.MethodPost, "/api/v1/admin/tasks", adminID, gin.H{
		"name": "Follow", "description": "d", "link": "l", "reward": 0, "duration": 5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodDelete, "/api/v1/admin/tasks/4", adminID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(router, http.MethodDelete, "/api/v1/admin/tasks/9", adminID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodDelete, "/api/v1/admin/tasks/abc", adminID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	as.AssertExpectations(t)
}

func TestAdminRoutes_SetBonus(t *testing.T) {
	as := adminMock()
	as.On("SetBonus", mock.Anything, int64(10), int64(20)).Return(nil)
	as.On("SetBonus", mock.Anything, int64(20), int64(10)).Return(service.ErrInvalidBonusRange)
	router := newTestRouter(as)

	w := doRequest(router, http.MethodPut, "/api/v1/admin/bonus", adminID, gin.H{"min": 10, "max": 20})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"min":10,"max":20}`, w.Body.String())

	w = doRequest(router, http.MethodPut, "/api/v1/admin/bonus", adminID, gin.H{"min": 20, "max": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPut, "/api/v1/admin/bonus", adminID, gin.H{"min": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
