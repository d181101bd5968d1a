package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/race-betting-ledger/internal/domain/race"
)

func TestEventsHandler_List(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		mockSetup      func(*MockEventService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:  "Success with filters",
			query: "?year=2024&country=Belgium&session_type=Race",
			mockSetup: func(m *MockEventService) {
				year := 2024
				m.On("GetEvents", mock.Anything, race.EventsQuery{Year: &year, Country: "Belgium", SessionType: "Race"}).
					Return([]race.Event{{EventID: "9574", Name: "Belgian Grand Prix", Year: 2024}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid year",
			query:          "?year=abc",
			mockSetup:      func(m *MockEventService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "BAD_REQUEST",
		},
		{
			name:  "Query too broad",
			query: "",
			mockSetup: func(m *MockEventService) {
				m.On("GetEvents", mock.Anything, race.EventsQuery{}).Return(nil, race.ErrQueryTooBroad)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "QUERY_TOO_BROAD",
		},
		{
			name:  "Rate limited",
			query: "?session_type=Race",
			mockSetup: func(m *MockEventService) {
				m.On("GetEvents", mock.Anything, race.EventsQuery{SessionType: "Race"}).Return(nil, race.ErrRateLimited)
			},
			expectedStatus: http.StatusTooManyRequests,
			expectedCode:   "RATE_LIMITED",
		},
		{
			name:  "Provider failure",
			query: "?country=Italy",
			mockSetup: func(m *MockEventService) {
				m.On("GetEvents", mock.Anything, race.EventsQuery{Country: "Italy"}).Return(nil, race.ErrInternalFailure)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL_FAILURE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockEventService)
			tt.mockSetup(mockService)
			h := NewEventsHandler(testLogger(), mockService)

			router := setupTestRouter()
			router.GET("/events", h.List)

			req, _ := http.NewRequest(http.MethodGet, "/events"+tt.query, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.NotEmpty(t, response.CorrelationID)
			if tt.expectedCode != "" {
				require.NotNil(t, response.Error)
				assert.Equal(t, tt.expectedCode, response.Error.Code)
			} else {
				assert.Nil(t, response.Error)
				assert.NotNil(t, response.Data)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestEventsHandler_DriversMarket(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockEventService)
		three, _ := race.NewOdds(3)
		two, _ := race.NewOdds(2)
		markets := []race.DriverMarket{
			{Driver: race.Driver{DriverNumber: 1, FullName: "Max Verstappen", TeamName: "Red Bull Racing"}, Odds: three},
			{Driver: race.Driver{DriverNumber: 44, FullName: "Lewis Hamilton", TeamName: "Mercedes"}, Odds: two},
		}
		mockService.On("GetDriversMarket", mock.Anything, "9574").Return(markets, nil)
		h := NewEventsHandler(testLogger(), mockService)

		router := setupTestRouter()
		router.GET("/events/:session_id/drivers_market", h.DriversMarket)

		req, _ := http.NewRequest(http.MethodGet, "/events/9574/drivers_market", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Data []race.DriverMarket `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response.Data, 2)
		assert.Equal(t, 44, response.Data[1].Driver.DriverNumber)
		mockService.AssertExpectations(t)
	})

	t.Run("Rate limited", func(t *testing.T) {
		mockService := new(MockEventService)
		mockService.On("GetDriversMarket", mock.Anything, "9574").Return(nil, race.ErrRateLimited)
		h := NewEventsHandler(testLogger(), mockService)

		router := setupTestRouter()
		router.GET("/events/:session_id/drivers_market", h.DriversMarket)

		req, _ := http.NewRequest(http.MethodGet, "/events/9574/drivers_market", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}

func TestEventsHandler_Finish(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockSetup      func(*MockEventService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "Success",
			body: `{"winning_driver_id": 44}`,
			mockSetup: func(m *MockEventService) {
				m.On("FinishEvent", mock.Anything, "9574", 44).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing winner",
			body:           `{}`,
			mockSetup:      func(m *MockEventService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST",
		},
		{
			name:           "Malformed body",
			body:           `{"winning_driver_id": "x"`,
			mockSetup:      func(m *MockEventService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST",
		},
		{
			name: "Already finished",
			body: `{"winning_driver_id": 44}`,
			mockSetup: func(m *MockEventService) {
				m.On("FinishEvent", mock.Anything, "9574", 44).Return(race.ErrEventAlreadyFinished)
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "EVENT_ALREADY_FINISHED",
		},
		{
			name: "Rejected by service",
			body: `{"winning_driver_id": 44}`,
			mockSetup: func(m *MockEventService) {
				m.On("FinishEvent", mock.Anything, "9574", 44).Return(race.ErrInvalidRequest)
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST",
		},
		{
			name: "Unexpected failure",
			body: `{"winning_driver_id": 44}`,
			mockSetup: func(m *MockEventService) {
				m.On("FinishEvent", mock.Anything, "9574", 44).Return(errors.New("connection reset"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockEventService)
			tt.mockSetup(mockService)
			h := NewEventsHandler(testLogger(), mockService)

			router := setupTestRouter()
			router.POST("/events/:event_id/settlement", h.Finish)

			req, _ := http.NewRequest(http.MethodPost, "/events/9574/settlement", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				var response Response
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				require.NotNil(t, response.Error)
				assert.Equal(t, tt.expectedCode, response.Error.Code)
			} else {
				var response struct {
					Data FinishEventResponse `json:"data"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, FinishEventResponse{EventID: "9574", Status: "FINISHED"}, response.Data)
			}
			mockService.AssertExpectations(t)
		})
	}
}
