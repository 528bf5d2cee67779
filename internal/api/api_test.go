package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"numduel/internal/dependencies/mocks"
	"numduel/internal/model"
	"numduel/internal/services/party"
	"numduel/internal/storage/memory"
	"numduel/internal/testutil"
	"numduel/internal/ws"
)

type APISuite struct {
	suite.Suite
	router     http.Handler
	controller *party.Controller
	random     *mocks.MockRandom
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	logger := testutil.NopLogger()
	clock := mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controller = party.NewController(memory.New(), clock, s.random, party.DefaultConfig(), logger)

	s.router = NewRouter(RouterConfig{
		Logger:          logger,
		PartyController: s.controller,
		WSHandler:       http.NotFoundHandler(),
	})
}

func (s *APISuite) request(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) TestHealth() {
	rec := s.request(http.MethodGet, "/api/v1/health")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"ok"}`, rec.Body.String())
}

func (s *APISuite) TestGetPartyReturnsPublicView() {
	s.random.QueueString("AB23CD")
	_, _, err := s.controller.CreateParty(context.Background(), "conn-1", "Alice")
	s.Require().NoError(err)

	rec := s.request(http.MethodGet, "/api/v1/parties/AB23CD")
	s.Equal(http.StatusOK, rec.Code)

	var view ws.PartyView
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &view))
	s.Equal(model.PartyCode("AB23CD"), view.Code)
	s.Len(view.Players, 1)
	s.NotContains(rec.Body.String(), "secret")
}

func (s *APISuite) TestGetPartyLowercaseCodeNormalized() {
	s.random.QueueString("AB23CD")
	_, _, err := s.controller.CreateParty(context.Background(), "conn-1", "Alice")
	s.Require().NoError(err)

	rec := s.request(http.MethodGet, "/api/v1/parties/ab23cd")
	s.Equal(http.StatusOK, rec.Code)
}

func (s *APISuite) TestGetPartyNotFound() {
	rec := s.request(http.MethodGet, "/api/v1/parties/ZZ99ZZ")
	s.Equal(http.StatusNotFound, rec.Code)
	s.Contains(rec.Body.String(), "PARTY_NOT_FOUND")
}

func (s *APISuite) TestGetPartyBadCode() {
	rec := s.request(http.MethodGet, "/api/v1/parties/nope")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "INVALID_CODE")
}

func (s *APISuite) TestStats() {
	s.random.QueueString("AB23CD")
	_, _, err := s.controller.CreateParty(context.Background(), "conn-1", "Alice")
	s.Require().NoError(err)

	rec := s.request(http.MethodGet, "/api/v1/stats")
	s.Equal(http.StatusOK, rec.Code)

	var stats party.Stats
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &stats))
	s.Equal(1, stats.ActiveParties)
	s.Equal(1, stats.ActivePlayers)
}
