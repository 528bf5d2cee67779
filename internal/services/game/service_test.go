package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"numduel/internal/model"
)

func testNow() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

type ServiceSuite struct {
	suite.Suite
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New()
}

// Optimal attempts

func (s *ServiceSuite) TestOptimalAttemptsIsCeilLog2() {
	cases := []struct {
		start, end int
		want       int
	}{
		{1, 100, 7},    // ceil(log2(100))
		{1, 64, 6},     // exact power of two
		{1, 65, 7},     // one past a power of two
		{1, 10000, 14}, // ceil(log2(10000))
		{50, 54, 3},    // minimum span of 5
		{1, 2, 1},
	}
	for _, tc := range cases {
		settings := model.GameSettings{RangeStart: tc.start, RangeEnd: tc.end}
		s.Equal(tc.want, s.service.OptimalAttempts(settings),
			"range [%d,%d]", tc.start, tc.end)
	}
}

// Rating

func (s *ServiceSuite) TestRatingMonotoneInAttemptRatio() {
	order := map[string]int{
		RatingOptimal: 0,
		RatingGreat:   1,
		RatingGood:    2,
		RatingFair:    3,
		RatingPoor:    4,
	}

	optimal := 7
	prev := -1
	for attempts := 1; attempts <= 30; attempts++ {
		rank := order[s.service.Rating(attempts, optimal)]
		s.GreaterOrEqual(rank, prev, "rating must not improve as attempts grow")
		prev = rank
	}
}

func (s *ServiceSuite) TestRatingAtOrBelowOptimal() {
	s.Equal(RatingOptimal, s.service.Rating(1, 7))
	s.Equal(RatingOptimal, s.service.Rating(7, 7))
	s.Equal(RatingGreat, s.service.Rating(10, 7))
	s.Equal(RatingPoor, s.service.Rating(100, 7))
}

// Feedback classification

func (s *ServiceSuite) TestFeedbackCorrect() {
	settings := model.GameSettings{RangeStart: 1, RangeEnd: 100}
	fb := s.service.Feedback(42, 42, settings)
	s.Equal(ProximityCorrect, fb.Proximity)
	s.Empty(fb.Direction)
}

func (s *ServiceSuite) TestFeedbackDirection() {
	settings := model.GameSettings{RangeStart: 1, RangeEnd: 100}

	fb := s.service.Feedback(30, 42, settings)
	s.Equal(DirectionTooLow, fb.Direction)

	fb = s.service.Feedback(50, 42, settings)
	s.Equal(DirectionTooHigh, fb.Direction)
}

func (s *ServiceSuite) TestFeedbackProximityScalesWithRange() {
	small := model.GameSettings{RangeStart: 1, RangeEnd: 20}
	large := model.GameSettings{RangeStart: 1, RangeEnd: 10000}

	// Distance 8 is far in a 20-wide range but very close in a 10000-wide one
	s.Equal(ProximityClose, s.service.Feedback(2, 10, small).Proximity)
	s.Equal(ProximityVeryClose, s.service.Feedback(5002, 5010, large).Proximity)

	// Distance 3 stays very close even in the smallest ranges (absolute floor)
	s.Equal(ProximityVeryClose, s.service.Feedback(7, 10, small).Proximity)

	// Distance beyond 20% of the range is far
	s.Equal(ProximityFar, s.service.Feedback(10, 5000, large).Proximity)
	s.Equal(ProximityFar, s.service.Feedback(1, 20, small).Proximity)
}

// Summaries

func (s *ServiceSuite) playedParty() *model.Party {
	now := testNow()
	host := &model.Player{ID: "host-1", Name: "Alice", IsConnected: true}
	party := model.NewParty("party-1", "ABC234", host, 1, now)
	guest := &model.Player{ID: "guest-1", Name: "Bob", IsConnected: true}
	if err := party.AddPlayer(guest, now); err != nil {
		s.FailNow(err.Error())
	}
	if err := party.StartSelection(host.ID, now); err != nil {
		s.FailNow(err.Error())
	}
	_, _ = party.SetReady(host.ID, 10, now)
	_, _ = party.SetReady(guest.ID, 40, now)
	_ = party.BeginPlaying(now)
	_, _ = party.Guess(guest.ID, 10, now)
	return party
}

func (s *ServiceSuite) TestSummarizeRound() {
	party := s.playedParty()
	summary := s.service.SummarizeRound(party, &party.RoundResults[0])

	s.Equal(model.PlayerID("guest-1"), summary.WinnerID)
	s.Equal("Bob", summary.WinnerName)
	s.Equal(1, summary.WinnerAttempts)
	s.Equal(7, summary.OptimalAttempts)
	s.Equal(RatingOptimal, summary.Rating)
	s.Equal(10, summary.Players["host-1"].SecretNumber)
	s.True(summary.Players["guest-1"].Won)
}

func (s *ServiceSuite) TestSummarizeMatch() {
	party := s.playedParty()
	summary := s.service.SummarizeMatch(party)

	s.Equal(1, summary.RoundsPlayed)
	s.Equal(model.PlayerID("guest-1"), summary.WinnerID)
	s.Equal(1, summary.Players["guest-1"].Wins)
	s.Equal(0, summary.Players["host-1"].Wins)
}

func (s *ServiceSuite) TestSummarizeMatchTie() {
	now := testNow()
	host := &model.Player{ID: "host-1", Name: "Alice", IsConnected: true, Wins: 1}
	party := model.NewParty("party-1", "ABC234", host, 2, now)
	guest := &model.Player{ID: "guest-1", Name: "Bob", IsConnected: true, Wins: 1}
	_ = party.AddPlayer(guest, now)

	summary := s.service.SummarizeMatch(party)
	s.Empty(summary.WinnerID)
}
