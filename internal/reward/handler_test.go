package reward

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"greensteps/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupRewardRouter(repo Repository, now time.Time) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewHandler(&service{repo: repo, now: func() time.Time { return now }})

	withUser := func(c *gin.Context) {
		auth.SetUserID(c, 5)
		c.Next()
	}
	router.GET("/rewards", withUser, h.GetRewards)
	router.GET("/rewards/all", withUser, h.GetAllRewards)
	router.GET("/rewards/check-streak", withUser, h.CheckStreak)
	return router
}

func serve(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGetRewards_Handler(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	t.Run("Aggregate with history", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByUserID", mock.Anything, 5).Return(&Reward{UserID: 5, Points: 30, Badge: BadgeSustainabilityChampion}, nil)
		repo.On("History", mock.Anything, 5).Return([]LedgerEntry{
			{UserID: 5, Delta: 30, Reason: EntryReason(9), CreatedAt: now},
		}, nil)

		w := serve(setupRewardRouter(repo, now), "/rewards")
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Reward        Reward                   `json:"reward"`
			PointsHistory []map[string]interface{} `json:"pointsHistory"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 30, body.Reward.Points)
		require.Len(t, body.PointsHistory, 1)
		assert.Equal(t, float64(30), body.PointsHistory[0]["points_change"])
		assert.Equal(t, "Waste entry #9", body.PointsHistory[0]["reason"])
	})

	t.Run("New user gets starter", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByUserID", mock.Anything, 5).Return(nil, ErrRewardNotFound)
		repo.On("History", mock.Anything, 5).Return([]LedgerEntry{}, nil)

		w := serve(setupRewardRouter(repo, now), "/rewards")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"badge":"STARTER"`)
	})

	t.Run("Repository fault", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByUserID", mock.Anything, 5).Return(nil, errors.New("db down"))

		w := serve(setupRewardRouter(repo, now), "/rewards")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetAllRewards_Handler(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Leaderboard", mock.Anything).Return([]Standing{
		{RewardID: 1, Name: "Ana", Points: 120, Badge: BadgeEcoWarrior},
		{RewardID: 2, Name: "Ben", Points: 10, Badge: BadgeStarter},
	}, nil)

	w := serve(setupRewardRouter(repo, time.Now()), "/rewards/all")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string][]Standing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body["rewards"], 2)
	assert.Equal(t, "Ana", body["rewards"][0].Name)
}

func TestCheckStreak_Handler(t *testing.T) {
	now := time.Date(2024, 5, 10, 18, 0, 0, 0, time.UTC)
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	var dates []time.Time
	for i := 0; i < StreakTarget; i++ {
		dates = append(dates, today.AddDate(0, 0, -i))
	}

	repo := new(MockRepository)
	repo.On("EntryDates", mock.Anything, 5, today.AddDate(0, 0, -StreakTarget)).Return(dates, nil)

	w := serve(setupRewardRouter(repo, now), "/rewards/check-streak")
	require.Equal(t, http.StatusOK, w.Code)

	var streak Streak
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &streak))
	assert.Equal(t, StreakTarget, streak.Days)
	assert.True(t, streak.StreakActive)
}
