package handlers

import (
	"bytes"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/lunchmate/internal/middleware"
	"github.com/mroshb/lunchmate/internal/recommend"
	"github.com/mroshb/lunchmate/internal/repositories"
	"github.com/mroshb/lunchmate/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, submit gin.HandlerFunc) *gin.Engine {
	t.Helper()

	rec, err := recommend.NewRecommenderWithRand(recommend.DefaultCatalog(), rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)
	profiles := repositories.NewMemoryProfileRepository(repositories.DemoProfiles()...)

	matches := services.NewMatchService(rec, profiles, nil, services.DefaultMatchOptions())
	rooms := services.NewRoomService(rec, profiles, nil, nil)
	h := NewHandlerManager(
		matches,
		rooms,
		services.NewActivityService(matches, rooms, 0),
		services.NewStatsService(matches, rooms),
		rec,
		profiles,
	)

	r := gin.New()
	h.Register(r, submit)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}, headers ...string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func noonKorean(userID string) gin.H {
	return gin.H{"userId": userID, "timeSlot": "12:00", "priceRange": "mid", "menu": "korean"}
}

func TestMatchFlow(t *testing.T) {
	r := newTestServer(t, nil)

	w, first := do(t, r, http.MethodPost, "/match/join", noonKorean("demo1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "waiting", first["status"])
	assert.EqualValues(t, 1, first["waitingCount"])
	requestID := first["matchRequestId"].(string)

	w, active := do(t, r, http.MethodGet, "/match/active/demo1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, active["active"])
	assert.Equal(t, "waiting", active["type"])

	w, second := do(t, r, http.MethodPost, "/match/join", noonKorean("demo2"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "matched", second["status"])
	group := second["group"].(map[string]interface{})
	assert.Len(t, group["members"], 2)
	groupID := second["groupId"].(string)

	w, status := do(t, r, http.MethodGet, "/match/status?matchRequestId="+requestID+"&elapsedSeconds=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "matched", status["status"])
	assert.Equal(t, groupID, status["groupId"])

	w, detail := do(t, r, http.MethodGet, "/groups/"+groupID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, detail["recommendedRestaurants"])
	assert.Equal(t, "korean", detail["menu"])

	w, _ = do(t, r, http.MethodGet, "/groups/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJoinMatch_Validation(t *testing.T) {
	r := newTestServer(t, nil)

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing time slot", gin.H{"priceRange": "mid", "menu": "korean"}},
		{"unknown menu", gin.H{"timeSlot": "12:00", "priceRange": "mid", "menu": "pizza"}},
		{"bad gender", gin.H{"timeSlot": "12:00", "priceRange": "mid", "menu": "korean", "gender": "robot"}},
		{"malformed body", "not an object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := do(t, r, http.MethodPost, "/match/join", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "VALIDATION_ERROR", body["code"])
		})
	}
}

func TestMatchStatus_Errors(t *testing.T) {
	r := newTestServer(t, nil)

	w, _ := do(t, r, http.MethodGet, "/match/status", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodGet, "/match/status?matchRequestId=x&elapsedSeconds=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := do(t, r, http.MethodGet, "/match/status?matchRequestId=unknown", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "not_found", body["status"])
}

func TestCancelMatch(t *testing.T) {
	r := newTestServer(t, nil)

	_, first := do(t, r, http.MethodPost, "/match/join", noonKorean("demo3"))
	requestID := first["matchRequestId"].(string)

	w, body := do(t, r, http.MethodDelete, "/match/cancel", gin.H{"matchRequestId": requestID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	w, _ = do(t, r, http.MethodDelete, "/match/cancel", gin.H{"matchRequestId": requestID})
	assert.Equal(t, http.StatusOK, w.Code, "cancelling twice is harmless")

	_, status := do(t, r, http.MethodGet, "/match/status?matchRequestId="+requestID, nil)
	assert.Equal(t, "not_found", status["status"])

	w, _ = do(t, r, http.MethodDelete, "/match/cancel", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoomLifecycle(t *testing.T) {
	r := newTestServer(t, nil)

	w, room := do(t, r, http.MethodPost, "/rooms", gin.H{
		"title": "짜장면 번개", "timeSlot": "12:30", "menu": "chinese", "maxCount": 2, "creatorId": "demo1",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	roomID := room["id"].(string)
	assert.Equal(t, "open", room["status"])
	assert.Equal(t, "mid", room["priceRange"])

	w, room = do(t, r, http.MethodPost, "/rooms/"+roomID+"/join", gin.H{"userId": "demo2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "full", room["status"])

	w, body := do(t, r, http.MethodPost, "/rooms/"+roomID+"/join", gin.H{"userId": "demo3"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ROOM_FULL", body["code"])

	w, _ = do(t, r, http.MethodGet, "/rooms?status=open", nil)
	assert.JSONEq(t, "[]", w.Body.String())

	w, body = do(t, r, http.MethodPost, "/rooms/"+roomID+"/leave", gin.H{"userId": "demo2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["deleted"])
	assert.Equal(t, "open", body["room"].(map[string]interface{})["status"])

	w, body = do(t, r, http.MethodPost, "/rooms/"+roomID+"/join", gin.H{"userId": "demo1"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_JOINED", body["code"])

	w, _ = do(t, r, http.MethodGet, "/rooms/my/demo1", nil)
	var mine []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	assert.Len(t, mine, 1)

	w, body = do(t, r, http.MethodPost, "/rooms/"+roomID+"/leave", gin.H{"userId": "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "member not found", body["message"])

	w, body = do(t, r, http.MethodPost, "/rooms/"+roomID+"/leave", gin.H{"userId": "demo1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["deleted"])

	w, _ = do(t, r, http.MethodGet, "/rooms/"+roomID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRoom_Validation(t *testing.T) {
	r := newTestServer(t, nil)

	w, body := do(t, r, http.MethodPost, "/rooms", gin.H{"title": "", "timeSlot": "12:30", "menu": "chinese", "maxCount": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])

	w, _ = do(t, r, http.MethodPost, "/rooms", gin.H{"title": "x", "timeSlot": "09:00", "menu": "chinese", "maxCount": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUsersAndStats(t *testing.T) {
	r := newTestServer(t, nil)

	w, user := do(t, r, http.MethodGet, "/users/demo1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "김철수", user["name"])
	assert.Equal(t, "새싹", user["foodLevel"].(map[string]interface{})["name"])

	w, _ = do(t, r, http.MethodGet, "/users/nobody", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodGet, "/users", nil)
	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 5)

	do(t, r, http.MethodPost, "/match/join", noonKorean("demo4"))
	w, stats := do(t, r, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, stats["waitingUsers"])
	assert.EqualValues(t, 1, stats["menuStats"].(map[string]interface{})["korean"])

	w, _ = do(t, r, http.MethodGet, "/stats/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotZero(t, w.Body.Len())
}

func TestRestaurants(t *testing.T) {
	r := newTestServer(t, nil)

	w, _ := do(t, r, http.MethodGet, "/restaurants?menu=Japanese&priceRange=high", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.NotEmpty(t, list)
	for _, rest := range list {
		assert.Equal(t, "japanese", rest["type"])
		assert.Equal(t, "high", rest["price"])
	}

	w, rest := do(t, r, http.MethodGet, "/restaurants/random?menu=salad", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "salad", rest["type"])
}

func TestHealth(t *testing.T) {
	r := newTestServer(t, nil)

	w, body := do(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestSubmissionsAreRateLimited(t *testing.T) {
	rl := middleware.NewRateLimiter(1, 100, time.Minute)
	defer rl.Stop()
	r := newTestServer(t, rl.Middleware())

	w, _ := do(t, r, http.MethodPost, "/match/join", noonKorean("demo5"), middleware.UserHeader, "demo5")
	require.Equal(t, http.StatusOK, w.Code)

	w, body := do(t, r, http.MethodPost, "/match/join", noonKorean("demo5"), middleware.UserHeader, "demo5")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body["code"])

	w, _ = do(t, r, http.MethodGet, "/match/active/demo5", nil, middleware.UserHeader, "demo5")
	assert.Equal(t, http.StatusOK, w.Code, "reads are not limited")
}
