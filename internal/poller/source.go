package poller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mroshb/lunchmate/internal/models"
	"github.com/mroshb/lunchmate/internal/services"
	"github.com/mroshb/lunchmate/pkg/errors"
)

func isNotFound(err error) bool {
	return errors.HasCode(err, errors.ErrCodeNotFound)
}

// LocalSource polls services in the same process.
type LocalSource struct {
	Matches *services.MatchService
	Rooms   *services.RoomService
}

func (s LocalSource) Status(_ context.Context, requestID string, elapsed time.Duration) (*services.StatusResult, error) {
	return s.Matches.Status(requestID, elapsed), nil
}

func (s LocalSource) Cancel(_ context.Context, requestID string) error {
	s.Matches.Cancel(requestID)
	return nil
}

func (s LocalSource) Room(_ context.Context, roomID string) (*models.Room, error) {
	return s.Rooms.GetRoom(roomID)
}

// HTTPSource polls a running lunchmate server.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *HTTPSource) Status(ctx context.Context, requestID string, elapsed time.Duration) (*services.StatusResult, error) {
	q := url.Values{}
	q.Set("matchRequestId", requestID)
	q.Set("elapsedSeconds", strconv.Itoa(int(elapsed/time.Second)))

	var out services.StatusResult
	if err := s.do(ctx, http.MethodGet, "/match/status?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *HTTPSource) Cancel(ctx context.Context, requestID string) error {
	return s.do(ctx, http.MethodDelete, "/match/cancel", map[string]string{"matchRequestId": requestID}, nil)
}

func (s *HTTPSource) Room(ctx context.Context, roomID string) (*models.Room, error) {
	var out models.Room
	if err := s.do(ctx, http.MethodGet, "/rooms/"+url.PathEscape(roomID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *HTTPSource) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var eb errorBody
		if decodeErr := json.NewDecoder(resp.Body).Decode(&eb); decodeErr != nil || eb.Code == "" {
			return errors.New(errors.ErrCodeInternalError, fmt.Sprintf("unexpected status %d", resp.StatusCode))
		}
		return errors.New(eb.Code, eb.Message)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
