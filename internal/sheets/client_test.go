package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-dash-api/pkg/config"
	appErrors "github.com/noah-isme/sma-dash-api/pkg/errors"
)

type recordingObserver struct {
	endpoints []string
	errs      []error
}

func (r *recordingObserver) ObserveUpstreamRequest(endpoint string, _ time.Duration, err error) {
	r.endpoints = append(r.endpoints, endpoint)
	r.errs = append(r.errs, err)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recordingObserver) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	observer := &recordingObserver{}
	client := NewClient(config.SheetsConfig{
		BaseURL: server.URL,
		Token:   "test-token",
		Timeout: 2 * time.Second,
	}, zap.NewNop(), observer)
	return client, observer
}

func TestClientStudents_DecodesEnvelope(t *testing.T) {
	client, observer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/students", r.URL.Path)
		assert.Equal(t, "7a", r.URL.Query().Get("classId"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"students":[{"id":"s1","username":"budi","fullName":"Budi","classId":"7a"}]}`)) //nolint:errcheck
	})

	students, err := client.Students(context.Background(), "7a")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "budi", students[0].Username)
	assert.Equal(t, []string{"/students"}, observer.endpoints)
}

func TestClientStudents_UpstreamFailureEnvelope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"error":"Sheet Students tidak ditemukan"}`)) //nolint:errcheck
	})

	_, err := client.Students(context.Background(), "")
	require.Error(t, err)

	typed := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUpstream.Code, typed.Code)
	assert.Equal(t, http.StatusBadGateway, typed.Status)
	// The upstream message is preserved verbatim.
	assert.Equal(t, "Sheet Students tidak ditemukan", typed.Message)
}

func TestClientStudents_FailureWithoutMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false}`)) //nolint:errcheck
	})

	_, err := client.Students(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Message, "status 500")
}

func TestClientStudents_MalformedBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway timeout</html>`)) //nolint:errcheck
	})

	_, err := client.Students(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErrors.FromError(err).Code)
}

func TestClientAwardPoints_PostsBodyAndReturnsTotal(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/gamification/awardPoints", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "budi", body["studentUsername"])
		assert.Equal(t, float64(25), body["points"])

		w.Write([]byte(`{"success":true,"newTotal":125}`)) //nolint:errcheck
	})

	total, err := client.AwardPoints(context.Background(), "7a", "budi", 25, "aktif di kelas")
	require.NoError(t, err)
	assert.Equal(t, 125, total)
}

func TestClientSaveAttendance_PutsRecords(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/attendance", r.URL.Path)
		w.Write([]byte(`{"success":true}`)) //nolint:errcheck
	})

	err := client.SaveAttendance(context.Background(), "7a", "2026-01-10", nil)
	require.NoError(t, err)
}

func TestClientTransportError_ObservedWithError(t *testing.T) {
	observer := &recordingObserver{}
	client := NewClient(config.SheetsConfig{
		BaseURL: "http://127.0.0.1:1",
		Timeout: 200 * time.Millisecond,
	}, zap.NewNop(), observer)

	_, err := client.Classes(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErrors.FromError(err).Code)
	require.Len(t, observer.errs, 1)
	assert.Error(t, observer.errs[0])
}
