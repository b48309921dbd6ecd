package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-hotseat/internal/domain"
	"github.com/iamasit07/connect4-hotseat/internal/service/table"
	"github.com/iamasit07/connect4-hotseat/pkg/auth"
	"github.com/iamasit07/connect4-hotseat/pkg/httputil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "http-test-secret"

type fakeResults struct {
	results []domain.GameResult
	err     error
	limit   int
}

func (f *fakeResults) GetResult(ctx context.Context, tableID string, gameNumber int) (*domain.GameResult, error) {
	for i := range f.results {
		if f.results[i].TableID == tableID && f.results[i].GameNumber == gameNumber {
			return &f.results[i], nil
		}
	}
	return nil, f.err
}

func (f *fakeResults) ListByTable(ctx context.Context, tableID string) ([]domain.GameResult, error) {
	out := []domain.GameResult{}
	for _, r := range f.results {
		if r.TableID == tableID {
			out = append(out, r)
		}
	}
	return out, f.err
}

func (f *fakeResults) ListRecent(ctx context.Context, limit int) ([]domain.GameResult, error) {
	f.limit = limit
	return f.results, f.err
}

type fakeTotals struct {
	tally domain.Tally
	err   error
}

func (f fakeTotals) Totals(ctx context.Context) (domain.Tally, error) {
	return f.tally, f.err
}

type nopNotifier struct{ closed []string }

func (n *nopNotifier) Broadcast(string, domain.ServerMessage) {}
func (n *nopNotifier) CloseTable(tableID string)              { n.closed = append(n.closed, tableID) }

type testServer struct {
	router   *gin.Engine
	tables   *table.Manager
	notifier *nopNotifier
}

func newTestServer(t *testing.T, results ResultReader, totals TotalsReader) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tables := table.NewManager(domain.DefaultColumns, domain.DefaultRows, nil, nil)
	notifier := &nopNotifier{}
	router := NewRouter(
		RouterConfig{AllowedOrigins: []string{"http://allowed.test"}, JWTSecret: testSecret},
		NewTableHandler(tables, notifier, testSecret, time.Hour, false),
		NewHistoryHandler(results, totals),
		func(c *gin.Context) { c.Status(http.StatusTeapot) },
	)
	return &testServer{router: router, tables: tables, notifier: notifier}
}

func (s *testServer) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) createTable(t *testing.T) createTableResponse {
	t.Helper()
	w := s.do(http.MethodPost, "/api/tables", "")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp createTableResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateTable(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := s.do(http.MethodPost, "/api/tables", "")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp createTableResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.TableID)
	assert.Equal(t, 7, resp.Width)
	assert.Equal(t, 6, resp.Height)
	assert.NoError(t, auth.AuthorizeTable(resp.Token, resp.TableID, testSecret))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, httputil.TableCookieName, cookies[0].Name)

	_, ok := s.tables.GetTable(resp.TableID)
	assert.True(t, ok)
}

func TestGetTableRequiresToken(t *testing.T) {
	s := newTestServer(t, nil, nil)
	created := s.createTable(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/tables/"+created.TableID, "").Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/tables/"+created.TableID, "garbage").Code)

	other := s.createTable(t)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/tables/"+created.TableID, other.Token).Code)
}

func TestGetTableSnapshot(t *testing.T) {
	s := newTestServer(t, nil, nil)
	created := s.createTable(t)

	tbl, _ := s.tables.GetTable(created.TableID)
	require.NoError(t, tbl.HandleDrop(4, &nopNotifier{}))

	w := s.do(http.MethodGet, "/api/tables/"+created.TableID, created.Token)
	require.Equal(t, http.StatusOK, w.Code)

	var snap table.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, created.TableID, snap.TableID)
	assert.Equal(t, 1, snap.MoveCount)
	assert.Equal(t, domain.Player2, snap.CurrentTurn)
	assert.Equal(t, domain.Player1, snap.Board[5][4])
	assert.Equal(t, domain.StatusInProgress, snap.Status)
}

func TestGetTableNotFound(t *testing.T) {
	s := newTestServer(t, nil, nil)
	token, err := auth.GenerateTableToken("gone", testSecret, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/tables/gone", token).Code)
}

func TestCloseTable(t *testing.T) {
	s := newTestServer(t, nil, nil)
	created := s.createTable(t)

	w := s.do(http.MethodDelete, "/api/tables/"+created.TableID, created.Token)

	assert.Equal(t, http.StatusNoContent, w.Code)
	_, ok := s.tables.GetTable(created.TableID)
	assert.False(t, ok)
	assert.Equal(t, []string{created.TableID}, s.notifier.closed)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/tables/"+created.TableID, created.Token).Code)
}

func TestListTables(t *testing.T) {
	s := newTestServer(t, nil, nil)
	s.createTable(t)
	s.createTable(t)

	w := s.do(http.MethodGet, "/api/tables", "")
	require.Equal(t, http.StatusOK, w.Code)

	var live []liveTableResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &live))
	assert.Len(t, live, 2)
}

func TestHistoryDisabled(t *testing.T) {
	s := newTestServer(t, nil, nil)
	created := s.createTable(t)

	assert.Equal(t, http.StatusServiceUnavailable, s.do(http.MethodGet, "/api/tables/"+created.TableID+"/history", created.Token).Code)
	assert.Equal(t, http.StatusServiceUnavailable, s.do(http.MethodGet, "/api/results/recent", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, s.do(http.MethodGet, "/api/scoreboard", "").Code)
}

func TestTableHistory(t *testing.T) {
	results := &fakeResults{}
	s := newTestServer(t, results, nil)
	created := s.createTable(t)
	results.results = []domain.GameResult{
		{TableID: created.TableID, GameNumber: 1, Outcome: domain.StatusWon, Winner: domain.Player2},
		{TableID: "other", GameNumber: 1, Outcome: domain.StatusDraw},
	}

	w := s.do(http.MethodGet, "/api/tables/"+created.TableID+"/history", created.Token)
	require.Equal(t, http.StatusOK, w.Code)

	var got []domain.GameResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, domain.Player2, got[0].Winner)
}

func TestGameDetails(t *testing.T) {
	results := &fakeResults{}
	s := newTestServer(t, results, nil)
	created := s.createTable(t)
	results.results = []domain.GameResult{{TableID: created.TableID, GameNumber: 1, Outcome: domain.StatusDraw, TotalMoves: 42}}
	base := "/api/tables/" + created.TableID + "/history/"

	w := s.do(http.MethodGet, base+"1", created.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var got domain.GameResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 42, got.TotalMoves)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, base+"2", created.Token).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, base+"zero", created.Token).Code)
}

func TestRecentResultsLimit(t *testing.T) {
	results := &fakeResults{}
	s := newTestServer(t, results, nil)

	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/results/recent", "").Code)
	assert.Equal(t, defaultRecentLimit, results.limit)

	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/results/recent?limit=1000", "").Code)
	assert.Equal(t, maxRecentLimit, results.limit)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/results/recent?limit=-1", "").Code)
}

func TestRecentResultsError(t *testing.T) {
	s := newTestServer(t, &fakeResults{err: errors.New("boom")}, nil)

	assert.Equal(t, http.StatusInternalServerError, s.do(http.MethodGet, "/api/results/recent", "").Code)
}

func TestScoreboard(t *testing.T) {
	s := newTestServer(t, nil, fakeTotals{tally: domain.Tally{Player1Wins: 3, Draws: 1}})

	w := s.do(http.MethodGet, "/api/scoreboard", "")
	require.Equal(t, http.StatusOK, w.Code)

	var tally domain.Tally
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tally))
	assert.Equal(t, domain.Tally{Player1Wins: 3, Draws: 1}, tally)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/tables", nil)
	req.Header.Set("Origin", "http://allowed.test")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://allowed.test", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestWebSocketRouteIsMounted(t *testing.T) {
	s := newTestServer(t, nil, nil)

	assert.Equal(t, http.StatusTeapot, s.do(http.MethodGet, "/ws", "").Code)
}
