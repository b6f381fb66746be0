// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/creator-staking/api/accounts"
	"github.com/vechain/creator-staking/api/creators"
	"github.com/vechain/creator-staking/api/rounds"
	"github.com/vechain/creator-staking/api/stakers"
	"github.com/vechain/creator-staking/api/stakes"
	"github.com/vechain/creator-staking/eventdb"
	"github.com/vechain/creator-staking/health"
	"github.com/vechain/creator-staking/lvldb"
	"github.com/vechain/creator-staking/metrics"
	"github.com/vechain/creator-staking/node"
	"github.com/vechain/creator-staking/staking"
	"github.com/vechain/creator-staking/thor"
)

var (
	creator = thor.BytesToAddress([]byte("creator"))
	staker  = thor.BytesToAddress([]byte("staker"))
)

type testServer struct {
	t    *testing.T
	url  string
	node *node.Node
}

func newTestServer(t *testing.T, mutations bool) *testServer {
	metrics.InitializePrometheusMetrics()

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	params := staking.DefaultParams()
	params.RoundLength = 3
	n, err := node.New(db, params, node.Options{})
	require.NoError(t, err)
	t.Cleanup(n.Close)

	eventDB, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { eventDB.Close() })

	recorder := eventdb.NewRecorder(eventDB, n)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		recorder.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	handler, closeFn := New(n, eventDB, Options{
		AllowedOrigins:  "*",
		EnableMutations: mutations,
		EnableMetrics:   true,
		LogLevel:        new(slog.LevelVar),
	})
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		closeFn()
		ts.Close()
	})
	return &testServer{t: t, url: ts.URL, node: n}
}

func (ts *testServer) do(method, path string, body any) (int, []byte) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, ts.url+path, reader)
	require.NoError(ts.t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(ts.t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(ts.t, err)
	return res.StatusCode, data
}

func (ts *testServer) ok(method, path string, body any, out any) {
	code, data := ts.do(method, path, body)
	require.Equal(ts.t, http.StatusOK, code, "%s %s: %s", method, path, data)
	if out != nil {
		require.NoError(ts.t, json.Unmarshal(data, out))
	}
}

func addr(a thor.Address) *thor.Address { return &a }

func TestAPI_StakingFlow(t *testing.T) {
	ts := newTestServer(t, true)

	ts.ok(http.MethodPost, "/accounts/deposit", &accounts.DepositRequest{Account: addr(creator), Amount: uint256.NewInt(1000)}, nil)
	ts.ok(http.MethodPost, "/accounts/deposit", &accounts.DepositRequest{Account: addr(staker), Amount: uint256.NewInt(500)}, nil)
	ts.ok(http.MethodPost, "/creators/register", &creators.Request{Creator: addr(creator)}, nil)

	var d stakes.Delta
	ts.ok(http.MethodPost, "/stakes", &stakes.Request{Staker: addr(staker), Creator: addr(creator), Amount: uint256.NewInt(150)}, &d)
	assert.Equal(t, uint64(150), d.Increase.Uint64())
	assert.True(t, d.Decrease.IsZero())

	var c creators.Creator
	ts.ok(http.MethodGet, "/creators/"+creator.String(), nil, &c)
	assert.Equal(t, uint64(150), c.StakedAmount.Uint64())
	assert.Equal(t, uint32(1), c.StakersCount)

	var list []creators.Creator
	ts.ok(http.MethodGet, "/creators", nil, &list)
	assert.Len(t, list, 1)

	var st stakers.Staker
	ts.ok(http.MethodGet, "/stakers/"+staker.String(), nil, &st)
	assert.Equal(t, uint64(150), st.Total.Uint64())
	assert.Equal(t, []thor.Address{creator}, st.Creators)

	var b accounts.Balance
	ts.ok(http.MethodGet, "/accounts/"+staker.String(), nil, &b)
	assert.Equal(t, uint64(350), b.Free.Uint64())
	assert.Equal(t, uint64(150), b.Reserved.Uint64())

	// finish round 1
	for range 3 {
		_, err := ts.node.Tick()
		require.NoError(t, err)
	}

	var current rounds.Current
	ts.ok(http.MethodGet, "/rounds/current", nil, &current)
	assert.Equal(t, uint32(2), current.Index)
	assert.Equal(t, uint32(3), current.FirstBlock)
	assert.Equal(t, uint32(3), current.Block)
	assert.Equal(t, uint64(150), current.TotalStaked.Uint64())

	var snapshot rounds.Snapshot
	ts.ok(http.MethodGet, "/rounds/1", nil, &snapshot)
	assert.Equal(t, uint64(150), snapshot.Staked.Uint64())

	ts.ok(http.MethodPost, "/stakes/unstake", &stakes.Request{Staker: addr(staker), Creator: addr(creator), Amount: uint256.NewInt(100)}, &d)
	assert.Equal(t, uint64(100), d.Decrease.Uint64())

	var stake stakers.Stake
	ts.ok(http.MethodGet, "/stakers/"+staker.String()+"/stakes/"+creator.String()+"?round=1", nil, &stake)
	assert.Equal(t, uint64(150), stake.Amount.Uint64())
	assert.Len(t, stake.Checkpoints, 2)
	ts.ok(http.MethodGet, "/stakers/"+staker.String()+"/stakes/"+creator.String(), nil, &stake)
	assert.Equal(t, uint64(50), stake.Amount.Uint64())

	var withdrawal stakes.Withdrawal
	ts.ok(http.MethodPost, "/stakes/unstake-all", &stakes.Request{Staker: addr(staker), Creator: addr(creator)}, &withdrawal)
	assert.Equal(t, uint64(50), withdrawal.Amount.Uint64())

	var report staking.ReconcileReport
	ts.ok(http.MethodGet, "/admin/reconcile", nil, &report)
	assert.Empty(t, report.Drifts)
	assert.Equal(t, 1, report.Positions)

	require.Eventually(t, func() bool {
		var evs []eventdb.Event
		ts.ok(http.MethodGet, "/events", nil, &evs)
		return len(evs) == 5
	}, 5*time.Second, 10*time.Millisecond)

	var evs []eventdb.Event
	ts.ok(http.MethodGet, "/events?kind=Unstaked&order=desc", nil, &evs)
	require.Len(t, evs, 2)
	assert.Equal(t, uint64(50), evs[0].Amount.Uint64())
	assert.Equal(t, uint32(2), evs[0].Round)

	ts.ok(http.MethodGet, "/events?from=2&staker="+staker.String(), nil, &evs)
	assert.Len(t, evs, 2)
}

func TestAPI_Errors(t *testing.T) {
	ts := newTestServer(t, true)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		code   int
	}{
		{"bad address", http.MethodGet, "/creators/0x12", nil, http.StatusBadRequest},
		{"unknown creator", http.MethodGet, "/creators/" + creator.String(), nil, http.StatusNotFound},
		{"unknown staker", http.MethodGet, "/stakers/" + staker.String(), nil, http.StatusNotFound},
		{"revert", http.MethodPost, "/creators/register", &creators.Request{Creator: addr(creator)}, http.StatusBadRequest},
		{"stake too low", http.MethodPost, "/stakes", &stakes.Request{Staker: addr(staker), Creator: addr(creator), Amount: uint256.NewInt(1)}, http.StatusBadRequest},
		{"missing amount", http.MethodPost, "/stakes", &stakes.Request{Staker: addr(staker), Creator: addr(creator)}, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/creators/register", map[string]string{"who": "me"}, http.StatusBadRequest},
		{"no snapshot", http.MethodGet, "/rounds/1", nil, http.StatusBadRequest},
		{"bad round", http.MethodGet, "/rounds/x", nil, http.StatusBadRequest},
		{"future round", http.MethodGet, "/stakers/" + staker.String() + "/stakes/" + creator.String() + "?round=9", nil, http.StatusBadRequest},
		{"bad kind", http.MethodGet, "/events?kind=Nope", nil, http.StatusBadRequest},
		{"inverted range", http.MethodGet, "/events?from=3&to=2", nil, http.StatusBadRequest},
		{"limit too large", http.MethodGet, "/events?limit=5000", nil, http.StatusForbidden},
		{"bad log level", http.MethodPost, "/admin/loglevel", map[string]string{"level": "loud"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, data := ts.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.code, code, string(data))
		})
	}
}

func TestAPI_ReadOnly(t *testing.T) {
	ts := newTestServer(t, false)

	code, _ := ts.do(http.MethodPost, "/stakes", &stakes.Request{Staker: addr(staker), Creator: addr(creator), Amount: uint256.NewInt(100)})
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = ts.do(http.MethodPost, "/accounts/deposit", &accounts.DepositRequest{Account: addr(staker), Amount: uint256.NewInt(100)})
	assert.Equal(t, http.StatusMethodNotAllowed, code)

	var params map[string]any
	ts.ok(http.MethodGet, "/admin/params", nil, &params)
	assert.Equal(t, "50", params["minStake"])

	var status health.Status
	ts.ok(http.MethodGet, "/admin/health", nil, &status)
	assert.True(t, status.Healthy)
	assert.False(t, status.ClockEnabled)

	code, data := ts.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, data)
}

func TestAPI_LogLevel(t *testing.T) {
	ts := newTestServer(t, false)

	var res map[string]string
	ts.ok(http.MethodPost, "/admin/loglevel", map[string]string{"level": "debug"}, &res)
	assert.Equal(t, "DEBUG", res["currentLevel"])
	ts.ok(http.MethodGet, "/admin/loglevel", nil, &res)
	assert.Equal(t, "DEBUG", res["currentLevel"])
}

func TestAPI_SubscribeEvents(t *testing.T) {
	ts := newTestServer(t, true)

	wsURL := "ws" + strings.TrimPrefix(ts.url, "http") + "/subscriptions/events?kind=NewRound"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// the stream only carries the requested kind
	ts.ok(http.MethodPost, "/accounts/deposit", &accounts.DepositRequest{Account: addr(creator), Amount: uint256.NewInt(1000)}, nil)
	ts.ok(http.MethodPost, "/creators/register", &creators.Request{Creator: addr(creator)}, nil)
	for range 3 {
		_, err := ts.node.Tick()
		require.NoError(t, err)
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev staking.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, staking.EventNewRound, ev.Kind)
	assert.Equal(t, uint32(2), ev.Round)
	assert.Equal(t, uint32(3), ev.Block)
}
