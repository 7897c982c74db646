package wallet

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaR488/Raiblocks.Api/balance"
	"github.com/BaR488/Raiblocks.Api/lib/block"
	"github.com/BaR488/Raiblocks.Api/lib/block/mock"
	"github.com/BaR488/Raiblocks.Api/lib/block/types"
	"github.com/BaR488/Raiblocks.Api/lib/msg"
	msgmock "github.com/BaR488/Raiblocks.Api/lib/msg/mock"
	"github.com/BaR488/Raiblocks.Api/lib/store"
	"github.com/BaR488/Raiblocks.Api/lib/store/memory"
)

type api struct {
	h       http.Handler
	node    *mock.MockNode
	mb      *msgmock.MockMsgBroker
	tracker *balance.Tracker
}

func newAPI(t *testing.T) *api {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	node := mock.NewMockNode(ctrl)
	mb := msgmock.NewMockMsgBroker(ctrl)
	db := memory.New()
	tr := balance.NewTracker(db.Observations(), db.Balances())

	w := New(block.NewGateway(node, 5, nil, nil), tr, mb, nil)
	return &api{h: w.Router(), node: node, mb: mb, tracker: tr}
}

func (a *api) do(t *testing.T, method, uri, body string) (int, Response) {
	t.Helper()

	req := httptest.NewRequest(method, uri, strings.NewReader(body))
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)

	var res Response
	if rec.Code != http.StatusMethodNotAllowed && rec.Code != http.StatusNotFound {
		assert.Equal(t, "application/json;charset=utf8", rec.Header().Get("Content-Type"))
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	}
	return rec.Code, res
}

func TestHome(t *testing.T) {
	a := newAPI(t)

	for _, m := range []string{http.MethodGet, http.MethodPost} {
		code, res := a.do(t, m, "/", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Hello, this is your RaiBlocks api!", res.Body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	a := newAPI(t)

	cases := []struct{ method, uri string }{
		{http.MethodGet, "/balances"},
		{http.MethodPost, "/balances/" + genesis},
		{http.MethodGet, "/transactions/broadcast"},
		{http.MethodPut, "/observations/" + genesis},
		{http.MethodPost, "/cached-balances"},
	}
	for _, c := range cases {
		code, _ := a.do(t, c.method, c.uri, "")
		assert.Equal(t, http.StatusMethodNotAllowed, code, "%s %s", c.method, c.uri)
	}
}

func TestBalanceHandlers(t *testing.T) {
	a := newAPI(t)

	a.node.EXPECT().Balance(gomock.Any(), genesisAddr).Return(big.NewInt(5), nil)
	code, res := a.do(t, http.MethodGet, "/balances/"+genesis, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "5", res.Body)

	code, res = a.do(t, http.MethodGet, "/balances/xrb_bad", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, res.Error, "invalid address")

	a.node.EXPECT().Balances(gomock.Any(), []types.Address{genesisAddr, burnAddr}).
		Return(map[string]*big.Int{genesis: big.NewInt(1), burn: big.NewInt(2)}, nil)
	code, res = a.do(t, http.MethodPost, "/balances", `["`+genesis+`","`+burn+`"]`)
	require.Equal(t, http.StatusOK, code)

	var bals map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.Body), &bals))
	assert.Equal(t, map[string]string{genesis: "1", burn: "2"}, bals)

	code, _ = a.do(t, http.MethodPost, "/balances", `{"not":"a list"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAddressHandlers(t *testing.T) {
	a := newAPI(t)

	code, res := a.do(t, http.MethodGet, "/addresses/whatever/validity", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "false", res.Body)

	a.node.EXPECT().BlockCount(gomock.Any(), genesisAddr).Return(int64(12), nil)
	code, res = a.do(t, http.MethodGet, "/addresses/"+genesis+"/blocks", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "12", res.Body)

	a.node.EXPECT().AccountInfo(gomock.Any(), genesisAddr).
		Return(types.AccountInfo{Frontier: "F", BlockCount: 3}, nil)
	code, res = a.do(t, http.MethodGet, "/addresses/"+genesis+"/info", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"frontier":"F","blockCount":3}`, res.Body)
}

func TestErrorStatus(t *testing.T) {
	a := newAPI(t)

	a.node.EXPECT().AccountInfo(gomock.Any(), genesisAddr).
		Return(types.AccountInfo{}, &types.NodeError{Action: "account_info", Message: "Account not found"})
	code, res := a.do(t, http.MethodGet, "/addresses/"+genesis+"/info", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, res.Error, "Account not found")

	a.node.EXPECT().BlockCount(gomock.Any(), genesisAddr).Return(int64(0), errConn).Times(5)
	code, _ = a.do(t, http.MethodGet, "/addresses/"+genesis+"/blocks", "")
	assert.Equal(t, http.StatusBadGateway, code)
}

func TestHistoryHandler(t *testing.T) {
	a := newAPI(t)

	for _, q := range []string{"0", "1001", "x"} {
		code, _ := a.do(t, http.MethodGet, "/addresses/"+genesis+"/history?take="+q, "")
		assert.Equal(t, http.StatusBadRequest, code, "take=%s", q)
	}

	a.node.EXPECT().History(gomock.Any(), genesisAddr, store.DefaultTake).Return(nil, nil)
	code, res := a.do(t, http.MethodGet, "/addresses/"+genesis+"/history", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "[]", res.Body)

	a.node.EXPECT().History(gomock.Any(), genesisAddr, 1).Return([]types.HistoryEntry{
		{Type: types.Send, Account: burn, Amount: new(big.Int).Lsh(big.NewInt(1), 100), Hash: "H"},
	}, nil)
	code, res = a.do(t, http.MethodGet, "/addresses/"+genesis+"/history?take=1", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t,
		`[{"from":"`+genesis+`","to":"`+burn+`","amount":"1267650600228229401496703205376","hash":"H"}]`, res.Body)
}

func TestTransactionHandlers(t *testing.T) {
	a := newAPI(t)

	code, _ := a.do(t, http.MethodPost, "/transactions/unsigned", "{")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(t, http.MethodPost, "/transactions/unsigned", `{"from":"`+genesis+`","to":"`+burn+`","amount":"1e3"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	a.node.EXPECT().AccountInfo(gomock.Any(), genesisAddr).Return(types.AccountInfo{Frontier: "F", Balance: big.NewInt(10)}, nil)
	a.node.EXPECT().Work(gomock.Any(), "F").Return("W", nil)
	code, res := a.do(t, http.MethodPost, "/transactions/unsigned", `{"from":"`+genesis+`","to":"`+burn+`","amount":"3"}`)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"type":"send","account":"`+genesis+`","destination":"`+burn+
		`","balance":"10","amount":"3","previous":"F","work":"W"}`, res.Body)

	code, _ = a.do(t, http.MethodPost, "/transactions/broadcast", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)

	a.node.EXPECT().Process(gomock.Any(), "{blk}").Return(types.ProcessResult{Error: "Old block"}, nil)
	code, res = a.do(t, http.MethodPost, "/transactions/broadcast", `{"signedTransaction":"{blk}"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, res.Error)
	assert.JSONEq(t, `{"error":"Old block"}`, res.Body)

	a.node.EXPECT().Process(gomock.Any(), "{blk}").Return(types.ProcessResult{Hash: "H"}, nil)
	_, res = a.do(t, http.MethodPost, "/transactions/broadcast", `{"signedTransaction":"{blk}"}`)
	assert.JSONEq(t, `{"hash":"H"}`, res.Body)
}

func TestObservationHandlers(t *testing.T) {
	a := newAPI(t)
	ctx := context.Background()

	code, _ := a.do(t, http.MethodPost, "/observations/xrb_bad", "")
	assert.Equal(t, http.StatusBadRequest, code)

	a.mb.EXPECT().SendRequest(msg.ObservationReq{Address: genesis, Act: msg.LISTEN}).Return(nil).Times(2)

	code, res := a.do(t, http.MethodPost, "/observations/"+genesis, "")
	assert.Equal(t, http.StatusAccepted, code)
	assert.Equal(t, "true", res.Body)

	_, res = a.do(t, http.MethodPost, "/observations/"+strings.ToUpper(genesis), "")
	assert.Equal(t, "false", res.Body, "address is stored in canonical form")

	code, res = a.do(t, http.MethodGet, "/observations/"+genesis, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "true", res.Body)

	code, res = a.do(t, http.MethodGet, "/observations?take=10", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"items":["`+genesis+`"]}`, res.Body)

	_, err := a.tracker.AddBalance(ctx, store.AddressBalance{Address: genesis, Balance: "1", UpdatedAt: time.Unix(0, 0).UTC()})
	require.NoError(t, err)

	a.mb.EXPECT().SendRequest(msg.ObservationReq{Address: genesis, Act: msg.UNLISTEN}).Return(nil)

	code, res = a.do(t, http.MethodDelete, "/observations/"+genesis, "")
	assert.Equal(t, http.StatusAccepted, code)
	assert.Equal(t, "true", res.Body)

	ok, err := a.tracker.IsBalanceExist(ctx, store.AddressBalance{Address: genesis})
	require.NoError(t, err)
	assert.False(t, ok, "cached balance removed with the observation")
}

func TestListingHandlers(t *testing.T) {
	a := newAPI(t)
	ctx := context.Background()

	for _, addr := range []string{burn, genesis} {
		_, err := a.tracker.AddBalance(ctx, store.AddressBalance{Address: addr, Balance: "7", UpdatedAt: time.Unix(10, 0).UTC()})
		require.NoError(t, err)
	}

	code, res := a.do(t, http.MethodGet, "/cached-balances?take=1", "")
	require.Equal(t, http.StatusOK, code)

	var page Page[store.AddressBalance]
	require.NoError(t, json.Unmarshal([]byte(res.Body), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, burn, page.Items[0].Address)
	require.NotEmpty(t, page.Continuation)

	_, res = a.do(t, http.MethodGet, "/cached-balances?take=1&continuation="+page.Continuation, "")
	page = Page[store.AddressBalance]{}
	require.NoError(t, json.Unmarshal([]byte(res.Body), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, genesis, page.Items[0].Address)
	assert.Empty(t, page.Continuation)

	code, _ = a.do(t, http.MethodGet, "/cached-balances?continuation=%25%25", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, res = a.do(t, http.MethodGet, "/observations", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"items":[]}`, res.Body)
}
