package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/BaR488/Raiblocks.Api/lib/block/types"
	"github.com/BaR488/Raiblocks.Api/lib/msg"
	"github.com/BaR488/Raiblocks.Api/lib/store"
)

const (
	maxTake = 1000    // largest page or history size a client may ask for
	maxBody = 1 << 20 // request bodies are small JSON documents
)

// Errors returned to client requests.
var (
	ErrBadRequest = errors.New("bad request")
	ErrBadTake    = fmt.Errorf("%w: take must be between 1 and %d", ErrBadRequest, maxTake)
)

// Response defines the data structure returned to the client making the http request.
type Response struct {
	Body  string `json:"body"`
	Error string `json:"error,omitempty"`
}

// TransferReq is the body of an unsigned transfer request. Amount is in raw.
type TransferReq struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// BroadcastReq is the body of a broadcast request.
type BroadcastReq struct {
	SignedTransaction string `json:"signedTransaction"`
}

// BroadcastRes is the outcome of a broadcast. Error holds the node rejection reason.
type BroadcastRes struct {
	Hash  string `json:"hash,omitempty"`
	Error string `json:"error,omitempty"`
}

// AccountInfoRes is the reply to an account info request.
type AccountInfoRes struct {
	Frontier   string `json:"frontier"`
	BlockCount int64  `json:"blockCount"`
}

// TransferRes is one history record. Amount is in raw.
type TransferRes struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
	Hash   string `json:"hash"`
}

// Page is one page of a listing. An empty Continuation means there are no more items.
type Page[T any] struct {
	Continuation string `json:"continuation,omitempty"`
	Items        []T    `json:"items"`
}

// httpStatus maps an error to the status code replied to the client.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest), types.IsValidation(err),
		errors.Is(err, store.ErrBadContinuation), errors.Is(err, store.ErrBadTake):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrNode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, types.ErrNetwork), errors.Is(err, types.ErrBadResponse),
		errors.Is(err, types.ErrUnknownHistoryType):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// reply writes the response envelope. status is used when err is nil.
func (w *Wallet) reply(rw http.ResponseWriter, r *http.Request, status int, body string, err error) {
	var res Response

	if err != nil {
		status = httpStatus(err)
		res.Error = err.Error()
	} else {
		res.Body = body
	}

	l := w.log.With(zap.String("remote", r.RemoteAddr), zap.String("uri", r.RequestURI), zap.Int("status", status))
	if status >= http.StatusInternalServerError {
		l.Error("httpreq", zap.Error(err))
	} else {
		l.Debug("httpreq", zap.Error(err))
	}

	rw.Header().Set("Content-Type", "application/json;charset=utf8")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(&res)
}

func jsonBody(v interface{}) string {
	tmp, _ := json.Marshal(v)
	return string(tmp)
}

func decode(rw http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := json.NewDecoder(http.MaxBytesReader(rw, r.Body, maxBody)).Decode(v); err != nil {
		return fmt.Errorf("%w: %s", ErrBadRequest, err)
	}
	return nil
}

// take reads the take query parameter, store.DefaultTake when absent.
func take(r *http.Request) (int, error) {
	s := r.URL.Query().Get("take")
	if s == "" {
		return store.DefaultTake, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxTake {
		return 0, ErrBadTake
	}
	return n, nil
}

// homeHandler just replies a welcome message to the client.
func (w *Wallet) homeHandler(rw http.ResponseWriter, r *http.Request) {
	w.reply(rw, r, http.StatusOK, "Hello, this is your RaiBlocks api!", nil)
}

// balanceHandler replies the balance of the address requested.
func (w *Wallet) balanceHandler(rw http.ResponseWriter, r *http.Request) {
	var (
		err error
		bal string
	)

	defer func() { w.reply(rw, r, http.StatusOK, bal, err) }()

	bal, err = w.GetBalance(r.Context(), mux.Vars(r)["address"])
}

// balancesHandler replies the balances of the list of addresses in the request body.
func (w *Wallet) balancesHandler(rw http.ResponseWriter, r *http.Request) {
	var (
		err   error
		addrs []string
		bals  map[string]string
	)

	defer func() { w.reply(rw, r, http.StatusOK, jsonBody(bals), err) }()

	if err = decode(rw, r, &addrs); err != nil {
		return
	}

	bals, err = w.GetBalances(r.Context(), addrs)
}

// validityHandler replies whether the address is valid. Malformed addresses are just invalid.
func (w *Wallet) validityHandler(rw http.ResponseWriter, r *http.Request) {
	var (
		err   error
		valid bool
	)

	defer func() { w.reply(rw, r, http.StatusOK, strconv.FormatBool(valid), err) }()

	valid, err = w.ValidateAddress(r.Context(), mux.Vars(r)["address"])
}

// blockCountHandler replies the number of blocks in the chain of the address.
func (w *Wallet) blockCountHandler(rw http.ResponseWriter, r *http.Request) {
	var (
		err error
		n   int64
	)

	defer func() { w.reply(rw, r, http.StatusOK, strconv.FormatInt(n, 10), err) }()

	n, err = w.GetBlockCount(r.Context(), mux.Vars(r)["address"])
}

// accountInfoHandler replies the frontier and block count of the address.
func (w *Wallet) accountInfoHandler(rw http.ResponseWriter, r *http.Request) {
	var (
		err error
		res AccountInfoRes
	)

	defer func() { w.reply(rw, r, http.StatusOK, jsonBody(res), err) }()

	res.Frontier, res.BlockCount, err = w.GetAccountInfo(r.Context(), mux.Vars(r)["address"])
}

// historyHandler replies the latest transfers of the address, up to the take query parameter.
func (w *Wallet) historyHandler(rw http.ResponseWriter, r *http.Request) {
	var (
		err error
		res = []TransferRes{}
	)

	defer func() { w.reply(rw, r, http.StatusOK, jsonBody(res), err) }()

	n, err := take(r)
	if err != nil {
		return
	}

	ts, err := w.GetHistory(r.Context(), mux.Vars(r)["address"], n)
	if err != nil {
		return
	}

	for _, t := range ts {
		res = append(res, TransferRes{From: t.From, To: t.To, Amount: types.FormatRaw(t.Amount), Hash: t.Hash})
	}
}

// unsignedHandler replies the unsigned send block for the transfer in the request body.
func (w *Wallet) unsignedHandler(rw http.ResponseWriter, r *http.Request) {
	var (
		err error
		req TransferReq
		blk string
	)

	defer func() { w.reply(rw, r, http.StatusOK, blk, err) }()

	if err = decode(rw, r, &req); err != nil {
		return
	}

	blk, err = w.AssembleTransfer(r.Context(), req.From, req.To, req.Amount)
}

// broadcastHandler publishes the signed block in the request body. A rejection by the node is replied in the body
// with a 200 status.
func (w *Wallet) broadcastHandler(rw http.ResponseWriter, r *http.Request) {
	var (
		err error
		req BroadcastReq
		res BroadcastRes
	)

	defer func() { w.reply(rw, r, http.StatusOK, jsonBody(res), err) }()

	if err = decode(rw, r, &req); err != nil {
		return
	}

	if req.SignedTransaction == "" {
		err = fmt.Errorf("%w: signedTransaction is required", ErrBadRequest)
		return
	}

	res.Hash, res.Error, err = w.Broadcast(r.Context(), req.SignedTransaction)
}

// observationHandler starts (POST), stops (DELETE) or checks (GET) the observation of an address. Changes are sent to
// the broker so the refresher service picks them up.
func (w *Wallet) observationHandler(rw http.ResponseWriter, r *http.Request) {
	var (
		err    error
		ok     bool
		status = http.StatusAccepted
	)

	defer func() { w.reply(rw, r, status, strconv.FormatBool(ok), err) }()

	a, err := types.ParseAddress(mux.Vars(r)["address"])
	if err != nil {
		return
	}

	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		status = http.StatusOK
		ok, err = w.tracker.IsObserved(ctx, a.String())
	case http.MethodPost:
		if ok, err = w.tracker.AddObservation(ctx, a.String()); err == nil {
			w.publish(a.String(), msg.LISTEN)
		}
	case http.MethodDelete:
		if ok, err = w.tracker.RemoveObservation(ctx, a.String()); err != nil {
			return
		}
		if _, err = w.tracker.RemoveBalance(ctx, store.AddressBalance{Address: a.String()}); err == nil {
			w.publish(a.String(), msg.UNLISTEN)
		}
	}
}

// publish sends an observation request to the broker. The repositories are the source of truth, so a failure is
// logged and not replied.
func (w *Wallet) publish(address string, act int) {
	if w.mb == nil {
		return
	}

	if err := w.mb.SendRequest(msg.ObservationReq{Address: address, Act: act}); err != nil {
		w.log.Error("cannot send observation request",
			zap.String("address", address), zap.String("act", msg.ActName(act)), zap.Error(err))
	}
}

// observationsHandler replies a page of observed addresses.
func (w *Wallet) observationsHandler(rw http.ResponseWriter, r *http.Request) {
	var (
		err error
		res = Page[string]{Items: []string{}}
	)

	defer func() { w.reply(rw, r, http.StatusOK, jsonBody(res), err) }()

	n, err := take(r)
	if err != nil {
		return
	}

	next, items, err := w.tracker.Observations(r.Context(), n, r.URL.Query().Get("continuation"))
	if err != nil {
		return
	}

	res.Continuation = next
	for _, o := range items {
		res.Items = append(res.Items, o.Address)
	}
}

// cachedBalancesHandler replies a page of the balances stored by the refresher service.
func (w *Wallet) cachedBalancesHandler(rw http.ResponseWriter, r *http.Request) {
	var (
		err error
		res = Page[store.AddressBalance]{Items: []store.AddressBalance{}}
	)

	defer func() { w.reply(rw, r, http.StatusOK, jsonBody(res), err) }()

	n, err := take(r)
	if err != nil {
		return
	}

	next, items, err := w.tracker.Balances(r.Context(), n, r.URL.Query().Get("continuation"))
	if err != nil {
		return
	}

	res.Continuation = next
	res.Items = append(res.Items, items...)
}
