package wallet

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BaR488/Raiblocks.Api/lib/metrics"
)

const timeout = 15 * time.Second

// Router returns the RESTful API routes.
func (w *Wallet) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(metrics.Middleware)

	r.HandleFunc("/", w.homeHandler)
	r.HandleFunc("/balances/{address}", w.balanceHandler).Methods(http.MethodGet)
	r.HandleFunc("/balances", w.balancesHandler).Methods(http.MethodPost)
	r.HandleFunc("/addresses/{address}/validity", w.validityHandler).Methods(http.MethodGet)
	r.HandleFunc("/addresses/{address}/blocks", w.blockCountHandler).Methods(http.MethodGet)
	r.HandleFunc("/addresses/{address}/info", w.accountInfoHandler).Methods(http.MethodGet)
	r.HandleFunc("/addresses/{address}/history", w.historyHandler).Methods(http.MethodGet)
	r.HandleFunc("/transactions/unsigned", w.unsignedHandler).Methods(http.MethodPost)
	r.HandleFunc("/transactions/broadcast", w.broadcastHandler).Methods(http.MethodPost)
	r.HandleFunc("/observations/{address}", w.observationHandler).
		Methods(http.MethodGet, http.MethodPost, http.MethodDelete)
	r.HandleFunc("/observations", w.observationsHandler).Methods(http.MethodGet)
	r.HandleFunc("/cached-balances", w.cachedBalancesHandler).Methods(http.MethodGet)

	return r
}

// Serve starts the http server on endpoint:port and, if sslPort, sslCert and sslKey are informed, the https (TLS)
// server on endpoint:sslPort. Both are shut down gracefully when ctx is done.
func (w *Wallet) Serve(ctx context.Context, endpoint, port, sslPort, sslCert, sslKey string) error {
	h := cors.Default().Handler(w.Router())

	var servers []*http.Server

	g, ctx := errgroup.WithContext(ctx)

	if port != "" {
		s := newServer(endpoint+":"+port, h)
		servers = append(servers, s)

		g.Go(func() error {
			w.log.Info("listening to API http requests", zap.String("addr", s.Addr))
			return listen(s.ListenAndServe())
		})
	}

	if sslPort != "" && sslCert != "" && sslKey != "" {
		ss := newServer(endpoint+":"+sslPort, h)
		servers = append(servers, ss)

		g.Go(func() error {
			w.log.Info("listening to API https requests", zap.String("addr", ss.Addr))
			return listen(ss.ListenAndServeTLS(sslCert, sslKey))
		})
	}

	if len(servers) == 0 {
		return errors.New("wallet: no port to listen on")
	}

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var err error
		for _, s := range servers {
			if e := s.Shutdown(shutdownCtx); e != nil {
				w.log.Error("server shutdown failed", zap.String("addr", s.Addr), zap.Error(e))
				err = e
			}
		}
		return err
	})

	return g.Wait()
}

func newServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Handler:           h,
		Addr:              addr,
		WriteTimeout:      timeout,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// listen filters out the error returned by a server closed on purpose.
func listen(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
