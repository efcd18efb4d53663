// Package status serves a read-only HTTP view of a running annotation store:
// a health probe, Prometheus metrics and a JSON snapshot of the live labels.
//
// The store is single-threaded, so snapshots are taken on the render
// goroutine through Store.Post and handed back to the request.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/abhyas01/lingolens"
)

// DefaultSnapshotTimeout bounds how long a request waits for the render
// goroutine to pick up a snapshot.
const DefaultSnapshotTimeout = 2 * time.Second

// Source is the part of lingolens.Store the server reads.
type Source interface {
	Post(fn func())
	Annotations() []lingolens.Annotation
	State() lingolens.PlacementState
	Scale() float64
}

var _ Source = (*lingolens.Store)(nil)

// AnnotationView is the JSON form of one annotation.
type AnnotationView struct {
	Index    int        `json:"index"`
	ID       string     `json:"id"`
	Label    string     `json:"label"`
	Outcome  string     `json:"outcome"`
	Scale    float64    `json:"scale"`
	Position [3]float64 `json:"position"`
}

// Snapshot is the JSON body of GET /annotations.
type Snapshot struct {
	State       string           `json:"state"`
	Scale       float64          `json:"scale"`
	Count       int              `json:"count"`
	Annotations []AnnotationView `json:"annotations"`
}

// Options configures the router. Gatherer may be nil to omit /metrics.
type Options struct {
	Gatherer        prometheus.Gatherer
	Logger          zerolog.Logger
	SnapshotTimeout time.Duration
}

type handler struct {
	src     Source
	log     zerolog.Logger
	timeout time.Duration
}

// NewRouter builds the status routes for src.
func NewRouter(src Source, opts Options) *mux.Router {
	h := &handler{
		src:     src,
		log:     opts.Logger.With().Str("component", "status").Logger(),
		timeout: opts.SnapshotTimeout,
	}
	if h.timeout <= 0 {
		h.timeout = DefaultSnapshotTimeout
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods(http.MethodGet)
	r.HandleFunc("/annotations", h.listAnnotations).Methods(http.MethodGet)
	r.HandleFunc("/annotations/{index:[0-9]+}", h.getAnnotation).Methods(http.MethodGet)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	return r
}

var errSnapshotTimeout = errors.New("status: render loop did not respond")

// snapshot asks the render goroutine for a copy of the store state.
func (h *handler) snapshot(ctx context.Context) (Snapshot, error) {
	ch := make(chan Snapshot, 1)
	h.src.Post(func() {
		ch <- buildSnapshot(h.src)
	})

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	select {
	case s := <-ch:
		return s, nil
	case <-ctx.Done():
		return Snapshot{}, errSnapshotTimeout
	}
}

func buildSnapshot(src Source) Snapshot {
	list := src.Annotations()
	s := Snapshot{
		State:       src.State().String(),
		Scale:       src.Scale(),
		Count:       len(list),
		Annotations: make([]AnnotationView, len(list)),
	}
	for i, a := range list {
		p := a.WorldTransform.Position()
		s.Annotations[i] = AnnotationView{
			Index:    i,
			ID:       a.ID,
			Label:    a.Label,
			Outcome:  a.Outcome.String(),
			Scale:    a.Scale,
			Position: [3]float64{p.X, p.Y, p.Z},
		}
	}
	return s
}

func (h *handler) listAnnotations(w http.ResponseWriter, r *http.Request) {
	s, err := h.snapshot(r.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("snapshot")
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, s)
}

func (h *handler) getAnnotation(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		http.Error(w, "bad index", http.StatusBadRequest)
		return
	}
	s, err := h.snapshot(r.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("snapshot")
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if index >= len(s.Annotations) {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, s.Annotations[index])
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

// ListenAndServe serves handler on addr until ctx is done, then shuts the
// server down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("status server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
