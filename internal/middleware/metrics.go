package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics gibt eine Middleware zurück, die Anfragen pro Routenmuster zählt
// und ihre Dauer misst. Als Pfad-Label dient das chi-Routenmuster, damit
// Pfadparameter die Label-Kardinalität nicht aufblähen.
func Metrics(reg prometheus.Registerer) func(http.Handler) http.Handler {
	anfragen := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "verwaltungsportal",
		Name:      "http_anfragen_total",
		Help:      "Anzahl der HTTP-Anfragen nach Methode, Pfad und Status.",
	}, []string{"methode", "pfad", "status"})

	dauer := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "verwaltungsportal",
		Name:      "http_dauer_sekunden",
		Help:      "Dauer der HTTP-Anfragen in Sekunden.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"methode", "pfad"})

	reg.MustRegister(anfragen, dauer)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			pfad := chi.RouteContext(r.Context()).RoutePattern()
			if pfad == "" {
				pfad = "unbekannt"
			}
			anfragen.WithLabelValues(r.Method, pfad, strconv.Itoa(ww.Status())).Inc()
			dauer.WithLabelValues(r.Method, pfad).Observe(time.Since(start).Seconds())
		})
	}
}
