package handlers

import "net/http"

// IPInfo exposes the advisory IP probe. When every echo service failed the
// endpoint answers 204: the probe is best-effort and has no error state.
func (a *App) IPInfo(w http.ResponseWriter, r *http.Request) {
	if a.Prober == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	info := a.Prober.Probe(r.Context())
	if info == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	a.json(w, http.StatusOK, info)
}
