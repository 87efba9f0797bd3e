package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sceneforge/internal/domain"
	"sceneforge/pkg/zip"
)

type assetsListResponse struct {
	Assets []domain.GeneratedAsset `json:"assets"`
}

// AssetsList returns the session's generated assets in insertion order.
func (a *App) AssetsList(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, assetsListResponse{Assets: a.Registry.List()})
}

// AssetDelete removes one asset by filename. Deleting an already-removed
// filename is a no-op, so the endpoint is idempotent and always answers 204.
func (a *App) AssetDelete(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "filename is required")
		return
	}
	removed := a.Registry.Remove(filename)
	a.Logger.Debug().Str("filename", filename).Bool("removed", removed).Msg("asset delete")
	w.WriteHeader(http.StatusNoContent)
}

// AssetDownload serves one materialized asset's bytes.
func (a *App) AssetDownload(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	asset, ok := a.Registry.Get(filename)
	if !ok || len(asset.Data) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "no such asset")
		return
	}
	w.Header().Set("Content-Type", asset.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", asset.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(asset.Data)
}

// AssetsArchive bundles every materialized asset into one zip download.
func (a *App) AssetsArchive(w http.ResponseWriter, r *http.Request) {
	var entries []zip.Asset
	for _, asset := range a.Registry.List() {
		if len(asset.Data) == 0 {
			continue
		}
		entries = append(entries, zip.Asset{
			Filename: asset.Filename,
			MIME:     asset.MIMEType,
			Data:     asset.Data,
		})
	}
	if len(entries) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "no materialized assets to archive")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="assets.zip"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(zip.ArchiveAssets(entries))
}
