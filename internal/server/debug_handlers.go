package server

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"

	"github.com/topovision/topovision/internal/calculus"
	"github.com/topovision/topovision/internal/field"
	"github.com/topovision/topovision/internal/httputil"
	"github.com/topovision/topovision/internal/viz"
)

// captureView grabs the current field, replacing it with its gradient
// magnitude when view=gradient.
func (ws *WebServer) captureView(r *http.Request, defaultView string) (*field.Field, string, error) {
	f, err := ws.svc.CaptureField()
	if err != nil {
		return nil, "", err
	}

	view := r.URL.Query().Get("view")
	if view == "" {
		view = defaultView
	}
	switch view {
	case "field":
		return f, "Intensity", nil
	case "gradient":
		_, _, mag, _, err := calculus.ComputeGradient(f, 1.0)
		if err != nil {
			return nil, "", err
		}
		return mag, "Gradient Magnitude", nil
	default:
		return nil, "", fmt.Errorf("unknown view %q (want field or gradient)", view)
	}
}

// handleFramePNG serves the current denoised frame as a grayscale PNG.
func (ws *WebServer) handleFramePNG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	f, err := ws.svc.CaptureField()
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}

	img := fieldToGray(f)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		httputil.InternalServerError(w, "failed to encode frame: "+err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

// handleHeatmapPage renders a browser heatmap of the current field.
// This is a debugging-only endpoint (no auth).
// Query params:
//
//	view (optional; "field" or "gradient", default "gradient")
func (ws *WebServer) handleHeatmapPage(w http.ResponseWriter, r *http.Request) {
	f, title, err := ws.captureView(r, "gradient")
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	var buf bytes.Buffer
	subtitle := fmt.Sprintf("%dx%d source=%s", f.Width, f.Height, ws.settings.GetFrameSource())
	if err := viz.RenderHeatmapHTML(&buf, f, title, subtitle); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleSurfacePage renders a browser 3D surface of the current field.
// Query params as for the heatmap page.
func (ws *WebServer) handleSurfacePage(w http.ResponseWriter, r *http.Request) {
	f, title, err := ws.captureView(r, "field")
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	var buf bytes.Buffer
	subtitle := fmt.Sprintf("%dx%d source=%s", f.Width, f.Height, ws.settings.GetFrameSource())
	if err := viz.RenderSurfaceHTML(&buf, f, title, subtitle); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleHeatmapPNG renders the current field (or its gradient
// magnitude) as a static PNG heatmap.
func (ws *WebServer) handleHeatmapPNG(w http.ResponseWriter, r *http.Request) {
	f, title, err := ws.captureView(r, "field")
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := viz.RenderHeatmapPNG(&buf, f, title); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render heatmap: %v", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

// fieldToGray normalizes field values onto 0..255 gray levels.
func fieldToGray(f *field.Field) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	stats := f.Stats()
	span := stats.Max - stats.Min
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			v := 0.0
			if span > 0 {
				v = (f.At(y, x) - stats.Min) / span
			}
			img.SetGray(x, y, color.Gray{Y: uint8(v*255 + 0.5)})
		}
	}
	return img
}
