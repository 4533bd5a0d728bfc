package analysis

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/topovision/topovision/internal/calculus"
	"github.com/topovision/topovision/internal/capture"
	"github.com/topovision/topovision/internal/field"
	"github.com/topovision/topovision/internal/monitoring"
	"github.com/topovision/topovision/internal/store"
)

// Request describes one analysis submission from the interactive layer.
type Request struct {
	Strategy string        `json:"strategy"`
	Region   *field.Region `json:"region,omitempty"`
	ZFactor  float64       `json:"z_factor,omitempty"`
	Points   []field.Point `json:"points,omitempty"`
}

// GradientSummary is the wire-friendly digest of a gradient result; the
// full derivative arrays stay server-side for visualization.
type GradientSummary struct {
	Width          int              `json:"width"`
	Height         int              `json:"height"`
	MagnitudeStats field.FieldStats `json:"magnitude_stats"`
}

// ArcLengthSummary is the wire form of an arc-length result. Units is
// "pixels" unless a perspective calibration is configured, in which case
// the path is rectified and the length reported in meters.
type ArcLengthSummary struct {
	Length    float64 `json:"length"`
	NumPoints int     `json:"num_points"`
	Units     string  `json:"units"`
}

// ResultEnvelope is the typed value delivered to the polling side: a run
// ID, the method tag, and either a result payload or an error message.
type ResultEnvelope struct {
	RunID     string                 `json:"run_id"`
	Method    string                 `json:"method"`
	Status    string                 `json:"status"`
	Error     string                 `json:"error,omitempty"`
	ElapsedMs int64                  `json:"elapsed_ms"`
	Volume    *calculus.VolumeResult `json:"volume,omitempty"`
	Gradient  *GradientSummary       `json:"gradient,omitempty"`
	ArcLength *ArcLengthSummary      `json:"arc_length,omitempty"`
}

// Service wires the frame source, denoiser, worker and run store into
// the region-selection -> background-calculation -> polled-result flow.
// All mutable cross-boundary state (latest frame, latest gradient) is
// owned here; the calculus package only ever sees explicit parameters.
type Service struct {
	source   capture.FrameSource
	denoiser capture.Denoiser
	worker   *Worker
	db       *store.DB // nil disables run history
	logf     func(format string, v ...interface{})

	// corrector, when set, rectifies arc-length paths into the
	// top-down view and scales them to meters.
	corrector *field.PerspectiveCorrector

	sourceLabel string
}

// NewService assembles the analysis orchestration layer. db may be nil
// when run history is disabled.
func NewService(source capture.FrameSource, denoiser capture.Denoiser, worker *Worker, db *store.DB, sourceLabel string) *Service {
	if denoiser == nil {
		denoiser = capture.NoopDenoiser{}
	}
	return &Service{
		source:      source,
		denoiser:    denoiser,
		worker:      worker,
		db:          db,
		logf:        monitoring.Component("AnalysisService"),
		sourceLabel: sourceLabel,
	}
}

// SetPerspective installs a perspective calibration. Subsequent
// arc-length submissions are measured in the rectified view.
func (s *Service) SetPerspective(pc *field.PerspectiveCorrector) {
	s.corrector = pc
}

// arcPoints applies the configured calibration to a measurement path:
// image-space points are mapped into the top-down view and scaled from
// reference pixels to meters. Without a calibration the path passes
// through untouched.
func (s *Service) arcPoints(pts []field.Point) []field.Point {
	if s.corrector == nil || len(pts) == 0 {
		return pts
	}
	out := s.corrector.TransformPath(pts)
	ppm := s.corrector.PixelsPerMeter
	for i := range out {
		out[i].X /= ppm
		out[i].Y /= ppm
	}
	return out
}

// CaptureField grabs the latest frame, denoises it and converts it to a
// scalar intensity field.
func (s *Service) CaptureField() (*field.Field, error) {
	frame, err := s.source.Frame()
	if err != nil {
		return nil, fmt.Errorf("frame capture: %w", err)
	}
	clean := s.denoiser.Process(frame.Image)
	f, err := field.FromImage(clean)
	if err != nil {
		return nil, fmt.Errorf("frame conversion: %w", err)
	}
	return f, nil
}

// Submit validates a request, captures the input data, records the run
// and queues the calculation. It returns the run ID the caller polls
// with.
func (s *Service) Submit(req Request) (string, error) {
	params := calculus.DefaultParams()
	if req.ZFactor != 0 {
		params.ZFactor = req.ZFactor
	}

	var data any
	switch {
	case req.Strategy == calculus.StrategyArcLength:
		data = s.arcPoints(req.Points)
	default:
		f, err := s.CaptureField()
		if err != nil {
			return "", err
		}
		if req.Strategy == calculus.StrategyVolume {
			// The volume calculator clips the region itself, so an
			// empty intersection integrates to exactly 0 instead of
			// silently widening to the whole frame.
			if req.Region != nil {
				data = calculus.VolumeInput{Field: f, Region: req.Region}
			} else {
				data = f
			}
			break
		}
		if req.Region != nil {
			clipped := req.Region.ClipTo(f.Width, f.Height)
			if clipped.Empty() {
				return "", fmt.Errorf("%w: selected region is empty after clipping", calculus.ErrInvalidShape)
			}
			if sub := f.SubField(clipped); sub != nil {
				f = sub
			}
		}
		data = f
	}

	runID := uuid.New().String()
	if err := s.recordStart(runID, req, params); err != nil {
		return "", err
	}

	if err := s.worker.Submit(Job{ID: runID, Strategy: req.Strategy, Data: data, Params: params}); err != nil {
		if s.db != nil {
			if ferr := s.db.FailRun(runID, err.Error(), 0); ferr != nil {
				s.logf("failed to mark run %s failed: %v", runID, ferr)
			}
		}
		return "", err
	}
	return runID, nil
}

// Poll drains at most one worker outcome, persists its terminal state
// and returns it as a typed envelope. ok is false when nothing has
// finished since the last poll.
func (s *Service) Poll() (*ResultEnvelope, bool) {
	out, ok := s.worker.Poll()
	if !ok {
		return nil, false
	}

	env := s.envelope(out)
	if s.db != nil {
		var err error
		if out.Err != nil {
			err = s.db.FailRun(out.JobID, out.Err.Error(), out.Elapsed)
		} else {
			payload, merr := json.Marshal(env)
			if merr != nil {
				payload = []byte("{}")
			}
			err = s.db.CompleteRun(out.JobID, string(payload), out.Elapsed)
		}
		if err != nil {
			s.logf("failed to persist outcome for run %s: %v", out.JobID, err)
		}
	}
	return env, true
}

func (s *Service) envelope(out Outcome) *ResultEnvelope {
	env := &ResultEnvelope{
		RunID:     out.JobID,
		Method:    out.Strategy,
		Status:    store.StatusCompleted,
		ElapsedMs: out.Elapsed.Milliseconds(),
	}
	if out.Err != nil {
		env.Status = store.StatusFailed
		env.Error = out.Err.Error()
		return env
	}

	switch r := out.Result.(type) {
	case calculus.VolumeResult:
		env.Volume = &r
	case calculus.GradientResult:
		env.Gradient = &GradientSummary{
			Width:          r.Magnitude.Width,
			Height:         r.Magnitude.Height,
			MagnitudeStats: r.Magnitude.Stats(),
		}
	case calculus.ArcLengthResult:
		units := "pixels"
		if s.corrector != nil {
			units = "meters"
		}
		env.ArcLength = &ArcLengthSummary{Length: r.Length, NumPoints: len(r.Points), Units: units}
	}
	return env
}

func (s *Service) recordStart(runID string, req Request, params calculus.Params) error {
	if s.db == nil {
		return nil
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to serialize params: %w", err)
	}
	regionJSON := ""
	if req.Region != nil {
		b, err := json.Marshal(req.Region)
		if err != nil {
			return fmt.Errorf("failed to serialize region: %w", err)
		}
		regionJSON = string(b)
	}
	return s.db.InsertRun(&store.RunRecord{
		RunID:       runID,
		CreatedAt:   time.Now(),
		Strategy:    req.Strategy,
		ParamsJSON:  string(paramsJSON),
		RegionJSON:  regionJSON,
		SourceLabel: s.sourceLabel,
	})
}
