package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/chazu/trigon/pkg/config"
	"github.com/chazu/trigon/pkg/engine"
	"github.com/chazu/trigon/pkg/kernel"
	"github.com/chazu/trigon/pkg/kernel/sdfx"
	"github.com/chazu/trigon/pkg/scene"
	"github.com/chazu/trigon/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to triangles.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// ErrScript is returned by RunScript when evaluation reports errors.
var ErrScript = errors.New("script failed")

// App evaluates trigon scripts into meshes for batch runs and front ends.
type App struct {
	ctx    context.Context
	cfg    config.Config
	log    *slog.Logger
	engine *engine.Engine
	kernel kernel.Kernel
}

// MeshData is the JSON-serializable mesh format handed to front ends.
type MeshData struct {
	Vertices []float32  `json:"vertices"`
	Normals  []float32  `json:"normals"`
	Indices  []uint32   `json:"indices"`
	Name     string     `json:"name"`
	Area     float64    `json:"area"`
	Color    string     `json:"color"`
	Min      [3]float32 `json:"min"`
	Max      [3]float32 `json:"max"`
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of one evaluation.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates a new App with an engine and the sdfx kernel.
func NewApp(cfg config.Config) *App {
	return &App{
		ctx:    context.Background(),
		cfg:    cfg,
		log:    slog.Default(),
		engine: engine.NewEngine(engine.WithTimeout(cfg.EvalTimeout)),
		kernel: sdfx.New(),
	}
}

// startup records the process context so tessellation stops on shutdown.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.log.Debug("app started", "eval_timeout", a.engine.Timeout())
}

// Evaluate takes Lisp source and returns mesh data, errors and warnings.
func (a *App) Evaluate(source string) EvalResult {
	_, result := a.evaluate(source)
	return result
}

// evaluate runs the full pipeline and also returns the scene, which is nil
// whenever result carries errors.
func (a *App) evaluate(source string) (*scene.Scene, EvalResult) {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the Lisp source into a scene.
	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.log.Error("evaluate failed", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return nil, result
	}

	// Step 2: Convert eval errors.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return nil, result
	}

	// Step 3: Structural errors block meshing; advisories ride along.
	v := scene.ValidateAll(s, scene.Options{SliverArea: a.cfg.SliverArea})
	for _, e := range v.Errors {
		result.Errors = append(result.Errors, EvalErrorData{Message: e.Error()})
	}
	for _, w := range v.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Message})
	}
	if !v.OK() {
		return nil, result
	}

	// Step 4: Tessellate the scene into meshes.
	meshes, err := tessellate.Tessellate(a.ctx, s, a.kernel)
	if err != nil {
		a.log.Error("tessellate failed", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return nil, result
	}

	// Step 5: Convert kernel meshes to MeshData.
	for i, m := range meshes {
		lo, hi := m.Bounds()
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Name:     m.Name,
			Area:     m.Area,
			Color:    colorPalette[i%len(colorPalette)],
			Min:      lo,
			Max:      hi,
		})
	}

	a.log.Debug("evaluated", "triangles", len(result.Meshes), "warnings", len(result.Warnings))
	return s, result
}

// RunScript evaluates the file at path, prints a summary to w, and writes
// the triangles to stlPath when it is not empty.
func (a *App) RunScript(path, stlPath string, w io.Writer) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}

	s, result := a.evaluate(string(source))
	for _, e := range result.Errors {
		if e.Line > 0 {
			fmt.Fprintf(w, "%s:%d: %s\n", path, e.Line, e.Message)
		} else {
			fmt.Fprintf(w, "%s: %s\n", path, e.Message)
		}
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%w: %s: %d error(s)", ErrScript, path, len(result.Errors))
	}

	for _, m := range result.Meshes {
		fmt.Fprintf(w, "%s area %s %s bounds %v %v\n", m.Name, strconv.FormatFloat(m.Area, 'f', -1, 64), m.Color, m.Min, m.Max)
	}
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn.Message)
	}

	if stlPath == "" {
		return nil
	}
	if err := tessellate.SaveSTL(s, a.kernel, stlPath); err != nil {
		return err
	}
	a.log.Info("stl exported", "path", stlPath, "triangles", s.Len())
	return nil
}
