// Package shell implements the interactive triangle menu.
//
// The shell keeps one current triangle that menu items construct, show and
// mutate, plus a scene of named triangles that can be filled from the
// current triangle or from scripts and exported as STL. Every failed
// operation is reported and the menu continues; only end of input or the
// exit item stop it.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/chazu/trigon/pkg/config"
	"github.com/chazu/trigon/pkg/engine"
	"github.com/chazu/trigon/pkg/geom"
	"github.com/chazu/trigon/pkg/kernel"
	"github.com/chazu/trigon/pkg/kernel/sdfx"
	"github.com/chazu/trigon/pkg/scene"
	"github.com/chazu/trigon/pkg/tessellate"
)

var (
	// ErrBadInput is returned for entries that cannot be parsed.
	ErrBadInput = errors.New("bad input")

	// ErrNoTriangle is returned by items that need a current triangle
	// before one has been constructed.
	ErrNoTriangle = errors.New("no triangle constructed yet")

	// ErrUnknownChoice is returned for menu selections outside 0..9.
	ErrUnknownChoice = errors.New("unknown menu choice")
)

// currentName is the node name the current triangle is exported under.
const currentName = "current"

type item struct {
	key   string
	label string
	run   func(*Shell) error
}

var menu = []item{
	{"1", "Construct triangle", (*Shell).construct},
	{"2", "Display triangle", (*Shell).display},
	{"3", "Translate triangle", (*Shell).translate},
	{"4", "Compute area", (*Shell).area},
	{"5", "Set vertex", (*Shell).setVertex},
	{"6", "Store triangle in scene", (*Shell).store},
	{"7", "List scene", (*Shell).list},
	{"8", "Run script", (*Shell).runScript},
	{"9", "Export scene to STL", (*Shell).export},
}

// Options configures a Shell. Zero fields get defaults.
type Options struct {
	Config config.Config
	Logger *slog.Logger
	Kernel kernel.Kernel
}

// Shell is a line-oriented menu over an input and an output stream.
type Shell struct {
	in     *tokens
	out    io.Writer
	cfg    config.Config
	log    *slog.Logger
	kernel kernel.Kernel

	current *geom.Triangle
	scene   *scene.Scene
}

// New creates a Shell reading commands from in and writing to out.
func New(in io.Reader, out io.Writer, opts Options) *Shell {
	s := &Shell{
		in:     newTokens(in),
		out:    out,
		cfg:    opts.Config,
		log:    opts.Logger,
		kernel: opts.Kernel,
		scene:  scene.New(),
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.kernel == nil {
		s.kernel = sdfx.New()
	}
	if s.cfg.EvalTimeout <= 0 {
		s.cfg.EvalTimeout = engine.EvalTimeout
	}
	return s
}

// Current returns the current triangle, or nil before the first
// successful construction.
func (s *Shell) Current() *geom.Triangle {
	return s.current
}

// Scene returns the shell's scene.
func (s *Shell) Scene() *scene.Scene {
	return s.scene
}

// Run drives the menu until the exit item, end of input, or ctx is done.
// A cancelled ctx also interrupts a read that is waiting for input.
// Operation errors are printed and do not stop the loop; only read
// failures other than end of input are returned.
func (s *Shell) Run(ctx context.Context) error {
	s.in.ctx = ctx
	defer func() { s.in.ctx = context.Background() }()

	if s.cfg.Banner != "" {
		fmt.Fprintln(s.out, s.cfg.Banner)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.printMenu()
		choice, err := s.in.next()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			s.log.Debug("input closed")
			return nil
		}
		if cerr := ctx.Err(); cerr != nil {
			fmt.Fprintln(s.out)
			return cerr
		}
		if err != nil {
			return fmt.Errorf("reading choice: %w", err)
		}
		if choice == "0" {
			fmt.Fprintln(s.out, "Goodbye.")
			return nil
		}

		err = s.dispatch(choice)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return nil
		}
		if cerr := ctx.Err(); cerr != nil {
			fmt.Fprintln(s.out)
			return cerr
		}
		if s.in.err != nil {
			return fmt.Errorf("reading input: %w", s.in.err)
		}
		if err != nil {
			s.in.discard()
			s.log.Debug("menu item failed", "choice", choice, "err", err)
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

func (s *Shell) printMenu() {
	fmt.Fprintln(s.out)
	for _, it := range menu {
		fmt.Fprintf(s.out, "%s) %s\n", it.key, it.label)
	}
	fmt.Fprintln(s.out, "0) Exit")
	fmt.Fprint(s.out, s.cfg.Prompt)
}

func (s *Shell) dispatch(choice string) error {
	for _, it := range menu {
		if it.key == choice {
			s.log.Debug("menu item", "choice", choice, "label", it.label)
			return it.run(s)
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownChoice, choice)
}

func (s *Shell) need() (*geom.Triangle, error) {
	if s.current == nil {
		return nil, ErrNoTriangle
	}
	return s.current, nil
}

func (s *Shell) construct() error {
	fmt.Fprint(s.out, "Enter 9 integers (x1 y1 z1 x2 y2 z2 x3 y3 z3): ")
	c, err := s.in.int32s(9)
	if err != nil {
		return err
	}
	tri, err := geom.NewTriangle(
		geom.Pt(c[0], c[1], c[2]),
		geom.Pt(c[3], c[4], c[5]),
		geom.Pt(c[6], c[7], c[8]),
	)
	if err != nil {
		return err
	}
	s.current = tri
	fmt.Fprintln(s.out, tri)
	return nil
}

func (s *Shell) display() error {
	tri, err := s.need()
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, tri)
	return nil
}

func (s *Shell) translate() error {
	tri, err := s.need()
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, "Enter distance and axis (x, y or z): ")
	d, err := s.in.int32s(1)
	if err != nil {
		return err
	}
	tok, err := s.in.next()
	if err != nil {
		return err
	}
	axis, err := geom.ParseAxis(tok)
	if err != nil {
		return err
	}
	if err := tri.Translate(d[0], axis); err != nil {
		return err
	}
	fmt.Fprintln(s.out, tri)
	return nil
}

func (s *Shell) area() error {
	tri, err := s.need()
	if err != nil {
		return err
	}
	a, err := tri.Area()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Area: %s\n", strconv.FormatFloat(a, 'f', -1, 64))
	return nil
}

func (s *Shell) setVertex() error {
	tri, err := s.need()
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, "Enter vertex index (1-3) and 3 integers: ")
	v, err := s.in.int32s(4)
	if err != nil {
		return err
	}
	if err := tri.SetVertex(int(v[0]), geom.Pt(v[1], v[2], v[3])); err != nil {
		return err
	}
	fmt.Fprintln(s.out, tri)
	return nil
}

func (s *Shell) store() error {
	tri, err := s.need()
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, "Name: ")
	name, err := s.in.rest()
	if err != nil {
		return err
	}
	if _, err := s.scene.Add(name, tri, scene.SourceRef{Origin: scene.OriginShell}); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Stored %q (%d in scene)\n", name, s.scene.Len())
	return nil
}

func (s *Shell) list() error {
	if s.scene.Len() == 0 {
		fmt.Fprintln(s.out, "Scene is empty.")
		return nil
	}
	for _, n := range s.scene.List() {
		v := n.Triangle.Vertices()
		fmt.Fprintf(s.out, "%s [%s]: %s %s %s", n.Name, n.Source.Origin, v[0], v[1], v[2])
		if a, err := n.Triangle.Area(); err == nil {
			fmt.Fprintf(s.out, " area %s", strconv.FormatFloat(a, 'f', -1, 64))
		}
		fmt.Fprintln(s.out)
	}
	if min, max, err := tessellate.Bounds(s.scene, s.kernel); err == nil {
		fmt.Fprintf(s.out, "Bounds: %v to %v\n", min, max)
	}

	result := scene.ValidateAll(s.scene, scene.Options{SliverArea: s.cfg.SliverArea})
	for _, e := range result.Errors {
		fmt.Fprintf(s.out, "error: %s\n", e.Message)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(s.out, "warning: %s\n", w.Message)
	}
	return nil
}

func (s *Shell) runScript() error {
	fmt.Fprint(s.out, "Script file: ")
	path, err := s.in.rest()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}

	eng := engine.NewEngine(engine.WithTimeout(s.cfg.EvalTimeout), engine.WithFile(path))
	loaded, evalErrs, err := eng.Evaluate(string(data))
	if err != nil {
		return err
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			fmt.Fprintf(s.out, "  %s: %s\n", path, e)
		}
		return fmt.Errorf("%s: %d evaluation error(s)", path, len(evalErrs))
	}

	if err := s.scene.Merge(loaded); err != nil {
		return err
	}
	s.log.Info("script loaded", "path", path, "triangles", loaded.Len())
	fmt.Fprintf(s.out, "Loaded %d triangle(s) from %s\n", loaded.Len(), path)
	return nil
}

func (s *Shell) export() error {
	fmt.Fprint(s.out, "STL file: ")
	name, err := s.in.rest()
	if err != nil {
		return err
	}
	path := name
	if !filepath.IsAbs(path) && s.cfg.ExportDir != "" {
		path = filepath.Join(s.cfg.ExportDir, path)
	}

	out, err := s.exportScene()
	if err != nil {
		return err
	}
	if err := tessellate.SaveSTL(out, s.kernel, path); err != nil {
		return err
	}
	s.log.Info("stl exported", "path", path, "triangles", out.Len())
	fmt.Fprintf(s.out, "Wrote %d triangle(s) to %s\n", out.Len(), path)
	return nil
}

// exportScene returns a copy of the scene with the current triangle added
// under a free name derived from currentName.
func (s *Shell) exportScene() (*scene.Scene, error) {
	out := scene.New()
	if err := out.Merge(s.scene); err != nil {
		return nil, err
	}
	if s.current == nil {
		return out, nil
	}
	name := currentName
	for i := 1; out.Lookup(name) != nil; i++ {
		name = fmt.Sprintf("%s_%d", currentName, i)
	}
	if _, err := out.Add(name, s.current, scene.SourceRef{Origin: scene.OriginShell}); err != nil {
		return nil, err
	}
	return out, nil
}
