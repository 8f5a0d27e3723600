package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/chazu/kerf/pkg/engine"
	"github.com/chazu/kerf/pkg/export"
	"github.com/chazu/kerf/pkg/graph"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/kernel/bsp"
	"github.com/chazu/kerf/pkg/kernel/manifold"
	"github.com/chazu/kerf/pkg/kernel/sdfx"
	"github.com/chazu/kerf/pkg/tessellate"
)

// KernelEnv names the environment variable that selects the startup kernel.
const KernelEnv = "KERF_KERNEL"

// DefaultKernel is used when KernelEnv is unset or names an unknown kernel.
const DefaultKernel = "bsp"

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx    context.Context
	engine *engine.Engine

	mu         sync.Mutex
	kernel     kernel.Kernel
	kernelName string
	lastMeshes []*kernel.Mesh
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
	Volume   float64   `json:"volume"` // mm³
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
	Kernel   string          `json:"kernel"`
}

// newKernel constructs a geometry kernel by name.
func newKernel(name string) (kernel.Kernel, error) {
	switch name {
	case "bsp":
		return bsp.New(), nil
	case "sdfx":
		return sdfx.New(), nil
	case "manifold":
		return manifold.New()
	default:
		return nil, fmt.Errorf("unknown kernel %q (want bsp, sdfx or manifold)", name)
	}
}

// NewApp creates a new App with an engine and the kernel named by
// KERF_KERNEL, falling back to the BSP kernel.
func NewApp() *App {
	a := &App{engine: engine.NewEngine()}
	name := os.Getenv(KernelEnv)
	if name == "" {
		name = DefaultKernel
	}
	if err := a.SetKernel(name); err != nil {
		log.Printf("%s: %v; using %s", KernelEnv, err, DefaultKernel)
		if err := a.SetKernel(DefaultKernel); err != nil {
			panic(err)
		}
	}
	return a
}

// startup receives the Wails context; evaluations are cancelled with it
// when the window closes.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

func (a *App) context() context.Context {
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}

// SetKernel switches the geometry kernel used by later evaluations.
func (a *App) SetKernel(name string) error {
	k, err := newKernel(name)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.kernel = k
	a.kernelName = name
	return nil
}

// KernelName returns the name of the active kernel.
func (a *App) KernelName() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.kernelName
}

// Evaluate runs source through evaluation, validation and tessellation and
// returns whatever the editor should show. It is the binding the frontend
// calls on every edit.
func (a *App) Evaluate(source string) EvalResult {
	a.mu.Lock()
	k, name := a.kernel, a.kernelName
	a.mu.Unlock()

	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
		Kernel:   name,
	}
	fail := func(errs ...EvalErrorData) EvalResult {
		result.Errors = append(result.Errors, errs...)
		return result
	}

	g, evalErrs, err := a.engine.EvaluateContext(a.context(), source)
	if err != nil {
		log.Printf("evaluate: %v", err)
		return fail(EvalErrorData{Message: err.Error()})
	}
	if len(evalErrs) > 0 {
		out := make([]EvalErrorData, len(evalErrs))
		for i, e := range evalErrs {
			out[i] = EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message}
		}
		return fail(out...)
	}

	// Validation errors stop the pipeline; warnings ride along with the meshes.
	vr := graph.ValidateAll(g)
	for _, w := range vr.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Message})
	}
	if len(vr.Errors) > 0 {
		out := make([]EvalErrorData, len(vr.Errors))
		for i, e := range vr.Errors {
			out[i] = EvalErrorData{Message: e.Error()}
		}
		return fail(out...)
	}

	meshes, err := tessellate.Tessellate(g, k)
	if err != nil {
		log.Printf("tessellate with %s: %v", name, err)
		return fail(EvalErrorData{Message: "tessellation failed: " + err.Error()})
	}

	a.mu.Lock()
	a.lastMeshes = meshes
	a.mu.Unlock()

	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[i%len(colorPalette)],
			Volume:   m.Volume(),
		})
	}
	return result
}

// ErrNothingToExport is returned by ExportSTL before any successful
// evaluation.
var ErrNothingToExport = errors.New("nothing to export: evaluate a design first")

// ExportSTL writes the meshes of the last successful evaluation to path.
func (a *App) ExportSTL(path string) error {
	a.mu.Lock()
	meshes := a.lastMeshes
	a.mu.Unlock()

	if len(meshes) == 0 {
		return ErrNothingToExport
	}
	if err := export.WriteSTL(path, meshes); err != nil {
		log.Printf("ExportSTL: %v", err)
		return err
	}
	return nil
}
