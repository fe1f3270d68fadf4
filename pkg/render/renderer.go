package render

import (
	"context"
	"runtime"

	"github.com/taigrr/glyphtrace/pkg/scene"
	"github.com/taigrr/glyphtrace/pkg/trace"
	"golang.org/x/sync/errgroup"
)

// FrameStats summarizes the work done for one frame.
type FrameStats struct {
	Pixels int
	trace.Stats
}

// Renderer generates frames by casting one primary ray per pixel.
type Renderer struct {
	Tracer  *trace.Tracer
	Camera  *Camera
	Workers int // Max concurrent rows; <= 0 uses GOMAXPROCS
}

// NewRenderer creates a renderer.
func NewRenderer(tracer *trace.Tracer, camera *Camera, workers int) *Renderer {
	return &Renderer{
		Tracer:  tracer,
		Camera:  camera,
		Workers: workers,
	}
}

// Render traces a fresh width x height frame of s.
func (r *Renderer) Render(s *scene.Scene, width, height int) (*Framebuffer, FrameStats) {
	fb := NewFramebuffer(width, height)
	st := r.RenderInto(context.Background(), fb, s)
	return fb, st
}

// RenderInto overwrites every pixel of fb with a traced frame of s. Rows are
// spread over a bounded set of goroutines; each goroutine writes only its own
// row. s must not be modified until RenderInto returns. If ctx is cancelled,
// rows not yet started are left untouched.
func (r *Renderer) RenderInto(ctx context.Context, fb *Framebuffer, s *scene.Scene) FrameStats {
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	rowStats := make([]trace.Stats, fb.Height)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for y := range fb.Height {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := fb.Row(y)
			var st trace.Stats
			for x := range row {
				c, rs := r.Tracer.Trace(s, r.Camera.Origin, r.Camera.Direction(x, y, fb.Width, fb.Height))
				row[x] = c
				st.Add(rs)
			}
			rowStats[y] = st
			return nil
		})
	}
	_ = g.Wait()

	fs := FrameStats{Pixels: fb.Width * fb.Height}
	for _, st := range rowStats {
		fs.Add(st)
	}
	return fs
}
