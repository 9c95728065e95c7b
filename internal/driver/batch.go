package driver

import (
	"bytes"
	"context"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"nfscript/internal/diag"
	"nfscript/internal/pipeline"
	"nfscript/internal/source"
	"nfscript/internal/trace"
)

// BatchResult collects the per-script results of RunScripts in input order.
type BatchResult struct {
	Results []*RunResult
	Timings pipeline.Timings
}

// Failed counts scripts that did not complete.
func (b *BatchResult) Failed() int {
	n := 0
	for _, r := range b.Results {
		if r.Failed() {
			n++
		}
	}
	return n
}

// RunScripts executes independent scripts in parallel, one interpreter per
// script. Echo output of each script is captured in RunResult.Output. A
// failing script does not stop the others; only ctx cancellation does.
func RunScripts(ctx context.Context, files []string, jobs int, opts Options, sink pipeline.ProgressSink) (*BatchResult, error) {
	out := &BatchResult{Results: make([]*RunResult, len(files))}
	if len(files) == 0 {
		return out, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if sink != nil {
		sink = pipeline.NewSyncSink(sink)
	}
	pipeline.EmitQueued(sink, files)

	span := trace.Begin(opts.tracer(), trace.ScopeDriver, "batch", 0).WithExtra("files", strconv.Itoa(len(files)))
	defer span.End("")

	g, gctx := errgroup.WithContext(trace.WithParent(ctx, span.ID()))
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// индекс i уникален для горутины, мьютекс не нужен
			out.Results[i] = runOne(gctx, path, opts, sink)
			return nil
		})
	}
	err := g.Wait()

	for i, r := range out.Results {
		if r == nil {
			// cancelled before it started
			bag := diag.NewBag(opts.MaxDiagnostics)
			out.Results[i] = &RunResult{Path: files[i], Bag: bag, FileSet: source.NewFileSet(), Err: context.Cause(gctx)}
			continue
		}
		if r.Timer == nil {
			continue
		}
		for _, p := range r.Timer.Report().Phases {
			out.Timings.Add(pipeline.Stage(p.Name), time.Duration(p.DurationMS*float64(time.Millisecond)))
		}
	}
	return out, err
}

func runOne(ctx context.Context, path string, opts Options, sink pipeline.ProgressSink) *RunResult {
	start := time.Now()
	pipeline.EmitStage(sink, path, pipeline.StageParse, pipeline.StatusWorking, nil, 0)

	pr, err := Parse(path, opts)
	if err != nil {
		bag := diag.NewBag(opts.MaxDiagnostics)
		bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+err.Error()))
		pipeline.EmitStage(sink, path, pipeline.StageParse, pipeline.StatusError, err, time.Since(start))
		return &RunResult{Path: path, FileSet: source.NewFileSet(), Bag: bag, Err: err}
	}
	if pr.Program == nil {
		pipeline.EmitStage(sink, path, pipeline.StageParse, pipeline.StatusError, errParse, time.Since(start))
		return &RunResult{Path: path, FileSet: pr.FileSet, Bag: pr.Bag, Timer: pr.Timer, Err: errParse}
	}

	pipeline.EmitStage(sink, path, pipeline.StageRun, pipeline.StatusWorking, nil, time.Since(start))
	var buf bytes.Buffer
	res := execute(ctx, pr, newInterpreter(opts, &buf), opts)
	res.Output = buf.Bytes()

	status := pipeline.StatusDone
	if res.Err != nil {
		status = pipeline.StatusError
	}
	pipeline.EmitStage(sink, path, pipeline.StageRun, status, res.Err, time.Since(start))
	return res
}
