package plan

import (
	"bufio"
	"bytes"
	"container/list"
	"context"
	"io"
	"os"

	"github.com/spf13/cast"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/seq"
	"github.com/kbukum/seqkit/util"
)

// DefaultMaxInputSize bounds a lines source when Input.MaxSize is unset.
const DefaultMaxInputSize int64 = 10 << 20

// Input supplies data to lines sources.
type Input struct {
	// Stdin is read when a lines source names "-".
	Stdin io.Reader
	// Open opens a lines source file. Defaults to os.Open.
	Open func(name string) (io.ReadCloser, error)
	// MaxSize caps the bytes read from one lines source.
	MaxSize int64

	buffered *bufferedStdin
}

// bufferedStdin holds stdin read once for several plans.
type bufferedStdin struct {
	data []byte
	err  error
}

// bufferStdin reads stdin up to one byte past the size cap so that every
// plan sharing it still detects oversized input.
func (in Input) bufferStdin() Input {
	r, _ := in.open(StdinFile)
	data, err := io.ReadAll(io.LimitReader(r, in.maxSize()+1))
	in.buffered = &bufferedStdin{data: data, err: err}
	return in
}

func (in Input) open(name string) (io.ReadCloser, error) {
	if name == StdinFile && in.buffered != nil {
		if in.buffered.err != nil {
			return nil, in.buffered.err
		}
		return io.NopCloser(bytes.NewReader(in.buffered.data)), nil
	}
	if name == StdinFile {
		if in.Stdin == nil {
			return io.NopCloser(os.Stdin), nil
		}
		return io.NopCloser(in.Stdin), nil
	}
	if in.Open != nil {
		return in.Open(name)
	}
	return os.Open(name)
}

func (in Input) maxSize() int64 {
	if in.MaxSize > 0 {
		return in.MaxSize
	}
	return DefaultMaxInputSize
}

// Compiler turns plans into sequences.
type Compiler struct {
	Registry *Registry
	Input    Input
}

// compiled is a query ready for its terminal operation.
type compiled struct {
	seq *seq.Sequence[string]
	// inputCount is the number of elements read eagerly, or -1 for generated sources.
	inputCount int
}

// Compile validates p and builds its query with the default registry.
// Sources are read here; steps stay deferred until a terminal operation runs.
func Compile(p *Plan, in Input) (*seq.Sequence[string], error) {
	c := &Compiler{Registry: DefaultRegistry(), Input: in}
	return c.Compile(context.Background(), p)
}

// Compile validates p and builds its query. Traversal stops early once ctx is
// done, so callers that cancel ctx should check ctx.Err() after the terminal.
func (c *Compiler) Compile(ctx context.Context, p *Plan) (*seq.Sequence[string], error) {
	q, err := c.compile(ctx, p)
	if err != nil {
		return nil, err
	}
	return q.seq, nil
}

func (c *Compiler) registry() *Registry {
	if c.Registry != nil {
		return c.Registry
	}
	return DefaultRegistry()
}

func (c *Compiler) compile(ctx context.Context, p *Plan) (*compiled, error) {
	if p == nil {
		return nil, errors.NullArgument("plan")
	}
	reg := c.registry()
	if err := Validate(p, reg); err != nil {
		return nil, err
	}

	q, err := c.source(ctx, p.Source)
	if err != nil {
		return nil, err
	}
	// Generated sources can be arbitrarily long; stop pulling once ctx ends.
	q.seq = q.seq.TakeWhile(func(string) bool { return ctx.Err() == nil })
	for i, step := range p.Steps {
		next, err := applyStep(q.seq, step, reg)
		if err != nil {
			return nil, withField(err, stepField(i, "args"))
		}
		q.seq = next
	}
	return q, nil
}

func (c *Compiler) source(ctx context.Context, src Source) (*compiled, error) {
	switch src.Kind {
	case SourceValues:
		return &compiled{seq: seq.FromSlice(src.Values), inputCount: len(src.Values)}, nil
	case SourceLines:
		lines, err := c.readLines(ctx, src.File)
		if err != nil {
			return nil, err
		}
		return &compiled{seq: seq.FromList[string](lines), inputCount: lines.Len()}, nil
	case SourceRange:
		numbers := seq.Select(seq.Range(src.Start, src.Count), func(n int) string { return cast.ToString(n) })
		return &compiled{seq: numbers, inputCount: -1}, nil
	case SourceGenerate:
		return &compiled{seq: generate(src.Seed, src.Step, src.Limit), inputCount: -1}, nil
	default:
		return nil, errors.InvalidInput("source.kind", "unknown source kind "+src.Kind)
	}
}

// generate yields seed, seed+step, ... while values stay within limit.
// The i-th value is computed as seed+i*step so rounding cannot stall it.
func generate(seed, step, limit float64) *seq.Sequence[string] {
	at := func(i int) float64 { return seed + float64(i)*step }
	past := func(n float64) bool { return n > limit }
	if step < 0 {
		past = func(n float64) bool { return n < limit }
	}
	indexes := seq.Generate(-1,
		func(i int) int { return i + 1 },
		func(i int) bool { return past(at(i + 1)) },
	)
	return seq.Select(indexes, func(i int) string { return formatNumber(at(i)) })
}

// readLines reads a lines source into a list. Each line is sanitized and the
// total read is capped at the input's max size.
func (c *Compiler) readLines(ctx context.Context, name string) (*list.List, error) {
	r, err := c.Input.open(name)
	if err != nil {
		return nil, errors.InvalidInput("source.file", "cannot open "+name).WithCause(err)
	}
	defer r.Close()

	limit := c.Input.maxSize()
	counter := &countingReader{r: io.LimitReader(r, limit+1)}
	scanner := bufio.NewScanner(counter)
	scanner.Buffer(make([]byte, 0, 64*1024), int(limit)+1)

	lines := list.New()
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines.PushBack(util.SanitizeString(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.InvalidInput("source.file", "cannot read "+name).WithCause(err)
	}
	if counter.n > limit {
		return nil, errors.InvalidInput("source.file", name+" exceeds "+cast.ToString(limit)+" bytes")
	}
	return lines, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
