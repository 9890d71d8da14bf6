package script

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/timzifer/refqueue"
)

// Result summarises a finished run.
type Result struct {
	Name      string
	Final     []int
	Destroyed int
}

// Runner executes parsed scripts, writing one line of output per
// operation that produces a value.
type Runner struct {
	out    io.Writer
	logger *slog.Logger
	opts   []refqueue.Option
}

// NewRunner creates a Runner. opts are applied to every queue it creates.
func NewRunner(out io.Writer, logger *slog.Logger, opts ...refqueue.Option) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{out: out, logger: logger, opts: opts}
}

type run struct {
	name      string
	q         *refqueue.Queue[*Item]
	out       io.Writer
	destroyed int
}

// Run executes ops against a fresh queue. It stops at the first failed
// expectation or when ctx is done.
func (r *Runner) Run(ctx context.Context, name string, ops []Op) (*Result, error) {
	st := &run{
		name: name,
		q:    refqueue.New[*Item](r.opts...),
		out:  r.out,
	}

	r.logger.Debug("running script", slog.String("script", name), slog.Int("ops", len(ops)))

	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := st.exec(op); err != nil {
			return nil, fmt.Errorf("%s:%d: %s: %w", name, op.Line, op, err)
		}
	}

	res := &Result{Name: name, Final: values(st.q), Destroyed: st.destroyed}
	r.logger.Debug("script finished",
		slog.String("script", name),
		slog.Int("len", len(res.Final)),
		slog.Int("destroyed", res.Destroyed),
	)
	return res, nil
}

func (s *run) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

func (s *run) release(*Item) {
	s.destroyed++
}

func (s *run) exec(op Op) error {
	if err := validate(op); err != nil {
		return err
	}
	q := s.q

	switch op.Name {
	case "push-tail", "push-head":
		n, _ := strconv.Atoi(op.Args[0])
		push := q.PushTail
		if op.Name == "push-head" {
			push = q.PushHead
		}
		if !push(&Item{Value: n}) {
			s.printf("%s %d: rejected", op.Name, n)
		}

	case "pop-head":
		s.printf("pop-head: %s", show(q.PopHead()))
	case "peek-head":
		s.printf("peek-head: %s", show(q.PeekHead()))
	case "peek-tail":
		s.printf("peek-tail: %s", show(q.PeekTail()))

	case "find":
		n, _ := strconv.Atoi(op.Args[0])
		s.printf("find %d: %s", n, show(q.Find(valueIs(n))))

	case "remove":
		n, _ := strconv.Atoi(op.Args[0])
		item, _ := q.Find(valueIs(n))
		s.printf("remove %d: %t", n, q.Remove(item))

	case "remove-if":
		n, _ := strconv.Atoi(op.Args[0])
		s.printf("remove-if %d: %s", n, show(q.RemoveIf(valueIs(n))))

	case "remove-all":
		match, err := parseFilter(op.Args)
		if err != nil {
			return err
		}
		s.printf("remove-all: %d", q.RemoveAll(match, s.release))

	case "foreach":
		mode := "print"
		if len(op.Args) == 1 {
			mode = op.Args[0]
		}
		s.printf("foreach %s: %s", mode, ints(s.foreach(mode)))

	case "len":
		s.printf("len: %d", q.Len())
	case "empty":
		s.printf("empty: %t", q.IsEmpty())

	case "expect":
		want := make([]int, 0, len(op.Args))
		for _, a := range op.Args {
			n, _ := strconv.Atoi(a)
			want = append(want, n)
		}
		if got := values(q); !slices.Equal(got, want) {
			return fmt.Errorf("%w: got %s want %s", ErrExpectation, ints(got), ints(want))
		}

	case "destroy":
		before := s.destroyed
		q.Destroy(s.release)
		s.printf("destroy: %d", s.destroyed-before)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, op.Name)
	}
	return nil
}

// foreach traverses the queue and returns the visited values.
func (s *run) foreach(mode string) []int {
	q := s.q

	var following map[*Item]*Item
	if mode == "remove-next" {
		snapshot := q.Values()
		following = make(map[*Item]*Item, len(snapshot))
		for i := 0; i+1 < len(snapshot); i++ {
			following[snapshot[i]] = snapshot[i+1]
		}
	}

	visited := []int{}
	q.ForEach(func(item *Item) {
		visited = append(visited, item.Value)
		switch mode {
		case "remove-self":
			q.Remove(item)
		case "remove-next":
			if next := following[item]; next != nil {
				q.Remove(next)
			}
		}
	})
	return visited
}

func values(q *refqueue.Queue[*Item]) []int {
	result := []int{}
	for _, item := range q.Values() {
		result = append(result, item.Value)
	}
	return result
}

func show(item *Item, ok bool) string {
	if !ok {
		return "<none>"
	}
	return item.String()
}

func ints(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
