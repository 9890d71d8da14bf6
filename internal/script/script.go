// Package script parses and runs line-oriented queue operation scripts.
//
// Each non-blank line holds one operation and its arguments separated by
// whitespace; '#' starts a comment. Every script runs against a fresh
// refqueue.Queue of *Item so removal by identity is exercised the same way
// an embedding subsystem would use it.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrUnknownOp   = errors.New("script: unknown operation")
	ErrMissingArg  = errors.New("script: missing argument")
	ErrBadArg      = errors.New("script: bad argument")
	ErrExpectation = errors.New("script: expectation failed")
)

// Item is the element type scripts push. Scripts refer to items by Value;
// the queue tracks them by pointer.
type Item struct {
	Value int
}

func (i *Item) String() string {
	return strconv.Itoa(i.Value)
}

// Op is one parsed script line.
type Op struct {
	Line int
	Name string
	Args []string
}

func (o Op) String() string {
	if len(o.Args) == 0 {
		return o.Name
	}
	return o.Name + " " + strings.Join(o.Args, " ")
}

type arity struct {
	minArgs int
	maxArgs int // -1 for unbounded
}

var ops = map[string]arity{
	"push-tail":  {1, 1},
	"push-head":  {1, 1},
	"pop-head":   {0, 0},
	"peek-head":  {0, 0},
	"peek-tail":  {0, 0},
	"find":       {1, 1},
	"remove":     {1, 1},
	"remove-if":  {1, 1},
	"remove-all": {0, 2},
	"foreach":    {0, 1},
	"len":        {0, 0},
	"empty":      {0, 0},
	"expect":     {0, -1},
	"destroy":    {0, 0},
}

// Parse reads a script. It reports the first malformed line.
func Parse(r io.Reader) ([]Op, error) {
	var result []Op

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		op := Op{Line: line, Name: fields[0], Args: fields[1:]}
		if err := validate(op); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		result = append(result, op)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return result, nil
}

func validate(op Op) error {
	s, ok := ops[op.Name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOp, op.Name)
	}
	if len(op.Args) < s.minArgs {
		return fmt.Errorf("%w: %s needs %d", ErrMissingArg, op.Name, s.minArgs)
	}
	if s.maxArgs >= 0 && len(op.Args) > s.maxArgs {
		return fmt.Errorf("%w: %s takes at most %d", ErrBadArg, op.Name, s.maxArgs)
	}

	switch op.Name {
	case "remove-all":
		_, err := parseFilter(op.Args)
		return err
	case "foreach":
		if len(op.Args) == 1 {
			switch op.Args[0] {
			case "print", "remove-self", "remove-next":
			default:
				return fmt.Errorf("%w: foreach mode %q", ErrBadArg, op.Args[0])
			}
		}
		return nil
	}

	for _, a := range op.Args {
		if _, err := strconv.Atoi(a); err != nil {
			return fmt.Errorf("%w: %q is not an integer", ErrBadArg, a)
		}
	}
	return nil
}

// parseFilter turns remove-all arguments into a match function. A nil
// function with a nil error means "all".
func parseFilter(args []string) (func(*Item) bool, error) {
	if len(args) == 0 {
		return nil, nil
	}
	switch args[0] {
	case "all":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: remove-all all takes no value", ErrBadArg)
		}
		return nil, nil
	case "even", "odd":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: remove-all %s takes no value", ErrBadArg, args[0])
		}
		rem := 0
		if args[0] == "odd" {
			rem = 1
		}
		return func(i *Item) bool {
			r := i.Value % 2
			if r < 0 {
				r = -r
			}
			return r == rem
		}, nil
	case "eq":
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: remove-all eq needs a value", ErrMissingArg)
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrBadArg, args[1])
		}
		return valueIs(n), nil
	}
	return nil, fmt.Errorf("%w: remove-all filter %q", ErrBadArg, args[0])
}

func valueIs(n int) func(*Item) bool {
	return func(i *Item) bool { return i.Value == n }
}
