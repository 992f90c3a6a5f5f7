package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yndnr/tsmap-go/pkg/tsmap"
)

const prompt = "tsmap> "

// ErrUsage is returned for malformed commands.
var ErrUsage = errors.New("usage")

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	table     *tsmap.Map
	input     io.Reader
	output    io.Writer
	completer *Completer
	history   *History
}

type command struct {
	args  int
	usage string
	run   func(r *REPL, args []int) error
}

var commands = map[string]command{
	"get":    {1, "get KEY", (*REPL).get},
	"put":    {2, "put KEY VALUE", (*REPL).put},
	"delete": {1, "delete KEY", (*REPL).del},
	"dump":   {0, "dump", (*REPL).dump},
	"len":    {0, "len", (*REPL).len},
	"stats":  {0, "stats", (*REPL).stats},
	"verify": {0, "verify", (*REPL).verify},
}

// New creates a REPL over table. A non-empty historyFile persists history
// between sessions.
func New(table *tsmap.Map, in io.Reader, out io.Writer, historyFile string) *REPL {
	names := []string{"help", "history", "exit", "quit"}
	for name := range commands {
		names = append(names, name)
	}
	return &REPL{
		table:     table,
		input:     in,
		output:    out,
		completer: NewCompleter(names...),
		history:   NewHistory(historyFile),
	}
}

// Run starts the REPL loop. It returns on exit, quit or end of input.
func (r *REPL) Run() error {
	if err := r.history.Load(); err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	reader := bufio.NewReader(r.input)

	for {
		fmt.Fprint(r.output, prompt)

		line, err := reader.ReadString('\n')
		if err == io.EOF && line == "" {
			fmt.Fprintln(r.output)
			return r.history.Save()
		}
		if err != nil && err != io.EOF {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.history.Add(line)

		if line == "exit" || line == "quit" {
			return r.history.Save()
		}

		if err := r.execute(line); err != nil {
			fmt.Fprintf(r.output, "Error: %v\n", err)
		}
	}
}

func (r *REPL) execute(line string) error {
	fields := strings.Fields(line)
	name, rest := fields[0], fields[1:]

	switch name {
	case "help":
		return r.help()
	case "history":
		for i, e := range r.history.Entries() {
			fmt.Fprintf(r.output, "%4d  %s\n", i+1, e)
		}
		return nil
	}

	cmd, ok := commands[name]
	if !ok {
		if s := r.completer.Complete(name); len(s) > 0 {
			return fmt.Errorf("unknown command %q, did you mean: %s", name, strings.Join(s, ", "))
		}
		return fmt.Errorf("unknown command %q, try help", name)
	}
	if len(rest) != cmd.args {
		return fmt.Errorf("%w: %s", ErrUsage, cmd.usage)
	}

	args := make([]int, len(rest))
	for i, s := range rest {
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%w: %s: %q is not an integer", ErrUsage, cmd.usage, s)
		}
		args[i] = v
	}
	return cmd.run(r, args)
}

func (r *REPL) help() error {
	for _, name := range r.completer.Complete("") {
		if cmd, ok := commands[name]; ok {
			fmt.Fprintf(r.output, "  %s\n", cmd.usage)
		}
	}
	fmt.Fprintln(r.output, "  history\n  help\n  exit | quit")
	return nil
}

func (r *REPL) printResult(v int) {
	if v == tsmap.NotFound {
		fmt.Fprintln(r.output, "NOT_FOUND")
		return
	}
	fmt.Fprintln(r.output, v)
}

func (r *REPL) get(args []int) error {
	r.printResult(r.table.Get(args[0]))
	return nil
}

func (r *REPL) put(args []int) error {
	r.printResult(r.table.Put(args[0], args[1]))
	return nil
}

func (r *REPL) del(args []int) error {
	r.printResult(r.table.Delete(args[0]))
	return nil
}

func (r *REPL) dump([]int) error {
	return r.table.Dump(r.output)
}

func (r *REPL) len([]int) error {
	fmt.Fprintln(r.output, r.table.Len())
	return nil
}

func (r *REPL) stats([]int) error {
	s := r.table.Stats()
	_, err := fmt.Fprintf(r.output, "capacity=%d size=%d ops=%d used_buckets=%d longest_chain=%d\n",
		s.Capacity, s.Size, s.NumOps, s.UsedBuckets, s.LongestChain)
	return err
}

func (r *REPL) verify([]int) error {
	if err := r.table.Verify(); err != nil {
		return err
	}
	fmt.Fprintln(r.output, "OK")
	return nil
}
