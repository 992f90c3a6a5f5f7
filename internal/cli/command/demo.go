package command

import (
	"fmt"
	"io"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/tsmap-go/internal/cli/output"
	"github.com/yndnr/tsmap-go/pkg/tsmap"
)

// DemoCommand returns the demo command.
func DemoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "Walk through a bucket collision on a four-bucket table",
		Action: func(c *cli.Context) error {
			format, err := outputFormat(c)
			if err != nil {
				return err
			}
			result, err := runDemo()
			if err != nil {
				return err
			}
			return printDemo(writer(c), format, result)
		},
	}
}

// demoStep records one operation of the walkthrough.
type demoStep struct {
	Op     string `json:"op" yaml:"op"`
	Key    int    `json:"key" yaml:"key"`
	Value  *int   `json:"value,omitempty" yaml:"value,omitempty"`
	Result string `json:"result" yaml:"result"`
}

type demoResult struct {
	Capacity int            `json:"capacity" yaml:"capacity"`
	Steps    []demoStep     `json:"steps" yaml:"steps"`
	Buckets  [][]tsmap.Pair `json:"buckets" yaml:"buckets"`
	dump     string
}

const demoCapacity = 4

// runDemo inserts keys 1 and 5, which share bucket 1 of a four-bucket
// table, then deletes the chain head and shows the survivor.
func runDemo() (*demoResult, error) {
	m, err := tsmap.New(demoCapacity)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	res := &demoResult{Capacity: demoCapacity}
	record := func(op string, key int, value *int, ret int) {
		res.Steps = append(res.Steps, demoStep{Op: op, Key: key, Value: value, Result: formatResult(ret)})
	}
	put := func(k, v int) { record("put", k, &v, m.Put(k, v)) }
	get := func(k int) { record("get", k, nil, m.Get(k)) }
	del := func(k int) { record("delete", k, nil, m.Delete(k)) }

	put(1, 10)
	put(5, 20)
	get(1)
	get(5)
	del(1)
	get(1)

	res.Buckets = m.Snapshot()
	res.dump = m.String()
	return res, nil
}

func formatResult(v int) string {
	if v == tsmap.NotFound {
		return "NOT_FOUND"
	}
	return strconv.Itoa(v)
}

func printDemo(w io.Writer, format output.Format, r *demoResult) error {
	if format != output.FormatTable {
		return output.NewFormatter(format).Format(w, r)
	}

	steps := output.NewTable("STEP", "CALL", "RESULT")
	for i, s := range r.Steps {
		call := fmt.Sprintf("%s(%d)", s.Op, s.Key)
		if s.Value != nil {
			call = fmt.Sprintf("%s(%d,%d)", s.Op, s.Key, *s.Value)
		}
		steps.AddRow(strconv.Itoa(i+1), call, s.Result)
	}
	if err := steps.Render(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s", r.dump)
	return err
}
