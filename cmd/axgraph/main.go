// Package main provides the axgraph CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"k8s.io/klog/v2"

	"github.com/born-ml/axgraph/axes"
	"github.com/born-ml/axgraph/checkpoint"
	"github.com/born-ml/axgraph/graph"
	"github.com/born-ml/axgraph/transformer"
)

const version = "v0.1.0-dev"

func main() {
	klog.InitFlags(nil)
	backend := flag.String("backend", "cpu", "transformer backend")
	flag.Usage = usage
	flag.Parse()

	if err := run(context.Background(), os.Stdout, *backend, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "axgraph: %v\n", err)
		os.Exit(1)
	}
	klog.Flush()
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "axgraph %s - named-axis computational graphs for Go\n\n", version)
	fmt.Fprintln(out, "Usage: axgraph [flags] <command>")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  version            Show version")
	fmt.Fprintln(out, "  backends           List registered backends")
	fmt.Fprintln(out, "  demo               Compute x + 1.5 for five inputs")
	fmt.Fprintln(out, "  inspect <file>     Print the variables of a checkpoint")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Flags:")
	flag.PrintDefaults()
}

func run(ctx context.Context, out io.Writer, backend string, args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}
	switch args[0] {
	case "version":
		fmt.Fprintf(out, "axgraph %s\n", version)
		return nil
	case "backends":
		for _, name := range transformer.Backends() {
			fmt.Fprintln(out, name)
		}
		return nil
	case "demo":
		return demo(ctx, out, backend)
	case "inspect":
		if len(args) != 2 {
			return fmt.Errorf("inspect takes one checkpoint file")
		}
		return inspect(out, args[1])
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// demo evaluates x + 1.5 for x in 0..4 with one compiled computation.
func demo(ctx context.Context, out io.Writer, backend string) error {
	t, err := transformer.Make(transformer.Config{Backend: backend})
	if err != nil {
		return err
	}
	defer t.Close()

	x := graph.Placeholder(axes.Axes{}, graph.WithName("x"))
	comp, err := t.Computation([]graph.Op{graph.AddScalar(x, 1.5)}, x)
	if err != nil {
		return err
	}
	for i := 0; i < 5; i++ {
		res, err := comp.Call(ctx, transformer.Scalar(float32(i)))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d + 1.5 = %g\n", i, res[0].Float())
	}
	return nil
}

func inspect(out io.Writer, path string) error {
	f, err := os.Open(path) //nolint:gosec // G304: path is a command-line argument
	if err != nil {
		return err
	}
	defer f.Close()

	ckpt, err := checkpoint.Decode(f)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created %s\n", ckpt.Header.CreatedAt.Format("2006-01-02 15:04:05"))
	for k, v := range ckpt.Header.Metadata {
		fmt.Fprintf(out, "meta %s=%s\n", k, v)
	}
	for _, m := range ckpt.Header.Variables {
		axs, err := m.AxesOf()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-32s %s\n", m.Name, axs)
	}
	return nil
}
