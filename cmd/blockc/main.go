// blockc compiles block graph documents into GLSL fragment programs.
//
// Usage:
//
//	blockc -in graph.json -o shader.frag
//	blockc -in graph.json -validate
//	blockc -in graph.json -png preview.png -size 512x512 -time 1.5 -caption "my graph"
//	blockc -list
//
// Graph document format:
//
//	{
//	  "blocks": [
//	    {"id": "c", "type": "circle", "inputs": {"radius": 0.3}},
//	    {"id": "k", "type": "colorize", "inputs": {"mask": "c:shape", "color": [1, 0.5, 0]}}
//	  ],
//	  "output": "k"
//	}
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/soypat/glblocks"
	"github.com/soypat/glblocks/blockaux"
	"github.com/soypat/glblocks/glbuild"
	"github.com/soypat/glblocks/gleval"
	"github.com/soypat/glblocks/graph"
)

func init() {
	runtime.LockOSThread() // In case we wish to use OpenGL.
}

// errProblems signals the graph has validation problems, already reported.
var errProblems = errors.New("graph has problems")

type flags struct {
	in, out     string
	profile     string
	validate    bool
	png         string
	size        string
	time        float64
	caption     string
	ui          bool
	gpucheck    bool
	list        bool
	verbose     bool
	supersample int
}

func main() {
	err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		if !errors.Is(err, errProblems) {
			fmt.Fprintln(os.Stderr, "blockc:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var f flags
	fs := flag.NewFlagSet("blockc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.in, "in", "", "input graph JSON file (stdin if empty)")
	fs.StringVar(&f.out, "o", "", "output GLSL file (stdout if empty)")
	fs.StringVar(&f.profile, "profile", "webgl", "GLSL dialect: webgl or core330")
	fs.BoolVar(&f.validate, "validate", false, "only validate, exit with status 1 on problems")
	fs.StringVar(&f.png, "png", "", "render a PNG preview to this file")
	fs.StringVar(&f.size, "size", "512x512", "preview size as WIDTHxHEIGHT")
	fs.Float64Var(&f.time, "time", 0, "value of iTime for the PNG preview")
	fs.StringVar(&f.caption, "caption", "", "caption drawn on the PNG preview")
	fs.IntVar(&f.supersample, "ss", 1, "PNG preview supersampling factor")
	fs.BoolVar(&f.ui, "ui", false, "open an interactive preview window (requires cgo)")
	fs.BoolVar(&f.gpucheck, "gpucheck", false, "compile the generated program on the GPU (requires cgo)")
	fs.BoolVar(&f.list, "list", false, "print the block library and exit")
	fs.BoolVar(&f.verbose, "v", false, "verbose debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	glblocks.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	log := glblocks.Logger()
	lib := glblocks.DefaultLibrary()

	if f.list {
		return printLibrary(stdout, lib)
	}
	profile, err := glbuild.ParseProfile(f.profile)
	if err != nil {
		return err
	}

	data, err := readInput(f.in, stdin)
	if err != nil {
		return err
	}
	doc, err := graph.LoadDocument(data)
	if err != nil {
		return err
	}
	log.Debug("loaded graph", "blocks", len(doc.Instances), "uniforms", len(doc.Uniforms))

	problems := graph.ValidateProblems(doc.Instances, lib)
	for _, p := range problems {
		msg := p.String()
		if p.Code == graph.ProblemUnknownKind {
			if suggestions := lib.Suggest(p.Kind, 3); len(suggestions) > 0 {
				msg += " (did you mean " + strings.Join(suggestions, ", ") + "?)"
			}
		}
		fmt.Fprintln(stderr, msg)
	}
	if f.validate {
		if len(problems) > 0 {
			return errProblems
		}
		log.Info("graph is valid", "blocks", len(doc.Instances))
		return nil
	} else if len(problems) > 0 {
		log.Warn("graph has problems, generation will likely fail", "count", len(problems))
	}

	programmer := glbuild.NewProgrammer(lib, glbuild.Config{Profile: profile, Output: doc.Output})
	src, err := programmer.Generate(doc.Instances)
	if err != nil {
		return err
	}
	err = writeOutput(f.out, stdout, src)
	if err != nil {
		return err
	}

	if f.gpucheck {
		err = gpuCheck(lib, doc)
		if err != nil {
			return fmt.Errorf("GPU check: %w", err)
		}
		log.Info("GPU compile check passed")
	}
	if f.png != "" {
		var width, height int
		_, err = fmt.Sscanf(f.size, "%dx%d", &width, &height)
		if err != nil {
			return fmt.Errorf("invalid -size %q: %w", f.size, err)
		}
		err = blockaux.RenderPNGFile(f.png, doc.Instances, lib, blockaux.RenderConfig{
			Width:       width,
			Height:      height,
			Time:        float32(f.time),
			Supersample: f.supersample,
			Caption:     f.caption,
			Uniforms:    doc.Uniforms,
			Output:      doc.Output,
		})
		if err != nil {
			return err
		}
	}
	if f.ui {
		return blockaux.UI(doc.Instances, lib, blockaux.UIConfig{Width: 800, Height: 600, Output: doc.Output})
	}
	return nil
}

func gpuCheck(lib *glblocks.Library, doc *graph.Document) error {
	programmer := glbuild.NewProgrammer(lib, glbuild.Config{Profile: glbuild.ProfileCore330, Output: doc.Output})
	src, err := programmer.Generate(doc.Instances)
	if err != nil {
		return err
	}
	terminate, err := gleval.Init1x1GLFW()
	if err != nil {
		return err
	}
	defer terminate()
	return gleval.CheckFragment(src)
}

func readInput(filename string, stdin io.Reader) ([]byte, error) {
	if filename == "" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(filename)
}

func writeOutput(filename string, stdout io.Writer, src string) error {
	if filename == "" {
		_, err := io.WriteString(stdout, src)
		return err
	}
	err := os.WriteFile(filename, []byte(src), 0o644)
	if err != nil {
		return err
	}
	glblocks.Logger().Info("wrote GLSL", "file", filename, "bytes", len(src))
	return nil
}

func printLibrary(w io.Writer, lib *glblocks.Library) error {
	for _, c := range lib.ListCategories() {
		_, err := fmt.Fprintf(w, "%s:\n", c)
		if err != nil {
			return err
		}
		for _, k := range lib.ListByCategory(c) {
			ports := make([]string, len(k.Inputs))
			for i, p := range k.Inputs {
				ports[i] = p.ID + " " + p.Type.String()
			}
			_, err = fmt.Fprintf(w, "  %-10s %-16s (%s) -> %s  %s\n", k.ID, k.Name, strings.Join(ports, ", "), k.OutputType(), k.Description)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
