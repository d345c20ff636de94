// Command imc2ctmdp converts an Interactive Markov Chain into a
// strictly alternating Continuous-Time Markov Decision Process.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"imc2ctmdp/internal/codec"
	"imc2ctmdp/internal/diagnostics"
	"imc2ctmdp/internal/domain"
	"imc2ctmdp/internal/engine"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type outputSpec struct {
	format, path string
}

func run(args []string) error {
	fs := flag.NewFlagSet("imc2ctmdp", flag.ContinueOnError)

	var (
		action          string
		noColor         bool
		deleteUnreach   bool
		input           string
		noCycleSearch   bool
		noLabels        bool
		noUniformize    bool
		output          string
		searchAbsorbing bool
		quiet           bool
		verbose         bool
	)

	registerAlias := func(long, short string, target *string, def, usage string) {
		fs.StringVar(target, long, def, usage)
		fs.StringVar(target, short, def, usage+" (shorthand)")
	}
	registerBoolAlias := func(long, short string, target *bool, usage string) {
		fs.BoolVar(target, long, false, usage)
		fs.BoolVar(target, short, false, usage+" (shorthand)")
	}

	registerAlias("action", "a", &action, "", "distinguished action name marking interesting source states")
	registerBoolAlias("no-color", "c", &noColor, "disable ANSI color in diagnostic output")
	registerBoolAlias("delete-unreachable", "d", &deleteUnreach, "prune states unreachable from the initial state")
	registerAlias("input", "i", &input, "", "input file, optionally prefixed with format:")
	registerBoolAlias("no-cycle-search", "k", &noCycleSearch, "disable the interactive-cycle guard on input edges")
	registerBoolAlias("no-labels", "l", &noLabels, "do not compose labels along collapsed interactive chains")
	registerBoolAlias("no-uniformize", "n", &noUniformize, "skip uniformization")
	registerAlias("output", "o", &output, "", "comma-separated format:filename output list")
	registerBoolAlias("search-absorbing", "s", &searchAbsorbing, "detect absorbing states in .lab output")
	fs.BoolVar(&quiet, "quiet", false, "suppress the debug channel")
	fs.BoolVar(&quiet, "q", false, "suppress the debug channel (shorthand)")
	fs.BoolVar(&verbose, "verbose", false, "force the debug channel on")
	fs.BoolVar(&verbose, "v", false, "force the debug channel on (shorthand)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	diagnostics.Configure(quiet, verbose, noColor)

	if input == "" {
		return domain.NewDomainError(domain.ErrCodeInvalidState, "an --input file is required", nil)
	}

	var sw diagnostics.Stopwatch
	sw.Start(nowFunc())

	registry := codec.NewRegistry()
	codec.RegisterDefaults(registry)

	g := domain.NewGraph()
	g.TheAction = action
	g.CycleSearch = !noCycleSearch
	g.SearchForAbsorbingStates = searchAbsorbing

	inFormat, inPath := splitFormatPath(input, "")
	if err := registry.Read(g, inFormat, inPath); err != nil {
		return err
	}
	sw.Lap(nowFunc(), "parse")

	if engine.CheckInteractiveCycle(g) {
		diagnostics.Warn().Msg("input graph contains an interactive cycle; closure may not terminate")
	}

	if deleteUnreach {
		n := engine.PruneUnreachable(g)
		diagnostics.Debug().Int("count", n).Msg("pruned unreachable states before transform")
	}

	if !noUniformize {
		if err := engine.Uniformize(g, nil); err != nil {
			return err
		}
	} else {
		uniform, err := engine.CheckUniformity(g)
		if err != nil {
			return err
		}
		if !uniform {
			diagnostics.Warn().Msg("input is not uniform and --no-uniformize was given")
		}
	}
	sw.Lap(nowFunc(), "uniformize")

	stats, err := engine.TransformImcToCtmdp(g, !noLabels)
	if err != nil {
		return err
	}
	sw.Lap(nowFunc(), "transform")

	n := engine.PruneUnreachable(g)
	diagnostics.Debug().Int("count", n).Msg("pruned unreachable states after transform")

	if engine.HasInternalNondeterminism(g) {
		diagnostics.Warn().Msg("internal nondeterminism detected: some state has two identically labelled outgoing edges")
	}

	engine.PrepareForExport(g)
	sw.Lap(nowFunc(), "number+sort")

	diagnostics.Debug().
		Int("hybridConverted", stats.HybridConverted).
		Int("syntheticPredecessors", stats.SyntheticPredecessors).
		Int("pruned", stats.Pruned).
		Bool("promotedInitial", stats.PromotedInitial).
		Msg("transform statistics")

	for _, spec := range parseOutputs(output, inPath) {
		if err := registry.Write(g, spec.format, spec.path); err != nil {
			return err
		}
	}
	sw.Lap(nowFunc(), "write")

	fmt.Print(sw.Report(nowFunc()))
	return nil
}

// nowFunc is a seam so the stopwatch can be driven deterministically
// in tests; production code always calls time.Now.
var nowFunc = time.Now

// splitFormatPath splits an optional "format:path" string, falling
// back to extension-based derivation when no format prefix is given.
func splitFormatPath(spec, fallbackBase string) (format, path string) {
	if idx := strings.IndexByte(spec, ':'); idx >= 0 && !looksLikeWindowsDrive(spec, idx) {
		format, path = spec[:idx], spec[idx+1:]
	} else {
		path = spec
	}
	if path == "" {
		path = defaultFilename(fallbackBase, format)
	}
	if format == "" {
		format = formatFromExtension(path)
	}
	return format, path
}

func looksLikeWindowsDrive(spec string, idx int) bool {
	return idx == 1 && len(spec) > 2 && spec[2] == '\\'
}

func formatFromExtension(path string) string {
	ext := ""
	if idx := strings.LastIndexByte(path, '.'); idx >= 0 {
		ext = path[idx:]
	}
	switch ext {
	case ".bcg":
		return "bcg"
	case ".tra":
		return "etmcc"
	case ".lab":
		return "lab"
	case ".marked":
		return "marked"
	case ".ctmdp":
		return "ctmdp"
	case ".ctmdpi":
		return "ctmdpi"
	case ".sm", ".nm", ".pm", ".prism":
		return "prism"
	default:
		return ""
	}
}

func canonicalExtension(format string) string {
	switch format {
	case "bcg":
		return ".bcg"
	case "etmcc":
		return ".tra"
	case "lab":
		return ".lab"
	case "marked":
		return ".marked"
	case "ctmdp":
		return ".ctmdp"
	case "ctmdpi":
		return ".ctmdpi"
	case "prism":
		return ".sm"
	default:
		return ""
	}
}

// defaultFilename derives an output filename from the input filename's
// basename when an output spec omits its own path.
func defaultFilename(base, format string) string {
	stem := base
	if idx := strings.LastIndexByte(stem, '.'); idx >= 0 {
		stem = stem[:idx]
	}
	return stem + canonicalExtension(format)
}

// parseOutputs splits the --output flag's comma-separated
// format:filename list.
func parseOutputs(output, inPath string) []outputSpec {
	if output == "" {
		return nil
	}
	var specs []outputSpec
	for _, entry := range strings.Split(output, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		format, path := splitFormatPath(entry, inPath)
		specs = append(specs, outputSpec{format: format, path: path})
	}
	return specs
}
