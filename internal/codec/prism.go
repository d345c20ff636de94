package codec

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"imc2ctmdp/internal/diagnostics"
	"imc2ctmdp/internal/domain"
	"imc2ctmdp/internal/engine"
	"imc2ctmdp/internal/rateexpr"
)

// prismReader parses PRISM's three-file triples representation: a
// defining file (.prism/.sm/.nm/.pm) mapping rates to named actions via
// const declarations, a .trans file of (src, dst, rate) triples, and a
// .labels file naming the initial states.
type prismReader struct{}

var constLineRE = regexp.MustCompile(`^\s*const\s+(?:double|int)\s+(\w+)\s*=\s*([^;]+);(?:\s*//\s*Action\s*"([^"]*)")?`)

type rateAction struct {
	rate   float64
	action string
}

func (prismReader) Read(g *domain.Graph, basePath string) error {
	rateToAction, err := parsePrismDefiningFile(g, basePath)
	if err != nil {
		return err
	}

	initialStates, err := parsePrismLabels(replaceExt(basePath, ".labels"))
	if err != nil {
		return err
	}

	transPath := replaceExt(basePath, ".trans")
	f, err := os.Open(transPath)
	if err != nil {
		return domain.NewDomainError(domain.ErrCodeIO, "failed to open "+transPath, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return domain.NewDomainError(domain.ErrCodeParse, transPath+" is empty", nil)
	}
	header := strings.Fields(scanner.Text())
	if len(header) < 2 {
		return domain.NewDomainError(domain.ErrCodeParse, "malformed .trans header in "+transPath, nil)
	}
	nStates, err := strconv.Atoi(header[0])
	if err != nil {
		return domain.NewDomainError(domain.ErrCodeParse, "malformed state count in "+transPath, err)
	}

	handles := make([]domain.StateHandle, nStates)
	for i := range handles {
		handles[i] = g.AddState()
	}
	for _, idx := range initialStates {
		if idx >= 0 && idx < nStates {
			g.SetInitial(handles[idx])
		}
	}
	if _, hasInitial := g.Initial(); !hasInitial && nStates > 0 {
		g.SetInitial(handles[0])
	}

	droppedCycles := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return domain.NewDomainError(domain.ErrCodeParse, "malformed transition line in "+transPath+": "+line, nil)
		}
		src, err := strconv.Atoi(fields[0])
		if err != nil {
			return domain.NewDomainError(domain.ErrCodeParse, "malformed source index in "+transPath, err)
		}
		dst, err := strconv.Atoi(fields[1])
		if err != nil {
			return domain.NewDomainError(domain.ErrCodeParse, "malformed target index in "+transPath, err)
		}
		rate, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return domain.NewDomainError(domain.ErrCodeParse, "malformed rate in "+transPath, err)
		}
		if src < 0 || src >= nStates || dst < 0 || dst >= nStates {
			return domain.NewDomainError(domain.ErrCodeParse, "transition index out of range in "+transPath, nil)
		}

		text := fmt.Sprintf("rate %s", domain.FormatRatePrecise(rate))
		isInteractive := false
		for _, ra := range rateToAction {
			// A rate can be registered by more than one const line; the
			// later declaration wins, since that's what a plain
			// rate->action map assignment does when the same key is
			// written twice.
			if math.Abs(ra.rate-rate) < 1e-9 {
				text = ra.action
				isInteractive = true
			}
		}
		isMarkSentinel := false
		if isInteractive && g.TheAction != "" && text == domain.Quote(g.TheAction) {
			srcState, _ := g.State(handles[src])
			srcState.SetMark(true)
			isMarkSentinel = true
		}
		if isMarkSentinel {
			// theAction transitions are sentinels flagging their source
			// as marked; they are not themselves behavior edges.
			continue
		}

		if isInteractive && g.CycleSearch {
			if engine.Reachable(g, handles[dst], handles[src], true) {
				droppedCycles++
				diagnostics.Warn().Int("src", src).Int("dst", dst).Msg("dropped trans-file edge that would close an interactive cycle")
				continue
			}
		}

		lbl, err := g.Interner.Get(text)
		if err != nil {
			return err
		}
		g.AddTransition(handles[src], domain.Transition{Target: handles[dst], Label: lbl})
	}
	if droppedCycles > 0 {
		diagnostics.Debug().Int("count", droppedCycles).Msg("dropped cycle-closing edges from prism input")
	}
	return nil
}

func parsePrismDefiningFile(g *domain.Graph, basePath string) ([]rateAction, error) {
	var path string
	for _, ext := range []string{".prism", ".sm", ".nm", ".pm"} {
		candidate := replaceExt(basePath, ext)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
			break
		}
	}
	if path == "" {
		path = replaceExt(basePath, ".prism")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrCodeIO, "failed to open "+path, err)
	}
	defer f.Close()

	eval := rateexpr.NewEvaluator()
	var result []rateAction

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		m := constLineRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name, expr, action := m[1], strings.TrimSpace(m[2]), m[3]
		rate, err := eval.Define(name, expr)
		if err != nil {
			return nil, err
		}
		if action != "" {
			// quoted so a literal '|' or '\' in a user-supplied action
			// name can't be mistaken for composite-label syntax later.
			result = append(result, rateAction{rate: rate, action: domain.Quote(action)})
		}
	}
	return result, nil
}

func parsePrismLabels(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrCodeIO, "failed to open "+path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil, domain.NewDomainError(domain.ErrCodeParse, path+" is empty", nil)
	}

	initID := -1
	for _, tok := range strings.Fields(scanner.Text()) {
		parts := strings.SplitN(tok, "=", 2)
		if len(parts) != 2 {
			continue
		}
		id, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}
		if strings.Trim(parts[1], `"`) == "init" {
			initID = id
		}
	}

	var initialStates []int
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		stateTok := strings.TrimSuffix(fields[0], ":")
		state, err := strconv.Atoi(stateTok)
		if err != nil {
			continue
		}
		for _, idTok := range fields[1:] {
			id, err := strconv.Atoi(idTok)
			if err == nil && id == initID {
				initialStates = append(initialStates, state)
			}
		}
	}
	return initialStates, nil
}
