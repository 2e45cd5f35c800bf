package main

import (
	"strings"

	"github.com/danmuck/p4chord/internal/protocol"
	"github.com/danmuck/p4chord/internal/protocol/frame"
	"github.com/posener/complete"
	"github.com/willabides/kongplete"
)

func predictors() []kongplete.Option {
	return []kongplete.Option{
		kongplete.WithPredictor("chord", newChordPredictor()),
		kongplete.WithPredictor("layout", complete.PredictSet(layoutNames()...)),
		kongplete.WithPredictor("config", complete.PredictOr(
			complete.PredictFiles("*.toml"),
			complete.PredictFiles("*.yaml"),
			complete.PredictFiles("*.yml"),
		)),
	}
}

func layoutNames() []string {
	names := make([]string, len(frame.Layouts))
	for i, l := range frame.Layouts {
		names[i] = l.Name
	}
	return names
}

// chordPredictor completes the words of a request line: a note, then a chord
// type. Masks are free-form hex and get no suggestions.
type chordPredictor struct{}

func newChordPredictor() complete.Predictor {
	return chordPredictor{}
}

func (chordPredictor) Predict(args complete.Args) []string {
	var candidates []string
	switch lineWordIndex(args.Completed) {
	case 0:
		candidates = symbols(protocol.Notes)
	case 1:
		candidates = symbols(protocol.ChordTypes)
	default:
		return nil
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if strings.HasPrefix(c, args.Last) {
			out = append(out, c)
		}
	}
	return out
}

// lineWordIndex counts request words already typed after the "send" command.
func lineWordIndex(completed []string) int {
	for i, w := range completed {
		if w == "send" {
			n := 0
			for _, rest := range completed[i+1:] {
				if !strings.HasPrefix(rest, "-") {
					n++
				}
			}
			return n
		}
	}
	return len(completed)
}

func symbols[S ~string](in []S) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}
