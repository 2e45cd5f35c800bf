package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/danmuck/p4chord/internal/exchange"
	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func printResult(w io.Writer, res exchange.Result) {
	resp := res.Response
	hz := make([]string, len(resp.Freqs))
	for i, f := range resp.Freqs {
		hz[i] = fmt.Sprintf("%d", f)
	}
	fmt.Fprintf(w, "%s %s %s %s %s Hz %s\n",
		green("✓"),
		cyan(string(resp.Tonic)),
		cyan(string(resp.ChordType)),
		yellow(fmt.Sprintf("%x", resp.ChosenNotes)),
		bold(strings.Join(hz, " ")),
		dim(fmt.Sprintf("(%s)", res.Elapsed.Round(time.Microsecond))),
	)
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", red("✗"), err)
}

func printInfo(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s %s\n", dim("•"), msg)
}
