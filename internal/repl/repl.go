package repl

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"eva/internal/evaluator"
	"eva/internal/parser"
)

const (
	PROMPT       = ">> "
	CONTINUATION = ".. "
	QUIT         = ":quit"
)

// Start reads expressions from in until EOF or :quit. Input is accumulated across lines
// until its parentheses balance; every complete chunk is evaluated in the global
// environment of ev, so definitions persist between prompts.
func Start(in io.Reader, out io.Writer, ev *evaluator.Evaluator) {
	scanner := bufio.NewScanner(in)
	var pending strings.Builder

	for {
		if pending.Len() == 0 {
			io.WriteString(out, PROMPT)
		} else {
			io.WriteString(out, CONTINUATION)
		}
		if !scanner.Scan() {
			return
		}

		line := scanner.Text()
		if pending.Len() == 0 {
			if strings.TrimSpace(line) == QUIT {
				return
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
		}

		pending.WriteString(line)
		pending.WriteString("\n")
		src := pending.String()
		if parser.Balance(src) > 0 {
			continue
		}
		pending.Reset()

		program, err := parser.ParseProgram(src)
		if err != nil {
			printError(out, err)
			continue
		}

		evaluated, err := ev.EvalGlobal(program)
		if err != nil {
			slog.Debug("repl evaluation failed", slog.Any("error", err))
			printError(out, err)
			continue
		}
		io.WriteString(out, evaluated.Inspect())
		io.WriteString(out, "\n")
	}
}

func printError(out io.Writer, err error) {
	fmt.Fprintf(out, "error: %v\n", err)
}
