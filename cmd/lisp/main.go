// Command lisp is the interpreter driver: with no argument it runs a
// read-eval-print loop; with a file argument it evaluates the file's
// top-level forms and exits non-zero on the first uncaught exception.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/fuzy112/lisp"
)

const (
	historyFile = ".lisp_history"
	promptMain  = ">>> "
	promptCont  = "... "
)

func main() {
	if len(os.Args) < 2 {
		os.Exit(repl())
	}
	os.Exit(runFile(os.Args[1]))
}

func runFile(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lisp: %v\n", err)
		return 1
	}

	rt := lisp.NewRuntime()
	env := lisp.NewTopLevelEnv(rt)
	rd := lisp.NewReader(env, strings.NewReader(string(src)))

	for {
		form := rd.ReadForm()
		if lisp.IsEOF(form) {
			return 0
		}
		if lisp.IsException(form) {
			// Parse failures carry a position; render a caret snippet.
			if perr := rd.Err(); perr != nil {
				fmt.Fprintln(os.Stderr, lisp.WrapErrorWithSource(perr, string(src)))
				_ = lisp.GetException(env) // discard the duplicate payload
				return 1
			}
			lisp.PrintException(env)
			return 1
		}
		if val := lisp.Eval(env, form); lisp.IsException(val) {
			lisp.PrintException(env)
			return 1
		}
	}
}

func repl() int {
	rt := lisp.NewRuntime()
	env := lisp.NewTopLevelEnv(rt)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		src, ok := readInput(ln, env)
		if !ok {
			fmt.Println()
			return 0
		}
		if strings.TrimSpace(src) == "" {
			continue
		}

		rd := lisp.NewReader(env, strings.NewReader(src))
		for {
			form := rd.ReadForm()
			if lisp.IsEOF(form) {
				break
			}
			if lisp.IsException(form) {
				lisp.PrintException(env)
				break
			}
			val := lisp.Eval(env, form)
			if lisp.IsException(val) {
				lisp.PrintException(env)
				continue
			}
			lisp.PrintValue(env, val)
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
	}
}

// readInput accumulates lines until the text parses as a complete sequence
// of forms (or fails with a non-incomplete error, which the caller will
// surface when it re-reads the text).
func readInput(ln *liner.State, env *lisp.Env) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if incomplete := probeIncomplete(env, b.String()); !incomplete {
			return b.String(), true
		}
	}
}

// probeIncomplete parses src with a throwaway reader and reports whether
// it stops at an unexpected EOF. Exception payloads pushed by the probe
// are popped so the list stays balanced.
func probeIncomplete(env *lisp.Env, src string) bool {
	rd := lisp.NewReader(env, strings.NewReader(src))
	for {
		form := rd.ReadForm()
		if lisp.IsEOF(form) {
			return false
		}
		if lisp.IsException(form) {
			_ = lisp.GetException(env)
			return lisp.IsIncomplete(rd.Err())
		}
	}
}
