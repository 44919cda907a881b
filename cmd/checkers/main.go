// Package main implements a terminal checkers game against a friend or the
// computer.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"checkers/internal/ai"
	"checkers/internal/client/commands"
	"checkers/internal/client/display"
	"checkers/internal/config"
	"checkers/internal/core"

	"github.com/chzyer/readline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	modeName := flag.String("mode", "pvai", "Game mode: pvp or pvai")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	flag.DurationVar(&cfg.AITurnDelay, "ai-turn-delay", cfg.AITurnDelay, "Delay before the computer moves")
	flag.DurationVar(&cfg.AIJumpDelay, "ai-jump-delay", cfg.AIJumpDelay, "Delay between jumps of a computer capture chain")
	flag.Uint64Var(&cfg.AISeed, "ai-seed", cfg.AISeed, "Computer move seed (0 seeds from the clock)")
	flag.Parse()

	mode, ok := core.ParseMode(*modeName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *modeName)
		os.Exit(2)
	}

	display.DetectColor()
	if *noColor {
		display.Enabled = false
	}

	s := commands.NewSession(os.Stdout, mode, ai.New(cfg.Seed()))
	s.TurnDelay = cfg.AITurnDelay
	s.JumpDelay = cfg.AIJumpDelay

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("checkers"),
		HistoryFile:     historyFile(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, display.Paint(display.Red, err.Error()))
		os.Exit(1)
	}
	defer rl.Close()
	s.Out = rl.Stdout()

	fmt.Fprintln(s.Out, display.Paint(display.Cyan, "Checkers"))
	fmt.Fprintln(s.Out, "Type 'help' for commands")

	registry := commands.NewRegistry(s)
	registry.Execute("show")

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil { // readline.ErrInterrupt
			continue
		}

		line = strings.TrimSpace(line)
		if line == "quit" {
			line = "exit"
		}
		if errors.Is(registry.Execute(line), commands.ErrExit) {
			break
		}
	}
}

func buildPrompt(s *commands.Session) string {
	g := s.Game
	if g.State().IsOver() {
		return display.Prompt("checkers [over]")
	}
	return display.Prompt(fmt.Sprintf("checkers [%s] %s", g.Mode(), display.ColorForTurn(g.Turn())))
}

func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return dir + string(os.PathSeparator) + "checkers_history"
}
