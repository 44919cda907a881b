package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"checkers/internal/ai"
	"checkers/internal/board"
	"checkers/internal/client/display"
	"checkers/internal/core"
	"checkers/internal/game"
	"checkers/internal/rules"
)

// ErrExit is returned by the exit command
var ErrExit = errors.New("exit requested")

// Session is the state of one terminal player: the local game, the
// current selection and the computer opponent
type Session struct {
	Out       io.Writer
	Game      *game.Game
	Policy    *ai.Policy
	TurnDelay time.Duration
	JumpDelay time.Duration

	selected *board.Square
	targets  []rules.Move
	sleep    func(time.Duration)
}

// NewSession starts a fresh game in mode
func NewSession(out io.Writer, mode core.Mode, policy *ai.Policy) *Session {
	return &Session{
		Out:    out,
		Game:   game.New(mode),
		Policy: policy,
		sleep:  time.Sleep,
	}
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.Out, format, args...)
}

func (s *Session) clearSelection() {
	s.selected = nil
	s.targets = nil
}

// Command defines a client command with its handler
type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Handler     func(*Session, []string) error
}

// Registry manages command registration and execution
type Registry struct {
	session  *Session
	commands map[string]*Command
}

func NewRegistry(session *Session) *Registry {
	r := &Registry{
		session:  session,
		commands: make(map[string]*Command),
	}

	r.registerGameCommands()

	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     r.helpHandler,
	})

	r.Register(&Command{
		Name:        "exit",
		ShortName:   "x",
		Description: "Exit the client",
		Usage:       "exit",
		Handler:     exitHandler,
	})

	return r
}

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
}

// Execute runs one input line. It returns ErrExit when the user quits;
// other errors are printed.
func (r *Registry) Execute(input string) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	cmd, exists := r.commands[parts[0]]
	if !exists {
		r.session.printf("%s\n", display.Paint(display.Red, "Unknown command: "+parts[0]))
		r.session.printf("Type 'help' for available commands\n")
		return nil
	}

	err := cmd.Handler(r.session, parts[1:])
	if errors.Is(err, ErrExit) {
		return err
	}
	if err != nil {
		r.session.printf("%s\n", display.Paint(display.Red, "Error: "+err.Error()))
	}
	return nil
}

func (r *Registry) helpHandler(s *Session, args []string) error {
	if len(args) > 0 {
		cmd, exists := r.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		s.printf("\n%s - %s\n", display.Paint(display.Cyan, cmd.Name), cmd.Description)
		if cmd.ShortName != "" {
			s.printf("Short form: %s\n", display.Paint(display.Cyan, cmd.ShortName))
		}
		s.printf("Usage: %s\n", cmd.Usage)
		return nil
	}

	s.printf("\n%s\n\n", display.Paint(display.Cyan, "Available Commands:"))

	seen := make(map[string]bool)
	var names []string
	for _, cmd := range r.commands {
		if !seen[cmd.Name] {
			seen[cmd.Name] = true
			names = append(names, cmd.Name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		cmd := r.commands[name]
		shortPart := "    "
		if cmd.ShortName != "" {
			shortPart = "[" + display.Paint(display.Cyan, cmd.ShortName) + "] "
		}
		s.printf("  %s%-8s %s\n", shortPart, cmd.Name, cmd.Description)
	}

	s.printf("\nSquares are written row,col with row 0 at the top, e.g. 'move 5,0 4,1'\n")
	return nil
}

func exitHandler(s *Session, args []string) error {
	s.printf("%s\n", display.Paint(display.Cyan, "Goodbye!"))
	return ErrExit
}
