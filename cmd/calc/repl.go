package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"nickandperla.net/calc/internal/session"
	"nickandperla.net/calc/internal/store"
)

// Alt+key mappings: Alt+key sends ESC (0x1b) followed by the key byte
var altKeyMappings = map[byte]string{
	'x': "×", // Alt+x - multiply
	'/': "÷", // Alt+/ - divide
}

type repl struct {
	manager *session.Manager
	session string
	out     io.Writer
	logger  *slog.Logger
}

func newREPL(m *session.Manager, id string, out io.Writer, logger *slog.Logger) *repl {
	return &repl{manager: m, session: id, out: out, logger: logger}
}

func (r *repl) printBanner() {
	fmt.Fprintln(r.out, "calc REPL (Ctrl+D to exit)")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Keys: 0-9 + - * / ( ), Enter or = to calculate")
	fmt.Fprintln(r.out, "  Alt+x → ×    Alt+/ → ÷")
	fmt.Fprintln(r.out, "Commands: :state :reset :sessions :session NAME|new :quit")
	fmt.Fprintf(r.out, "Session: %s\n", r.session)
	fmt.Fprintln(r.out)
}

func (r *repl) run() {
	r.printBanner()

	// Check if stdin is a terminal
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		r.runBasic(bufio.NewReader(os.Stdin), true)
		return
	}

	r.runRaw()
}

// handle evaluates one line and returns the text to show. quit reports
// whether the REPL should stop.
func (r *repl) handle(line string) (out string, quit bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}

	if strings.HasPrefix(line, ":") {
		return r.command(line)
	}

	keys := line
	if !strings.HasSuffix(keys, "=") {
		keys += "="
	}
	s, err := r.manager.Enter(r.session, keys)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), false
	}
	return session.Render(s), false
}

func (r *repl) command(line string) (string, bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q":
		return "", true

	case ":state":
		s, err := r.manager.State(r.session)
		if err != nil {
			return fmt.Sprintf("Error: %v", err), false
		}
		return fmt.Sprintf("[%s] %s", s.Status, session.Render(s)), false

	case ":reset":
		if err := r.manager.Reset(r.session); err != nil {
			return fmt.Sprintf("Error: %v", err), false
		}
		return "cleared", false

	case ":sessions":
		ids, err := r.manager.List()
		if err != nil {
			return fmt.Sprintf("Error: %v", err), false
		}
		return strings.Join(ids, "\n"), false

	case ":session":
		if len(fields) != 2 {
			return "usage: :session NAME|new", false
		}
		r.session = fields[1]
		if r.session == "new" {
			r.session = store.NewSessionID()
		}
		r.logger.Debug("switched session", "session", r.session)
		return "session " + r.session, false
	}
	return fmt.Sprintf("unknown command %s", fields[0]), false
}

// runBasic handles non-TTY input (piped input)
func (r *repl) runBasic(in *bufio.Reader, prompt bool) {
	for {
		if prompt {
			fmt.Fprint(r.out, ">>> ")
		}

		line, err := in.ReadString('\n')
		if line != "" {
			out, quit := r.handle(strings.TrimRight(line, "\r\n"))
			if out != "" {
				fmt.Fprintln(r.out, out)
			}
			if quit {
				return
			}
		}
		if err != nil {
			if prompt {
				fmt.Fprintln(r.out)
			}
			return
		}
	}
}

// runRaw handles TTY input with Alt+key support
func (r *repl) runRaw() {
	fd := int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set raw mode: %v\n", err)
		r.runBasic(bufio.NewReader(os.Stdin), true)
		return
	}
	defer term.Restore(fd, oldState)

	for {
		fmt.Fprint(r.out, ">>> ")

		line, eof := readLineRaw(os.Stdin, r.out)
		if eof {
			fmt.Fprint(r.out, "\r\n")
			return
		}

		out, quit := r.handle(line)
		if out != "" {
			// Replace newlines with \r\n for raw mode display
			fmt.Fprint(r.out, strings.ReplaceAll(out, "\n", "\r\n")+"\r\n")
		}
		if quit {
			return
		}
	}
}

// readLineRaw reads a line in raw mode with Alt+key support
// Returns the line and whether EOF was encountered
func readLineRaw(in io.Reader, out io.Writer) (string, bool) {
	var line []rune
	cursor := 0
	buf := make([]byte, 1)

	redrawFromCursor := func() {
		fmt.Fprint(out, "\x1b[K")
		fmt.Fprint(out, string(line[cursor:]))
		if cursor < len(line) {
			fmt.Fprintf(out, "\x1b[%dD", len(line)-cursor)
		}
	}
	insert := func(runes []rune) {
		newLine := make([]rune, 0, len(line)+len(runes))
		newLine = append(newLine, line[:cursor]...)
		newLine = append(newLine, runes...)
		newLine = append(newLine, line[cursor:]...)
		line = newLine
		cursor += len(runes)
		fmt.Fprint(out, string(runes))
		if cursor < len(line) {
			redrawFromCursor()
		}
	}

	for {
		n, err := in.Read(buf)
		if err != nil || n == 0 {
			return string(line), true
		}

		b := buf[0]

		switch b {
		case 0x04: // Ctrl+D
			if len(line) == 0 {
				return "", true
			}
			if cursor < len(line) {
				line = append(line[:cursor], line[cursor+1:]...)
				redrawFromCursor()
			}

		case 0x03: // Ctrl+C
			fmt.Fprint(out, "^C\r\n")
			return "", false

		case 0x0d, 0x0a: // Enter (CR or LF)
			fmt.Fprint(out, "\r\n")
			return string(line), false

		case 0x7f, 0x08: // Backspace (DEL or BS)
			if cursor > 0 {
				cursor--
				line = append(line[:cursor], line[cursor+1:]...)
				fmt.Fprint(out, "\b")
				redrawFromCursor()
			}

		case 0x1b: // ESC - could be Alt+key or arrow key sequence
			next := make([]byte, 1)
			if n, err := in.Read(next); err != nil || n == 0 {
				continue
			}

			if next[0] != '[' {
				if op, ok := altKeyMappings[next[0]]; ok {
					insert([]rune(op))
				}
				continue
			}

			arrow := make([]byte, 1)
			if n, err := in.Read(arrow); err != nil || n == 0 {
				continue
			}
			switch arrow[0] {
			case 'C': // Right arrow
				if cursor < len(line) {
					cursor++
					fmt.Fprint(out, "\x1b[C")
				}
			case 'D': // Left arrow
				if cursor > 0 {
					cursor--
					fmt.Fprint(out, "\x1b[D")
				}
			}

		case 0x01: // Ctrl+A - beginning of line
			if cursor > 0 {
				fmt.Fprintf(out, "\x1b[%dD", cursor)
				cursor = 0
			}

		case 0x05: // Ctrl+E - end of line
			if cursor < len(line) {
				fmt.Fprintf(out, "\x1b[%dC", len(line)-cursor)
				cursor = len(line)
			}

		case 0x15: // Ctrl+U - kill to beginning of line
			if cursor > 0 {
				fmt.Fprintf(out, "\x1b[%dD", cursor)
				line = line[cursor:]
				cursor = 0
				redrawFromCursor()
			}

		default:
			if b >= 0x20 && b < 0x7f {
				insert([]rune{rune(b)})
			}
		}
	}
}
