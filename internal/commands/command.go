// Package commands parses and dispatches command palette input.
package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/focusdeck/internal/model"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeTime     Type = "time"
	TypeTemplate Type = "template"
	TypePrefs    Type = "prefs"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// AddArgs inserts a card. Position is 1-based; zero means after the
// selected card. Minutes zero means the preference default.
type AddArgs struct {
	Type     model.CardType
	Position int
	Minutes  int
}

type TimeArgs struct {
	Seconds int
}

type TemplateAction string

const (
	TemplateApply  TemplateAction = "apply"
	TemplateSave   TemplateAction = "save"
	TemplateDelete TemplateAction = "delete"
	TemplateList   TemplateAction = "list"
)

type TemplateArgs struct {
	Action TemplateAction
	Name   string
}

type PrefKey string

const (
	PrefSession PrefKey = "session"
	PrefBreak   PrefKey = "break"
	PrefGoal    PrefKey = "goal"
	PrefAdvance PrefKey = "advance"
	PrefSound   PrefKey = "sound"
)

// PrefsArgs carries Int for numeric keys and Bool for switches.
type PrefsArgs struct {
	Key  PrefKey
	Int  int
	Bool bool
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Time     *TimeArgs
	Template *TemplateArgs
	Prefs    *PrefsArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeTime:
		return parseTime(input, args)
	case TypeTemplate, "tpl":
		return parseTemplate(input, args)
	case TypePrefs, "set":
		return parsePrefs(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 || len(args) > 3 {
		return Command{}, invalid("usage: add session|break [position] [minutes]")
	}
	typ, err := model.ParseCardType(args[0])
	if err != nil {
		return Command{}, invalid("unknown card type %q", args[0])
	}
	out := AddArgs{Type: typ}
	if len(args) > 1 {
		pos, err := strconv.Atoi(args[1])
		if err != nil || pos <= 0 {
			return Command{}, invalid("position must be a positive number, got %q", args[1])
		}
		out.Position = pos
	}
	if len(args) > 2 {
		minutes, err := strconv.Atoi(args[2])
		if err != nil || minutes <= 0 {
			return Command{}, invalid("minutes must be a positive number, got %q", args[2])
		}
		out.Minutes = minutes
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseTime(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("usage: time <mm:ss|minutes|duration>")
	}
	secs, err := ParseClock(args[0])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeTime, Raw: raw, Time: &TimeArgs{Seconds: secs}}, nil
}

func parseTemplate(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("usage: template apply|save|delete|list [name]")
	}
	action := TemplateAction(strings.ToLower(args[0]))
	name := strings.TrimSpace(strings.Join(args[1:], " "))
	switch action {
	case TemplateList:
	case TemplateApply, TemplateSave, TemplateDelete:
		if name == "" {
			return Command{}, invalid("template %s requires a name", action)
		}
	default:
		return Command{}, invalid("unknown template action %q", args[0])
	}
	return Command{Type: TypeTemplate, Raw: raw, Template: &TemplateArgs{Action: action, Name: name}}, nil
}

func parsePrefs(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, invalid("usage: prefs session|break|goal <n> or prefs advance|sound on|off")
	}
	key := PrefKey(strings.ToLower(args[0]))
	out := PrefsArgs{Key: key}
	switch key {
	case PrefSession, PrefBreak, PrefGoal:
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 || (n == 0 && key != PrefGoal) {
			return Command{}, invalid("%s needs a positive number, got %q", key, args[1])
		}
		out.Int = n
	case PrefAdvance, PrefSound:
		v, ok := parseSwitch(args[1])
		if !ok {
			return Command{}, invalid("%s needs on or off, got %q", key, args[1])
		}
		out.Bool = v
	default:
		return Command{}, invalid("unknown preference %q", args[0])
	}
	return Command{Type: TypePrefs, Raw: raw, Prefs: &out}, nil
}

// ParseClock reads a remaining time as mm:ss, h:mm:ss, a Go duration such as
// 90s or 1h5m, or a bare number of minutes. The result is in whole seconds.
func ParseClock(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, invalid("time is empty")
	}
	if strings.Contains(raw, ":") {
		parts := strings.Split(raw, ":")
		if len(parts) > 3 {
			return 0, invalid("bad clock value %q", raw)
		}
		total := 0
		for i, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil || n < 0 || (i > 0 && n >= 60) {
				return 0, invalid("bad clock value %q", raw)
			}
			total = total*60 + n
		}
		return total, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 0 {
			return 0, invalid("time must not be negative")
		}
		return n * 60, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, invalid("bad time value %q", raw)
	}
	return int(d / time.Second), nil
}

// FormatClock renders seconds as mm:ss, or h:mm:ss from an hour up.
func FormatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	h, m, s := secs/3600, (secs%3600)/60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func parseSwitch(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "on", "true", "yes", "1":
		return true, true
	case "off", "false", "no", "0":
		return false, true
	default:
		return false, false
	}
}
