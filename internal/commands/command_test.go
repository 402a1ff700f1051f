package commands

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/focusdeck/internal/model"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add session", TypeAdd},
		{"add b 2 10", TypeAdd},
		{"time 12:30", TypeTime},
		{"/template apply Deep Work", TypeTemplate},
		{"tpl list", TypeTemplate},
		{"prefs goal 6", TypePrefs},
		{"set sound off", TypePrefs},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddArguments(t *testing.T) {
	cmd, err := Parse("add break 3 10")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if *cmd.Add != (AddArgs{Type: model.CardTypeBreak, Position: 3, Minutes: 10}) {
		t.Fatalf("unexpected add args: %+v", *cmd.Add)
	}
	cmd, err = Parse("add focus")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if *cmd.Add != (AddArgs{Type: model.CardTypeSession}) {
		t.Fatalf("unexpected add args: %+v", *cmd.Add)
	}
}

func TestParseTemplateKeepsNameSpacing(t *testing.T) {
	cmd, err := Parse("template save  Morning   block ")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Template.Action != TemplateSave || cmd.Template.Name != "Morning block" {
		t.Fatalf("unexpected template args: %+v", *cmd.Template)
	}
}

func TestParsePrefs(t *testing.T) {
	cmd, err := Parse("prefs advance off")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Prefs.Key != PrefAdvance || cmd.Prefs.Bool {
		t.Fatalf("unexpected prefs args: %+v", *cmd.Prefs)
	}
	cmd, err = Parse("prefs goal 0")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Prefs.Key != PrefGoal || cmd.Prefs.Int != 0 {
		t.Fatalf("unexpected prefs args: %+v", *cmd.Prefs)
	}
}

func TestParseInvalidArguments(t *testing.T) {
	inputs := []string{
		"add",
		"add nap",
		"add session 0",
		"add session 1 -5",
		"add session 1 5 extra",
		"time",
		"time soon",
		"time 1:75",
		"template",
		"template apply",
		"template rename x",
		"prefs session 0",
		"prefs sound maybe",
		"prefs colour blue",
	}
	for _, in := range inputs {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseEmptyAndUnknown(t *testing.T) {
	for _, in := range []string{"", "  ", "/"} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
			t.Fatalf("parse %q: expected empty input error, got %v", in, err)
		}
	}
	_, err := Parse("/unknown do x")
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"25", 1500},
		{"0", 0},
		{"12:30", 750},
		{"90:00", 5400},
		{"1:05:09", 3909},
		{"90s", 90},
		{"1h5m", 3900},
		{"1500ms", 1},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if err != nil {
			t.Fatalf("parse clock %q: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("parse clock %q = %d, want %d", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "-3", "1:2:3:4", "a:00", "-1m"} {
		if _, err := ParseClock(bad); err == nil {
			t.Fatalf("parse clock %q: expected error", bad)
		}
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[int]string{0: "00:00", 59: "00:59", 1500: "25:00", 3909: "1:05:09", -4: "00:00"}
	for in, want := range cases {
		if got := FormatClock(in); got != want {
			t.Fatalf("format %d = %q, want %q", in, got, want)
		}
	}
}

func TestExecuteDispatch(t *testing.T) {
	called := false
	res, err := Run("/time 5", Handlers{
		Time: func(a TimeArgs) (Result, error) {
			called = true
			if a.Seconds != 300 {
				t.Fatalf("unexpected seconds: %d", a.Seconds)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	for _, in := range []string{"add session", "time 1", "template list", "prefs goal 2"} {
		_, err := Run(in, Handlers{})
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
			t.Fatalf("run %q: expected missing handler error, got %v", in, err)
		}
	}
}
