package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add      func(AddArgs) (Result, error)
	Time     func(TimeArgs) (Result, error)
	Template func(TemplateArgs) (Result, error)
	Prefs    func(PrefsArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "add handler not configured"}
		}
		return handlers.Add(*cmd.Add)
	case TypeTime:
		if handlers.Time == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "time handler not configured"}
		}
		return handlers.Time(*cmd.Time)
	case TypeTemplate:
		if handlers.Template == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "template handler not configured"}
		}
		return handlers.Template(*cmd.Template)
	case TypePrefs:
		if handlers.Prefs == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "prefs handler not configured"}
		}
		return handlers.Prefs(*cmd.Prefs)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

// Run parses input and executes it in one step.
func Run(input string, handlers Handlers) (Result, error) {
	cmd, err := Parse(input)
	if err != nil {
		return Result{}, err
	}
	return Execute(cmd, handlers)
}
