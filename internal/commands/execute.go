package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add      func(AddArgs) (Result, error)
	Set      func(SetArgs) (Result, error)
	Remove   func(RemoveArgs) (Result, error)
	Preset   func(PresetArgs) (Result, error)
	Magic    func(MagicArgs) (Result, error)
	Clock    func(ClockArgs) (Result, error)
	Defaults func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeSet:
		if handlers.Set == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Set(*cmd.Set)
	case TypeRemove:
		if handlers.Remove == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Remove(*cmd.Remove)
	case TypePreset:
		if handlers.Preset == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Preset(*cmd.Preset)
	case TypeMagic:
		if handlers.Magic == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Magic(*cmd.Magic)
	case TypeClock:
		if handlers.Clock == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Clock(*cmd.Clock)
	case TypeDefaults:
		if handlers.Defaults == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Defaults()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
