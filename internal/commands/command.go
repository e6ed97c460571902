package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/playroom/internal/model"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeSet      Type = "set"
	TypeRemove   Type = "remove"
	TypePreset   Type = "preset"
	TypeMagic    Type = "magic"
	TypeClock    Type = "clock"
	TypeDefaults Type = "defaults"
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

type AddArgs struct {
	Title     string
	StartTime string
	EndTime   string
	Days      []time.Weekday
	Icon      string
	Color     string
}

// SetArgs carries only the fields named in the command; nil means unchanged.
type SetArgs struct {
	Ref       string
	Title     *string
	StartTime *string
	EndTime   *string
	Days      []time.Weekday
	DaysSet   bool
	Icon      *string
	Color     *string
}

type RemoveArgs struct {
	Ref string
}

type PresetAction string

const (
	PresetSave   PresetAction = "save"
	PresetLoad   PresetAction = "load"
	PresetDelete PresetAction = "delete"
	PresetRename PresetAction = "rename"
)

type PresetArgs struct {
	Action PresetAction
	Arg    string // name for save, reference otherwise
	Name   string // new name for rename
}

type Toggle string

const (
	ToggleOn   Toggle = "on"
	ToggleOff  Toggle = "off"
	ToggleFlip Toggle = "toggle"
)

type MagicArgs struct {
	Mode Toggle
}

type ClockArgs struct {
	Mode string // full, minimal or toggle
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Set    *SetArgs
	Remove *RemoveArgs
	Preset *PresetArgs
	Magic  *MagicArgs
	Clock  *ClockArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
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
	case TypeSet, "edit":
		return parseSet(input, args)
	case TypeRemove, "rm", "delete":
		return parseRemove(input, args)
	case TypePreset:
		return parsePreset(input, args)
	case TypeMagic:
		return parseMagic(input, args)
	case TypeClock:
		return parseClock(input, args)
	case TypeDefaults:
		return Command{Type: TypeDefaults, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd reads "add <title...> <HH:MM-HH:MM> [days...] [icon:X] [color:#hex]".
func parseAdd(raw string, args []string) (Command, error) {
	at := -1
	for i, arg := range args {
		if strings.Count(arg, "-") == 1 && strings.Contains(arg, ":") {
			at = i
			break
		}
	}
	if at < 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a time range like 16:30-17:30"}
	}
	title := strings.TrimSpace(strings.Join(args[:at], " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	start, end, err := parseRange(args[at])
	if err != nil {
		return Command{}, err
	}

	out := AddArgs{Title: title, StartTime: start, EndTime: end, Days: append([]time.Weekday(nil), model.Weekdays...)}
	var dayTokens []string
	for _, arg := range args[at+1:] {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, "icon:"):
			out.Icon = arg[len("icon:"):]
		case strings.HasPrefix(lower, "color:"):
			out.Color = arg[len("color:"):]
		default:
			dayTokens = append(dayTokens, arg)
		}
	}
	if len(dayTokens) > 0 {
		days, err := parseDays(strings.Join(dayTokens, ","))
		if err != nil {
			return Command{}, err
		}
		out.Days = days
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

// parseSet reads "set <ref> key=value...". A value runs until the next key.
func parseSet(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "set requires a reference and at least one key=value"}
	}
	out := SetArgs{Ref: args[0]}

	type pair struct{ key, value string }
	var pairs []pair
	for _, arg := range args[1:] {
		if key, value, ok := strings.Cut(arg, "="); ok {
			pairs = append(pairs, pair{key: strings.ToLower(key), value: value})
			continue
		}
		if len(pairs) == 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("expected key=value, got %q", arg)}
		}
		pairs[len(pairs)-1].value += " " + arg
	}

	for _, p := range pairs {
		value := strings.TrimSpace(p.value)
		switch p.key {
		case "title":
			if value == "" {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "title cannot be empty"}
			}
			out.Title = &value
		case "time":
			start, end, err := parseRange(value)
			if err != nil {
				return Command{}, err
			}
			out.StartTime, out.EndTime = &start, &end
		case "start", "end":
			if _, err := model.ParseClock(value); err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
			}
			v := value
			if p.key == "start" {
				out.StartTime = &v
			} else {
				out.EndTime = &v
			}
		case "days":
			days, err := parseDays(value)
			if err != nil {
				return Command{}, err
			}
			out.Days, out.DaysSet = days, true
		case "icon":
			out.Icon = &value
		case "color":
			out.Color = &value
		default:
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown field %q", p.key)}
		}
	}
	return Command{Type: TypeSet, Raw: raw, Set: &out}, nil
}

func parseRemove(raw string, args []string) (Command, error) {
	ref := strings.TrimSpace(strings.Join(args, " "))
	if ref == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "remove requires an event reference"}
	}
	return Command{Type: TypeRemove, Raw: raw, Remove: &RemoveArgs{Ref: ref}}, nil
}

func parsePreset(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "preset requires save|load|delete|rename and a name"}
	}
	action := PresetAction(strings.ToLower(args[0]))
	switch action {
	case PresetSave, PresetLoad, PresetDelete:
	case PresetRename:
		// "preset rename <ref> <new name...>"
		if len(args) < 3 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "preset rename requires a reference and a new name"}
		}
		return Command{Type: TypePreset, Raw: raw, Preset: &PresetArgs{Action: action, Arg: args[1], Name: strings.Join(args[2:], " ")}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown preset action %q", args[0])}
	}
	return Command{Type: TypePreset, Raw: raw, Preset: &PresetArgs{Action: action, Arg: strings.Join(args[1:], " ")}}, nil
}

func parseMagic(raw string, args []string) (Command, error) {
	mode := ToggleFlip
	if len(args) > 0 {
		mode = Toggle(strings.ToLower(args[0]))
	}
	switch mode {
	case ToggleOn, ToggleOff, ToggleFlip:
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "magic accepts on, off or toggle"}
	}
	return Command{Type: TypeMagic, Raw: raw, Magic: &MagicArgs{Mode: mode}}, nil
}

func parseClock(raw string, args []string) (Command, error) {
	mode := "toggle"
	if len(args) > 0 {
		mode = strings.ToLower(args[0])
	}
	switch mode {
	case "full", "minimal", "toggle":
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "clock accepts full, minimal or toggle"}
	}
	return Command{Type: TypeClock, Raw: raw, Clock: &ClockArgs{Mode: mode}}, nil
}

func parseRange(value string) (string, string, error) {
	start, end, ok := strings.Cut(strings.TrimSpace(value), "-")
	if !ok {
		return "", "", &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("time range must be HH:MM-HH:MM, got %q", value)}
	}
	for _, part := range []string{start, end} {
		if _, err := model.ParseClock(part); err != nil {
			return "", "", &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
		}
	}
	return start, end, nil
}

func parseDays(value string) ([]time.Weekday, error) {
	days, err := model.ParseWeekdays(value)
	if err != nil {
		return nil, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
	}
	return days, nil
}
