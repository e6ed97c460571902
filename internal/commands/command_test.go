package commands

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add Taekwondo 16:30-17:30 tue,thu", TypeAdd},
		{"set 2 title=Karate", TypeSet},
		{"edit 2 days=daily", TypeSet},
		{"remove Bath & Stories", TypeRemove},
		{"rm 3", TypeRemove},
		{"preset save School week", TypePreset},
		{"magic off", TypeMagic},
		{"magic", TypeMagic},
		{"clock minimal", TypeClock},
		{"/defaults", TypeDefaults},
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

func TestParseAdd(t *testing.T) {
	cmd, err := Parse("add Quiet Reading 13:00-13:45 sat sun icon:📚 color:#10B981")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	a := cmd.Add
	if a.Title != "Quiet Reading" || a.StartTime != "13:00" || a.EndTime != "13:45" {
		t.Fatalf("unexpected add args: %+v", a)
	}
	if !reflect.DeepEqual(a.Days, []time.Weekday{time.Sunday, time.Saturday}) {
		t.Fatalf("unexpected days: %v", a.Days)
	}
	if a.Icon != "📚" || a.Color != "#10B981" {
		t.Fatalf("unexpected presentation: %+v", a)
	}

	cmd, err = Parse("add Bedtime 20:30-07:00")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(cmd.Add.Days) != 5 || cmd.Add.Days[0] != time.Monday {
		t.Fatalf("expected weekday default, got %v", cmd.Add.Days)
	}
}

func TestParseAddRejectsBadInput(t *testing.T) {
	for _, in := range []string{
		"add",
		"add Lunch",
		"add 12:00-13:00",
		"add Lunch 12:00-25:00",
		"add Lunch 12:00-13:00 someday",
	} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseSet(t *testing.T) {
	cmd, err := Parse("set bedtime title=Lights Out time=20:00-06:30 days=weekdays icon=🌙")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	s := cmd.Set
	if s.Ref != "bedtime" || *s.Title != "Lights Out" || *s.StartTime != "20:00" || *s.EndTime != "06:30" || *s.Icon != "🌙" {
		t.Fatalf("unexpected set args: %+v", s)
	}
	if !s.DaysSet || len(s.Days) != 5 || s.Color != nil {
		t.Fatalf("unexpected days/color: %+v", s)
	}

	cmd, err = Parse("set 1 end=08:15")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Set.StartTime != nil || *cmd.Set.EndTime != "08:15" {
		t.Fatalf("unexpected clock fields: %+v", cmd.Set)
	}

	for _, in := range []string{"set 1", "set 1 nonsense", "set 1 mood=happy", "set 1 start=8:00", "set 1 title="} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("parse %q: expected error", in)
		}
	}
}

func TestParsePresetAndToggles(t *testing.T) {
	cmd, err := Parse("preset load Summer holidays")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Preset.Action != PresetLoad || cmd.Preset.Arg != "Summer holidays" {
		t.Fatalf("unexpected preset args: %+v", cmd.Preset)
	}
	if _, err := Parse("preset archive x"); err == nil {
		t.Fatal("expected error for unknown preset action")
	}
	cmd, err = Parse("preset rename 2 Term time")
	if err != nil {
		t.Fatalf("parse rename failed: %v", err)
	}
	if cmd.Preset.Action != PresetRename || cmd.Preset.Arg != "2" || cmd.Preset.Name != "Term time" {
		t.Fatalf("unexpected rename args: %+v", cmd.Preset)
	}
	if _, err := Parse("preset rename 2"); err == nil {
		t.Fatal("expected error for rename without a new name")
	}
	if _, err := Parse("magic maybe"); err == nil {
		t.Fatal("expected error for unknown magic mode")
	}
	if cmd, _ := Parse("magic"); cmd.Magic.Mode != ToggleFlip {
		t.Fatalf("expected toggle default, got %+v", cmd.Magic)
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}

	_, err = Parse(" / ")
	if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
		t.Fatalf("expected empty input error, got %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/remove 3")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Remove: func(a RemoveArgs) (Result, error) {
			called = true
			if a.Ref != "3" {
				t.Fatalf("unexpected ref: %q", a.Ref)
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
	cmd, err := Parse("defaults")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
