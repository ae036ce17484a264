package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a recorded event stream with the assertions that should
// hold after replaying it.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario exercises.
	Description string `yaml:"description,omitempty"`

	// Tweens overrides tween extraction for the replay when set.
	Tweens *bool `yaml:"tweens,omitempty"`

	// Events is the stream in walker order.
	Events []Event `yaml:"events"`

	// Assertions validate the replay outcome.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Assertion validates the outcome of a replay.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Code is the expected error code (used by error).
	Code string `yaml:"code,omitempty"`

	// Timeline names the timeline (used by frame_count).
	Timeline string `yaml:"timeline,omitempty"`

	// Count is the expected size (used by the *_count assertions).
	Count int `yaml:"count,omitempty"`

	// Names is the expected timeline name order (used by timeline_names).
	Names []string `yaml:"names,omitempty"`
}

// Assertion type constants.
const (
	AssertError         = "error"
	AssertShapeCount    = "shape_count"
	AssertTimelineCount = "timeline_count"
	AssertTweenCount    = "tween_count"
	AssertTimelineNames = "timeline_names"
	AssertFrameCount    = "frame_count"
	AssertAssetCount    = "asset_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or names unknown events.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	s, err := ParseScenario(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScenario decodes a scenario from r with strict field validation.
func ParseScenario(r io.Reader) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: empty document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if len(s.Events) == 0 {
		return fmt.Errorf("events list is required and must be non-empty")
	}

	for i, e := range s.Events {
		if err := validateEvent(e); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertion %d: %w", i, err)
		}
	}
	return nil
}

func validateEvent(e Event) error {
	if e.Event == "" {
		return fmt.Errorf("event is required")
	}
	if _, ok := handlers[e.Event]; !ok {
		return fmt.Errorf("unknown event %q", e.Event)
	}
	switch e.Event {
	case EventPlace:
		if !e.Kind.Valid() {
			return fmt.Errorf("%s: unknown kind %q", e.Event, e.Kind)
		}
	case EventUpdateVisibility:
		if e.Visible == nil {
			return fmt.Errorf("%s: visible is required", e.Event)
		}
	case EventStartText:
		if e.Behaviour != nil {
			switch e.Behaviour.Type {
			case BehaviourStatic, BehaviourDynamic, BehaviourInput:
			default:
				return fmt.Errorf("%s: unknown behaviour %q", e.Event, e.Behaviour.Type)
			}
		}
	}
	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertError:
		if a.Code == "" {
			return fmt.Errorf("%s assertion requires 'code' field", a.Type)
		}
	case AssertShapeCount, AssertTimelineCount, AssertTweenCount, AssertAssetCount:
		if a.Count < 0 {
			return fmt.Errorf("%s assertion requires a non-negative 'count'", a.Type)
		}
	case AssertTimelineNames:
		if len(a.Names) == 0 {
			return fmt.Errorf("%s assertion requires 'names' field", a.Type)
		}
	case AssertFrameCount:
		if a.Timeline == "" {
			return fmt.Errorf("%s assertion requires 'timeline' field", a.Type)
		}
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
