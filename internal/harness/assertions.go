package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/sceneforge/internal/ir"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// evaluate checks every assertion against the result. A replay error that
// no error assertion expects fails the result as well.
func evaluate(assertions []Assertion, result *Result) {
	expectsError := false
	for _, a := range assertions {
		if a.Type == AssertError {
			expectsError = true
		}
		if err := check(a, result); err != nil {
			result.AddError(err.Error())
		}
	}
	if result.Err != nil && !expectsError {
		result.AddError(fmt.Sprintf("unexpected replay error: %v", result.Err))
	}
}

func check(a Assertion, r *Result) error {
	switch a.Type {
	case AssertError:
		return assertError(r, a)
	case AssertShapeCount:
		return assertCount(a, len(documentOf(r).Shapes))
	case AssertTimelineCount:
		return assertCount(a, len(documentOf(r).Timelines))
	case AssertTweenCount:
		return assertCount(a, len(documentOf(r).Tweens))
	case AssertAssetCount:
		return assertCount(a, len(r.Assets))
	case AssertTimelineNames:
		return assertTimelineNames(documentOf(r), a)
	case AssertFrameCount:
		return assertFrameCount(documentOf(r), a)
	}
	return fmt.Errorf("unknown assertion type: %s", a.Type)
}

// documentOf returns the replayed document, or an empty one when the
// replay stopped early.
func documentOf(r *Result) *ir.Document {
	if r.Document == nil {
		return &ir.Document{}
	}
	return r.Document
}

func assertError(r *Result, a Assertion) error {
	got := ErrorCode(r.Err)
	if got == a.Code {
		return nil
	}
	actual := "no error"
	if r.Err != nil {
		actual = fmt.Sprintf("%s (%v)", got, r.Err)
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("replay fails with %s", a.Code),
		Actual:   actual,
	}
}

func assertCount(a Assertion, got int) error {
	if got == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%d", a.Count),
		Actual:   fmt.Sprintf("%d", got),
	}
}

func assertTimelineNames(doc *ir.Document, a Assertion) error {
	names := make([]string, len(doc.Timelines))
	for i, tl := range doc.Timelines {
		names[i] = tl.Name
	}
	if slices.Equal(names, a.Names) {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%v", a.Names),
		Actual:   fmt.Sprintf("%v", names),
	}
}

func assertFrameCount(doc *ir.Document, a Assertion) error {
	for _, tl := range doc.Timelines {
		if tl.Name == a.Timeline {
			if tl.TotalFrames() == a.Count {
				return nil
			}
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d frames on %s", a.Count, a.Timeline),
				Actual:   fmt.Sprintf("%d frames", tl.TotalFrames()),
			}
		}
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("timeline %s", a.Timeline),
		Actual:   "not found",
	}
}
