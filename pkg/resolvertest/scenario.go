// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

package resolvertest

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/jllopis/resolver/pkg/resolver"
)

// Resolver is the part of a pipeline a scenario drives.
type Resolver[I, O any] interface {
	Resolve(ctx context.Context, input I) (O, error)
}

// Scenario describes one resolution and what is expected from it.
type Scenario[I, O any] struct {
	name         string
	input        I
	context      context.Context
	timeout      time.Duration
	events       *EventCollector
	expectations []Expectation[O]
}

// Expectation defines a condition to verify after running a scenario.
type Expectation[O any] interface {
	// Check verifies the expectation against the result.
	Check(result *ScenarioResult[O]) error
	// Description returns a human-readable description of the expectation.
	Description() string
}

// ScenarioResult contains the outcome of running a scenario.
type ScenarioResult[O any] struct {
	Output   O
	Error    error
	Events   []resolver.Event
	Duration time.Duration
}

// NewScenario creates a new scenario with the given name.
func NewScenario[I, O any](name string) *Scenario[I, O] {
	return &Scenario[I, O]{
		name:    name,
		context: context.Background(),
		timeout: 5 * time.Second,
	}
}

// WithInput sets the value passed to Resolve.
func (s *Scenario[I, O]) WithInput(input I) *Scenario[I, O] {
	s.input = input
	return s
}

// WithContext sets the base context.
func (s *Scenario[I, O]) WithContext(ctx context.Context) *Scenario[I, O] {
	s.context = ctx
	return s
}

// WithTimeout bounds the context handed to Resolve.
func (s *Scenario[I, O]) WithTimeout(d time.Duration) *Scenario[I, O] {
	s.timeout = d
	return s
}

// WithEvents captures the events the collector receives during the run.
// The collector must be installed on the pipeline with resolver.WithSink.
func (s *Scenario[I, O]) WithEvents(c *EventCollector) *Scenario[I, O] {
	s.events = c
	return s
}

// Expect adds a custom expectation.
func (s *Scenario[I, O]) Expect(exp Expectation[O]) *Scenario[I, O] {
	s.expectations = append(s.expectations, exp)
	return s
}

// ExpectOutput expects Resolve to return want, compared with go-cmp.
func (s *Scenario[I, O]) ExpectOutput(want O, opts ...cmp.Option) *Scenario[I, O] {
	return s.Expect(&outputExpectation[O]{want: want, opts: opts})
}

// ExpectNoError expects Resolve to succeed.
func (s *Scenario[I, O]) ExpectNoError() *Scenario[I, O] {
	return s.Expect(&noErrorExpectation[O]{})
}

// ExpectError expects an error whose message matches.
func (s *Scenario[I, O]) ExpectError(matcher StringMatcher) *Scenario[I, O] {
	return s.Expect(&errorExpectation[O]{matcher: matcher})
}

// ExpectResolutionFailure expects a *resolver.ResolutionError from phase
// naming exactly the given contributors, in order.
func (s *Scenario[I, O]) ExpectResolutionFailure(phase resolver.State, contributors ...string) *Scenario[I, O] {
	return s.Expect(&resolutionFailureExpectation[O]{phase: phase, contributors: contributors})
}

// ExpectEvent expects at least one event of the given type.
func (s *Scenario[I, O]) ExpectEvent(eventType resolver.EventType) *Scenario[I, O] {
	return s.Expect(&eventExpectation[O]{eventType: eventType})
}

// Run resolves the scenario input with r.
func (s *Scenario[I, O]) Run(t *testing.T, r Resolver[I, O]) *ScenarioResult[O] {
	t.Helper()

	if s.events != nil {
		s.events.Reset()
	}

	ctx, cancel := context.WithTimeout(s.context, s.timeout)
	defer cancel()

	start := time.Now()
	output, err := r.Resolve(ctx, s.input)
	result := &ScenarioResult[O]{
		Output:   output,
		Error:    err,
		Duration: time.Since(start),
	}
	if s.events != nil {
		result.Events = s.events.Events()
	}
	return result
}

// Assert checks all expectations against result and reports failures to
// the test.
func (s *Scenario[I, O]) Assert(t *testing.T, result *ScenarioResult[O]) {
	t.Helper()

	for _, exp := range s.expectations {
		if err := exp.Check(result); err != nil {
			t.Errorf("scenario %q: expectation %q failed: %v", s.name, exp.Description(), err)
		}
	}
}

// StringMatcher defines how to match strings in expectations.
type StringMatcher interface {
	Match(s string) bool
	Description() string
}

// Contains returns a matcher that checks if the string contains the substring.
func Contains(substr string) StringMatcher {
	return &containsMatcher{substr: substr}
}

// Equals returns a matcher that checks exact string equality.
func Equals(expected string) StringMatcher {
	return &equalsMatcher{expected: expected}
}

// Regex returns a matcher that checks against a regular expression.
func Regex(pattern string) StringMatcher {
	return &regexMatcher{pattern: pattern}
}

type containsMatcher struct {
	substr string
}

func (m *containsMatcher) Match(s string) bool {
	return strings.Contains(s, m.substr)
}

func (m *containsMatcher) Description() string {
	return fmt.Sprintf("contains %q", m.substr)
}

type equalsMatcher struct {
	expected string
}

func (m *equalsMatcher) Match(s string) bool {
	return s == m.expected
}

func (m *equalsMatcher) Description() string {
	return fmt.Sprintf("equals %q", m.expected)
}

type regexMatcher struct {
	pattern string
}

func (m *regexMatcher) Match(s string) bool {
	re, err := regexp.Compile(m.pattern)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

func (m *regexMatcher) Description() string {
	return fmt.Sprintf("matches /%s/", m.pattern)
}

type outputExpectation[O any] struct {
	want O
	opts []cmp.Option
}

func (e *outputExpectation[O]) Check(r *ScenarioResult[O]) error {
	if diff := cmp.Diff(e.want, r.Output, e.opts...); diff != "" {
		return fmt.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	return nil
}

func (e *outputExpectation[O]) Description() string {
	return "output equals"
}

type noErrorExpectation[O any] struct{}

func (e *noErrorExpectation[O]) Check(r *ScenarioResult[O]) error {
	if r.Error != nil {
		return fmt.Errorf("unexpected error: %v", r.Error)
	}
	return nil
}

func (e *noErrorExpectation[O]) Description() string {
	return "no error"
}

type errorExpectation[O any] struct {
	matcher StringMatcher
}

func (e *errorExpectation[O]) Check(r *ScenarioResult[O]) error {
	if r.Error == nil {
		return fmt.Errorf("expected error matching %s, got nil", e.matcher.Description())
	}
	if !e.matcher.Match(r.Error.Error()) {
		return fmt.Errorf("error %q does not match: %s", r.Error.Error(), e.matcher.Description())
	}
	return nil
}

func (e *errorExpectation[O]) Description() string {
	return fmt.Sprintf("error %s", e.matcher.Description())
}

type resolutionFailureExpectation[O any] struct {
	phase        resolver.State
	contributors []string
}

func (e *resolutionFailureExpectation[O]) Check(r *ScenarioResult[O]) error {
	var rerr *resolver.ResolutionError
	if !errors.As(r.Error, &rerr) {
		return fmt.Errorf("expected *resolver.ResolutionError, got %v", r.Error)
	}
	if rerr.Phase != e.phase {
		return fmt.Errorf("expected phase %s, got %s", e.phase, rerr.Phase)
	}
	if got := rerr.Contributors(); !slices.Equal(got, e.contributors) {
		return fmt.Errorf("expected failing contributors %v, got %v", e.contributors, got)
	}
	return nil
}

func (e *resolutionFailureExpectation[O]) Description() string {
	return fmt.Sprintf("resolution failure in %s", e.phase)
}

type eventExpectation[O any] struct {
	eventType resolver.EventType
}

func (e *eventExpectation[O]) Check(r *ScenarioResult[O]) error {
	for _, ev := range r.Events {
		if ev.Type == e.eventType {
			return nil
		}
	}
	return fmt.Errorf("event %s not emitted", e.eventType)
}

func (e *eventExpectation[O]) Description() string {
	return fmt.Sprintf("event %s", e.eventType)
}
