// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

package resolvertest

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jllopis/resolver/pkg/resolver"
)

// RequireNoError fails the test immediately if err is not nil.
func RequireNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", msg, err)
	}
}

// RequireResolutionError fails the test immediately unless err is a
// *resolver.ResolutionError, and returns it.
func RequireResolutionError(t *testing.T, err error) *resolver.ResolutionError {
	t.Helper()
	var rerr *resolver.ResolutionError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *resolver.ResolutionError, got %T: %v", err, err)
	}
	return rerr
}

// AssertErrorContains asserts that the error message contains every substring.
func AssertErrorContains(t *testing.T, err error, substrs ...string) {
	t.Helper()
	if err == nil {
		t.Errorf("expected error containing %q, got nil", substrs)
		return
	}
	for _, s := range substrs {
		if !strings.Contains(err.Error(), s) {
			t.Errorf("error %q does not contain %q", err.Error(), s)
		}
	}
}

// AssertJournal asserts the journal holds exactly want, in order.
func AssertJournal(t *testing.T, j *Journal, want ...string) {
	t.Helper()
	if diff := cmp.Diff(want, j.Entries()); diff != "" {
		t.Errorf("journal mismatch (-want +got):\n%s", diff)
	}
}

// Contributors returns the contributor names of outcomes in order.
func Contributors(outcomes []resolver.Outcome) []string {
	out := make([]string, len(outcomes))
	for i, o := range outcomes {
		out[i] = o.Contributor
	}
	return out
}
