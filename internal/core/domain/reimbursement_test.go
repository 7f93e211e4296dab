package domain

import (
	"testing"
	"time"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to ReimbursementStatus
		want     bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusDenied, true},
		{StatusApproved, StatusDenied, false},
		{StatusApproved, StatusPending, false},
		{StatusDenied, StatusApproved, false},
		{StatusNone, StatusApproved, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestTypeFromString(t *testing.T) {
	cases := []struct {
		in   string
		want ReimbursementType
	}{
		{"lodging", TypeLodging},
		{"TRAVEL", TypeTravel},
		{" food ", TypeFood},
		{"Other", TypeOther},
		{"BOGUS", TypeNone},
		{"", TypeNone},
	}
	for _, tc := range cases {
		if got := TypeFromString(tc.in); got != tc.want {
			t.Errorf("TypeFromString(%q): expected %s, got %s", tc.in, tc.want, got)
		}
	}
}

func TestNewReimbursementRequest_InitialState(t *testing.T) {
	now := time.Now().UTC()
	r := NewReimbursementRequest(7, 1299, TypeFood, "team lunch", now)

	if r.ID != NullID {
		t.Errorf("unsaved claim must carry NullID, got %d", r.ID)
	}
	if r.Status != StatusPending {
		t.Errorf("new claim must be pending, got %s", r.Status)
	}
	if r.ResolverID != NullID {
		t.Errorf("new claim must have no resolver, got %d", r.ResolverID)
	}
	if r.ResolvedAt != nil {
		t.Error("new claim must have no resolution timestamp")
	}
	if !r.SubmittedAt.Equal(now) {
		t.Errorf("submission timestamp mismatch: %v", r.SubmittedAt)
	}
}
