package models

import (
	"testing"
)

func TestCaseStatusSetIsClosed(t *testing.T) {
	valid := []CaseStatus{
		StatusIntake, StatusInProgress, StatusWaitingClient,
		StatusWaitingGovernment, StatusReview, StatusApproved,
		StatusCompleted, StatusRejected, StatusCancelled,
	}
	for _, s := range valid {
		if !IsValidCaseStatus(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}

	invalid := []CaseStatus{"", "open", "closed", "INTAKE", "in-progress", "pending"}
	for _, s := range invalid {
		if IsValidCaseStatus(s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	terminals := []CaseStatus{StatusCompleted, StatusRejected, StatusCancelled}
	for _, s := range terminals {
		if !IsTerminalCaseStatus(s) {
			t.Errorf("expected %q to be terminal", s)
		}
		if IsActiveCaseStatus(s) {
			t.Errorf("expected %q not to be active", s)
		}
	}

	for _, s := range []CaseStatus{StatusIntake, StatusWaitingClient, StatusApproved} {
		if IsTerminalCaseStatus(s) {
			t.Errorf("expected %q to be non-terminal", s)
		}
	}
}

func TestComputeCaseProgressHappyPath(t *testing.T) {
	tests := []struct {
		status    CaseStatus
		completed int
	}{
		{StatusIntake, 0},
		{StatusInProgress, 1},
		{StatusWaitingClient, 2},
		{StatusWaitingGovernment, 3},
		{StatusReview, 4},
		{StatusApproved, 5},
		{StatusCompleted, 6},
	}

	for _, tt := range tests {
		progress := ComputeCaseProgress(tt.status)

		if progress.CompletedSteps != tt.completed {
			t.Errorf("%s: got %d completed steps, want %d",
				tt.status, progress.CompletedSteps, tt.completed)
		}
		if progress.TotalSteps != len(CaseStatusOrder) {
			t.Errorf("%s: got %d total steps, want %d",
				tt.status, progress.TotalSteps, len(CaseStatusOrder))
		}
		if progress.Interrupted {
			t.Errorf("%s: happy-path status must not be interrupted", tt.status)
		}

		if progress.Steps[tt.completed].State != StepCurrent {
			t.Errorf("%s: step %d should be current, got %s",
				tt.status, tt.completed, progress.Steps[tt.completed].State)
		}
	}
}

func TestComputeCaseProgressWaitingClientRequiresAction(t *testing.T) {
	progress := ComputeCaseProgress(StatusWaitingClient)
	if !progress.ActionRequired {
		t.Error("waiting_client must set the action-required flag")
	}

	for _, s := range []CaseStatus{StatusIntake, StatusReview, StatusCompleted, StatusRejected} {
		if ComputeCaseProgress(s).ActionRequired {
			t.Errorf("%s must not set the action-required flag", s)
		}
	}
}

func TestComputeCaseProgressInterruptedStatuses(t *testing.T) {
	for _, s := range []CaseStatus{StatusRejected, StatusCancelled} {
		progress := ComputeCaseProgress(s)

		if !progress.Interrupted {
			t.Errorf("%s: expected interrupted", s)
		}
		if progress.CompletedSteps != 0 {
			t.Errorf("%s: interrupted timeline must show zero completed steps, got %d",
				s, progress.CompletedSteps)
		}
		for _, step := range progress.Steps {
			if step.State != StepPending {
				t.Errorf("%s: step %s should be pending, got %s", s, step.Status, step.State)
			}
		}
	}

	if !ComputeCaseProgress(StatusRejected).RejectedNotice {
		t.Error("rejected must set the rejection notice")
	}
	if ComputeCaseProgress(StatusCancelled).RejectedNotice {
		t.Error("cancelled must not set the rejection notice")
	}
}

func TestRequestableCaseTypesExcludeBibob(t *testing.T) {
	if IsRequestableCaseType(CaseBibob) {
		t.Error("bibob screenings must not be client-requestable")
	}
	for _, ct := range RequestableCaseTypes {
		if !IsValidCaseType(ct) {
			t.Errorf("requestable type %q is not a valid case type", ct)
		}
	}
}
