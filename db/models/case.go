package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaseType carries the Dutch permit vocabulary. These literals are the wire
// contract with the portal frontend and must not be translated.
type CaseType string

const (
	CaseExploitatievergunning CaseType = "exploitatievergunning"
	CaseAlcoholvergunning     CaseType = "alcoholvergunning"
	CaseTerrasvergunning      CaseType = "terrasvergunning"
	CaseBibob                 CaseType = "bibob"
	CaseOvername              CaseType = "overname"
	CaseVerbouwing            CaseType = "verbouwing"
	CaseOther                 CaseType = "other"
)

// AllCaseTypes is the canonical list shared by validation and option lists.
var AllCaseTypes = []CaseType{
	CaseExploitatievergunning,
	CaseAlcoholvergunning,
	CaseTerrasvergunning,
	CaseBibob,
	CaseOvername,
	CaseVerbouwing,
	CaseOther,
}

func IsValidCaseType(t CaseType) bool {
	for _, v := range AllCaseTypes {
		if v == t {
			return true
		}
	}
	return false
}

type CaseStatus string

const (
	StatusIntake            CaseStatus = "intake"
	StatusInProgress        CaseStatus = "in_progress"
	StatusWaitingClient     CaseStatus = "waiting_client"
	StatusWaitingGovernment CaseStatus = "waiting_government"
	StatusReview            CaseStatus = "review"
	StatusApproved          CaseStatus = "approved"
	StatusCompleted         CaseStatus = "completed"
	StatusRejected          CaseStatus = "rejected"
	StatusCancelled         CaseStatus = "cancelled"
)

// CaseStatusOrder is the happy path, in display order. Rejected and cancelled
// sit outside of it as side terminals.
var CaseStatusOrder = []CaseStatus{
	StatusIntake,
	StatusInProgress,
	StatusWaitingClient,
	StatusWaitingGovernment,
	StatusReview,
	StatusApproved,
	StatusCompleted,
}

// IsValidCaseStatus reports membership in the closed nine-value set. Any
// status a client or staff member tries to write is checked against this
// before the write is accepted. Transitions between in-set values are
// deliberately unchecked: staff may move a case to any status.
func IsValidCaseStatus(s CaseStatus) bool {
	switch s {
	case StatusIntake, StatusInProgress, StatusWaitingClient,
		StatusWaitingGovernment, StatusReview, StatusApproved,
		StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

func IsTerminalCaseStatus(s CaseStatus) bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusCancelled
}

func IsActiveCaseStatus(s CaseStatus) bool {
	return !IsTerminalCaseStatus(s)
}

type StepState string

const (
	StepCompleted StepState = "completed"
	StepCurrent   StepState = "current"
	StepPending   StepState = "pending"
)

type ProgressStep struct {
	Status CaseStatus `json:"status"`
	State  StepState  `json:"state"`
}

// CaseProgress drives the client-facing timeline. Interrupted means the case
// ended in rejected or cancelled; no step counts as completed then.
type CaseProgress struct {
	Steps          []ProgressStep `json:"steps"`
	CompletedSteps int            `json:"completed_steps"`
	TotalSteps     int            `json:"total_steps"`
	Interrupted    bool           `json:"interrupted"`
	ActionRequired bool           `json:"action_required"`
	RejectedNotice bool           `json:"rejected_notice"`
}

// ComputeCaseProgress maps a status onto the happy-path timeline. Steps
// strictly before the current status are completed, the current one is
// current, the rest pending.
func ComputeCaseProgress(status CaseStatus) CaseProgress {
	progress := CaseProgress{
		TotalSteps:     len(CaseStatusOrder),
		ActionRequired: status == StatusWaitingClient,
		RejectedNotice: status == StatusRejected,
	}

	if status == StatusRejected || status == StatusCancelled {
		progress.Interrupted = true
		for _, s := range CaseStatusOrder {
			progress.Steps = append(progress.Steps, ProgressStep{Status: s, State: StepPending})
		}
		return progress
	}

	current := -1
	for i, s := range CaseStatusOrder {
		if s == status {
			current = i
			break
		}
	}

	for i, s := range CaseStatusOrder {
		state := StepPending
		switch {
		case i < current:
			state = StepCompleted
			progress.CompletedSteps++
		case i == current:
			state = StepCurrent
		}
		progress.Steps = append(progress.Steps, ProgressStep{Status: s, State: state})
	}
	return progress
}

type CasePriority string

const (
	PriorityLow    CasePriority = "low"
	PriorityNormal CasePriority = "normal"
	PriorityHigh   CasePriority = "high"
	PriorityUrgent CasePriority = "urgent"
)

func IsValidCasePriority(p CasePriority) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Case is a tracked permit matter for one client organization. ClientID is
// immutable after creation.
type Case struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	ClientID    uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`

	CaseType CaseType     `gorm:"type:varchar(30);not null" json:"case_type"`
	Status   CaseStatus   `gorm:"type:varchar(30);not null;default:'intake'" json:"status"`
	Priority CasePriority `gorm:"type:varchar(20);not null;default:'normal'" json:"priority"`

	Deadline            *time.Time `json:"deadline"`
	Municipality        *string    `json:"municipality"`
	GovernmentReference *string    `json:"government_reference"`

	AssignedEmployeeID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_employee_id"`
	AssignedEmployee   *User      `gorm:"foreignKey:AssignedEmployeeID" json:"assigned_employee,omitempty"`

	Client    *ClientOrganization `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Tasks     []Task              `gorm:"foreignKey:CaseID" json:"tasks,omitempty"`
	Documents []Document          `gorm:"foreignKey:CaseID" json:"documents,omitempty"`

	CreatedBy *string        `json:"created_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
