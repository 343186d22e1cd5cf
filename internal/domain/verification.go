package domain

import "time"

// VerificationStatus is the outcome of a moderator review.
type VerificationStatus string

const (
	VerificationApproved          VerificationStatus = "approved"
	VerificationApprovedWithNotes VerificationStatus = "approved_with_notes"
	VerificationRejected          VerificationStatus = "rejected"
)

// Automated checks run before a moderator's scores are counted.
const (
	CheckVideoQuality       = "videoQuality"
	CheckExerciseForm       = "exerciseForm"
	CheckInstructionClarity = "instructionClarity"
	CheckSafetyGuidelines   = "safetyGuidelines"
)

// VerificationRequest is a moderator's review of a plan. AutoChecksPassed
// defaults to true when omitted.
type VerificationRequest struct {
	VerifiedBy        string `json:"verified_by" binding:"required"`
	VerificationNotes string `json:"verification_notes,omitempty"`
	AutoChecksPassed  *bool  `json:"auto_checks_passed,omitempty"`
}

// ChecksPassed reports the automated check result, treating an omitted value as passed.
func (r VerificationRequest) ChecksPassed() bool {
	return r.AutoChecksPassed == nil || *r.AutoChecksPassed
}

type VerificationDetails struct {
	SafetyScore       int             `json:"safety_score"`  // 0-100
	QualityScore      int             `json:"quality_score"` // 0-100
	OverallScore      int             `json:"overall_score"`
	Checks            map[string]bool `json:"checks"`
	VerificationNotes string          `json:"verification_notes"`
}

type VerificationResult struct {
	WorkoutID          string              `json:"workout_id"`
	IsVerified         bool                `json:"is_verified"`
	VerificationStatus VerificationStatus  `json:"verification_status"`
	VerifiedBy         string              `json:"verified_by"`
	VerifiedAt         time.Time           `json:"verified_at"`
	Details            VerificationDetails `json:"verification_details"`
	NextSteps          []string            `json:"next_steps"`
}
