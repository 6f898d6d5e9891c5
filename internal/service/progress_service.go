package service

import (
	"time"

	"academy_backend/internal/config"
	"academy_backend/internal/repository"
	"academy_backend/internal/util"
)

// ProgressService tracks per-user week completion and derives certificate
// eligibility. Percentages always divide by the configured total, never by
// whatever the document happens to contain.
type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	UserRepo     *repository.UserRepository
	TotalWeeks   int
}

func NewProgressService(progressRepo *repository.ProgressRepository, userRepo *repository.UserRepository, cfg *config.CourseConfig) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		UserRepo:     userRepo,
		TotalWeeks:   cfg.TotalWeeks,
	}
}

type ProgressSummary struct {
	CompletedWeeks       []int `json:"completedWeeks"`
	TotalWeeks           int   `json:"totalWeeks"`
	CompletionPercentage int   `json:"completionPercentage"`
	CertificateEligible  bool  `json:"certificateEligible"`
}

func (s *ProgressService) Summary(userID uint) (*ProgressSummary, error) {
	weeks, err := s.ProgressRepo.CompletedWeeks(userID)
	if err != nil {
		return nil, err
	}
	if weeks == nil {
		weeks = []int{}
	}
	return &ProgressSummary{
		CompletedWeeks:       weeks,
		TotalWeeks:           s.TotalWeeks,
		CompletionPercentage: len(weeks) * 100 / s.TotalWeeks,
		CertificateEligible:  len(weeks) == s.TotalWeeks,
	}, nil
}

// Toggle flips the completion state of one week and returns the new state.
func (s *ProgressService) Toggle(userID uint, weekNumber int) (bool, error) {
	complete, err := s.ProgressRepo.IsComplete(userID, weekNumber)
	if err != nil {
		return false, err
	}
	if complete {
		return false, s.ProgressRepo.UnmarkComplete(userID, weekNumber)
	}
	return true, s.ProgressRepo.MarkComplete(userID, weekNumber)
}

// Certificate is the printable completion certificate payload.
type Certificate struct {
	RecipientName string `json:"recipientName"`
	CourseTitle   string `json:"courseTitle"`
	TotalWeeks    int    `json:"totalWeeks"`
	IssuedAt      string `json:"issuedAt"`
}

// IssueCertificate returns the certificate iff every week is completed.
// Eligibility is independent of how access was obtained: free weeks count
// the same as premium ones.
func (s *ProgressService) IssueCertificate(userID uint, courseTitle string) (*Certificate, error) {
	summary, err := s.Summary(userID)
	if err != nil {
		return nil, err
	}
	if !summary.CertificateEligible {
		return nil, util.ErrNotEligible
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	return &Certificate{
		RecipientName: user.DisplayName,
		CourseTitle:   courseTitle,
		TotalWeeks:    s.TotalWeeks,
		IssuedAt:      time.Now().Format(util.DateFormat),
	}, nil
}
