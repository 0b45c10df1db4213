package app

import (
	"context"
	"fmt"

	"nusantara-culture-service/internal/domain"
	"nusantara-culture-service/internal/logger"
)

// UnknownDisplayName is shown for users without a profile.
const UnknownDisplayName = "Unknown"

// LeaderboardService ranks users by their total score across all submissions.
// It is a live projection: every call aggregates the current submission set.
type LeaderboardService struct {
	submissions  SubmissionRepository
	profiles     ProfileRepository
	defaultLimit int
	maxLimit     int
	log          *logger.Logger
}

func NewLeaderboardService(submissions SubmissionRepository, profiles ProfileRepository, defaultLimit, maxLimit int, log *logger.Logger) *LeaderboardService {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &LeaderboardService{
		submissions:  submissions,
		profiles:     profiles,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		log:          log.With("service", "LeaderboardService"),
	}
}

// GetLeaderboard returns at most limit entries ordered by total desc, user id asc.
// Equal totals share a rank.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	switch {
	case limit <= 0:
		limit = s.defaultLimit
	case limit > s.maxLimit:
		limit = s.maxLimit
	}

	totals, err := s.submissions.TopTotals(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLeaderboardUnavailable, err)
	}

	userIDs := make([]string, 0, len(totals))
	for _, t := range totals {
		userIDs = append(userIDs, t.UserID)
	}
	profiles := map[string]domain.Profile{}
	if len(userIDs) > 0 {
		found, err := s.profiles.GetProfiles(ctx, userIDs)
		if err != nil {
			s.log.Warn("profile lookup failed, using defaults", "users", len(userIDs), "error", err)
		} else {
			profiles = found
		}
	}

	entries := make([]domain.LeaderboardEntry, 0, len(totals))
	for i, t := range totals {
		rank := i + 1
		if i > 0 && t.TotalScore == totals[i-1].TotalScore {
			rank = entries[i-1].Rank
		}
		entry := domain.LeaderboardEntry{
			Rank:        rank,
			UserID:      t.UserID,
			DisplayName: UnknownDisplayName,
			TotalScore:  t.TotalScore,
		}
		if p, ok := profiles[t.UserID]; ok {
			if p.DisplayName != "" {
				entry.DisplayName = p.DisplayName
			}
			entry.AvatarURL = p.AvatarURL
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
