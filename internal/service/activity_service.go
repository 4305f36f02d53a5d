package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"app/internal/model"
	"app/internal/repository"
)

var (
	ErrActivityNotFound = errors.New("activity not found")
	// ErrMonthlyLimitReached means a free-tier user hit the per-month
	// activity cap.
	ErrMonthlyLimitReached = errors.New("monthly activity limit reached")
)

// ActivityFeed is the result of a feed query. MonthlyCount is the number of
// the caller's own activities in the current calendar month, independent of
// the limit applied to Activities.
type ActivityFeed struct {
	Activities   []model.Activity `json:"activities"`
	MonthlyCount int              `json:"monthly_count"`
}

type ActivityService interface {
	// Log appends one activity, enforcing the free-tier monthly cap.
	Log(ctx context.Context, a *model.Activity) error
	// Feed returns the user's activities newest first, truncated to limit
	// when limit > 0.
	Feed(ctx context.Context, email string, limit int) (*ActivityFeed, error)
	// SharedFeed is the family-wide view. A caller without a family gets
	// their personal feed; the two cases are indistinguishable.
	SharedFeed(ctx context.Context, email string, limit int) (*ActivityFeed, error)
	Update(ctx context.Context, email, originalTimestamp string, a *model.Activity) error
	Delete(ctx context.Context, email, timestamp string) error
}

type activityService struct {
	activityRepo repository.ActivityRepository
	familyRepo   repository.FamilyRepository
	userRepo     repository.UserRepository
	monthlyLimit int
	logger       zerolog.Logger
}

func NewActivityService(activityRepo repository.ActivityRepository, familyRepo repository.FamilyRepository, userRepo repository.UserRepository, monthlyLimit int, logger zerolog.Logger) ActivityService {
	return &activityService{
		activityRepo: activityRepo,
		familyRepo:   familyRepo,
		userRepo:     userRepo,
		monthlyLimit: monthlyLimit,
		logger:       logger.With().Str("service", "ActivityService").Logger(),
	}
}

func (s *activityService) Log(ctx context.Context, a *model.Activity) error {
	if a.Timestamp == "" {
		a.Timestamp = time.Now().Format(time.RFC3339)
	}

	u, err := s.userRepo.GetUserByEmail(ctx, a.UserEmail)
	if err != nil {
		return err
	}
	if u == nil || !u.IsPremium {
		own, err := s.activityRepo.GetActivitiesByEmails(ctx, []string{a.UserEmail})
		if err != nil {
			return err
		}
		if s.monthlyLimit > 0 && countCurrentMonth(own) >= s.monthlyLimit {
			return ErrMonthlyLimitReached
		}
	}

	return s.activityRepo.SaveActivity(ctx, a)
}

func (s *activityService) Feed(ctx context.Context, email string, limit int) (*ActivityFeed, error) {
	return s.feed(ctx, []string{email}, email, limit)
}

func (s *activityService) SharedFeed(ctx context.Context, email string, limit int) (*ActivityFeed, error) {
	membership, err := s.familyRepo.GetMembershipByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Family lookup failed, falling back to personal feed")
		return s.Feed(ctx, email, limit)
	}
	if membership == nil {
		return s.Feed(ctx, email, limit)
	}

	members, err := s.familyRepo.GetMembersByFamilyID(ctx, membership.FamilyID)
	if err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(members))
	for _, m := range members {
		emails = append(emails, m.UserEmail)
	}
	return s.feed(ctx, emails, email, limit)
}

// feed fetches activities for emails; the monthly count is always computed
// over the caller's own rows.
func (s *activityService) feed(ctx context.Context, emails []string, caller string, limit int) (*ActivityFeed, error) {
	activities, err := s.activityRepo.GetActivitiesByEmails(ctx, emails)
	if err != nil {
		return nil, err
	}

	own, err := s.activityRepo.GetActivitiesByEmails(ctx, []string{caller})
	if err != nil {
		return nil, err
	}
	monthly := countCurrentMonth(own)

	sort.SliceStable(activities, func(i, j int) bool {
		return parseActivityTime(activities[i].Timestamp).After(parseActivityTime(activities[j].Timestamp))
	})
	if limit > 0 && len(activities) > limit {
		activities = activities[:limit]
	}
	return &ActivityFeed{Activities: activities, MonthlyCount: monthly}, nil
}

func (s *activityService) Update(ctx context.Context, email, originalTimestamp string, a *model.Activity) error {
	a.UserEmail = email
	if a.Timestamp == "" {
		a.Timestamp = originalTimestamp
	}
	err := s.activityRepo.UpdateActivity(ctx, email, originalTimestamp, a)
	if errors.Is(err, repository.ErrRowNotFound) {
		return ErrActivityNotFound
	}
	return err
}

func (s *activityService) Delete(ctx context.Context, email, timestamp string) error {
	err := s.activityRepo.DeleteActivity(ctx, email, timestamp)
	if errors.Is(err, repository.ErrRowNotFound) {
		return ErrActivityNotFound
	}
	return err
}

// countCurrentMonth counts activities from the start of the current calendar
// month, wall clock.
func countCurrentMonth(activities []model.Activity) int {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	n := 0
	for _, a := range activities {
		if !parseActivityTime(a.Timestamp).Before(start) {
			n++
		}
	}
	return n
}

func parseActivityTime(ts string) time.Time {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}
	}
	return t
}
