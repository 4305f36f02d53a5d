package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"app/internal/model"
	"app/internal/repository"
)

// ErrDailyCommentLimitReached means a free-tier user hit the per-day comment
// quota.
var ErrDailyCommentLimitReached = errors.New("daily comment limit reached")

type CommunityService interface {
	Forums(ctx context.Context) ([]model.Forum, error)
	// ForumPosts returns a forum's posts newest first.
	ForumPosts(ctx context.Context, forumID string) ([]model.Post, error)
	CreatePost(ctx context.Context, email, forumID, title, content string) (*model.Post, error)
	PostComments(ctx context.Context, postID string) ([]model.Comment, error)
	// CreateComment enforces the per-day quota for non-premium users.
	CreateComment(ctx context.Context, email, postID, content string) (*model.Comment, error)
	// TodayCommentCount counts the user's comments whose timestamp falls on
	// the current calendar day, local clock.
	TodayCommentCount(ctx context.Context, email string) (int, error)
	UserInfo(ctx context.Context, email string) (*model.CommunityUserInfo, error)
}

type communityService struct {
	communityRepo repository.CommunityRepository
	userRepo      repository.UserRepository
	dailyLimit    int
	logger        zerolog.Logger
}

func NewCommunityService(communityRepo repository.CommunityRepository, userRepo repository.UserRepository, dailyLimit int, logger zerolog.Logger) CommunityService {
	return &communityService{
		communityRepo: communityRepo,
		userRepo:      userRepo,
		dailyLimit:    dailyLimit,
		logger:        logger.With().Str("service", "CommunityService").Logger(),
	}
}

func (s *communityService) Forums(ctx context.Context) ([]model.Forum, error) {
	return s.communityRepo.GetForums(ctx)
}

func (s *communityService) ForumPosts(ctx context.Context, forumID string) ([]model.Post, error) {
	posts, err := s.communityRepo.GetPostsByForum(ctx, forumID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return parseActivityTime(posts[i].Timestamp).After(parseActivityTime(posts[j].Timestamp))
	})
	return posts, nil
}

func (s *communityService) CreatePost(ctx context.Context, email, forumID, title, content string) (*model.Post, error) {
	p := &model.Post{
		ID:        uuid.NewString(),
		ForumID:   forumID,
		UserEmail: email,
		Title:     title,
		Content:   content,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if err := s.communityRepo.CreatePost(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("forum_id", forumID).Msg("Failed to create post")
		return nil, err
	}
	return p, nil
}

func (s *communityService) PostComments(ctx context.Context, postID string) ([]model.Comment, error) {
	return s.communityRepo.GetCommentsByPost(ctx, postID)
}

func (s *communityService) CreateComment(ctx context.Context, email, postID, content string) (*model.Comment, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsPremium {
		count, err := s.TodayCommentCount(ctx, email)
		if err != nil {
			return nil, err
		}
		if s.dailyLimit > 0 && count >= s.dailyLimit {
			return nil, ErrDailyCommentLimitReached
		}
	}

	c := &model.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		UserEmail: email,
		Content:   content,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if err := s.communityRepo.CreateComment(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("post_id", postID).Msg("Failed to create comment")
		return nil, err
	}
	return c, nil
}

func (s *communityService) TodayCommentCount(ctx context.Context, email string) (int, error) {
	comments, err := s.communityRepo.GetCommentsByUser(ctx, email)
	if err != nil {
		return 0, err
	}
	y, m, d := time.Now().Date()
	n := 0
	for _, c := range comments {
		t := parseActivityTime(c.Timestamp).Local()
		cy, cm, cd := t.Date()
		if cy == y && cm == m && cd == d {
			n++
		}
	}
	return n, nil
}

func (s *communityService) UserInfo(ctx context.Context, email string) (*model.CommunityUserInfo, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return &model.CommunityUserInfo{
		Email:     u.Email,
		Name:      u.Name,
		ImageURL:  u.ImageURL,
		IsPremium: u.IsPremium,
	}, nil
}
