package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"app/internal/model"
	"app/internal/repository"
)

var (
	ErrNoFamily             = errors.New("user has no family")
	ErrNotFamilyOwner       = errors.New("only the family owner can do that")
	ErrFamilyMemberNotFound = errors.New("family member not found")
	ErrAlreadyFamilyMember  = errors.New("user already belongs to the family")
	// ErrInviteeNotRegistered is user-facing: the invitee has to create an
	// account before they can be added to a family.
	ErrInviteeNotRegistered = errors.New("invitee must register before being added to a family")
	// ErrPartiallyApplied means a multi-row mutation failed partway and the
	// document now holds a mix of old and new values.
	ErrPartiallyApplied = errors.New("change applied to only part of the family rows")
)

type FamilyService interface {
	// Info resolves the caller's family view. Exists is false when the
	// caller has no membership row.
	Info(ctx context.Context, email string) (*model.FamilyInfo, error)
	// Create starts a family with the caller as owner. Idempotent: a caller
	// who already has a family gets their existing one back.
	Create(ctx context.Context, email, babyName, role string) (*model.FamilyInfo, error)
	// RenameBaby propagates the new name to every membership row and every
	// activity row of every member.
	RenameBaby(ctx context.Context, email, babyName string) error
	Invite(ctx context.Context, callerEmail, inviteeEmail, role string) error
	// SetMemberRole is owner-gated.
	SetMemberRole(ctx context.Context, callerEmail, memberEmail, role string) error
	// SetMyRole only ever touches the caller's own row, so it needs no gate.
	SetMyRole(ctx context.Context, email, role string) error
}

type familyService struct {
	familyRepo   repository.FamilyRepository
	activityRepo repository.ActivityRepository
	userRepo     repository.UserRepository
	logger       zerolog.Logger
}

func NewFamilyService(familyRepo repository.FamilyRepository, activityRepo repository.ActivityRepository, userRepo repository.UserRepository, logger zerolog.Logger) FamilyService {
	return &familyService{
		familyRepo:   familyRepo,
		activityRepo: activityRepo,
		userRepo:     userRepo,
		logger:       logger.With().Str("service", "FamilyService").Logger(),
	}
}

func (s *familyService) Info(ctx context.Context, email string) (*model.FamilyInfo, error) {
	membership, err := s.familyRepo.GetMembershipByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return &model.FamilyInfo{Exists: false}, nil
	}

	members, err := s.familyRepo.GetMembersByFamilyID(ctx, membership.FamilyID)
	if err != nil {
		return nil, err
	}

	info := &model.FamilyInfo{
		Exists:   true,
		FamilyID: membership.FamilyID,
		BabyName: resolveBabyName(members),
		UserRole: membership.Role,
		IsOwner:  membership.IsOwner,
	}
	for _, m := range members {
		if strings.EqualFold(m.UserEmail, email) {
			continue
		}
		info.Members = append(info.Members, model.FamilyMemberInfo{
			Email:   m.UserEmail,
			Name:    s.displayName(ctx, m.UserEmail),
			Role:    m.Role,
			IsOwner: m.IsOwner,
		})
	}
	return info, nil
}

func (s *familyService) Create(ctx context.Context, email, babyName, role string) (*model.FamilyInfo, error) {
	membership, err := s.familyRepo.GetMembershipByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		if role == "" {
			role = model.RoleMadre
		}
		owner := &model.FamilyMember{
			FamilyID:  uuid.NewString(),
			UserEmail: email,
			BabyName:  babyName,
			IsOwner:   true,
			Role:      role,
		}
		if err := s.familyRepo.AddMember(ctx, owner); err != nil {
			s.logger.Error().Err(err).Str("email", email).Msg("Failed to create family")
			return nil, err
		}
	}
	return s.Info(ctx, email)
}

func (s *familyService) RenameBaby(ctx context.Context, email, babyName string) error {
	membership, err := s.familyRepo.GetMembershipByEmail(ctx, email)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrNoFamily
	}

	members, err := s.familyRepo.GetMembersByFamilyID(ctx, membership.FamilyID)
	if err != nil {
		return err
	}
	emails := make([]string, 0, len(members))
	for _, m := range members {
		emails = append(emails, m.UserEmail)
	}

	written, err := s.familyRepo.UpdateBabyName(ctx, membership.FamilyID, babyName)
	if err != nil {
		if written > 0 {
			return fmt.Errorf("%w: %d membership rows renamed before failure: %v", ErrPartiallyApplied, written, err)
		}
		return err
	}

	if _, err := s.activityRepo.UpdateBabyNameByEmails(ctx, emails, babyName); err != nil {
		// Membership rows already carry the new name.
		return fmt.Errorf("%w: memberships renamed, activities incomplete: %v", ErrPartiallyApplied, err)
	}
	return nil
}

func (s *familyService) Invite(ctx context.Context, callerEmail, inviteeEmail, role string) error {
	invitee, err := s.userRepo.GetUserByEmail(ctx, inviteeEmail)
	if err != nil {
		return err
	}
	if invitee == nil {
		return ErrInviteeNotRegistered
	}

	membership, err := s.familyRepo.GetMembershipByEmail(ctx, callerEmail)
	if err != nil {
		return err
	}
	if membership == nil {
		// First invite creates the caller's family on the fly.
		info, err := s.Create(ctx, callerEmail, "", "")
		if err != nil {
			return err
		}
		membership = &model.FamilyMember{FamilyID: info.FamilyID, UserEmail: callerEmail, BabyName: info.BabyName}
	}

	members, err := s.familyRepo.GetMembersByFamilyID(ctx, membership.FamilyID)
	if err != nil {
		return err
	}
	for _, m := range members {
		if strings.EqualFold(m.UserEmail, inviteeEmail) {
			return ErrAlreadyFamilyMember
		}
	}

	return s.familyRepo.AddMember(ctx, &model.FamilyMember{
		FamilyID:  membership.FamilyID,
		UserEmail: inviteeEmail,
		BabyName:  resolveBabyName(members),
		IsOwner:   false,
		Role:      role,
	})
}

func (s *familyService) SetMemberRole(ctx context.Context, callerEmail, memberEmail, role string) error {
	membership, err := s.familyRepo.GetMembershipByEmail(ctx, callerEmail)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrNoFamily
	}
	if !membership.IsOwner {
		return ErrNotFamilyOwner
	}
	err = s.familyRepo.UpdateRole(ctx, membership.FamilyID, memberEmail, role)
	if errors.Is(err, repository.ErrRowNotFound) {
		return ErrFamilyMemberNotFound
	}
	return err
}

func (s *familyService) SetMyRole(ctx context.Context, email, role string) error {
	membership, err := s.familyRepo.GetMembershipByEmail(ctx, email)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrNoFamily
	}
	return s.familyRepo.UpdateRole(ctx, membership.FamilyID, email, role)
}

// resolveBabyName prefers the owner's row and falls back to any member's
// non-empty name.
func resolveBabyName(members []model.FamilyMember) string {
	for _, m := range members {
		if m.IsOwner && m.BabyName != "" {
			return m.BabyName
		}
	}
	for _, m := range members {
		if m.BabyName != "" {
			return m.BabyName
		}
	}
	return ""
}

// displayName resolves a member's profile name, falling back to the local
// part of the email when no profile name exists.
func (s *familyService) displayName(ctx context.Context, email string) string {
	u, err := s.userRepo.GetUserByEmail(ctx, email)
	if err == nil && u != nil && u.Name != "" {
		return u.Name
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
