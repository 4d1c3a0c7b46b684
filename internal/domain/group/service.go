package group

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/playfriends/playfriends/internal/domain/prefs"
	apperrors "github.com/playfriends/playfriends/pkg/errors"
	"github.com/playfriends/playfriends/pkg/util"
)

// CreateRequest carries the fields a user supplies when opening a group.
type CreateRequest struct {
	Name      string     `json:"groupname"`
	StartTime time.Time  `json:"starttime"`
	EndTime   *time.Time `json:"endtime"`
}

// UpdateRequest carries the owner-editable fields. Nil means "leave as is".
type UpdateRequest struct {
	Name      *string    `json:"groupname"`
	StartTime *time.Time `json:"starttime"`
	EndTime   *time.Time `json:"endtime"`
	IsActive  *bool      `json:"is_active"`
}

// Service manages groups, their membership and their aggregated preference
// vectors, and persists the one schedule a group confirms.
type Service interface {
	Create(ctx context.Context, ownerID string, req CreateRequest) (Group, error)
	Get(ctx context.Context, id string) (Group, error)
	List(ctx context.Context) ([]Group, error)
	ListByMember(ctx context.Context, userID string) ([]Group, error)
	Update(ctx context.Context, callerID, groupID string, req UpdateRequest) (Group, error)
	Delete(ctx context.Context, callerID, groupID string) error
	Join(ctx context.Context, groupID, userID string) error
	Leave(ctx context.Context, groupID, userID string) error

	// Snapshot returns the group with aggregated vectors guaranteed fresh
	// for the current member set. The planner reads exactly one snapshot
	// per request.
	Snapshot(ctx context.Context, groupID string) (Group, error)

	// MarkStaleForMember flags every group the user belongs to for vector
	// recomputation. Invoked when a member's stored preferences change;
	// the next read of a flagged group rebuilds and persists its vectors.
	MarkStaleForMember(ctx context.Context, userID string) error

	ConfirmSchedule(ctx context.Context, callerID, groupID string, activities []ScheduledActivity) (Schedule, error)
	ConfirmedSchedule(ctx context.Context, groupID string) (Schedule, error)

	DeactivateExpired(ctx context.Context) (int64, error)
}

type service struct {
	repo      Repository
	members   MemberDirectory
	snapshots SnapshotCache // nil disables snapshot caching
	logger    *slog.Logger
}

// NewService wires up the group domain. snapshots may be nil.
func NewService(repo Repository, members MemberDirectory, snapshots SnapshotCache, logger *slog.Logger) Service {
	return &service{
		repo:      repo,
		members:   members,
		snapshots: snapshots,
		logger:    logger.With("component", "group.service"),
	}
}

func (s *service) Create(ctx context.Context, ownerID string, req CreateRequest) (Group, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Group{}, apperrors.Wrap(apperrors.CodeInvalidInput, "group name cannot be empty", nil)
	}
	if req.EndTime != nil && !req.EndTime.After(req.StartTime) {
		return Group{}, apperrors.Wrap(apperrors.CodeInvalidState, "group end time must be after start time", nil)
	}

	g := Group{
		Name:      name,
		OwnerID:   ownerID,
		MemberIDs: []string{ownerID},
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsActive:  true,
		CreatedAt: util.NowUTC(),
	}
	if err := s.aggregate(ctx, &g); err != nil {
		return Group{}, err
	}

	created, err := s.repo.Create(ctx, g)
	if err != nil {
		return Group{}, apperrors.Wrap(apperrors.CodeStorage, "group creation failed", err)
	}
	s.logger.Info("group created", "group_id", created.ID, "owner_id", ownerID)
	return created, nil
}

func (s *service) Get(ctx context.Context, id string) (Group, error) {
	return s.loadFresh(ctx, id)
}

func (s *service) List(ctx context.Context) ([]Group, error) {
	groups, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "group listing failed", err)
	}
	return groups, nil
}

func (s *service) ListByMember(ctx context.Context, userID string) ([]Group, error) {
	groups, err := s.repo.ListByMember(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "group listing failed", err)
	}
	return groups, nil
}

func (s *service) Update(ctx context.Context, callerID, groupID string, req UpdateRequest) (Group, error) {
	g, err := s.load(ctx, groupID)
	if err != nil {
		return Group{}, err
	}
	if g.OwnerID != callerID {
		return Group{}, apperrors.Wrap(apperrors.CodeForbidden, "only the group owner can update the group", nil)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return Group{}, apperrors.Wrap(apperrors.CodeInvalidInput, "group name cannot be empty", nil)
		}
		g.Name = name
	}
	if req.StartTime != nil {
		g.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		g.EndTime = req.EndTime
	}
	if req.IsActive != nil {
		g.IsActive = *req.IsActive
	}
	if g.EndTime != nil && !g.EndTime.After(g.StartTime) {
		return Group{}, apperrors.Wrap(apperrors.CodeInvalidState, "group end time must be after start time", nil)
	}

	if err := s.repo.Update(ctx, g); err != nil {
		return Group{}, apperrors.Wrap(apperrors.CodeStorage, "group update failed", err)
	}
	s.invalidateSnapshot(ctx, groupID)
	return g, nil
}

func (s *service) Delete(ctx context.Context, callerID, groupID string) error {
	g, err := s.load(ctx, groupID)
	if err != nil {
		return err
	}
	if g.OwnerID != callerID {
		return apperrors.Wrap(apperrors.CodeForbidden, "only the group owner can delete the group", nil)
	}
	if err := s.repo.Delete(ctx, groupID); err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "group deletion failed", err)
	}
	s.invalidateSnapshot(ctx, groupID)
	s.logger.Info("group deleted", "group_id", groupID)
	return nil
}

func (s *service) Join(ctx context.Context, groupID, userID string) error {
	g, err := s.load(ctx, groupID)
	if err != nil {
		return err
	}
	if g.HasMember(userID) {
		return apperrors.Wrap(apperrors.CodeConflict, "user is already a member of the group", nil)
	}
	exists, err := s.members.MemberExists(ctx, userID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "member lookup failed", err)
	}
	if !exists {
		return apperrors.Wrap(apperrors.CodeNotFound, "user not found", nil)
	}

	g.MemberIDs = append(g.MemberIDs, userID)
	if err := s.aggregate(ctx, &g); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, g); err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "group update failed", err)
	}
	s.invalidateSnapshot(ctx, groupID)
	s.logger.Info("member joined", "group_id", groupID, "user_id", userID)
	return nil
}

func (s *service) Leave(ctx context.Context, groupID, userID string) error {
	g, err := s.load(ctx, groupID)
	if err != nil {
		return err
	}
	if g.OwnerID == userID {
		return apperrors.Wrap(apperrors.CodeInvalidState, "the owner cannot leave the group; delete it instead", nil)
	}
	if !g.HasMember(userID) {
		return apperrors.Wrap(apperrors.CodeInvalidState, "user is not a member of the group", nil)
	}

	remaining := make([]string, 0, len(g.MemberIDs)-1)
	for _, id := range g.MemberIDs {
		if id != userID {
			remaining = append(remaining, id)
		}
	}
	g.MemberIDs = remaining
	if err := s.aggregate(ctx, &g); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, g); err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "group update failed", err)
	}
	s.invalidateSnapshot(ctx, groupID)
	s.logger.Info("member left", "group_id", groupID, "user_id", userID)
	return nil
}

func (s *service) Snapshot(ctx context.Context, groupID string) (Group, error) {
	if s.snapshots != nil {
		if cached, ok, err := s.snapshots.GetSnapshot(ctx, groupID); err != nil {
			s.logger.Warn("snapshot cache read failed", "group_id", groupID, "error", err)
		} else if ok {
			return cached, nil
		}
	}

	g, err := s.loadFresh(ctx, groupID)
	if err != nil {
		return Group{}, err
	}
	if s.snapshots != nil {
		if err := s.snapshots.SetSnapshot(ctx, g); err != nil {
			s.logger.Warn("snapshot cache write failed", "group_id", groupID, "error", err)
		}
	}
	return g, nil
}

func (s *service) MarkStaleForMember(ctx context.Context, userID string) error {
	groups, err := s.repo.ListByMember(ctx, userID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "group listing failed", err)
	}
	for _, g := range groups {
		g.PrefsStale = true
		if err := s.repo.Update(ctx, g); err != nil {
			return apperrors.Wrap(apperrors.CodeStorage, "group staleness update failed", err)
		}
		s.invalidateSnapshot(ctx, g.ID)
	}
	if len(groups) > 0 {
		s.logger.Info("group vectors marked stale", "user_id", userID, "groups", len(groups))
	}
	return nil
}

func (s *service) ConfirmSchedule(ctx context.Context, callerID, groupID string, activities []ScheduledActivity) (Schedule, error) {
	g, err := s.load(ctx, groupID)
	if err != nil {
		return Schedule{}, err
	}
	if !g.HasMember(callerID) {
		return Schedule{}, apperrors.Wrap(apperrors.CodeForbidden, "only group members can confirm a schedule", nil)
	}
	if len(activities) == 0 {
		return Schedule{}, apperrors.Wrap(apperrors.CodeInvalidInput, "schedule cannot be empty", nil)
	}
	for _, item := range activities {
		if !item.EndTime.After(item.StartTime) {
			return Schedule{}, apperrors.Wrap(apperrors.CodeInvalidState, "scheduled activity end must be after its start", nil)
		}
	}
	if _, exists, err := s.repo.GetSchedule(ctx, groupID); err != nil {
		return Schedule{}, apperrors.Wrap(apperrors.CodeStorage, "schedule lookup failed", err)
	} else if exists {
		return Schedule{}, apperrors.Wrap(apperrors.CodeConflict, "group already has a confirmed schedule", nil)
	}

	saved, err := s.repo.SaveSchedule(ctx, Schedule{
		GroupID:    groupID,
		Activities: activities,
		CreatedAt:  util.NowUTC(),
	})
	if err != nil {
		return Schedule{}, apperrors.Wrap(apperrors.CodeStorage, "schedule persistence failed", err)
	}
	s.logger.Info("schedule confirmed", "group_id", groupID, "activities", len(activities))
	return saved, nil
}

func (s *service) ConfirmedSchedule(ctx context.Context, groupID string) (Schedule, error) {
	if _, err := s.load(ctx, groupID); err != nil {
		return Schedule{}, err
	}
	schedule, exists, err := s.repo.GetSchedule(ctx, groupID)
	if err != nil {
		return Schedule{}, apperrors.Wrap(apperrors.CodeStorage, "schedule lookup failed", err)
	}
	if !exists {
		return Schedule{}, apperrors.Wrap(apperrors.CodeNotFound, "group has no confirmed schedule", nil)
	}
	return schedule, nil
}

func (s *service) DeactivateExpired(ctx context.Context) (int64, error) {
	count, err := s.repo.DeactivateExpired(ctx, util.NowUTC())
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeStorage, "expired group sweep failed", err)
	}
	return count, nil
}

func (s *service) invalidateSnapshot(ctx context.Context, groupID string) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.InvalidateSnapshot(ctx, groupID); err != nil {
		s.logger.Warn("snapshot cache invalidation failed", "group_id", groupID, "error", err)
	}
}

// loadFresh loads a group and, when a preference change left its vectors
// stale, recomputes and persists them before returning.
func (s *service) loadFresh(ctx context.Context, id string) (Group, error) {
	g, err := s.load(ctx, id)
	if err != nil {
		return Group{}, err
	}
	if g.PrefsStale {
		if err := s.aggregate(ctx, &g); err != nil {
			return Group{}, err
		}
		if err := s.repo.Update(ctx, g); err != nil {
			return Group{}, apperrors.Wrap(apperrors.CodeStorage, "group vector persistence failed", err)
		}
	}
	return g, nil
}

func (s *service) load(ctx context.Context, id string) (Group, error) {
	g, found, err := s.repo.Get(ctx, id)
	if err != nil {
		return Group{}, apperrors.Wrap(apperrors.CodeStorage, "group lookup failed", err)
	}
	if !found {
		return Group{}, apperrors.Wrap(apperrors.CodeNotFound, "group not found", nil)
	}
	return g, nil
}

// aggregate recomputes the group's derived vectors from the current member
// set and clears the staleness marker.
func (s *service) aggregate(ctx context.Context, g *Group) error {
	foodPrefs := make([]prefs.FoodPreferences, 0, len(g.MemberIDs))
	playPrefs := make([]prefs.PlayVector, 0, len(g.MemberIDs))
	for _, memberID := range g.MemberIDs {
		food, play, err := s.members.MemberPreferences(ctx, memberID)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeStorage, "member preference lookup failed", err)
		}
		foodPrefs = append(foodPrefs, food)
		playPrefs = append(playPrefs, play)
	}

	food, err := prefs.AggregateFood(foodPrefs)
	if err != nil {
		return err
	}
	play, err := prefs.AggregatePlay(playPrefs)
	if err != nil {
		return err
	}
	g.FoodPreferences = food
	g.PlayPreferences = play
	g.PrefsStale = false
	return nil
}
