package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"maison_atelier/internal/domain/models"
	"maison_atelier/internal/lib/logger/sl"
	"maison_atelier/internal/storage"
)

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionUp, DirectionDown:
		return Direction(s), nil
	}
	return "", fmt.Errorf("invalid direction %q", s)
}

// MoveAdjacent moves the item at index one step and re-derives every
// ordinal as its positional index. Moving the first item up or the last
// item down is rejected, not clamped: the caller must not submit a plan
// for a gesture that changed nothing. Prior sequence values are
// discarded entirely, so contiguity holds even over inconsistent input.
func MoveAdjacent(snapshot []models.Project, index int, direction Direction) ([]models.Project, error) {
	if index < 0 || index >= len(snapshot) {
		return nil, storage.ErrMoveOutOfRange
	}
	if direction == DirectionUp && index == 0 {
		return nil, storage.ErrMoveOutOfRange
	}
	if direction == DirectionDown && index == len(snapshot)-1 {
		return nil, storage.ErrMoveOutOfRange
	}

	out := make([]models.Project, len(snapshot))
	copy(out, snapshot)

	target := index - 1
	if direction == DirectionDown {
		target = index + 1
	}
	out[index], out[target] = out[target], out[index]

	return renumber(out), nil
}

// AutoSequence orders a copy of the snapshot by title (case-sensitive
// lexical) and assigns 0..N-1. Existing ordinals are discarded; running
// it twice yields the same result.
func AutoSequence(snapshot []models.Project) []models.Project {
	out := make([]models.Project, len(snapshot))
	copy(out, snapshot)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Title < out[j].Title
	})

	return renumber(out)
}

func renumber(projects []models.Project) []models.Project {
	for i := range projects {
		projects[i].Sequence = i
	}
	return projects
}

// SequenceGateway submits the whole plan as one batch request.
type SequenceGateway interface {
	UpdateProjectSequence(ctx context.Context, plan []models.SequenceEntry) error
}

// ProjectSource provides the current sequencing snapshot and the reload
// that follows a successful submission.
type ProjectSource interface {
	Projects() []models.Project
	ReloadAll(ctx context.Context) error
}

type SequenceService struct {
	log   *slog.Logger
	gw    SequenceGateway
	store ProjectSource
}

func NewSequenceService(log *slog.Logger, gw SequenceGateway, store ProjectSource) *SequenceService {
	return &SequenceService{
		log:   log,
		gw:    gw,
		store: store,
	}
}

// BuildPlan converts an ordered snapshot into the batch payload.
// Entries without a usable remote id (typical of a fallback-sourced
// snapshot) are excluded with a warning; a plan with zero valid entries
// is a hard failure because it means the snapshot came from the wrong
// data source, and nothing may be submitted from it.
func (s *SequenceService) BuildPlan(snapshot []models.Project) ([]models.SequenceEntry, error) {
	const op = "sequence_service.BuildPlan"

	log := s.log.With(slog.String("op", op))

	plan := make([]models.SequenceEntry, 0, len(snapshot))
	for i, p := range snapshot {
		if p.ID == "" {
			log.Warn("skipping entry without remote id",
				slog.Int("position", i),
				slog.String("title", p.Title),
				slog.Bool("fallback", p.Fallback),
			)
			continue
		}
		plan = append(plan, models.SequenceEntry{ID: p.ID, Sequence: len(plan)})
	}

	if len(plan) == 0 {
		log.Error("sequence plan has no valid identifiers, nothing submitted")
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNoValidIdentifiers)
	}

	return plan, nil
}

// Save validates and submits an ordered snapshot as one batch call,
// then reloads the store.
func (s *SequenceService) Save(ctx context.Context, snapshot []models.Project) error {
	const op = "sequence_service.Save"

	log := s.log.With(slog.String("op", op))

	plan, err := s.BuildPlan(snapshot)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.gw.UpdateProjectSequence(ctx, plan); err != nil {
		log.Error("sequence submission failed", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("sequence saved", slog.Int("entries", len(plan)))

	if err := s.store.ReloadAll(ctx); err != nil {
		log.Warn("reload after sequence save failed", sl.Err(err))
	}

	return nil
}

// Move applies one up/down gesture to the current snapshot and submits
// the full resulting order.
func (s *SequenceService) Move(ctx context.Context, index int, direction Direction) error {
	const op = "sequence_service.Move"

	moved, err := MoveAdjacent(s.store.Projects(), index, direction)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.Save(ctx, moved); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// AutoSave sorts the current snapshot by title and submits the result.
func (s *SequenceService) AutoSave(ctx context.Context) error {
	const op = "sequence_service.AutoSave"

	snapshot := s.store.Projects()
	if len(snapshot) == 0 {
		return fmt.Errorf("%s: no projects available for sequencing", op)
	}

	if err := s.Save(ctx, AutoSequence(snapshot)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SaveEntries accepts an explicit ordering from the panel. Entries are
// ordered by the posted sequence values, invalid ids dropped, and the
// ordinals re-derived dense 0..N-1 before submission; stored values are
// never trusted to be contiguous.
func (s *SequenceService) SaveEntries(ctx context.Context, entries []models.SequenceEntry) error {
	const op = "sequence_service.SaveEntries"

	log := s.log.With(slog.String("op", op))

	ordered := make([]models.SequenceEntry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Sequence < ordered[j].Sequence
	})

	plan := make([]models.SequenceEntry, 0, len(ordered))
	for i, e := range ordered {
		if e.ID == "" {
			log.Warn("skipping entry without remote id", slog.Int("position", i))
			continue
		}
		plan = append(plan, models.SequenceEntry{ID: e.ID, Sequence: len(plan)})
	}

	if len(plan) == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNoValidIdentifiers)
	}

	if err := s.gw.UpdateProjectSequence(ctx, plan); err != nil {
		log.Error("sequence submission failed", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("sequence saved", slog.Int("entries", len(plan)))

	if err := s.store.ReloadAll(ctx); err != nil {
		log.Warn("reload after sequence save failed", sl.Err(err))
	}

	return nil
}
