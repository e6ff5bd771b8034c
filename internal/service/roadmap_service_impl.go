package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/history"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/importer"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/layout"
	"github.com/google/uuid"
)

type roadmapService struct {
	data      domain.RoadmapData
	history   *history.Log
	persister Persister
	logger    *slog.Logger
	observer  UseCaseObserver
	newID     func() string
}

// NewRoadmapService wraps initial as the live roadmap. log owns the undo
// window for this session; persister may be nil for a purely in-memory run.
func NewRoadmapService(
	initial domain.RoadmapData,
	persister Persister,
	log *history.Log,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) RoadmapService {
	if log == nil {
		log = history.New(history.DefaultLimit)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &roadmapService{
		data:      renumberMembers(initial.Clone()),
		history:   log,
		persister: persister,
		logger:    logger,
		observer:  useCaseObserverOrNoop(observers),
		newID:     uuid.NewString,
	}
}

func (s *roadmapService) Data() domain.RoadmapData { return s.data }

func (s *roadmapService) CanUndo() bool { return s.history.CanUndo() }
func (s *roadmapService) CanRedo() bool { return s.history.CanRedo() }

func (s *roadmapService) Lanes() []layout.Lane { return layout.ProjectLanes(s.data) }

func (s *roadmapService) Conflicts() []layout.Conflict { return layout.OwnerConflicts(s.data) }

// observe emits one use-case event when the returned func runs. err points at
// the caller's named result so the event sees the final outcome.
func (s *roadmapService) observe(ctx context.Context, name string, fields map[string]any, err *error) func() {
	started := time.Now()
	return func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      name,
			StartedAt: started,
			Duration:  time.Since(started),
			Success:   *err == nil,
			Err:       *err,
			Fields:    fields,
		})
	}
}

// commit records the command and makes forward's result the live state.
// forward is applied to a scratch value first, so a payload that cannot be
// applied leaves both the log and the state untouched.
func (s *roadmapService) commit(ctx context.Context, typ history.CommandType, forward, inverse payload) error {
	next, err := forward.apply(s.data)
	if err != nil {
		return err
	}
	s.history.Record(typ, forward, inverse)
	s.data = renumberMembers(next)
	return s.persist(ctx)
}

func (s *roadmapService) persist(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.Save(ctx, s.data); err != nil {
		return fmt.Errorf("saving roadmap: %w", err)
	}
	return nil
}

func (s *roadmapService) Undo(ctx context.Context) (applied bool, err error) {
	defer s.observe(ctx, "history.undo", nil, &err)()
	cmd, ok := s.history.Undo()
	if !ok {
		return false, nil
	}
	return s.replay(ctx, cmd, cmd.Inverse, "undo")
}

func (s *roadmapService) Redo(ctx context.Context) (applied bool, err error) {
	defer s.observe(ctx, "history.redo", nil, &err)()
	cmd, ok := s.history.Redo()
	if !ok {
		return false, nil
	}
	return s.replay(ctx, cmd, cmd.Forward, "redo")
}

// replay applies one half of a recorded command. A payload of the wrong shape
// or one that no longer fits the state is logged and the command is dropped
// from the log.
func (s *roadmapService) replay(ctx context.Context, cmd history.Command, raw any, direction string) (bool, error) {
	p, err := checkPayload(cmd.Type, raw)
	if err == nil {
		var next domain.RoadmapData
		if next, err = p.apply(s.data); err == nil {
			s.data = renumberMembers(next)
			return true, s.persist(ctx)
		}
	}
	if direction == "undo" {
		s.history.DiscardRedo()
	} else {
		s.history.DiscardUndo()
	}
	s.logger.WarnContext(ctx, "skipping "+direction,
		"command", string(cmd.Type),
		"recorded_at", cmd.RecordedAt,
		"error", err,
	)
	return false, nil
}

func (s *roadmapService) Replace(ctx context.Context, data domain.RoadmapData) (err error) {
	defer s.observe(ctx, "roadmap.replace", map[string]any{
		"projects": len(data.Projects),
		"members":  len(data.TeamMembers),
	}, &err)()

	if errs := importer.ValidateRoadmap(data); len(errs) > 0 {
		return fmt.Errorf("replacing roadmap: %w", errors.Join(errs...))
	}
	return s.commit(ctx, ReplaceRoadmap, roadmapPut{Data: data.Clone()}, roadmapPut{Data: s.data.Clone()})
}

// renumberMembers keeps each member's Order equal to its position.
func renumberMembers(data domain.RoadmapData) domain.RoadmapData {
	for i, m := range data.TeamMembers {
		if m.Order != i {
			members := make([]domain.TeamMember, len(data.TeamMembers))
			copy(members, data.TeamMembers)
			for j := range members {
				members[j].Order = j
			}
			data.TeamMembers = members
			break
		}
	}
	return data
}
