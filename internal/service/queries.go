package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/divyansh01440/nirvana-agency/internal/model"
	"github.com/divyansh01440/nirvana-agency/internal/queue"
)

// QueryInput is the contact form.
type QueryInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type QueryService struct {
	gw      *Gateway
	queries QueryStore
	events  emitter
}

func NewQueryService(gw *Gateway, queries QueryStore, pub Publisher, log *zap.Logger) *QueryService {
	return &QueryService{gw: gw, queries: queries, events: emitter{pub: pub, log: log}}
}

// Create stores a contact message from anyone.  The sender is recorded
// when the request is authenticated.
func (s *QueryService) Create(ctx context.Context, caller model.UserID, in QueryInput) (model.QueryID, error) {
	u, err := s.gw.CurrentUser(ctx, caller)
	if err != nil {
		return 0, err
	}
	if err := required(
		[2]string{"name", in.Name},
		[2]string{"email", in.Email},
		[2]string{"message", in.Message},
	); err != nil {
		return 0, err
	}
	q := &model.Query{
		Name:    strings.TrimSpace(in.Name),
		Email:   normalizeEmail(in.Email),
		Message: strings.TrimSpace(in.Message),
		Status:  model.QueryPending,
	}
	if u != nil {
		q.UserID = u.ID
	}
	if err := s.queries.Create(ctx, q); err != nil {
		return 0, err
	}
	s.events.emit(ctx, queue.NewEvent(queue.QueryCreated, uint64(q.ID), uint64(q.UserID),
		map[string]string{"email": q.Email}))
	return q.ID, nil
}

// ListAll returns every query, optionally filtered by status.
func (s *QueryService) ListAll(ctx context.Context, caller model.UserID, status string) (Guarded[[]model.Query], error) {
	_, denied, err := s.gw.Inspect(ctx, caller)
	if err != nil || denied != Allowed {
		return deny[[]model.Query](denied), err
	}
	var filter *model.QueryStatus
	if status != "" {
		st, err := model.ParseQueryStatus(status)
		if err != nil {
			return Guarded[[]model.Query]{}, fail(ErrValidation, "Invalid status")
		}
		filter = &st
	}
	qs, err := s.queries.List(ctx, filter)
	if err != nil {
		return Guarded[[]model.Query]{}, err
	}
	if qs == nil {
		qs = []model.Query{}
	}
	return allow(qs), nil
}

func (s *QueryService) UpdateStatus(ctx context.Context, caller model.UserID, id model.QueryID, status string) error {
	admin, err := s.gw.RequireAdmin(ctx, caller)
	if err != nil {
		return err
	}
	st, err := model.ParseQueryStatus(status)
	if err != nil {
		return fail(ErrValidation, "Invalid status")
	}
	if err := s.queries.UpdateStatus(ctx, id, st); err != nil {
		return storeErr(err, "Query not found")
	}
	s.events.emit(ctx, queue.NewEvent(queue.QueryStatusChanged, uint64(id), uint64(admin.ID),
		map[string]string{"status": string(st)}))
	return nil
}

func (s *QueryService) Stats(ctx context.Context, caller model.UserID) (Guarded[*model.QueryStats], error) {
	_, denied, err := s.gw.Inspect(ctx, caller)
	if err != nil || denied != Allowed {
		return deny[*model.QueryStats](denied), err
	}
	qs, err := s.queries.List(ctx, nil)
	if err != nil {
		return Guarded[*model.QueryStats]{}, err
	}
	st := model.TallyQueries(qs)
	return allow(&st), nil
}
