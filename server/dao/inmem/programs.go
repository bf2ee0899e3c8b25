package inmem

import (
	"context"
	"fmt"
	"time"

	"github.com/dekarrin/drawlang/internal/util"
	"github.com/dekarrin/drawlang/server/dao"
	"github.com/google/uuid"
)

func NewProgramsRepository() *InMemoryProgramsRepository {
	return &InMemoryProgramsRepository{
		programs:      make(map[uuid.UUID]dao.Program),
		byUserIDIndex: make(map[uuid.UUID][]uuid.UUID),
	}
}

type InMemoryProgramsRepository struct {
	programs      map[uuid.UUID]dao.Program
	byUserIDIndex map[uuid.UUID][]uuid.UUID
}

func (impr *InMemoryProgramsRepository) Close() error {
	return nil
}

func (impr *InMemoryProgramsRepository) Create(ctx context.Context, p dao.Program) (dao.Program, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Program{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()

	p.ID = newUUID
	p.Created = now
	p.Modified = now

	impr.programs[p.ID] = p

	byUser := impr.byUserIDIndex[p.UserID]
	byUser = append(byUser, p.ID)
	impr.byUserIDIndex[p.UserID] = byUser

	return p, nil
}

func (impr *InMemoryProgramsRepository) GetAll(ctx context.Context) ([]dao.Program, error) {
	all := make([]dao.Program, len(impr.programs))

	i := 0
	for k := range impr.programs {
		all[i] = impr.programs[k]
		i++
	}

	all = util.SortBy(all, func(l, r dao.Program) bool {
		return l.ID.String() < r.ID.String()
	})

	return all, nil
}

func (impr *InMemoryProgramsRepository) GetAllByUser(ctx context.Context, id uuid.UUID) ([]dao.Program, error) {
	byUser := impr.byUserIDIndex[id]

	all := make([]dao.Program, len(byUser))
	for i := range byUser {
		all[i] = impr.programs[byUser[i]]
	}

	all = util.SortBy(all, func(l, r dao.Program) bool {
		return l.ID.String() < r.ID.String()
	})

	return all, nil
}

func (impr *InMemoryProgramsRepository) Update(ctx context.Context, id uuid.UUID, p dao.Program) (dao.Program, error) {
	existing, ok := impr.programs[id]
	if !ok {
		return dao.Program{}, dao.ErrNotFound
	}

	if p.ID != id {
		if _, ok := impr.programs[p.ID]; ok {
			return dao.Program{}, dao.ErrConstraintViolation
		}
	}

	p.Created = existing.Created
	p.Modified = time.Now()

	impr.programs[p.ID] = p
	if p.ID != id {
		delete(impr.programs, id)

		if existing.UserID == p.UserID {
			byUser := impr.byUserIDIndex[existing.UserID]
			pos := util.SliceIndexOf(id, byUser)
			if pos < 0 {
				return dao.Program{}, fmt.Errorf("DB ASSERTION FAILURE: missing index entry for user %s to program %s", existing.UserID, existing.ID)
			}
			byUser[pos] = p.ID
			impr.byUserIDIndex[existing.UserID] = byUser
		}
	}

	if p.UserID != existing.UserID {
		byUser := impr.byUserIDIndex[existing.UserID]
		updated := util.SliceRemove(existing.ID, byUser)
		impr.byUserIDIndex[existing.UserID] = updated
		if len(updated) < 1 {
			delete(impr.byUserIDIndex, existing.UserID)
		}

		newByUser := impr.byUserIDIndex[p.UserID]
		newByUser = append(newByUser, p.ID)
		impr.byUserIDIndex[p.UserID] = newByUser
	}

	return p, nil
}

func (impr *InMemoryProgramsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Program, error) {
	p, ok := impr.programs[id]
	if !ok {
		return dao.Program{}, dao.ErrNotFound
	}

	return p, nil
}

func (impr *InMemoryProgramsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Program, error) {
	p, ok := impr.programs[id]
	if !ok {
		return dao.Program{}, dao.ErrNotFound
	}

	byUser := impr.byUserIDIndex[p.UserID]
	updated := util.SliceRemove(p.ID, byUser)
	impr.byUserIDIndex[p.UserID] = updated
	if len(updated) < 1 {
		delete(impr.byUserIDIndex, p.UserID)
	}
	delete(impr.programs, p.ID)

	return p, nil
}
