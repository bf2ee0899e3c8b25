package tunas

import (
	"context"
	"errors"

	"github.com/dekarrin/drawlang"
	"github.com/dekarrin/drawlang/server/dao"
	"github.com/dekarrin/drawlang/server/serr"
	"github.com/google/uuid"
)

// RunAndCreateProgram parses and interprets source, and if it runs to
// completion, saves it (along with the PNG it rendered) as a new Program
// owned by userID. If source fails to parse or run, the returned error wraps
// serr.ErrBadArgument and no Program is persisted.
func (svc Service) RunAndCreateProgram(ctx context.Context, userID uuid.UUID, name string, source []byte) (dao.Program, error) {
	if name == "" {
		return dao.Program{}, serr.New("name cannot be blank", serr.ErrBadArgument)
	}

	rst, err := drawlang.Run(source, drawlang.RunOptions{})
	if err != nil {
		return dao.Program{}, serr.New(err.Error(), serr.ErrBadArgument)
	}

	png, err := rst.PNGBytes()
	if err != nil {
		return dao.Program{}, serr.New("could not encode rendered canvas", err)
	}

	newProg := dao.Program{
		UserID: userID,
		Name:   name,
		Source: source,
		PNG:    png,
	}

	prog, err := svc.DB.Programs().Create(ctx, newProg)
	if err != nil {
		return dao.Program{}, serr.WrapDB("could not create program", err)
	}

	return prog, nil
}

// GetProgram returns the program with the given ID.
func (svc Service) GetProgram(ctx context.Context, id uuid.UUID) (dao.Program, error) {
	prog, err := svc.DB.Programs().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Program{}, serr.ErrNotFound
		}
		return dao.Program{}, serr.WrapDB("could not get program", err)
	}
	return prog, nil
}

// GetAllProgramsByUser returns every program owned by userID.
func (svc Service) GetAllProgramsByUser(ctx context.Context, userID uuid.UUID) ([]dao.Program, error) {
	progs, err := svc.DB.Programs().GetAllByUser(ctx, userID)
	if err != nil {
		return nil, serr.WrapDB("could not list programs", err)
	}
	return progs, nil
}

// DeleteProgram removes the program with the given ID, returning it as it
// existed prior to deletion.
func (svc Service) DeleteProgram(ctx context.Context, id uuid.UUID) (dao.Program, error) {
	prog, err := svc.DB.Programs().Delete(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Program{}, serr.ErrNotFound
		}
		return dao.Program{}, serr.WrapDB("could not delete program", err)
	}
	return prog, nil
}
