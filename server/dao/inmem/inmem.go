// Package inmem provides a dao.Store backed by in-process maps, useful for
// tests and for running the server without a persistent database.
package inmem

import (
	"fmt"

	"github.com/dekarrin/drawlang/server/dao"
)

type store struct {
	users    *InMemoryUsersRepository
	programs *InMemoryProgramsRepository
}

func NewDatastore() dao.Store {
	return &store{
		users:    NewUsersRepository(),
		programs: NewProgramsRepository(),
	}
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Programs() dao.ProgramRepository {
	return s.programs
}

func (s *store) Close() error {
	var err error
	var nextErr error

	nextErr = s.users.Close()
	if nextErr != err {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally, %w", err, nextErr)
		} else {
			err = nextErr
		}
	}
	nextErr = s.programs.Close()
	if nextErr != err {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally, %w", err, nextErr)
		} else {
			err = nextErr
		}
	}

	return err
}
