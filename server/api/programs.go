package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/dekarrin/drawlang/server/dao"
	"github.com/dekarrin/drawlang/server/middle"
	"github.com/dekarrin/drawlang/server/result"
	"github.com/dekarrin/drawlang/server/serr"
)

func programModel(p dao.Program, withBodies bool) ProgramModel {
	m := ProgramModel{
		URI:      PathPrefix + "/programs/" + p.ID.String(),
		ID:       p.ID.String(),
		UserID:   p.UserID.String(),
		Name:     p.Name,
		Created:  p.Created.Format(time.RFC3339),
		Modified: p.Modified.Format(time.RFC3339),
	}
	if withBodies {
		m.Source = p.Source
		m.PNG = p.PNG
	}
	return m
}

// HTTPCreateProgram returns a HandlerFunc that parses and runs the submitted
// drawlang source and, on success, saves both the source and the rendered
// PNG as a new program owned by the caller.
func (api API) HTTPCreateProgram() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateProgram)
}

func (api API) epCreateProgram(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	var createReq CreateProgramRequest
	if err := parseJSON(req, &createReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if createReq.Name == "" {
		return result.BadRequest("name: property is empty or missing from request", "empty name")
	}
	if len(createReq.Source) == 0 {
		return result.BadRequest("source: property is empty or missing from request", "empty source")
	}

	prog, err := api.Backend.RunAndCreateProgram(req.Context(), user.ID, createReq.Name, createReq.Source)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := programModel(prog, true)
	return result.Created(resp, "user '%s' created program '%s' (%s)", user.Username, resp.Name, resp.ID)
}

// HTTPGetAllPrograms returns a HandlerFunc that lists every program owned by
// the caller.
func (api API) HTTPGetAllPrograms() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllPrograms)
}

func (api API) epGetAllPrograms(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	progs, err := api.Backend.GetAllProgramsByUser(req.Context(), user.ID)
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]ProgramModel, len(progs))
	for i := range progs {
		resp[i] = programModel(progs[i], false)
	}

	return result.OK(resp, "user '%s' listed their programs", user.Username)
}

// HTTPGetProgram returns a HandlerFunc that fetches a single program,
// including its source and rendered PNG. Only the owner or an admin may
// retrieve it.
func (api API) HTTPGetProgram() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetProgram)
}

func (api API) epGetProgram(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	prog, err := api.Backend.GetProgram(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get program: " + err.Error())
	}

	if prog.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) get program %s: forbidden", user.Username, user.Role, id)
	}

	return result.OK(programModel(prog, true), "user '%s' got program '%s'", user.Username, prog.Name)
}

// HTTPDeleteProgram returns a HandlerFunc that deletes a program. Only the
// owner or an admin may delete it.
func (api API) HTTPDeleteProgram() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteProgram)
}

func (api API) epDeleteProgram(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	prog, err := api.Backend.GetProgram(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get program: " + err.Error())
	}

	if prog.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) delete program %s: forbidden", user.Username, user.Role, id)
	}

	deleted, err := api.Backend.DeleteProgram(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not delete program: " + err.Error())
	}

	return result.NoContent("user '%s' deleted program '%s'", user.Username, deleted.Name)
}
