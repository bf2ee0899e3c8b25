package api

import (
	"net/http"

	"github.com/dekarrin/drawlang/internal/version"
	"github.com/dekarrin/drawlang/server/dao"
	"github.com/dekarrin/drawlang/server/middle"
	"github.com/dekarrin/drawlang/server/result"
)

// HTTPGetInfo returns a HandlerFunc that retrieves information on the API and
// server. Works whether or not the caller is logged in.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	loggedIn := req.Context().Value(middle.AuthLoggedIn).(bool)

	resp := InfoModel{Version: version.Current}

	userStr := "unauthed client"
	if loggedIn {
		user := req.Context().Value(middle.AuthUser).(dao.User)
		userStr = "user '" + user.Username + "'"
	}
	return result.OK(resp, "%s got API info", userStr)
}
