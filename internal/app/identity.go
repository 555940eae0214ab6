// Package app holds the chat core: identity resolution, the access
// decision, the presence registry and the room broadcast groups.
package app

import (
	"net/url"

	"github.com/dkeye/Chatter/internal/domain"
)

// ResolveUsername derives the room-scoped username for a connection.
// An authenticated account keeps its username verbatim. Anonymous
// visitors may pass a "guest" query parameter, which is decoded and
// prefixed. Anything malformed degrades to the empty string so the
// access evaluator can reject it uniformly as a bad username.
func ResolveUsername(user *domain.User, rawQuery string) string {
	if user != nil {
		return user.Username
	}
	unquoted, err := url.QueryUnescape(rawQuery)
	if err != nil {
		return ""
	}
	values, err := url.ParseQuery(unquoted)
	if err != nil {
		return ""
	}
	guest := values.Get("guest")
	if guest == "" {
		return ""
	}
	return domain.GuestPrefix + guest
}
