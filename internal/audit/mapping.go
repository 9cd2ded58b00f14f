package audit

import (
	"net/http"
	"strings"
)

// ActionResource holds action and resource derived from an HTTP route.
type ActionResource struct {
	Action   string
	Resource string
}

// Routes whose last segment names the action better than the HTTP method does.
var namedActions = map[string]string{
	"signup":            "signup",
	"login":             "login",
	"logout":            "logout",
	"refresh":           "refresh",
	"deactivate-user":   "deactivate",
	"change-password":   "change_password",
	"delete-user":       "delete",
	"update-user":       "update",
	"add-movie":         "create",
	"create-movie-star": "create",
	"update-movie-star": "update",
	"remove-star":       "delete",
	"stars":             "link",
}

var resources = map[string]string{
	"auth":     "user",
	"movies":   "movie",
	"theaters": "theater",
}

// ParseRoute returns action and resource for a gin route template (e.g. PUT /theaters/screen/:id).
// Resource comes from the first path segment; screens, show timings and stars are named after
// their own segment. Action is the route's named verb, or create/update/delete from the method.
func ParseRoute(method, route string) ActionResource {
	segs := splitPath(route)
	if len(segs) == 0 {
		return ActionResource{Action: methodToAction(method), Resource: "unknown"}
	}
	resource, ok := resources[segs[0]]
	if !ok {
		resource = strings.TrimSuffix(segs[0], "s")
	}
	action := ""
	refined := false
	for i := len(segs) - 1; i >= 1; i-- {
		s := segs[i]
		if strings.HasPrefix(s, ":") {
			continue
		}
		if !refined {
			switch {
			case s == "stars":
				// POST /movies/:id/stars changes the movie's cast.
				refined = true
			case strings.Contains(s, "show-timings"):
				resource, refined = "show_timing", true
			case strings.HasPrefix(s, "screen"):
				resource, refined = "screen", true
			case strings.Contains(s, "star"):
				resource, refined = "star", true
			}
		}
		if a, ok := namedActions[s]; ok && action == "" {
			action = a
		}
	}
	if action == "" || (action == "create" && method != http.MethodPost) {
		action = methodToAction(method)
	}
	return ActionResource{Action: action, Resource: resource}
}

func splitPath(route string) []string {
	var out []string
	for _, s := range strings.Split(route, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func methodToAction(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	case http.MethodGet:
		return "get"
	default:
		return strings.ToLower(method)
	}
}
