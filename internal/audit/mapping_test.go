package audit

import "testing"

func TestParseRoute(t *testing.T) {
	tests := []struct {
		method, route    string
		action, resource string
	}{
		{"POST", "/auth/signup", "signup", "user"},
		{"POST", "/auth/login", "login", "user"},
		{"DELETE", "/auth/logout", "logout", "user"},
		{"PUT", "/auth/deactivate-user", "deactivate", "user"},
		{"POST", "/auth/change-password", "change_password", "user"},
		{"DELETE", "/auth/delete-user", "delete", "user"},
		{"POST", "/auth/update-user", "update", "user"},
		{"POST", "/movies/add-movie", "create", "movie"},
		{"PUT", "/movies/:id", "update", "movie"},
		{"DELETE", "/movies/:id", "delete", "movie"},
		{"POST", "/movies/create-movie-star", "create", "star"},
		{"PUT", "/movies/update-movie-star/:id", "update", "star"},
		{"DELETE", "/movies/remove-star/:id", "delete", "star"},
		{"POST", "/movies/:id/stars", "link", "movie"},
		{"POST", "/theaters/", "create", "theater"},
		{"PUT", "/theaters/:id", "update", "theater"},
		{"POST", "/theaters/screen", "create", "screen"},
		{"PUT", "/theaters/screen/:id", "update", "screen"},
		{"DELETE", "/theaters/screens/:id", "delete", "screen"},
		{"POST", "/theaters/screen/show-timings", "create", "show_timing"},
		{"PUT", "/theaters/screen/show-timings/:id", "update", "show_timing"},
		{"GET", "/widgets", "get", "widget"},
		{"POST", "", "create", "unknown"},
	}
	for _, tt := range tests {
		ar := ParseRoute(tt.method, tt.route)
		if ar.Action != tt.action || ar.Resource != tt.resource {
			t.Errorf("ParseRoute(%s %s) = %s/%s, want %s/%s",
				tt.method, tt.route, ar.Action, ar.Resource, tt.action, tt.resource)
		}
	}
}
