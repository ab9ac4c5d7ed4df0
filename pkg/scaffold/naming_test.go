// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"testing"
)

func TestDashCase(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Blog":          "blog",
		"ListBlogPosts": "list-blog-posts",
		"HTMLPage":      "html-page",
		"Page404":       "page404",
		"OAuth2Client":  "o-auth2-client",
		"snake_case":    "snake-case",
	}

	for in, want := range tests {
		if got := DashCase(in); got != want {
			t.Errorf("DashCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTemplateName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"PingHandler", "ping"},
		{"ListPostsAction", "list-posts"},
		{"HomePage", "home-page"},
		{"Handler", "handler"},
		{"ActionHandler", "action"},
	}

	for _, tt := range tests {
		if got := TemplateName(tt.in); got != tt.want {
			t.Errorf("TemplateName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
