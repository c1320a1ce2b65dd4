package conversation

import (
	"context"
	"fmt"
	"strings"
)

// PageMapping is a navigable page of the booking site and the phrases that
// point at it.
type PageMapping struct {
	PageID        string   `json:"page_id"`
	URL           string   `json:"url"`
	DisplayName   string   `json:"display_name"`
	Keywords      []string `json:"keywords"`
	RequiresLogin bool     `json:"requires_login"`
}

var pageMappings = []PageMapping{
	{PageID: "bookings", URL: "/my-bookings", DisplayName: "My Bookings", Keywords: []string{"my bookings", "my booking", "my reservations", "my trips"}, RequiresLogin: true},
	{PageID: "account", URL: "/account", DisplayName: "My Account", Keywords: []string{"my account", "profile", "account settings"}, RequiresLogin: true},
	{PageID: "wishlist", URL: "/wishlist", DisplayName: "Wishlist", Keywords: []string{"wishlist", "saved hotels", "favourites", "favorites"}, RequiresLogin: true},
	{PageID: "logout", URL: "/logout", DisplayName: "Log out", Keywords: []string{"log out", "logout", "sign out", "signout"}, RequiresLogin: true},
	{PageID: "register", URL: "/register", DisplayName: "Sign up", Keywords: []string{"sign up", "signup", "register", "create account"}},
	{PageID: "login", URL: "/login", DisplayName: "Log in", Keywords: []string{"log in", "login", "sign in", "signin"}},
	{PageID: "map", URL: "/hotels/map", DisplayName: "Hotel Map", Keywords: []string{"map"}},
	{PageID: "home", URL: "/", DisplayName: "Home", Keywords: []string{"home page", "homepage", "home"}},
}

// PageMappings returns the navigation table.
func PageMappings() []PageMapping {
	out := make([]PageMapping, len(pageMappings))
	copy(out, pageMappings)
	return out
}

func findPage(text string) (PageMapping, bool) {
	for _, page := range pageMappings {
		for _, kw := range page.Keywords {
			if strings.Contains(text, kw) {
				return page, true
			}
		}
	}
	return PageMapping{}, false
}

func (e *Engine) handleNavigation(ctx context.Context, t turn) reply {
	page, ok := findPage(t.text)
	if !ok {
		return reply{
			message:      "Where would you like to go? I can open your bookings, your account, your wishlist or the hotel map.",
			quickReplies: []string{"My bookings", "My account", "Open the map"},
		}
	}

	if page.RequiresLogin && e.user == nil {
		return reply{
			message:      fmt.Sprintf("Please log in to open %s.", page.DisplayName),
			quickReplies: []string{"Log in", "Sign up"},
			action:       ActionRequestLogin,
			payload:      map[string]any{"redirect": page.URL, "pageId": page.PageID},
		}
	}

	return reply{
		message: fmt.Sprintf("Opening %s.", page.DisplayName),
		action:  ActionNavigate,
		payload: map[string]any{"url": page.URL, "pageId": page.PageID},
	}
}
