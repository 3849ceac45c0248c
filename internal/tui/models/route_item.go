package models

import (
	"github.com/brizzai/backend-client/internal/catalog"
	"github.com/charmbracelet/lipgloss"
)

// RouteItem wraps a catalog Route for display in the list
// Implements list.Item
type RouteItem struct {
	Route catalog.Route
}

func (i RouteItem) Title() string {
	return i.Route.String()
}

func (i RouteItem) Description() string {
	if i.Route.Summary == "" {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Render("[no summary]")
	}
	return i.Route.Summary
}

func (i RouteItem) FilterValue() string {
	return i.Route.Path + " " + i.Route.Summary
}
