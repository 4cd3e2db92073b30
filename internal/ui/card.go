package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/matcha-app/matcha-tui/internal/fame"
	"github.com/matcha-app/matcha-tui/internal/types"
)

func renderCard(p types.CandidateProfile, style lipgloss.Style) string {
	lines := []string{
		titleStyle.Render(fmt.Sprintf("%s, %d", p.FirstName, p.Age)),
		presenceOf(p),
		locationLine(p),
		fame.Label(p.FameRating),
		fame.Bar(p.FameRating, 20),
	}
	if len(p.Tags) > 0 {
		lines = append(lines, mutedStyle.Render("#"+strings.Join(p.Tags, " #")))
	}
	return style.Render(strings.Join(lines, "\n"))
}

// presenceOf renders the online dot or a humanized last-seen stamp.
func presenceOf(p types.CandidateProfile) string {
	if p.IsOnline {
		return onlineStyle.Render("● online")
	}
	if p.LastSeen.IsZero() {
		return mutedStyle.Render("○ offline")
	}
	return mutedStyle.Render("○ " + humanize.Time(p.LastSeen))
}

func locationLine(p types.CandidateProfile) string {
	if p.DistanceKm != nil {
		return mutedStyle.Render(fmt.Sprintf("%s · %.1f km", p.Location, *p.DistanceKm))
	}
	return mutedStyle.Render(p.Location)
}
