package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/shotbot/internal/application"
	"github.com/bnema/shotbot/internal/domain"
)

const cooldownBarWidth = 24

func renderSession(status application.SessionStatus, s styles) string {
	lines := []string{
		s.title.Render("Party Session " + string(status.Session.ID)),
		s.header.Render(fmt.Sprintf("started: %s  elapsed: %s  invitees: %d",
			formatStarted(status.Session.StartedAt),
			formatSeconds(status.Elapsed),
			len(status.Invitees),
		)),
	}

	if len(status.Invitees) == 0 {
		lines = append(lines, s.empty.Render("Nobody has been served yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, invitee := range status.Invitees {
		lines = append(lines, s.section.Render(renderInvitee(invitee, status.Elapsed, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderInvitee(status application.InviteeStatus, elapsed int64, s styles) string {
	invitee := status.Invitee

	return lipgloss.JoinVertical(
		lipgloss.Left,
		s.invitee.Render(fmt.Sprintf("%s (%s)", strings.TrimSpace(invitee.Name), invitee.ID)),
		s.detail.Render(fmt.Sprintf("tolerance: %s  shots: %d  last: %s",
			invitee.Tolerance.Label(),
			len(invitee.ShotsTaken),
			lastShotLabel(invitee, elapsed),
		)),
		cooldownLine(status, elapsed, s),
	)
}

func cooldownLine(status application.InviteeStatus, elapsed int64, s styles) string {
	label := s.label.Render("cooldown:")
	bar := renderProgressBar(cooldownPercent(status, elapsed), cooldownBarWidth, s)

	var state string
	if status.ShotDue {
		state = s.ready.Render("ready for a shot")
	} else {
		percent := cooldownPercent(status, elapsed)
		style := lipgloss.NewStyle().Foreground(interpolateColor(percent, 0, 100))
		state = style.Render("next shot in " + formatSeconds(status.NextShotIn))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, label, " ", bar, " ", state)
}

// cooldownPercent is how much of the required wait has already passed.
func cooldownPercent(status application.InviteeStatus, elapsed int64) float64 {
	if status.ShotDue {
		return 100
	}

	invitee := status.Invitee
	last, ok := invitee.LastShot()
	if !ok {
		return 100
	}

	total := domain.MinShotWait(invitee.Tolerance, invitee.ShotsTaken) + 1
	if total <= 0 {
		return 100
	}

	return clampPercent(float64(elapsed-last) / float64(total) * 100)
}

func lastShotLabel(invitee domain.Invitee, elapsed int64) string {
	last, ok := invitee.LastShot()
	if !ok {
		return "never"
	}

	return formatSeconds(elapsed-last) + " ago"
}

func renderSessionList(sessions []domain.Session, s styles) string {
	lines := []string{
		s.title.Render("Party Sessions"),
		s.header.Render(fmt.Sprintf("sessions: %d", len(sessions))),
	}

	if len(sessions) == 0 {
		lines = append(lines, s.empty.Render("No sessions recorded."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, session := range sessions {
		lines = append(lines, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.invitee.Render(string(session.ID)),
			"  ",
			s.detail.Render(formatStarted(session.StartedAt)),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderProgressBar(percent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(percent) / 100))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func formatStarted(startedAt time.Time) string {
	if startedAt.IsZero() {
		return "unknown"
	}

	return startedAt.UTC().Format("2006-01-02 15:04:05 UTC")
}

func formatSeconds(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}

	return (time.Duration(seconds) * time.Second).String()
}

// interpolateColor maps value onto the 240..255 greyscale ramp.
func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	return lipgloss.Color(fmt.Sprintf("%d", int(240+15*normalized)))
}
