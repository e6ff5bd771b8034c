package cli

import (
	"errors"
	"strings"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/cli/formatter"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func roadmapHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func runForm(fields ...huh.Field) error {
	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(roadmapHuhTheme()).
		WithShowHelp(false).
		Run()
}

func requiredInput(title string, value *string) *huh.Input {
	return huh.NewInput().Title(title).Value(value).Validate(validateRequired)
}

func dateInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("2025-06-30").
		Value(value).
		Validate(validateDate)
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func validateDate(s string) error {
	if _, err := domain.ParseDate(strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD format")
	}
	return nil
}

// promptMember fills in a missing member name and title.
func promptMember(name, title *string) error {
	return runForm(
		requiredInput("Name", name),
		huh.NewInput().Title("Job title (optional)").Value(title),
	)
}

// promptProject asks for whichever of the required project fields are
// still empty, offering the team as owner choices.
func promptProject(data domain.RoadmapData, title, owner, start, end *string) error {
	var fields []huh.Field
	if strings.TrimSpace(*title) == "" {
		fields = append(fields, requiredInput("Title", title))
	}
	if strings.TrimSpace(*owner) == "" {
		if len(data.TeamMembers) > 0 {
			opts := make([]huh.Option[string], 0, len(data.TeamMembers))
			for _, m := range data.TeamMembers {
				opts = append(opts, huh.NewOption(m.Name, m.ID))
			}
			fields = append(fields, huh.NewSelect[string]().Title("Owner").Options(opts...).Value(owner))
		} else {
			fields = append(fields, requiredInput("Owner", owner))
		}
	}
	if strings.TrimSpace(*start) == "" {
		fields = append(fields, dateInput("Start date", start))
	}
	if strings.TrimSpace(*end) == "" {
		fields = append(fields, dateInput("End date", end))
	}
	if len(fields) == 0 {
		return nil
	}
	return runForm(fields...)
}

// confirm asks a yes/no question; declining returns false.
func confirm(title string) (bool, error) {
	var ok bool
	err := runForm(huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(&ok))
	return ok, err
}
