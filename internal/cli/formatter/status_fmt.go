package formatter

import (
	"fmt"
	"strings"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/reconcile"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/repository"
)

// SyncBadge renders the compact connectivity indicator used in the shell
// prompt and in `sync status`.
func SyncBadge(st reconcile.Status) string {
	switch {
	case !st.Online && st.Pending:
		return StyleYellow.Render("● offline, changes queued")
	case !st.Online:
		return StyleYellow.Render("● offline")
	case st.Stalled:
		return StyleRed.Render("● sync stalled")
	case st.Pending:
		return StyleBlue.Render("● saving")
	default:
		return StyleGreen.Render("● synced")
	}
}

// FormatSyncStatus renders the reconciler state and, when available, the
// stored revision metadata.
func FormatSyncStatus(st reconcile.Status, info *repository.DocumentInfo) string {
	var b strings.Builder
	b.WriteString(Header("Sync") + "\n")
	fmt.Fprintf(&b, "%s %s\n", Dim("State:    "), SyncBadge(st))
	if st.LastErr != nil {
		fmt.Fprintf(&b, "%s %s\n", Dim("Last error:"), StyleRed.Render(st.LastErr.Error()))
	}
	if info == nil {
		fmt.Fprintf(&b, "%s %s\n", Dim("Store:    "), Dim("unavailable"))
		return b.String()
	}
	fmt.Fprintf(&b, "%s %d\n", Dim("Revision: "), info.Revision)
	if !info.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "%s %s\n", Dim("Updated:  "), info.UpdatedAt.Format("2006-01-02 15:04:05 MST"))
	}
	if info.Writer != "" {
		fmt.Fprintf(&b, "%s %s\n", Dim("Writer:   "), info.Writer)
	}
	fmt.Fprintf(&b, "%s %d bytes\n", Dim("Size:     "), info.Size)
	return b.String()
}

// Check is one line of the doctor report.
type Check struct {
	Name    string
	OK      bool
	Details []string
}

// FormatDoctor renders the doctor checks, listing the problems under each
// failed one.
func FormatDoctor(checks []Check) string {
	var b strings.Builder
	b.WriteString(Header("Doctor") + "\n")
	for _, c := range checks {
		if c.OK {
			b.WriteString(StyleGreen.Render("✓ ") + c.Name + "\n")
		} else {
			b.WriteString(StyleRed.Render("✗ ") + c.Name + "\n")
		}
		for _, d := range c.Details {
			b.WriteString("    " + Dim(d) + "\n")
		}
	}
	return b.String()
}
