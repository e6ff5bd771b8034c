package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/cli/formatter"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/depgraph"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/importer"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/wire"
	"github.com/spf13/cobra"
)

func newDoctorCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the roadmap and the store for problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(commandContext(cmd), flushTimeout)
			defer cancel()

			checks := runChecks(ctx, app)
			printLine(cmd, formatter.FormatDoctor(checks))
			failed := 0
			for _, c := range checks {
				if !c.OK {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("doctor found %d problem(s)", failed)
			}
			return nil
		},
	}
}

func runChecks(ctx context.Context, app *App) []formatter.Check {
	data := app.Roadmap.Data()
	checks := []formatter.Check{
		referencesCheck(data),
		acyclicCheck(data),
		conflictsCheck(app),
	}
	checks = append(checks, storeChecks(ctx, app)...)
	return checks
}

func referencesCheck(data domain.RoadmapData) formatter.Check {
	c := formatter.Check{Name: "entities and references are valid", OK: true}
	for _, err := range importer.ValidateRoadmap(data) {
		c.OK = false
		c.Details = append(c.Details, err.Error())
	}
	return c
}

func acyclicCheck(data domain.RoadmapData) formatter.Check {
	c := formatter.Check{Name: "dependency graph has no cycles", OK: true}
	if err := depgraph.CheckAcyclic(data.Dependencies); err != nil {
		c.OK = false
		c.Details = []string{err.Error()}
	}
	return c
}

// conflictsCheck reports owner overlaps as information; they are allowed.
func conflictsCheck(app *App) formatter.Check {
	conflicts := app.Roadmap.Conflicts()
	c := formatter.Check{Name: fmt.Sprintf("%d owner conflict(s)", len(conflicts)), OK: true}
	data := app.Roadmap.Data()
	for _, cf := range conflicts {
		c.Details = append(c.Details, fmt.Sprintf("%s overlaps %s", title(data, cf.A.ID), title(data, cf.B.ID)))
	}
	return c
}

func title(data domain.RoadmapData, projectID string) string {
	if i := data.ProjectIndex(projectID); i >= 0 {
		return data.Projects[i].Title
	}
	return projectID
}

func storeChecks(ctx context.Context, app *App) []formatter.Check {
	reach := formatter.Check{Name: "store is reachable", OK: true}
	if err := app.Sync.Probe(ctx); err != nil {
		reach.OK = false
		reach.Details = []string{err.Error()}
	}
	st := app.Sync.Status()
	if st.Pending {
		reach.Details = append(reach.Details, "local changes are waiting to be saved")
	}
	checks := []formatter.Check{reach}
	if !reach.OK || app.Store == nil {
		return checks
	}

	doc := formatter.Check{Name: "stored document is readable", OK: true}
	body, err := app.Store.Read(ctx)
	if err != nil {
		doc.OK = false
		doc.Details = []string{err.Error()}
		return append(checks, doc)
	}
	if body == nil {
		doc.Details = []string{"no document stored yet"}
		return append(checks, doc)
	}
	d, err := wire.Decode(body)
	if err != nil {
		doc.OK = false
		doc.Details = []string{err.Error()}
		return append(checks, doc)
	}
	if legacy := wire.LegacyCollections(d); len(legacy) > 0 {
		doc.Details = append(doc.Details, "legacy array collections: "+strings.Join(legacy, ", ")+" (rewritten on next save)")
	}
	if info := storeInfo(ctx, app); info != nil {
		doc.Details = append(doc.Details, fmt.Sprintf("revision %d by %s", info.Revision, domain.CoalesceStr(info.Writer, "unknown")))
	}
	return append(checks, doc)
}
