package depgraph

import "github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"

// AffectedDependencies returns the edges that must be pruned when a node is
// deleted. With a milestone id, that is every edge naming that milestone as
// either endpoint. Without one, the whole project is going away, so every edge
// touching the project or any of its milestones is returned.
func AffectedDependencies(edges []domain.Dependency, projectID, milestoneID string) []domain.Dependency {
	var out []domain.Dependency
	for _, e := range edges {
		if touches(From(e), projectID, milestoneID) || touches(To(e), projectID, milestoneID) {
			out = append(out, e)
		}
	}
	return out
}

// Prune returns edges without the ones in removed, matched by id. The input
// slice is not modified.
func Prune(edges, removed []domain.Dependency) []domain.Dependency {
	if len(removed) == 0 {
		return edges
	}
	drop := make(map[string]bool, len(removed))
	for _, r := range removed {
		drop[r.ID] = true
	}
	var out []domain.Dependency
	for _, e := range edges {
		if !drop[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

func touches(ep Endpoint, projectID, milestoneID string) bool {
	if ep.ProjectID != projectID {
		return false
	}
	return milestoneID == "" || ep.MilestoneID == milestoneID
}
