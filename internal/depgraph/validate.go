// Package depgraph keeps the dependency edge set a DAG.
//
// A graph node is either a whole project (coarse) or one milestone of a
// project (fine). An edge from project A to milestone M of project B relates
// A to M only; it says nothing about the rest of B.
package depgraph

import (
	"fmt"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
)

// Rejection reasons returned in Result.Reason.
const (
	ReasonSelf      = "self-dependency"
	ReasonDuplicate = "duplicate"
	ReasonCycle     = "would create a circular dependency"
)

// Endpoint names one side of a dependency edge. MilestoneID narrows the
// endpoint from the whole project to that milestone.
type Endpoint struct {
	ProjectID   string
	MilestoneID string
}

// NodeID returns the graph identity of the endpoint. Milestone nodes are
// qualified by their project because milestone ids are only unique within a
// project.
func (e Endpoint) NodeID() string {
	if e.MilestoneID != "" {
		return "m:" + e.ProjectID + "/" + e.MilestoneID
	}
	return "p:" + e.ProjectID
}

func (e Endpoint) String() string {
	if e.MilestoneID != "" {
		return e.ProjectID + "/" + e.MilestoneID
	}
	return e.ProjectID
}

// From returns the source endpoint of d.
func From(d domain.Dependency) Endpoint {
	return Endpoint{ProjectID: d.FromProjectID, MilestoneID: d.FromMilestoneID}
}

// To returns the target endpoint of d.
func To(d domain.Dependency) Endpoint {
	return Endpoint{ProjectID: d.ToProjectID, MilestoneID: d.ToMilestoneID}
}

// Result is the outcome of Validate. Reason is empty when Valid.
type Result struct {
	Valid  bool
	Reason string
}

// Err converts an invalid result into a validation error for the caller's
// mutation; it returns nil for a valid result.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return domain.NewValidationError("dependency", r.Reason)
}

// Validate reports whether the edge from → to may be added to edges. Checks
// run in order: self-loop, duplicate, cycle.
func Validate(edges []domain.Dependency, from, to Endpoint) Result {
	if from.NodeID() == to.NodeID() {
		return Result{Reason: ReasonSelf}
	}
	for _, e := range edges {
		if From(e) == from && To(e) == to {
			return Result{Reason: ReasonDuplicate}
		}
	}
	adj := adjacency(edges)
	if reachable(adj, to.NodeID(), from.NodeID()) {
		return Result{Reason: ReasonCycle}
	}
	return Result{Valid: true}
}

// CheckAcyclic reports the first cycle found in an already stored edge set.
// Used when loading documents written by other clients.
func CheckAcyclic(edges []domain.Dependency) error {
	adj := adjacency(edges)
	for _, e := range edges {
		src, dst := From(e).NodeID(), To(e).NodeID()
		if src == dst {
			return fmt.Errorf("dependency %s: %s", e.ID, ReasonSelf)
		}
		if reachable(adj, dst, src) {
			return fmt.Errorf("dependency %s (%s -> %s) is part of a cycle", e.ID, From(e), To(e))
		}
	}
	return nil
}

func adjacency(edges []domain.Dependency) map[string][]string {
	adj := make(map[string][]string, len(edges))
	for _, e := range edges {
		src := From(e).NodeID()
		adj[src] = append(adj[src], To(e).NodeID())
	}
	return adj
}

// reachable runs an iterative DFS from start looking for target. The visited
// set guarantees termination even if the stored graph already has a cycle.
func reachable(adj map[string][]string, start, target string) bool {
	visited := map[string]bool{start: true}
	stack := []string{start}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == target {
			return true
		}
		for _, next := range adj[node] {
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}
