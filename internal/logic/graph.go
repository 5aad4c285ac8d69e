package logic

import (
	"strings"

	"github.com/qgen-labs/survey-logic-service/internal/models"
)

// BuildDependencyGraph returns the visibility dependency adjacency: for each
// question with condition rules, the distinct source question ids its rules
// reference. Questions without conditions have no entry.
func BuildDependencyGraph(questions []models.Question) map[string][]string {
	graph := make(map[string][]string)
	for i := range questions {
		q := &questions[i]
		if q.Conditions == nil || len(q.Conditions.Rules) == 0 {
			continue
		}
		seen := make(map[string]bool)
		var deps []string
		for _, rule := range q.Conditions.Rules {
			qid := strings.TrimSpace(rule.SourceQID)
			if qid == "" || seen[qid] {
				continue
			}
			seen[qid] = true
			deps = append(deps, qid)
		}
		if len(deps) > 0 {
			graph[q.ID] = deps
		}
	}
	return graph
}

// CircularDependencies returns, in question order, the ids of questions whose
// dependency chain reaches a cycle. Detection runs an independent DFS per
// start node, so every member of a cycle is reported (and a question feeding
// into a cycle is too). The validation panel shows one issue per affected
// question rather than one per distinct cycle.
func CircularDependencies(questions []models.Question) []string {
	graph := BuildDependencyGraph(questions)

	var flagged []string
	for i := range questions {
		id := questions[i].ID
		if id == "" {
			continue
		}
		if _, ok := graph[id]; !ok {
			continue
		}
		visited := make(map[string]bool)
		stack := make(map[string]bool)
		if hasCycle(id, graph, visited, stack) {
			flagged = append(flagged, id)
		}
	}
	return flagged
}

// hasCycle is a standard white/gray/black DFS collapsed to two sets: stack
// holds the current path (gray), visited everything fully explored (black).
// Revisiting a gray node is a cycle; a black node short-circuits so each node
// expands at most once per start, keeping the walk O(V+E).
func hasCycle(id string, graph map[string][]string, visited, stack map[string]bool) bool {
	if _, ok := graph[id]; !ok {
		return false
	}
	if stack[id] {
		return true
	}
	if visited[id] {
		return false
	}

	visited[id] = true
	stack[id] = true

	for _, dep := range graph[id] {
		if hasCycle(dep, graph, visited, stack) {
			return true
		}
	}

	delete(stack, id)
	return false
}
