package flow

import (
	"fmt"

	ferrors "github.com/matzehuels/flowboard/pkg/errors"
)

// Problem describes an edge dropped by [Sanitize].
type Problem struct {
	EdgeID string
	Err    error
}

func (p Problem) String() string { return fmt.Sprintf("%s: %v", p.EdgeID, p.Err) }

// Sanitize returns the subset of edges that [Build] would accept for the
// given nodes, together with a Problem for each dropped edge. Edges with a
// duplicate id, unknown endpoint, or out-of-range port are dropped; the
// first occurrence of a duplicated id wins.
//
// Node problems (duplicate or invalid ids, negative port counts) are not
// repairable here and are reported through the returned error.
func Sanitize(nodes []NodeProps, edges []EdgeProps) ([]EdgeProps, []Problem, error) {
	g, err := Build(nodes, nil)
	if err != nil {
		return nil, nil, err
	}

	kept := make([]EdgeProps, 0, len(edges))
	var problems []Problem
	for _, e := range edges {
		if err := ferrors.ValidateEdgeID(e.ID); err != nil {
			problems = append(problems, Problem{EdgeID: e.ID, Err: err})
			continue
		}
		if _, seen := g.Ends(e.ID); seen {
			problems = append(problems, Problem{EdgeID: e.ID, Err: ErrDuplicateEdgeID})
			continue
		}
		if err := g.Attach(e.ID, e.Ends()); err != nil {
			problems = append(problems, Problem{EdgeID: e.ID, Err: err})
			continue
		}
		kept = append(kept, e)
	}
	return kept, problems, nil
}
