package dependency

import (
	"strconv"
	"strings"

	. "treedep/nlp/types"
)

// NO_PATH is the head and constituent path of terminals that do not head
// their parent
const NO_PATH = "*"

// Annotation describes how far the head status of a terminal reaches up the
// tree
type Annotation struct {
	// DepRel and DepRelLabel are the edge label and the tag of the
	// terminal's maximal projection
	DepRel, DepRelLabel string
	IsHead              bool
	// HeadRelations joins the edge labels along the head chain below the
	// maximal projection, ConstituentPath the tags of their parents
	HeadRelations   string
	ConstituentPath string
	// Attachment is the length of the head chain
	Attachment int
}

func (a Annotation) String() string {
	return "[" + a.DepRel + "," + a.HeadRelations + "," + a.ConstituentPath + "," + strconv.Itoa(a.Attachment) + "]"
}

// Annotations are keyed by the node index of terminals
type Annotations map[int]Annotation

// Annotate follows the head chain of every terminal up to its maximal
// projection. marks must come from head finding on t.
func Annotate(t *Tree, marks HeadMarks) Annotations {
	annotations := make(Annotations, len(t.Nodes))
	for _, term := range t.OrderedTerminals() {
		current := term
		chain := []int{term}
		for {
			parent := t.Nodes[current].Parent
			if parent == NO_NODE || marks[parent] != t.ChildIndex(current) {
				break
			}
			current = parent
			chain = append(chain, current)
		}
		a := Annotation{
			DepRel:          t.Nodes[current].Edge,
			DepRelLabel:     t.Nodes[current].Tag,
			IsHead:          marks.IsHead(t, term),
			HeadRelations:   NO_PATH,
			ConstituentPath: NO_PATH,
			Attachment:      len(chain) - 1,
		}
		if len(chain) > 1 {
			edges := make([]string, len(chain)-1)
			parents := make([]string, len(chain)-1)
			for i, n := range chain[:len(chain)-1] {
				edges[i] = t.Nodes[n].Edge
				parents[i] = t.Nodes[t.Nodes[n].Parent].Tag
			}
			a.HeadRelations = strings.Join(edges, "|")
			a.ConstituentPath = strings.Join(parents, "|")
		}
		annotations[term] = a
	}
	return annotations
}
