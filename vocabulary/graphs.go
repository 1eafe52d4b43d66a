package vocabulary

// Reserved graph names. Graphs under the system prefix and the background
// graph are bookkeeping state owned by the synchronizer and are never
// enumerated as datasets.
const (
	// SystemPrefix marks graphs owned by the synchronizer. The bookkeeping
	// graph and every metadata graph carry this prefix.
	SystemPrefix = "system"

	// BookkeepingGraph holds one rdfs:seeAlso triple per synchronized
	// dataset, linking the content graph to its metadata graph.
	BookkeepingGraph = "system:"

	// BackgroundGraph holds supporting reference vocabulary (ontologies)
	// seeded at store initialization.
	BackgroundGraph = "background:"
)

// IsReserved reports whether a graph name is excluded from dataset
// enumeration.
func IsReserved(graph string) bool {
	if graph == BackgroundGraph {
		return true
	}
	return len(graph) >= len(SystemPrefix) && graph[:len(SystemPrefix)] == SystemPrefix
}
