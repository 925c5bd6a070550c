package plan

var descriptions = map[string]string{
	"Append":            "Used in a UNION to merge multiple record sets by appending them together.",
	"Limit":             "Returns a specified number of rows from a record set.",
	"Sort":              "Sorts a record set based on the specified sort key.",
	"Incremental Sort":  "Sorts a record set that is already sorted on a prefix of the sort key, one group of equal prefix values at a time.",
	"Nested Loop":       "Merges two record sets by looping through every record in the first set and trying to find a match in the second set. All matching records are returned.",
	"Merge Join":        "Merges two record sets by first sorting them on a join key.",
	"Hash":              "Generates a hash table from the records in the input recordset. Hash is used by Hash Join.",
	"Hash Join":         "Joins to record sets by hashing one of them (using a Hash Scan).",
	"Aggregate":         "Groups records together based on a GROUP BY or aggregate function (e.g. sum()).",
	"Hashaggregate":     "Groups records together based on a GROUP BY or aggregate function (e.g. sum()). Hash Aggregate uses a hash to first organize the records by a key.",
	"Seq Scan":          "Finds relevant records by sequentially scanning the input record set. When reading from a table, Seq Scans (unlike Index Scans) perform a single read operation (only the table is read).",
	"Index Scan":        "Finds relevant records based on an Index. Index Scans perform 2 read operations: one to read the index and another to read the actual value from the table.",
	"Index Only Scan":   "Finds relevant records based on an Index. Index Only Scans perform a single read operation from the index and do not read from the corresponding table.",
	"Bitmap Heap Scan":  "Searches through the pages returned by the Bitmap Index Scan for relevant rows.",
	"Bitmap Index Scan": "Uses a Bitmap Index (index which uses 1 bit per page) to find all relevant pages. Results of this node are fed to the Bitmap Heap Scan.",
	"CTE Scan":          "Performs a sequential scan of Common Table Expression (CTE) query results. Note that results of a CTE are materialized (calculated and temporarily stored).",
	"Materialize":       "Stores the records of its input in memory (or a temporary file) so that they can be read again without recomputing them.",
	"Gather":            "Collects the records produced by parallel workers into a single record set, in no particular order.",
	"Gather Merge":      "Collects the sorted records produced by parallel workers into a single record set, preserving their sort order.",
}

// Describe returns the one-sentence description of a node type, or "" when
// the type is unknown or empty.
func Describe(nodeType string) string {
	return descriptions[nodeType]
}
