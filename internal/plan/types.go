package plan

// Node types the analyzer treats specially.
const (
	CTEScan      = "CTE Scan"
	SequenceScan = "Seq Scan"
)

// Row estimate directions.
const (
	Under = "Under"
	Over  = "Over"
)

type PlanNode struct {
	// Core identity
	NodeType           string `json:"Node Type"`
	ParentRelationship string `json:"Parent Relationship,omitempty"`
	SubplanName        string `json:"Subplan Name,omitempty"`
	Strategy           string `json:"Strategy,omitempty"`
	ScanDirection      string `json:"Scan Direction,omitempty"`

	// Estimates vs actuals
	StartupCost       float64 `json:"Startup Cost"`
	TotalCost         float64 `json:"Total Cost"`
	PlanRows          int64   `json:"Plan Rows"`
	PlanWidth         int64   `json:"Plan Width"`
	ActualStartupTime float64 `json:"Actual Startup Time,omitempty"`
	ActualTotalTime   float64 `json:"Actual Total Time,omitempty"`
	ActualRows        int64   `json:"Actual Rows,omitempty"`
	ActualLoops       int64   `json:"Actual Loops,omitempty"`

	// Relation/index info
	Schema       string `json:"Schema,omitempty"`
	RelationName string `json:"Relation Name,omitempty"`
	Alias        string `json:"Alias,omitempty"`
	IndexName    string `json:"Index Name,omitempty"`
	CTEName      string `json:"CTE Name,omitempty"`

	// Conditions
	IndexCond                 string `json:"Index Cond,omitempty"`
	HashCond                  string `json:"Hash Cond,omitempty"`
	Filter                    string `json:"Filter,omitempty"`
	RowsRemovedByFilter       int64  `json:"Rows Removed by Filter,omitempty"`
	RowsRemovedByIndexRecheck int64  `json:"Rows Removed by Index Recheck,omitempty"`
	HeapFetches               int64  `json:"Heap Fetches,omitempty"`
	JoinType                  string `json:"Join Type,omitempty"`

	// Keys and projections
	GroupKey   []string `json:"Group Key,omitempty"`
	SortKey    []string `json:"Sort Key,omitempty"`
	SortMethod string   `json:"Sort Method,omitempty"`
	Output     []string `json:"Output,omitempty"`

	// Buffers and I/O timing, carried for display only
	SharedHitBlocks     int64   `json:"Shared Hit Blocks,omitempty"`
	SharedReadBlocks    int64   `json:"Shared Read Blocks,omitempty"`
	SharedDirtiedBlocks int64   `json:"Shared Dirtied Blocks,omitempty"`
	SharedWrittenBlocks int64   `json:"Shared Written Blocks,omitempty"`
	LocalHitBlocks      int64   `json:"Local Hit Blocks,omitempty"`
	LocalReadBlocks     int64   `json:"Local Read Blocks,omitempty"`
	LocalDirtiedBlocks  int64   `json:"Local Dirtied Blocks,omitempty"`
	LocalWrittenBlocks  int64   `json:"Local Written Blocks,omitempty"`
	TempReadBlocks      int64   `json:"Temp Read Blocks,omitempty"`
	TempWrittenBlocks   int64   `json:"Temp Written Blocks,omitempty"`
	IOReadTime          float64 `json:"I/O Read Time,omitempty"`
	IOWriteTime         float64 `json:"I/O Write Time,omitempty"`

	// Derived by the analyzer; zero until a document is annotated.
	ExclusiveCost     float64 `json:"Exclusive Cost,omitempty"`
	ExclusiveDuration float64 `json:"Exclusive Duration,omitempty"`
	EstimateFactor    float64 `json:"Row Estimate Factor,omitempty"`
	EstimateDirection string  `json:"Row Estimate Direction,omitempty"`
	Costliest         bool    `json:"Costliest,omitempty"`
	Largest           bool    `json:"Largest,omitempty"`
	Slowest           bool    `json:"Slowest,omitempty"`

	// Children
	Plans []PlanNode `json:"Plans,omitempty"`
}

// Explain represents the top-level EXPLAIN JSON output from PostgreSQL.
type Explain struct {
	Plan          PlanNode `json:"Plan"`
	PlanningTime  float64  `json:"Planning Time,omitempty"`
	ExecutionTime float64  `json:"Execution Time,omitempty"`
}
