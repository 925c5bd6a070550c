package plan

import (
	"errors"
	"strings"
	"testing"
)

func TestParseJSONPlan_ValidPlan(t *testing.T) {
	input := `[{
		"Plan": {
			"Node Type": "Seq Scan",
			"Relation Name": "users",
			"Schema": "public",
			"Alias": "u",
			"Startup Cost": 0.00,
			"Total Cost": 20.00,
			"Plan Rows": 1000,
			"Plan Width": 8,
			"Actual Startup Time": 0.013,
			"Actual Total Time": 0.108,
			"Actual Rows": 1000,
			"Actual Loops": 1,
			"Filter": "(active = true)",
			"Rows Removed by Filter": 500,
			"Shared Hit Blocks": 5,
			"Shared Read Blocks": 10
		},
		"Planning Time": 0.085,
		"Execution Time": 0.523
	}]`

	plans, err := ParseJSONPlan([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("expected 1 plan, got %d", len(plans))
	}

	p := plans[0]
	if p.PlanningTime != 0.085 {
		t.Errorf("PlanningTime = %f, want 0.085", p.PlanningTime)
	}
	if p.ExecutionTime != 0.523 {
		t.Errorf("ExecutionTime = %f, want 0.523", p.ExecutionTime)
	}

	node := p.Plan
	if node.NodeType != "Seq Scan" {
		t.Errorf("NodeType = %q, want %q", node.NodeType, "Seq Scan")
	}
	if node.RelationName != "users" {
		t.Errorf("RelationName = %q, want %q", node.RelationName, "users")
	}
	if node.Schema != "public" {
		t.Errorf("Schema = %q, want %q", node.Schema, "public")
	}
	if node.Alias != "u" {
		t.Errorf("Alias = %q, want %q", node.Alias, "u")
	}
	if node.TotalCost != 20.00 {
		t.Errorf("TotalCost = %f, want 20.00", node.TotalCost)
	}
	if node.PlanRows != 1000 {
		t.Errorf("PlanRows = %d, want 1000", node.PlanRows)
	}
	if node.PlanWidth != 8 {
		t.Errorf("PlanWidth = %d, want 8", node.PlanWidth)
	}
	if node.ActualStartupTime != 0.013 {
		t.Errorf("ActualStartupTime = %f, want 0.013", node.ActualStartupTime)
	}
	if node.ActualTotalTime != 0.108 {
		t.Errorf("ActualTotalTime = %f, want 0.108", node.ActualTotalTime)
	}
	if node.ActualRows != 1000 {
		t.Errorf("ActualRows = %d, want 1000", node.ActualRows)
	}
	if node.ActualLoops != 1 {
		t.Errorf("ActualLoops = %d, want 1", node.ActualLoops)
	}
	if node.Filter != "(active = true)" {
		t.Errorf("Filter = %q, want %q", node.Filter, "(active = true)")
	}
	if node.RowsRemovedByFilter != 500 {
		t.Errorf("RowsRemovedByFilter = %d, want 500", node.RowsRemovedByFilter)
	}
	if node.SharedHitBlocks != 5 {
		t.Errorf("SharedHitBlocks = %d, want 5", node.SharedHitBlocks)
	}
	if node.SharedReadBlocks != 10 {
		t.Errorf("SharedReadBlocks = %d, want 10", node.SharedReadBlocks)
	}
}

func TestParseJSONPlan_NestedPlan(t *testing.T) {
	input := `[{
		"Plan": {
			"Node Type": "Sort",
			"Total Cost": 72.33,
			"Plan Rows": 1000,
			"Actual Total Time": 0.478,
			"Actual Rows": 1000,
			"Actual Loops": 1,
			"Sort Key": ["id"],
			"Sort Method": "quicksort",
			"Plans": [{
				"Node Type": "Seq Scan",
				"Parent Relationship": "Outer",
				"Relation Name": "users",
				"Total Cost": 20.00,
				"Plan Rows": 1000,
				"Actual Total Time": 0.108,
				"Actual Rows": 1000,
				"Actual Loops": 1
			}]
		},
		"Planning Time": 0.1,
		"Execution Time": 0.5
	}]`

	plans, err := ParseJSONPlan([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	node := plans[0].Plan
	if node.NodeType != "Sort" {
		t.Errorf("root NodeType = %q, want %q", node.NodeType, "Sort")
	}
	if len(node.SortKey) != 1 || node.SortKey[0] != "id" {
		t.Errorf("SortKey = %v, want [id]", node.SortKey)
	}
	if node.SortMethod != "quicksort" {
		t.Errorf("SortMethod = %q, want %q", node.SortMethod, "quicksort")
	}
	if len(node.Plans) != 1 {
		t.Fatalf("expected 1 child, got %d", len(node.Plans))
	}

	child := node.Plans[0]
	if child.NodeType != "Seq Scan" {
		t.Errorf("child NodeType = %q, want %q", child.NodeType, "Seq Scan")
	}
	if child.ParentRelationship != "Outer" {
		t.Errorf("child ParentRelationship = %q, want %q", child.ParentRelationship, "Outer")
	}
	if child.RelationName != "users" {
		t.Errorf("child RelationName = %q, want %q", child.RelationName, "users")
	}
}

func TestParseJSONPlan_HashJoinWithBuffers(t *testing.T) {
	input := `[{
		"Plan": {
			"Node Type": "Hash Join",
			"Join Type": "Inner",
			"Total Cost": 100.0,
			"Hash Cond": "(a.id = b.a_id)",
			"Shared Dirtied Blocks": 1,
			"Local Hit Blocks": 3,
			"Temp Read Blocks": 5,
			"Temp Written Blocks": 5,
			"I/O Read Time": 1.25,
			"Plans": []
		}
	}]`

	plans, err := ParseJSONPlan([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	node := plans[0].Plan
	if node.JoinType != "Inner" {
		t.Errorf("JoinType = %q, want %q", node.JoinType, "Inner")
	}
	if node.HashCond != "(a.id = b.a_id)" {
		t.Errorf("HashCond = %q, want %q", node.HashCond, "(a.id = b.a_id)")
	}
	if node.SharedDirtiedBlocks != 1 {
		t.Errorf("SharedDirtiedBlocks = %d, want 1", node.SharedDirtiedBlocks)
	}
	if node.LocalHitBlocks != 3 {
		t.Errorf("LocalHitBlocks = %d, want 3", node.LocalHitBlocks)
	}
	if node.TempReadBlocks != 5 {
		t.Errorf("TempReadBlocks = %d, want 5", node.TempReadBlocks)
	}
	if node.TempWrittenBlocks != 5 {
		t.Errorf("TempWrittenBlocks = %d, want 5", node.TempWrittenBlocks)
	}
	if node.IOReadTime != 1.25 {
		t.Errorf("IOReadTime = %f, want 1.25", node.IOReadTime)
	}
	if len(node.Plans) != 0 {
		t.Errorf("expected no children, got %d", len(node.Plans))
	}
}

func TestParseJSONPlan_IndexScanFields(t *testing.T) {
	input := `[{
		"Plan": {
			"Node Type": "Index Scan",
			"Scan Direction": "Forward",
			"Index Name": "idx_users_email",
			"Relation Name": "users",
			"Index Cond": "(email = 'test@example.com')",
			"Rows Removed by Index Recheck": 7,
			"Output": ["u.id", "u.email"]
		}
	}]`

	plans, err := ParseJSONPlan([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	node := plans[0].Plan
	if node.ScanDirection != "Forward" {
		t.Errorf("ScanDirection = %q, want %q", node.ScanDirection, "Forward")
	}
	if node.IndexName != "idx_users_email" {
		t.Errorf("IndexName = %q, want %q", node.IndexName, "idx_users_email")
	}
	if node.IndexCond != "(email = 'test@example.com')" {
		t.Errorf("IndexCond = %q", node.IndexCond)
	}
	if node.RowsRemovedByIndexRecheck != 7 {
		t.Errorf("RowsRemovedByIndexRecheck = %d, want 7", node.RowsRemovedByIndexRecheck)
	}
	if len(node.Output) != 2 || node.Output[1] != "u.email" {
		t.Errorf("Output = %v, want [u.id u.email]", node.Output)
	}
}

func TestParseJSONPlan_CTEScan(t *testing.T) {
	input := `[{
		"Plan": {
			"Node Type": "CTE Scan",
			"CTE Name": "recent_orders",
			"Alias": "ro",
			"Filter": "(amount > 100)"
		}
	}]`

	plans, err := ParseJSONPlan([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	node := plans[0].Plan
	if node.CTEName != "recent_orders" {
		t.Errorf("CTEName = %q, want %q", node.CTEName, "recent_orders")
	}
	if node.Filter != "(amount > 100)" {
		t.Errorf("Filter = %q", node.Filter)
	}
}

func TestParseJSONPlan_KeyVariants(t *testing.T) {
	input := `[{
		"plan": {
			"node_type": "Seq Scan",
			"RelationName": "users",
			"ROWS REMOVED BY FILTER": 12,
			"actual-rows": 3,
			"IO Read Time": 0.5,
			"plans": [{"Node Type": "Hash"}]
		},
		"execution time": 2.5
	}]`

	plans, err := ParseJSONPlan([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := plans[0]
	if p.ExecutionTime != 2.5 {
		t.Errorf("ExecutionTime = %f, want 2.5", p.ExecutionTime)
	}
	if p.Plan.NodeType != "Seq Scan" {
		t.Errorf("NodeType = %q, want Seq Scan", p.Plan.NodeType)
	}
	if p.Plan.RelationName != "users" {
		t.Errorf("RelationName = %q, want users", p.Plan.RelationName)
	}
	if p.Plan.RowsRemovedByFilter != 12 {
		t.Errorf("RowsRemovedByFilter = %d, want 12", p.Plan.RowsRemovedByFilter)
	}
	if p.Plan.ActualRows != 3 {
		t.Errorf("ActualRows = %d, want 3", p.Plan.ActualRows)
	}
	if p.Plan.IOReadTime != 0.5 {
		t.Errorf("IOReadTime = %f, want 0.5", p.Plan.IOReadTime)
	}
	if len(p.Plan.Plans) != 1 || p.Plan.Plans[0].NodeType != "Hash" {
		t.Errorf("Plans = %+v, want one Hash child", p.Plan.Plans)
	}
}

func TestParseJSONPlan_FractionalRows(t *testing.T) {
	input := `[{"Plan": {"Node Type": "Index Scan", "Actual Rows": 2.50, "Actual Loops": 4, "Plan Rows": 1e3}}]`

	plans, err := ParseJSONPlan([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	node := plans[0].Plan
	if node.ActualRows != 3 {
		t.Errorf("ActualRows = %d, want 3", node.ActualRows)
	}
	if node.PlanRows != 1000 {
		t.Errorf("PlanRows = %d, want 1000", node.PlanRows)
	}
}

func TestParseJSONPlan_UnknownKeysIgnored(t *testing.T) {
	input := `[{"Plan": {"Node Type": "Gather", "Workers Planned": 4, "Parallel Aware": true}, "Triggers": []}]`

	plans, err := ParseJSONPlan([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plans[0].Plan.NodeType != "Gather" {
		t.Errorf("NodeType = %q, want Gather", plans[0].Plan.NodeType)
	}
}

func TestParseJSONPlan_EmptyInput(t *testing.T) {
	_, err := ParseJSONPlan([]byte("[]"))
	if err == nil {
		t.Fatal("expected error for empty plan")
	}
	if !errors.Is(err, ErrMalformedInput) {
		t.Errorf("err = %v, want ErrMalformedInput", err)
	}
}

func TestParseJSONPlan_InvalidJSON(t *testing.T) {
	_, err := ParseJSONPlan([]byte("not json"))
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("err = %v, want ErrMalformedInput", err)
	}
}

func TestParseJSONPlan_NotAnArray(t *testing.T) {
	_, err := ParseJSONPlan([]byte(`{"Plan": {"Node Type": "Seq Scan"}}`))
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("err = %v, want ErrMalformedInput", err)
	}
}

func TestParseJSONPlan_EntryNotAnObject(t *testing.T) {
	_, err := ParseJSONPlan([]byte(`["Seq Scan"]`))
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("err = %v, want ErrMalformedInput", err)
	}
}

func TestParseJSONPlan_WrongFieldType(t *testing.T) {
	_, err := ParseJSONPlan([]byte(`[{"Plan": {"Node Type": 42}}]`))
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("err = %v, want ErrMalformedInput", err)
	}
}

func TestParseJSONPlan_MissingPlanField(t *testing.T) {
	input := `[{"Planning Time": 1.0, "Execution Time": 2.0}]`
	plans, err := ParseJSONPlan([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plans[0].Plan.NodeType != "" {
		t.Errorf("expected empty NodeType, got %q", plans[0].Plan.NodeType)
	}
}

func TestParseJSONPlan_AliasOnly(t *testing.T) {
	plans, err := ParseJSONPlan([]byte(`[{"Plan":{"Alias":"c0"}}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	node := plans[0].Plan
	if node.Alias != "c0" {
		t.Errorf("Alias = %q, want c0", node.Alias)
	}
	if node.TotalCost != 0 || node.ActualRows != 0 || node.NodeType != "" {
		t.Errorf("expected zero defaults, got %+v", node)
	}
}

func nestedPlanJSON(levels int) []byte {
	var b strings.Builder
	b.WriteString(`[{"Plan":`)
	for i := 0; i < levels; i++ {
		b.WriteString(`{"Node Type":"Materialize","Plans":[`)
	}
	b.WriteString(`{"Node Type":"Seq Scan"}`)
	b.WriteString(strings.Repeat(`]}`, levels))
	b.WriteString(`}]`)
	return []byte(b.String())
}

func TestParseJSONPlan_NestingBeyondDecoderLimit(t *testing.T) {
	_, err := ParseJSONPlan(nestedPlanJSON(5100))
	if !errors.Is(err, ErrPlanTooDeep) {
		t.Fatalf("err = %v, want ErrPlanTooDeep", err)
	}
	if errors.Is(err, ErrMalformedInput) {
		t.Errorf("err = %v, should not be reported as malformed", err)
	}
}

func TestParseJSONPlan_DeepButDecodable(t *testing.T) {
	plans, err := ParseJSONPlan(nestedPlanJSON(4000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plans[0].Plan.NodeType != "Materialize" {
		t.Errorf("NodeType = %q, want Materialize", plans[0].Plan.NodeType)
	}
}

func TestParseJSONPlan_TrailingData(t *testing.T) {
	for _, input := range []string{
		`[{}] trailing`,
		`[{"Plan": {}}] [{"Plan": {}}]`,
		`[{"Plan": {}}]}`,
	} {
		_, err := ParseJSONPlan([]byte(input))
		if !errors.Is(err, ErrMalformedInput) {
			t.Errorf("ParseJSONPlan(%q) err = %v, want ErrMalformedInput", input, err)
		}
	}

	if _, err := ParseJSONPlan([]byte("[{\"Plan\": {}}]\n  \n")); err != nil {
		t.Errorf("trailing whitespace rejected: %v", err)
	}
}

func TestParseJSONPlan_DuplicateFoldedKeys(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`[{"Plan": {"node_type": "B", "Node Type": "A", "NODETYPE": "C"}}]`, "A"},
		{`[{"Plan": {"Node Type": "A", "node_type": "B"}}]`, "A"},
		{`[{"Plan": {"node_type": "B", "NODE TYPE": "C"}}]`, "C"},
	}

	for _, tt := range tests {
		for i := 0; i < 20; i++ {
			plans, err := ParseJSONPlan([]byte(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := plans[0].Plan.NodeType; got != tt.want {
				t.Fatalf("ParseJSONPlan(%s) NodeType = %q, want %q", tt.input, got, tt.want)
			}
		}
	}
}

func TestParseJSONPlan_IntegerOutOfRange(t *testing.T) {
	for _, input := range []string{
		`[{"Plan": {"Actual Rows": 1e300}}]`,
		`[{"Plan": {"Actual Rows": -1e300}}]`,
		`[{"Plan": {"Plan Rows": 9223372036854775808}}]`,
		`[{"Plan": {"Plans": [{"Actual Loops": 1e400}]}}]`,
	} {
		_, err := ParseJSONPlan([]byte(input))
		if !errors.Is(err, ErrMalformedInput) {
			t.Errorf("ParseJSONPlan(%s) err = %v, want ErrMalformedInput", input, err)
		}
	}

	plans, err := ParseJSONPlan([]byte(`[{"Plan": {"Actual Rows": 9.2e18}}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plans[0].Plan.ActualRows != 9200000000000000000 {
		t.Errorf("ActualRows = %d, want 9200000000000000000", plans[0].Plan.ActualRows)
	}
}

func TestCanonicalKey(t *testing.T) {
	for _, key := range []string{"Node Type", "node_type", "NodeType", "node-type", " NODE  TYPE "} {
		if got := canonicalKey(key); got != "nodetype" {
			t.Errorf("canonicalKey(%q) = %q, want nodetype", key, got)
		}
	}
	if got := canonicalKey("I/O Read Time"); got != "ioreadtime" {
		t.Errorf("canonicalKey(I/O Read Time) = %q, want ioreadtime", got)
	}
}

func TestDescribe(t *testing.T) {
	if Describe("Seq Scan") == "" {
		t.Error("expected a description for Seq Scan")
	}
	if got := Describe(""); got != "" {
		t.Errorf("Describe(\"\") = %q, want empty", got)
	}
	if got := Describe("No Such Node"); got != "" {
		t.Errorf("Describe(unknown) = %q, want empty", got)
	}
}
