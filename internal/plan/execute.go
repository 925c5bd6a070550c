package plan

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

const explainPrefix = "EXPLAIN (ANALYZE, VERBOSE, BUFFERS, FORMAT JSON) "

// Execute runs the query under EXPLAIN ANALYZE inside a transaction that is
// always rolled back, so data-modifying statements leave no trace.
func Execute(ctx context.Context, dbConn string, sql string) ([]Explain, error) {
	conn, err := pgx.Connect(ctx, dbConn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	log.Ctx(ctx).Debug().Str("host", conn.Config().Host).Str("database", conn.Config().Database).Msg("running EXPLAIN ANALYZE")

	var jsonStr string
	err = tx.QueryRow(ctx, explainPrefix+sql).Scan(&jsonStr)
	if err != nil {
		return nil, fmt.Errorf("executing EXPLAIN: %w", err)
	}

	return ParseJSONPlan([]byte(jsonStr))
}
