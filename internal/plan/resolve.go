package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
)

var stdin io.Reader = os.Stdin

// Resolve turns the input argument into a single decoded EXPLAIN document.
// input may be inline JSON, a file path, "-" for stdin, or "" to prompt.
func Resolve(ctx context.Context, input string, dbConn string) (Explain, error) {
	data, source, err := readInput(input)
	if err != nil {
		return Explain{}, err
	}

	inputType := detectType(data, source)
	log.Ctx(ctx).Debug().Str("source", source).Str("type", inputType).Int("bytes", len(data)).Msg("resolved input")

	var plans []Explain

	switch inputType {
	case "json":
		plans, err = ParseJSONPlan(data)
	case "sql":
		trimmed := strings.TrimSpace(string(data))
		if strings.HasPrefix(strings.ToUpper(trimmed), "EXPLAIN") {
			return Explain{}, fmt.Errorf("input should not include EXPLAIN prefix - provide the raw query only")
		}

		if dbConn == "" {
			return Explain{}, fmt.Errorf("SQL input requires a database connection (use --db or --profile)")
		}
		plans, err = Execute(ctx, dbConn, trimmed)
	case "text":
		return Explain{}, fmt.Errorf(`%w: text format not supported - use JSON format:

EXPLAIN (ANALYZE, VERBOSE, BUFFERS, FORMAT JSON) <your query>

Then provide the complete JSON output.`, ErrMalformedInput)
	default:
		return Explain{}, fmt.Errorf("%w: unable to detect input type: expected JSON plan, SQL query, or .json/.sql file", ErrMalformedInput)
	}

	if err != nil {
		return Explain{}, err
	}
	if len(plans) > 1 {
		log.Ctx(ctx).Warn().Int("documents", len(plans)).Msg("input holds several plans, using the first")
	}
	return plans[0], nil
}

// readInput returns the raw bytes and a name describing where they came from.
func readInput(input string) ([]byte, string, error) {
	trimmed := strings.TrimSpace(input)
	switch {
	case trimmed == "":
		data, err := readInteractive()
		return data, "stdin", err
	case trimmed == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "stdin", fmt.Errorf("reading stdin: %w", err)
		}
		return data, "stdin", nil
	case strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{"):
		return []byte(trimmed), "argument", nil
	default:
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, input, fmt.Errorf("reading %s: %w", input, err)
		}
		return data, input, nil
	}
}

func readInteractive() ([]byte, error) {
	if f, ok := stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		fmt.Fprint(os.Stderr, "Paste EXPLAIN (ANALYZE, VERBOSE, BUFFERS, FORMAT JSON) output or SQL query")
		if runtime.GOOS == "windows" {
			fmt.Fprint(os.Stderr, " (Ctrl+Z, Enter to submit)\n")
		} else {
			fmt.Fprint(os.Stderr, " (Ctrl+D to submit)\n")
		}
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))

	if (strings.HasPrefix(trimmed, "[") ||
		strings.HasPrefix(trimmed, "{")) &&
		!json.Valid(data) {
		return nil, fmt.Errorf("%w: input appears truncated; for large inputs use: pgpev <file>", ErrMalformedInput)
	}

	return data, nil
}

func detectType(data []byte, filename string) string {
	if strings.HasSuffix(filename, ".json") {
		return "json"
	}
	if strings.HasSuffix(filename, ".sql") {
		return "sql"
	}
	if strings.HasSuffix(filename, ".txt") {
		return "text"
	}

	trimmed := strings.TrimSpace(string(data))

	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		return "json"
	}

	if strings.Contains(trimmed, "(cost=") {
		return "text"
	}

	upper := strings.ToUpper(trimmed)
	for _, keyword := range []string{"SELECT", "WITH", "INSERT", "UPDATE", "DELETE", "VALUES", "TABLE", "EXPLAIN"} {
		if strings.HasPrefix(upper, keyword) {
			return "sql"
		}
	}

	return "unknown"
}
