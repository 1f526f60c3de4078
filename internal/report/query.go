package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/itchyny/gojq"
)

// QueryTimeout bounds the evaluation of a report query.
const QueryTimeout = 5 * time.Second

// WriteQuery evaluates the jq expression against the JSON form of r and
// writes one result per line. String results are written raw, everything
// else as compact JSON.
func WriteQuery(ctx context.Context, w io.Writer, r *Report, expression string) error {
	query, err := gojq.Parse(expression)
	if err != nil {
		return fmt.Errorf("parse query: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return fmt.Errorf("compile query: %w", err)
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	iter := code.RunWithContext(ctx, input)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, isErr := v.(error); isErr {
			return fmt.Errorf("query: %w", err)
		}
		if s, isStr := v.(string); isStr {
			if _, err := fmt.Fprintln(w, s); err != nil {
				return err
			}
			continue
		}
		out, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, string(out)); err != nil {
			return err
		}
	}
}
