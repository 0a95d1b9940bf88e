package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"batch-scorer-server/scoring"
)

// linearSchema declares the built-in linear scorer: a tabular dataset,
// a model artifact holding per-column weights, a score threshold, and a
// tabular result.
func linearSchema() scoring.Schema {
	return scoring.Schema{
		Inputs: []scoring.Entry{
			{Name: "data", Kind: scoring.KindTabular, HasHeader: true},
			{Name: "model", Kind: scoring.KindFile},
		},
		Outputs: []scoring.Entry{
			{Name: "result", Kind: scoring.KindTabular, HasHeader: true},
		},
		Params: []scoring.Entry{
			{Name: "threshold", Kind: scoring.KindPrimitive},
		},
	}
}

// linearScorer applies a weighted sum per row and labels rows against
// the threshold. The model artifact is a JSON map of column name to
// weight.
func linearScorer() scoring.Func {
	return scoring.NewFunc(linearSchema().Names(), func(ctx context.Context, args scoring.Args) error {
		modelData, err := os.ReadFile(args["model"].Path)
		if err != nil {
			return err
		}
		var weights map[string]float64
		if err := json.Unmarshal(modelData, &weights); err != nil {
			return fmt.Errorf("model artifact is not a weight map: %w", err)
		}

		threshold, err := toFloat(args["threshold"].Value)
		if err != nil {
			return fmt.Errorf("threshold: %w", err)
		}

		in, err := os.Open(args["data"].Path)
		if err != nil {
			return err
		}
		defer in.Close()

		out, err := os.Create(args["result"].Path)
		if err != nil {
			return err
		}
		defer out.Close()

		reader := csv.NewReader(in)
		writer := csv.NewWriter(out)
		defer writer.Flush()

		header, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}
		if err := writer.Write(append(header, "score", "label")); err != nil {
			return err
		}

		for {
			row, err := reader.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}

			var score float64
			for i, col := range header {
				w, ok := weights[col]
				if !ok {
					continue
				}
				v, err := strconv.ParseFloat(row[i], 64)
				if err != nil {
					return fmt.Errorf("column %q row value %q is not numeric", col, row[i])
				}
				score += w * v
			}

			label := "negative"
			if score >= threshold {
				label = "positive"
			}
			if err := writer.Write(append(row, strconv.FormatFloat(score, 'f', 4, 64), label)); err != nil {
				return err
			}
		}

		return writer.Error()
	})
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(n, 64)
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}

// registerBuiltins loads the scorers compiled into this worker
func registerBuiltins(registry *Registry) error {
	reg, err := scoring.Register(linearScorer(), linearSchema(), []string{"encoding/csv"}, "linear-batch")
	if err != nil {
		return err
	}
	return registry.Add(reg)
}
