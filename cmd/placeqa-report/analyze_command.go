package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/placeqa/internal/domain"
	"github.com/kailas-cloud/placeqa/internal/domain/place"
	assessmentuc "github.com/kailas-cloud/placeqa/internal/usecase/assessment"
)

func newAnalyzeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <records.json|->",
		Short: "Score a JSON dump of place records",
		Long: "Reads a JSON array of place records, an object with a \"records\" array, " +
			"or a raw Nearby Search response with a \"results\" array. Use - for stdin.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel, err := opts.commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			records, err := parseRecords(data)
			if err != nil {
				return err
			}

			svc := assessmentuc.New(nil, assessmentuc.Options{IssuePreview: previewLimit(opts.preview)})
			res, err := svc.Analyze(ctx, records)
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}

			if opts.jsonOut {
				return writeJSON(cmd, res)
			}
			printResult(cmd.OutOrStdout(), &res)
			return nil
		},
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied input file
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// parseRecords accepts a bare array, {"records": [...]} or {"results": [...]}.
func parseRecords(data []byte) ([]place.Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty input: %w", domain.ErrInvalidArgument)
	}

	list := trimmed
	if trimmed[0] == '{' {
		var wrapper struct {
			Records json.RawMessage `json:"records"`
			Results json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("decode input: %w: %w", domain.ErrInvalidArgument, err)
		}
		switch {
		case len(wrapper.Records) > 0:
			list = bytes.TrimSpace(wrapper.Records)
		case len(wrapper.Results) > 0:
			list = bytes.TrimSpace(wrapper.Results)
		default:
			return nil, fmt.Errorf("object has neither records nor results: %w", domain.ErrInvalidArgument)
		}
	}
	if len(list) == 0 || list[0] != '[' {
		return nil, fmt.Errorf("records must be an array: %w", domain.ErrInvalidArgument)
	}

	var records []place.Record
	if err := json.Unmarshal(list, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w: %w", domain.ErrInvalidArgument, err)
	}
	return records, nil
}

// previewLimit maps zero or a negative flag value to "list everything".
func previewLimit(n int) int {
	if n <= 0 {
		return -1
	}
	return n
}
