package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/sgpa/core/result"
)

// calc prints the result computed from a JSON file holding either a result.ManualEntry
// or a bare list of result.Subject.
func (cli *commandLine) calc(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading subjects file")
	}

	var entry result.ManualEntry
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &entry.Subjects)
	} else {
		err = json.Unmarshal(trimmed, &entry)
	}
	if err != nil {
		return errors.Wrap(err, "decoding subjects file")
	}

	res, err := cli.resultSvc.Calculate(context.Background(), entry)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
