package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/zarianw/parquet-cpp/internal"
)

func main() {
	switch os.Args[1] {
	case "inspect":
		if err := inspect(os.Args[2]); err != nil {
			panic(err)
		}
	default:
		panic("unknown command")
	}
}

func inspect(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer f.Close()

	metadata, err := internal.ReadFileMetaData(f)
	if err != nil {
		return fmt.Errorf("failed to read metadata of parquet file: %w", err)
	}

	inspected, err := internal.Inspect(metadata)
	if err != nil {
		return fmt.Errorf("failed to inspect parquet file: %w", err)
	}

	j, err := json.MarshalIndent(inspected, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal inspection result: %w", err)
	}

	fmt.Println(string(j))
	return nil
}
