// Command generate-fixture writes a replay fixture for epanalyzer serve.
//
//	go run ./cmd/generate-fixture -region EU -technology wind -o testdata/eu-wind.json
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/epanalyzer/internal/analysis"
	"github.com/agbru/epanalyzer/internal/server"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, time.Now); err != nil {
		fmt.Fprintln(os.Stderr, "generate-fixture:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer, now func() time.Time) error {
	fs := flag.NewFlagSet("generate-fixture", flag.ContinueOnError)
	region := fs.String("region", string(analysis.RegionEU), "Region of the fixture.")
	technology := fs.String("technology", string(analysis.TechSolar), "Technology of the fixture.")
	output := fs.String("o", "", "Output file (stdout when empty).")
	if err := fs.Parse(args); err != nil {
		return err
	}

	body, err := fixture(analysis.Region(*region), analysis.Technology(*technology), now())
	if err != nil {
		return err
	}
	if *output == "" {
		_, err = stdout.Write(body)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(*output), 0o755); err != nil {
		return err
	}
	return os.WriteFile(*output, body, 0o644)
}

// fixture returns an indented sample body that the client decodes.
func fixture(region analysis.Region, technology analysis.Technology, now time.Time) ([]byte, error) {
	if !technology.Valid() {
		return nil, fmt.Errorf("unknown technology %q", technology)
	}
	raw, err := server.SampleBody(region, technology, now)
	if err != nil {
		return nil, err
	}
	if _, err := analysis.Decode(raw); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
