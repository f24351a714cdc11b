// Package main generates the OpenAPI document for the wizd HTTP API from the shared route
// definitions, registered against stub handlers so no bulbs or config are needed.
//
// Usage:
//
//	go run ./cmd/wizd-openapi > openapi.json
//	go run ./cmd/wizd-openapi --yaml > openapi.yaml
//	go run ./cmd/wizd-openapi --output openapi.json
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/wizlightd/internal/http/routes"
)

// version is set via ldflags at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "wizd-openapi: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := pflag.NewFlagSet("wizd-openapi", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	outputFile := flags.String("output", "", "Output file path (default: stdout)")
	outputYAML := flags.Bool("yaml", false, "Output as YAML instead of JSON")
	baseURL := flags.String("base-url", "", "Base URL for the API server")
	showVersion := flags.Bool("version", false, "Print version and exit")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		_, err := fmt.Fprintln(stdout, version)
		return err
	}

	data, err := generate(*baseURL, *outputYAML)
	if err != nil {
		return err
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, data, 0o644); err != nil {
			return fmt.Errorf("error writing to file: %w", err)
		}
		fmt.Fprintf(stderr, "OpenAPI spec written to %s\n", *outputFile)
		return nil
	}
	_, err = stdout.Write(data)
	return err
}

// generate renders the OpenAPI document as indented JSON or YAML
func generate(baseURL string, asYAML bool) ([]byte, error) {
	router := chi.NewRouter()
	api := humachi.New(router, routes.NewHumaConfig(version, baseURL))
	routes.Register(api, routes.StubHandlers())

	data, err := json.MarshalIndent(api.OpenAPI(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error marshaling OpenAPI spec: %w", err)
	}
	if !asYAML {
		return data, nil
	}

	// The OpenAPI types only define JSON marshalers
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error converting OpenAPI spec: %w", err)
	}
	if data, err = yaml.Marshal(doc); err != nil {
		return nil, fmt.Errorf("error marshaling OpenAPI spec: %w", err)
	}
	return data, nil
}
