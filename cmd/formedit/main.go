// Command formedit builds a form specification from an entity schema
// document (and optional update schema) and prints the wire payload.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	formedit "github.com/goliatone/go-formedit"
	"github.com/goliatone/go-formedit/internal/loader"
	"github.com/goliatone/go-formedit/pkg/schema"
)

func main() {
	full := flag.String("schema", "", "entity schema document, path or URL")
	update := flag.String("update", "", "update schema document, path or URL (optional)")
	title := flag.String("title", "Edit", "form title")
	method := flag.String("method", "PATCH", "update action method")
	actionURL := flag.String("url", "", "update action URL")
	deleteURL := flag.String("delete-url", "", "delete action URL (optional)")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	if *full == "" || *actionURL == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	docs := loader.New(loader.Options{AllowHTTP: true})

	fullDoc, err := load(ctx, docs, *full)
	if err != nil {
		log.Fatalf("load schema: %v", err)
	}
	var updateDoc []byte
	if *update != "" {
		if updateDoc, err = load(ctx, docs, *update); err != nil {
			log.Fatalf("load update schema: %v", err)
		}
	}

	var options []formedit.Option
	if *deleteURL != "" {
		options = append(options, formedit.WithDeleteAction(formedit.Action{Method: "DELETE", URL: *deleteURL}))
	}

	spec, err := formedit.BuildSpec(*title, fullDoc, updateDoc,
		formedit.Action{Method: *method, URL: *actionURL}, options...)
	if err != nil {
		log.Fatalf("build spec: %v", err)
	}

	encoded, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		log.Fatalf("encode spec: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, encoded, 0o644); err != nil {
			log.Fatalf("write output: %v", err)
		}
		fmt.Printf("Specification written to %s\n", *output)
		return
	}
	fmt.Println(string(encoded))
}

func load(ctx context.Context, docs *loader.Loader, raw string) ([]byte, error) {
	src := schema.GuessSource(raw)
	if src == nil {
		return nil, fmt.Errorf("invalid source %q", raw)
	}
	return docs.Load(ctx, src)
}
