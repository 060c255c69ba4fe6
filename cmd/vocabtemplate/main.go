package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"lingoplay/internal/importer"
	"lingoplay/internal/workbook"
)

func main() {
	kindFlag := flag.String("kind", string(importer.KindVocabulary), "Template kind: vocabulary, multiple-choice, listening or arrange")
	output := flag.String("output", "", "Output file path (default: <kind>_template.xlsx)")
	all := flag.Bool("all", false, "Write templates for every kind into the output directory")
	flag.Parse()

	if *all {
		dir := *output
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory: %v", err)
		}
		for _, kind := range importer.Kinds {
			writeTemplate(kind, filepath.Join(dir, workbook.Filename(kind)))
		}
		return
	}

	kind, err := importer.ParseKind(*kindFlag)
	if err != nil {
		fmt.Printf("Error: unknown kind %q\n", *kindFlag)
		flag.PrintDefaults()
		os.Exit(1)
	}

	path := *output
	if path == "" {
		path = workbook.Filename(kind)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory: %v", err)
		}
	}
	writeTemplate(kind, path)
}

func writeTemplate(kind importer.Kind, path string) {
	file, err := os.Create(path)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", path, err)
	}
	defer file.Close()

	if err := workbook.Write(file, kind); err != nil {
		log.Fatalf("Failed to write %s template: %v", kind, err)
	}
	log.Printf("Wrote %s template to %s", kind, path)
}
