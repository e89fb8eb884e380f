package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"guitarla/internal/importer"
	catalogsvc "guitarla/internal/service/catalog"
)

func main() {
	var (
		filePath string
		outPath  string
	)
	flag.StringVar(&filePath, "file", "", "Path to the catalog CSV export (id,name,image,description,price)")
	flag.StringVar(&outPath, "out", "catalog.json", "Output catalog file; .json or .toml")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	start := time.Now()
	items, err := importer.NewCSVImporter(f).Run()
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	// Validate the same way the server will when it loads the file.
	if _, err := catalogsvc.New(items); err != nil {
		log.Fatalf("invalid catalog: %v", err)
	}
	if err := catalogsvc.WriteFile(outPath, items); err != nil {
		log.Fatalf("write catalog: %v", err)
	}

	fmt.Printf("Imported %d items into %s in %s\n", len(items), outPath, time.Since(start).Truncate(time.Millisecond))
}
