// Command feature-dump inspects a feature text file and optionally imports it
// into a feature database.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/banshee-data/visionfeat/feature"
	"github.com/banshee-data/visionfeat/feature/storage/sqlite"
	"github.com/banshee-data/visionfeat/internal/units"
	"github.com/banshee-data/visionfeat/internal/version"
)

func main() {
	input := flag.String("in", "", "feature text file to inspect (required)")
	dbPath := flag.String("db", "", "optional sqlite database to import the list into")
	label := flag.String("label", "", "label for the imported feature set")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("feature-dump %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}
	if *input == "" {
		log.Fatal("usage: feature-dump -in features.txt [-db features.db -label frame-0]")
	}

	list, err := feature.LoadFromTextFile(*input)
	if err != nil {
		log.Fatalf("load %s: %v", *input, err)
	}

	printSummary(list)

	if *dbPath == "" {
		return
	}
	db, err := sqlite.Open(*dbPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	store := sqlite.NewFeatureStore(db)
	setID, err := store.SaveList(*label, list)
	if err != nil {
		log.Fatalf("import feature set: %v", err)
	}
	log.Printf("imported %d features as set %s", list.Len(), setID)
}

func printSummary(list *feature.List) {
	fmt.Printf("features: %d\n", list.Len())
	fmt.Printf("type:     %s\n", list.Type())

	if id, ok := list.MaxID(); ok {
		fmt.Printf("max id:   %d\n", id)
	}
	if list.Empty() {
		return
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	minOrient, maxOrient := math.Inf(1), math.Inf(-1)
	tracked := 0
	for _, f := range list.Features() {
		minX, maxX = math.Min(minX, f.X), math.Max(maxX, f.X)
		minY, maxY = math.Min(minY, f.Y), math.Max(maxY, f.Y)
		minOrient = math.Min(minOrient, f.Orientation)
		maxOrient = math.Max(maxOrient, f.Orientation)
		if f.TrackStatus == feature.StatusTracked {
			tracked++
		}
	}
	fmt.Printf("bounds:   x [%g, %g]  y [%g, %g]\n", minX, maxX, minY, maxY)
	fmt.Printf("orient:   [%.1f, %.1f] deg\n",
		units.ConvertAngle(minOrient, units.Degrees),
		units.ConvertAngle(maxOrient, units.Degrees))
	fmt.Printf("tracked:  %d/%d\n", tracked, list.Len())
}
