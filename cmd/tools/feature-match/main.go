// Command feature-match establishes correspondences between two feature text
// files and writes them as a matched-pair file.
//
// Candidates are gated spatially with the nearest-neighbour query of the
// second list, then accepted or rejected on descriptor distance when both
// sides carry descriptors. Lists loaded from text files carry no descriptors,
// so by default matching is purely spatial; the tool is primarily exercised
// by pipelines that populate descriptors before matching.
package main

import (
	"flag"
	"log"

	"github.com/banshee-data/visionfeat/feature"
)

func main() {
	pathA := flag.String("a", "", "first feature file (required)")
	pathB := flag.String("b", "", "second feature file (required)")
	output := flag.String("o", "matches.txt", "output matched-pair file")
	gate := flag.Float64("gate", 25.0, "spatial gating radius in pixels")
	maxDist := flag.Float64("max-desc-dist", 0, "descriptor distance threshold (0 disables the descriptor check)")
	flag.Parse()

	if *pathA == "" || *pathB == "" {
		log.Fatal("usage: feature-match -a left.txt -b right.txt [-o matches.txt -gate 25]")
	}

	listA, err := feature.LoadFromTextFile(*pathA)
	if err != nil {
		log.Fatalf("load %s: %v", *pathA, err)
	}
	listB, err := feature.LoadFromTextFile(*pathB)
	if err != nil {
		log.Fatalf("load %s: %v", *pathB, err)
	}

	matches := matchLists(listA, listB, *gate, *maxDist)
	if err := matches.SaveToTextFile(*output); err != nil {
		log.Fatalf("save %s: %v", *output, err)
	}
	log.Printf("matched %d/%d features (gate %.1fpx) -> %s", matches.Len(), listA.Len(), *gate, *output)
}

// matchLists pairs each feature of a with its nearest spatial neighbour in b
// within the gate radius. When maxDescDist is positive and both features
// carry descriptors, pairs over the descriptor threshold are rejected.
func matchLists(a, b *feature.List, gate, maxDescDist float64) *feature.MatchedList {
	matches := feature.NewMatchedList()
	for _, f := range a.Features() {
		candidate, _, ok := b.Nearest(f.X, f.Y, gate)
		if !ok {
			continue
		}
		if maxDescDist > 0 {
			d, err := f.DescriptorDistance(candidate, feature.KindAny, true)
			if err != nil || d > maxDescDist {
				continue
			}
		}
		matches.Append(f, candidate)
	}
	return matches
}
