// Command feature-report renders two feature lists and their correspondences
// as an interactive HTML scatter chart.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/visionfeat/feature"
)

func main() {
	pathA := flag.String("a", "", "first feature file (required)")
	pathB := flag.String("b", "", "second feature file (required)")
	output := flag.String("o", "features.html", "output HTML path")
	gate := flag.Float64("gate", 25.0, "spatial gating radius for the correspondence count")
	flag.Parse()

	if *pathA == "" || *pathB == "" {
		log.Fatal("usage: feature-report -a left.txt -b right.txt [-o features.html]")
	}

	listA, err := feature.LoadFromTextFile(*pathA)
	if err != nil {
		log.Fatalf("load %s: %v", *pathA, err)
	}
	listB, err := feature.LoadFromTextFile(*pathB)
	if err != nil {
		log.Fatalf("load %s: %v", *pathB, err)
	}

	matched := 0
	for _, f := range listA.Features() {
		if _, _, ok := listB.Nearest(f.X, f.Y, *gate); ok {
			matched++
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Feature lists", Theme: "dark", Width: "900px", Height: "900px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Feature positions",
			Subtitle: subtitle(listA, listB, matched, *gate),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x (px)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "y (px)"}),
	)

	scatter.AddSeries("a", seriesData(listA), charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))
	scatter.AddSeries("b", seriesData(listB), charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("create %s: %v", *output, err)
	}
	defer f.Close()
	if err := scatter.Render(f); err != nil {
		log.Fatalf("render chart: %v", err)
	}
	log.Printf("wrote %s (%d+%d features, %d within gate)", *output, listA.Len(), listB.Len(), matched)
}

func subtitle(a, b *feature.List, matched int, gate float64) string {
	return fmt.Sprintf("a=%s b=%s  %d+%d features, %d within %.1fpx",
		a.Type(), b.Type(), a.Len(), b.Len(), matched, gate)
}

func seriesData(l *feature.List) []opts.ScatterData {
	data := make([]opts.ScatterData, 0, l.Len())
	for _, f := range l.Features() {
		data = append(data, opts.ScatterData{Value: []interface{}{f.X, f.Y}})
	}
	return data
}
