// Command feature-plot renders a feature text file as a scatter plot PNG,
// useful for eyeballing detector output without the full pipeline UI.
package main

import (
	"flag"
	"image/color"
	"log"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/visionfeat/feature"
)

func main() {
	input := flag.String("in", "", "feature text file to plot (required)")
	overlay := flag.String("overlay", "", "optional second feature file drawn in a second colour")
	output := flag.String("o", "features.png", "output PNG path")
	flag.Parse()

	if *input == "" {
		log.Fatal("usage: feature-plot -in features.txt [-overlay other.txt] [-o features.png]")
	}

	p := plot.New()
	p.Title.Text = "Feature positions"
	p.X.Label.Text = "x (px)"
	p.Y.Label.Text = "y (px)"
	// Image coordinates grow downwards.
	p.Y.Scale = invertedScale{}

	if err := addSeries(p, *input, color.RGBA{R: 31, G: 119, B: 180, A: 255}); err != nil {
		log.Fatal(err)
	}
	if *overlay != "" {
		if err := addSeries(p, *overlay, color.RGBA{R: 214, G: 39, B: 40, A: 255}); err != nil {
			log.Fatal(err)
		}
	}

	if err := p.Save(8*vg.Inch, 8*vg.Inch, *output); err != nil {
		log.Fatalf("save plot: %v", err)
	}
	log.Printf("wrote %s", *output)
}

func addSeries(p *plot.Plot, path string, col color.Color) error {
	list, err := feature.LoadFromTextFile(path)
	if err != nil {
		return err
	}

	pts := make(plotter.XYs, 0, list.Len())
	for _, f := range list.Features() {
		pts = append(pts, plotter.XY{X: f.X, Y: f.Y})
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Color = col
	scatter.GlyphStyle.Radius = vg.Points(2)

	p.Add(scatter)
	p.Legend.Add(path, scatter)
	log.Printf("%s: %d features, type %s", path, list.Len(), list.Type())
	return nil
}

// invertedScale flips an axis so that plot space matches image space.
type invertedScale struct{}

func (invertedScale) Normalize(min, max, x float64) float64 {
	return (max - x) / (max - min)
}
