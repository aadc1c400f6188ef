package showcurves

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/go-analyze/charts"
	"github.com/mattn/go-sixel"
	"github.com/mdouchement/platinumd"
	"github.com/mdouchement/platinumd/platinum"
	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	var cpath string
	var resolution int

	cmd := &cobra.Command{
		Use:   "show-curves",
		Short: "Show the coolant temperature response of each fan",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := platinumd.Load(cpath)
			if err != nil {
				return err
			}

			maxT := 100 // Coolant loops stay well below but it leads to better x-axis values.

			//
			// Compute points
			//

			m := make(map[platinum.Fan]charts.LineSeries)
			labels := map[platinum.Fan]string{}
			decimals := 10 // The cooler reports 29.5°C

			for _, fan := range cfg.FanSettings {
				labels[fan.ID] = fan.Label

				var shaper platinumd.Shaper
				switch fan.Mode {
				case platinumd.FanModeFixed:
					shaper = flatShaper(fan.Duty)
				case platinumd.FanModeCurve:
					// The cooler's table holds the last duty past the last
					// breakpoint instead of ramping to full.
					shaper = tableShaper{
						Shaper: platinumd.NewCurveShaper(fan.Points),
						last:   fan.Points[len(fan.Points)-1],
					}
				default:
					shaper = platinumd.NewCurveShaper(fan.Points)
				}

				ls := charts.LineSeries{Name: "coolant"}
				for t := range maxT + 1 {
					for decimal := range decimals {
						temperature := float64(t) + float64(decimal)/float64(decimals)
						ls.Values = append(ls.Values, float64(shaper.Eval(temperature)))
					}
				}
				m[fan.ID] = ls
			}

			//
			// Render charts
			//

			for _, fid := range slices.Sorted(maps.Keys(m)) {
				opt := charts.NewLineChartOptionWithSeries(charts.LineSeriesList{m[fid]})
				opt.Theme = charts.GetTheme(charts.ThemeVividDark)
				opt.Padding = charts.NewBox(20, 20, 20, 20)
				opt.Title.Text = fmt.Sprintf("fan%d: %s", fid+1, labels[fid])
				opt.Title.FontStyle.FontSize = 16
				opt.Title.Offset = charts.OffsetLeft
				opt.Legend = charts.LegendOption{
					Show:     platinumd.ToPtr(true),
					Offset:   charts.OffsetCenter,
					Vertical: platinumd.ToPtr(true),
					Padding:  charts.NewBox(0, 0, 0, 20),
				}
				opt.Symbol = charts.SymbolNone
				opt.LineStrokeWidth = 2
				opt.StrokeSmoothingTension = 1
				opt.XAxis.Show = platinumd.ToPtr(true)
				opt.XAxis.Title = "°C"
				opt.XAxis.Labels = []string{} // Reset
				for t := range maxT + 1 {
					for range decimals {
						// Generate same integer for all decimals points of that integer.
						// It offers a better `opt.XAxis.LabelCount = maxT / 10' display.
						opt.XAxis.Labels = append(opt.XAxis.Labels, strconv.Itoa(t))
					}
				}
				opt.XAxis.LabelCount = maxT / 10
				opt.YAxis = []charts.YAxisOption{
					{
						Show:                   platinumd.ToPtr(true),
						Title:                  "%",
						Min:                    platinumd.ToPtr(float64(0)),
						Max:                    platinumd.ToPtr(float64(100)),
						RangeValuePaddingScale: platinumd.ToPtr(float64(0)),
						Unit:                   10,
					},
				}
				p := charts.NewPainter(charts.PainterOptions{
					OutputFormat: charts.ChartOutputPNG,
					Width:        resolution,
					Height:       int(float64(resolution) / (16.0 / 9.0)),
				})

				err := p.LineChart(opt)
				if err != nil {
					return fmt.Errorf("fan%d: %w", fid+1, err)
				}

				mPNG, err := p.Bytes()
				if err != nil {
					return fmt.Errorf("fan%d: %w", fid+1, err)
				}

				img, _, err := image.Decode(bytes.NewReader(mPNG))
				if err != nil {
					return fmt.Errorf("fan%d: %w", fid+1, err)
				}

				codec := sixel.NewEncoder(os.Stdout)
				err = codec.Encode(img)
				if err != nil {
					return fmt.Errorf("fan%d: %w", fid+1, err)
				}
			}

			return nil
		},
	}
	cmd.Flags().StringVarP(&cpath, "config", "c", "/etc/platinumd/platinumd.yml", "Configfile path")
	cmd.Flags().IntVarP(&resolution, "resolution", "r", 1000, "The width size in pixel of each graph")

	return cmd
}

type flatShaper int

func (s flatShaper) Eval(float64) int {
	return int(s)
}

type tableShaper struct {
	platinumd.Shaper
	last platinum.CurvePoint
}

func (s tableShaper) Eval(temperature float64) int {
	if temperature >= float64(s.last.Temperature) {
		return s.last.Duty
	}
	return s.Shaper.Eval(temperature)
}
