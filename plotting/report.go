package plotting

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/wakelab/pivwake/forces"
)

// ForceReport renders an HTML page of coefficient series against x/c: the
// steady and unsteady drag coefficients and the circulatory lift
// coefficient, one line chart each.
func ForceReport(steady, unsteady forces.ForceSeries, circ forces.CirculationSeries, filename string) error {
	page := components.NewPage()
	page.AddCharts(
		coeffChart("Steady drag coefficient", "Cd_steady", steady.XC, steady.Coeff),
		coeffChart("Unsteady drag coefficient", "Cd_unsteady", unsteady.XC, unsteady.Coeff),
		coeffChart("Circulatory lift coefficient", "Cl_circ", circ.XC, circ.ClCirc),
		coeffChart("Normalized circulation", "gamma/(U*c)", circ.XC, circ.CircNorm),
	)

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}

func coeffChart(title, seriesName string, xc, coeff []float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%d wake stations", len(xc))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x/c", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: seriesName}),
	)

	xAxis := make([]string, len(xc))
	data := make([]opts.LineData, len(coeff))
	for i := range xc {
		xAxis[i] = fmt.Sprintf("%.3f", xc[i])
		data[i] = opts.LineData{Value: coeff[i]}
	}
	line.SetXAxis(xAxis)
	line.AddSeries(seriesName, data)
	return line
}
