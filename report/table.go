package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/YuminosukeSato/eslgo/discriminant"
	"github.com/YuminosukeSato/eslgo/pkg/errors"
)

// NamedReport labels one error report, e.g. "QDA test".
type NamedReport struct {
	Name   string
	Report *discriminant.ErrorReport
}

// WriteErrorTable writes one row per report: the name, the error rate of
// every class, then the overall rate. Every report must cover the same
// classes.
func WriteErrorTable(w io.Writer, reports []NamedReport) error {
	if len(reports) == 0 {
		return nil
	}
	classes := reports[0].Report.Classes
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	header := []string{"model"}
	for _, c := range classes {
		header = append(header, fmt.Sprintf("class %d", c))
	}
	header = append(header, "overall")
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for _, nr := range reports {
		if len(nr.Report.PerClass) != len(classes) {
			return errors.NewDimensionError("report.WriteErrorTable", len(classes), len(nr.Report.PerClass), 1)
		}
		cells := []string{nr.Name}
		for _, r := range nr.Report.PerClass {
			cells = append(cells, fmt.Sprintf("%.3f", r))
		}
		cells = append(cells, fmt.Sprintf("%.3f", nr.Report.Overall))
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	return tw.Flush()
}

// WriteColumns writes equal-length numeric columns under a header, one row
// per index.
func WriteColumns(w io.Writer, header []string, columns ...[]float64) error {
	if len(header) != len(columns) {
		return errors.NewDimensionError("report.WriteColumns", len(columns), len(header), 1)
	}
	n := 0
	if len(columns) > 0 {
		n = len(columns[0])
	}
	for _, c := range columns {
		if len(c) != n {
			return errors.NewDimensionError("report.WriteColumns", n, len(c), 0)
		}
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
	for i := 0; i < n; i++ {
		cells := make([]string, len(columns))
		for j, c := range columns {
			cells[j] = fmt.Sprintf("%.4f", c[i])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	return tw.Flush()
}
