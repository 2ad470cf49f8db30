package algo

import (
	"github.com/farolescolar/farol/schema"
)

// BuildMatrix produces one row per school, in input order, with one Cell per tracked metric.
// Metrics marked unavailable in the record set get no Cell and are listed in Unavailable instead.
func BuildMatrix(schools []schema.School, rs *schema.RecordSet, filter schema.PeriodFilter) ([]schema.MatrixRow, error) {
	g, err := groupRecords(schools, rs, filter)
	if err != nil {
		return nil, err
	}
	rows := make([]schema.MatrixRow, 0, len(schools))
	for _, s := range schools {
		row := schema.MatrixRow{
			SchoolID:   s.ID,
			SchoolName: s.Name,
			RegionalID: s.RegionalID,
			Cells:      make(map[schema.Metric]schema.Cell, len(schema.AllMetrics)),
		}
		for _, m := range schema.AllMetrics {
			if rs != nil && rs.IsUnavailable(m) {
				if row.Unavailable == nil {
					row.Unavailable = make(map[schema.Metric]string)
				}
				row.Unavailable[m] = rs.Unavailable[m]
				continue
			}
			c, err := g.cell(s.ID, m)
			if err != nil {
				return nil, err
			}
			row.Cells[m] = c
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CountDistribution tallies cell statuses across rows, restricted to the given metrics.
// An empty metric list counts every metric.
func CountDistribution(rows []schema.MatrixRow, metrics []schema.Metric) schema.Distribution {
	if len(metrics) == 0 {
		metrics = schema.AllMetrics
	}
	var d schema.Distribution
	for _, row := range rows {
		for _, m := range metrics {
			if _, ok := row.Unavailable[m]; ok {
				d.Unavailable++
				continue
			}
			c, ok := row.Cells[m]
			if !ok {
				continue
			}
			switch c.Status {
			case schema.Green:
				d.Green++
			case schema.Yellow:
				d.Yellow++
			case schema.Red:
				d.Red++
			}
		}
	}
	return d
}

// CountRed returns the number of red cells per metric.
func CountRed(rows []schema.MatrixRow, metrics []schema.Metric) map[schema.Metric]int {
	if len(metrics) == 0 {
		metrics = schema.AllMetrics
	}
	out := make(map[schema.Metric]int, len(metrics))
	for _, m := range metrics {
		out[m] = 0
		for _, row := range rows {
			if c, ok := row.Cells[m]; ok && c.Status == schema.Red {
				out[m]++
			}
		}
	}
	return out
}
