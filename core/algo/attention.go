package algo

import (
	"github.com/farolescolar/farol/schema"
)

// AttentionLimit caps the attention list.
const AttentionLimit = 10

// AttentionList returns the schools with at least one problem, in school order,
// capped at 'limit' (AttentionLimit when limit <= 0). Problems checked: any open class,
// teacher attendance below the yellow threshold, mean quality below the yellow score.
func AttentionList(schools []schema.School, regionals []schema.Regional, rs *schema.RecordSet, filter schema.PeriodFilter, limit int) ([]schema.AttentionEntry, error) {
	if limit <= 0 {
		limit = AttentionLimit
	}
	g, err := groupRecords(schools, rs, filter)
	if err != nil {
		return nil, err
	}
	regionalNames := make(map[string]string, len(regionals))
	for _, r := range regionals {
		regionalNames[r.ID] = r.Name
	}

	var out []schema.AttentionEntry
	for _, s := range schools {
		if len(out) == limit {
			break
		}
		sr := g.records(s.ID)
		var problems []string

		if AnyOpenClass(sr.openClass) {
			problems = append(problems, "Aulas vagas")
		}
		if teachers := sr.attendance[schema.TeachersStaff]; len(teachers) > 0 {
			worked, expected, err := SumAttendance(teachers)
			if err != nil {
				return nil, err
			}
			pct := 0.0
			if expected > 0 {
				pct = worked / expected * 100
			}
			if pct < AttendanceYellowPct {
				problems = append(problems, "Presença professores: "+schema.FormatPercentBR(pct, 1))
			}
		}
		mean, err := MeanQuality(sr.quality)
		if err != nil {
			return nil, err
		}
		if mean != nil && *mean < QualityYellowScore {
			problems = append(problems, "Qualidade baixa: "+schema.FormatNumberBR(*mean, 2))
		}

		if len(problems) > 0 {
			out = append(out, schema.AttentionEntry{
				SchoolID:     s.ID,
				SchoolName:   s.Name,
				RegionalName: regionalNames[s.RegionalID],
				Problems:     problems,
			})
		}
	}
	return out, nil
}
