package algo

import (
	"fmt"
	"sort"

	"github.com/farolescolar/farol/schema"
)

// RankByGap sorts entities by their signed gap (result minus target) and returns
// the top 'limit' entries. Entities with a missing result or target are excluded.
// Ties are broken by name ascending in both orders. A limit <= 0 keeps every entry.
func RankByGap(inputs []schema.GapInput, order schema.SortOrder, limit int) []schema.GapEntry {
	entries := make([]schema.GapEntry, 0, len(inputs))
	for _, in := range inputs {
		if in.Result == nil || in.Target == nil {
			continue
		}
		entries = append(entries, schema.GapEntry{
			ID:     in.ID,
			Name:   in.Name,
			Result: *in.Result,
			Target: *in.Target,
			Gap:    *in.Result - *in.Target,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Gap != b.Gap {
			if order == schema.DescendingOrder {
				return a.Gap > b.Gap
			}
			return a.Gap < b.Gap
		}
		return a.Name < b.Name
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// SchoolGapInputs resolves the aggregated result and target of a targeted metric per school.
func SchoolGapInputs(m schema.Metric, schools []schema.School, rs *schema.RecordSet, filter schema.PeriodFilter) ([]schema.GapInput, error) {
	if _, ok := schema.TargetedMetrics[m]; !ok {
		return nil, fmt.Errorf("%w: metric %q has no target", schema.ErrInvalidInput, m)
	}
	g, err := groupRecords(schools, rs, filter)
	if err != nil {
		return nil, err
	}
	inputs := make([]schema.GapInput, 0, len(schools))
	for _, s := range schools {
		result, err := g.result(s.ID, m)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, schema.GapInput{
			ID:     s.ID,
			Name:   s.Name,
			Result: result,
			Target: g.target(s.ID, m),
		})
	}
	return inputs, nil
}

// RegionalGapInputs resolves one entry per regional: the mean result of its schools
// that have a result, against the mean target of its schools that have a target.
// Regionals without either stay unresolved and are dropped by RankByGap.
func RegionalGapInputs(m schema.Metric, regionals []schema.Regional, schools []schema.School, rs *schema.RecordSet, filter schema.PeriodFilter) ([]schema.GapInput, error) {
	perSchool, err := SchoolGapInputs(m, schools, rs, filter)
	if err != nil {
		return nil, err
	}
	regionalOf := make(map[string]string, len(schools))
	for _, s := range schools {
		regionalOf[s.ID] = s.RegionalID
	}

	type acc struct {
		resultSum, targetSum float64
		results, targets     int
	}
	byRegional := make(map[string]*acc, len(regionals))
	for _, r := range regionals {
		byRegional[r.ID] = &acc{}
	}
	for _, in := range perSchool {
		a, ok := byRegional[regionalOf[in.ID]]
		if !ok {
			continue
		}
		if in.Result != nil {
			a.resultSum += *in.Result
			a.results++
		}
		if in.Target != nil {
			a.targetSum += *in.Target
			a.targets++
		}
	}

	inputs := make([]schema.GapInput, 0, len(regionals))
	for _, r := range regionals {
		a := byRegional[r.ID]
		in := schema.GapInput{ID: r.ID, Name: r.Name}
		if a.results > 0 {
			v := a.resultSum / float64(a.results)
			in.Result = &v
		}
		if a.targets > 0 {
			v := a.targetSum / float64(a.targets)
			in.Target = &v
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}
