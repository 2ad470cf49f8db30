package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/farolescolar/farol/internal/contract"
	"github.com/farolescolar/farol/schema"
)

// errNoStore is returned when the store manager has no record store configured.
var errNoStore = errors.New("record store is not initialized")

// loadedData is the fully materialized input of one engine call.
type loadedData struct {
	regionals []schema.Regional
	schools   []schema.School
	records   *schema.RecordSet
}

// fetchResult is the outcome of one per-metric fetch.
type fetchResult struct {
	metric  schema.Metric
	records []schema.MeasurementRecord
	err     error
}

// Metric groups fetched by each command.
var (
	attentionMetrics = []schema.Metric{schema.OpenClassMetric, schema.AttendanceTeachersMetric, schema.QualityMetric}
	seriesMetrics    = []schema.Metric{
		schema.OpenClassMetric,
		schema.AttendanceTeachersMetric,
		schema.AttendancePedagogicMetric,
		schema.AttendanceSupportMetric,
		schema.NPSMetric,
		schema.QualityMetric,
		schema.InfraMetric,
		schema.VacancyMetric,
		schema.RoutineMetric,
	}
)

// recordSource returns the configured record store as a read source.
func recordSource(mgr contract.StoreManager) (contract.RecordSource, error) {
	if mgr == nil {
		return nil, errNoStore
	}
	s := mgr.GetRecordStore()
	if s == nil {
		return nil, errNoStore
	}
	return s, nil
}

// loadData fetches entities for the configured scope, then the year's records of
// every requested metric concurrently, one goroutine per metric. A failed metric
// fetch does not abort the load: it is marked unavailable in the record set.
// Entity fetch failures are returned as errors.
func loadData(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, metrics []schema.Metric) (*loadedData, error) {
	src, err := recordSource(mgr)
	if err != nil {
		return nil, err
	}

	regionals, err := src.ListRegionals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list regionals: %w", err)
	}
	schools, err := src.ListSchools(ctx, cfg.Scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list schools: %w", err)
	}
	data := &loadedData{regionals: regionals, schools: schools, records: &schema.RecordSet{}}
	if len(schools) == 0 {
		contract.Logger().Warn().Str("regional", cfg.Scope.RegionalID).Str("school", cfg.Scope.SchoolID).Msg("No schools in scope")
		return data, nil
	}

	ids := make([]string, len(schools))
	for i, s := range schools {
		ids[i] = s.ID
	}
	year := cfg.Filter.Year

	results := make([]fetchResult, len(metrics))
	var targets []schema.Target
	var targetsErr error
	needTargets := false
	for _, m := range metrics {
		if _, ok := schema.TargetedMetrics[m]; ok {
			needTargets = true
		}
	}

	var wg sync.WaitGroup
	for i, m := range metrics {
		wg.Go(func() {
			recs, err := src.FetchRecords(ctx, m, year, ids)
			results[i] = fetchResult{metric: m, records: recs, err: err}
		})
	}
	if needTargets {
		wg.Go(func() {
			targets, targetsErr = src.FetchTargets(ctx, year, ids)
		})
	}
	wg.Wait()

	for _, res := range results {
		if res.err != nil {
			markUnavailable(data.records, res.metric, res.err)
			continue
		}
		for _, rec := range res.records {
			if rec.Metric() != res.metric {
				return nil, fmt.Errorf("%w: fetch of %s returned a %s record", schema.ErrInvalidInput, res.metric, rec.Metric())
			}
			if err := data.records.Add(rec); err != nil {
				return nil, err
			}
		}
	}
	if targetsErr != nil {
		for m := range schema.TargetedMetrics {
			markUnavailable(data.records, m, targetsErr)
		}
	} else {
		data.records.Targets = targets
	}
	return data, nil
}

// markUnavailable records a failed fetch with a reason wrapping ErrDataUnavailable.
func markUnavailable(rs *schema.RecordSet, m schema.Metric, cause error) {
	reason := fmt.Errorf("%w: %w", schema.ErrDataUnavailable, cause)
	contract.LogWarn(fmt.Sprintf("Records for %s are unavailable", m), cause)
	rs.MarkUnavailable(m, reason.Error())
}

// requireAvailable fails when any of the metrics could not be fetched.
func requireAvailable(rs *schema.RecordSet, metrics ...schema.Metric) error {
	for _, m := range metrics {
		if reason, ok := rs.Unavailable[m]; ok {
			return fmt.Errorf("%w: %s (%s)", schema.ErrDataUnavailable, m, reason)
		}
	}
	return nil
}
