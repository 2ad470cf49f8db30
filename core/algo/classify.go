// Package algo is the farol classification and aggregation engine.
// Everything here is pure: no I/O, no shared state between calls.
package algo

import (
	"fmt"
	"math"
	"strconv"

	"github.com/farolescolar/farol/schema"
)

// Classifier thresholds. Percentages are in the 0-100 scale.
const (
	AttendanceGreenPct  = 95.0
	AttendanceYellowPct = 90.0

	QualityGreenScore  = 4.5
	QualityYellowScore = 3.75
	QualityMaxScore    = 5.0

	VacancyYellowMaxDays = 7

	RoutineGreenPct  = 100.0
	RoutineYellowPct = 70.0

	FrequencyGreenMargin = 2.0
)

// Hints shared by several classifiers.
const (
	hintNoData        = "Sem dados"
	hintNoTarget      = "Sem meta"
	hintExpectedZero  = "Esperado = 0"
	hintGoalZero      = "Meta = 0"
	hintNoVacancyData = "Sem registros de vagas (Verde)"
)

// InfraState is the tri-state input of the infrastructure classifier.
type InfraState int

// Infrastructure states.
const (
	InfraNoData InfraState = iota
	InfraCompleted
	InfraPending
)

func checkFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s is not finite", schema.ErrInvalidInput, name)
	}
	return nil
}

func checkNonNegative(name string, v float64) error {
	if err := checkFinite(name, v); err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("%w: %s is negative (%v)", schema.ErrInvalidInput, name, v)
	}
	return nil
}

// ClassifyOpenClass flags a school with any class lacking a teacher.
func ClassifyOpenClass(hasOpenClass bool) schema.Cell {
	if hasOpenClass {
		return schema.Cell{Value: "1+", Status: schema.Red, Hint: "Tem aulas vagas (Vermelho)"}
	}
	return schema.Cell{Value: "0", Status: schema.Green, Hint: "Não tem aulas vagas (Verde)"}
}

// ClassifyAttendance classifies days worked against days expected.
func ClassifyAttendance(worked, expected float64) (schema.Cell, error) {
	if err := checkNonNegative("worked days", worked); err != nil {
		return schema.Cell{}, err
	}
	if err := checkNonNegative("expected days", expected); err != nil {
		return schema.Cell{}, err
	}
	if expected == 0 {
		return schema.Cell{Value: "0%", Status: schema.Red, Hint: hintExpectedZero}, nil
	}
	pct := worked / expected * 100
	cell := schema.Cell{Value: schema.FormatPercent(pct, 1)}
	switch {
	case pct >= AttendanceGreenPct:
		cell.Status, cell.Hint = schema.Green, "≥95% presença (Verde)"
	case pct >= AttendanceYellowPct:
		cell.Status, cell.Hint = schema.Yellow, "≥90% e <95% presença (Amarelo)"
	default:
		cell.Status, cell.Hint = schema.Red, "<90% presença (Vermelho)"
	}
	return cell, nil
}

// ClassifyQuality classifies a 0-5 quality score. A nil score has no data.
func ClassifyQuality(score *float64) (schema.Cell, error) {
	if score == nil {
		return schema.Cell{Value: schema.NoData, Status: schema.Red, Hint: hintNoData}, nil
	}
	s := *score
	if err := checkNonNegative("quality score", s); err != nil {
		return schema.Cell{}, err
	}
	if s > QualityMaxScore {
		return schema.Cell{}, fmt.Errorf("%w: quality score %v above %v", schema.ErrInvalidInput, s, QualityMaxScore)
	}
	cell := schema.Cell{Value: schema.FormatScore(s)}
	switch {
	case s >= QualityGreenScore:
		cell.Status, cell.Hint = schema.Green, "≥4,50 pontos (Verde)"
	case s >= QualityYellowScore:
		cell.Status, cell.Hint = schema.Yellow, "≥3,75 e <4,50 pontos (Amarelo)"
	default:
		cell.Status, cell.Hint = schema.Red, "<3,75 pontos (Vermelho)"
	}
	return cell, nil
}

// ClassifyInfra classifies the infrastructure plan state.
func ClassifyInfra(state InfraState) schema.Cell {
	switch state {
	case InfraCompleted:
		return schema.Cell{Value: "Sim", Status: schema.Green, Hint: "Planos concluídos (Verde)"}
	case InfraPending:
		return schema.Cell{Value: "Não", Status: schema.Red, Hint: "Planos não concluídos (Vermelho)"}
	default:
		return schema.Cell{Value: schema.NoData, Status: schema.Red, Hint: hintNoData}
	}
}

// ClassifyVacancy classifies one vacancy backlog record.
func ClassifyVacancy(totalOpen, daysOpen int) (schema.Cell, error) {
	if totalOpen < 0 || daysOpen < 0 {
		return schema.Cell{}, fmt.Errorf("%w: negative vacancy count (%d/%d)", schema.ErrInvalidInput, totalOpen, daysOpen)
	}
	cell := schema.Cell{Value: fmt.Sprintf("%d/%d", totalOpen, daysOpen)}
	switch {
	case totalOpen == 0:
		cell.Status, cell.Hint = schema.Green, "0 vagas em aberto (Verde)"
	case daysOpen <= VacancyYellowMaxDays:
		cell.Status, cell.Hint = schema.Yellow, "Vagas abertas ≤7 dias (Amarelo)"
	default:
		cell.Status, cell.Hint = schema.Red, "Vagas abertas >7 dias (Vermelho)"
	}
	return cell, nil
}

// ClassifyRoutine classifies routines completed against the routine goal.
func ClassifyRoutine(completed, goal int) (schema.Cell, error) {
	if completed < 0 || goal < 0 {
		return schema.Cell{}, fmt.Errorf("%w: negative routine count (%d/%d)", schema.ErrInvalidInput, completed, goal)
	}
	if goal == 0 {
		return schema.Cell{Value: "0%", Status: schema.Red, Hint: hintGoalZero}, nil
	}
	if completed > goal {
		return schema.Cell{}, fmt.Errorf("%w: %d routines completed exceeds goal %d", schema.ErrInvalidInput, completed, goal)
	}
	pct := float64(completed) / float64(goal) * 100
	cell := schema.Cell{Value: schema.FormatPercent(pct, 0)}
	switch {
	case pct >= RoutineGreenPct:
		cell.Status, cell.Hint = schema.Green, "100% das rotinas cumpridas (Verde)"
	case pct > RoutineYellowPct:
		cell.Status, cell.Hint = schema.Yellow, ">70% e <100% das rotinas (Amarelo)"
	default:
		cell.Status, cell.Hint = schema.Red, "≤70% das rotinas cumpridas (Vermelho)"
	}
	return cell, nil
}

// ClassifyFrequency classifies an annual frequency result against the school target.
// Green requires the result to reach target plus FrequencyGreenMargin points.
func ClassifyFrequency(result, target *float64) (schema.Cell, error) {
	if result == nil {
		return schema.Cell{Value: schema.NoData, Status: schema.Red, Hint: hintNoData}, nil
	}
	if target == nil {
		return schema.Cell{Value: schema.NoData, Status: schema.Red, Hint: hintNoTarget}, nil
	}
	r, goal := *result, *target
	if err := checkFinite("frequency result", r); err != nil {
		return schema.Cell{}, err
	}
	if err := checkFinite("frequency target", goal); err != nil {
		return schema.Cell{}, err
	}
	green := goal + FrequencyGreenMargin
	cell := schema.Cell{Value: schema.FormatPercent(r, 2)}
	var branch string
	switch {
	case r >= green:
		cell.Status, branch = schema.Green, "Resultado ≥ meta + 2 p.p. (Verde)"
	case r >= goal:
		cell.Status, branch = schema.Yellow, "Meta ≤ resultado < meta + 2 p.p. (Amarelo)"
	default:
		cell.Status, branch = schema.Red, "Resultado < meta (Vermelho)"
	}
	cell.Hint = fmt.Sprintf("%s; Meta %s (verde ≥ %s)", branch, schema.FormatPercentBR(goal, 2), schema.FormatPercentBR(green, 2))
	return cell, nil
}

// ClassifyNPS classifies a net promoter score against the annual target. There is no yellow tier.
func ClassifyNPS(nps, target *float64) (schema.Cell, error) {
	if nps == nil {
		return schema.Cell{Value: schema.NoData, Status: schema.Red, Hint: hintNoData}, nil
	}
	if target == nil {
		return schema.Cell{Value: schema.NoData, Status: schema.Red, Hint: hintNoTarget}, nil
	}
	v, goal := *nps, *target
	if err := checkFinite("nps", v); err != nil {
		return schema.Cell{}, err
	}
	if err := checkFinite("nps target", goal); err != nil {
		return schema.Cell{}, err
	}
	cell := schema.Cell{Value: strconv.FormatFloat(math.Round(v), 'f', 0, 64)}
	goalText := formatGoal(goal)
	if v >= goal {
		cell.Status, cell.Hint = schema.Green, fmt.Sprintf("NPS ≥ meta anual (%s) (Verde)", goalText)
	} else {
		cell.Status, cell.Hint = schema.Red, fmt.Sprintf("NPS < meta anual (%s) (Vermelho)", goalText)
	}
	return cell, nil
}

// formatGoal renders a target in pt-BR with at most two decimals, e.g. "49,5".
func formatGoal(goal float64) string {
	decimals := 0
	for decimals < 2 && schema.Round(goal, decimals) != goal {
		decimals++
	}
	return schema.FormatNumberBR(goal, decimals)
}

// Rules returns the classifier table in matrix display order.
func Rules() []schema.Rule {
	rules := make([]schema.Rule, 0, len(schema.AllMetrics))
	for _, m := range schema.AllMetrics {
		rules = append(rules, ruleFor(m))
	}
	return rules
}

func ruleFor(m schema.Metric) schema.Rule {
	r := schema.Rule{Metric: m, Name: m.Label()}
	switch m {
	case schema.OpenClassMetric:
		r.Inputs = "aulas_vagas"
		r.Branches = []string{"aulas vagas → Vermelho \"1+\"", "sem aulas vagas → Verde \"0\""}
		r.NoData = "Verde \"0\""
		r.Aggregate = "OU lógico entre registros"
	case schema.AttendanceTeachersMetric, schema.AttendancePedagogicMetric, schema.AttendanceSupportMetric:
		r.Inputs = "dias_trabalhados, dias_deveriam"
		r.Branches = []string{"≥95% → Verde", "≥90% e <95% → Amarelo", "<90% → Vermelho"}
		r.NoData = "Vermelho \"0%\" (Esperado = 0)"
		r.Aggregate = "soma dos dias, depois razão"
	case schema.QualityMetric:
		r.Inputs = "pontuacao (0-5)"
		r.Branches = []string{"≥4,50 → Verde", "≥3,75 e <4,50 → Amarelo", "<3,75 → Vermelho"}
		r.NoData = "Vermelho \"-\""
		r.Aggregate = "média das pontuações"
	case schema.InfraMetric:
		r.Inputs = "concluidas"
		r.Branches = []string{"todos concluídos → Verde \"Sim\"", "algum pendente → Vermelho \"Não\""}
		r.NoData = "Vermelho \"-\""
		r.Aggregate = "todos os registros concluídos"
	case schema.VacancyMetric:
		r.Inputs = "total_vagas, dias_em_aberto"
		r.Branches = []string{"0 vagas → Verde", "≤7 dias → Amarelo", ">7 dias → Vermelho"}
		r.NoData = "Verde \"0/0\""
		r.Aggregate = "pior registro do período"
	case schema.RoutineMetric:
		r.Inputs = "rotinas_cumpridas, meta_rotinas"
		r.Branches = []string{"100% → Verde", ">70% e <100% → Amarelo", "≤70% → Vermelho"}
		r.NoData = "Vermelho \"0%\" (Meta = 0)"
		r.Aggregate = "soma das rotinas, depois razão"
	case schema.FrequencyMetric:
		r.Inputs = "resultado, meta"
		r.Branches = []string{"≥ meta + 2 p.p. → Verde", "≥ meta → Amarelo", "< meta → Vermelho"}
		r.NoData = "Vermelho \"-\""
		r.Aggregate = "um registro por escola e ano"
	case schema.NPSMetric:
		r.Inputs = "percentual_promotores - percentual_detratores, meta anual"
		r.Branches = []string{"≥ meta → Verde", "< meta → Vermelho"}
		r.NoData = "Vermelho \"-\""
		r.Aggregate = "média do NPS mensal"
	}
	return r
}
