package satpower

import (
	"fmt"
	"strings"
)

// Verdict strings of the power budget report.
const (
	VerdictPositive = "POSITIVE MARGIN"
	VerdictNegative = "NEGATIVE MARGIN"
)

// SubsystemRow is one load-mode line of the power budget.
type SubsystemRow struct {
	Name            string
	PowerW          float64
	DutyCycle       float64
	Trigger         LoadTrigger
	AvgContribution float64 // orbit-averaged draw, W
}

// PowerBudgetReport aggregates one simulation into a mission power budget.
type PowerBudgetReport struct {
	MissionName          string
	Subsystems           []SubsystemRow
	AvgGeneratedW        float64
	AvgConsumedW         float64
	AvgConsumedSunlightW float64
	AvgConsumedEclipseW  float64
	PowerMarginW         float64
	EclipseFraction      float64
	WorstDoD             float64
	MinSoC               float64
	BatteryEnergyWh      float64
	EnergyBalanceWh      float64 // per orbit
	Verdict              string
	// FailingConditions lists which margin conditions tripped a negative
	// verdict; empty on a positive one.
	FailingConditions []string
}

// GeneratePowerBudget builds the report from a finished run.
func GeneratePowerBudget(res *SimulationResults, loads *LoadProfile, battery *BatteryPack, missionName string) *PowerBudgetReport {
	eclipseFraction := res.EclipseFraction()
	var rows []SubsystemRow
	for _, m := range loads.Modes() {
		avg := m.PowerW * m.DutyCycle
		switch m.Trigger {
		case TriggerSunlight:
			avg *= 1 - eclipseFraction
		case TriggerEclipse:
			avg *= eclipseFraction
		}
		rows = append(rows, SubsystemRow{
			Name:            m.Name,
			PowerW:          m.PowerW,
			DutyCycle:       m.DutyCycle,
			Trigger:         m.Trigger,
			AvgContribution: avg,
		})
	}

	var sunSum, eclSum float64
	var sunN, eclN int
	for i, in := range res.Eclipse {
		if in {
			eclSum += res.PowerConsumed[i]
			eclN++
		} else {
			sunSum += res.PowerConsumed[i]
			sunN++
		}
	}
	avgSun, avgEcl := 0.0, 0.0
	if sunN > 0 {
		avgSun = sunSum / float64(sunN)
	}
	if eclN > 0 {
		avgEcl = eclSum / float64(eclN)
	}

	margin := res.PowerMargin()
	minSoC := res.MinSoC()
	worstDoD := res.WorstCaseDoD()

	var failing []string
	if margin < 0 {
		failing = append(failing, fmt.Sprintf("power margin %.2f W < 0", margin))
	}
	if minSoC <= 0 {
		failing = append(failing, fmt.Sprintf("min SoC %.3f <= 0", minSoC))
	}
	if worstDoD > 1 {
		failing = append(failing, fmt.Sprintf("worst DoD %.3f > 1", worstDoD))
	}
	verdict := VerdictPositive
	if len(failing) > 0 {
		verdict = VerdictNegative
	}

	return &PowerBudgetReport{
		MissionName:          missionName,
		Subsystems:           rows,
		AvgGeneratedW:        res.AvgPowerGenerated(),
		AvgConsumedW:         res.AvgPowerConsumed(),
		AvgConsumedSunlightW: avgSun,
		AvgConsumedEclipseW:  avgEcl,
		PowerMarginW:         margin,
		EclipseFraction:      eclipseFraction,
		WorstDoD:             worstDoD,
		MinSoC:               minSoC,
		BatteryEnergyWh:      battery.EnergyWh(),
		EnergyBalanceWh:      res.EnergyBalancePerOrbit(),
		Verdict:              verdict,
		FailingConditions:    failing,
	}
}

// ToText renders the human-readable power budget table.
func (r *PowerBudgetReport) ToText() string {
	sep := strings.Repeat("=", 60)
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n  POWER BUDGET REPORT: %s\n%s\n\n", sep, r.MissionName, sep)
	fmt.Fprintf(&b, "  SUBSYSTEM BREAKDOWN\n")
	fmt.Fprintf(&b, "  %-25s %10s %8s %10s\n", "Subsystem", "Power (W)", "Duty", "Trigger")
	for _, sub := range r.Subsystems {
		fmt.Fprintf(&b, "  %-25s %10.2f %7.0f%% %10s\n", sub.Name, sub.PowerW, sub.DutyCycle*100, sub.Trigger)
	}
	fmt.Fprintf(&b, "\n  ORBIT AVERAGES\n")
	fmt.Fprintf(&b, "    Eclipse fraction: %5.1f%%\n", r.EclipseFraction*100)
	fmt.Fprintf(&b, "    Generated:      %6.2f W\n", r.AvgGeneratedW)
	if r.EclipseFraction < 1 {
		fmt.Fprintf(&b, "    Consumed (sun): %6.2f W\n", r.AvgConsumedSunlightW)
	}
	if r.EclipseFraction > 0 {
		fmt.Fprintf(&b, "    Consumed (ecl): %6.2f W\n", r.AvgConsumedEclipseW)
	}
	fmt.Fprintf(&b, "    Consumed (avg): %6.2f W\n", r.AvgConsumedW)
	sign := ""
	if r.PowerMarginW >= 0 {
		sign = "+"
	}
	fmt.Fprintf(&b, "    Margin:        %s%6.2f W\n", sign, r.PowerMarginW)
	fmt.Fprintf(&b, "\n  BATTERY\n")
	fmt.Fprintf(&b, "    Worst DoD:      %5.1f%%\n", r.WorstDoD*100)
	fmt.Fprintf(&b, "    Min SoC:        %5.1f%%\n", r.MinSoC*100)
	fmt.Fprintf(&b, "    Pack energy:    %6.1f Wh\n", r.BatteryEnergyWh)
	if r.WorstDoD > 0 {
		fmt.Fprintf(&b, "    Sizing margin:  %5.1fx\n", 1/r.WorstDoD)
	}
	fmt.Fprintf(&b, "\n  VERDICT: %s\n", r.Verdict)
	for _, f := range r.FailingConditions {
		fmt.Fprintf(&b, "    - %s\n", f)
	}
	b.WriteString(sep)
	return b.String()
}
