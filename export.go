package satpower

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// ExportConfig configures the CSV export of a finished run.
type ExportConfig struct {
	Filename  string // no output is written when empty
	Timestamp bool   // append the wall-clock time to the file name
}

// IsUseless returns whether this configuration would output anything.
func (c ExportConfig) IsUseless() bool {
	return c.Filename == ""
}

// sampleRow is one CSV record of the aligned output series.
type sampleRow struct {
	t, soc, pGen, pLoad, vBat float64
	eclipse                   bool
	modes                     []string
	tPanel, tBattery          float64
	thermal                   bool
}

// createCSVFile returns a file which requires a defer close statement!
func createCSVFile(conf ExportConfig, thermal bool) *os.File {
	cfg := satConfig()
	var filename string
	if conf.Timestamp {
		t := time.Now()
		filename = fmt.Sprintf("%s/power-%s-%d-%02d-%02dT%02d.%02d.%02d.csv", cfg.outputDir, conf.Filename,
			t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	} else {
		filename = fmt.Sprintf("%s/power-%s.csv", cfg.outputDir, conf.Filename)
	}
	f, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	hdr := "time,soc,generated,consumed,voltage,eclipse,modes"
	if thermal {
		hdr += ",tPanel,tBattery"
	}
	f.WriteString(fmt.Sprintf(`# Creation date (UTC): %s
# Records are seconds, dimensionless SoC, watts, watts, volts, eclipse boolean, active modes.
%s`, time.Now().UTC(), hdr))
	return f
}

// streamSamples drains the channel to a CSV file until it closes.
func streamSamples(conf ExportConfig, rows <-chan sampleRow) {
	var f *os.File
	for {
		row, more := <-rows
		if !more {
			if f != nil {
				f.Close()
			}
			return
		}
		if f == nil {
			f = createCSVFile(conf, row.thermal)
		}
		ecl := 0
		if row.eclipse {
			ecl = 1
		}
		line := fmt.Sprintf("\n%.3f,%.6f,%.4f,%.4f,%.4f,%d,%s",
			row.t, row.soc, row.pGen, row.pLoad, row.vBat, ecl, strings.Join(row.modes, "|"))
		if row.thermal {
			line += fmt.Sprintf(",%.3f,%.3f", row.tPanel, row.tBattery)
		}
		if _, err := f.WriteString(line); err != nil {
			panic(err)
		}
	}
}

// ExportCSV streams the aligned series of a finished run to a CSV file in
// the configured output directory.
func (r *SimulationResults) ExportCSV(conf ExportConfig) {
	if conf.IsUseless() {
		return
	}
	rows := make(chan sampleRow, 1000)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		streamSamples(conf, rows)
	}()
	thermal := len(r.TPanel) > 0
	for i := range r.Time {
		row := sampleRow{
			t:       r.Time[i],
			soc:     r.SoC[i],
			pGen:    r.PowerGenerated[i],
			pLoad:   r.PowerConsumed[i],
			vBat:    r.BatteryVoltage[i],
			eclipse: r.Eclipse[i],
			modes:   r.ActiveModes[i],
			thermal: thermal,
		}
		if thermal {
			row.tPanel = r.TPanel[i]
			row.tBattery = r.TBattery[i]
		}
		rows <- row
	}
	close(rows)
	wg.Wait()
}
