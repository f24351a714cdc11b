package commands

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/wizlightd/internal/bulb"
	"github.com/jmylchreest/wizlightd/pkg/wiz"
)

// Output formats accepted by --output
const (
	outputTable     = "table"
	outputParseable = "parseable"
	outputYAML      = "yaml"
)

func addOutputFlag(cmd *cobra.Command, output *string) {
	cmd.Flags().StringVarP(output, "output", "o", outputTable, "Output format (table, parseable, yaml)")
}

func validateOutput(output string) error {
	switch output {
	case outputTable, outputParseable, outputYAML:
		return nil
	default:
		return fmt.Errorf("invalid output format %q: must be table, parseable or yaml", output)
	}
}

// bulbDoc is the YAML and parseable form of a configured bulb
type bulbDoc struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	IP           string `yaml:"ip"`
	ShowInWidget bool   `yaml:"show_in_widget"`
}

func bulbDocs(bulbs []bulb.Bulb) []bulbDoc {
	docs := make([]bulbDoc, len(bulbs))
	for i, b := range bulbs {
		docs[i] = bulbDoc{ID: b.ID, Name: b.Name, IP: b.IP, ShowInWidget: b.ShowInWidget}
	}
	return docs
}

// StatusRow is one bulb's live status
type StatusRow struct {
	Name        string `yaml:"name"`
	IP          string `yaml:"ip"`
	Reachable   bool   `yaml:"reachable"`
	On          bool   `yaml:"on"`
	Brightness  int    `yaml:"brightness"`
	Temperature int    `yaml:"temperature"`
	Swatch      string `yaml:"swatch"`
}

// BulbTableData returns the table data for the configured bulbs, with a bold header
func BulbTableData(bulbs []bulb.Bulb) pterm.TableData {
	data := pterm.TableData{
		[]string{pterm.Bold.Sprint("ID"), pterm.Bold.Sprint("Name"), pterm.Bold.Sprint("IP"), pterm.Bold.Sprint("Widget")},
	}
	for _, b := range bulbs {
		ip := b.IP
		if ip == "" {
			ip = "-"
		}
		data = append(data, []string{b.ID, b.Name, ip, fmt.Sprintf("%v", b.ShowInWidget)})
	}
	return data
}

// BulbParseable returns the parseable key=value string for a bulb
func BulbParseable(b bulb.Bulb) string {
	return fmt.Sprintf("id=%q name=%q ip=%q show_in_widget=%v", b.ID, b.Name, b.IP, b.ShowInWidget)
}

// StatusTableData returns the table data for status rows
func StatusTableData(rows []StatusRow) pterm.TableData {
	data := pterm.TableData{
		[]string{"Name", "IP", "Reachable", "On", "Brightness", "Temperature", "Swatch"},
	}
	for _, r := range rows {
		if !r.Reachable {
			data = append(data, []string{r.Name, r.IP, "false", "-", "-", "-", "-"})
			continue
		}
		data = append(data, []string{
			r.Name,
			r.IP,
			"true",
			fmt.Sprintf("%v", r.On),
			fmt.Sprintf("%d%%", r.Brightness),
			fmt.Sprintf("%dK", r.Temperature),
			swatchBlock(r.Swatch) + " " + r.Swatch,
		})
	}
	return data
}

// StatusParseable returns the parseable key=value string for a status row
func StatusParseable(r StatusRow) string {
	return fmt.Sprintf("name=%q ip=%q reachable=%v on=%v brightness=%d temperature=%d swatch=%q",
		r.Name, r.IP, r.Reachable, r.On, r.Brightness, r.Temperature, r.Swatch)
}

// swatchBlock renders a small block in the swatch color
func swatchBlock(hex string) string {
	c, err := wiz.ParseRGB8(hex)
	if err != nil {
		return ""
	}
	return pterm.NewRGB(uint8(c.R), uint8(c.G), uint8(c.B)).Sprint("██")
}

func printYAML(v any) error {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
