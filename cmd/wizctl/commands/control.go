package commands

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/wizlightd/internal/bulb"
	"github.com/jmylchreest/wizlightd/pkg/wiz"
)

// target is a bulb addressed on the command line
type target struct {
	Name string
	IP   string
}

// resolveTarget accepts a bulb id, a bulb name or a raw IP address
func resolveTarget(env *Env, ref string) (target, error) {
	if addr, err := netip.ParseAddr(ref); err == nil {
		name := ref
		if b, err := env.Store.Find(ref); err == nil {
			name = b.Name
		}
		return target{Name: name, IP: addr.String()}, nil
	}
	b, err := env.Store.Find(ref)
	if err != nil {
		return target{}, fmt.Errorf("unknown bulb %q: use a bulb id, name or IP address", ref)
	}
	if b.IP == "" {
		return target{}, fmt.Errorf("bulb %q has no IP address; set one with 'wizctl bulb ip'", b.Name)
	}
	return target{Name: b.Name, IP: b.IP}, nil
}

func parseNumber(what, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", what, s, err)
	}
	return v, nil
}

// newPowerCommand creates the on and off commands
func newPowerCommand(on bool) *cobra.Command {
	use, short := "off <bulb>", "Switch a bulb off"
	if on {
		use, short = "on <bulb>", "Switch a bulb on"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnv(cmd)
			if err != nil {
				return err
			}
			t, err := resolveTarget(env, args[0])
			if err != nil {
				return err
			}
			if err := env.Client.SetPower(cmd.Context(), t.IP, on); err != nil {
				return fmt.Errorf("failed to switch %s: %w", t.Name, err)
			}
			state := "off"
			if on {
				state = "on"
			}
			pterm.Success.Printf("%s switched %s\n", t.Name, state)
			return nil
		},
	}
}

// newBrightnessCommand creates the brightness command
func newBrightnessCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "brightness <bulb> <percent>",
		Short: "Set a bulb's brightness (0-100); switches it on",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnv(cmd)
			if err != nil {
				return err
			}
			t, err := resolveTarget(env, args[0])
			if err != nil {
				return err
			}
			percent, err := parseNumber("brightness", args[1])
			if err != nil {
				return err
			}
			if err := env.Client.SetBrightness(cmd.Context(), t.IP, percent); err != nil {
				return fmt.Errorf("failed to set brightness of %s: %w", t.Name, err)
			}
			pterm.Success.Printf("%s brightness set to %d%%\n", t.Name, wiz.ClampBrightness(percent))
			return nil
		},
	}
}

// newTemperatureCommand creates the temperature command
func newTemperatureCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "temperature <bulb> <kelvin>",
		Aliases: []string{"temp"},
		Short:   fmt.Sprintf("Set a bulb's white temperature (%dK-%dK)", wiz.MinTemperature, wiz.MaxTemperature),
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnv(cmd)
			if err != nil {
				return err
			}
			t, err := resolveTarget(env, args[0])
			if err != nil {
				return err
			}
			kelvin, err := parseNumber("temperature", args[1])
			if err != nil {
				return err
			}
			clamped := wiz.ClampTemperature(kelvin)
			if float64(clamped) != kelvin {
				pterm.Info.Printf("Temperature clamped to %dK\n", clamped)
			}
			if err := env.Client.SetTemperature(cmd.Context(), t.IP, kelvin); err != nil {
				return fmt.Errorf("failed to set temperature of %s: %w", t.Name, err)
			}
			pterm.Success.Printf("%s temperature set to %dK\n", t.Name, clamped)
			return nil
		},
	}
}

// newColorCommand creates the color command
func newColorCommand() *cobra.Command {
	var brightness float64
	cmd := &cobra.Command{
		Use:   "color <bulb> <#rrggbb|r,g,b>",
		Short: "Set a bulb's RGB color",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnv(cmd)
			if err != nil {
				return err
			}
			t, err := resolveTarget(env, args[0])
			if err != nil {
				return err
			}
			color, err := wiz.ParseRGB8(args[1])
			if err != nil {
				return err
			}
			if err := env.Client.SetColor(cmd.Context(), t.IP, color.R, color.G, color.B, brightness); err != nil {
				return fmt.Errorf("failed to set color of %s: %w", t.Name, err)
			}
			pterm.Success.Printf("%s color set to %s %s\n", t.Name, swatchBlock(color.Hex()), color.Hex())
			return nil
		},
	}
	cmd.Flags().Float64VarP(&brightness, "brightness", "b", wiz.DefaultBrightness, "Brightness sent with the color (0-100)")
	return cmd
}

// newStatusCommand creates the status command
func newStatusCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "status [bulb]",
		Short: "Query bulb status; all configured bulbs when none is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			env, err := getEnv(cmd)
			if err != nil {
				return err
			}

			var targets []target
			if len(args) == 1 {
				t, err := resolveTarget(env, args[0])
				if err != nil {
					return err
				}
				targets = append(targets, t)
			} else {
				for _, b := range env.Store.List() {
					if b.IP != "" {
						targets = append(targets, target{Name: b.Name, IP: b.IP})
					}
				}
			}
			if len(targets) == 0 {
				pterm.Info.Println("No bulbs with an IP address configured")
				return nil
			}

			rows := make([]StatusRow, len(targets))
			var wg sync.WaitGroup
			for i, t := range targets {
				wg.Go(func() {
					rows[i] = queryStatus(cmd, env, t)
				})
			}
			wg.Wait()

			switch output {
			case outputYAML:
				return printYAML(rows)
			case outputParseable:
				for _, r := range rows {
					fmt.Println(StatusParseable(r))
				}
				return nil
			default:
				return pterm.DefaultTable.WithHasHeader().WithData(StatusTableData(rows)).Render()
			}
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

func queryStatus(cmd *cobra.Command, env *Env, t target) StatusRow {
	row := StatusRow{Name: t.Name, IP: t.IP}
	status, err := env.Client.GetStatus(cmd.Context(), t.IP)
	if err != nil {
		getLoggerFromCmd(cmd).Debug("status query failed", "bulb", t.Name, "ip", t.IP, "error", err)
		return row
	}
	row.Reachable = true
	row.On = status.On
	row.Brightness = status.Brightness
	row.Temperature = status.Temperature
	row.Swatch = bulb.Swatch(*status)
	return row
}

// newDiscoverCommand creates the discover command
func newDiscoverCommand() *cobra.Command {
	var (
		assign  bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Find bulbs on the local network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnv(cmd)
			if err != nil {
				return err
			}
			if timeout <= 0 {
				timeout = env.DiscoveryTimeout
			}

			spinner, _ := pterm.DefaultSpinner.WithWriter(os.Stderr).Start(fmt.Sprintf("Discovering bulbs for %s...", timeout))
			ips := env.Client.Discover(cmd.Context(), timeout)
			if spinner != nil {
				_ = spinner.Stop()
			}

			if len(ips) == 0 {
				pterm.Warning.Println("No bulbs answered")
				return nil
			}
			for _, ip := range ips {
				name := ""
				if b, err := env.Store.Find(ip); err == nil {
					name = b.Name
				}
				if name != "" {
					fmt.Printf("%s\t%s\n", ip, name)
				} else {
					fmt.Println(ip)
				}
			}

			if !assign {
				return nil
			}
			added := env.Store.AssignDiscovered(ips)
			if added == 0 {
				pterm.Info.Println("All discovered bulbs are already configured")
				return nil
			}
			if err := env.Store.Save(); err != nil {
				return fmt.Errorf("failed to save bulbs: %w", err)
			}
			pterm.Success.Printf("Added %d bulb(s)\n", added)
			return nil
		},
	}
	cmd.Flags().BoolVar(&assign, "assign", false, "Add bulbs that are not yet configured to the bulb list")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "How long to collect replies (default from config)")
	return cmd
}

// newKelvinCommand creates the kelvin command
func newKelvinCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kelvin <kelvin> [brightness]",
		Short: "Show the display color of a white temperature",
		Args:  cobra.RangeArgs(1, 2),
		// Pure color math; no config or client needed
		PersistentPreRun: func(*cobra.Command, []string) {},
		RunE: func(cmd *cobra.Command, args []string) error {
			kelvin, err := parseNumber("kelvin", args[0])
			if err != nil {
				return err
			}
			brightness := float64(wiz.DefaultBrightness)
			if len(args) == 2 {
				if brightness, err = parseNumber("brightness", args[1]); err != nil {
					return err
				}
			}
			rgb := wiz.KelvinToRGB(kelvin, brightness).To8()
			hsb := wiz.RGBToHSB(rgb)
			fmt.Printf("%s %s rgb(%d,%d,%d) hsb(%.0f,%.2f,%.2f)\n",
				swatchBlock(rgb.Hex()), rgb.Hex(), rgb.R, rgb.G, rgb.B, hsb.H, hsb.S, hsb.B)
			return nil
		},
	}
}
