package cli

import (
	"github.com/spf13/cobra"
)

// ScenarioInfo describes one builtin scenario for the scenarios command.
type ScenarioInfo struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Params      map[string]string `json:"params"`
}

// builtinScenarios documents the params understood by scenario.buildBuiltin,
// kept in sync with their defaults by hand since the schema is descriptive,
// not machine-checked.
var builtinScenarios = []ScenarioInfo{
	{
		Name:        "box_stack",
		Description: "Stack of boxes on a ground plane",
		Params: map[string]string{
			"count":    "int, default 10",
			"box_size": "[x,y,z] meters, default [1,1,1]",
			"friction": "float, default 0.5",
		},
	},
	{
		Name:        "rolling_sphere",
		Description: "Sphere rolling on a flat surface",
		Params: map[string]string{
			"radius":           "float, default 0.5",
			"initial_velocity": "[x,y,z] m/s, default [5,0,0]",
			"friction":         "float, default 0.5",
		},
	},
	{
		Name:        "bouncing_ball",
		Description: "Ball dropped from a height",
		Params: map[string]string{
			"radius":      "float, default 0.5",
			"drop_height": "float meters, default 10",
			"restitution": "float, default 0.8",
		},
	},
	{
		Name:        "friction_ramp",
		Description: "Object sliding down an inclined ramp",
		Params: map[string]string{
			"ramp_angle":  "radians, default 0.5",
			"ramp_length": "meters, default 10",
			"friction":    "float, default 0.3",
		},
	},
}

// NewScenariosCommand creates the scenarios command.
func NewScenariosCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "scenarios",
		Short:         "List available built-in scenarios",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if rootOpts.Format == "json" {
				return formatter.Success(builtinScenarios)
			}
			cmd.Println("Available built-in scenarios:")
			for _, s := range builtinScenarios {
				cmd.Printf("  %-15s - %s\n", s.Name, s.Description)
			}
			return nil
		},
	}
	return cmd
}
