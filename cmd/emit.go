package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/spritesheet-cli/internal/emitter"
	"github.com/AnyUserName/spritesheet-cli/internal/manifest"
	"github.com/AnyUserName/spritesheet-cli/internal/pipeline"
	"github.com/AnyUserName/spritesheet-cli/internal/profile"
)

var (
	emitHelper bool
	emitName   string
)

var emitCmd = &cobra.Command{
	Use:   "emit <manifest> [code|alt|positions|table]",
	Short: "Regenerate a text artifact from a manifest",
	Long: `Rebuilds the layout recorded in a manifest, without reading any image,
and prints one artifact to stdout (default: code).`,
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: []string{profile.EmitCode, profile.EmitAlt, profile.EmitPositions, "table"},
	RunE:      runEmit,
}

func init() {
	emitCmd.Flags().BoolVar(&emitHelper, "helper", false, "include the Sprite helpers in the snippet")
	emitCmd.Flags().StringVarP(&emitName, "name", "n", "", "override the export base name")
	rootCmd.AddCommand(emitCmd)
}

func runEmit(cmd *cobra.Command, args []string) error {
	kind := profile.EmitCode
	if len(args) == 2 {
		kind = args[1]
	}

	m, err := manifest.ReadJSON(args[0])
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	l, err := m.Layout()
	if err != nil {
		return fmt.Errorf("rebuild layout: %w", err)
	}
	req := m.Request()
	if emitName != "" {
		req.BaseName = emitName
	}

	out := cmd.OutOrStdout()
	if kind == "table" {
		table, ok := emitter.Table(l, req)
		if !ok {
			return nil
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	}

	text, err := pipeline.Render(kind, l, req, emitHelper)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, text)
	return err
}
