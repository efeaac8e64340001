package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/spritesheet-cli/internal/manifest"
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest_path>",
	Short: "Validate a spritesheet manifest and check the atlas file",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	manifestPath, err := findManifest(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.ReadJSON(manifestPath)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	out := cmd.OutOrStdout()
	errs := manifest.Validate(m, filepath.Dir(manifestPath))
	if len(errs) == 0 {
		fmt.Fprintln(out, "  ✓ Manifest is valid")
		fmt.Fprintf(out, "  ✓ %d frames, %s present and matches its hash\n", len(m.Frames), m.Image)
		return nil
	}

	fmt.Fprintf(out, "  ✗ Manifest has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(out, "    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}
