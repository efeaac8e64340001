package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/spritesheet-cli/internal/manifest"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a built spritesheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	path, err := findManifest(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.ReadJSON(path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	printStats(cmd.OutOrStdout(), m)
	return nil
}

// findManifest resolves a directory to the single manifest inside it.
func findManifest(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return path, nil
	}
	matches, err := filepath.Glob(filepath.Join(path, "*"+manifest.Suffix))
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no *%s in %s", manifest.Suffix, path)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("%d manifests in %s; pass one explicitly", len(matches), path)
}

func printStats(w io.Writer, m *manifest.Manifest) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Manifest version: %d\n", m.Version)
	fmt.Fprintf(w, "  Generated:        %s\n", m.GeneratedAt)
	fmt.Fprintf(w, "  Name:             %s\n", m.Name)
	if m.Profile != "" {
		fmt.Fprintf(w, "  Profile:          %s\n", m.Profile)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Atlas:            %s (%d x %d px, %s)\n", m.Image, m.Width, m.Height, formatBytes(m.Size))
	format := m.Format
	if m.Downgraded {
		format += " (requested " + m.RequestedFormat + ")"
	}
	fmt.Fprintf(w, "  Format:           %s\n", format)
	fmt.Fprintf(w, "  Scale:            %g%%\n", m.Scale)
	fmt.Fprintf(w, "  Padding:          %d px\n", m.Padding)
	fmt.Fprintf(w, "  Quality:          %g\n", m.Quality)
	fmt.Fprintln(w)

	s := m.Stats
	fmt.Fprintf(w, "  Images:           %d\n", s.Images)
	if s.Skipped > 0 {
		fmt.Fprintf(w, "  Skipped:          %d\n", s.Skipped)
	}
	fmt.Fprintf(w, "  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Fprintf(w, "  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	if s.TotalInputBytes > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
		fmt.Fprintf(w, "  Compression:      %.1f%% of original\n", ratio)
	}
	if m.Width > 0 && m.Height > 0 {
		var used int
		for _, f := range m.Frames {
			used += f.Width * f.Height
		}
		fmt.Fprintf(w, "  Fill:             %.1f%% of canvas\n", float64(used)/float64(m.Width*m.Height)*100)
	}
	fmt.Fprintln(w)

	if len(m.Frames) == 0 {
		return
	}

	// Height breakdown.
	heights := map[int]int{}
	for _, f := range m.Frames {
		heights[f.Height]++
	}
	var hs []int
	for h := range heights {
		hs = append(hs, h)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(hs)))
	fmt.Fprintln(w, "  Height breakdown:")
	for _, h := range hs {
		fmt.Fprintf(w, "    %5dpx  %4d frames\n", h, heights[h])
	}
	fmt.Fprintln(w)

	// Warnings.
	var warnings []string
	for _, f := range m.Frames {
		if f.Height < m.Height/2 {
			warnings = append(warnings, fmt.Sprintf("frame %q is %dpx tall, under half the atlas height", f.Name, f.Height))
		}
	}
	if m.Downgraded {
		warnings = append(warnings, fmt.Sprintf("format downgraded from %s to %s", m.RequestedFormat, m.Format))
	}
	if len(warnings) > 0 {
		fmt.Fprintf(w, "  Warnings (%d):\n", len(warnings))
		fmt.Fprintf(w, "    ⚠ %s\n", strings.Join(warnings, "\n    ⚠ "))
		fmt.Fprintln(w)
	}
}
