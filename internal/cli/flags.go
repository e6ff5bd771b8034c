package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// GlobalFlags are read before the App is built, because they decide which
// config and connectivity the App starts with.
type GlobalFlags struct {
	ConfigFile string
	Offline    bool
}

// BindGlobalFlags registers the global flags on fs.
func BindGlobalFlags(fs *pflag.FlagSet) *GlobalFlags {
	g := &GlobalFlags{}
	fs.StringVar(&g.ConfigFile, "config", "", "config file (default ~/.roadmap/config.yaml)")
	fs.BoolVar(&g.Offline, "offline", false, "start offline; edits queue locally until the store is reachable")
	return g
}

// ParseGlobalFlags extracts the global flags from a raw argument list,
// ignoring everything else.
func ParseGlobalFlags(args []string) (*GlobalFlags, error) {
	fs := pflag.NewFlagSet("roadmap", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	g := BindGlobalFlags(fs)
	if err := fs.Parse(args); err != nil && err != pflag.ErrHelp {
		return nil, err
	}
	return g, nil
}

// dateFlag parses a YYYY-MM-DD flag value.
func dateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	s, err := cmd.Flags().GetString(name)
	if err != nil {
		return time.Time{}, err
	}
	t, err := domain.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", name, err)
	}
	return t, nil
}

// changedDate returns a pointer to the parsed flag value, or nil when the
// flag was not given.
func changedDate(cmd *cobra.Command, name string) (*time.Time, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	t, err := dateFlag(cmd, name)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// changedString returns a pointer to the flag value, or nil when unset.
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	s, _ := cmd.Flags().GetString(name)
	return &s
}

// optionalString returns nil for an empty value.
func optionalString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// parseWaypoint parses "x,y".
func parseWaypoint(s string) (domain.Waypoint, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return domain.Waypoint{}, fmt.Errorf("invalid waypoint %q (expected x,y)", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return domain.Waypoint{}, fmt.Errorf("invalid waypoint %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return domain.Waypoint{}, fmt.Errorf("invalid waypoint %q: %w", s, err)
	}
	return domain.Waypoint{X: x, Y: y}, nil
}

// requireFlags reports the first missing required flag.
func requireFlags(cmd *cobra.Command, names ...string) error {
	for _, n := range names {
		if !cmd.Flags().Changed(n) {
			return fmt.Errorf("required flag --%s not set", n)
		}
	}
	return nil
}

// daysBetween returns the whole calendar days from one date to another.
func daysBetween(from, to time.Time) int {
	return int(domain.TruncateDay(to).Sub(domain.TruncateDay(from)).Hours() / 24)
}
