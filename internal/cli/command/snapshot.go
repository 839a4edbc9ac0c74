package command

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/snapset/internal/cli/output"
	"github.com/yndnr/snapset/pkg/cset"
)

// Slot roles in a destination layout.
const (
	roleElement  = "element"
	roleSentinel = "sentinel"
	roleUnused   = "unused"
)

// SnapshotCommand returns the snapshot command.
func SnapshotCommand() *cli.Command {
	return &cli.Command{
		Name:      "snapshot",
		Usage:     "Load elements into a concurrent set and print its snapshot",
		ArgsUsage: "[ELEMENT...]",
		Description: "Elements come from the arguments, or from stdin one per line when none are given.\n" +
			"With --buffer the snapshot is copied into a destination of that length and the\n" +
			"resulting layout is shown, including the empty sentinel slot after the last element.",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "buffer",
				Aliases: []string{"b"},
				Usage:   "Copy into a destination of `N` slots instead of a new array",
			},
			&cli.IntFlag{
				Name:  "shards",
				Usage: "Shard count of the set (power of two)",
				Value: cset.DefaultShardCount,
			},
		},
		Action: snapshotAction,
	}
}

func snapshotAction(c *cli.Context) error {
	cfg, _, err := loadConfig(c)
	if err != nil {
		return err
	}
	log, err := newLogger(c, cfg)
	if err != nil {
		return err
	}

	buffer := c.Int("buffer")
	if buffer < 0 {
		return fmt.Errorf("--buffer must not be negative, got %d", buffer)
	}

	elements := c.Args().Slice()
	if len(elements) == 0 {
		in := c.App.Reader
		if in == nil {
			in = os.Stdin
		}
		if elements, err = readLines(in); err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}

	set := cset.New[string](cset.WithShardCount(c.Int("shards")))
	added := set.AddAll(elements...)
	log.Debug("set loaded", "given", len(elements), "distinct", added, "shards", set.ShardCount())

	if !c.IsSet("buffer") {
		return render(c, set.ToSlice())
	}

	dst := make([]string, buffer)
	got := set.CopyInto(dst)
	reused := len(got) <= len(dst)
	if !reused {
		log.Info("destination too small, allocated a new array", "buffer", buffer, "count", len(got))
	}
	return render(c, layout(got, dst, reused))
}

// layout describes every slot of the array that holds a CopyInto result.
func layout(got, dst []string, reused bool) *output.Table {
	t := &output.Table{}
	t.SetHeaders("SLOT", "VALUE", "ROLE")

	slots := got
	if reused {
		slots = dst
	}
	for i, v := range slots {
		role := roleElement
		switch {
		case i == len(got):
			role = roleSentinel
		case i > len(got):
			role = roleUnused
		}
		t.AddRow(strconv.Itoa(i), v, role)
	}
	return t
}

// readLines returns the non-blank lines of r, trimmed.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}
