package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leo-lp/png/internal/profile"
)

// profileFlags are the encode settings shared by build and encode.
type profileFlags struct {
	name      string
	level     int
	interlace bool
	chunkSize int
	format    string
}

func (pf *profileFlags) register(c *cobra.Command) {
	c.Flags().StringVarP(&pf.name, "profile", "p", "default", fmt.Sprintf("encode profile %v", profile.Names()))
	c.Flags().IntVarP(&pf.level, "level", "l", 0, "zlib level 1-9 (0 = profile default, -1 = store)")
	c.Flags().BoolVar(&pf.interlace, "interlace", false, "write Adam7 interlaced images")
	c.Flags().IntVar(&pf.chunkSize, "chunk-size", 0, "maximum IDAT payload in bytes (0 = profile default)")
	c.Flags().StringVarP(&pf.format, "format", "f", "", "pixel format name or \"auto\" (empty = profile default)")
}

// resolve loads the named profile and applies the flags the user set.
func (pf *profileFlags) resolve(c *cobra.Command) (profile.Profile, error) {
	prof := profile.Get(pf.name)
	if pf.level != 0 {
		if pf.level > 9 {
			return prof, fmt.Errorf("--level %d: must be at most 9", pf.level)
		}
		prof.Level = pf.level
	}
	if c.Flags().Changed("interlace") {
		prof.Interlace = pf.interlace
	}
	if pf.chunkSize < 0 {
		return prof, fmt.Errorf("--chunk-size %d: must not be negative", pf.chunkSize)
	}
	if pf.chunkSize > 0 {
		prof.ChunkSize = pf.chunkSize
	}
	if pf.format != "" {
		prof.Format = pf.format
	}
	return prof, nil
}
