package config

import "github.com/urfave/cli/v3"

// Extract holds options of the extract command
type Extract struct {
	Output string
	Open   bool
	Force  bool
	Quiet  bool
}

// Flags returns CLI flags for extract configuration
func (c *Extract) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output root directory; images go to <output>/<name>_images (default: next to each document)",
			Destination: &c.Output,
			Sources:     cli.EnvVars("OFFICEIMG_OUTPUT"),
		},
		&cli.BoolFlag{
			Name:        "open",
			Usage:       "Open the output directory in the file browser after extraction",
			Destination: &c.Open,
			Sources:     cli.EnvVars("OFFICEIMG_OPEN"),
		},
		&cli.BoolFlag{
			Name:        "force",
			Aliases:     []string{"f"},
			Usage:       "Process files regardless of their extension",
			Destination: &c.Force,
		},
		&cli.BoolFlag{
			Name:        "quiet",
			Aliases:     []string{"q"},
			Usage:       "Do not print progress lines",
			Destination: &c.Quiet,
		},
	}
}

// ApplyProfile fills values that were not set on the command line
func (c *Extract) ApplyProfile(cmd IsSetter, p *Profile) {
	if p == nil {
		return
	}
	if !cmd.IsSet("output") && p.Extract.Output != "" {
		c.Output = p.Extract.Output
	}
	if !cmd.IsSet("open") && p.Extract.Open != nil {
		c.Open = *p.Extract.Open
	}
}
