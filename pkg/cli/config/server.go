package config

import "github.com/urfave/cli/v3"

const defaultMaxUploadSize = 64 << 20

// Server holds server configuration
type Server struct {
	Addr          string
	MaxUploadSize int64
	JobSourceRoot string
	JobOutputRoot string
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("OFFICEIMG_ADDR"),
		},
		&cli.Int64Flag{
			Name:        "max-upload-size",
			Usage:       "Maximum size in bytes of an uploaded document",
			Value:       defaultMaxUploadSize,
			Destination: &c.MaxUploadSize,
			Sources:     cli.EnvVars("OFFICEIMG_MAX_UPLOAD_SIZE"),
		},
		&cli.StringFlag{
			Name:        "job-source-root",
			Usage:       "Directory that job source documents must lie under; the job API is disabled without it",
			Destination: &c.JobSourceRoot,
			Sources:     cli.EnvVars("OFFICEIMG_JOB_SOURCE_ROOT"),
		},
		&cli.StringFlag{
			Name:        "job-output-root",
			Usage:       "Directory that job output roots must lie under, also the default output root",
			Destination: &c.JobOutputRoot,
			Sources:     cli.EnvVars("OFFICEIMG_JOB_OUTPUT_ROOT"),
		},
	}
}

// ApplyProfile fills values that were not set on the command line
func (c *Server) ApplyProfile(cmd IsSetter, p *Profile) {
	if p == nil {
		return
	}
	if !cmd.IsSet("addr") && p.Server.Addr != "" {
		c.Addr = p.Server.Addr
	}
	if !cmd.IsSet("max-upload-size") && p.Server.MaxUploadSize > 0 {
		c.MaxUploadSize = p.Server.MaxUploadSize
	}
	if !cmd.IsSet("job-source-root") && p.Server.JobSourceRoot != "" {
		c.JobSourceRoot = p.Server.JobSourceRoot
	}
	if !cmd.IsSet("job-output-root") && p.Server.JobOutputRoot != "" {
		c.JobOutputRoot = p.Server.JobOutputRoot
	}
}
