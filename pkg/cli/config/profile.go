package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// Profile is a TOML file with default values for commands. Flags set on the
// command line or through environment variables take precedence.
//
//	[extract]
//	output = "/home/me/Pictures/office"
//	open = true
//
//	[server]
//	addr = "0.0.0.0:8080"
//	max_upload_size = 134217728
//	job_source_root = "/srv/documents"
//	job_output_root = "/srv/officeimg"
type Profile struct {
	Extract struct {
		Output string `toml:"output"`
		Open   *bool  `toml:"open"`
	} `toml:"extract"`

	Server struct {
		Addr          string `toml:"addr"`
		MaxUploadSize int64  `toml:"max_upload_size"`
		JobSourceRoot string `toml:"job_source_root"`
		JobOutputRoot string `toml:"job_output_root"`
	} `toml:"server"`
}

// IsSetter reports whether a flag was given explicitly, e.g. *cli.Command
type IsSetter interface {
	IsSet(name string) bool
}

// LoadProfile reads a profile from path. An empty path returns nil without error.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(err, "profile not found", goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to open profile", goerr.V("path", path))
	}
	defer func() { _ = f.Close() }()

	var profile Profile
	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&profile); err != nil {
		return nil, goerr.Wrap(err, "failed to parse profile", goerr.V("path", path))
	}

	if profile.Server.MaxUploadSize < 0 {
		return nil, goerr.New("server.max_upload_size must not be negative",
			goerr.V("path", path), goerr.V("value", profile.Server.MaxUploadSize))
	}

	return &profile, nil
}
