package usecase

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/officeimg/pkg/domain/types"
)

// maxNameAttempts bounds the search for a free destination name
const maxNameAttempts = 10000

// destinationPlan assigns collision free file names inside an output directory.
// A name is taken when it exists on disk or was claimed earlier in the same run.
type destinationPlan struct {
	dir     string
	claimed map[string]struct{} // case folded
}

func newDestinationPlan(dir string) *destinationPlan {
	return &destinationPlan{
		dir:     dir,
		claimed: make(map[string]struct{}),
	}
}

// claim reserves a name for an entry whose base name is base and whose 1-based
// position among kept entries is counter. Candidates are tried in order:
// base, <stem>_<counter><ext>, <stem>_<counter>_2<ext>, <stem>_<counter>_3<ext>, ...
func (p *destinationPlan) claim(base string, counter int) (name string, renamed bool, err error) {
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		candidate := candidateName(base, counter, attempt)
		key := strings.ToLower(candidate)
		if _, ok := p.claimed[key]; ok {
			continue
		}

		exists, err := p.existsOnDisk(candidate)
		if err != nil {
			return "", false, err
		}
		if exists {
			continue
		}

		p.claimed[key] = struct{}{}
		return candidate, attempt > 0, nil
	}

	return "", false, goerr.New("no free destination name",
		goerr.V("dir", p.dir), goerr.V("base", base), goerr.T(types.ErrTagIOFailure))
}

func (p *destinationPlan) path(name string) string {
	return filepath.Join(p.dir, name)
}

func (p *destinationPlan) existsOnDisk(name string) (bool, error) {
	_, err := os.Lstat(p.path(name))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, goerr.Wrap(err, "failed to check destination file",
			goerr.V("path", p.path(name)), goerr.T(types.ErrTagIOFailure))
	}
}

func candidateName(base string, counter, attempt int) string {
	if attempt == 0 {
		return base
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if attempt == 1 {
		return fmt.Sprintf("%s_%d%s", stem, counter, ext)
	}
	return fmt.Sprintf("%s_%d_%d%s", stem, counter, attempt, ext)
}
