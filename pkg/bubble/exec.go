package bubble

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/asmscope/pkg/asm"
	asmerr "github.com/matzehuels/asmscope/pkg/errors"
)

// Exec runs the spqr program to propose candidates.
type Exec struct {
	Path   string      // spqr binary
	Dir    string      // Directory for the link and output files; a temporary directory when empty
	Keep   bool        // Keep the link and output files after the run
	Logger *log.Logger // Receives spqr's combined output at debug level
}

// Find writes the link file, runs "spqr -l links -o bicmps" and parses the
// output file. A failed run is a COLLABORATOR error.
func (x Exec) Find(ctx context.Context, links []asm.Link) ([]Candidate, error) {
	logger := x.Logger
	if logger == nil {
		logger = log.Default()
	}

	dir := x.Dir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "asmscope-spqr-")
		if err != nil {
			return nil, asmerr.Wrap(asmerr.ErrCodeCollaborator, err, "create spqr work dir")
		}
		dir = tmp
		if !x.Keep {
			defer os.RemoveAll(tmp)
		}
	}

	linksPath := filepath.Join(dir, "links")
	outPath := filepath.Join(dir, "bicmps")

	f, err := os.Create(linksPath)
	if err != nil {
		return nil, asmerr.Wrap(asmerr.ErrCodeCollaborator, err, "create link file")
	}
	if err := WriteLinks(f, links); err != nil {
		f.Close()
		return nil, asmerr.Wrap(asmerr.ErrCodeCollaborator, err, "write link file")
	}
	if err := f.Close(); err != nil {
		return nil, asmerr.Wrap(asmerr.ErrCodeCollaborator, err, "write link file")
	}
	if x.Dir != "" && !x.Keep {
		defer os.Remove(linksPath)
		defer os.Remove(outPath)
	}

	cmd := exec.CommandContext(ctx, x.Path, "-l", linksPath, "-o", outPath)
	out, err := cmd.CombinedOutput()
	if len(out) > 0 {
		logger.Debug("spqr output", "lines", strings.Count(string(out), "\n"), "output", strings.TrimSpace(string(out)))
	}
	if err != nil {
		return nil, asmerr.Wrap(asmerr.ErrCodeCollaborator, err, "run %s", x.Path)
	}

	res, err := os.Open(outPath)
	if err != nil {
		return nil, asmerr.Wrap(asmerr.ErrCodeCollaborator, err, "open spqr output")
	}
	defer res.Close()
	return ParseCandidates(res)
}
