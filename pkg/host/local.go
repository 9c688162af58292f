package host

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/endfix/pkg/errors"
)

// LocalServer is a Server backed by a Loop and a Dispatcher
type LocalServer struct {
	worldDir   string
	levelName  string
	loop       *Loop
	dispatcher Dispatcher
}

// NewLocalServer creates a server for the save at worldDir
func NewLocalServer(worldDir string, loop *Loop, dispatcher Dispatcher) *LocalServer {
	return &LocalServer{
		worldDir:   worldDir,
		levelName:  filepath.Base(worldDir),
		loop:       loop,
		dispatcher: dispatcher,
	}
}

// ForWorld returns a server sharing this one's loop and dispatcher but
// pointed at another save
func (s *LocalServer) ForWorld(worldDir string) *LocalServer {
	return NewLocalServer(worldDir, s.loop, s.dispatcher)
}

func (s *LocalServer) WorldDir() string { return s.worldDir }

func (s *LocalServer) LevelName() string { return s.levelName }

func (s *LocalServer) Execute(task func()) { s.loop.Execute(task) }

func (s *LocalServer) Dispatch(command string) error { return s.dispatcher.Dispatch(command) }

// Activation is one parsed dimension-load line
type Activation struct {
	WorldDir  string
	Dimension DimensionID
}

// ParseActivation reads "<world-dir> <dimension>" or "<dimension>". An
// empty WorldDir means the default save. Blank lines and lines starting
// with '#' return ok == false.
func ParseActivation(line string) (Activation, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Activation{}, false, nil
	}

	fields := strings.Fields(line)
	switch len(fields) {
	case 1:
		return Activation{Dimension: DimensionID(fields[0])}, true, nil
	case 2:
		return Activation{WorldDir: fields[0], Dimension: DimensionID(fields[1])}, true, nil
	default:
		return Activation{}, false, errors.Newf(errors.ErrInvalidInput,
			"expected \"<world-dir> <dimension>\" or \"<dimension>\", got %q", line)
	}
}
