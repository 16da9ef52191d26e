package controller

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"emg-logger/models"
	"emg-logger/utils"
	"emg-logger/views"
)

// SessionController owns the file set of the current recording session.
//
// A session is one set of stream files sharing a token, <prefix>-<token>.csv.
// Every connect starts a new session; disconnects leave the files open.
// The controller is Idle until Open and after Close.
type SessionController struct {
	cfg    utils.StorageConfig
	clock  utils.Clock
	store  *SampleStore
	device string

	active   bool
	id       string
	token    int64
	started  time.Time
	writers  map[views.Stream]*views.CSVWriter
	sessions int

	statsEvery time.Duration
	lastStats  time.Time
	lastFused  time.Time
}

// NewSessionController returns an idle controller writing under cfg.BaseDir.
func NewSessionController(cfg utils.StorageConfig, clock utils.Clock, store *SampleStore, device string) *SessionController {
	if cfg.BaseDir == "" {
		cfg.BaseDir = "."
	}
	return &SessionController{
		cfg:    cfg,
		clock:  clock,
		store:  store,
		device: device,
	}
}

// SetStatsInterval enables periodic per-stream stats from Tick. Zero disables.
func (sc *SessionController) SetStatsInterval(d time.Duration) {
	sc.statsEvery = d
}

// Open closes any open files and starts a new session. Files that cannot be
// created are logged and their rows dropped; Open itself never fails.
func (sc *SessionController) Open() {
	if sc.active {
		sc.closeSession()
	}

	now := sc.clock.Now()
	sc.token = utils.SessionToken(now, sc.token)
	sc.id = uuid.NewString()
	sc.started = now
	sc.lastFused = now
	sc.lastStats = now
	sc.sessions++

	if err := os.MkdirAll(sc.cfg.BaseDir, 0755); err != nil {
		utils.L().Warn("create storage dir %s: %v", sc.cfg.BaseDir, err)
	}

	streams := views.SessionStreams
	if sc.cfg.Fused.Enabled {
		streams = append(append([]views.Stream(nil), streams...), views.StreamFused)
	}

	sc.writers = make(map[views.Stream]*views.CSVWriter, len(streams))
	for _, s := range streams {
		path := filepath.Join(sc.cfg.BaseDir, utils.StreamFileName(s.String(), sc.token, "csv"))
		sc.writers[s] = views.NewCSVWriter(path, views.SchemaColumns[s], s.LazyHeader())
	}
	sc.active = true

	if sc.cfg.Manifest {
		sc.writeManifest(nil)
	}
	utils.L().Info("session opened  (token=%d, dir=%s, streams=%d)", sc.token, sc.cfg.BaseDir, len(streams))
}

// OnConnect starts a fresh session for the reconnected device.
func (sc *SessionController) OnConnect() {
	sc.Open()
}

// OnDisconnect clears the cached EMG reading. Files stay open so late IMU
// rows still land in the current session.
func (sc *SessionController) OnDisconnect() {
	sc.store.Reset(models.ChannelEMG)
}

// Close flushes and closes every file. The controller returns to Idle.
func (sc *SessionController) Close() {
	if !sc.active {
		return
	}
	sc.closeSession()
}

func (sc *SessionController) closeSession() {
	for _, w := range sc.writers {
		if err := w.Close(); err != nil {
			utils.L().Warn("close %s: %v", w.Path(), err)
		}
	}
	if sc.cfg.Manifest {
		ended := sc.clock.Now()
		sc.writeManifest(&ended)
	}
	sc.LogStats()
	utils.L().Info("session closed  (token=%d)", sc.token)
	sc.active = false
}

// Append writes one row to a stream of the current session. It is a no-op
// while Idle or for a stream the session did not open.
func (sc *SessionController) Append(s views.Stream, row []string) {
	if !sc.active {
		return
	}
	if w, ok := sc.writers[s]; ok {
		w.WriteRow(row)
	}
}

// Tick runs the periodic work of the poll loop: a fused snapshot row when
// one is due, and stats logging.
func (sc *SessionController) Tick(now time.Time) {
	if !sc.active {
		return
	}
	if sc.cfg.Fused.Enabled {
		interval := time.Duration(sc.cfg.Fused.IntervalMs) * time.Millisecond
		if now.Sub(sc.lastFused) >= interval {
			rec := sc.store.Snapshot()
			sc.Append(views.StreamFused, rec.CSVRow())
			sc.lastFused = now
		}
	}
	if sc.statsEvery > 0 && now.Sub(sc.lastStats) >= sc.statsEvery {
		sc.LogStats()
		sc.lastStats = now
	}
}

// LogStats prints row and drop counters for every stream of the session.
func (sc *SessionController) LogStats() {
	utils.L().Info("── session %d stats ──", sc.token)
	for _, s := range sc.streams() {
		w := sc.writers[s]
		utils.L().Info("  %-17s rows=%d  dropped=%d", s, w.Rows(), w.Dropped())
	}
}

func (sc *SessionController) streams() []views.Stream {
	out := make([]views.Stream, 0, len(sc.writers))
	for _, s := range views.AllStreams {
		if _, ok := sc.writers[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Active reports whether a session is open.
func (sc *SessionController) Active() bool { return sc.active }

// Token returns the token of the current (or last) session.
func (sc *SessionController) Token() int64 { return sc.token }

// Sessions returns how many sessions have been opened.
func (sc *SessionController) Sessions() int { return sc.sessions }

// Paths returns the file of each stream of the current session.
func (sc *SessionController) Paths() map[views.Stream]string {
	out := make(map[views.Stream]string, len(sc.writers))
	for s, w := range sc.writers {
		out[s] = w.Path()
	}
	return out
}

// Rows returns the number of rows written to a stream of the current session.
func (sc *SessionController) Rows(s views.Stream) uint64 {
	if w, ok := sc.writers[s]; ok {
		return w.Rows()
	}
	return 0
}

// ManifestPath returns the manifest file of the current session.
func (sc *SessionController) ManifestPath() string {
	return filepath.Join(sc.cfg.BaseDir, utils.StreamFileName("session", sc.token, "yaml"))
}

// Manifest describes one session on disk.
type Manifest struct {
	ID        string         `yaml:"id"`
	Token     int64          `yaml:"token"`
	Device    string         `yaml:"device"`
	StartedAt time.Time      `yaml:"started_at"`
	EndedAt   *time.Time     `yaml:"ended_at,omitempty"`
	Files     []ManifestFile `yaml:"files"`
}

type ManifestFile struct {
	Stream  string `yaml:"stream"`
	Name    string `yaml:"name"`
	Rows    uint64 `yaml:"rows"`
	Dropped uint64 `yaml:"dropped,omitempty"`
}

func (sc *SessionController) writeManifest(ended *time.Time) {
	m := Manifest{
		ID:        sc.id,
		Token:     sc.token,
		Device:    sc.device,
		StartedAt: sc.started,
		EndedAt:   ended,
	}
	for _, s := range sc.streams() {
		w := sc.writers[s]
		m.Files = append(m.Files, ManifestFile{
			Stream:  s.String(),
			Name:    filepath.Base(w.Path()),
			Rows:    w.Rows(),
			Dropped: w.Dropped(),
		})
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		utils.L().Warn("encode manifest: %v", err)
		return
	}
	if err := os.WriteFile(sc.ManifestPath(), data, 0644); err != nil {
		utils.L().Warn("write manifest %s: %v", sc.ManifestPath(), err)
	}
}

// ReadManifest loads a manifest written by a session.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m := &Manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return m, nil
}
