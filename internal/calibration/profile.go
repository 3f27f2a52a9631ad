package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// CurrentProfileVersion identifies the profile format. Bump it whenever the
// stored fields change meaning so stale files are rejected instead of
// misread.
const CurrentProfileVersion = 1

// DefaultProfileFileName is the default name for the calibration profile
// file, stored in the user's home directory.
const DefaultProfileFileName = ".primefac_calibration.json"

// Profile records the measured throughput of the arithmetic kernels on a
// specific machine. A profile is only trusted on the hardware it was
// measured on: IsValid compares the recorded fingerprint against the
// current host.
type Profile struct {
	// Hardware fingerprint.
	CPUModel  string `json:"cpu_model"`
	NumCPU    int    `json:"num_cpu"`
	GOARCH    string `json:"goarch"`
	GOOS      string `json:"goos"`
	GoVersion string `json:"go_version"`
	WordSize  int    `json:"word_size"` // 32 or 64 bits

	// Measured kernel throughput. MulMod counts modular multiplications,
	// Rho counts full walk iterations (square, increment, gcd), Trial
	// counts candidate divisor probes.
	MulModOpsPerSec float64 `json:"mulmod_ops_per_sec"`
	RhoStepsPerSec  float64 `json:"rho_steps_per_sec"`
	TrialDivsPerSec float64 `json:"trial_divs_per_sec"`

	// Calibration metadata.
	CalibratedAt    time.Time `json:"calibrated_at"`
	CalibrationTime string    `json:"calibration_time"`
	ProfileVersion  int       `json:"profile_version"`
}

// NewProfile creates a profile describing the current hardware. The
// throughput fields start at zero and are filled in by a benchmark run.
func NewProfile() *Profile {
	return &Profile{
		CPUModel:       getCPUModel(),
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       32 << (^uint(0) >> 63),
		CalibratedAt:   time.Now(),
		ProfileVersion: CurrentProfileVersion,
	}
}

// getCPUModel returns a coarse identifier for the current CPU. Go does not
// expose the CPU model name portably, so the architecture and core count
// stand in for it.
func getCPUModel() string {
	return fmt.Sprintf("%s-%d-cores", runtime.GOARCH, runtime.NumCPU())
}

// GetDefaultProfilePath returns the default location of the calibration
// profile. If the home directory cannot be determined, the bare file name is
// returned so the profile lands in the working directory.
func GetDefaultProfilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(homeDir, DefaultProfileFileName)
}

// LoadProfile loads a calibration profile from the given path.
// An empty path means the default location.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		path = GetDefaultProfilePath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading calibration profile: %w", err)
	}
	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parsing calibration profile: %w", err)
	}
	return &profile, nil
}

// SaveProfile writes the profile to the given path as indented JSON.
// An empty path means the default location. The file is created with mode
// 0600 since it lives in the user's home directory.
func (p *Profile) SaveProfile(path string) error {
	if path == "" {
		path = GetDefaultProfilePath()
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding calibration profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing calibration profile: %w", err)
	}
	return nil
}

// IsValid reports whether the profile can be trusted on the current host.
// The format version, CPU count, architecture, and word size must all match,
// and every measured rate must be positive.
func (p *Profile) IsValid() bool {
	if p == nil {
		return false
	}
	if p.ProfileVersion != CurrentProfileVersion {
		return false
	}
	if p.NumCPU != runtime.NumCPU() {
		return false
	}
	if p.GOARCH != runtime.GOARCH {
		return false
	}
	if p.WordSize != 32<<(^uint(0)>>63) {
		return false
	}
	return p.MulModOpsPerSec > 0 && p.RhoStepsPerSec > 0 && p.TrialDivsPerSec > 0
}

// IsStale reports whether the profile is older than maxAge. A nil profile is
// always stale.
func (p *Profile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

// String returns a human-readable summary of the profile.
func (p *Profile) String() string {
	return fmt.Sprintf("Profile{CPU: %s, MulMod: %s ops/s, Rho: %s steps/s, Trial: %s divs/s, Calibrated: %s}",
		p.CPUModel,
		formatRate(p.MulModOpsPerSec),
		formatRate(p.RhoStepsPerSec),
		formatRate(p.TrialDivsPerSec),
		p.CalibratedAt.Format(time.RFC3339))
}

// LoadOrCreateProfile loads the profile at path when present and parseable,
// otherwise returns a fresh profile for the current hardware. The boolean
// reports whether an existing profile was loaded.
func LoadOrCreateProfile(path string) (*Profile, bool) {
	profile, err := LoadProfile(path)
	if err != nil {
		return NewProfile(), false
	}
	return profile, true
}

// ProfileExists reports whether a profile file exists at the given path.
// An empty path means the default location.
func ProfileExists(path string) bool {
	if path == "" {
		path = GetDefaultProfilePath()
	}
	_, err := os.Stat(path)
	return err == nil
}
