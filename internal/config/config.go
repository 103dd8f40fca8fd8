package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"treekit/internal/checkbox"
	"treekit/internal/engine"
	appErrors "treekit/internal/errors"
	"treekit/internal/search"
	"treekit/internal/tree"
)

const (
	KeyCheckable       = "tree.checkable"
	KeyAccordion       = "tree.accordion"
	KeyCheckMode       = "tree.check-mode"
	KeyCheckStrictly   = "tree.check-strictly" // Deprecated: use KeyCheckMode.
	KeyFilterable      = "tree.filterable"
	KeySearchable      = "tree.searchable"
	KeyDefaultExpanded = "tree.default-expanded"
	KeyDefaultChecked  = "tree.default-checked"
	KeyDefaultSelected = "tree.default-selected"
	KeyExpandDepth     = "tree.expand-depth"

	KeyFieldID       = "fields.id"
	KeyFieldParentID = "fields.parent-id"
	KeyFieldName     = "fields.name"
	KeyFieldIcon     = "fields.icon"

	KeySearchMode       = "search.mode"
	KeySearchDebounce   = "search.debounce"
	KeySearchLoop       = "search.loop"
	KeySearchNavigation = "search.navigation"
	KeySearchShowCount  = "search.show-count"

	KeyViewDetail  = "view.detail-format"
	KeyViewBuffer  = "view.buffer"
	KeyViewCompact = "view.compact-folders"

	KeySourcePath   = "source.path"
	KeySourceFormat = "source.format"
	KeySourceTable  = "source.table"
	KeySourceWatch  = "source.watch"

	KeyTheme = "theme"
)

const (
	// DefaultSearchDebounce matches the delay the interactive searcher uses.
	DefaultSearchDebounce = 200 * time.Millisecond
	// DefaultViewBuffer is the number of off-screen rows rendered on each side.
	DefaultViewBuffer = 10

	configDirName = ".treekit"
	envPrefix     = "TK"
)

type initSettings struct {
	workingDir        string
	projectConfigPath string
	userConfigPath    string
}

// Option configures Initialize behaviour. Useful for tests to override paths.
type Option func(*initSettings)

// WithWorkingDir overrides the directory used for project config discovery.
func WithWorkingDir(dir string) Option {
	return func(cfg *initSettings) {
		cfg.workingDir = dir
	}
}

// WithProjectConfig explicitly sets the project config path instead of discovery.
func WithProjectConfig(path string) Option {
	return func(cfg *initSettings) {
		cfg.projectConfigPath = path
	}
}

// WithUserConfig overrides the default user config path.
func WithUserConfig(path string) Option {
	return func(cfg *initSettings) {
		cfg.userConfigPath = path
	}
}

var (
	configOnce sync.Once
	configMu   sync.RWMutex
	configInst *viper.Viper
	initErr    error

	// paths resolved by the last configure, used by Save.
	resolvedUserPath    string
	resolvedProjectPath string
)

// Initialize loads configuration using the precedence:
// defaults < user config < project config < environment variables < overrides.
func Initialize(opts ...Option) error {
	configOnce.Do(func() {
		settings := initSettings{}
		for _, opt := range opts {
			opt(&settings)
		}
		initErr = configure(&settings)
	})
	return initErr
}

// ApplyOverrides injects values typically coming from CLI flags.
func ApplyOverrides(overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}
	if err := Initialize(); err != nil {
		return err
	}
	configMu.Lock()
	defer configMu.Unlock()
	if configInst == nil {
		return fmt.Errorf("configuration not initialized")
	}
	for k, v := range overrides {
		configInst.Set(k, v)
	}
	return nil
}

// GetString fetches a string configuration value, initializing on demand.
func GetString(key string) string {
	v, err := getViper()
	if err != nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool fetches a bool configuration value, initializing on demand.
func GetBool(key string) bool {
	v, err := getViper()
	if err != nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt fetches an integer configuration value, initializing on demand.
func GetInt(key string) int {
	v, err := getViper()
	if err != nil {
		return 0
	}
	return v.GetInt(key)
}

// GetDuration fetches a duration configuration value, initializing on demand.
func GetDuration(key string) time.Duration {
	v, err := getViper()
	if err != nil {
		return 0
	}
	return v.GetDuration(key)
}

// GetStringSlice fetches a list value. A comma separated string from the
// environment is split.
func GetStringSlice(key string) []string {
	v, err := getViper()
	if err != nil {
		return nil
	}
	raw := v.GetStringSlice(key)
	var out []string
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Set updates a configuration key at runtime, initializing on demand.
func Set(key string, value any) error {
	if err := Initialize(); err != nil {
		return err
	}
	configMu.Lock()
	defer configMu.Unlock()
	if configInst == nil {
		return fmt.Errorf("configuration not initialized")
	}
	configInst.Set(key, value)
	return nil
}

// Fields returns the configured record field names.
func Fields() tree.FieldMapper {
	return tree.FieldMapper{
		ID:       GetString(KeyFieldID),
		ParentID: GetString(KeyFieldParentID),
		Name:     GetString(KeyFieldName),
		Icon:     GetString(KeyFieldIcon),
	}.WithDefaults()
}

// CheckMode resolves tree.check-mode, honouring the older
// tree.check-strictly flag when the mode is not set explicitly.
func CheckMode() (checkbox.Mode, error) {
	v, err := getViper()
	if err != nil {
		return checkbox.Cascading, err
	}
	if !v.IsSet(KeyCheckMode) && v.GetBool(KeyCheckStrictly) {
		return checkbox.Strict, nil
	}
	mode, err := checkbox.ParseMode(v.GetString(KeyCheckMode))
	if err != nil {
		return checkbox.Cascading, appErrors.New(appErrors.CodeConfigurationError, fmt.Sprintf("%s: %v", KeyCheckMode, err), err)
	}
	return mode, nil
}

// EngineOptions assembles engine options from the loaded configuration.
func EngineOptions() (engine.Options, error) {
	opts := engine.DefaultOptions()
	if _, err := getViper(); err != nil {
		return opts, err
	}

	mode, err := CheckMode()
	if err != nil {
		return opts, err
	}
	searchMode, err := search.ParseMode(GetString(KeySearchMode))
	if err != nil {
		return opts, appErrors.New(appErrors.CodeConfigurationError, fmt.Sprintf("%s: %v", KeySearchMode, err), err)
	}

	opts.Checkable = GetBool(KeyCheckable)
	opts.Accordion = GetBool(KeyAccordion)
	opts.Filterable = GetBool(KeyFilterable)
	opts.Searchable = GetBool(KeySearchable)
	opts.CheckStrictly = mode == checkbox.Strict
	opts.CompactFolders = GetBool(KeyViewCompact)
	opts.DefaultExpanded = GetStringSlice(KeyDefaultExpanded)
	opts.DefaultChecked = GetStringSlice(KeyDefaultChecked)
	opts.DefaultSelected = GetStringSlice(KeyDefaultSelected)
	opts.Fields = Fields()
	opts.SearchMode = searchMode
	return opts, nil
}

func configure(settings *initSettings) error {
	workingDir := strings.TrimSpace(settings.workingDir)
	if workingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("determine working directory: %w", err)
		}
		workingDir = wd
	}

	userConfigPath := strings.TrimSpace(settings.userConfigPath)
	if userConfigPath == "" {
		path, err := defaultUserConfigPath()
		if err != nil {
			return err
		}
		userConfigPath = path
	}

	projectConfigPath := strings.TrimSpace(settings.projectConfigPath)
	if projectConfigPath == "" {
		path, err := findProjectConfig(workingDir)
		if err != nil {
			return err
		}
		projectConfigPath = path
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := mergeConfigFile(v, userConfigPath); err != nil {
		return appErrors.New(appErrors.CodeConfigurationError, "load user config", err)
	}
	if err := mergeConfigFile(v, projectConfigPath); err != nil {
		return appErrors.New(appErrors.CodeConfigurationError, "load project config", err)
	}

	configMu.Lock()
	defer configMu.Unlock()
	configInst = v
	resolvedUserPath = userConfigPath
	resolvedProjectPath = projectConfigPath
	return nil
}

func mergeConfigFile(v *viper.Viper, path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", path)
	}
	//nolint:gosec // G304: Config loader intentionally reads user and project config files
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine user home: %w", err)
	}
	return filepath.Join(home, configDirName, "config.yaml"), nil
}

func findProjectConfig(startDir string) (string, error) {
	if strings.TrimSpace(startDir) == "" {
		return "", nil
	}
	dir := startDir
	for {
		candidate := filepath.Join(dir, configDirName, "config.yaml")
		info, err := os.Stat(candidate)
		if err == nil {
			if info.IsDir() {
				return "", fmt.Errorf("config path %s is a directory", candidate)
			}
			return candidate, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func setDefaults(v *viper.Viper) {
	def := tree.DefaultFieldMapper()

	v.SetDefault(KeyCheckable, true)
	v.SetDefault(KeyAccordion, false)
	// KeyCheckMode has no default so the legacy flag can be detected.
	v.SetDefault(KeyFilterable, true)
	v.SetDefault(KeySearchable, true)
	v.SetDefault(KeyDefaultExpanded, []string{})
	v.SetDefault(KeyDefaultChecked, []string{})
	v.SetDefault(KeyDefaultSelected, []string{})
	v.SetDefault(KeyExpandDepth, 1)

	v.SetDefault(KeyFieldID, def.ID)
	v.SetDefault(KeyFieldParentID, def.ParentID)
	v.SetDefault(KeyFieldName, def.Name)
	v.SetDefault(KeyFieldIcon, def.Icon)

	v.SetDefault(KeySearchMode, search.ModeIndex.String())
	v.SetDefault(KeySearchDebounce, DefaultSearchDebounce)
	v.SetDefault(KeySearchLoop, true)
	v.SetDefault(KeySearchNavigation, true)
	v.SetDefault(KeySearchShowCount, true)

	v.SetDefault(KeyViewDetail, "dark")
	v.SetDefault(KeyViewBuffer, DefaultViewBuffer)
	v.SetDefault(KeyViewCompact, false)

	v.SetDefault(KeySourcePath, "")
	v.SetDefault(KeySourceFormat, "")
	v.SetDefault(KeySourceTable, "nodes")
	v.SetDefault(KeySourceWatch, false)

	v.SetDefault(KeyTheme, "default")
}

func getViper() (*viper.Viper, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}
	configMu.RLock()
	defer configMu.RUnlock()
	if configInst == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	return configInst, nil
}

// reset clears package state for tests.
func reset() {
	configMu.Lock()
	defer configMu.Unlock()
	configInst = nil
	initErr = nil
	configOnce = sync.Once{}
	resolvedUserPath = ""
	resolvedProjectPath = ""
}

// ResetForTesting clears package state for tests in other packages.
// Returns a cleanup function that should be deferred.
func ResetForTesting(t interface{ TempDir() string }) func() {
	reset()
	tmp := t.TempDir()
	_ = Initialize(WithWorkingDir(tmp), WithUserConfig(filepath.Join(tmp, "user.yaml")))
	return reset
}

// Save persists one key to the project config when one was found, otherwise
// to the user config. The user config directory is created if needed; a
// project config directory never is. The running configuration is updated
// too.
func Save(key string, value any) error {
	targetPath, err := writableConfigPath()
	if err != nil {
		return appErrors.New(appErrors.CodeConfigurationError, "find config path", err)
	}

	// A fresh viper per file keeps defaults and env values out of it.
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(targetPath)
	_ = v.ReadInConfig()
	v.Set(key, value)

	//nolint:gosec // G301: User config directory needs standard permissions
	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return appErrors.New(appErrors.CodeConfigurationError, "create config directory", err)
	}
	if err := v.WriteConfigAs(targetPath); err != nil {
		return appErrors.New(appErrors.CodeConfigurationError, "write config", err)
	}
	return Set(key, value)
}

func writableConfigPath() (string, error) {
	if err := Initialize(); err != nil {
		return "", err
	}
	configMu.RLock()
	defer configMu.RUnlock()
	if resolvedProjectPath != "" {
		if _, err := os.Stat(resolvedProjectPath); err == nil {
			return resolvedProjectPath, nil
		}
	}
	if resolvedUserPath != "" {
		return resolvedUserPath, nil
	}
	return defaultUserConfigPath()
}
