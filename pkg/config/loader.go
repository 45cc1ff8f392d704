package config

import (
	_ "embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/dotsync/pkg/discovery"
	dserrors "github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/logging"
)

//go:embed embedded/defaults.yaml
var defaultConfig []byte

const (
	// EnvPrefix prefixes every configuration environment variable
	EnvPrefix  = "DOTSYNC_"
	appDirName = "dotsync"
)

// listKeys are split on commas when set from the environment, so they
// append to the file values like lists from any other layer.
var listKeys = map[string]bool{
	"ignore_items":         true,
	"track_items":          true,
	"discovery.allow_dirs": true,
}

// UserFileNames are looked up in the XDG config directory
var UserFileNames = []string{"config.yaml", "config.toml"}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Default returns the embedded default configuration
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, yaml.Parser()); err != nil {
		panic("embedded defaults are invalid: " + err.Error())
	}
	cfg, err := unmarshal(k)
	if err != nil {
		panic("embedded defaults are invalid: " + err.Error())
	}
	cfg.normalize()
	return cfg
}

// Load builds the configuration for the repository at repoRoot. A file
// that cannot be parsed, or values that cannot be decoded, make Load fall
// back to the defaults with a warning.
func Load(repoRoot string) (*Config, error) {
	return LoadWithOverrides(repoRoot, nil)
}

// LoadWithOverrides is Load with a final layer of dotted keys, such as
// "sync.policy", that take precedence over every other source.
func LoadWithOverrides(repoRoot string, overrides map[string]interface{}) (*Config, error) {
	logger := logging.GetLogger("config")

	cfg, err := load(repoRoot, overrides)
	if err != nil {
		if dserrors.IsErrorCode(err, dserrors.ErrConfigParse) {
			logger.Warn().Err(err).Msg("Invalid configuration, using defaults")
			return Default(), nil
		}
		return nil, err
	}

	logger.Debug().Strs("sources", cfg.Sources).Msg("Configuration loaded")
	return cfg, nil
}

func load(repoRoot string, overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")
	merge := koanf.WithMergeFunc(func(src, dest map[string]interface{}) error {
		mergeMaps(dest, src)
		return nil
	})

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, yaml.Parser(), merge); err != nil {
		return nil, dserrors.Wrap(err, dserrors.ErrConfigLoad, "failed to load defaults")
	}

	var sources []string
	if path, ok := findFirst(userConfigDir(), UserFileNames); ok {
		if err := k.Load(file.Provider(path), parserFor(path), merge); err != nil {
			return nil, parseErr(err, path)
		}
		sources = append(sources, path)
	}

	if repoRoot != "" {
		if path, ok := findFirst(repoRoot, discovery.ConfigFileNames); ok {
			if err := k.Load(file.Provider(path), parserFor(path), merge); err != nil {
				return nil, parseErr(err, path)
			}
			sources = append(sources, path)
		}
	}

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil, merge)
	if err != nil {
		return nil, dserrors.Wrap(err, dserrors.ErrConfigLoad, "failed to load environment")
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, dserrors.Wrap(err, dserrors.ErrConfigLoad, "failed to load overrides")
		}
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, dserrors.Wrap(err, dserrors.ErrConfigParse, "failed to decode configuration")
	}
	cfg.Sources = sources
	cfg.normalize()
	return cfg, nil
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envValue maps DOTSYNC_SYNC__POLICY to sync.policy
func envValue(name, value string) (string, interface{}) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "__", ".")
	if !listKeys[key] {
		return key, value
	}
	list := []interface{}{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return key, list
}

func parseErr(err error, path string) error {
	return dserrors.Wrapf(err, dserrors.ErrConfigParse, "failed to parse %s", path).
		WithDetail("path", path)
}

func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Parser()
	}
	return yaml.Parser()
}

// userConfigDir reads XDG_CONFIG_HOME at call time
func userConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = xdg.ConfigHome
	}
	return filepath.Join(base, appDirName)
}

// UserConfigPath is where genconfig suggests writing the user file
func UserConfigPath() string {
	return filepath.Join(userConfigDir(), UserFileNames[0])
}

func findFirst(dir string, names []string) (string, bool) {
	for _, name := range names {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, true
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger := logging.GetLogger("config")
			logger.Warn().Err(err).Str("path", path).Msg("Cannot inspect config file")
		}
	}
	return "", false
}

// mergeMaps merges src into dest: nested maps are merged, lists are
// appended and everything else is overwritten.
func mergeMaps(dest, src map[string]interface{}) {
	for key, srcVal := range src {
		destVal, destOk := dest[key]
		if !destOk {
			dest[key] = srcVal
			continue
		}

		if srcMap, srcOk := srcVal.(map[string]interface{}); srcOk {
			if destMap, destOk := destVal.(map[string]interface{}); destOk {
				mergeMaps(destMap, srcMap)
				continue
			}
		}

		if isSlice(srcVal) && isSlice(destVal) {
			dest[key] = appendSlices(destVal, srcVal)
			continue
		}

		dest[key] = srcVal
	}
}

func isSlice(v interface{}) bool {
	if v == nil {
		return false
	}
	return reflect.TypeOf(v).Kind() == reflect.Slice
}

func appendSlices(dest, src interface{}) []interface{} {
	var out []interface{}
	for _, s := range []interface{}{dest, src} {
		rv := reflect.ValueOf(s)
		for i := 0; i < rv.Len(); i++ {
			out = append(out, rv.Index(i).Interface())
		}
	}
	return out
}
