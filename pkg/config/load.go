package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// LoadOptions controls how the settings file is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// Load resolves and reads the settings file. Without an explicit path it looks
// for FileName in the working directory and falls back to Default when there
// is none. The returned path is empty when defaults were used.
func Load(options LoadOptions) (*Configuration, string, error) {
	path, err := resolvePath(options)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return Default(), "", nil
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// LoadFile reads one settings file. Keys absent from the file keep their
// default values.
func LoadFile(path string) (*Configuration, error) {
	reader := newReader()
	reader.SetConfigFile(path)
	if err := reader.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read configuration from %s: %w", path, err)
	}
	return decode(reader, path)
}

// Save writes cfg as YAML to path.
func Save(path string, cfg *Configuration) error {
	content, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("write configuration to %s: %w", path, err)
	}
	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Configuration) (string, error) {
	content, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode configuration: %w", err)
	}
	return string(content), nil
}

func resolvePath(options LoadOptions) (string, error) {
	if options.ExplicitFilePath != "" {
		path := options.ExplicitFilePath
		if !filepath.IsAbs(path) && options.WorkingDirectory != "" {
			path = filepath.Join(options.WorkingDirectory, path)
		}
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("stat configuration %s: %w", path, err)
		}
		return path, nil
	}

	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		current, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = current
	}

	path := filepath.Join(workingDirectory, FileName)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("stat configuration %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("configuration path %s is a directory", path)
	}
	return path, nil
}

// newReader returns a viper instance preloaded with the defaults so partial
// files only override what they mention.
func newReader() *viper.Viper {
	reader := viper.New()
	defaults := Default()
	reader.SetDefault("tag_style", string(defaults.TagStyle))
	reader.SetDefault("tag_indentation", defaults.TagIndentation)
	reader.SetDefault("line_width", defaults.LineWidth)
	reader.SetDefault("smart_comments", defaults.SmartComments)
	reader.SetDefault("smart_comments_for_all_functions", defaults.SmartCommentsForAllFunctions)
	reader.SetDefault("author", defaults.Author)
	reader.SetDefault("abbreviations", map[string]string{})
	reader.SetDefault("templates.brief_setter", defaults.Templates.BriefSetter)
	reader.SetDefault("templates.brief_getter", defaults.Templates.BriefGetter)
	reader.SetDefault("templates.brief_bool_getter", defaults.Templates.BriefBoolGetter)
	reader.SetDefault("templates.param_setter", defaults.Templates.ParamSetter)
	reader.SetDefault("templates.param_boolean", defaults.Templates.ParamBoolean)
	reader.SetDefault("templates.param_output", defaults.Templates.ParamOutput)
	reader.SetDefault("templates.return", defaults.Templates.Return)
	reader.SetDefault("templates.return_boolean", defaults.Templates.ReturnBoolean)
	return reader
}

func decode(reader *viper.Viper, path string) (*Configuration, error) {
	var cfg Configuration
	if err := reader.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode configuration from %s: %w", path, err)
	}
	if cfg.Abbreviations == nil {
		cfg.Abbreviations = map[string]string{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return &cfg, nil
}
